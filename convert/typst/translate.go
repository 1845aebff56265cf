// Package typst translates parsed Markdown documents into Typst markup
// styled by a resolved theme.
package typst

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"mdprint/content"
	"mdprint/markdown"
	"mdprint/theme"
	"mdprint/warnings"
)

// Heading is TOC index entry.
type Heading struct {
	Level  int
	Title  string
	Anchor string
}

// Footnote is emitted footnote in order of first reference.
type Footnote struct {
	Label  string
	Number int
}

// Result of translation. Markup is complete document, Body is the part
// produced by the document walk.
type Result struct {
	Markup    string
	Preamble  string
	Body      string
	Headings  []Heading
	Footnotes []Footnote
	Settings  Settings
}

type fontRoles struct {
	heading, body, mono []string
}

type internalLink struct {
	anchor  string
	content string
}

// emitter is per translation state. Nesting is tracked with explicit
// counters, never derived from recursion.
type emitter struct {
	t         *theme.Tokens
	settings  Settings
	fonts     fontRoles
	dir       string
	collector *warnings.Collector

	listDepth  int
	quoteDepth int
	noIndent   bool

	definitions map[string]*markdown.FootnoteDefinition
	footnoteIdx map[string]int
	footnotes   []Footnote

	headings []Heading
	anchors  map[string]int
	internal []internalLink
}

// Translate walks document once and produces themed markup. Content level
// problems are reported to collector and never fail translation.
func Translate(c *content.Content, r *theme.Resolved, opts Options, collector *warnings.Collector) (*Result, error) {
	if c == nil || c.Doc == nil {
		return nil, errors.New("no document to translate")
	}
	if r == nil {
		return nil, errors.New("theme is not resolved")
	}

	t := r.Tokens()
	e := &emitter{
		t:           &t,
		settings:    resolveSettings(&t, c.FrontMatter, opts),
		fonts:       selectRoles(r, opts.Fonts),
		dir:         c.Dir,
		collector:   collector,
		definitions: make(map[string]*markdown.FootnoteDefinition),
		footnoteIdx: make(map[string]int),
		anchors:     make(map[string]int),
	}
	e.collectDefinitions(c.Doc.Children)

	var body strings.Builder
	e.blocks(&body, c.Doc.Children)
	bodyText := e.resolveInternalLinks(body.String())

	preamble := e.preamble(r.ID())

	var out strings.Builder
	out.WriteString(preamble)
	out.WriteString("\n")
	if e.settings.TitlePage && len(e.settings.Title) > 0 {
		out.WriteString(e.titlePage())
	}
	if e.settings.TOC {
		out.WriteString(e.toc())
	}
	out.WriteString(bodyText)

	return &Result{
		Markup:    out.String(),
		Preamble:  preamble,
		Body:      bodyText,
		Headings:  e.headings,
		Footnotes: e.footnotes,
		Settings:  e.settings,
	}, nil
}

func selectRoles(r *theme.Resolved, sel *theme.FontSelection) fontRoles {
	if sel != nil {
		return fontRoles{heading: sel.Heading, body: sel.Body, mono: sel.Mono}
	}
	chains := r.FontChains()
	return fontRoles{heading: chains.Heading, body: chains.Body, mono: chains.Mono}
}

// collectDefinitions indexes footnote definitions so each one can be emitted
// at its first reference.
func (e *emitter) collectDefinitions(nodes []markdown.Node) {
	for _, n := range nodes {
		if d, ok := n.(*markdown.FootnoteDefinition); ok {
			if _, seen := e.definitions[d.Label]; !seen {
				e.definitions[d.Label] = d
			}
		}
	}
}

func (e *emitter) indentMode() bool {
	return e.t.Text.SpacingMode == "indent" || e.t.Text.SpacingMode == "both"
}

// anchor returns unique label for heading text.
func (e *emitter) anchor(text string) string {
	base := slug.Make(text)
	if len(base) == 0 {
		base = "section"
	}
	name := base
	for {
		n := e.anchors[name]
		e.anchors[name] = n + 1
		if n == 0 {
			return name
		}
		name = base + "-" + strconv.Itoa(n)
		if _, taken := e.anchors[name]; !taken {
			e.anchors[name] = 1
			return name
		}
	}
}

func (e *emitter) blocks(b *strings.Builder, nodes []markdown.Node) {
	for _, n := range nodes {
		e.block(b, n)
	}
}

// blocksString renders blocks into separate buffer and trims trailing
// paragraph breaks.
func (e *emitter) blocksString(nodes []markdown.Node) string {
	var b strings.Builder
	e.blocks(&b, nodes)
	return strings.TrimSpace(b.String())
}

func (e *emitter) block(b *strings.Builder, n markdown.Node) {
	switch v := n.(type) {
	case *markdown.Document:
		e.blocks(b, v.Children)
	case *markdown.FrontMatter:
		// consumed before the walk
	case *markdown.FootnoteDefinition:
		// emitted at first reference
	case *markdown.Heading:
		e.heading(b, v)
	case *markdown.Paragraph:
		e.paragraph(b, v.Children)
	case *markdown.CodeBlock:
		e.codeBlock(b, v)
	case *markdown.List:
		e.list(b, v)
	case *markdown.ListItem:
		b.WriteString(e.listItem(v, true))
		b.WriteString("\n\n")
	case *markdown.Table:
		e.table(b, v)
	case *markdown.TableCell:
		e.paragraph(b, v.Children)
	case *markdown.Blockquote:
		e.blockquote(b, v)
	case *markdown.Alert:
		e.alert(b, v)
	case *markdown.Math:
		b.WriteString(displayMath(v.Value))
		b.WriteString("\n\n")
	case *markdown.DescriptionList:
		e.descriptionList(b, v)
	case *markdown.DescriptionTerm:
		e.descriptionList(b, &markdown.DescriptionList{Children: []markdown.Node{v}})
	case *markdown.DescriptionDetails:
		e.descriptionList(b, &markdown.DescriptionList{Children: []markdown.Node{v}})
	case *markdown.ThematicBreak:
		e.thematicBreak(b)
	case *markdown.HTMLBlock:
		if s := e.htmlBlock(v.Raw); len(s) > 0 {
			b.WriteString(s)
			b.WriteString("\n\n")
		}
	case *markdown.Image:
		e.paragraph(b, []markdown.Node{v})
	case *markdown.Text, *markdown.SoftBreak, *markdown.HardBreak, *markdown.Emphasis,
		*markdown.Strong, *markdown.Strikethrough, *markdown.Highlight, *markdown.CodeSpan,
		*markdown.Link, *markdown.Wikilink, *markdown.FootnoteReference, *markdown.HTMLInline,
		*markdown.Emoji:
		e.paragraph(b, []markdown.Node{v})
	default:
		panic(fmt.Sprintf("typst: unhandled node %T", n))
	}
}

// inlineWriter tracks whether the last thing written was embedded code, text
// starting with "(", "[" or "." would otherwise continue the expression.
type inlineWriter struct {
	b    strings.Builder
	expr bool
	open []htmlTag
}

// htmlTag is element started by raw HTML, n is number of brackets closing
// it.
type htmlTag struct {
	tag string
	n   int
}

func (w *inlineWriter) text(s string) {
	if len(s) == 0 {
		return
	}
	if w.expr && strings.ContainsRune("([.", rune(s[0])) {
		w.b.WriteByte(';')
	}
	w.b.WriteString(s)
	w.expr = false
}

func (w *inlineWriter) code(s string) {
	if len(s) == 0 {
		return
	}
	w.b.WriteString(s)
	w.expr = true
}

// openTag starts content blocks closed later by closeTag or finish. Every
// prefix must end with opening bracket.
func (w *inlineWriter) openTag(tag string, prefixes ...string) {
	for _, p := range prefixes {
		w.b.WriteString(p)
	}
	w.open = append(w.open, htmlTag{tag: tag, n: len(prefixes)})
	w.expr = false
}

func (w *inlineWriter) closeTag(tag string) {
	for i := len(w.open) - 1; i >= 0; i-- {
		if w.open[i].tag != tag {
			continue
		}
		w.closeFrom(i)
		w.expr = true
		return
	}
}

func (w *inlineWriter) closeFrom(i int) {
	for _, o := range w.open[i:] {
		w.b.WriteString(strings.Repeat("]", o.n))
	}
	w.open = w.open[:i]
}

func (w *inlineWriter) finish() string {
	w.closeFrom(0)
	return w.b.String()
}

func (e *emitter) inlineString(nodes []markdown.Node) string {
	w := &inlineWriter{}
	for _, n := range nodes {
		e.inline(w, n)
	}
	return w.finish()
}

func (e *emitter) inline(w *inlineWriter, n markdown.Node) {
	t := e.t
	switch v := n.(type) {
	case *markdown.Text:
		w.text(escapeText(v.Value))
	case *markdown.SoftBreak:
		w.text(" ")
	case *markdown.HardBreak:
		w.code("#linebreak()")
	case *markdown.Emphasis:
		w.code("#emph[" + e.inlineString(v.Children) + "]")
	case *markdown.Strong:
		w.code("#strong[" + e.inlineString(v.Children) + "]")
	case *markdown.Strikethrough:
		if len(t.Emphasis.StrikethroughColor) > 0 {
			w.code("#strike(stroke: " + stroke("0.5pt", t.Emphasis.StrikethroughColor) + ")[" + e.inlineString(v.Children) + "]")
		} else {
			w.code("#strike[" + e.inlineString(v.Children) + "]")
		}
	case *markdown.Highlight:
		inner := e.inlineString(v.Children)
		if len(t.Highlight.TextColor) > 0 {
			inner = "#text(fill: " + rgb(t.Highlight.TextColor) + ")[" + inner + "]"
		}
		w.code(fmt.Sprintf("#highlight(fill: %s, radius: %s)[%s]",
			paint(t.Highlight.Fill, t.Highlight.FillOpacity), or(t.Highlight.BorderRadius, "0pt"), inner))
	case *markdown.CodeSpan:
		w.code("#raw(" + quote(v.Value) + ")")
	case *markdown.Link:
		w.code(e.link(v.URL, e.inlineString(v.Children)))
	case *markdown.Wikilink:
		display := v.Display
		if len(display) == 0 {
			display = v.Target
		}
		w.code("#text(fill: " + rgb(t.Links.Color) + ")[" + escapeText(display) + "]")
	case *markdown.Image:
		w.code(e.image(v, false))
	case *markdown.FootnoteReference:
		w.code(e.footnoteRef(v.Label))
	case *markdown.Math:
		if v.Display {
			w.code(displayMath(v.Value))
		} else {
			w.code("$" + strings.TrimSpace(v.Value) + "$")
		}
	case *markdown.HTMLInline:
		e.inlineHTML(w, v.Raw)
	case *markdown.Emoji:
		w.text(escapeText(v.Value))
	case *markdown.Paragraph:
		w.code(e.inlineString(v.Children))
	case *markdown.TableCell:
		w.code(e.inlineString(v.Children))
	case *markdown.DescriptionTerm:
		w.code(e.inlineString(v.Children))
	case *markdown.Heading:
		w.code(e.inlineString(v.Children))
	case *markdown.FrontMatter, *markdown.FootnoteDefinition:
	case *markdown.Document, *markdown.CodeBlock, *markdown.List, *markdown.ListItem,
		*markdown.Table, *markdown.Blockquote, *markdown.Alert, *markdown.DescriptionList,
		*markdown.DescriptionDetails, *markdown.ThematicBreak, *markdown.HTMLBlock:
		var b strings.Builder
		e.block(&b, v)
		w.code(strings.TrimSpace(b.String()))
	default:
		panic(fmt.Sprintf("typst: unhandled inline node %T", n))
	}
}

func displayMath(value string) string {
	return "$ " + strings.TrimSpace(value) + " $"
}

// link renders external links directly. Internal "#anchor" links are
// resolved once all headings are known.
func (e *emitter) link(url, text string) string {
	if frag, ok := strings.CutPrefix(url, "#"); ok && len(frag) > 0 {
		e.internal = append(e.internal, internalLink{anchor: frag, content: text})
		return placeholder(len(e.internal) - 1)
	}
	if len(text) == 0 {
		return "#link(" + quote(url) + ")"
	}
	return "#link(" + quote(url) + ")[" + text + "]"
}

func placeholder(i int) string {
	return "\x00L" + strconv.Itoa(i) + "\x00"
}

// resolveInternalLinks replaces placeholders with links to existing heading
// labels. Anchors without heading degrade to styled text.
func (e *emitter) resolveInternalLinks(body string) string {
	for i, l := range e.internal {
		var repl string
		anchor := slug.Make(l.anchor)
		if _, ok := e.anchors[anchor]; ok && len(anchor) > 0 {
			repl = "#link(<" + anchor + ">)[" + l.content + "]"
		} else {
			repl = "#text(fill: " + rgb(e.t.Links.Color) + ")[" + l.content + "]"
		}
		body = strings.Replace(body, placeholder(i), repl, 1)
	}
	return body
}

// footnoteRef emits definition at first reference, later references point
// to the same note.
func (e *emitter) footnoteRef(label string) string {
	if n, ok := e.footnoteIdx[label]; ok {
		return "#footnote(<fn:" + strconv.Itoa(n) + ">)"
	}
	def, ok := e.definitions[label]
	if !ok {
		return escapeText("[^" + label + "]")
	}
	n := len(e.footnotes) + 1
	e.footnoteIdx[label] = n
	e.footnotes = append(e.footnotes, Footnote{Label: label, Number: n})

	saved := e.noIndent
	e.noIndent = false
	text := e.blocksString(def.Children)
	e.noIndent = saved
	return "#footnote[" + text + "]<fn:" + strconv.Itoa(n) + ">"
}
