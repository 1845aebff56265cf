package markdown

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	emoji "github.com/yuin/goldmark-emoji"
	emojiast "github.com/yuin/goldmark-emoji/ast"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	east "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Parser converts Markdown source into document tree. It is safe for
// concurrent use.
type Parser struct {
	md goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Footnote,
				extension.DefinitionList,
				emoji.Emoji,
				&syntaxExtensions{},
			),
		),
	}
}

// Parse parses source with default parser.
func Parse(source []byte) (*Document, error) {
	return NewParser().Parse(source)
}

// Parse splits off front matter and converts the rest. Front matter, when
// present, is the first child of the returned document.
func (p *Parser) Parse(source []byte) (*Document, error) {
	fm, body, found := splitFrontMatter(source)

	root := p.md.Parser().Parse(text.NewReader(body))

	c := &converter{source: body, footnotes: make(map[int]string)}
	if err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if fn, ok := n.(*east.Footnote); ok && entering {
			c.footnotes[fn.Index] = string(fn.Ref)
		}
		return ast.WalkContinue, nil
	}); err != nil {
		return nil, err
	}

	doc := &Document{}
	if found {
		doc.Children = append(doc.Children, &FrontMatter{Raw: string(fm)})
	}
	doc.Children = append(doc.Children, c.blocks(root)...)
	return doc, nil
}

// splitFrontMatter separates leading YAML block delimited by "---" lines.
// Closing delimiter may also be "...".
func splitFrontMatter(src []byte) (fm, body []byte, found bool) {
	src = bytes.TrimPrefix(src, []byte("\xef\xbb\xbf"))
	first, rest, ok := bytes.Cut(src, []byte("\n"))
	if !ok || string(bytes.TrimRight(first, " \t\r")) != "---" {
		return nil, src, false
	}
	for pos := 0; pos <= len(rest); {
		line, next, more := bytes.Cut(rest[pos:], []byte("\n"))
		trimmed := string(bytes.TrimRight(line, " \t\r"))
		if trimmed == "---" || trimmed == "..." {
			if !more {
				return rest[:pos], nil, true
			}
			return rest[:pos], next, true
		}
		if !more {
			break
		}
		pos += len(line) + 1
	}
	return nil, src, false
}

type converter struct {
	source    []byte
	footnotes map[int]string
}

func (c *converter) blocks(parent ast.Node) []Node {
	var out []Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.block(n)...)
	}
	return out
}

func (c *converter) lines(n ast.Node) string {
	var b strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(c.source))
	}
	return b.String()
}

func (c *converter) block(n ast.Node) []Node {
	switch v := n.(type) {
	case *ast.Heading:
		return []Node{&Heading{Level: v.Level, Children: c.inlines(v)}}
	case *ast.Paragraph, *ast.TextBlock:
		return c.paragraph(c.inlines(v))
	case *ast.ThematicBreak:
		return []Node{&ThematicBreak{}}
	case *ast.FencedCodeBlock:
		return []Node{&CodeBlock{
			Lang:   string(v.Language(c.source)),
			Value:  c.lines(v),
			Fenced: true,
		}}
	case *ast.CodeBlock:
		return []Node{&CodeBlock{Value: c.lines(v)}}
	case *ast.Blockquote:
		if alert := c.alert(v); alert != nil {
			return []Node{alert}
		}
		return []Node{&Blockquote{Children: c.blocks(v)}}
	case *ast.List:
		list := &List{Ordered: v.IsOrdered(), Start: v.Start, Tight: v.IsTight}
		for item := v.FirstChild(); item != nil; item = item.NextSibling() {
			if li, ok := item.(*ast.ListItem); ok {
				list.Items = append(list.Items, c.listItem(li))
			}
		}
		return []Node{list}
	case *ast.HTMLBlock:
		raw := c.lines(v)
		if v.HasClosure() {
			raw += string(v.ClosureLine.Value(c.source))
		}
		return []Node{&HTMLBlock{Raw: raw}}
	case *east.Table:
		return []Node{c.table(v)}
	case *east.FootnoteList:
		var out []Node
		for fn := v.FirstChild(); fn != nil; fn = fn.NextSibling() {
			if f, ok := fn.(*east.Footnote); ok {
				out = append(out, &FootnoteDefinition{Label: string(f.Ref), Children: c.blocks(f)})
			}
		}
		return out
	case *east.DefinitionList:
		dl := &DescriptionList{}
		for ch := v.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch d := ch.(type) {
			case *east.DefinitionTerm:
				dl.Children = append(dl.Children, &DescriptionTerm{Children: c.inlines(d)})
			case *east.DefinitionDescription:
				dl.Children = append(dl.Children, &DescriptionDetails{Children: c.blocks(d)})
			}
		}
		return []Node{dl}
	case *ast.Document:
		return c.blocks(v)
	}
	if n.Type() == ast.TypeBlock {
		return c.blocks(n)
	}
	return nil
}

// paragraph promotes paragraph consisting of display math only into block
// math node. Paragraphs left empty after extraction of markers are dropped.
func (c *converter) paragraph(inlines []Node) []Node {
	if len(inlines) == 0 {
		return nil
	}
	if len(inlines) == 1 {
		if m, ok := inlines[0].(*Math); ok && m.Display {
			return []Node{m}
		}
	}
	return []Node{&Paragraph{Children: inlines}}
}

func (c *converter) listItem(li *ast.ListItem) *ListItem {
	item := &ListItem{}
	if first := li.FirstChild(); first != nil {
		if cb, ok := first.FirstChild().(*east.TaskCheckBox); ok {
			item.Task = TaskUnchecked
			if cb.IsChecked {
				item.Task = TaskChecked
			}
		}
	}
	item.Children = c.blocks(li)
	return item
}

func (c *converter) table(t *east.Table) *Table {
	out := &Table{Align: make([]Alignment, len(t.Alignments))}
	for i, a := range t.Alignments {
		switch a {
		case east.AlignLeft:
			out.Align[i] = AlignLeft
		case east.AlignCenter:
			out.Align[i] = AlignCenter
		case east.AlignRight:
			out.Align[i] = AlignRight
		}
	}
	cells := func(row ast.Node) []*TableCell {
		var cs []*TableCell
		for cell := row.FirstChild(); cell != nil; cell = cell.NextSibling() {
			cs = append(cs, &TableCell{Children: c.inlines(cell)})
		}
		return cs
	}
	for row := t.FirstChild(); row != nil; row = row.NextSibling() {
		switch r := row.(type) {
		case *east.TableHeader:
			out.Header = cells(r)
		case *east.TableRow:
			out.Rows = append(out.Rows, cells(r))
		}
	}
	return out
}

var alertMarker = regexp.MustCompile(`^\[!([A-Za-z]+)\]$`)

var alertTypes = map[string]AlertType{
	"NOTE":      AlertNote,
	"TIP":       AlertTip,
	"IMPORTANT": AlertImportant,
	"WARNING":   AlertWarning,
	"CAUTION":   AlertCaution,
}

// alert recognizes blockquote whose first line is "[!TYPE]". Only text nodes
// may precede the first line break.
func (c *converter) alert(bq *ast.Blockquote) *Alert {
	para, ok := bq.FirstChild().(*ast.Paragraph)
	if !ok {
		return nil
	}
	var (
		marker []byte
		rest   ast.Node
	)
	for n := para.FirstChild(); n != nil; n = n.NextSibling() {
		t, ok := n.(*ast.Text)
		if !ok {
			return nil
		}
		marker = append(marker, t.Segment.Value(c.source)...)
		if t.SoftLineBreak() || t.HardLineBreak() {
			rest = n.NextSibling()
			break
		}
	}
	m := alertMarker.FindSubmatch(bytes.TrimSpace(marker))
	if m == nil {
		return nil
	}
	typ, ok := alertTypes[strings.ToUpper(string(m[1]))]
	if !ok {
		return nil
	}

	alert := &Alert{Type: typ}
	var first []Node
	for n := rest; n != nil; n = n.NextSibling() {
		first = append(first, c.inline(n)...)
	}
	alert.Children = append(alert.Children, c.paragraph(mergeText(first))...)
	for n := para.NextSibling(); n != nil; n = n.NextSibling() {
		alert.Children = append(alert.Children, c.block(n)...)
	}
	return alert
}

func (c *converter) inlines(parent ast.Node) []Node {
	var out []Node
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		out = append(out, c.inline(n)...)
	}
	return mergeText(out)
}

func unescape(v []byte) string {
	v = util.UnescapePunctuations(v)
	v = util.ResolveNumericReferences(v)
	v = util.ResolveEntityNames(v)
	return string(v)
}

func (c *converter) inline(n ast.Node) []Node {
	switch v := n.(type) {
	case *ast.Text:
		var value string
		if v.IsRaw() {
			value = string(v.Segment.Value(c.source))
		} else {
			value = unescape(v.Segment.Value(c.source))
		}
		out := []Node{&Text{Value: value}}
		switch {
		case v.HardLineBreak():
			out = append(out, &HardBreak{})
		case v.SoftLineBreak():
			out = append(out, &SoftBreak{})
		}
		return out
	case *ast.String:
		return []Node{&Text{Value: string(v.Value)}}
	case *ast.Emphasis:
		if v.Level >= 2 {
			return []Node{&Strong{Children: c.inlines(v)}}
		}
		return []Node{&Emphasis{Children: c.inlines(v)}}
	case *ast.CodeSpan:
		var b strings.Builder
		for ch := v.FirstChild(); ch != nil; ch = ch.NextSibling() {
			switch t := ch.(type) {
			case *ast.Text:
				b.Write(t.Segment.Value(c.source))
			case *ast.String:
				b.Write(t.Value)
			}
		}
		return []Node{&CodeSpan{Value: b.String()}}
	case *ast.Link:
		return []Node{&Link{URL: string(v.Destination), Title: string(v.Title), Children: c.inlines(v)}}
	case *ast.AutoLink:
		return []Node{&Link{
			URL:      string(v.URL(c.source)),
			Children: []Node{&Text{Value: string(v.Label(c.source))}},
		}}
	case *ast.Image:
		return []Node{&Image{URL: string(v.Destination), Title: string(v.Title), Alt: PlainText(c.inlines(v))}}
	case *ast.RawHTML:
		var b strings.Builder
		for i := 0; i < v.Segments.Len(); i++ {
			seg := v.Segments.At(i)
			b.Write(seg.Value(c.source))
		}
		return []Node{&HTMLInline{Raw: b.String()}}
	case *east.Strikethrough:
		return []Node{&Strikethrough{Children: c.inlines(v)}}
	case *east.TaskCheckBox, *east.FootnoteBacklink:
		return nil
	case *east.FootnoteLink:
		return []Node{&FootnoteReference{Label: c.footnotes[v.Index]}}
	case *emojiast.Emoji:
		value := string(v.ShortName)
		if v.Value != nil && len(v.Value.Unicode) > 0 {
			value = string(v.Value.Unicode)
		}
		return []Node{&Emoji{Shortcode: string(v.ShortName), Value: value}}
	case *mathNode:
		return []Node{&Math{Display: v.display, Value: string(v.value)}}
	case *wikilinkNode:
		return []Node{&Wikilink{Target: string(v.target), Display: string(v.display)}}
	case *highlightNode:
		return []Node{&Highlight{Children: c.inlines(v)}}
	}
	return c.inlines(n)
}

// mergeText joins adjacent text nodes.
func mergeText(nodes []Node) []Node {
	out := nodes[:0:0]
	for _, n := range nodes {
		if t, ok := n.(*Text); ok {
			if len(t.Value) == 0 {
				continue
			}
			if len(out) > 0 {
				if prev, ok := out[len(out)-1].(*Text); ok {
					prev.Value += t.Value
					continue
				}
			}
		}
		out = append(out, n)
	}
	return out
}
