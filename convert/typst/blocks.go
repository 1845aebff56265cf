package typst

import (
	"fmt"
	"strings"

	"github.com/alecthomas/chroma/v2/lexers"

	"mdprint/markdown"
	"mdprint/warnings"
)

// Bullet glyphs and ordered numbering progress with list nesting depth.
var (
	bulletGlyphs     = []string{"•", "◦", "▪"}
	orderedNumbering = []string{"1.", "a.", "i."}
)

const (
	taskChecked   = "☑"
	taskUnchecked = "☐"
)

var alertIcons = map[markdown.AlertType]string{
	markdown.AlertNote:      "ℹ",
	markdown.AlertTip:       "✦",
	markdown.AlertImportant: "❢",
	markdown.AlertWarning:   "⚠",
	markdown.AlertCaution:   "⛔",
}

var alertLabels = map[markdown.AlertType]string{
	markdown.AlertNote:      "Note",
	markdown.AlertTip:       "Tip",
	markdown.AlertImportant: "Important",
	markdown.AlertWarning:   "Warning",
	markdown.AlertCaution:   "Caution",
}

func (e *emitter) heading(b *strings.Builder, h *markdown.Heading) {
	level := min(max(h.Level, 1), 6)
	title := strings.TrimSpace(e.inlineString(h.Children))
	plain := strings.TrimSpace(markdown.PlainText(h.Children))
	anchor := e.anchor(plain)
	e.headings = append(e.headings, Heading{Level: level, Title: plain, Anchor: anchor})

	fmt.Fprintf(b, "%s %s <%s>\n\n", strings.Repeat("=", level), title, anchor)
	e.noIndent = true
}

func soleImage(nodes []markdown.Node) (*markdown.Image, bool) {
	var img *markdown.Image
	for _, n := range nodes {
		switch v := n.(type) {
		case *markdown.Image:
			if img != nil {
				return nil, false
			}
			img = v
		case *markdown.Text:
			if len(strings.TrimSpace(v.Value)) > 0 {
				return nil, false
			}
		case *markdown.SoftBreak, *markdown.HardBreak:
		default:
			return nil, false
		}
	}
	return img, img != nil
}

// paragraph writes inline content as paragraph. In indent spacing modes
// paragraph following heading, blockquote or list gets no first line
// indent.
func (e *emitter) paragraph(b *strings.Builder, nodes []markdown.Node) {
	if img, ok := soleImage(nodes); ok {
		if s := e.image(img, true); len(s) > 0 {
			b.WriteString(s)
			b.WriteString("\n\n")
		}
		e.noIndent = false
		return
	}

	text := strings.TrimSpace(e.inlineString(nodes))
	if len(text) == 0 {
		return
	}
	if e.noIndent && e.indentMode() {
		fmt.Fprintf(b, "#par(first-line-indent: 0pt)[%s]\n\n", guardLineStart(text))
	} else {
		b.WriteString(guardLineStart(text))
		b.WriteString("\n\n")
	}
	e.noIndent = false
}

// codeBlock tags declared language only, highlighting is done by the engine
// with generated syntax theme.
func (e *emitter) codeBlock(b *strings.Builder, cb *markdown.CodeBlock) {
	lang := strings.ToLower(strings.TrimSpace(cb.Lang))
	if lang == "mermaid" {
		// diagrams are not rendered, source is printed as plain code
		lang = ""
	}
	if len(lang) > 0 && lexers.Get(lang) == nil {
		e.collector.Add(warnings.UnknownLanguage{Lang: cb.Lang})
	}
	value := strings.TrimSuffix(cb.Value, "\n")
	if len(lang) > 0 {
		fmt.Fprintf(b, "#raw(block: true, lang: %s, %s)\n\n", quote(lang), quote(value))
	} else {
		fmt.Fprintf(b, "#raw(block: true, %s)\n\n", quote(value))
	}
	e.noIndent = true
}

func (e *emitter) list(b *strings.Builder, l *markdown.List) {
	t := e.t
	depth := e.listDepth
	e.listDepth++

	allTasks := len(l.Items) > 0
	items := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		allTasks = allTasks && item.Task != markdown.NotTask
		items = append(items, "  ["+e.listItem(item, l.Tight)+"],")
	}
	e.listDepth--

	indent := t.List.Indent
	if depth > 0 {
		indent = t.List.NestedIndent
	}

	if l.Ordered {
		fmt.Fprintf(b, "#enum(numbering: %s, start: %d, tight: %t, indent: %s,\n",
			quote(orderedNumbering[depth%len(orderedNumbering)]), max(l.Start, 0), l.Tight, or(indent, "0pt"))
	} else {
		marker := "[]"
		if !allTasks {
			marker = "text(fill: " + rgb(t.List.BulletColor) + ")[" + bulletGlyphs[depth%len(bulletGlyphs)] + "]"
		}
		fmt.Fprintf(b, "#list(marker: %s, tight: %t, indent: %s,\n", marker, l.Tight, or(indent, "0pt"))
	}
	for _, item := range items {
		b.WriteString(item)
		b.WriteByte('\n')
	}
	b.WriteString(")\n\n")
	e.noIndent = true
}

func (e *emitter) listItem(item *markdown.ListItem, tight bool) string {
	var prefix string
	switch item.Task {
	case markdown.TaskChecked:
		prefix = "#text(fill: " + rgb(e.t.List.TaskCheckedColor) + ")[" + taskChecked + "] "
	case markdown.TaskUnchecked:
		prefix = "#text(fill: " + rgb(e.t.List.TaskUncheckedColor) + ")[" + taskUnchecked + "] "
	}

	parts := make([]string, 0, len(item.Children))
	for _, child := range item.Children {
		if p, ok := child.(*markdown.Paragraph); ok && tight {
			if s := strings.TrimSpace(e.inlineString(p.Children)); len(s) > 0 {
				parts = append(parts, guardLineStart(s))
			}
			continue
		}
		var cb strings.Builder
		e.block(&cb, child)
		if s := strings.TrimSpace(cb.String()); len(s) > 0 {
			parts = append(parts, s)
		}
	}
	sep := "\n\n"
	if tight {
		sep = "\n"
	}
	return prefix + strings.Join(parts, sep)
}

func (e *emitter) table(b *strings.Builder, tbl *markdown.Table) {
	columns := len(tbl.Align)
	for _, row := range tbl.Rows {
		columns = max(columns, len(row))
	}
	columns = max(columns, len(tbl.Header))
	if columns == 0 {
		return
	}

	align := make([]string, columns)
	for i := range align {
		align[i] = "auto"
		if i < len(tbl.Align) {
			switch tbl.Align[i] {
			case markdown.AlignLeft:
				align[i] = "left"
			case markdown.AlignCenter:
				align[i] = "center"
			case markdown.AlignRight:
				align[i] = "right"
			}
		}
	}

	cells := func(row []*markdown.TableCell) string {
		out := make([]string, columns)
		for i := range out {
			out[i] = "[]"
			if i < len(row) {
				out[i] = "[" + guardLineStart(strings.TrimSpace(e.inlineString(row[i].Children))) + "]"
			}
		}
		return strings.Join(out, ", ")
	}

	fmt.Fprintf(b, "#table(\n  columns: %d,\n  align: (%s,),\n", columns, strings.Join(align, ", "))
	if len(tbl.Header) > 0 {
		fmt.Fprintf(b, "  table.header(%s),\n", cells(tbl.Header))
	}
	for _, row := range tbl.Rows {
		fmt.Fprintf(b, "  %s,\n", cells(row))
	}
	b.WriteString(")\n\n")
	e.noIndent = true
}

// blockquote compounds indentation by nesting and mutes text further with
// every level.
func (e *emitter) blockquote(b *strings.Builder, q *markdown.Blockquote) {
	t := e.t
	e.quoteDepth++
	depth := e.quoteDepth
	e.noIndent = true
	inner := e.blocksString(q.Children)
	e.quoteDepth--

	fill := "none"
	if depth == 1 {
		fill = paint(t.Blockquote.Background, t.Blockquote.BackgroundOpacity)
	}
	fmt.Fprintf(b, "#block(width: 100%%, inset: (left: %s, y: 4pt), stroke: (left: %s), fill: %s)[\n",
		or(t.Blockquote.LeftPadding, "12pt"), stroke(or(t.Blockquote.BorderWidth, "3pt"), t.Blockquote.BorderColor), fill)
	var style string
	if t.Blockquote.Italic {
		style = `, style: "italic"`
	}
	if color := mute(t.Blockquote.TextColor, t.Page.Background, depth); len(color) > 0 {
		fmt.Fprintf(b, "#set text(fill: %s%s)\n", rgb(color), style)
	} else if len(style) > 0 {
		fmt.Fprintf(b, "#set text(%s)\n", style[2:])
	}
	b.WriteString(inner)
	b.WriteString("\n]\n\n")
	e.noIndent = true
}

func (e *emitter) alert(b *strings.Builder, a *markdown.Alert) {
	t := e.t
	color := t.Alerts.Color(string(a.Type))
	e.noIndent = true
	inner := e.blocksString(a.Children)

	fmt.Fprintf(b, "#block(width: 100%%, inset: (left: 12pt, right: 8pt, y: 8pt), radius: (right: 2pt), stroke: (left: %s), fill: %s)[\n",
		stroke(or(t.Alerts.BorderWidth, "3pt"), color), paint(color, t.Alerts.BackgroundOpacity))

	var header []string
	if t.Alerts.ShowIcon {
		header = append(header, alertIcons[a.Type])
	}
	if t.Alerts.ShowLabel {
		header = append(header, alertLabels[a.Type])
	}
	if len(header) > 0 {
		fmt.Fprintf(b, "#block(below: 0.6em)[#text(fill: %s, weight: 700)[%s]]\n", rgb(color), strings.Join(header, " "))
	}
	b.WriteString(inner)
	b.WriteString("\n]\n\n")
	e.noIndent = true
}

func (e *emitter) descriptionList(b *strings.Builder, dl *markdown.DescriptionList) {
	t := e.t.DescriptionList
	font := ""
	if len(t.TermFont) > 0 {
		font = ", font: " + quote(t.TermFont)
	}
	for _, n := range dl.Children {
		switch v := n.(type) {
		case *markdown.DescriptionTerm:
			fmt.Fprintf(b, "#block(above: %s, below: %s, sticky: true)[#text(weight: %s, fill: %s%s)[%s]]\n",
				or(t.ItemSpacing, "0.8em"), or(t.TermSpacing, "0.3em"), weight(t.TermWeight, 700), rgb(t.TermColor), font,
				guardLineStart(strings.TrimSpace(e.inlineString(v.Children))))
		case *markdown.DescriptionDetails:
			e.noIndent = true
			fmt.Fprintf(b, "#pad(left: %s)[%s]\n", or(t.DefinitionIndent, "1.5em"), e.blocksString(v.Children))
		default:
			var cb strings.Builder
			e.block(&cb, n)
			b.WriteString(cb.String())
		}
	}
	b.WriteByte('\n')
	e.noIndent = true
}

func (e *emitter) thematicBreak(b *strings.Builder) {
	hr := e.t.HorizontalRule
	dash := ""
	switch hr.Style {
	case "dashed", "dotted":
		dash = ", dash: " + quote(hr.Style)
	}
	fmt.Fprintf(b, "#align(center)[#line(length: %s, stroke: (paint: %s, thickness: %s%s))]\n\n",
		or(hr.Width, "100%"), rgb(hr.Color), or(hr.Thickness, "0.5pt"), dash)
	e.noIndent = true
}
