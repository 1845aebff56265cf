package typst

import (
	"cmp"
	"fmt"
	"strings"

	"mdprint/misc"
	"mdprint/theme"
)

// preamble sets document wide rules. Everything styled by the theme that
// does not depend on particular node is configured here once.
func (e *emitter) preamble(themeID string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Generated by %s, theme %q.\n\n", misc.GetAppName(), themeID)

	e.documentRules(&b)
	e.pageRules(&b)
	e.textRules(&b)
	e.headingRules(&b)
	e.codeRules(&b)
	e.inlineRules(&b)
	e.tableRules(&b)
	return b.String()
}

func (e *emitter) documentRules(b *strings.Builder) {
	s := e.settings
	var args []string
	if len(s.Title) > 0 {
		args = append(args, "title: "+quote(s.Title))
	}
	if len(s.Authors) > 0 {
		quoted := make([]string, 0, len(s.Authors))
		for _, a := range s.Authors {
			quoted = append(quoted, quote(a))
		}
		if len(quoted) == 1 {
			args = append(args, "author: "+quoted[0])
		} else {
			args = append(args, "author: ("+strings.Join(quoted, ", ")+")")
		}
	}
	if len(args) > 0 {
		fmt.Fprintf(b, "#set document(%s)\n", strings.Join(args, ", "))
	}
}

// countingSymbols are numbering pattern characters, pattern with two of them
// displays current and total page.
const countingSymbols = "1aAiI"

func (e *emitter) pageRules(b *strings.Builder) {
	t := e.t
	p := t.Page
	pn := t.PageNumbers

	b.WriteString("#set page(\n")
	fmt.Fprintf(b, "  paper: %s,\n", quote(paperNames[e.settings.Paper]))
	fmt.Fprintf(b, "  margin: (top: %s, bottom: %s, left: %s, right: %s),\n",
		or(p.MarginTop, "2.5cm"), or(p.MarginBottom, "2.5cm"), or(p.MarginLeft, "2.5cm"), or(p.MarginRight, "2.5cm"))
	fmt.Fprintf(b, "  fill: %s,\n", rgb(p.Background))
	if p.Columns > 1 {
		fmt.Fprintf(b, "  columns: %d,\n", p.Columns)
	}
	if pn.Enabled {
		format := or(pn.Format, "1")
		symbols := 0
		for _, r := range countingSymbols {
			symbols += strings.Count(format, string(r))
		}
		both := symbols > 1

		var font string
		if len(pn.Font) > 0 {
			font = ", font: " + quote(pn.Font)
		}
		number := fmt.Sprintf("align(%s, text(size: %s, fill: %s%s)[#counter(page).display(%s, both: %t)])",
			or(pn.Position, "center"), or(pn.Size, "9pt"), rgb(pn.Color), font, quote(format), both)

		fmt.Fprintf(b, "  numbering: %s,\n", quote(format))
		if pn.FirstPage {
			fmt.Fprintf(b, "  footer: context %s,\n", number)
		} else {
			fmt.Fprintf(b, "  footer: context { if counter(page).get().first() > 1 { %s } },\n", number)
		}
	} else {
		b.WriteString("  numbering: none,\n")
	}
	b.WriteString(")\n")
	if p.Columns > 1 && len(p.ColumnGap) > 0 {
		fmt.Fprintf(b, "#set columns(gutter: %s)\n", p.ColumnGap)
	}
}

func (e *emitter) textRules(b *strings.Builder) {
	t := e.t
	s := e.settings

	args := []string{
		"font: " + fontList(e.fonts.body),
		"size: " + s.FontSize,
		"fill: " + rgb(t.Text.Color),
		"weight: " + weight(t.Fonts.BodyWeight, 400),
		"lang: " + quote(s.Lang),
	}
	if len(s.Region) > 0 {
		args = append(args, "region: "+quote(s.Region))
	}
	if t.Fonts.BodyItalic {
		args = append(args, `style: "italic"`)
	}
	args = append(args, fmt.Sprintf("costs: (orphan: %s, widow: %s)", cost(t.Text.OrphanLines), cost(t.Text.WidowLines)))
	fmt.Fprintf(b, "#set text(%s)\n", strings.Join(args, ", "))

	gap := or(t.Text.ParagraphGap, "0.8em")
	lead := leading(t.Text.LineHeight)
	indent := or(t.Text.FirstLineIndent, "1.5em")
	var spacing, firstLine string
	switch t.Text.SpacingMode {
	case "indent":
		spacing, firstLine = lead, indent
	case "both":
		spacing, firstLine = gap, indent
	default:
		spacing, firstLine = gap, "0pt"
	}
	fmt.Fprintf(b, "#set par(justify: %t, leading: %s, spacing: %s, first-line-indent: %s)\n",
		t.Text.Justification == "justify", lead, spacing, firstLine)
}

// cost maps line count to widow and orphan prevention strength.
func cost(lines uint8) string {
	if lines >= 2 {
		return "100%"
	}
	return "0%"
}

// headingRules styles every level separately. Spacing is set on the outer
// block before text size changes so em values are relative to body size.
func (e *emitter) headingRules(b *strings.Builder) {
	t := e.t
	if len(e.settings.Numbering) > 0 {
		fmt.Fprintf(b, "#set heading(numbering: %s)\n", quote(e.settings.Numbering))
	}

	fonts := e.fonts.heading
	if len(t.Headings.Font) > 0 {
		fonts = append([]string{t.Headings.Font}, fonts...)
	}
	sizes := []string{t.FontSizes.H1, t.FontSizes.H2, t.FontSizes.H3, t.FontSizes.H4, t.FontSizes.H5, t.FontSizes.H6}
	defaultSizes := []string{"24pt", "18pt", "14pt", "12pt", "11pt", "10pt"}

	for level := 1; level <= 6; level++ {
		h := t.Headings.Level(level)

		lineHeight := t.Headings.LineHeight
		if h.LineHeight != nil {
			lineHeight = *h.LineHeight
		}
		tracking := t.Headings.LetterSpacing
		if h.LetterSpacing != nil {
			tracking = *h.LetterSpacing
		}
		style := ""
		if t.Fonts.HeadingItalic {
			style = `, style: "italic"`
		}

		fmt.Fprintf(b, "#show heading.where(level: %d): it => {\n", level)
		if h.PageBreakBefore != nil && *h.PageBreakBefore {
			b.WriteString("  pagebreak(weak: true)\n")
		}
		fmt.Fprintf(b, "  block(width: 100%%, above: %s, below: %s, sticky: true)[\n", or(h.Above, "1.2em"), or(h.Below, "0.6em"))
		fmt.Fprintf(b, "    #set text(font: %s, size: %s, weight: %s, fill: %s, tracking: %s%s)\n",
			fontList(fonts), or(sizes[level-1], defaultSizes[level-1]), weight(h.Weight, cmp.Or(t.Fonts.HeadingWeight, 700)),
			rgb(t.Headings.Color), or(tracking, "0pt"), style)
		fmt.Fprintf(b, "    #set par(leading: %s, justify: false, first-line-indent: 0pt)\n", leading(lineHeight))
		b.WriteString("    #if it.numbering != none { counter(heading).display(it.numbering); h(0.5em) }")
		if h.Uppercase != nil && *h.Uppercase {
			b.WriteString("#upper(it.body)\n")
		} else {
			b.WriteString("#it.body\n")
		}
		if h.Border != nil && *h.Border {
			fmt.Fprintf(b, "    #v(-0.3em)\n    #line(length: 100%%, stroke: %s)\n", stroke("0.75pt", t.Links.Color))
		}
		b.WriteString("  ]\n}\n")
	}
}

// codeRules configures raw text. Highlighting uses generated syntax theme
// served at fixed path.
func (e *emitter) codeRules(b *strings.Builder) {
	t := e.t
	cb := t.CodeBlock
	ci := t.CodeInline

	fmt.Fprintf(b, "#set raw(theme: %s)\n", quote(theme.ResourcePath))
	fmt.Fprintf(b, "#show raw: set text(font: %s, size: %s, weight: %s, ligatures: false)\n",
		fontList(e.fonts.mono), or(t.FontSizes.Code, "9pt"), weight(t.Fonts.MonoWeight, 400))

	fmt.Fprintf(b, "#show raw.where(block: false): it => box(fill: %s, stroke: %s, radius: %s, inset: (x: 3pt), outset: (y: 3pt), it)\n",
		rgb(ci.Background), stroke("0.5pt", ci.BorderColor), or(ci.BorderRadius, "2pt"))

	var lineRule []string
	if cb.LineNumbers {
		lineRule = append(lineRule, fmt.Sprintf("box(width: 2em, align(right, text(fill: %s)[#l.number]))", rgb(cb.LanguageLabelColor)), "h(0.8em)")
	}
	if !cb.Wrap {
		// unbroken lines overflow and are clipped by the block
		lineRule = append(lineRule, "box(width: 300%, l)")
	} else if len(lineRule) > 0 {
		lineRule = append(lineRule, "l")
	}

	strokeSpec := "(rest: " + stroke("0.5pt", cb.BorderColor)
	if cb.LeftAccent {
		strokeSpec += ", left: " + stroke("3pt", cb.LeftAccentColor)
	}
	strokeSpec += ")"

	b.WriteString("#show raw.where(block: true): it => {\n")
	fmt.Fprintf(b, "  set par(justify: false, leading: %s)\n", leading(cb.LineHeight))
	if len(lineRule) > 0 {
		fmt.Fprintf(b, "  show raw.line: l => { %s }\n", strings.Join(lineRule, "; "))
	}
	fmt.Fprintf(b, "  block(width: 100%%, fill: %s, stroke: %s, radius: %s, inset: (x: %s, y: %s), clip: %t)[\n",
		rgb(cb.Background), strokeSpec, or(cb.BorderRadius, "4pt"),
		or(cb.PaddingHorizontal, "12pt"), or(cb.PaddingVertical, "10pt"), !cb.Wrap)
	if cb.LanguageLabel {
		fmt.Fprintf(b, "    #if it.lang != none { place(top + right, dy: -%s + 2pt, dx: %s - 4pt, text(size: %s, fill: %s)[#it.lang]) }\n",
			or(cb.PaddingVertical, "10pt"), or(cb.PaddingHorizontal, "12pt"), or(cb.LanguageLabelSize, "7pt"), rgb(cb.LanguageLabelColor))
	}
	b.WriteString("    #it\n  ]\n}\n")
}

func (e *emitter) inlineRules(b *strings.Builder) {
	t := e.t

	fmt.Fprintf(b, "#show link: set text(fill: %s)\n", rgb(t.Links.Color))
	if t.Links.Underline {
		b.WriteString("#show link: underline\n")
	}

	fn := t.Footnotes
	fmt.Fprintf(b, "#set footnote.entry(separator: line(length: %s, stroke: %s))\n",
		or(fn.SeparatorWidth, "30%"), stroke("0.5pt", fn.SeparatorColor))
	fmt.Fprintf(b, "#show footnote.entry: set text(size: %s)\n", or(fn.TextSize, "9pt"))
	if len(fn.NumberColor) > 0 {
		fmt.Fprintf(b, "#show footnote: set text(fill: %s)\n", rgb(fn.NumberColor))
	}

	if len(t.Math.Color) > 0 {
		fmt.Fprintf(b, "#show math.equation: set text(fill: %s)\n", rgb(t.Math.Color))
	}

	img := t.Images
	position := "bottom"
	if img.CaptionPosition == "above" {
		position = "top"
	}
	b.WriteString("#set figure(numbering: none)\n")
	fmt.Fprintf(b, "#set figure.caption(position: %s)\n", position)
	args := []string{"size: " + or(img.CaptionSize, "9pt"), "fill: " + rgb(img.CaptionColor)}
	if img.CaptionItalic {
		args = append(args, `style: "italic"`)
	}
	if len(img.CaptionFont) > 0 {
		args = append(args, "font: "+quote(img.CaptionFont))
	}
	fmt.Fprintf(b, "#show figure.caption: set text(%s)\n", strings.Join(args, ", "))
}

// tableRules draws horizontal rules only, vertical lines are optional.
func (e *emitter) tableRules(b *strings.Builder) {
	tb := e.t.Table

	vertical := "none"
	if tb.VerticalLines {
		vertical = "if x > 0 { " + stroke(tb.RowBorderWidth, tb.RowBorderColor) + " } else { none }"
	}
	b.WriteString("#set table(\n")
	fmt.Fprintf(b, "  stroke: (x, y) => (\n    top: if y == 1 { %s } else if y > 1 { %s } else { none },\n    left: %s,\n  ),\n",
		stroke(or(tb.HeaderBorderWidth, "1pt"), tb.HeaderBorderColor), stroke(or(tb.RowBorderWidth, "0.5pt"), tb.RowBorderColor), vertical)
	fmt.Fprintf(b, "  fill: (x, y) => if y == 0 { %s } else if calc.even(y) { %s } else { none },\n",
		rgb(tb.HeaderBackground), rgb(tb.StripeBackground))
	fmt.Fprintf(b, "  inset: %s,\n)\n", or(tb.CellPadding, "6pt"))

	args := []string{"weight: " + weight(tb.HeaderWeight, 700)}
	if len(tb.HeaderFont) > 0 {
		args = append(args, "font: "+quote(tb.HeaderFont))
	}
	fmt.Fprintf(b, "#show table.cell.where(y: 0): set text(%s)\n", strings.Join(args, ", "))
}

func (e *emitter) titlePage() string {
	t := e.t.TitlePage
	s := e.settings

	fonts := e.fonts.heading
	if len(t.TitleFont) > 0 {
		fonts = append([]string{t.TitleFont}, fonts...)
	}

	var b strings.Builder
	b.WriteString("#page(numbering: none, footer: none)[\n#align(center + horizon)[\n")
	fmt.Fprintf(&b, "#text(font: %s, size: %s, weight: %s, fill: %s)[%s]\n",
		fontList(fonts), or(t.TitleSize, "28pt"), weight(e.t.Fonts.HeadingWeight, 700), rgb(t.TitleColor), escapeText(s.Title))
	if len(s.Subtitle) > 0 {
		fmt.Fprintf(&b, "#v(0.6em)\n#text(size: 1.3em, fill: %s)[%s]\n", rgb(t.SubtitleColor), escapeText(s.Subtitle))
	}
	if len(t.SeparatorColor) > 0 {
		fmt.Fprintf(&b, "#v(1.2em)\n#line(length: 30%%, stroke: %s)\n", stroke("1pt", t.SeparatorColor))
	}
	if len(s.Authors) > 0 {
		fmt.Fprintf(&b, "#v(1.2em)\n#text(size: 1.1em, fill: %s)[%s]\n", rgb(t.AuthorColor), escapeText(strings.Join(s.Authors, ", ")))
	}
	if len(s.Date) > 0 {
		fmt.Fprintf(&b, "#v(0.6em)\n#text(fill: %s)[%s]\n", rgb(t.DateColor), escapeText(s.Date))
	}
	b.WriteString("]\n]\n\n")
	return b.String()
}

// toc lists collected headings up to configured depth. Page numbers are
// looked up at heading labels.
func (e *emitter) toc() string {
	t := e.t.TOC

	var b strings.Builder
	fmt.Fprintf(&b, "#block(below: 1.2em)[#text(font: %s, size: %s, weight: %s, fill: %s)[%s]]\n",
		fontList(e.fonts.heading), or(t.TitleSize, "18pt"), weight(e.t.Fonts.HeadingWeight, 700),
		rgb(e.t.Headings.Color), escapeText(or(t.Title, "Contents")))

	var leader string
	switch t.LeaderStyle {
	case "line":
		leader = fmt.Sprintf("#box(width: 1fr, line(length: 100%%, stroke: %s))", stroke("0.5pt", t.PageNumberColor))
	case "none":
		leader = "#h(1fr)"
	default:
		leader = fmt.Sprintf("#box(width: 1fr, repeat[#text(fill: %s)[.]])", rgb(t.PageNumberColor))
	}

	for _, h := range e.headings {
		if h.Level > e.settings.TOCDepth {
			continue
		}
		indent := ""
		if h.Level > 1 {
			indent = fmt.Sprintf("#h(%d * %s)", h.Level-1, or(t.Indent, "1.2em"))
		}
		fmt.Fprintf(&b, "#block(above: 0.45em, below: 0.45em)[%s#link(<%s>)[#text(fill: %s)[%s]] %s #text(fill: %s)[#context counter(page).at(<%s>).first()]]\n",
			indent, h.Anchor, rgb(t.EntryColor), escapeText(h.Title), leader, rgb(t.PageNumberColor), h.Anchor)
	}
	b.WriteString("#pagebreak(weak: true)\n\n")
	return b.String()
}
