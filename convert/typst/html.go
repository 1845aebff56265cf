package typst

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"mdprint/markdown"
)

// inlineTags maps inline HTML elements to content functions wrapping their
// children. Keys are canonical names closing tags are matched against.
var inlineTags = map[string]struct {
	key, prefix string
}{
	"b":      {"strong", "#strong["},
	"strong": {"strong", "#strong["},
	"i":      {"emph", "#emph["},
	"em":     {"emph", "#emph["},
	"u":      {"underline", "#underline["},
	"ins":    {"underline", "#underline["},
	"s":      {"strike", "#strike["},
	"del":    {"strike", "#strike["},
	"strike": {"strike", "#strike["},
	"mark":   {"highlight", "#highlight["},
	"sub":    {"sub", "#sub["},
	"sup":    {"super", "#super["},
	"small":  {"small", "#text(size: 0.8em)["},
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// inlineHTML handles raw inline tags. Markdown delivers opening and closing
// tags as separate nodes, so open elements are tracked by the writer and
// closed on matching end tag or at the end of the run.
func (e *emitter) inlineHTML(w *inlineWriter, raw string) {
	z := html.NewTokenizer(strings.NewReader(raw))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			return
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			switch tok.Data {
			case "br":
				w.code("#linebreak()")
				continue
			case "img":
				img := &markdown.Image{}
				for _, a := range tok.Attr {
					switch a.Key {
					case "src":
						img.URL = a.Val
					case "alt":
						img.Alt = a.Val
					}
				}
				if len(img.URL) > 0 {
					w.code(e.image(img, false))
				}
				continue
			case "code", "kbd", "tt":
				if tt == html.StartTagToken {
					w.openTag("code", "#text(font: "+fontList(e.fonts.mono)+")[")
				}
				continue
			case "a":
				if tt == html.StartTagToken {
					prefix := "#text(fill: " + rgb(e.t.Links.Color) + ")["
					for _, a := range tok.Attr {
						// fragment targets are only known after the walk
						if a.Key == "href" && len(a.Val) > 0 && !strings.HasPrefix(a.Val, "#") {
							prefix = "#link(" + quote(a.Val) + ")["
						}
					}
					w.openTag("a", prefix)
				}
				continue
			}
			if tt != html.StartTagToken {
				continue
			}
			styles := styleWrappers(elementStyle(tok.Attr), false)
			if tok.Data == "span" || tok.Data == "font" {
				w.openTag(tok.Data, styles...)
			} else if tag, ok := inlineTags[tok.Data]; ok {
				w.openTag(tag.key, append([]string{tag.prefix}, styles...)...)
			}
		case html.EndTagToken:
			tok := z.Token()
			switch tok.Data {
			case "code", "kbd", "tt":
				w.closeTag("code")
			case "a", "span", "font":
				w.closeTag(tok.Data)
			default:
				if tag, ok := inlineTags[tok.Data]; ok {
					w.closeTag(tag.key)
				}
			}
		}
	}
}

// htmlBlock converts supported subset of block HTML. Script and style
// contents are dropped, unknown elements are transparent.
func (e *emitter) htmlBlock(raw string) string {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(raw), ctx)
	if err != nil {
		return ""
	}
	w := &inlineWriter{}
	for _, n := range nodes {
		e.htmlNode(w, n, true)
	}
	out := strings.TrimSpace(w.finish())
	if len(out) > 0 {
		e.noIndent = false
	}
	return out
}

func (e *emitter) htmlChildren(n *html.Node) string {
	w := &inlineWriter{}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		e.htmlNode(w, c, false)
	}
	return strings.TrimSpace(w.finish())
}

// textContent returns concatenated text of the subtree.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// collapseSpace folds whitespace runs into single space keeping edges.
func collapseSpace(s string) string {
	if len(s) == 0 {
		return s
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return " "
	}
	out := strings.Join(fields, " ")
	if strings.TrimLeft(s[:1], " \t\r\n") == "" {
		out = " " + out
	}
	if strings.TrimRight(s[len(s)-1:], " \t\r\n") == "" {
		out += " "
	}
	return out
}

func (e *emitter) htmlNode(w *inlineWriter, n *html.Node, top bool) {
	switch n.Type {
	case html.TextNode:
		w.text(escapeText(collapseSpace(n.Data)))
		return
	case html.ElementNode:
	default:
		return
	}

	blockOut := func(s string) {
		if len(s) == 0 {
			return
		}
		w.b.WriteString("\n" + s + "\n")
		w.expr = false
	}

	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Head, atom.Title, atom.Template:
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		level := int(n.Data[1] - '0')
		blockOut(fmt.Sprintf("#heading(level: %d, outlined: false)[%s]", level, e.htmlChildren(n)))
	case atom.P, atom.Div, atom.Center:
		inner := wrap(styleWrappers(elementStyle(n.Attr), true), e.htmlChildren(n))
		align, _ := attr(n, "align")
		if n.DataAtom == atom.Center {
			align = "center"
		}
		switch strings.ToLower(align) {
		case "left", "center", "right":
			inner = "#align(" + strings.ToLower(align) + ")[" + inner + "]"
		}
		blockOut(inner + "\n")
	case atom.Table:
		blockOut(e.htmlTable(n))
	case atom.Ul, atom.Ol:
		blockOut(e.htmlList(n))
	case atom.Pre:
		blockOut("#raw(block: true, " + quote(strings.TrimSuffix(textContent(n), "\n")) + ")")
	case atom.Blockquote:
		blockOut("#quote(block: true)[" + e.htmlChildren(n) + "]")
	case atom.Hr:
		var b strings.Builder
		e.thematicBreak(&b)
		blockOut(strings.TrimSpace(b.String()))
	case atom.Br:
		w.code("#linebreak()")
	case atom.Img:
		src, _ := attr(n, "src")
		alt, _ := attr(n, "alt")
		if len(src) == 0 {
			return
		}
		if s := e.image(&markdown.Image{URL: src, Alt: alt}, top); top {
			blockOut(s)
		} else {
			w.code(s)
		}
	case atom.A:
		inner := e.htmlChildren(n)
		href, _ := attr(n, "href")
		if len(href) == 0 {
			w.code("#text(fill: " + rgb(e.t.Links.Color) + ")[" + inner + "]")
			return
		}
		w.code(e.link(href, inner))
	case atom.Code, atom.Kbd, atom.Tt, atom.Samp:
		w.code("#raw(" + quote(textContent(n)) + ")")
	default:
		styles := styleWrappers(elementStyle(n.Attr), false)
		if tag, ok := inlineTags[n.Data]; ok {
			w.code(tag.prefix + wrap(styles, e.htmlChildren(n)) + "]")
			return
		}
		if len(styles) > 0 && (n.DataAtom == atom.Span || n.DataAtom == atom.Font) {
			w.code(wrap(styles, e.htmlChildren(n)))
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			e.htmlNode(w, c, top)
		}
	}
}

func (e *emitter) htmlList(n *html.Node) string {
	var items []string
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Li {
			items = append(items, "  ["+e.htmlChildren(c)+"],")
		}
	}
	if len(items) == 0 {
		return ""
	}
	var head string
	if n.DataAtom == atom.Ol {
		start := 1
		if s, ok := attr(n, "start"); ok {
			if v, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
				start = v
			}
		}
		head = fmt.Sprintf("#enum(start: %d,\n", max(start, 0))
	} else {
		head = "#list(marker: text(fill: " + rgb(e.t.List.BulletColor) + ")[" + bulletGlyphs[0] + "],\n"
	}
	return head + strings.Join(items, "\n") + "\n)"
}

// htmlTable flattens thead, tbody and tfoot into rows, header cells are
// recognized by th element.
func (e *emitter) htmlTable(n *html.Node) string {
	var rows [][]*html.Node
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.DataAtom {
			case atom.Thead, atom.Tbody, atom.Tfoot:
				collect(c)
			case atom.Tr:
				var cells []*html.Node
				for cell := c.FirstChild; cell != nil; cell = cell.NextSibling {
					if cell.Type == html.ElementNode && (cell.DataAtom == atom.Td || cell.DataAtom == atom.Th) {
						cells = append(cells, cell)
					}
				}
				rows = append(rows, cells)
			}
		}
	}
	collect(n)

	columns := 0
	for _, r := range rows {
		columns = max(columns, len(r))
	}
	if columns == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "#table(\n  columns: %d,\n", columns)
	for _, r := range rows {
		cells := make([]string, columns)
		for i := range cells {
			cells[i] = "[]"
			if i < len(r) {
				inner := e.htmlChildren(r[i])
				if r[i].DataAtom == atom.Th {
					inner = "#strong[" + inner + "]"
				}
				cells[i] = "[" + inner + "]"
			}
		}
		fmt.Fprintf(&b, "  %s,\n", strings.Join(cells, ", "))
	}
	b.WriteString(")")
	return b.String()
}
