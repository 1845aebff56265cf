package markdown

import "mdprint/utils/debug"

// Dump renders document tree for debugging.
func (d *Document) Dump() string {
	tw := debug.NewTreeWriter()
	tw.Node(0, "Document")
	dumpNodes(tw, 1, d.Children)
	return tw.String()
}

func dumpNodes(tw *debug.TreeWriter, depth int, nodes []Node) {
	for _, n := range nodes {
		dumpNode(tw, depth, n)
	}
}

func dumpNode(tw *debug.TreeWriter, depth int, n Node) {
	switch v := n.(type) {
	case *Document:
		tw.Node(depth, "Document")
		dumpNodes(tw, depth+1, v.Children)
	case *FrontMatter:
		tw.Node(depth, "FrontMatter")
		tw.TextBlock(depth+1, "raw", v.Raw)
	case *Heading:
		tw.Node(depth, "Heading", "level", v.Level)
		dumpNodes(tw, depth+1, v.Children)
	case *Paragraph:
		tw.Node(depth, "Paragraph")
		dumpNodes(tw, depth+1, v.Children)
	case *Text:
		tw.Node(depth, "Text", "value", v.Value)
	case *SoftBreak:
		tw.Node(depth, "SoftBreak")
	case *HardBreak:
		tw.Node(depth, "HardBreak")
	case *Emphasis:
		tw.Node(depth, "Emphasis")
		dumpNodes(tw, depth+1, v.Children)
	case *Strong:
		tw.Node(depth, "Strong")
		dumpNodes(tw, depth+1, v.Children)
	case *Strikethrough:
		tw.Node(depth, "Strikethrough")
		dumpNodes(tw, depth+1, v.Children)
	case *Highlight:
		tw.Node(depth, "Highlight")
		dumpNodes(tw, depth+1, v.Children)
	case *CodeSpan:
		tw.Node(depth, "CodeSpan", "value", v.Value)
	case *CodeBlock:
		tw.Node(depth, "CodeBlock", "lang", v.Lang, "fenced", v.Fenced)
		tw.TextBlock(depth+1, "value", v.Value)
	case *List:
		tw.Node(depth, "List", "ordered", v.Ordered, "start", v.Start, "tight", v.Tight)
		for _, item := range v.Items {
			dumpNode(tw, depth+1, item)
		}
	case *ListItem:
		var task string
		switch v.Task {
		case TaskChecked:
			task = "checked"
		case TaskUnchecked:
			task = "unchecked"
		}
		tw.Node(depth, "ListItem", "task", task)
		dumpNodes(tw, depth+1, v.Children)
	case *Table:
		tw.Node(depth, "Table", "columns", len(v.Align))
		tw.Node(depth+1, "Header")
		for _, c := range v.Header {
			dumpNode(tw, depth+2, c)
		}
		for _, row := range v.Rows {
			tw.Node(depth+1, "Row")
			for _, c := range row {
				dumpNode(tw, depth+2, c)
			}
		}
	case *TableCell:
		tw.Node(depth, "Cell")
		dumpNodes(tw, depth+1, v.Children)
	case *Blockquote:
		tw.Node(depth, "Blockquote")
		dumpNodes(tw, depth+1, v.Children)
	case *Alert:
		tw.Node(depth, "Alert", "type", string(v.Type))
		dumpNodes(tw, depth+1, v.Children)
	case *Image:
		tw.Node(depth, "Image", "url", v.URL, "title", v.Title, "alt", v.Alt)
	case *Link:
		tw.Node(depth, "Link", "url", v.URL, "title", v.Title)
		dumpNodes(tw, depth+1, v.Children)
	case *Wikilink:
		tw.Node(depth, "Wikilink", "target", v.Target, "display", v.Display)
	case *FootnoteReference:
		tw.Node(depth, "FootnoteReference", "label", v.Label)
	case *FootnoteDefinition:
		tw.Node(depth, "FootnoteDefinition", "label", v.Label)
		dumpNodes(tw, depth+1, v.Children)
	case *Math:
		tw.Node(depth, "Math", "display", v.Display, "value", v.Value)
	case *DescriptionList:
		tw.Node(depth, "DescriptionList")
		dumpNodes(tw, depth+1, v.Children)
	case *DescriptionTerm:
		tw.Node(depth, "DescriptionTerm")
		dumpNodes(tw, depth+1, v.Children)
	case *DescriptionDetails:
		tw.Node(depth, "DescriptionDetails")
		dumpNodes(tw, depth+1, v.Children)
	case *ThematicBreak:
		tw.Node(depth, "ThematicBreak")
	case *HTMLBlock:
		tw.Node(depth, "HTMLBlock")
		tw.TextBlock(depth+1, "raw", v.Raw)
	case *HTMLInline:
		tw.Node(depth, "HTMLInline", "raw", v.Raw)
	case *Emoji:
		tw.Node(depth, "Emoji", "shortcode", v.Shortcode, "value", v.Value)
	default:
		tw.Line(depth, "unknown node %T", n)
	}
}
