// Package markdown turns Markdown source into a closed set of document
// nodes the translator switches on. Parsing itself is delegated to goldmark,
// this package only adapts its tree.
package markdown

// Node is one of the document node types declared in this file. The set is
// closed, isNode is unexported.
type Node interface {
	isNode()
}

type Document struct {
	Children []Node
}

// FrontMatter is raw YAML found between leading "---" lines.
type FrontMatter struct {
	Raw string
}

type Heading struct {
	Level    int
	Children []Node
}

type Paragraph struct {
	Children []Node
}

type Text struct {
	Value string
}

type SoftBreak struct{}

type HardBreak struct{}

type Emphasis struct {
	Children []Node
}

type Strong struct {
	Children []Node
}

type Strikethrough struct {
	Children []Node
}

type Highlight struct {
	Children []Node
}

type CodeSpan struct {
	Value string
}

type CodeBlock struct {
	Lang   string
	Value  string
	Fenced bool
}

type List struct {
	Ordered bool
	Start   int
	Tight   bool
	Items   []*ListItem
}

type TaskState int

const (
	NotTask TaskState = iota
	TaskUnchecked
	TaskChecked
)

type ListItem struct {
	Task     TaskState
	Children []Node
}

type Alignment int

const (
	AlignNone Alignment = iota
	AlignLeft
	AlignCenter
	AlignRight
)

type TableCell struct {
	Children []Node
}

// Table keeps header and body rows separately, Align has one entry per
// column.
type Table struct {
	Align  []Alignment
	Header []*TableCell
	Rows   [][]*TableCell
}

type Blockquote struct {
	Children []Node
}

type AlertType string

const (
	AlertNote      AlertType = "note"
	AlertTip       AlertType = "tip"
	AlertImportant AlertType = "important"
	AlertWarning   AlertType = "warning"
	AlertCaution   AlertType = "caution"
)

// Alert is blockquote starting with "[!TYPE]" marker, marker is removed.
type Alert struct {
	Type     AlertType
	Children []Node
}

type Image struct {
	URL   string
	Title string
	Alt   string
}

type Link struct {
	URL      string
	Title    string
	Children []Node
}

// Wikilink is [[target]] or [[target|display]]. Target is kept verbatim.
type Wikilink struct {
	Target  string
	Display string
}

type FootnoteReference struct {
	Label string
}

type FootnoteDefinition struct {
	Label    string
	Children []Node
}

type Math struct {
	Display bool
	Value   string
}

type DescriptionList struct {
	Children []Node
}

type DescriptionTerm struct {
	Children []Node
}

type DescriptionDetails struct {
	Children []Node
}

type ThematicBreak struct{}

type HTMLBlock struct {
	Raw string
}

type HTMLInline struct {
	Raw string
}

type Emoji struct {
	Shortcode string
	Value     string
}

func (*Document) isNode()           {}
func (*FrontMatter) isNode()        {}
func (*Heading) isNode()            {}
func (*Paragraph) isNode()          {}
func (*Text) isNode()               {}
func (*SoftBreak) isNode()          {}
func (*HardBreak) isNode()          {}
func (*Emphasis) isNode()           {}
func (*Strong) isNode()             {}
func (*Strikethrough) isNode()      {}
func (*Highlight) isNode()          {}
func (*CodeSpan) isNode()           {}
func (*CodeBlock) isNode()          {}
func (*List) isNode()               {}
func (*ListItem) isNode()           {}
func (*Table) isNode()              {}
func (*TableCell) isNode()          {}
func (*Blockquote) isNode()         {}
func (*Alert) isNode()              {}
func (*Image) isNode()              {}
func (*Link) isNode()               {}
func (*Wikilink) isNode()           {}
func (*FootnoteReference) isNode()  {}
func (*FootnoteDefinition) isNode() {}
func (*Math) isNode()               {}
func (*DescriptionList) isNode()    {}
func (*DescriptionTerm) isNode()    {}
func (*DescriptionDetails) isNode() {}
func (*ThematicBreak) isNode()      {}
func (*HTMLBlock) isNode()          {}
func (*HTMLInline) isNode()         {}
func (*Emoji) isNode()              {}

// PlainText flattens inline nodes into text, markup is dropped.
func PlainText(nodes []Node) string {
	var b []byte
	var walk func([]Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			switch v := n.(type) {
			case *Text:
				b = append(b, v.Value...)
			case *SoftBreak, *HardBreak:
				b = append(b, ' ')
			case *CodeSpan:
				b = append(b, v.Value...)
			case *Math:
				b = append(b, v.Value...)
			case *Emoji:
				b = append(b, v.Value...)
			case *Wikilink:
				if len(v.Display) > 0 {
					b = append(b, v.Display...)
				} else {
					b = append(b, v.Target...)
				}
			case *Image:
				b = append(b, v.Alt...)
			case *Emphasis:
				walk(v.Children)
			case *Strong:
				walk(v.Children)
			case *Strikethrough:
				walk(v.Children)
			case *Highlight:
				walk(v.Children)
			case *Link:
				walk(v.Children)
			case *Paragraph:
				walk(v.Children)
			}
		}
	}
	walk(nodes)
	return string(b)
}
