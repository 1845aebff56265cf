package content

import (
	"mdprint/utils/debug"
)

// String returns readable dump of front matter followed by document tree.
// It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Source: %q dir: %q", c.SrcName, c.Dir)
	if fm := c.FrontMatter; fm != nil {
		tw.Line(0, "FrontMatter")
		tw.TextBlock(1, "title", fm.Title)
		tw.TextBlock(1, "subtitle", fm.Subtitle)
		tw.TextBlock(1, "author", fm.Authors.String())
		tw.TextBlock(1, "date", fm.Date)
		tw.TextBlock(1, "lang", fm.Lang)
		tw.TextBlock(1, "theme", fm.Theme)
		tw.TextBlock(1, "paper", fm.Paper)
		if fm.TOC != nil {
			tw.Line(1, "toc: %t", *fm.TOC)
		}
		if fm.TOCDepth != nil {
			tw.Line(1, "toc-depth: %d", *fm.TOCDepth)
		}
		tw.TextBlock(1, "numbering", fm.Numbering)
		tw.TextBlock(1, "font-size", fm.FontSize)
	}
	if len(c.Unrecognized) > 0 {
		tw.Line(0, "Unrecognized front matter fields: %v", c.Unrecognized)
	}

	out := tw.String()
	if c.Doc != nil {
		out += "\n" + c.Doc.Dump()
	}
	return out
}
