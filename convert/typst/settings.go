package typst

import (
	"strings"

	"golang.org/x/text/language"

	"mdprint/content"
	"mdprint/theme"
)

// Options are caller level overrides, they win over front matter and theme.
// Zero values mean "not set".
type Options struct {
	Paper     string
	TOC       *bool
	TOCDepth  int
	TitlePage *bool
	Numbering string
	FontSize  string
	Lang      string

	// Fonts selected against font catalog, theme chains are used when nil.
	Fonts *theme.FontSelection
}

// Settings are effective document level values after precedence is applied.
type Settings struct {
	Paper     string
	TOC       bool
	TOCDepth  int
	TitlePage bool
	Numbering string
	FontSize  string
	Lang      string
	Region    string

	Title    string
	Subtitle string
	Authors  []string
	Date     string
}

const (
	defaultPaper    = "a4"
	defaultTOCDepth = 3
	defaultFontSize = "11pt"
	defaultLang     = "en"
)

// paperNames maps supported paper names to engine paper identifiers.
var paperNames = map[string]string{
	"a4":     "a4",
	"a5":     "a5",
	"letter": "us-letter",
	"legal":  "us-legal",
}

func validPaper(p string) bool {
	_, ok := paperNames[p]
	return ok
}

// resolveSettings applies fixed precedence: override, front matter, theme,
// built-in default.
func resolveSettings(t *theme.Tokens, fm *content.FrontMatter, o Options) Settings {
	if fm == nil {
		fm = &content.FrontMatter{}
	}
	s := Settings{
		Title:    fm.Title,
		Subtitle: fm.Subtitle,
		Authors:  append([]string(nil), fm.Authors...),
		Date:     fm.Date,
	}

	s.Paper = defaultPaper
	for _, p := range []string{strings.ToLower(o.Paper), fm.Paper, t.Page.Paper} {
		if validPaper(p) {
			s.Paper = p
			break
		}
	}

	switch {
	case o.TOC != nil:
		s.TOC = *o.TOC
	case fm.TOC != nil:
		s.TOC = *fm.TOC
	default:
		s.TOC = t.TOC.Enabled
	}

	switch {
	case o.TOCDepth > 0:
		s.TOCDepth = o.TOCDepth
	case fm.TOCDepth != nil:
		s.TOCDepth = *fm.TOCDepth
	case t.TOC.MaxDepth > 0:
		s.TOCDepth = int(t.TOC.MaxDepth)
	default:
		s.TOCDepth = defaultTOCDepth
	}
	s.TOCDepth = min(max(s.TOCDepth, 1), 6)

	if o.TitlePage != nil {
		s.TitlePage = *o.TitlePage
	} else {
		s.TitlePage = t.TitlePage.Enabled
	}

	s.Numbering = or(o.Numbering, fm.Numbering)
	s.FontSize = or(o.FontSize, or(fm.FontSize, or(t.FontSizes.Body, defaultFontSize)))

	lang := or(o.Lang, fm.Lang)
	s.Lang, s.Region = defaultLang, ""
	if tag, err := language.Parse(lang); err == nil && len(lang) > 0 {
		base, _ := tag.Base()
		s.Lang = base.String()
		if region, conf := tag.Region(); conf == language.Exact {
			s.Region = strings.ToLower(region.String())
		}
	}
	return s
}
