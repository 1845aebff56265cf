package typst

import (
	"testing"

	"mdprint/content"
	"mdprint/theme"
)

func boolPtr(b bool) *bool { return &b }
func intPtr(i int) *int    { return &i }

func TestResolveSettings(t *testing.T) {
	base := theme.Tokens{}
	base.Page.Paper = "a5"
	base.TOC.Enabled = true
	base.TOC.MaxDepth = 2
	base.TitlePage.Enabled = false
	base.FontSizes.Body = "10pt"

	tests := []struct {
		name  string
		tok   func(*theme.Tokens)
		fm    *content.FrontMatter
		opts  Options
		check func(t *testing.T, s Settings)
	}{
		{
			name: "theme values",
			check: func(t *testing.T, s Settings) {
				if s.Paper != "a5" || !s.TOC || s.TOCDepth != 2 || s.TitlePage || s.FontSize != "10pt" {
					t.Errorf("settings = %+v", s)
				}
				if s.Lang != "en" || s.Region != "" {
					t.Errorf("lang = %s/%s, want en", s.Lang, s.Region)
				}
			},
		},
		{
			name: "built-in defaults",
			tok: func(tok *theme.Tokens) {
				tok.Page.Paper = ""
				tok.TOC.MaxDepth = 0
				tok.FontSizes.Body = ""
			},
			check: func(t *testing.T, s Settings) {
				if s.Paper != "a4" || s.TOCDepth != 3 || s.FontSize != "11pt" {
					t.Errorf("settings = %+v", s)
				}
			},
		},
		{
			name: "front matter wins over theme",
			fm: &content.FrontMatter{
				Paper: "letter", TOC: boolPtr(false), TOCDepth: intPtr(4),
				FontSize: "12pt", Lang: "de-AT", Numbering: "1.1",
				Title: "T", Authors: content.Authors{"A", "B"},
			},
			check: func(t *testing.T, s Settings) {
				if s.Paper != "letter" || s.TOC || s.TOCDepth != 4 || s.FontSize != "12pt" || s.Numbering != "1.1" {
					t.Errorf("settings = %+v", s)
				}
				if s.Lang != "de" || s.Region != "at" {
					t.Errorf("lang = %s/%s, want de/at", s.Lang, s.Region)
				}
				if s.Title != "T" || len(s.Authors) != 2 {
					t.Errorf("metadata = %q %v", s.Title, s.Authors)
				}
			},
		},
		{
			name: "override wins over front matter",
			fm:   &content.FrontMatter{Paper: "letter", TOC: boolPtr(false), TOCDepth: intPtr(4), Lang: "de"},
			opts: Options{Paper: "Legal", TOC: boolPtr(true), TOCDepth: 9, TitlePage: boolPtr(true), Lang: "fr", FontSize: "9pt", Numbering: "I."},
			check: func(t *testing.T, s Settings) {
				if s.Paper != "legal" || !s.TOC || !s.TitlePage || s.FontSize != "9pt" || s.Numbering != "I." {
					t.Errorf("settings = %+v", s)
				}
				if s.TOCDepth != 6 {
					t.Errorf("TOCDepth = %d, want clamped 6", s.TOCDepth)
				}
				if s.Lang != "fr" {
					t.Errorf("Lang = %s", s.Lang)
				}
			},
		},
		{
			name: "invalid paper falls through",
			fm:   &content.FrontMatter{Paper: "tabloid"},
			opts: Options{Paper: "b5"},
			check: func(t *testing.T, s Settings) {
				if s.Paper != "a5" {
					t.Errorf("Paper = %s, want theme a5", s.Paper)
				}
			},
		},
		{
			name: "invalid language ignored",
			opts: Options{Lang: "not a tag!"},
			check: func(t *testing.T, s Settings) {
				if s.Lang != "en" {
					t.Errorf("Lang = %s, want en", s.Lang)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok := base
			if tt.tok != nil {
				tt.tok(&tok)
			}
			tt.check(t, resolveSettings(&tok, tt.fm, tt.opts))
		})
	}
}
