package content

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"mdprint/markdown"
	"mdprint/state"
	"mdprint/warnings"
)

func prepare(t *testing.T, src string) (*Content, error) {
	t.Helper()
	ctx := state.ContextWithEnv(context.Background())
	return Prepare(ctx, strings.NewReader(src), "doc.md", t.TempDir(), zaptest.NewLogger(t))
}

func TestPrepare_FrontMatter(t *testing.T) {
	src := `---
title: Field Notes
subtitle: "Volume 2"
author: [Ann, " Bob "]
date: 2024-03-01
lang: de-AT
theme: nord
paper: Letter
toc: true
toc-depth: 2
numbering: "1.1"
font-size: 12pt
---
# Hello
`
	c, err := prepare(t, src)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	fm := c.FrontMatter
	if fm.Title != "Field Notes" || fm.Subtitle != "Volume 2" || fm.Date != "2024-03-01" {
		t.Errorf("front matter = %+v", fm)
	}
	if !reflect.DeepEqual(fm.Authors, Authors{"Ann", "Bob"}) {
		t.Errorf("authors = %q", fm.Authors)
	}
	if fm.Paper != "letter" || fm.Theme != "nord" || fm.Numbering != "1.1" || fm.FontSize != "12pt" {
		t.Errorf("front matter = %+v", fm)
	}
	if fm.TOC == nil || !*fm.TOC || fm.TOCDepth == nil || *fm.TOCDepth != 2 {
		t.Errorf("toc = %v depth = %v", fm.TOC, fm.TOCDepth)
	}
	tag, ok := fm.Language()
	if !ok {
		t.Fatal("language not recognized")
	}
	if base, _ := tag.Base(); base.String() != "de" {
		t.Errorf("language base = %s", base)
	}
	if len(c.Unrecognized) != 0 {
		t.Errorf("unrecognized = %v", c.Unrecognized)
	}
	if _, ok := c.Doc.Children[1].(*markdown.Heading); !ok {
		t.Errorf("body not parsed:\n%s", c.Doc.Dump())
	}
}

func TestPrepare_SingleAuthor(t *testing.T) {
	c, err := prepare(t, "---\nauthor: Jane Roe\n---\ntext\n")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if c.FrontMatter.Authors.String() != "Jane Roe" {
		t.Errorf("authors = %q", c.FrontMatter.Authors)
	}
}

func TestPrepare_UnrecognizedFields(t *testing.T) {
	c, err := prepare(t, "---\ntitle: T\nzeta: 1\nalpha: x\ntags: [a]\n---\nbody\n")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	want := []string{"alpha", "tags", "zeta"}
	if !reflect.DeepEqual(c.Unrecognized, want) {
		t.Errorf("unrecognized = %v, want %v", c.Unrecognized, want)
	}

	collector := warnings.NewCollector()
	c.ReportUnrecognized(collector)
	got := collector.Warnings()
	if len(got) != 3 {
		t.Fatalf("warnings = %v", got)
	}
	for i, w := range got {
		u, ok := w.(warnings.UnrecognizedFrontMatterField)
		if !ok || u.Field != want[i] {
			t.Errorf("warning %d = %v", i, w)
		}
	}
}

func TestPrepare_NoFrontMatter(t *testing.T) {
	c, err := prepare(t, "# Title\n\ntext\n")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if c.FrontMatter == nil || c.FrontMatter.Title != "" {
		t.Errorf("front matter = %+v", c.FrontMatter)
	}
	if c.Name() != "doc" {
		t.Errorf("Name() = %q", c.Name())
	}
}

func TestPrepare_InvalidLanguageDropped(t *testing.T) {
	c, err := prepare(t, "---\nlang: \"not a tag!\"\n---\n")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	if c.FrontMatter.Lang != "" {
		t.Errorf("lang = %q, want empty", c.FrontMatter.Lang)
	}
}

func TestPrepare_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"malformed yaml", "---\ntitle: [unclosed\n---\n", "unable to parse front matter"},
		{"not a mapping", "---\n- a\n- b\n---\n", "must be a mapping"},
		{"bad author", "---\nauthor: {name: x}\n---\n", "author must be"},
		{"toc depth range", "---\ntoc-depth: 9\n---\n", "toc-depth"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := prepare(t, tt.src)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestPrepare_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(state.ContextWithEnv(context.Background()))
	cancel()
	if _, err := Prepare(ctx, strings.NewReader("x"), "x.md", ".", zaptest.NewLogger(t)); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestContent_String(t *testing.T) {
	c, err := prepare(t, "---\ntitle: Dump\n---\nHello\n")
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	s := c.String()
	for _, want := range []string{"FrontMatter", `title: "Dump"`, "Paragraph", `Text value="Hello"`} {
		if !strings.Contains(s, want) {
			t.Errorf("String() missing %q:\n%s", want, s)
		}
	}
	var nilContent *Content
	if nilContent.String() != "<nil Content>" {
		t.Error("nil content dump")
	}
}

func TestPrepare_Transcodes(t *testing.T) {
	tests := []struct {
		name, src string
	}{
		{"windows-1252", "# Caf\xe9\n"},
		{"utf-8 bom", "\xef\xbb\xbf# Café\n"},
		{"utf-16le bom", "\xff\xfe#\x00 \x00C\x00a\x00f\x00\xe9\x00\n\x00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := prepare(t, tt.src)
			if err != nil {
				t.Fatalf("Prepare() error = %v", err)
			}
			h, ok := c.Doc.Children[0].(*markdown.Heading)
			if !ok {
				t.Fatalf("first block is not heading:\n%s", c.Doc.Dump())
			}
			if got := markdown.PlainText(h.Children); got != "Café" {
				t.Errorf("heading = %q, want Café", got)
			}
		})
	}
}
