package css_test

import (
	"testing"

	"go.uber.org/zap/zaptest"

	"mdprint/css"
)

func TestParser_ParseInline(t *testing.T) {
	p := css.NewParser(zaptest.NewLogger(t))

	decls := p.ParseInline(`Color: #C00; font-weight: 700; font-size: 1.2EM; margin: 0 auto; --accent: red; font-family: "Fira Sans"; text-decoration: underline line-through; width: 50%; color: navy !important`)

	tests := []struct {
		name    string
		keyword string
		value   float64
		unit    string
	}{
		{"color", "navy", 0, ""},
		{"font-weight", "", 700, ""},
		{"font-size", "", 1.2, "em"},
		{"margin", "0 auto", 0, ""},
		{"font-family", "Fira Sans", 0, ""},
		{"width", "", 50, "%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := decls[tt.name]
			if !ok {
				t.Fatalf("declaration %s is missing from %v", tt.name, decls)
			}
			if v.Keyword != tt.keyword || v.Value != tt.value || v.Unit != tt.unit {
				t.Errorf("%s = %+v, want keyword %q value %v unit %q", tt.name, v, tt.keyword, tt.value, tt.unit)
			}
		})
	}

	if _, ok := decls["--accent"]; ok {
		t.Error("custom properties must be ignored")
	}
	if td := decls["text-decoration"]; !td.Has("underline") || !td.Has("line-through") || td.Has("overline") {
		t.Errorf("text-decoration = %+v", td)
	}
	if v, ok := decls.Get("background", "color"); !ok || !v.Is("NAVY") {
		t.Errorf("Get() = %+v, %t", v, ok)
	}
}

func TestParser_ParseInlineEmpty(t *testing.T) {
	p := css.NewParser(nil)
	for _, style := range []string{"", "   ", ";;", "color"} {
		if decls := p.ParseInline(style); len(decls) != 0 {
			t.Errorf("ParseInline(%q) = %v, want empty", style, decls)
		}
	}
}
