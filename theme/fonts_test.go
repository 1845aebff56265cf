package theme

import (
	"errors"
	"reflect"
	"testing"

	"mdprint/warnings"
)

func TestFontChain(t *testing.T) {
	tests := []struct {
		primary  string
		fallback []string
		want     []string
	}{
		{"A", nil, []string{"A"}},
		{"A", []string{"B", "C"}, []string{"A", "B", "C"}},
		{"A", []string{"A", "B"}, []string{"A", "B"}},
		{"A", []string{"B", "a", "B", "C"}, []string{"A", "B", "C"}},
		{"", []string{"B", " "}, []string{"B"}},
	}
	for _, tt := range tests {
		if got := fontChain(tt.primary, tt.fallback); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("fontChain(%q, %v) = %v, want %v", tt.primary, tt.fallback, got, tt.want)
		}
	}
}

func TestFamilySet(t *testing.T) {
	s := NewFamilySet("Libertinus Serif", " DejaVu Sans Mono ")
	if !s.Has("libertinus serif") || !s.Has("DejaVu Sans Mono") {
		t.Error("FamilySet should match case insensitively")
	}
	if s.Has("Inter") {
		t.Error("FamilySet.Has(Inter) = true")
	}
}

func TestSelectFonts(t *testing.T) {
	r := &Resolved{tokens: Tokens{Fonts: Fonts{
		HeadingFallback: []string{"Inter", "Libertinus Serif"},
		BodyFallback:    []string{"Libertinus Serif"},
		MonoFallback:    []string{"Fira Code", "Unknown Mono", "DejaVu Sans Mono"},
	}}}
	c := warnings.NewCollector()
	sel, err := SelectFonts(r, NewFamilySet(EngineFamilies...), c)
	if err != nil {
		t.Fatalf("SelectFonts() error = %v", err)
	}
	if !reflect.DeepEqual(sel.Heading, []string{"Libertinus Serif"}) {
		t.Errorf("Heading = %v", sel.Heading)
	}
	if !reflect.DeepEqual(sel.Mono, []string{"DejaVu Sans Mono"}) {
		t.Errorf("Mono = %v", sel.Mono)
	}

	got := c.Warnings()
	want := []warnings.Warning{
		warnings.FontNotAvailable{Name: "Inter", Fallback: "Libertinus Serif"},
		warnings.FontNotAvailable{Name: "Fira Code", Fallback: "DejaVu Sans Mono"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("warnings = %v, want %v", got, want)
	}
}

func TestSelectFonts_Exhausted(t *testing.T) {
	r := &Resolved{tokens: Tokens{Fonts: Fonts{
		HeadingFallback: []string{"Libertinus Serif"},
		BodyFallback:    []string{"Inter", "Roboto"},
		MonoFallback:    []string{"DejaVu Sans Mono"},
	}}}
	_, err := SelectFonts(r, NewFamilySet(EngineFamilies...), warnings.NewCollector())
	var fe *FontExhaustedError
	if !errors.As(err, &fe) {
		t.Fatalf("SelectFonts() error = %v, want *FontExhaustedError", err)
	}
	if fe.Role != "body" || !reflect.DeepEqual(fe.Tried, []string{"Inter", "Roboto"}) {
		t.Errorf("error = %+v", fe)
	}
}
