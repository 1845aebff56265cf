package theme

import (
	"math"
	"strings"
	"testing"
)

func TestIsHex(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#fff", true},
		{"#ffff", true},
		{"#ffffff", true},
		{"#ffffff80", true},
		{"#ABCDEF", true},
		{"#ff", false},
		{"#fffff", false},
		{"#fffffff", false},
		{"ffffff", false},
		{"#gggggg", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsHex(tt.in); got != tt.want {
			t.Errorf("IsHex(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		hex  string
		want float64
	}{
		{"#000000", 0},
		{"#ffffff", 1},
		{"#fff", 1},
		{"#ffffff00", 1},
		{"#000f", 0},
		{"#808080", 0.2158605},
	}
	for _, tt := range tests {
		got, err := Luminance(tt.hex)
		if err != nil {
			t.Fatalf("Luminance(%s) error = %v", tt.hex, err)
		}
		if math.Abs(got-tt.want) > 1e-4 {
			t.Errorf("Luminance(%s) = %f, want %f", tt.hex, got, tt.want)
		}
	}
	if _, err := Luminance("navy"); err == nil {
		t.Error("Luminance(navy) should fail")
	}
}

func TestContrastRatio(t *testing.T) {
	r, err := ContrastRatio("#000000", "#ffffff")
	if err != nil {
		t.Fatalf("ContrastRatio() error = %v", err)
	}
	if math.Abs(r-21) > 1e-6 {
		t.Errorf("black/white = %f, want 21", r)
	}
	r2, _ := ContrastRatio("#ffffff", "#000")
	if math.Abs(r-r2) > 1e-9 {
		t.Errorf("ratio depends on argument order: %f vs %f", r, r2)
	}
	same, _ := ContrastRatio("#777777", "#777")
	if math.Abs(same-1) > 1e-9 {
		t.Errorf("same color ratio = %f, want 1", same)
	}
}

func TestContrastFindings_SkipsUnset(t *testing.T) {
	tokens := &Tokens{}
	tokens.Page.Background = "#ffffff"
	tokens.Text.Color = "#000000"
	findings := contrastFindings(tokens)
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if f := findings[0]; f.Element != "body text" || !f.Pass {
		t.Errorf("finding = %+v", f)
	}
}

func TestCheckPrintSafety_CollectsAll(t *testing.T) {
	tokens := &Tokens{}
	tokens.Page.Background = "#999999"
	tokens.CodeBlock.Background = "#999999"
	tokens.Text.Color = "#777777"
	tokens.Links.Color = "#eeeeee"
	err := checkPrintSafety(tokens, "test")
	ie, ok := err.(*InvalidError)
	if !ok {
		t.Fatalf("checkPrintSafety() error = %v, want *InvalidError", err)
	}
	for _, want := range []string{"page background", "code block background", "primary text", "body text", "accent"} {
		if !strings.Contains(ie.Message, want) {
			t.Errorf("message %q does not mention %s", ie.Message, want)
		}
	}
}

