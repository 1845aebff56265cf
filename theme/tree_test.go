package theme

import (
	"errors"
	"reflect"
	"testing"
)

func mustParse(t *testing.T, id, text string) *RawTree {
	t.Helper()
	tree, err := ParseTree(id, "test:"+id, []byte(text))
	if err != nil {
		t.Fatalf("ParseTree(%s) error = %v", id, err)
	}
	return tree
}

func TestParseTree_Error(t *testing.T) {
	_, err := ParseTree("broken", "broken.toml", []byte("[meta]\nname = \"x\"\nvariant = \n"))
	var ie *InvalidError
	if !errors.As(err, &ie) {
		t.Fatalf("ParseTree() error = %v, want *InvalidError", err)
	}
	if ie.Location.Source != "broken.toml" {
		t.Errorf("Source = %q, want broken.toml", ie.Location.Source)
	}
	if ie.Location.Line == 0 {
		t.Error("Line is not set")
	}
}

func TestRawTree_Extends(t *testing.T) {
	tree := mustParse(t, "x", "[meta]\nextends = \" parent \"\n")
	if got := tree.Extends(); got != "parent" {
		t.Errorf("Extends() = %q, want parent", got)
	}
	if got := tree.Name(); got != "x" {
		t.Errorf("Name() = %q, want x", got)
	}
	if got := mustParse(t, "y", "[colors]\na = \"#fff\"\n").Extends(); got != "" {
		t.Errorf("Extends() = %q, want empty", got)
	}
}

func TestMergeChain(t *testing.T) {
	root := mustParse(t, "root", `
[fonts]
body = "A"
body_fallback = ["A", "B"]

[colors]
red = "#ff0000"
blue = "#0000ff"

[syntax.keyword]
color = "red"
bold = true
`)
	leaf := mustParse(t, "leaf", `
[fonts]
body_fallback = ["C"]

[colors]
blue = "#0000aa"
green = "#00ff00"

[syntax.keyword]
bold = false
`)
	merged := mergeChain([]*RawTree{root, leaf})

	fonts := merged["fonts"].(map[string]any)
	if fonts["body"] != "A" {
		t.Errorf("fonts.body = %v, want inherited A", fonts["body"])
	}
	if got := fonts["body_fallback"]; !reflect.DeepEqual(got, []any{"C"}) {
		t.Errorf("fonts.body_fallback = %v, want [C]", got)
	}

	colors := merged["colors"].(map[string]any)
	want := map[string]any{"red": "#ff0000", "blue": "#0000aa", "green": "#00ff00"}
	if !reflect.DeepEqual(colors, want) {
		t.Errorf("colors = %v, want %v", colors, want)
	}

	kw := merged["syntax"].(map[string]any)["keyword"].(map[string]any)
	if kw["color"] != "red" || kw["bold"] != false {
		t.Errorf("syntax.keyword = %v", kw)
	}
}

func TestMergeChain_NoAliasing(t *testing.T) {
	root := mustParse(t, "root", "[fonts]\nbody_fallback = [\"A\", \"B\"]\n[colors]\nred = \"#ff0000\"\n")
	merged := mergeChain([]*RawTree{root})

	merged["colors"].(map[string]any)["red"] = "#000000"
	merged["fonts"].(map[string]any)["body_fallback"].([]any)[0] = "Z"

	if got := root.Data["colors"].(map[string]any)["red"]; got != "#ff0000" {
		t.Errorf("input table changed through merge result: %v", got)
	}
	if got := root.Data["fonts"].(map[string]any)["body_fallback"].([]any)[0]; got != "A" {
		t.Errorf("input array changed through merge result: %v", got)
	}
}

func TestRawTree_Clone(t *testing.T) {
	tree := mustParse(t, "x", "[colors]\nred = \"#ff0000\"\n")
	c := tree.Clone()
	c.Data["colors"].(map[string]any)["red"] = "#000000"
	if tree.Data["colors"].(map[string]any)["red"] != "#ff0000" {
		t.Error("Clone() shares data with original")
	}
}

func TestHasSyntaxTokens(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"[meta]\nname = \"x\"\n", false},
		{"[syntax]\nbackground = \"#ffffff\"\n", false},
		{"[syntax.text]\ncolor = \"#000000\"\n", false},
		{"[syntax.comment]\ncolor = \"#000000\"\n", true},
	}
	for _, tt := range tests {
		if got := hasSyntaxTokens(mustParse(t, "x", tt.text).Data); got != tt.want {
			t.Errorf("hasSyntaxTokens(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
