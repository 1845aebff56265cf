package debug

import "testing"

func TestTreeWriter(t *testing.T) {
	tw := NewTreeWriter()
	if tw.String() != "" {
		t.Fatalf("new writer is not empty: %q", tw.String())
	}

	tw.Node(0, "Document")
	tw.Node(1, "Heading", "level", 2, "anchor", "", "numbered", false)
	tw.Node(2, "Text", "value", "Hello \"world\"\n")
	tw.Node(1, "List", "ordered", true, "start", 3, "tight", true, "odd")
	tw.Line(1, "footnotes: %d", 2)
	tw.TextBlock(2, "raw", "a\tb")
	tw.TextBlock(2, "empty", "")
	tw.Node(1, "Table", "align", []string{"left", "right"})

	want := `Document
  Heading level=2
    Text value="Hello \"world\"\n"
  List ordered=true start=3 tight=true
  footnotes: 2
    raw: "a\tb"
    empty: 
  Table align=[left right]
`
	if got := tw.String(); got != want {
		t.Errorf("tree:\n%s\nwant:\n%s", got, want)
	}
}

func TestEncodeText(t *testing.T) {
	tests := map[string]string{
		"":        "",
		"plain":   `"plain"`,
		"über":    `"über"`,
		"a\x00b":  `"a\x00b"`,
		`back\sl`: `"back\\sl"`,
	}
	for in, want := range tests {
		if got := encodeText(in); got != want {
			t.Errorf("encodeText(%q) = %s, want %s", in, got, want)
		}
	}
}
