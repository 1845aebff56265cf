package warnings

import (
	"strings"
	"sync"
	"testing"
)

func TestCollector_Order(t *testing.T) {
	c := NewCollector()
	c.Add(ImageNotFound{Path: "a.png"})
	c.Add(UnknownLanguage{Lang: "brainfuck"})
	c.Add(RemoteImageSkipped{URL: "https://example.com/x.png"})

	got := c.Warnings()
	if len(got) != 3 {
		t.Fatalf("Warnings() len = %d, want 3", len(got))
	}
	kinds := []Kind{KindImageNotFound, KindUnknownLanguage, KindRemoteImageSkipped}
	for i, k := range kinds {
		if got[i].Kind() != k {
			t.Errorf("warning %d kind = %s, want %s", i, got[i].Kind(), k)
		}
	}
}

func TestCollector_WarningsIsCopy(t *testing.T) {
	c := NewCollector()
	c.Add(ImageNotFound{Path: "a.png"})

	got := c.Warnings()
	got[0] = UnknownLanguage{Lang: "x"}

	if c.Warnings()[0].Kind() != KindImageNotFound {
		t.Error("modifying returned slice changed collector contents")
	}
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	c.Add(ImageNotFound{Path: "a.png"})
	if !c.Empty() {
		t.Error("nil collector should stay empty")
	}
	if c.Warnings() != nil {
		t.Error("nil collector should return nil warnings")
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(UnknownLanguage{Lang: "x"})
		}()
	}
	wg.Wait()
	if c.Len() != 50 {
		t.Errorf("Len() = %d, want 50", c.Len())
	}
	if c.Count(KindUnknownLanguage) != 50 {
		t.Errorf("Count() = %d, want 50", c.Count(KindUnknownLanguage))
	}
}

func TestWarning_String(t *testing.T) {
	tests := []struct {
		w    Warning
		want string
	}{
		{ImageNotFound{Path: "missing.png"}, "missing.png"},
		{FontNotAvailable{Name: "Inter", Fallback: "Libertinus Serif"}, "falling back to 'Libertinus Serif'"},
		{UnknownLanguage{Lang: "foo"}, "'foo'"},
		{UnrecognizedFrontMatterField{Field: "colour"}, "'colour'"},
		{ContrastBelowMinimum{Element: "body text", Ratio: 2.345, Minimum: 4.5}, "2.35:1 below minimum 4.5:1"},
		{RemoteImageSkipped{URL: "http://x/y.png"}, "http://x/y.png"},
	}
	for _, tt := range tests {
		if s := tt.w.String(); !strings.Contains(s, tt.want) {
			t.Errorf("%T.String() = %q, want substring %q", tt.w, s, tt.want)
		}
	}
}
