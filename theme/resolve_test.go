package theme

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap/zaptest"

	"mdprint/warnings"
)

func builtinSource(t *testing.T) *Registry {
	t.Helper()
	reg, err := Builtin()
	if err != nil {
		t.Fatalf("Builtin() error = %v", err)
	}
	return reg
}

func resolve(t *testing.T, src Source, id string, opts ...Option) (*Resolved, *warnings.Collector, error) {
	t.Helper()
	c := warnings.NewCollector()
	r, err := NewResolver(src, opts...).Resolve(id, c, zaptest.NewLogger(t))
	return r, c, err
}

func TestResolve_Builtins(t *testing.T) {
	reg := builtinSource(t)
	for _, info := range reg.Infos() {
		t.Run(info.Name, func(t *testing.T) {
			r, _, err := resolve(t, reg, info.Name)
			if err != nil {
				t.Fatalf("Resolve(%s) error = %v", info.Name, err)
			}
			if r.Variant() != info.Variant {
				t.Errorf("Variant() = %s, want %s", r.Variant(), info.Variant)
			}
			if chain := r.Chain(); chain[0] != "_base" || chain[len(chain)-1] != info.Name {
				t.Errorf("Chain() = %v", chain)
			}
		})
	}
}

func TestResolve_DefaultThemeHasNoContrastWarnings(t *testing.T) {
	_, c, err := resolve(t, builtinSource(t), "silk-light")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	for _, w := range c.Warnings() {
		t.Errorf("unexpected warning: %s", w)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	reg := builtinSource(t)
	for _, name := range []string{"silk-light", "nord", "manuscript"} {
		r1, _, err := resolve(t, reg, name)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", name, err)
		}
		r2, _, err := resolve(t, reg, name)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", name, err)
		}
		d1, err := r1.Dump()
		if err != nil {
			t.Fatalf("Dump() error = %v", err)
		}
		d2, err := r2.Dump()
		if err != nil {
			t.Fatalf("Dump() error = %v", err)
		}
		if !bytes.Equal(d1, d2) {
			t.Errorf("%s: dumps differ between resolutions", name)
		}
		if !bytes.Equal(r1.SyntaxTheme(), r2.SyntaxTheme()) {
			t.Errorf("%s: syntax themes differ between resolutions", name)
		}
	}
}

func TestResolve_Cycle(t *testing.T) {
	src := MemorySource{
		"a": "[meta]\nextends = \"b\"\n",
		"b": "[meta]\nextends = \"a\"\n",
	}
	_, _, err := resolve(t, src, "a")
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Resolve() error = %v, want *CycleError", err)
	}
	if want := []string{"a", "b", "a"}; !reflect.DeepEqual(ce.Chain, want) {
		t.Errorf("Chain = %v, want %v", ce.Chain, want)
	}
}

func TestResolve_SelfCycle(t *testing.T) {
	src := MemorySource{"a": "[meta]\nextends = \"a\"\n"}
	_, _, err := resolve(t, src, "a")
	var ce *CycleError
	if !errors.As(err, &ce) {
		t.Fatalf("Resolve() error = %v, want *CycleError", err)
	}
}

// chainSource builds t1 -> t2 -> ... -> tN -> _base.
func chainSource(t *testing.T, n int) Sources {
	src := MemorySource{}
	for i := 1; i <= n; i++ {
		parent := "_base"
		if i < n {
			parent = fmt.Sprintf("t%d", i+1)
		}
		src[fmt.Sprintf("t%d", i)] = fmt.Sprintf("[meta]\nextends = %q\n", parent)
	}
	return Sources{src, builtinSource(t)}
}

func TestResolve_InheritanceDepth(t *testing.T) {
	// five themes plus _base fit into default cap
	if _, _, err := resolve(t, chainSource(t, 5), "t1"); err != nil {
		t.Fatalf("Resolve() with 6 themes error = %v", err)
	}

	_, _, err := resolve(t, chainSource(t, 6), "t1")
	var de *InheritanceDepthError
	if !errors.As(err, &de) {
		t.Fatalf("Resolve() error = %v, want *InheritanceDepthError", err)
	}
	if de.Max != DefaultMaxChain {
		t.Errorf("Max = %d, want %d", de.Max, DefaultMaxChain)
	}

	if _, _, err := resolve(t, chainSource(t, 2), "t1", WithMaxChain(2)); !errors.As(err, &de) {
		t.Fatalf("Resolve() with cap 2 error = %v, want *InheritanceDepthError", err)
	}
}

func TestResolve_MissingParent(t *testing.T) {
	src := Sources{MemorySource{"child": "[meta]\nextends = \"silk-lite\"\n"}, builtinSource(t)}
	_, _, err := resolve(t, src, "child")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Resolve() error = %v, want *NotFoundError", err)
	}
	found := false
	for _, s := range nf.Suggestions {
		if s == "silk-light" {
			found = true
		}
	}
	if !found {
		t.Errorf("Suggestions = %v, want silk-light among them", nf.Suggestions)
	}
}

func TestResolve_AllColorsHex(t *testing.T) {
	reg := builtinSource(t)
	for _, info := range reg.Infos() {
		r, _, err := resolve(t, reg, info.Name)
		if err != nil {
			t.Fatalf("Resolve(%s) error = %v", info.Name, err)
		}
		tokens := r.Tokens()
		for k, v := range tokens.Colors {
			if !IsHex(v) {
				t.Errorf("%s: colors.%s = %q is not hex", info.Name, k, v)
			}
		}
		for _, f := range colorFields(&tokens) {
			if v := *f.ptr; len(v) > 0 && !IsHex(v) {
				t.Errorf("%s: %s = %q is not hex", info.Name, f.name, v)
			}
		}
	}
}

func TestResolve_ColorAlias(t *testing.T) {
	src := Sources{MemorySource{"t": `
[meta]
extends = "_base"

[colors]
accent_blue = "#4a5dbd"
primary = "accent_blue"

[links]
color = "primary"
`}, builtinSource(t)}
	r, _, err := resolve(t, src, "t")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	tokens := r.Tokens()
	if got := tokens.Colors["primary"]; got != "#4a5dbd" {
		t.Errorf("colors.primary = %q, want #4a5dbd", got)
	}
	if got := tokens.Links.Color; got != "#4a5dbd" {
		t.Errorf("links.color = %q, want #4a5dbd", got)
	}
}

func TestResolve_ColorErrors(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		check func(error) bool
	}{
		{
			name:  "alias of alias",
			theme: "[colors]\na = \"b\"\nb = \"c\"\nc = \"#ffffff\"\n",
			check: func(err error) bool {
				var e *AliasChainTooDeepError
				return errors.As(err, &e) && e.Key == "a"
			},
		},
		{
			name:  "alias to nowhere",
			theme: "[colors]\na = \"missing\"\n",
			check: func(err error) bool {
				var e *UnknownColorReferenceError
				return errors.As(err, &e) && e.Field == "colors.a" && e.Reference == "missing"
			},
		},
		{
			name:  "malformed hex in table",
			theme: "[colors]\na = \"#12345\"\n",
			check: func(err error) bool {
				var e *InvalidError
				return errors.As(err, &e) && e.Location.Key == "colors.a"
			},
		},
		{
			name:  "unknown field reference",
			theme: "[links]\ncolor = \"nope\"\n",
			check: func(err error) bool {
				var e *UnknownColorReferenceError
				return errors.As(err, &e) && e.Field == "links.color" && e.Reference == "nope"
			},
		},
		{
			name:  "syntax token reference",
			theme: "[syntax]\nkeyword = { color = \"nope\" }\n",
			check: func(err error) bool {
				var e *UnknownColorReferenceError
				return errors.As(err, &e) && e.Field == "syntax.keyword.color"
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Sources{MemorySource{"t": "[meta]\nextends = \"_base\"\n" + tt.theme}, builtinSource(t)}
			_, _, err := resolve(t, src, "t")
			if !tt.check(err) {
				t.Errorf("Resolve() error = %v (%T)", err, err)
			}
		})
	}
}

func TestResolve_ArrayReplaced(t *testing.T) {
	src := Sources{MemorySource{
		"parent": "[meta]\nextends = \"_base\"\n[fonts]\nbody_fallback = [\"A\", \"B\"]\n",
		"child":  "[meta]\nextends = \"parent\"\n[fonts]\nbody_fallback = [\"C\"]\n",
	}, builtinSource(t)}
	r, _, err := resolve(t, src, "child")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"Libertinus Serif", "C"}
	if got := r.FontChains().Body; !reflect.DeepEqual(got, want) {
		t.Errorf("body chain = %v, want %v", got, want)
	}
}

func TestResolve_PrimaryFontPrepended(t *testing.T) {
	src := Sources{MemorySource{
		"t": "[meta]\nextends = \"_base\"\n[fonts]\nheading = \"Inter\"\nheading_fallback = [\"Roboto\", \"Inter\", \"Roboto\"]\n",
	}, builtinSource(t)}
	r, _, err := resolve(t, src, "t")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"Inter", "Roboto"}
	if got := r.FontChains().Heading; !reflect.DeepEqual(got, want) {
		t.Errorf("heading chain = %v, want %v", got, want)
	}
}

func TestResolve_PrintSafeFatal(t *testing.T) {
	src := Sources{MemorySource{
		"t": "[meta]\nextends = \"_base\"\nprint_safe = true\n[colors]\npaper = \"#cccccc\"\n",
	}, builtinSource(t)}
	r, _, err := resolve(t, src, "t")
	if r != nil {
		t.Fatal("Resolve() returned theme despite print safety violation")
	}
	var ie *InvalidError
	if !errors.As(err, &ie) {
		t.Fatalf("Resolve() error = %v, want *InvalidError", err)
	}
	if !strings.Contains(ie.Message, "page background") {
		t.Errorf("Message = %q, want page background violation", ie.Message)
	}
	if ie.Location.Key != "meta.print_safe" {
		t.Errorf("Location.Key = %q", ie.Location.Key)
	}
}

func TestResolve_StrictForcesPrintSafety(t *testing.T) {
	reg := builtinSource(t)
	if _, _, err := resolve(t, reg, "silk-dark"); err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	_, _, err := resolve(t, reg, "silk-dark", WithStrict(true))
	var ie *InvalidError
	if !errors.As(err, &ie) {
		t.Fatalf("Resolve() strict error = %v, want *InvalidError", err)
	}
}

func TestResolve_ContrastWarning(t *testing.T) {
	src := Sources{MemorySource{
		"t": "[meta]\nextends = \"_base\"\n[links]\ncolor = \"#dddddd\"\n",
	}, builtinSource(t)}
	r, c, err := resolve(t, src, "t")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if c.Count(warnings.KindContrastBelowMinimum) != 1 {
		t.Fatalf("warnings = %v, want one contrast warning", c.Warnings())
	}
	w := c.Warnings()[0].(warnings.ContrastBelowMinimum)
	if w.Element != "links" || w.Minimum != 4.5 {
		t.Errorf("warning = %+v", w)
	}
	failed := 0
	for _, f := range r.Findings() {
		if !f.Pass {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("failed findings = %d, want 1", failed)
	}
}

func TestResolve_InheritsAndIsolated(t *testing.T) {
	src := MemorySource{
		"base":  "[meta]\nextends = \"_base\"\n[colors]\naccent = \"#112233\"\n",
		"child": "[meta]\nextends = \"base\"\n[links]\ncolor = \"#aa0000\"\n",
	}
	sources := Sources{src, builtinSource(t)}

	base, _, err := resolve(t, sources, "base")
	if err != nil {
		t.Fatalf("Resolve(base) error = %v", err)
	}
	child, _, err := resolve(t, sources, "child")
	if err != nil {
		t.Fatalf("Resolve(child) error = %v", err)
	}

	want := base.Tokens()
	want.Links.Color = "#aa0000"
	if got := child.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("child tokens differ from base beyond links.color")
	}

	src["base"] = "[meta]\nextends = \"_base\"\n[colors]\naccent = \"#445566\"\n"
	again, _, err := resolve(t, sources, "child")
	if err != nil {
		t.Fatalf("Resolve(child) error = %v", err)
	}
	if got := again.Tokens().Colors["accent"]; got != "#445566" {
		t.Errorf("new resolution accent = %s, want #445566", got)
	}
	if got := child.Tokens().Colors["accent"]; got != "#112233" {
		t.Errorf("earlier resolution changed, accent = %s", got)
	}
}

func TestResolve_ZeroValueOverrides(t *testing.T) {
	src := Sources{MemorySource{
		"t": "[meta]\nextends = \"_base\"\n[page_numbers]\nenabled = false\n[blockquote]\nbackground_opacity = 0.0\n",
	}, builtinSource(t)}
	r, _, err := resolve(t, src, "t")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	tokens := r.Tokens()
	if tokens.PageNumbers.Enabled {
		t.Error("page_numbers.enabled = true, want leaf false to win")
	}
	if tokens.Blockquote.BackgroundOpacity != 0 {
		t.Errorf("blockquote.background_opacity = %v, want 0", tokens.Blockquote.BackgroundOpacity)
	}
}

func TestResolve_TokensAreCopies(t *testing.T) {
	r, _, err := resolve(t, builtinSource(t), "silk-light")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	tokens := r.Tokens()
	tokens.Colors["accent"] = "#000000"
	tokens.Fonts.BodyFallback[0] = "Changed"
	again := r.Tokens()
	if again.Colors["accent"] == "#000000" || again.Fonts.BodyFallback[0] == "Changed" {
		t.Error("modifying returned tokens changed resolved theme")
	}
}

func TestResolve_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		theme string
		key   string
	}{
		{"unknown key", "[meta]\nextends = \"_base\"\n[links]\ncolour = \"#000000\"\n", "links.colour"},
		{"bad enum", "[meta]\nextends = \"_base\"\n[text]\nspacing_mode = \"wide\"\n", "text.spacing_mode"},
		{"bad variant", "[meta]\nextends = \"_base\"\nvariant = \"sepia\"\n", "meta.variant"},
		{"toc depth", "[meta]\nextends = \"_base\"\n[toc]\nmax_depth = 9\n", "toc.max_depth"},
		{"leader", "[meta]\nextends = \"_base\"\n[toc]\nleader_style = \"wavy\"\n", "toc.leader_style"},
		{"heading weight", "[meta]\nextends = \"_base\"\n[headings.h2]\nweight = 1000\n", "headings.h2.weight"},
		{"indent without width", "[meta]\nextends = \"_base\"\n[text]\nspacing_mode = \"indent\"\nfirst_line_indent = \"\"\n", "text.first_line_indent"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := Sources{MemorySource{"t": tt.theme}, builtinSource(t)}
			_, _, err := resolve(t, src, "t")
			var ie *InvalidError
			if !errors.As(err, &ie) {
				t.Fatalf("Resolve() error = %v, want *InvalidError", err)
			}
			if ie.Location.Key != tt.key {
				t.Errorf("Location.Key = %q, want %q (%v)", ie.Location.Key, tt.key, err)
			}
		})
	}
}

func TestResolve_MissingSections(t *testing.T) {
	src := MemorySource{"t": "[meta]\nname = \"lonely\"\nvariant = \"light\"\n[colors]\na = \"#ffffff\"\n"}
	_, _, err := resolve(t, src, "t")
	var ie *InvalidError
	if !errors.As(err, &ie) {
		t.Fatalf("Resolve() error = %v, want *InvalidError", err)
	}
	if ie.Location.Key != "fonts" || !strings.Contains(ie.Message, "description_list") {
		t.Errorf("error = %v", err)
	}
}

func TestResolve_SyntaxFallback(t *testing.T) {
	reg := builtinSource(t)

	dark, _, err := resolve(t, reg, "silk-dark")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := dark.Tokens().Syntax.Keyword.Color; got != "#ff7b72" {
		t.Errorf("dark keyword color = %s, want #ff7b72", got)
	}
	if !bytes.Contains(dark.SyntaxTheme(), []byte("#ff7b72")) {
		t.Error("dark syntax theme does not carry fallback keyword color")
	}

	light, _, err := resolve(t, reg, "silk-light")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := light.Tokens().Syntax.Keyword.Color; got != "#a0262e" {
		t.Errorf("light keyword color = %s, want #a0262e", got)
	}

	// nord carries its own tokens, fallback must not touch them
	nord, _, err := resolve(t, reg, "nord")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if got := nord.Tokens().Syntax.Keyword.Color; got != "#81a1c1" {
		t.Errorf("nord keyword color = %s, want #81a1c1", got)
	}
}

func TestResolved_Resources(t *testing.T) {
	r, _, err := resolve(t, builtinSource(t), "silk-light")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	res := r.Resources()
	if len(res) != 1 {
		t.Fatalf("Resources() len = %d, want 1", len(res))
	}
	if data, ok := res[ResourcePath]; !ok || !bytes.HasPrefix(data, []byte("<?xml")) {
		t.Errorf("resource at %s missing or malformed", ResourcePath)
	}
}
