package theme

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/multierr"

	"mdprint/warnings"
)

// Finding is result of single foreground/background contrast check.
type Finding struct {
	Element    string  `yaml:"element"`
	Foreground string  `yaml:"foreground"`
	Background string  `yaml:"background"`
	Ratio      float64 `yaml:"ratio"`
	Minimum    float64 `yaml:"minimum"`
	Pass       bool    `yaml:"pass"`
}

// normalizeHex expands 3 and 4 digit forms and drops alpha channel so the
// result is always #rrggbb.
func normalizeHex(s string) (string, bool) {
	if !IsHex(s) {
		return "", false
	}
	h := strings.ToLower(s[1:])
	switch len(h) {
	case 3, 4:
		return "#" + string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}), true
	case 8:
		return "#" + h[:6], true
	default:
		return "#" + h, true
	}
}

// Luminance returns WCAG relative luminance of hex color, 0 for black and 1
// for white.
func Luminance(hex string) (float64, error) {
	norm, ok := normalizeHex(hex)
	if !ok {
		return 0, fmt.Errorf("malformed hex color '%s'", hex)
	}
	c, err := colorful.Hex(norm)
	if err != nil {
		return 0, fmt.Errorf("unable to parse color '%s': %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return 0.2126*r + 0.7152*g + 0.0722*b, nil
}

// ContrastRatio returns WCAG contrast ratio of two colors, always >= 1.
func ContrastRatio(a, b string) (float64, error) {
	la, err := Luminance(a)
	if err != nil {
		return 0, err
	}
	lb, err := Luminance(b)
	if err != nil {
		return 0, err
	}
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05), nil
}

// codeBackground is background the engine paints code with.
func codeBackground(t *Tokens) string {
	if len(t.Syntax.Background) > 0 {
		return t.Syntax.Background
	}
	return t.CodeBlock.Background
}

// contrastFindings checks fixed set of pairs. Pairs with unset color are
// skipped.
func contrastFindings(t *Tokens) []Finding {
	page := t.Page.Background
	pairs := []struct {
		element string
		fg, bg  string
		minimum float64
	}{
		{"body text", t.Text.Color, page, 4.5},
		{"headings", t.Headings.Color, page, 3.0},
		{"links", t.Links.Color, page, 4.5},
		{"blockquote text", t.Blockquote.TextColor, page, 4.5},
		{"table header", t.Text.Color, t.Table.HeaderBackground, 4.5},
		{"caption text", t.Images.CaptionColor, page, 4.5},
		{"footnote numbers", t.Footnotes.NumberColor, page, 4.5},
		{"page numbers", t.PageNumbers.Color, page, 3.0},
		{"toc entries", t.TOC.EntryColor, page, 4.5},
		{"code text", t.Syntax.Text.Color, codeBackground(t), 4.5},
	}

	findings := make([]Finding, 0, len(pairs))
	for _, p := range pairs {
		if len(p.fg) == 0 || len(p.bg) == 0 {
			continue
		}
		ratio, err := ContrastRatio(p.fg, p.bg)
		if err != nil {
			// colors were validated during resolution
			continue
		}
		findings = append(findings, Finding{
			Element:    p.element,
			Foreground: p.fg,
			Background: p.bg,
			Ratio:      ratio,
			Minimum:    p.minimum,
			Pass:       ratio >= p.minimum,
		})
	}
	return findings
}

func reportFindings(findings []Finding, collector *warnings.Collector) {
	for _, f := range findings {
		if !f.Pass {
			collector.Add(warnings.ContrastBelowMinimum{Element: f.Element, Ratio: f.Ratio, Minimum: f.Minimum})
		}
	}
}

// checkPrintSafety validates bounds required from print-safe themes. All
// violations are reported together.
func checkPrintSafety(t *Tokens, origin string) error {
	var errs error

	luminance := func(name, hex string) (float64, bool) {
		if len(hex) == 0 {
			return 0, false
		}
		l, err := Luminance(hex)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			return 0, false
		}
		return l, true
	}
	atLeast := func(name, hex string, min float64) {
		if l, ok := luminance(name, hex); ok && l < min {
			errs = multierr.Append(errs, fmt.Errorf("%s luminance %.3f below %.2f", name, l, min))
		}
	}
	atMost := func(name, hex string, max float64) {
		if l, ok := luminance(name, hex); ok && l > max {
			errs = multierr.Append(errs, fmt.Errorf("%s luminance %.3f above %.2f", name, l, max))
		}
	}
	ratio := func(name, fg, bg string, min float64) {
		if len(fg) == 0 || len(bg) == 0 {
			return
		}
		r, err := ContrastRatio(fg, bg)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			return
		}
		if r < min {
			errs = multierr.Append(errs, fmt.Errorf("%s contrast %.2f:1 below %.1f:1", name, r, min))
		}
	}

	atLeast("page background", t.Page.Background, 0.85)
	atLeast("code block background", t.CodeBlock.Background, 0.75)
	atMost("primary text", t.Text.Color, 0.15)
	ratio("body text", t.Text.Color, t.Page.Background, 7.0)
	ratio("headings", t.Headings.Color, t.Page.Background, 4.5)
	atMost("accent", t.Links.Color, 0.50)
	atLeast("table header background", t.Table.HeaderBackground, 0.80)

	if errs == nil {
		return nil
	}
	list := multierr.Errors(errs)
	msgs := make([]string, 0, len(list))
	for _, e := range list {
		msgs = append(msgs, e.Error())
	}
	return &InvalidError{
		Location: Location{Source: origin, Key: "meta.print_safe"},
		Message:  "theme is declared print-safe but " + strings.Join(msgs, "; "),
		Err:      errs,
	}
}
