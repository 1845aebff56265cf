package theme

import (
	"strings"

	"mdprint/warnings"
)

// EngineFamilies are font families typesetting engine always carries.
var EngineFamilies = []string{
	"Libertinus Serif",
	"New Computer Modern",
	"New Computer Modern Math",
	"DejaVu Sans Mono",
}

// Catalog answers whether font family can be used for rendering.
type Catalog interface {
	Has(family string) bool
}

// FamilySet is Catalog over fixed list of families, names are compared case
// insensitively.
type FamilySet map[string]struct{}

func NewFamilySet(families ...string) FamilySet {
	s := make(FamilySet, len(families))
	for _, f := range families {
		if f = strings.TrimSpace(f); len(f) > 0 {
			s[strings.ToLower(f)] = struct{}{}
		}
	}
	return s
}

func (s FamilySet) Has(family string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(family))]
	return ok
}

// FontChains holds ordered candidate families per role with the declared
// primary family first.
type FontChains struct {
	Heading []string
	Body    []string
	Mono    []string
}

// fontChain puts primary in front of fallbacks and drops repeated families,
// keeping first occurrence.
func fontChain(primary string, fallback []string) []string {
	out := make([]string, 0, len(fallback)+1)
	seen := make(map[string]struct{}, len(fallback)+1)
	add := func(f string) {
		f = strings.TrimSpace(f)
		if len(f) == 0 {
			return
		}
		k := strings.ToLower(f)
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, f)
	}
	add(primary)
	for _, f := range fallback {
		add(f)
	}
	return out
}

// FontSelection is result of matching font chains against catalog.
// Chains keep only available families, first entry is the one in use.
type FontSelection struct {
	Heading []string
	Body    []string
	Mono    []string
}

// SelectFonts walks every role chain of the resolved theme and picks
// available families. Missing primary is reported as warning, role with no
// available family at all is fatal.
func SelectFonts(r *Resolved, catalog Catalog, collector *warnings.Collector) (*FontSelection, error) {
	chains := r.FontChains()
	sel := &FontSelection{}
	roles := []struct {
		role  string
		chain []string
		dst   *[]string
	}{
		{"heading", chains.Heading, &sel.Heading},
		{"body", chains.Body, &sel.Body},
		{"mono", chains.Mono, &sel.Mono},
	}
	for _, role := range roles {
		avail := make([]string, 0, len(role.chain))
		for _, f := range role.chain {
			if catalog.Has(f) {
				avail = append(avail, f)
			}
		}
		if len(avail) == 0 {
			return nil, &FontExhaustedError{Role: role.role, Tried: role.chain}
		}
		if avail[0] != role.chain[0] {
			collector.Add(warnings.FontNotAvailable{Name: role.chain[0], Fallback: avail[0]})
		}
		*role.dst = avail
	}
	return sel, nil
}
