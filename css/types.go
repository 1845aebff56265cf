package css

import "strings"

// Value is a parsed declaration value. Single dimension, percentage or
// number tokens fill Value and Unit, identifiers, strings, hashes and
// everything else end up in Keyword.
type Value struct {
	Raw     string
	Keyword string
	Value   float64
	Unit    string
}

// Is reports whether value is the keyword, case is ignored.
func (v Value) Is(keyword string) bool {
	return strings.EqualFold(v.Keyword, keyword)
}

// Has reports whether multi token value lists the keyword.
func (v Value) Has(keyword string) bool {
	for f := range strings.FieldsSeq(strings.ToLower(v.Raw)) {
		if f == keyword {
			return true
		}
	}
	return false
}

// Declarations maps lowercased property names to values. When property is
// repeated the last declaration wins.
type Declarations map[string]Value

// Get returns value of the first property present.
func (d Declarations) Get(names ...string) (Value, bool) {
	for _, n := range names {
		if v, ok := d[n]; ok {
			return v, true
		}
	}
	return Value{}, false
}
