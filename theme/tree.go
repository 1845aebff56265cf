package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// RawTree is theme document as parsed: section name -> field name -> value.
// Values are scalars (string, int64, float64, bool, time), arrays ([]any) or
// nested tables (map[string]any).
type RawTree struct {
	ID     string
	Origin string // file path or "builtin:<name>", used in diagnostics
	Data   map[string]any
}

// ParseTree parses theme text. Parse failures are reported as *InvalidError
// carrying line and column.
func ParseTree(id, origin string, text []byte) (*RawTree, error) {
	data := make(map[string]any)
	if _, err := toml.Decode(string(text), &data); err != nil {
		loc := Location{Source: origin}
		var perr toml.ParseError
		if errors.As(err, &perr) {
			loc.Line, loc.Column = perr.Position.Line, perr.Position.Col
			loc.Key = perr.LastKey
			return nil, &InvalidError{Location: loc, Message: perr.Message, Err: err}
		}
		return nil, &InvalidError{Location: loc, Message: "unable to parse theme", Err: err}
	}
	return &RawTree{ID: id, Origin: origin, Data: data}, nil
}

// Extends returns identifier of the parent theme or empty string.
func (t *RawTree) Extends() string {
	s, _ := t.lookup("meta", "extends").(string)
	return strings.TrimSpace(s)
}

// Name returns declared theme name falling back to identifier.
func (t *RawTree) Name() string {
	if s, ok := t.lookup("meta", "name").(string); ok && len(s) > 0 {
		return s
	}
	return t.ID
}

func (t *RawTree) lookup(path ...string) any {
	var cur any = t.Data
	for _, p := range path {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = m[p]
	}
	return cur
}

// Clone returns deep copy of the tree.
func (t *RawTree) Clone() *RawTree {
	return &RawTree{ID: t.ID, Origin: t.Origin, Data: deepCopyTable(t.Data)}
}

// mergeChain merges trees root-to-leaf into a new table. Scalars and arrays
// present in a descendant replace ancestor values, tables are merged key by
// key. Presence decides, so a leaf may reset inherited value to zero. None
// of the input trees are referenced by the result.
func mergeChain(chain []*RawTree) map[string]any {
	merged := make(map[string]any)
	for _, t := range chain {
		mergeTable(merged, t.Data)
	}
	return merged
}

func mergeTable(dst, src map[string]any) {
	for k, sv := range src {
		if st, ok := sv.(map[string]any); ok {
			if dt, ok := dst[k].(map[string]any); ok {
				mergeTable(dt, st)
				continue
			}
		}
		dst[k] = deepCopy(sv)
	}
}

func deepCopy(v any) any {
	switch vv := v.(type) {
	case map[string]any:
		return deepCopyTable(vv)
	case []any:
		out := make([]any, len(vv))
		for i := range vv {
			out[i] = deepCopy(vv[i])
		}
		return out
	case []map[string]any:
		out := make([]any, len(vv))
		for i := range vv {
			out[i] = deepCopyTable(vv[i])
		}
		return out
	default:
		return v
	}
}

func deepCopyTable(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = deepCopy(v)
	}
	return out
}

// missingSections returns required top level sections absent from table.
func missingSections(data map[string]any) []string {
	var missing []string
	for _, s := range RequiredSections {
		if _, ok := data[s].(map[string]any); !ok {
			missing = append(missing, s)
		}
	}
	return missing
}

// hasSyntaxTokens reports whether any of the named syntax token tables is
// present in the syntax section.
func hasSyntaxTokens(data map[string]any) bool {
	syn, ok := data["syntax"].(map[string]any)
	if !ok {
		return false
	}
	for _, name := range SyntaxTokenNames {
		if _, ok := syn[name].(map[string]any); ok {
			return true
		}
	}
	return false
}

// keys returns sorted keys, used to keep diagnostics deterministic.
func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func describe(v any) string {
	switch v.(type) {
	case map[string]any:
		return "table"
	case []any:
		return "array"
	default:
		return fmt.Sprintf("%T", v)
	}
}
