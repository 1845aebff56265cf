package theme

import (
	"sort"
	"strings"

	"github.com/xrash/smetrics"
)

const (
	maxSuggestions = 5
	maxDistance    = 3
)

// suggest returns known names similar to the requested one: containing it,
// contained in it or within edit distance of 3.
func suggest(name string, known []string) []string {
	name = strings.ToLower(strings.TrimSpace(strings.TrimSuffix(name, ".toml")))
	if len(name) == 0 {
		return nil
	}
	var out []string
	for _, k := range known {
		kl := strings.ToLower(k)
		if strings.Contains(kl, name) || strings.Contains(name, kl) || smetrics.WagnerFischer(name, kl, 1, 1, 1) <= maxDistance {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	if len(out) > maxSuggestions {
		out = out[:maxSuggestions]
	}
	return out
}
