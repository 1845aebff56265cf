package theme

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

type dumpDoc struct {
	Theme    string    `yaml:"theme"`
	Chain    []string  `yaml:"chain"`
	Tokens   Tokens    `yaml:"tokens"`
	Findings []Finding `yaml:"contrast"`
}

// Dump serializes resolved theme as YAML for inspection. Output is stable for
// the same theme.
func (r *Resolved) Dump() ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(dumpDoc{
		Theme:    r.id,
		Chain:    r.chain,
		Tokens:   r.tokens,
		Findings: r.findings,
	}); err != nil {
		return nil, fmt.Errorf("unable to dump theme: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("unable to dump theme: %w", err)
	}
	return buf.Bytes(), nil
}
