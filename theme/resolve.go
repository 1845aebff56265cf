// Package theme resolves layered TOML themes into immutable styling tokens
// used by the document translator.
package theme

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mdprint/warnings"
)

// DefaultMaxChain is maximum number of themes in inheritance chain, leaf
// included.
const DefaultMaxChain = 6

type Resolver struct {
	src      Source
	maxChain int
	strict   bool
}

type Option func(*Resolver)

// WithMaxChain changes inheritance chain cap.
func WithMaxChain(n int) Option {
	return func(r *Resolver) {
		if n > 0 {
			r.maxChain = n
		}
	}
}

// WithStrict forces print safety validation even for themes not declaring
// it.
func WithStrict(strict bool) Option {
	return func(r *Resolver) {
		r.strict = strict
	}
}

func NewResolver(src Source, opts ...Option) *Resolver {
	r := &Resolver{src: src, maxChain: DefaultMaxChain}
	for _, o := range opts {
		o(r)
	}
	return r
}

// chainTrees follows "extends" from the leaf. Loaded trees are kept in arena,
// chain refers to them by index. Returned trees are ordered root to leaf.
func (r *Resolver) chainTrees(id string) ([]*RawTree, []string, error) {
	var (
		arena   []*RawTree
		index   = make(map[string]int)
		visited = make(map[int]bool)
		chain   []int
	)
	names := func(extra string) []string {
		out := make([]string, 0, len(chain)+1)
		for _, i := range chain {
			out = append(out, arena[i].ID)
		}
		if len(extra) > 0 {
			out = append(out, extra)
		}
		return out
	}

	for cur := id; len(cur) > 0; {
		idx, ok := index[cur]
		if !ok {
			t, err := r.src.Tree(cur)
			if err != nil {
				if len(chain) > 0 {
					return nil, nil, fmt.Errorf("theme '%s' extends '%s': %w", arena[chain[len(chain)-1]].ID, cur, err)
				}
				return nil, nil, err
			}
			arena = append(arena, t)
			idx = len(arena) - 1
			index[cur] = idx
		}
		if visited[idx] {
			return nil, nil, &CycleError{Chain: names(cur)}
		}
		visited[idx] = true
		chain = append(chain, idx)
		if len(chain) > r.maxChain {
			return nil, nil, &InheritanceDepthError{Chain: names(""), Max: r.maxChain}
		}
		cur = arena[idx].Extends()
	}

	trees := make([]*RawTree, len(chain))
	ids := make([]string, len(chain))
	for i, idx := range chain {
		trees[len(chain)-1-i] = arena[idx]
		ids[len(chain)-1-i] = arena[idx].ID
	}
	return trees, ids, nil
}

// Resolve produces fully merged and validated theme. Contrast problems are
// reported to collector, everything else is fatal.
func (r *Resolver) Resolve(id string, collector *warnings.Collector, log *zap.Logger) (*Resolved, error) {
	trees, ids, err := r.chainTrees(id)
	if err != nil {
		return nil, err
	}
	leaf := trees[len(trees)-1]
	origin := leaf.Origin
	log.Debug("Theme chain built", zap.String("theme", id), zap.Strings("chain", ids))

	merged := mergeChain(trees)
	if meta, ok := merged["meta"].(map[string]any); ok {
		delete(meta, "extends")
	}
	for _, s := range RequiredSections {
		if v, ok := merged[s]; ok {
			if _, ok := v.(map[string]any); !ok {
				return nil, &InvalidError{
					Location: Location{Source: origin, Key: s},
					Message:  "section must be a table, got " + describe(v),
				}
			}
		}
	}
	if missing := missingSections(merged); len(missing) > 0 {
		return nil, &InvalidError{
			Location: Location{Source: origin, Key: missing[0]},
			Message:  "missing required sections: " + strings.Join(missing, ", "),
		}
	}
	log.Debug("Theme merged", zap.Strings("sections", keys(merged)))

	if !hasSyntaxTokens(merged) {
		if err := applySyntaxFallback(merged); err != nil {
			return nil, err
		}
		log.Debug("Base syntax theme substituted", zap.String("theme", id))
	}

	tokens, err := decodeTokens(merged, origin)
	if err != nil {
		return nil, err
	}
	if err := resolveColors(tokens, origin); err != nil {
		return nil, err
	}

	tokens.Fonts.HeadingFallback = fontChain(tokens.Fonts.Heading, tokens.Fonts.HeadingFallback)
	tokens.Fonts.BodyFallback = fontChain(tokens.Fonts.Body, tokens.Fonts.BodyFallback)
	tokens.Fonts.MonoFallback = fontChain(tokens.Fonts.Mono, tokens.Fonts.MonoFallback)

	findings := contrastFindings(tokens)
	reportFindings(findings, collector)

	if tokens.Meta.PrintSafe || r.strict {
		if err := checkPrintSafety(tokens, origin); err != nil {
			return nil, err
		}
	}

	name := tokens.Meta.Name
	if len(name) == 0 {
		name = id
	}
	tm, err := generateTmTheme(name, &tokens.Syntax, codeBackground(tokens), tokens.Text.Color)
	if err != nil {
		return nil, err
	}

	return &Resolved{
		id:       id,
		chain:    ids,
		tokens:   *tokens,
		findings: findings,
		tmTheme:  tm,
	}, nil
}

// applySyntaxFallback fills syntax tokens from the base syntax theme of the
// matching variant. Values the theme set in [syntax] are kept.
func applySyntaxFallback(merged map[string]any) error {
	variant := "light"
	if meta, ok := merged["meta"].(map[string]any); ok {
		if v, ok := meta["variant"].(string); ok && v == "dark" {
			variant = "dark"
		}
	}
	reg, err := Builtin()
	if err != nil {
		return err
	}
	base, err := reg.Tree("_base-syntax-" + variant)
	if err != nil {
		return fmt.Errorf("base syntax theme: %w", err)
	}
	syn, _ := base.Data["syntax"].(map[string]any)
	out := deepCopyTable(syn)
	if own, ok := merged["syntax"].(map[string]any); ok {
		mergeTable(out, own)
	}
	merged["syntax"] = out
	return nil
}

// Resolved is theme ready for translation. It is never modified after
// construction, accessors return copies.
type Resolved struct {
	id       string
	chain    []string
	tokens   Tokens
	findings []Finding
	tmTheme  []byte
}

// ID returns identifier theme was requested by.
func (r *Resolved) ID() string { return r.id }

// Chain returns inheritance chain root first.
func (r *Resolved) Chain() []string { return append([]string(nil), r.chain...) }

func (r *Resolved) Tokens() Tokens { return r.tokens.clone() }

func (r *Resolved) Variant() string { return r.tokens.Meta.Variant }

func (r *Resolved) Findings() []Finding { return append([]Finding(nil), r.findings...) }

// FontChains returns per role font chains with primary family first.
func (r *Resolved) FontChains() FontChains {
	return FontChains{
		Heading: append([]string(nil), r.tokens.Fonts.HeadingFallback...),
		Body:    append([]string(nil), r.tokens.Fonts.BodyFallback...),
		Mono:    append([]string(nil), r.tokens.Fonts.MonoFallback...),
	}
}

// SyntaxTheme returns generated TextMate theme.
func (r *Resolved) SyntaxTheme() []byte { return append([]byte(nil), r.tmTheme...) }

// Resources returns virtual files typesetting engine must be able to load,
// keyed by logical path.
func (r *Resolved) Resources() map[string][]byte {
	return map[string][]byte{ResourcePath: r.SyntaxTheme()}
}
