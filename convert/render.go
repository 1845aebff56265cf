package convert

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mdprint/content"
	"mdprint/convert/typst"
	"mdprint/theme"
	"mdprint/warnings"
)

// Options control rendering of a single document.
type Options struct {
	// Theme wins over front matter when set.
	Theme string
	// DefaultTheme is used when neither Theme nor front matter selects one.
	DefaultTheme string
	// Strict validates print safety bounds for any theme.
	Strict bool
	Typst  typst.Options
}

// Result is rendered document together with everything needed to compile
// it.
type Result struct {
	*typst.Result

	// ID correlates log records and report entries of one render.
	ID       string
	Theme    *theme.Resolved
	Warnings []warnings.Warning
}

// Resources returns virtual files markup refers to, keyed by logical path.
func (r *Result) Resources() map[string][]byte {
	return r.Theme.Resources()
}

// EffectiveTheme applies theme precedence: explicit override, front matter,
// configured default, built-in default.
func EffectiveTheme(opts Options, fm *content.FrontMatter) string {
	var fromDoc string
	if fm != nil {
		fromDoc = strings.TrimSpace(fm.Theme)
	}
	for _, id := range []string{strings.TrimSpace(opts.Theme), fromDoc, strings.TrimSpace(opts.DefaultTheme)} {
		if len(id) > 0 {
			return id
		}
	}
	return theme.DefaultTheme
}

// Render resolves theme for prepared document and translates it to markup.
// Fatal problems are returned as errors, everything else ends up in
// Result.Warnings. When catalog is nil font availability is not checked.
func Render(ctx context.Context, c *content.Content, opts Options, src theme.Source, catalog theme.Catalog, log *zap.Logger) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if c == nil {
		return nil, errors.New("nothing to render")
	}
	if src == nil {
		return nil, errors.New("no theme source")
	}

	res := &Result{ID: uuid.NewString()}
	log = log.With(zap.String("render", res.ID))

	collector := warnings.NewCollector()
	c.ReportUnrecognized(collector)

	id := EffectiveTheme(opts, c.FrontMatter)
	r, err := theme.NewResolver(src, theme.WithStrict(opts.Strict)).Resolve(id, collector, log.Named("theme"))
	if err != nil {
		return nil, fmt.Errorf("unable to resolve theme '%s': %w", id, err)
	}
	res.Theme = r
	log.Debug("Theme resolved", zap.String("theme", id), zap.Strings("chain", r.Chain()), zap.String("variant", r.Variant()))

	to := opts.Typst
	if catalog != nil {
		if to.Fonts, err = theme.SelectFonts(r, catalog, collector); err != nil {
			return nil, err
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if res.Result, err = typst.Translate(c, r, to, collector); err != nil {
		return nil, fmt.Errorf("unable to translate document: %w", err)
	}
	res.Warnings = collector.Warnings()

	log.Debug("Document rendered",
		zap.Int("bytes", len(res.Markup)),
		zap.Int("headings", len(res.Headings)),
		zap.Int("footnotes", len(res.Footnotes)),
		zap.Int("warnings", len(res.Warnings)))
	return res, nil
}
