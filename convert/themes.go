package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mdprint/state"
	"mdprint/theme"
	"mdprint/warnings"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Width(14)
	labelStyle = lipgloss.NewStyle().Faint(true).Width(7)
	safeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("35"))
)

// swatch shows page, text, heading and link colors of resolved theme.
func swatch(r *theme.Resolved) string {
	t := r.Tokens()
	var b strings.Builder
	for _, c := range []string{t.Page.Background, t.Text.Color, t.Headings.Color, t.Links.Color} {
		if len(c) == 0 {
			b.WriteString("  ")
			continue
		}
		b.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(c)).Render("  "))
	}
	return b.String()
}

// sortInfos puts print safe themes first, names are compared naturally.
func sortInfos(infos []theme.Info) {
	sort.SliceStable(infos, func(i, j int) bool {
		if infos[i].PrintSafe != infos[j].PrintSafe {
			return infos[i].PrintSafe
		}
		return natural.Less(infos[i].Name, infos[j].Name)
	})
}

func listThemes(w io.Writer, reg *theme.Registry, log *zap.Logger) error {
	infos := reg.Infos()
	sortInfos(infos)
	resolver := theme.NewResolver(reg)
	for _, info := range infos {
		sw := strings.Repeat(" ", 8)
		if r, err := resolver.Resolve(info.Name, warnings.NewCollector(), log); err == nil {
			sw = swatch(r)
		} else {
			log.Warn("Unable to resolve built-in theme", zap.String("theme", info.Name), zap.Error(err))
		}
		safe := ""
		if info.PrintSafe {
			safe = safeStyle.Render("print-safe")
		}
		if _, err := fmt.Fprintf(w, "%s %s %s %s %s\n", sw, nameStyle.Render(info.Name), labelStyle.Render(info.Variant), info.Description, safe); err != nil {
			return err
		}
	}
	return nil
}

// Themes is themes command action listing built-in themes.
func Themes(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	reg, err := theme.Builtin()
	if err != nil {
		return err
	}
	return listThemes(writer(cmd), reg, env.Log.Named("themes"))
}

// ShowTheme is theme command action: resolved theme as YAML or generated
// syntax theme.
func ShowTheme(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("theme")

	id := strings.TrimSpace(cmd.Args().Get(0))
	if len(id) == 0 {
		return errors.New("no theme has been specified")
	}
	src, err := env.Themes()
	if err != nil {
		return err
	}
	collector := warnings.NewCollector()
	r, err := theme.NewResolver(src, theme.WithStrict(env.Cfg != nil && env.Cfg.Document.Strict)).Resolve(id, collector, log)
	if err != nil {
		return fmt.Errorf("unable to resolve theme '%s': %w", id, err)
	}
	if !collector.Empty() {
		logWarnings(collector.Warnings(), id, log)
	}

	var data []byte
	if cmd.Bool("tmtheme") {
		data = r.SyntaxTheme()
	} else if data, err = r.Dump(); err != nil {
		return err
	}
	_, err = writer(cmd).Write(data)
	return err
}
