package state

import (
	"cmp"
	"time"

	"mdprint/theme"
)

func newLocalEnv() *LocalEnv {
	return &LocalEnv{start: time.Now()}
}

// Themes returns theme source: theme files and configured directories
// first, built-in themes last.
func (e *LocalEnv) Themes() (theme.Source, error) {
	reg, err := theme.Builtin()
	if err != nil {
		return nil, err
	}
	var dirs []string
	if e.Cfg != nil {
		dirs = e.Cfg.Document.ThemeDirs
	}
	return theme.Sources{theme.DirSource{Dirs: dirs}, reg}, nil
}

// Fonts returns catalog of families available for rendering or nil when
// configuration does not list any, in which case availability is not
// checked.
func (e *LocalEnv) Fonts() theme.Catalog {
	if e.Cfg == nil || len(e.Cfg.Document.Fonts) == 0 {
		return nil
	}
	return theme.NewFamilySet(append(append([]string(nil), theme.EngineFamilies...), e.Cfg.Document.Fonts...)...)
}

// DefaultTheme is theme used when neither command line nor front matter
// names one.
func (e *LocalEnv) DefaultTheme() string {
	if e.Cfg == nil {
		return theme.DefaultTheme
	}
	return cmp.Or(e.Cfg.Document.Theme, theme.DefaultTheme)
}
