package theme

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Source supplies raw theme trees by identifier.
type Source interface {
	// Tree returns parsed theme, unknown identifiers result in
	// *NotFoundError. Callers may modify returned tree.
	Tree(id string) (*RawTree, error)
	// Names lists identifiers user may ask for, internal themes excluded.
	Names() []string
}

// Info describes built-in theme for listing.
type Info struct {
	Name        string
	Variant     string
	Description string
	PrintSafe   bool
	Family      string
}

//go:embed themes/*.toml
var themesFS embed.FS

// DefaultTheme is used when nothing else selects a theme.
const DefaultTheme = "silk-light"

// Registry is set of built-in themes. It is built once and never modified
// afterwards so it could be shared freely.
type Registry struct {
	trees map[string]*RawTree
	infos []Info
}

// Builtin returns process wide registry of embedded themes.
var Builtin = sync.OnceValues(func() (*Registry, error) {
	return newRegistry(themesFS, "themes")
})

func newRegistry(fsys fs.FS, dir string) (*Registry, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("unable to read embedded themes: %w", err)
	}
	r := &Registry{trees: make(map[string]*RawTree, len(entries))}
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".toml" {
			continue
		}
		id := strings.TrimSuffix(e.Name(), ".toml")
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("unable to read embedded theme '%s': %w", id, err)
		}
		tree, err := ParseTree(id, "builtin:"+id, data)
		if err != nil {
			return nil, err
		}
		r.trees[id] = tree
		if isInternal(id) {
			continue
		}
		variant, _ := tree.lookup("meta", "variant").(string)
		descr, _ := tree.lookup("meta", "description").(string)
		family, _ := tree.lookup("meta", "family").(string)
		safe, _ := tree.lookup("meta", "print_safe").(bool)
		r.infos = append(r.infos, Info{
			Name:        id,
			Variant:     variant,
			Description: descr,
			PrintSafe:   safe,
			Family:      family,
		})
	}
	sort.Slice(r.infos, func(i, j int) bool { return r.infos[i].Name < r.infos[j].Name })
	return r, nil
}

func isInternal(id string) bool {
	return strings.HasPrefix(id, "_")
}

func (r *Registry) Tree(id string) (*RawTree, error) {
	t, ok := r.trees[id]
	if !ok {
		return nil, &NotFoundError{Name: id, Suggestions: suggest(id, r.Names())}
	}
	return t.Clone(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.infos))
	for _, i := range r.infos {
		names = append(names, i.Name)
	}
	return names
}

// Infos returns copy of built-in theme descriptions sorted by name.
func (r *Registry) Infos() []Info {
	return append([]Info(nil), r.infos...)
}

// DirSource loads themes from disk. Identifiers ending with ".toml" are
// treated as file paths, everything else is looked up as "<id>.toml" in
// each of the directories in order.
type DirSource struct {
	Dirs []string
}

func (d DirSource) Tree(id string) (*RawTree, error) {
	if strings.HasSuffix(id, ".toml") {
		return loadFile(id, id)
	}
	if strings.ContainsAny(id, `/\`) {
		return nil, &NotFoundError{Name: id}
	}
	for _, dir := range d.Dirs {
		t, err := loadFile(id, filepath.Join(dir, id+".toml"))
		var nf *NotFoundError
		if errors.As(err, &nf) {
			continue
		}
		return t, err
	}
	return nil, &NotFoundError{Name: id, Suggestions: suggest(id, d.Names())}
}

func loadFile(id, file string) (*RawTree, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &NotFoundError{Name: id}
		}
		return nil, fmt.Errorf("unable to read theme '%s': %w", file, err)
	}
	return ParseTree(id, file, data)
}

func (d DirSource) Names() []string {
	var names []string
	for _, dir := range d.Dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.toml"))
		if err != nil {
			continue
		}
		for _, m := range matches {
			names = append(names, strings.TrimSuffix(filepath.Base(m), ".toml"))
		}
	}
	sort.Strings(names)
	return names
}

// MemorySource serves themes from text kept in memory, keyed by identifier.
// Text is parsed on every request.
type MemorySource map[string]string

func (m MemorySource) Tree(id string) (*RawTree, error) {
	text, ok := m[id]
	if !ok {
		return nil, &NotFoundError{Name: id, Suggestions: suggest(id, m.Names())}
	}
	return ParseTree(id, "memory:"+id, []byte(text))
}

func (m MemorySource) Names() []string {
	names := make([]string, 0, len(m))
	for k := range m {
		if !isInternal(k) {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// Sources queries sources in order, first source knowing identifier wins.
type Sources []Source

func (s Sources) Tree(id string) (*RawTree, error) {
	for _, src := range s {
		t, err := src.Tree(id)
		var nf *NotFoundError
		if errors.As(err, &nf) {
			continue
		}
		return t, err
	}
	return nil, &NotFoundError{Name: id, Suggestions: suggest(id, s.Names())}
}

func (s Sources) Names() []string {
	seen := make(map[string]struct{})
	var names []string
	for _, src := range s {
		for _, n := range src.Names() {
			if _, ok := seen[n]; ok {
				continue
			}
			seen[n] = struct{}{}
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return names
}
