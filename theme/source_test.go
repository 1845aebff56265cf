package theme

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRegistry_Infos(t *testing.T) {
	reg := builtinSource(t)
	infos := reg.Infos()
	if len(infos) == 0 {
		t.Fatal("no built-in themes")
	}
	seen := map[string]Info{}
	for _, i := range infos {
		if isInternal(i.Name) {
			t.Errorf("internal theme %s listed", i.Name)
		}
		seen[i.Name] = i
	}
	def, ok := seen["silk-light"]
	if !ok {
		t.Fatal("silk-light is not listed")
	}
	if !def.PrintSafe || def.Variant != "light" || def.Family != "signature" {
		t.Errorf("silk-light info = %+v", def)
	}

	infos[0].Name = "changed"
	if reg.Infos()[0].Name == "changed" {
		t.Error("Infos() exposes internal slice")
	}
}

func TestRegistry_Tree(t *testing.T) {
	reg := builtinSource(t)
	for _, id := range []string{"_base", "_base-syntax-light", "_base-syntax-dark", "nord"} {
		if _, err := reg.Tree(id); err != nil {
			t.Errorf("Tree(%s) error = %v", id, err)
		}
	}

	tree, _ := reg.Tree("_base")
	tree.Data["colors"] = nil
	again, _ := reg.Tree("_base")
	if again.Data["colors"] == nil {
		t.Error("registry tree modified through returned copy")
	}

	_, err := reg.Tree("nordd")
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Tree(nordd) error = %v, want *NotFoundError", err)
	}
	if len(nf.Suggestions) == 0 || nf.Suggestions[0] != "nord" {
		t.Errorf("Suggestions = %v, want nord", nf.Suggestions)
	}
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	text := "[meta]\nextends = \"_base\"\nname = \"mine\"\n"
	if err := os.WriteFile(filepath.Join(dir, "mine.toml"), []byte(text), 0644); err != nil {
		t.Fatal(err)
	}

	src := DirSource{Dirs: []string{filepath.Join(dir, "missing"), dir}}
	tree, err := src.Tree("mine")
	if err != nil {
		t.Fatalf("Tree(mine) error = %v", err)
	}
	if tree.Extends() != "_base" || tree.Origin != filepath.Join(dir, "mine.toml") {
		t.Errorf("tree = %+v", tree)
	}

	byPath, err := src.Tree(filepath.Join(dir, "mine.toml"))
	if err != nil {
		t.Fatalf("Tree(path) error = %v", err)
	}
	if byPath.Name() != "mine" {
		t.Errorf("Name() = %s, want mine", byPath.Name())
	}

	var nf *NotFoundError
	if _, err := src.Tree("other"); !errors.As(err, &nf) {
		t.Errorf("Tree(other) error = %v, want *NotFoundError", err)
	}
	if _, err := src.Tree(filepath.Join(dir, "other.toml")); !errors.As(err, &nf) {
		t.Errorf("Tree(other.toml) error = %v, want *NotFoundError", err)
	}
	if names := src.Names(); len(names) != 1 || names[0] != "mine" {
		t.Errorf("Names() = %v", names)
	}

	// files shadow built-in themes, built-ins are still reachable
	sources := Sources{src, builtinSource(t)}
	r, _, err := resolve(t, sources, "mine")
	if err != nil {
		t.Fatalf("Resolve(mine) error = %v", err)
	}
	if r.Tokens().Meta.Name != "mine" {
		t.Errorf("meta.name = %s", r.Tokens().Meta.Name)
	}
}

func TestDirSource_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.toml"), []byte("[meta\n"), 0644); err != nil {
		t.Fatal(err)
	}
	_, err := DirSource{Dirs: []string{dir}}.Tree("bad")
	var ie *InvalidError
	if !errors.As(err, &ie) {
		t.Fatalf("Tree(bad) error = %v, want *InvalidError", err)
	}
}

func TestSuggest(t *testing.T) {
	known := []string{"academic", "manuscript", "monochrome", "nord", "silk-dark", "silk-light"}
	tests := []struct {
		name string
		want string
	}{
		{"silk", "silk-dark"},
		{"silk-lihgt", "silk-light"},
		{"mono", "monochrome"},
		{"Nord", "nord"},
	}
	for _, tt := range tests {
		got := suggest(tt.name, known)
		found := false
		for _, g := range got {
			if g == tt.want {
				found = true
			}
		}
		if !found {
			t.Errorf("suggest(%q) = %v, want %s among them", tt.name, got, tt.want)
		}
	}
	if got := suggest("zzzzzzzzzz", known); len(got) != 0 {
		t.Errorf("suggest(zzzzzzzzzz) = %v, want none", got)
	}
	for _, name := range []string{"", "  ", ".toml"} {
		if got := suggest(name, known); got != nil {
			t.Errorf("suggest(%q) = %v, want nil", name, got)
		}
	}
	if got := suggest("academc.toml", known); len(got) != 1 || got[0] != "academic" {
		t.Errorf("suggest(academc.toml) = %v, want [academic]", got)
	}
}
