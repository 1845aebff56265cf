package config

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func readArchive(t *testing.T, name string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(name)
	if err != nil {
		t.Fatalf("unable to open report: %v", err)
	}
	defer zr.Close()

	out := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("unable to open %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("unable to read %s: %v", f.Name, err)
		}
		out[f.Name] = string(data)
	}
	return out
}

func TestReport_Archive(t *testing.T) {
	dir := t.TempDir()
	conf := ReporterConfig{Destination: filepath.Join(dir, "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}

	work := filepath.Join(dir, "work")
	if err := os.MkdirAll(filepath.Join(work, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(work, "sub", "parsed.txt"), []byte("tree"), 0644); err != nil {
		t.Fatal(err)
	}
	kept := filepath.Join(dir, "doc.typ")
	if err := os.WriteFile(kept, []byte("= Title"), 0644); err != nil {
		t.Fatal(err)
	}

	r.Store("work", work)
	r.Store("result.typ", kept)
	r.Store("absent", filepath.Join(dir, "nope"))
	r.StoreData("theme.yaml", []byte("theme: a"))
	r.StoreData("theme.yaml", []byte("theme: b"))
	r.StoreData("empty", nil)

	if r.Name() != conf.Destination {
		t.Errorf("Name() = %s, want %s", r.Name(), conf.Destination)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	files := readArchive(t, conf.Destination)
	want := map[string]string{
		"work/sub/parsed.txt": "tree",
		"result.typ":          "= Title",
		"theme.yaml":          "theme: a",
		"theme-1.yaml":        "theme: b",
	}
	for name, data := range want {
		if got, ok := files[name]; !ok || got != data {
			t.Errorf("archive[%s] = %q (present %t), want %q", name, got, ok, data)
		}
	}
	if _, ok := files["MANIFEST"]; !ok {
		t.Error("archive has no MANIFEST")
	}
	names := make([]string, 0, len(files))
	for n := range files {
		names = append(names, n)
	}
	if slices.Contains(names, "absent") || slices.Contains(names, "empty") {
		t.Errorf("archive has unexpected entries: %v", names)
	}

	if _, err := os.Stat(work); !os.IsNotExist(err) {
		t.Error("stored directory was not removed")
	}
	if _, err := os.Stat(kept); err != nil {
		t.Errorf("stored file should be kept: %v", err)
	}
}

func TestReport_FallbackToTemp(t *testing.T) {
	conf := ReporterConfig{Destination: filepath.Join(t.TempDir(), "missing", "dir", "report.zip")}
	r, err := conf.Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	name := r.Name()
	defer os.Remove(name)
	if name == conf.Destination {
		t.Error("report should be redirected to temporary directory")
	}
	if err := r.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestReportClose_NilReport(t *testing.T) {
	var r *Report
	r.Store("x", "y")
	r.StoreData("x", []byte("y"))
	if err := r.Close(); err != nil {
		t.Errorf("Close on nil report should not error, got: %v", err)
	}
	if r.Name() != "" {
		t.Errorf("Name() on nil report = %q", r.Name())
	}
}

func TestReportClose_NilFile(t *testing.T) {
	r := &Report{entries: make(map[string]entry)}
	if err := r.Close(); err != nil {
		t.Errorf("Close with nil file should not error, got: %v", err)
	}
}
