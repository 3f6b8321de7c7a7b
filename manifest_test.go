package bloa

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, "bloa.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
}

func Test_Manifest_Load(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[project]
name = "demo"
version = "0.1.0"

[modules]
path = "lib"

[run]
entry = "main.bloa"
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.Project.Name != "demo" || m.Project.Version != "0.1.0" {
		t.Fatalf("project: %#v", m.Project)
	}
	if got, want := m.ModulePath(), filepath.Join(m.Dir, "lib"); got != want {
		t.Fatalf("module path %q, want %q", got, want)
	}
	if got, want := m.EntryPath(), filepath.Join(m.Dir, "main.bloa"); got != want {
		t.Fatalf("entry %q, want %q", got, want)
	}
}

func Test_Manifest_EmptySectionsGiveEmptyPaths(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, `[project]
name = "bare"
`)
	m, err := LoadManifest(dir)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if m.ModulePath() != "" || m.EntryPath() != "" {
		t.Fatalf("paths: %q %q", m.ModulePath(), m.EntryPath())
	}
}

func Test_Manifest_ParseErrorIsReported(t *testing.T) {
	dir := t.TempDir()
	writeManifest(t, dir, "[project\nname =")
	if _, err := LoadManifest(dir); err == nil {
		t.Fatal("expected parse error")
	}
}

func Test_Manifest_FindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `[modules]
path = "lib"
`)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	m, err := FindManifest(nested)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m == nil {
		t.Fatal("manifest not found from nested dir")
	}
	if m.Dir != mustAbs(t, root) {
		t.Fatalf("dir %q, want %q", m.Dir, root)
	}
}

func Test_Manifest_FindReturnsNilWithoutProject(t *testing.T) {
	m, err := FindManifest(t.TempDir())
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if m != nil {
		t.Fatalf("unexpected manifest: %#v", m)
	}
}

func mustAbs(t *testing.T, p string) string {
	t.Helper()
	abs, err := filepath.Abs(p)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	return abs
}
