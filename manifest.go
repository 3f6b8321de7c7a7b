// manifest.go
//
// OVERVIEW
// --------
// Optional per-project configuration in a bloa.toml file:
//
//	[project]
//	name = "demo"
//	version = "0.1.0"
//
//	[modules]
//	path = "lib"          # module search path, relative to the manifest
//
//	[run]
//	entry = "main.bloa"   # default script for `bloa run` with no argument
//
// The manifest is found by walking up from the working directory, the way
// version-control roots are found, so scripts anywhere inside a project see
// the same module path.
package bloa

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

/* ===========================
   PUBLIC API
   =========================== */

// Manifest is a parsed bloa.toml.
type Manifest struct {
	Project ManifestProject `toml:"project"`
	Modules ManifestModules `toml:"modules"`
	Run     ManifestRun     `toml:"run"`

	// Dir is the directory holding the manifest file, set at load time.
	Dir string `toml:"-"`
}

type ManifestProject struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type ManifestModules struct {
	Path string `toml:"path"`
}

type ManifestRun struct {
	Entry string `toml:"entry"`
}

// LoadManifest parses the bloa.toml in dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "bloa.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}
	return &m, nil
}

// FindManifest walks up from startDir looking for a bloa.toml. A nil
// manifest with a nil error means no project file exists.
func FindManifest(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "bloa.toml")); err == nil {
			return LoadManifest(dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, nil
		}
		dir = parent
	}
}

// ModulePath resolves the configured module search path to an absolute
// directory, or "" when the manifest does not configure one.
func (m *Manifest) ModulePath() string {
	if m.Modules.Path == "" {
		return ""
	}
	if filepath.IsAbs(m.Modules.Path) {
		return m.Modules.Path
	}
	return filepath.Join(m.Dir, m.Modules.Path)
}

// EntryPath resolves the configured run entry to an absolute file path, or
// "" when the manifest does not configure one.
func (m *Manifest) EntryPath() string {
	if m.Run.Entry == "" {
		return ""
	}
	if filepath.IsAbs(m.Run.Entry) {
		return m.Run.Entry
	}
	return filepath.Join(m.Dir, m.Run.Entry)
}
