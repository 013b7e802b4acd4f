// Package manifest implements the project manifest: a YAML file naming
// library search paths, the cache directory, and per-module linkage
// overrides — the concrete realization of spec §6's module-search CLI
// surface and persisted cache layout. Adapted from the teacher's
// internal/manifest (a JSON example-status manifest) to this compiler's
// domain; see DESIGN.md for what that adaptation kept and dropped.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// SchemaVersion identifies this manifest format, the same role the
// teacher's SchemaVersion constant plays for its own manifest.
const SchemaVersion = "hiltic.manifest/v1"

// Linkage overrides the linkage a module would otherwise be assigned by
// the resolver (spec §4.1) — a project-level escape hatch for modules
// whose source cannot be annotated directly (e.g. a vendored library).
type Linkage string

const (
	LinkageDefault  Linkage = ""
	LinkageExported Linkage = "exported"
	LinkagePrivate  Linkage = "private"
)

// Manifest is the top-level project configuration.
type Manifest struct {
	Schema string `yaml:"schema"`

	// LibraryPaths are resolved relative to the manifest file's own
	// directory (ResolveLibraryPaths), not the process's working
	// directory, so a manifest checked in beside a module tree behaves
	// the same regardless of where hiltic is invoked from.
	LibraryPaths []string `yaml:"library_paths"`

	// CacheDir enables internal/compiler's content-hash keyed file
	// cache (spec §6) when non-empty.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// ImplicitImport names a module every other module implicitly
	// imports (HILTI's libhilti). Empty disables this.
	ImplicitImport string `yaml:"implicit_import,omitempty"`

	// Linkage maps a fully-qualified module-level ID to a linkage
	// override.
	Linkage map[string]Linkage `yaml:"linkage,omitempty"`
}

// New returns a manifest with the defaults a freshly initialized
// project would want: the manifest's own directory as the sole library
// path.
func New() *Manifest {
	return &Manifest{
		Schema:       SchemaVersion,
		LibraryPaths: []string{"."},
	}
}

// Load reads and validates a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	m := New()
	if err := yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}

	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("manifest validation failed: %w", err)
	}

	return m, nil
}

// Save writes m to path as YAML.
func (m *Manifest) Save(path string) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks m for internal consistency.
func (m *Manifest) Validate() error {
	if m.Schema != "" && m.Schema != SchemaVersion {
		return fmt.Errorf("unsupported schema version: %s (expected %s)", m.Schema, SchemaVersion)
	}
	if len(m.LibraryPaths) == 0 {
		return fmt.Errorf("manifest must name at least one library path")
	}
	for name, l := range m.Linkage {
		switch l {
		case LinkageDefault, LinkageExported, LinkagePrivate:
		default:
			return fmt.Errorf("module %s: invalid linkage %q", name, l)
		}
	}
	return nil
}

// ResolveLibraryPaths returns every configured library path made
// absolute relative to manifestPath's directory.
func (m *Manifest) ResolveLibraryPaths(manifestPath string) []string {
	base := filepath.Dir(manifestPath)
	out := make([]string, len(m.LibraryPaths))
	for i, p := range m.LibraryPaths {
		if filepath.IsAbs(p) {
			out[i] = p
		} else {
			out[i] = filepath.Join(base, p)
		}
	}
	return out
}

// ResolveCacheDir returns CacheDir made absolute relative to
// manifestPath's directory, or "" if caching is disabled.
func (m *Manifest) ResolveCacheDir(manifestPath string) string {
	if m.CacheDir == "" {
		return ""
	}
	if filepath.IsAbs(m.CacheDir) {
		return m.CacheDir
	}
	return filepath.Join(filepath.Dir(manifestPath), m.CacheDir)
}
