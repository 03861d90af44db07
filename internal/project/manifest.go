package project

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is a loaded lumen.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// Config mirrors the manifest tables.
type Config struct {
	Package PackageConfig `toml:"package"`
	Build   BuildConfig   `toml:"build"`
	Library LibraryConfig `toml:"library"`
}

type PackageConfig struct {
	Name string `toml:"name"`
}

// BuildConfig lists the compilation units. Inputs are paths or glob
// patterns relative to the project root.
type BuildConfig struct {
	Inputs         []string `toml:"inputs"`
	Jobs           int      `toml:"jobs"`
	MaxDiagnostics int      `toml:"max-diagnostics"`
}

// LibraryConfig points at a directory replacing the embedded widget library.
type LibraryConfig struct {
	Path string `toml:"path"`
}

// LoadManifest finds and loads the manifest above startDir. ok is false
// when there is none.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates the manifest at path.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("%s: unknown key %s", path, undecoded[0].String())
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !meta.IsDefined("build") {
		return Config{}, fmt.Errorf("%s: missing [build]", path)
	}
	if !meta.IsDefined("build", "inputs") || len(cfg.Build.Inputs) == 0 {
		return Config{}, fmt.Errorf("%s: missing [build].inputs", path)
	}
	if cfg.Build.Jobs < 0 {
		return Config{}, fmt.Errorf("%s: [build].jobs must not be negative", path)
	}
	if cfg.Build.MaxDiagnostics < 0 {
		return Config{}, fmt.Errorf("%s: [build].max-diagnostics must not be negative", path)
	}
	if meta.IsDefined("library") && strings.TrimSpace(cfg.Library.Path) == "" {
		return Config{}, fmt.Errorf("%s: missing [library].path", path)
	}
	return cfg, nil
}

// Inputs expands [build].inputs into sorted, de-duplicated file paths.
func (m *Manifest) Inputs() ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	for _, pattern := range m.Config.Build.Inputs {
		full := filepath.Join(m.Root, filepath.FromSlash(pattern))
		matches, err := filepath.Glob(full)
		if err != nil {
			return nil, fmt.Errorf("%s: bad input pattern %q: %w", m.Path, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%s: input %q matches no files", m.Path, pattern)
		}
		for _, match := range matches {
			if info, err := os.Stat(match); err != nil || info.IsDir() {
				continue
			}
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			out = append(out, match)
		}
	}
	sort.Strings(out)
	return out, nil
}

// LibraryDir returns the absolute library override, or "" when unset.
func (m *Manifest) LibraryDir() string {
	if strings.TrimSpace(m.Config.Library.Path) == "" {
		return ""
	}
	return filepath.Join(m.Root, filepath.FromSlash(m.Config.Library.Path))
}
