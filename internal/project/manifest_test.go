package project

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadManifestWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), `
[package]
name = "demo"

[build]
inputs = ["ui/*.lumen.toml", "ui/main.lumen.toml"]
jobs = 2
max-diagnostics = 50

[library]
path = "widgets"
`)
	writeFile(t, filepath.Join(root, "ui", "main.lumen.toml"), "")
	writeFile(t, filepath.Join(root, "ui", "about.lumen.toml"), "")
	nested := filepath.Join(root, "ui", "deep")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := LoadManifest(nested)
	if err != nil || !ok {
		t.Fatalf("LoadManifest = %v, %v", ok, err)
	}
	if m.Config.Package.Name != "demo" || m.Config.Build.Jobs != 2 || m.Config.Build.MaxDiagnostics != 50 {
		t.Errorf("unexpected config %+v", m.Config)
	}
	if m.LibraryDir() != filepath.Join(m.Root, "widgets") {
		t.Errorf("LibraryDir = %s", m.LibraryDir())
	}

	inputs, err := m.Inputs()
	if err != nil {
		t.Fatalf("Inputs: %v", err)
	}
	want := []string{
		filepath.Join(m.Root, "ui", "about.lumen.toml"),
		filepath.Join(m.Root, "ui", "main.lumen.toml"),
	}
	if !slices.Equal(inputs, want) {
		t.Errorf("Inputs = %v, want %v", inputs, want)
	}
}

func TestLoadManifestAbsent(t *testing.T) {
	m, ok, err := LoadManifest(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	// выше TempDir manifest может найтись только на машине разработчика
	if ok && !strings.HasSuffix(m.Path, ManifestName) {
		t.Fatalf("unexpected manifest %s", m.Path)
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"no package", "[build]\ninputs = [\"a\"]\n", "missing [package]"},
		{"no name", "[package]\n[build]\ninputs = [\"a\"]\n", "missing [package].name"},
		{"blank name", "[package]\nname = \" \"\n[build]\ninputs = [\"a\"]\n", "missing [package].name"},
		{"no build", "[package]\nname = \"x\"\n", "missing [build]"},
		{"no inputs", "[package]\nname = \"x\"\n[build]\njobs = 1\n", "missing [build].inputs"},
		{"negative jobs", "[package]\nname = \"x\"\n[build]\ninputs = [\"a\"]\njobs = -1\n", "[build].jobs must not be negative"},
		{"empty library", "[package]\nname = \"x\"\n[build]\ninputs = [\"a\"]\n[library]\n", "missing [library].path"},
		{"unknown key", "[package]\nname = \"x\"\nversion = \"1\"\n[build]\ninputs = [\"a\"]\n", "unknown key package.version"},
		{"bad toml", "[package\n", "failed to parse TOML"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ManifestName)
			writeFile(t, path, tt.content)
			_, err := LoadConfig(path)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestInputsMustMatch(t *testing.T) {
	root := t.TempDir()
	m := &Manifest{Path: filepath.Join(root, ManifestName), Root: root, Config: Config{
		Build: BuildConfig{Inputs: []string{"missing/*.lumen.toml"}},
	}}
	if _, err := m.Inputs(); err == nil || !strings.Contains(err.Error(), "matches no files") {
		t.Fatalf("err = %v", err)
	}
}

func TestFindManifestSkipsDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ManifestName), "[package]\nname = \"outer\"\n")
	inner := filepath.Join(root, "inner")
	// каталог с именем lumen.toml манифестом не считается
	if err := os.MkdirAll(filepath.Join(inner, ManifestName), 0o755); err != nil {
		t.Fatal(err)
	}
	path, ok, err := FindManifest(inner)
	if err != nil || !ok || path != filepath.Join(root, ManifestName) {
		t.Fatalf("FindManifest = %q, %v, %v", path, ok, err)
	}
}
