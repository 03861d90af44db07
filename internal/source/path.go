package source

import (
	"os"
	"path/filepath"
	"strings"
)

// PathStyle selects how a file path is shown to the user.
type PathStyle uint8

const (
	PathAsStored PathStyle = iota
	PathAbsolute
	PathRelative // to a base directory; virtual files keep their name
	PathBase
)

// DisplayPath renders f.Path in style. An empty baseDir means the working
// directory.
func (f *File) DisplayPath(style PathStyle, baseDir string) string {
	switch style {
	case PathAbsolute:
		if abs, err := filepath.Abs(f.Path); err == nil {
			return normalizePath(abs)
		}
	case PathRelative:
		if f.Flags.Has(FileVirtual) {
			return f.Path
		}
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		return RelativePath(f.Path, baseDir)
	case PathBase:
		return filepath.Base(f.Path)
	}
	return f.Path
}

// RelativePath returns path relative to baseDir, or the cleaned absolute path
// when path lies outside baseDir.
func RelativePath(path, baseDir string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return normalizePath(path)
	}
	base, err := filepath.Abs(baseDir)
	if err != nil {
		return normalizePath(abs)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return normalizePath(abs)
	}
	return normalizePath(rel)
}

func normalizePath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}
