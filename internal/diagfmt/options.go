package diagfmt

import "lumen/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute path automatically.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color     bool
	Context   int8 // строк контекста вокруг основной строки
	PathMode  PathMode
	Width     uint8 // максимальная ширина строки, 0 - не ограничено
	ShowNotes bool
	Max       int
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	PathMode         PathMode
	Max              int // обрезка вывода, не Bag
	IncludeNotes     bool
}

// ShortOpts configures the one-line-per-diagnostic format.
type ShortOpts struct {
	IncludeNotes bool
	Max          int
}

func displayPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.DisplayPath(source.PathAbsolute, "")
	case PathModeBasename:
		return f.DisplayPath(source.PathBase, "")
	default:
		// auto и relative совпадают: путь относительно корня FileSet
		return f.DisplayPath(source.PathRelative, fs.BaseDir())
	}
}
