package diagfmt

import (
	"io"

	"lumen/internal/diag"
	"lumen/internal/source"
)

// Short prints one "severity CODE path:line:col message" line per diagnostic,
// sorted by location. Library documents are kept.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts ShortOpts) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	out := diag.FormatShortDiagnostics(items, fs, opts.IncludeNotes)
	if out == "" {
		return nil
	}
	_, err := io.WriteString(w, out+"\n")
	return err
}
