package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"lumen/internal/source"
)

// lineEntry is one rendered row of the line-oriented formats.
type lineEntry struct {
	label string
	code  string
	path  string
	pos   source.LineCol
	text  string
}

func (e lineEntry) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", e.label, e.code, e.path, e.pos.Line, e.pos.Col, e.text)
}

func compareEntries(a, b lineEntry) int {
	return cmp.Or(
		cmp.Compare(a.path, b.path),
		cmp.Compare(a.pos.Line, b.pos.Line),
		cmp.Compare(a.pos.Col, b.pos.Col),
		cmp.Compare(a.label, b.label),
		cmp.Compare(a.code, b.code),
	)
}

// lineRenderer collects entries; library documents are dropped when
// keepLibrary is false.
type lineRenderer struct {
	fs          *source.FileSet
	notes       bool
	keepLibrary bool
	entries     []lineEntry
}

func (r *lineRenderer) add(label, code string, sp source.Span, msg string) {
	f := r.fs.Get(sp.File)
	if f == nil || (!r.keepLibrary && f.Flags.Has(source.FileLibrary)) {
		return
	}
	path := filepath.ToSlash(f.DisplayPath(source.PathRelative, r.fs.BaseDir()))
	start, _ := r.fs.Resolve(sp)
	r.entries = append(r.entries, lineEntry{
		label: label,
		code:  code,
		path:  strings.TrimPrefix(path, "./"),
		pos:   start,
		text:  oneLine(msg),
	})
}

func (r *lineRenderer) collect(d *Diagnostic) {
	code := d.Code.ID()
	r.add(d.Severity.Label(), code, d.Primary, d.Message)
	if !r.notes {
		return
	}
	for _, n := range d.Notes {
		r.add("note", code, n.Span, n.Msg)
	}
}

func (r *lineRenderer) render(diags []*Diagnostic) string {
	if r.fs == nil {
		return ""
	}
	for _, d := range diags {
		r.collect(d)
	}
	slices.SortStableFunc(r.entries, compareEntries)
	rows := make([]string, len(r.entries))
	for i, e := range r.entries {
		rows[i] = e.String()
	}
	return strings.Join(rows, "\n")
}

// FormatGoldenDiagnostics renders diagnostics one per line, sorted by
// location, for golden files. Entries inside bundled library documents are
// left out so that library edits do not churn user goldens.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	r := lineRenderer{fs: fs, notes: includeNotes}
	return r.render(diags)
}

// FormatShortDiagnostics is the CLI "short" format; library locations are kept.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	r := lineRenderer{fs: fs, notes: includeNotes, keepLibrary: true}
	return r.render(diags)
}

var newlines = strings.NewReplacer("\r\n", " ", "\n", " ")

// oneLine folds a multi-line message into a single line.
func oneLine(msg string) string {
	return strings.TrimSpace(newlines.Replace(msg))
}
