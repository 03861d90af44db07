package diagfmt

import (
	"encoding/json"
	"io"

	"lumen/internal/diag"
	"lumen/internal/source"
)

// Location is a span as it appears in JSON output. Byte offsets are always
// present; line/col only with JSONOpts.IncludePositions.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type NoteEntry struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Entry struct {
	Severity string      `json:"severity"`
	Code     string      `json:"code"`
	Message  string      `json:"message"`
	Location Location    `json:"location"`
	Notes    []NoteEntry `json:"notes,omitempty"`
}

// Report is the root JSON object. Total counts the bag before Max.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Total       int     `json:"total"`
	Errors      int     `json:"errors"`
	Warnings    int     `json:"warnings"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(sp source.Span) Location {
	loc := Location{StartByte: sp.Start, EndByte: sp.End}
	if f := b.fs.Get(sp.File); f != nil {
		loc.File = displayPath(b.fs, f, b.opts.PathMode)
	}
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(sp)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) entry(d *diag.Diagnostic) Entry {
	e := Entry{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	if !b.opts.IncludeNotes {
		return e
	}
	for _, n := range d.Notes {
		e.Notes = append(e.Notes, NoteEntry{Message: n.Msg, Location: b.location(n.Span)})
	}
	return e
}

// BuildReport converts the bag without serializing it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	rep := Report{Total: len(items), Diagnostics: []Entry{}}
	b := jsonBuilder{fs: fs, opts: opts}
	for i, d := range items {
		switch d.Severity {
		case diag.SevError:
			rep.Errors++
		case diag.SevWarning:
			rep.Warnings++
		}
		if opts.Max > 0 && i >= opts.Max {
			continue
		}
		rep.Diagnostics = append(rep.Diagnostics, b.entry(d))
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes the bag as an indented JSON document.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
