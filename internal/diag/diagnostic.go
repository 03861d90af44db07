package diag

import (
	"slices"

	"lumen/internal/source"
)

// Note is a secondary location, e.g. "first MenuBar declared here".
type Note struct {
	Span source.Span
	Msg  string
}

type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, msg string) *Diagnostic {
	return &Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

func NewError(code Code, primary source.Span, msg string) *Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote appends a secondary location.
func (d *Diagnostic) WithNote(sp source.Span, msg string) *Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// Clone copies d including its notes.
func (d *Diagnostic) Clone() *Diagnostic {
	cp := *d
	cp.Notes = slices.Clone(d.Notes)
	return &cp
}
