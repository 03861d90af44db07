package diag

import "lumen/internal/source"

// ReportBuilder collects notes before handing a diagnostic to a Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     *Diagnostic
}

func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{reporter: r, diag: New(sev, code, primary, msg)}
}

func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b != nil && b.diag != nil {
		b.diag.WithNote(sp, msg)
	}
	return b
}

// Emit sends the diagnostic at most once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.diag == nil {
		return
	}
	d := b.diag
	b.diag = nil
	if b.reporter != nil {
		b.reporter.Report(d)
	}
}
