// Package diag defines the diagnostic model shared by the front-end, the type
// loader and every lowering pass.
//
// # Data model
//
// Diagnostic is the central record:
//
//   - Severity – Info, Warning or Error (severity.go).
//   - Code – compact numeric identifier with a stable string form (codes.go).
//   - Message – short, actionable text.
//   - Primary – the source.Span the diagnostic points at.
//   - Notes – optional secondary spans ("first MenuBar declared here").
//
// # Emitting diagnostics
//
// Producers depend on the Reporter interface only. BagReporter stores
// diagnostics in a Bag, NopReporter drops them (a disposable sink for
// speculative work such as best-effort imports) and DedupReporter filters
// repeated reports. ReportBuilder offers a chained API:
//
//	diag.ReportError(r, diag.LowerDuplicateMenuBar, span, msg).
//		WithNote(first, "first MenuBar declared here").
//		Emit()
//
// The order of a Bag is the emission order; producers walk the tree
// deterministically, so the log is reproducible. Bag.Sort exists for
// consumers that want source order instead.
//
// Rendering lives in internal/diagfmt.
package diag
