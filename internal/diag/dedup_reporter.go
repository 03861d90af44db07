package diag

import "lumen/internal/source"

type dedupKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func keyOf(d *Diagnostic) dedupKey {
	return dedupKey{code: d.Code, sev: d.Severity, span: d.Primary, msg: d.Message}
}

// DedupReporter forwards a diagnostic only the first time its code,
// severity, primary span and message are seen. Not safe for concurrent use.
type DedupReporter struct {
	next Reporter
	seen map[dedupKey]struct{}
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[dedupKey]struct{})}
}

func (r *DedupReporter) Report(d *Diagnostic) {
	if r == nil || d == nil {
		return
	}
	key := keyOf(d)
	if _, dup := r.seen[key]; dup {
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(d)
	}
}
