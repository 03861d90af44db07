package diag

// Reporter is the only thing producers of diagnostics depend on.
type Reporter interface {
	Report(d *Diagnostic)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(d *Diagnostic)

func (f ReporterFunc) Report(d *Diagnostic) { f(d) }

// BagReporter stores diagnostics into a Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d *Diagnostic) {
	if r.Bag != nil {
		r.Bag.Add(d)
	}
}

// NopReporter drops everything. Use it as a disposable sink when probing an
// operation whose failure is expected and must not reach the user.
type NopReporter struct{}

func (NopReporter) Report(*Diagnostic) {}

// Replay forwards a copy of every diagnostic of b to r, in order. Library
// documents are parsed once and replayed into each unit that imports them.
func Replay(r Reporter, b *Bag) {
	if r == nil || b == nil {
		return
	}
	for _, d := range b.Items() {
		r.Report(d.Clone())
	}
}
