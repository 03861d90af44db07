package passes

import (
	"context"
	"io/fs"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/frontend"
	"lumen/internal/ir"
	"lumen/internal/source"
	"lumen/internal/testkit"
	"lumen/internal/typeloader"
	"lumen/internal/typeregister"
)

type unit struct {
	doc    *ir.Document
	loader *typeloader.Loader
	bag    *diag.Bag
	files  *source.FileSet
	file   source.File
}

func parseUnit(t *testing.T, src string, library fs.FS) *unit {
	t.Helper()
	files := source.NewFileSet()
	reg := typeregister.New()
	loader := typeloader.New(reg, files,
		typeloader.WithParser(frontend.ParseDocument),
		typeloader.WithLibrary(library))
	id := files.AddVirtual("app.lumen.toml", []byte(src))
	file := *files.Get(id)
	bag := diag.NewBag(0)
	doc := frontend.Parse(context.Background(), &file, typeregister.NewScope(reg), loader, diag.BagReporter{Bag: bag})
	if doc == nil || bag.HasErrors() {
		t.Fatalf("fixture does not parse:\n%s", diag.FormatShortDiagnostics(bag.Items(), files, true))
	}
	return &unit{doc: doc, loader: loader, bag: bag, files: files, file: file}
}

func (u *unit) run(t *testing.T, p *Pipeline) error {
	t.Helper()
	return p.Run(context.Background(), &Context{
		Doc:      u.doc,
		Loader:   u.loader,
		Reporter: diag.BagReporter{Bag: u.bag},
	})
}

func (u *unit) checkInvariants(t *testing.T) {
	t.Helper()
	if err := testkit.CheckTreeInvariants(u.doc, &u.file); err != nil {
		t.Fatalf("tree invariants: %v", err)
	}
}

func (u *unit) find(t *testing.T, id string) *ir.Element {
	t.Helper()
	for _, c := range ir.AllComponents(u.doc) {
		if e := c.FindElement(id); e != nil {
			return e
		}
	}
	t.Fatalf("no element %q", id)
	return nil
}

func childIDs(e *ir.Element) []string {
	out := make([]string, len(e.Children))
	for i, c := range e.Children {
		out[i] = c.ID
	}
	return out
}

func bound(t *testing.T, e *ir.Element, prop string) string {
	t.Helper()
	b, ok := e.Bindings[prop]
	if !ok {
		t.Fatalf("%s.%s is not bound", e.ID, prop)
	}
	return b.Expr.String()
}
