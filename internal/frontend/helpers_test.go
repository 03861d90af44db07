package frontend

import (
	"context"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/source"
	"lumen/internal/typeloader"
	"lumen/internal/typeregister"
)

type parsed struct {
	doc  *ir.Document
	fs   *source.FileSet
	bag  *diag.Bag
	file *source.File
}

func parseSource(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	reg := typeregister.New()
	loader := typeloader.New(reg, fs, typeloader.WithParser(ParseDocument))
	id := fs.AddVirtual("app.lumen.toml", []byte(src))
	file := *fs.Get(id)
	bag := diag.NewBag(0)
	doc := Parse(context.Background(), &file, typeregister.NewScope(reg), loader, diag.BagReporter{Bag: bag})
	return parsed{doc: doc, fs: fs, bag: bag, file: &file}
}

func (p parsed) golden() string {
	return diag.FormatGoldenDiagnostics(p.bag.Items(), p.fs, true)
}

func childIDs(e *ir.Element) []string {
	out := make([]string, len(e.Children))
	for i, c := range e.Children {
		out[i] = c.ID
	}
	return out
}

func bindingString(t *testing.T, e *ir.Element, prop string) string {
	t.Helper()
	b, ok := e.Bindings[prop]
	if !ok {
		t.Fatalf("%s has no binding for %s (have %v)", e.ID, prop, e.BindingNames())
	}
	return b.Expr.String()
}
