package ir

import (
	"testing"

	"lumen/internal/langtype"
	"lumen/internal/source"
)

var testBuiltins = func() map[string]*langtype.Builtin {
	out := make(map[string]*langtype.Builtin)
	for _, b := range langtype.Builtins() {
		out[b.Name] = b
	}
	return out
}()

func builtin(t *testing.T, name string) ElementType {
	t.Helper()
	b, ok := testBuiltins[name]
	if !ok {
		t.Fatalf("no builtin %q", name)
	}
	return BuiltinType(b)
}

func elem(t *testing.T, id, typ string, children ...*Element) *Element {
	t.Helper()
	e := NewElement(id, builtin(t, typ), source.Span{})
	e.Children = children
	return e
}

func newComponent(doc *Document, name string, root *Element) *Component {
	c := NewComponent(name, source.Span{})
	c.SetRoot(root)
	doc.AddComponent(c)
	return c
}

func ref(t *testing.T, e *Element, prop string) NamedReference {
	t.Helper()
	nr, err := NewNamedReference(e, prop)
	if err != nil {
		t.Fatalf("NewNamedReference(%s, %s): %v", e.ID, prop, err)
	}
	return nr
}

func ids(elems []*Element) []string {
	out := make([]string, len(elems))
	for i, e := range elems {
		out[i] = e.ID
	}
	return out
}
