package ir

import (
	"errors"
	"testing"

	"lumen/internal/langtype"
	"lumen/internal/source"
)

func TestNamedReferenceIdentity(t *testing.T) {
	a := elem(t, "a", "Text")
	b := elem(t, "b", "Text")

	if ref(t, a, "height") != ref(t, a, "height") {
		t.Fatalf("two references to a.height must be equal")
	}
	if ref(t, a, "height") == ref(t, b, "height") {
		t.Fatalf("a.height and b.height must differ")
	}
	if ref(t, a, "height").Equal(ref(t, a, "width")) {
		t.Fatalf("a.height and a.width must differ")
	}

	// same id, different element
	twin := elem(t, "a", "Text")
	if ref(t, a, "text") == ref(t, twin, "text") {
		t.Fatalf("equality must use element identity, not id")
	}
}

func TestNamedReferenceUnknownProperty(t *testing.T) {
	a := elem(t, "a", "Rectangle")
	if _, err := NewNamedReference(a, "text"); !errors.Is(err, ErrUnknownProperty) {
		t.Fatalf("expected ErrUnknownProperty, got %v", err)
	}

	a.Declare("counter", langtype.PropInt, source.Span{})
	if _, err := NewNamedReference(a, "counter"); err != nil {
		t.Fatalf("declared property rejected: %v", err)
	}

	empty := NewElement("e", EmptyType(), source.Span{})
	if _, err := NewNamedReference(empty, "height"); err != nil {
		t.Fatalf("geometry slot on empty element rejected: %v", err)
	}
	if _, err := NewNamedReference(empty, "background"); err == nil {
		t.Fatalf("empty element must only expose geometry")
	}
}

func TestNamedReferenceThroughComponentType(t *testing.T) {
	doc := NewDocument("t", 0, nil)
	root := elem(t, "root", "Rectangle")
	root.Declare("label", langtype.PropString, source.Span{})
	button := newComponent(doc, "Button", root)

	inst := NewElement("ok", ComponentType(button), source.Span{})
	if _, err := NewNamedReference(inst, "label"); err != nil {
		t.Fatalf("component property: %v", err)
	}
	if _, err := NewNamedReference(inst, "background"); err != nil {
		t.Fatalf("inherited builtin property: %v", err)
	}
	if got := inst.BaseType.BuiltinType(); got == nil || got.Name != "Rectangle" {
		t.Fatalf("BuiltinType = %v", got)
	}
}

func TestNamedReferenceString(t *testing.T) {
	a := elem(t, "win", "Window")
	if got := ref(t, a, "height").String(); got != "win.height" {
		t.Fatalf("String = %q", got)
	}
	var zero NamedReference
	if !zero.IsZero() || zero.String() != "<none>" {
		t.Fatalf("zero reference misbehaves: %q", zero.String())
	}
}
