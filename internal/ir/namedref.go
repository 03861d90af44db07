package ir

import (
	"errors"
	"fmt"
	"weak"
)

// ErrUnknownProperty is returned when a reference names a property the
// element neither declares nor inherits.
var ErrUnknownProperty = errors.New("unknown property")

// NamedReference identifies "property Name of element E". It is a comparable
// value: == holds exactly when both denote the same element (by identity) and
// the same property name. The element pointer is weak; references never keep
// an element alive.
type NamedReference struct {
	elem weak.Pointer[Element]
	name string
}

// NewNamedReference builds a reference to prop on e.
func NewNamedReference(e *Element, prop string) (NamedReference, error) {
	if e == nil {
		return NamedReference{}, fmt.Errorf("reference to %q: nil element", prop)
	}
	if _, ok := e.LookupProperty(prop); !ok {
		return NamedReference{}, fmt.Errorf("%s.%s: %w", e.ID, prop, ErrUnknownProperty)
	}
	return NamedReference{elem: weak.Make(e), name: prop}, nil
}

// MustNamedReference is NewNamedReference for references the caller knows
// to be valid, such as geometry slots of synthetic elements.
func MustNamedReference(e *Element, prop string) NamedReference {
	nr, err := NewNamedReference(e, prop)
	if err != nil {
		panic(err)
	}
	return nr
}

// Element returns the referenced element, or nil once it has been reclaimed.
func (r NamedReference) Element() *Element {
	return r.elem.Value()
}

// Name is the property name.
func (r NamedReference) Name() string {
	return r.name
}

// IsZero reports whether r was never initialised.
func (r NamedReference) IsZero() bool {
	return r == NamedReference{}
}

// Equal is r == other, spelled out for readability at call sites.
func (r NamedReference) Equal(other NamedReference) bool {
	return r == other
}

func (r NamedReference) String() string {
	if r.IsZero() {
		return "<none>"
	}
	e := r.Element()
	if e == nil {
		return "<dropped>." + r.name
	}
	return e.ID + "." + r.name
}
