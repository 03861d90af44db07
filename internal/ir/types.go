package ir

import "lumen/internal/langtype"

// TypeKind tags an ElementType.
type TypeKind uint8

const (
	TypeInvalid TypeKind = iota
	TypeBuiltin
	TypeComponent
	// TypeEmpty is the no-op element: geometry only, renders nothing.
	TypeEmpty
)

// ElementType is the base type of an element.
type ElementType struct {
	Kind      TypeKind
	Builtin   *langtype.Builtin
	Component *Component
}

func BuiltinType(b *langtype.Builtin) ElementType {
	return ElementType{Kind: TypeBuiltin, Builtin: b}
}

func ComponentType(c *Component) ElementType {
	return ElementType{Kind: TypeComponent, Component: c}
}

func EmptyType() ElementType {
	return ElementType{Kind: TypeEmpty}
}

// Name is the user-facing spelling of the type.
func (t ElementType) Name() string {
	switch t.Kind {
	case TypeBuiltin:
		return t.Builtin.Name
	case TypeComponent:
		return t.Component.Name
	case TypeEmpty:
		return "Empty"
	}
	return "<invalid>"
}

// IsBuiltin reports whether t is exactly the builtin called name.
func (t ElementType) IsBuiltin(name string) bool {
	return t.Kind == TypeBuiltin && t.Builtin != nil && t.Builtin.Name == name
}

// BuiltinType follows component inheritance down to the native element.
// Returns nil for empty and invalid types.
func (t ElementType) BuiltinType() *langtype.Builtin {
	seen := 0
	for t.Kind == TypeComponent && t.Component != nil && t.Component.Root != nil {
		t = t.Component.Root.BaseType
		if seen++; seen > 64 {
			return nil
		}
	}
	if t.Kind == TypeBuiltin {
		return t.Builtin
	}
	return nil
}

// LookupProperty resolves a property on the type itself (not on a particular
// element's own declarations).
func (t ElementType) LookupProperty(name string) (langtype.PropertyType, bool) {
	switch t.Kind {
	case TypeBuiltin:
		return t.Builtin.Property(name)
	case TypeComponent:
		if t.Component != nil && t.Component.Root != nil {
			return t.Component.Root.LookupProperty(name)
		}
	case TypeEmpty:
		if pt, ok := langtype.GeometryProperties[name]; ok {
			return pt, true
		}
	}
	return langtype.PropInvalid, false
}
