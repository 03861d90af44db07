package ir

import (
	"sort"
	"weak"

	"lumen/internal/langtype"
	"lumen/internal/source"
)

// Binding is the expression bound to a property.
type Binding struct {
	Expr *Expr
	Span source.Span
}

// PropertyDeclaration declares a new property on an element. Declarations on
// a component root form the component's public interface.
type PropertyDeclaration struct {
	Type langtype.PropertyType
	Span source.Span
}

// GeometryProps is the authoritative geometry of an element as seen by the
// layout machinery. Each slot normally references the element itself.
type GeometryProps struct {
	X      NamedReference
	Y      NamedReference
	Width  NamedReference
	Height NamedReference
}

// Slots returns pointers to the four slots, in x, y, width, height order.
func (g *GeometryProps) Slots() []*NamedReference {
	return []*NamedReference{&g.X, &g.Y, &g.Width, &g.Height}
}

// RepeatedInfo marks an element instantiated by a model (`for`) or a
// condition (`if`). The element's BaseType is then an inline component whose
// root is the repeated element.
type RepeatedInfo struct {
	Model       *Expr
	Conditional bool
}

// Element is one instantiated widget or construct.
type Element struct {
	// ID is unique within the enclosing component.
	ID       string
	Span     source.Span
	BaseType ElementType
	// Children are in render order.
	Children     []*Element
	Bindings     map[string]*Binding
	Declarations map[string]PropertyDeclaration
	Geometry     *GeometryProps
	Repeated     *RepeatedInfo

	enclosing weak.Pointer[Component]
}

// NewElement creates a detached element; the enclosing component is set by
// Component.Adopt or SetEnclosingComponent.
func NewElement(id string, base ElementType, span source.Span) *Element {
	return &Element{
		ID:       id,
		BaseType: base,
		Span:     span,
	}
}

// EnclosingComponent returns the component the element belongs to.
func (e *Element) EnclosingComponent() *Component {
	if e == nil {
		return nil
	}
	return e.enclosing.Value()
}

// SetEnclosingComponent sets only e's back-reference.
func (e *Element) SetEnclosingComponent(c *Component) {
	e.enclosing = weak.Make(c)
}

// Bind sets (or replaces) the binding of prop.
func (e *Element) Bind(prop string, expr *Expr) {
	if e.Bindings == nil {
		e.Bindings = make(map[string]*Binding)
	}
	e.Bindings[prop] = &Binding{Expr: expr, Span: expr.Span}
}

// Declare adds a property declaration.
func (e *Element) Declare(prop string, pt langtype.PropertyType, span source.Span) {
	if e.Declarations == nil {
		e.Declarations = make(map[string]PropertyDeclaration)
	}
	e.Declarations[prop] = PropertyDeclaration{Type: pt, Span: span}
}

// BindingNames returns the bound property names in sorted order.
func (e *Element) BindingNames() []string {
	names := make([]string, 0, len(e.Bindings))
	for name := range e.Bindings {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupProperty resolves prop on the element: own declarations first, then
// the base type, then the geometry slots every element has.
func (e *Element) LookupProperty(prop string) (langtype.PropertyType, bool) {
	if d, ok := e.Declarations[prop]; ok {
		return d.Type, true
	}
	if pt, ok := e.BaseType.LookupProperty(prop); ok {
		return pt, true
	}
	if pt, ok := langtype.GeometryProperties[prop]; ok {
		return pt, true
	}
	return langtype.PropInvalid, false
}

// AppendChild adds child at the end and adopts it into e's component.
func (e *Element) AppendChild(child *Element) {
	e.Children = append(e.Children, child)
	if c := e.EnclosingComponent(); c != nil {
		c.Adopt(child)
	}
}

// RetainChildren filters e.Children in place in a single pass. keep is called
// exactly once per child, in order, and may have side effects; the relative
// order of kept children is preserved.
func (e *Element) RetainChildren(keep func(child *Element) bool) {
	out := e.Children[:0]
	for _, child := range e.Children {
		if keep(child) {
			out = append(out, child)
		}
	}
	clear(e.Children[len(out):])
	e.Children = out
}

// TakeChildren detaches and returns all children.
func (e *Element) TakeChildren() []*Element {
	children := e.Children
	e.Children = nil
	return children
}
