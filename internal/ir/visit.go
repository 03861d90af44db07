package ir

import (
	"slices"
)

// RecurseElem visits e and its descendants depth-first, parent before
// children, without entering inline sub-components.
func RecurseElem(e *Element, fn func(*Element)) {
	if e == nil {
		return
	}
	fn(e)
	for _, child := range slices.Clone(e.Children) {
		RecurseElem(child, fn)
	}
}

// RecurseElemIncludingSubComponents visits every element of c depth-first,
// parent before children, descending into the inline sub-components of
// repeated elements. The children of an element are read after fn returns
// for it, so fn may replace or filter the children of the element it is
// given; siblings of the visited element are never skipped or revisited.
func RecurseElemIncludingSubComponents(c *Component, fn func(*Element)) {
	if c == nil {
		return
	}
	recurseIncludingSub(c.Root, fn, 0)
}

func recurseIncludingSub(e *Element, fn func(*Element), depth int) {
	if e == nil || depth > maxSubComponentDepth {
		return
	}
	fn(e)
	if sub := inlineSubComponent(e); sub != nil {
		recurseIncludingSub(sub.Root, fn, depth+1)
	}
	for _, child := range slices.Clone(e.Children) {
		recurseIncludingSub(child, fn, depth)
	}
}

const maxSubComponentDepth = 256

func inlineSubComponent(e *Element) *Component {
	if e.Repeated == nil || e.BaseType.Kind != TypeComponent {
		return nil
	}
	return e.BaseType.Component
}

// UsedComponents returns every component reachable from the document's
// exports (or from all local components when nothing is exported) through
// element types, dependencies before their users, each exactly once.
// Inline sub-components are not listed; they are reached through the
// elements that own them.
func UsedComponents(doc *Document) []*Component {
	if doc == nil {
		return nil
	}
	roots := doc.Exports
	if len(roots) == 0 {
		roots = doc.Components
	}

	visited := make(map[*Component]bool)
	var order []*Component
	var visit func(c *Component)
	visit = func(c *Component) {
		if c == nil || visited[c] {
			return
		}
		visited[c] = true
		RecurseElemIncludingSubComponents(c, func(e *Element) {
			if e.BaseType.Kind == TypeComponent && e.Repeated == nil {
				visit(e.BaseType.Component)
			}
		})
		order = append(order, c)
	}
	for _, root := range roots {
		visit(root)
	}
	return order
}

// VisitAllUsedComponents computes the used set first, then calls fn once per
// component. Components that become used while fn runs are not visited.
func VisitAllUsedComponents(doc *Document, fn func(*Component)) {
	for _, c := range UsedComponents(doc) {
		fn(c)
	}
}

// AllComponents is UsedComponents followed by local components that nothing
// uses.
func AllComponents(doc *Document) []*Component {
	all := UsedComponents(doc)
	seen := make(map[*Component]bool, len(all))
	for _, c := range all {
		seen[c] = true
	}
	for _, c := range doc.Components {
		if !seen[c] {
			all = append(all, c)
		}
	}
	return all
}

// VisitExprs calls fn on e and every nested sub-expression, pre-order.
func VisitExprs(e *Expr, fn func(*Expr)) {
	if e == nil {
		return
	}
	fn(e)
	for _, child := range e.Children() {
		VisitExprs(child, fn)
	}
}

// VisitNamedReferences calls fn for every reference inside e, including
// nested ones. Assigning through the pointer rebinds that occurrence.
func VisitNamedReferences(e *Expr, fn func(*NamedReference)) {
	VisitExprs(e, func(x *Expr) {
		if x.Kind != ExprPropertyRef {
			return
		}
		data, ok := x.Data.(PropertyRefData)
		if !ok {
			return
		}
		fn(&data.Ref)
		x.Data = data
	})
}

// VisitElementNamedReferences covers bindings (in property name order), the
// repeater model and the geometry slots of e.
func VisitElementNamedReferences(e *Element, fn func(*NamedReference)) {
	for _, name := range e.BindingNames() {
		if b := e.Bindings[name]; b != nil {
			VisitNamedReferences(b.Expr, fn)
		}
	}
	if e.Repeated != nil {
		VisitNamedReferences(e.Repeated.Model, fn)
	}
	if e.Geometry != nil {
		for _, slot := range e.Geometry.Slots() {
			if !slot.IsZero() {
				fn(slot)
			}
		}
	}
}

// VisitAllNamedReferences visits every reference held anywhere in the
// document: all components, all elements including inline sub-components,
// all bindings, repeater models and geometry slots.
func VisitAllNamedReferences(doc *Document, fn func(*NamedReference)) {
	for _, c := range AllComponents(doc) {
		RecurseElemIncludingSubComponents(c, func(e *Element) {
			VisitElementNamedReferences(e, fn)
		})
	}
}

// RewriteAll replaces every occurrence of old with repl in the document and
// returns the number of replaced occurrences.
func RewriteAll(doc *Document, old, repl NamedReference) int {
	n := 0
	VisitAllNamedReferences(doc, func(nr *NamedReference) {
		if *nr == old {
			*nr = repl
			n++
		}
	})
	return n
}
