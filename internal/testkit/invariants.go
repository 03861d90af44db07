// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"errors"
	"fmt"

	"lumen/internal/ir"
	"lumen/internal/source"
)

// CheckTreeInvariants runs the structural invariants every document must
// satisfy after parsing and after each pass:
// 1) every element's enclosing component is the component whose tree holds it
// 2) ids are non-empty and unique within a component, inline sub-components included
// 3) every named reference in bindings and geometry points at an element of the document
// 4) spans of sf lie within its content
//
// All violations are joined into the returned error.
func CheckTreeInvariants(doc *ir.Document, sf *source.File) error {
	if doc == nil {
		return errors.New("nil document")
	}
	var errs []error

	inTree := make(map[*ir.Element]bool)
	for _, c := range ir.AllComponents(doc) {
		if c.Root == nil {
			errs = append(errs, fmt.Errorf("component %s has no root", c.Name))
			continue
		}
		errs = append(errs, checkComponent(c, inTree)...)
	}

	for _, c := range ir.AllComponents(doc) {
		ir.RecurseElemIncludingSubComponents(c, func(e *ir.Element) {
			check := func(where string, ref ir.NamedReference) {
				if ref.IsZero() {
					errs = append(errs, fmt.Errorf("%s.%s: empty reference", e.ID, where))
					return
				}
				target := ref.Element()
				if target == nil || !inTree[target] {
					errs = append(errs, fmt.Errorf("%s.%s: reference %s leaves the document", e.ID, where, ref))
				}
			}
			for _, name := range e.BindingNames() {
				ir.VisitNamedReferences(e.Bindings[name].Expr, func(ref *ir.NamedReference) {
					check(name, *ref)
				})
			}
			if e.Repeated != nil && e.Repeated.Model != nil {
				ir.VisitNamedReferences(e.Repeated.Model, func(ref *ir.NamedReference) {
					check("model", *ref)
				})
			}
			if e.Geometry != nil {
				for i, slot := range e.Geometry.Slots() {
					check(fmt.Sprintf("geometry[%d]", i), *slot)
				}
			}
			if sf != nil {
				if err := checkSpan(e.Span, sf); err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", e.ID, err))
				}
			}
		})
	}
	return errors.Join(errs...)
}

func checkComponent(c *ir.Component, inTree map[*ir.Element]bool) []error {
	var errs []error
	seen := make(map[string]bool)
	owner := make(map[*ir.Element]*ir.Component)

	var walk func(owned *ir.Component, e *ir.Element)
	walk = func(owned *ir.Component, e *ir.Element) {
		if inTree[e] {
			errs = append(errs, fmt.Errorf("element %q reachable twice", e.ID))
			return
		}
		inTree[e] = true
		owner[e] = owned
		if got := e.EnclosingComponent(); got != owned {
			errs = append(errs, fmt.Errorf("element %q: enclosing component %s, want %s", e.ID, name(got), name(owned)))
		}
		switch {
		case e.ID == "":
			errs = append(errs, fmt.Errorf("component %s: element without id", c.Name))
		case seen[e.ID]:
			errs = append(errs, fmt.Errorf("component %s: duplicate id %q", c.Name, e.ID))
		}
		seen[e.ID] = true
		if sub := e.BaseType.Component; e.Repeated != nil && e.BaseType.Kind == ir.TypeComponent && sub != nil && sub.Root != nil {
			walk(sub, sub.Root)
		}
		for _, child := range e.Children {
			walk(owned, child)
		}
	}
	walk(c, c.Root)
	return errs
}

func checkSpan(sp source.Span, sf *source.File) error {
	if sp.File != sf.ID || sf.Contains(sp) {
		return nil
	}
	return fmt.Errorf("span %v outside content of %d bytes", sp, len(sf.Content))
}

func name(c *ir.Component) string {
	if c == nil {
		return "<nil>"
	}
	return c.Name
}
