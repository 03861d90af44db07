package frontend

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/source"
)

var errUnknownElement = errors.New("unknown element")

// bindTree parses the bindings and repeater models of one component. It runs
// after every component of the document has its tree, so references can
// reach properties declared on the roots of other local components.
func (b *builder) bindTree(p *pendingComponent) {
	ir.RecurseElemIncludingSubComponents(p.comp, func(e *ir.Element) {
		m, ok := p.models[e]
		if !ok {
			return
		}
		hdr := p.spans[e]
		if e.Repeated != nil {
			src, key := m.Repeat, "repeat"
			if e.Repeated.Conditional {
				src, key = m.If, "if"
			}
			scope := b.parents[e]
			if scope == nil {
				scope = p.comp.Root
			}
			if expr, ok := b.parseBinding(p, scope, hdr, key, src); ok {
				e.Repeated.Model = expr
			}
			return
		}
		for _, name := range slices.Sorted(maps.Keys(m.Bindings)) {
			prop := normalizeIdent(name)
			src := m.Bindings[name]
			if _, ok := e.LookupProperty(prop); !ok {
				diag.ReportError(b.r, diag.SemaUnknownProperty, b.valueSpan(hdr, name, src),
					fmt.Sprintf("%s has no property %s", e.BaseType.Name(), prop)).Emit()
				continue
			}
			if expr, ok := b.parseBinding(p, e, hdr, name, src); ok {
				e.Bind(prop, expr)
			}
		}
	})
}

func (b *builder) parseBinding(p *pendingComponent, self *ir.Element, hdr header, key, src string) (*ir.Expr, bool) {
	base, exact := locate(b.file, hdr, key, src)
	spanAt := func(start, end int) source.Span {
		if !exact {
			return hdr.span
		}
		return spanRange(b.file.ID, base, start, end)
	}
	expr, err := ParseExpr(src, b.resolver(p, self), spanAt)
	if err == nil {
		return expr, true
	}

	span := hdr.span
	var perr *exprError
	if errors.As(err, &perr) {
		span = spanAt(perr.start, perr.end)
	}
	code := diag.SynBadExpression
	switch {
	case errors.Is(err, ir.ErrUnknownProperty):
		code = diag.SemaUnknownProperty
	case errors.Is(err, errUnknownElement):
		code = diag.SemaUnresolvedRef
	}
	diag.ReportError(b.r, code, span, fmt.Sprintf("%s: %v", key, err)).Emit()
	return nil, false
}

func (b *builder) valueSpan(hdr header, key, src string) source.Span {
	if off, ok := locate(b.file, hdr, key, src); ok {
		return spanRange(b.file.ID, off, 0, len(src))
	}
	return hdr.span
}

// resolver binds names for expressions evaluated on self: "prop" and
// "self.prop" read self, "root.prop" the component root, "parent.prop" the
// containing element, "id.prop" any element of the component.
func (b *builder) resolver(p *pendingComponent, self *ir.Element) ReferenceResolver {
	return func(path []string) (ir.NamedReference, error) {
		var target *ir.Element
		var prop string
		switch len(path) {
		case 1:
			target, prop = self, path[0]
		case 2:
			prop = path[1]
			switch path[0] {
			case "self":
				target = self
			case "root":
				target = p.comp.Root
			case "parent":
				target = b.parents[self]
				if target == nil {
					return ir.NamedReference{}, fmt.Errorf("%s has no parent: %w", self.ID, errUnknownElement)
				}
			default:
				target = p.comp.FindElement(path[0])
				if target == nil {
					return ir.NamedReference{}, fmt.Errorf("%q: %w", path[0], errUnknownElement)
				}
			}
		default:
			return ir.NamedReference{}, fmt.Errorf("cannot resolve %q: %w", strings.Join(path, "."), errUnknownElement)
		}
		return ir.NewNamedReference(target, prop)
	}
}
