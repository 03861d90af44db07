// Package typeregister maps type names to element types for one compilation.
//
// A Register is created once before the pipeline starts, seeded with the
// builtin elements, and afterwards only grows: components are added as
// documents are parsed and imports resolve. Registers form a chain: a
// document-local scope falls back to its parent for names it does not know.
package typeregister

import (
	"sort"
	"sync"

	"lumen/internal/ir"
	"lumen/internal/langtype"
)

// EmptyTypeName is the spelling of the no-op element.
const EmptyTypeName = "Empty"

// Register is safe for concurrent use.
type Register struct {
	parent *Register

	mu         sync.RWMutex
	builtins   map[string]*langtype.Builtin
	components map[string]*ir.Component
	// imported components by "locator::symbol"; not visible to LookupElement
	imported map[string]*ir.Component
}

// New returns a root register seeded with the builtin elements.
func New() *Register {
	r := &Register{
		builtins:   make(map[string]*langtype.Builtin),
		components: make(map[string]*ir.Component),
		imported:   make(map[string]*ir.Component),
	}
	for _, b := range langtype.Builtins() {
		r.builtins[b.Name] = b
	}
	return r
}

// NewScope returns an empty register that falls back to parent.
func NewScope(parent *Register) *Register {
	return &Register{
		parent:     parent,
		builtins:   make(map[string]*langtype.Builtin),
		components: make(map[string]*ir.Component),
		imported:   make(map[string]*ir.Component),
	}
}

// LookupBuiltinElement returns the builtin element called name. Absence is
// not an error and reports nothing; callers branch on ok.
func (r *Register) LookupBuiltinElement(name string) (ir.ElementType, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		b, ok := reg.builtins[name]
		reg.mu.RUnlock()
		if ok {
			return ir.BuiltinType(b), true
		}
	}
	return ir.ElementType{}, false
}

// EmptyType is the no-op element type.
func (r *Register) EmptyType() ir.ElementType {
	return ir.EmptyType()
}

// AddComponent registers c under its name. Registration is first-wins: when
// the name is taken, the already registered component is returned and
// added is false.
func (r *Register) AddComponent(c *ir.Component) (canonical *ir.Component, added bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.components[c.Name]; ok {
		return existing, false
	}
	r.components[c.Name] = c
	return c, true
}

// AddImported records the component a locator exports under symbol.
// First-wins like AddComponent; the returned component is canonical.
func (r *Register) AddImported(locator, symbol string, c *ir.Component) *ir.Component {
	key := locator + "::" + symbol
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.imported[key]; ok {
		return existing
	}
	r.imported[key] = c
	return c
}

// LookupImported returns a component previously recorded by AddImported.
func (r *Register) LookupImported(locator, symbol string) (*ir.Component, bool) {
	key := locator + "::" + symbol
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		c, ok := reg.imported[key]
		reg.mu.RUnlock()
		if ok {
			return c, true
		}
	}
	return nil, false
}

// LookupComponent finds a registered component in this scope or a parent.
func (r *Register) LookupComponent(name string) (*ir.Component, bool) {
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		c, ok := reg.components[name]
		reg.mu.RUnlock()
		if ok {
			return c, true
		}
	}
	return nil, false
}

// LookupElement resolves a type name used for an element: components shadow
// builtins within a scope, and inner scopes shadow outer ones.
func (r *Register) LookupElement(name string) (ir.ElementType, bool) {
	if name == EmptyTypeName {
		return ir.EmptyType(), true
	}
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		c, isComp := reg.components[name]
		b, isBuiltin := reg.builtins[name]
		reg.mu.RUnlock()
		if isComp {
			return ir.ComponentType(c), true
		}
		if isBuiltin {
			return ir.BuiltinType(b), true
		}
	}
	return ir.ElementType{}, false
}

// Names lists every name visible from r, sorted.
func (r *Register) Names() []string {
	seen := map[string]struct{}{EmptyTypeName: {}}
	for reg := r; reg != nil; reg = reg.parent {
		reg.mu.RLock()
		for name := range reg.components {
			seen[name] = struct{}{}
		}
		for name := range reg.builtins {
			seen[name] = struct{}{}
		}
		reg.mu.RUnlock()
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
