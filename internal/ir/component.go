package ir

import (
	"strconv"
	"weak"

	"lumen/internal/source"
)

// Component owns one root element and, transitively, its subtree.
type Component struct {
	Name string
	Span source.Span
	Root *Element

	document weak.Pointer[Document]
	// ids handed out by UniqueID that may not be attached to the tree yet
	reserved map[string]struct{}
}

// NewComponent creates a component with an empty root slot. Use SetRoot to
// attach the tree.
func NewComponent(name string, span source.Span) *Component {
	return &Component{Name: name, Span: span}
}

func (c *Component) setDocument(d *Document) {
	c.document = weak.Make(d)
}

// Document returns the enclosing document, or nil when the component is
// detached (inline sub-components inherit the document of their parent).
func (c *Component) Document() *Document {
	if c == nil {
		return nil
	}
	return c.document.Value()
}

// SetRoot installs root and adopts its whole subtree.
func (c *Component) SetRoot(root *Element) {
	c.Root = root
	c.Adopt(root)
}

// Adopt points the enclosing-component back-reference of e and its
// descendants at c. Inline sub-components of repeated elements keep their
// own elements.
func (c *Component) Adopt(e *Element) {
	RecurseElem(e, func(el *Element) {
		el.enclosing = weak.Make(c)
	})
}

// FindElement returns the element with the given id, searching inline
// sub-components as well.
func (c *Component) FindElement(id string) *Element {
	var found *Element
	RecurseElemIncludingSubComponents(c, func(e *Element) {
		if found == nil && e.ID == id {
			found = e
		}
	})
	return found
}

// UniqueID derives an identifier from base that collides neither with an
// element of the component nor with an id previously returned by UniqueID.
// The first candidate is base itself, then base-2, base-3 and so on.
func (c *Component) UniqueID(base string) string {
	taken := make(map[string]struct{})
	RecurseElemIncludingSubComponents(c, func(e *Element) {
		taken[e.ID] = struct{}{}
	})
	for id := range c.reserved {
		taken[id] = struct{}{}
	}

	candidate := base
	for n := 2; ; n++ {
		if _, ok := taken[candidate]; !ok {
			break
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
	if c.reserved == nil {
		c.reserved = make(map[string]struct{})
	}
	c.reserved[candidate] = struct{}{}
	return candidate
}
