package ir

import (
	"lumen/internal/source"
)

// TypeRegistry resolves type names visible to a document.
type TypeRegistry interface {
	LookupElement(name string) (ElementType, bool)
}

// Document is the root of a compilation unit.
type Document struct {
	Path string
	File source.FileID
	// Components declared in this document, in source order.
	Components []*Component
	// Exports is the exported subset of Components.
	Exports []*Component
	Types   TypeRegistry
}

func NewDocument(path string, file source.FileID, types TypeRegistry) *Document {
	return &Document{Path: path, File: file, Types: types}
}

// AddComponent appends c to the document and points its back-reference here.
func (d *Document) AddComponent(c *Component) {
	c.setDocument(d)
	d.Components = append(d.Components, c)
}

// Export marks c as exported. c must already belong to d.
func (d *Document) Export(c *Component) {
	for _, e := range d.Exports {
		if e == c {
			return
		}
	}
	d.Exports = append(d.Exports, c)
}

// Component finds a local component by name.
func (d *Document) Component(name string) *Component {
	for _, c := range d.Components {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ExportedComponent finds an exported component by name.
func (d *Document) ExportedComponent(name string) *Component {
	for _, c := range d.Exports {
		if c.Name == name {
			return c
		}
	}
	return nil
}
