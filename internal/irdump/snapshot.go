package irdump

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"lumen/internal/ir"
)

// SnapshotSchema is bumped whenever the encoded layout changes.
const SnapshotSchema uint16 = 1

// Snapshot is a flat, pointer-free copy of a document.
type Snapshot struct {
	Schema     uint16              `msgpack:"schema"`
	Path       string              `msgpack:"path"`
	Components []ComponentSnapshot `msgpack:"components"`
}

// ComponentSnapshot lists the elements of a component in pre-order.
// Elements of inline (repeated) components follow their placeholder.
type ComponentSnapshot struct {
	Name     string            `msgpack:"name"`
	Exported bool              `msgpack:"exported,omitempty"`
	Elements []ElementSnapshot `msgpack:"elements"`
}

type ElementSnapshot struct {
	ID   string `msgpack:"id"`
	Type string `msgpack:"type"`
	// Parent indexes Elements; -1 for the root.
	Parent       int32             `msgpack:"parent"`
	Declarations map[string]string `msgpack:"declarations,omitempty"`
	Bindings     map[string]string `msgpack:"bindings,omitempty"`
	// Model is the repeater model or condition of a placeholder.
	Model       string            `msgpack:"model,omitempty"`
	Conditional bool              `msgpack:"conditional,omitempty"`
	Geometry    map[string]string `msgpack:"geometry,omitempty"`
}

// TakeSnapshot copies the local components of doc.
func TakeSnapshot(doc *ir.Document) (*Snapshot, error) {
	s := &Snapshot{Schema: SnapshotSchema, Path: doc.Path}
	for _, c := range doc.Components {
		cs := ComponentSnapshot{Name: c.Name, Exported: slices.Contains(doc.Exports, c)}
		if c.Root != nil {
			if err := flatten(&cs, c.Root, -1); err != nil {
				return nil, fmt.Errorf("component %s: %w", c.Name, err)
			}
		}
		s.Components = append(s.Components, cs)
	}
	return s, nil
}

func flatten(cs *ComponentSnapshot, e *ir.Element, parent int32) error {
	idx, err := safecast.Conv[int32](len(cs.Elements))
	if err != nil {
		return err
	}
	es := ElementSnapshot{ID: e.ID, Type: e.BaseType.Name(), Parent: parent}
	for name, decl := range e.Declarations {
		if es.Declarations == nil {
			es.Declarations = make(map[string]string, len(e.Declarations))
		}
		es.Declarations[name] = decl.Type.String()
	}
	for name, b := range e.Bindings {
		if es.Bindings == nil {
			es.Bindings = make(map[string]string, len(e.Bindings))
		}
		es.Bindings[name] = b.Expr.String()
	}
	if e.Geometry != nil {
		for i, slot := range e.Geometry.Slots() {
			if slot.IsZero() || (slot.Element() == e && slot.Name() == slotNames[i]) {
				continue
			}
			if es.Geometry == nil {
				es.Geometry = make(map[string]string)
			}
			es.Geometry[slotNames[i]] = slot.String()
		}
	}
	if e.Repeated != nil {
		es.Model = e.Repeated.Model.String()
		es.Conditional = e.Repeated.Conditional
		es.Type = "<repeated>"
	}
	cs.Elements = append(cs.Elements, es)

	if e.Repeated != nil && e.BaseType.Component != nil && e.BaseType.Component.Root != nil {
		return flatten(cs, e.BaseType.Component.Root, idx)
	}
	for _, child := range e.Children {
		if err := flatten(cs, child, idx); err != nil {
			return err
		}
	}
	return nil
}

// EncodeSnapshot writes s as msgpack.
func EncodeSnapshot(w io.Writer, s *Snapshot) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	return enc.Encode(s)
}

// DecodeSnapshot reads a snapshot and rejects other schema versions.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := msgpack.NewDecoder(r).Decode(&s); err != nil {
		return nil, err
	}
	if s.Schema != SnapshotSchema {
		return nil, fmt.Errorf("snapshot schema %d, want %d", s.Schema, SnapshotSchema)
	}
	return &s, nil
}

// Children returns the indices of the direct children of element i.
func (cs *ComponentSnapshot) Children(i int) []int {
	var out []int
	for j, e := range cs.Elements {
		if int(e.Parent) == i {
			out = append(out, j)
		}
	}
	return out
}

// BindingNames returns the bound property names of e, sorted.
func (e *ElementSnapshot) BindingNames() []string {
	return slices.Sorted(maps.Keys(e.Bindings))
}
