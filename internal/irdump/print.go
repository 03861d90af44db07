// Package irdump renders a document for humans (Print) and for tools
// (Snapshot, encoded with msgpack).
package irdump

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"lumen/internal/ir"
)

// Print writes the local components of doc as an indented tree:
//
//	component App (exported)
//	  W: Window
//	    title: "Demo"
//	    W-menulayout: VerticalLayout
//	      m: MenuBarImpl
//
// Geometry slots are listed only when they point away from the element.
func Print(w io.Writer, doc *ir.Document) error {
	var sb strings.Builder
	for i, c := range doc.Components {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString("component " + c.Name)
		if slices.Contains(doc.Exports, c) {
			sb.WriteString(" (exported)")
		}
		sb.WriteByte('\n')
		if c.Root != nil {
			printElement(&sb, c.Root, 1)
		}
	}
	_, err := io.WriteString(w, sb.String())
	return err
}

// Sprint is Print into a string.
func Sprint(doc *ir.Document) string {
	var sb strings.Builder
	if err := Print(&sb, doc); err != nil {
		return ""
	}
	return sb.String()
}

func printElement(sb *strings.Builder, e *ir.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	if e.Repeated != nil {
		kind := "for"
		if e.Repeated.Conditional {
			kind = "if"
		}
		fmt.Fprintf(sb, "%s%s: %s %s\n", indent, e.ID, kind, e.Repeated.Model)
		if inner := e.BaseType.Component; inner != nil && inner.Root != nil {
			printElement(sb, inner.Root, depth+1)
		}
		return
	}

	fmt.Fprintf(sb, "%s%s: %s\n", indent, e.ID, e.BaseType.Name())
	inner := indent + "  "
	for _, name := range slices.Sorted(maps.Keys(e.Declarations)) {
		fmt.Fprintf(sb, "%sproperty %s: %s\n", inner, name, e.Declarations[name].Type)
	}
	for _, name := range e.BindingNames() {
		fmt.Fprintf(sb, "%s%s: %s\n", inner, name, e.Bindings[name].Expr)
	}
	if e.Geometry != nil {
		for i, slot := range e.Geometry.Slots() {
			name := slotNames[i]
			if slot.IsZero() || (slot.Element() == e && slot.Name() == name) {
				continue
			}
			fmt.Fprintf(sb, "%sgeometry.%s -> %s\n", inner, name, slot)
		}
	}
	for _, child := range e.Children {
		printElement(sb, child, depth+1)
	}
}

var slotNames = [...]string{"x", "y", "width", "height"}
