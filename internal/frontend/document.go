package frontend

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"fortio.org/safecast"
	"github.com/BurntSushi/toml"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/langtype"
	"lumen/internal/source"
	"lumen/internal/typeloader"
	"lumen/internal/typeregister"
)

// Importer resolves [[import]] entries. *typeloader.Loader implements it.
type Importer interface {
	ImportComponentAt(ctx context.Context, locator, symbol string, at source.Span, r diag.Reporter) (*ir.Component, bool)
}

type fileModel struct {
	Imports    []importModel    `toml:"import"`
	Components []componentModel `toml:"component"`
}

type importModel struct {
	From  string   `toml:"from"`
	Names []string `toml:"names"`
}

type componentModel struct {
	Name   string        `toml:"name"`
	Export bool          `toml:"export"`
	Root   *elementModel `toml:"root"`
}

type elementModel struct {
	ID         string            `toml:"id"`
	Type       string            `toml:"type"`
	Properties map[string]string `toml:"properties"`
	Bindings   map[string]string `toml:"bindings"`
	Repeat     string            `toml:"repeat"`
	If         string            `toml:"if"`
	Children   []*elementModel   `toml:"children"`
}

// ParseDocument adapts Parse to typeloader.ParseFunc.
func ParseDocument(ctx context.Context, l *typeloader.Loader, file *source.File, types *typeregister.Register, r diag.Reporter) *ir.Document {
	return Parse(ctx, file, types, l, r)
}

// Parse builds a document from file. Local components are registered in
// types, which should be a scope over the compilation's global register.
// Returns nil only when the file is not valid TOML; every other problem is
// reported and the affected part is left out or given an invalid type.
func Parse(ctx context.Context, file *source.File, types *typeregister.Register, imp Importer, r diag.Reporter) *ir.Document {
	if r == nil {
		r = diag.NopReporter{}
	}
	var model fileModel
	meta, err := toml.Decode(string(file.Content), &model)
	if err != nil {
		reportTOMLError(r, file, err)
		return nil
	}

	b := &builder{
		ctx:     ctx,
		file:    file,
		types:   types,
		imp:     imp,
		r:       r,
		headers: scanHeaders(file),
		doc:     ir.NewDocument(file.Path, file.ID, types),
		parents: make(map[*ir.Element]*ir.Element),
	}
	for _, key := range meta.Undecoded() {
		diag.ReportWarning(r, diag.SynInvalidDocument, b.fileStart(),
			fmt.Sprintf("unknown key %q ignored", key.String())).Emit()
	}

	b.imports(model.Imports)
	pending := b.declareComponents(model.Components)
	for _, p := range pending {
		b.buildTree(p)
	}
	for _, p := range pending {
		b.bindTree(p)
	}
	return b.doc
}

func reportTOMLError(r diag.Reporter, file *source.File, err error) {
	span := source.Span{File: file.ID}
	var perr toml.ParseError
	if errors.As(err, &perr) {
		if start, convErr := safecast.Conv[uint32](perr.Position.Start); convErr == nil {
			span.Start = start
			span.End = start
			if n, convErr := safecast.Conv[uint32](perr.Position.Len); convErr == nil {
				span.End = start + n
			}
		}
		diag.ReportError(r, diag.SynInvalidDocument, span, perr.Message).Emit()
		return
	}
	diag.ReportError(r, diag.SynInvalidDocument, span, err.Error()).Emit()
}

type builder struct {
	ctx     context.Context
	file    *source.File
	types   *typeregister.Register
	imp     Importer
	r       diag.Reporter
	headers headerIndex
	doc     *ir.Document
	parents map[*ir.Element]*ir.Element
}

// pendingComponent carries a declared component through the build phases.
type pendingComponent struct {
	comp    *ir.Component
	model   *componentModel
	headers []header
	// element models by element, for the binding phase
	models map[*ir.Element]*elementModel
	spans  map[*ir.Element]header
}

func (b *builder) fileStart() source.Span {
	return source.Span{File: b.file.ID}
}

func (b *builder) imports(imports []importModel) {
	for i, imp := range imports {
		span := b.fileStart()
		if i < len(b.headers.imports) {
			span = b.headers.imports[i].span
		}
		from := strings.TrimSpace(imp.From)
		if from == "" {
			diag.ReportError(b.r, diag.SynMissingField, span, "import without \"from\"").Emit()
			continue
		}
		if b.imp == nil {
			diag.ReportError(b.r, diag.SemaImportFailed, span, "imports are not available here").Emit()
			continue
		}
		for _, raw := range imp.Names {
			name := normalizeIdent(raw)
			comp, ok := b.imp.ImportComponentAt(b.ctx, from, name, span, b.r)
			if !ok {
				continue
			}
			if canonical, added := b.types.AddComponent(comp); !added && canonical != comp {
				diag.ReportError(b.r, diag.SemaDuplicateExport, span,
					fmt.Sprintf("%q is already defined", name)).Emit()
			}
		}
	}
}

func (b *builder) declareComponents(models []componentModel) []*pendingComponent {
	var pending []*pendingComponent
	for i := range models {
		m := &models[i]
		var hdr componentHeaders
		if i < len(b.headers.components) {
			hdr = b.headers.components[i]
		}
		span := hdr.header.span
		if span.Empty() {
			span = b.fileStart()
		}
		name := normalizeIdent(m.Name)
		if !validIdent(name) {
			diag.ReportError(b.r, diag.SynMissingField, span,
				fmt.Sprintf("component needs a valid name, got %q", m.Name)).Emit()
			continue
		}
		if m.Root == nil {
			diag.ReportError(b.r, diag.SynMissingField, span,
				fmt.Sprintf("component %s has no root element", name)).Emit()
			continue
		}
		comp := ir.NewComponent(name, span)
		if _, added := b.types.AddComponent(comp); !added {
			diag.ReportError(b.r, diag.SemaDuplicateExport, span,
				fmt.Sprintf("component %s is defined more than once", name)).Emit()
			continue
		}
		b.doc.AddComponent(comp)
		if m.Export {
			b.doc.Export(comp)
		}
		pending = append(pending, &pendingComponent{
			comp:    comp,
			model:   m,
			headers: hdr.elements,
			models:  make(map[*ir.Element]*elementModel),
			spans:   make(map[*ir.Element]header),
		})
	}
	return pending
}

// buildTree creates the elements of one component and assigns ids.
func (b *builder) buildTree(p *pendingComponent) {
	// element headers line up with a pre-order walk unless some table was
	// written inline; then every element falls back to the component header
	count := 0
	var countModels func(m *elementModel)
	countModels = func(m *elementModel) {
		count++
		for _, child := range m.Children {
			countModels(child)
		}
	}
	countModels(p.model.Root)
	exact := count == len(p.headers)

	next := 0
	var build func(m *elementModel) *ir.Element
	build = func(m *elementModel) *ir.Element {
		hdr := header{span: p.comp.Span}
		if exact {
			hdr = p.headers[next]
		}
		next++
		elem := b.newElement(p, m, hdr.span)
		p.models[elem] = m
		p.spans[elem] = hdr
		for _, cm := range m.Children {
			child := build(cm)
			if child == nil {
				continue
			}
			if b.noChildren(elem) {
				diag.ReportError(b.r, diag.SemaUnknownType, child.Span,
					fmt.Sprintf("%s cannot have children", elem.BaseType.Name())).Emit()
				continue
			}
			elem.Children = append(elem.Children, child)
			b.parents[child] = elem
			if inner := repeatedRoot(child); inner != nil {
				b.parents[inner] = elem
			}
		}
		if m.Repeat != "" || m.If != "" {
			return b.wrapRepeated(p, elem, m, hdr)
		}
		return elem
	}
	root := build(p.model.Root)
	if root.Repeated != nil {
		diag.ReportError(b.r, diag.SynInvalidDocument, root.Span,
			"the root element of a component cannot be repeated").Emit()
		root = repeatedRoot(root)
		root.Repeated = nil
	}
	p.comp.SetRoot(root)
	if root.ID == "" {
		root.ID = p.comp.UniqueID("root")
	}
	b.assignIDs(p)
}

func repeatedRoot(e *ir.Element) *ir.Element {
	if e.Repeated == nil || e.BaseType.Kind != ir.TypeComponent || e.BaseType.Component == nil {
		return nil
	}
	return e.BaseType.Component.Root
}

func (b *builder) noChildren(e *ir.Element) bool {
	bt := e.BaseType.BuiltinType()
	return bt != nil && bt.NoChildren && e.BaseType.Kind == ir.TypeBuiltin
}

func (b *builder) newElement(p *pendingComponent, m *elementModel, span source.Span) *ir.Element {
	typeName := normalizeIdent(m.Type)
	var base ir.ElementType
	switch {
	case typeName == "":
		diag.ReportError(b.r, diag.SynMissingField, span, "element without \"type\"").Emit()
	default:
		t, ok := b.types.LookupElement(typeName)
		switch {
		case !ok:
			diag.ReportError(b.r, diag.SemaUnknownType, span,
				fmt.Sprintf("unknown element type %s", typeName)).Emit()
		case t.Kind == ir.TypeComponent && t.Component == p.comp:
			diag.ReportError(b.r, diag.SemaRecursiveElement, span,
				fmt.Sprintf("%s cannot contain itself", typeName)).Emit()
		default:
			base = t
		}
	}

	id := normalizeIdent(m.ID)
	if id != "" && !validIdent(id) {
		diag.ReportError(b.r, diag.SynInvalidDocument, span, fmt.Sprintf("invalid element id %q", m.ID)).Emit()
		id = ""
	}
	elem := ir.NewElement(id, base, span)

	for _, name := range slices.Sorted(maps.Keys(m.Properties)) {
		prop := normalizeIdent(name)
		pt, ok := langtype.ParsePropertyType(strings.TrimSpace(m.Properties[name]))
		if !ok {
			diag.ReportError(b.r, diag.SemaUnknownType, span,
				fmt.Sprintf("property %s: unknown type %q", prop, m.Properties[name])).Emit()
			continue
		}
		if langtype.IsGeometry(prop) {
			diag.ReportError(b.r, diag.SynInvalidDocument, span,
				fmt.Sprintf("cannot redeclare geometry property %s", prop)).Emit()
			continue
		}
		elem.Declare(prop, pt, span)
	}
	return elem
}

// wrapRepeated moves elem into an inline component and returns the
// placeholder element that instantiates it.
func (b *builder) wrapRepeated(p *pendingComponent, elem *ir.Element, m *elementModel, hdr header) *ir.Element {
	if m.Repeat != "" && m.If != "" {
		diag.ReportError(b.r, diag.SynInvalidDocument, elem.Span,
			"an element cannot have both \"repeat\" and \"if\"").Emit()
	}
	sub := ir.NewComponent("repeated-"+elem.BaseType.Name(), elem.Span)
	sub.SetRoot(elem)
	placeholder := ir.NewElement("", ir.ComponentType(sub), elem.Span)
	placeholder.Repeated = &ir.RepeatedInfo{Conditional: m.Repeat == ""}
	p.spans[placeholder] = hdr
	p.models[placeholder] = m
	return placeholder
}

// assignIDs reports duplicate explicit ids and derives the missing ones.
func (b *builder) assignIDs(p *pendingComponent) {
	seen := make(map[string]*ir.Element)
	var missing []*ir.Element
	ir.RecurseElemIncludingSubComponents(p.comp, func(e *ir.Element) {
		if e.ID == "" {
			missing = append(missing, e)
			return
		}
		if first, dup := seen[e.ID]; dup {
			diag.ReportError(b.r, diag.SynDuplicateID, e.Span,
				fmt.Sprintf("duplicate element id %q", e.ID)).
				WithNote(first.Span, "first used here").
				Emit()
			e.ID = ""
			missing = append(missing, e)
			return
		}
		seen[e.ID] = e
	})
	for _, e := range missing {
		base := "repeater"
		if e.Repeated == nil {
			base = defaultID(e.BaseType.Name())
			if e.BaseType.Kind == ir.TypeInvalid {
				base = "element"
			}
		}
		e.ID = p.comp.UniqueID(base)
	}
}
