package passes

import (
	"context"
	"errors"
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/trace"
	"lumen/internal/typeloader"
)

// ErrMissingStdType means a type the standard library always provides could
// not be resolved. It points at a broken installation, not at user input.
var ErrMissingStdType = errors.New("missing standard library type")

const (
	menuBarImplName    = "MenuBarImpl"
	verticalLayoutName = "VerticalLayout"
	heightProp         = "height"
)

// LowerMenus replaces the MenuBar child of each Window by a vertical layout
// holding the native menu bar implementation above a wrapper with the rest
// of the window content:
//
//	Window { MenuBar {} A {} B {} }
//
// becomes
//
//	Window { VerticalLayout { MenuBarImpl {} Empty { A {} B {} } } }
//
// Bindings that read the window height read the wrapper height instead,
// since that is the space left to the content.
type LowerMenus struct{}

func (LowerMenus) Name() string { return "lower_menus" }

func (LowerMenus) Description() string {
	return "turn Window MenuBar children into a MenuBarImpl layout"
}

type menuTypes struct {
	menuBarImpl    ir.ElementType
	verticalLayout ir.ElementType
	empty          ir.ElementType
}

func (LowerMenus) Run(ctx context.Context, pc *Context) error {
	types, err := resolveMenuTypes(ctx, pc.Loader)
	if err != nil {
		return err
	}

	r := pc.reporter()
	windows := 0
	ir.VisitAllUsedComponents(pc.Doc, func(c *ir.Component) {
		ir.RecurseElemIncludingSubComponents(c, func(e *ir.Element) {
			if b := e.BaseType.BuiltinType(); b == nil || b.Name != "Window" {
				return
			}
			windows++
			span, _ := trace.Start(ctx, trace.ScopeElement, "window:"+e.ID)
			lowered := lowerWindow(pc.Doc, c, e, types, r)
			span.End(fmt.Sprintf("lowered=%t", lowered))
		})
	})
	trace.Point(ctx, trace.ScopePass, "lower_menus", fmt.Sprintf("%d windows", windows))
	return nil
}

// resolveMenuTypes is the resolve phase: it completes before any mutation.
// Import failures go to a disposable sink; only the outcome matters here.
func resolveMenuTypes(ctx context.Context, loader *typeloader.Loader) (menuTypes, error) {
	if loader == nil {
		return menuTypes{}, fmt.Errorf("no type loader: %w", ErrMissingStdType)
	}
	resolved, err := loader.ResolveAll(ctx, []typeloader.Requirement{
		{Kind: typeloader.RequireImport, Name: menuBarImplName, Locator: typeloader.StdWidgets},
		{Kind: typeloader.RequireBuiltin, Name: verticalLayoutName},
		{Kind: typeloader.RequireEmpty, Name: "Empty"},
	}, diag.NopReporter{})
	if err != nil {
		if errors.Is(err, typeloader.ErrNotFound) {
			return menuTypes{}, fmt.Errorf("%w: %w", ErrMissingStdType, err)
		}
		return menuTypes{}, err
	}
	return menuTypes{
		menuBarImpl:    resolved[menuBarImplName],
		verticalLayout: resolved[verticalLayoutName],
		empty:          resolved["Empty"],
	}, nil
}

func isMenuBar(e *ir.Element) bool {
	return e.BaseType.IsBuiltin("MenuBar")
}

// lowerWindow rewrites one window and reports whether it had a menu bar.
// Synthetic ids are taken from owner, the top-level component: its inline
// sub-components share one id namespace with it. The new elements are
// adopted by the window's own (possibly inline) component.
func lowerWindow(doc *ir.Document, owner *ir.Component, win *ir.Element, types menuTypes, r diag.Reporter) bool {
	if win.EnclosingComponent() == nil {
		return false
	}
	var menu *ir.Element
	var extras []*ir.Element
	win.RetainChildren(func(child *ir.Element) bool {
		if !isMenuBar(child) {
			return true
		}
		if menu == nil {
			menu = child
		} else {
			extras = append(extras, child)
		}
		return false
	})
	if menu == nil {
		return false
	}
	if len(extras) > 0 {
		b := diag.ReportError(r, diag.LowerDuplicateMenuBar, extras[0].Span,
			"Only one MenuBar is allowed in a Window").
			WithNote(menu.Span, "first MenuBar declared here")
		for _, extra := range extras[1:] {
			b.WithNote(extra.Span, "another MenuBar, also dropped")
		}
		b.Emit()
	}

	menu.BaseType = types.menuBarImpl

	child := ir.NewElement(owner.UniqueID(win.ID+"-child"), types.empty, win.Span)
	child.Children = win.TakeChildren()
	layout := ir.NewElement(owner.UniqueID(win.ID+"-menulayout"), types.verticalLayout, win.Span)
	layout.Children = []*ir.Element{menu, child}
	win.AppendChild(layout)
	initGeometry(child)
	initGeometry(layout)

	winHeight := ir.MustNamedReference(win, heightProp)
	ir.RewriteAll(doc, winHeight, ir.MustNamedReference(child, heightProp))
	// the window keeps its own height as layout geometry
	if win.Geometry == nil {
		initGeometry(win)
	}
	win.Geometry.Height = winHeight
	return true
}
