package passes

import (
	"context"

	"lumen/internal/diag"
	"lumen/internal/ir"
)

// CheckMenuPlacement reports MenuBar elements that survived lowering, i.e.
// those that were not a direct child of a Window. A MenuBar under `if` or
// `repeat` in a Window gets its own diagnostic: its placement is right, the
// gating is what lowering does not support.
type CheckMenuPlacement struct{}

func (CheckMenuPlacement) Name() string { return "check_menu_placement" }

func (CheckMenuPlacement) Description() string {
	return "reject MenuBar elements outside of a Window"
}

func (CheckMenuPlacement) Run(_ context.Context, pc *Context) error {
	r := pc.reporter()
	ir.VisitAllUsedComponents(pc.Doc, func(c *ir.Component) {
		gated := make(map[*ir.Element]*ir.RepeatedInfo)
		ir.RecurseElemIncludingSubComponents(c, func(e *ir.Element) {
			if e.BaseType.IsBuiltin("Window") {
				for _, child := range e.Children {
					if root := gatedRoot(child); root != nil && isMenuBar(root) {
						gated[root] = child.Repeated
					}
				}
				return
			}
			if !isMenuBar(e) {
				return
			}
			info, ok := gated[e]
			switch {
			case ok && info.Conditional:
				diag.ReportError(r, diag.LowerGatedMenuBar, e.Span,
					"a MenuBar in a Window cannot be conditional (\"if\")").Emit()
			case ok:
				diag.ReportError(r, diag.LowerGatedMenuBar, e.Span,
					"a MenuBar in a Window cannot be repeated (\"repeat\")").Emit()
			default:
				diag.ReportError(r, diag.LowerMisplacedMenuBar, e.Span,
					"MenuBar can only be placed directly in a Window").Emit()
			}
		})
	})
	return nil
}

// gatedRoot returns the element a repeated or conditional placeholder
// instantiates.
func gatedRoot(e *ir.Element) *ir.Element {
	if e.Repeated == nil || e.BaseType.Kind != ir.TypeComponent || e.BaseType.Component == nil {
		return nil
	}
	return e.BaseType.Component.Root
}
