package passes

import (
	"context"

	"lumen/internal/ir"
)

// CollectGeometry points the geometry slots of every element at the
// element's own x, y, width and height. Later passes may retarget bindings
// but the slots stay the element's layout truth.
type CollectGeometry struct{}

func (CollectGeometry) Name() string { return "collect_geometry" }

func (CollectGeometry) Description() string {
	return "initialise the geometry slots of every element"
}

func (CollectGeometry) Run(_ context.Context, pc *Context) error {
	for _, c := range ir.AllComponents(pc.Doc) {
		ir.RecurseElemIncludingSubComponents(c, func(e *ir.Element) {
			if e.Geometry == nil {
				initGeometry(e)
			}
		})
	}
	return nil
}

func initGeometry(e *ir.Element) {
	e.Geometry = &ir.GeometryProps{
		X:      ir.MustNamedReference(e, "x"),
		Y:      ir.MustNamedReference(e, "y"),
		Width:  ir.MustNamedReference(e, "width"),
		Height: ir.MustNamedReference(e, "height"),
	}
}
