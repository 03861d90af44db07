package passes

import (
	"context"
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	"lumen/internal/diag"
	"lumen/internal/ir"
)

const plainWindow = `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"

[[component.root.children]]
id = "a"
type = "Rectangle"

[[component.root.children]]
id = "b"
type = "Text"
`

func TestWindowWithoutMenuIsUntouched(t *testing.T) {
	u := parseUnit(t, plainWindow, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	win := u.find(t, "W")
	if got := childIDs(win); !slices.Equal(got, []string{"a", "b"}) {
		t.Fatalf("children = %v", got)
	}
	if u.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics: %d", u.bag.Len())
	}
}

const menuWindow = `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"

[[component.root.children]]
id = "b1"
type = "Rectangle"

[[component.root.children]]
id = "m"
type = "MenuBar"

[[component.root.children.children]]
type = "Menu"
bindings = { title = '"File"' }

[[component.root.children]]
id = "b2"
type = "Text"
`

func TestMenuBarIsLowered(t *testing.T) {
	u := parseUnit(t, menuWindow, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	if u.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", diag.FormatShortDiagnostics(u.bag.Items(), u.files, true))
	}

	win := u.find(t, "W")
	if got := childIDs(win); !slices.Equal(got, []string{"W-menulayout"}) {
		t.Fatalf("window children = %v", got)
	}
	layout := win.Children[0]
	if !layout.BaseType.IsBuiltin("VerticalLayout") {
		t.Fatalf("layout type = %s", layout.BaseType.Name())
	}
	if got := childIDs(layout); !slices.Equal(got, []string{"m", "W-child"}) {
		t.Fatalf("layout children = %v", got)
	}
	menu, wrapper := layout.Children[0], layout.Children[1]
	if menu.BaseType.Kind != ir.TypeComponent || menu.BaseType.Component.Name != "MenuBarImpl" {
		t.Fatalf("menu type = %s", menu.BaseType.Name())
	}
	if len(menu.Children) != 1 {
		t.Fatalf("menu lost its content")
	}
	if wrapper.BaseType.Kind != ir.TypeEmpty {
		t.Fatalf("wrapper type = %s", wrapper.BaseType.Name())
	}
	if got := childIDs(wrapper); !slices.Equal(got, []string{"b1", "b2"}) {
		t.Fatalf("wrapper children = %v", got)
	}
	app := win.EnclosingComponent()
	for _, e := range []*ir.Element{layout, menu, wrapper, wrapper.Children[0]} {
		if e.EnclosingComponent() != app {
			t.Fatalf("%s has the wrong enclosing component", e.ID)
		}
	}
	if wrapper.Geometry == nil || wrapper.Geometry.Height.Element() != wrapper {
		t.Fatalf("synthetic wrapper needs its own geometry")
	}
}

func TestDuplicateMenuBarsReportOnce(t *testing.T) {
	u := parseUnit(t, `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"

[[component.root.children]]
id = "m1"
type = "MenuBar"

[[component.root.children]]
id = "x"
type = "Rectangle"

[[component.root.children]]
id = "m2"
type = "MenuBar"

[[component.root.children]]
id = "m3"
type = "MenuBar"
`, nil)
	m1, m2, m3 := u.find(t, "m1"), u.find(t, "m2"), u.find(t, "m3")
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}

	items := u.bag.Items()
	if len(items) != 1 {
		t.Fatalf("got %d diagnostics, want 1:\n%s", len(items), diag.FormatShortDiagnostics(items, u.files, true))
	}
	d := items[0]
	if d.Code != diag.LowerDuplicateMenuBar || d.Severity != diag.SevError {
		t.Fatalf("diagnostic = %s", d.Code)
	}
	if d.Primary != m2.Span {
		t.Fatalf("primary span must point at the second MenuBar")
	}
	if len(d.Notes) != 2 || d.Notes[0].Span != m1.Span || d.Notes[1].Span != m3.Span {
		t.Fatalf("notes = %+v", d.Notes)
	}

	layout := u.find(t, "W").Children[0]
	if got := childIDs(layout); !slices.Equal(got, []string{"m1", "W-child"}) {
		t.Fatalf("layout children = %v", got)
	}
	if got := childIDs(layout.Children[1]); !slices.Equal(got, []string{"x"}) {
		t.Fatalf("extra menu bars must be dropped, wrapper has %v", got)
	}
}

func TestWindowHeightReferencesAreRetargeted(t *testing.T) {
	u := parseUnit(t, `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"
bindings = { preferred-height = "height * 2" }

[[component.root.children]]
id = "m"
type = "MenuBar"

[[component.root.children]]
id = "b1"
type = "Rectangle"
bindings = { height = "W.height - 10px", width = "max(W.width, root.height)" }

[[component.root.children]]
id = "b2"
type = "Text"
bindings = { y = "W.height > 100px ? 10px : 0px" }
`, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	win, b1, b2 := u.find(t, "W"), u.find(t, "b1"), u.find(t, "b2")

	tests := []struct {
		elem *ir.Element
		prop string
		want string
	}{
		{win, "preferred-height", "W-child.height * 2"},
		{b1, "height", "W-child.height - 10px"},
		{b1, "width", "max(W.width, W-child.height)"},
		{b2, "y", "(W-child.height > 100px) ? 10px : 0px"},
	}
	for _, tt := range tests {
		if got := bound(t, tt.elem, tt.prop); got != tt.want {
			t.Errorf("%s.%s = %s, want %s", tt.elem.ID, tt.prop, got, tt.want)
		}
	}

	if win.Geometry.Height.Element() != win || win.Geometry.Height.Name() != "height" {
		t.Fatalf("window geometry height = %s", win.Geometry.Height)
	}
	winHeight := ir.MustNamedReference(win, "height")
	left := 0
	ir.VisitAllNamedReferences(u.doc, func(nr *ir.NamedReference) {
		if *nr == winHeight {
			left++
		}
	})
	if left != 1 {
		t.Fatalf("%d references to W.height remain, want only the geometry slot", left)
	}
	if b1.Geometry.Height.Element() != b1 {
		t.Fatalf("other geometry slots must not move")
	}
}

func TestMissingStdTypeAborts(t *testing.T) {
	u := parseUnit(t, menuWindow, fstest.MapFS{})
	err := u.run(t, Default())
	if !errors.Is(err, ErrMissingStdType) {
		t.Fatalf("err = %v, want ErrMissingStdType", err)
	}
	win := u.find(t, "W")
	if got := childIDs(win); !slices.Equal(got, []string{"b1", "m", "b2"}) {
		t.Fatalf("tree mutated before resolution finished: %v", got)
	}
	if u.bag.Len() != 0 {
		t.Fatalf("probe diagnostics leaked into the user sink")
	}
}

func TestSyntheticIDsAvoidCollisions(t *testing.T) {
	u := parseUnit(t, `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"

[[component.root.children]]
id = "m"
type = "MenuBar"

[[component.root.children]]
id = "W-child"
type = "Rectangle"
`, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	layout := u.find(t, "W").Children[0]
	if got := childIDs(layout); !slices.Equal(got, []string{"m", "W-child-2"}) {
		t.Fatalf("layout children = %v", got)
	}
}

func TestWindowInsideRepeaterIsLowered(t *testing.T) {
	u := parseUnit(t, `[[component]]
name = "App"
export = true

[component.root]
type = "Rectangle"
properties = { show = "bool" }

[[component.root.children]]
id = "popup"
type = "Window"
if = "root.show"

[[component.root.children.children]]
id = "pm"
type = "MenuBar"
`, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	popup := u.find(t, "popup")
	if got := childIDs(popup); !slices.Equal(got, []string{"popup-menulayout"}) {
		t.Fatalf("popup children = %v", got)
	}
}

func TestSyntheticIDsAvoidOuterComponentIDs(t *testing.T) {
	// окно внутри if: id внешнего компонента и его inline-подкомпонентов общие
	u := parseUnit(t, `[[component]]
name = "App"
export = true

[component.root]
type = "Rectangle"
properties = { show = "bool" }

[[component.root.children]]
id = "popup-child"
type = "Text"

[[component.root.children]]
id = "popup"
type = "Window"
if = "root.show"

[[component.root.children.children]]
id = "pm"
type = "MenuBar"
`, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	layout := u.find(t, "popup").Children[0]
	if got := childIDs(layout); !slices.Equal(got, []string{"pm", "popup-child-2"}) {
		t.Fatalf("layout children = %v", got)
	}
}

func TestLoweringIsIdempotent(t *testing.T) {
	u := parseUnit(t, menuWindow, nil)
	if err := u.run(t, Default()); err != nil {
		t.Fatal(err)
	}
	u.checkInvariants(t)
	if err := (LowerMenus{}).Run(context.Background(), &Context{Doc: u.doc, Loader: u.loader}); err != nil {
		t.Fatal(err)
	}
	win := u.find(t, "W")
	if got := childIDs(win); !slices.Equal(got, []string{"W-menulayout"}) {
		t.Fatalf("second run changed the window: %v", got)
	}
}
