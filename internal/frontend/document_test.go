package frontend

import (
	"slices"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/langtype"
)

const appSource = `[[import]]
from = "std-widgets"
names = ["Button"]

[[component]]
name = "App"
export = true

[component.root]
id = "win"
type = "Window"
properties = { counter = "int" }
bindings = { title = '"Demo"', height = "480px" }

[[component.root.children]]
id = "ok"
type = "Button"
bindings = { text = '"OK"', width = "win.width / 2" }

[[component.root.children]]
type = "Text"
bindings = { text = "ok.text", x = "parent.width - 10px" }
`

func TestParseBuildsTree(t *testing.T) {
	p := parseSource(t, appSource)
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", p.golden())
	}
	app := p.doc.ExportedComponent("App")
	if app == nil {
		t.Fatalf("App not exported")
	}
	win := app.Root
	if win.ID != "win" || !win.BaseType.IsBuiltin("Window") {
		t.Fatalf("root = %s: %s", win.ID, win.BaseType.Name())
	}
	if got := childIDs(win); !slices.Equal(got, []string{"ok", "text"}) {
		t.Fatalf("children = %v", got)
	}
	if pt, ok := win.LookupProperty("counter"); !ok || pt != langtype.PropInt {
		t.Fatalf("counter declaration missing")
	}

	ok := win.Children[0]
	if ok.BaseType.Kind != ir.TypeComponent || ok.BaseType.Component.Name != "Button" {
		t.Fatalf("ok type = %s", ok.BaseType.Name())
	}
	if ok.EnclosingComponent() != app || app.Document() != p.doc {
		t.Fatalf("back-references not set")
	}
	if got := bindingString(t, ok, "width"); got != "win.width / 2" {
		t.Fatalf("width = %s", got)
	}
	text := win.Children[1]
	if got := bindingString(t, text, "x"); got != "win.width - 10px" {
		t.Fatalf("x = %s", got)
	}
	if got := bindingString(t, text, "text"); got != "ok.text" {
		t.Fatalf("text = %s", got)
	}
}

func TestParseSpansPointAtTables(t *testing.T) {
	p := parseSource(t, appSource)
	win := p.doc.ExportedComponent("App").Root
	ok := win.Children[0]

	start, _ := p.fs.Resolve(ok.Span)
	if start.Line != 15 || start.Col != 1 {
		t.Fatalf("ok span at %d:%d, want 15:1", start.Line, start.Col)
	}
	width := ok.Bindings["width"].Expr
	start, end := p.fs.Resolve(width.Span)
	if start.Line != 18 || start.Col != 38 || end.Col != 51 {
		t.Fatalf("width binding at %d:%d-%d, want 18:38-51", start.Line, start.Col, end.Col)
	}
}

func TestImportedTypeIsCanonical(t *testing.T) {
	p := parseSource(t, appSource+`
[[component]]
name = "Other"

[component.root]
type = "Button"
`)
	app := p.doc.Component("App")
	other := p.doc.Component("Other")
	if app.Root.Children[0].BaseType.Component != other.Root.BaseType.Component {
		t.Fatalf("two uses of Button resolved to different components")
	}
	if other.Root.ID != "root" {
		t.Fatalf("unnamed root id = %q", other.Root.ID)
	}
}

func TestParseRepeatedElement(t *testing.T) {
	p := parseSource(t, `[[component]]
name = "List"

[component.root]
type = "VerticalLayout"
properties = { rows = "model", show = "bool" }

[[component.root.children]]
id = "row"
type = "Text"
repeat = "root.rows"
bindings = { text = '"row"', width = "parent.width" }

[[component.root.children]]
type = "Rectangle"
if = "show"
`)
	if p.bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics:\n%s", p.golden())
	}
	list := p.doc.Component("List")
	root := list.Root
	if len(root.Children) != 2 {
		t.Fatalf("children = %v", childIDs(root))
	}
	rep := root.Children[0]
	if rep.Repeated == nil || rep.Repeated.Conditional {
		t.Fatalf("first child must be a model repeater")
	}
	if got := rep.Repeated.Model.String(); got != "root.rows" {
		t.Fatalf("model = %s", got)
	}
	inner := rep.BaseType.Component.Root
	if inner.ID != "row" || inner.EnclosingComponent() != rep.BaseType.Component {
		t.Fatalf("inner element %q not owned by its inline component", inner.ID)
	}
	if got := bindingString(t, inner, "width"); got != "root.width" {
		t.Fatalf("width = %s", got)
	}
	cond := root.Children[1]
	if cond.Repeated == nil || !cond.Repeated.Conditional {
		t.Fatalf("second child must be conditional")
	}
	if got := cond.Repeated.Model.String(); got != "root.show" {
		t.Fatalf("condition = %s", got)
	}
	if list.FindElement("row") != inner {
		t.Fatalf("FindElement must see repeated elements")
	}
}

func TestParseReportsProblems(t *testing.T) {
	p := parseSource(t, `[[component]]
name = "Broken"

[component.root]
id = "w"
type = "Window"
bindings = { nope = "1", title = "missing.title", width = "1 +" }

[[component.root.children]]
id = "w"
type = "Widget"

[[component.root.children]]
type = "Text"
bindings = { x = "w.nothing" }
`)
	items := p.bag.Items()
	codes := make([]diag.Code, 0, len(items))
	for _, d := range items {
		codes = append(codes, d.Code)
	}
	wantCodes := []diag.Code{
		diag.SemaUnknownType,
		diag.SynDuplicateID,
		diag.SemaUnknownProperty,
		diag.SemaUnresolvedRef,
		diag.SynBadExpression,
		diag.SemaUnknownProperty,
	}
	if !slices.Equal(codes, wantCodes) {
		t.Fatalf("codes = %v\n%s", codes, p.golden())
	}
	if p.doc.Component("Broken") == nil {
		t.Fatalf("a document with errors must still be built")
	}
}

func TestParseInvalidTOML(t *testing.T) {
	p := parseSource(t, "[[component]\nname = 1\n")
	if p.doc != nil {
		t.Fatalf("invalid TOML must not produce a document")
	}
	if !p.bag.HasErrors() || p.bag.Items()[0].Code != diag.SynInvalidDocument {
		t.Fatalf("expected SYN2001, got:\n%s", p.golden())
	}
}

func TestUnknownKeysWarn(t *testing.T) {
	p := parseSource(t, `[[component]]
name = "C"
colour = "red"

[component.root]
type = "Rectangle"
`)
	if p.bag.HasErrors() || !p.bag.HasWarnings() {
		t.Fatalf("expected a warning only:\n%s", p.golden())
	}
}
