package testkit_test

import (
	"context"
	"strings"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/frontend"
	"lumen/internal/ir"
	"lumen/internal/passes"
	"lumen/internal/source"
	"lumen/internal/testkit"
	"lumen/internal/typeloader"
	"lumen/internal/typeregister"
)

const document = `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"
properties = { rows = "model" }

[[component.root.children]]
id = "menu"
type = "MenuBar"

[[component.root.children]]
id = "body"
type = "Rectangle"
bindings = { height = "W.height / 2" }

[[component.root.children.children]]
id = "row"
type = "Text"
repeat = "W.rows"
`

func parse(t *testing.T) (*ir.Document, *source.File, *typeloader.Loader) {
	t.Helper()
	files := source.NewFileSet()
	reg := typeregister.New()
	loader := typeloader.New(reg, files, typeloader.WithParser(frontend.ParseDocument))
	id := files.AddVirtual("app.lumen.toml", []byte(document))
	file := *files.Get(id)
	bag := diag.NewBag(0)
	doc := frontend.Parse(context.Background(), &file, typeregister.NewScope(reg), loader, diag.BagReporter{Bag: bag})
	if doc == nil || bag.HasErrors() {
		t.Fatalf("fixture: %s", diag.FormatShortDiagnostics(bag.Items(), files, true))
	}
	return doc, &file, loader
}

func TestInvariantsHoldBeforeAndAfterLowering(t *testing.T) {
	doc, file, loader := parse(t)
	if err := testkit.CheckTreeInvariants(doc, file); err != nil {
		t.Fatalf("parsed tree: %v", err)
	}
	err := passes.Default().Run(context.Background(), &passes.Context{Doc: doc, Loader: loader})
	if err != nil {
		t.Fatal(err)
	}
	if err := testkit.CheckTreeInvariants(doc, file); err != nil {
		t.Fatalf("lowered tree: %v", err)
	}
}

func TestInvariantsCatchBrokenTrees(t *testing.T) {
	tests := []struct {
		name    string
		break_  func(app *ir.Component)
		wantErr string
	}{
		{
			name: "stale back-reference",
			break_: func(app *ir.Component) {
				app.FindElement("body").SetEnclosingComponent(ir.NewComponent("Other", source.Span{}))
			},
			wantErr: `element "body": enclosing component`,
		},
		{
			name: "duplicate id",
			break_: func(app *ir.Component) {
				app.FindElement("menu").ID = "body"
			},
			wantErr: `duplicate id "body"`,
		},
		{
			name: "missing id",
			break_: func(app *ir.Component) {
				app.FindElement("menu").ID = ""
			},
			wantErr: "element without id",
		},
		{
			name: "detached reference target",
			break_: func(app *ir.Component) {
				body := app.FindElement("body")
				app.Root.Bind("width", ir.NewPropertyRef(ir.MustNamedReference(body, "height"), source.Span{}))
				app.Root.RetainChildren(func(child *ir.Element) bool { return child != body })
			},
			wantErr: "W.width: reference",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, file, _ := parse(t)
			app := doc.ExportedComponent("App")
			tt.break_(app)
			err := testkit.CheckTreeInvariants(doc, file)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("err = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
