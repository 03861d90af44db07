package irdump

import (
	"bytes"
	"context"
	"reflect"
	"testing"

	"lumen/internal/diag"
	"lumen/internal/frontend"
	"lumen/internal/ir"
	"lumen/internal/passes"
	"lumen/internal/source"
	"lumen/internal/typeloader"
	"lumen/internal/typeregister"
)

const fixture = `[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"
properties = { items = "model" }
bindings = { title = '"Demo"' }

[[component.root.children]]
id = "m"
type = "MenuBar"

[[component.root.children.children]]
type = "Menu"
bindings = { title = '"File"' }

[[component.root.children]]
id = "body"
type = "Rectangle"
bindings = { height = "W.height - 20px" }

[[component.root.children]]
id = "row"
type = "Text"
repeat = "root.items"
`

func lowered(t *testing.T) *ir.Document {
	t.Helper()
	files := source.NewFileSet()
	reg := typeregister.New()
	loader := typeloader.New(reg, files, typeloader.WithParser(frontend.ParseDocument))
	id := files.AddVirtual("app.lumen.toml", []byte(fixture))
	file := *files.Get(id)
	bag := diag.NewBag(0)
	doc := frontend.Parse(context.Background(), &file, typeregister.NewScope(reg), loader, diag.BagReporter{Bag: bag})
	if doc == nil || bag.HasErrors() {
		t.Fatalf("fixture: %s", diag.FormatShortDiagnostics(bag.Items(), files, true))
	}
	err := passes.Default().Run(context.Background(), &passes.Context{Doc: doc, Loader: loader, Reporter: diag.BagReporter{Bag: bag}})
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestPrintLoweredTree(t *testing.T) {
	want := `component App (exported)
  W: Window
    property items: model
    title: "Demo"
    W-menulayout: VerticalLayout
      m: MenuBarImpl
        menu: Menu
          title: "File"
      W-child: Empty
        body: Rectangle
          height: W-child.height - 20px
        repeater: for W.items
          row: Text
`
	if got := Sprint(lowered(t)); got != want {
		t.Fatalf("tree mismatch\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestPrintShowsMovedGeometry(t *testing.T) {
	doc := lowered(t)
	win := doc.Components[0].Root
	body := doc.Components[0].FindElement("body")
	body.Geometry.Width = ir.MustNamedReference(win, "width")

	var buf bytes.Buffer
	if err := Print(&buf, doc); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("geometry.width -> W.width\n")) {
		t.Fatalf("moved slot not printed:\n%s", buf.String())
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	snap, err := TakeSnapshot(lowered(t))
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, snap); err != nil {
		t.Fatal(err)
	}
	decoded, err := DecodeSnapshot(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(snap, decoded) {
		t.Fatalf("round trip changed the snapshot:\n%+v\n%+v", snap, decoded)
	}

	app := decoded.Components[0]
	if !app.Exported || app.Elements[0].ID != "W" || app.Elements[0].Parent != -1 {
		t.Fatalf("root entry = %+v", app.Elements[0])
	}
	layout := app.Children(0)
	if len(layout) != 1 || app.Elements[layout[0]].ID != "W-menulayout" {
		t.Fatalf("window children = %v", layout)
	}
	var rep ElementSnapshot
	for _, e := range app.Elements {
		if e.ID == "repeater" {
			rep = e
		}
	}
	if rep.Model != "W.items" || rep.Conditional {
		t.Fatalf("repeater = %+v", rep)
	}
}

func TestDecodeRejectsOtherSchemas(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodeSnapshot(&buf, &Snapshot{Schema: SnapshotSchema + 1}); err != nil {
		t.Fatal(err)
	}
	if _, err := DecodeSnapshot(&buf); err == nil {
		t.Fatalf("expected schema error")
	}
}
