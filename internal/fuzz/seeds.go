package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

// documentSeeds are small documents covering each construct the frontend
// understands.
var documentSeeds = []string{
	"",
	"[[component]]\nname = \"App\"\n[component.root]\ntype = \"Window\"\n",
	`[[component]]
name = "App"
export = true

[component.root]
id = "W"
type = "Window"
bindings = { height = "480", title = "\"demo\"" }

[[component.root.children]]
id = "menu"
type = "MenuBar"

[[component.root.children]]
id = "body"
type = "Rectangle"
bindings = { height = "W.height / 2" }
`,
	`[[import]]
from = "std-widgets"
names = ["Button"]

[[component]]
name = "Row"
[component.root]
type = "Rectangle"
[[component.root.children]]
type = "Button"
repeat = "model"
`,
	"[[component]]\nname = \"Bad\"\n[component.root]\ntype = \"Nope\"\n",
	"[component\n",
}

var exprSeeds = []string{
	"1",
	"self.width + 2 * (height - 1)",
	"-a.b.c",
	"\"text\" + name",
	"a ? b : c",
	"((",
	"1 +",
	"a..b",
}

func addDocumentSeeds(f *testing.F) {
	for _, s := range documentSeeds {
		f.Add([]byte(s))
	}
	addLibrarySeeds(f)
}

// addLibrarySeeds adds the bundled widget library documents.
func addLibrarySeeds(f *testing.F) {
	root := filepath.Join("..", "typeloader", "stdlib")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil || d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".lumen.toml") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(data))
		return nil
	})
	if err != nil {
		f.Logf("walk %s: %v", root, err)
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
