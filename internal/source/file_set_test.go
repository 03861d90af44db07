package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("ui/../app.lumen.toml", []byte("a = 1"), 0)
	id2 := fs.Add("app.lumen.toml", []byte("a = 2"), 0)
	if id1 == id2 {
		t.Fatalf("expected distinct ids, got %d twice", id1)
	}
	latest, ok := fs.Lookup("./app.lumen.toml")
	if !ok || latest != id2 {
		t.Fatalf("Lookup = (%d, %v), want (%d, true)", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "a = 1" {
		t.Fatalf("old version content = %q", got)
	}
	if fs.Get(FileID(99)) != nil || fs.Len() != 2 {
		t.Fatalf("unexpected set state")
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("v.toml", []byte("ab\ncd\n\nxyz"))

	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{Line: 1, Col: 1}},
		{2, LineCol{Line: 1, Col: 3}}, // '\n' относится к своей строке
		{3, LineCol{Line: 2, Col: 1}},
		{6, LineCol{Line: 3, Col: 1}},
		{9, LineCol{Line: 4, Col: 3}},
	}
	for _, tt := range tests {
		start, _ := fs.Resolve(Span{File: id, Start: tt.off, End: tt.off})
		if start != tt.want {
			t.Errorf("offset %d: got %+v, want %+v", tt.off, start, tt.want)
		}
	}
}

func TestLines(t *testing.T) {
	tests := []struct {
		content string
		want    []string
	}{
		{"first\nsecond\nthird", []string{"first", "second", "third"}},
		{"first\n\nthird\n", []string{"first", "", "third"}},
		{"\n", []string{""}},
		{"", nil},
	}
	for _, tt := range tests {
		fs := NewFileSet()
		f := fs.Get(fs.AddVirtual("v.toml", []byte(tt.content)))
		if f.LineCount() != len(tt.want) {
			t.Errorf("%q: LineCount = %d, want %d", tt.content, f.LineCount(), len(tt.want))
			continue
		}
		for i, want := range tt.want {
			if got, ok := f.Line(uint32(i + 1)); !ok || got != want {
				t.Errorf("%q: Line(%d) = %q, %v", tt.content, i+1, got, ok)
			}
		}
		if _, ok := f.Line(0); ok {
			t.Errorf("%q: line 0 exists", tt.content)
		}
		if _, ok := f.Line(uint32(len(tt.want) + 1)); ok {
			t.Errorf("%q: line past the end exists", tt.content)
		}
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		raw   []byte
		want  string
		flags FileFlags
	}{
		{"plain", []byte("a\rb\n"), "a\rb\n", 0},
		{"utf8 bom and crlf", append([]byte{0xEF, 0xBB, 0xBF}, "a\r\nb\r\n"...), "a\nb\n", FileHadBOM | FileNormalizedCRLF},
		{"utf16 le", []byte{0xFF, 0xFE, 'i', 0, 'd', 0, '\r', 0, '\n', 0}, "id\n", FileHadBOM | FileTranscoded | FileNormalizedCRLF},
		{"utf16 be", []byte{0xFE, 0xFF, 0, 'o', 0, 'k'}, "ok", FileHadBOM | FileTranscoded},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, flags, err := Decode(tt.raw)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want || flags != tt.flags {
				t.Fatalf("Decode = %q, %b; want %q, %b", got, flags, tt.want, tt.flags)
			}
		})
	}
}

func TestLoadNormalizesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.lumen.toml")
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("a\r\nb\r\n")...)
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSetWithBase(dir)
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "a\nb\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if !f.Flags.Has(FileHadBOM | FileNormalizedCRLF) {
		t.Fatalf("flags = %b, want BOM and CRLF bits", f.Flags)
	}
	if got := f.DisplayPath(PathRelative, dir); got != "crlf.lumen.toml" {
		t.Fatalf("relative path = %q", got)
	}
	if got := f.DisplayPath(PathBase, ""); got != "crlf.lumen.toml" {
		t.Fatalf("base path = %q", got)
	}
}

func TestRelativePathOutsideBaseFallsBackToAbsolute(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "other", "file.lumen.toml")

	got := RelativePath(target, filepath.Join(tmp, "base"))
	if want := normalizePath(target); got != want {
		t.Fatalf("expected absolute fallback %q, got %q", want, got)
	}
}

func TestSpans(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover = %v", got)
	}
	if got := a.Cover(Span{File: 2, Start: 0, End: 1}); got != a {
		t.Fatalf("cross-file Cover changed span: %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Fatalf("cover must contain the original span")
	}

	fs := NewFileSet()
	fs.AddVirtual("a", nil)
	f := fs.Get(fs.AddVirtual("b", []byte("0123456789abcdefghij")))
	if !f.Contains(a) || f.Contains(Span{File: 1, Start: 3, End: 21}) || f.Contains(Span{File: 0, End: 1}) {
		t.Fatal("File.Contains is off")
	}
}
