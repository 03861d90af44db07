package diag

import (
	"testing"

	"lumen/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	userFile := fs.AddVirtual("testdata/app.lumen.toml", []byte("a\nb\n"))
	libFile := fs.Add("std-widgets.lumen.toml", []byte("x\n"), source.FileVirtual|source.FileLibrary)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     SemaUnknownProperty,
			Message:  "another",
			Primary:  source.Span{File: userFile, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     LowerDuplicateMenuBar,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: userFile, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: libFile, Start: 0, End: 0}, Msg: "skip me"},
				{Span: source.Span{File: userFile, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error LWR6001 testdata/app.lumen.toml:1:1 first line second\n" +
		"note LWR6001 testdata/app.lumen.toml:2:1 note line\n" +
		"warning SEM3002 testdata/app.lumen.toml:2:1 another"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}

	short := FormatShortDiagnostics(diags[1:], fs, true)
	if want := "note LWR6001 std-widgets.lumen.toml:1:1 skip me\n" +
		"error LWR6001 testdata/app.lumen.toml:1:1 first line second\n" +
		"note LWR6001 testdata/app.lumen.toml:2:1 note line"; short != want {
		t.Fatalf("short format:\nwant:\n%s\n\ngot:\n%s", want, short)
	}
}
