package diagfmt

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"lumen/internal/diag"
	"lumen/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, note, gutter, caret *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.note, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//	  12 | <строка исходника>
//	     |     ^~~~~
//	  note: <path>:<line>:<col>: <message>
//
// Цвет включается через opts.Color, ширина колонки считается по go-runewidth.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	if bag == nil || fs == nil {
		return nil
	}
	bw := bufio.NewWriter(w)
	pal := newPalette(opts.Color)

	items := bag.Items()
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}
	for i, d := range items {
		if i > 0 {
			bw.WriteByte('\n')
		}
		writeDiagnostic(bw, d, fs, opts, pal)
	}
	if rest := bag.Len() - len(items); rest > 0 {
		fmt.Fprintf(bw, "\n... and %d more\n", rest)
	}
	return bw.Flush()
}

func writeDiagnostic(w *bufio.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	file := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	sev := pal.severity(d.Severity)

	if file != nil {
		fmt.Fprintf(w, "%s:%d:%d: ", displayPath(fs, file, opts.PathMode), start.Line, start.Col)
	}
	fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)

	if file != nil && start.Line > 0 {
		writeExcerpt(w, file, start, end, opts, pal)
	}

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		nf := fs.Get(n.Span.File)
		if nf == nil {
			fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
			continue
		}
		ns, ne := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), displayPath(fs, nf, opts.PathMode), ns.Line, ns.Col, n.Msg)
		if ns.Line > 0 {
			writeExcerpt(w, nf, ns, ne, PrettyOpts{Width: opts.Width}, pal)
		}
	}
}

// writeExcerpt печатает строку с подчёркиванием и opts.Context строк вокруг.
func writeExcerpt(w *bufio.Writer, file *source.File, start, end source.LineCol, opts PrettyOpts, pal palette) {
	ctx := uint32(max(opts.Context, 0))
	first := start.Line
	if first > ctx {
		first -= ctx
	} else {
		first = 1
	}
	last := start.Line + ctx
	gutterWidth := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text, ok := file.Line(ln)
		if !ok {
			break
		}
		display := clip(expandTabs(text), int(opts.Width))
		fmt.Fprintf(w, " %s %s\n", pal.gutter.Sprintf("%*d |", gutterWidth, ln), display)
		if ln != start.Line {
			continue
		}
		pad, width := caretRange(text, start, end)
		underline := "^" + strings.Repeat("~", max(width-1, 0))
		fmt.Fprintf(w, " %s %s%s\n", pal.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), pal.caret.Sprint(underline))
	}
}

// caretRange переводит байтовые колонки в экранные: отступ и длину подчёркивания.
func caretRange(line string, start, end source.LineCol) (pad, width int) {
	from := min(int(start.Col)-1, len(line))
	from = max(from, 0)
	to := len(line)
	if end.Line == start.Line {
		to = min(max(int(end.Col)-1, from), len(line))
	}
	pad = runewidth.StringWidth(expandTabs(line[:from]))
	width = runewidth.StringWidth(expandTabs(line[from:to]))
	return pad, max(width, 1)
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func clip(s string, width int) string {
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	if width <= 3 {
		return runewidth.Truncate(s, width, "")
	}
	return runewidth.Truncate(s, width, "...")
}
