package source

import (
	"slices"

	"fortio.org/safecast"
)

// lineTable holds the offset of every '\n' in a file.
type lineTable []uint32

func newLineTable(content []byte) lineTable {
	t := make(lineTable, 0, 16)
	for i, b := range content {
		if b != '\n' {
			continue
		}
		off, err := safecast.Conv[uint32](i)
		if err != nil {
			break
		}
		t = append(t, off)
	}
	return t
}

// position maps a byte offset to line and column. A '\n' belongs to the
// line it ends.
func (t lineTable) position(off uint32) LineCol {
	// число переводов строки строго до off
	line, _ := slices.BinarySearch(t, off)
	var start uint32
	if line > 0 {
		start = t[line-1] + 1
	}
	lineNo, err := safecast.Conv[uint32](line + 1)
	if err != nil {
		return LineCol{}
	}
	return LineCol{Line: lineNo, Col: off - start + 1}
}

// Position resolves a byte offset inside f.
func (f *File) Position(off uint32) LineCol {
	return f.lines.position(off)
}

// LineCount is the number of lines. The empty remainder after a final '\n'
// is not a line.
func (f *File) LineCount() int {
	n := len(f.lines) + 1
	if len(f.lines) > 0 && int(f.lines[len(f.lines)-1]) == len(f.Content)-1 {
		n--
	}
	if len(f.Content) == 0 {
		n = 0
	}
	return n
}

// Line returns the 1-based line n without its terminator.
func (f *File) Line(n uint32) (string, bool) {
	if n == 0 || int(n) > f.LineCount() {
		return "", false
	}
	var start int
	if n > 1 {
		start = int(f.lines[n-2]) + 1
	}
	end := len(f.Content)
	if int(n-1) < len(f.lines) {
		end = int(f.lines[n-1])
	}
	return string(f.Content[start:end]), true
}

// Contains reports whether sp is a span of f within its content.
func (f *File) Contains(sp Span) bool {
	return sp.File == f.ID && sp.Start <= sp.End && int(sp.End) <= len(f.Content)
}
