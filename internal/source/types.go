// Package source owns the text of every document a compilation unit reads
// and maps byte spans back to file, line and column.
package source

type (
	// FileID identifies a file version within a FileSet.
	FileID uint32
	// FileFlags records where a file came from and how it was decoded.
	FileFlags uint8
)

const (
	// FileVirtual marks files added from memory (tests, embedded library).
	FileVirtual FileFlags = 1 << iota
	// FileLibrary marks documents of the widget library.
	FileLibrary
	FileHadBOM
	FileNormalizedCRLF
	// FileTranscoded marks UTF-16 documents converted to UTF-8.
	FileTranscoded
)

// Has reports whether every bit of mask is set.
func (f FileFlags) Has(mask FileFlags) bool { return f&mask == mask }

// File is one stored document version. Content is always UTF-8 with '\n'
// line ends.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Flags   FileFlags
	lines   lineTable
}

// LineCol is a 1-based position. Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}
