package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet stores the documents of one compilation unit: the root document
// and everything it imports. Not safe for concurrent use.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{
		files:  make([]File, 0, 4),
		latest: make(map[string]FileID),
	}
}

// NewFileSetWithBase creates a FileSet whose relative paths are computed
// against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

func (s *FileSet) SetBaseDir(dir string) { s.baseDir = dir }

// BaseDir returns the base directory, falling back to the working directory.
func (s *FileSet) BaseDir() string {
	if s.baseDir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
	}
	return s.baseDir
}

// Add stores already decoded content and returns a fresh FileID. Adding a
// path again creates a new version; Lookup returns the newest one.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	path = normalizePath(path)
	s.files = append(s.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		Flags:   flags,
		lines:   newLineTable(content),
	})
	s.latest[path] = id
	return id
}

// AddRaw decodes raw (see Decode) and stores the result.
func (s *FileSet) AddRaw(path string, raw []byte, flags FileFlags) (FileID, error) {
	content, decoded, err := Decode(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", path, err)
	}
	return s.Add(path, content, flags|decoded), nil
}

// Load reads path from disk and stores it through AddRaw.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.AddRaw(path, raw, 0)
}

// AddVirtual adds an in-memory file with the FileVirtual flag.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Get returns the file for id, or nil when id is unknown.
func (s *FileSet) Get(id FileID) *File {
	if int(id) >= len(s.files) {
		return nil
	}
	return &s.files[id]
}

// Lookup returns the newest FileID stored for path.
func (s *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := s.latest[normalizePath(path)]
	return id, ok
}

// Len reports the number of stored file versions.
func (s *FileSet) Len() int { return len(s.files) }

// Resolve converts a span into line and column positions.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}
