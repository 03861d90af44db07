// Package typeloader resolves imported component types on demand.
//
// Importing a symbol may require loading and parsing another document. The
// first ImportComponent for a locator performs that work; later and
// overlapping calls for the same locator wait for it and observe the same
// document, so a symbol always resolves to one canonical *ir.Component.
//
// Imports that form a cycle are reported instead of waited for, also when
// the documents of the cycle are being loaded by different goroutines.
package typeloader

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/source"
	"lumen/internal/trace"
	"lumen/internal/typeregister"
)

// DocumentExt is the extension of source documents.
const DocumentExt = ".lumen.toml"

// StdWidgets is the locator of the bundled widget library.
const StdWidgets = "std-widgets"

//go:embed stdlib/*.lumen.toml
var embeddedLibrary embed.FS

// ErrNotFound reports a symbol or document that cannot be resolved.
var ErrNotFound = errors.New("not found")

var errImportCycle = errors.New("import cycle")

// ParseFunc turns a loaded file into a document. Nested imports go back
// through l; local names are registered in types.
type ParseFunc func(ctx context.Context, l *Loader, file *source.File, types *typeregister.Register, r diag.Reporter) *ir.Document

type loadedDoc struct {
	doc   *ir.Document
	diags *diag.Bag
	err   error
}

// Loader is safe for concurrent use by the goroutines of one compilation.
type Loader struct {
	registry *typeregister.Register
	files    *source.FileSet
	library  fs.FS
	baseDir  string
	parse    ParseFunc

	filesMu sync.Mutex
	mu      sync.Mutex
	docs    map[string]*loadedDoc
	loading map[string]*inflight
}

// worker is one goroutine loading documents, possibly nested ones. waitsOn
// is the key it is blocked on; guarded by Loader.mu.
type worker struct {
	waitsOn string
}

type inflight struct {
	worker *worker
	done   chan struct{}
}

// Option configures a Loader.
type Option func(*Loader)

// WithLibrary replaces the embedded widget library.
func WithLibrary(fsys fs.FS) Option {
	return func(l *Loader) {
		if fsys != nil {
			l.library = fsys
		}
	}
}

// WithParser installs the document parser.
func WithParser(parse ParseFunc) Option {
	return func(l *Loader) { l.parse = parse }
}

// WithBaseDir sets the directory relative imports ("./x.lumen.toml") resolve against.
func WithBaseDir(dir string) Option {
	return func(l *Loader) { l.baseDir = dir }
}

// New creates a loader registering imported components into registry and
// adding loaded files to files.
func New(registry *typeregister.Register, files *source.FileSet, opts ...Option) *Loader {
	lib, err := fs.Sub(embeddedLibrary, "stdlib")
	if err != nil {
		panic(fmt.Errorf("embedded library: %w", err))
	}
	l := &Loader{
		registry: registry,
		files:    files,
		library:  lib,
		docs:     make(map[string]*loadedDoc),
		loading:  make(map[string]*inflight),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Registry is the global register the loader populates.
func (l *Loader) Registry() *typeregister.Register {
	return l.registry
}

// ImportComponent resolves symbol exported by the document at locator.
// Failures are reported to r; pass diag.NopReporter{} for best-effort probes.
func (l *Loader) ImportComponent(ctx context.Context, locator, symbol string, r diag.Reporter) (*ir.Component, bool) {
	return l.ImportComponentAt(ctx, locator, symbol, source.Span{}, r)
}

// ImportComponentAt is ImportComponent with the span of the import site used
// for diagnostics.
func (l *Loader) ImportComponentAt(ctx context.Context, locator, symbol string, at source.Span, r diag.Reporter) (*ir.Component, bool) {
	if r == nil {
		r = diag.NopReporter{}
	}
	key := canonicalLocator(locator)
	if comp, ok := l.registry.LookupImported(key, symbol); ok {
		return comp, true
	}
	if inImportChain(ctx, key) {
		diag.ReportError(r, diag.SemaRecursiveImport, at,
			fmt.Sprintf("recursive import of %q", locator)).Emit()
		return nil, false
	}

	loaded := l.load(ctx, key)
	diag.Replay(r, loaded.diags)
	if errors.Is(loaded.err, errImportCycle) {
		diag.ReportError(r, diag.SemaRecursiveImport, at,
			fmt.Sprintf("recursive import of %q", locator)).Emit()
		return nil, false
	}
	if loaded.err != nil {
		diag.ReportError(r, diag.SemaImportFailed, at,
			fmt.Sprintf("cannot import %q: %v", locator, loaded.err)).Emit()
		return nil, false
	}

	comp := loaded.doc.ExportedComponent(symbol)
	if comp == nil {
		diag.ReportError(r, diag.SemaImportFailed, at,
			fmt.Sprintf("%q does not export a component named %q", locator, symbol)).Emit()
		return nil, false
	}
	return l.registry.AddImported(key, symbol, comp), true
}

// load returns the cached document for key, loading it at most once.
// A caller finding the key in flight waits for it, unless the load it would
// wait for is itself waiting, directly or through other loads, on the caller.
func (l *Loader) load(ctx context.Context, key string) *loadedDoc {
	self := workerFrom(ctx)

	l.mu.Lock()
	if cached, ok := l.docs[key]; ok {
		l.mu.Unlock()
		return cached
	}
	if f, ok := l.loading[key]; ok {
		if self != nil && l.waitsFor(f.worker, self) {
			l.mu.Unlock()
			return &loadedDoc{err: fmt.Errorf("%s: %w", key, errImportCycle)}
		}
		if self != nil {
			self.waitsOn = key
		}
		l.mu.Unlock()
		return l.wait(ctx, key, f, self)
	}
	w := self
	if w == nil {
		w = &worker{}
	}
	f := &inflight{worker: w, done: make(chan struct{})}
	l.loading[key] = f
	l.mu.Unlock()

	loaded := l.loadUncached(withImport(ctx, key, w), key)

	l.mu.Lock()
	l.docs[key] = loaded
	delete(l.loading, key)
	l.mu.Unlock()
	close(f.done)
	return loaded
}

func (l *Loader) wait(ctx context.Context, key string, f *inflight, self *worker) *loadedDoc {
	defer func() {
		if self != nil {
			l.mu.Lock()
			self.waitsOn = ""
			l.mu.Unlock()
		}
	}()
	select {
	case <-f.done:
	case <-ctx.Done():
		return &loadedDoc{err: fmt.Errorf("%s: %w", key, ctx.Err())}
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.docs[key]
}

// waitsFor follows the wait edges starting at w and reports whether they
// lead back to self. Caller holds l.mu.
func (l *Loader) waitsFor(w, self *worker) bool {
	for range len(l.loading) + 1 {
		if w == self {
			return true
		}
		f, ok := l.loading[w.waitsOn]
		if w.waitsOn == "" || !ok {
			return false
		}
		w = f.worker
	}
	return false
}

func (l *Loader) loadUncached(ctx context.Context, key string) *loadedDoc {
	span, ctx := trace.Start(ctx, trace.ScopeImport, "import:"+key)
	defer span.End("")

	if l.parse == nil {
		return &loadedDoc{err: errors.New("no document parser configured")}
	}

	content, flags, err := l.read(key)
	if err != nil {
		return &loadedDoc{err: err}
	}

	l.filesMu.Lock()
	id, err := l.files.AddRaw(key, content, flags)
	var file source.File
	if err == nil {
		file = *l.files.Get(id)
	}
	l.filesMu.Unlock()
	if err != nil {
		return &loadedDoc{err: err}
	}

	bag := diag.NewBag(0)
	doc := l.parse(ctx, l, &file, typeregister.NewScope(l.registry), diag.BagReporter{Bag: bag})
	if doc == nil {
		return &loadedDoc{diags: bag, err: fmt.Errorf("%s: document could not be parsed", key)}
	}
	span.Attr("components", fmt.Sprint(len(doc.Components)))
	return &loadedDoc{doc: doc, diags: bag}
}

func (l *Loader) read(key string) ([]byte, source.FileFlags, error) {
	if isFileLocator(key) {
		p := key
		if !filepath.IsAbs(p) && l.baseDir != "" {
			p = filepath.Join(l.baseDir, p)
		}
		// #nosec G304 -- import paths come from the compiled documents
		content, err := os.ReadFile(p)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, 0, fmt.Errorf("%s: %w", key, ErrNotFound)
			}
			return nil, 0, err
		}
		return content, 0, nil
	}
	content, err := fs.ReadFile(l.library, key)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("library document %s: %w", key, ErrNotFound)
		}
		return nil, 0, err
	}
	return content, source.FileVirtual | source.FileLibrary, nil
}

// canonicalLocator maps "std-widgets" and "std-widgets.lumen.toml" to the
// same key.
func canonicalLocator(locator string) string {
	locator = strings.TrimSpace(locator)
	if isFileLocator(locator) {
		return filepath.ToSlash(filepath.Clean(locator))
	}
	locator = path.Clean(locator)
	if !strings.HasSuffix(locator, DocumentExt) {
		locator += DocumentExt
	}
	return locator
}

func isFileLocator(locator string) bool {
	return strings.HasPrefix(locator, "./") || strings.HasPrefix(locator, "../") || filepath.IsAbs(locator)
}

type importChainKey struct{}

type importChain struct {
	key    string
	worker *worker
	parent *importChain
}

func withImport(ctx context.Context, key string, w *worker) context.Context {
	parent, _ := ctx.Value(importChainKey{}).(*importChain)
	return context.WithValue(ctx, importChainKey{}, &importChain{key: key, worker: w, parent: parent})
}

func workerFrom(ctx context.Context) *worker {
	if chain, ok := ctx.Value(importChainKey{}).(*importChain); ok {
		return chain.worker
	}
	return nil
}

func inImportChain(ctx context.Context, key string) bool {
	chain, _ := ctx.Value(importChainKey{}).(*importChain)
	for ; chain != nil; chain = chain.parent {
		if chain.key == key {
			return true
		}
	}
	return false
}
