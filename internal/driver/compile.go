// Package driver runs compilation units: load a document, build its element
// tree, run the pass pipeline. Every unit owns its FileSet, Bag, Register and
// Loader, so units never share state and may run in parallel.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"lumen/internal/buildpipeline"
	"lumen/internal/diag"
	"lumen/internal/frontend"
	"lumen/internal/ir"
	"lumen/internal/observ"
	"lumen/internal/passes"
	"lumen/internal/source"
	"lumen/internal/trace"
	"lumen/internal/typeloader"
	"lumen/internal/typeregister"
)

// ErrDiagnostics is attached to progress events of units whose diagnostics
// contain errors. Compile itself does not return it.
var ErrDiagnostics = errors.New("diagnostics reported errors")

// Options configures a compilation.
type Options struct {
	MaxDiagnostics int
	// Library overrides the embedded widget library.
	Library fs.FS
	// BaseDir is used for displayed paths; defaults to the working directory.
	BaseDir string
	// Pipeline defaults to passes.Default().
	Pipeline *passes.Pipeline
	// Jobs limits CompileAll parallelism; <= 0 means GOMAXPROCS.
	Jobs     int
	Progress buildpipeline.ProgressSink
}

// Result is the outcome of one compilation unit.
type Result struct {
	Path    string
	Files   *source.FileSet
	Bag     *diag.Bag
	Doc     *ir.Document // nil when the root document could not be read or parsed
	Lowered bool         // the pass pipeline ran to completion
	Timer   *observ.Timer
	Timings buildpipeline.Timings
}

// HasErrors reports whether the unit produced error diagnostics.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}

// Compile loads path from disk and compiles it. User errors end up in
// Result.Bag; the returned error is reserved for failures that abort the
// unit (cancellation, a missing standard library type).
func Compile(ctx context.Context, path string, opts Options) (*Result, error) {
	res := newResult(path, opts)

	start := time.Now()
	buildpipeline.EmitStage(opts.Progress, path, buildpipeline.StageLoad, buildpipeline.StatusWorking, nil, 0)
	idx := res.Timer.Begin("load_file")
	id, err := res.Files.Load(path)
	res.Timer.End(idx, "")
	res.Timings.Set(buildpipeline.StageLoad, time.Since(start))
	if err != nil {
		res.Bag.Add(diag.NewError(diag.IOLoadFileError, source.Span{}, fmt.Sprintf("cannot read %s: %v", path, err)))
		buildpipeline.EmitStage(opts.Progress, path, buildpipeline.StageLoad, buildpipeline.StatusError, err, time.Since(start))
		return res, nil
	}
	return compileFile(ctx, res, res.Files.Get(id), opts)
}

// CompileSource compiles an in-memory document named name.
func CompileSource(ctx context.Context, name string, content []byte, opts Options) (*Result, error) {
	res := newResult(name, opts)
	id := res.Files.AddVirtual(name, content)
	return compileFile(ctx, res, res.Files.Get(id), opts)
}

func newResult(path string, opts Options) *Result {
	files := source.NewFileSet()
	if opts.BaseDir != "" {
		files = source.NewFileSetWithBase(opts.BaseDir)
	}
	return &Result{
		Path:  path,
		Files: files,
		Bag:   diag.NewBag(opts.MaxDiagnostics),
		Timer: observ.NewTimer(),
	}
}

func compileFile(ctx context.Context, res *Result, file *source.File, opts Options) (*Result, error) {
	span, ctx := trace.Start(trace.WithUnit(ctx, res.Path), trace.ScopeUnit, "compile")
	defer span.End("")

	registry := typeregister.New()
	loaderOpts := []typeloader.Option{
		typeloader.WithParser(frontend.ParseDocument),
		typeloader.WithBaseDir(filepath.Dir(file.Path)),
	}
	if opts.Library != nil {
		loaderOpts = append(loaderOpts, typeloader.WithLibrary(opts.Library))
	}
	loader := typeloader.New(registry, res.Files, loaderOpts...)
	// библиотечные документы переигрывают свои диагностики на каждом импорте
	reporter := diag.NewDedupReporter(diag.BagReporter{Bag: res.Bag})

	// File указывает в слайс FileSet, который растёт при импортах
	root := *file

	start := time.Now()
	buildpipeline.EmitStage(opts.Progress, res.Path, buildpipeline.StageParse, buildpipeline.StatusWorking, nil, 0)
	idx := res.Timer.Begin("parse")
	res.Doc = frontend.Parse(ctx, &root, typeregister.NewScope(registry), loader, reporter)
	res.Timer.End(idx, "")
	res.Timings.Set(buildpipeline.StageParse, time.Since(start))

	if err := ctx.Err(); err != nil {
		buildpipeline.EmitStage(opts.Progress, res.Path, buildpipeline.StageParse, buildpipeline.StatusError, err, time.Since(start))
		return res, err
	}
	if res.Doc == nil || res.HasErrors() {
		buildpipeline.EmitStage(opts.Progress, res.Path, buildpipeline.StageParse, buildpipeline.StatusError, ErrDiagnostics, time.Since(start))
		return res, nil
	}

	pipeline := opts.Pipeline
	if pipeline == nil {
		pipeline = passes.Default()
	}
	start = time.Now()
	buildpipeline.EmitStage(opts.Progress, res.Path, buildpipeline.StageLower, buildpipeline.StatusWorking, nil, 0)
	err := pipeline.Run(ctx, &passes.Context{
		Doc:      res.Doc,
		Loader:   loader,
		Reporter: reporter,
		Timer:    res.Timer,
	})
	res.Timings.Set(buildpipeline.StageLower, time.Since(start))
	if err != nil {
		buildpipeline.EmitStage(opts.Progress, res.Path, buildpipeline.StageLower, buildpipeline.StatusError, err, time.Since(start))
		return res, fmt.Errorf("%s: %w", res.Path, err)
	}
	res.Lowered = true

	status, statusErr := buildpipeline.StatusDone, error(nil)
	if res.HasErrors() {
		status, statusErr = buildpipeline.StatusError, ErrDiagnostics
	}
	buildpipeline.EmitStage(opts.Progress, res.Path, buildpipeline.StageLower, status, statusErr, time.Since(start))
	return res, nil
}
