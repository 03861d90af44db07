package driver

import (
	"context"
	"runtime"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"lumen/internal/buildpipeline"
	"lumen/internal/trace"
)

// CompileAll compiles every path as an independent unit, at most opts.Jobs at
// a time. Results are in input order; a unit that never started is nil. The
// first unit error cancels the units still waiting and is returned.
func CompileAll(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	span, ctx := trace.Start(ctx, trace.ScopeRun, "compile_all")
	span.Attr("units", strconv.Itoa(len(paths)))
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	buildpipeline.EmitQueued(opts.Progress, paths)
	start := time.Now()

	// Результаты (индексы уникальны для каждой горутины, мьютекс не нужен)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := Compile(gctx, path, opts)
			results[i] = res
			return err
		})
	}
	err := g.Wait()

	status := buildpipeline.StatusDone
	if err != nil {
		status = buildpipeline.StatusError
	}
	buildpipeline.EmitOverall(opts.Progress, buildpipeline.StageLower, status, err, time.Since(start))
	return results, err
}
