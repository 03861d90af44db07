// Package passes holds the lowering passes run over a parsed document and
// the pipeline that sequences them.
//
// Every pass may first resolve the types it needs (this is the only point
// where a pass waits on other work) and only then mutates the tree, so a
// failed resolution never leaves a half-rewritten document behind.
package passes

import (
	"context"
	"fmt"

	"lumen/internal/diag"
	"lumen/internal/ir"
	"lumen/internal/observ"
	"lumen/internal/trace"
	"lumen/internal/typeloader"
)

// Pass is one transformation of a document.
type Pass interface {
	Name() string
	Description() string
	Run(ctx context.Context, pc *Context) error
}

// Context is what a pass may touch. Passes own Doc exclusively while they
// run.
type Context struct {
	Doc      *ir.Document
	Loader   *typeloader.Loader
	Reporter diag.Reporter
	// Timer is optional.
	Timer *observ.Timer
}

func (pc *Context) reporter() diag.Reporter {
	if pc.Reporter == nil {
		return diag.NopReporter{}
	}
	return pc.Reporter
}

// Pipeline runs passes strictly one after another.
type Pipeline struct {
	passes []Pass
}

func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// Default is the lowering pipeline used by the driver.
func Default() *Pipeline {
	return NewPipeline(CollectGeometry{}, LowerMenus{}, CheckMenuPlacement{})
}

// Passes returns the passes in execution order.
func (p *Pipeline) Passes() []Pass {
	return p.passes
}

// Run executes every pass. A pass error aborts the pipeline; user
// diagnostics do not. The context is checked between passes only.
func (p *Pipeline) Run(ctx context.Context, pc *Context) error {
	if pc == nil || pc.Doc == nil {
		return fmt.Errorf("passes: no document")
	}
	for _, pass := range p.passes {
		if err := ctx.Err(); err != nil {
			return err
		}
		span, passCtx := trace.Start(ctx, trace.ScopePass, pass.Name())
		phase := pc.Timer.Begin(pass.Name())
		err := pass.Run(passCtx, pc)
		pc.Timer.End(phase, "")
		if err != nil {
			span.End(err.Error())
			return fmt.Errorf("%s: %w", pass.Name(), err)
		}
		span.End("")
	}
	return nil
}
