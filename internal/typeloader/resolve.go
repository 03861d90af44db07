package typeloader

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"lumen/internal/diag"
	"lumen/internal/ir"
)

// RequirementKind says where a required type comes from.
type RequirementKind uint8

const (
	// RequireBuiltin looks the name up among the builtin elements.
	RequireBuiltin RequirementKind = iota
	// RequireImport imports Name from Locator.
	RequireImport
	// RequireEmpty is the no-op element type.
	RequireEmpty
)

// Requirement is one type a pass needs before it may start mutating.
type Requirement struct {
	Kind    RequirementKind
	Name    string
	Locator string
}

// Resolved maps requirement names to their types.
type Resolved map[string]ir.ElementType

// ResolveAll resolves every requirement concurrently and returns once all of
// them are settled. Diagnostics produced by the imports are forwarded to r in
// requirement order, whatever order the imports finished in. The first
// unresolved requirement is returned as an error wrapping ErrNotFound.
func (l *Loader) ResolveAll(ctx context.Context, reqs []Requirement, r diag.Reporter) (Resolved, error) {
	types := make([]ir.ElementType, len(reqs))
	found := make([]bool, len(reqs))
	bags := make([]*diag.Bag, len(reqs))

	g, gctx := errgroup.WithContext(ctx)
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			bags[i] = diag.NewBag(0)
			types[i], found[i] = l.resolveOne(gctx, req, diag.BagReporter{Bag: bags[i]})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, bag := range bags {
		diag.Replay(r, bag)
	}

	out := make(Resolved, len(reqs))
	for i, req := range reqs {
		if !found[i] {
			if req.Kind == RequireImport {
				return nil, fmt.Errorf("%s from %q: %w", req.Name, req.Locator, ErrNotFound)
			}
			return nil, fmt.Errorf("builtin %s: %w", req.Name, ErrNotFound)
		}
		out[req.Name] = types[i]
	}
	return out, nil
}

func (l *Loader) resolveOne(ctx context.Context, req Requirement, r diag.Reporter) (ir.ElementType, bool) {
	switch req.Kind {
	case RequireBuiltin:
		return l.registry.LookupBuiltinElement(req.Name)
	case RequireEmpty:
		return l.registry.EmptyType(), true
	case RequireImport:
		comp, ok := l.ImportComponent(ctx, req.Locator, req.Name, r)
		if !ok {
			return ir.ElementType{}, false
		}
		return ir.ComponentType(comp), true
	}
	return ir.ElementType{}, false
}
