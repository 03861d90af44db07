package trace

import "context"

type (
	tracerKey struct{}
	spanKey   struct{}
	unitKey   struct{}
)

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if ctx == nil {
		return Nop
	}
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok {
		return t
	}
	return Nop
}

func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return context.WithValue(ctx, tracerKey{}, t)
}

// CurrentSpanID is the id of the innermost emitted span in ctx, or 0.
func CurrentSpanID(ctx context.Context) uint64 {
	if ctx == nil {
		return 0
	}
	id, _ := ctx.Value(spanKey{}).(uint64)
	return id
}

// WithUnit tags every event started under ctx with the document path.
func WithUnit(ctx context.Context, unit string) context.Context {
	return context.WithValue(ctx, unitKey{}, unit)
}

func UnitFrom(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	unit, _ := ctx.Value(unitKey{}).(string)
	return unit
}
