package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
	// openSpans counts emitted spans that have not ended; heartbeats report it.
	openSpans atomic.Int64
)

func nextSeq() uint64 { return seqCounter.Add(1) }

// OpenSpans returns the number of emitted spans still running.
func OpenSpans() int64 { return openSpans.Load() }

// Span is an open begin/end pair. A span filtered out by the level is inert:
// every method works and nothing is emitted.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	scope   Scope
	unit    string
	name    string
	started time.Time
	attrs   []Attr
	ended   atomic.Bool
}

// Start opens a span under the current span of ctx and returns ctx with the
// new span current. An inert span leaves ctx as is, so its children attach
// to the nearest emitted ancestor.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	t := FromContext(ctx)
	parent := CurrentSpanID(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{parent: parent}, ctx
	}
	s := &Span{
		tracer:  t,
		id:      spanCounter.Add(1),
		parent:  parent,
		scope:   scope,
		unit:    UnitFrom(ctx),
		name:    name,
		started: time.Now(),
	}
	openSpans.Add(1)
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: parent,
		Unit:     s.unit,
		Name:     name,
	})
	return s, context.WithValue(ctx, spanKey{}, s.id)
}

// Attr attaches key=value to the end event.
func (s *Span) Attr(key, value string) *Span {
	if s.live() {
		s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	}
	return s
}

// End emits the end event once and returns the span duration.
func (s *Span) End(detail string) time.Duration {
	if !s.live() || s.ended.Swap(true) {
		return 0
	}
	openSpans.Add(-1)
	now := time.Now()
	s.tracer.Emit(&Event{
		Time:     now,
		Kind:     KindEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Unit:     s.unit,
		Name:     s.name,
		Detail:   detail,
		Attrs:    s.attrs,
	})
	return now.Sub(s.started)
}

func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

func (s *Span) live() bool { return s != nil && s.tracer != nil }

// Point emits an instant event under the current span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: CurrentSpanID(ctx),
		Unit:     UnitFrom(ctx),
		Name:     name,
		Detail:   detail,
	})
}
