package trace

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RingTracer keeps the last N events in memory. The CLI dumps it when
// lowering fails or panics.
type RingTracer struct {
	gate
	mu     sync.Mutex
	buf    []Event
	next   int // slot for the next event
	stored int // events held, at most len(buf)
	epoch  time.Time
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = DefaultRingSize
	}
	return &RingTracer{
		gate:  gate{level: level},
		buf:   make([]Event, capacity),
		epoch: time.Now(),
	}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf[t.next] = *ev
	t.buf[t.next].Seq = nextSeq()
	t.next = (t.next + 1) % len(t.buf)
	t.stored = min(t.stored+1, len(t.buf))
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Event, 0, t.stored)
	start := (t.next - t.stored + len(t.buf)) % len(t.buf)
	for i := range t.stored {
		out = append(out, t.buf[(start+i)%len(t.buf)])
	}
	return out
}

// Dump writes the snapshot to w, preceded by a header line.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	events := t.Snapshot()
	if format != FormatNDJSON {
		if _, err := fmt.Fprintf(w, "--- last %d trace events ---\n", len(events)); err != nil {
			return err
		}
	}
	for i := range events {
		if _, err := w.Write(FormatEvent(&events[i], format, t.epoch)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Flush() error { return nil }
func (t *RingTracer) Close() error { return nil }
