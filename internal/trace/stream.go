package trace

import (
	"io"
	"os"
	"sync"
	"time"
)

// StreamTracer writes each event as soon as it is emitted.
type StreamTracer struct {
	gate
	mu     sync.Mutex
	w      io.Writer
	format Format
	epoch  time.Time
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return &StreamTracer{
		gate:   gate{level: level},
		w:      w,
		format: formatFor(format, ""),
		epoch:  time.Now(),
	}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.admits(ev) {
		return
	}
	ev.Seq = nextSeq()
	data := FormatEvent(ev, t.format, t.epoch)

	t.mu.Lock()
	// вывод трассировки не должен ронять сборку (например, закрытый pipe)
	_, _ = t.w.Write(data) //nolint:errcheck
	t.mu.Unlock()
}

func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushLocked()
}

func (t *StreamTracer) flushLocked() error {
	if flusher, ok := t.w.(interface{ Flush() error }); ok {
		return flusher.Flush()
	}
	return nil
}

// Close flushes and closes the writer unless it is stdout or stderr.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.flushLocked(); err != nil {
		return err
	}
	if t.w == os.Stderr || t.w == os.Stdout {
		return nil
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
