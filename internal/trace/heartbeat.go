package trace

import (
	"fmt"
	"sync"
	"time"
)

// Heartbeat emits periodic events with the number of open spans, so a
// stalled lowering shows up in the stream as beats without span ends.
type Heartbeat struct {
	tracer Tracer
	every  time.Duration
	done   chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

// StartHeartbeat returns nil when tracing is off or every is not positive.
func StartHeartbeat(tracer Tracer, every time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || every <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: tracer, every: every, done: make(chan struct{})}
	h.wg.Add(1)
	go h.loop()
	return h
}

func (h *Heartbeat) loop() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.every)
	defer ticker.Stop()
	for beat := 1; ; beat++ {
		select {
		case <-h.done:
			return
		case now := <-ticker.C:
			h.tracer.Emit(&Event{
				Time:   now,
				Kind:   KindHeartbeat,
				Scope:  ScopeRun,
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d", beat),
				Attrs:  []Attr{{Key: "open", Value: fmt.Sprint(OpenSpans())}},
			})
		}
	}
}

// Stop is idempotent and nil-safe.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.done) })
	h.wg.Wait()
}
