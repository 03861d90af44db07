// Package observ measures where lowering time goes: per unit, per pass, and
// summed over every unit of a run.
package observ

import (
	"fmt"
	"strings"
	"time"
)

// Phase is one measured step: reading the file, the parse, a pass.
type Phase struct {
	Name  string
	Start time.Time
	Dur   time.Duration
	Note  string
}

// Timer accumulates phases in the order they were begun.
// Not safe for concurrent use; each compilation unit owns one.
// A nil *Timer ignores everything.
type Timer struct {
	phases []Phase
}

func NewTimer() *Timer { return &Timer{phases: make([]Phase, 0, 8)} }

// Begin starts a phase and returns its index for End.
func (t *Timer) Begin(name string) int {
	if t == nil {
		return -1
	}
	t.phases = append(t.phases, Phase{Name: name, Start: time.Now()})
	return len(t.phases) - 1
}

// End closes the phase idx. Unknown indices are ignored.
func (t *Timer) End(idx int, note string) {
	if t == nil || idx < 0 || idx >= len(t.phases) {
		return
	}
	t.phases[idx].Dur = time.Since(t.phases[idx].Start)
	t.phases[idx].Note = note
}

// Measure times fn as one phase.
func (t *Timer) Measure(name string, fn func()) {
	idx := t.Begin(name)
	defer t.End(idx, "")
	fn()
}

// Phases returns the recorded phases.
func (t *Timer) Phases() []Phase {
	if t == nil {
		return nil
	}
	return t.phases
}

// Total sums the durations of every phase.
func (t *Timer) Total() time.Duration {
	var total time.Duration
	for _, p := range t.Phases() {
		total += p.Dur
	}
	return total
}

// PhaseReport is a phase in serializable form. Runs counts the units a
// phase was summed over and is zero in a single-unit report.
type PhaseReport struct {
	Name       string  `json:"name"`
	DurationMS float64 `json:"duration_ms"`
	Note       string  `json:"note,omitempty"`
	Runs       int     `json:"runs,omitempty"`
}

// Report is the timing of one unit or of a whole run.
type Report struct {
	TotalMS float64       `json:"total_ms"`
	Phases  []PhaseReport `json:"phases"`
}

// Report returns the phases of t in milliseconds.
func (t *Timer) Report() Report {
	phases := t.Phases()
	if len(phases) == 0 {
		return Report{}
	}
	r := Report{TotalMS: millis(t.Total()), Phases: make([]PhaseReport, len(phases))}
	for i, p := range phases {
		r.Phases[i] = PhaseReport{Name: p.Name, DurationMS: millis(p.Dur), Note: p.Note}
	}
	return r
}

// Aggregate sums phases with the same name across timers. Phases keep the
// order in which their name was first seen; notes are dropped.
func Aggregate(timers []*Timer) Report {
	var r Report
	index := make(map[string]int)
	for _, t := range timers {
		for _, p := range t.Phases() {
			i, ok := index[p.Name]
			if !ok {
				i = len(r.Phases)
				index[p.Name] = i
				r.Phases = append(r.Phases, PhaseReport{Name: p.Name})
			}
			r.Phases[i].DurationMS += millis(p.Dur)
			r.Phases[i].Runs++
		}
		r.TotalMS += millis(t.Total())
	}
	return r
}

// Format renders r as an aligned table for --timings.
func (r Report) Format() string {
	width := len("total")
	for _, p := range r.Phases {
		width = max(width, len(p.Name))
	}
	var sb strings.Builder
	for _, p := range r.Phases {
		fmt.Fprintf(&sb, "  %-*s %8.2f ms", width, p.Name, p.DurationMS)
		if p.Runs > 1 {
			fmt.Fprintf(&sb, "  x%d", p.Runs)
		}
		if p.Note != "" {
			sb.WriteString("  // " + p.Note)
		}
		sb.WriteByte('\n')
	}
	fmt.Fprintf(&sb, "  %-*s %8.2f ms\n", width, "total", r.TotalMS)
	return sb.String()
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
