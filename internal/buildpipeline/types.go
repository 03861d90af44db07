// Package buildpipeline describes the stages a document goes through in the
// driver and carries progress events from the driver to the CLI.
package buildpipeline

import "time"

// Stage is a step of one unit, in execution order.
type Stage uint8

const (
	StageLoad  Stage = iota // read the root document
	StageParse              // build the element tree, resolve imports
	StageLower              // run the pass pipeline
	StageEmit               // write the lowered tree
	stageCount
)

var stageNames = [stageCount]string{"load", "parse", "lower", "emit"}

func (s Stage) String() string {
	if s < stageCount {
		return stageNames[s]
	}
	return "unknown"
}

// Status is where a unit stands within a stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

var statusNames = [...]string{"queued", "working", "done", "error"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Final reports whether no further event is expected for the stage.
func (s Status) Final() bool { return s == StatusDone || s == StatusError }

// Event reports progress of one file, or of the whole run when File is empty.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// Timings holds the duration of each stage of one unit.
type Timings struct {
	durs [stageCount]time.Duration
	set  uint8 // bit per recorded stage
}

// Set records dur for stage, replacing an earlier value.
func (t *Timings) Set(stage Stage, dur time.Duration) {
	if t == nil || stage >= stageCount {
		return
	}
	t.durs[stage] = dur
	t.set |= 1 << stage
}

func (t Timings) Has(stage Stage) bool {
	return stage < stageCount && t.set&(1<<stage) != 0
}

func (t Timings) Duration(stage Stage) time.Duration {
	if !t.Has(stage) {
		return 0
	}
	return t.durs[stage]
}

// Sum adds the durations of stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, s := range stages {
		total += t.Duration(s)
	}
	return total
}
