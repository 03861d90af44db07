package buildpipeline

import (
	"errors"
	"testing"
	"time"
)

func TestTimings(t *testing.T) {
	var tm Timings
	if tm.Has(StageParse) || tm.Duration(StageParse) != 0 || tm.Sum(StageParse) != 0 {
		t.Fatal("zero Timings is not empty")
	}
	tm.Set(StageParse, 2*time.Millisecond)
	tm.Set(StageLower, 3*time.Millisecond)
	tm.Set(StageParse, 4*time.Millisecond)

	if !tm.Has(StageParse) || tm.Has(StageEmit) {
		t.Errorf("Has is wrong: %+v", tm)
	}
	if got := tm.Sum(StageParse, StageLower, StageEmit); got != 7*time.Millisecond {
		t.Errorf("Sum = %s, want 7ms", got)
	}

	var nilTimings *Timings
	nilTimings.Set(StageLoad, time.Second) // не паникует
	tm.Set(Stage(200), time.Second)
	if tm.Has(Stage(200)) {
		t.Error("out of range stage recorded")
	}
}

func TestNames(t *testing.T) {
	if StageLower.String() != "lower" || Stage(9).String() != "unknown" {
		t.Error("stage names are off")
	}
	if StatusError.String() != "error" || !StatusError.Final() || StatusWorking.Final() {
		t.Error("status names are off")
	}
}

func TestEmitHelpers(t *testing.T) {
	sink := &RecordingSink{}
	boom := errors.New("boom")

	EmitQueued(sink, []string{"a", "b"})
	EmitStage(sink, "a", StageParse, StatusError, boom, time.Millisecond)
	EmitOverall(sink, StageLower, StatusDone, nil, 0)
	EmitStage(nil, "ignored", StageLoad, StatusWorking, nil, 0)

	want := []Event{
		{File: "a", Stage: StageLoad, Status: StatusQueued},
		{File: "b", Stage: StageLoad, Status: StatusQueued},
		{File: "a", Stage: StageParse, Status: StatusError, Err: boom, Elapsed: time.Millisecond},
		{Stage: StageLower, Status: StatusDone},
	}
	got := sink.Events()
	if len(got) != len(want) {
		t.Fatalf("events = %+v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestChannelSink(t *testing.T) {
	ch := make(chan Event, 1)
	ChannelSink{Ch: ch}.OnEvent(Event{File: "x", Status: StatusDone})
	if ev := <-ch; ev.File != "x" {
		t.Fatalf("got %+v", ev)
	}
	ChannelSink{}.OnEvent(Event{}) // nil канал игнорируется
}
