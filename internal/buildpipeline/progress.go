package buildpipeline

import "time"

// EmitQueued marks every file as waiting for StageLoad.
func EmitQueued(sink ProgressSink, files []string) {
	if sink == nil {
		return
	}
	for _, file := range files {
		sink.OnEvent(Event{File: file, Stage: StageLoad, Status: StatusQueued})
	}
}

// EmitStage reports a stage transition for one file.
func EmitStage(sink ProgressSink, file string, stage Stage, status Status, err error, elapsed time.Duration) {
	if sink == nil {
		return
	}
	sink.OnEvent(Event{File: file, Stage: stage, Status: status, Err: err, Elapsed: elapsed})
}

// EmitOverall reports a stage transition for the whole run (Event.File is empty).
func EmitOverall(sink ProgressSink, stage Stage, status Status, err error, elapsed time.Duration) {
	EmitStage(sink, "", stage, status, err, elapsed)
}
