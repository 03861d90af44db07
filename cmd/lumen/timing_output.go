package main

import (
	"fmt"
	"io"
	"time"

	"lumen/internal/buildpipeline"
	"lumen/internal/driver"
	"lumen/internal/observ"
)

func printStageTimings(out io.Writer, timings buildpipeline.Timings) {
	if out == nil {
		return
	}
	for _, stage := range []struct {
		stage buildpipeline.Stage
		label string
	}{
		{buildpipeline.StageLoad, "loaded"},
		{buildpipeline.StageParse, "parsed"},
		{buildpipeline.StageLower, "lowered"},
	} {
		if timings.Has(stage.stage) {
			fmt.Fprintf(out, "  %s %.1f ms\n", stage.label, toMillis(timings.Duration(stage.stage)))
		}
	}
}

// printUnitTimings prints stage totals and the pass breakdown of every unit,
// then the phases summed over all units when there are several.
func printUnitTimings(out io.Writer, results []*driver.Result) {
	timers := make([]*observ.Timer, 0, len(results))
	for _, res := range results {
		if res == nil {
			continue
		}
		fmt.Fprintf(out, "%s:\n", res.Path)
		printStageTimings(out, res.Timings)
		fmt.Fprint(out, res.Timer.Report().Format())
		timers = append(timers, res.Timer)
	}
	if len(timers) > 1 {
		fmt.Fprintf(out, "all %d units:\n", len(timers))
		fmt.Fprint(out, observ.Aggregate(timers).Format())
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
