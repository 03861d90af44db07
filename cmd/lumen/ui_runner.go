package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"lumen/internal/buildpipeline"
	"lumen/internal/driver"
	"lumen/internal/ui"
)

type compileOutcome struct {
	results []*driver.Result
	err     error
}

func runCompileWithUI(ctx context.Context, title string, files []string, opts driver.Options) ([]*driver.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		optsCopy := opts
		optsCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := driver.CompileAll(ctx, files, optsCopy)
		outcomeCh <- compileOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	if uiErr != nil {
		// модель больше не читает канал; дочитываем, чтобы CompileAll не встал
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
