// Package ui renders the interactive progress view of `lumen lower`.
package ui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"lumen/internal/buildpipeline"
)

// unitState is what the view knows about one document.
type unitState uint8

const (
	stateQueued unitState = iota
	stateRunning
	stateDone
	stateFailed
)

func (s unitState) finished() bool { return s == stateDone || s == stateFailed }

// stageWeights is the share of a unit's work finished once the stage starts.
var stageWeights = map[buildpipeline.Stage]float64{
	buildpipeline.StageLoad:  0.05,
	buildpipeline.StageParse: 0.3,
	buildpipeline.StageLower: 0.7,
	buildpipeline.StageEmit:  0.9,
}

var stageVerbs = map[buildpipeline.Stage]string{
	buildpipeline.StageLoad:  "loading",
	buildpipeline.StageParse: "parsing",
	buildpipeline.StageLower: "lowering",
	buildpipeline.StageEmit:  "writing",
}

type styles struct {
	title   lipgloss.Style
	queued  lipgloss.Style
	running lipgloss.Style
	done    lipgloss.Style
	failed  lipgloss.Style
}

func defaultStyles() styles {
	color := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return styles{
		title:   color("7").Bold(true),
		queued:  color("7"),
		running: color("6"),
		done:    color("2"),
		failed:  color("1"),
	}
}

type unitRow struct {
	path    string
	label   string // shown name, relative to the common input directory
	state   unitState
	stage   buildpipeline.Stage
	elapsed time.Duration
}

func (u *unitRow) status() string {
	switch u.state {
	case stateRunning:
		return stageVerbs[u.stage]
	case stateDone:
		return "done"
	case stateFailed:
		return "error"
	}
	return "queued"
}

type progressModel struct {
	title    string
	events   <-chan buildpipeline.Event
	spinner  spinner.Model
	bar      progress.Model
	styles   styles
	units    []unitRow
	byPath   map[string]int
	runStage string
	width    int
	failed   int
	finished int
	closed   bool
}

type eventMsg buildpipeline.Event
type closedMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders the progress of
// compilation units. It quits when events is closed.
func NewProgressModel(title string, files []string, events <-chan buildpipeline.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	st := defaultStyles()
	sp.Style = st.running

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 76

	m := &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		bar:     bar,
		styles:  st,
		units:   make([]unitRow, len(files)),
		byPath:  make(map[string]int, len(files)),
		width:   80,
	}
	base := commonDir(files)
	for i, file := range files {
		m.units[i] = unitRow{path: file, label: relativeTo(base, file), stage: buildpipeline.StageLoad}
		m.byPath[file] = i
	}
	return m
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.next())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		return m, tea.Batch(m.applyEvent(buildpipeline.Event(msg)), m.next())
	case closedMsg:
		m.closed = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.closed {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.bar.Width = msg.Width - 4
		}
	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.units) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(m.styles.title.Render(m.header()))
	b.WriteString("\n\n")

	const statusWidth = 10
	nameWidth := max(m.width-statusWidth-4, 20)
	for i := range m.units {
		u := &m.units[i]
		name := truncate(u.label, nameWidth)
		if u.state.finished() && u.elapsed > 0 {
			name += "  " + u.elapsed.Round(time.Millisecond).String()
		}
		status := m.styleFor(u.state).Render(fmt.Sprintf("%*s", statusWidth, u.status()))
		fmt.Fprintf(&b, "  %s %s\n", status, name)
	}

	b.WriteString("\n")
	if m.closed {
		b.WriteString(m.bar.ViewAs(1.0))
	} else {
		b.WriteString(m.bar.View())
	}
	b.WriteString("\n")
	return b.String()
}

// header reads "⠋ lower 1/2 (lowering), 1 failed"; the spinner becomes
// "done:" once the event stream is closed.
func (m *progressModel) header() string {
	h := fmt.Sprintf("%s %d/%d", m.title, m.finished, len(m.units))
	if m.runStage != "" {
		h += " (" + m.runStage + ")"
	}
	if m.failed > 0 {
		h += fmt.Sprintf(", %d failed", m.failed)
	}
	if m.closed {
		return "done: " + h
	}
	return m.spinner.View() + " " + h
}

func (m *progressModel) styleFor(s unitState) lipgloss.Style {
	switch s {
	case stateRunning:
		return m.styles.running
	case stateDone:
		return m.styles.done
	case stateFailed:
		return m.styles.failed
	}
	return m.styles.queued
}

func (m *progressModel) next() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return closedMsg{}
		}
		return eventMsg(ev)
	}
}

// applyEvent updates the unit named by ev. Overall events (empty File) only
// change the header. A failed unit stays failed.
func (m *progressModel) applyEvent(ev buildpipeline.Event) tea.Cmd {
	if ev.File == "" {
		if verb, ok := stageVerbs[ev.Stage]; ok && ev.Status == buildpipeline.StatusWorking {
			m.runStage = verb
		}
		return nil
	}
	idx, ok := m.byPath[ev.File]
	if !ok {
		return nil
	}
	u := &m.units[idx]
	if u.state == stateFailed {
		return nil
	}
	wasFinished := u.state.finished()
	u.stage = ev.Stage
	switch ev.Status {
	case buildpipeline.StatusQueued:
		u.state = stateQueued
	case buildpipeline.StatusWorking:
		u.state = stateRunning
	case buildpipeline.StatusDone:
		u.state = stateDone
		u.elapsed += ev.Elapsed
	case buildpipeline.StatusError:
		u.state = stateFailed
		u.elapsed += ev.Elapsed
		m.failed++
	}
	if !wasFinished && u.state.finished() {
		m.finished++
	}
	return m.bar.SetPercent(m.percent())
}

func (m *progressModel) percent() float64 {
	if len(m.units) == 0 {
		return 0
	}
	total := 0.0
	for i := range m.units {
		if m.units[i].state.finished() {
			total++
			continue
		}
		total += stageWeights[m.units[i].stage]
	}
	return total / float64(len(m.units))
}

// commonDir is the deepest directory containing every path, or "" when the
// paths share none.
func commonDir(paths []string) string {
	if len(paths) < 2 {
		return ""
	}
	dir := filepath.Dir(paths[0])
	for _, p := range paths[1:] {
		for dir != "." && dir != string(filepath.Separator) {
			if rel, err := filepath.Rel(dir, p); err == nil && !strings.HasPrefix(rel, "..") {
				break
			}
			dir = filepath.Dir(dir)
		}
	}
	if dir == "." || dir == string(filepath.Separator) {
		return ""
	}
	return dir
}

func relativeTo(base, path string) string {
	if base == "" {
		return path
	}
	if rel, err := filepath.Rel(base, path); err == nil {
		return rel
	}
	return path
}

// truncate shortens value to width display columns, marking the cut with
// "..." when there is room for it.
func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
