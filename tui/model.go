// Package tui renders a live progress dashboard for batch renders.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/animakit/scenectl/internal/domain"
)

// RowStatus is the display state of one scene in the batch.
type RowStatus string

const (
	RowQueued    RowStatus = "queued"
	RowRendering RowStatus = "rendering"
	RowSucceeded RowStatus = "succeeded"
	RowFailed    RowStatus = "failed"
)

// Row is one scene's line in the dashboard.
type Row struct {
	Scene    string
	Status   RowStatus
	Duration time.Duration
	Message  string
}

// StartMsg marks a scene as rendering.
type StartMsg struct {
	Scene string
}

// ResultMsg carries a finished job's result.
type ResultMsg domain.RenderResult

// DoneMsg ends the dashboard once the batch has finished.
type DoneMsg struct {
	Aborted bool
}

// TickMsg drives the spinner.
type TickMsg time.Time

// Model is the TUI application model
type Model struct {
	quality string
	rows    []Row
	index   map[string]int
	events  <-chan tea.Msg

	succeeded int
	failed    int
	done      bool
	aborted   bool

	spinner int
	start   time.Time
	width   int
}

// NewModel builds the dashboard over the batch's scenes in discovery order.
// events carries StartMsg/ResultMsg/DoneMsg from the orchestrator callbacks.
func NewModel(scenes []domain.Scene, quality string, events <-chan tea.Msg) Model {
	rows := make([]Row, len(scenes))
	index := make(map[string]int, len(scenes))
	for i, s := range scenes {
		rows[i] = Row{Scene: s.Name, Status: RowQueued}
		index[s.Name] = i
	}
	return Model{
		quality: quality,
		rows:    rows,
		index:   index,
		events:  events,
		start:   time.Now(),
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitEvent(), tickCmd())
}

func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-m.events
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
