package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/animakit/scenectl/internal/domain"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case TickMsg:
		if m.done {
			return m, nil
		}
		m.spinner++
		return m, tickCmd()

	case StartMsg:
		if i, ok := m.index[msg.Scene]; ok {
			m.rows[i].Status = RowRendering
		}
		return m, m.waitEvent()

	case ResultMsg:
		res := domain.RenderResult(msg)
		if i, ok := m.index[res.Job.Scene.Name]; ok {
			m.rows[i].Duration = res.Duration
			m.rows[i].Message = res.Message
			if res.Failed() {
				m.rows[i].Status = RowFailed
				m.failed++
			} else {
				m.rows[i].Status = RowSucceeded
				m.succeeded++
			}
		}
		return m, m.waitEvent()

	case DoneMsg:
		m.done = true
		m.aborted = msg.Aborted
		return m, tea.Quit
	}

	return m, nil
}
