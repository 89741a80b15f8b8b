package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		Padding(0, 1)

	succeededStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42"))

	failedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196"))

	renderingStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("214"))

	queuedStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("244"))

	statusBarStyle = lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Foreground(lipgloss.Color("255")).
		Padding(0, 1)
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// View renders the dashboard
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Rendering %d scene(s) at quality %s", len(m.rows), m.quality)))
	b.WriteString("\n\n")

	for _, row := range m.rows {
		b.WriteString("  ")
		b.WriteString(m.renderRow(row))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	elapsed := time.Since(m.start).Round(time.Second)
	status := fmt.Sprintf("%d succeeded · %d failed · %s elapsed", m.succeeded, m.failed, elapsed)
	if m.aborted {
		status += " · aborted"
	}
	b.WriteString(statusBarStyle.Render(status))
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderRow(row Row) string {
	switch row.Status {
	case RowSucceeded:
		line := fmt.Sprintf("✓ %-30s %s", row.Scene, row.Duration.Round(time.Millisecond))
		return succeededStyle.Render(line)
	case RowFailed:
		line := fmt.Sprintf("✗ %-30s %s", row.Scene, firstLine(row.Message))
		return failedStyle.Render(line)
	case RowRendering:
		frame := spinnerFrames[m.spinner%len(spinnerFrames)]
		return renderingStyle.Render(fmt.Sprintf("%s %-30s rendering", frame, row.Scene))
	default:
		return queuedStyle.Render(fmt.Sprintf("· %-30s queued", row.Scene))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
