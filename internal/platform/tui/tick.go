// Package tui provides the Bubble Tea viewer for collision worlds: a scenario
// picker, the live viewer, the benchmark runs table, and an SSH server that
// hands every session its own world.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a simulation step of the viewer with the
// matching generation.
type TickMsg struct {
	Time time.Time
	Gen  int64
}

// tickCmd returns a Bubble Tea command that sends a tick after one step.
func tickCmd(step time.Duration, gen int64) tea.Cmd {
	return tea.Tick(step, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}
