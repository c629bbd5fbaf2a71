// Package tui runs scenes inside a Bubble Tea program. Engine windows are
// composited onto a canvas that View styles with lipgloss.
package tui

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger an engine tick. The id ties it to the model
// that scheduled it, so a model left for the menu cannot leak its ticks
// into the next one.
type TickMsg struct {
	Time time.Time
	id   uint64
}

var tickIDs atomic.Uint64

func nextTickID() uint64 { return tickIDs.Add(1) }

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(id uint64, tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 30
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, id: id}
	})
}
