package panel

import (
	"sync"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// Backend allocates display surfaces. Windows with a higher priority are
// composited on top of lower ones.
type Backend interface {
	CreateWindow(size, pos core.Vec2, priority int) (Window, error)
}

// Window is one rectangular surface owned by a panel.
type Window interface {
	// Write blits text at a cell offset inside the window.
	Write(row, col int, text string) error
	// Refresh flushes written content to the physical display.
	Refresh() error
	// Destroy releases the window. Calling it again is a no-op.
	Destroy() error
	// PollKey returns the next pending key without blocking.
	PollKey() (core.Action, bool)
}

// ColoredWindow is implemented by windows that can tint their content.
type ColoredWindow interface {
	Window
	SetColor(c core.Color)
}

// Presenter is implemented by backends that composite every window into
// one display. The engine calls Present once per tick after rendering.
type Presenter interface {
	Present() error
}

// NopBackend hands out windows that accept every call and do nothing.
// Debug mode uses it so the simulation runs headless.
type NopBackend struct {
	mu      sync.Mutex
	created int
	live    int
}

// CreateWindow returns a window that performs no I/O.
func (b *NopBackend) CreateWindow(size, pos core.Vec2, priority int) (Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.created++
	b.live++
	return &nopWindow{backend: b}, nil
}

// Created returns how many windows were ever allocated.
func (b *NopBackend) Created() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.created
}

// Live returns how many windows are still allocated.
func (b *NopBackend) Live() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live
}

type nopWindow struct {
	backend   *NopBackend
	destroyed bool
}

func (w *nopWindow) Write(row, col int, text string) error { return nil }
func (w *nopWindow) Refresh() error                         { return nil }
func (w *nopWindow) PollKey() (core.Action, bool)           { return core.ActionNone, false }

func (w *nopWindow) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.backend.mu.Lock()
	w.backend.live--
	w.backend.mu.Unlock()
	return nil
}
