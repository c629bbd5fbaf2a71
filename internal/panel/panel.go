package panel

import (
	"fmt"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/drawing"
)

// WindowState tracks the lifecycle of a panel's backend window.
type WindowState int

const (
	WindowAbsent WindowState = iota
	WindowCreated
	WindowDestroyed
)

func (s WindowState) String() string {
	switch s {
	case WindowAbsent:
		return "absent"
	case WindowCreated:
		return "created"
	case WindowDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// Panel is a double-buffered surface. The back buffer is rebuilt every
// tick, the front buffer holds what was last blitted, and the backend
// window is only touched when the two differ or the geometry changed.
type Panel struct {
	pos      core.Vec2
	priority int
	color    core.Color

	back  *FrameBuffer
	front *FrameBuffer

	backend Backend
	window  Window
	state   WindowState

	// geometry at the last render
	rendered bool
	backPos  core.Vec2
	backSize core.Vec2

	forceBlit bool
	blits     int
}

// New creates a panel with blank buffers and no window.
func New(size, pos core.Vec2, priority int) *Panel {
	return &Panel{
		pos:      pos,
		priority: priority,
		back:     NewFrameBuffer(size),
		front:    NewFrameBuffer(size),
	}
}

// SetBackend attaches the backend windows are allocated from.
// A panel without a backend never creates a window.
func (p *Panel) SetBackend(b Backend) {
	p.backend = b
}

// Size returns the buffer size.
func (p *Panel) Size() core.Vec2 { return p.back.Size() }

// Pos returns the top-left corner in viewport cells.
func (p *Panel) Pos() core.Vec2 { return p.pos }

// SetPos moves the panel. The window is rebuilt on the next render.
func (p *Panel) SetPos(pos core.Vec2) { p.pos = pos }

// Resize changes the buffer size. The window is rebuilt on the next render.
func (p *Panel) Resize(size core.Vec2) { p.back.Resize(size) }

// SetColor picks the foreground color for windows that support one.
func (p *Panel) SetColor(c core.Color) { p.color = c }

// Priority is the z-order passed to the backend.
func (p *Panel) Priority() int { return p.priority }

// Bounds is derived from the current position and size.
func (p *Panel) Bounds() core.Bounds { return core.NewBounds(p.pos, p.Size()) }

// Back exposes the buffer being built this tick.
func (p *Panel) Back() *FrameBuffer { return p.back }

// Front exposes the buffer that was last blitted.
func (p *Panel) Front() *FrameBuffer { return p.front }

// WindowState reports where the window is in its lifecycle.
func (p *Panel) WindowState() WindowState { return p.state }

// Blits counts content writes issued to the backend.
func (p *Panel) Blits() int { return p.blits }

// Update clears the back buffer and rasterizes d into it. When d does not
// fit, the back buffer keeps its previous content and the error wraps
// ErrOutOfBounds.
func (p *Panel) Update(d drawing.Drawable) error {
	if err := p.back.Fits(d); err != nil {
		return err
	}
	p.back.Clear()
	return p.back.Rasterize(d)
}

// ShouldRedraw reports whether the back buffer differs from what was last blitted.
func (p *Panel) ShouldRedraw() bool {
	return !p.front.Equal(p.back)
}

// Reconfigured reports whether position or size changed since the last
// render, or whether the panel was never rendered.
func (p *Panel) Reconfigured() bool {
	return !p.rendered || p.pos != p.backPos || p.Size() != p.backSize
}

// ShouldRerender combines geometry and content changes.
func (p *Panel) ShouldRerender() bool {
	return p.Reconfigured() || p.ShouldRedraw()
}

// Render rebuilds the window if the geometry changed and blits the back
// buffer if its content changed. Without a window it is a no-op.
func (p *Panel) Render(inView bool) error {
	if p.Reconfigured() {
		if err := p.rebuild(inView); err != nil {
			return err
		}
	}
	if p.window == nil {
		return nil
	}
	if !p.forceBlit && !p.ShouldRedraw() {
		return nil
	}

	p.front.CopyFrom(p.back)
	for row, line := range p.front.Lines() {
		if err := p.window.Write(row, 0, line); err != nil {
			return fmt.Errorf("panel: write row %d: %w", row, err)
		}
	}
	p.forceBlit = false
	p.blits++
	return p.window.Refresh()
}

// rebuild destroys the current window and creates one at the new
// geometry when the panel is in view.
func (p *Panel) rebuild(inView bool) error {
	if err := p.releaseWindow(); err != nil {
		return err
	}
	p.rendered = true
	p.backPos = p.pos
	p.backSize = p.Size()

	if !inView || p.backend == nil {
		return nil
	}
	w, err := p.backend.CreateWindow(p.backSize, p.backPos, p.priority)
	if err != nil {
		return fmt.Errorf("panel: create window at %v: %w", p.backPos, err)
	}
	if cw, ok := w.(ColoredWindow); ok {
		cw.SetColor(p.color)
	}
	p.window = w
	p.state = WindowCreated
	p.forceBlit = true
	return nil
}

// PollKey reads a pending key from the window, if there is one.
func (p *Panel) PollKey() (core.Action, bool) {
	if p.window == nil {
		return core.ActionNone, false
	}
	return p.window.PollKey()
}

// Destroy releases the window. It is safe to call more than once.
func (p *Panel) Destroy() error {
	return p.releaseWindow()
}

func (p *Panel) releaseWindow() error {
	if p.window == nil {
		return nil
	}
	err := p.window.Destroy()
	p.window = nil
	p.state = WindowDestroyed
	if err != nil {
		return fmt.Errorf("panel: destroy window: %w", err)
	}
	return nil
}
