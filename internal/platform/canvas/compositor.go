// Package canvas composites engine windows onto one core.Screen. Terminal
// frontends (bubbletea, tcell) draw that screen and feed keys back in.
package canvas

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/panel"
)

// ErrOutsideWindow is returned by Write for text that starts outside the window.
var ErrOutsideWindow = errors.New("canvas: write outside window")

// maxQueuedKeys bounds the inbox so a stalled loop cannot grow it forever.
const maxQueuedKeys = 64

// Compositor is a panel.Backend. Windows draw in ascending priority, ties
// in creation order. Blank cells are transparent so sprites keep their
// outlines over the scenery.
//
// Every method is safe for concurrent use: the engine writes windows on
// its goroutine while a frontend reads the screen and pushes keys on its own.
type Compositor struct {
	mu      sync.Mutex
	screen  *core.Screen
	windows []*window
	seq     int
	keys    []core.Action
	dirty   bool
	frames  uint64
}

// New creates a compositor for a width x height display.
func New(width, height int) *Compositor {
	return &Compositor{screen: core.NewScreen(width, height)}
}

// CreateWindow allocates a window at pos.
func (c *Compositor) CreateWindow(size, pos core.Vec2, priority int) (panel.Window, error) {
	if size.X < 0 || size.Y < 0 {
		return nil, fmt.Errorf("canvas: negative window size %v", size)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	w := &window{
		owner:    c,
		size:     size,
		pos:      pos,
		priority: priority,
		seq:      c.seq,
		cells:    make([][]rune, size.Y),
	}
	for y := range w.cells {
		w.cells[y] = make([]rune, size.X)
		for x := range w.cells[y] {
			w.cells[y][x] = ' '
		}
	}
	c.windows = append(c.windows, w)
	sort.SliceStable(c.windows, func(i, j int) bool {
		a, b := c.windows[i], c.windows[j]
		if a.priority != b.priority {
			return a.priority < b.priority
		}
		return a.seq < b.seq
	})
	c.dirty = true
	return w, nil
}

// Present recomposites the screen when any window changed since the last call.
func (c *Compositor) Present() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	c.screen.Clear()
	for _, w := range c.windows {
		for y, row := range w.cells {
			for x, r := range row {
				if r == ' ' {
					continue
				}
				c.screen.SetCell(w.pos.X+x, w.pos.Y+y, core.Cell{Rune: r, Color: w.color})
			}
		}
	}
	c.dirty = false
	c.frames++
	return nil
}

// View calls fn with the composited screen while holding the lock. fn must
// not keep the pointer.
func (c *Compositor) View(fn func(s *core.Screen)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.screen)
}

// String returns the composited screen as plain text.
func (c *Compositor) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.screen.String()
}

// Resize changes the display size and forces a recomposite.
func (c *Compositor) Resize(width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screen.Resize(width, height)
	c.dirty = true
}

// Size returns the display size.
func (c *Compositor) Size() core.Vec2 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return core.V(c.screen.Width(), c.screen.Height())
}

// Frames counts recomposites.
func (c *Compositor) Frames() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.frames
}

// Live returns the number of allocated windows.
func (c *Compositor) Live() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.windows)
}

// PushKey queues an action for the next PollKey on any window. The oldest
// key is dropped when the inbox is full.
func (c *Compositor) PushKey(a core.Action) {
	if a == core.ActionNone {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.keys) >= maxQueuedKeys {
		c.keys = c.keys[1:]
	}
	c.keys = append(c.keys, a)
}

func (c *Compositor) popKey() (core.Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.keys) == 0 {
		return core.ActionNone, false
	}
	a := c.keys[0]
	c.keys = c.keys[1:]
	return a, true
}

func (c *Compositor) remove(w *window) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, o := range c.windows {
		if o == w {
			c.windows = append(c.windows[:i], c.windows[i+1:]...)
			c.dirty = true
			return
		}
	}
}

type window struct {
	owner     *Compositor
	size      core.Vec2
	pos       core.Vec2
	priority  int
	seq       int
	color     core.Color
	cells     [][]rune
	destroyed bool
}

func (w *window) Write(row, col int, text string) error {
	if row < 0 || row >= w.size.Y || col < 0 || col > w.size.X {
		return fmt.Errorf("%w: (%d, %d) in %v", ErrOutsideWindow, row, col, w.size)
	}
	w.owner.mu.Lock()
	defer w.owner.mu.Unlock()
	x := col
	for _, r := range text {
		if x >= w.size.X {
			break
		}
		w.cells[row][x] = r
		x++
	}
	return nil
}

func (w *window) Refresh() error {
	w.owner.mu.Lock()
	w.owner.dirty = true
	w.owner.mu.Unlock()
	return nil
}

func (w *window) Destroy() error {
	if w.destroyed {
		return nil
	}
	w.destroyed = true
	w.owner.remove(w)
	return nil
}

func (w *window) PollKey() (core.Action, bool) {
	return w.owner.popKey()
}

func (w *window) SetColor(c core.Color) {
	w.owner.mu.Lock()
	w.color = c
	w.owner.dirty = true
	w.owner.mu.Unlock()
}

var (
	_ panel.Backend       = (*Compositor)(nil)
	_ panel.Presenter     = (*Compositor)(nil)
	_ panel.ColoredWindow = (*window)(nil)
)
