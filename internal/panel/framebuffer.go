// Package panel implements double-buffered rendering surfaces: frame
// buffers that drawings are rasterized into, panels that diff them, and
// the backend contract that turns a panel into a terminal window.
package panel

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/drawing"
)

// ErrOutOfBounds is returned when a drawing does not fit its buffer.
var ErrOutOfBounds = errors.New("panel: drawing out of bounds")

// FrameBuffer is a fixed-size grid of runes addressed as (row, col).
type FrameBuffer struct {
	size  core.Vec2
	cells [][]rune
}

// NewFrameBuffer allocates a blank buffer of the given width and height.
func NewFrameBuffer(size core.Vec2) *FrameBuffer {
	fb := &FrameBuffer{size: core.V(max(size.X, 0), max(size.Y, 0))}
	fb.allocate()
	fb.Clear()
	return fb
}

func (fb *FrameBuffer) allocate() {
	fb.cells = make([][]rune, fb.size.Y)
	for y := range fb.cells {
		fb.cells[y] = make([]rune, fb.size.X)
	}
}

// Size returns the declared width and height.
func (fb *FrameBuffer) Size() core.Vec2 {
	return fb.size
}

// Clear resets every cell to a blank.
func (fb *FrameBuffer) Clear() {
	for y := range fb.cells {
		for x := range fb.cells[y] {
			fb.cells[y][x] = ' '
		}
	}
}

// Resize reallocates the grid. Content is discarded.
func (fb *FrameBuffer) Resize(size core.Vec2) {
	size = core.V(max(size.X, 0), max(size.Y, 0))
	if size == fb.size {
		return
	}
	fb.size = size
	fb.allocate()
	fb.Clear()
}

// Get returns the rune at (row, col), or a blank outside the grid.
func (fb *FrameBuffer) Get(row, col int) rune {
	if row < 0 || row >= fb.size.Y || col < 0 || col >= fb.size.X {
		return ' '
	}
	return fb.cells[row][col]
}

// Fits checks that every leaf of d lies inside the buffer.
func (fb *FrameBuffer) Fits(d drawing.Drawable) error {
	return drawing.Walk(d, func(l drawing.Leaf) error {
		end := l.Origin.Add(l.Size)
		if l.Origin.X < 0 || l.Origin.Y < 0 || end.X > fb.size.X || end.Y > fb.size.Y {
			return fmt.Errorf("%w: %q spans %v..%v in a %v buffer",
				ErrOutOfBounds, l.Tag, l.Origin, end, fb.size)
		}
		return nil
	})
}

// Rasterize writes the current frame of d, recursing through stacks.
// The whole tree is validated first, so a failing call leaves the
// buffer untouched.
func (fb *FrameBuffer) Rasterize(d drawing.Drawable) error {
	if err := fb.Fits(d); err != nil {
		return err
	}
	return drawing.Walk(d, func(l drawing.Leaf) error {
		for i, line := range l.Lines {
			row := fb.cells[l.Origin.Y+i]
			col := l.Origin.X
			for _, r := range line {
				row[col] = r
				col++
			}
		}
		return nil
	})
}

// Equal reports element-wise equality. Buffers of different sizes differ.
func (fb *FrameBuffer) Equal(o *FrameBuffer) bool {
	if o == nil || fb.size != o.size {
		return false
	}
	for y := range fb.cells {
		for x := range fb.cells[y] {
			if fb.cells[y][x] != o.cells[y][x] {
				return false
			}
		}
	}
	return true
}

// CopyFrom makes fb an exact copy of src, resizing if needed.
func (fb *FrameBuffer) CopyFrom(src *FrameBuffer) {
	if fb.size != src.size {
		fb.size = src.size
		fb.allocate()
	}
	for y := range src.cells {
		copy(fb.cells[y], src.cells[y])
	}
}

// Row returns one row as a string.
func (fb *FrameBuffer) Row(y int) string {
	if y < 0 || y >= fb.size.Y {
		return strings.Repeat(" ", fb.size.X)
	}
	return string(fb.cells[y])
}

// Lines returns every row, top to bottom.
func (fb *FrameBuffer) Lines() []string {
	out := make([]string, fb.size.Y)
	for y := range out {
		out[y] = string(fb.cells[y])
	}
	return out
}

func (fb *FrameBuffer) String() string {
	return strings.Join(fb.Lines(), "\n")
}
