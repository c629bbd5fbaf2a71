// Package drawing holds the character bitmaps the engine rasterizes:
// single animated drawings and stacks that compose them.
package drawing

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/tui-engine/internal/core"
)

var (
	// ErrStateOutOfRange is returned when selecting a frame that does not exist.
	ErrStateOutOfRange = errors.New("drawing: state out of range")
	// ErrNilDrawable is returned when a stack is handed a nil child.
	ErrNilDrawable = errors.New("drawing: nil drawable")
	// ErrAlreadyStacked is returned when a child is added to a second parent,
	// added twice, or would create a cycle.
	ErrAlreadyStacked = errors.New("drawing: drawable already stacked")
)

// Drawable is anything a frame buffer can rasterize: a Drawing or a Stack.
// The placement hooks are unexported so only this package's types qualify.
type Drawable interface {
	Tag() string
	// Size is the bounding rectangle across all frames.
	Size() core.Vec2
	// LocalPos is the offset inside the parent stack, zero at the root.
	LocalPos() core.Vec2
	State() int
	SetState(i int) error
	NextState()
	StateCount() int

	place(pos core.Vec2)
	stacked() bool
}

// node carries the fields shared by every drawable.
type node struct {
	tag      string
	localPos core.Vec2
	parented bool
}

// Tag returns the drawable's name.
func (n *node) Tag() string { return n.tag }

// LocalPos returns the offset assigned by the parent stack.
func (n *node) LocalPos() core.Vec2 { return n.localPos }

func (n *node) place(pos core.Vec2) {
	n.localPos = pos
	n.parented = true
}

func (n *node) stacked() bool { return n.parented }

// Drawing is an animated rectangular bitmap made of one or more frames.
// Every frame's rows have identical width, so a Drawing is always a rectangle.
type Drawing struct {
	node

	states    [][]string
	current   int
	maxWidth  int
	maxHeight int

	// StripNewLines trims leading and trailing newlines from each literal.
	StripNewLines bool
	// FillBlanks pads every frame to maxHeight rows as well as maxWidth columns.
	FillBlanks bool
}

// New creates an empty drawing. Register frames with Draw or DrawStates.
func New(tag string) *Drawing {
	return &Drawing{
		node:          node{tag: tag},
		StripNewLines: true,
	}
}

// FromText is a convenience for a single-frame drawing.
func FromText(tag, text string) *Drawing {
	return New(tag).Draw(text)
}

// Draw registers one frame from a (possibly multi-line) literal.
func (d *Drawing) Draw(text string) *Drawing {
	return d.DrawStates(text)
}

// DrawStates registers several frames in order. Empty literals are skipped.
func (d *Drawing) DrawStates(texts ...string) *Drawing {
	added := false
	for _, text := range texts {
		if d.StripNewLines {
			text = strings.Trim(text, "\n")
		}
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		for _, line := range lines {
			d.maxWidth = max(d.maxWidth, utf8.RuneCountInString(line))
		}
		d.maxHeight = max(d.maxHeight, len(lines))
		d.states = append(d.states, lines)
		added = true
	}
	if added {
		d.normalize()
	}
	return d
}

// normalize re-pads every frame to the current rectangle. Frames are
// replaced rather than edited so copies sharing them stay intact.
func (d *Drawing) normalize() {
	for i, frame := range d.states {
		d.states[i] = pad(frame, d.maxWidth, d.maxHeight, d.FillBlanks)
	}
}

func pad(frame []string, width, height int, fillRows bool) []string {
	rows := len(frame)
	if fillRows {
		rows = max(rows, height)
	}
	out := make([]string, rows)
	for i := range out {
		line := ""
		if i < len(frame) {
			line = frame[i]
		}
		if n := utf8.RuneCountInString(line); n < width {
			line += strings.Repeat(" ", width-n)
		}
		out[i] = line
	}
	return out
}

// Size returns the widest and tallest extents across all frames.
func (d *Drawing) Size() core.Vec2 {
	return core.V(d.maxWidth, d.maxHeight)
}

// MaxWidth returns the widest row across all frames.
func (d *Drawing) MaxWidth() int { return d.maxWidth }

// MaxHeight returns the tallest frame.
func (d *Drawing) MaxHeight() int { return d.maxHeight }

// StateCount returns how many frames are registered.
func (d *Drawing) StateCount() int { return len(d.states) }

// State returns the index of the current frame.
func (d *Drawing) State() int { return d.current }

// SetState selects a frame. An empty drawing only accepts 0.
func (d *Drawing) SetState(i int) error {
	if i == 0 && len(d.states) == 0 {
		d.current = 0
		return nil
	}
	if i < 0 || i >= len(d.states) {
		return fmt.Errorf("%w: %d not in [0, %d) for %q", ErrStateOutOfRange, i, len(d.states), d.tag)
	}
	d.current = i
	return nil
}

// NextState advances to the next frame, wrapping to the first.
func (d *Drawing) NextState() {
	if len(d.states) == 0 {
		return
	}
	d.current = (d.current + 1) % len(d.states)
}

// CurrentState returns the rows of the current frame.
// The slice is shared and must not be modified.
func (d *Drawing) CurrentState() []string {
	if len(d.states) == 0 {
		return nil
	}
	return d.states[d.current]
}

// States returns every frame in registration order.
func (d *Drawing) States() [][]string {
	return slices.Clone(d.states)
}

// Copy returns a drawing that shares tag and frames but has its own cursor
// and no parent, so one template can back several objects.
func (d *Drawing) Copy() *Drawing {
	return &Drawing{
		node:          node{tag: d.tag},
		states:        slices.Clone(d.states),
		current:       d.current,
		maxWidth:      d.maxWidth,
		maxHeight:     d.maxHeight,
		StripNewLines: d.StripNewLines,
		FillBlanks:    d.FillBlanks,
	}
}
