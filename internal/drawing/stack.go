package drawing

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// Axis is the direction a stack grows in.
type Axis int

const (
	Vertical Axis = iota
	Horizontal
)

func (a Axis) String() string {
	switch a {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	default:
		return fmt.Sprintf("Axis(%d)", int(a))
	}
}

// Alignment places a child on the cross axis of the stack.
type Alignment int

const (
	Start Alignment = iota
	Center
	End
)

// Stack composes drawings (or other stacks) into one bitmap.
// Children are append-only and keep the offset assigned when added.
type Stack struct {
	node

	children []Drawable
	byTag    map[string]int
	width    int
	height   int
	current  int
}

// NewStack creates an empty stack.
func NewStack(tag string) *Stack {
	return &Stack{
		node:  node{tag: tag},
		byTag: make(map[string]int),
	}
}

// Add appends a child, offsetting it by the stack's running extent along
// axis and by the alignment on the cross axis, then grows the stack.
func (s *Stack) Add(d Drawable, axis Axis, align Alignment) error {
	if IsNil(d) {
		return ErrNilDrawable
	}
	if d.stacked() || contains(d, s) {
		return fmt.Errorf("%w: %q into %q", ErrAlreadyStacked, d.Tag(), s.tag)
	}

	size := d.Size()
	var pos core.Vec2
	switch axis {
	case Horizontal:
		pos = core.V(s.width, crossOffset(align, s.height, size.Y))
		s.width += size.X
		s.height = max(s.height, size.Y)
	case Vertical:
		pos = core.V(crossOffset(align, s.width, size.X), s.height)
		s.height += size.Y
		s.width = max(s.width, size.X)
	default:
		return fmt.Errorf("drawing: unknown axis %v", axis)
	}

	d.place(pos)
	s.children = append(s.children, d)
	if tag := d.Tag(); tag != "" {
		s.byTag[tag] = len(s.children) - 1
	}
	return nil
}

// MustAdd is Add for literal layouts that are known to be valid.
func (s *Stack) MustAdd(d Drawable, axis Axis, align Alignment) *Stack {
	if err := s.Add(d, axis, align); err != nil {
		panic(err)
	}
	return s
}

func crossOffset(align Alignment, extent, child int) int {
	if child > extent {
		return 0
	}
	switch align {
	case Center:
		return (extent - child) / 2
	case End:
		return extent - child
	default:
		return 0
	}
}

// IsNil reports whether d is nil or a typed nil pointer.
func IsNil(d Drawable) bool {
	switch v := d.(type) {
	case nil:
		return true
	case *Drawing:
		return v == nil
	case *Stack:
		return v == nil
	}
	return false
}

// contains reports whether target appears anywhere inside d's tree.
func contains(d Drawable, target *Stack) bool {
	st, ok := d.(*Stack)
	if !ok {
		return false
	}
	if st == target {
		return true
	}
	for _, c := range st.children {
		if contains(c, target) {
			return true
		}
	}
	return false
}

// Size returns the accumulated extent of all children.
func (s *Stack) Size() core.Vec2 {
	return core.V(s.width, s.height)
}

// Child looks up a direct child by tag. Later children win on duplicate tags.
func (s *Stack) Child(tag string) (Drawable, bool) {
	i, ok := s.byTag[tag]
	if !ok {
		return nil, false
	}
	return s.children[i], true
}

// Children returns the direct children in the order they were added.
func (s *Stack) Children() []Drawable {
	return slices.Clone(s.children)
}

// MaxState is the largest frame count among the children.
func (s *Stack) MaxState() int {
	n := 0
	for _, c := range s.children {
		n = max(n, c.StateCount())
	}
	return n
}

// StateCount is MaxState, so stacks nest like plain drawings.
func (s *Stack) StateCount() int { return s.MaxState() }

// State returns the highest frame index applied to any child.
func (s *Stack) State() int { return s.current }

// SetState broadcasts i to every child, clamping each to its own last
// frame. The stack cursor becomes the largest index actually applied.
func (s *Stack) SetState(i int) error {
	applied := 0
	for _, c := range s.children {
		target := core.Clamp(i, 0, max(c.StateCount()-1, 0))
		if err := c.SetState(target); err != nil {
			return err
		}
		applied = max(applied, target)
	}
	s.current = applied
	return nil
}

// NextState advances every child in lockstep. Children with fewer frames
// stay parked on their last frame until the whole stack wraps to 0.
func (s *Stack) NextState() {
	next := s.current + 1
	if next >= s.MaxState() {
		next = 0
	}
	// Targets are clamped per child, so SetState cannot fail here.
	_ = s.SetState(next)
}
