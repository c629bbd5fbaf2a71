package core

// Viewport holds the extents objects classify themselves against each tick.
// Floor and Roof are row indices: Floor = Height - k, Roof is usually 1.
type Viewport struct {
	Width  int
	Height int
	Floor  int
	Roof   int
}

// NewViewport derives floor and roof rows from the window size.
func NewViewport(width, height, floorOffset, roof int) Viewport {
	return Viewport{
		Width:  width,
		Height: height,
		Floor:  height - floorOffset,
		Roof:   roof,
	}
}

// Bounds returns the full window rectangle.
func (v Viewport) Bounds() Bounds {
	return NewBounds(Vec2{}, Vec2{X: v.Width, Y: v.Height})
}
