// Package core provides fundamental types and utilities for the engine.
// It never imports a frontend (especially not Bubble Tea), so the
// simulation stays pure and testable. Its only dependency is yaml.v3,
// used to decode durations from config files.
package core

import "fmt"

// Vec2 is an integer grid coordinate or extent.
// Values are immutable by convention: every operation returns a new vector.
type Vec2 struct {
	X, Y int
}

// V is shorthand for Vec2{X: x, Y: y}.
func V(x, y int) Vec2 {
	return Vec2{X: x, Y: y}
}

// Vec2Of builds a vector from fractional coordinates, truncating toward zero.
// Grid cells are the smallest addressable unit, so fractions are dropped.
func Vec2Of(x, y float64) Vec2 {
	return Vec2{X: int(x), Y: int(y)}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Mul scales both components by k.
func (v Vec2) Mul(k int) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Div divides both components by k using integer division.
// Division by zero panics like any integer division.
func (v Vec2) Div(k int) Vec2 {
	return Vec2{X: v.X / k, Y: v.Y / k}
}

// Neg returns -v.
func (v Vec2) Neg() Vec2 {
	return Vec2{X: -v.X, Y: -v.Y}
}

// Abs returns the component-wise absolute value.
func (v Vec2) Abs() Vec2 {
	return Vec2{X: Abs(v.X), Y: Abs(v.Y)}
}

// IsZero reports whether both components are zero.
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

func (v Vec2) String() string {
	return fmt.Sprintf("(%d, %d)", v.X, v.Y)
}

// Bounds is an axis-aligned box derived from a position and a size.
// End coordinates are exclusive: XEnd = X + W, YEnd = Y + H.
type Bounds struct {
	XStart, XEnd int
	YStart, YEnd int
}

// NewBounds derives bounds from a top-left position and a size.
// Negative sizes collapse to zero so that XEnd >= XStart always holds.
func NewBounds(pos, size Vec2) Bounds {
	return Bounds{
		XStart: pos.X,
		XEnd:   pos.X + Max(size.X, 0),
		YStart: pos.Y,
		YEnd:   pos.Y + Max(size.Y, 0),
	}
}

// Pos returns the top-left corner.
func (b Bounds) Pos() Vec2 {
	return Vec2{X: b.XStart, Y: b.YStart}
}

// Size returns the width and height of the box.
func (b Bounds) Size() Vec2 {
	return Vec2{X: b.XEnd - b.XStart, Y: b.YEnd - b.YStart}
}

// Expand grows the box outward by the given amount on every side.
func (b Bounds) Expand(by Vec2) Bounds {
	return Bounds{
		XStart: b.XStart - by.X,
		XEnd:   b.XEnd + by.X,
		YStart: b.YStart - by.Y,
		YEnd:   b.YEnd + by.Y,
	}
}

// ContainsBounds reports whether o lies entirely inside b (edges inclusive).
func (b Bounds) ContainsBounds(o Bounds) bool {
	return b.XStart <= o.XStart && b.XEnd >= o.XEnd &&
		b.YStart <= o.YStart && b.YEnd >= o.YEnd
}

// Intersects returns true if the two boxes share at least one cell.
func (b Bounds) Intersects(o Bounds) bool {
	if b.XStart >= o.XEnd || o.XStart >= b.XEnd {
		return false
	}
	if b.YStart >= o.YEnd || o.YStart >= b.YEnd {
		return false
	}
	return true
}

// Contains returns true if the cell p is inside the box.
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= b.XStart && p.X < b.XEnd && p.Y >= b.YStart && p.Y < b.YEnd
}

// Clamp restricts a value to be within [min, max].
func Clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}

// Abs returns the absolute value of an integer.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Min returns the smaller of two integers.
func Min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of two integers.
func Max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
