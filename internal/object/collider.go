package object

import (
	"slices"

	"github.com/vovakirdan/tui-engine/internal/drawing"
)

// Fill selects how a collider's box is interpreted.
type Fill int

const (
	// Filled colliders are solid: any broad-phase overlap counts.
	Filled Fill = iota
	// Hollow colliders only count overlaps that touch their border.
	Hollow
)

func (f Fill) String() string {
	if f == Hollow {
		return "hollow"
	}
	return "filled"
}

// Phase is where a collision is in its lifetime.
type Phase int

const (
	PhaseStart Phase = iota
	PhaseContinuing
	PhaseEnd
)

func (p Phase) String() string {
	switch p {
	case PhaseStart:
		return "start"
	case PhaseContinuing:
		return "continuing"
	case PhaseEnd:
		return "end"
	default:
		return "unknown"
	}
}

// CollisionData records one contact found this tick.
type CollisionData struct {
	Other Entity
	Phase Phase
}

// Collider holds the fill mode and the contacts rebuilt every tick.
type Collider struct {
	fill       Fill
	collisions []CollisionData
}

// Fill returns the fill mode.
func (c *Collider) Fill() Fill { return c.fill }

// Collisions returns this tick's contacts.
func (c *Collider) Collisions() []CollisionData {
	return slices.Clone(c.collisions)
}

// Clear drops all contacts. The collision system calls it before each pass.
func (c *Collider) Clear() {
	c.collisions = c.collisions[:0]
}

// Record appends a contact.
func (c *Collider) Record(d CollisionData) {
	c.collisions = append(c.collisions, d)
}

// TouchingTag reports whether any current contact carries tag and is not ending.
func (c *Collider) TouchingTag(tag string) bool {
	for _, d := range c.collisions {
		if d.Phase != PhaseEnd && d.Other.Base().HasTag(tag) {
			return true
		}
	}
	return false
}

// CollidableObject is an Object that takes part in collision detection.
type CollidableObject struct {
	Object
	collider Collider
}

// NewCollidable builds a collidable object with the given fill mode.
func NewCollidable(d drawing.Drawable, opts Options, fill Fill) (*CollidableObject, error) {
	base, err := New(d, opts)
	if err != nil {
		return nil, err
	}
	return &CollidableObject{
		Object:   *base,
		collider: Collider{fill: fill},
	}, nil
}

// Collider exposes the collision state.
func (c *CollidableObject) Collider() *Collider { return &c.collider }

// CollideWith records a contact. An object resting exactly on top of the
// other one is flagged as on the floor.
func (c *CollidableObject) CollideWith(other Entity, phase Phase) {
	if phase != PhaseEnd {
		ob := other.Base()
		if c.Position().Y+c.Size().Y == ob.Position().Y {
			c.SetOnFloor(true)
		}
	}
	c.collider.Record(CollisionData{Other: other, Phase: phase})
}
