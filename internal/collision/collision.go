// Package collision runs the broad-phase box test between collidable entities.
package collision

import (
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// AreWithinBounds reports whether b lies inside a grown by b's own size on
// every side, i.e. b sits where any overlap with a is possible. It is
// deliberately permissive: near misses at box granularity count.
func AreWithinBounds(a, b core.Bounds) bool {
	return a.Expand(b.Size()).ContainsBounds(b)
}

// AreOnlyTouchingBorders is the hollow test: b is within reach of a but not
// fully inside it.
func AreOnlyTouchingBorders(a, b core.Bounds) bool {
	return AreWithinBounds(a, b) && !a.ContainsBounds(b)
}

// Hit applies the fill mode of the collider owning a.
func Hit(fill object.Fill, a, b core.Bounds) bool {
	if fill == object.Hollow {
		return AreOnlyTouchingBorders(a, b)
	}
	return AreWithinBounds(a, b)
}

// System detects contacts for one collidable at a time. The zero value
// reports every contact as continuing.
type System struct {
	// TrackPhases diffs each entity's contacts against the previous tick
	// so contacts start, continue and end.
	TrackPhases bool

	prev map[*object.Object]map[*object.Object]object.Entity
}

// NewSystem builds a system.
func NewSystem(trackPhases bool) *System {
	return &System{TrackPhases: trackPhases}
}

// Run clears self's contacts and tests it against every other collidable
// in others. It returns the number of contacts found this tick.
func (s *System) Run(self object.Collidable, others []object.Entity) int {
	col := self.Collider()
	col.Clear()

	me := self.Base()
	bounds := me.Bounds()
	var current map[*object.Object]object.Entity
	if s.TrackPhases {
		current = make(map[*object.Object]object.Entity)
	}

	hits := 0
	for _, other := range others {
		ob := other.Base()
		if ob == me || ob.Disposed() {
			continue
		}
		if _, ok := other.(object.Collidable); !ok {
			continue
		}
		if !Hit(col.Fill(), bounds, ob.Bounds()) {
			continue
		}
		hits++

		phase := object.PhaseContinuing
		if s.TrackPhases {
			current[ob] = other
			if _, seen := s.prev[me][ob]; !seen {
				phase = object.PhaseStart
			}
		}
		self.CollideWith(other, phase)
	}

	if s.TrackPhases {
		for ob, other := range s.prev[me] {
			if _, still := current[ob]; !still {
				self.CollideWith(other, object.PhaseEnd)
			}
		}
		if s.prev == nil {
			s.prev = make(map[*object.Object]map[*object.Object]object.Entity)
		}
		s.prev[me] = current
	}
	return hits
}

// Forget drops every remembered contact involving e. The engine calls it
// when e is swept, so no end phase is reported for removed entities.
func (s *System) Forget(e object.Entity) {
	if s.prev == nil {
		return
	}
	ob := e.Base()
	delete(s.prev, ob)
	for _, set := range s.prev {
		delete(set, ob)
	}
}

// Tracked returns how many entities have remembered contacts.
func (s *System) Tracked() int { return len(s.prev) }
