package effect

import (
	"errors"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// ErrNilFactory is returned when a spawn effect is built without a factory.
var ErrNilFactory = errors.New("effect: nil spawn factory")

// Factory builds the entities a Spawn effect adds to the world.
type Factory func(dt float64, ctx *object.Context) []object.Entity

// Spawn stages the factory's entities on every firing. They land at the
// end of the tick.
type Spawn struct {
	Schedule
	factory Factory
	spawned int
}

// NewSpawn builds a spawn effect.
func NewSpawn(repeat RepeatType, d core.Duration, factory Factory) (*Spawn, error) {
	if factory == nil {
		return nil, ErrNilFactory
	}
	s, err := NewSchedule(repeat, d)
	if err != nil {
		return nil, err
	}
	return &Spawn{Schedule: s, factory: factory}, nil
}

// Run calls the factory and hands the results to the world.
func (s *Spawn) Run(dt float64, ctx *object.Context, target object.Entity) {
	if s.factory == nil || ctx == nil || ctx.World == nil {
		return
	}
	for _, e := range s.factory(dt, ctx) {
		if e == nil {
			continue
		}
		ctx.World.Spawn(e)
		s.spawned++
	}
}

// Spawned counts entities handed to the world so far.
func (s *Spawn) Spawned() int { return s.spawned }

// Dispose drops the factory.
func (s *Spawn) Dispose() {
	s.factory = nil
}
