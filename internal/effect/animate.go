package effect

import (
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// Animate advances the target's drawing by one frame every period.
type Animate struct {
	Schedule
}

// NewAnimate builds an every-duration animation.
func NewAnimate(period core.Duration) *Animate {
	return &Animate{Schedule: MustSchedule(IndefinitelyEveryDuration, period)}
}

// Run steps the target's drawing. Screen effects have no target and do nothing.
func (a *Animate) Run(dt float64, ctx *object.Context, target object.Entity) {
	if target == nil {
		return
	}
	target.Base().Drawing().NextState()
}

func (a *Animate) Dispose() {}

// Move shifts the target by a fixed step every period.
type Move struct {
	Schedule
	Step core.Vec2
}

// NewMove builds an every-duration mover. A zero period moves every tick.
func NewMove(step core.Vec2, period core.Duration) *Move {
	repeat := IndefinitelyEveryDuration
	if period.Milliseconds() == 0 {
		repeat = IndefinitelyEveryFrame
	}
	return &Move{Schedule: MustSchedule(repeat, period), Step: step}
}

// Run moves the target.
func (m *Move) Run(dt float64, ctx *object.Context, target object.Entity) {
	if target == nil {
		return
	}
	target.Base().Move(m.Step)
}

func (m *Move) Dispose() {}

var (
	_ object.Effect = (*Callbacks)(nil)
	_ object.Effect = (*Spawn)(nil)
	_ object.Effect = (*Sound)(nil)
	_ object.Effect = (*Animate)(nil)
	_ object.Effect = (*Move)(nil)
)
