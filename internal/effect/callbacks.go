package effect

import (
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// Callback is invoked on every firing. self is the effect that fired, so a
// callback can pause or reset its own schedule. target is nil for screen effects.
type Callback func(dt float64, ctx *object.Context, self *Callbacks, target object.Entity)

// Callbacks runs a list of callbacks each time its schedule fires.
type Callbacks struct {
	Schedule
	callbacks []Callback
}

// NewCallbacks builds an effect with the given schedule and callbacks.
func NewCallbacks(repeat RepeatType, d core.Duration, fns ...Callback) (*Callbacks, error) {
	s, err := NewSchedule(repeat, d)
	if err != nil {
		return nil, err
	}
	c := &Callbacks{Schedule: s}
	for _, fn := range fns {
		c.AddCallback(fn)
	}
	return c, nil
}

// Every is shorthand for an every-duration callback effect.
func Every(d core.Duration, fns ...Callback) *Callbacks {
	c, _ := NewCallbacks(IndefinitelyEveryDuration, d, fns...)
	return c
}

// EveryFrame is shorthand for a callback effect that fires every tick.
func EveryFrame(fns ...Callback) *Callbacks {
	c, _ := NewCallbacks(IndefinitelyEveryFrame, core.Duration{}, fns...)
	return c
}

// AddCallback appends fn. Nil callbacks are ignored.
func (c *Callbacks) AddCallback(fn Callback) {
	if fn == nil {
		return
	}
	c.callbacks = append(c.callbacks, fn)
}

// RemoveCallbacks drops every callback.
func (c *Callbacks) RemoveCallbacks() {
	c.callbacks = nil
}

// Len returns the number of registered callbacks.
func (c *Callbacks) Len() int { return len(c.callbacks) }

// Run invokes the callbacks in registration order.
func (c *Callbacks) Run(dt float64, ctx *object.Context, target object.Entity) {
	for _, fn := range c.callbacks {
		fn(dt, ctx, c, target)
	}
}

// Dispose releases the callbacks and any state they captured.
func (c *Callbacks) Dispose() {
	c.RemoveCallbacks()
}
