package engine

import "time"

// Clock reports the current time. Tests substitute a manual clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FrameTimer measures the time between successive tick starts.
type FrameTimer struct {
	clock   Clock
	last    time.Time
	started bool
	frames  uint64
}

// NewFrameTimer builds a timer on clock. A nil clock uses wall time.
func NewFrameTimer(clock Clock) *FrameTimer {
	if clock == nil {
		clock = systemClock{}
	}
	return &FrameTimer{clock: clock}
}

// Tick marks the start of a frame and returns the milliseconds since the
// previous start. The first call returns 0.
func (t *FrameTimer) Tick() float64 {
	now := t.clock.Now()
	t.frames++
	if !t.started {
		t.started = true
		t.last = now
		return 0
	}
	dt := now.Sub(t.last)
	t.last = now
	if dt < 0 {
		return 0
	}
	return float64(dt) / float64(time.Millisecond)
}

// Frames counts calls to Tick.
func (t *FrameTimer) Frames() uint64 { return t.frames }

// ManualClock is a Clock that only moves when told to.
type ManualClock struct {
	now time.Time
}

// NewManualClock starts at a fixed instant.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Unix(0, 0)}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Advance moves the clock forward.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }
