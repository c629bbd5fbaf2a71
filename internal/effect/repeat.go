// Package effect schedules time-driven behavior on entities and the screen.
package effect

import (
	"fmt"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// RepeatType decides how often a schedule fires.
type RepeatType int

const (
	// OnceInNextFrame fires on the first evaluation only.
	OnceInNextFrame RepeatType = iota
	// OnceInDuration fires once, after the duration has accumulated.
	OnceInDuration
	// IndefinitelyEveryFrame fires on every evaluation.
	IndefinitelyEveryFrame
	// IndefinitelyEveryDuration fires every time the duration accumulates.
	IndefinitelyEveryDuration
)

func (r RepeatType) String() string {
	switch r {
	case OnceInNextFrame:
		return "once-next-frame"
	case OnceInDuration:
		return "once-in-duration"
	case IndefinitelyEveryFrame:
		return "every-frame"
	case IndefinitelyEveryDuration:
		return "every-duration"
	default:
		return fmt.Sprintf("RepeatType(%d)", int(r))
	}
}

func (r RepeatType) valid() bool {
	return r >= OnceInNextFrame && r <= IndefinitelyEveryDuration
}

// Schedule is the clock shared by every effect kind. It is meant to be
// embedded so the effect picks up ShouldRun.
//
// Asking ShouldRun is what advances the clock: a call that fires resets
// the accumulator, any other call adds dt to it. The threshold is checked
// before dt is added, so the call that fires is the one after the total
// first reached the duration.
type Schedule struct {
	repeat   RepeatType
	duration core.Duration

	timePast float64
	elapsed  float64
	lastRan  float64
	runs     int
	paused   bool
}

// NewSchedule validates the pair. Frame-based types ignore the duration.
func NewSchedule(repeat RepeatType, d core.Duration) (Schedule, error) {
	if !repeat.valid() {
		return Schedule{}, fmt.Errorf("effect: unknown repeat type %d", int(repeat))
	}
	return Schedule{repeat: repeat, duration: d}, nil
}

// MustSchedule is NewSchedule for literals known to be valid.
func MustSchedule(repeat RepeatType, d core.Duration) Schedule {
	s, err := NewSchedule(repeat, d)
	if err != nil {
		panic(err)
	}
	return s
}

// ShouldRun reports whether the effect fires this tick. dt is in milliseconds.
func (s *Schedule) ShouldRun(dt float64) bool {
	if s.paused {
		return false
	}

	var fire bool
	switch s.repeat {
	case OnceInNextFrame:
		fire = s.runs == 0
	case OnceInDuration:
		fire = s.runs == 0 && s.timePast >= s.duration.Milliseconds()
	case IndefinitelyEveryFrame:
		fire = true
	case IndefinitelyEveryDuration:
		fire = s.timePast != 0 && s.timePast >= s.duration.Milliseconds()
	}

	s.elapsed += dt
	if fire {
		s.timePast = 0
		s.lastRan = s.elapsed
		s.runs++
		return true
	}
	s.timePast += dt
	return false
}

// Repeat returns the repeat type.
func (s *Schedule) Repeat() RepeatType { return s.repeat }

// Duration returns the configured period.
func (s *Schedule) Duration() core.Duration { return s.duration }

// SetDuration changes the period. Accumulated time is kept, so a shorter
// period can fire on the next call.
func (s *Schedule) SetDuration(d core.Duration) { s.duration = d }

// TimePast is the time accumulated since the schedule last fired.
func (s *Schedule) TimePast() float64 { return s.timePast }

// LastRan is the total evaluated time, in milliseconds, at the last firing.
// It is 0 until the first firing.
func (s *Schedule) LastRan() float64 { return s.lastRan }

// Runs counts firings.
func (s *Schedule) Runs() int { return s.runs }

// Done reports whether a once-only schedule has already fired.
func (s *Schedule) Done() bool {
	return (s.repeat == OnceInNextFrame || s.repeat == OnceInDuration) && s.runs > 0
}

// Pause stops firing without touching the accumulators.
func (s *Schedule) Pause() { s.paused = true }

// Resume undoes Pause.
func (s *Schedule) Resume() { s.paused = false }

// Paused reports whether the schedule is paused.
func (s *Schedule) Paused() bool { return s.paused }

// Reset clears every accumulator so once-only schedules can fire again.
func (s *Schedule) Reset() {
	s.timePast, s.elapsed, s.lastRan, s.runs = 0, 0, 0, 0
}
