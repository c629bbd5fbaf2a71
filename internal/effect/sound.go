package effect

import (
	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// Sound plays a clip when its schedule fires. A stopped sound never fires
// again and releases the clip.
type Sound struct {
	Schedule
	clip    audio.Sound
	stopped bool
}

// NewSound wraps clip. autoPlay false starts the effect paused.
func NewSound(clip audio.Sound, repeat RepeatType, d core.Duration, autoPlay bool) (*Sound, error) {
	s, err := NewSchedule(repeat, d)
	if err != nil {
		return nil, err
	}
	e := &Sound{Schedule: s, clip: clip}
	if !autoPlay {
		e.Schedule.Pause()
	}
	return e, nil
}

// OneShot plays clip on the next tick only.
func OneShot(clip audio.Sound) *Sound {
	e, _ := NewSound(clip, OnceInNextFrame, core.Duration{}, true)
	return e
}

// ShouldRun never fires once the sound is stopped.
func (s *Sound) ShouldRun(dt float64) bool {
	if s.stopped || s.clip == nil {
		return false
	}
	return s.Schedule.ShouldRun(dt)
}

// Run starts the clip from the beginning.
func (s *Sound) Run(dt float64, ctx *object.Context, target object.Entity) {
	if s.clip != nil {
		s.clip.Play()
	}
}

// Play re-enables firing.
func (s *Sound) Play() { s.Schedule.Resume() }

// Pause stops firing and pauses the clip if it is playing.
func (s *Sound) Pause() {
	s.Schedule.Pause()
	if s.clip != nil {
		s.clip.Pause()
	}
}

// Stop pauses and then disposes the effect.
func (s *Sound) Stop() {
	s.Pause()
	s.Dispose()
}

// Stopped reports whether Stop or Dispose has run.
func (s *Sound) Stopped() bool { return s.stopped }

// Dispose stops the clip and drops it.
func (s *Sound) Dispose() {
	if s.stopped {
		return
	}
	s.stopped = true
	if s.clip != nil {
		s.clip.Stop()
		s.clip = nil
	}
}
