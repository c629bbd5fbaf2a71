// Package config provides YAML-based engine and demo-scene configuration.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/tui-engine/internal/core"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid")

// Engine is the configuration surface the engine loop consumes.
type Engine struct {
	Window    Window    `yaml:"window"`
	FrameCap  int       `yaml:"frame_cap"` // ticks per second ceiling
	DebugMode bool      `yaml:"debug_mode"`
	Collision Collision `yaml:"collision"`
	Audio     Audio     `yaml:"audio"`
	Metrics   Metrics   `yaml:"metrics"`
}

// Window defines the viewport extents.
type Window struct {
	Width       int `yaml:"width"`
	Height      int `yaml:"height"`
	FloorOffset int `yaml:"floor_offset"` // floor = height - floor_offset
	Roof        int `yaml:"roof"`
}

// Collision tunes the collision system.
type Collision struct {
	TrackPhases bool `yaml:"track_phases"`
}

// Audio configures the speaker.
type Audio struct {
	Enabled    bool `yaml:"enabled"`
	SampleRate int  `yaml:"sample_rate"`
}

// Metrics configures the observability listener. Empty Addr disables it.
type Metrics struct {
	Addr string `yaml:"addr"`
}

// Validate rejects sizes and extents the engine cannot run with.
func (e Engine) Validate() error {
	w := e.Window
	switch {
	case w.Width <= 0 || w.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalidConfig, w.Width, w.Height)
	case w.FloorOffset < 0 || w.Roof < 0:
		return fmt.Errorf("%w: negative floor_offset %d or roof %d", ErrInvalidConfig, w.FloorOffset, w.Roof)
	case w.Height-w.FloorOffset <= w.Roof:
		return fmt.Errorf("%w: floor %d is not below roof %d", ErrInvalidConfig, w.Height-w.FloorOffset, w.Roof)
	case e.FrameCap <= 0:
		return fmt.Errorf("%w: frame_cap %d", ErrInvalidConfig, e.FrameCap)
	case e.Audio.Enabled && e.Audio.SampleRate < 0:
		return fmt.Errorf("%w: sample_rate %d", ErrInvalidConfig, e.Audio.SampleRate)
	}
	return nil
}

// Viewport derives the extents objects classify against.
func (e Engine) Viewport() core.Viewport {
	return core.NewViewport(e.Window.Width, e.Window.Height, e.Window.FloorOffset, e.Window.Roof)
}

// Flappy contains all configuration for the flappy demo scene.
type Flappy struct {
	Physics    FlappyPhysics    `yaml:"physics"`
	Pipes      FlappyPipes      `yaml:"pipes"`
	Player     FlappyPlayer     `yaml:"player"`
	Sounds     FlappySounds     `yaml:"sounds"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// FlappyPhysics defines how the bird falls and flaps.
type FlappyPhysics struct {
	GravityEvery core.Duration `yaml:"gravity_every"` // one row down per period
	FlapHeight   int           `yaml:"flap_height"`   // rows gained per flap
}

// FlappyPipes defines pipe spawning and scrolling.
type FlappyPipes struct {
	SpawnEvery  core.Duration `yaml:"spawn_every"`
	ScrollEvery core.Duration `yaml:"scroll_every"`
	Gap         int           `yaml:"gap"`
	MinHeight   float64       `yaml:"min_height"` // fraction of window height
	MaxHeight   float64       `yaml:"max_height"`
}

// FlappyPlayer defines the bird's start and animation.
type FlappyPlayer struct {
	X         int           `yaml:"x"`
	Y         int           `yaml:"y"`
	WingEvery core.Duration `yaml:"wing_every"`
}

// FlappySounds lists optional clip paths. Empty paths play nothing.
type FlappySounds struct {
	Flap string `yaml:"flap"`
	Hit  string `yaml:"hit"`
}

// Validate rejects tuning the scene cannot spawn pipes with.
func (f Flappy) Validate() error {
	p := f.Pipes
	switch {
	case p.Gap <= 0:
		return fmt.Errorf("%w: pipe gap %d", ErrInvalidConfig, p.Gap)
	case p.MinHeight < 0 || p.MaxHeight > 1 || p.MinHeight > p.MaxHeight:
		return fmt.Errorf("%w: pipe height range [%v, %v]", ErrInvalidConfig, p.MinHeight, p.MaxHeight)
	case f.Physics.FlapHeight <= 0:
		return fmt.Errorf("%w: flap_height %d", ErrInvalidConfig, f.Physics.FlapHeight)
	}
	return nil
}
