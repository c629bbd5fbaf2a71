package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-engine/internal/core"
)

//go:embed defaults/engine.yaml
var defaultEngineYAML []byte

//go:embed defaults/flappy.yaml
var defaultFlappyYAML []byte

// DefaultEngine returns the hard-coded engine configuration.
func DefaultEngine() Engine {
	return Engine{
		Window: Window{
			Width:       90,
			Height:      35,
			FloorOffset: 6,
			Roof:        1,
		},
		FrameCap: 30,
		Audio: Audio{
			Enabled:    true,
			SampleRate: 44100,
		},
	}
}

// DefaultFlappy returns the hard-coded flappy configuration.
func DefaultFlappy() Flappy {
	return Flappy{
		Physics: FlappyPhysics{
			GravityEvery: core.Ms(90),
			FlapHeight:   3,
		},
		Pipes: FlappyPipes{
			SpawnEvery:  core.MustDuration(3, core.Seconds),
			ScrollEvery: core.Ms(110),
			Gap:         10,
			MinHeight:   0.2,
			MaxHeight:   0.6,
		},
		Player: FlappyPlayer{
			X:         10,
			Y:         8,
			WingEvery: core.Ms(250),
		},
		Difficulty: DifficultyConfig{
			Enabled: true,
			Progression: ProgressionConfig{
				Type:  "score",
				MaxAt: 30,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 1.0,
				GapReduction:    4,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "engine":
		return defaultEngineYAML
	case "flappy":
		return defaultFlappyYAML
	default:
		return nil
	}
}
