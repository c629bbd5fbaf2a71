package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-engine/internal/core"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	eng, err := LoadEngine("")
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if eng != DefaultEngine() {
		t.Errorf("LoadEngine() = %+v, expected %+v", eng, DefaultEngine())
	}

	fl, err := LoadFlappy("")
	if err != nil {
		t.Fatalf("LoadFlappy() error = %v", err)
	}
	if fl != DefaultFlappy() {
		t.Errorf("LoadFlappy() = %+v, expected %+v", fl, DefaultFlappy())
	}
}

func TestLoadEngineCustomPathOverridesKeys(t *testing.T) {
	path := writeFile(t, "engine.yaml", "window:\n  width: 40\nframe_cap: 60\ncollision:\n  track_phases: true\n")

	cfg, err := LoadEngine(path)
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if cfg.Window.Width != 40 || cfg.FrameCap != 60 || !cfg.Collision.TrackPhases {
		t.Errorf("LoadEngine() = %+v, expected overridden width, frame_cap and track_phases", cfg)
	}
	if cfg.Window.Height != 35 {
		t.Errorf("Window.Height = %d, expected default 35", cfg.Window.Height)
	}
}

func TestLoadEngineLocalDirectory(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.MkdirAll("configs", 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join("configs", "engine.yaml"), []byte("frame_cap: 12\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEngine("")
	if err != nil {
		t.Fatalf("LoadEngine() error = %v", err)
	}
	if cfg.FrameCap != 12 {
		t.Errorf("FrameCap = %d, expected 12", cfg.FrameCap)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path func(t *testing.T) string
	}{
		{"missing file", func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.yaml") }},
		{"bad yaml", func(t *testing.T) string { return writeFile(t, "bad.yaml", "window: [") }},
		{"bad duration", func(t *testing.T) string { return writeFile(t, "bad.yaml", "physics:\n  gravity_every: fast\n") }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := LoadFlappy(tc.path(t)); err == nil {
				t.Error("LoadFlappy() error = nil, expected an error")
			}
		})
	}
}

func TestEngineValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Engine)
		ok     bool
	}{
		{"defaults", func(e *Engine) {}, true},
		{"zero width", func(e *Engine) { e.Window.Width = 0 }, false},
		{"floor above roof", func(e *Engine) { e.Window.FloorOffset = 34 }, false},
		{"negative roof", func(e *Engine) { e.Window.Roof = -1 }, false},
		{"zero frame cap", func(e *Engine) { e.FrameCap = 0 }, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultEngine()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() error = %v, expected nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() error = %v, expected ErrInvalidConfig", err)
			}
		})
	}
}

func TestViewport(t *testing.T) {
	vp := DefaultEngine().Viewport()
	expected := core.Viewport{Width: 90, Height: 35, Floor: 29, Roof: 1}
	if vp != expected {
		t.Errorf("Viewport() = %+v, expected %+v", vp, expected)
	}
}

func TestDifficultyManager(t *testing.T) {
	cfg := DefaultFlappy().Difficulty
	dm := NewDifficultyManager(cfg)

	if got := dm.Level(0, 0); got != 0 {
		t.Errorf("Level(0) = %v, expected 0", got)
	}
	if got := dm.Level(1000, 0); got != 1 {
		t.Errorf("Level(1000) = %v, expected 1", got)
	}

	base := core.Ms(110)
	if got := dm.Interval(base, 0, 0); got != base {
		t.Errorf("Interval() at level 0 = %v, expected %v", got, base)
	}
	if got := dm.Interval(base, 30, 0); got != core.Ms(55) {
		t.Errorf("Interval() at max level = %v, expected 55ms", got)
	}
	if got := dm.GapSize(10, 30, 0); got != 6 {
		t.Errorf("GapSize() at max level = %d, expected 6", got)
	}
	if got := dm.GapSize(5, 30, 0); got != minGap {
		t.Errorf("GapSize() = %d, expected floor %d", got, minGap)
	}

	fl := DefaultFlappy()
	ApplyFlappyPreset(&fl, DifficultyFixed)
	fixed := NewDifficultyManager(fl.Difficulty)
	if fixed.IsEnabled() || fixed.Level(1000, 0) != 0 {
		t.Error("fixed preset should disable progression")
	}

	ApplyFlappyPreset(&fl, DifficultyHard)
	if fl.Difficulty.InitialLevel != 0.7 || !fl.Difficulty.Enabled {
		t.Errorf("hard preset = %+v, expected enabled at 0.7", fl.Difficulty)
	}
}

func TestParsePreset(t *testing.T) {
	for _, name := range []string{"easy", "normal", "hard", "fixed"} {
		if _, err := ParsePreset(name); err != nil {
			t.Errorf("ParsePreset(%q) error = %v", name, err)
		}
	}
	if _, err := ParsePreset("brutal"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("ParsePreset(brutal) error = %v, expected ErrInvalidConfig", err)
	}
}
