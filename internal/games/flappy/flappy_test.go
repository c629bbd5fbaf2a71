package flappy

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/object"
	"github.com/vovakirdan/tui-engine/internal/platform/canvas"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

func newScene(t *testing.T) (*Scene, *engine.Engine, *engine.ManualClock) {
	t.Helper()
	clock := engine.NewManualClock()
	e := engine.New(config.DefaultEngine(), nil, nil, nil, engine.WithClock(clock))
	s := New(config.DefaultFlappy(), 1)
	if err := s.Setup(e); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	return s, e, clock
}

func TestPipeHeights(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	tests := []struct {
		name     string
		field    int
		gap      int
		min, max float64
	}{
		{"default range", 28, 10, 0.2, 0.6},
		{"tight field", 14, 10, 0.2, 0.6},
		{"full range", 40, 4, 0, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			for range 50 {
				top, bottom := pipeHeights(rng, tc.field, tc.gap, tc.min, tc.max)
				if top < pipeCapRows || bottom < pipeCapRows {
					t.Fatalf("pipeHeights() = %d, %d, expected both >= %d", top, bottom, pipeCapRows)
				}
				if top+tc.gap+bottom != tc.field {
					t.Fatalf("pipeHeights() = %d, %d with gap %d, expected a total of %d", top, bottom, tc.gap, tc.field)
				}
			}
		})
	}
}

func TestNewPipe(t *testing.T) {
	p, err := NewPipe(true, 6, core.V(40, 1), core.Ms(100))
	if err != nil {
		t.Fatal(err)
	}
	if p.Size() != core.V(pipeWidth, 6) {
		t.Errorf("Size() = %v, expected (%d, 6)", p.Size(), pipeWidth)
	}
	if !p.HasTag("pipe") || !p.HasTag("top") || !p.Top() {
		t.Errorf("Tags() = %v, expected pipe and top", p.Tags())
	}

	bottom, err := NewPipe(false, 3, core.V(40, 26), core.Ms(100))
	if err != nil {
		t.Fatal(err)
	}
	if !bottom.HasTag("bottom") || bottom.Top() {
		t.Errorf("Tags() = %v, expected pipe and bottom", bottom.Tags())
	}

	if _, err := NewPipe(true, 1, core.V(0, 0), core.Ms(100)); err == nil {
		t.Error("NewPipe(height 1) error = nil, expected an error")
	}
}

func TestFlapClampsAtRoof(t *testing.T) {
	cfg := config.DefaultFlappy()
	b, err := NewBird(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}
	vp := config.DefaultEngine().Viewport()

	b.SetPosition(core.V(10, 6))
	b.Flap(vp)
	if b.Position().Y != 3 {
		t.Errorf("Position().Y = %d after one flap, expected 3", b.Position().Y)
	}
	b.Flap(vp)
	if b.Position().Y != vp.Roof {
		t.Errorf("Position().Y = %d after two flaps, expected roof %d", b.Position().Y, vp.Roof)
	}
	if b.Flaps() != 2 {
		t.Errorf("Flaps() = %d, expected 2", b.Flaps())
	}
}

func TestBirdFallsToFloor(t *testing.T) {
	s, e, clock := newScene(t)

	for range 200 {
		clock.Advance(100 * time.Millisecond)
		e.Step()
		if s.Finished() {
			break
		}
	}
	if !s.Finished() || !s.Bird().Dead() {
		t.Fatal("bird should crash into the floor")
	}
	if s.Bird().Bounds().YEnd < e.Viewport().Floor {
		t.Errorf("Bounds().YEnd = %d, expected at least the floor %d", s.Bird().Bounds().YEnd, e.Viewport().Floor)
	}
	if !s.spawner.Paused() {
		t.Error("spawner should stop after the crash")
	}
	if got := s.Status(); got != "score 0  crashed" {
		t.Errorf("Status() = %q, expected %q", got, "score 0  crashed")
	}
}

func TestBirdHitsPipe(t *testing.T) {
	s, e, clock := newScene(t)

	p, err := NewPipe(true, 12, core.V(8, e.Viewport().Roof), core.Ms(100))
	if err != nil {
		t.Fatal(err)
	}
	e.Add(p)

	clock.Advance(30 * time.Millisecond)
	e.Step()
	if !s.Finished() {
		t.Fatal("bird overlapping a pipe should crash")
	}
	for _, eff := range p.Effects() {
		if sched, ok := eff.(interface{ Paused() bool }); ok && !sched.Paused() {
			t.Error("pipes should stop scrolling after the crash")
		}
	}
}

func TestScoreCountsClearedPipes(t *testing.T) {
	s, e, clock := newScene(t)
	s.Bird().SetPosition(core.V(40, 10))

	p, err := NewPipe(true, 5, core.V(20, e.Viewport().Roof), core.Ms(100))
	if err != nil {
		t.Fatal(err)
	}
	e.Add(p)

	for range 3 {
		clock.Advance(30 * time.Millisecond)
		e.Step()
	}
	if s.Score() != 1 {
		t.Errorf("Score() = %d, expected 1", s.Score())
	}
	if s.scoreBox.Text() != "score 1" {
		t.Errorf("score text = %q, expected %q", s.scoreBox.Text(), "score 1")
	}
}

func TestSpawnPair(t *testing.T) {
	s, e, _ := newScene(t)
	vp := e.Viewport()

	ents := s.spawnPair(0, e.Context())
	if len(ents) != 2 {
		t.Fatalf("spawnPair() = %d entities, expected 2", len(ents))
	}
	top, bottom := ents[0].(*Pipe), ents[1].(*Pipe)
	if top.Bounds().YStart != vp.Roof {
		t.Errorf("top YStart = %d, expected roof %d", top.Bounds().YStart, vp.Roof)
	}
	if bottom.Bounds().YEnd != vp.Floor {
		t.Errorf("bottom YEnd = %d, expected floor %d", bottom.Bounds().YEnd, vp.Floor)
	}
	gap := bottom.Bounds().YStart - top.Bounds().YEnd
	if gap != s.cfg.Pipes.Gap {
		t.Errorf("gap = %d, expected %d", gap, s.cfg.Pipes.Gap)
	}
	if x := top.Position().X; x != vp.Width-spawnMargin {
		t.Errorf("X = %d, expected %d", x, vp.Width-spawnMargin)
	}

	s.over = true
	if ents := s.spawnPair(0, e.Context()); ents != nil {
		t.Errorf("spawnPair() after the crash = %v, expected nil", ents)
	}
}

func TestSetupRejectsSmallPlayfield(t *testing.T) {
	cfg := config.DefaultEngine()
	cfg.Window.Height = 12
	e := engine.New(cfg, nil, nil, nil)
	if err := New(config.DefaultFlappy(), 1).Setup(e); err == nil {
		t.Error("Setup() error = nil, expected the gap not to fit")
	}
}

func TestTune(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flappy.yaml")
	if err := os.WriteFile(path, []byte("pipes:\n  gap: 6\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(config.DefaultFlappy(), 1)
	if err := s.Tune(registry.Options{ConfigPath: path, Difficulty: "hard"}); err != nil {
		t.Fatalf("Tune() error = %v", err)
	}
	if s.cfg.Pipes.Gap != 6 {
		t.Errorf("Gap = %d, expected 6", s.cfg.Pipes.Gap)
	}
	if s.cfg.Difficulty.InitialLevel != 0.7 {
		t.Errorf("InitialLevel = %v, expected 0.7", s.cfg.Difficulty.InitialLevel)
	}

	err := s.Tune(registry.Options{ConfigPath: path, Difficulty: "brutal"})
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("Tune(brutal) error = %v, expected ErrInvalidConfig", err)
	}
}

func TestRegistered(t *testing.T) {
	s, err := registry.Create(SceneID)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(registry.Finisher); !ok {
		t.Error("flappy scene should report when it is finished")
	}
	var _ object.Updater = (*Bird)(nil)
}

type clip struct{ plays int }

func (c *clip) Play()   { c.plays++ }
func (c *clip) Pause()  {}
func (c *clip) Resume() {}
func (c *clip) Stop()   {}

type recordingLoader map[string]*clip

func (l recordingLoader) Load(path string) (audio.Sound, error) {
	c := &clip{}
	l[path] = c
	return c, nil
}

func TestHitSoundPlaysOnCrash(t *testing.T) {
	cfg := config.DefaultFlappy()
	cfg.Sounds.Flap = "flap.wav"
	cfg.Sounds.Hit = "hit.wav"
	sounds := recordingLoader{}
	clock := engine.NewManualClock()
	e := engine.New(config.DefaultEngine(), nil, sounds, nil, engine.WithClock(clock))
	s := New(cfg, 1)
	if err := s.Setup(e); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}

	for range 200 {
		clock.Advance(100 * time.Millisecond)
		e.Step()
		if s.Finished() {
			break
		}
	}
	if !s.Finished() {
		t.Fatal("bird should crash into the floor")
	}
	hit, ok := sounds["hit.wav"]
	if !ok {
		t.Fatal("hit sound was never loaded")
	}
	if hit.plays != 1 {
		t.Errorf("hit plays = %d when the scene finished, expected 1", hit.plays)
	}
	if got := sounds["flap.wav"].plays; got != 0 {
		t.Errorf("flap plays = %d without a key, expected 0", got)
	}
}

func TestKeyFlapLandsBeforeFlags(t *testing.T) {
	cfg := config.DefaultEngine()
	c := canvas.New(cfg.Window.Width, cfg.Window.Height)
	e := engine.New(cfg, c, nil, nil, engine.WithClock(engine.NewManualClock()))
	s := New(config.DefaultFlappy(), 1)
	if err := s.Setup(e); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	vp := e.Viewport()
	b := s.Bird()
	b.SetPosition(core.V(10, vp.Roof+s.cfg.Physics.FlapHeight))

	// The bird's window exists after the first render.
	e.Step()
	c.PushKey(core.ActionJump)
	e.Step()
	if b.Flaps() != 1 {
		t.Fatalf("Flaps() = %d after jump, expected 1", b.Flaps())
	}
	if b.Position().Y != vp.Roof {
		t.Errorf("Position().Y = %d after jump, expected roof %d", b.Position().Y, vp.Roof)
	}
	if !b.Flags().OnRoof {
		t.Errorf("Flags() = %+v, expected on roof in the tick of the jump", b.Flags())
	}
}
