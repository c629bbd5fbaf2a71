// Package flappy is the demo scene: a bird flaps through scrolling pipe
// pairs until it hits one or the floor.
package flappy

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/effect"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/games/widgets"
	"github.com/vovakirdan/tui-engine/internal/object"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

// SceneID is the registry id of the scene.
const SceneID = "flappy"

// spawnMargin is how far from the right edge new pipes appear.
const spawnMargin = 14

func init() {
	registry.Register(SceneID, func() registry.Scene {
		return New(config.DefaultFlappy(), time.Now().UnixNano())
	})
}

// Scene wires the bird, the pipe spawner and the score display into an engine.
type Scene struct {
	cfg  config.Flappy
	diff *config.DifficultyManager
	rng  *rand.Rand

	eng      *engine.Engine
	bird     *Bird
	scoreBox *widgets.TextBox
	spawner  *effect.Spawn

	score int
	over  bool
}

// New builds a scene. seed drives pipe heights.
func New(cfg config.Flappy, seed int64) *Scene {
	return &Scene{
		cfg:  cfg,
		diff: config.NewDifficultyManager(cfg.Difficulty),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (s *Scene) ID() string    { return SceneID }
func (s *Scene) Title() string { return "Flappy" }

// Tune loads the scene config and applies a difficulty preset.
func (s *Scene) Tune(opts registry.Options) error {
	cfg, err := config.LoadFlappy(opts.ConfigPath)
	if err != nil {
		return err
	}
	if opts.Difficulty != "" {
		preset, err := config.ParsePreset(opts.Difficulty)
		if err != nil {
			return err
		}
		config.ApplyFlappyPreset(&cfg, preset)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	s.cfg = cfg
	s.diff = config.NewDifficultyManager(cfg.Difficulty)
	return nil
}

// Setup adds the bird and score display, then schedules pipe spawning
// and scoring on the screen.
func (s *Scene) Setup(e *engine.Engine) error {
	vp := e.Viewport()
	if vp.Floor-vp.Roof < s.cfg.Pipes.Gap+2*pipeCapRows {
		return fmt.Errorf("flappy: playfield of %d rows cannot fit a gap of %d", vp.Floor-vp.Roof, s.cfg.Pipes.Gap)
	}
	s.eng = e

	bird, err := NewBird(s.cfg, s.gameOver)
	if err != nil {
		return err
	}
	s.bird = bird

	box, err := widgets.NewTextBox(s.scoreText(), object.Options{
		Tags:       []string{"score"},
		Position:   core.V(2, vp.Roof),
		Priority:   20,
		Persistent: true,
		Color:      core.ColorBrightWhite,
	}, false)
	if err != nil {
		return err
	}
	s.scoreBox = box

	spawner, err := effect.NewSpawn(effect.IndefinitelyEveryDuration, s.cfg.Pipes.SpawnEvery, s.spawnPair)
	if err != nil {
		return err
	}
	s.spawner = spawner

	e.Add(bird, box)
	e.AddScreenEffect(spawner)
	e.AddScreenEffect(effect.EveryFrame(s.updateScore))
	return nil
}

// spawnPair builds a top and bottom pipe around a gap at a random height.
func (s *Scene) spawnPair(dt float64, ctx *object.Context) []object.Entity {
	if s.over {
		return nil
	}
	vp := ctx.Viewport
	field := vp.Floor - vp.Roof
	gap := s.diff.GapSize(s.cfg.Pipes.Gap, s.score, ctx.Tick)
	top, bottom := pipeHeights(s.rng, field, gap, s.cfg.Pipes.MinHeight, s.cfg.Pipes.MaxHeight)

	scroll := s.diff.Interval(s.cfg.Pipes.ScrollEvery, s.score, ctx.Tick)
	x := vp.Width - spawnMargin
	upper, err := NewPipe(true, top, core.V(x, vp.Roof), scroll)
	if err != nil {
		ctx.Log.Warn("pipe not spawned", "error", err)
		return nil
	}
	lower, err := NewPipe(false, bottom, core.V(x, vp.Floor-bottom), scroll)
	if err != nil {
		ctx.Log.Warn("pipe not spawned", "error", err)
		return nil
	}
	s.spawner.SetDuration(s.diff.Interval(s.cfg.Pipes.SpawnEvery, s.score, ctx.Tick))
	ctx.Log.Debug("pipes spawned", "top", top, "bottom", bottom, "gap", gap)
	return []object.Entity{upper, lower}
}

// pipeHeights splits field rows into a top pipe, a gap and a bottom pipe.
// Both pipes keep at least their cap.
func pipeHeights(rng *rand.Rand, field, gap int, minFrac, maxFrac float64) (top, bottom int) {
	lo := max(int(float64(field)*minFrac), pipeCapRows)
	hi := min(int(float64(field)*maxFrac), field-gap-pipeCapRows)
	if hi < lo {
		hi = lo
	}
	top = lo + rng.Intn(hi-lo+1)
	bottom = max(field-gap-top, pipeCapRows)
	return top, bottom
}

// updateScore counts a point for every top pipe the bird has cleared.
func (s *Scene) updateScore(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
	if s.over {
		self.Pause()
		return
	}
	birdX := s.bird.Bounds().XStart
	for _, ent := range ctx.World.FindByTag("top") {
		p, ok := ent.(*Pipe)
		if !ok || p.passed || p.Bounds().XEnd > birdX {
			continue
		}
		p.passed = true
		s.score++
	}
	if err := s.scoreBox.SetText(s.scoreText()); err != nil {
		ctx.Log.Warn("score not updated", "error", err)
	}
}

func (s *Scene) scoreText() string { return fmt.Sprintf("score %d", s.score) }

func (s *Scene) gameOver() {
	s.over = true
	s.spawner.Pause()
	for _, ent := range s.eng.FindByTag("pipe") {
		for _, eff := range ent.Base().Effects() {
			if m, ok := eff.(*effect.Move); ok {
				m.Pause()
			}
		}
	}
}

// Status reports the score for the status bar.
func (s *Scene) Status() string {
	if s.over {
		return fmt.Sprintf("score %d  crashed", s.score)
	}
	return s.scoreText()
}

// Finished reports whether the bird has crashed.
func (s *Scene) Finished() bool { return s.over }

// Score returns the number of pipes cleared.
func (s *Scene) Score() int { return s.score }

// Bird returns the player entity.
func (s *Scene) Bird() *Bird { return s.bird }
