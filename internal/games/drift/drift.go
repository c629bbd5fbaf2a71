// Package drift is a small demo scene: framed words drift across the
// screen and are swept once they leave it.
package drift

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/effect"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/games/widgets"
	"github.com/vovakirdan/tui-engine/internal/object"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

// SceneID is the registry id of the scene.
const SceneID = "drift"

const (
	minSpeed = 1
	maxSpeed = 4
)

var words = []string{"hello", "tick", "sweep", "panel", "frame", "drift", "blit"}

var palette = []core.Color{
	core.ColorCyan, core.ColorMagenta, core.ColorYellow, core.ColorGreen, core.ColorBrightBlue,
}

func init() {
	registry.Register(SceneID, func() registry.Scene { return New(time.Now().UnixNano()) })
}

// Word is a text box that moves right by the scene's speed every tick.
type Word struct {
	*widgets.TextBox
	scene *Scene
}

// drift moves the word before flags are computed, so it is classified on
// the tick it crosses the edge.
func (w *Word) drift(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
	w.Move(core.V(w.scene.speed, 0))
}

// OnDispose counts the word as swept.
func (w *Word) OnDispose() {
	w.scene.swept++
}

// controls is the persistent hint line. Left and right change the speed.
type controls struct {
	*widgets.TextBox
	scene *Scene
}

func (c *controls) OnUpdate(dt float64, ctx *object.Context) {
	a, ok := c.KeyPressed()
	if !ok {
		return
	}
	switch a {
	case core.ActionLeft:
		c.scene.speed = max(c.scene.speed-1, minSpeed)
	case core.ActionRight:
		c.scene.speed = min(c.scene.speed+1, maxSpeed)
	}
	if err := c.SetText(c.scene.hint()); err != nil {
		ctx.Log.Warn("hint not updated", "error", err)
	}
}

// Scene spawns words on a timer.
type Scene struct {
	rng     *rand.Rand
	speed   int
	spawned int
	swept   int
}

// New builds a scene. seed drives word choice and rows.
func New(seed int64) *Scene {
	return &Scene{rng: rand.New(rand.NewSource(seed)), speed: 2}
}

func (s *Scene) ID() string    { return SceneID }
func (s *Scene) Title() string { return "Drift" }

// Setup adds the hint line and the word spawner.
func (s *Scene) Setup(e *engine.Engine) error {
	vp := e.Viewport()
	hint, err := widgets.NewTextBox(s.hint(), object.Options{
		Tags:       []string{"hint"},
		Position:   core.V(2, vp.Floor-1),
		Persistent: true,
		ListenKeys: true,
		Color:      core.ColorGray,
	}, false)
	if err != nil {
		return err
	}
	spawner, err := effect.NewSpawn(effect.IndefinitelyEveryDuration, core.Ms(600), s.spawnWord)
	if err != nil {
		return err
	}
	e.Add(&controls{TextBox: hint, scene: s})
	e.AddScreenEffect(spawner)
	return nil
}

func (s *Scene) spawnWord(dt float64, ctx *object.Context) []object.Entity {
	vp := ctx.Viewport
	// Framed words are three rows tall and must stay between roof and floor.
	rows := vp.Floor - vp.Roof - 3
	if rows <= 0 {
		return nil
	}
	w, err := s.NewWord(words[s.rng.Intn(len(words))], core.V(1, vp.Roof+s.rng.Intn(rows+1)))
	if err != nil {
		ctx.Log.Warn("word not spawned", "error", err)
		return nil
	}
	return []object.Entity{w}
}

// NewWord builds a framed word at pos that drifts with the scene's speed.
func (s *Scene) NewWord(text string, pos core.Vec2) (*Word, error) {
	box, err := widgets.NewTextBox(text, object.Options{
		Tags:     []string{"word"},
		Position: pos,
		Color:    palette[s.spawned%len(palette)],
	}, true)
	if err != nil {
		return nil, err
	}
	s.spawned++
	w := &Word{TextBox: box, scene: s}
	w.AddEffect(effect.EveryFrame(w.drift))
	return w, nil
}

func (s *Scene) hint() string {
	return fmt.Sprintf("speed %d  left/right to change", s.speed)
}

// Status reports how many words have come and gone.
func (s *Scene) Status() string {
	return fmt.Sprintf("spawned %d  swept %d", s.spawned, s.swept)
}

// Speed returns the columns each word moves per tick.
func (s *Scene) Speed() int { return s.speed }
