package flappy

import (
	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/drawing"
	"github.com/vovakirdan/tui-engine/internal/effect"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// Bird is the player. Gravity pulls it down one row per period; jump or
// up lifts it by the configured flap height.
type Bird struct {
	*object.CollidableObject

	cfg     config.Flappy
	gravity *effect.Move
	flap    *effect.Sound
	hit     audio.Sound
	onHit   func()
	dead    bool
	flaps   int
}

// birdDrawing stacks two wing frames over a single body frame.
func birdDrawing() *drawing.Stack {
	wings := drawing.New("wings").DrawStates(` /\ `, ` __ `)
	body := drawing.FromText("body", `(__o>`)
	return drawing.NewStack("bird").
		MustAdd(wings, drawing.Vertical, drawing.Center).
		MustAdd(body, drawing.Vertical, drawing.Center)
}

// NewBird builds the bird at the configured start position. onHit runs
// once, when the bird hits a pipe or the floor.
func NewBird(cfg config.Flappy, onHit func()) (*Bird, error) {
	c, err := object.NewCollidable(birdDrawing(), object.Options{
		Tags:       []string{"bird"},
		Position:   core.V(cfg.Player.X, cfg.Player.Y),
		Priority:   10,
		Persistent: true,
		ListenKeys: true,
		Color:      core.ColorBrightYellow,
	}, object.Filled)
	if err != nil {
		return nil, err
	}

	b := &Bird{
		CollidableObject: c,
		cfg:              cfg,
		gravity:          effect.NewMove(core.V(0, 1), cfg.Physics.GravityEvery),
		onHit:            onHit,
	}
	b.AddEffect(effect.NewAnimate(cfg.Player.WingEvery))
	b.AddEffect(b.gravity)
	b.AddEffect(effect.EveryFrame(b.control))
	return b, nil
}

// OnMount loads the configured sounds. A sound that fails to load is
// logged and skipped. The flap plays through an effect queued after
// control; the hit plays at once because the scene stops stepping on a
// crash.
func (b *Bird) OnMount(ctx *object.Context) {
	if clip := loadSound(ctx, b.cfg.Sounds.Flap); clip != nil {
		b.flap, _ = effect.NewSound(clip, effect.OnceInNextFrame, core.Duration{}, false)
		b.AddEffect(b.flap)
	}
	b.hit = loadSound(ctx, b.cfg.Sounds.Hit)
}

func loadSound(ctx *object.Context, path string) audio.Sound {
	if path == "" || ctx.Audio == nil {
		return nil
	}
	clip, err := ctx.Audio.Load(path)
	if err != nil {
		ctx.Log.Warn("sound not loaded", "path", path, "error", err)
		return nil
	}
	return clip
}

// control applies this tick's key. It runs with the other effects, so a
// flap is in place before flags and collisions are computed.
func (b *Bird) control(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
	if b.dead {
		self.Pause()
		return
	}
	if a, ok := b.KeyPressed(); ok && (a == core.ActionJump || a == core.ActionUp) {
		b.Flap(ctx.Viewport)
	}
}

// OnUpdate checks the floor. It never moves the bird.
func (b *Bird) OnUpdate(dt float64, ctx *object.Context) {
	if !b.dead && b.Bounds().YEnd >= ctx.Viewport.Floor {
		b.die()
	}
}

// Flap lifts the bird, never above the roof.
func (b *Bird) Flap(vp core.Viewport) {
	pos := b.Position()
	pos.Y = max(pos.Y-b.cfg.Physics.FlapHeight, vp.Roof)
	b.SetPosition(pos)
	b.flaps++
	if b.flap != nil {
		b.flap.Reset()
		b.flap.Play()
	}
}

// CollideWith records the contact and ends the game when the bird
// actually overlaps a pipe cell box, not just its broad-phase reach.
func (b *Bird) CollideWith(other object.Entity, phase object.Phase) {
	b.CollidableObject.CollideWith(other, phase)
	if b.dead || phase == object.PhaseEnd || !other.Base().HasTag("pipe") {
		return
	}
	if b.Bounds().Intersects(other.Base().Bounds()) {
		b.die()
	}
}

func (b *Bird) die() {
	b.dead = true
	b.gravity.Pause()
	if b.hit != nil {
		b.hit.Play()
	}
	if b.onHit != nil {
		b.onHit()
	}
}

// Dead reports whether the bird has crashed.
func (b *Bird) Dead() bool { return b.dead }

// Flaps counts flaps since the bird was built.
func (b *Bird) Flaps() int { return b.flaps }

