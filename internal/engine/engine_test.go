package engine

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/drawing"
	"github.com/vovakirdan/tui-engine/internal/effect"
	"github.com/vovakirdan/tui-engine/internal/object"
	"github.com/vovakirdan/tui-engine/internal/panel"
)

func testConfig() config.Engine {
	cfg := config.DefaultEngine()
	cfg.FrameCap = 1000
	return cfg
}

// drifter moves in its update hook, after flags are computed.
type drifter struct {
	*object.Object
	step     core.Vec2
	mounted  int
	disposed int
}

func newDrifter(t *testing.T, pos, step core.Vec2, tags ...string) *drifter {
	t.Helper()
	o, err := object.New(drawing.FromText("d", "#"), object.Options{Position: pos, Tags: tags})
	if err != nil {
		t.Fatal(err)
	}
	return &drifter{Object: o, step: step}
}

func (d *drifter) OnMount(ctx *object.Context)              { d.mounted++ }
func (d *drifter) OnUpdate(dt float64, ctx *object.Context) { d.Move(d.step) }
func (d *drifter) OnDispose()                               { d.disposed++ }

func TestEndToEndSweep(t *testing.T) {
	backend := &panel.NopBackend{}
	e := New(testConfig(), backend, nil, nil)
	d := newDrifter(t, core.V(85, 10), core.V(2, 0))
	e.Add(d)

	if e.Viewport().Width != 90 || e.Viewport().Floor != 29 {
		t.Fatalf("Viewport() = %+v, expected 90 wide with floor 29", e.Viewport())
	}

	for tick := 1; tick <= 3; tick++ {
		e.Step()
		past := d.Flags().PastRight
		if tick < 3 && past {
			t.Errorf("tick %d: PastRight = true, expected false", tick)
		}
		if tick == 3 && !past {
			t.Errorf("tick %d: PastRight = false, expected true", tick)
		}
	}
	if len(e.Objects()) != 1 || !d.IsGarbage() {
		t.Fatal("object should still be in the world, marked as garbage")
	}

	e.Step()
	if len(e.Objects()) != 0 {
		t.Errorf("Objects() = %d after sweep, expected 0", len(e.Objects()))
	}
	if d.disposed != 1 || !d.Disposed() {
		t.Errorf("OnDispose ran %d times, expected 1", d.disposed)
	}
	if backend.Live() != 0 {
		t.Errorf("Live() = %d, expected every window released", backend.Live())
	}

	e.Step()
	if d.disposed != 1 {
		t.Errorf("OnDispose ran %d times after another tick, expected 1", d.disposed)
	}
	if st := e.Stats(); st.Swept != 1 || st.Ticks != 5 || st.Objects != 0 {
		t.Errorf("Stats() = %+v, expected 1 swept over 5 ticks", st)
	}
}

func TestFrameTimerDeltas(t *testing.T) {
	clock := NewManualClock()
	e := New(testConfig(), nil, nil, nil, WithClock(clock))

	var dts []float64
	e.AddScreenEffect(effect.EveryFrame(func(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
		dts = append(dts, dt)
	}))

	e.Step()
	clock.Advance(33 * time.Millisecond)
	e.Step()
	clock.Advance(16 * time.Millisecond)
	e.Step()

	expected := []float64{0, 33, 16}
	for i := range expected {
		if i >= len(dts) || dts[i] != expected[i] {
			t.Fatalf("dts = %v, expected %v", dts, expected)
		}
	}
	if e.Stats().LastDT != 16 {
		t.Errorf("LastDT = %v, expected 16", e.Stats().LastDT)
	}
}

// lander records what it saw in its update hook.
type lander struct {
	*object.CollidableObject
	sawFloor   bool
	sawContact bool
}

func (l *lander) OnUpdate(dt float64, ctx *object.Context) {
	l.sawFloor = l.Flags().OnFloor
	l.sawContact = l.Collider().TouchingTag("ground")
}

func TestTickOrdering(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)

	c, err := object.NewCollidable(drawing.FromText("b", "oo"), object.Options{Position: core.V(10, 20)}, object.Filled)
	if err != nil {
		t.Fatal(err)
	}
	bird := &lander{CollidableObject: c}
	// One effect drops the bird straight onto the ground in a single tick.
	bird.AddEffect(effect.NewMove(core.V(0, 4), core.Duration{}))

	ground, err := object.NewCollidable(drawing.FromText("g", "=========="), object.Options{
		Position:   core.V(5, 25),
		Tags:       []string{"ground"},
		Persistent: true,
	}, object.Filled)
	if err != nil {
		t.Fatal(err)
	}
	e.Add(bird, ground)
	e.Step()

	if bird.Position() != core.V(10, 24) {
		t.Fatalf("Position() = %v, expected (10, 24)", bird.Position())
	}
	if !bird.sawContact {
		t.Error("collision should see the post-effect position in the same tick")
	}
	if !bird.sawFloor {
		t.Error("collision floor snap should land before the update hook")
	}
	if got := bird.Panel().Front().Row(0); got != "oo" {
		t.Errorf("front row = %q, expected the bird rendered this tick", got)
	}
}

func TestSpawnsLandAtTickEnd(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)

	var worldDuringTick []int
	var spawned []*drifter
	spawner, err := effect.NewSpawn(effect.OnceInNextFrame, core.Duration{}, func(dt float64, ctx *object.Context) []object.Entity {
		d := newDrifter(t, core.V(20, 10), core.Vec2{}, "spawned")
		spawned = append(spawned, d)
		return []object.Entity{d}
	})
	if err != nil {
		t.Fatal(err)
	}
	e.AddScreenEffect(spawner)
	e.AddScreenEffect(effect.EveryFrame(func(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
		worldDuringTick = append(worldDuringTick, len(ctx.World.Objects()))
	}))

	e.Step()
	if len(spawned) != 1 {
		t.Fatalf("factory ran %d times, expected 1", len(spawned))
	}
	if worldDuringTick[0] != 0 {
		t.Errorf("world held %d objects mid-tick, expected the spawn to be staged", worldDuringTick[0])
	}
	if len(e.Objects()) != 1 || spawned[0].mounted != 1 {
		t.Errorf("spawn should land and mount at tick end")
	}
	if len(e.ScreenEffects()) != 1 {
		t.Errorf("ScreenEffects() = %d, expected the once-only spawner dropped", len(e.ScreenEffects()))
	}

	e.Step()
	if len(e.Objects()) != 1 || spawned[0].mounted != 1 {
		t.Error("once-only spawner should not fire again")
	}
	if st := e.Stats(); st.Spawned != 1 {
		t.Errorf("Stats().Spawned = %d, expected 1", st.Spawned)
	}
}

func TestErrorsAreIsolatedPerObject(t *testing.T) {
	backend := &panel.NopBackend{}
	e := New(testConfig(), backend, nil, nil)

	child := drawing.FromText("child", "ab")
	stale := drawing.NewStack("stale")
	stale.MustAdd(child, drawing.Vertical, drawing.Start)
	child.Draw("abcdefgh")
	broken, err := object.New(stale, object.Options{Position: core.V(10, 10), Tags: []string{"broken"}, Persistent: true})
	if err != nil {
		t.Fatal(err)
	}
	good := newDrifter(t, core.V(30, 10), core.Vec2{}, "good")

	e.Add(broken, good)
	e.Step()

	if got := good.Panel().Front().Row(0); got != "#" {
		t.Errorf("good object front row = %q, expected it rendered", got)
	}
	if st := e.Stats(); st.Errors != 1 {
		t.Errorf("Stats().Errors = %d, expected 1", st.Errors)
	}
	if len(e.Objects()) != 2 {
		t.Error("a failing object must not be removed from the world")
	}
}

type countingBackend struct {
	panel.NopBackend
	presents int
}

func (b *countingBackend) Present() error {
	b.presents++
	return nil
}

func TestDebugModeUsesNopBackend(t *testing.T) {
	backend := &countingBackend{}

	cfg := testConfig()
	cfg.DebugMode = true
	e := New(cfg, backend, nil, nil)
	e.Add(newDrifter(t, core.V(30, 10), core.Vec2{}))
	e.Step()
	if backend.Created() != 0 || backend.presents != 0 {
		t.Error("debug mode should never reach the configured backend")
	}

	live := New(testConfig(), backend, nil, nil)
	live.Add(newDrifter(t, core.V(30, 10), core.Vec2{}))
	live.Step()
	if backend.Created() != 1 || backend.presents != 1 {
		t.Errorf("Created() = %d, presents = %d, expected 1 and 1", backend.Created(), backend.presents)
	}
}

func TestFindByTags(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)
	top := newDrifter(t, core.V(20, 5), core.Vec2{}, "pipe", "top")
	bottom := newDrifter(t, core.V(20, 20), core.Vec2{}, "pipe", "bottom")
	bird := newDrifter(t, core.V(5, 10), core.Vec2{}, "bird")
	e.Add(top, bottom, bird)

	tests := []struct {
		name     string
		tags     []string
		all      bool
		expected int
	}{
		{"single tag", []string{"pipe"}, true, 2},
		{"all of", []string{"pipe", "top"}, true, 1},
		{"any of", []string{"top", "bird"}, false, 2},
		{"none", []string{"cloud"}, false, 0},
		{"empty", nil, true, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := len(e.FindByTags(tc.tags, tc.all)); got != tc.expected {
				t.Errorf("FindByTags(%v, %v) = %d, expected %d", tc.tags, tc.all, got, tc.expected)
			}
		})
	}

	e.Remove(bird)
	if got := len(e.FindByTag("bird")); got != 0 {
		t.Errorf("FindByTag(bird) = %d after Remove, expected 0", got)
	}
}

func TestRenderOrderFollowsPriority(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)
	var order []string
	mk := func(tag string, priority int) *object.Object {
		o, _ := object.New(drawing.FromText(tag, tag), object.Options{Position: core.V(10, 10), Priority: priority, Tags: []string{tag}})
		o.AddEffect(effect.EveryFrame(func(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
			order = append(order, tag)
		}))
		return o
	}
	e.Add(mk("front", 5), mk("back", -1), mk("middle", 0))
	e.Step()

	expected := []string{"back", "middle", "front"}
	for i := range expected {
		if i >= len(order) || order[i] != expected[i] {
			t.Fatalf("order = %v, expected %v", order, expected)
		}
	}
}

func TestRunAndStop(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)
	done := make(chan error, 1)
	go func() { done <- e.Run(context.Background()) }()

	deadline := time.After(2 * time.Second)
	for e.Stats().Ticks < 3 {
		select {
		case <-deadline:
			t.Fatal("loop did not tick")
		case <-time.After(time.Millisecond):
		}
	}
	if err := e.Run(context.Background()); err != ErrRunning {
		t.Errorf("second Run() error = %v, expected ErrRunning", err)
	}

	e.Stop()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v, expected nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after Stop")
	}
	if e.Running() {
		t.Error("Running() = true after Stop")
	}
}

func TestSnapshot(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)
	e.Add(newDrifter(t, core.V(30, 10), core.Vec2{}, "box"))
	e.Step()

	snap := e.Snapshot()
	if len(snap) != 1 || snap[0].Tags[0] != "box" || !snap[0].Flags.InView {
		t.Errorf("Snapshot() = %+v, expected one in-view box", snap)
	}
}

func TestCloseDisposesEverything(t *testing.T) {
	backend := &panel.NopBackend{}
	e := New(testConfig(), backend, nil, nil)
	live := newDrifter(t, core.V(10, 10), core.Vec2{})
	e.Add(live)
	e.Step()

	staged := newDrifter(t, core.V(12, 10), core.Vec2{})
	e.Spawn(staged)
	e.Close()

	if live.disposed != 1 || staged.disposed != 1 {
		t.Errorf("disposed = %d, %d, expected 1, 1", live.disposed, staged.disposed)
	}
	if backend.Live() != 0 {
		t.Errorf("Live() = %d after Close, expected 0", backend.Live())
	}
	if e.Stats().Objects != 0 {
		t.Errorf("Stats().Objects = %d, expected 0", e.Stats().Objects)
	}
}

func TestScreenEffectAddedDuringPassIsKept(t *testing.T) {
	e := New(testConfig(), nil, nil, nil)
	inner := 0
	added := false
	e.AddScreenEffect(effect.EveryFrame(func(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
		if added {
			return
		}
		added = true
		e.AddScreenEffect(effect.EveryFrame(func(dt float64, ctx *object.Context, self *effect.Callbacks, target object.Entity) {
			inner++
		}))
	}))

	for range 3 {
		e.Step()
	}
	if got := len(e.ScreenEffects()); got != 2 {
		t.Errorf("ScreenEffects() = %d, expected 2", got)
	}
	if inner != 2 {
		t.Errorf("inner effect fired %d times, expected 2", inner)
	}
}

func TestStatsCountBlits(t *testing.T) {
	e := New(testConfig(), &panel.NopBackend{}, nil, nil)
	e.Add(newDrifter(t, core.V(10, 10), core.Vec2{}))

	e.Step()
	if e.Stats().Blits == 0 {
		t.Error("Stats().Blits = 0 after rendering an in-view object, expected at least 1")
	}
	before := e.Stats().Blits
	e.Step()
	if e.Stats().Blits != before {
		t.Errorf("Stats().Blits = %d after an unchanged tick, expected %d", e.Stats().Blits, before)
	}
}
