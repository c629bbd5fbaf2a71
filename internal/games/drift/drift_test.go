package drift

import (
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/platform/canvas"
)

func TestWordIsSweptPastRightEdge(t *testing.T) {
	e := engine.New(config.DefaultEngine(), nil, nil, nil)
	s := New(1)
	w, err := s.NewWord("abc", core.V(80, 10))
	if err != nil {
		t.Fatal(err)
	}
	e.Add(w)

	e.Step()
	if w.Position().X != 82 {
		t.Fatalf("after tick 1: X = %d, expected 82", w.Position().X)
	}
	if !w.Flags().PastRight || !w.IsGarbage() {
		t.Fatalf("after tick 1: flags = %+v, expected past right and garbage", w.Flags())
	}
	e.Step()
	if len(e.FindByTag("word")) != 0 {
		t.Error("word should be swept on tick 2")
	}
	if got := s.Status(); got != "spawned 1  swept 1" {
		t.Errorf("Status() = %q, expected %q", got, "spawned 1  swept 1")
	}
}

func TestSpawnerAddsWords(t *testing.T) {
	clock := engine.NewManualClock()
	e := engine.New(config.DefaultEngine(), nil, nil, nil, engine.WithClock(clock))
	s := New(1)
	if err := s.Setup(e); err != nil {
		t.Fatal(err)
	}

	for range 10 {
		clock.Advance(200 * time.Millisecond)
		e.Step()
	}
	if s.spawned == 0 {
		t.Fatal("expected words to spawn")
	}
	vp := e.Viewport()
	for _, ent := range e.FindByTag("word") {
		b := ent.Base().Bounds()
		if b.YStart < vp.Roof || b.YEnd > vp.Floor {
			t.Errorf("word bounds %+v leave the playfield", b)
		}
	}
}

func TestControlsChangeSpeed(t *testing.T) {
	cfg := config.DefaultEngine()
	c := canvas.New(cfg.Window.Width, cfg.Window.Height)
	e := engine.New(cfg, c, nil, nil)
	s := New(1)
	if err := s.Setup(e); err != nil {
		t.Fatal(err)
	}

	// The hint window exists after the first render.
	e.Step()
	c.PushKey(core.ActionRight)
	e.Step()
	if s.Speed() != 3 {
		t.Errorf("Speed() = %d after right, expected 3", s.Speed())
	}

	for range maxSpeed + 2 {
		c.PushKey(core.ActionLeft)
		e.Step()
	}
	if s.Speed() != minSpeed {
		t.Errorf("Speed() = %d after many lefts, expected %d", s.Speed(), minSpeed)
	}
}
