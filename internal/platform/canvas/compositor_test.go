package canvas

import (
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/tui-engine/internal/core"
)

func TestCompositeByPriority(t *testing.T) {
	c := New(6, 2)
	top, _ := c.CreateWindow(core.V(2, 1), core.V(1, 0), 5)
	bottom, _ := c.CreateWindow(core.V(4, 1), core.V(0, 0), 0)

	if err := bottom.Write(0, 0, "aaaa"); err != nil {
		t.Fatal(err)
	}
	if err := top.Write(0, 0, "b "); err != nil {
		t.Fatal(err)
	}
	top.Refresh()
	c.Present()

	lines := strings.Split(c.String(), "\n")
	if lines[0] != "abaa  " {
		t.Errorf("row 0 = %q, expected %q", lines[0], "abaa  ")
	}
	if c.Frames() != 1 {
		t.Errorf("Frames() = %d, expected 1", c.Frames())
	}

	c.Present()
	if c.Frames() != 1 {
		t.Error("Present() without changes should not recomposite")
	}
}

func TestWriteClipsAndRejects(t *testing.T) {
	c := New(10, 3)
	w, _ := c.CreateWindow(core.V(3, 1), core.V(0, 0), 0)

	if err := w.Write(0, 1, "xyzw"); err != nil {
		t.Errorf("Write() error = %v, expected clipped write", err)
	}
	if err := w.Write(1, 0, "x"); !errors.Is(err, ErrOutsideWindow) {
		t.Errorf("Write() error = %v, expected ErrOutsideWindow", err)
	}
	c.Present()
	if got := strings.Split(c.String(), "\n")[0]; got != " xy       " {
		t.Errorf("row 0 = %q, expected clipped text", got)
	}
}

func TestDestroyRemovesWindow(t *testing.T) {
	c := New(4, 1)
	w, _ := c.CreateWindow(core.V(1, 1), core.V(0, 0), 0)
	w.Write(0, 0, "x")
	c.Present()

	w.Destroy()
	w.Destroy()
	if c.Live() != 0 {
		t.Errorf("Live() = %d, expected 0", c.Live())
	}
	c.Present()
	if got := c.String(); got != "    " {
		t.Errorf("screen = %q, expected destroyed window gone", got)
	}
}

func TestKeyInbox(t *testing.T) {
	c := New(4, 1)
	w, _ := c.CreateWindow(core.V(1, 1), core.V(0, 0), 0)

	if _, ok := w.PollKey(); ok {
		t.Error("PollKey() on empty inbox should report no key")
	}
	c.PushKey(core.ActionNone)
	c.PushKey(core.ActionJump)
	c.PushKey(core.ActionQuit)

	for _, want := range []core.Action{core.ActionJump, core.ActionQuit} {
		got, ok := w.PollKey()
		if !ok || got != want {
			t.Errorf("PollKey() = %v, %v, expected %v", got, ok, want)
		}
	}

	for range maxQueuedKeys + 10 {
		c.PushKey(core.ActionUp)
	}
	n := 0
	for {
		if _, ok := w.PollKey(); !ok {
			break
		}
		n++
	}
	if n != maxQueuedKeys {
		t.Errorf("drained %d keys, expected the inbox capped at %d", n, maxQueuedKeys)
	}
}

func TestColorAndResize(t *testing.T) {
	c := New(2, 1)
	w, _ := c.CreateWindow(core.V(1, 1), core.V(1, 0), 0)
	w.(interface{ SetColor(core.Color) }).SetColor(core.ColorYellow)
	w.Write(0, 0, "o")
	c.Present()

	c.View(func(s *core.Screen) {
		if cell := s.GetCell(1, 0); cell.Rune != 'o' || cell.Color != core.ColorYellow {
			t.Errorf("GetCell(1, 0) = %+v, expected yellow o", cell)
		}
	})

	c.Resize(5, 2)
	if c.Size() != core.V(5, 2) {
		t.Errorf("Size() = %v, expected (5, 2)", c.Size())
	}
}
