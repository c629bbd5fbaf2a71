package term

import (
	"context"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-engine/internal/core"
)

func simulation(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func TestPresentPaintsScreen(t *testing.T) {
	screen := simulation(t, 10, 4)
	b := New(screen, 10, 4, nil)

	win, err := b.CreateWindow(core.V(3, 1), core.V(2, 1), 0)
	if err != nil {
		t.Fatal(err)
	}
	win.Write(0, 0, "abc")
	if err := b.Present(); err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	cells, width, _ := screen.GetContents()
	got := ""
	for x := 2; x < 5; x++ {
		got += string(cells[1*width+x].Runes)
	}
	if got != "abc" {
		t.Errorf("screen row 1 = %q, expected abc", got)
	}
}

func TestAction(t *testing.T) {
	tests := []struct {
		name     string
		ev       *tcell.EventKey
		expected core.Action
	}{
		{"arrow up", tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone), core.ActionUp},
		{"space", tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone), core.ActionJump},
		{"enter", tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone), core.ActionConfirm},
		{"q", tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone), core.ActionQuit},
		{"ctrl+c", tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl), core.ActionQuit},
		{"unbound", tcell.NewEventKey(tcell.KeyRune, 'z', tcell.ModNone), core.ActionNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Action(tc.ev); got != tc.expected {
				t.Errorf("Action() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestListenQueuesKeysAndQuits(t *testing.T) {
	screen := simulation(t, 10, 4)
	b := New(screen, 10, 4, nil)
	win, _ := b.CreateWindow(core.V(1, 1), core.V(0, 0), 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Listen(ctx)

	screen.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	deadline := time.Now().Add(2 * time.Second)
	for {
		if a, ok := win.PollKey(); ok {
			if a != core.ActionUp {
				t.Errorf("PollKey() = %v, expected up", a)
			}
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("key never reached the compositor")
		}
		time.Sleep(5 * time.Millisecond)
	}

	screen.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case <-b.Quit():
	case <-time.After(2 * time.Second):
		t.Fatal("q did not close Quit()")
	}
}
