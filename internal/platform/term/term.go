// Package term drives a tcell screen directly, without Bubble Tea. The
// engine renders into a canvas compositor and each Present is mirrored
// onto the terminal.
package term

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/panel"
	"github.com/vovakirdan/tui-engine/internal/platform/canvas"
)

// palette mirrors the 256-color codes the Bubble Tea renderer uses.
var palette = map[core.Color]int{
	core.ColorRed:           1,
	core.ColorGreen:         2,
	core.ColorYellow:        3,
	core.ColorBlue:          4,
	core.ColorMagenta:       5,
	core.ColorCyan:          6,
	core.ColorWhite:         7,
	core.ColorBrightRed:     9,
	core.ColorBrightGreen:   10,
	core.ColorBrightYellow:  11,
	core.ColorBrightBlue:    12,
	core.ColorBrightMagenta: 13,
	core.ColorBrightCyan:    14,
	core.ColorBrightWhite:   15,
	core.ColorOrange:        208,
	core.ColorGray:          245,
}

func style(c core.Color) tcell.Style {
	code, ok := palette[c]
	if !ok {
		return tcell.StyleDefault
	}
	return tcell.StyleDefault.Foreground(tcell.PaletteColor(code))
}

// Backend is a canvas compositor that also paints a tcell screen on every
// Present.
type Backend struct {
	*canvas.Compositor

	mu     sync.Mutex
	screen tcell.Screen
	quit   chan struct{}
	once   sync.Once
	logger *log.Logger
}

// New wraps an initialized screen. The compositor matches the viewport,
// not the terminal; cells past the terminal edge are clipped.
func New(screen tcell.Screen, width, height int, logger *log.Logger) *Backend {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	screen.SetStyle(tcell.StyleDefault)
	screen.Clear()
	return &Backend{
		Compositor: canvas.New(width, height),
		screen:     screen,
		quit:       make(chan struct{}),
		logger:     logger,
	}
}

// Open creates and initializes the real terminal screen.
func Open(width, height int, logger *log.Logger) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	return New(screen, width, height, logger), nil
}

// Present recomposites and mirrors the result onto the terminal.
func (b *Backend) Present() error {
	if err := b.Compositor.Present(); err != nil {
		return err
	}
	b.Draw()
	return nil
}

// Draw copies the composited screen to the terminal and shows it.
func (b *Backend) Draw() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Compositor.View(func(s *core.Screen) {
		for y := range s.Height() {
			for x := range s.Width() {
				cell := s.GetCell(x, y)
				b.screen.SetContent(x, y, cell.Rune, nil, style(cell.Color))
			}
		}
	})
	b.screen.Show()
}

// Quit is closed when the user asks to quit.
func (b *Backend) Quit() <-chan struct{} { return b.quit }

// Close restores the terminal.
func (b *Backend) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screen.Fini()
}

// Listen pumps terminal events until ctx is done. Keys are queued on the
// compositor; ctrl+c and q close Quit.
func (b *Backend) Listen(ctx context.Context) {
	events := make(chan tcell.Event, 16)
	go b.screen.ChannelEvents(events, ctx.Done())

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			b.handle(ev)
		}
	}
}

func (b *Backend) handle(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		b.mu.Lock()
		b.screen.Sync()
		b.mu.Unlock()
	case *tcell.EventKey:
		a := Action(ev)
		if a == core.ActionQuit {
			b.once.Do(func() { close(b.quit) })
			return
		}
		b.PushKey(a)
	}
}

// Action maps a tcell key event to an engine action.
func Action(ev *tcell.EventKey) core.Action {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return core.ActionQuit
	case tcell.KeyUp:
		return core.ActionUp
	case tcell.KeyDown:
		return core.ActionDown
	case tcell.KeyLeft:
		return core.ActionLeft
	case tcell.KeyRight:
		return core.ActionRight
	case tcell.KeyEnter:
		return core.ActionConfirm
	case tcell.KeyEscape:
		return core.ActionBack
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return core.ActionQuit
		case 'w', 'k':
			return core.ActionUp
		case 's', 'j':
			return core.ActionDown
		case 'a', 'h':
			return core.ActionLeft
		case 'd', 'l':
			return core.ActionRight
		case ' ':
			return core.ActionJump
		case 'b':
			return core.ActionBack
		case 'p':
			return core.ActionPause
		case 'r':
			return core.ActionRestart
		}
	}
	return core.ActionNone
}

// Run steps eng until ctx is done or the user quits. The engine must have
// been built on b.
func (b *Backend) Run(ctx context.Context, eng *engine.Engine) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go b.Listen(ctx)
	go func() {
		select {
		case <-b.quit:
			b.logger.Debug("quit requested")
			cancel()
		case <-ctx.Done():
		}
	}()

	err := eng.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

var (
	_ panel.Backend   = (*Backend)(nil)
	_ panel.Presenter = (*Backend)(nil)
)
