package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/platform/canvas"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

// GameConfig selects a scene and the engine it runs on.
type GameConfig struct {
	Scene   string
	Options registry.Options
	Engine  config.Engine
	// Audio loads scene sounds. Nil plays nothing.
	Audio  audio.Loader
	Logger *log.Logger
	// OnEngine sees every engine the model builds, restarts included.
	OnEngine func(*engine.Engine)
}

var screenshotKey = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "screenshot"))

// Model is the Bubble Tea model for running one scene.
type Model struct {
	cfg    GameConfig
	keys   KeyMap
	help   help.Model
	canvas *canvas.Compositor
	engine *engine.Engine
	scene  registry.Scene

	width      int
	height     int
	paused     bool
	quitting   bool
	backToMenu bool
	lastShot   string
	err        error
	tickID     uint64
}

// NewModel creates a model and sets its scene up on a fresh engine.
func NewModel(cfg GameConfig) (Model, error) {
	m := Model{
		cfg:    cfg,
		keys:   DefaultKeyMap(),
		help:   help.New(),
		width:  cfg.Engine.Window.Width,
		height: cfg.Engine.Window.Height,
		tickID: nextTickID(),
	}
	if err := m.start(); err != nil {
		return m, err
	}
	return m, nil
}

// start tears down the current engine, if any, and builds a new one.
func (m *Model) start() error {
	if m.engine != nil {
		m.engine.Close()
	}
	w := m.cfg.Engine.Window
	m.canvas = canvas.New(w.Width, w.Height)
	eng := engine.New(m.cfg.Engine, m.canvas, m.cfg.Audio, m.cfg.Logger)
	scene, err := registry.Start(m.cfg.Scene, m.cfg.Options, eng)
	if err != nil {
		eng.Close()
		m.engine, m.scene = nil, nil
		return err
	}
	m.engine, m.scene = eng, scene
	if m.cfg.OnEngine != nil {
		m.cfg.OnEngine(eng)
	}
	m.paused = false
	m.err = nil
	return nil
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.tickID, m.cfg.Engine.FrameCap)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		if msg.id != m.tickID {
			return m, nil
		}
		return m.handleTick()
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, screenshotKey):
		m.saveScreenshot()
		return m, nil
	}

	switch action := m.keys.Action(msg); action {
	case core.ActionQuit:
		m.quitting = true
		m.close()
		return m, tea.Quit
	case core.ActionPause:
		m.paused = !m.paused
	case core.ActionRestart:
		if err := m.start(); err != nil {
			m.err = err
		}
	case core.ActionBack:
		if m.paused || m.Finished() || m.engine == nil {
			m.backToMenu = true
			m.close()
			return m, nil
		}
		m.canvas.PushKey(action)
	default:
		if m.engine != nil && !m.paused {
			m.canvas.PushKey(action)
		}
	}
	return m, nil
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.quitting || m.backToMenu {
		return m, nil
	}
	if m.engine != nil && !m.paused && !m.Finished() {
		m.engine.Step()
	}
	return m, tickCmd(m.tickID, m.cfg.Engine.FrameCap)
}

func (m *Model) close() {
	if m.engine != nil {
		m.engine.Close()
	}
}

// saveScreenshot writes the composited screen to ~/.tui-engine/screenshots.
func (m *Model) saveScreenshot() {
	home, err := os.UserHomeDir()
	if err != nil || m.canvas == nil {
		return
	}
	dir := filepath.Join(home, ".tui-engine", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	name := fmt.Sprintf("%s_%s.txt", m.cfg.Scene, time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.canvas.String()), 0o600); err == nil {
		m.lastShot = path
	}
}

// Finished reports whether the scene has ended.
func (m Model) Finished() bool {
	f, ok := m.scene.(registry.Finisher)
	return ok && f.Finished()
}

// Engine returns the running engine, or nil when setup failed.
func (m Model) Engine() *engine.Engine { return m.engine }

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool { return m.quitting }

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool { return m.backToMenu }

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	width := m.cfg.Engine.Window.Width

	var body string
	if m.canvas != nil {
		m.canvas.View(func(s *core.Screen) { body = RenderScreen(s) })
	}

	left := m.cfg.Scene
	if m.scene != nil {
		left = m.scene.Title()
		if s, ok := m.scene.(registry.Statuser); ok {
			left += "  " + s.Status()
		}
	}
	var right string
	if m.engine != nil {
		st := m.engine.Stats()
		right = fmt.Sprintf("tick %d  objects %d", st.Ticks, st.Objects)
	}

	out := body + "\n" + RenderStatus(left, right, width) + "\n"
	switch {
	case m.err != nil:
		out += errorStyle.Render(m.err.Error()) + "\n"
	case m.Finished():
		out += pausedStyle.Render(centerText("GAME OVER  r: restart  b: back", width)) + "\n"
	case m.paused:
		out += pausedStyle.Render(centerText("PAUSED", width)) + "\n"
	case m.lastShot != "":
		out += "saved " + m.lastShot + "\n"
	}
	return out + m.help.View(m.keys)
}

// Run starts the Bubble Tea program for one scene.
func Run(cfg GameConfig) error {
	model, err := NewModel(cfg)
	if err != nil {
		return err
	}

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err = p.Run()
	return err
}
