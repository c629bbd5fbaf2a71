package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/observability"
	tuiterm "github.com/vovakirdan/tui-engine/internal/platform/term"
	"github.com/vovakirdan/tui-engine/internal/platform/tui"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

var (
	flagConfig     string
	flagDifficulty string
	flagBackend    string
)

var playCmd = &cobra.Command{
	Use:   "play [scene]",
	Short: "Play a scene",
	Long: `Start playing the specified scene. Without a scene id the picker
menu opens first.

Controls:
  Space/Up   - Jump/Flap
  Arrows     - Move
  P          - Pause
  R          - Restart
  Ctrl+S     - Screenshot
  Q/Ctrl+C   - Quit

Backends:
  tea    - Bubble Tea frontend with status bar and help (default)
  tcell  - Direct tcell screen, no status bar

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  tuiengine play
  tuiengine play flappy --difficulty hard
  tuiengine play flappy --config ./my-flappy.yaml
  tuiengine play drift --backend tcell`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scene config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagBackend, "backend", "tea", "Frontend: tea or tcell")
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(true)
	if err != nil {
		return err
	}
	defer closeLog()

	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		cfg = tui.FitEngine(cfg, w, h)
	}

	sceneID := ""
	if len(args) == 1 {
		sceneID = args[0]
	} else {
		res, err := tui.RunMenu(cfg.Window.Width, cfg.Window.Height)
		if err != nil {
			return err
		}
		if res.Quit {
			return nil
		}
		sceneID = res.SceneID
	}
	if !registry.Exists(sceneID) {
		// Create carries the "did you mean" hint.
		_, err := registry.Create(sceneID)
		return fmt.Errorf("%w; run 'tuiengine list' to see available scenes", err)
	}

	loader, closeAudio := openAudio(cfg, logger)
	defer closeAudio()

	holder := &observability.Holder{}
	stopMetrics, err := startMetrics(cfg.Metrics.Addr, holder, logger)
	if err != nil {
		return err
	}
	defer stopMetrics()

	opts := registry.Options{ConfigPath: flagConfig, Difficulty: flagDifficulty}
	switch flagBackend {
	case "tea":
		return tui.Run(tui.GameConfig{
			Scene:    sceneID,
			Options:  opts,
			Engine:   cfg,
			Audio:    loader,
			Logger:   logger,
			OnEngine: holder.Set,
		})
	case "tcell":
		return playTcell(cfg, sceneID, opts, loader, holder, logger)
	default:
		return fmt.Errorf("unknown backend %q (want tea or tcell)", flagBackend)
	}
}

func playTcell(cfg config.Engine, sceneID string, opts registry.Options, loader audio.Loader, holder *observability.Holder, logger *log.Logger) error {
	backend, err := tuiterm.Open(cfg.Window.Width, cfg.Window.Height, logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	eng := engine.New(cfg, backend, loader, logger)
	defer eng.Close()
	if _, err := registry.Start(sceneID, opts, eng); err != nil {
		return err
	}
	holder.Set(eng)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return backend.Run(ctx, eng)
}

// openAudio returns the speaker when audio is enabled, or nil so the
// engine plays nothing. A speaker that cannot open is logged, not fatal.
func openAudio(cfg config.Engine, logger *log.Logger) (audio.Loader, func()) {
	if !cfg.Audio.Enabled || cfg.DebugMode {
		return nil, func() {}
	}
	player := audio.NewPlayer(cfg.Audio.SampleRate)
	if err := player.Init(); err != nil {
		logger.Warn("audio disabled", "error", err)
		return nil, func() {}
	}
	return player, player.Close
}

// startMetrics serves the observability endpoints when addr is set.
func startMetrics(addr string, src observability.Source, logger *log.Logger) (func(), error) {
	if addr == "" {
		return func() {}, nil
	}
	srv := observability.NewServer(addr, src, logger)
	if err := srv.Start(); err != nil {
		return nil, fmt.Errorf("metrics listener: %w", err)
	}
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Warn("metrics shutdown", "error", err)
		}
	}, nil
}
