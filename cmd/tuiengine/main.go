// tuiengine runs the demo scenes of the terminal engine.
//
// Usage:
//
//	tuiengine list            - List registered scenes
//	tuiengine play [scene]    - Play a scene, or pick one from the menu
//	tuiengine run <scene>     - Step a scene headless and print its stats
//	tuiengine serve           - Serve the scene picker over SSH
//
// Global flags:
//
//	--fps <rate>          - Tick rate ceiling (default: engine config)
//	--width, --height     - Window size override
//	--debug               - Run without a backend or audio
//	--engine-config       - Path to engine.yaml
//	--log-file <path>     - Write logs to a file instead of stderr
//	--log-level <level>   - debug, info, warn or error
//	--metrics-addr <addr> - Serve /metrics and /debug on addr
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-engine/internal/config"

	// Import scenes to register them
	_ "github.com/vovakirdan/tui-engine/internal/games/drift"
	_ "github.com/vovakirdan/tui-engine/internal/games/flappy"
)

var (
	// Global flags
	flagFPS          int
	flagWidth        int
	flagHeight       int
	flagDebug        bool
	flagEngineConfig string
	flagLogFile      string
	flagLogLevel     string
	flagMetricsAddr  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tuiengine",
	Short: "TUI Engine - a 2D game engine for the terminal",
	Long: `TUI Engine draws layered ASCII scenes in the terminal. Scenes are
built from objects with drawings, scheduled effects and colliders.

Available commands:
  list     - Show all registered scenes
  play     - Play a scene in the terminal
  run      - Step a scene headless and print its stats
  serve    - Start SSH server for remote play

Examples:
  tuiengine list
  tuiengine play flappy
  tuiengine play drift --backend tcell
  tuiengine run flappy --ticks 600
  tuiengine serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate ceiling (0 = engine config)")
	rootCmd.PersistentFlags().IntVar(&flagWidth, "width", 0, "Window width override (0 = engine config)")
	rootCmd.PersistentFlags().IntVar(&flagHeight, "height", 0, "Window height override (0 = engine config)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Run without a backend or audio")
	rootCmd.PersistentFlags().StringVar(&flagEngineConfig, "engine-config", "", "Path to custom engine config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagMetricsAddr, "metrics-addr", "", "Serve metrics and debug endpoints on this address")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(serveCmd)
}

// newLogger builds the process logger. A full-screen frontend owns the
// terminal, so interactive commands pass quiet to drop logs unless a log
// file is given.
func newLogger(quiet bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case flagLogFile != "":
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() { f.Close() }
	case quiet:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          "tui-engine",
		Level:           level,
	})
	return logger, closeFn, nil
}

// engineConfig loads the engine config and applies the global overrides.
func engineConfig() (config.Engine, error) {
	cfg, err := config.LoadEngine(flagEngineConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.FrameCap = flagFPS
	}
	if flagWidth > 0 {
		cfg.Window.Width = flagWidth
	}
	if flagHeight > 0 {
		cfg.Window.Height = flagHeight
	}
	if flagDebug {
		cfg.DebugMode = true
	}
	if flagMetricsAddr != "" {
		cfg.Metrics.Addr = flagMetricsAddr
	}
	return cfg, cfg.Validate()
}
