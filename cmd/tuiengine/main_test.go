package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/vovakirdan/tui-engine/internal/engine"
	"github.com/vovakirdan/tui-engine/internal/registry"
)

func TestListShowsScenes(t *testing.T) {
	var out bytes.Buffer
	listCmd.SetOut(&out)
	runList(listCmd, nil)

	for _, id := range []string{"drift", "flappy"} {
		if !strings.Contains(out.String(), id) {
			t.Errorf("list output missing %q:\n%s", id, out.String())
		}
	}
}

func TestEngineConfigOverrides(t *testing.T) {
	flagFPS, flagWidth, flagHeight, flagDebug = 45, 70, 30, true
	t.Cleanup(func() {
		flagFPS, flagWidth, flagHeight, flagDebug = 0, 0, 0, false
	})

	cfg, err := engineConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.FrameCap != 45 || cfg.Window.Width != 70 || cfg.Window.Height != 30 || !cfg.DebugMode {
		t.Errorf("engineConfig() = %+v, expected the flag overrides", cfg)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	flagLogLevel = "loud"
	t.Cleanup(func() { flagLogLevel = "info" })
	if _, _, err := newLogger(true); err == nil {
		t.Error("newLogger() error = nil, expected an invalid level error")
	}
}

func TestStepSceneStopsWhenFinished(t *testing.T) {
	cfg, err := engineConfig()
	if err != nil {
		t.Fatal(err)
	}
	clock := engine.NewManualClock()
	eng := engine.New(cfg, nil, nil, nil, engine.WithClock(clock))
	defer eng.Close()
	scene, err := registry.Start("flappy", registry.Options{}, eng)
	if err != nil {
		t.Fatal(err)
	}

	report := stepScene(eng, clock, scene, 2000, 33*time.Millisecond)
	if !report.Finished {
		t.Fatal("an idle bird should crash before 2000 ticks")
	}
	if report.Stats.Ticks == 0 || report.Stats.Ticks >= 2000 {
		t.Errorf("Stats.Ticks = %d, expected an early stop", report.Stats.Ticks)
	}
	if !strings.HasPrefix(report.Status, "score") {
		t.Errorf("Status = %q, expected a score line", report.Status)
	}

	data, err := json.Marshal(report)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"finished":true`) {
		t.Errorf("report JSON = %s, expected finished", data)
	}
}
