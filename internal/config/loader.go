package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadEngine loads engine configuration.
// Search order: customPath -> ~/.tui-engine/configs/engine.yaml -> ./configs/engine.yaml -> embedded default
func LoadEngine(customPath string) (Engine, error) {
	cfg, err := load(customPath, "engine.yaml", defaultEngineYAML, DefaultEngine)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadFlappy loads flappy configuration.
// Search order: customPath -> ~/.tui-engine/configs/flappy.yaml -> ./configs/flappy.yaml -> embedded default
func LoadFlappy(customPath string) (Flappy, error) {
	cfg, err := load(customPath, "flappy.yaml", defaultFlappyYAML, DefaultFlappy)
	if err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// load walks the search order. Files are decoded over the hard-coded
// defaults, so a partial file only overrides the keys it names. Only a
// custom path that cannot be read or parsed is an error; the other
// locations are skipped when missing or malformed.
func load[T any](customPath, filename string, embedded []byte, fallback func() T) (T, error) {
	if customPath != "" {
		cfg := fallback()
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	candidates := []string{
		userConfigPath(filename),
		filepath.Join("configs", filename),
	}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		cfg := fallback()
		if err := yaml.Unmarshal(data, &cfg); err == nil {
			return cfg, nil
		}
	}

	// Use embedded default YAML
	cfg := fallback()
	if err := yaml.Unmarshal(embedded, &cfg); err != nil {
		return fallback(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tui-engine", "configs", filename)
}
