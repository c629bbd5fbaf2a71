// Package registry provides a global registry for scene factories.
// Scenes register themselves in init() functions, allowing the platform
// to discover and build them without hardcoded dependencies.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"

	"github.com/vovakirdan/tui-engine/internal/engine"
)

// ErrUnknownScene is returned by Create for ids nobody registered.
var ErrUnknownScene = errors.New("registry: unknown scene")

// Scene populates an engine with entities and effects.
// A scene instance is used for one run; restarting creates a new one.
type Scene interface {
	// ID returns a unique identifier for this scene (e.g., "flappy").
	// Used for CLI commands.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Setup adds the scene's entities and screen effects to e.
	// Called once, before the first tick.
	Setup(e *engine.Engine) error
}

// Statuser is implemented by scenes that report a status line.
type Statuser interface {
	Status() string
}

// Finisher is implemented by scenes that can end, such as on game over.
type Finisher interface {
	Finished() bool
}

// Options carries command-line tuning for a scene.
type Options struct {
	// ConfigPath points at a scene config file. Empty uses the search order.
	ConfigPath string
	// Difficulty names a preset such as "easy". Empty keeps the config's.
	Difficulty string
}

// Tuner is implemented by scenes that load their own configuration.
// Tune is called before Setup.
type Tuner interface {
	Tune(opts Options) error
}

// SceneInfo contains metadata about a registered scene.
type SceneInfo struct {
	ID    string
	Title string
}

// Factory is a function that creates a new instance of a scene.
type Factory func() Scene

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a scene factory to the registry.
// Typically called from a scene package's init() function.
// Panics if a scene with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: scene %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	titles[id] = f().Title()
}

// List returns information about all registered scenes, sorted by ID.
func List() []SceneInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SceneInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SceneInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new scene by its ID. Unknown ids get a
// "did you mean" hint when a registered id is close enough.
func Create(id string) (Scene, error) {
	mu.RLock()
	f, ok := factories[id]
	mu.RUnlock()

	if !ok {
		if hint := Suggest(id); hint != "" {
			return nil, fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownScene, id, hint)
		}
		return nil, fmt.Errorf("%w %q", ErrUnknownScene, id)
	}

	return f(), nil
}

// Start creates the scene, tunes it when it accepts options and sets it
// up on e.
func Start(id string, opts Options, e *engine.Engine) (Scene, error) {
	s, err := Create(id)
	if err != nil {
		return nil, err
	}
	if t, ok := s.(Tuner); ok {
		if err := t.Tune(opts); err != nil {
			return nil, fmt.Errorf("tune %s: %w", id, err)
		}
	}
	if err := s.Setup(e); err != nil {
		return nil, fmt.Errorf("setup %s: %w", id, err)
	}
	return s, nil
}

// Exists checks if a scene with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}

// Suggest returns the registered id closest to id, or "" when nothing is
// within a few edits. Ties resolve to the alphabetically first id.
func Suggest(id string) string {
	mu.RLock()
	defer mu.RUnlock()

	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return ""
	}

	best, bestDist := "", -1
	for cand := range factories {
		var dist int
		switch {
		case cand == id:
			return cand
		case strings.HasPrefix(cand, id) && len(id) >= 2:
			dist = 0
		default:
			dist = levenshtein.ComputeDistance(id, cand)
			if dist > distanceLimit(len(cand)) {
				continue
			}
		}
		if bestDist < 0 || dist < bestDist || (dist == bestDist && cand < best) {
			best, bestDist = cand, dist
		}
	}
	return best
}

func distanceLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// unregister removes a scene. Tests use it to keep the global map clean.
func unregister(id string) {
	mu.Lock()
	defer mu.Unlock()
	delete(factories, id)
	delete(titles, id)
}
