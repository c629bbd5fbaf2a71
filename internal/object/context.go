// Package object defines world entities: their capabilities, lifecycle,
// viewport classification and collider state.
package object

import (
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/core"
)

// Registry is the handle effects and hooks use to reach the world.
// Spawns are staged and land at the end of the current tick; removals
// mark the entity as garbage for the next sweep.
type Registry interface {
	Spawn(e Entity)
	Remove(e Entity)
	FindByTag(tag string) []Entity
	// FindByTags matches entities carrying all of tags, or any of them
	// when all is false.
	FindByTags(tags []string, all bool) []Entity
	Objects() []Entity
}

// Context is passed to effects and hooks instead of the whole engine.
type Context struct {
	Viewport core.Viewport
	World    Registry
	Audio    audio.Loader
	Log      *log.Logger
	// Tick counts completed ticks, starting at 0 for the first one.
	Tick uint64
}

// Effect is a scheduled unit of behavior attached to an entity or to the
// screen. ShouldRun is stateful: asking it advances the effect's clock.
type Effect interface {
	ShouldRun(dt float64) bool
	// Run fires the effect. target is nil for screen effects.
	Run(dt float64, ctx *Context, target Entity)
	Dispose()
}
