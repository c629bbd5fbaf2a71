// Package engine runs the world: one tick sweeps garbage, reads keys, runs
// effects, classifies objects, resolves collisions, rasterizes and renders,
// then lands staged spawns.
package engine

import (
	"context"
	"errors"
	"io"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"

	"github.com/vovakirdan/tui-engine/internal/audio"
	"github.com/vovakirdan/tui-engine/internal/collision"
	"github.com/vovakirdan/tui-engine/internal/config"
	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/object"
	"github.com/vovakirdan/tui-engine/internal/panel"
)

// ErrRunning is returned by Run when the loop is already running.
var ErrRunning = errors.New("engine: already running")

// Stats summarizes the world after the last tick.
type Stats struct {
	Ticks      uint64  `json:"ticks"`
	Objects    int     `json:"objects"`
	Spawned    uint64  `json:"spawned"`
	Swept      uint64  `json:"swept"`
	Collisions uint64  `json:"collisions"`
	Blits      uint64  `json:"blits"`
	Errors     uint64  `json:"errors"`
	LastDT     float64 `json:"last_dt_ms"`
}

// ObjectInfo is a read-only view of one object for debugging surfaces.
type ObjectInfo struct {
	Tags     []string     `json:"tags"`
	Position core.Vec2    `json:"position"`
	Size     core.Vec2    `json:"size"`
	Priority int          `json:"priority"`
	Flags    object.Flags `json:"flags"`
	Garbage  bool         `json:"garbage"`
}

// Option customizes an engine.
type Option func(*Engine)

// WithClock replaces the wall clock used to measure dt.
func WithClock(c Clock) Option {
	return func(e *Engine) { e.timer = NewFrameTimer(c) }
}

// Engine owns the world. Step and the mutation methods must be called from
// one goroutine; Stats and Snapshot are safe from any goroutine.
type Engine struct {
	cfg     config.Engine
	vp      core.Viewport
	backend panel.Backend
	audio   audio.Loader
	logger  *log.Logger

	timer      *FrameTimer
	collisions *collision.System

	objects       []object.Entity
	staged        []object.Entity
	screenEffects []object.Effect
	inTick        bool
	ctx           object.Context

	mu       sync.Mutex
	stats    Stats
	snapshot []ObjectInfo
	cancel   context.CancelFunc
	running  bool
}

// New builds an engine. Debug mode swaps the backend and audio loader for
// no-op stand-ins so the simulation runs headless. A nil backend or loader
// gets the same treatment.
func New(cfg config.Engine, backend panel.Backend, loader audio.Loader, logger *log.Logger, opts ...Option) *Engine {
	if cfg.DebugMode || backend == nil {
		backend = &panel.NopBackend{}
	}
	if cfg.DebugMode || loader == nil {
		loader = audio.Nop{}
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	e := &Engine{
		cfg:        cfg,
		vp:         cfg.Viewport(),
		backend:    backend,
		audio:      loader,
		logger:     logger,
		timer:      NewFrameTimer(nil),
		collisions: collision.NewSystem(cfg.Collision.TrackPhases),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.ctx = object.Context{
		Viewport: e.vp,
		World:    e,
		Audio:    e.audio,
		Log:      e.logger,
	}
	return e
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() config.Engine { return e.cfg }

// Viewport returns the extents objects classify against.
func (e *Engine) Viewport() core.Viewport { return e.vp }

// Audio returns the loader effects should use.
func (e *Engine) Audio() audio.Loader { return e.audio }

// Logger returns the engine logger.
func (e *Engine) Logger() *log.Logger { return e.logger }

// Context returns the context handed to effects and hooks.
func (e *Engine) Context() *object.Context { return &e.ctx }

// Spawn stages an entity. It lands at the end of the current tick, or of
// the next one when called between ticks.
func (e *Engine) Spawn(ent object.Entity) {
	if ent == nil {
		return
	}
	e.staged = append(e.staged, ent)
}

// Add places entities in the world. Between ticks they land immediately;
// during a tick they are staged like Spawn.
func (e *Engine) Add(ents ...object.Entity) {
	for _, ent := range ents {
		if ent == nil {
			continue
		}
		if e.inTick {
			e.Spawn(ent)
			continue
		}
		e.land(ent)
	}
	if !e.inTick {
		e.publish()
	}
}

// Remove marks an entity for the next garbage sweep.
func (e *Engine) Remove(ent object.Entity) {
	if ent != nil {
		ent.Base().MarkGarbage()
	}
}

// AddScreenEffect registers an effect with no target entity.
func (e *Engine) AddScreenEffect(eff object.Effect) {
	if eff != nil {
		e.screenEffects = append(e.screenEffects, eff)
	}
}

// ScreenEffects returns the registered screen effects.
func (e *Engine) ScreenEffects() []object.Effect {
	return slices.Clone(e.screenEffects)
}

// Objects returns the world in insertion order.
func (e *Engine) Objects() []object.Entity {
	return slices.Clone(e.objects)
}

// FindByTag returns every live entity carrying tag.
func (e *Engine) FindByTag(tag string) []object.Entity {
	return e.FindByTags([]string{tag}, true)
}

// FindByTags returns entities carrying all of tags, or any of them when
// all is false. Entities waiting to be swept are skipped.
func (e *Engine) FindByTags(tags []string, all bool) []object.Entity {
	var out []object.Entity
	for _, ent := range e.objects {
		b := ent.Base()
		if b.IsGarbage() {
			continue
		}
		if matches(b, tags, all) {
			out = append(out, ent)
		}
	}
	return out
}

func matches(o *object.Object, tags []string, all bool) bool {
	if len(tags) == 0 {
		return false
	}
	for _, t := range tags {
		has := o.HasTag(t)
		if all && !has {
			return false
		}
		if !all && has {
			return true
		}
	}
	return all
}

// Stats returns counters as of the last completed tick.
func (e *Engine) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Snapshot returns per-object state as of the last completed tick.
func (e *Engine) Snapshot() []ObjectInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.snapshot)
}

// Run steps the world at up to frame_cap ticks per second until ctx is
// done or Stop is called. Pacing never preempts a slow tick.
func (e *Engine) Run(ctx context.Context) error {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return ErrRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	e.cancel = cancel
	e.running = true
	e.mu.Unlock()

	defer func() {
		cancel()
		e.mu.Lock()
		e.running = false
		e.cancel = nil
		e.mu.Unlock()
	}()

	fps := e.cfg.FrameCap
	if fps <= 0 {
		fps = 30
	}
	limiter := rate.NewLimiter(rate.Limit(fps), 1)
	e.logger.Debug("engine loop started", "frame_cap", fps, "viewport", e.vp)

	for {
		if err := limiter.Wait(ctx); err != nil {
			e.logger.Debug("engine loop stopped", "ticks", e.Stats().Ticks)
			return nil
		}
		e.Step()
	}
}

// Stop ends a running loop. It is safe to call from any goroutine.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.cancel != nil {
		e.cancel()
	}
}

// Running reports whether Run is active.
func (e *Engine) Running() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.running
}

// Step runs one tick.
func (e *Engine) Step() {
	start := time.Now()
	dt := e.timer.Tick()
	e.ctx.Tick = e.timer.Frames() - 1

	e.inTick = true
	var delta Stats
	delta.Swept = e.sweep()
	e.readKeys()
	e.runScreenEffects(dt)

	ordered := e.byPriority()
	e.runObjectEffects(dt, ordered)
	for _, ent := range ordered {
		ent.Base().UpdateFlags(e.vp)
	}
	delta.Collisions = e.collide(ordered)
	for _, ent := range ordered {
		if u, ok := ent.(object.Updater); ok && !ent.Base().IsGarbage() {
			u.OnUpdate(dt, &e.ctx)
		}
	}
	delta.Errors += e.rasterize(ordered)
	blits, renderErrs := e.render(ordered)
	delta.Blits, delta.Errors = blits, delta.Errors+renderErrs
	e.inTick = false

	delta.Spawned = e.landStaged()

	e.mu.Lock()
	e.stats.Ticks++
	e.stats.Spawned += delta.Spawned
	e.stats.Swept += delta.Swept
	e.stats.Collisions += delta.Collisions
	e.stats.Blits += delta.Blits
	e.stats.Errors += delta.Errors
	e.stats.LastDT = dt
	e.mu.Unlock()
	e.publish()

	objectCount.Set(float64(len(e.objects)))
	spawnedTotal.Add(float64(delta.Spawned))
	sweptTotal.Add(float64(delta.Swept))
	collisionsTotal.Add(float64(delta.Collisions))
	blitsTotal.Add(float64(delta.Blits))
	tickDuration.Observe(time.Since(start).Seconds())
}

// Close disposes every entity, staged spawn and screen effect. The engine
// must not be stepped afterwards.
func (e *Engine) Close() {
	e.Stop()
	for _, ent := range append(e.objects, e.staged...) {
		if d, ok := ent.(object.Disposer); ok {
			d.OnDispose()
		}
		if err := ent.Base().Dispose(); err != nil {
			e.logger.Warn("dispose failed", "object", ent.Base().Tags(), "error", err)
		}
		e.collisions.Forget(ent)
	}
	for _, eff := range e.screenEffects {
		eff.Dispose()
	}
	e.objects, e.staged, e.screenEffects = nil, nil, nil
	e.publish()
}

// sweep disposes and removes every entity marked as garbage.
func (e *Engine) sweep() uint64 {
	var swept uint64
	kept := e.objects[:0]
	for _, ent := range e.objects {
		b := ent.Base()
		if !b.IsGarbage() {
			kept = append(kept, ent)
			continue
		}
		if d, ok := ent.(object.Disposer); ok {
			d.OnDispose()
		}
		if err := b.Dispose(); err != nil {
			e.logger.Warn("dispose failed", "object", b.Tags(), "error", err)
		}
		e.collisions.Forget(ent)
		e.logger.Debug("object swept", "object", b.Tags(), "position", b.Position())
		swept++
	}
	clear(e.objects[len(kept):])
	e.objects = kept
	return swept
}

func (e *Engine) readKeys() {
	for _, ent := range e.objects {
		if b := ent.Base(); b.ListensKeys() {
			b.ReadKey()
		}
	}
}

// once is implemented by schedules that stop firing after their first run.
type once interface {
	Done() bool
}

// runScreenEffects runs the effects registered before this pass. Effects
// added by a callback during the pass are kept and first run next tick.
func (e *Engine) runScreenEffects(dt float64) {
	n := len(e.screenEffects)
	live := make([]object.Effect, 0, n)
	for _, eff := range e.screenEffects[:n] {
		if eff.ShouldRun(dt) {
			eff.Run(dt, &e.ctx, nil)
		}
		if o, ok := eff.(once); ok && o.Done() {
			eff.Dispose()
			continue
		}
		live = append(live, eff)
	}
	e.screenEffects = append(live, e.screenEffects[n:]...)
}

func (e *Engine) runObjectEffects(dt float64, ordered []object.Entity) {
	for _, ent := range ordered {
		b := ent.Base()
		if b.IsGarbage() {
			continue
		}
		for _, eff := range b.Effects() {
			if eff.ShouldRun(dt) {
				eff.Run(dt, &e.ctx, ent)
			}
		}
	}
}

func (e *Engine) collide(ordered []object.Entity) uint64 {
	var hits uint64
	for _, ent := range ordered {
		c, ok := ent.(object.Collidable)
		if !ok || ent.Base().IsGarbage() {
			continue
		}
		hits += uint64(e.collisions.Run(c, ordered))
	}
	return hits
}

// rasterize rebuilds every back buffer. A failing object is logged and
// skipped for this tick only.
func (e *Engine) rasterize(ordered []object.Entity) uint64 {
	var errs uint64
	for _, ent := range ordered {
		b := ent.Base()
		if err := b.RefreshPanel(); err != nil {
			errs++
			objectErrors.WithLabelValues("rasterize").Inc()
			e.logger.Warn("rasterize failed", "object", b.Tags(), "error", err)
		}
	}
	return errs
}

func (e *Engine) render(ordered []object.Entity) (blits, errs uint64) {
	for _, ent := range ordered {
		b := ent.Base()
		before := b.Panel().Blits()
		if err := b.Render(); err != nil {
			errs++
			objectErrors.WithLabelValues("render").Inc()
			e.logger.Warn("render failed", "object", b.Tags(), "error", err)
		}
		blits += uint64(b.Panel().Blits() - before)
	}
	if p, ok := e.backend.(panel.Presenter); ok {
		if err := p.Present(); err != nil {
			errs++
			objectErrors.WithLabelValues("present").Inc()
			e.logger.Warn("present failed", "error", err)
		}
	}
	return blits, errs
}

// landStaged moves staged spawns into the world. Entities staged by an
// OnMount hook land on the next tick.
func (e *Engine) landStaged() uint64 {
	staged := e.staged
	e.staged = nil
	for _, ent := range staged {
		e.land(ent)
	}
	return uint64(len(staged))
}

func (e *Engine) land(ent object.Entity) {
	b := ent.Base()
	b.Panel().SetBackend(e.backend)
	e.objects = append(e.objects, ent)
	if m, ok := ent.(object.Mounter); ok {
		m.OnMount(&e.ctx)
	}
	e.logger.Debug("object landed", "object", b.Tags(), "position", b.Position())
}

// byPriority orders the world for effects and rendering: ascending
// priority, ties kept in insertion order.
func (e *Engine) byPriority() []object.Entity {
	ordered := slices.Clone(e.objects)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Base().Priority() < ordered[j].Base().Priority()
	})
	return ordered
}

func (e *Engine) publish() {
	infos := make([]ObjectInfo, 0, len(e.objects))
	for _, ent := range e.objects {
		b := ent.Base()
		infos = append(infos, ObjectInfo{
			Tags:     b.Tags(),
			Position: b.Position(),
			Size:     b.Size(),
			Priority: b.Priority(),
			Flags:    b.Flags(),
			Garbage:  b.IsGarbage(),
		})
	}
	e.mu.Lock()
	e.snapshot = infos
	e.stats.Objects = len(e.objects)
	e.mu.Unlock()
}
var _ object.Registry = (*Engine)(nil)
