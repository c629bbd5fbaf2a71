package object

import "github.com/vovakirdan/tui-engine/internal/core"

// Entity is anything the world can hold. Game types embed *Object (or
// *CollidableObject) and override the optional hooks below.
type Entity interface {
	Base() *Object
}

// Positioned entities occupy a box in viewport cells.
type Positioned interface {
	Position() core.Vec2
	SetPosition(p core.Vec2)
	Size() core.Vec2
	Bounds() core.Bounds
}

// Renderable entities own a panel that is rasterized and blitted each tick.
type Renderable interface {
	Positioned
	Priority() int
	RefreshPanel() error
	ShouldRerender() bool
	Render() error
}

// Effected entities carry scheduled effects.
type Effected interface {
	AddEffect(e Effect)
	Effects() []Effect
}

// Collidable entities take part in collision detection.
type Collidable interface {
	Entity
	Collider() *Collider
	CollideWith(other Entity, phase Phase)
}

// Mounter is called once when an entity lands in the world.
type Mounter interface {
	OnMount(ctx *Context)
}

// Updater runs after collisions and before the panel is rasterized.
type Updater interface {
	OnUpdate(dt float64, ctx *Context)
}

// Disposer is called once when an entity is swept from the world.
type Disposer interface {
	OnDispose()
}

var (
	_ Entity     = (*Object)(nil)
	_ Renderable = (*Object)(nil)
	_ Effected   = (*Object)(nil)
	_ Collidable = (*CollidableObject)(nil)
)
