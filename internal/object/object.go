package object

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/drawing"
	"github.com/vovakirdan/tui-engine/internal/panel"
)

// ErrNilDrawing is returned when an object is built without a drawing.
var ErrNilDrawing = errors.New("object: nil drawing")

// Options configures a new object. The zero value is a valid,
// non-persistent object at the origin.
type Options struct {
	Tags       []string
	Position   core.Vec2
	Priority   int
	Persistent bool
	// ListenKeys makes the engine poll this object's window every tick.
	ListenKeys bool
	Color      core.Color
}

// Flags classify an object against the viewport. They are recomputed
// every tick, so setting them by hand only lasts until the next pass.
type Flags struct {
	InView     bool
	OnFloor    bool
	BelowFloor bool
	OnRoof     bool
	AboveRoof  bool
	PastLeft   bool
	PastRight  bool
}

// Object is the base world entity: a drawing on a panel with tags,
// effects and viewport flags.
type Object struct {
	tags    map[string]struct{}
	drawing drawing.Drawable
	panel   *panel.Panel
	flags   Flags
	effects []Effect

	garbage    bool
	persistent bool
	disposed   bool

	listenKeys bool
	key        core.Action
	keyOK      bool
}

// New builds an object around d.
func New(d drawing.Drawable, opts Options) (*Object, error) {
	if drawing.IsNil(d) {
		return nil, ErrNilDrawing
	}
	o := &Object{
		tags:       make(map[string]struct{}, len(opts.Tags)),
		drawing:    d,
		panel:      panel.New(d.Size(), opts.Position, opts.Priority),
		persistent: opts.Persistent,
		listenKeys: opts.ListenKeys,
	}
	o.panel.SetColor(opts.Color)
	for _, t := range opts.Tags {
		o.tags[t] = struct{}{}
	}
	return o, nil
}

// Base returns the object itself, so embedding types satisfy Entity.
func (o *Object) Base() *Object { return o }

// Tags returns the object's tags in sorted order.
func (o *Object) Tags() []string {
	out := make([]string, 0, len(o.tags))
	for t := range o.tags {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// HasTag reports whether the object carries tag.
func (o *Object) HasTag(tag string) bool {
	_, ok := o.tags[tag]
	return ok
}

// AddTag attaches a tag.
func (o *Object) AddTag(tag string) {
	o.tags[tag] = struct{}{}
}

// Drawing returns the drawable rasterized every tick.
func (o *Object) Drawing() drawing.Drawable { return o.drawing }

// SetDrawing swaps the drawable. A size change rebuilds the window on the next render.
func (o *Object) SetDrawing(d drawing.Drawable) error {
	if drawing.IsNil(d) {
		return ErrNilDrawing
	}
	o.drawing = d
	return nil
}

// Position returns the top-left corner in viewport cells.
func (o *Object) Position() core.Vec2 { return o.panel.Pos() }

// SetPosition moves the object.
func (o *Object) SetPosition(p core.Vec2) { o.panel.SetPos(p) }

// Move shifts the object by delta.
func (o *Object) Move(delta core.Vec2) { o.panel.SetPos(o.panel.Pos().Add(delta)) }

// Size is the drawing's rectangle.
func (o *Object) Size() core.Vec2 { return o.drawing.Size() }

// Bounds is derived from position and size on every call.
func (o *Object) Bounds() core.Bounds { return core.NewBounds(o.Position(), o.Size()) }

// Priority is the render order; higher draws on top.
func (o *Object) Priority() int { return o.panel.Priority() }

// Panel exposes the rendering surface.
func (o *Object) Panel() *panel.Panel { return o.panel }

// Flags returns the classification from the last flag pass.
func (o *Object) Flags() Flags { return o.flags }

// InView is shorthand for Flags().InView.
func (o *Object) InView() bool { return o.flags.InView }

// SetOnFloor lets collision responses snap the object to a surface.
func (o *Object) SetOnFloor(v bool) { o.flags.OnFloor = v }

// IsGarbage reports whether the object is waiting to be swept.
func (o *Object) IsGarbage() bool { return o.garbage }

// MarkGarbage schedules the object for removal at the next sweep.
func (o *Object) MarkGarbage() { o.garbage = true }

// IsPersistent reports whether leaving the view keeps the object alive.
func (o *Object) IsPersistent() bool { return o.persistent }

// SetPersistent changes whether leaving the view keeps the object alive.
func (o *Object) SetPersistent(v bool) { o.persistent = v }

// AddEffect attaches an effect evaluated every tick.
func (o *Object) AddEffect(e Effect) {
	o.effects = append(o.effects, e)
}

// Effects returns the attached effects in registration order.
func (o *Object) Effects() []Effect {
	return slices.Clone(o.effects)
}

// ListensKeys reports whether the engine polls this object's window.
func (o *Object) ListensKeys() bool { return o.listenKeys }

// ReadKey polls the window once and stores the result for this tick.
func (o *Object) ReadKey() {
	o.key, o.keyOK = o.panel.PollKey()
}

// KeyPressed returns the key read this tick, if any.
func (o *Object) KeyPressed() (core.Action, bool) {
	return o.key, o.keyOK
}

// UpdateFlags classifies the object against vp and marks it garbage when
// it is out of view and not persistent.
func (o *Object) UpdateFlags(vp core.Viewport) {
	b := o.Bounds()
	var f Flags

	f.PastLeft = b.XStart <= 0
	f.PastRight = b.XEnd >= vp.Width-1

	switch {
	case b.YEnd == vp.Floor:
		f.OnFloor = true
	case b.YEnd > vp.Floor:
		f.BelowFloor = true
	}
	switch {
	case b.YStart == vp.Roof:
		f.OnRoof = true
	case b.YStart < vp.Roof:
		f.AboveRoof = true
	}

	f.InView = !f.PastLeft && !f.PastRight && !f.AboveRoof && !f.BelowFloor
	o.flags = f

	if !o.persistent && !f.InView {
		o.garbage = true
	}
}

// RefreshPanel resizes the panel to the drawing and rasterizes it into
// the back buffer.
func (o *Object) RefreshPanel() error {
	if size := o.drawing.Size(); size != o.panel.Size() {
		o.panel.Resize(size)
	}
	if err := o.panel.Update(o.drawing); err != nil {
		return fmt.Errorf("object %v: %w", o.Tags(), err)
	}
	return nil
}

// ShouldRerender reports whether geometry or content changed.
func (o *Object) ShouldRerender() bool { return o.panel.ShouldRerender() }

// Render pushes the back buffer to the backend window if needed.
func (o *Object) Render() error {
	if err := o.panel.Render(o.flags.InView); err != nil {
		return fmt.Errorf("object %v: %w", o.Tags(), err)
	}
	return nil
}

// Dispose releases effects and the window. Only the first call has effect.
func (o *Object) Dispose() error {
	if o.disposed {
		return nil
	}
	o.disposed = true
	o.garbage = true
	for _, e := range o.effects {
		e.Dispose()
	}
	o.effects = nil
	return o.panel.Destroy()
}

// Disposed reports whether Dispose has run.
func (o *Object) Disposed() bool { return o.disposed }
