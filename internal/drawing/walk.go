package drawing

import "github.com/vovakirdan/tui-engine/internal/core"

// Leaf is one plain drawing reached while flattening a tree, with its
// offset resolved against every enclosing stack.
type Leaf struct {
	Tag    string
	Origin core.Vec2
	Size   core.Vec2
	Lines  []string
}

// Walk visits every leaf drawing of d depth-first, in the order children
// were added. The root's own LocalPos is honored. Walk stops at the first
// error returned by fn.
func Walk(d Drawable, fn func(Leaf) error) error {
	if IsNil(d) {
		return ErrNilDrawable
	}
	return walk(d, core.Vec2{}, fn)
}

func walk(d Drawable, origin core.Vec2, fn func(Leaf) error) error {
	switch v := d.(type) {
	case *Drawing:
		return fn(Leaf{
			Tag:    v.tag,
			Origin: origin.Add(v.localPos),
			Size:   v.Size(),
			Lines:  v.CurrentState(),
		})
	case *Stack:
		base := origin.Add(v.localPos)
		for _, c := range v.children {
			if err := walk(c, base, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
