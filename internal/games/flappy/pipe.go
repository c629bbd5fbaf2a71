package flappy

import (
	"fmt"

	"github.com/vovakirdan/tui-engine/internal/core"
	"github.com/vovakirdan/tui-engine/internal/drawing"
	"github.com/vovakirdan/tui-engine/internal/effect"
	"github.com/vovakirdan/tui-engine/internal/object"
)

const (
	pipeTrunk = `  |      |  `
	// The cap of a top pipe hangs below its trunk.
	topCap = " _|      |_ \n|__________|"
	// The cap of a bottom pipe sits above its trunk.
	bottomCap = " __________ \n|_|      |_|"

	pipeWidth   = 12
	pipeCapRows = 2
)

// Pipe is one half of an obstacle. It scrolls left until it is swept at
// the left edge.
type Pipe struct {
	*object.CollidableObject
	top    bool
	passed bool
}

// pipeDrawing stacks height-2 copies of the trunk with the cap at the gap end.
func pipeDrawing(top bool, height int) (*drawing.Stack, error) {
	if height < pipeCapRows {
		return nil, fmt.Errorf("flappy: pipe height %d is shorter than its cap", height)
	}
	stack := drawing.NewStack("pipe")
	trunk := drawing.FromText("trunk", pipeTrunk)
	capText := bottomCap
	if top {
		capText = topCap
	}
	end := drawing.FromText("cap", capText)

	if !top {
		if err := stack.Add(end, drawing.Vertical, drawing.Start); err != nil {
			return nil, err
		}
	}
	for range height - pipeCapRows {
		if err := stack.Add(trunk.Copy(), drawing.Vertical, drawing.Start); err != nil {
			return nil, err
		}
	}
	if top {
		if err := stack.Add(end, drawing.Vertical, drawing.Start); err != nil {
			return nil, err
		}
	}
	return stack, nil
}

// NewPipe builds a pipe of height rows at pos, moving one column left every scroll period.
func NewPipe(top bool, height int, pos core.Vec2, scroll core.Duration) (*Pipe, error) {
	d, err := pipeDrawing(top, height)
	if err != nil {
		return nil, err
	}
	side := "bottom"
	if top {
		side = "top"
	}
	c, err := object.NewCollidable(d, object.Options{
		Tags:     []string{"pipe", side},
		Position: pos,
		Color:    core.ColorGreen,
	}, object.Filled)
	if err != nil {
		return nil, err
	}
	c.AddEffect(effect.NewMove(core.V(-1, 0), scroll))
	return &Pipe{CollidableObject: c, top: top}, nil
}

// Top reports whether the pipe hangs from the roof.
func (p *Pipe) Top() bool { return p.top }
