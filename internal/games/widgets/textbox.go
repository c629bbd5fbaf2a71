// Package widgets holds small reusable entities for scenes.
package widgets

import (
	"strings"
	"unicode/utf8"

	"github.com/vovakirdan/tui-engine/internal/drawing"
	"github.com/vovakirdan/tui-engine/internal/object"
)

// Frame draws a box around text. Multi-line text gets one box row per line.
func Frame(tag, text string) *drawing.Drawing {
	lines := strings.Split(text, "\n")
	width := 0
	for _, l := range lines {
		width = max(width, utf8.RuneCountInString(l))
	}

	var b strings.Builder
	border := "+" + strings.Repeat("-", width+2) + "+"
	b.WriteString(border)
	for _, l := range lines {
		b.WriteString("\n| ")
		b.WriteString(l)
		b.WriteString(strings.Repeat(" ", width-utf8.RuneCountInString(l)))
		b.WriteString(" |")
	}
	b.WriteString("\n")
	b.WriteString(border)

	d := drawing.New(tag)
	d.StripNewLines = false
	return d.Draw(b.String())
}

// TextBox is an object showing a line of text, optionally framed.
type TextBox struct {
	*object.Object
	text   string
	framed bool
}

// NewTextBox builds a text box. Empty text is drawn as a single space so
// the box always has a size.
func NewTextBox(text string, opts object.Options, framed bool) (*TextBox, error) {
	o, err := object.New(render(text, framed), opts)
	if err != nil {
		return nil, err
	}
	return &TextBox{Object: o, text: text, framed: framed}, nil
}

func render(text string, framed bool) *drawing.Drawing {
	if text == "" {
		text = " "
	}
	if framed {
		return Frame("textbox", text)
	}
	return drawing.FromText("textbox", text)
}

// Text returns the displayed text.
func (t *TextBox) Text() string { return t.text }

// SetText swaps the drawing when text changes.
func (t *TextBox) SetText(text string) error {
	if text == t.text {
		return nil
	}
	if err := t.SetDrawing(render(text, t.framed)); err != nil {
		return err
	}
	t.text = text
	return nil
}
