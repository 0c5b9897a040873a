package state

import (
	"image/color"
)

// Point is a position in surface pixel space.
type Point struct{ X, Y float32 }

type Tool int

const (
	ToolPen Tool = iota
	ToolEraser
)

func (t Tool) String() string {
	if t == ToolEraser {
		return "eraser"
	}
	return "pen"
}

// EraserWidth is the stroke width used while the eraser is selected.
const EraserWidth float32 = 20

// Style is the set of drawing parameters the toolbar controls.
// It is read on every segment, so changing it mid-stroke takes effect mid-stroke.
type Style struct {
	Tool            Tool
	PenColor        color.NRGBA
	BackgroundColor color.NRGBA
	StrokeWidth     float32
}

// DefaultStyle is a black 5px pen on white.
func DefaultStyle() Style {
	return Style{
		Tool:            ToolPen,
		PenColor:        color.NRGBA{A: 0xff},
		BackgroundColor: color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
		StrokeWidth:     5,
	}
}

// EffectiveColor is the colour actually painted. The eraser paints the
// background colour; it does not clear to transparency.
func (s Style) EffectiveColor() color.NRGBA {
	if s.Tool == ToolEraser {
		return s.BackgroundColor
	}
	return s.PenColor
}

func (s Style) EffectiveWidth() float32 {
	if s.Tool == ToolEraser {
		return EraserWidth
	}
	return s.StrokeWidth
}

// Session is the ephemeral record of one press-to-release interaction.
type Session struct {
	ID        string
	LastPoint Point
}
