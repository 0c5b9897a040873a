// Package input turns host pointer and touch events into surface-local
// points and feeds them to a stroke handler.
package input

import (
	"LocalSketch/internal/state"
)

type Kind int

const (
	Down Kind = iota
	Move
	Up
	Leave
)

// Position is a point in window (viewport) coordinates.
type Position struct{ X, Y float32 }

// Event is a raw host event. Mouse events set Pointer; touch events set
// Touches. Up and Leave may carry neither.
type Event struct {
	Kind    Kind
	Pointer *Position
	Touches []Position
}

// Bounds is the surface's box in viewport coordinates. A zero-sized box
// means the surface is not laid out yet.
type Bounds struct {
	Left, Top     float32
	Width, Height float32
}

func (b Bounds) Mounted() bool {
	return b.Width > 0 && b.Height > 0
}

// Handler receives normalized stroke input. *state.Engine implements it.
type Handler interface {
	Press(p state.Point)
	Move(p state.Point)
	Release()
	Leave()
}

var _ Handler = (*state.Engine)(nil)

// Normalize converts ev to surface-local coordinates. Only the first
// touch contact is used.
func Normalize(ev Event, b Bounds) (state.Point, bool) {
	if !b.Mounted() {
		return state.Point{}, false
	}
	var pos Position
	switch {
	case len(ev.Touches) > 0:
		pos = ev.Touches[0]
	case ev.Pointer != nil:
		pos = *ev.Pointer
	default:
		return state.Point{}, false
	}
	return state.Point{X: pos.X - b.Left, Y: pos.Y - b.Top}, true
}

// Dispatch routes ev to h. Nothing is delivered while the surface is
// unmounted, and Down/Move without a position are dropped.
func Dispatch(h Handler, ev Event, b Bounds) {
	if !b.Mounted() {
		return
	}
	switch ev.Kind {
	case Down, Move:
		p, ok := Normalize(ev, b)
		if !ok {
			return
		}
		if ev.Kind == Down {
			h.Press(p)
		} else {
			h.Move(p)
		}
	case Up:
		h.Release()
	case Leave:
		h.Leave()
	}
}
