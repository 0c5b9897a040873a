package state

import (
	"image/color"
	"log"

	"github.com/google/uuid"
)

// Renderer is the pixel surface the engine paints on.
type Renderer interface {
	RenderSegment(from, to Point, c color.Color, width float32)
	Fill(c color.Color)
}

// Phase is the stroke state: Idle or Drawing.
type Phase int

const (
	Idle Phase = iota
	Drawing
)

func (p Phase) String() string {
	if p == Drawing {
		return "drawing"
	}
	return "idle"
}

// Engine turns press/move/release calls into connected segments on a
// Renderer. It owns the style and the current session; nothing else
// mutates them. Engine is not safe for concurrent use; the UI adapter
// calls it from one goroutine.
type Engine struct {
	surface Renderer
	style   Style
	session *Session

	// OnCommit is called after a stroke ends and after a fill, so the
	// caller can persist the surface.
	OnCommit func()
}

func NewEngine(r Renderer, style Style) *Engine {
	return &Engine{surface: r, style: style}
}

func (e *Engine) State() Phase {
	if e.session != nil {
		return Drawing
	}
	return Idle
}

func (e *Engine) Style() Style { return e.style }

func (e *Engine) SetTool(t Tool) {
	e.style.Tool = t
}

func (e *Engine) SetPenColor(c color.Color) {
	e.style.PenColor = color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (e *Engine) SetBackgroundColor(c color.Color) {
	e.style.BackgroundColor = color.NRGBAModel.Convert(c).(color.NRGBA)
}

// SetStrokeWidth ignores non-positive widths.
func (e *Engine) SetStrokeWidth(w float32) {
	if w <= 0 {
		return
	}
	e.style.StrokeWidth = w
}

// Press begins a stroke at p. Nothing is painted until the first move.
func (e *Engine) Press(p Point) {
	if e.session != nil {
		e.end()
	}
	e.session = &Session{ID: uuid.NewString(), LastPoint: p}
	log.Printf("[ENGINE] Stroke %s started at (%.1f, %.1f) with %s", e.session.ID, p.X, p.Y, e.style.Tool)
}

// Move paints LastPoint -> p with the style in effect right now. Moves
// while idle are ignored.
func (e *Engine) Move(p Point) {
	if e.session == nil {
		return
	}
	e.surface.RenderSegment(e.session.LastPoint, p, e.style.EffectiveColor(), e.style.EffectiveWidth())
	e.session.LastPoint = p
}

func (e *Engine) Release() {
	if e.session == nil {
		return
	}
	e.end()
}

// Leave behaves as Release: the pointer left the surface.
func (e *Engine) Leave() {
	e.Release()
}

func (e *Engine) end() {
	log.Printf("[ENGINE] Stroke %s ended", e.session.ID)
	e.session = nil
	e.commit()
}

// FillBackground overwrites the whole surface with the background colour.
func (e *Engine) FillBackground() {
	e.surface.Fill(e.style.BackgroundColor)
	log.Printf("[ENGINE] Filled surface with %s", ColorString(e.style.BackgroundColor))
	e.commit()
}

func (e *Engine) commit() {
	if e.OnCommit != nil {
		e.OnCommit()
	}
}
