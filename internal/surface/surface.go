// Package surface holds the raster the engine paints on and the code that
// rasterizes stroke segments into it.
package surface

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"LocalSketch/internal/state"
)

var ErrUninitialized = errors.New("surface: not initialized")

// Surface is a fixed-size RGBA buffer. Every exported method takes the
// same lock, so the input handler and the autosave goroutine never see a
// half-painted segment. A Surface that has not been through Init ignores
// all drawing calls.
type Surface struct {
	mu  sync.Mutex
	img *image.RGBA
}

var _ state.Renderer = (*Surface)(nil)

func New() *Surface {
	return &Surface{}
}

// Init (re)allocates the buffer. The new buffer is fully transparent; the
// caller fills it with the background colour.
func (s *Surface) Init(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.img = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Reinit reallocates the buffer at width x height, fills it with bg and
// draws content over it at the origin. A nil content keeps the current
// pixels. Readers see either the old buffer or the finished new one.
func (s *Surface) Reinit(width, height int, bg color.Color, content image.Image) {
	if width <= 0 || height <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if content == nil && s.img != nil {
		content = s.img
	}
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if content != nil {
		draw.Draw(img, img.Bounds(), content, content.Bounds().Min, draw.Over)
	}
	s.img = img
}

func (s *Surface) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.img != nil
}

func (s *Surface) Size() (width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return 0, 0
	}
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// Fill paints every pixel with c, replacing whatever was there.
func (s *Surface) Fill(c color.Color) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
}

// RenderSegment strokes from -> to with round caps. Consecutive segments
// that share an endpoint overlap in a full disc there, which gives round
// joins for free.
func (s *Surface) RenderSegment(from, to state.Point, c color.Color, width float32) {
	if width <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return
	}
	stroke(s.img, from, to, c, width)
}

// Image returns a copy of the buffer, or nil before Init.
func (s *Surface) Image() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return nil
	}
	out := image.NewRGBA(s.img.Bounds())
	copy(out.Pix, s.img.Pix)
	return out
}

// Composite draws img over the buffer with its top-left corner at the
// origin. Parts of img outside the buffer are dropped.
func (s *Surface) Composite(img image.Image) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.img == nil {
		return ErrUninitialized
	}
	draw.Draw(s.img, s.img.Bounds(), img, img.Bounds().Min, draw.Over)
	return nil
}
