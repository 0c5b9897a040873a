package surface

import (
	"image"
	"image/color"
	"math"

	"LocalSketch/internal/state"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

type vec struct{ x, y float64 }

func (a vec) add(b vec) vec       { return vec{a.x + b.x, a.y + b.y} }
func (a vec) sub(b vec) vec       { return vec{a.x - b.x, a.y - b.y} }
func (a vec) scale(k float64) vec { return vec{a.x * k, a.y * k} }
func (a vec) fp() fixed.Point26_6 { return rasterx.ToFixedP(a.x, a.y) }
func toVec(p state.Point) vec     { return vec{float64(p.X), float64(p.Y)} }

func clampInt(v float64, lo, hi int) int {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return int(v)
}

// strokeBox is the part of bounds a round-capped stroke of radius r from a
// to b can touch, with a pixel of slack for anti-aliasing.
func strokeBox(a, b vec, r float64, bounds image.Rectangle) image.Rectangle {
	return image.Rect(
		clampInt(math.Floor(math.Min(a.x, b.x)-r)-1, bounds.Min.X, bounds.Max.X),
		clampInt(math.Floor(math.Min(a.y, b.y)-r)-1, bounds.Min.Y, bounds.Max.Y),
		clampInt(math.Ceil(math.Max(a.x, b.x)+r)+1, bounds.Min.X, bounds.Max.X),
		clampInt(math.Ceil(math.Max(a.y, b.y)+r)+1, bounds.Min.Y, bounds.Max.Y),
	)
}

// clipSegment trims a->b to the rectangle lo..hi (Liang-Barsky). It reports
// false when the segment misses the rectangle.
func clipSegment(a, b, lo, hi vec) (vec, vec, bool) {
	d := b.sub(a)
	t0, t1 := 0.0, 1.0
	for _, e := range [4][2]float64{
		{-d.x, a.x - lo.x},
		{d.x, hi.x - a.x},
		{-d.y, a.y - lo.y},
		{d.y, hi.y - a.y},
	} {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return a, b, false
			}
			t0 = math.Max(t0, t)
		} else {
			if t < t0 {
				return a, b, false
			}
			t1 = math.Min(t1, t)
		}
	}
	return a.add(d.scale(t0)), a.add(d.scale(t1)), true
}

// stroke composites a round-capped line from -> to over dst. Only the
// pixels near the segment are rasterized. A zero-length segment gives a
// disc of the given width.
func stroke(dst *image.RGBA, from, to state.Point, c color.Color, width float32) {
	a, b := toVec(from), toVec(to)
	r := float64(width) / 2
	box := strokeBox(a, b, r, dst.Bounds())
	if box.Empty() {
		return
	}

	// Far endpoints are pulled in to just outside the box; the caps they
	// get there never reach it.
	origin := vec{float64(box.Min.X), float64(box.Min.Y)}
	margin := vec{r + 2, r + 2}
	a, b, ok := clipSegment(a, b, origin.sub(margin), vec{float64(box.Max.X), float64(box.Max.Y)}.add(margin))
	if !ok {
		return
	}

	w, h := box.Dx(), box.Dy()
	sub := dst.SubImage(box).(*image.RGBA)
	scanner := rasterx.NewScannerGV(w, h, sub, sub.Bounds())
	s := rasterx.NewStroker(w, h, scanner)
	s.SetStroke(fixed.Int26_6(r*2*64), 4<<6, rasterx.RoundCap, nil, rasterx.RoundGap, rasterx.Round)
	s.SetColor(c)
	s.Start(a.sub(origin).fp())
	s.Line(b.sub(origin).fp())
	s.Stop(false)
	s.Draw()
}
