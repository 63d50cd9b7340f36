package raster

import (
	"image"
	"image/color"
	"math"

	"github.com/srwiley/rasterx"
	"golang.org/x/image/math/fixed"
)

// miterLimit is the rasterx miter limit, in stroke widths, for rectangle
// corners.
const miterLimit = 4

// RGBA is a Painter backed by an in-memory *image.RGBA.
type RGBA struct {
	img *image.RGBA
}

var _ Painter = (*RGBA)(nil)

// NewRGBA creates a transparent w by h buffer. A zero size is valid and
// yields an empty painter.
func NewRGBA(w, h int) *RGBA {
	p := &RGBA{}
	p.Resize(w, h)
	return p
}

func (p *RGBA) Bounds() image.Rectangle { return p.img.Bounds() }

func (p *RGBA) Image() *image.RGBA { return p.img }

func (p *RGBA) Pixels() *image.RGBA { return Clone(p.img) }

func (p *RGBA) PutPixels(img *image.RGBA) {
	p.img = Clone(img)
}

func (p *RGBA) Clear() {
	clear(p.img.Pix)
}

func (p *RGBA) Resize(w, h int) {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	p.img = image.NewRGBA(image.Rect(0, 0, w, h))
}

func (p *RGBA) DrawLine(from, to image.Point, col color.RGBA, width int) {
	width = max(width, 1)
	a, b, ok := clipSegment(from, to, p.reach(width))
	if !ok {
		return
	}
	box := image.Rect(
		int(math.Floor(min(a.x, b.x))), int(math.Floor(min(a.y, b.y))),
		int(math.Ceil(max(a.x, b.x)))+1, int(math.Ceil(max(a.y, b.y)))+1,
	).Inset(-(width/2 + 2))
	p.stroke(box, col, width, rasterx.RoundCap, rasterx.RoundGap, rasterx.Round, false, a, b)
}

func (p *RGBA) DrawRect(r image.Rectangle, col color.RGBA, width int) {
	width = max(width, 1)
	r = r.Canon()
	// Edges beyond the reach box are never visible, so pulling them in
	// leaves the visible outline unchanged.
	reach := p.reach(width)
	r.Min = clampPoint(r.Min, reach)
	r.Max = clampPoint(r.Max, reach)
	box := image.Rect(r.Min.X, r.Min.Y, r.Max.X+1, r.Max.Y+1).Inset(-(width/2 + 2))
	p.stroke(box, col, width, rasterx.ButtCap, rasterx.FlatGap, rasterx.Miter, true,
		pt(r.Min.X, r.Min.Y), pt(r.Max.X, r.Min.Y), pt(r.Max.X, r.Max.Y), pt(r.Min.X, r.Max.Y))
}

// reach is the area in which geometry can still affect a pixel of the
// buffer for a stroke of the given width.
func (p *RGBA) reach(width int) image.Rectangle {
	return p.img.Bounds().Inset(-(width + 2))
}

type point struct{ x, y float64 }

func pt(x, y int) point { return point{float64(x), float64(y)} }

func clampPoint(q image.Point, r image.Rectangle) image.Point {
	return image.Pt(min(max(q.X, r.Min.X), r.Max.X), min(max(q.Y, r.Min.Y), r.Max.Y))
}

// clipSegment cuts the segment a-b to r (Liang-Barsky). It reports false
// when no part of the segment lies inside r.
func clipSegment(a, b image.Point, r image.Rectangle) (point, point, bool) {
	x0, y0 := float64(a.X), float64(a.Y)
	dx, dy := float64(b.X)-x0, float64(b.Y)-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - float64(r.Min.X)},
		{dx, float64(r.Max.X) - x0},
		{-dy, y0 - float64(r.Min.Y)},
		{dy, float64(r.Max.Y) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return point{}, point{}, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			if t > t1 {
				return point{}, point{}, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return point{}, point{}, false
			}
			t1 = min(t1, t)
		}
	}
	return point{x0 + t0*dx, y0 + t0*dy}, point{x0 + t1*dx, y0 + t1*dy}, true
}

// stroke rasterizes the polyline pts into the part of the buffer covered by
// box. Only that sub-image is scanned, so the cost follows the area of the
// shape's bounding box rather than the size of the buffer. For a long
// diagonal that area grows with both of its sides.
func (p *RGBA) stroke(box image.Rectangle, col color.RGBA, width int, capFn rasterx.CapFunc, gapFn rasterx.GapFunc, join rasterx.JoinMode, closed bool, pts ...point) {
	clip := box.Intersect(p.img.Bounds())
	if clip.Empty() || len(pts) < 2 {
		return
	}
	dst := p.img.SubImage(clip).(*image.RGBA)
	w, h := clip.Dx(), clip.Dy()
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	stroker := rasterx.NewStroker(w, h, scanner)
	stroker.SetStroke(fixed.I(width), fixed.I(miterLimit), capFn, capFn, gapFn, join)
	stroker.SetColor(col)

	at := func(q point) fixed.Point26_6 {
		return rasterx.ToFixedP(q.x-float64(clip.Min.X)+0.5, q.y-float64(clip.Min.Y)+0.5)
	}
	stroker.Start(at(pts[0]))
	for _, q := range pts[1:] {
		stroker.Line(at(q))
	}
	stroker.Stop(closed)
	stroker.Draw()
}
