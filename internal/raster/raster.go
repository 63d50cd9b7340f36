// Package raster provides the pixel drawing capability used by the canvas
// layers. The software implementation strokes anti-aliased paths into an
// *image.RGBA.
package raster

import (
	"image"
	"image/color"
)

// Painter is the set of drawing operations the canvas layers depend on.
// Coordinates are in buffer space and refer to pixel centres. Implementations
// clip to their bounds and never write outside them.
type Painter interface {
	Bounds() image.Rectangle
	// DrawLine strokes a segment from one point to another with round caps.
	DrawLine(from, to image.Point, col color.RGBA, width int)
	// DrawRect strokes the outline of r. Min and Max are both corners of
	// the outline, so Max is inclusive here.
	DrawRect(r image.Rectangle, col color.RGBA, width int)
	// Image returns the live buffer. Callers must not modify it.
	Image() *image.RGBA
	// Pixels returns a copy of the buffer.
	Pixels() *image.RGBA
	// PutPixels replaces the buffer with a copy of img, adopting its size.
	PutPixels(img *image.RGBA)
	// Clear makes every pixel fully transparent.
	Clear()
	// Resize discards the content and reallocates a transparent buffer.
	Resize(w, h int)
}

// Normalize returns the canonical rectangle spanned by two drag points
// regardless of the direction of the drag.
func Normalize(a, b image.Point) image.Rectangle {
	return image.Rect(a.X, a.Y, b.X, b.Y)
}

// Clone returns a deep copy of img rebased to a zero origin.
func Clone(img *image.RGBA) *image.RGBA {
	if img == nil {
		return nil
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := 0; y < b.Dy(); y++ {
		src := img.Pix[img.PixOffset(b.Min.X, b.Min.Y+y):]
		copy(out.Pix[y*out.Stride:y*out.Stride+4*b.Dx()], src[:4*b.Dx()])
	}
	return out
}
