// Package rastertest provides painters for tests that need to observe how a
// layer is drawn into.
package rastertest

import (
	"image"
	"image/color"

	"github.com/example/clipmark/internal/raster"
)

// Counting wraps a software painter and counts the calls that mutate pixels.
type Counting struct {
	*raster.RGBA
	Lines, Rects, Puts, Clears, Resizes int
}

var _ raster.Painter = (*Counting)(nil)

// NewCounting returns an empty counting painter.
func NewCounting() *Counting {
	return &Counting{RGBA: raster.NewRGBA(0, 0)}
}

// Mutations is the total number of pixel-changing calls seen so far.
func (c *Counting) Mutations() int {
	return c.Lines + c.Rects + c.Puts + c.Clears + c.Resizes
}

// Reset zeroes the counters without touching the pixels.
func (c *Counting) Reset() {
	c.Lines, c.Rects, c.Puts, c.Clears, c.Resizes = 0, 0, 0, 0, 0
}

func (c *Counting) DrawLine(from, to image.Point, col color.RGBA, width int) {
	c.Lines++
	c.RGBA.DrawLine(from, to, col, width)
}

func (c *Counting) DrawRect(r image.Rectangle, col color.RGBA, width int) {
	c.Rects++
	c.RGBA.DrawRect(r, col, width)
}

func (c *Counting) PutPixels(img *image.RGBA) {
	c.Puts++
	c.RGBA.PutPixels(img)
}

func (c *Counting) Clear() {
	c.Clears++
	c.RGBA.Clear()
}

func (c *Counting) Resize(w, h int) {
	c.Resizes++
	c.RGBA.Resize(w, h)
}
