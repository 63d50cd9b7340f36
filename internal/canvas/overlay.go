package canvas

import (
	"image"
	"image/color"

	"github.com/example/clipmark/internal/raster"
)

// Overlay is the transparent layer showing a shape while it is being
// dragged. Its content is always provisional.
type Overlay struct {
	painter raster.Painter
	dirty   bool
}

// NewOverlay creates an empty overlay drawing through p. A nil painter
// selects the in-memory RGBA implementation.
func NewOverlay(p raster.Painter) *Overlay {
	if p == nil {
		p = raster.NewRGBA(0, 0)
	}
	p.Resize(0, 0)
	return &Overlay{painter: p}
}

// Resize blanks the overlay and matches it to the surface dimensions.
func (o *Overlay) Resize(w, h int) {
	o.painter.Resize(w, h)
	o.dirty = false
}

// ShowRectangle replaces any previous preview with the outline spanned by
// anchor and current.
func (o *Overlay) ShowRectangle(anchor, current image.Point, col color.RGBA, width int) {
	if o.painter.Bounds().Empty() {
		return
	}
	o.Clear()
	o.painter.DrawRect(raster.Normalize(anchor, current), col, width)
	o.dirty = true
}

// Clear blanks the overlay. Clearing a blank overlay does nothing.
func (o *Overlay) Clear() {
	if !o.dirty {
		return
	}
	o.painter.Clear()
	o.dirty = false
}

// Empty reports whether the overlay currently shows nothing.
func (o *Overlay) Empty() bool { return !o.dirty }

func (o *Overlay) Bounds() image.Rectangle { return o.painter.Bounds() }

// Image returns the live overlay pixels for compositing.
func (o *Overlay) Image() *image.RGBA { return o.painter.Image() }
