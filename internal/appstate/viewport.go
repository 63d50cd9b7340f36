package appstate

import (
	"image"
	"math"
)

// Viewport maps between window pixels and canvas pixels. The canvas is drawn
// with its top-left corner at Origin and scaled by Zoom.
type Viewport struct {
	Origin image.Point
	Zoom   float64
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return 1
	}
	return v.Zoom
}

// ToCanvas converts a window position to canvas coordinates.
func (v Viewport) ToCanvas(x, y float32) image.Point {
	z := v.zoom()
	return image.Pt(
		int(math.Floor((float64(x)-float64(v.Origin.X))/z)),
		int(math.Floor((float64(y)-float64(v.Origin.Y))/z)),
	)
}

// Rect returns where a canvas of the given bounds appears in the window.
func (v Viewport) Rect(canvas image.Rectangle) image.Rectangle {
	z := v.zoom()
	w := int(float64(canvas.Dx()) * z)
	h := int(float64(canvas.Dy()) * z)
	return image.Rect(v.Origin.X, v.Origin.Y, v.Origin.X+w, v.Origin.Y+h)
}

// fitZoom returns the scale that fits an image of size img into avail. Images
// that already fit are shown at their native size.
func fitZoom(img, avail image.Point) float64 {
	if img.X <= 0 || img.Y <= 0 || avail.X <= 0 || avail.Y <= 0 {
		return 1
	}
	zx := float64(avail.X) / float64(img.X)
	zy := float64(avail.Y) / float64(img.Y)
	z := math.Min(zx, zy)
	if z > 1 {
		return 1
	}
	return z
}
