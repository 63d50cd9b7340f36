// Package canvas implements the two drawing layers of an annotation session:
// the committed raster surface and the transparent preview overlay.
package canvas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"

	"github.com/example/clipmark/internal/raster"
)

// SizeListener is told the new dimensions whenever the surface loads an
// image.
type SizeListener interface {
	Resize(w, h int)
}

// SizeListenerFunc adapts a function to SizeListener.
type SizeListenerFunc func(w, h int)

func (f SizeListenerFunc) Resize(w, h int) { f(w, h) }

// Surface holds the committed drawing. It starts empty and adopts the
// dimensions of the first image loaded into it.
type Surface struct {
	painter   raster.Painter
	initial   *image.RGBA
	listeners []SizeListener
	log       *slog.Logger
}

// NewSurface creates an empty surface drawing through p. A nil painter
// selects the in-memory RGBA implementation.
func NewSurface(p raster.Painter) *Surface {
	if p == nil {
		p = raster.NewRGBA(0, 0)
	}
	p.Resize(0, 0)
	return &Surface{painter: p, log: slog.Default()}
}

// SetLogger replaces the logger used for load and export diagnostics.
func (s *Surface) SetLogger(l *slog.Logger) {
	if l != nil {
		s.log = l
	}
}

// OnResize registers l to be told about every successful Load.
func (s *Surface) OnResize(l SizeListener) {
	s.listeners = append(s.listeners, l)
}

// Load decodes data and replaces the surface content with it. The first
// successful load in a session also becomes the restore point. On failure
// the surface is left untouched and a *FormatError is returned.
func (s *Surface) Load(data []byte) error {
	if len(data) == 0 {
		return &FormatError{Err: errors.New("no image data")}
	}
	img, kind, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return &FormatError{Err: err}
	}
	b := img.Bounds()
	if b.Empty() {
		return &FormatError{Err: errors.New("image has no pixels")}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	s.painter.PutPixels(rgba)
	if s.initial == nil {
		s.initial = rgba
	}
	s.log.Debug("loaded image", "format", kind, "width", b.Dx(), "height", b.Dy())
	for _, l := range s.listeners {
		l.Resize(b.Dx(), b.Dy())
	}
	return nil
}

// Empty reports whether no image has been loaded yet.
func (s *Surface) Empty() bool { return s.painter.Bounds().Empty() }

func (s *Surface) Bounds() image.Rectangle { return s.painter.Bounds() }

// Image returns the live committed pixels for display. It must not be
// modified.
func (s *Surface) Image() *image.RGBA { return s.painter.Image() }

// HasSnapshot reports whether a restore point has been captured.
func (s *Surface) HasSnapshot() bool { return s.initial != nil }

// DrawFreehandSegment commits one stroke segment.
func (s *Surface) DrawFreehandSegment(from, to image.Point, col color.RGBA, width int) {
	if s.Empty() {
		return
	}
	s.painter.DrawLine(from, to, col, width)
}

// DrawRectangleOutline commits the outline of the rectangle spanned by a and
// b, in whichever order they were dragged.
func (s *Surface) DrawRectangleOutline(a, b image.Point, col color.RGBA, width int) {
	if s.Empty() {
		return
	}
	s.painter.DrawRect(raster.Normalize(a, b), col, width)
}

// RestoreToInitial puts back the pixels captured by the first Load.
func (s *Surface) RestoreToInitial() {
	if s.initial == nil {
		return
	}
	s.painter.PutPixels(s.initial)
}

// Export encodes the committed pixels. Overlay content is never included.
func (s *Surface) Export(f Format) ([]byte, error) {
	if s.Empty() {
		return nil, &EncodeError{Format: f, Err: errors.New("surface is empty")}
	}
	data, err := Encode(s.painter.Image(), f, png.DefaultCompression)
	if err != nil {
		return nil, err
	}
	s.log.Debug("exported image", "format", f, "bytes", len(data))
	return data, nil
}
