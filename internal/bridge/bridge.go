// Package bridge connects an annotation session to its host: it supplies the
// initial image, receives resize requests and takes the committed result.
package bridge

import (
	"errors"
	"image"

	"github.com/example/clipmark/internal/canvas"
)

// Minimum display area requested for any loaded image.
const (
	MinDisplayWidth  = 800
	MinDisplayHeight = 100
)

var (
	// ErrNoImage reports that the host had no image to start a session with.
	ErrNoImage = errors.New("no image found in clipboard")
	// ErrUnsupportedFormat is returned for commits the host cannot accept.
	ErrUnsupportedFormat = errors.New("unsupported clipboard format")
)

// Bridge is the host side of a session.
type Bridge interface {
	// RequestResize is advisory and expects no reply.
	RequestResize(w, h int)
	CommitToClipboard(data []byte, format canvas.Format) error
}

// DisplaySize returns the area requested for an image of w by h pixels.
func DisplaySize(w, h int) image.Point {
	return image.Pt(max(MinDisplayWidth, w), max(MinDisplayHeight, h))
}

// ResizeListener forwards surface size changes to b.
func ResizeListener(b Bridge) canvas.SizeListener {
	return canvas.SizeListenerFunc(b.RequestResize)
}
