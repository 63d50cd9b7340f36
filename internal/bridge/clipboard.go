package bridge

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/example/clipmark/internal/canvas"
	"github.com/example/clipmark/internal/clipboard"
	"github.com/example/clipmark/internal/notify"
)

// Board is the clipboard a Clipboard bridge talks to.
type Board interface {
	ReadImage() ([]byte, error)
	WriteImage(data []byte) (<-chan struct{}, error)
}

// Clipboard is the Bridge used by interactive sessions. It reads the image
// to annotate from the system clipboard and writes the result back.
type Clipboard struct {
	board      Board
	recompress Recompression
	notifier   *notify.Notifier
	log        *slog.Logger

	mu        sync.Mutex
	requested image.Point
	lost      <-chan struct{}
}

var _ Bridge = (*Clipboard)(nil)

// ClipboardOption configures a Clipboard bridge.
type ClipboardOption func(*Clipboard)

// WithBoard replaces the system clipboard.
func WithBoard(b Board) ClipboardOption { return func(c *Clipboard) { c.board = b } }

// WithRecompression enables shrinking of committed images.
func WithRecompression(r Recompression) ClipboardOption {
	return func(c *Clipboard) { c.recompress = r }
}

// WithNotifier sets the desktop notifier for copy and no-image events.
func WithNotifier(n *notify.Notifier) ClipboardOption {
	return func(c *Clipboard) { c.notifier = n }
}

// WithLogger sets the bridge logger.
func WithLogger(l *slog.Logger) ClipboardOption {
	return func(c *Clipboard) {
		if l != nil {
			c.log = l
		}
	}
}

// NewClipboard creates a bridge over the system clipboard.
func NewClipboard(opts ...ClipboardOption) *Clipboard {
	c := &Clipboard{board: clipboard.System{}, log: slog.Default()}
	for _, o := range opts {
		o(c)
	}
	return c
}

// ReadInitial fetches the image to annotate. An empty clipboard yields
// ErrNoImage.
func (c *Clipboard) ReadInitial() ([]byte, error) {
	data, err := c.board.ReadImage()
	if errors.Is(err, clipboard.ErrEmpty) || (err == nil && len(data) == 0) {
		c.log.Info("no image found in clipboard")
		c.notifier.NoImage()
		return nil, ErrNoImage
	}
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	c.log.Debug("read clipboard image", "bytes", len(data))
	return data, nil
}

func (c *Clipboard) RequestResize(w, h int) {
	p := DisplaySize(w, h)
	c.mu.Lock()
	c.requested = p
	c.mu.Unlock()
	c.log.Debug("resize requested", "width", p.X, "height", p.Y)
}

// Requested returns the most recent display area request.
func (c *Clipboard) Requested() image.Point {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.requested
}

// CommitToClipboard writes PNG data to the clipboard, recompressing it first
// when configured.
func (c *Clipboard) CommitToClipboard(data []byte, f canvas.Format) error {
	if f != canvas.FormatPNG {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f)
	}
	if c.recompress.Enabled {
		out, err := c.recompress.Apply(c.log, data)
		if err != nil {
			return fmt.Errorf("recompress: %w", err)
		}
		data = out
	}
	lost, err := c.board.WriteImage(data)
	if err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	c.mu.Lock()
	c.lost = lost
	c.mu.Unlock()
	c.log.Info("image copied to clipboard", "bytes", len(data))
	if c.notifier != nil {
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			img = nil
		}
		c.notifier.Copy(img)
	}
	return nil
}

// Lost returns a channel closed when another application replaces the last
// image written, or nil if nothing has been written.
func (c *Clipboard) Lost() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lost
}
