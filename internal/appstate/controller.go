package appstate

import (
	"fmt"
	"image"
	"log/slog"
	"sync"

	"github.com/example/clipmark/internal/canvas"
	"github.com/example/clipmark/internal/tool"
)

// Phase is the gesture state of a Controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseDragging
)

func (p Phase) String() string {
	if p == PhaseDragging {
		return "dragging"
	}
	return "idle"
}

// Committer receives the encoded drawing when the user commits it.
type Committer interface {
	CommitToClipboard(data []byte, format canvas.Format) error
}

// Controller turns pointer gestures into draws on the surface and overlay.
// Freehand strokes are committed segment by segment while a rectangle is
// previewed on the overlay and committed once when the gesture ends.
type Controller struct {
	mu      sync.Mutex
	tools   *tool.State
	surface *canvas.Surface
	overlay *canvas.Overlay
	log     *slog.Logger

	phase  Phase
	anchor image.Point
	last   image.Point
}

// NewController wires the layers together. The overlay is registered to
// follow the surface size.
func NewController(s *canvas.Surface, o *canvas.Overlay, t *tool.State) *Controller {
	if t == nil {
		t = tool.New()
	}
	s.OnResize(o)
	return &Controller{tools: t, surface: s, overlay: o, log: slog.Default()}
}

// SetLogger replaces the logger used for gesture diagnostics.
func (c *Controller) SetLogger(l *slog.Logger) {
	if l != nil {
		c.log = l
	}
}

func (c *Controller) Tools() *tool.State       { return c.tools }
func (c *Controller) Surface() *canvas.Surface { return c.surface }
func (c *Controller) Overlay() *canvas.Overlay { return c.overlay }

func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

// Load replaces the surface content with the encoded image in data.
func (c *Controller) Load(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	return c.surface.Load(data)
}

// View calls fn with the committed and provisional layers while no gesture
// can modify them.
func (c *Controller) View(fn func(surface, overlay *image.RGBA)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fn(c.surface.Image(), c.overlay.Image())
}

// PointerDown starts a gesture at p. Nothing is drawn yet.
func (c *Controller) PointerDown(p image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.surface.Empty() {
		return
	}
	if c.phase == PhaseDragging {
		c.cancelLocked()
	}
	c.phase = PhaseDragging
	c.anchor = p
	c.last = p
}

// PointerMove extends the current gesture to p.
func (c *Controller) PointerMove(p image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDragging {
		return
	}
	switch c.tools.Mode() {
	case tool.ModeFreehand:
		c.surface.DrawFreehandSegment(c.last, p, c.tools.Color(), c.tools.Width())
	case tool.ModeRectangle:
		c.overlay.ShowRectangle(c.anchor, p, c.tools.Color(), c.tools.Width())
	}
	c.last = p
}

// PointerUp ends the gesture at p.
func (c *Controller) PointerUp(p image.Point) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDragging {
		return
	}
	c.last = p
	c.finishLocked()
}

// PointerLeave ends the gesture at the last known point. A rectangle in
// progress is committed rather than dropped.
func (c *Controller) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDragging {
		return
	}
	c.finishLocked()
}

// Cancel abandons the current gesture without committing anything that has
// not been committed already.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// ToggleMode switches between freehand and rectangle. A gesture in progress
// is cancelled first.
func (c *Controller) ToggleMode() tool.Mode {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	m := c.tools.Mode().Toggle()
	c.tools.SetMode(m)
	c.log.Debug("mode changed", "mode", m)
	return m
}

// SetMode selects m, cancelling a gesture in progress when the mode changes.
func (c *Controller) SetMode(m tool.Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.tools.Mode() == m {
		return
	}
	c.cancelLocked()
	c.tools.SetMode(m)
	c.log.Debug("mode changed", "mode", m)
}

// Reset puts back the image as it was first loaded.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
	c.surface.RestoreToInitial()
	c.log.Debug("restored initial image")
}

// Commit exports the committed pixels and hands them to dst.
func (c *Controller) Commit(dst Committer, f canvas.Format) error {
	c.mu.Lock()
	data, err := c.surface.Export(f)
	c.mu.Unlock()
	if err != nil {
		return err
	}
	if err := dst.CommitToClipboard(data, f); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func (c *Controller) finishLocked() {
	if c.tools.Mode() == tool.ModeRectangle {
		c.overlay.Clear()
		c.surface.DrawRectangleOutline(c.anchor, c.last, c.tools.Color(), c.tools.Width())
		c.log.Debug("committed rectangle", "from", c.anchor, "to", c.last)
	}
	c.phase = PhaseIdle
}

func (c *Controller) cancelLocked() {
	if c.phase != PhaseDragging {
		return
	}
	c.overlay.Clear()
	c.phase = PhaseIdle
	c.log.Debug("gesture cancelled")
}
