package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"log/slog"
	"sync"
	"time"

	"github.com/example/clipmark/internal/canvas"
	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"
)

const messageDuration = time.Second

// KeyShortcut describes a keyboard combination that triggers an action.
type KeyShortcut struct {
	Code      key.Code
	Modifiers key.Modifiers
}

// AppState is the annotation window. All of its fields are owned by the
// event loop.
type AppState struct {
	ctrl      *Controller
	committer Committer
	theme     *theme.Theme
	content   image.Point
	log       *slog.Logger
	onClose   func()
	now       func() time.Time

	width, height int
	viewport      Viewport
	toolbar       *toolbar
	dragging      bool
	quit          bool
	message       string
	messageUntil  time.Time
	wake          func(time.Duration)
	backdrop      *image.RGBA

	actions map[string]func()
	keys    map[KeyShortcut]string
}

// Option modifies an AppState during creation.
type Option func(*AppState)

// WithController sets the gesture controller the window drives.
func WithController(c *Controller) Option { return func(a *AppState) { a.ctrl = c } }

// WithCommitter sets where Copy sends the encoded image.
func WithCommitter(c Committer) Option { return func(a *AppState) { a.committer = c } }

// WithTheme sets the UI colors.
func WithTheme(t *theme.Theme) Option {
	return func(a *AppState) {
		if t != nil {
			a.theme = t
		}
	}
}

// WithContentSize sets the initial canvas area of the window.
func WithContentSize(p image.Point) Option { return func(a *AppState) { a.content = p } }

// WithLogger sets the window logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *AppState) {
		if l != nil {
			a.log = l
		}
	}
}

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(a *AppState) { a.onClose = fn } }

// New creates an AppState with the provided options.
func New(opts ...Option) *AppState {
	a := &AppState{
		theme: theme.Default(),
		log:   slog.Default(),
		now:   time.Now,
	}
	for _, o := range opts {
		o(a)
	}
	if a.ctrl == nil {
		a.ctrl = NewController(canvas.NewSurface(nil), canvas.NewOverlay(nil), nil)
	}
	if a.content == (image.Point{}) {
		b := a.ctrl.Surface().Bounds()
		a.content = image.Pt(b.Dx(), b.Dy())
	}
	a.toolbar = newToolbar(a)
	a.registerActions()
	return a
}

func (a *AppState) registerActions() {
	a.actions = map[string]func(){}
	a.keys = map[KeyShortcut]string{}
	register := func(name string, fn func(), keys ...KeyShortcut) {
		a.actions[name] = fn
		for _, k := range keys {
			a.keys[k] = name
		}
	}
	register("copy", a.commit,
		KeyShortcut{Code: key.CodeC, Modifiers: key.ModControl},
		KeyShortcut{Code: key.CodeS, Modifiers: key.ModControl})
	// Both may cancel an in-progress drag.
	register("mode", func() {
		a.ctrl.ToggleMode()
		a.dragging = a.ctrl.Phase() == PhaseDragging
	}, KeyShortcut{Code: key.CodeM})
	register("reset", func() {
		a.ctrl.Reset()
		a.dragging = a.ctrl.Phase() == PhaseDragging
	}, KeyShortcut{Code: key.CodeZ, Modifiers: key.ModControl})
	register("quit", func() { a.quit = true }, KeyShortcut{Code: key.CodeQ})
	register("escape", func() {
		if a.dragging {
			a.ctrl.Cancel()
			a.dragging = false
			return
		}
		a.quit = true
	}, KeyShortcut{Code: key.CodeEscape})
	digits := []key.Code{key.Code1, key.Code2, key.Code3, key.Code4, key.Code5, key.Code6, key.Code7, key.Code8, key.Code9}
	tools := a.ctrl.Tools()
	for i, w := range tool.Widths() {
		if i >= len(digits) {
			break
		}
		register(fmt.Sprintf("width-%d", w), func() { _ = tools.SetWidth(w) }, KeyShortcut{Code: digits[i]})
	}
}

// commit sends the current drawing to the committer and reports the result
// in the message box.
func (a *AppState) commit() {
	if a.committer == nil {
		return
	}
	if err := a.ctrl.Commit(a.committer, canvas.FormatPNG); err != nil {
		a.log.Error("copy failed", "error", err)
		a.showMessage("copy failed")
		return
	}
	a.showMessage("copied to clipboard")
}

func (a *AppState) showMessage(msg string) {
	a.message = msg
	a.messageUntil = a.now().Add(messageDuration)
	if a.wake != nil {
		a.wake(messageDuration)
	}
}

func (a *AppState) messageShown() bool {
	return a.message != "" && a.now().Before(a.messageUntil)
}

// resize lays out the window for a new size and fits the canvas into the
// area below the toolbar.
func (a *AppState) resize(w, h int) {
	a.width, a.height = w, h
	top := a.toolbar.layout(w)
	b := a.ctrl.Surface().Bounds()
	a.viewport = Viewport{
		Origin: image.Pt(0, top),
		Zoom:   fitZoom(image.Pt(b.Dx(), b.Dy()), image.Pt(w, h-top)),
	}
}

// handleMouse applies a mouse event and reports whether a repaint is needed.
func (a *AppState) handleMouse(e mouse.Event) bool {
	p := image.Pt(int(e.X), int(e.Y))
	press := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirPress
	release := e.Button == mouse.ButtonLeft && e.Direction == mouse.DirRelease

	if !a.dragging && p.Y < a.toolbar.height {
		idx := a.toolbar.hit(p)
		changed := idx != a.toolbar.hover
		a.toolbar.hover = idx
		if press && idx >= 0 {
			a.toolbar.buttons[idx].Activate()
			return true
		}
		return changed
	}
	if a.toolbar.hover != -1 {
		a.toolbar.hover = -1
	}

	cp := a.viewport.ToCanvas(e.X, e.Y)
	inside := p.Y >= a.toolbar.height && cp.In(a.ctrl.Surface().Bounds())
	switch {
	case press:
		if !inside {
			return false
		}
		a.ctrl.PointerDown(cp)
		a.dragging = a.ctrl.Phase() == PhaseDragging
		return true
	case release:
		if !a.dragging {
			return false
		}
		a.dragging = false
		if inside {
			a.ctrl.PointerUp(cp)
		} else {
			a.ctrl.PointerLeave()
		}
		return true
	case e.Direction == mouse.DirNone && a.dragging:
		if !inside {
			a.dragging = false
			a.ctrl.PointerLeave()
			return true
		}
		a.ctrl.PointerMove(cp)
		return true
	}
	return false
}

// handleKey applies a key event and reports whether a repaint is needed.
func (a *AppState) handleKey(e key.Event) bool {
	if e.Direction == key.DirRelease {
		return false
	}
	mods := e.Modifiers & (key.ModControl | key.ModMeta)
	name, ok := a.keys[KeyShortcut{Code: e.Code, Modifiers: mods}]
	if !ok {
		return false
	}
	a.actions[name]()
	return true
}

// handleLifecycle ends a drag when the window loses focus and reports
// whether the window is going away.
func (a *AppState) handleLifecycle(e lifecycle.Event) (dead bool) {
	if e.Crosses(lifecycle.StageFocused) == lifecycle.CrossOff && a.dragging {
		a.dragging = false
		a.ctrl.PointerLeave()
	}
	return e.To == lifecycle.StageDead
}

// drawFrame renders the whole window into dst.
func (a *AppState) drawFrame(dst *image.RGBA) {
	th := a.theme
	draw.Draw(dst, dst.Bounds(), &image.Uniform{th.Background}, image.Point{}, draw.Src)

	a.ctrl.View(func(surface, overlay *image.RGBA) {
		r := a.viewport.Rect(surface.Bounds())
		a.drawBackdrop(dst, r)
		xdraw.NearestNeighbor.Scale(dst, r, surface, surface.Bounds(), draw.Over, nil)
		xdraw.NearestNeighbor.Scale(dst, r, overlay, overlay.Bounds(), draw.Over, nil)
	})

	a.toolbar.draw(dst, th)

	if a.messageShown() {
		face := messageFace()
		d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.MessageText), Face: face}
		wmsg := d.MeasureString(a.message).Ceil()
		ascent := face.Metrics().Ascent.Ceil()
		descent := face.Metrics().Descent.Ceil()
		px := (a.width - wmsg) / 2
		py := a.toolbar.height + (a.height-a.toolbar.height-ascent-descent)/2 + ascent
		box := image.Rect(px-8, py-ascent-8, px+wmsg+8, py+descent+8)
		draw.Draw(dst, box, &image.Uniform{th.MessageBackground}, image.Point{}, draw.Over)
		drawOutline(dst, box, th.ButtonBorder)
		d.Dot = fixed.P(px, py)
		d.DrawString(a.message)
	}
}

// drawBackdrop fills r with a cached checkerboard so transparent pixels are
// visible.
func (a *AppState) drawBackdrop(dst *image.RGBA, r image.Rectangle) {
	if r.Empty() {
		return
	}
	if a.backdrop == nil || a.backdrop.Bounds().Size() != r.Size() {
		a.backdrop = image.NewRGBA(image.Rect(0, 0, r.Dx(), r.Dy()))
		drawCheckerboard(a.backdrop, 8, a.theme.CheckerLight, a.theme.CheckerDark)
	}
	draw.Draw(dst, r, a.backdrop, image.Point{}, draw.Src)
}

func drawCheckerboard(dst *image.RGBA, size int, light, dark color.RGBA) {
	b := dst.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if ((x/size)+(y/size))%2 == 0 {
				dst.SetRGBA(x, y, light)
			} else {
				dst.SetRGBA(x, y, dark)
			}
		}
	}
}

var (
	messageFaceOnce sync.Once
	messageFont     font.Face
)

func messageFace() font.Face {
	messageFaceOnce.Do(func() {
		messageFont = basicfont.Face7x13
		f, err := opentype.Parse(goregular.TTF)
		if err != nil {
			slog.Warn("parse font", "error", err)
			return
		}
		face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 32, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			slog.Warn("font face", "error", err)
			return
		}
		messageFont = face
	})
	return messageFont
}

// Run executes the UI loop using shiny's driver.
func (a *AppState) Run() { driver.Main(a.Main) }

// Main opens the window on s and processes events until it is closed.
func (a *AppState) Main(s screen.Screen) {
	defer func() {
		if a.onClose != nil {
			a.onClose()
		}
	}()

	a.resize(max(a.content.X, 1), 1)
	width := max(a.content.X, 1)
	height := max(a.content.Y, 1) + a.toolbar.height
	w, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: "clipmark"})
	if err != nil {
		a.log.Error("new window", "error", err)
		return
	}
	defer w.Release()
	a.resize(width, height)

	var buf screen.Buffer
	defer func() {
		if buf != nil {
			buf.Release()
		}
	}()

	repaint := func() { w.Send(paint.Event{}) }
	// Repaint once the copy message has expired.
	a.wake = func(d time.Duration) { time.AfterFunc(d+10*time.Millisecond, repaint) }
	defer func() { a.wake = nil }()

	for !a.quit {
		switch e := w.NextEvent().(type) {
		case lifecycle.Event:
			if a.handleLifecycle(e) {
				return
			}
		case size.Event:
			a.resize(e.WidthPx, e.HeightPx)
			repaint()
		case paint.Event:
			if e.External && buf != nil {
				w.Upload(image.Point{}, buf, buf.Bounds())
				w.Publish()
				continue
			}
			want := image.Pt(a.width, a.height)
			if buf == nil || buf.Size() != want {
				if buf != nil {
					buf.Release()
					buf = nil
				}
				if want.X <= 0 || want.Y <= 0 {
					continue
				}
				if buf, err = s.NewBuffer(want); err != nil {
					a.log.Error("new buffer", "error", err)
					buf = nil
					continue
				}
			}
			a.drawFrame(buf.RGBA())
			w.Upload(image.Point{}, buf, buf.Bounds())
			w.Publish()
		case mouse.Event:
			if a.handleMouse(e) {
				repaint()
			}
		case key.Event:
			if a.handleKey(e) {
				repaint()
			}
		case error:
			a.log.Error("window event", "error", e)
		}
	}
}
