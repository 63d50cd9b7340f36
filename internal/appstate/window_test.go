package appstate

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newWindow(t *testing.T, f *fixture, rec *recorder) (*AppState, *clock) {
	t.Helper()
	clk := &clock{t: time.Unix(1700000000, 0)}
	a := New(WithController(f.ctrl), WithCommitter(rec), WithContentSize(image.Pt(800, 100)))
	a.now = clk.now
	a.resize(800, 400)
	return a, clk
}

func press(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirPress}
}

func release(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y), Button: mouse.ButtonLeft, Direction: mouse.DirRelease}
}

func move(p image.Point) mouse.Event {
	return mouse.Event{X: float32(p.X), Y: float32(p.Y)}
}

func center(r image.Rectangle) image.Point {
	return image.Pt((r.Min.X+r.Max.X)/2, (r.Min.Y+r.Max.Y)/2)
}

// canvasPoint returns the window position of canvas pixel (x, y).
func canvasPoint(a *AppState, x, y int) image.Point {
	return a.viewport.Origin.Add(image.Pt(x, y))
}

func TestCopyButtonCommits(t *testing.T) {
	f := newFixture(t, 100, 50)
	rec := &recorder{}
	a, _ := newWindow(t, f, rec)

	if !a.handleMouse(press(center(a.toolbar.buttons[0].Rect()))) {
		t.Fatalf("click on copy did not request a repaint")
	}
	if len(rec.commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(rec.commits))
	}
	if a.message != "copied to clipboard" || !a.messageShown() {
		t.Fatalf("message = %q shown=%v", a.message, a.messageShown())
	}
}

func TestCopyFailureShowsMessage(t *testing.T) {
	f := newFixture(t, 100, 50)
	rec := &recorder{err: errors.New("boom")}
	a, _ := newWindow(t, f, rec)
	a.commit()
	if a.message != "copy failed" {
		t.Fatalf("message = %q", a.message)
	}
}

func TestMessageExpires(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, clk := newWindow(t, f, &recorder{})
	var woke time.Duration
	a.wake = func(d time.Duration) { woke = d }

	a.commit()
	if woke != messageDuration {
		t.Fatalf("wake = %v, want %v", woke, messageDuration)
	}
	clk.t = clk.t.Add(messageDuration / 2)
	if !a.messageShown() {
		t.Fatalf("message hidden too early")
	}
	clk.t = clk.t.Add(messageDuration)
	if a.messageShown() {
		t.Fatalf("message still shown after expiry")
	}
}

func TestSwatchAndModeButtons(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	tools := f.ctrl.Tools()

	palette := tool.Palette()
	last := 3 + len(palette) - 1
	a.handleMouse(press(center(a.toolbar.buttons[last].Rect())))
	if got, want := tools.Color(), palette[len(palette)-1].Color; got != want {
		t.Fatalf("color = %v, want %v", got, want)
	}

	a.handleMouse(press(center(a.toolbar.buttons[1].Rect())))
	if tools.Mode() != tool.ModeRectangle {
		t.Fatalf("mode = %v, want rectangle", tools.Mode())
	}

	widths := tool.Widths()
	a.handleMouse(press(center(a.toolbar.buttons[len(a.toolbar.buttons)-1].Rect())))
	if got, want := tools.Width(), widths[len(widths)-1]; got != want {
		t.Fatalf("width = %d, want %d", got, want)
	}
}

func TestToolbarHover(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	if !a.handleMouse(move(center(a.toolbar.buttons[2].Rect()))) {
		t.Fatalf("hover change did not request a repaint")
	}
	if a.toolbar.hover != 2 {
		t.Fatalf("hover = %d, want 2", a.toolbar.hover)
	}
	if a.handleMouse(move(center(a.toolbar.buttons[2].Rect()))) {
		t.Fatalf("unchanged hover requested a repaint")
	}
}

func TestMouseDragDrawsFreehand(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})

	a.handleMouse(press(canvasPoint(a, 10, 10)))
	if !a.dragging {
		t.Fatalf("press on canvas did not start a drag")
	}
	a.handleMouse(move(canvasPoint(a, 40, 10)))
	a.handleMouse(move(canvasPoint(a, 40, 30)))
	a.handleMouse(release(canvasPoint(a, 40, 30)))

	if f.surface.Lines != 2 {
		t.Fatalf("lines = %d, want 2", f.surface.Lines)
	}
	if f.ctrl.Phase() != PhaseIdle || a.dragging {
		t.Fatalf("drag not finished")
	}
}

func TestPressOutsideCanvasIgnored(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	if a.handleMouse(press(canvasPoint(a, 300, 10))) {
		t.Fatalf("press outside canvas requested a repaint")
	}
	if a.dragging || f.ctrl.Phase() != PhaseIdle {
		t.Fatalf("press outside canvas started a drag")
	}
}

func TestLeavingCanvasCommitsRectangle(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	f.ctrl.Tools().SetMode(tool.ModeRectangle)

	a.handleMouse(press(canvasPoint(a, 10, 10)))
	a.handleMouse(move(canvasPoint(a, 60, 40)))
	a.handleMouse(move(canvasPoint(a, 300, 40)))

	if f.surface.Rects != 1 {
		t.Fatalf("rects = %d, want 1", f.surface.Rects)
	}
	if a.dragging || f.ctrl.Phase() != PhaseIdle {
		t.Fatalf("leave did not end the drag")
	}
	if !f.ctrl.Overlay().Empty() {
		t.Fatalf("overlay not cleared")
	}
}

func TestFocusLossCommitsRectangle(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	f.ctrl.Tools().SetMode(tool.ModeRectangle)

	a.handleMouse(press(canvasPoint(a, 10, 10)))
	a.handleMouse(move(canvasPoint(a, 60, 40)))
	dead := a.handleLifecycle(lifecycle.Event{From: lifecycle.StageFocused, To: lifecycle.StageVisible})
	if dead {
		t.Fatalf("focus loss reported as dead")
	}
	if f.surface.Rects != 1 || a.dragging {
		t.Fatalf("rects = %d dragging=%v", f.surface.Rects, a.dragging)
	}
	if !a.handleLifecycle(lifecycle.Event{From: lifecycle.StageVisible, To: lifecycle.StageDead}) {
		t.Fatalf("dead stage not reported")
	}
}

func TestKeyboardShortcuts(t *testing.T) {
	f := newFixture(t, 100, 50)
	rec := &recorder{}
	a, _ := newWindow(t, f, rec)
	tools := f.ctrl.Tools()

	a.handleKey(key.Event{Code: key.CodeM, Direction: key.DirPress})
	if tools.Mode() != tool.ModeRectangle {
		t.Fatalf("M did not toggle mode")
	}
	a.handleKey(key.Event{Code: key.Code1, Direction: key.DirPress})
	if tools.Width() != tool.Widths()[0] {
		t.Fatalf("1 selected width %d", tools.Width())
	}
	a.handleKey(key.Event{Code: key.CodeC, Modifiers: key.ModControl, Direction: key.DirPress})
	a.handleKey(key.Event{Code: key.CodeS, Modifiers: key.ModControl, Direction: key.DirPress})
	if len(rec.commits) != 2 {
		t.Fatalf("commits = %d, want 2", len(rec.commits))
	}
	if a.handleKey(key.Event{Code: key.CodeC, Direction: key.DirPress}) {
		t.Fatalf("plain C handled")
	}
	if a.handleKey(key.Event{Code: key.CodeM, Direction: key.DirRelease}) {
		t.Fatalf("key release handled")
	}
	a.handleKey(key.Event{Code: key.CodeQ, Direction: key.DirPress})
	if !a.quit {
		t.Fatalf("Q did not quit")
	}
}

func TestEscapeCancelsDragThenQuits(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	f.ctrl.Tools().SetMode(tool.ModeRectangle)

	a.handleMouse(press(canvasPoint(a, 10, 10)))
	a.handleMouse(move(canvasPoint(a, 60, 40)))
	a.handleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	if a.quit || a.dragging || f.ctrl.Phase() != PhaseIdle {
		t.Fatalf("escape during drag: quit=%v dragging=%v", a.quit, a.dragging)
	}
	if f.surface.Rects != 0 {
		t.Fatalf("cancelled drag committed %d rects", f.surface.Rects)
	}
	a.handleKey(key.Event{Code: key.CodeEscape, Direction: key.DirPress})
	if !a.quit {
		t.Fatalf("second escape did not quit")
	}
}

func TestModeAndResetShortcutsEndDrag(t *testing.T) {
	for _, k := range []key.Event{
		{Code: key.CodeM, Direction: key.DirPress},
		{Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress},
	} {
		f := newFixture(t, 100, 50)
		a, _ := newWindow(t, f, &recorder{})
		f.ctrl.Tools().SetMode(tool.ModeRectangle)

		a.handleMouse(press(canvasPoint(a, 10, 10)))
		a.handleMouse(move(canvasPoint(a, 60, 40)))
		a.handleKey(k)
		if a.dragging || f.ctrl.Phase() != PhaseIdle {
			t.Fatalf("%v during drag: dragging=%v phase=%v", k.Code, a.dragging, f.ctrl.Phase())
		}
		if !a.handleMouse(move(center(a.toolbar.buttons[2].Rect()))) || a.toolbar.hover != 2 {
			t.Fatalf("%v: toolbar hover ignored after drag ended, hover=%d", k.Code, a.toolbar.hover)
		}
		a.handleMouse(release(center(a.toolbar.buttons[2].Rect())))
		if f.surface.Rects != 0 {
			t.Fatalf("%v: cancelled drag committed %d rects", k.Code, f.surface.Rects)
		}
	}
}

func TestResetShortcutRestores(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	a.handleMouse(press(canvasPoint(a, 10, 10)))
	a.handleMouse(move(canvasPoint(a, 40, 10)))
	a.handleMouse(release(canvasPoint(a, 40, 10)))

	a.handleKey(key.Event{Code: key.CodeZ, Modifiers: key.ModControl, Direction: key.DirPress})
	if got := rgbaAt(exported(t, f.ctrl), 25, 10); got != white {
		t.Fatalf("pixel after reset = %v, want white", got)
	}
}

func TestDrawFrameComposites(t *testing.T) {
	f := newFixture(t, 100, 50)
	a, _ := newWindow(t, f, &recorder{})
	th := theme.Default()
	f.ctrl.Tools().SetMode(tool.ModeRectangle)

	a.handleMouse(press(canvasPoint(a, 10, 10)))
	a.handleMouse(move(canvasPoint(a, 60, 40)))

	dst := image.NewRGBA(image.Rect(0, 0, a.width, a.height))
	a.drawFrame(dst)

	if got := dst.RGBAAt(0, 0); got != th.ToolbarBackground {
		t.Fatalf("toolbar pixel = %v, want %v", got, th.ToolbarBackground)
	}
	p := canvasPoint(a, 30, 25)
	if got := dst.RGBAAt(p.X, p.Y); got != white {
		t.Fatalf("canvas pixel = %v, want white", got)
	}
	edge := canvasPoint(a, 10, 25)
	if got := dst.RGBAAt(edge.X, edge.Y); got != tool.DefaultColor {
		t.Fatalf("preview edge = %v, want %v", got, tool.DefaultColor)
	}
	outside := canvasPoint(a, 300, 25)
	if got := dst.RGBAAt(outside.X, outside.Y); got != th.Background {
		t.Fatalf("background pixel = %v, want %v", got, th.Background)
	}
	if got := rgbaAt(exported(t, f.ctrl), 10, 25); got != white {
		t.Fatalf("preview leaked into export: %v", got)
	}
}

func TestResizeFitsCanvas(t *testing.T) {
	f := newFixture(t, 1000, 500)
	a, _ := newWindow(t, f, &recorder{})
	a.resize(500, 1000)
	if a.viewport.Origin.Y != a.toolbar.height {
		t.Fatalf("origin = %v, want y=%d", a.viewport.Origin, a.toolbar.height)
	}
	if a.viewport.Zoom != 0.5 {
		t.Fatalf("zoom = %v, want 0.5", a.viewport.Zoom)
	}
	p := a.viewport.ToCanvas(float32(100), float32(a.toolbar.height+50))
	if p != image.Pt(200, 100) {
		t.Fatalf("ToCanvas = %v", p)
	}
}
