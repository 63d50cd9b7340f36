package appstate

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	rowHeight     = 28
	buttonPadding = 8
	swatchSize    = 18
	widthButtonW  = 26
	itemGap       = 4
)

// ButtonState describes the visual state of a button.
type ButtonState int

const (
	StateDefault ButtonState = iota
	StateHover
	StatePressed
)

// Button represents an interactive toolbar element.
// Activate performs the button's action when clicked.
type Button interface {
	Draw(dst *image.RGBA, state ButtonState, th *theme.Theme)
	Rect() image.Rectangle
	SetRect(r image.Rectangle)
	// Size is the preferred width and height.
	Size() image.Point
	Activate()
	// Selected reports whether the button shows the current tool setting.
	Selected() bool
}

// CacheButton wraps another Button and caches its rendered states.
// Only buttons whose appearance depends solely on the state may be cached.
type CacheButton struct {
	Button
	th    *theme.Theme
	cache [3]*image.RGBA
}

var _ Button = (*CacheButton)(nil)

func (cb *CacheButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	if cb.th != th {
		cb.cache = [3]*image.RGBA{}
		cb.th = th
	}
	if cb.cache[state] == nil {
		img := image.NewRGBA(cb.Button.Rect())
		cb.Button.Draw(img, state, th)
		cb.cache[state] = img
	}
	draw.Draw(dst, cb.Button.Rect(), cb.cache[state], cb.Button.Rect().Min, draw.Src)
}

func (cb *CacheButton) SetRect(r image.Rectangle) {
	if r != cb.Button.Rect() {
		cb.Button.SetRect(r)
		cb.cache = [3]*image.RGBA{}
	}
}

// ActionButton is a labelled button. The label may change between frames.
type ActionButton struct {
	label      func() string
	selected   func() bool
	onActivate func()
	rect       image.Rectangle
}

func (b *ActionButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	bg := th.ButtonBackground
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawOutline(dst, b.rect, th.ButtonBorder)
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.ButtonText), Face: basicfont.Face7x13,
		Dot: fixed.P(b.rect.Min.X+buttonPadding/2, b.rect.Min.Y+b.rect.Dy()/2+4)}
	d.DrawString(b.label())
}

func (b *ActionButton) Rect() image.Rectangle     { return b.rect }
func (b *ActionButton) SetRect(r image.Rectangle) { b.rect = r }

func (b *ActionButton) Size() image.Point {
	d := &font.Drawer{Face: basicfont.Face7x13}
	return image.Pt(d.MeasureString(b.label()).Ceil()+buttonPadding, rowHeight-2*itemGap)
}

func (b *ActionButton) Activate() {
	if b.onActivate != nil {
		b.onActivate()
	}
}

func (b *ActionButton) Selected() bool { return b.selected != nil && b.selected() }

// SwatchButton selects a stroke color.
type SwatchButton struct {
	color tool.PaletteColor
	tools *tool.State
	rect  image.Rectangle
}

func (b *SwatchButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	draw.Draw(dst, b.rect, &image.Uniform{b.color.Color}, image.Point{}, draw.Src)
	if state == StateHover {
		draw.Draw(dst, b.rect, &image.Uniform{color.RGBA{255, 255, 255, 80}}, image.Point{}, draw.Over)
	}
	if state == StatePressed {
		drawOutline(dst, b.rect, th.SwatchSelected)
		drawOutline(dst, b.rect.Inset(1), th.ButtonBorder)
		return
	}
	drawOutline(dst, b.rect, th.ButtonBorder)
}

func (b *SwatchButton) Rect() image.Rectangle     { return b.rect }
func (b *SwatchButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *SwatchButton) Size() image.Point         { return image.Pt(swatchSize-2, swatchSize-2) }
func (b *SwatchButton) Activate()                 { b.tools.SetColor(b.color.Color) }
func (b *SwatchButton) Selected() bool            { return b.tools.Color() == b.color.Color }

// WidthButton selects a stroke width and previews it in the current color.
type WidthButton struct {
	width int
	tools *tool.State
	rect  image.Rectangle
}

func (b *WidthButton) Draw(dst *image.RGBA, state ButtonState, th *theme.Theme) {
	bg := th.ButtonBackground
	switch state {
	case StateHover:
		bg = th.ButtonBackgroundHover
	case StatePressed:
		bg = th.ButtonBackgroundPress
	}
	draw.Draw(dst, b.rect, &image.Uniform{bg}, image.Point{}, draw.Src)
	drawOutline(dst, b.rect, th.ButtonBorder)
	h := min(b.width, b.rect.Dy()-6)
	cy := b.rect.Min.Y + b.rect.Dy()/2
	line := image.Rect(b.rect.Min.X+4, cy-h/2, b.rect.Max.X-4, cy-h/2+max(h, 1))
	draw.Draw(dst, line, &image.Uniform{b.tools.Color()}, image.Point{}, draw.Over)
}

func (b *WidthButton) Rect() image.Rectangle     { return b.rect }
func (b *WidthButton) SetRect(r image.Rectangle) { b.rect = r }
func (b *WidthButton) Size() image.Point         { return image.Pt(widthButtonW, rowHeight-2*itemGap) }

func (b *WidthButton) Activate() {
	// Presets are always positive.
	_ = b.tools.SetWidth(b.width)
}

func (b *WidthButton) Selected() bool { return b.tools.Width() == b.width }

// toolbar lays out and draws the row of controls above the canvas.
type toolbar struct {
	tools   *tool.State
	buttons []Button
	hover   int
	height  int
}

func newToolbar(a *AppState) *toolbar {
	tools := a.ctrl.Tools()
	tb := &toolbar{tools: tools, hover: -1}
	tb.buttons = append(tb.buttons,
		&ActionButton{label: func() string { return "^C Copy" }, onActivate: a.commit},
		&ActionButton{
			label: func() string {
				if tools.Mode() == tool.ModeRectangle {
					return "M Rect"
				}
				return "M Pen"
			},
			onActivate: func() { a.ctrl.ToggleMode() },
		},
		&ActionButton{label: func() string { return "^Z Reset" }, onActivate: a.ctrl.Reset},
	)
	for _, p := range tool.Palette() {
		tb.buttons = append(tb.buttons, &CacheButton{Button: &SwatchButton{color: p, tools: tools}})
	}
	for _, w := range tool.Widths() {
		tb.buttons = append(tb.buttons, &WidthButton{width: w, tools: tools})
	}
	return tb
}

// layout positions the buttons for a window width, wrapping onto further
// rows when needed, and returns the toolbar height.
func (tb *toolbar) layout(width int) int {
	x, y := itemGap, 0
	groupStart := map[int]bool{3: true, 3 + len(tool.Palette()): true}
	for i, b := range tb.buttons {
		sz := b.Size()
		if groupStart[i] {
			x += 2 * itemGap
		}
		if x+sz.X > width-itemGap && x > itemGap {
			x = itemGap
			y += rowHeight
		}
		top := y + (rowHeight-sz.Y)/2
		b.SetRect(image.Rect(x, top, x+sz.X, top+sz.Y))
		x += sz.X + itemGap
	}
	tb.height = y + rowHeight
	return tb.height
}

func (tb *toolbar) hit(p image.Point) int {
	for i, b := range tb.buttons {
		if p.In(b.Rect()) {
			return i
		}
	}
	return -1
}

func (tb *toolbar) draw(dst *image.RGBA, th *theme.Theme) {
	bar := image.Rect(0, 0, dst.Bounds().Dx(), tb.height)
	draw.Draw(dst, bar, &image.Uniform{th.ToolbarBackground}, image.Point{}, draw.Src)
	for i, b := range tb.buttons {
		state := StateDefault
		if b.Selected() {
			state = StatePressed
		} else if i == tb.hover {
			state = StateHover
		}
		b.Draw(dst, state, th)
	}
	// Current settings at the far right when there is room.
	label := fmt.Sprintf("%s %dpx", tb.tools.Mode(), tb.tools.Width())
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(th.Foreground), Face: basicfont.Face7x13}
	w := d.MeasureString(label).Ceil()
	last := tb.buttons[len(tb.buttons)-1].Rect()
	if x := dst.Bounds().Dx() - w - itemGap; x > last.Max.X+itemGap && last.Min.Y < rowHeight {
		d.Dot = fixed.P(x, rowHeight/2+4)
		d.DrawString(label)
	}
}

func drawOutline(dst *image.RGBA, r image.Rectangle, col color.Color) {
	if r.Empty() {
		return
	}
	u := &image.Uniform{col}
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), u, image.Point{}, draw.Src)
	draw.Draw(dst, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), u, image.Point{}, draw.Src)
}
