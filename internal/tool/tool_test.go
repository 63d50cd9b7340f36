package tool

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"sync"
	"testing"

	"github.com/example/clipmark/internal/raster"
)

func TestDefaults(t *testing.T) {
	s := New()
	if s.Mode() != ModeFreehand {
		t.Errorf("mode = %v", s.Mode())
	}
	if s.Color() != (color.RGBA{0, 0, 0, 255}) {
		t.Errorf("color = %+v", s.Color())
	}
	if s.Width() != 5 {
		t.Errorf("width = %d", s.Width())
	}
}

func TestOptions(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	s := New(WithMode(ModeRectangle), WithColor(red), WithWidth(8), WithWidth(0))
	if s.Mode() != ModeRectangle || s.Color() != red || s.Width() != 8 {
		t.Fatalf("got mode=%v color=%+v width=%d", s.Mode(), s.Color(), s.Width())
	}
}

func TestSetWidthRejectsNonPositive(t *testing.T) {
	s := New()
	for _, w := range []int{0, -3} {
		err := s.SetWidth(w)
		if !errors.Is(err, ErrInvalidWidth) {
			t.Fatalf("SetWidth(%d) = %v, want ErrInvalidWidth", w, err)
		}
		if s.Width() != DefaultWidth {
			t.Fatalf("width changed to %d after rejected SetWidth(%d)", s.Width(), w)
		}
	}
	if err := s.SetWidth(12); err != nil || s.Width() != 12 {
		t.Fatalf("SetWidth(12) = %v, width %d", err, s.Width())
	}
}

func TestModeToggleAndParse(t *testing.T) {
	if ModeFreehand.Toggle() != ModeRectangle || ModeRectangle.Toggle() != ModeFreehand {
		t.Fatal("toggle is not an involution")
	}
	tests := []struct {
		in   string
		want Mode
	}{
		{"freehand", ModeFreehand},
		{"Pen", ModeFreehand},
		{"rect", ModeRectangle},
		{" square ", ModeRectangle},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseMode(%q) = %v, %v", tt.in, got, err)
		}
	}
	if _, err := ParseMode("circle"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if got := ModeRectangle.String(); got != "rectangle" {
		t.Errorf("String = %q", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
	}{
		{"red", color.RGBA{255, 0, 0, 255}},
		{"Navy", color.RGBA{0, 0, 128, 255}},
		{"cornflowerblue", color.RGBA{100, 149, 237, 255}},
		{"#f00", color.RGBA{255, 0, 0, 255}},
		{"#0000FF", color.RGBA{0, 0, 255, 255}},
		{"#11223380", color.RGBAModel.Convert(color.NRGBA{0x11, 0x22, 0x33, 0x80}).(color.RGBA)},
		{"#ff000080", color.RGBA{128, 0, 0, 128}},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseColor(%q) = %+v, %v; want %+v", tt.in, got, err, tt.want)
		}
	}
	for _, bad := range []string{"", "nope", "#12", "#zzzzzz"} {
		if _, err := ParseColor(bad); err == nil {
			t.Errorf("ParseColor(%q) succeeded", bad)
		}
	}
}

func TestFormatColorRoundTrip(t *testing.T) {
	for _, p := range Palette() {
		got, err := ParseColor(FormatColor(p.Color))
		if err != nil || got != p.Color {
			t.Errorf("%s: round trip gave %+v, %v", p.Name, got, err)
		}
	}
	if s := FormatColor(color.RGBA{128, 0, 0, 128}); s != "#ff000080" {
		t.Errorf("FormatColor = %q", s)
	}
}

func TestTranslucentColorBlends(t *testing.T) {
	c, err := ParseColor("#ff000080")
	if err != nil {
		t.Fatal(err)
	}
	if c.R > c.A || c.G > c.A || c.B > c.A {
		t.Fatalf("ParseColor gave non-premultiplied %+v", c)
	}

	over := raster.NewRGBA(0, 0)
	bg := image.NewRGBA(image.Rect(0, 0, 20, 20))
	draw.Draw(bg, bg.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	over.PutPixels(bg)
	over.DrawLine(image.Pt(2, 10), image.Pt(17, 10), c, 5)
	got := over.Image().RGBAAt(10, 10)
	want := color.RGBA{255, 127, 127, 255}
	if diff(got.R, want.R) > 1 || diff(got.G, want.G) > 1 || diff(got.B, want.B) > 1 || got.A != 255 {
		t.Errorf("over white = %+v, want about %+v", got, want)
	}

	empty := raster.NewRGBA(20, 20)
	empty.DrawLine(image.Pt(2, 10), image.Pt(17, 10), c, 5)
	px := empty.Image().RGBAAt(10, 10)
	if px.A == 0 || px.R > px.A || px.G > px.A || px.B > px.A {
		t.Errorf("over transparent = %+v, want valid premultiplied pixel", px)
	}
}

func diff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestPresets(t *testing.T) {
	if len(Palette()) != 16 {
		t.Errorf("palette has %d colors", len(Palette()))
	}
	w := Widths()
	w[0] = 99
	if Widths()[0] != 1 {
		t.Error("Widths exposes internal slice")
	}
}

func TestConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = s.SetWidth(n)
			s.SetColor(color.RGBA{uint8(n), 0, 0, 255})
			s.SetMode(s.Mode().Toggle())
			_ = s.Width()
		}(i)
	}
	wg.Wait()
	if s.Width() < 1 || s.Width() > 8 {
		t.Fatalf("width = %d", s.Width())
	}
}
