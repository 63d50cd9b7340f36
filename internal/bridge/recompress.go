package bridge

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/png"
	"log/slog"
	"strings"

	"github.com/example/clipmark/internal/canvas"
	"golang.org/x/image/draw"
)

// Recompression shrinks committed images before they reach the clipboard.
type Recompression struct {
	Enabled bool
	// Palette is one of PaletteNames, or empty to keep full color.
	Palette string
	Dither  bool
	// MaxSize caps the longest side in pixels. Zero keeps the size.
	MaxSize int
}

// PaletteNames lists the accepted Recompression.Palette values.
var PaletteNames = []string{"plan9", "websafe", "gray16"}

// LoadPalette returns the named palette.
func LoadPalette(name string) (color.Palette, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "plan9":
		return palette.Plan9, nil
	case "websafe":
		return palette.WebSafe, nil
	case "gray16":
		pal := make(color.Palette, 16)
		for i := range pal {
			pal[i] = color.Gray{Y: uint8(i * 17)}
		}
		return pal, nil
	}
	return nil, fmt.Errorf("unknown palette %q (want one of %s)", name, strings.Join(PaletteNames, ", "))
}

// Validate checks the options without touching any image.
func (r Recompression) Validate() error {
	if r.MaxSize < 0 {
		return fmt.Errorf("invalid max size: %d", r.MaxSize)
	}
	if r.Palette != "" {
		if _, err := LoadPalette(r.Palette); err != nil {
			return err
		}
	}
	return nil
}

// Apply decodes data, optionally downsizes and repalettes it, and re-encodes
// PNG at the best compression level.
func (r Recompression) Apply(logger *slog.Logger, data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &canvas.FormatError{Err: err}
	}
	if r.MaxSize > 0 {
		img = shrink(logger, img, r.MaxSize)
	}
	if r.Palette != "" {
		pal, err := LoadPalette(r.Palette)
		if err != nil {
			return nil, err
		}
		img = repalette(logger, img, pal, r.Dither)
	}
	out, err := canvas.Encode(img, canvas.FormatPNG, png.BestCompression)
	if err != nil {
		return nil, err
	}
	logger.Debug("recompressed", "before", len(data), "after", len(out))
	return out, nil
}

func shrink(logger *slog.Logger, img image.Image, limit int) image.Image {
	sb := img.Bounds()
	w, h := sb.Dx(), sb.Dy()
	if w <= limit && h <= limit {
		return img
	}
	if w >= h {
		h = max(1, h*limit/w)
		w = limit
	} else {
		w = max(1, w*limit/h)
		h = limit
	}
	logger.Info("resizing", "width", w, "height", h)
	dest := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dest, dest.Bounds(), img, sb, draw.Src, nil)
	return dest
}

func repalette(logger *slog.Logger, img image.Image, pal color.Palette, dither bool) image.Image {
	logger.Info("applying palette", "colors", len(pal))
	sr := img.Bounds()
	dr := image.Rect(0, 0, sr.Dx(), sr.Dy())
	dest := image.NewPaletted(dr, pal)
	if dither {
		draw.FloydSteinberg.Draw(dest, dr, img, sr.Min)
	} else {
		draw.Draw(dest, dr, img, sr.Min, draw.Src)
	}
	return dest
}
