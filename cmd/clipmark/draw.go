package main

import (
	"fmt"
	"image"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/example/clipmark/internal/appstate"
	"github.com/example/clipmark/internal/bridge"
	"github.com/example/clipmark/internal/canvas"
	"github.com/example/clipmark/internal/tool"
)

// drawCmd applies one shape without a window, driving the same gesture
// controller the window uses.
type drawCmd struct {
	Shape     string        `arg:"" enum:"line,rect" help:"Shape to draw: line (a freehand path through every point) or rect."`
	Points    []string      `arg:"" help:"Points as X,Y. A rect takes two opposite corners."`
	Input     string        `short:"i" type:"existingfile" help:"Read the image from this file instead of the clipboard."`
	Output    string        `short:"o" help:"Write the result to this file. The format follows the extension (png, jpg, bmp, tif)."`
	Clipboard bool          `help:"Copy the result to the clipboard. Implied when --output is not given."`
	Hold      time.Duration `help:"Keep offering the copied image for up to this long." default:"30s"`

	points []image.Point `kong:"-"`
	format canvas.Format `kong:"-"`
}

func (c *drawCmd) Validate(kctx *kong.Context) error {
	c.points = c.points[:0]
	for _, s := range c.Points {
		p, err := parsePoint(s)
		if err != nil {
			return err
		}
		c.points = append(c.points, p)
	}
	switch {
	case len(c.points) < 2:
		return fmt.Errorf("%s needs at least two points", c.Shape)
	case c.Shape == "rect" && len(c.points) != 2:
		return fmt.Errorf("rect takes exactly two points, got %d", len(c.points))
	}
	if c.Output != "" {
		f, err := canvas.FormatForPath(c.Output)
		if err != nil {
			return err
		}
		c.format = f
	} else {
		c.Clipboard = true
	}
	return nil
}

func parsePoint(s string) (image.Point, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return image.Point{}, fmt.Errorf("invalid point %q: want X,Y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return image.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	return image.Pt(x, y), nil
}

func (c *drawCmd) Run(a *app) error {
	clip := a.clipboard()
	var (
		data []byte
		err  error
	)
	if c.Input != "" {
		data, err = os.ReadFile(c.Input)
	} else {
		data, err = clip.ReadInitial()
	}
	if err != nil {
		return err
	}
	// There is no window to resize, so a Recorder stands in as the host.
	rec := &bridge.Recorder{}
	ctrl, err := a.session(rec, data)
	if err != nil {
		return err
	}

	mode := tool.ModeFreehand
	if c.Shape == "rect" {
		mode = tool.ModeRectangle
	}
	ctrl.SetMode(mode)
	gesture(ctrl, c.points)

	if c.Output != "" {
		if err := ctrl.Commit(rec, c.format); err != nil {
			return err
		}
		out, _ := rec.Last()
		if err := os.WriteFile(c.Output, out.Data, 0o644); err != nil {
			return fmt.Errorf("save: %w", err)
		}
		a.log.Info("saved", "path", c.Output, "format", c.format)
	}
	if c.Clipboard {
		if err := ctrl.Commit(clip, canvas.FormatPNG); err != nil {
			return err
		}
		a.hold(clip, c.Hold)
	}
	return nil
}

// gesture replays points as one pointer drag.
func gesture(ctrl *appstate.Controller, points []image.Point) {
	ctrl.PointerDown(points[0])
	for _, p := range points[1:] {
		ctrl.PointerMove(p)
	}
	ctrl.PointerUp(points[len(points)-1])
}
