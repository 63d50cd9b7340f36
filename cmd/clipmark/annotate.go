package main

import (
	"fmt"
	"time"

	"github.com/example/clipmark/internal/appstate"
	"github.com/example/clipmark/internal/bridge"
	"github.com/example/clipmark/internal/canvas"
	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
)

// annotateCmd opens the annotation window on the clipboard image.
type annotateCmd struct {
	Hold time.Duration `help:"After the window closes, keep offering the copied image for up to this long or until another application takes the clipboard." default:"30s"`
}

// session builds the controller for one annotation and loads the initial
// image into it.
func (a *app) session(clip bridge.Bridge, data []byte) (*appstate.Controller, error) {
	surface := canvas.NewSurface(nil)
	surface.SetLogger(a.log)
	surface.OnResize(bridge.ResizeListener(clip))
	ctrl := appstate.NewController(surface, canvas.NewOverlay(nil), tool.New(a.cfg.ToolOptions()...))
	ctrl.SetLogger(a.log)

	sess := bridge.NewSession(ctrl.Load, a.log)
	if _, err := sess.Deliver(data); err != nil {
		return nil, fmt.Errorf("load image: %w", err)
	}
	return ctrl, nil
}

func (c *annotateCmd) Run(a *app) error {
	clip := a.clipboard()
	data, err := clip.ReadInitial()
	if err != nil {
		return err
	}
	ctrl, err := a.session(clip, data)
	if err != nil {
		return err
	}

	th, err := a.cfg.ResolveTheme(theme.NewLoader())
	if err != nil {
		a.log.Warn("failed to load theme, using default", "theme", a.cfg.Theme, "error", err)
		th = theme.Default()
	}

	st := appstate.New(
		appstate.WithController(ctrl),
		appstate.WithCommitter(clip),
		appstate.WithTheme(th),
		appstate.WithContentSize(clip.Requested()),
		appstate.WithLogger(a.log),
	)
	st.Run()
	a.hold(clip, c.Hold)
	return nil
}

// hold keeps the process alive while the clipboard still serves our image.
// X11 selections die with their owner.
func (a *app) hold(clip *bridge.Clipboard, d time.Duration) {
	lost := clip.Lost()
	if lost == nil || d <= 0 {
		return
	}
	a.log.Info("holding clipboard", "timeout", d)
	select {
	case <-lost:
		a.log.Debug("clipboard taken by another application")
	case <-time.After(d):
	}
}
