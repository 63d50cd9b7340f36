// Package tool holds the user's drawing selections: the active mode, the
// stroke color and the stroke width.
package tool

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"sync"
)

// Mode selects how a pointer drag is turned into pixels.
type Mode int

const (
	ModeFreehand Mode = iota
	ModeRectangle
)

// ErrInvalidWidth is returned when a stroke width is not positive.
var ErrInvalidWidth = errors.New("stroke width must be positive")

const (
	DefaultWidth = 5
	DefaultMode  = ModeFreehand
)

// DefaultColor is the stroke color a session starts with.
var DefaultColor = color.RGBA{0, 0, 0, 255}

func (m Mode) String() string {
	switch m {
	case ModeFreehand:
		return "freehand"
	case ModeRectangle:
		return "rectangle"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeRectangle {
		return ModeFreehand
	}
	return ModeRectangle
}

// ParseMode accepts the mode names used in config files and on the command
// line.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "freehand", "pen", "draw":
		return ModeFreehand, nil
	case "rectangle", "rect", "square":
		return ModeRectangle, nil
	}
	return 0, fmt.Errorf("unknown mode %q", s)
}

// State is the current tool selection. It is safe for concurrent use so the
// window and a command line driver can share it.
type State struct {
	mu    sync.RWMutex
	mode  Mode
	color color.RGBA
	width int
}

// Option configures a State during creation.
type Option func(*State)

// WithMode sets the initial mode.
func WithMode(m Mode) Option { return func(s *State) { s.mode = m } }

// WithColor sets the initial stroke color.
func WithColor(c color.RGBA) Option { return func(s *State) { s.color = c } }

// WithWidth sets the initial stroke width. Non-positive widths are ignored.
func WithWidth(w int) Option {
	return func(s *State) {
		if w > 0 {
			s.width = w
		}
	}
}

// New returns a State holding the defaults modified by opts.
func New(opts ...Option) *State {
	s := &State{mode: DefaultMode, color: DefaultColor, width: DefaultWidth}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *State) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

func (s *State) Color() color.RGBA {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.color
}

func (s *State) Width() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width
}

func (s *State) SetMode(m Mode) {
	s.mu.Lock()
	s.mode = m
	s.mu.Unlock()
}

func (s *State) SetColor(c color.RGBA) {
	s.mu.Lock()
	s.color = c
	s.mu.Unlock()
}

// SetWidth changes the stroke width. A non-positive width is rejected and
// the current width is kept.
func (s *State) SetWidth(w int) error {
	if w <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWidth, w)
	}
	s.mu.Lock()
	s.width = w
	s.mu.Unlock()
	return nil
}
