// Package config loads clipmark settings from RC files, .env files and the
// environment.
package config

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
)

// Clipboard holds settings for images written back to the clipboard.
type Clipboard struct {
	Recompress bool
	Palette    string
	Dither     bool
	MaxSize    int
}

// Notify holds notification settings.
type Notify struct {
	Copy    bool
	NoImage bool
}

// Config holds the application configuration.
type Config struct {
	Color     color.RGBA
	Width     int
	Mode      tool.Mode
	Theme     string
	Clipboard Clipboard
	Notify    Notify
	Themes    map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	return &Config{
		Color:  tool.DefaultColor,
		Width:  tool.DefaultWidth,
		Mode:   tool.DefaultMode,
		Themes: make(map[string]*theme.Theme),
	}
}

// ToolOptions converts the drawing defaults into tool.State options.
func (c *Config) ToolOptions() []tool.Option {
	return []tool.Option{tool.WithColor(c.Color), tool.WithWidth(c.Width), tool.WithMode(c.Mode)}
}

// ResolveTheme returns the selected theme, preferring definitions in the
// config file over those found by l.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	return l.Load(c.Theme)
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "color = %s\n", tool.FormatColor(c.Color))
	fmt.Fprintf(&sb, "width = %d\n", c.Width)
	fmt.Fprintf(&sb, "mode = %s\n", c.Mode)
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	sb.WriteString("\n")

	sb.WriteString("[clipboard]\n")
	fmt.Fprintf(&sb, "recompress = %v\n", c.Clipboard.Recompress)
	if c.Clipboard.Palette != "" {
		fmt.Fprintf(&sb, "palette = %s\n", c.Clipboard.Palette)
	}
	fmt.Fprintf(&sb, "dither = %v\n", c.Clipboard.Dither)
	fmt.Fprintf(&sb, "maxsize = %d\n", c.Clipboard.MaxSize)
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	fmt.Fprintf(&sb, "noimage = %v\n", c.Notify.NoImage)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		for _, line := range t.Fields() {
			sb.WriteString(line + "\n")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
