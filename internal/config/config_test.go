package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
)

func TestParse(t *testing.T) {
	input := `
# drawing defaults
color = red
width = 8
mode = rectangle
theme = my_custom_theme

[clipboard]
recompress = true
palette = Plan9
dither = true
maxsize = 1200

[notify]
copy = true
noimage = false

[theme.my_custom_theme]
Background = #111111
Foreground: #FFFFFF
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Color != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("color = %+v", cfg.Color)
	}
	if cfg.Width != 8 {
		t.Errorf("width = %d", cfg.Width)
	}
	if cfg.Mode != tool.ModeRectangle {
		t.Errorf("mode = %v", cfg.Mode)
	}
	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	want := Clipboard{Recompress: true, Palette: "plan9", Dither: true, MaxSize: 1200}
	if cfg.Clipboard != want {
		t.Errorf("clipboard = %+v, want %+v", cfg.Clipboard, want)
	}
	if !cfg.Notify.Copy || cfg.Notify.NoImage {
		t.Errorf("notify = %+v", cfg.Notify)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background != (color.RGBA{0x11, 0x11, 0x11, 255}) || th.Foreground != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("unexpected theme colors: %+v", th)
	}
	resolved, err := cfg.ResolveTheme(theme.NewLoader())
	if err != nil || resolved != th {
		t.Errorf("ResolveTheme = %p, %v; want config theme", resolved, err)
	}
}

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatal(err)
	}
	st := tool.New(cfg.ToolOptions()...)
	if st.Color() != tool.DefaultColor || st.Width() != tool.DefaultWidth || st.Mode() != tool.DefaultMode {
		t.Fatalf("defaults = %+v %d %v", st.Color(), st.Width(), st.Mode())
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, input string
	}{
		{"width zero", "width = 0"},
		{"width text", "width = thick"},
		{"mode", "mode = circle"},
		{"color", "color = #12"},
		{"bool", "[notify]\ncopy = maybe"},
		{"maxsize", "[clipboard]\nmaxsize = -5"},
		{"theme color", "[theme.x]\nBackground = blue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.input)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
	_, err := Parse(strings.NewReader("\n\nwidth = -1\n"))
	if !errors.Is(err, tool.ErrInvalidWidth) || !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("error = %v", err)
	}
}

func TestCircular(t *testing.T) {
	input := `color = #336699
width = 3
mode = freehand
theme = dark

[clipboard]
recompress = true
palette = websafe
dither = false
maxsize = 0

[notify]
copy = true
noimage = true

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
MessageBackground = #FF000080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}
	generated := cfg.String()
	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Color != cfg2.Color || cfg.Width != cfg2.Width || cfg.Mode != cfg2.Mode || cfg.Theme != cfg2.Theme {
		t.Errorf("root mismatch: %+v vs %+v", cfg, cfg2)
	}
	if cfg.Clipboard != cfg2.Clipboard {
		t.Errorf("Clipboard mismatch: %+v vs %+v", cfg.Clipboard, cfg2.Clipboard)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
	if generated != cfg2.String() {
		t.Error("String is not stable across a round trip")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CLIPMARK_COLOR":       "#00ff00",
		"CLIPMARK_WIDTH":       "12",
		"CLIPMARK_MODE":        "rect",
		"CLIPMARK_RECOMPRESS":  "true",
		"CLIPMARK_PALETTE":     "gray16",
		"CLIPMARK_NOTIFY_COPY": "1",
		"CLIPMARK_THEME":       "  ",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }

	cfg, err := Parse(strings.NewReader("theme = dark\nwidth = 2\n"))
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Color != (color.RGBA{0, 255, 0, 255}) || cfg.Width != 12 || cfg.Mode != tool.ModeRectangle {
		t.Errorf("root = %+v %d %v", cfg.Color, cfg.Width, cfg.Mode)
	}
	if !cfg.Clipboard.Recompress || cfg.Clipboard.Palette != "gray16" || !cfg.Notify.Copy {
		t.Errorf("sections = %+v %+v", cfg.Clipboard, cfg.Notify)
	}
	if cfg.Theme != "dark" {
		t.Errorf("blank env var replaced theme with %q", cfg.Theme)
	}

	bad := map[string]string{"CLIPMARK_WIDTH": "0", "CLIPMARK_DITHER": "sometimes"}
	err = New().ApplyEnv(func(k string) (string, bool) { v, ok := bad[k]; return v, ok })
	if err == nil || !strings.Contains(err.Error(), "CLIPMARK_WIDTH") || !strings.Contains(err.Error(), "CLIPMARK_DITHER") {
		t.Fatalf("ApplyEnv errors = %v", err)
	}
}

func TestLoadDotenv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	t.Setenv("CLIPMARK_MODE", "freehand")
	t.Setenv("CLIPMARK_PALETTE", "")
	if err := os.WriteFile(".env", []byte("CLIPMARK_PALETTE=plan9\nCLIPMARK_MODE=rectangle\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Registered with t.Setenv for cleanup, but unset so .env can fill it.
	os.Unsetenv("CLIPMARK_PALETTE")

	loaded, err := LoadDotenv()
	if err != nil {
		t.Fatalf("LoadDotenv: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("loaded = %v", loaded)
	}
	if got := os.Getenv("CLIPMARK_PALETTE"); got != "plan9" {
		t.Errorf("CLIPMARK_PALETTE = %q", got)
	}
	if got := os.Getenv("CLIPMARK_MODE"); got != "freehand" {
		t.Errorf(".env overrode the environment: CLIPMARK_MODE = %q", got)
	}
}

func TestLoaderPaths(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	l := NewLoader("1.0.0", "")
	if l.GetConfigPath() != "" {
		t.Fatal("found a config file in an empty directory")
	}
	cfg, err := l.Load()
	if err != nil || cfg.Width != tool.DefaultWidth {
		t.Fatalf("Load without file = %+v, %v", cfg, err)
	}

	cfg.Width = 9
	path := l.DefaultPath()
	if path != filepath.Join(dir, "clipmark", "config.rc") {
		t.Fatalf("DefaultPath = %q", path)
	}
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := l.Load()
	if err != nil || got.Width != 9 {
		t.Fatalf("Load after Save = %+v, %v", got, err)
	}

	override := filepath.Join(dir, "other.rc")
	if err := os.WriteFile(override, []byte("width = oops\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLoader("1.0.0", override).Load(); err == nil || !strings.Contains(err.Error(), override) {
		t.Fatalf("Load with bad override = %v", err)
	}
}
