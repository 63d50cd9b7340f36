// Command clipmark annotates the image on the clipboard and copies the
// result back.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/example/clipmark/internal/bridge"
	"github.com/example/clipmark/internal/config"
	"github.com/example/clipmark/internal/notify"
	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
)

var (
	version = "dev"
	commit  = ""
	date    = ""
)

type cli struct {
	ConfigFile string `name:"config-file" help:"Read settings from this RC file." env:"CLIPMARK_CONFIG" placeholder:"PATH"`
	Verbose    bool   `short:"v" help:"Log debug messages."`

	Color      string `help:"Stroke color: palette name, CSS color name or #RRGGBB[AA]." placeholder:"COLOR" group:"drawing"`
	Width      int    `help:"Stroke width in pixels." placeholder:"PX" group:"drawing"`
	Mode       string `help:"Drawing mode (freehand or rectangle)." placeholder:"MODE" group:"drawing"`
	Theme      string `help:"Color theme (${themes} or a [theme.NAME] section)." group:"window"`
	NotifyCopy bool   `help:"Show a desktop notification after copying to the clipboard." group:"notify"`
	Recompress bool   `help:"Recompress images before they reach the clipboard." group:"clipboard"`
	Palette    string `help:"Palette used when recompressing (${palettes})." group:"clipboard"`
	Dither     bool   `help:"Dither when reducing to the palette." group:"clipboard"`
	MaxSize    int    `help:"Downscale so the longest side is at most this many pixels when recompressing." placeholder:"PX" group:"clipboard"`

	Annotate annotateCmd `cmd:"" default:"1" help:"Annotate the clipboard image in a window."`
	Draw     drawCmd     `cmd:"" help:"Draw a shape onto an image without opening a window."`
	Config   configCmd   `cmd:"" help:"Show or save the effective configuration."`
	Version  versionCmd  `cmd:"" help:"Print the version."`
}

// app carries what every command needs once flags, the environment and the
// config file have been merged.
type app struct {
	cfg      *config.Config
	loader   *config.Loader
	log      *slog.Logger
	notifier *notify.Notifier
	stdout   io.Writer
	// board replaces the system clipboard when set.
	board bridge.Board
}

func newParser(c *cli, opts ...kong.Option) (*kong.Kong, error) {
	opts = append([]kong.Option{
		kong.Name("clipmark"),
		kong.Description("Draw on the image in the clipboard and copy the result back."),
		kong.UsageOnError(),
		kong.Vars{
			"palettes": strings.Join(bridge.PaletteNames, ", "),
			"themes":   strings.Join(theme.Embedded(), ", "),
		},
	}, opts...)
	return kong.New(c, opts...)
}

// newApp merges settings with the precedence flags > environment > config
// file > defaults.
func newApp(c *cli, lookup func(string) (string, bool), stdout io.Writer) (*app, error) {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})).
		With("session", uuid.NewString())
	slog.SetDefault(logger)

	loader := config.NewLoader(version, c.ConfigFile)
	cfg, err := loader.Load()
	if err != nil {
		logger.Warn("failed to load config, using defaults", "error", err)
		cfg = config.New()
	}
	if err := cfg.ApplyEnv(lookup); err != nil {
		return nil, err
	}
	if err := c.apply(cfg); err != nil {
		return nil, err
	}
	if err := recompression(cfg).Validate(); err != nil {
		return nil, err
	}

	notifier := notify.New(notify.LoadPreferences(), notify.WithLogger(logger))
	notifier.Enable(notify.EventCopy, cfg.Notify.Copy)
	notifier.Enable(notify.EventNoImage, cfg.Notify.NoImage)

	return &app{cfg: cfg, loader: loader, log: logger, notifier: notifier, stdout: stdout}, nil
}

func (c *cli) apply(cfg *config.Config) error {
	if c.Color != "" {
		col, err := tool.ParseColor(c.Color)
		if err != nil {
			return fmt.Errorf("--color: %w", err)
		}
		cfg.Color = col
	}
	if c.Width != 0 {
		if c.Width < 0 {
			return fmt.Errorf("--width: %w", tool.ErrInvalidWidth)
		}
		cfg.Width = c.Width
	}
	if c.Mode != "" {
		m, err := tool.ParseMode(c.Mode)
		if err != nil {
			return fmt.Errorf("--mode: %w", err)
		}
		cfg.Mode = m
	}
	if c.Theme != "" {
		cfg.Theme = c.Theme
	}
	if c.NotifyCopy {
		cfg.Notify.Copy = true
	}
	if c.Recompress {
		cfg.Clipboard.Recompress = true
	}
	if c.Palette != "" {
		cfg.Clipboard.Palette = strings.ToLower(c.Palette)
	}
	if c.Dither {
		cfg.Clipboard.Dither = true
	}
	if c.MaxSize != 0 {
		cfg.Clipboard.MaxSize = c.MaxSize
	}
	return nil
}

func recompression(cfg *config.Config) bridge.Recompression {
	return bridge.Recompression{
		Enabled: cfg.Clipboard.Recompress,
		Palette: cfg.Clipboard.Palette,
		Dither:  cfg.Clipboard.Dither,
		MaxSize: cfg.Clipboard.MaxSize,
	}
}

func (a *app) clipboard() *bridge.Clipboard {
	opts := []bridge.ClipboardOption{
		bridge.WithRecompression(recompression(a.cfg)),
		bridge.WithNotifier(a.notifier),
		bridge.WithLogger(a.log),
	}
	if a.board != nil {
		opts = append(opts, bridge.WithBoard(a.board))
	}
	return bridge.NewClipboard(opts...)
}

func main() {
	// .env values must be in place before flags read CLIPMARK_CONFIG.
	loaded, err := config.LoadDotenv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	var c cli
	parser, err := newParser(&c)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	kctx, err := parser.Parse(os.Args[1:])
	parser.FatalIfErrorf(err)

	a, err := newApp(&c, os.LookupEnv, os.Stdout)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if len(loaded) > 0 {
		a.log.Debug("loaded env files", "files", loaded)
	}
	if err := kctx.Run(a); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
