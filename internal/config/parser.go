package config

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/example/clipmark/internal/theme"
	"github.com/example/clipmark/internal/tool"
)

// Parse reads configuration from an io.Reader.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.TrimSpace(line[1 : len(line)-1])
			currentTheme = nil

			if themeName, ok := strings.CutPrefix(currentSection, "theme."); ok {
				// Start with defaults so missing keys are fine
				currentTheme = theme.Default()
				currentTheme.Name = themeName
				cfg.Themes[themeName] = currentTheme
			}
			continue
		}

		// Key = Value or Key: Value
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			key, value, ok = strings.Cut(line, ":")
		}
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
			value = value[1 : len(value)-1]
		}

		var err error
		switch section := strings.ToLower(currentSection); {
		case currentTheme != nil:
			err = currentTheme.Set(key, value)
		case section == "clipboard":
			err = setClipboardField(&cfg.Clipboard, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case section == "":
			err = setRootField(cfg, key, value)
		}
		if err != nil {
			section := currentSection
			if section == "" {
				section = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, section, err)
		}
	}

	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "color", "colour":
		c, err := tool.ParseColor(value)
		if err != nil {
			return err
		}
		cfg.Color = c
	case "width":
		w, err := parseWidth(value)
		if err != nil {
			return err
		}
		cfg.Width = w
	case "mode":
		m, err := tool.ParseMode(value)
		if err != nil {
			return err
		}
		cfg.Mode = m
	case "theme":
		cfg.Theme = value
	}
	return nil
}

func setClipboardField(c *Clipboard, key, value string) error {
	switch strings.ToLower(key) {
	case "recompress":
		return parseBool(key, value, &c.Recompress)
	case "dither":
		return parseBool(key, value, &c.Dither)
	case "palette":
		c.Palette = strings.ToLower(value)
	case "maxsize":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid maxsize %q", value)
		}
		c.MaxSize = n
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	switch strings.ToLower(key) {
	case "copy":
		return parseBool(key, value, &n.Copy)
	case "noimage":
		return parseBool(key, value, &n.NoImage)
	}
	return nil
}

func parseBool(key, value string, dst *bool) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	*dst = b
	return nil
}

func parseWidth(value string) (int, error) {
	w, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid width %q: %w", value, err)
	}
	if w <= 0 {
		return 0, fmt.Errorf("%w: %d", tool.ErrInvalidWidth, w)
	}
	return w, nil
}
