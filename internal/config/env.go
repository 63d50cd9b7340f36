package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// EnvPrefix is the prefix of every environment variable read by ApplyEnv.
const EnvPrefix = "CLIPMARK_"

// LoadDotenv loads .env files from the working directory and the
// configuration directory into the process environment. Variables that are
// already set keep their values, and missing files are skipped.
func LoadDotenv() ([]string, error) {
	var candidates []string
	if wd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(wd, ".env"))
	}
	if dir, err := Dir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	var loaded []string
	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return loaded, fmt.Errorf("load %s: %w", p, err)
		}
		loaded = append(loaded, p)
	}
	return loaded, nil
}

// ApplyEnv overrides file settings with CLIPMARK_* variables resolved by
// lookup, normally os.LookupEnv. All invalid values are reported together.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(name string) (string, bool) {
		v, ok := lookup(EnvPrefix + name)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}
	root := func(name, key string) {
		if v, ok := get(name); ok {
			if err := setRootField(c, key, v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			}
		}
	}
	root("COLOR", "color")
	root("WIDTH", "width")
	root("MODE", "mode")
	root("THEME", "theme")

	clip := func(name, key string) {
		if v, ok := get(name); ok {
			if err := setClipboardField(&c.Clipboard, key, v); err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
			}
		}
	}
	clip("RECOMPRESS", "recompress")
	clip("PALETTE", "palette")
	clip("DITHER", "dither")
	clip("MAXSIZE", "maxsize")

	for name, dst := range map[string]*bool{"NOTIFY_COPY": &c.Notify.Copy, "NOTIFY_NOIMAGE": &c.Notify.NoImage} {
		if v, ok := get(name); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				continue
			}
			*dst = b
		}
	}
	return errors.Join(errs...)
}
