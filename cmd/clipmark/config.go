package main

import (
	"fmt"

	"github.com/example/clipmark/internal/config"
)

type configCmd struct {
	Print configPrintCmd `cmd:"" default:"1" help:"Print the effective configuration in RC format."`
	Save  configSaveCmd  `cmd:"" help:"Write the effective configuration to the config file."`
}

type configPrintCmd struct{}

func (c *configPrintCmd) Run(a *app) error {
	_, err := fmt.Fprint(a.stdout, a.cfg.String())
	return err
}

type configSaveCmd struct {
	Path string `arg:"" optional:"" help:"Destination file. Defaults to the file settings were read from, or the per-user config file."`
}

func (c *configSaveCmd) Run(a *app) error {
	path := c.Path
	if path == "" {
		path = a.loader.GetConfigPath()
	}
	if path == "" {
		path = a.loader.DefaultPath()
	}
	if path == "" {
		return fmt.Errorf("no config path: set --config-file or HOME")
	}
	if err := config.Save(a.cfg, path); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}
	fmt.Fprintf(a.stdout, "Configuration saved to %s\n", path)
	return nil
}
