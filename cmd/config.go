package cmd

import (
	"github.com/jgain/EcoViz/config"
	"github.com/urfave/cli"
)

// Load the tool configuration and apply its logging settings.
func setup(ctx *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx.GlobalString("config"))
	if err != nil {
		return nil, err
	}
	if err = setupLogging(ctx, cfg); err != nil {
		return nil, err
	}

	if dir := ctx.String("out-dir"); dir != "" {
		cfg.Output.Dir = dir
	}
	if backend := ctx.String("backend"); backend != "" {
		cfg.Renderer.Backend = backend
	}
	if ctx.Bool("keep-scene-files") {
		cfg.Renderer.KeepSceneFiles = true
	}
	return cfg, nil
}
