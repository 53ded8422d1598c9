package cmd

import (
	"github.com/jgain/EcoViz/config"
	"github.com/jgain/EcoViz/log"
	"github.com/urfave/cli"
)

var logger = log.New("ecoviz")

func setupLogging(ctx *cli.Context, cfg *config.Config) error {
	level, err := log.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	log.SetLevel(level)

	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}
	return nil
}
