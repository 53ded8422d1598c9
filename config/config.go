// Package config loads the optional TOML configuration of the command line tool.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-shellwords"
	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
)

// DefaultPath is the configuration file read when none is given explicitly.
const DefaultPath = "~/.config/ecoviz/render.toml"

// The only renderer backend shipped.
const BackendMitsuba = "mitsuba"

type Config struct {
	Log      LogConfig      `toml:"log"`
	Renderer RendererConfig `toml:"renderer"`
	Output   OutputConfig   `toml:"output"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type RendererConfig struct {
	Backend        string `toml:"backend"`
	Executable     string `toml:"executable"`
	ExtraArgs      string `toml:"extra_args"`
	WorkDir        string `toml:"work_dir"`
	KeepSceneFiles bool   `toml:"keep_scene_files"`

	// Extra environment variables for the renderer process.
	Env map[string]string `toml:"env"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "notice"},
		Renderer: RendererConfig{
			Backend:    BackendMitsuba,
			Executable: "mitsuba",
		},
		Output: OutputConfig{Dir: "."},
	}
}

// Load reads the configuration at path over the defaults. When path is
// empty the default location is used and a missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	data, err := os.ReadFile(expanded)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: %w", err)
	}

	if err = Decode(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", expanded, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return err
	}
	return cfg.expandPaths()
}

func (c *Config) expandPaths() error {
	var err error
	for _, path := range []*string{&c.Renderer.Executable, &c.Renderer.WorkDir, &c.Output.Dir} {
		if *path, err = homedir.Expand(*path); err != nil {
			return err
		}
	}
	return nil
}

// RendererArgs splits the configured extra renderer arguments.
func (c *Config) RendererArgs() ([]string, error) {
	args, err := shellwords.Parse(c.Renderer.ExtraArgs)
	if err != nil {
		return nil, fmt.Errorf("config: renderer.extra_args: %w", err)
	}
	return args, nil
}
