// Package config loads the runtime settings of the trainer from YAML.
// Learning hyper-parameters are not configurable; they are constants of the
// qlearning package.
package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"snake-ai/game"
)

// DefaultPath is looked up when no explicit config file is given.
const DefaultPath = "snake-ai.yaml"

//go:embed default.yaml
var defaultYAML []byte

type Config struct {
	Window     Window     `yaml:"window"`
	Headless   bool       `yaml:"headless"`
	Seed       uint64     `yaml:"seed"`
	LogLevel   string     `yaml:"log_level"`
	Checkpoint Checkpoint `yaml:"checkpoint"`
	Stats      Stats      `yaml:"stats"`
}

// Window is the board size in pixels and the tick rate of the display.
type Window struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Speed  int `yaml:"speed"`
}

type Checkpoint struct {
	Path              string `yaml:"path"`
	SaveOnImprovement bool   `yaml:"save_on_improvement"`
	LoadOnStart       bool   `yaml:"load_on_start"`
}

type Stats struct {
	DBPath    string `yaml:"db_path"`
	PlotPath  string `yaml:"plot_path"`
	PlotEvery int    `yaml:"plot_every"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Window: Window{
			Width:  640,
			Height: 480,
			Speed:  40,
		},
		LogLevel: "info",
		Checkpoint: Checkpoint{
			Path:              "model/model.gob",
			SaveOnImprovement: true,
		},
		Stats: Stats{
			DBPath:    "data/episodes.db",
			PlotPath:  "data/scores.png",
			PlotEvery: 1,
		},
	}
}

// Load reads the configuration.
// Search order: customPath -> ./snake-ai.yaml -> embedded default.
// Keys missing from a file keep their default value.
func Load(customPath string) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		cfg = Default()
	}

	path := customPath
	if path == "" {
		if _, err := os.Stat(DefaultPath); err != nil {
			return cfg, cfg.Validate()
		}
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that the board can hold a fresh snake on whole cells.
func (c Config) Validate() error {
	w, h := c.Window.Width, c.Window.Height
	if w%game.BlockSize != 0 || h%game.BlockSize != 0 {
		return fmt.Errorf("window %dx%d is not a multiple of the %dpx cell", w, h, game.BlockSize)
	}
	if w/game.BlockSize < 4 || h/game.BlockSize < 1 {
		return fmt.Errorf("window %dx%d is too small", w, h)
	}
	if c.Window.Speed < 0 {
		return fmt.Errorf("negative speed %d", c.Window.Speed)
	}
	if c.Stats.PlotEvery < 0 {
		return fmt.Errorf("negative plot_every %d", c.Stats.PlotEvery)
	}
	return nil
}
