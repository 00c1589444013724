package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/sentry/logger"
)

// Config holds the game settings that are not part of a prefab or level.
type Config struct {
	Display    DisplayConfig       `yaml:"display"`
	Simulation SimulationConfig    `yaml:"simulation"`
	Logging    logger.LoggerConfig `yaml:"logging"`
	Debug      DebugConfig         `yaml:"debug"`
}

type DisplayConfig struct {
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	WindowTitle  string  `yaml:"window_title"`
	Resizable    bool    `yaml:"resizable"`
	PixelsPerM   float64 `yaml:"pixels_per_meter"`
}

type SimulationConfig struct {
	TPS   int    `yaml:"tps"`
	Seed  uint64 `yaml:"seed"`
	Level string `yaml:"level"`
	// HotReload watches the prefab and level directories.
	HotReload bool `yaml:"hot_reload"`
}

type DebugConfig struct {
	Enabled bool `yaml:"enabled"`
	Gizmos  bool `yaml:"gizmos"`
	NavGrid bool `yaml:"nav_grid"`
}

func Default() *Config {
	return &Config{
		Display: DisplayConfig{
			ScreenWidth:  1280,
			ScreenHeight: 720,
			WindowTitle:  "sentry",
			Resizable:    true,
			PixelsPerM:   20,
		},
		Simulation: SimulationConfig{
			TPS:       60,
			Seed:      1,
			Level:     "arena",
			HotReload: true,
		},
		Logging: logger.LoggerConfig{
			Level:  "info",
			Format: "console",
		},
		Debug: DebugConfig{
			Gizmos: true,
		},
	}
}

// Load reads filename over the defaults. A missing file yields the defaults.
func Load(filename string) (*Config, error) {
	cfg := Default()
	if filename == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", filename, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal %s: %w", filename, err)
	}
	cfg.fillDefaults()
	return cfg, nil
}

func (c *Config) fillDefaults() {
	def := Default()
	if c.Display.ScreenWidth <= 0 {
		c.Display.ScreenWidth = def.Display.ScreenWidth
	}
	if c.Display.ScreenHeight <= 0 {
		c.Display.ScreenHeight = def.Display.ScreenHeight
	}
	if c.Display.PixelsPerM <= 0 {
		c.Display.PixelsPerM = def.Display.PixelsPerM
	}
	if c.Simulation.TPS <= 0 {
		c.Simulation.TPS = def.Simulation.TPS
	}
	if c.Simulation.Level == "" {
		c.Simulation.Level = def.Simulation.Level
	}
}

// Dt is the fixed simulation step in seconds.
func (c *Config) Dt() float64 {
	return 1 / float64(c.Simulation.TPS)
}

// LoggerConfig returns the logging section with blanks filled from
// logger.DefaultConfig.
func (c *Config) LoggerConfig() logger.LoggerConfig {
	out := logger.DefaultConfig()
	if c.Logging.Level != "" {
		out.Level = c.Logging.Level
	}
	if c.Logging.Format != "" {
		out.Format = c.Logging.Format
	}
	out.Development = c.Logging.Development
	return out
}
