package app

import (
	"flag"
	"fmt"
	"log/slog"
	"strings"

	"nightwalk/internal/sim"
)

// Config holds the command-line parameters shared by the front-ends.
type Config struct {
	Preset     string
	ConfigPath string
	Scale      int
	TPS        int
	Seed       int64
	Volume     float64
	Mute       bool
	SaveDir    string
	Load       string
	LogLevel   string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Preset:   sim.PresetDread,
		Scale:    6,
		TPS:      60,
		Seed:     sim.DefaultConfig().Seed,
		Volume:   0.6,
		SaveDir:  "saves",
		LogLevel: "info",
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Preset, "preset", c.Preset, "tuning preset ("+strings.Join([]string{sim.PresetDread, sim.PresetBrisk}, ", ")+")")
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file; overrides -preset")
	fs.IntVar(&c.Scale, "scale", c.Scale, "pixel scale multiplier")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "world seed")
	fs.Float64Var(&c.Volume, "volume", c.Volume, "ambience volume in [0, 1]")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable audio")
	fs.StringVar(&c.SaveDir, "save-dir", c.SaveDir, "directory for saved sessions")
	fs.StringVar(&c.Load, "load", c.Load, "saved session to resume")
	fs.StringVar(&c.LogLevel, "log-level", c.LogLevel, "debug, info, warn or error")
}

// SimConfig resolves the simulation config from -config or -preset and
// applies -seed on top.
func (c *Config) SimConfig() (sim.Config, error) {
	var (
		cfg sim.Config
		err error
	)
	if c.ConfigPath != "" {
		cfg, err = sim.LoadConfig(c.ConfigPath)
	} else {
		cfg, err = sim.Preset(c.Preset)
	}
	if err != nil {
		return sim.Config{}, err
	}
	cfg.Seed = c.Seed
	return cfg, nil
}

// Level parses -log-level.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}
