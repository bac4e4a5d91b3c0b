package sim

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"nightwalk/internal/encounter"
	"nightwalk/internal/feedback"
	"nightwalk/internal/world"
)

// ErrUnknownPreset is returned for preset names Preset does not know.
var ErrUnknownPreset = errors.New("unknown preset")

// Preset names.
const (
	PresetDread = "dread"
	PresetBrisk = "brisk"
)

// PlayerConfig tunes the walker.
type PlayerConfig struct {
	WalkSpeed   float64 `yaml:"walk_speed"`
	SprintSpeed float64 `yaml:"sprint_speed"`
	EyeHeight   float64 `yaml:"eye_height"`
}

// RadarConfig sizes the top-down raster exposed through Cells.
type RadarConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	// CellSize is the world distance covered by one cell.
	CellSize float64 `yaml:"cell_size"`
}

// Config aggregates every tunable of the simulation.
type Config struct {
	Seed   int64  `yaml:"seed"`
	Preset string `yaml:"preset"`

	// MaxDelta caps a single tick so long stalls do not destabilise anything.
	MaxDelta float64 `yaml:"max_delta"`
	Trees    int     `yaml:"trees"`

	Recycler  world.RecyclerConfig `yaml:"recycler"`
	Tiles     world.TileConfig     `yaml:"tiles"`
	Spawn     world.SpawnConfig    `yaml:"spawn"`
	Ambient   world.AmbientConfig  `yaml:"ambient"`
	Mist      world.MistConfig     `yaml:"mist"`
	Encounter encounter.Config     `yaml:"encounter"`
	Feedback  feedback.Config      `yaml:"feedback"`
	Player    PlayerConfig         `yaml:"player"`
	Radar     RadarConfig          `yaml:"radar"`
}

// DefaultConfig returns the dread preset.
func DefaultConfig() Config {
	return Config{
		Seed:      1337,
		Preset:    PresetDread,
		MaxDelta:  0.05,
		Trees:     220,
		Recycler:  world.DefaultRecyclerConfig(),
		Tiles:     world.DefaultTileConfig(),
		Spawn:     world.DefaultSpawnConfig(),
		Ambient:   world.DefaultAmbientConfig(),
		Mist:      world.DefaultMistConfig(),
		Encounter: encounter.DefaultConfig(),
		Feedback:  feedback.DefaultConfig(),
		Player: PlayerConfig{
			WalkSpeed:   2.4,
			SprintSpeed: 4.2,
			EyeHeight:   1.6,
		},
		Radar: RadarConfig{
			Width:    96,
			Height:   64,
			CellSize: 1,
		},
	}
}

// Preset returns the named configuration. The dread preset is the slow creep
// and stutter spawn; brisk is a short plain overshoot with a denser forest.
func Preset(name string) (Config, error) {
	cfg := DefaultConfig()
	switch name {
	case "", PresetDread:
		return cfg, nil
	case PresetBrisk:
		cfg.Preset = PresetBrisk
		cfg.Trees = 260
		cfg.Spawn = world.BriskSpawnConfig()
		cfg.Ambient.BreathPeriod = 5
		cfg.Encounter.InitialCooldown = 8
		return cfg, nil
	}
	return Config{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
}

// Normalize repairs degenerate values in place. Sizes that make no sense
// collapse to zero, which turns the matching subsystem into a no-op.
func (c *Config) Normalize() {
	if !(c.MaxDelta > 0) {
		c.MaxDelta = 0.05
	}
	if c.Trees < 0 {
		c.Trees = 0
	}
	if c.Mist.Count < 0 {
		c.Mist.Count = 0
	}
	if c.Tiles.N < 0 {
		c.Tiles.N = 0
	}
	if c.Spawn.Duration < 0 {
		c.Spawn.Duration = 0
	}
	if c.Player.WalkSpeed < 0 {
		c.Player.WalkSpeed = 0
	}
	if c.Player.SprintSpeed < c.Player.WalkSpeed {
		c.Player.SprintSpeed = c.Player.WalkSpeed
	}
	if c.Radar.Width <= 0 {
		c.Radar.Width = 1
	}
	if c.Radar.Height <= 0 {
		c.Radar.Height = 1
	}
	if !(c.Radar.CellSize > 0) {
		c.Radar.CellSize = 1
	}
	c.Recycler.Normalize()
	c.Encounter.Normalize()
}

// FromMap builds a config from flag-style key/value pairs. A "preset" key
// picks the base; unknown keys and unparsable values are ignored.
func FromMap(m map[string]string) Config {
	c, err := Preset(m["preset"])
	if err != nil {
		c = DefaultConfig()
	}
	if m == nil {
		return c
	}
	if v, ok := m["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v, ok := m["trees"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Trees = parsed
		}
	}
	if v, ok := m["mist"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			c.Mist.Count = parsed
		}
	}
	for _, t := range tunables {
		v, ok := m[t.key]
		if !ok {
			continue
		}
		if parsed, err := strconv.ParseFloat(v, 64); err == nil && t.accepts(parsed) {
			t.set(&c, parsed)
		}
	}
	return c
}

// LoadConfig reads a YAML file on top of the defaults. A top-level preset key
// selects the base the rest of the file overrides.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML config bytes on top of the defaults.
func ParseConfig(data []byte) (Config, error) {
	var head struct {
		Preset string `yaml:"preset"`
	}
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg, err := Preset(head.Preset)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	cfg.Normalize()
	return cfg, nil
}

// YAML encodes the config in the same shape LoadConfig reads.
func (c Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
