package sim

import (
	"strconv"

	"nightwalk/internal/core"
)

// tunable is a float knob shared by FromMap and the HUD.
type tunable struct {
	key   string
	label string
	group string
	step  float64
	min   float64
	max   float64
	get   func(Config) float64
	set   func(*Config, float64)
}

func (t tunable) accepts(v float64) bool {
	return v >= t.min && v <= t.max
}

var tunables = []tunable{
	{
		key: "base_chance", label: "Base chance /s", group: "Encounter",
		step: 0.01, min: 0, max: 1,
		get: func(c Config) float64 { return c.Encounter.BaseChance },
		set: func(c *Config, v float64) { c.Encounter.BaseChance = v },
	},
	{
		key: "focus_weight", label: "Focus weight", group: "Encounter",
		step: 0.01, min: 0, max: 1,
		get: func(c Config) float64 { return c.Encounter.FocusWeight },
		set: func(c *Config, v float64) { c.Encounter.FocusWeight = v },
	},
	{
		key: "cooldown_min", label: "Cooldown min", group: "Encounter",
		step: 0.5, min: 0, max: 120,
		get: func(c Config) float64 { return c.Encounter.CooldownMin },
		set: func(c *Config, v float64) { c.Encounter.CooldownMin = v },
	},
	{
		key: "cooldown_max", label: "Cooldown max", group: "Encounter",
		step: 0.5, min: 0, max: 120,
		get: func(c Config) float64 { return c.Encounter.CooldownMax },
		set: func(c *Config, v float64) { c.Encounter.CooldownMax = v },
	},
	{
		key: "active_min", label: "Active min", group: "Encounter",
		step: 0.25, min: 0, max: 30,
		get: func(c Config) float64 { return c.Encounter.ActiveMin },
		set: func(c *Config, v float64) { c.Encounter.ActiveMin = v },
	},
	{
		key: "active_max", label: "Active max", group: "Encounter",
		step: 0.25, min: 0, max: 30,
		get: func(c Config) float64 { return c.Encounter.ActiveMax },
		set: func(c *Config, v float64) { c.Encounter.ActiveMax = v },
	},
	{
		key: "threat_radius", label: "Threat radius", group: "Encounter",
		step: 0.5, min: 0.5, max: 60,
		get: func(c Config) float64 { return c.Encounter.ThreatRadius },
		set: func(c *Config, v float64) { c.Encounter.ThreatRadius = v },
	},
	{
		key: "catch_radius", label: "Catch radius", group: "Encounter",
		step: 0.1, min: 0, max: 10,
		get: func(c Config) float64 { return c.Encounter.CatchRadius },
		set: func(c *Config, v float64) { c.Encounter.CatchRadius = v },
	},
	{
		key: "base_drain", label: "Base drain /s", group: "Focus",
		step: 0.01, min: 0, max: 1,
		get: func(c Config) float64 { return c.Feedback.BaseDrain },
		set: func(c *Config, v float64) { c.Feedback.BaseDrain = v },
	},
	{
		key: "threat_drain_factor", label: "Threat drain factor", group: "Focus",
		step: 0.01, min: 0, max: 2,
		get: func(c Config) float64 { return c.Feedback.ThreatDrainFactor },
		set: func(c *Config, v float64) { c.Feedback.ThreatDrainFactor = v },
	},
	{
		key: "regen_rate", label: "Regen /s", group: "Focus",
		step: 0.01, min: 0, max: 1,
		get: func(c Config) float64 { return c.Feedback.RegenRate },
		set: func(c *Config, v float64) { c.Feedback.RegenRate = v },
	},
	{
		key: "activation_threshold", label: "Threat threshold", group: "Focus",
		step: 0.01, min: 0, max: 1,
		get: func(c Config) float64 { return c.Feedback.ActivationThreshold },
		set: func(c *Config, v float64) { c.Feedback.ActivationThreshold = v },
	},
	{
		key: "whisper_duration", label: "Whisper seconds", group: "Focus",
		step: 0.1, min: 0, max: 10,
		get: func(c Config) float64 { return c.Feedback.WhisperDuration },
		set: func(c *Config, v float64) { c.Feedback.WhisperDuration = v },
	},
	{
		key: "spawn_duration", label: "Spawn seconds", group: "World",
		step: 0.25, min: 0, max: 30,
		get: func(c Config) float64 { return c.Spawn.Duration },
		set: func(c *Config, v float64) { c.Spawn.Duration = v },
	},
	{
		key: "stutter", label: "Spawn stutter", group: "World",
		step: 0.005, min: 0, max: 0.2,
		get: func(c Config) float64 { return c.Spawn.StutterAmplitude },
		set: func(c *Config, v float64) { c.Spawn.StutterAmplitude = v },
	},
	{
		key: "max_delta", label: "Max tick", group: "World",
		step: 0.005, min: 0.005, max: 0.5,
		get: func(c Config) float64 { return c.MaxDelta },
		set: func(c *Config, v float64) { c.MaxDelta = v },
	},
	{
		key: "walk_speed", label: "Walk speed", group: "Player",
		step: 0.1, min: 0, max: 20,
		get: func(c Config) float64 { return c.Player.WalkSpeed },
		set: func(c *Config, v float64) { c.Player.WalkSpeed = v },
	},
	{
		key: "sprint_speed", label: "Sprint speed", group: "Player",
		step: 0.1, min: 0, max: 30,
		get: func(c Config) float64 { return c.Player.SprintSpeed },
		set: func(c *Config, v float64) { c.Player.SprintSpeed = v },
	},
}

func lookupTunable(key string) (tunable, bool) {
	for _, t := range tunables {
		if t.key == key {
			return t, true
		}
	}
	return tunable{}, false
}

// Parameters reports the current tunables grouped for display.
func (s *Simulation) Parameters() core.ParameterSnapshot {
	groups := []core.ParameterGroup{{
		Name: "Session",
		Params: []core.Parameter{
			{Key: "preset", Label: "Preset", Type: core.ParamTypeString, Value: s.cfg.Preset},
			int64Param("seed", "Seed", s.seed),
			intParam("trees", "Trees", s.pool.Len()),
			intParam("mist", "Mist", s.cfg.Mist.Count),
		},
	}}
	index := map[string]int{}
	for _, t := range tunables {
		i, ok := index[t.group]
		if !ok {
			i = len(groups)
			index[t.group] = i
			groups = append(groups, core.ParameterGroup{Name: t.group})
		}
		groups[i].Params = append(groups[i].Params, floatParam(t.key, t.label, t.get(s.cfg)))
	}
	return core.ParameterSnapshot{Groups: groups}
}

// ParameterControls lists the HUD-adjustable knobs.
func (s *Simulation) ParameterControls() []core.ParameterControl {
	controls := make([]core.ParameterControl, 0, len(tunables)+1)
	controls = append(controls, core.ParameterControl{
		Key:    "trees",
		Label:  "Trees",
		Type:   core.ParamTypeInt,
		Step:   10,
		Min:    0,
		Max:    600,
		HasMin: true,
		HasMax: true,
	})
	for _, t := range tunables {
		controls = append(controls, core.ParameterControl{
			Key:    t.key,
			Label:  t.label,
			Type:   core.ParamTypeFloat,
			Step:   t.step,
			Min:    t.min,
			Max:    t.max,
			HasMin: true,
			HasMax: true,
		})
	}
	return controls
}

// SetFloatParameter applies a float tunable live. Out-of-range values are
// rejected.
func (s *Simulation) SetFloatParameter(key string, value float64) bool {
	t, ok := lookupTunable(key)
	if !ok || !t.accepts(value) {
		return false
	}
	cfg := s.cfg
	t.set(&cfg, value)
	s.applyConfig(cfg)
	return true
}

// SetIntParameter handles the pool size, which rebuilds and re-scatters the
// forest around the player.
func (s *Simulation) SetIntParameter(key string, value int) bool {
	if key != "trees" || value < 0 || value > 600 {
		return false
	}
	s.cfg.Trees = value
	s.rebuildPool()
	return true
}

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}
