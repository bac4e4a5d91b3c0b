package sim

import (
	"fmt"
	"math"
	"sync"

	"nightwalk/internal/encounter"
	"nightwalk/internal/mathx"
	pkgcore "nightwalk/pkg/core"
)

// EncounterResult captures telemetry from a deterministic scripted walk.
type EncounterResult struct {
	Seconds     float64
	Activations int
	Catches     int
	// PerMinute is the activation rate over the run.
	PerMinute float64
	// ActiveShare is the fraction of the run the presence was visible.
	ActiveShare float64
	MinFocus    float64
	MeanFocus   float64
}

// EncounterRecord documents a single improvement found by EncounterSweep.
type EncounterRecord struct {
	Pass      int
	Parameter string
	Value     string
	Result    EncounterResult
	Params    encounter.Config
}

// EncounterRun walks a slow meandering path for the given number of seconds
// at a fixed 60 Hz and reports how often the presence showed up. The forest
// is left empty since it has no influence on encounters.
func EncounterRun(cfg Config, seconds float64) EncounterResult {
	const dt = 1.0 / 60
	if !(seconds > 0) {
		return EncounterResult{}
	}
	cfg.Trees = 0
	cfg.Mist.Count = 0
	s := New(cfg, Options{})

	res := EncounterResult{MinFocus: 1}
	steps := int(math.Ceil(seconds / dt))
	active := 0
	focusSum := 0.0
	in := Input{Move: mathx.Vec2{Z: 1}}
	for i := 0; i < steps; i++ {
		t := float64(i) * dt
		in.Yaw = 0.6 * math.Sin(t*0.05)
		in.Sprint = math.Mod(t, 40) < 6
		f := s.Tick(dt, in)
		if f.Activated {
			res.Activations++
		}
		if f.Ended == encounter.EndCaught {
			res.Catches++
		}
		if f.Presence.Visible {
			active++
		}
		focusSum += f.Focus
		if f.Focus < res.MinFocus {
			res.MinFocus = f.Focus
		}
	}
	res.Seconds = float64(steps) * dt
	res.PerMinute = float64(res.Activations) / (res.Seconds / 60)
	res.ActiveShare = float64(active) / float64(steps)
	res.MeanFocus = focusSum / float64(steps)
	return res
}

type encounterAxis struct {
	name   string
	values []float64
	getter func(encounter.Config) float64
	setter func(*encounter.Config, float64)
}

// EncounterSweep performs a coarse coordinate-descent search over the
// encounter tunables, steering the activation rate toward target per minute.
// Candidates within a pass are evaluated on up to workers goroutines.
func EncounterSweep(base Config, target, seconds float64, passes, workers int) (encounter.Config, EncounterResult, []EncounterRecord) {
	if !(seconds > 0) {
		seconds = 600
	}
	if passes <= 0 {
		passes = 1
	}
	if workers <= 0 {
		workers = 1
	}

	current := base.Encounter
	currentResult := EncounterRun(base, seconds)
	records := []EncounterRecord{{
		Parameter: "baseline",
		Result:    currentResult,
		Params:    current,
	}}

	rng := pkgcore.NewRNG(base.Seed + 0x5f3759df)
	samples := passes * 4
	for i := 0; i < samples; i++ {
		candidate := randomizeEncounter(rng, current)
		res := EncounterRun(withEncounter(base, candidate), seconds)
		if betterEncounter(res, currentResult, target) {
			current = candidate
			currentResult = res
			records = append(records, EncounterRecord{
				Parameter: fmt.Sprintf("random#%d", i+1),
				Result:    res,
				Params:    candidate,
			})
		}
	}

	axes := []encounterAxis{
		{
			name:   "base_chance",
			values: []float64{0.01, 0.02, 0.04, 0.06, 0.08, 0.12},
			getter: func(c encounter.Config) float64 { return c.BaseChance },
			setter: func(c *encounter.Config, v float64) { c.BaseChance = v },
		},
		{
			name:   "focus_weight",
			values: []float64{0.05, 0.1, 0.22, 0.35, 0.5},
			getter: func(c encounter.Config) float64 { return c.FocusWeight },
			setter: func(c *encounter.Config, v float64) { c.FocusWeight = v },
		},
		{
			name:   "cooldown_min",
			values: []float64{4, 6, 10, 14, 18},
			getter: func(c encounter.Config) float64 { return c.CooldownMin },
			setter: func(c *encounter.Config, v float64) {
				c.CooldownMin = v
				if c.CooldownMax < v {
					c.CooldownMax = v
				}
			},
		},
		{
			name:   "cooldown_max",
			values: []float64{12, 18, 25, 35, 45},
			getter: func(c encounter.Config) float64 { return c.CooldownMax },
			setter: func(c *encounter.Config, v float64) {
				if v < c.CooldownMin {
					v = c.CooldownMin
				}
				c.CooldownMax = v
			},
		},
	}

	for pass := 1; pass <= passes; pass++ {
		improved := false
		for _, axis := range axes {
			best, bestResult, changed, rec := evaluateEncounterAxis(base, current, currentResult, axis, target, seconds, workers, pass)
			if changed {
				current = best
				currentResult = bestResult
				records = append(records, rec...)
				improved = true
			}
		}
		if !improved {
			break
		}
	}

	return current, currentResult, records
}

func evaluateEncounterAxis(base Config, params encounter.Config, baseline EncounterResult, axis encounterAxis, target, seconds float64, workers, pass int) (encounter.Config, EncounterResult, bool, []EncounterRecord) {
	best := params
	bestResult := baseline
	changed := false
	records := make([]EncounterRecord, 0)

	type candidate struct {
		result EncounterResult
		valid  bool
	}

	candidates := make([]candidate, len(axis.values))
	var wg sync.WaitGroup
	sem := make(chan struct{}, workers)

	for idx, value := range axis.values {
		if math.Abs(value-axis.getter(params)) <= 1e-9 {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, v float64) {
			defer wg.Done()
			p := params
			axis.setter(&p, v)
			candidates[i] = candidate{result: EncounterRun(withEncounter(base, p), seconds), valid: true}
			<-sem
		}(idx, value)
	}
	wg.Wait()

	for idx, value := range axis.values {
		cand := candidates[idx]
		if !cand.valid || !betterEncounter(cand.result, bestResult, target) {
			continue
		}
		p := params
		axis.setter(&p, value)
		best = p
		bestResult = cand.result
		changed = true
		records = append(records, EncounterRecord{
			Pass:      pass,
			Parameter: axis.name,
			Value:     fmt.Sprintf("%.3f", value),
			Result:    cand.result,
			Params:    p,
		})
	}
	return best, bestResult, changed, records
}

// betterEncounter prefers a rate closer to target, then fewer catches.
func betterEncounter(a, b EncounterResult, target float64) bool {
	da := math.Abs(a.PerMinute - target)
	db := math.Abs(b.PerMinute - target)
	if math.Abs(da-db) > 1e-9 {
		return da < db
	}
	return a.Catches < b.Catches
}

func withEncounter(base Config, params encounter.Config) Config {
	cfg := base
	cfg.Encounter = params
	return cfg
}

func randomizeEncounter(rng *pkgcore.RNG, base encounter.Config) encounter.Config {
	p := base
	p.BaseChance = rng.Range(0.005, 0.15)
	p.FocusWeight = rng.Range(0.02, 0.6)
	p.CooldownMin = rng.Range(3, 20)
	p.CooldownMax = rng.Range(p.CooldownMin+2, 50)
	return p
}
