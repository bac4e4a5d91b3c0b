package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"

	"nightwalk/internal/encounter"
	"nightwalk/internal/sim"
)

type kvList []string

func (l *kvList) String() string {
	return strings.Join(*l, ",")
}

func (l *kvList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func main() {
	seconds := flag.Float64("seconds", 600, "simulated seconds per candidate")
	target := flag.Float64("target", 1.5, "desired activations per minute")
	passes := flag.Int("passes", 3, "coordinate-descent passes to execute")
	workers := flag.Int("workers", runtime.NumCPU(), "parallel candidate evaluations")
	preset := flag.String("preset", sim.PresetDread, "preset to start from")
	seed := flag.Int64("seed", 1337, "seed used for deterministic runs")
	manualOnly := flag.Bool("manual", false, "skip sweeping and only evaluate provided overrides")
	var overrides kvList
	flag.Var(&overrides, "set", "parameter override in key=value form (repeatable)")
	flag.Parse()

	m := map[string]string{"preset": *preset, "seed": fmt.Sprint(*seed)}
	for _, kv := range overrides {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			fmt.Fprintf(os.Stderr, "ignoring override %q\n", kv)
			continue
		}
		m[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	cfg := sim.FromMap(m)

	baseline := sim.EncounterRun(cfg, *seconds)
	fmt.Printf("Baseline: %s\n", describe(baseline))

	if *manualOnly {
		fmt.Println("Manual evaluation requested; skipping sweep.")
		printParams(cfg.Encounter)
		return
	}

	params, result, trace := sim.EncounterSweep(cfg, *target, *seconds, *passes, *workers)
	fmt.Printf("\nBest found: %s\n", describe(result))
	printParams(params)

	if len(trace) > 1 {
		fmt.Println("\nImprovements:")
		for _, rec := range trace[1:] {
			fmt.Printf("  pass %d: %s=%s -> %.2f/min, active %.0f%%\n",
				rec.Pass, rec.Parameter, rec.Value, rec.Result.PerMinute, rec.Result.ActiveShare*100)
		}
	}
}

func describe(r sim.EncounterResult) string {
	return fmt.Sprintf("%.2f activations/min (%d in %.0fs), %d caught, active %.0f%%, focus min %.2f mean %.2f",
		r.PerMinute, r.Activations, r.Seconds, r.Catches, r.ActiveShare*100, r.MinFocus, r.MeanFocus)
}

func printParams(c encounter.Config) {
	fmt.Println("Parameters:")
	fmt.Printf("  base_chance=%.4f\n", c.BaseChance)
	fmt.Printf("  focus_weight=%.4f\n", c.FocusWeight)
	fmt.Printf("  cooldown_min=%.2f\n", c.CooldownMin)
	fmt.Printf("  cooldown_max=%.2f\n", c.CooldownMax)
	fmt.Printf("  active_min=%.2f\n", c.ActiveMin)
	fmt.Printf("  active_max=%.2f\n", c.ActiveMax)
}
