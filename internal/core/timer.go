package core

import "time"

// FixedStep paces simulation updates at a steady ticks-per-second rate
// against a wall clock.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	maxSteps    int
}

// NewFixedStep constructs a FixedStep controller targeting the given TPS.
func NewFixedStep(tps int) *FixedStep {
	if tps <= 0 {
		tps = 60
	}
	fs := &FixedStep{maxSteps: 4}
	fs.SetTPS(tps)
	fs.accumulator = fs.step
	return fs
}

// SetTPS changes the tick rate. It is safe to call from the main loop.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// Interval returns the duration of one tick.
func (f *FixedStep) Interval() time.Duration { return f.step }

// Seconds returns the duration of one tick in seconds, the dt handed to
// Sim.Step.
func (f *FixedStep) Seconds() float64 { return f.step.Seconds() }

// Advance feeds the clock reading now and returns how many ticks are due.
// After a long stall at most a few ticks are reported and the backlog is
// dropped, so a paused process does not fast-forward on resume.
func (f *FixedStep) Advance(now time.Time) int {
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	if delta > 0 {
		f.accumulator += delta
	}
	n := 0
	for f.accumulator >= f.step && n < f.maxSteps {
		f.accumulator -= f.step
		n++
	}
	if f.accumulator >= f.step {
		f.accumulator = 0
	}
	return n
}
