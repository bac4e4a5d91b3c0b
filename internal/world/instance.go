// Package world keeps a fixed pool of scenery instances around the player and
// animates them: anchors are recycled once they fall beyond the horizon, each
// reassignment is masked by a spawn animation, and an idle motion layer keeps
// the forest moving between recycle events.
package world

import (
	"github.com/golang/geo/r3"

	"nightwalk/internal/mathx"
)

// Source is the randomness the world draws from. *core.RNG satisfies it.
type Source interface {
	Float64() float64
}

// SpawnAnim marks the transient rise animation of a freshly reassigned instance.
// It is inert once the clock passes Start+Duration.
type SpawnAnim struct {
	Start    float64
	Duration float64
	Active   bool
}

// Age returns how long the animation has been running at now.
func (a SpawnAnim) Age(now float64) float64 { return now - a.Start }

// Done reports whether the animation no longer has any effect at now.
func (a SpawnAnim) Done(now float64) bool {
	return !a.Active || a.Duration <= 0 || a.Age(now) >= a.Duration
}

// Transform is the resolved world placement handed to a renderer.
type Transform struct {
	Position r3.Vector
	Scale    float64
	Yaw      float64
	Roll     float64
	// Tint is the additive color pulse in [0, 1].
	Tint float64
}

// Instance is one recyclable scenery object. Its identity (ID, slot in the
// pool) never changes; only the anchor moves.
type Instance struct {
	ID         int
	Anchor     mathx.Vec2
	BaseHeight float64
	BaseScale  float64
	SpinPhase  float64
	SpinSpeed  float64
	Yaw        float64

	// SpawnDistance and Radial describe the placement relative to the player
	// at the moment of the last reassignment.
	SpawnDistance float64
	Radial        mathx.Vec2

	// Generation counts reassignments.
	Generation int

	Anim      SpawnAnim
	Transform Transform
}

func randRange(rng Source, min, max float64) float64 {
	if max <= min {
		return min
	}
	return min + rng.Float64()*(max-min)
}
