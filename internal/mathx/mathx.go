// Package mathx holds the scalar helpers shared by the world, encounter and
// feedback systems.
package mathx

import "math"

// GoldenAngle is the angular increment (radians) that disperses successive
// indices evenly around a circle.
const GoldenAngle = 2.399963229728653

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1]. NaN maps to 0.
func Clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return Clamp(v, 0, 1)
}

// Lerp interpolates between a and b by t without clamping t.
func Lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}

// InvLerp returns where v sits between a and b, clamped to [0, 1].
func InvLerp(a, b, v float64) float64 {
	if a == b {
		if v >= b {
			return 1
		}
		return 0
	}
	return Clamp01((v - a) / (b - a))
}

// Smoothstep is the cubic Hermite ramp between edge0 and edge1.
func Smoothstep(edge0, edge1, v float64) float64 {
	t := InvLerp(edge0, edge1, v)
	return t * t * (3 - 2*t)
}

// EaseOutBack overshoots past 1 before settling; s controls the overshoot.
// EaseOutBack(0) == 0 and EaseOutBack(1) == 1 for any s.
func EaseOutBack(t, s float64) float64 {
	p := t - 1
	return 1 + (s+1)*p*p*p + s*p*p
}

// Approach moves current toward target with time constant tau, the way an
// audio parameter ramp follows its target. tau <= 0 snaps immediately.
func Approach(current, target, dt, tau float64) float64 {
	if tau <= 0 || dt <= 0 {
		if tau <= 0 {
			return target
		}
		return current
	}
	k := 1 - math.Exp(-dt/tau)
	return current + (target-current)*k
}

// SanitizeDelta maps NaN, infinities and negative frame deltas to 0 and caps
// the result at max (when max > 0).
func SanitizeDelta(dt, max float64) float64 {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return 0
	}
	if max > 0 && dt > max {
		return max
	}
	return dt
}

// Finite reports whether v is neither NaN nor infinite.
func Finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// WrapAngle folds an angle into (-pi, pi].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}
