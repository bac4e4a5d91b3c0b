package mathx

import "math"

// Vec2 is a point or direction on the horizontal (x, z) plane.
type Vec2 struct {
	X, Z float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Z - o.Z} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Z * s} }

// Len2 returns the squared length.
func (v Vec2) Len2() float64 { return v.X*v.X + v.Z*v.Z }

// Len returns the length.
func (v Vec2) Len() float64 { return math.Sqrt(v.Len2()) }

// Dist2 returns the squared distance between v and o.
func (v Vec2) Dist2(o Vec2) float64 { return v.Sub(o).Len2() }

// Normalize returns the unit vector along v, or the zero vector.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 || !Finite(l) {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Z / l}
}

// ClampLen limits v to at most max length.
func (v Vec2) ClampLen(max float64) Vec2 {
	l2 := v.Len2()
	if l2 <= max*max || l2 == 0 {
		return v
	}
	return v.Scale(max / math.Sqrt(l2))
}

// Polar returns the offset of length r at angle a, measured from +z toward +x.
func Polar(a, r float64) Vec2 {
	return Vec2{X: math.Sin(a) * r, Z: math.Cos(a) * r}
}

// Heading returns the angle of v measured from +z toward +x, the inverse of Polar.
func (v Vec2) Heading() float64 {
	return math.Atan2(v.X, v.Z)
}

// RGB is a linear color with components in [0, 1].
type RGB struct {
	R, G, B float64
}

// Scale multiplies every channel by k and clamps to [0, 1].
func (c RGB) Scale(k float64) RGB {
	return RGB{Clamp01(c.R * k), Clamp01(c.G * k), Clamp01(c.B * k)}
}

// Bytes converts the color to 8-bit channels.
func (c RGB) Bytes() (r, g, b uint8) {
	return uint8(math.Round(Clamp01(c.R) * 255)), uint8(math.Round(Clamp01(c.G) * 255)), uint8(math.Round(Clamp01(c.B) * 255))
}
