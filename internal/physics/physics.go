// Package physics provides the geometry used by the simulation: vectors,
// bounds, bounding shapes and their overlap tests.
package physics

import "math"

// Vec is a 2D point or displacement. Y grows upward.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v multiplied by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// LenSq returns the squared length of v.
func (v Vec) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Size is the full width and height of an entity's bounding box.
type Size struct {
	Width, Height float64
}

// Valid reports whether both dimensions are positive.
func (s Size) Valid() bool {
	return s.Width > 0 && s.Height > 0
}

// Bounds are the half-extents of the visible play field, centred on the origin:
// x ∈ [-Width, Width], y ∈ [-Height, Height].
type Bounds struct {
	Width, Height float64
}

// Valid reports whether both half-extents are positive.
func (b Bounds) Valid() bool {
	return b.Width > 0 && b.Height > 0
}

// Rect is an axis-aligned rectangle described by its centre and half-extents.
type Rect struct {
	Center Vec
	HalfW  float64
	HalfH  float64
}

// RectAt builds the bounding rectangle of an entity of the given size at center.
func RectAt(center Vec, size Size) Rect {
	return Rect{Center: center, HalfW: size.Width / 2, HalfH: size.Height / 2}
}

// Circle is a bounding circle.
type Circle struct {
	Center Vec
	Radius float64
}

// Clamp restricts v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// CircleRectOverlap reports whether c and r overlap, using the point of r
// closest to the circle centre. Touching edges do not count.
func CircleRectOverlap(c Circle, r Rect) bool {
	near := Vec{
		X: Clamp(c.Center.X, r.Center.X-r.HalfW, r.Center.X+r.HalfW),
		Y: Clamp(c.Center.Y, r.Center.Y-r.HalfH, r.Center.Y+r.HalfH),
	}
	return c.Center.Sub(near).LenSq() < c.Radius*c.Radius
}

// RectsOverlap reports whether two rectangles overlap. Touching edges do not count.
func RectsOverlap(a, b Rect) bool {
	return math.Abs(a.Center.X-b.Center.X) < a.HalfW+b.HalfW &&
		math.Abs(a.Center.Y-b.Center.Y) < a.HalfH+b.HalfH
}
