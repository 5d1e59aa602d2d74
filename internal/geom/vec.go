// Package geom provides the 2D float vector math used by the match
// simulation. It has no dependencies so simulation logic stays pure and
// testable.
package geom

import "math"

// Vec is a 2D point or direction in meters.
type Vec struct {
	X float64
	Y float64
}

func V(x, y float64) Vec {
	return Vec{X: x, Y: y}
}

func (v Vec) Add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{X: v.X * s, Y: v.Y * s}
}

// Len returns the vector's magnitude.
func (v Vec) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// Dist returns the distance between two points.
func (v Vec) Dist(o Vec) float64 {
	return math.Hypot(o.X-v.X, o.Y-v.Y)
}

// Norm returns the unit vector in v's direction. A zero-length input
// normalizes to the zero vector rather than dividing by zero.
func (v Vec) Norm() Vec {
	l := v.Len()
	if l == 0 {
		return Vec{}
	}
	return Vec{X: v.X / l, Y: v.Y / l}
}

// Dot returns the dot product of two vectors.
func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

// Cross returns the 2D cross product magnitude (signed).
func (v Vec) Cross(o Vec) float64 {
	return v.X*o.Y - v.Y*o.X
}

// IsZero reports whether both components are exactly zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// RayDist returns the signed distance of point p along the ray from origin in
// direction dir, and the absolute perpendicular offset of p from the ray line.
// dir must be normalized; a zero dir yields (0, distance to origin).
func RayDist(origin, dir, p Vec) (along, perp float64) {
	rel := p.Sub(origin)
	if dir.IsZero() {
		return 0, rel.Len()
	}
	return rel.Dot(dir), math.Abs(dir.Cross(rel))
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}
