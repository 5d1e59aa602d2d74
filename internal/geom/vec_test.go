package geom

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestNormZeroVector(t *testing.T) {
	// A zero-length direction must normalize to zero, not NaN.
	n := V(0, 0).Norm()
	if !n.IsZero() {
		t.Errorf("Norm() of zero vector = %+v, expected zero vector", n)
	}
}

func TestNormUnitLength(t *testing.T) {
	tests := []struct {
		name string
		v    Vec
	}{
		{"axis", V(3, 0)},
		{"diagonal", V(1, 1)},
		{"negative", V(-2, -7)},
		{"tiny", V(0.001, 0.002)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			n := tc.v.Norm()
			if !almostEqual(n.Len(), 1.0) {
				t.Errorf("Norm().Len() = %v, expected 1.0", n.Len())
			}
		})
	}
}

func TestDist(t *testing.T) {
	if d := V(0, 0).Dist(V(3, 4)); !almostEqual(d, 5) {
		t.Errorf("Dist = %v, expected 5", d)
	}
	if d := V(-1, -1).Dist(V(-1, -1)); !almostEqual(d, 0) {
		t.Errorf("Dist to self = %v, expected 0", d)
	}
}

func TestRayDist(t *testing.T) {
	origin := V(1, 1)
	dir := V(1, 0)

	tests := []struct {
		name  string
		p     Vec
		along float64
		perp  float64
	}{
		{"on ray ahead", V(4, 1), 3, 0},
		{"behind origin", V(-2, 1), -3, 0},
		{"above ray", V(3, 3), 2, 2},
		{"below ray", V(3, -1), 2, 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			along, perp := RayDist(origin, dir, tc.p)
			if !almostEqual(along, tc.along) || !almostEqual(perp, tc.perp) {
				t.Errorf("RayDist = (%v, %v), expected (%v, %v)", along, perp, tc.along, tc.perp)
			}
		})
	}
}

func TestRayDistZeroDir(t *testing.T) {
	along, perp := RayDist(V(0, 0), Vec{}, V(3, 4))
	if along != 0 || !almostEqual(perp, 5) {
		t.Errorf("RayDist with zero dir = (%v, %v), expected (0, 5)", along, perp)
	}
}

func TestClamp(t *testing.T) {
	tests := []struct {
		val, lo, hi, expected float64
	}{
		{5, 0, 10, 5},
		{-5, 0, 10, 0},
		{15, 0, 10, 10},
	}
	for _, tc := range tests {
		if got := Clamp(tc.val, tc.lo, tc.hi); got != tc.expected {
			t.Errorf("Clamp(%v, %v, %v) = %v, expected %v", tc.val, tc.lo, tc.hi, got, tc.expected)
		}
	}
}
