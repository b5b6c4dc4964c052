package csg

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Epsilon is the tolerance used when classifying points against planes.
// It is fixed; the kernel does not weld or snap vertices beyond it.
const Epsilon = 1e-6

// Plane is an oriented plane N·x = W with a unit normal N.
type Plane struct {
	Normal v3.Vec
	W      float64
}

// PlaneFromPoints fits a plane through a, b and c with the normal
// (b-a)×(c-a). It reports false when the points are (nearly) collinear,
// that is when the sine of the angle at a is at most Epsilon.
func PlaneFromPoints(a, b, c v3.Vec) (Plane, bool) {
	e1, e2 := b.Sub(a), c.Sub(a)
	n := e1.Cross(e2)
	l := n.Length()
	if l == 0 || l <= Epsilon*e1.Length()*e2.Length() {
		return Plane{}, false
	}
	n = n.Normalize()
	return Plane{Normal: n, W: n.Dot(a)}, true
}

// Distance returns the signed distance of v from the plane.
func (p Plane) Distance(v v3.Vec) float64 {
	return p.Normal.Dot(v) - p.W
}

// Classify returns Front, Back or Coplanar for a single point.
func (p Plane) Classify(v v3.Vec) Classification {
	d := p.Distance(v)
	switch {
	case d < -Epsilon:
		return Back
	case d > Epsilon:
		return Front
	}
	return Coplanar
}

// ClassifyPolygon folds the classification of every vertex of poly.
func (p Plane) ClassifyPolygon(poly Polygon) Classification {
	c := Coplanar
	for _, v := range poly.vertices {
		c = c.Combine(p.Classify(v))
	}
	return c
}

// Flip returns the plane with the opposite orientation.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.Neg(), W: -p.W}
}

// intersect returns the point where segment a-b crosses the plane.
// The caller guarantees a and b lie strictly on opposite sides.
func (p Plane) intersect(a, b v3.Vec) v3.Vec {
	t := (p.W - p.Normal.Dot(a)) / p.Normal.Dot(b.Sub(a))
	return lerp(a, b, t)
}

func lerp(a, b v3.Vec, t float64) v3.Vec {
	return a.Add(b.Sub(a).MulScalar(t))
}
