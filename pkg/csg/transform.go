package csg

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Transform maps points in space. IsMirror reports whether the mapping
// reverses orientation, in which case transformed polygons are flipped.
type Transform interface {
	Apply(v v3.Vec) v3.Vec
	IsMirror() bool
}

// Compile-time interface check.
var _ Transform = Matrix{}

// Matrix is an affine Transform backed by an sdfx 4x4 matrix.
type Matrix struct {
	m sdf.M44
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{m: sdf.Translate3d(v3.Vec{})}
}

// Translate returns a translation by v.
func Translate(v v3.Vec) Matrix {
	return Matrix{m: sdf.Translate3d(v)}
}

// Scale returns a scaling by v. Negative components mirror.
func Scale(v v3.Vec) Matrix {
	return Matrix{m: sdf.Scale3d(v)}
}

// RotateEuler returns a rotation by Euler angles in degrees, applied about
// X first, then Y, then Z.
func RotateEuler(x, y, z float64) Matrix {
	xRad := x * math.Pi / 180.0
	yRad := y * math.Pi / 180.0
	zRad := z * math.Pi / 180.0
	return Matrix{m: sdf.RotateZ(zRad).Mul(sdf.RotateY(yRad)).Mul(sdf.RotateX(xRad))}
}

// FromM44 wraps an sdfx matrix.
func FromM44(m sdf.M44) Matrix {
	return Matrix{m: m}
}

// M44 returns the underlying sdfx matrix.
func (a Matrix) M44() sdf.M44 {
	return a.m
}

// Then returns the transform that applies a and then b.
func (a Matrix) Then(b Matrix) Matrix {
	return Matrix{m: b.m.Mul(a.m)}
}

// Apply maps a point.
func (a Matrix) Apply(v v3.Vec) v3.Vec {
	return a.m.MulPosition(v)
}

// IsMirror reports whether the matrix reverses orientation.
func (a Matrix) IsMirror() bool {
	return a.m.Determinant() < 0
}

// TransformAll maps every polygon through t.
func TransformAll(polygons []Polygon, t Transform) ([]Polygon, error) {
	out := make([]Polygon, 0, len(polygons))
	for _, p := range polygons {
		q, err := p.Transformed(t)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}

// TransformBox returns the axis-aligned box enclosing the eight
// transformed corners of b.
func TransformBox(b sdf.Box3, t Transform) sdf.Box3 {
	var out sdf.Box3
	for i := 0; i < 8; i++ {
		c := b.Min
		if i&1 != 0 {
			c.X = b.Max.X
		}
		if i&2 != 0 {
			c.Y = b.Max.Y
		}
		if i&4 != 0 {
			c.Z = b.Max.Z
		}
		c = t.Apply(c)
		if i == 0 {
			out = sdf.Box3{Min: c, Max: c}
			continue
		}
		out.Min = out.Min.Min(c)
		out.Max = out.Max.Max(c)
	}
	return out
}
