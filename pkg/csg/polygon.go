package csg

import (
	"image/color"
	"math"
	"slices"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Polygon is an immutable convex planar polygon. The vertex winding
// determines the outward normal of its plane. The color is an optional
// opaque tag carried unchanged through flips, splits and transforms.
type Polygon struct {
	vertices []v3.Vec
	plane    Plane
	color    color.Color
}

// FromVertices builds a polygon from at least three coplanar vertices.
// The plane is fitted through the first three vertices; every other vertex
// must lie within Epsilon of it. Failures are *ConstructionError values
// wrapping ErrConstruction.
func FromVertices(vertices []v3.Vec, c color.Color) (Polygon, error) {
	if len(vertices) < 3 {
		return Polygon{}, &ConstructionError{Index: len(vertices), Err: ErrTooFewVertices}
	}
	plane, ok := PlaneFromPoints(vertices[0], vertices[1], vertices[2])
	if !ok {
		return Polygon{}, &ConstructionError{Index: 2, Err: ErrDegenerate}
	}
	for i, v := range vertices[3:] {
		if d := plane.Distance(v); math.Abs(d) > Epsilon {
			return Polygon{}, &ConstructionError{Index: i + 3, Distance: d, Err: ErrNotPlanar}
		}
	}
	return Polygon{
		vertices: slices.Clone(vertices),
		plane:    plane,
		color:    c,
	}, nil
}

// MustFromVertices is like FromVertices but panics on invalid input.
func MustFromVertices(vertices []v3.Vec, c color.Color) Polygon {
	p, err := FromVertices(vertices, c)
	if err != nil {
		panic(err)
	}
	return p
}

// Vertices returns a copy of the polygon's vertices in winding order.
func (p Polygon) Vertices() []v3.Vec {
	return slices.Clone(p.vertices)
}

// Len returns the number of vertices.
func (p Polygon) Len() int {
	return len(p.vertices)
}

// Vertex returns the i-th vertex.
func (p Polygon) Vertex(i int) v3.Vec {
	return p.vertices[i]
}

// Plane returns the polygon's supporting plane.
func (p Polygon) Plane() Plane {
	return p.plane
}

// Normal returns the unit outward normal.
func (p Polygon) Normal() v3.Vec {
	return p.plane.Normal
}

// Color returns the color tag, which may be nil.
func (p Polygon) Color() color.Color {
	return p.color
}

// WithColor returns a copy of the polygon tagged with c.
func (p Polygon) WithColor(c color.Color) Polygon {
	p.color = c
	return p
}

// Classify returns the side of this polygon's plane that v lies on.
func (p Polygon) Classify(v v3.Vec) Classification {
	return p.plane.Classify(v)
}

// Flip reverses the winding and the plane. Flip is an involution.
func (p Polygon) Flip() Polygon {
	vs := slices.Clone(p.vertices)
	slices.Reverse(vs)
	return Polygon{vertices: vs, plane: p.plane.Flip(), color: p.color}
}

// Transformed maps every vertex through t and fits a new plane to the
// result. Mirroring transforms reverse the winding so the normal keeps
// pointing outward.
func (p Polygon) Transformed(t Transform) (Polygon, error) {
	vs := make([]v3.Vec, len(p.vertices))
	for i, v := range p.vertices {
		vs[i] = t.Apply(v)
	}
	q, err := FromVertices(vs, p.color)
	if err != nil {
		return Polygon{}, err
	}
	if t.IsMirror() {
		q = q.Flip()
	}
	return q, nil
}

// Area returns the area of the polygon.
func (p Polygon) Area() float64 {
	var sum v3.Vec
	v0 := p.vertices[0]
	for i := 1; i+1 < len(p.vertices); i++ {
		sum = sum.Add(p.vertices[i].Sub(v0).Cross(p.vertices[i+1].Sub(v0)))
	}
	return sum.Length() / 2
}

// fragment builds a split fragment that inherits p's plane and color.
// Fragments are not revalidated: splitting only adds points on p's plane.
func (p Polygon) fragment(vertices []v3.Vec) Polygon {
	return Polygon{vertices: vertices, plane: p.plane, color: p.color}
}
