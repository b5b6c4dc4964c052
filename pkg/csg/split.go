package csg

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// FrontBack collects the polygons that end up on either side of a plane.
type FrontBack struct {
	Front []Polygon
	Back  []Polygon
}

// SplitPolygon sorts poly against the plane for tree construction.
// Coplanar polygons are appended to coplanar regardless of orientation;
// polygons entirely on one side go to the matching side of out; spanning
// polygons are cut in two.
func (p Plane) SplitPolygon(poly Polygon, coplanar *[]Polygon, out *FrontBack) {
	p.split(poly, out, func(q Polygon) {
		*coplanar = append(*coplanar, q)
	})
}

// SplitPolygonOriented sorts poly against the plane for clipping. There is
// no coplanar bucket: a coplanar polygon goes to the front if its normal
// points the same way as the plane's, otherwise to the back.
func (p Plane) SplitPolygonOriented(poly Polygon, out *FrontBack) {
	p.split(poly, out, func(q Polygon) {
		if p.Normal.Dot(q.plane.Normal) > 0 {
			out.Front = append(out.Front, q)
		} else {
			out.Back = append(out.Back, q)
		}
	})
}

func (p Plane) split(poly Polygon, out *FrontBack, onCoplanar func(Polygon)) {
	types := make([]Classification, len(poly.vertices))
	polyType := Coplanar
	for i, v := range poly.vertices {
		types[i] = p.Classify(v)
		polyType = polyType.Combine(types[i])
	}

	switch polyType {
	case Coplanar:
		onCoplanar(poly)
	case Front:
		out.Front = append(out.Front, poly)
	case Back:
		out.Back = append(out.Back, poly)
	case Spanning:
		p.cut(poly, types, out)
	}
}

// cut walks the edges of a spanning polygon. Coplanar vertices land in both
// fragments, and every edge crossing the plane contributes the same
// interpolated vertex to both so the fragments share the cut exactly.
// Fragments with fewer than 3 points are dropped.
func (p Plane) cut(poly Polygon, types []Classification, out *FrontBack) {
	n := len(poly.vertices)
	front := make([]v3.Vec, 0, n+1)
	back := make([]v3.Vec, 0, n+1)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		ti, tj := types[i], types[j]
		vi, vj := poly.vertices[i], poly.vertices[j]
		if ti != Back {
			front = append(front, vi)
		}
		if ti != Front {
			back = append(back, vi)
		}
		if ti.Combine(tj) == Spanning {
			v := p.intersect(vi, vj)
			front = append(front, v)
			back = append(back, v)
		}
	}
	if len(front) >= 3 {
		out.Front = append(out.Front, poly.fragment(front))
	}
	if len(back) >= 3 {
		out.Back = append(out.Back, poly.fragment(back))
	}
}
