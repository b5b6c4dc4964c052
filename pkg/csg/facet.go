package csg

import (
	"image/color"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Facet is a single output triangle with the normal and color of the
// polygon it was cut from.
type Facet struct {
	Triangle [3]v3.Vec
	Normal   v3.Vec
	Color    color.Color
}

// Facets fan-triangulates the polygon from vertex 0.
func (p Polygon) Facets() []Facet {
	n := len(p.vertices)
	if n < 3 {
		return nil
	}
	facets := make([]Facet, 0, n-2)
	for i := 0; i < n-2; i++ {
		facets = append(facets, Facet{
			Triangle: [3]v3.Vec{p.vertices[0], p.vertices[i+1], p.vertices[i+2]},
			Normal:   p.plane.Normal,
			Color:    p.color,
		})
	}
	return facets
}

// FacetsOf triangulates every polygon in order.
func FacetsOf(polygons []Polygon) []Facet {
	var facets []Facet
	for _, p := range polygons {
		facets = append(facets, p.Facets()...)
	}
	return facets
}

// Bounds returns the axis-aligned bounding box of all vertices. It reports
// false for an empty list.
func Bounds(polygons []Polygon) (sdf.Box3, bool) {
	if len(polygons) == 0 {
		return sdf.Box3{}, false
	}
	first := polygons[0].vertices[0]
	box := sdf.Box3{Min: first, Max: first}
	for _, p := range polygons {
		for _, v := range p.vertices {
			box.Min = box.Min.Min(v)
			box.Max = box.Max.Max(v)
		}
	}
	return box, true
}

// Area returns the total surface area of polygons.
func Area(polygons []Polygon) float64 {
	var sum float64
	for _, p := range polygons {
		sum += p.Area()
	}
	return sum
}

// Volume returns the signed volume enclosed by a closed, outward-wound
// polygon list. Open or inconsistently wound input gives a meaningless
// result.
func Volume(polygons []Polygon) float64 {
	var sum float64
	for _, f := range FacetsOf(polygons) {
		a, b, c := f.Triangle[0], f.Triangle[1], f.Triangle[2]
		sum += a.Dot(b.Cross(c))
	}
	return sum / 6
}
