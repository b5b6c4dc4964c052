package csg

import (
	"fmt"
	"image/color"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// cubeFaces lists the corner indices of each face, wound outward. Corner i
// sits at -/+ half size on X, Y, Z according to bits 0, 1 and 2 of i.
var cubeFaces = [6][4]int{
	{0, 4, 6, 2}, // -x
	{1, 3, 7, 5}, // +x
	{0, 1, 5, 4}, // -y
	{2, 6, 7, 3}, // +y
	{0, 2, 3, 1}, // -z
	{4, 5, 7, 6}, // +z
}

// Cube returns the six faces of an axis-aligned box centered at center.
// It panics unless every component of size is positive.
func Cube(center, size v3.Vec, c color.Color) []Polygon {
	mustBePositive("cube", size.X, size.Y, size.Z)
	r := size.MulScalar(0.5)
	corner := func(i int) v3.Vec {
		v := center.Sub(r)
		if i&1 != 0 {
			v.X = center.X + r.X
		}
		if i&2 != 0 {
			v.Y = center.Y + r.Y
		}
		if i&4 != 0 {
			v.Z = center.Z + r.Z
		}
		return v
	}
	polygons := make([]Polygon, 0, len(cubeFaces))
	for _, face := range cubeFaces {
		vs := make([]v3.Vec, 4)
		for i, idx := range face {
			vs[i] = corner(idx)
		}
		polygons = append(polygons, MustFromVertices(vs, c))
	}
	return polygons
}

// Box returns the faces of the axis-aligned box spanning min to max.
// It panics unless max exceeds min on every axis.
func Box(min, max v3.Vec, c color.Color) []Polygon {
	return Cube(min.Add(max).MulScalar(0.5), max.Sub(min), c)
}

// Cylinder returns a closed prism approximating a cylinder along the Z axis,
// centered at the origin, with the given number of sides (at least 3).
// It panics unless height and radius are positive.
func Cylinder(height, radius float64, segments int, c color.Color) []Polygon {
	mustBePositive("cylinder", height, radius)
	if segments < 3 {
		segments = 3
	}
	h := height / 2
	ring := make([]v3.Vec, segments)
	for i := range ring {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring[i] = v3.Vec{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	at := func(v v3.Vec, z float64) v3.Vec {
		v.Z = z
		return v
	}

	polygons := make([]Polygon, 0, segments+2)
	top := make([]v3.Vec, segments)
	bottom := make([]v3.Vec, segments)
	for i := range ring {
		top[i] = at(ring[i], h)
		bottom[segments-1-i] = at(ring[i], -h)
	}
	polygons = append(polygons, MustFromVertices(bottom, c), MustFromVertices(top, c))

	for i := range ring {
		j := (i + 1) % segments
		side := []v3.Vec{
			at(ring[i], -h),
			at(ring[j], -h),
			at(ring[j], h),
			at(ring[i], h),
		}
		polygons = append(polygons, MustFromVertices(side, c))
	}
	return polygons
}

// Sphere returns a UV sphere centered at the origin. Bands between
// neighbouring latitudes are quads; the bands touching the poles are
// triangles. It panics unless radius is positive.
func Sphere(radius float64, slices, stacks int, c color.Color) []Polygon {
	mustBePositive("sphere", radius)
	if slices < 3 {
		slices = 3
	}
	if stacks < 2 {
		stacks = 2
	}
	vertex := func(i, j int) v3.Vec {
		switch j {
		case 0:
			return v3.Vec{Z: radius}
		case stacks:
			return v3.Vec{Z: -radius}
		}
		theta := 2 * math.Pi * float64(i%slices) / float64(slices)
		phi := math.Pi * float64(j) / float64(stacks)
		return v3.Vec{
			X: radius * math.Sin(phi) * math.Cos(theta),
			Y: radius * math.Sin(phi) * math.Sin(theta),
			Z: radius * math.Cos(phi),
		}
	}

	polygons := make([]Polygon, 0, slices*stacks)
	for i := 0; i < slices; i++ {
		for j := 0; j < stacks; j++ {
			var vs []v3.Vec
			switch j {
			case 0:
				vs = []v3.Vec{vertex(i, 0), vertex(i, 1), vertex(i+1, 1)}
			case stacks - 1:
				vs = []v3.Vec{vertex(i, j), vertex(i, stacks), vertex(i+1, j)}
			default:
				vs = []v3.Vec{vertex(i, j), vertex(i, j+1), vertex(i+1, j+1), vertex(i+1, j)}
			}
			polygons = append(polygons, MustFromVertices(vs, c))
		}
	}
	return polygons
}

// mustBePositive panics on sizes that cannot bound a solid. Callers that
// take sizes from user input check them first.
func mustBePositive(shape string, sizes ...float64) {
	for _, v := range sizes {
		if !(v > 0) || math.IsInf(v, 1) {
			panic(fmt.Sprintf("csg: %s sizes must be positive and finite, got %v", shape, sizes))
		}
	}
}
