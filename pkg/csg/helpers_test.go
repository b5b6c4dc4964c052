package csg

import (
	"fmt"
	"slices"
	"strings"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

func vec(x, y, z float64) v3.Vec {
	return v3.Vec{X: x, Y: y, Z: z}
}

func unitCube() []Polygon {
	return Cube(v3.Vec{}, vec(1, 1, 1), nil)
}

// polygonKey renders a polygon so that equal geometry compares equal
// regardless of floating noise below 1e-9.
func polygonKey(p Polygon) string {
	parts := make([]string, 0, p.Len())
	for _, v := range p.vertices {
		parts = append(parts, fmt.Sprintf("(%.9f %.9f %.9f)", v.X, v.Y, v.Z))
	}
	return strings.Join(parts, " ")
}

func polygonSet(polygons []Polygon) []string {
	keys := make([]string, 0, len(polygons))
	for _, p := range polygons {
		keys = append(keys, polygonKey(p))
	}
	slices.Sort(keys)
	return keys
}
