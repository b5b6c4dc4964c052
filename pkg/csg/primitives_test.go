package csg

import (
	"image/color"
	"math"
	"testing"

	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/stretchr/testify/require"
)

// requireOutward checks that every face normal points away from center,
// which holds for convex solids.
func requireOutward(t *testing.T, polygons []Polygon, center v3.Vec) {
	t.Helper()
	for _, p := range polygons {
		var c v3.Vec
		for _, v := range p.vertices {
			c = c.Add(v)
		}
		c = c.MulScalar(1 / float64(p.Len()))
		require.Greater(t, p.Normal().Dot(c.Sub(center)), 0.0)
	}
}

func TestCube(t *testing.T) {
	cube := Cube(vec(1, 2, 3), vec(2, 4, 6), red)
	require.Len(t, cube, 6)
	require.InDelta(t, 48.0, Volume(cube), 1e-9)
	require.InDelta(t, 2*(8+12+24.0), Area(cube), 1e-9)
	requireOutward(t, cube, vec(1, 2, 3))
	for _, p := range cube {
		require.Equal(t, color.Color(red), p.Color())
	}

	box, ok := Bounds(cube)
	require.True(t, ok)
	require.Equal(t, vec(0, 0, 0), box.Min)
	require.Equal(t, vec(2, 4, 6), box.Max)
}

func TestBox(t *testing.T) {
	b := Box(vec(0, 0, 0), vec(1, 2, 3), nil)
	require.Equal(t, polygonSet(Cube(vec(0.5, 1, 1.5), vec(1, 2, 3), nil)), polygonSet(b))
}

func TestCylinder(t *testing.T) {
	const segments = 24
	cyl := Cylinder(2, 1, segments, nil)
	require.Len(t, cyl, segments+2)
	requireOutward(t, cyl, v3.Vec{})

	want := float64(segments) / 2 * math.Sin(2*math.Pi/segments) * 2
	require.InDelta(t, want, Volume(cyl), 1e-9)

	box, _ := Bounds(cyl)
	require.InDelta(t, -1.0, box.Min.Z, 1e-12)
	require.InDelta(t, 1.0, box.Max.Z, 1e-12)
	require.InDelta(t, 1.0, box.Max.X, 1e-12)

	require.Len(t, Cylinder(1, 1, 1, nil), 5)
}

func TestSphere(t *testing.T) {
	sphere := Sphere(2, 32, 16, nil)
	require.Len(t, sphere, 32*16)
	requireOutward(t, sphere, v3.Vec{})

	vol := Volume(sphere)
	exact := 4.0 / 3 * math.Pi * 8
	require.Less(t, vol, exact)
	require.InDelta(t, exact, vol, exact*0.05)

	box, _ := Bounds(sphere)
	require.InDelta(t, -2.0, box.Min.Z, 1e-12)
	require.InDelta(t, 2.0, box.Max.Z, 1e-12)

	require.Len(t, Sphere(1, 1, 1, nil), 3*2)
}

func TestPrimitivesRejectNonPositiveSizes(t *testing.T) {
	cases := map[string]func(){
		"flat cube":         func() { Cube(vec(0, 0, 0), vec(1, 0, 1), nil) },
		"inverted box":      func() { Box(vec(1, 1, 1), vec(0, 2, 2), nil) },
		"zero height":       func() { Cylinder(0, 1, 8, nil) },
		"negative radius":   func() { Cylinder(1, -1, 8, nil) },
		"zero sphere":       func() { Sphere(0, 8, 4, nil) },
		"NaN sphere":        func() { Sphere(math.NaN(), 8, 4, nil) },
		"infinite cylinder": func() { Cylinder(math.Inf(1), 1, 8, nil) },
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			require.Contains(t, panicMessage(build), "sizes must be positive")
		})
	}
}

// panicMessage runs fn and returns the string it panicked with, if any.
func panicMessage(fn func()) (msg string) {
	defer func() {
		msg, _ = recover().(string)
	}()
	fn()
	return ""
}
