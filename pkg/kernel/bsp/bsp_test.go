package bsp

import (
	"errors"
	"math"
	"testing"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/printingin3d/javascad-sub000/pkg/csg"
	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

func polygonsOf(t *testing.T, s kernel.Solid) []csg.Polygon {
	t.Helper()
	polys, err := s.(*Solid).Polygons()
	if err != nil {
		t.Fatalf("Polygons() error = %v", err)
	}
	return polys
}

func expectBox(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64) {
	t.Helper()
	const tol = 1e-9
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected %f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected %f", i, max[i], wantMax[i])
		}
	}
}

func TestBox(t *testing.T) {
	k := New()
	box := k.Box(100, 50, 25)
	expectBox(t, box, [3]float64{0, 0, 0}, [3]float64{100, 50, 25})

	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if got := mesh.TriangleCount(); got != 12 {
		t.Errorf("box triangle count = %d, want 12", got)
	}
	// Faces meet at hard edges, so each corner appears once per face.
	if got := mesh.VertexCount(); got != 24 {
		t.Errorf("box vertex count = %d, want 24", got)
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	min, max, _ := mesh.Bounds()
	if min != [3]float64{0, 0, 0} || max != [3]float64{100, 50, 25} {
		t.Errorf("mesh bounds = %v, %v", min, max)
	}
}

func TestCylinder(t *testing.T) {
	k := New(WithSegments(16))
	cyl := k.Cylinder(10, 2, 0)
	expectBox(t, cyl, [3]float64{-2, -2, -5}, [3]float64{2, 2, 5})

	mesh, err := k.ToMesh(cyl)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// Two 16-gon caps fan into 14 triangles each, 16 side quads into 32.
	if got := mesh.TriangleCount(); got != 60 {
		t.Errorf("cylinder triangle count = %d, want 60", got)
	}

	explicit, err := k.ToMesh(k.Cylinder(10, 2, 8))
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if got := explicit.TriangleCount(); got != 2*6+2*8 {
		t.Errorf("8-segment cylinder triangle count = %d", got)
	}
}

func TestSphere(t *testing.T) {
	k := New(WithSphereResolution(12, 6))
	sphere := k.Sphere(5)
	expectBox(t, sphere, [3]float64{-5, -5, -5}, [3]float64{5, 5, 5})

	mesh, err := k.ToMesh(sphere)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	// 12 triangles at each pole plus 4 bands of 12 quads.
	if got := mesh.TriangleCount(); got != 2*12+4*12*2 {
		t.Errorf("sphere triangle count = %d", got)
	}
}

func TestDifference(t *testing.T) {
	k := New()
	box := k.Box(100, 100, 100)
	hole := k.Translate(k.Cylinder(120, 20, 32), 50, 50, 50)
	diff := k.Difference(box, hole)
	expectBox(t, diff, [3]float64{0, 0, 0}, [3]float64{100, 100, 100})

	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}

	prism := 16 * 400 * math.Sin(2*math.Pi/32) * 100
	if got := csg.Volume(polygonsOf(t, diff)); math.Abs(got-(1e6-prism)) > 1e-3 {
		t.Errorf("difference volume = %f, want %f", got, 1e6-prism)
	}
}

func TestUnion(t *testing.T) {
	k := New()
	box1 := k.Box(50, 50, 50)
	box2 := k.Translate(k.Box(50, 50, 50), 30, 0, 0)
	u := k.Union(box1, box2)
	expectBox(t, u, [3]float64{0, 0, 0}, [3]float64{80, 50, 50})

	mesh, err := k.ToMesh(u)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	min, max, _ := mesh.Bounds()
	if min != [3]float64{0, 0, 0} || max != [3]float64{80, 50, 50} {
		t.Errorf("mesh bounds = %v, %v", min, max)
	}
	if got := csg.Volume(polygonsOf(t, u)); math.Abs(got-80*50*50) > 1e-6 {
		t.Errorf("union volume = %f", got)
	}
}

func TestIntersection(t *testing.T) {
	k := New()
	box1 := k.Box(100, 100, 100)
	box2 := k.Translate(k.Box(100, 100, 100), 50, 0, 0)
	inter := k.Intersection(box1, box2)
	expectBox(t, inter, [3]float64{50, 0, 0}, [3]float64{100, 100, 100})

	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}

	apart := k.Intersection(box1, k.Translate(k.Box(10, 10, 10), 500, 0, 0))
	mesh, err = k.ToMesh(apart)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if !mesh.IsEmpty() {
		t.Errorf("disjoint intersection has %d triangles", mesh.TriangleCount())
	}
}

func TestRotate(t *testing.T) {
	k := New()
	rotated := k.Rotate(k.Box(100, 10, 10), 0, 0, 90)
	min, max := rotated.BoundingBox()

	const tol = 1e-9
	if xExtent := max[0] - min[0]; math.Abs(xExtent-10) > tol {
		t.Errorf("rotated X extent = %f, expected 10", xExtent)
	}
	if yExtent := max[1] - min[1]; math.Abs(yExtent-100) > tol {
		t.Errorf("rotated Y extent = %f, expected 100", yExtent)
	}
	if _, err := k.ToMesh(rotated); err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
}

func TestScale(t *testing.T) {
	k := New()
	scaled := k.Scale(k.Box(1, 2, 3), 2, 2, 2)
	expectBox(t, scaled, [3]float64{0, 0, 0}, [3]float64{2, 4, 6})

	mirrored := k.Scale(k.Box(1, 2, 3), -1, 1, 1)
	expectBox(t, mirrored, [3]float64{-1, 0, 0}, [3]float64{0, 2, 3})
	if got := csg.Volume(polygonsOf(t, mirrored)); math.Abs(got-6) > 1e-9 {
		t.Errorf("mirrored volume = %f, want 6", got)
	}

	flat := k.Scale(k.Box(1, 1, 1), 1, 0, 1)
	if _, err := k.ToMesh(flat); !errors.Is(err, csg.ErrDegenerate) {
		t.Errorf("ToMesh(flat) error = %v, want ErrDegenerate", err)
	}
}

func TestInvalidDimensions(t *testing.T) {
	k := New()
	tests := []struct {
		name  string
		solid kernel.Solid
	}{
		{"zero box", k.Box(0, 1, 1)},
		{"negative cylinder", k.Cylinder(-1, 1, 8)},
		{"nan sphere", k.Sphere(math.NaN())},
		{"propagates through union", k.Union(k.Box(1, 1, 1), k.Sphere(0))},
		{"propagates through transform", k.Translate(k.Box(1, -1, 1), 1, 0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := k.ToMesh(tt.solid); !errors.Is(err, ErrInvalidDimension) {
				t.Errorf("ToMesh() error = %v, want ErrInvalidDimension", err)
			}
		})
	}
}

type otherSolid struct{}

func (otherSolid) BoundingBox() (min, max [3]float64) { return }

func TestForeignSolid(t *testing.T) {
	k := New()
	if _, err := k.ToMesh(k.Union(k.Box(1, 1, 1), otherSolid{})); !errors.Is(err, ErrForeignSolid) {
		t.Errorf("ToMesh() error = %v, want ErrForeignSolid", err)
	}
}

func TestToMeshOutOfBounds(t *testing.T) {
	k := New()
	s := &Solid{
		polygons: csg.Cube(v3.Vec{}, v3.Vec{X: 2, Y: 2, Z: 2}, nil),
		box:      sdf.Box3{Min: v3.Vec{X: -1, Y: -1, Z: -1}, Max: v3.Vec{X: 1, Y: 1, Z: 0.5}},
	}
	if _, err := k.ToMesh(s); !errors.Is(err, kernel.ErrOutOfBounds) {
		t.Errorf("ToMesh() error = %v, want ErrOutOfBounds", err)
	}

	measured := FromPolygons(csg.Cube(v3.Vec{}, v3.Vec{X: 2, Y: 2, Z: 2}, nil))
	expectBox(t, measured, [3]float64{-1, -1, -1}, [3]float64{1, 1, 1})
	if _, err := k.ToMesh(measured); err != nil {
		t.Errorf("ToMesh(measured) error = %v", err)
	}
}
