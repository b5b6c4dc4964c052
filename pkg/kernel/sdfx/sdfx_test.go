package sdfx

import (
	"math"
	"testing"

	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

const testCells = 64

func expectExtents(t *testing.T, s kernel.Solid, wantMin, wantMax [3]float64, tol float64) {
	t.Helper()
	min, max := s.BoundingBox()
	for i := 0; i < 3; i++ {
		if math.Abs(min[i]-wantMin[i]) > tol {
			t.Errorf("min[%d] = %f, expected ~%f", i, min[i], wantMin[i])
		}
		if math.Abs(max[i]-wantMax[i]) > tol {
			t.Errorf("max[%d] = %f, expected ~%f", i, max[i], wantMax[i])
		}
	}
}

func TestNewDefaultsMeshCells(t *testing.T) {
	if k := New(0); k.meshCells != DefaultMeshCells {
		t.Errorf("meshCells = %d, want %d", k.meshCells, DefaultMeshCells)
	}
}

func TestBox(t *testing.T) {
	k := New(testCells)
	box := k.Box(100, 50, 25)
	expectExtents(t, box, [3]float64{0, 0, 0}, [3]float64{100, 50, 25}, 0.01)

	mesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("mesh is empty")
	}
	if len(mesh.Vertices) != len(mesh.Normals) {
		t.Fatalf("vertices length %d != normals length %d", len(mesh.Vertices), len(mesh.Normals))
	}
	if len(mesh.Indices) != mesh.TriangleCount()*3 {
		t.Fatalf("indices length %d != triCount*3 %d", len(mesh.Indices), mesh.TriangleCount()*3)
	}
	t.Logf("box triangle count: %d", mesh.TriangleCount())
}

func TestCylinderAndSphere(t *testing.T) {
	k := New(testCells)
	cyl := k.Cylinder(50, 10, 32)
	expectExtents(t, cyl, [3]float64{-10, -10, -25}, [3]float64{10, 10, 25}, 0.01)

	sphere := k.Sphere(8)
	expectExtents(t, sphere, [3]float64{-8, -8, -8}, [3]float64{8, 8, 8}, 0.01)

	for name, s := range map[string]kernel.Solid{"cylinder": cyl, "sphere": sphere} {
		mesh, err := k.ToMesh(s)
		if err != nil {
			t.Fatalf("ToMesh(%s) failed: %v", name, err)
		}
		if mesh.TriangleCount() == 0 {
			t.Fatalf("%s: expected non-zero triangle count", name)
		}
		t.Logf("%s triangle count: %d", name, mesh.TriangleCount())
	}
}

func TestBooleans(t *testing.T) {
	k := New(testCells)
	box := k.Box(100, 100, 100)
	boxMesh, err := k.ToMesh(box)
	if err != nil {
		t.Fatalf("ToMesh(box) failed: %v", err)
	}

	diff := k.Difference(box, k.Translate(k.Cylinder(120, 20, 32), 50, 50, 50))
	diffMesh, err := k.ToMesh(diff)
	if err != nil {
		t.Fatalf("ToMesh(diff) failed: %v", err)
	}
	if diffMesh.TriangleCount() <= boxMesh.TriangleCount() {
		t.Fatalf("difference (%d triangles) should have more triangles than box (%d triangles)",
			diffMesh.TriangleCount(), boxMesh.TriangleCount())
	}

	union := k.Union(k.Box(50, 50, 50), k.Translate(k.Box(50, 50, 50), 30, 0, 0))
	expectExtents(t, union, [3]float64{0, 0, 0}, [3]float64{80, 50, 50}, 0.01)

	inter := k.Intersection(box, k.Translate(k.Box(100, 100, 100), 50, 0, 0))
	mesh, err := k.ToMesh(inter)
	if err != nil {
		t.Fatalf("ToMesh failed: %v", err)
	}
	if mesh.IsEmpty() {
		t.Fatal("intersection mesh is empty")
	}
	if min, _, _ := mesh.Bounds(); min[0] < 49 {
		t.Errorf("intersection starts at x=%f, expected ~50", min[0])
	}
}

func TestTransforms(t *testing.T) {
	k := New(testCells)
	translated := k.Translate(k.Box(10, 10, 10), 100, 200, 300)
	expectExtents(t, translated, [3]float64{100, 200, 300}, [3]float64{110, 210, 310}, 0.01)

	// A long box along X rotated 90 degrees around Z extends along Y instead.
	rotated := k.Rotate(k.Box(100, 10, 10), 0, 0, 90)
	min, max := rotated.BoundingBox()
	if xExtent := max[0] - min[0]; math.Abs(xExtent-10) > 1.0 {
		t.Errorf("rotated X extent = %f, expected ~10", xExtent)
	}
	if yExtent := max[1] - min[1]; math.Abs(yExtent-100) > 1.0 {
		t.Errorf("rotated Y extent = %f, expected ~100", yExtent)
	}

	scaled := k.Scale(k.Sphere(1), 3, 3, 3)
	expectExtents(t, scaled, [3]float64{-3, -3, -3}, [3]float64{3, 3, 3}, 0.01)

	stretched := k.Scale(k.Box(1, 1, 1), 2, 1, 4)
	expectExtents(t, stretched, [3]float64{0, 0, 0}, [3]float64{2, 1, 4}, 0.01)
}

func TestScaleZeroPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Scale with a zero factor did not panic")
		}
	}()
	New(testCells).Scale(New(testCells).Box(1, 1, 1), 1, 0, 1)
}
