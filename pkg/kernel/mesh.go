package kernel

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is returned when a mesh vertex lies outside the bounding
// box declared by the solid it was generated from.
var ErrOutOfBounds = errors.New("kernel: vertex outside declared bounds")

// Mesh is a triangle mesh suitable for rendering and export.
// All arrays are flat: vertices has 3 floats per vertex (x,y,z),
// normals has 3 floats per vertex, indices has 3 uint32s per triangle.
type Mesh struct {
	Vertices []float32 `json:"vertices"` // [x0,y0,z0, x1,y1,z1, ...]
	Normals  []float32 `json:"normals"`  // [nx0,ny0,nz0, ...]
	Indices  []uint32  `json:"indices"`  // [i0,i1,i2, ...] triangles
	PartName string    `json:"partName"` // which design graph part this came from
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// IsEmpty returns true if the mesh has no geometry.
func (m *Mesh) IsEmpty() bool {
	return len(m.Vertices) == 0
}

// Vertex returns the position of vertex i.
func (m *Mesh) Vertex(i int) [3]float32 {
	return [3]float32{m.Vertices[3*i], m.Vertices[3*i+1], m.Vertices[3*i+2]}
}

// Bounds returns the axis-aligned bounds of all vertices. ok is false for
// an empty mesh.
func (m *Mesh) Bounds() (min, max [3]float64, ok bool) {
	n := m.VertexCount()
	if n == 0 {
		return min, max, false
	}
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			c := float64(m.Vertices[3*i+j])
			if i == 0 || c < min[j] {
				min[j] = c
			}
			if i == 0 || c > max[j] {
				max[j] = c
			}
		}
	}
	return min, max, true
}

// CheckBounds verifies that every vertex of m lies inside the box min..max
// grown by tol on every side. It also rejects indices that reference
// missing vertices.
func CheckBounds(m *Mesh, min, max [3]float64, tol float64) error {
	n := m.VertexCount()
	for i := 0; i < n; i++ {
		for j := 0; j < 3; j++ {
			c := float64(m.Vertices[3*i+j])
			if c < min[j]-tol || c > max[j]+tol {
				v := m.Vertex(i)
				return fmt.Errorf("%w: vertex %d (%g, %g, %g) not in [%v, %v]", ErrOutOfBounds, i, v[0], v[1], v[2], min, max)
			}
		}
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("kernel: index %d references vertex %d of %d", i, idx, n)
		}
	}
	return nil
}
