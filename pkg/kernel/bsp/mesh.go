package bsp

import (
	"fmt"
	"math"

	"github.com/printingin3d/javascad-sub000/pkg/csg"
	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

// vertexKey identifies a mesh vertex. Vertices are shared between triangles
// only when both position and normal agree after conversion to float32,
// so flat faces keep hard edges.
type vertexKey struct {
	px, py, pz float32
	nx, ny, nz float32
}

// ToIndexed fan-triangulates polygons into an indexed mesh.
func ToIndexed(polygons []csg.Polygon) *kernel.Mesh {
	facets := csg.FacetsOf(polygons)
	mesh := &kernel.Mesh{
		Vertices: make([]float32, 0, len(facets)*3),
		Normals:  make([]float32, 0, len(facets)*3),
		Indices:  make([]uint32, 0, len(facets)*3),
	}
	seen := make(map[vertexKey]uint32, len(facets))
	for _, f := range facets {
		nx, ny, nz := float32(f.Normal.X), float32(f.Normal.Y), float32(f.Normal.Z)
		for _, v := range f.Triangle {
			key := vertexKey{float32(v.X), float32(v.Y), float32(v.Z), nx, ny, nz}
			idx, ok := seen[key]
			if !ok {
				idx = uint32(len(mesh.Vertices) / 3)
				seen[key] = idx
				mesh.Vertices = append(mesh.Vertices, key.px, key.py, key.pz)
				mesh.Normals = append(mesh.Normals, nx, ny, nz)
			}
			mesh.Indices = append(mesh.Indices, idx)
		}
	}
	return mesh
}

// ToMesh triangulates the solid and checks the result against its declared
// bounding box.
func (k *Kernel) ToMesh(s kernel.Solid) (*kernel.Mesh, error) {
	src := unwrap(s)
	if src.err != nil {
		return nil, src.err
	}
	mesh := ToIndexed(src.polygons)

	min, max := src.BoundingBox()
	scale := 1.0
	for i := 0; i < 3; i++ {
		scale = math.Max(scale, math.Max(math.Abs(min[i]), math.Abs(max[i])))
	}
	if err := kernel.CheckBounds(mesh, min, max, k.opts.tolerance*scale); err != nil {
		return nil, fmt.Errorf("bsp: %w", err)
	}
	return mesh, nil
}
