// Package export writes meshes to STL files and to JSON scenes for viewers.
package export

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

// ErrIndexOutOfRange is returned when a triangle references a vertex the
// mesh does not have.
var ErrIndexOutOfRange = errors.New("export: triangle index out of range")

// facet is one triangle ready for output together with its normal.
type facet struct {
	tri    sdf.Triangle3
	normal v3.Vec
}

// facets collects the triangles of all meshes, failing on bad indices.
// A mesh that carries per-vertex normals supplies the facet normal from
// its first vertex; otherwise the normal comes from the winding.
func facets(meshes []*kernel.Mesh) ([]facet, error) {
	var out []facet
	for _, m := range meshes {
		if m == nil {
			continue
		}
		n := m.VertexCount()
		if len(m.Indices)%3 != 0 {
			return nil, fmt.Errorf("export: part %q: %d indices is not a whole number of triangles", m.PartName, len(m.Indices))
		}
		withNormals := len(m.Normals) == len(m.Vertices)
		for i := 0; i < len(m.Indices); i += 3 {
			var f facet
			for j := 0; j < 3; j++ {
				idx := int(m.Indices[i+j])
				if idx >= n {
					return nil, fmt.Errorf("%w: part %q triangle %d uses vertex %d of %d", ErrIndexOutOfRange, m.PartName, i/3, idx, n)
				}
				p := m.Vertex(idx)
				f.tri[j] = v3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
			}
			if withNormals {
				k := int(m.Indices[i]) * 3
				f.normal = v3.Vec{X: float64(m.Normals[k]), Y: float64(m.Normals[k+1]), Z: float64(m.Normals[k+2])}
			} else {
				f.normal = windingNormal(&f.tri)
			}
			out = append(out, f)
		}
	}
	return out, nil
}

// windingNormal returns the triangle's normal, or zero when it has no area.
func windingNormal(t *sdf.Triangle3) v3.Vec {
	n := t.Normal()
	if math.IsNaN(n.X) || math.IsNaN(n.Y) || math.IsNaN(n.Z) {
		return v3.Vec{}
	}
	return n
}

func vec32(v v3.Vec) [3]float32 {
	return [3]float32{float32(v.X), float32(v.Y), float32(v.Z)}
}

// WriteSTL writes meshes as a single binary STL solid using the sdfx
// record layout. The header is left blank, as sdfx does.
func WriteSTL(w io.Writer, meshes ...*kernel.Mesh) error {
	fs, err := facets(meshes)
	if err != nil {
		return err
	}
	if uint64(len(fs)) > math.MaxUint32 {
		return fmt.Errorf("export: %d triangles do not fit a binary STL", len(fs))
	}

	bw := bufio.NewWriter(w)
	header := render.STLHeader{Count: uint32(len(fs))}
	if err := binary.Write(bw, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("export: write header: %w", err)
	}
	var d render.STLTriangle
	for _, f := range fs {
		d.Normal = vec32(f.normal)
		d.Vertex1 = vec32(f.tri[0])
		d.Vertex2 = vec32(f.tri[1])
		d.Vertex3 = vec32(f.tri[2])
		if err := binary.Write(bw, binary.LittleEndian, &d); err != nil {
			return fmt.Errorf("export: write triangle: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// WriteASCIISTL writes meshes as a single ASCII STL solid named name.
func WriteASCIISTL(w io.Writer, name string, meshes ...*kernel.Mesh) error {
	fs, err := facets(meshes)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "solid %s\n", name)
	for _, f := range fs {
		n := vec32(f.normal)
		fmt.Fprintf(bw, "  facet normal %g %g %g\n", n[0], n[1], n[2])
		fmt.Fprintf(bw, "    outer loop\n")
		for _, v := range f.tri {
			p := vec32(v)
			fmt.Fprintf(bw, "      vertex %g %g %g\n", p[0], p[1], p[2])
		}
		fmt.Fprintf(bw, "    endloop\n")
		fmt.Fprintf(bw, "  endfacet\n")
	}
	fmt.Fprintf(bw, "endsolid %s\n", name)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	return nil
}

// SaveSTL writes meshes to a binary STL file at path.
func SaveSTL(path string, meshes ...*kernel.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = WriteSTL(f, meshes...)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
