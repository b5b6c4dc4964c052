// Package bsp implements the kernel.Kernel interface on top of the BSP-tree
// polygon booleans in package csg.
//
// A solid is a list of outward-wound polygons plus the bounding box it is
// declared to occupy. The declared box is derived structurally from the
// operations that produced the solid, not measured from its polygons, so
// ToMesh can verify that no boolean or transform leaked geometry outside
// of it.
package bsp

import (
	"errors"
	"fmt"
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/printingin3d/javascad-sub000/pkg/csg"
	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

// Compile-time interface check.
var _ kernel.Kernel = (*Kernel)(nil)

var (
	// ErrInvalidDimension is reported for non-positive primitive sizes.
	ErrInvalidDimension = errors.New("bsp: dimensions must be positive")
	// ErrForeignSolid is reported when a solid from another kernel is passed in.
	ErrForeignSolid = errors.New("bsp: solid was not created by this kernel")
)

// Solid is a polygon soup with a declared bounding box. Errors raised while
// building it are kept and reported by ToMesh, mirroring how the kernel
// interface has no error return on construction.
type Solid struct {
	polygons []csg.Polygon
	box      sdf.Box3
	err      error
}

// BoundingBox returns the declared bounding box.
func (s *Solid) BoundingBox() (min, max [3]float64) {
	min = [3]float64{s.box.Min.X, s.box.Min.Y, s.box.Min.Z}
	max = [3]float64{s.box.Max.X, s.box.Max.Y, s.box.Max.Z}
	return min, max
}

// Polygons returns the solid's polygons, or the first error recorded while
// building it.
func (s *Solid) Polygons() ([]csg.Polygon, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.polygons, nil
}

// Err returns the first error recorded while building the solid.
func (s *Solid) Err() error {
	return s.err
}

// FromPolygons wraps an existing polygon list. The declared box is the
// measured bounds of the polygons.
func FromPolygons(polygons []csg.Polygon) *Solid {
	box, _ := csg.Bounds(polygons)
	return &Solid{polygons: polygons, box: box}
}

func failed(err error) *Solid {
	return &Solid{err: err}
}

// Kernel implements kernel.Kernel with BSP-tree booleans.
type Kernel struct {
	opts options
}

// New returns a Kernel configured by opts.
func New(opts ...Option) *Kernel {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Kernel{opts: o}
}

func unwrap(s kernel.Solid) *Solid {
	if b, ok := s.(*Solid); ok && b != nil {
		return b
	}
	return failed(fmt.Errorf("%w: %T", ErrForeignSolid, s))
}

func positive(name string, values ...float64) error {
	for _, v := range values {
		if !(v > 0) || math.IsInf(v, 1) {
			return fmt.Errorf("%w: %s %v", ErrInvalidDimension, name, values)
		}
	}
	return nil
}

// Box creates a box with its minimum corner at the origin, matching the
// sdfx backend.
func (k *Kernel) Box(x, y, z float64) kernel.Solid {
	if err := positive("box", x, y, z); err != nil {
		return failed(err)
	}
	size := v3.Vec{X: x, Y: y, Z: z}
	return &Solid{
		polygons: csg.Box(v3.Vec{}, size, k.opts.color),
		box:      sdf.Box3{Min: v3.Vec{}, Max: size},
	}
}

// Cylinder creates a cylinder along Z centered at the origin. A segments
// value below 3 selects the kernel's default.
func (k *Kernel) Cylinder(height, radius float64, segments int) kernel.Solid {
	if err := positive("cylinder", height, radius); err != nil {
		return failed(err)
	}
	if segments < 3 {
		segments = k.opts.segments
	}
	h := height / 2
	return &Solid{
		polygons: csg.Cylinder(height, radius, segments, k.opts.color),
		box: sdf.Box3{
			Min: v3.Vec{X: -radius, Y: -radius, Z: -h},
			Max: v3.Vec{X: radius, Y: radius, Z: h},
		},
	}
}

// Sphere creates a UV sphere centered at the origin.
func (k *Kernel) Sphere(radius float64) kernel.Solid {
	if err := positive("sphere", radius); err != nil {
		return failed(err)
	}
	r := v3.Vec{X: radius, Y: radius, Z: radius}
	return &Solid{
		polygons: csg.Sphere(radius, k.opts.slices, k.opts.stacks, k.opts.color),
		box:      sdf.Box3{Min: r.Neg(), Max: r},
	}
}

func combine(a, b kernel.Solid, op func(x, y []csg.Polygon) []csg.Polygon, box func(x, y *Solid) sdf.Box3) kernel.Solid {
	sa, sb := unwrap(a), unwrap(b)
	if sa.err != nil {
		return sa
	}
	if sb.err != nil {
		return sb
	}
	return &Solid{polygons: op(sa.polygons, sb.polygons), box: box(sa, sb)}
}

// Union returns the union of two solids.
func (k *Kernel) Union(a, b kernel.Solid) kernel.Solid {
	return combine(a, b, csg.Union, func(x, y *Solid) sdf.Box3 {
		switch {
		case len(x.polygons) == 0:
			return y.box
		case len(y.polygons) == 0:
			return x.box
		}
		return sdf.Box3{Min: x.box.Min.Min(y.box.Min), Max: x.box.Max.Max(y.box.Max)}
	})
}

// Difference returns the difference a - b. The result never leaves a's box.
func (k *Kernel) Difference(a, b kernel.Solid) kernel.Solid {
	return combine(a, b, csg.Difference, func(x, _ *Solid) sdf.Box3 {
		return x.box
	})
}

// Intersection returns the intersection of two solids. Disjoint boxes
// collapse to a degenerate box at a's minimum corner.
func (k *Kernel) Intersection(a, b kernel.Solid) kernel.Solid {
	return combine(a, b, csg.Intersect, func(x, y *Solid) sdf.Box3 {
		box := sdf.Box3{Min: x.box.Min.Max(y.box.Min), Max: x.box.Max.Min(y.box.Max)}
		if box.Min.X > box.Max.X || box.Min.Y > box.Max.Y || box.Min.Z > box.Max.Z {
			return sdf.Box3{Min: x.box.Min, Max: x.box.Min}
		}
		return box
	})
}

func (k *Kernel) transform(s kernel.Solid, m csg.Matrix) kernel.Solid {
	src := unwrap(s)
	if src.err != nil {
		return src
	}
	polygons, err := csg.TransformAll(src.polygons, m)
	if err != nil {
		return failed(fmt.Errorf("bsp: transform: %w", err))
	}
	return &Solid{polygons: polygons, box: csg.TransformBox(src.box, m)}
}

// Translate moves a solid by (x, y, z).
func (k *Kernel) Translate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, csg.Translate(v3.Vec{X: x, Y: y, Z: z}))
}

// Rotate rotates a solid by Euler angles (degrees) around X, Y, Z axes.
func (k *Kernel) Rotate(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, csg.RotateEuler(x, y, z))
}

// Scale scales a solid about the origin. Negative factors mirror it; a
// zero factor collapses its faces and is reported as an error.
func (k *Kernel) Scale(s kernel.Solid, x, y, z float64) kernel.Solid {
	return k.transform(s, csg.Scale(v3.Vec{X: x, Y: y, Z: z}))
}
