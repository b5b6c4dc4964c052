// Package tessellate walks a design graph and produces triangle meshes
// using a geometry kernel. One mesh is produced per part.
package tessellate

import (
	"fmt"
	"math"

	"github.com/printingin3d/javascad-sub000/internal/logging"
	"github.com/printingin3d/javascad-sub000/pkg/graph"
	"github.com/printingin3d/javascad-sub000/pkg/kernel"
)

// DefaultBoundsTolerance is the default slack, relative to the size of a
// part, allowed between a mesh and the bounds its solid declares.
const DefaultBoundsTolerance = 1e-5

// Option configures a tessellation run.
type Option func(*options)

type options struct {
	boundsTolerance float64
}

// WithBoundsTolerance sets the relative bounds tolerance. Sampling kernels
// such as sdfx need a tolerance of about one mesh cell.
func WithBoundsTolerance(tol float64) Option {
	return func(o *options) {
		if tol > 0 {
			o.boundsTolerance = tol
		}
	}
}

// walker builds kernel solids for graph nodes. Shared subtrees are built
// once per run.
type walker struct {
	g      *graph.DesignGraph
	k      kernel.Kernel
	solids map[graph.NodeID]kernel.Solid
}

// Tessellate walks the design graph and produces one triangle mesh per
// root using the provided geometry kernel. The tessellator is read-only
// and never mutates the graph.
//
// Every mesh is checked against the bounding box its solid declares; a
// vertex outside it fails the whole run with kernel.ErrOutOfBounds.
func Tessellate(g *graph.DesignGraph, k kernel.Kernel, opts ...Option) (meshes []*kernel.Mesh, err error) {
	if g == nil {
		return nil, nil
	}
	o := options{boundsTolerance: DefaultBoundsTolerance}
	for _, opt := range opts {
		opt(&o)
	}

	// Kernels panic on input they cannot represent.
	defer func() {
		if r := recover(); r != nil {
			meshes, err = nil, fmt.Errorf("tessellate: kernel panic: %v", r)
		}
	}()

	w := &walker{g: g, k: k, solids: make(map[graph.NodeID]kernel.Solid)}
	for _, root := range g.Parts() {
		mesh, err := w.part(root, o.boundsTolerance)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, mesh)
	}
	return meshes, nil
}

// part meshes a single root and names the mesh after it.
func (w *walker) part(root *graph.Node, tol float64) (*kernel.Mesh, error) {
	name := root.Name
	if name == "" {
		name = root.ID.Short()
	}

	solid, err := w.solid(root)
	if err != nil {
		return nil, fmt.Errorf("tessellate: part %q: %w", name, err)
	}
	mesh, err := w.k.ToMesh(solid)
	if err != nil {
		return nil, fmt.Errorf("tessellate: part %q: %w", name, err)
	}

	min, max := solid.BoundingBox()
	if err := kernel.CheckBounds(mesh, min, max, tol*extent(min, max)); err != nil {
		return nil, fmt.Errorf("tessellate: part %q: %w", name, err)
	}

	mesh.PartName = name
	logging.Logger().Debug("meshed part",
		"part", name,
		"vertices", mesh.VertexCount(),
		"triangles", mesh.TriangleCount())
	return mesh, nil
}

// extent is the largest absolute coordinate of a box, at least 1.
func extent(min, max [3]float64) float64 {
	e := 1.0
	for i := 0; i < 3; i++ {
		e = math.Max(e, math.Max(math.Abs(min[i]), math.Abs(max[i])))
	}
	return e
}

// solid returns the kernel solid for n.
func (w *walker) solid(n *graph.Node) (kernel.Solid, error) {
	if s, ok := w.solids[n.ID]; ok {
		return s, nil
	}

	var (
		s   kernel.Solid
		err error
	)
	switch n.Kind {
	case graph.NodePrimitive:
		s, err = w.primitive(n)
	case graph.NodeTransform:
		s, err = w.transform(n)
	case graph.NodeBoolean:
		s, err = w.boolean(n)
	case graph.NodeGroup:
		s, err = w.reduce(n, w.k.Union)
	default:
		err = fmt.Errorf("unknown node kind: %v", n.Kind)
	}
	if err != nil {
		return nil, err
	}
	if f, ok := s.(failedSolid); ok {
		if err := f.Err(); err != nil {
			return nil, fmt.Errorf("%s node %s: %w", n.Kind, n.ID.Short(), err)
		}
	}
	w.solids[n.ID] = s
	return s, nil
}

// failedSolid is implemented by solids that record construction errors
// instead of failing at ToMesh time only.
type failedSolid interface {
	Err() error
}

// primitive creates geometry for a primitive node.
func (w *walker) primitive(n *graph.Node) (kernel.Solid, error) {
	switch data := n.Data.(type) {
	case graph.BoxData:
		return w.k.Box(data.Size.X, data.Size.Y, data.Size.Z), nil
	case graph.CylinderData:
		return w.k.Cylinder(data.Height, data.Radius, data.Segments), nil
	case graph.SphereData:
		return w.k.Sphere(data.Radius), nil
	}
	return nil, fmt.Errorf("primitive node %s has unsupported data type %T", n.ID.Short(), n.Data)
}

// transform applies scale, then rotation, then translation to the child.
func (w *walker) transform(n *graph.Node) (kernel.Solid, error) {
	td, ok := n.Data.(graph.TransformData)
	if !ok {
		return nil, fmt.Errorf("transform node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	if len(n.Children) != 1 {
		return nil, fmt.Errorf("transform node %s has %d children, want 1", n.ID.Short(), len(n.Children))
	}
	child := w.g.Get(n.Children[0])
	if child == nil {
		return nil, fmt.Errorf("transform node %s: missing child %s", n.ID.Short(), n.Children[0].Short())
	}
	s, err := w.solid(child)
	if err != nil {
		return nil, err
	}
	if v := td.Scale; v != nil {
		s = w.k.Scale(s, v.X, v.Y, v.Z)
	}
	if v := td.Rotation; v != nil && (v.X != 0 || v.Y != 0 || v.Z != 0) {
		s = w.k.Rotate(s, v.X, v.Y, v.Z)
	}
	if v := td.Translation; v != nil && (v.X != 0 || v.Y != 0 || v.Z != 0) {
		s = w.k.Translate(s, v.X, v.Y, v.Z)
	}
	return s, nil
}

// boolean folds the children left to right with the node's operation.
func (w *walker) boolean(n *graph.Node) (kernel.Solid, error) {
	bd, ok := n.Data.(graph.BooleanData)
	if !ok {
		return nil, fmt.Errorf("boolean node %s has unexpected data type %T", n.ID.Short(), n.Data)
	}
	switch bd.Op {
	case graph.OpUnion:
		return w.reduce(n, w.k.Union)
	case graph.OpDifference:
		return w.reduce(n, w.k.Difference)
	case graph.OpIntersection:
		return w.reduce(n, w.k.Intersection)
	}
	return nil, fmt.Errorf("boolean node %s: unknown operation %v", n.ID.Short(), bd.Op)
}

// reduce combines the solids of n's children left to right.
func (w *walker) reduce(n *graph.Node, op func(a, b kernel.Solid) kernel.Solid) (kernel.Solid, error) {
	children := w.g.Children(n)
	if len(children) == 0 {
		return nil, fmt.Errorf("%s node %s has no children", n.Kind, n.ID.Short())
	}
	acc, err := w.solid(children[0])
	if err != nil {
		return nil, err
	}
	for _, c := range children[1:] {
		s, err := w.solid(c)
		if err != nil {
			return nil, err
		}
		acc = op(acc, s)
	}
	return acc, nil
}
