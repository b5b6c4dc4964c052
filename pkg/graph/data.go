package graph

import (
	"fmt"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// ---------------------------------------------------------------------------
// Primitives
// ---------------------------------------------------------------------------

// PrimitiveKind distinguishes between primitive shapes.
type PrimitiveKind int

const (
	PrimBox PrimitiveKind = iota
	PrimCylinder
	PrimSphere
)

func (k PrimitiveKind) String() string {
	switch k {
	case PrimBox:
		return "box"
	case PrimCylinder:
		return "cylinder"
	case PrimSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// BoxData is an axis-aligned box with its minimum corner at the origin.
type BoxData struct {
	Size v3.Vec `json:"size"`
}

func (BoxData) nodeData() {}

// CylinderData is a cylinder along Z centered at the origin. Segments of
// zero selects the kernel default.
type CylinderData struct {
	Height   float64 `json:"height"`
	Radius   float64 `json:"radius"`
	Segments int     `json:"segments,omitempty"`
}

func (CylinderData) nodeData() {}

// SphereData is a sphere centered at the origin.
type SphereData struct {
	Radius float64 `json:"radius"`
}

func (SphereData) nodeData() {}

// ---------------------------------------------------------------------------
// Transform
// ---------------------------------------------------------------------------

// TransformData represents a spatial transformation applied to a single
// child. Set fields are applied in the order scale, rotation, translation.
type TransformData struct {
	Translation *v3.Vec `json:"translation,omitempty"`
	Rotation    *v3.Vec `json:"rotation,omitempty"` // Euler angles in degrees
	Scale       *v3.Vec `json:"scale,omitempty"`
}

func (TransformData) nodeData() {}

// ---------------------------------------------------------------------------
// Boolean
// ---------------------------------------------------------------------------

// BooleanOp enumerates the boolean operations.
type BooleanOp int

const (
	OpUnion BooleanOp = iota
	OpDifference
	OpIntersection
)

func (op BooleanOp) String() string {
	switch op {
	case OpUnion:
		return "union"
	case OpDifference:
		return "difference"
	case OpIntersection:
		return "intersection"
	default:
		return "unknown"
	}
}

// ParseBooleanOp maps an operation name to its BooleanOp.
func ParseBooleanOp(s string) (BooleanOp, error) {
	switch s {
	case "union":
		return OpUnion, nil
	case "difference":
		return OpDifference, nil
	case "intersection":
		return OpIntersection, nil
	}
	return 0, fmt.Errorf("graph: unknown boolean operation %q", s)
}

// BooleanData combines its children left to right: the first child is
// combined with the second, the result with the third, and so on.
type BooleanData struct {
	Op BooleanOp `json:"op"`
}

func (BooleanData) nodeData() {}

// ---------------------------------------------------------------------------
// Group
// ---------------------------------------------------------------------------

// GroupData represents a named part or an assembly of parts. The children
// of a group are unioned when it is meshed.
type GroupData struct {
	Description string `json:"description,omitempty"`
}

func (GroupData) nodeData() {}
