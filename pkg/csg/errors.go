package csg

import (
	"errors"
	"fmt"
)

// ErrConstruction is the root of every polygon construction failure.
var ErrConstruction = errors.New("csg: invalid polygon")

var (
	// ErrTooFewVertices is returned for polygons with fewer than 3 vertices.
	ErrTooFewVertices = fmt.Errorf("%w: fewer than 3 vertices", ErrConstruction)
	// ErrDegenerate is returned when the first three vertices are (nearly)
	// collinear and no plane can be fitted through them.
	ErrDegenerate = fmt.Errorf("%w: degenerate plane", ErrConstruction)
	// ErrNotPlanar is returned when a vertex lies farther than Epsilon from
	// the fitted plane.
	ErrNotPlanar = fmt.Errorf("%w: vertex off plane", ErrConstruction)
)

// ConstructionError reports which vertex made a polygon invalid.
type ConstructionError struct {
	Index    int     // offending vertex index, or the vertex count
	Distance float64 // signed distance from the fitted plane, if relevant
	Err      error
}

func (e *ConstructionError) Error() string {
	if errors.Is(e.Err, ErrNotPlanar) {
		return fmt.Sprintf("%v: vertex %d at distance %g", e.Err, e.Index, e.Distance)
	}
	return fmt.Sprintf("%v (vertex %d)", e.Err, e.Index)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
