package graph

import (
	"fmt"
	"math"
)

// validateGeometry runs the geometric checks.
// Returns errors (blocking) and warnings (advisory) separately.
func validateGeometry(g *DesignGraph) ([]ValidationError, []ValidationWarning) {
	var errs []ValidationError
	var warnings []ValidationWarning

	errs = append(errs, validatePositiveDimensions(g)...)
	errs = append(errs, validateScale(g)...)
	warnings = append(warnings, validateNoOpBooleans(g)...)
	warnings = append(warnings, validateSegments(g)...)
	return errs, warnings
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

// validatePositiveDimensions checks that every primitive has positive,
// finite sizes.
func validatePositiveDimensions(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	report := func(n *Node, what string, v float64) {
		errs = append(errs, ValidationError{
			NodeID:   n.ID,
			Message:  fmt.Sprintf("%s is %.4f, must be positive", what, v),
			Severity: SeverityError,
		})
	}

	for _, node := range g.Nodes {
		switch d := node.Data.(type) {
		case BoxData:
			for axis, v := range map[string]float64{"X": d.Size.X, "Y": d.Size.Y, "Z": d.Size.Z} {
				if !positive(v) {
					report(node, "box dimension "+axis, v)
				}
			}
		case CylinderData:
			if !positive(d.Height) {
				report(node, "cylinder height", d.Height)
			}
			if !positive(d.Radius) {
				report(node, "cylinder radius", d.Radius)
			}
		case SphereData:
			if !positive(d.Radius) {
				report(node, "sphere radius", d.Radius)
			}
		}
	}
	return errs
}

// validateScale rejects scale factors of zero, which flatten the solid.
func validateScale(g *DesignGraph) []ValidationError {
	var errs []ValidationError
	for _, node := range g.Nodes {
		td, ok := node.Data.(TransformData)
		if !ok || td.Scale == nil {
			continue
		}
		if td.Scale.X == 0 || td.Scale.Y == 0 || td.Scale.Z == 0 {
			errs = append(errs, ValidationError{
				NodeID:   node.ID,
				Message:  fmt.Sprintf("scale (%g, %g, %g) has a zero factor", td.Scale.X, td.Scale.Y, td.Scale.Z),
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateNoOpBooleans warns about booleans with a single operand, which
// return that operand unchanged.
func validateNoOpBooleans(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning
	for _, node := range g.Nodes {
		bd, ok := node.Data.(BooleanData)
		if !ok || len(node.Children) != 1 {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: fmt.Sprintf("%s with a single operand has no effect", bd.Op),
		})
	}
	return warnings
}

// validateSegments warns about cylinders with too few sides to be solid;
// the kernel raises them to 3.
func validateSegments(g *DesignGraph) []ValidationWarning {
	var warnings []ValidationWarning
	for _, node := range g.Nodes {
		cd, ok := node.Data.(CylinderData)
		if !ok || cd.Segments == 0 || cd.Segments >= 3 {
			continue
		}
		warnings = append(warnings, ValidationWarning{
			NodeID:  node.ID,
			Message: fmt.Sprintf("cylinder with %d segments will use the kernel default", cd.Segments),
		})
	}
	return warnings
}
