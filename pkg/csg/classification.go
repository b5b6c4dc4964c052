package csg

// Classification describes which side of a plane a point or polygon is on.
//
// The values are bit flags so that combining classifications is a bitwise OR:
// Coplanar is the identity, equal classes are idempotent and Front combined
// with Back yields Spanning.
type Classification uint8

const (
	Coplanar Classification = 0
	Front    Classification = 1
	Back     Classification = 2
	Spanning Classification = Front | Back
)

// Combine folds two classifications into the classification of their union.
// It is commutative and associative.
func (c Classification) Combine(o Classification) Classification {
	return c | o
}

func (c Classification) String() string {
	switch c {
	case Coplanar:
		return "coplanar"
	case Front:
		return "front"
	case Back:
		return "back"
	case Spanning:
		return "spanning"
	default:
		return "unknown"
	}
}
