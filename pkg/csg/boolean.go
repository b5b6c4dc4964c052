package csg

// Union returns the boundary of the region inside a or b.
func Union(a, b []Polygon) []Polygon {
	na := NewNode(a)
	nb := NewNode(b)
	na = na.ClipTo(nb)
	nb = nb.ClipTo(na)
	nb = nb.Invert().ClipTo(na).Invert()
	na = na.Build(nb.AllPolygons())
	return na.AllPolygons()
}

// Difference returns the boundary of the region inside a but not b.
func Difference(a, b []Polygon) []Polygon {
	if len(a) == 0 {
		return nil
	}
	na := NewNode(a).Invert()
	nb := NewNode(b)
	na = na.ClipTo(nb)
	nb = nb.ClipTo(na)
	nb = nb.Invert().ClipTo(na).Invert()
	na = na.Build(nb.AllPolygons())
	return na.Invert().AllPolygons()
}

// Intersect returns the boundary of the region inside both a and b.
func Intersect(a, b []Polygon) []Polygon {
	// An empty tree cannot represent "everywhere", so its inverse would
	// wrongly keep the other operand.
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	na := NewNode(a).Invert()
	nb := NewNode(b)
	nb = nb.ClipTo(na)
	nb = nb.Invert()
	na = na.ClipTo(nb)
	nb = nb.ClipTo(na)
	na = na.Build(nb.AllPolygons())
	return na.Invert().AllPolygons()
}

// UnionAll unions solids left to right.
func UnionAll(solids ...[]Polygon) []Polygon {
	if len(solids) == 0 {
		return nil
	}
	result := solids[0]
	for _, s := range solids[1:] {
		result = Union(result, s)
	}
	return result
}

// IntersectAll intersects solids left to right.
func IntersectAll(solids ...[]Polygon) []Polygon {
	if len(solids) == 0 {
		return nil
	}
	result := solids[0]
	for _, s := range solids[1:] {
		result = Intersect(result, s)
	}
	return result
}

// DifferenceAll subtracts every solid in rest from first, left to right.
func DifferenceAll(first []Polygon, rest ...[]Polygon) []Polygon {
	result := first
	for _, s := range rest {
		result = Difference(result, s)
	}
	return result
}
