// Package csg implements constructive solid geometry over convex planar
// polygons using binary space partitioning trees.
//
// A solid is a flat list of outward-facing polygons. Union, Difference and
// Intersect build a BSP tree per operand, clip each tree against the other
// and flatten the result back into a polygon list, which can be fed into the
// next operation or fan-triangulated into facets for export.
//
// Every value in this package is immutable. Operations allocate new polygons
// and trees instead of mutating their inputs, so independent operations may
// run concurrently without coordination.
package csg
