package csg

import (
	"slices"
)

// Node is a BSP tree over polygons. Each node owns the polygons lying on its
// splitting plane and at most one front and one back subtree.
//
// Nodes are immutable: Build, Invert and ClipTo return new trees and never
// touch the receiver. A nil *Node is a valid empty tree.
//
// A node keeps its plane after ClipTo removes all of its polygons, so
// later clipping and building still partition space the same way.
//
// Traversals use explicit work stacks, so tree depth is bounded only by
// memory, not by the goroutine stack.
type Node struct {
	plane    Plane
	hasPlane bool
	polygons []Polygon
	front    *Node
	back     *Node
}

// NewNode builds a tree from polygons. It returns nil for an empty list.
func NewNode(polygons []Polygon) *Node {
	var n *Node
	return n.Build(polygons)
}

// Plane returns the node's splitting plane and whether it has one.
func (n *Node) Plane() (Plane, bool) {
	if n == nil {
		return Plane{}, false
	}
	return n.plane, n.hasPlane
}

// Polygons returns a copy of the polygons owned directly by this node.
func (n *Node) Polygons() []Polygon {
	if n == nil {
		return nil
	}
	return slices.Clone(n.polygons)
}

// Front returns the front subtree, or nil.
func (n *Node) Front() *Node {
	if n == nil {
		return nil
	}
	return n.front
}

// Back returns the back subtree, or nil.
func (n *Node) Back() *Node {
	if n == nil {
		return nil
	}
	return n.back
}

type buildJob struct {
	node     *Node
	polygons []Polygon
}

// Build returns a new tree holding the receiver's polygons plus polygons.
// Incoming polygons are split by the node's plane, or by the first of them
// if the node has none yet; coplanar ones stay at the node and the rest are
// pushed into the front and back subtrees, which are created on demand.
func (n *Node) Build(polygons []Polygon) *Node {
	root := n.clone()
	if len(polygons) == 0 {
		return root
	}
	if root == nil {
		root = &Node{}
	}

	stack := []buildJob{{root, polygons}}
	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := job.node
		if !node.hasPlane {
			node.plane = job.polygons[0].plane
			node.hasPlane = true
		}
		var out FrontBack
		for _, p := range job.polygons {
			node.plane.SplitPolygon(p, &node.polygons, &out)
		}
		if len(out.Back) > 0 {
			if node.back == nil {
				node.back = &Node{}
			}
			stack = append(stack, buildJob{node.back, out.Back})
		}
		if len(out.Front) > 0 {
			if node.front == nil {
				node.front = &Node{}
			}
			stack = append(stack, buildJob{node.front, out.Front})
		}
	}
	return root
}

// Invert returns the complement of the solid: every polygon and plane is
// flipped and the front and back subtrees trade places at every level.
func (n *Node) Invert() *Node {
	root := n.clone()
	root.walk(func(node *Node) {
		for i, p := range node.polygons {
			node.polygons[i] = p.Flip()
		}
		node.plane = node.plane.Flip()
		node.front, node.back = node.back, node.front
	})
	return root
}

// ClipPolygons removes the parts of polygons that lie inside the solid
// represented by this tree. Fragments reaching a missing front subtree are
// outside and kept; fragments reaching a missing back subtree are inside
// and dropped. Output order is front results before back results at every
// level.
func (n *Node) ClipPolygons(polygons []Polygon) []Polygon {
	if n == nil || !n.hasPlane {
		return slices.Clone(polygons)
	}

	var result []Polygon
	stack := []buildJob{{n, polygons}}
	for len(stack) > 0 {
		job := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var out FrontBack
		for _, p := range job.polygons {
			job.node.plane.SplitPolygonOriented(p, &out)
		}
		// Back is pushed first so the whole front subtree is emitted before it.
		if job.node.back != nil && len(out.Back) > 0 {
			stack = append(stack, buildJob{job.node.back, out.Back})
		}
		if len(out.Front) > 0 {
			if job.node.front != nil {
				stack = append(stack, buildJob{job.node.front, out.Front})
			} else {
				result = append(result, out.Front...)
			}
		}
	}
	return result
}

// ClipTo returns a tree of the same shape whose polygons have been clipped
// by other at every level.
func (n *Node) ClipTo(other *Node) *Node {
	root := n.clone()
	root.walk(func(node *Node) {
		node.polygons = other.ClipPolygons(node.polygons)
	})
	return root
}

// AllPolygons flattens the tree: own polygons, then the front subtree, then
// the back subtree.
func (n *Node) AllPolygons() []Polygon {
	var result []Polygon
	n.walk(func(node *Node) {
		result = append(result, node.polygons...)
	})
	return result
}

// Len returns the total number of polygons in the tree.
func (n *Node) Len() int {
	count := 0
	n.walk(func(node *Node) {
		count += len(node.polygons)
	})
	return count
}

// Depth returns the number of levels in the tree.
func (n *Node) Depth() int {
	if n == nil {
		return 0
	}
	type level struct {
		node  *Node
		depth int
	}
	deepest := 0
	stack := []level{{n, 1}}
	for len(stack) > 0 {
		l := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if l.depth > deepest {
			deepest = l.depth
		}
		if l.node.back != nil {
			stack = append(stack, level{l.node.back, l.depth + 1})
		}
		if l.node.front != nil {
			stack = append(stack, level{l.node.front, l.depth + 1})
		}
	}
	return deepest
}

// walk visits the tree in pre-order, front before back. fn may swap a
// node's children; the swapped children are the ones descended into.
func (n *Node) walk(fn func(*Node)) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		fn(node)
		if node.back != nil {
			stack = append(stack, node.back)
		}
		if node.front != nil {
			stack = append(stack, node.front)
		}
	}
}

// clone deep-copies the tree structure. Polygons are immutable values and
// are shared; the slices holding them are not.
func (n *Node) clone() *Node {
	if n == nil {
		return nil
	}
	root := n.shallowCopy()
	stack := []*Node{root}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node.front != nil {
			node.front = node.front.shallowCopy()
			stack = append(stack, node.front)
		}
		if node.back != nil {
			node.back = node.back.shallowCopy()
			stack = append(stack, node.back)
		}
	}
	return root
}

func (n *Node) shallowCopy() *Node {
	return &Node{
		plane:    n.plane,
		hasPlane: n.hasPlane,
		polygons: slices.Clone(n.polygons),
		front:    n.front,
		back:     n.back,
	}
}
