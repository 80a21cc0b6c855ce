// Copyright 2022 Gustavo C. Viegas. All rights reserved.

// Package node provides the elements of the scene graph.
package node

import (
	"github.com/gviegas/backdrop/engine/material"
	"github.com/gviegas/backdrop/engine/mesh"
	"github.com/gviegas/backdrop/linear"
)

// Node represents a single node in a scene graph.
// Nodes have at most one immediate ancestor and
// an arbitrary number of immediate descendants.
type Node struct {
	next *Node
	prev *Node
	sub  *Node

	// Name for the node.
	// It is not used by node code.
	Name string

	// Local transform. Rotation holds Euler angles
	// (radians) applied in X, Y, Z order.
	Position linear.V3
	Rotation linear.V3
	Scale    linear.V3

	// Mesh and Material are optional. A node is drawn
	// only when both are set.
	Mesh     *mesh.Mesh
	Material *material.Material
}

// New creates an initialized node.
func New(name string) *Node { return new(Node).Init(name) }

// Init initializes node n.
func (n *Node) Init(name string) *Node {
	*n = Node{Name: name, Scale: linear.V3{1, 1, 1}}
	return n
}

// Drawable reports whether n has renderable content.
func (n *Node) Drawable() bool { return n.Mesh != nil && n.Material != nil }

// SetScale sets a uniform scale.
func (n *Node) SetScale(s float32) { n.Scale = linear.V3{s, s, s} }

// Local sets m to contain the local transform of n.
func (n *Node) Local(m *linear.M4) { m.TRS(&n.Position, &n.Rotation, &n.Scale) }

// Insert inserts node sub as immediate descendant
// of node n.
// sub must be either a descendant of n or part of
// an unrelated graph - it must not be an ancestor
// of node n.
func (n *Node) Insert(sub *Node) {
	sub.Remove()
	sub.next = n.sub
	sub.prev = n
	if n.sub != nil {
		n.sub.prev = sub
	}
	n.sub = sub
}

// Remove removes node n from its immediate ancestor.
func (n *Node) Remove() {
	// Node.prev is only nil when the node has no
	// ancestors, since the prev field of the first
	// immediate descendant refers to its ancestor.
	if n.prev != nil {
		if n.prev.sub == n {
			n.prev.sub = n.next
		} else {
			n.prev.next = n.next
		}
		if n.next != nil {
			n.next.prev = n.prev
		}
		n.prev = nil
		n.next = nil
	}
}

// Parent returns the immediate ancestor of n, or nil
// if n is a root.
func (n *Node) Parent() *Node {
	for x := n; x.prev != nil; x = x.prev {
		if x.prev.sub == x {
			return x.prev
		}
	}
	return nil
}

// Children returns the immediate descendants of n,
// most recently inserted first.
func (n *Node) Children() (s []*Node) {
	for x := n.sub; x != nil; x = x.next {
		s = append(s, x)
	}
	return
}

// Len returns the number of descendants of n.
func (n *Node) Len() (c int) {
	n.ForEach(func(*Node) { c++ })
	return
}

// ForEach calls f for each descendant of node n.
// Ancestors are processed first.
// The scene graph must not be changed until this
// method returns.
func (n *Node) ForEach(f func(*Node)) {
	n.Until(func(x *Node) bool {
		f(x)
		return true
	})
}

// Until calls f for each descendant of node n.
// Ancestors are processed first. If f returns false,
// Until returns immediately.
// The scene graph must not be changed until this
// method returns.
func (n *Node) Until(f func(*Node) bool) {
	if n.sub == nil {
		return
	}
	que := []*Node{n.sub}
	for len(que) > 0 {
		for nd := que[0]; nd != nil; nd = nd.next {
			if !f(nd) {
				return
			}
			if sub := nd.sub; sub != nil {
				que = append(que, sub)
			}
		}
		que = que[1:]
	}
}

// Walk calls f for each descendant of node n with its
// world transform, computed as world ⋅ local for each
// level of the hierarchy. n's own transform is not
// applied; world is n's world transform.
// The scene graph must not be changed until this
// method returns.
func (n *Node) Walk(world *linear.M4, f func(x *Node, world *linear.M4)) {
	for x := n.sub; x != nil; x = x.next {
		var m linear.M4
		x.Local(&m)
		m.Mul(world, &m)
		f(x, &m)
		x.Walk(&m, f)
	}
}
