package motionplan

import (
	"github.com/dgsim/anytimerrt/spatialmath"
)

// Node is a vertex of the planner's search tree. Its path holds the poses
// of the incoming edge, from the parent's pose to the node's own pose
// inclusive, sampled at the planner's path resolution. Nodes are owned by
// a Tree and referenced by id; the parent reference is a non-owning lookup
// into the same tree.
type Node struct {
	id     int
	pose   spatialmath.Pose
	path   []spatialmath.Pose
	cost   float64
	parent *Node
}

// NewNode creates a detached node; it joins a tree via Tree.Insert.
func NewNode(id int, pose spatialmath.Pose, path []spatialmath.Pose, cost float64) *Node {
	return &Node{id: id, pose: pose, path: path, cost: cost}
}

// ID returns the node's unique id within its tree.
func (n *Node) ID() int {
	return n.id
}

// Pose returns the node's pose.
func (n *Node) Pose() spatialmath.Pose {
	return n.pose
}

// Path returns the poses of the edge from the parent to this node,
// inclusive of both endpoints.
func (n *Node) Path() []spatialmath.Pose {
	return n.path
}

// Cost returns the arc length of the path from the tree root to this node.
func (n *Node) Cost() float64 {
	return n.cost
}

// Parent returns the parent node, or nil for the root.
func (n *Node) Parent() *Node {
	return n.parent
}
