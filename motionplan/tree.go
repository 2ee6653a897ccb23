package motionplan

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dgsim/anytimerrt/spatialmath"
)

// Path is an ordered pose sequence from a tree root to a goal node, with
// its total arc length.
type Path struct {
	Poses  []spatialmath.Pose
	Length float64
}

// Tree is the arena owning every node of a planner, keyed by id. Parent
// and child relations are bookkept inside the arena, never as owning
// pointers, so subtrees can be pruned and re-rooted without dangling
// ownership. An insertion-ordered id list backs every scan, keeping
// nearest-neighbor and goal probes deterministic regardless of map
// iteration order.
type Tree struct {
	nodes    map[int]*Node
	order    []int
	children map[int][]int
	rootID   int
}

// NewTree creates a tree owning the given root node.
func NewTree(root *Node) *Tree {
	t := &Tree{
		nodes:    make(map[int]*Node),
		children: make(map[int][]int),
		rootID:   -1,
	}
	t.install(root)
	return t
}

func (t *Tree) install(root *Node) {
	root.parent = nil
	root.cost = 0
	t.nodes[root.id] = root
	t.order = append(t.order, root.id)
	t.rootID = root.id
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Root returns the tree's root node, or nil for a cleared tree.
func (t *Tree) Root() *Node {
	if t.rootID < 0 {
		return nil
	}
	return t.nodes[t.rootID]
}

// Node looks up a node by id.
func (t *Tree) Node(id int) (*Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Walk visits every node in insertion order.
func (t *Tree) Walk(visit func(*Node)) {
	for _, id := range t.order {
		visit(t.nodes[id])
	}
}

// Insert adds a node to the arena. The node's id must be unused and its
// parent, when set, must already be resident; violations are programming
// errors and are reported, never repaired.
func (t *Tree) Insert(n *Node) error {
	if _, ok := t.nodes[n.id]; ok {
		return newDuplicateNodeError(n.id)
	}
	if n.parent != nil {
		if _, ok := t.nodes[n.parent.id]; !ok {
			return newDanglingParentError(n.id, n.parent.id)
		}
	}
	t.nodes[n.id] = n
	t.order = append(t.order, n.id)
	return nil
}

// SetChild links child under parent. It does not insert child into the
// arena; callers must also call Insert.
func (t *Tree) SetChild(parent, child *Node) {
	child.parent = parent
	t.children[parent.id] = append(t.children[parent.id], child.id)
}

// Nearest returns the node whose position is closest to the query's
// position, heading ignored. Linear scan in insertion order; ties keep the
// first node encountered.
func (t *Tree) Nearest(query spatialmath.Pose) *Node {
	var best *Node
	bestDist := math.Inf(1)
	for _, id := range t.order {
		n := t.nodes[id]
		d := floats.Norm([]float64{n.pose.X - query.X, n.pose.Y - query.Y}, 2)
		if d < bestDist {
			bestDist = d
			best = n
		}
	}
	return best
}

// FindBestPath concatenates the stored edge segments from the root down to
// leaf, dropping the duplicated junction pose at each segment boundary.
// The result's length is the leaf's cumulative cost.
func (t *Tree) FindBestPath(leaf *Node) *Path {
	if leaf == nil {
		return nil
	}
	chain := parentChain(leaf)
	poses := make([]spatialmath.Pose, 0)
	for i, n := range chain {
		seg := n.path
		if i > 0 && len(seg) > 0 {
			seg = seg[1:]
		}
		poses = append(poses, seg...)
	}
	return &Path{Poses: poses, Length: leaf.cost}
}

// RemoveDrivenNodes re-roots the tree at the committed-path node closest
// to current, discarding everything outside the new root's subtree. The
// subtree survives intact with costs re-based to zero at the new root.
// Returns the new root.
func (t *Tree) RemoveDrivenNodes(current spatialmath.Pose, leaf *Node) *Node {
	if leaf == nil {
		return t.Root()
	}
	chain := parentChain(leaf)
	newRoot := chain[0]
	bestDist := math.Inf(1)
	for _, n := range chain {
		if d := n.pose.DistanceTo(current); d < bestDist {
			bestDist = d
			newRoot = n
		}
	}
	if newRoot == t.Root() {
		return newRoot
	}

	keep := map[int]bool{newRoot.id: true}
	queue := []int{newRoot.id}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		for _, childID := range t.children[id] {
			if !keep[childID] {
				keep[childID] = true
				queue = append(queue, childID)
			}
		}
	}

	rebase := newRoot.cost
	nodes := make(map[int]*Node, len(keep))
	order := make([]int, 0, len(keep))
	children := make(map[int][]int, len(keep))
	for _, id := range t.order {
		if !keep[id] {
			continue
		}
		n := t.nodes[id]
		n.cost -= rebase
		nodes[id] = n
		order = append(order, id)
		if kids := t.children[id]; len(kids) > 0 {
			children[id] = kids
		}
	}
	newRoot.parent = nil
	newRoot.cost = 0
	newRoot.path = []spatialmath.Pose{newRoot.pose}
	t.nodes = nodes
	t.order = order
	t.children = children
	t.rootID = newRoot.id
	return newRoot
}

// Clear drops all tree content, leaving an empty arena ready for a fresh
// root installed via Reset.
func (t *Tree) Clear() {
	t.nodes = make(map[int]*Node)
	t.order = nil
	t.children = make(map[int][]int)
	t.rootID = -1
}

// Reset clears the tree and installs a fresh root.
func (t *Tree) Reset(root *Node) {
	t.Clear()
	t.install(root)
}

// Validate checks the arena invariants: exactly one root, resident
// parents, and an acyclic parent relation.
func (t *Tree) Validate() error {
	roots := 0
	for _, id := range t.order {
		n := t.nodes[id]
		if n.parent == nil {
			roots++
			continue
		}
		if _, ok := t.nodes[n.parent.id]; !ok {
			return newDanglingParentError(n.id, n.parent.id)
		}
		steps := 0
		for a := n; a != nil; a = a.parent {
			steps++
			if steps > len(t.nodes) {
				return newParentCycleError(n.id)
			}
		}
	}
	if roots != 1 {
		return newMultipleRootsError(roots)
	}
	return nil
}

// parentChain returns the nodes from the root down to leaf inclusive.
func parentChain(leaf *Node) []*Node {
	chain := make([]*Node, 0)
	for n := leaf; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}
