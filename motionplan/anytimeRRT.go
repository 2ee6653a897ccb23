// Package motionplan implements an anytime, sampling-based motion planner
// for car-like vehicles with bounded turning curvature, operating among
// static and dynamic obstacles. The planner grows a rapidly-exploring
// random tree with Dubins steering, keeps improving the tree while idle,
// and adapts a committed path incrementally as the vehicle advances.
package motionplan

import (
	"math"
	"math/rand"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"

	"github.com/dgsim/anytimerrt/spatialmath"
	"github.com/dgsim/anytimerrt/vehicle"
)

// CollisionChecker is the external collision oracle. It reports whether a
// candidate node's incoming path intersects the current scenario. The
// scenario behind it may change between planner calls; the planner never
// caches its answers across calls.
type CollisionChecker interface {
	Collision(node *Node) bool
}

// GoalRegion is the externally supplied goal membership predicate over
// full vehicle configurations.
type GoalRegion interface {
	IsFulfilled(state vehicle.State) bool
}

// Bounds is the axis-aligned region uniform pose samples are drawn from.
// Headings are always sampled uniformly over the full circle.
type Bounds struct {
	MinX, MaxX float64
	MinY, MaxY float64
}

// AnytimeRRTPlanner grows a search tree toward a goal region and supports
// a three-call protocol driven by an outer control loop: Planning finds an
// initial path, ExpandTree improves coverage between ticks, and Replanning
// adapts the committed path as the vehicle advances. All calls are
// synchronous and single-threaded; each planner exclusively owns its tree.
type AnytimeRRTPlanner struct {
	opts     *PlannerOptions
	logger   golog.Logger
	steering Steering
	checker  CollisionChecker
	goal     GoalRegion
	goalPose spatialmath.Pose
	bounds   Bounds
	randseed *rand.Rand

	tree      *Tree
	nodeCount int
	path      *Path
	goalLeaf  *Node
}

// NewAnytimeRRTPlanner creates a planner rooted at start with an injected
// steering capability. The collision checker and goal region are opaque
// external collaborators; a nil checker accepts everything.
func NewAnytimeRRTPlanner(
	start, goalPose spatialmath.Pose,
	goal GoalRegion,
	bounds Bounds,
	checker CollisionChecker,
	steering Steering,
	opts *PlannerOptions,
	logger golog.Logger,
) (*AnytimeRRTPlanner, error) {
	if opts == nil {
		opts = NewPlannerOptions()
	}
	if steering == nil {
		return nil, errors.New("a steering capability is required")
	}
	p := &AnytimeRRTPlanner{
		opts:     opts,
		logger:   logger,
		steering: steering,
		checker:  checker,
		goal:     goal,
		goalPose: goalPose,
		bounds:   bounds,
		//nolint:gosec
		randseed: rand.New(rand.NewSource(opts.Seed)),
	}
	root := NewNode(p.nextID(), start, []spatialmath.Pose{start}, 0)
	p.tree = NewTree(root)
	return p, nil
}

// NewAnytimeDubinsPlanner creates a planner steering with Dubins
// primitives per the configured curvature, resolution, and truncation
// distance.
func NewAnytimeDubinsPlanner(
	start, goalPose spatialmath.Pose,
	goal GoalRegion,
	bounds Bounds,
	checker CollisionChecker,
	opts *PlannerOptions,
	logger golog.Logger,
) (*AnytimeRRTPlanner, error) {
	if opts == nil {
		opts = NewPlannerOptions()
	}
	if opts.Curvature <= 0 {
		return nil, errors.New("curvature must be positive")
	}
	if opts.PathResolution <= 0 {
		return nil, errors.New("path resolution must be positive")
	}
	steering := NewDubinsSteering(opts.Curvature, opts.PathResolution, opts.ExpandDis)
	return NewAnytimeRRTPlanner(start, goalPose, goal, bounds, checker, steering, opts, logger)
}

// Tree exposes the planner's search tree for inspection.
func (p *AnytimeRRTPlanner) Tree() *Tree {
	return p.tree
}

// Path returns the committed path, or nil when none is held.
func (p *AnytimeRRTPlanner) Path() *Path {
	return p.path
}

// Planning grows the tree until a node satisfies the goal or MaxIter
// iterations are exhausted. A nil path with a nil error means no path was
// found, a normal outcome callers must treat as "hold previous command".
// Errors are reserved for tree invariant violations.
func (p *AnytimeRRTPlanner) Planning() (*Path, error) {
	for i := 0; i < p.opts.MaxIter; i++ {
		added, err := p.growOnce()
		if err != nil {
			return nil, err
		}
		if !p.opts.SearchUntilMaxIter && added != nil {
			if path := p.probeGoal(); path != nil {
				return path, nil
			}
		}
	}
	p.logger.Debug("reached max iteration")

	if path := p.probeGoal(); path != nil {
		return path, nil
	}
	p.logger.Debug("cannot find path")
	return nil, nil
}

// Replanning prunes the tree behind currentPose and keeps the committed
// path when it is still collision-free against the current scenario.
// Obstacles may have moved since the path was computed, so the stored
// path is always revalidated rather than trusted. When the path is
// invalidated the whole tree is discarded and a fresh root is installed at
// currentPose, ready for later ExpandTree and Planning calls.
func (p *AnytimeRRTPlanner) Replanning(currentPose spatialmath.Pose) (*Path, error) {
	p.removeDrivenNodes(currentPose)
	if p.checkPathValid() {
		return p.path, nil
	}
	p.tree.Clear()
	if path := p.probeGoal(); path != nil {
		return path, nil
	}
	p.path = nil
	p.goalLeaf = nil
	p.tree.Reset(NewNode(p.nextID(), currentPose, []spatialmath.Pose{currentPose}, 0))
	return nil, nil
}

// ExpandTree runs ExpandIter growth iterations with no goal probing. It is
// intended to run between Replanning calls so tree coverage, and with it
// future replan quality, improves with the compute time available.
func (p *AnytimeRRTPlanner) ExpandTree() error {
	for i := 0; i < p.opts.ExpandIter; i++ {
		if _, err := p.growOnce(); err != nil {
			return err
		}
	}
	return nil
}

// growOnce performs one sample/steer/collision-check/insert iteration and
// returns the inserted node, or nil when the candidate was discarded.
func (p *AnytimeRRTPlanner) growOnce() (*Node, error) {
	target := p.randomPose()
	nearest := p.tree.Nearest(target)
	if nearest == nil {
		return nil, nil
	}
	seg := p.steering.Steer(nearest.Pose(), target)
	if seg == nil {
		return nil, nil
	}
	candidate := &Node{
		pose: seg.Poses[len(seg.Poses)-1],
		path: seg.Poses,
	}
	if p.checker != nil && p.checker.Collision(candidate) {
		return nil, nil
	}
	candidate.id = p.nextID()
	candidate.cost = nearest.Cost() + seg.Length
	p.tree.SetChild(nearest, candidate)
	if err := p.tree.Insert(candidate); err != nil {
		return nil, err
	}
	return candidate, nil
}

// randomPose draws the next sampling target: the exact goal pose with
// GoalSampleRate percent probability, otherwise uniform over the bounds
// with a uniform heading.
func (p *AnytimeRRTPlanner) randomPose() spatialmath.Pose {
	if p.randseed.Intn(100) < p.opts.GoalSampleRate {
		return p.goalPose
	}
	return spatialmath.Pose{
		X:     p.bounds.MinX + p.randseed.Float64()*(p.bounds.MaxX-p.bounds.MinX),
		Y:     p.bounds.MinY + p.randseed.Float64()*(p.bounds.MaxY-p.bounds.MinY),
		Theta: p.randseed.Float64() * 2 * math.Pi,
	}
}

// probeGoal searches the whole tree for goal-satisfying nodes and commits
// to the cheapest one's path, or returns nil when none satisfies.
func (p *AnytimeRRTPlanner) probeGoal() *Path {
	leaf := p.searchBestGoalNode()
	if leaf == nil {
		return nil
	}
	p.goalLeaf = leaf
	p.path = p.tree.FindBestPath(leaf)
	return p.path
}

// searchBestGoalNode probes every node for goal membership and returns the
// minimum-cost satisfying node. Ties keep the earliest-inserted node.
func (p *AnytimeRRTPlanner) searchBestGoalNode() *Node {
	var best *Node
	p.tree.Walk(func(n *Node) {
		if !p.reachedGoal(n) {
			return
		}
		if best == nil || n.Cost() < best.Cost() {
			best = n
		}
	})
	return best
}

// reachedGoal reinterprets the node's pose as a vehicle configuration at
// rest and asks the goal predicate about it.
func (p *AnytimeRRTPlanner) reachedGoal(n *Node) bool {
	if p.goal == nil {
		return false
	}
	return p.goal.IsFulfilled(vehicle.StateFromPose(n.Pose()))
}

// removeDrivenNodes prunes the traversed prefix of the committed path and
// recomputes the stored path from the re-based tree so it starts at the
// new root.
func (p *AnytimeRRTPlanner) removeDrivenNodes(currentPose spatialmath.Pose) {
	if p.goalLeaf == nil {
		return
	}
	p.tree.RemoveDrivenNodes(currentPose, p.goalLeaf)
	p.path = p.tree.FindBestPath(p.goalLeaf)
}

// checkPathValid revalidates the committed path against the current
// scenario through the collision oracle.
func (p *AnytimeRRTPlanner) checkPathValid() bool {
	if p.path == nil || len(p.path.Poses) == 0 {
		return false
	}
	if p.checker == nil {
		return true
	}
	probe := &Node{
		pose: p.path.Poses[len(p.path.Poses)-1],
		path: p.path.Poses,
	}
	return !p.checker.Collision(probe)
}

func (p *AnytimeRRTPlanner) nextID() int {
	id := p.nodeCount
	p.nodeCount++
	return id
}
