package motionplan_test

import (
	"math"
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"github.com/dgsim/anytimerrt/motionplan"
	"github.com/dgsim/anytimerrt/scenario"
	"github.com/dgsim/anytimerrt/spatialmath"
	"github.com/dgsim/anytimerrt/vehicle"
)

func testOptions(seed int64) *motionplan.PlannerOptions {
	opts := motionplan.NewPlannerOptions()
	opts.Seed = seed
	return opts
}

func emptyFieldPlanner(t *testing.T, seed int64, goal *scenario.Goal) *motionplan.AnytimeRRTPlanner {
	t.Helper()
	logger := golog.NewTestLogger(t)
	bounds := motionplan.Bounds{MinX: -2, MaxX: 25, MinY: -2, MaxY: 25}
	planner, err := motionplan.NewAnytimeDubinsPlanner(
		spatialmath.NewPose(0, 0, 0), goal.Pose, goal, bounds, &scenario.Field{}, testOptions(seed), logger)
	test.That(t, err, test.ShouldBeNil)
	return planner
}

func TestPlanningEmptyField(t *testing.T) {
	// seed 42, curvature 1.0, start (0,0,0), goal region at (20,20,0),
	// no obstacles: a path must be found
	goal := &scenario.Goal{
		Pose:       spatialmath.NewPose(20, 20, 0),
		Radius:     0.3,
		HeadingTol: 0.15,
	}
	planner := emptyFieldPlanner(t, 42, goal)

	path, err := planner.Planning()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeNil)

	last := path.Poses[len(path.Poses)-1]
	test.That(t, goal.IsFulfilled(vehicle.StateFromPose(last)), test.ShouldBeTrue)
	test.That(t, path.Poses[0], test.ShouldResemble, spatialmath.NewPose(0, 0, 0))
	// arc length is at least the Euclidean distance to the goal region
	test.That(t, path.Length, test.ShouldBeGreaterThanOrEqualTo, 27.9)
	test.That(t, math.IsInf(path.Length, 1), test.ShouldBeFalse)
}

func TestPlanningUnreachableGoal(t *testing.T) {
	// goal fully enclosed by an obstacle disc: the planner must exhaust
	// its iterations and report no-path without raising
	logger := golog.NewTestLogger(t)
	goalPose := spatialmath.NewPose(10, 10, 0)
	goal := &scenario.Goal{Pose: goalPose, Radius: 1.0}
	field := &scenario.Field{
		Obstacles: []scenario.Obstacle{
			&scenario.Circle{Center: r3.Vector{X: 10, Y: 10}, Radius: 3},
		},
	}
	opts := testOptions(42)
	opts.MaxIter = 150

	planner, err := motionplan.NewAnytimeDubinsPlanner(
		spatialmath.NewPose(0, 0, 0), goalPose, goal,
		motionplan.Bounds{MinX: -2, MaxX: 20, MinY: -2, MaxY: 20},
		field, opts, logger)
	test.That(t, err, test.ShouldBeNil)

	path, err := planner.Planning()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldBeNil)
	test.That(t, planner.Path(), test.ShouldBeNil)
	test.That(t, planner.Tree().Validate(), test.ShouldBeNil)
}

func TestPlanningDeterminism(t *testing.T) {
	goal := func() *scenario.Goal {
		return &scenario.Goal{Pose: spatialmath.NewPose(20, 20, 0), Radius: 1.0}
	}
	a := emptyFieldPlanner(t, 7, goal())
	b := emptyFieldPlanner(t, 7, goal())

	pathA, err := a.Planning()
	test.That(t, err, test.ShouldBeNil)
	pathB, err := b.Planning()
	test.That(t, err, test.ShouldBeNil)

	test.That(t, a.Tree().Len(), test.ShouldEqual, b.Tree().Len())
	test.That(t, pathA == nil, test.ShouldEqual, pathB == nil)
	if pathA != nil {
		test.That(t, pathA.Poses, test.ShouldResemble, pathB.Poses)
		test.That(t, pathA.Length, test.ShouldEqual, pathB.Length)
	}
}

func TestTreeInvariantsAfterPlanning(t *testing.T) {
	goal := &scenario.Goal{Pose: spatialmath.NewPose(20, 20, 0), Radius: 1.0}
	planner := emptyFieldPlanner(t, 11, goal)

	_, err := planner.Planning()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, planner.ExpandTree(), test.ShouldBeNil)

	tree := planner.Tree()
	test.That(t, tree.Validate(), test.ShouldBeNil)
	tree.Walk(func(n *motionplan.Node) {
		if n.Parent() == nil {
			test.That(t, n.Cost(), test.ShouldEqual, 0.0)
			return
		}
		// stored cost follows the parent cost plus the edge's arc length;
		// the sampled polyline cuts arc chords, hence the loose tolerance
		edge := spatialmath.PathLength(n.Path())
		test.That(t, n.Cost()-n.Parent().Cost(), test.ShouldAlmostEqual, edge, 0.05*edge+0.05)
		test.That(t, n.Path()[0].DistanceTo(n.Parent().Pose()), test.ShouldBeLessThan, 1e-9)
		test.That(t, n.Path()[len(n.Path())-1], test.ShouldResemble, n.Pose())
	})
}

func TestExpandTreeGrowsCoverage(t *testing.T) {
	goal := &scenario.Goal{Pose: spatialmath.NewPose(20, 20, 0), Radius: 1.0}
	planner := emptyFieldPlanner(t, 5, goal)

	before := planner.Tree().Len()
	test.That(t, planner.ExpandTree(), test.ShouldBeNil)
	after := planner.Tree().Len()

	test.That(t, after, test.ShouldBeGreaterThan, before)
	test.That(t, after-before, test.ShouldBeLessThanOrEqualTo, motionplan.NewPlannerOptions().ExpandIter)
	test.That(t, planner.Tree().Validate(), test.ShouldBeNil)
}

func TestReplanningKeepsValidPath(t *testing.T) {
	goal := &scenario.Goal{Pose: spatialmath.NewPose(20, 20, 0), Radius: 1.0}
	planner := emptyFieldPlanner(t, 42, goal)

	path, err := planner.Planning()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeNil)

	// drive partway along the committed path, then replan
	current := path.Poses[len(path.Poses)/2]
	replanned, err := planner.Replanning(current)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, replanned, test.ShouldNotBeNil)

	// the pruned tree is rooted at the committed-path node closest to the
	// vehicle, and the returned path starts there
	root := planner.Tree().Root()
	test.That(t, replanned.Poses[0], test.ShouldResemble, root.Pose())
	test.That(t, root.Cost(), test.ShouldEqual, 0.0)
	test.That(t, replanned.Length, test.ShouldBeLessThan, path.Length)
	test.That(t, planner.Tree().Validate(), test.ShouldBeNil)

	// pruning never moves the goal end of the path
	test.That(t, replanned.Poses[len(replanned.Poses)-1], test.ShouldResemble, path.Poses[len(path.Poses)-1])
}

func TestReplanningAtPathEnd(t *testing.T) {
	goal := &scenario.Goal{Pose: spatialmath.NewPose(20, 20, 0), Radius: 1.0}
	planner := emptyFieldPlanner(t, 42, goal)

	path, err := planner.Planning()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeNil)

	// replanning from the last pose of a valid path collapses the tree to
	// a single root at the current pose
	last := path.Poses[len(path.Poses)-1]
	replanned, err := planner.Replanning(last)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, replanned, test.ShouldNotBeNil)
	test.That(t, replanned.Poses[0], test.ShouldResemble, last)
	test.That(t, planner.Tree().Len(), test.ShouldEqual, 1)
	test.That(t, planner.Tree().Root().Pose(), test.ShouldResemble, last)
}

func TestReplanningInvalidatedPath(t *testing.T) {
	logger := golog.NewTestLogger(t)
	goalPose := spatialmath.NewPose(20, 20, 0)
	goal := &scenario.Goal{Pose: goalPose, Radius: 1.0}
	field := &scenario.Field{}
	bounds := motionplan.Bounds{MinX: -2, MaxX: 25, MinY: -2, MaxY: 25}

	planner, err := motionplan.NewAnytimeDubinsPlanner(
		spatialmath.NewPose(0, 0, 0), goalPose, goal, bounds, field, testOptions(42), logger)
	test.That(t, err, test.ShouldBeNil)

	path, err := planner.Planning()
	test.That(t, err, test.ShouldBeNil)
	test.That(t, path, test.ShouldNotBeNil)

	// a dynamic obstacle moves onto the committed path: replanning must
	// detect it, drop the tree, and install a fresh root at the vehicle
	mid := path.Poses[len(path.Poses)/2]
	field.Obstacles = append(field.Obstacles, &scenario.Circle{
		Center: r3.Vector{X: mid.X, Y: mid.Y},
		Radius: 1,
	})

	current := path.Poses[2]
	replanned, err := planner.Replanning(current)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, replanned, test.ShouldBeNil)
	test.That(t, planner.Path(), test.ShouldBeNil)
	test.That(t, planner.Tree().Len(), test.ShouldEqual, 1)
	test.That(t, planner.Tree().Root().Pose(), test.ShouldResemble, current)

	// the planner remains usable from the fresh root
	test.That(t, planner.ExpandTree(), test.ShouldBeNil)
	test.That(t, planner.Tree().Len(), test.ShouldBeGreaterThan, 1)
	test.That(t, planner.Tree().Validate(), test.ShouldBeNil)
}
