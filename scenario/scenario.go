// Package scenario provides in-memory scenario collaborators for the
// planner: obstacle fields acting as the collision oracle, goal regions,
// and drivable-world bounds. Obstacles may move between planner calls,
// which is why replanning revalidates committed paths against the field.
package scenario

import (
	"math"

	"github.com/golang/geo/r3"

	"github.com/dgsim/anytimerrt/motionplan"
	"github.com/dgsim/anytimerrt/spatialmath"
	"github.com/dgsim/anytimerrt/vehicle"
)

// Obstacle is a planar shape the vehicle must not touch. Dynamic obstacles
// additionally advance when the field steps forward in time.
type Obstacle interface {
	// Contains reports whether the point lies inside the shape inflated by
	// margin.
	Contains(pt r3.Vector, margin float64) bool
	// Step advances the obstacle by dt seconds.
	Step(dt float64)
}

// Circle is a disc obstacle, optionally moving at constant velocity.
type Circle struct {
	Center   r3.Vector
	Radius   float64
	Velocity r3.Vector
}

// Contains reports whether pt is within the inflated disc.
func (c *Circle) Contains(pt r3.Vector, margin float64) bool {
	return pt.Sub(c.Center).Norm() <= c.Radius+margin
}

// Step advances the disc along its velocity.
func (c *Circle) Step(dt float64) {
	c.Center = c.Center.Add(c.Velocity.Mul(dt))
}

// Box is an axis-aligned rectangular obstacle, optionally moving at
// constant velocity.
type Box struct {
	Center   r3.Vector
	HalfDims r3.Vector
	Velocity r3.Vector
}

// Contains reports whether pt is within the inflated rectangle.
func (b *Box) Contains(pt r3.Vector, margin float64) bool {
	diff := pt.Sub(b.Center)
	return math.Abs(diff.X) <= b.HalfDims.X+margin && math.Abs(diff.Y) <= b.HalfDims.Y+margin
}

// Step advances the rectangle along its velocity.
func (b *Box) Step(dt float64) {
	b.Center = b.Center.Add(b.Velocity.Mul(dt))
}

// Field is a set of static and dynamic obstacles. It implements the
// planner's collision oracle: a candidate collides when any pose of its
// incoming path segment touches an obstacle inflated by the safety
// margin, or leaves the drivable bounds when bounds are set.
type Field struct {
	Obstacles    []Obstacle
	SafetyMargin float64
	// Bounds, when non-nil, rejects poses outside the drivable world.
	Bounds *motionplan.Bounds
}

// Collision implements motionplan.CollisionChecker. A nil node is treated
// as colliding so failed steers never enter the tree.
func (f *Field) Collision(n *motionplan.Node) bool {
	if n == nil {
		return true
	}
	for _, pose := range n.Path() {
		pt := pose.Point()
		if f.Bounds != nil {
			if pt.X < f.Bounds.MinX || pt.X > f.Bounds.MaxX || pt.Y < f.Bounds.MinY || pt.Y > f.Bounds.MaxY {
				return true
			}
		}
		for _, obs := range f.Obstacles {
			if obs.Contains(pt, f.SafetyMargin) {
				return true
			}
		}
	}
	return false
}

// Step advances every obstacle by dt seconds.
func (f *Field) Step(dt float64) {
	for _, obs := range f.Obstacles {
		obs.Step(dt)
	}
}

// Goal is a circular goal region around a target pose. A zero HeadingTol
// accepts any heading.
type Goal struct {
	Pose       spatialmath.Pose
	Radius     float64
	HeadingTol float64
}

// IsFulfilled implements motionplan.GoalRegion: the configuration's
// position must lie inside the region and, when a heading tolerance is
// set, its heading must be within that tolerance of the goal heading.
func (g *Goal) IsFulfilled(state vehicle.State) bool {
	if state.Pose().DistanceTo(g.Pose) > g.Radius {
		return false
	}
	if g.HeadingTol > 0 {
		if math.Abs(spatialmath.AngleDiff(state.Theta, g.Pose.Theta)) > g.HeadingTol {
			return false
		}
	}
	return true
}
