// Package vehicle holds the vehicle configuration types shared between
// the planner and externally supplied goal predicates.
package vehicle

import "github.com/dgsim/anytimerrt/spatialmath"

// State is a kinematic bicycle configuration: a planar pose plus the
// longitudinal speed and steering angle.
type State struct {
	X     float64
	Y     float64
	Theta float64
	// Vx is the longitudinal velocity [m/s].
	Vx float64
	// Delta is the steering angle [rad].
	Delta float64
}

// StateFromPose reinterprets a geometric pose as a configuration at rest,
// with zero speed and zero steering angle.
func StateFromPose(p spatialmath.Pose) State {
	return State{X: p.X, Y: p.Y, Theta: p.Theta}
}

// Pose returns the geometric part of the state.
func (s State) Pose() spatialmath.Pose {
	return spatialmath.Pose{X: s.X, Y: s.Y, Theta: s.Theta}
}
