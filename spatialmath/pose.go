// Package spatialmath defines the planar spatial types used by the
// planner, chiefly the SE(2) pose of a car-like vehicle.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Pose is a position and heading on the plane. It is a value type and is
// never mutated after construction.
type Pose struct {
	X     float64
	Y     float64
	Theta float64
}

// NewPose creates a pose from a position and a heading in radians.
func NewPose(x, y, theta float64) Pose {
	return Pose{X: x, Y: y, Theta: theta}
}

// Point returns the position component of the pose.
func (p Pose) Point() r3.Vector {
	return r3.Vector{X: p.X, Y: p.Y}
}

// DistanceTo returns the Euclidean distance between the positions of two
// poses. Headings are ignored.
func (p Pose) DistanceTo(o Pose) float64 {
	return p.Point().Sub(o.Point()).Norm()
}

// NormalizeAngle wraps an angle to [0, 2π).
func NormalizeAngle(theta float64) float64 {
	theta = math.Mod(theta, 2*math.Pi)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// AngleDiff returns the signed smallest rotation from b to a, in (-π, π].
func AngleDiff(a, b float64) float64 {
	d := NormalizeAngle(a - b)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	return d
}

// PathLength returns the cumulative Euclidean length of the polyline
// through the positions of the given poses.
func PathLength(path []Pose) float64 {
	length := 0.
	for i := 1; i < len(path); i++ {
		length += path[i].DistanceTo(path[i-1])
	}
	return length
}
