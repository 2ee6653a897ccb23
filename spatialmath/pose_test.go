package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestPose(t *testing.T) {
	p := NewPose(3, 4, math.Pi/4)
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{X: 3, Y: 4})
	test.That(t, p.DistanceTo(NewPose(0, 0, math.Pi)), test.ShouldAlmostEqual, 5.0)
	test.That(t, p.DistanceTo(p), test.ShouldEqual, 0.0)
}

func TestNormalizeAngle(t *testing.T) {
	test.That(t, NormalizeAngle(0), test.ShouldEqual, 0.0)
	test.That(t, NormalizeAngle(-math.Pi/2), test.ShouldAlmostEqual, 3*math.Pi/2)
	test.That(t, NormalizeAngle(5*math.Pi), test.ShouldAlmostEqual, math.Pi)
	test.That(t, NormalizeAngle(2*math.Pi), test.ShouldAlmostEqual, 0.0)
}

func TestAngleDiff(t *testing.T) {
	test.That(t, AngleDiff(math.Pi/2, 0), test.ShouldAlmostEqual, math.Pi/2)
	test.That(t, AngleDiff(0, math.Pi/2), test.ShouldAlmostEqual, -math.Pi/2)
	// the wrap goes the short way round
	test.That(t, AngleDiff(0.1, 2*math.Pi-0.1), test.ShouldAlmostEqual, 0.2)
	test.That(t, AngleDiff(math.Pi, 0), test.ShouldAlmostEqual, math.Pi)
}

func TestPathLength(t *testing.T) {
	test.That(t, PathLength(nil), test.ShouldEqual, 0.0)
	test.That(t, PathLength([]Pose{NewPose(1, 1, 0)}), test.ShouldEqual, 0.0)

	path := []Pose{
		NewPose(0, 0, 0),
		NewPose(3, 4, 0),
		NewPose(3, 10, math.Pi),
	}
	test.That(t, PathLength(path), test.ShouldAlmostEqual, 11.0)
}
