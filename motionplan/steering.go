package motionplan

import (
	"github.com/dgsim/anytimerrt/spatialmath"
)

// PathSegment is the sampled output of a single steer: the poses from the
// starting pose to the reached pose inclusive, and their arc length.
type PathSegment struct {
	Poses  []spatialmath.Pose
	Length float64
}

// Steering produces kinematically feasible connections between poses.
// Only steering and goal checking vary across vehicle models; the
// planner's sampling, tree maintenance, and replanning protocol are
// shared.
type Steering interface {
	// Steer connects from toward to, truncated so new branches stay local.
	// A nil result means no usable connection exists.
	Steer(from, to spatialmath.Pose) *PathSegment
}

// DubinsSteering steers with curvature-bounded Dubins primitives,
// truncating every connection to the configured expansion distance.
type DubinsSteering struct {
	dubins    Dubins
	expandDis float64
}

// NewDubinsSteering creates a steering capability for a vehicle with
// maximum curvature curvature (minimum turning radius 1/curvature), paths
// sampled every pathResolution of arc length and truncated to expandDis.
func NewDubinsSteering(curvature, pathResolution, expandDis float64) *DubinsSteering {
	return &DubinsSteering{
		dubins:    Dubins{Radius: 1 / curvature, PointSeparation: pathResolution},
		expandDis: expandDis,
	}
}

// Steer connects from toward to along the shortest Dubins primitive. When
// the connection is longer than the expansion distance, the target is
// moved back to the pose at that distance along the path and the
// connection is recomputed so it ends exactly there.
func (s *DubinsSteering) Steer(from, to spatialmath.Pose) *PathSegment {
	poses, attr := s.dubins.PathPoses(from, to)
	if len(poses) <= 1 {
		return nil
	}
	idx := int(s.expandDis / s.dubins.PointSeparation)
	if idx < len(poses)-1 {
		poses, attr = s.dubins.PathPoses(from, poses[idx])
		if len(poses) <= 1 {
			return nil
		}
	}
	return &PathSegment{Poses: poses, Length: attr.TotalLen}
}
