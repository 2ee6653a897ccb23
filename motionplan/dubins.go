package motionplan

import (
	"math"
	"sort"

	"github.com/dgsim/anytimerrt/spatialmath"
)

// Dubins computes shortest curvature-bounded connections between oriented
// planar poses for a vehicle with minimum turning radius Radius and no
// reverse gear. Sampled outputs space points PointSeparation apart in arc
// length. Both parameters must be positive. Dubins carries no state; all
// methods are pure and reproducible for identical inputs.
type Dubins struct {
	Radius          float64
	PointSeparation float64
}

// DubinPathAttr describes one of the six canonical Dubins primitives
// connecting two poses.
type DubinPathAttr struct {
	// TotalLen is the total arc length of the primitive, +Inf when the
	// primitive cannot connect the poses.
	TotalLen float64
	// DubinsPath holds the three signed segment values: turn angles in
	// radians (left positive, right negative) and, for straight variants,
	// the straight distance as the last element.
	DubinsPath []float64
	// Straight is true when the middle segment is a straight line.
	Straight bool
	// Mode labels the primitive, one of LSL, RSR, RSL, LSR, RLR, LRL.
	Mode string
}

// AllPaths returns the six canonical Dubins primitives from start to end,
// each given as (x, y, heading). Infeasible primitives carry a TotalLen of
// +Inf. When sorted is true the result is stable-sorted by TotalLen, so
// exact ties keep the canonical LSL, RSR, RSL, LSR, RLR, LRL order.
func (d *Dubins) AllPaths(start, end []float64, sorted bool) []DubinPathAttr {
	centerLS := d.findCenter(start, true)
	centerRS := d.findCenter(start, false)
	centerLE := d.findCenter(end, true)
	centerRE := d.findCenter(end, false)

	paths := []DubinPathAttr{
		d.lsl(start, end, centerLS, centerLE),
		d.rsr(start, end, centerRS, centerRE),
		d.rsl(start, end, centerRS, centerLE),
		d.lsr(start, end, centerLS, centerRE),
		d.rlr(start, end, centerRS, centerRE),
		d.lrl(start, end, centerLS, centerLE),
	}
	if sorted {
		sort.SliceStable(paths, func(i, j int) bool {
			return paths[i].TotalLen < paths[j].TotalLen
		})
	}
	return paths
}

// findCenter returns the center of the turning circle tangent to the pose,
// on its left or right side.
func (d *Dubins) findCenter(point []float64, left bool) []float64 {
	angle := point[2]
	if left {
		angle += math.Pi / 2
	} else {
		angle -= math.Pi / 2
	}
	return []float64{
		point[0] + math.Cos(angle)*d.Radius,
		point[1] + math.Sin(angle)*d.Radius,
	}
}

func (d *Dubins) lsl(start, end, center0, center2 []float64) DubinPathAttr {
	straightDist := planarDist(center0, center2)
	alpha := math.Atan2(center2[1]-center0[1], center2[0]-center0[0])
	beta2 := spatialmath.NormalizeAngle(end[2] - alpha)
	beta0 := spatialmath.NormalizeAngle(alpha - start[2])
	totalLen := d.Radius*(beta2+beta0) + straightDist
	return DubinPathAttr{totalLen, []float64{beta0, beta2, straightDist}, true, "LSL"}
}

func (d *Dubins) rsr(start, end, center0, center2 []float64) DubinPathAttr {
	straightDist := planarDist(center0, center2)
	alpha := math.Atan2(center2[1]-center0[1], center2[0]-center0[0])
	beta2 := spatialmath.NormalizeAngle(-end[2] + alpha)
	beta0 := spatialmath.NormalizeAngle(-alpha + start[2])
	totalLen := d.Radius*(beta2+beta0) + straightDist
	return DubinPathAttr{totalLen, []float64{-beta0, -beta2, straightDist}, true, "RSR"}
}

func (d *Dubins) rsl(start, end, center0, center2 []float64) DubinPathAttr {
	medianX := (center2[0] - center0[0]) / 2
	medianY := (center2[1] - center0[1]) / 2
	psia := math.Atan2(medianY, medianX)
	halfIntercenter := math.Hypot(medianX, medianY)
	if halfIntercenter < d.Radius {
		return infeasibleDubinPath("RSL", true)
	}
	alpha := math.Acos(d.Radius / halfIntercenter)
	beta0 := spatialmath.NormalizeAngle(-(psia + alpha - start[2] - math.Pi/2))
	beta2 := spatialmath.NormalizeAngle(math.Pi + end[2] - math.Pi/2 - alpha - psia)
	straightDist := 2 * math.Sqrt(halfIntercenter*halfIntercenter-d.Radius*d.Radius)
	totalLen := d.Radius*(beta2+beta0) + straightDist
	return DubinPathAttr{totalLen, []float64{-beta0, beta2, straightDist}, true, "RSL"}
}

func (d *Dubins) lsr(start, end, center0, center2 []float64) DubinPathAttr {
	medianX := (center2[0] - center0[0]) / 2
	medianY := (center2[1] - center0[1]) / 2
	psia := math.Atan2(medianY, medianX)
	halfIntercenter := math.Hypot(medianX, medianY)
	if halfIntercenter < d.Radius {
		return infeasibleDubinPath("LSR", true)
	}
	alpha := math.Acos(d.Radius / halfIntercenter)
	beta0 := spatialmath.NormalizeAngle(psia - alpha - start[2] + math.Pi/2)
	beta2 := spatialmath.NormalizeAngle(math.Pi/2 - end[2] - alpha + psia)
	straightDist := 2 * math.Sqrt(halfIntercenter*halfIntercenter-d.Radius*d.Radius)
	totalLen := d.Radius*(beta2+beta0) + straightDist
	return DubinPathAttr{totalLen, []float64{beta0, -beta2, straightDist}, true, "LSR"}
}

func (d *Dubins) rlr(start, end, center0, center2 []float64) DubinPathAttr {
	distIntercenter := planarDist(center0, center2)
	if distIntercenter > 4*d.Radius {
		return infeasibleDubinPath("RLR", false)
	}
	psia := math.Atan2((center2[1]-center0[1])/2, (center2[0]-center0[0])/2)
	gamma := 2 * math.Asin(distIntercenter/(4*d.Radius))
	beta0 := spatialmath.NormalizeAngle(-psia + start[2] + math.Pi/2 + (math.Pi-gamma)/2)
	beta2 := spatialmath.NormalizeAngle(psia + math.Pi/2 - end[2] + (math.Pi-gamma)/2)
	totalLen := (2*math.Pi - gamma + math.Abs(beta0) + math.Abs(beta2)) * d.Radius
	return DubinPathAttr{totalLen, []float64{-beta0, 2*math.Pi - gamma, -beta2}, false, "RLR"}
}

func (d *Dubins) lrl(start, end, center0, center2 []float64) DubinPathAttr {
	distIntercenter := planarDist(center0, center2)
	if distIntercenter > 4*d.Radius {
		return infeasibleDubinPath("LRL", false)
	}
	psia := math.Atan2((center2[1]-center0[1])/2, (center2[0]-center0[0])/2)
	gamma := 2 * math.Asin(distIntercenter/(4*d.Radius))
	beta0 := spatialmath.NormalizeAngle(psia - start[2] + math.Pi/2 + (math.Pi-gamma)/2)
	beta2 := spatialmath.NormalizeAngle(-psia + math.Pi/2 + end[2] + (math.Pi-gamma)/2)
	totalLen := (2*math.Pi - gamma + math.Abs(beta0) + math.Abs(beta2)) * d.Radius
	return DubinPathAttr{totalLen, []float64{beta0, -(2*math.Pi - gamma), beta2}, false, "LRL"}
}

// PathPoses computes the minimum-length primitive from start to end and
// samples it every PointSeparation of arc length, heading included; the
// final pose is exactly end. A result of one pose or fewer means no usable
// connection exists at this resolution, which callers treat as a steer
// failure.
func (d *Dubins) PathPoses(start, end spatialmath.Pose) ([]spatialmath.Pose, DubinPathAttr) {
	best := d.AllPaths(
		[]float64{start.X, start.Y, start.Theta},
		[]float64{end.X, end.Y, end.Theta},
		true,
	)[0]
	if math.IsInf(best.TotalLen, 1) {
		return nil, best
	}
	return d.samplePoses(start, end, best.DubinsPath, best.Straight), best
}

// generatePoints samples the given primitive every PointSeparation of arc
// length, returning (x, y) points from start to end inclusive.
func (d *Dubins) generatePoints(start, end, dubinsPath []float64, straight bool) [][]float64 {
	poses := d.samplePoses(
		spatialmath.NewPose(start[0], start[1], start[2]),
		spatialmath.NewPose(end[0], end[1], end[2]),
		dubinsPath,
		straight,
	)
	points := make([][]float64, 0, len(poses))
	for _, p := range poses {
		points = append(points, []float64{p.X, p.Y})
	}
	return points
}

func (d *Dubins) samplePoses(start, end spatialmath.Pose, path []float64, straight bool) []spatialmath.Pose {
	if straight {
		return d.samplePosesStraight(start, end, path)
	}
	return d.samplePosesCurve(start, end, path)
}

func (d *Dubins) samplePosesStraight(start, end spatialmath.Pose, path []float64) []spatialmath.Pose {
	total := d.Radius*(math.Abs(path[0])+math.Abs(path[1])) + path[2]
	center0 := d.findCenter([]float64{start.X, start.Y, start.Theta}, path[0] > 0)
	center2 := d.findCenter([]float64{end.X, end.Y, end.Theta}, path[1] > 0)

	// Tangent points delimiting the straight segment.
	ini := []float64{start.X, start.Y}
	if math.Abs(path[0]) > 0 {
		angle := start.Theta + (math.Abs(path[0])-math.Pi/2)*sign(path[0])
		ini = []float64{
			center0[0] + d.Radius*math.Cos(angle),
			center0[1] + d.Radius*math.Sin(angle),
		}
	}
	fin := []float64{end.X, end.Y}
	if math.Abs(path[1]) > 0 {
		angle := end.Theta + (-math.Abs(path[1])-math.Pi/2)*sign(path[1])
		fin = []float64{
			center2[0] + d.Radius*math.Cos(angle),
			center2[1] + d.Radius*math.Sin(angle),
		}
	}
	straightDist := math.Hypot(fin[0]-ini[0], fin[1]-ini[1])
	straightHeading := spatialmath.NormalizeAngle(start.Theta + path[0])

	poses := make([]spatialmath.Pose, 0, int(total/d.PointSeparation)+2)
	for x := 0.0; x < total; x += d.PointSeparation {
		switch {
		case x < math.Abs(path[0])*d.Radius:
			poses = append(poses, d.circleArc(start, path[0], center0, x))
		case x > total-math.Abs(path[1])*d.Radius:
			poses = append(poses, d.circleArc(end, path[1], center2, x-total))
		default:
			coeff := 0.0
			if straightDist > 0 {
				coeff = (x - math.Abs(path[0])*d.Radius) / straightDist
			}
			poses = append(poses, spatialmath.Pose{
				X:     coeff*fin[0] + (1-coeff)*ini[0],
				Y:     coeff*fin[1] + (1-coeff)*ini[1],
				Theta: straightHeading,
			})
		}
	}
	return append(poses, end)
}

func (d *Dubins) samplePosesCurve(start, end spatialmath.Pose, path []float64) []spatialmath.Pose {
	total := d.Radius * (math.Abs(path[0]) + math.Abs(path[1]) + math.Abs(path[2]))
	center0 := d.findCenter([]float64{start.X, start.Y, start.Theta}, path[0] > 0)
	center2 := d.findCenter([]float64{end.X, end.Y, end.Theta}, path[2] > 0)
	intercenter := planarDist(center0, center2)

	// Center of the middle circle: orthogonally offset from the midpoint of
	// the outer centers, on the side given by the first turn direction.
	ortho := []float64{
		-(center2[1] - center0[1]) / intercenter,
		(center2[0] - center0[0]) / intercenter,
	}
	offset := math.Sqrt(4*d.Radius*d.Radius - (intercenter/2)*(intercenter/2))
	center1 := []float64{
		(center0[0]+center2[0])/2 + sign(path[0])*ortho[0]*offset,
		(center0[1]+center2[1])/2 + sign(path[0])*ortho[1]*offset,
	}
	psi0 := math.Atan2(center1[1]-center0[1], center1[0]-center0[0]) - math.Pi

	poses := make([]spatialmath.Pose, 0, int(total/d.PointSeparation)+2)
	for x := 0.0; x < total; x += d.PointSeparation {
		switch {
		case x < math.Abs(path[0])*d.Radius:
			poses = append(poses, d.circleArc(start, path[0], center0, x))
		case x > total-math.Abs(path[2])*d.Radius:
			poses = append(poses, d.circleArc(end, path[2], center2, x-total))
		default:
			// Middle arc turns opposite to the first segment.
			angle := psi0 - sign(path[0])*(x/d.Radius-math.Abs(path[0]))
			poses = append(poses, spatialmath.Pose{
				X:     center1[0] + d.Radius*math.Cos(angle),
				Y:     center1[1] + d.Radius*math.Sin(angle),
				Theta: spatialmath.NormalizeAngle(angle - sign(path[0])*math.Pi/2),
			})
		}
	}
	return append(poses, end)
}

// circleArc returns the pose reached after x of arc length along a turn of
// direction sign(beta) around center, measured from the reference pose.
// Negative x measures backwards from the reference.
func (d *Dubins) circleArc(reference spatialmath.Pose, beta float64, center []float64, x float64) spatialmath.Pose {
	angle := reference.Theta + (x/d.Radius-math.Pi/2)*sign(beta)
	return spatialmath.Pose{
		X:     center[0] + d.Radius*math.Cos(angle),
		Y:     center[1] + d.Radius*math.Sin(angle),
		Theta: spatialmath.NormalizeAngle(reference.Theta + x/d.Radius*sign(beta)),
	}
}

func infeasibleDubinPath(mode string, straight bool) DubinPathAttr {
	inf := math.Inf(1)
	return DubinPathAttr{inf, []float64{inf, inf, inf}, straight, mode}
}

func planarDist(p1, p2 []float64) float64 {
	return math.Hypot(p1[0]-p2[0], p1[1]-p2[1])
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
