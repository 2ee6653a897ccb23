package motionplan

// default values for planning options.
const (
	// Number of sampling iterations before a Planning call gives up.
	defaultMaxIter = 500

	// Percent chance of sampling the goal pose instead of a random pose.
	defaultGoalSampleRate = 10

	// Steer truncation distance keeping new branches local.
	defaultExpandDis = 3.0

	// Arc-length spacing of sampled path poses.
	defaultPathResolution = 0.5

	// Maximum path curvature, the inverse of the minimum turning radius.
	defaultCurvature = 1.0

	// Number of growth iterations per ExpandTree call.
	defaultExpandIter = 50
)

// PlannerOptions specify how an anytime planner solves its problem. They
// are immutable for the planner's lifetime.
type PlannerOptions struct {
	// MaxIter bounds the number of sampling iterations in one Planning
	// call. It is the sole bounding mechanism; there are no timeouts.
	MaxIter int `json:"max_iter"`

	// GoalSampleRate is the percent chance (0-100) of sampling the exact
	// goal pose instead of a uniform random pose.
	GoalSampleRate int `json:"goal_sample_rate"`

	// ExpandDis truncates each steer so new branches stay local.
	ExpandDis float64 `json:"expand_dis"`

	// PathResolution is the arc-length spacing of sampled path poses.
	PathResolution float64 `json:"path_resolution"`

	// SearchUntilMaxIter disables the early return on the first goal hit,
	// spending the full iteration budget to improve the result.
	SearchUntilMaxIter bool `json:"search_until_max_iter"`

	// Seed initializes the planner's random source. It is applied exactly
	// once at construction and never reseeded, so identical seeds with
	// identical scenarios reproduce identical trees.
	Seed int64 `json:"seed"`

	// Curvature is the maximum path curvature (1 / minimum turning
	// radius).
	Curvature float64 `json:"curvature"`

	// ExpandIter is the number of growth iterations per ExpandTree call.
	ExpandIter int `json:"expand_iter"`
}

// NewPlannerOptions specifies a set of basic options for the planner.
func NewPlannerOptions() *PlannerOptions {
	return &PlannerOptions{
		MaxIter:        defaultMaxIter,
		GoalSampleRate: defaultGoalSampleRate,
		ExpandDis:      defaultExpandDis,
		PathResolution: defaultPathResolution,
		Curvature:      defaultCurvature,
		ExpandIter:     defaultExpandIter,
	}
}
