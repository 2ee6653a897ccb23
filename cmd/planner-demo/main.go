// Package main contains a demo driving a car-like vehicle through a field
// with static and moving obstacles using the anytime Dubins RRT planner.
package main

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"go.viam.com/utils"

	"github.com/dgsim/anytimerrt/motionplan"
	"github.com/dgsim/anytimerrt/scenario"
	"github.com/dgsim/anytimerrt/spatialmath"
	"github.com/dgsim/anytimerrt/vehicle"
)

var logger = golog.NewDevelopmentLogger("planner-demo")

func main() {
	utils.ContextualMain(mainWithArgs, logger)
}

// Arguments for the command.
type Arguments struct {
	Seed    int `flag:"seed,default=42,usage=random seed"`
	MaxIter int `flag:"max-iter,default=500,usage=planning iterations"`
	Ticks   int `flag:"ticks,default=200,usage=maximum control ticks"`
}

func mainWithArgs(ctx context.Context, args []string, logger golog.Logger) error {
	var argsParsed Arguments
	if err := utils.ParseFlags(args, &argsParsed); err != nil {
		return err
	}
	return runDemo(ctx, argsParsed, logger)
}

func runDemo(ctx context.Context, args Arguments, logger golog.Logger) error {
	start := spatialmath.NewPose(0, 0, 0)
	goalPose := spatialmath.NewPose(20, 20, 0)
	bounds := motionplan.Bounds{MinX: -2, MaxX: 25, MinY: -2, MaxY: 25}

	field := &scenario.Field{
		Obstacles: []scenario.Obstacle{
			&scenario.Circle{Center: r3.Vector{X: 10, Y: 8}, Radius: 2},
			&scenario.Circle{Center: r3.Vector{X: 4, Y: 14}, Radius: 1.5, Velocity: r3.Vector{X: 0.4}},
			&scenario.Box{Center: r3.Vector{X: 16, Y: 14}, HalfDims: r3.Vector{X: 1, Y: 3}},
		},
		SafetyMargin: 0.5,
	}
	goal := &scenario.Goal{Pose: goalPose, Radius: 1.5}

	opts := motionplan.NewPlannerOptions()
	opts.Seed = int64(args.Seed)
	opts.MaxIter = args.MaxIter

	planner, err := motionplan.NewAnytimeDubinsPlanner(start, goalPose, goal, bounds, field, opts, logger)
	if err != nil {
		return err
	}

	path, err := planner.Planning()
	if err != nil {
		return err
	}
	if path == nil {
		logger.Warn("no initial path found, expanding while holding position")
	} else {
		logger.Infof("initial path: %d poses, length %.2f", len(path.Poses), path.Length)
	}

	c := clock.New()
	ticker := c.Ticker(50 * time.Millisecond)
	defer ticker.Stop()

	current := start
	for tick := 0; tick < args.Ticks; tick++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		if goal.IsFulfilled(vehicle.StateFromPose(current)) {
			logger.Infof("goal reached after %d ticks at (%.2f, %.2f)", tick, current.X, current.Y)
			return nil
		}

		// Advance the vehicle a few poses along the committed path, then
		// let the world move before replanning against it.
		if path != nil && len(path.Poses) > 1 {
			advance := 5
			if advance > len(path.Poses)-1 {
				advance = len(path.Poses) - 1
			}
			current = path.Poses[advance]
		}
		field.Step(0.05)

		path, err = planner.Replanning(current)
		if err != nil {
			return err
		}
		if path == nil {
			logger.Debugf("tick %d: path invalidated, replanning from (%.2f, %.2f)", tick, current.X, current.Y)
			if path, err = planner.Planning(); err != nil {
				return err
			}
		}
		if err = planner.ExpandTree(); err != nil {
			return err
		}
		logger.Debugf("tick %d: tree size %d", tick, planner.Tree().Len())
	}
	logger.Warn("tick budget exhausted before reaching the goal")
	return nil
}
