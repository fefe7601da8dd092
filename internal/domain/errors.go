package domain

import "errors"

// Sentinel errors shared across modules. Repositories and services return
// these wrapped with context; the HTTP layer maps them to status codes.
var (
	// ErrGoalNotFound is returned when a goal id does not exist.
	ErrGoalNotFound = errors.New("goal not found")

	// ErrNoGapAnalysis is returned when strategies, plans or a summary are
	// requested for a goal that has never had a gap analysis run.
	ErrNoGapAnalysis = errors.New("no gap analysis exists for goal, run gap analysis first")

	// ErrNoTargetAmount is returned when milestone generation is requested
	// for a goal without a target amount.
	ErrNoTargetAmount = errors.New("goal has no target amount")

	// ErrPlanNotFound is returned when a contribution plan id does not exist
	// for the goal.
	ErrPlanNotFound = errors.New("contribution plan not found")

	// ErrValidation is returned when caller-supplied input is malformed.
	ErrValidation = errors.New("validation failed")
)
