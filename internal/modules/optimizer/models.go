// Package optimizer orchestrates the goal optimization pipeline: gap
// analysis, strategy generation, contribution planning, milestone tracking
// and the aggregated health summary.
package optimizer

import (
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/milestones"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/plans"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/strategies"
)

// Summary is the aggregated read-model for one goal: the latest analysis plus
// everything derived from it and an overall health score.
type Summary struct {
	GoalID             string                  `json:"goal_id" msgpack:"goal_id"`
	GeneratedAt        time.Time               `json:"generated_at" msgpack:"generated_at"`
	LatestAnalysis     gap.Analysis            `json:"latest_analysis" msgpack:"latest_analysis"`
	Strategies         []strategies.Strategy   `json:"strategies" msgpack:"strategies"`
	Plans              []plans.Plan            `json:"plans" msgpack:"plans"`
	ActivePlan         *plans.Plan             `json:"active_plan,omitempty" msgpack:"active_plan,omitempty"`
	Milestones         []milestones.Milestone  `json:"milestones" msgpack:"milestones"`
	AchievedMilestones int                     `json:"achieved_milestones" msgpack:"achieved_milestones"`
	OverallScore       int                     `json:"overall_score" msgpack:"overall_score"`
	NextActions        []string                `json:"next_actions" msgpack:"next_actions"`
}

// Recommendations pairs the latest analysis recommendations with the derived
// next actions for a goal.
type Recommendations struct {
	GoalID          string   `json:"goal_id"`
	AnalysisID      string   `json:"analysis_id"`
	Recommendations []string `json:"recommendations"`
	NextActions     []string `json:"next_actions"`
}
