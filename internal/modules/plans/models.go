// Package plans builds and persists contribution plans: staged schedules of
// monthly contributions and probabilistic bonuses at several aggressiveness
// levels.
package plans

import (
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Plan is one contribution plan for a goal. At most one plan per goal is
// active at a time; the orchestrator enforces this, not the planner.
type Plan struct {
	ID                     string               `json:"id"`
	GoalID                 string               `json:"goal_id"`
	AnalysisID             string               `json:"analysis_id"`
	Name                   string               `json:"name"`
	Type                   domain.PlanType      `json:"type"`
	BaseContribution       float64              `json:"base_contribution"`
	OptimizedContribution  float64              `json:"optimized_contribution"`
	ContributionIncrease   float64              `json:"contribution_increase"`
	BonusContributions     []BonusContribution  `json:"bonus_contributions"`
	SeasonalAdjustments    []SeasonalAdjustment `json:"seasonal_adjustments,omitempty"`
	AffordabilityScore     float64              `json:"affordability_score"`
	SuccessProbability     float64              `json:"success_probability"`
	IsActive               bool                 `json:"is_active"`
	CreatedAt              time.Time            `json:"created_at"`
}

// BonusContribution is an extra contribution expected in a given month of the
// year with some probability.
type BonusContribution struct {
	Month       int     `json:"month"` // 1-12
	Amount      float64 `json:"amount"`
	Source      string  `json:"source"`
	Probability float64 `json:"probability"` // 0-1
}

// SeasonalAdjustment dampens or boosts contributions over a span of months.
type SeasonalAdjustment struct {
	StartMonth int     `json:"start_month"` // 1-12
	EndMonth   int     `json:"end_month"`
	Factor     float64 `json:"factor"`
	Reason     string  `json:"reason"`
}
