// Package gap implements the goal gap analysis: how far a goal is from its
// target, what contribution closes the distance, and how risky the current
// trajectory is.
package gap

import (
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Analysis is one gap analysis run for a goal. Rows are append-only; the
// latest run is the one with the most recent analysis date.
type Analysis struct {
	ID                          string           `json:"id"`
	GoalID                      string           `json:"goal_id"`
	AnalysisDate                time.Time        `json:"analysis_date"`
	CurrentCapital              float64          `json:"current_capital"`
	TargetCapital               float64          `json:"target_capital"`
	GapAmount                   float64          `json:"gap_amount"`
	GapPercentage               float64          `json:"gap_percentage"`
	CurrentMonthlyContribution  float64          `json:"current_monthly_contribution"`
	RequiredMonthlyContribution float64          `json:"required_monthly_contribution"`
	ContributionGap             float64          `json:"contribution_gap"`
	MonthsRemaining             *int             `json:"months_remaining,omitempty"`
	ProjectedCompletionDate     *time.Time       `json:"projected_completion_date,omitempty"`
	DeviationFromPlan           float64          `json:"deviation_from_plan"`
	RiskLevel                   domain.RiskLevel `json:"risk_level"`
	Details                     Details          `json:"details"`
}

// Details carries the secondary diagnostics derived from an analysis.
type Details struct {
	CurrentMonthlyPerformance  float64              `json:"current_monthly_performance"`
	RequiredMonthlyPerformance float64              `json:"required_monthly_performance"`
	PerformanceGap             float64              `json:"performance_gap"`
	HistoricalVolatility       float64              `json:"historical_volatility"`
	SuccessProbability         float64              `json:"success_probability"`
	ConfidenceInterval         ConfidenceInterval   `json:"confidence_interval"`
	ContributingFactors        []ContributingFactor `json:"contributing_factors"`
	Recommendations            []string             `json:"recommendations"`
}

// ConfidenceInterval bounds the months-to-goal estimate.
type ConfidenceInterval struct {
	LowerMonths float64 `json:"lower_months"`
	UpperMonths float64 `json:"upper_months"`
	Confidence  float64 `json:"confidence"` // percent
}

// ContributingFactor is one weighted component of the gap breakdown.
// Weights across all factors sum to 100.
type ContributingFactor struct {
	Factor      string  `json:"factor"`
	Weight      float64 `json:"weight"`
	Description string  `json:"description"`
}
