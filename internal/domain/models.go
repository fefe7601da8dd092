// Package domain contains the shared entities of the goal optimizer.
// The domain layer is pure: no database, HTTP or logging dependencies.
package domain

import "time"

// RiskLevel classifies how endangered a goal is given its gap and horizon.
type RiskLevel string

const (
	RiskLow    RiskLevel = "LOW"
	RiskMedium RiskLevel = "MEDIUM"
	RiskHigh   RiskLevel = "HIGH"
)

// StrategyType identifies the lever an optimization strategy pulls.
type StrategyType string

const (
	StrategyIncreaseContribution StrategyType = "INCREASE_CONTRIBUTION"
	StrategyReduceCosts          StrategyType = "REDUCE_COSTS"
	StrategyDiversification      StrategyType = "DIVERSIFICATION"
)

// StrategyPriority orders strategies for presentation.
type StrategyPriority string

const (
	PriorityLow    StrategyPriority = "LOW"
	PriorityMedium StrategyPriority = "MEDIUM"
	PriorityHigh   StrategyPriority = "HIGH"
)

// PlanType identifies how aggressive a contribution plan is.
type PlanType string

const (
	PlanConservative PlanType = "CONSERVATIVE"
	PlanModerate     PlanType = "MODERATE"
	PlanAggressive   PlanType = "AGGRESSIVE"
	PlanCustom       PlanType = "CUSTOM"
)

// MilestoneType distinguishes percentage checkpoints from calendar ones.
type MilestoneType string

const (
	MilestonePercentage MilestoneType = "PERCENTAGE"
	MilestoneTimeBased  MilestoneType = "TIME_BASED"
)

// Difficulty grades how hard a milestone is to reach.
type Difficulty string

const (
	DifficultyEasy        Difficulty = "EASY"
	DifficultyModerate    Difficulty = "MODERATE"
	DifficultyChallenging Difficulty = "CHALLENGING"
	DifficultyAmbitious   Difficulty = "AMBITIOUS"
)

// FinancialGoal is the authoritative goal record. TargetAmount is nil for
// pure return-rate goals; TargetDate is nil for open-ended goals.
// ExpectedReturnRate is an annual decimal percent (10 means 10%/yr), so the
// monthly rate is ExpectedReturnRate / 1200.
type FinancialGoal struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	TargetAmount        *float64   `json:"target_amount,omitempty"`
	TargetDate          *time.Time `json:"target_date,omitempty"`
	MonthlyContribution float64    `json:"monthly_contribution"`
	ExpectedReturnRate  float64    `json:"expected_return_rate"`
	Currency            string     `json:"currency"`
	CreatedDate         time.Time  `json:"created_date"`
}

// MonthlyReturn converts the annual percent rate to a monthly decimal rate.
func (g FinancialGoal) MonthlyReturn() float64 {
	return g.ExpectedReturnRate / 1200
}

// Target returns the target amount, or 0 when the goal has none.
func (g FinancialGoal) Target() float64 {
	if g.TargetAmount == nil {
		return 0
	}
	return *g.TargetAmount
}
