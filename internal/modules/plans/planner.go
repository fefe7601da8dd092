package plans

import (
	"math"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
)

// Planner builds contribution plans from a goal and its latest gap analysis.
type Planner struct{}

// NewPlanner creates a new contribution planner
func NewPlanner() *Planner {
	return &Planner{}
}

// Build emits the plan set for a goal: conservative and moderate always, plus
// an aggressive plan when the required contribution exceeds the current base.
// The base contribution is always taken fresh from the goal so plans built
// after a contribution change stay consistent, and optimized amounts are
// non-decreasing from conservative to aggressive.
func (p *Planner) Build(goal domain.FinancialGoal, a gap.Analysis) []Plan {
	base := goal.MonthlyContribution
	required := a.RequiredMonthlyContribution

	conservative := p.conservative(goal, a, base)
	moderate := p.moderate(goal, a, base, required)

	result := []Plan{conservative, moderate}

	if required > base {
		result = append(result, p.aggressive(goal, a, base, required, moderate.OptimizedContribution))
	}

	return result
}

func (p *Planner) conservative(goal domain.FinancialGoal, a gap.Analysis, base float64) Plan {
	optimized := math.Max(base, base*1.10)

	return Plan{
		GoalID:                goal.ID,
		AnalysisID:            a.ID,
		Name:                  "Conservative plan",
		Type:                  domain.PlanConservative,
		BaseContribution:      base,
		OptimizedContribution: optimized,
		ContributionIncrease:  optimized - base,
		BonusContributions: []BonusContribution{
			{Month: 12, Amount: base * 0.50, Source: "year-end bonus", Probability: 0.85},
		},
		SeasonalAdjustments: []SeasonalAdjustment{
			{StartMonth: 1, EndMonth: 2, Factor: 0.9, Reason: "high-expense months"},
		},
		AffordabilityScore: 90,
		SuccessProbability: 0.85,
	}
}

func (p *Planner) moderate(goal domain.FinancialGoal, a gap.Analysis, base, required float64) Plan {
	optimized := math.Max(base*1.25, (base+required)/2)

	return Plan{
		GoalID:                goal.ID,
		AnalysisID:            a.ID,
		Name:                  "Moderate plan",
		Type:                  domain.PlanModerate,
		BaseContribution:      base,
		OptimizedContribution: optimized,
		ContributionIncrease:  optimized - base,
		BonusContributions: []BonusContribution{
			{Month: 6, Amount: base * 0.50, Source: "mid-year bonus", Probability: 0.85},
			{Month: 12, Amount: base * 1.00, Source: "year-end bonus", Probability: 0.85},
		},
		AffordabilityScore: 70,
		SuccessProbability: 0.70,
	}
}

func (p *Planner) aggressive(goal domain.FinancialGoal, a gap.Analysis, base, required, moderateOptimized float64) Plan {
	// Target the required contribution outright, but never below the
	// moderate plan: optimized amounts stay ordered by aggressiveness.
	optimized := math.Max(required, moderateOptimized)

	return Plan{
		GoalID:                goal.ID,
		AnalysisID:            a.ID,
		Name:                  "Aggressive plan",
		Type:                  domain.PlanAggressive,
		BaseContribution:      base,
		OptimizedContribution: optimized,
		ContributionIncrease:  optimized - base,
		BonusContributions: []BonusContribution{
			{Month: 3, Amount: base * 0.30, Source: "quarterly savings sweep", Probability: 0.60},
			{Month: 6, Amount: base * 0.50, Source: "mid-year bonus", Probability: 0.85},
			{Month: 9, Amount: base * 0.30, Source: "quarterly savings sweep", Probability: 0.60},
			{Month: 12, Amount: base * 1.00, Source: "year-end bonus", Probability: 0.85},
		},
		AffordabilityScore: 50,
		SuccessProbability: 0.55,
	}
}
