package strategies

import (
	"fmt"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
)

// Gap percentage above which a diversification strategy is emitted.
const diversificationGapThreshold = 30

// Generator emits optimization strategies conditioned on the latest gap
// analysis of a goal.
type Generator struct{}

// NewGenerator creates a new strategy generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate builds the strategy batch for a goal from its latest analysis.
// Emission is conditional: a contribution increase only when the current
// contribution falls short, diversification only when the gap is wide, and a
// cost reduction always.
func (g *Generator) Generate(goal domain.FinancialGoal, a gap.Analysis) []Strategy {
	var result []Strategy

	if a.ContributionGap > 0 {
		result = append(result, g.increaseContribution(goal, a))
	}

	result = append(result, g.reduceCosts(goal, a))

	if a.GapPercentage > diversificationGapThreshold {
		result = append(result, g.diversification(goal, a))
	}

	return result
}

func (g *Generator) increaseContribution(goal domain.FinancialGoal, a gap.Analysis) Strategy {
	return Strategy{
		GoalID:          goal.ID,
		AnalysisID:      a.ID,
		Name:            "Increase monthly contribution",
		Type:            domain.StrategyIncreaseContribution,
		Priority:        domain.PriorityHigh,
		ImpactScore:     85,
		EffortLevel:     "MEDIUM",
		TimeToImplement: "1 month",
		Description: fmt.Sprintf(
			"Raise the monthly contribution from %.2f to %.2f to close the gap within the goal's horizon",
			a.CurrentMonthlyContribution, a.RequiredMonthlyContribution),
		Steps: []Step{
			{
				Order:            1,
				Description:      "Review the monthly budget and identify the additional contribution capacity",
				SuccessCriterion: "A sustainable monthly amount is committed",
			},
			{
				Order:            2,
				Description:      "Update the automatic transfer to the new contribution amount",
				DependsOn:        []string{"budget review"},
				SuccessCriterion: "The new contribution is debited on schedule",
			},
		},
		Requirements: []Requirement{
			{Description: fmt.Sprintf("Free monthly cash flow of at least %.2f", a.ContributionGap), Met: false},
		},
		Risks: []RiskItem{
			{
				Description: "The higher contribution strains the monthly cash flow",
				Probability: "MEDIUM",
				Impact:      "MEDIUM",
				Mitigation:  "Ramp up gradually over 3 months instead of jumping at once",
			},
		},
	}
}

func (g *Generator) reduceCosts(goal domain.FinancialGoal, a gap.Analysis) Strategy {
	return Strategy{
		GoalID:          goal.ID,
		AnalysisID:      a.ID,
		Name:            "Reduce investment costs",
		Type:            domain.StrategyReduceCosts,
		Priority:        domain.PriorityMedium,
		ImpactScore:     60,
		EffortLevel:     "LOW",
		TimeToImplement: "2 weeks",
		Description:     "Audit commissions, custody fees and fund expense ratios; every saved basis point compounds toward the goal",
		Steps: []Step{
			{
				Order:            1,
				Description:      "Audit all recurring costs: broker commissions, custody fees, expense ratios",
				SuccessCriterion: "A cost report with concrete reduction candidates exists",
			},
		},
		Requirements: []Requirement{
			{Description: "Access to fee statements for all accounts", Met: true},
		},
		Risks: []RiskItem{
			{
				Description: "Switching providers interrupts contributions during the transfer",
				Probability: "LOW",
				Impact:      "LOW",
				Mitigation:  "Keep the old account funded until the new one is active",
			},
		},
	}
}

func (g *Generator) diversification(goal domain.FinancialGoal, a gap.Analysis) Strategy {
	return Strategy{
		GoalID:          goal.ID,
		AnalysisID:      a.ID,
		Name:            "Diversify the portfolio",
		Type:            domain.StrategyDiversification,
		Priority:        domain.PriorityMedium,
		ImpactScore:     70,
		EffortLevel:     "MEDIUM",
		TimeToImplement: "1 month",
		Description:     "With a wide gap, concentrated holdings put the goal at the mercy of a few positions; spread risk across uncorrelated assets",
		Steps: []Step{
			{
				Order:            1,
				Description:      "Run a correlation analysis across current holdings and flag clusters above 0.8",
				SuccessCriterion: "No pair of major holdings is correlated above 0.8",
			},
		},
		Requirements: []Requirement{
			{Description: "Position-level historical price data", Met: true},
		},
		Risks: []RiskItem{
			{
				Description: "Rebalancing into new assets realizes taxable gains",
				Probability: "MEDIUM",
				Impact:      "LOW",
				Mitigation:  "Prefer directing new contributions over selling existing positions",
			},
		},
	}
}
