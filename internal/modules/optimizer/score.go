package optimizer

import (
	"fmt"
	"math"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/milestones"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/strategies"
	"github.com/DiegoMartinotti/cedears-manager-sub004/pkg/formulas"
)

const maxNextActions = 5

// ScoreAggregator composes the 0-100 optimization health score and the
// ordered next-action list from a goal's latest state.
type ScoreAggregator struct {
	weights config.ScoreWeights
}

// NewScoreAggregator creates a new score aggregator
func NewScoreAggregator(weights config.ScoreWeights) *ScoreAggregator {
	return &ScoreAggregator{weights: weights}
}

// Score computes the health score. It starts from the base, rewards a small
// gap and low risk, penalizes the opposites, and credits generated
// strategies, active plans and achieved milestones.
func (s *ScoreAggregator) Score(
	analysis gap.Analysis,
	strategyCount int,
	activePlanCount int,
	ms []milestones.Milestone,
) int {
	w := s.weights
	score := w.Base

	switch {
	case analysis.GapPercentage < w.SmallGapLimit:
		score += w.SmallGapBonus
	case analysis.GapPercentage > w.LargeGapLimit:
		score -= w.LargeGapPenalty
	}

	switch analysis.RiskLevel {
	case domain.RiskLow:
		score += w.LowRiskBonus
	case domain.RiskHigh:
		score -= w.HighRiskPenalty
	}

	score += math.Min(w.StrategyCap, float64(strategyCount)*w.StrategyPoints)
	score += math.Min(w.ActivePlanCap, float64(activePlanCount)*w.ActivePlanPoints)

	if len(ms) > 0 {
		achieved := 0
		for _, m := range ms {
			if m.IsAchieved {
				achieved++
			}
		}
		score += float64(achieved) / float64(len(ms)) * w.MilestoneWeight
	}

	return int(math.Round(formulas.Clamp(score, 0, 100)))
}

// NextActions derives the suggested next steps in priority order, capped at
// five entries. The fallback entry keeps the list non-empty for healthy goals.
func (s *ScoreAggregator) NextActions(
	analysis gap.Analysis,
	strats []strategies.Strategy,
) []string {
	var actions []string

	if analysis.ContributionGap > 0 {
		actions = append(actions, fmt.Sprintf(
			"Increase monthly contribution by %.2f to stay on track", analysis.ContributionGap))
	}
	if analysis.RiskLevel == domain.RiskHigh {
		actions = append(actions,
			"Revisit the target date or target amount, the current trajectory is high risk")
	}
	for _, st := range strats {
		if st.Priority == domain.PriorityHigh && !st.IsApplied {
			actions = append(actions, fmt.Sprintf("Apply strategy: %s", st.Name))
			break
		}
	}
	if len(actions) == 0 {
		actions = append(actions, "Continue monitoring, the goal is on track")
	}

	if len(actions) > maxNextActions {
		actions = actions[:maxNextActions]
	}
	return actions
}
