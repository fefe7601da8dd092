package milestones

import (
	"fmt"
	"math"
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Percentage breakpoints every goal with a target amount receives.
var percentageBreakpoints = []float64{10, 25, 50, 75, 90}

// motivations keyed by breakpoint; anything else gets the generic fallback.
var motivations = map[float64]string{
	10: "First step taken, the habit is forming",
	25: "A quarter of the way there, momentum is real",
	50: "Halfway point reached, the hardest part is behind you",
	75: "Three quarters done, the finish line is in sight",
	90: "Almost there, one final push",
}

const genericMotivation = "Another step closer to the goal"

// Calendar checkpoints: only for goals more than a year out, at most 4.
const (
	minMonthsForTimeBased = 12
	maxTimeBasedIntervals = 4
)

// Generator emits the milestone set for a goal.
type Generator struct {
	cfg config.OptimizerConfig
}

// NewGenerator creates a new milestone generator
func NewGenerator(cfg config.OptimizerConfig) *Generator {
	return &Generator{cfg: cfg}
}

// Generate builds percentage milestones and, for goals dated more than a year
// out, evenly spaced calendar milestones. Percentage milestones come first,
// matching the persisted ordering. Returns domain.ErrNoTargetAmount when the
// goal has no target amount.
func (g *Generator) Generate(goal domain.FinancialGoal, now time.Time) ([]Milestone, error) {
	if goal.TargetAmount == nil {
		return nil, fmt.Errorf("goal %s: %w", goal.ID, domain.ErrNoTargetAmount)
	}
	target := *goal.TargetAmount

	var result []Milestone

	for _, pct := range percentageBreakpoints {
		amount := target * pct / 100
		percentage := pct

		result = append(result, Milestone{
			GoalID:           goal.ID,
			Name:             fmt.Sprintf("%.0f%% of target", pct),
			Type:             domain.MilestonePercentage,
			TargetAmount:     &amount,
			TargetPercentage: &percentage,
			Difficulty:       difficultyFor(pct),
			Motivation:       motivationFor(pct),
		})
	}

	result = append(result, g.timeBased(goal, now)...)

	return result, nil
}

func (g *Generator) timeBased(goal domain.FinancialGoal, now time.Time) []Milestone {
	if goal.TargetDate == nil {
		return nil
	}

	days := goal.TargetDate.Sub(now).Hours() / 24
	monthsToGoal := int(math.Round(days / g.cfg.DaysPerMonth))
	if monthsToGoal <= minMonthsForTimeBased {
		return nil
	}

	intervals := monthsToGoal / 12
	if intervals > maxTimeBasedIntervals {
		intervals = maxTimeBasedIntervals
	}

	var result []Milestone
	for i := 1; i <= intervals; i++ {
		offset := int(math.Round(float64(monthsToGoal) * float64(i) / float64(intervals)))
		date := now.AddDate(0, offset, 0)

		result = append(result, Milestone{
			GoalID:     goal.ID,
			Name:       fmt.Sprintf("Checkpoint %d of %d", i, intervals),
			Type:       domain.MilestoneTimeBased,
			TargetDate: &date,
			Difficulty: domain.DifficultyModerate,
			Motivation: genericMotivation,
		})
	}

	return result
}

func difficultyFor(pct float64) domain.Difficulty {
	switch {
	case pct <= 25:
		return domain.DifficultyEasy
	case pct <= 50:
		return domain.DifficultyModerate
	case pct <= 75:
		return domain.DifficultyChallenging
	default:
		return domain.DifficultyAmbitious
	}
}

func motivationFor(pct float64) string {
	if m, ok := motivations[pct]; ok {
		return m
	}
	return genericMotivation
}
