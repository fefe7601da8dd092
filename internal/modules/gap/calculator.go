package gap

import (
	"math"
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/pkg/formulas"
)

// Calculator turns a goal plus a capital snapshot into gap metrics.
// It is pure: all inputs are passed in, including the reference time.
type Calculator struct {
	cfg config.OptimizerConfig
}

// NewCalculator creates a new gap calculator
func NewCalculator(cfg config.OptimizerConfig) *Calculator {
	return &Calculator{cfg: cfg}
}

// Calculate produces the gap metrics for a goal at the given point in time.
// The returned Analysis has no ID; ids and timestamps are assigned at
// persistence time.
func (c *Calculator) Calculate(goal domain.FinancialGoal, currentCapital float64, now time.Time) Analysis {
	target := goal.Target()
	monthlyReturn := goal.MonthlyReturn()

	a := Analysis{
		GoalID:                     goal.ID,
		AnalysisDate:               now,
		CurrentCapital:             currentCapital,
		TargetCapital:              target,
		GapAmount:                  target - currentCapital,
		CurrentMonthlyContribution: goal.MonthlyContribution,
	}

	if target > 0 {
		a.GapPercentage = a.GapAmount / target * 100
	}

	if goal.TargetDate != nil {
		months := c.monthsBetween(now, *goal.TargetDate)
		if months < 0 {
			months = 0
		}
		a.MonthsRemaining = &months
		a.RequiredMonthlyContribution = formulas.RequiredPayment(target, currentCapital, monthlyReturn, months)
	}

	a.ContributionGap = a.RequiredMonthlyContribution - goal.MonthlyContribution
	a.ProjectedCompletionDate = c.projectCompletion(currentCapital, target, goal.MonthlyContribution, monthlyReturn, now)
	a.DeviationFromPlan = c.deviationFromPlan(goal, currentCapital, now)
	a.RiskLevel = c.riskLevel(a.MonthsRemaining, a.GapPercentage)

	return a
}

// monthsBetween converts the distance between two dates to whole months
// using the configured days-per-month divisor.
func (c *Calculator) monthsBetween(from, to time.Time) int {
	days := to.Sub(from).Hours() / 24
	return int(math.Round(days / c.cfg.DaysPerMonth))
}

// projectCompletion simulates month-by-month compounding with the goal's
// current contribution. Returns nil when the contribution is non-positive or
// the target is not reached within the projection horizon.
func (c *Calculator) projectCompletion(capital, target, contribution, monthlyReturn float64, now time.Time) *time.Time {
	months, ok := formulas.MonthsToTarget(capital, target, contribution, monthlyReturn, c.cfg.ProjectionHorizonMonths)
	if !ok {
		return nil
	}
	date := now.AddDate(0, months, 0)
	return &date
}

// deviationFromPlan compares the current capital to what pure compounding of
// the planned contributions since the goal's creation would predict.
// Returns a signed percent, 0 when fewer than 1 month has elapsed.
func (c *Calculator) deviationFromPlan(goal domain.FinancialGoal, currentCapital float64, now time.Time) float64 {
	elapsed := c.monthsBetween(goal.CreatedDate, now)
	if elapsed < 1 {
		return 0
	}

	expected := formulas.AnnuityFutureValue(goal.MonthlyContribution, goal.MonthlyReturn(), elapsed)
	if expected <= 0 {
		return 0
	}

	return (currentCapital - expected) / expected * 100
}

// riskLevel buckets the gap percentage by horizon: the shorter the runway,
// the lower the tolerated gap.
func (c *Calculator) riskLevel(monthsRemaining *int, gapPct float64) domain.RiskLevel {
	t := c.cfg.Risk

	var low, medium float64
	switch {
	case monthsRemaining == nil || *monthsRemaining > t.LongHorizonMonths:
		low, medium = t.LongLow, t.LongMedium
	case *monthsRemaining > t.MediumHorizonMonths:
		low, medium = t.MediumLow, t.MediumMedium
	default:
		low, medium = t.ShortLow, t.ShortMedium
	}

	switch {
	case gapPct < low:
		return domain.RiskLow
	case gapPct < medium:
		return domain.RiskMedium
	default:
		return domain.RiskHigh
	}
}
