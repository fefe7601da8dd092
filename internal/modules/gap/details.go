package gap

import (
	"fmt"
	"math"
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/pkg/formulas"
)

// Success probability heuristic: a 70% baseline adjusted by gap size and
// horizon, clamped to [10, 95].
const (
	baseSuccessProbability = 70
	smallGapBonus          = 15 // gap% under 20
	largeGapPenalty        = 25 // gap% over 60
	longHorizonBonus       = 10 // more than 120 months left
	shortHorizonPenalty    = 15 // fewer than 36 months left
	minSuccessProbability  = 10
	maxSuccessProbability  = 95
)

// Confidence interval on the months-to-goal estimate: ±20% at 80% confidence.
const (
	intervalUpperFactor = 1.2
	intervalLowerFactor = 0.8
	intervalConfidence  = 80
)

// Expander derives the secondary diagnostics of a gap analysis.
type Expander struct {
	cfg config.OptimizerConfig
}

// NewExpander creates a new details expander
func NewExpander(cfg config.OptimizerConfig) *Expander {
	return &Expander{cfg: cfg}
}

// Expand computes the details block for an analysis. deviationHistory holds
// the deviation-from-plan values of the goal's previous analysis runs and
// feeds the volatility contributing factor; it may be empty.
func (e *Expander) Expand(goal domain.FinancialGoal, a Analysis, deviationHistory []float64, now time.Time) Details {
	currentPerf := goal.MonthlyReturn() * 100
	requiredPerf := a.RequiredMonthlyContribution / math.Max(a.CurrentCapital, 1) * 100

	d := Details{
		CurrentMonthlyPerformance:  currentPerf,
		RequiredMonthlyPerformance: requiredPerf,
		PerformanceGap:             requiredPerf - currentPerf,
		HistoricalVolatility:       e.cfg.HistoricalVolatility,
		SuccessProbability:         e.successProbability(a),
		ConfidenceInterval:         e.confidenceInterval(a),
		ContributingFactors:        e.contributingFactors(goal, a, deviationHistory, now),
		Recommendations:            e.recommendations(a),
	}

	return d
}

func (e *Expander) successProbability(a Analysis) float64 {
	probability := float64(baseSuccessProbability)

	if a.GapPercentage < 20 {
		probability += smallGapBonus
	}
	if a.GapPercentage > 60 {
		probability -= largeGapPenalty
	}
	if a.MonthsRemaining == nil || *a.MonthsRemaining > 120 {
		probability += longHorizonBonus
	} else if *a.MonthsRemaining < 36 {
		probability -= shortHorizonPenalty
	}

	return formulas.Clamp(probability, minSuccessProbability, maxSuccessProbability)
}

func (e *Expander) confidenceInterval(a Analysis) ConfidenceInterval {
	if a.MonthsRemaining == nil {
		return ConfidenceInterval{Confidence: intervalConfidence}
	}
	months := float64(*a.MonthsRemaining)
	return ConfidenceInterval{
		LowerMonths: months * intervalLowerFactor,
		UpperMonths: months * intervalUpperFactor,
		Confidence:  intervalConfidence,
	}
}

// contributingFactors breaks the gap down into four deterministic components
// and normalizes their weights to sum to 100.
func (e *Expander) contributingFactors(goal domain.FinancialGoal, a Analysis, deviationHistory []float64, now time.Time) []ContributingFactor {
	market := math.Abs(a.DeviationFromPlan)

	consistency := 0.0
	if a.RequiredMonthlyContribution > 0 && a.ContributionGap > 0 {
		consistency = formulas.Clamp(a.ContributionGap/a.RequiredMonthlyContribution*100, 0, 100)
	}

	elapsedDays := now.Sub(goal.CreatedDate).Hours() / 24
	elapsedMonths := elapsedDays / e.cfg.DaysPerMonth
	timeInMarket := formulas.Clamp(elapsedMonths, 0, 120) / 120 * 100

	volatility := formulas.StdDev(deviationHistory)

	factors := []ContributingFactor{
		{Factor: "market_performance", Weight: market,
			Description: "Portfolio return relative to the planned trajectory"},
		{Factor: "contribution_consistency", Weight: consistency,
			Description: "Shortfall of the current contribution versus the required one"},
		{Factor: "time_in_market", Weight: timeInMarket,
			Description: "Months the goal has been compounding"},
		{Factor: "plan_volatility", Weight: volatility,
			Description: "Dispersion of past deviations from plan"},
	}

	total := 0.0
	for _, f := range factors {
		total += f.Weight
	}
	if total == 0 {
		for i := range factors {
			factors[i].Weight = 100.0 / float64(len(factors))
		}
		return factors
	}
	for i := range factors {
		factors[i].Weight = factors[i].Weight / total * 100
	}

	return factors
}

func (e *Expander) recommendations(a Analysis) []string {
	var recs []string

	if a.ContributionGap > 0 {
		recs = append(recs, fmt.Sprintf(
			"Increase the monthly contribution by %.2f to stay on track", a.ContributionGap))
	}
	if a.GapPercentage > 50 {
		recs = append(recs,
			"The gap is large: consider lowering the target amount or extending the deadline")
	}
	if a.MonthsRemaining != nil && *a.MonthsRemaining < 24 && a.GapPercentage > 20 {
		recs = append(recs,
			"The deadline is close with a sizable gap remaining: review the goal's feasibility")
	}
	if a.DeviationFromPlan < -10 {
		recs = append(recs,
			"The portfolio is lagging the planned trajectory: review the expected return assumption")
	}

	recs = append(recs,
		"Review recurring expenses for additional savings capacity",
		"Automate contributions so no month is skipped")

	return recs
}
