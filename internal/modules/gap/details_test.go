package gap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

func baseAnalysis() Analysis {
	return Analysis{
		GoalID:                      "goal-1",
		CurrentCapital:              25000,
		TargetCapital:               100000,
		GapAmount:                   75000,
		GapPercentage:               75,
		CurrentMonthlyContribution:  1000,
		RequiredMonthlyContribution: 2600,
		ContributionGap:             1600,
		RiskLevel:                   domain.RiskHigh,
	}
}

func TestExpand_PerformanceFields(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())
	now := time.Now().UTC()
	goal := testGoal(100000, nil, 1000, 12, now.AddDate(-1, 0, 0))

	d := e.Expand(goal, baseAnalysis(), nil, now)

	assert.InDelta(t, 1.0, d.CurrentMonthlyPerformance, 1e-9) // 12%/yr = 1%/mo
	assert.InDelta(t, 2600.0/25000*100, d.RequiredMonthlyPerformance, 1e-9)
	assert.InDelta(t, d.RequiredMonthlyPerformance-d.CurrentMonthlyPerformance, d.PerformanceGap, 1e-9)
	assert.Equal(t, 15.0, d.HistoricalVolatility)
}

func TestExpand_RequiredPerformanceGuardsZeroCapital(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())
	now := time.Now().UTC()
	goal := testGoal(100000, nil, 1000, 12, now)

	a := baseAnalysis()
	a.CurrentCapital = 0
	d := e.Expand(goal, a, nil, now)

	// Divides by max(capital, 1), never by zero.
	assert.InDelta(t, 2600.0*100, d.RequiredMonthlyPerformance, 1e-9)
}

func TestSuccessProbability(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())

	// Small gap on a long horizon: 70 + 15 + 10 = 95.
	a := baseAnalysis()
	a.GapPercentage = 10
	a.MonthsRemaining = intPtr(150)
	assert.Equal(t, 95.0, e.successProbability(a))

	// Huge gap on a short horizon: 70 - 25 - 15 = 30.
	a = baseAnalysis()
	a.GapPercentage = 80
	a.MonthsRemaining = intPtr(12)
	assert.Equal(t, 30.0, e.successProbability(a))

	// No deadline counts as a long horizon.
	a = baseAnalysis()
	a.GapPercentage = 40
	a.MonthsRemaining = nil
	assert.Equal(t, 80.0, e.successProbability(a))
}

func TestSuccessProbability_Clamped(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())

	for gapPct := 0.0; gapPct <= 100; gapPct += 10 {
		for _, months := range []*int{nil, intPtr(10), intPtr(50), intPtr(150)} {
			a := baseAnalysis()
			a.GapPercentage = gapPct
			a.MonthsRemaining = months
			p := e.successProbability(a)
			assert.GreaterOrEqual(t, p, 10.0)
			assert.LessOrEqual(t, p, 95.0)
		}
	}
}

func TestConfidenceInterval(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())

	a := baseAnalysis()
	a.MonthsRemaining = intPtr(24)
	ci := e.confidenceInterval(a)
	assert.InDelta(t, 19.2, ci.LowerMonths, 1e-9)
	assert.InDelta(t, 28.8, ci.UpperMonths, 1e-9)
	assert.Equal(t, 80.0, ci.Confidence)

	a.MonthsRemaining = nil
	ci = e.confidenceInterval(a)
	assert.Equal(t, 0.0, ci.LowerMonths)
	assert.Equal(t, 0.0, ci.UpperMonths)
}

func TestContributingFactors_SumToHundred(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())
	now := time.Now().UTC()
	goal := testGoal(100000, nil, 1000, 10, now.AddDate(-2, 0, 0))

	a := baseAnalysis()
	a.DeviationFromPlan = -12.5

	d := e.Expand(goal, a, []float64{-5, -8, -12.5}, now)
	require.Len(t, d.ContributingFactors, 4)

	total := 0.0
	for _, f := range d.ContributingFactors {
		total += f.Weight
	}
	assert.InDelta(t, 100, total, 1e-6)
}

func TestContributingFactors_Deterministic(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())
	now := time.Now().UTC()
	goal := testGoal(100000, nil, 1000, 10, now.AddDate(-1, 0, 0))
	history := []float64{-3, 2, -7}

	first := e.Expand(goal, baseAnalysis(), history, now)
	second := e.Expand(goal, baseAnalysis(), history, now)
	assert.Equal(t, first.ContributingFactors, second.ContributingFactors)
}

func TestContributingFactors_AllZeroFallsBackToEqualWeights(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())
	now := time.Now().UTC()
	goal := testGoal(100000, nil, 1000, 10, now)

	a := Analysis{GoalID: "goal-1", TargetCapital: 100000}
	d := e.Expand(goal, a, nil, now)

	require.Len(t, d.ContributingFactors, 4)
	for _, f := range d.ContributingFactors {
		assert.InDelta(t, 25, f.Weight, 1e-9)
	}
}

func TestRecommendations(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())

	a := baseAnalysis()
	a.MonthsRemaining = intPtr(18)
	a.DeviationFromPlan = -20

	recs := e.recommendations(a)

	// One recommendation per triggered condition plus two generic ones.
	assert.Len(t, recs, 6)
	assert.Contains(t, recs[0], "1600.00")

	// The two generic suggestions always close the list.
	assert.Contains(t, recs[len(recs)-2], "expenses")
	assert.Contains(t, recs[len(recs)-1], "Automate")
}

func TestRecommendations_HealthyGoalStillGetsGenericOnes(t *testing.T) {
	e := NewExpander(config.DefaultOptimizerConfig())

	a := Analysis{GapPercentage: 5, ContributionGap: -200}
	recs := e.recommendations(a)
	assert.Len(t, recs, 2)
}
