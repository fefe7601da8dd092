package optimizer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/database"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/goals"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/milestones"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/plans"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/portfolio"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/strategies"
)

type fixedValue struct{ total float64 }

func (f fixedValue) TotalMarketValue() (float64, error) { return f.total, nil }

func openTestDB(t *testing.T, name string, profile database.Profile) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestService(t *testing.T, capital float64) (*Service, *goals.Repository) {
	t.Helper()

	log := zerolog.Nop()
	cfg := config.DefaultOptimizerConfig()

	goalsDB := openTestDB(t, "goals", database.ProfileStandard)
	optimizerDB := openTestDB(t, "optimizer", database.ProfileStandard)
	cacheDB := openTestDB(t, "cache", database.ProfileCache)

	goalsRepo := goals.NewRepository(goalsDB.Conn(), log)
	valuation := portfolio.NewValuationService(fixedValue{total: capital}, cfg.ValuationFallback, log)

	svc := NewService(
		goalsRepo,
		valuation,
		gap.NewCalculator(cfg),
		gap.NewExpander(cfg),
		gap.NewRepository(optimizerDB.Conn(), log),
		strategies.NewGenerator(),
		strategies.NewRepository(optimizerDB.Conn(), log),
		plans.NewPlanner(),
		plans.NewRepository(optimizerDB.Conn(), log),
		milestones.NewGenerator(cfg),
		milestones.NewRepository(optimizerDB.Conn(), log),
		NewScoreAggregator(cfg.Score),
		NewSummaryCache(cacheDB.Conn(), time.Hour, log),
		log,
	)
	return svc, goalsRepo
}

func createTestGoal(t *testing.T, repo *goals.Repository, target float64, monthsOut int) domain.FinancialGoal {
	t.Helper()

	date := time.Now().AddDate(0, monthsOut, 0)
	goal, err := repo.Create(domain.FinancialGoal{
		Name:                "Retirement fund",
		TargetAmount:        &target,
		TargetDate:          &date,
		MonthlyContribution: 1000,
		ExpectedReturnRate:  10,
	})
	require.NoError(t, err)
	return goal
}

func TestPerformGapAnalysis_StoresResult(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	analysis, err := svc.PerformGapAnalysis(goal.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, analysis.ID)
	assert.InDelta(t, 75000, analysis.GapAmount, 0.001)
	assert.Greater(t, analysis.Details.SuccessProbability, 0.0)

	latest, err := svc.LatestAnalysis(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.ID, latest.ID)

	history, err := svc.AnalysisHistory(goal.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestPerformGapAnalysis_UnknownGoal(t *testing.T) {
	svc, _ := newTestService(t, 25000)

	_, err := svc.PerformGapAnalysis("missing")
	assert.ErrorIs(t, err, domain.ErrGoalNotFound)
}

func TestGenerateStrategies_RequiresAnalysis(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	_, err := svc.GenerateStrategies(goal.ID)
	assert.ErrorIs(t, err, domain.ErrNoGapAnalysis)

	_, err = svc.GeneratePlans(goal.ID)
	assert.ErrorIs(t, err, domain.ErrNoGapAnalysis)
}

func TestGenerateStrategies_TaggedWithAnalysis(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	analysis, err := svc.PerformGapAnalysis(goal.ID)
	require.NoError(t, err)

	strats, err := svc.GenerateStrategies(goal.ID)
	require.NoError(t, err)
	require.NotEmpty(t, strats)
	for _, st := range strats {
		assert.Equal(t, analysis.ID, st.AnalysisID)
	}
}

func TestActivatePlan_SingleActive(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	_, err := svc.PerformGapAnalysis(goal.ID)
	require.NoError(t, err)
	built, err := svc.GeneratePlans(goal.ID)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(built), 2)

	require.NoError(t, svc.ActivatePlan(goal.ID, built[0].ID))
	require.NoError(t, svc.ActivatePlan(goal.ID, built[1].ID))

	listed, err := svc.ListPlans(goal.ID)
	require.NoError(t, err)

	active := 0
	for _, p := range listed {
		if p.IsActive {
			active++
			assert.Equal(t, built[1].ID, p.ID)
		}
	}
	assert.Equal(t, 1, active)
}

func TestActivatePlan_UnknownPlan(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	err := svc.ActivatePlan(goal.ID, "missing")
	assert.ErrorIs(t, err, domain.ErrPlanNotFound)
}

func TestGenerateMilestones_NoTargetAmount(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)

	goal, err := goalsRepo.Create(domain.FinancialGoal{
		Name:                "Open ended savings",
		MonthlyContribution: 500,
	})
	require.NoError(t, err)

	_, err = svc.GenerateMilestones(goal.ID)
	assert.ErrorIs(t, err, domain.ErrNoTargetAmount)
}

func TestSummary_ComposesAndCaches(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	_, err := svc.PerformGapAnalysis(goal.ID)
	require.NoError(t, err)
	_, err = svc.GenerateStrategies(goal.ID)
	require.NoError(t, err)
	built, err := svc.GeneratePlans(goal.ID)
	require.NoError(t, err)
	require.NoError(t, svc.ActivatePlan(goal.ID, built[0].ID))
	_, err = svc.GenerateMilestones(goal.ID)
	require.NoError(t, err)
	_, err = svc.UpdateMilestoneProgress(goal.ID)
	require.NoError(t, err)

	summary, err := svc.Summary(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, goal.ID, summary.GoalID)
	assert.NotEmpty(t, summary.Strategies)
	assert.NotEmpty(t, summary.Plans)
	require.NotNil(t, summary.ActivePlan)
	assert.Equal(t, built[0].ID, summary.ActivePlan.ID)
	assert.NotEmpty(t, summary.Milestones)
	// Capital 25000 covers the 10% and 25% checkpoints.
	assert.Equal(t, 2, summary.AchievedMilestones)
	assert.GreaterOrEqual(t, summary.OverallScore, 0)
	assert.LessOrEqual(t, summary.OverallScore, 100)
	assert.NotEmpty(t, summary.NextActions)

	// Second read is served from the cache.
	cached, err := svc.Summary(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, summary.GeneratedAt.Unix(), cached.GeneratedAt.Unix())
	assert.Equal(t, summary.OverallScore, cached.OverallScore)
}

func TestSummary_RequiresAnalysis(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	_, err := svc.Summary(goal.ID)
	assert.ErrorIs(t, err, domain.ErrNoGapAnalysis)
}

func TestRecommendations(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	goal := createTestGoal(t, goalsRepo, 100000, 24)

	analysis, err := svc.PerformGapAnalysis(goal.ID)
	require.NoError(t, err)

	recs, err := svc.Recommendations(goal.ID)
	require.NoError(t, err)
	assert.Equal(t, analysis.ID, recs.AnalysisID)
	assert.NotEmpty(t, recs.Recommendations)
	assert.NotEmpty(t, recs.NextActions)
}

func TestRefreshAll(t *testing.T) {
	svc, goalsRepo := newTestService(t, 25000)
	first := createTestGoal(t, goalsRepo, 100000, 24)
	second := createTestGoal(t, goalsRepo, 50000, 36)

	require.NoError(t, svc.RefreshAll())

	for _, id := range []string{first.ID, second.ID} {
		latest, err := svc.LatestAnalysis(id)
		require.NoError(t, err)
		assert.NotEmpty(t, latest.ID)
	}
}
