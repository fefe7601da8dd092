package strategies

import (
	"database/sql"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`CREATE TABLE optimization_strategies (
		id TEXT PRIMARY KEY,
		goal_id TEXT NOT NULL,
		analysis_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		priority TEXT NOT NULL,
		impact_score REAL NOT NULL,
		effort_level TEXT NOT NULL,
		time_to_implement TEXT NOT NULL,
		description TEXT NOT NULL,
		steps TEXT NOT NULL DEFAULT '[]',
		requirements TEXT NOT NULL DEFAULT '[]',
		risks TEXT NOT NULL DEFAULT '[]',
		is_applied INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`)
	require.NoError(t, err)

	return db
}

func sampleStrategy(priority domain.StrategyPriority, impact float64) Strategy {
	return Strategy{
		GoalID:          "goal-1",
		AnalysisID:      "analysis-1",
		Name:            "Test strategy",
		Type:            domain.StrategyReduceCosts,
		Priority:        priority,
		ImpactScore:     impact,
		EffortLevel:     "LOW",
		TimeToImplement: "2 weeks",
		Description:     "desc",
		Steps:           []Step{{Order: 1, Description: "do it", SuccessCriterion: "done"}},
		Requirements:    []Requirement{{Description: "req", Met: true}},
		Risks:           []RiskItem{{Description: "risk", Probability: "LOW", Impact: "LOW", Mitigation: "mit"}},
	}
}

func TestRepository_AppendAndList(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	stored, err := repo.Append(sampleStrategy(domain.PriorityMedium, 60))
	require.NoError(t, err)
	assert.NotEmpty(t, stored.ID)

	list, err := repo.ListByGoal("goal-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, stored.ID, list[0].ID)
	require.Len(t, list[0].Steps, 1)
	assert.Equal(t, "do it", list[0].Steps[0].Description)
	assert.True(t, list[0].Requirements[0].Met)
}

func TestRepository_ListOrdering(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	// Insert out of order: priority desc then impact desc must win over
	// insertion order.
	_, err := repo.Append(sampleStrategy(domain.PriorityMedium, 60))
	require.NoError(t, err)
	_, err = repo.Append(sampleStrategy(domain.PriorityHigh, 85))
	require.NoError(t, err)
	_, err = repo.Append(sampleStrategy(domain.PriorityMedium, 70))
	require.NoError(t, err)

	list, err := repo.ListByGoal("goal-1")
	require.NoError(t, err)
	require.Len(t, list, 3)

	assert.Equal(t, domain.PriorityHigh, list[0].Priority)
	assert.Equal(t, 70.0, list[1].ImpactScore)
	assert.Equal(t, 60.0, list[2].ImpactScore)
}

func TestRepository_AppendDoesNotUpsert(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	// Repeated generation appends duplicates; deduplication is the caller's
	// responsibility.
	_, err := repo.Append(sampleStrategy(domain.PriorityMedium, 60))
	require.NoError(t, err)
	_, err = repo.Append(sampleStrategy(domain.PriorityMedium, 60))
	require.NoError(t, err)

	list, err := repo.ListByGoal("goal-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestRepository_MarkApplied(t *testing.T) {
	repo := NewRepository(setupTestDB(t), zerolog.Nop())

	stored, err := repo.Append(sampleStrategy(domain.PriorityHigh, 85))
	require.NoError(t, err)

	require.NoError(t, repo.MarkApplied(stored.ID))

	list, err := repo.ListByGoal("goal-1")
	require.NoError(t, err)
	assert.True(t, list[0].IsApplied)

	assert.Error(t, repo.MarkApplied("missing-id"))
}
