package milestones

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

func testGoal(target float64, targetDate *time.Time) domain.FinancialGoal {
	return domain.FinancialGoal{
		ID:           "goal-1",
		Name:         "House down payment",
		TargetAmount: &target,
		TargetDate:   targetDate,
	}
}

func TestGenerate_PercentageMilestones(t *testing.T) {
	gen := NewGenerator(config.DefaultOptimizerConfig())
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	got, err := gen.Generate(testGoal(100000, nil), now)
	require.NoError(t, err)
	require.Len(t, got, 5)

	wantAmounts := []float64{10000, 25000, 50000, 75000, 90000}
	wantDifficulty := []domain.Difficulty{
		domain.DifficultyEasy,
		domain.DifficultyEasy,
		domain.DifficultyModerate,
		domain.DifficultyChallenging,
		domain.DifficultyAmbitious,
	}
	for i, m := range got {
		assert.Equal(t, domain.MilestonePercentage, m.Type)
		require.NotNil(t, m.TargetAmount)
		assert.InDelta(t, wantAmounts[i], *m.TargetAmount, 0.001)
		assert.Equal(t, wantDifficulty[i], m.Difficulty)
		assert.NotEmpty(t, m.Motivation)
		assert.Nil(t, m.TargetDate)
	}
}

func TestGenerate_AmountsStrictlyIncreasing(t *testing.T) {
	gen := NewGenerator(config.DefaultOptimizerConfig())
	now := time.Now()

	for _, target := range []float64{500, 12345.67, 1000000} {
		got, err := gen.Generate(testGoal(target, nil), now)
		require.NoError(t, err)
		for i := 1; i < len(got); i++ {
			assert.Greater(t, *got[i].TargetAmount, *got[i-1].TargetAmount)
		}
	}
}

func TestGenerate_NoTargetAmount(t *testing.T) {
	gen := NewGenerator(config.DefaultOptimizerConfig())

	goal := testGoal(0, nil)
	goal.TargetAmount = nil

	_, err := gen.Generate(goal, time.Now())
	assert.ErrorIs(t, err, domain.ErrNoTargetAmount)
}

func TestGenerate_TimeBasedCheckpoints(t *testing.T) {
	gen := NewGenerator(config.DefaultOptimizerConfig())
	now := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		monthsOut     int
		wantIntervals int
	}{
		{"one year out, none", 12, 0},
		{"two years out", 24, 2},
		{"three years out", 36, 3},
		{"five years out capped", 60, 4},
		{"ten years out capped", 120, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date := now.AddDate(0, tt.monthsOut, 0)
			got, err := gen.Generate(testGoal(50000, &date), now)
			require.NoError(t, err)

			var timeBased []Milestone
			for _, m := range got {
				if m.Type == domain.MilestoneTimeBased {
					timeBased = append(timeBased, m)
				}
			}
			require.Len(t, timeBased, tt.wantIntervals)

			for i, m := range timeBased {
				require.NotNil(t, m.TargetDate)
				assert.True(t, m.TargetDate.After(now))
				assert.Nil(t, m.TargetAmount)
				assert.Equal(t, domain.DifficultyModerate, m.Difficulty)
				if i > 0 {
					assert.True(t, m.TargetDate.After(*timeBased[i-1].TargetDate))
				}
			}
			if tt.wantIntervals > 0 {
				last := timeBased[len(timeBased)-1]
				assert.WithinDuration(t, date, *last.TargetDate, 75*24*time.Hour)
			}
		})
	}
}

func TestGenerate_PercentageBeforeTimeBased(t *testing.T) {
	gen := NewGenerator(config.DefaultOptimizerConfig())
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	date := now.AddDate(0, 36, 0)

	got, err := gen.Generate(testGoal(80000, &date), now)
	require.NoError(t, err)
	require.Len(t, got, 8)

	for i, m := range got {
		if i < 5 {
			assert.Equal(t, domain.MilestonePercentage, m.Type)
		} else {
			assert.Equal(t, domain.MilestoneTimeBased, m.Type)
		}
	}
}
