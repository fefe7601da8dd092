package milestones

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/database"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Repository persists intermediate milestones. Rows are append-only except for
// the achievement flags, which UpdateProgress flips as capital grows.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new milestone repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "intermediate_milestones").Logger(),
	}
}

const selectColumns = `id, goal_id, name, type, position, target_amount,
	target_percentage, target_date, difficulty, motivation, is_achieved,
	achieved_date, created_at`

// AppendBatch stores a generated milestone set in one transaction, assigning
// each row the next position after the goal's current maximum. Positions stay
// strictly increasing per goal across repeated generations.
func (r *Repository) AppendBatch(batch []Milestone) ([]Milestone, error) {
	if len(batch) == 0 {
		return nil, nil
	}

	err := database.WithTransaction(r.db, func(tx *sql.Tx) error {
		var maxPosition int
		err := tx.QueryRow(
			`SELECT COALESCE(MAX(position), 0) FROM intermediate_milestones WHERE goal_id = ?`,
			batch[0].GoalID,
		).Scan(&maxPosition)
		if err != nil {
			return fmt.Errorf("failed to read max milestone position: %w", err)
		}

		for i := range batch {
			m := &batch[i]
			m.ID = uuid.NewString()
			m.Position = maxPosition + i + 1

			var targetAmount, targetPercentage sql.NullFloat64
			if m.TargetAmount != nil {
				targetAmount = sql.NullFloat64{Float64: *m.TargetAmount, Valid: true}
			}
			if m.TargetPercentage != nil {
				targetPercentage = sql.NullFloat64{Float64: *m.TargetPercentage, Valid: true}
			}
			var targetDate sql.NullString
			if m.TargetDate != nil {
				targetDate = sql.NullString{String: m.TargetDate.UTC().Format(time.RFC3339), Valid: true}
			}

			_, err := tx.Exec(`INSERT INTO intermediate_milestones
				(id, goal_id, name, type, position, target_amount, target_percentage,
				 target_date, difficulty, motivation, is_achieved, achieved_date, created_at)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0, NULL, datetime('now'))`,
				m.ID, m.GoalID, m.Name, string(m.Type), m.Position,
				targetAmount, targetPercentage, targetDate,
				string(m.Difficulty), m.Motivation,
			)
			if err != nil {
				return fmt.Errorf("failed to insert milestone %s: %w", m.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.log.Debug().Str("goal_id", batch[0].GoalID).Int("count", len(batch)).
		Msg("Stored milestone batch")
	return batch, nil
}

// ListByGoal returns a goal's milestones ordered by position.
func (r *Repository) ListByGoal(goalID string) ([]Milestone, error) {
	rows, err := r.db.Query(
		`SELECT `+selectColumns+` FROM intermediate_milestones
		 WHERE goal_id = ? ORDER BY position ASC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query milestones: %w", err)
	}
	defer rows.Close()

	var result []Milestone
	for rows.Next() {
		m, err := scanMilestone(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	return result, rows.Err()
}

// UpdateProgress marks unachieved milestones achieved: amount milestones once
// current capital covers their target, calendar ones once their date has
// passed. Returns the milestones it flipped.
func (r *Repository) UpdateProgress(goalID string, currentCapital float64, now time.Time) ([]Milestone, error) {
	all, err := r.ListByGoal(goalID)
	if err != nil {
		return nil, err
	}

	var achieved []Milestone
	for _, m := range all {
		if m.IsAchieved {
			continue
		}
		reached := false
		switch m.Type {
		case domain.MilestonePercentage:
			reached = m.TargetAmount != nil && currentCapital >= *m.TargetAmount
		case domain.MilestoneTimeBased:
			reached = m.TargetDate != nil && !now.Before(*m.TargetDate)
		}
		if !reached {
			continue
		}

		achievedAt := now.UTC()
		_, err := r.db.Exec(
			`UPDATE intermediate_milestones SET is_achieved = 1, achieved_date = ?
			 WHERE id = ?`,
			achievedAt.Format(time.RFC3339), m.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to mark milestone achieved: %w", err)
		}

		m.IsAchieved = true
		m.AchievedDate = &achievedAt
		achieved = append(achieved, m)
	}

	if len(achieved) > 0 {
		r.log.Info().Str("goal_id", goalID).Int("count", len(achieved)).
			Msg("Milestones achieved")
	}
	return achieved, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMilestone(row rowScanner) (Milestone, error) {
	var (
		m                            Milestone
		mType, difficulty, createdAt string
		targetAmount, targetPct      sql.NullFloat64
		targetDate, achievedDate     sql.NullString
		isAchieved                   int
	)

	err := row.Scan(&m.ID, &m.GoalID, &m.Name, &mType, &m.Position,
		&targetAmount, &targetPct, &targetDate, &difficulty,
		&m.Motivation, &isAchieved, &achievedDate, &createdAt)
	if err != nil {
		return Milestone{}, fmt.Errorf("failed to scan milestone: %w", err)
	}

	m.Type = domain.MilestoneType(mType)
	m.Difficulty = domain.Difficulty(difficulty)
	m.IsAchieved = isAchieved != 0
	if targetAmount.Valid {
		m.TargetAmount = &targetAmount.Float64
	}
	if targetPct.Valid {
		m.TargetPercentage = &targetPct.Float64
	}
	if targetDate.Valid {
		if t, err := time.Parse(time.RFC3339, targetDate.String); err == nil {
			m.TargetDate = &t
		}
	}
	if achievedDate.Valid {
		if t, err := time.Parse(time.RFC3339, achievedDate.String); err == nil {
			m.AchievedDate = &t
		}
	}
	if t, err := time.Parse("2006-01-02 15:04:05", createdAt); err == nil {
		m.CreatedAt = t
	}

	return m, nil
}
