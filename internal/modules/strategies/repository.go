package strategies

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Repository persists optimization strategies. Writes append; readers sort by
// priority then impact at query time.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new strategy repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "strategies").Logger(),
	}
}

// Append stores a strategy and returns it with its generated id.
func (r *Repository) Append(s Strategy) (Strategy, error) {
	s.ID = uuid.NewString()
	s.CreatedAt = time.Now().UTC()

	steps, err := json.Marshal(s.Steps)
	if err != nil {
		return Strategy{}, fmt.Errorf("failed to marshal steps: %w", err)
	}
	requirements, err := json.Marshal(s.Requirements)
	if err != nil {
		return Strategy{}, fmt.Errorf("failed to marshal requirements: %w", err)
	}
	risks, err := json.Marshal(s.Risks)
	if err != nil {
		return Strategy{}, fmt.Errorf("failed to marshal risks: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO optimization_strategies
		(id, goal_id, analysis_id, name, type, priority, impact_score, effort_level,
		 time_to_implement, description, steps, requirements, risks, is_applied, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.GoalID, s.AnalysisID, s.Name, string(s.Type), string(s.Priority),
		s.ImpactScore, s.EffortLevel, s.TimeToImplement, s.Description,
		string(steps), string(requirements), string(risks),
		boolToInt(s.IsApplied), s.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Strategy{}, fmt.Errorf("failed to insert strategy: %w", err)
	}

	return s, nil
}

// ListByGoal returns a goal's strategies ordered by priority desc, impact desc.
func (r *Repository) ListByGoal(goalID string) ([]Strategy, error) {
	rows, err := r.db.Query(`SELECT id, goal_id, analysis_id, name, type, priority,
		impact_score, effort_level, time_to_implement, description, steps,
		requirements, risks, is_applied, created_at
		FROM optimization_strategies
		WHERE goal_id = ?
		ORDER BY CASE priority WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC,
			impact_score DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategies: %w", err)
	}
	defer rows.Close()

	var result []Strategy
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan strategy: %w", err)
		}
		result = append(result, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strategies: %w", err)
	}

	return result, nil
}

// MarkApplied flips the is_applied flag of a strategy.
func (r *Repository) MarkApplied(id string) error {
	res, err := r.db.Exec(`UPDATE optimization_strategies SET is_applied = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark strategy applied: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("strategy %s not found", id)
	}
	return nil
}

func scanStrategy(rows *sql.Rows) (Strategy, error) {
	var (
		s            Strategy
		stratType    string
		priority     string
		steps        string
		requirements string
		risks        string
		isApplied    int
		createdAt    string
	)

	err := rows.Scan(&s.ID, &s.GoalID, &s.AnalysisID, &s.Name, &stratType, &priority,
		&s.ImpactScore, &s.EffortLevel, &s.TimeToImplement, &s.Description,
		&steps, &requirements, &risks, &isApplied, &createdAt)
	if err != nil {
		return Strategy{}, err
	}

	s.Type = domain.StrategyType(stratType)
	s.Priority = domain.StrategyPriority(priority)
	s.IsApplied = isApplied != 0

	if err := json.Unmarshal([]byte(steps), &s.Steps); err != nil {
		return Strategy{}, fmt.Errorf("failed to unmarshal steps: %w", err)
	}
	if err := json.Unmarshal([]byte(requirements), &s.Requirements); err != nil {
		return Strategy{}, fmt.Errorf("failed to unmarshal requirements: %w", err)
	}
	if err := json.Unmarshal([]byte(risks), &s.Risks); err != nil {
		return Strategy{}, fmt.Errorf("failed to unmarshal risks: %w", err)
	}

	s.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return Strategy{}, fmt.Errorf("invalid created_at %q: %w", createdAt, err)
	}

	return s, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
