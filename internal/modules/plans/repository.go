package plans

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/database"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Repository persists contribution plans. Writes append; readers sort by
// active flag then success probability at query time.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new contribution plan repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "plans").Logger(),
	}
}

// Append stores a plan and returns it with its generated id.
func (r *Repository) Append(p Plan) (Plan, error) {
	p.ID = uuid.NewString()
	p.CreatedAt = time.Now().UTC()

	bonuses, err := json.Marshal(p.BonusContributions)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to marshal bonus contributions: %w", err)
	}
	seasonal, err := json.Marshal(p.SeasonalAdjustments)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to marshal seasonal adjustments: %w", err)
	}

	_, err = r.db.Exec(`INSERT INTO contribution_plans
		(id, goal_id, analysis_id, name, type, base_contribution, optimized_contribution,
		 contribution_increase, bonus_contributions, seasonal_adjustments,
		 affordability_score, success_probability, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.GoalID, p.AnalysisID, p.Name, string(p.Type),
		p.BaseContribution, p.OptimizedContribution, p.ContributionIncrease,
		string(bonuses), string(seasonal), p.AffordabilityScore, p.SuccessProbability,
		boolToInt(p.IsActive), p.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Plan{}, fmt.Errorf("failed to insert plan: %w", err)
	}

	return p, nil
}

// ListByGoal returns a goal's plans ordered by active desc, success
// probability desc.
func (r *Repository) ListByGoal(goalID string) ([]Plan, error) {
	rows, err := r.db.Query(`SELECT id, goal_id, analysis_id, name, type,
		base_contribution, optimized_contribution, contribution_increase,
		bonus_contributions, seasonal_adjustments, affordability_score,
		success_probability, is_active, created_at
		FROM contribution_plans
		WHERE goal_id = ?
		ORDER BY is_active DESC, success_probability DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query plans: %w", err)
	}
	defer rows.Close()

	var result []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		result = append(result, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return result, nil
}

// ActivateExclusive marks one plan active and every other plan of the goal
// inactive, in a single transaction.
func (r *Repository) ActivateExclusive(goalID, planID string) error {
	return database.WithTransaction(r.db, func(tx *sql.Tx) error {
		res, err := tx.Exec(`UPDATE contribution_plans SET is_active = 1
			WHERE id = ? AND goal_id = ?`, planID, goalID)
		if err != nil {
			return fmt.Errorf("failed to activate plan: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to check affected rows: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("plan %s for goal %s: %w", planID, goalID, domain.ErrPlanNotFound)
		}

		_, err = tx.Exec(`UPDATE contribution_plans SET is_active = 0
			WHERE goal_id = ? AND id != ?`, goalID, planID)
		if err != nil {
			return fmt.Errorf("failed to deactivate other plans: %w", err)
		}

		return nil
	})
}

// CountActive returns the number of active plans for a goal.
func (r *Repository) CountActive(goalID string) (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM contribution_plans
		WHERE goal_id = ? AND is_active = 1`, goalID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active plans: %w", err)
	}
	return count, nil
}

func scanPlan(rows *sql.Rows) (Plan, error) {
	var (
		p        Plan
		planType string
		bonuses  string
		seasonal string
		isActive int
		created  string
	)

	err := rows.Scan(&p.ID, &p.GoalID, &p.AnalysisID, &p.Name, &planType,
		&p.BaseContribution, &p.OptimizedContribution, &p.ContributionIncrease,
		&bonuses, &seasonal, &p.AffordabilityScore, &p.SuccessProbability,
		&isActive, &created)
	if err != nil {
		return Plan{}, err
	}

	p.Type = domain.PlanType(planType)
	p.IsActive = isActive != 0

	if err := json.Unmarshal([]byte(bonuses), &p.BonusContributions); err != nil {
		return Plan{}, fmt.Errorf("failed to unmarshal bonus contributions: %w", err)
	}
	if err := json.Unmarshal([]byte(seasonal), &p.SeasonalAdjustments); err != nil {
		return Plan{}, fmt.Errorf("failed to unmarshal seasonal adjustments: %w", err)
	}

	p.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Plan{}, fmt.Errorf("invalid created_at %q: %w", created, err)
	}

	return p, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
