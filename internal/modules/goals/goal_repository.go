// Package goals provides persistence and HTTP access for financial goals.
package goals

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Repository handles financial goal database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new goal repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "goals").Logger(),
	}
}

// Create inserts a new goal and returns it with its generated id.
func (r *Repository) Create(goal domain.FinancialGoal) (domain.FinancialGoal, error) {
	if goal.ID == "" {
		goal.ID = uuid.NewString()
	}
	if goal.CreatedDate.IsZero() {
		goal.CreatedDate = time.Now().UTC()
	}
	if goal.Currency == "" {
		goal.Currency = "USD"
	}

	var targetAmount sql.NullFloat64
	if goal.TargetAmount != nil {
		targetAmount = sql.NullFloat64{Float64: *goal.TargetAmount, Valid: true}
	}
	var targetDate sql.NullString
	if goal.TargetDate != nil {
		targetDate = sql.NullString{String: goal.TargetDate.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err := r.db.Exec(`INSERT INTO financial_goals
		(id, name, target_amount, target_date, monthly_contribution, expected_return_rate, currency, created_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		goal.ID, goal.Name, targetAmount, targetDate,
		goal.MonthlyContribution, goal.ExpectedReturnRate, goal.Currency,
		goal.CreatedDate.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return domain.FinancialGoal{}, fmt.Errorf("failed to insert goal: %w", err)
	}

	return goal, nil
}

// GetByID returns the goal with the given id, or domain.ErrGoalNotFound.
func (r *Repository) GetByID(id string) (domain.FinancialGoal, error) {
	row := r.db.QueryRow(`SELECT id, name, target_amount, target_date,
		monthly_contribution, expected_return_rate, currency, created_date
		FROM financial_goals WHERE id = ?`, id)

	goal, err := scanGoal(row)
	if err == sql.ErrNoRows {
		return domain.FinancialGoal{}, fmt.Errorf("goal %s: %w", id, domain.ErrGoalNotFound)
	}
	if err != nil {
		return domain.FinancialGoal{}, fmt.Errorf("failed to query goal %s: %w", id, err)
	}

	return goal, nil
}

// GetAll returns every goal, newest first.
func (r *Repository) GetAll() ([]domain.FinancialGoal, error) {
	rows, err := r.db.Query(`SELECT id, name, target_amount, target_date,
		monthly_contribution, expected_return_rate, currency, created_date
		FROM financial_goals ORDER BY created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var result []domain.FinancialGoal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		result = append(result, goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating goals: %w", err)
	}

	return result, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGoal(row rowScanner) (domain.FinancialGoal, error) {
	var (
		goal         domain.FinancialGoal
		targetAmount sql.NullFloat64
		targetDate   sql.NullString
		createdDate  string
	)

	err := row.Scan(&goal.ID, &goal.Name, &targetAmount, &targetDate,
		&goal.MonthlyContribution, &goal.ExpectedReturnRate, &goal.Currency, &createdDate)
	if err != nil {
		return domain.FinancialGoal{}, err
	}

	if targetAmount.Valid {
		goal.TargetAmount = &targetAmount.Float64
	}
	if targetDate.Valid {
		parsed, err := time.Parse(time.RFC3339, targetDate.String)
		if err != nil {
			return domain.FinancialGoal{}, fmt.Errorf("invalid target_date %q: %w", targetDate.String, err)
		}
		goal.TargetDate = &parsed
	}

	goal.CreatedDate, err = time.Parse(time.RFC3339, createdDate)
	if err != nil {
		return domain.FinancialGoal{}, fmt.Errorf("invalid created_date %q: %w", createdDate, err)
	}

	return goal, nil
}
