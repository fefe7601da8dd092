package gap

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Repository persists gap analyses. The table is append-only: every run
// creates a new row and history is retained, never superseded in place.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new gap analysis repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "gap_analyses").Logger(),
	}
}

// Append stores a new analysis run and returns it with its generated id.
func (r *Repository) Append(a Analysis) (Analysis, error) {
	a.ID = uuid.NewString()

	details, err := json.Marshal(a.Details)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to marshal analysis details: %w", err)
	}

	var monthsRemaining sql.NullInt64
	if a.MonthsRemaining != nil {
		monthsRemaining = sql.NullInt64{Int64: int64(*a.MonthsRemaining), Valid: true}
	}
	var projectedDate sql.NullString
	if a.ProjectedCompletionDate != nil {
		projectedDate = sql.NullString{String: a.ProjectedCompletionDate.UTC().Format(time.RFC3339), Valid: true}
	}

	_, err = r.db.Exec(`INSERT INTO gap_analyses
		(id, goal_id, analysis_date, current_capital, target_capital, gap_amount,
		 gap_percentage, current_contribution, required_contribution, contribution_gap,
		 months_remaining, projected_completion_date, deviation_from_plan, risk_level,
		 details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, datetime('now'))`,
		a.ID, a.GoalID, a.AnalysisDate.UTC().Format(time.RFC3339Nano),
		a.CurrentCapital, a.TargetCapital, a.GapAmount,
		a.GapPercentage, a.CurrentMonthlyContribution, a.RequiredMonthlyContribution,
		a.ContributionGap, monthsRemaining, projectedDate, a.DeviationFromPlan,
		string(a.RiskLevel), string(details),
	)
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to insert gap analysis: %w", err)
	}

	return a, nil
}

// LatestByGoal returns the most recent analysis for a goal, or
// domain.ErrNoGapAnalysis when none exists.
func (r *Repository) LatestByGoal(goalID string) (Analysis, error) {
	row := r.db.QueryRow(selectColumns+` FROM gap_analyses
		WHERE goal_id = ? ORDER BY analysis_date DESC LIMIT 1`, goalID)

	a, err := scanAnalysis(row)
	if err == sql.ErrNoRows {
		return Analysis{}, fmt.Errorf("goal %s: %w", goalID, domain.ErrNoGapAnalysis)
	}
	if err != nil {
		return Analysis{}, fmt.Errorf("failed to query latest gap analysis: %w", err)
	}

	return a, nil
}

// AllByGoal returns every analysis for a goal, newest first.
func (r *Repository) AllByGoal(goalID string) ([]Analysis, error) {
	rows, err := r.db.Query(selectColumns+` FROM gap_analyses
		WHERE goal_id = ? ORDER BY analysis_date DESC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query gap analyses: %w", err)
	}
	defer rows.Close()

	var result []Analysis
	for rows.Next() {
		a, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan gap analysis: %w", err)
		}
		result = append(result, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating gap analyses: %w", err)
	}

	return result, nil
}

// DeviationHistory returns the deviation-from-plan values of a goal's past
// runs, oldest first. Feeds the volatility contributing factor.
func (r *Repository) DeviationHistory(goalID string) ([]float64, error) {
	rows, err := r.db.Query(`SELECT deviation_from_plan FROM gap_analyses
		WHERE goal_id = ? ORDER BY analysis_date ASC`, goalID)
	if err != nil {
		return nil, fmt.Errorf("failed to query deviation history: %w", err)
	}
	defer rows.Close()

	var history []float64
	for rows.Next() {
		var deviation float64
		if err := rows.Scan(&deviation); err != nil {
			return nil, fmt.Errorf("failed to scan deviation: %w", err)
		}
		history = append(history, deviation)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating deviation history: %w", err)
	}

	return history, nil
}

const selectColumns = `SELECT id, goal_id, analysis_date, current_capital,
	target_capital, gap_amount, gap_percentage, current_contribution,
	required_contribution, contribution_gap, months_remaining,
	projected_completion_date, deviation_from_plan, risk_level, details`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var (
		a               Analysis
		analysisDate    string
		monthsRemaining sql.NullInt64
		projectedDate   sql.NullString
		riskLevel       string
		details         string
	)

	err := row.Scan(&a.ID, &a.GoalID, &analysisDate, &a.CurrentCapital,
		&a.TargetCapital, &a.GapAmount, &a.GapPercentage, &a.CurrentMonthlyContribution,
		&a.RequiredMonthlyContribution, &a.ContributionGap, &monthsRemaining,
		&projectedDate, &a.DeviationFromPlan, &riskLevel, &details)
	if err != nil {
		return Analysis{}, err
	}

	a.AnalysisDate, err = time.Parse(time.RFC3339Nano, analysisDate)
	if err != nil {
		return Analysis{}, fmt.Errorf("invalid analysis_date %q: %w", analysisDate, err)
	}

	if monthsRemaining.Valid {
		months := int(monthsRemaining.Int64)
		a.MonthsRemaining = &months
	}
	if projectedDate.Valid {
		parsed, err := time.Parse(time.RFC3339, projectedDate.String)
		if err != nil {
			return Analysis{}, fmt.Errorf("invalid projected_completion_date %q: %w", projectedDate.String, err)
		}
		a.ProjectedCompletionDate = &parsed
	}

	a.RiskLevel = domain.RiskLevel(riskLevel)

	if err := json.Unmarshal([]byte(details), &a.Details); err != nil {
		return Analysis{}, fmt.Errorf("failed to unmarshal analysis details: %w", err)
	}

	return a, nil
}
