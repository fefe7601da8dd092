// Package strategies generates and persists optimization strategies: the
// levers a user can pull to close a goal's gap.
package strategies

import (
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Strategy is one recommended optimization lever for a goal. Rows are
// append-only; IsApplied is flipped when the user commits to the strategy.
type Strategy struct {
	ID              string                  `json:"id"`
	GoalID          string                  `json:"goal_id"`
	AnalysisID      string                  `json:"analysis_id"`
	Name            string                  `json:"name"`
	Type            domain.StrategyType     `json:"type"`
	Priority        domain.StrategyPriority `json:"priority"`
	ImpactScore     float64                 `json:"impact_score"`
	EffortLevel     string                  `json:"effort_level"`
	TimeToImplement string                  `json:"time_to_implement"`
	Description     string                  `json:"description"`
	Steps           []Step                  `json:"steps"`
	Requirements    []Requirement           `json:"requirements"`
	Risks           []RiskItem              `json:"risks"`
	IsApplied       bool                    `json:"is_applied"`
	CreatedAt       time.Time               `json:"created_at"`
}

// Step is one ordered implementation action of a strategy.
type Step struct {
	Order            int      `json:"order"`
	Description      string   `json:"description"`
	DependsOn        []string `json:"depends_on,omitempty"`
	SuccessCriterion string   `json:"success_criterion"`
}

// Requirement is a precondition for applying a strategy.
type Requirement struct {
	Description string `json:"description"`
	Met         bool   `json:"met"`
}

// RiskItem describes a risk of applying a strategy and its mitigation.
type RiskItem struct {
	Description string `json:"description"`
	Probability string `json:"probability"`
	Impact      string `json:"impact"`
	Mitigation  string `json:"mitigation"`
}
