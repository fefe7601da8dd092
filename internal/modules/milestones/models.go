// Package milestones generates and persists intermediate checkpoints on the
// way to a goal: fixed percentage breakpoints plus evenly spaced calendar
// checkpoints for dated goals.
package milestones

import (
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
)

// Milestone is one intermediate checkpoint of a goal. Position is 1-based and
// strictly increasing per goal, assigned at persistence time in generation
// order.
type Milestone struct {
	ID               string               `json:"id"`
	GoalID           string               `json:"goal_id"`
	Name             string               `json:"name"`
	Type             domain.MilestoneType `json:"type"`
	Position         int                  `json:"position"`
	TargetAmount     *float64             `json:"target_amount,omitempty"`
	TargetPercentage *float64             `json:"target_percentage,omitempty"`
	TargetDate       *time.Time           `json:"target_date,omitempty"`
	Difficulty       domain.Difficulty    `json:"difficulty"`
	Motivation       string               `json:"motivation"`
	IsAchieved       bool                 `json:"is_achieved"`
	AchievedDate     *time.Time           `json:"achieved_date,omitempty"`
	CreatedAt        time.Time            `json:"created_at"`
}
