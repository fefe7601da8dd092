// Package handlers provides HTTP handlers for financial goal management.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/goals"
)

// Handler handles goal HTTP requests
type Handler struct {
	repo *goals.Repository
	log  zerolog.Logger
}

// NewHandler creates a new goals handler
func NewHandler(repo *goals.Repository, log zerolog.Logger) *Handler {
	return &Handler{
		repo: repo,
		log:  log.With().Str("handler", "goals").Logger(),
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// CreateGoalRequest represents a request to create a financial goal
type CreateGoalRequest struct {
	Name                string   `json:"name"`
	TargetAmount        *float64 `json:"target_amount,omitempty"`
	TargetDate          *string  `json:"target_date,omitempty"` // YYYY-MM-DD
	MonthlyContribution float64  `json:"monthly_contribution"`
	ExpectedReturnRate  float64  `json:"expected_return_rate"`
	Currency            string   `json:"currency"`
}

func (req CreateGoalRequest) toGoal() (domain.FinancialGoal, error) {
	if req.Name == "" {
		return domain.FinancialGoal{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if req.TargetAmount != nil && *req.TargetAmount <= 0 {
		return domain.FinancialGoal{}, fmt.Errorf("%w: target_amount must be positive", domain.ErrValidation)
	}
	if req.MonthlyContribution < 0 {
		return domain.FinancialGoal{}, fmt.Errorf("%w: monthly_contribution cannot be negative", domain.ErrValidation)
	}

	goal := domain.FinancialGoal{
		Name:                req.Name,
		TargetAmount:        req.TargetAmount,
		MonthlyContribution: req.MonthlyContribution,
		ExpectedReturnRate:  req.ExpectedReturnRate,
		Currency:            req.Currency,
	}
	if req.TargetDate != nil {
		date, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			return domain.FinancialGoal{}, fmt.Errorf("%w: target_date must be YYYY-MM-DD", domain.ErrValidation)
		}
		goal.TargetDate = &date
	}
	return goal, nil
}

// HandleCreateGoal handles POST /api/goals
func (h *Handler) HandleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req CreateGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "Invalid request body"})
		return
	}

	goal, err := req.toGoal()
	if err != nil {
		h.writeError(w, err)
		return
	}

	created, err := h.repo.Create(goal)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.log.Info().Str("goal_id", created.ID).Str("name", created.Name).Msg("Goal created")
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: created})
}

// HandleGetGoal handles GET /api/goals/{goalID}
func (h *Handler) HandleGetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.repo.GetByID(chi.URLParam(r, "goalID"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: goal})
}

// HandleListGoals handles GET /api/goals
func (h *Handler) HandleListGoals(w http.ResponseWriter, r *http.Request) {
	goalList, err := h.repo.GetAll()
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: goalList})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrGoalNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("Request failed")
	}
	h.writeJSON(w, status, envelope{Success: false, Message: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode response")
	}
}
