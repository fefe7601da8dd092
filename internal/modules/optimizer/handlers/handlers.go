// Package handlers provides HTTP handlers for the goal optimization
// pipeline: gap analyses, strategies, plans, milestones and summaries.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/domain"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/optimizer"
)

// Handler handles optimization HTTP requests
type Handler struct {
	service *optimizer.Service
	log     zerolog.Logger
}

// NewHandler creates a new optimizer handler
func NewHandler(service *optimizer.Service, log zerolog.Logger) *Handler {
	return &Handler{
		service: service,
		log:     log.With().Str("handler", "optimizer").Logger(),
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// HandlePerformAnalysis handles POST /api/goals/{goalID}/gap-analysis
func (h *Handler) HandlePerformAnalysis(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	analysis, err := h.service.PerformGapAnalysis(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: analysis})
}

// HandleLatestAnalysis handles GET /api/goals/{goalID}/gap-analysis
func (h *Handler) HandleLatestAnalysis(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	analysis, err := h.service.LatestAnalysis(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: analysis})
}

// HandleAnalysisHistory handles GET /api/goals/{goalID}/gap-analysis/history
func (h *Handler) HandleAnalysisHistory(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	history, err := h.service.AnalysisHistory(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: history})
}

// HandleGenerateStrategies handles POST /api/goals/{goalID}/strategies
func (h *Handler) HandleGenerateStrategies(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	strats, err := h.service.GenerateStrategies(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: strats})
}

// HandleListStrategies handles GET /api/goals/{goalID}/strategies
func (h *Handler) HandleListStrategies(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	strats, err := h.service.ListStrategies(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: strats})
}

// HandleApplyStrategy handles POST /api/goals/{goalID}/strategies/{strategyID}/apply
func (h *Handler) HandleApplyStrategy(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	strategyID := chi.URLParam(r, "strategyID")

	if err := h.service.ApplyStrategy(goalID, strategyID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Strategy applied"})
}

// HandleGeneratePlans handles POST /api/goals/{goalID}/plans
func (h *Handler) HandleGeneratePlans(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	planList, err := h.service.GeneratePlans(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: planList})
}

// HandleListPlans handles GET /api/goals/{goalID}/plans
func (h *Handler) HandleListPlans(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	planList, err := h.service.ListPlans(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: planList})
}

// HandleActivatePlan handles POST /api/goals/{goalID}/plans/{planID}/activate
func (h *Handler) HandleActivatePlan(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")
	planID := chi.URLParam(r, "planID")

	if err := h.service.ActivatePlan(goalID, planID); err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Plan activated"})
}

// HandleGenerateMilestones handles POST /api/goals/{goalID}/milestones
func (h *Handler) HandleGenerateMilestones(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	ms, err := h.service.GenerateMilestones(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, envelope{Success: true, Data: ms})
}

// HandleListMilestones handles GET /api/goals/{goalID}/milestones
func (h *Handler) HandleListMilestones(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	ms, err := h.service.ListMilestones(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: ms})
}

// HandleMilestoneProgress handles POST /api/goals/{goalID}/milestones/progress
func (h *Handler) HandleMilestoneProgress(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	achieved, err := h.service.UpdateMilestoneProgress(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: achieved})
}

// HandleSummary handles GET /api/goals/{goalID}/summary
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	summary, err := h.service.Summary(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: summary})
}

// HandleRecommendations handles GET /api/goals/{goalID}/recommendations
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	goalID := chi.URLParam(r, "goalID")

	recs, err := h.service.Recommendations(goalID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, envelope{Success: true, Data: recs})
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrGoalNotFound), errors.Is(err, domain.ErrPlanNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNoGapAnalysis), errors.Is(err, domain.ErrNoTargetAmount):
		status = http.StatusPreconditionFailed
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
