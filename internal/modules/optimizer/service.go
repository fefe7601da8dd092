package optimizer

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/goals"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/milestones"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/plans"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/portfolio"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/strategies"
)

// Service orchestrates the optimization pipeline for a goal. Every generation
// step is anchored to the stored latest analysis, so strategies and plans are
// always traceable to the analysis run that produced them.
type Service struct {
	goals      *goals.Repository
	valuation  *portfolio.ValuationService
	calculator *gap.Calculator
	expander   *gap.Expander
	analyses   *gap.Repository
	strategen  *strategies.Generator
	strategies *strategies.Repository
	planner    *plans.Planner
	plans      *plans.Repository
	milegen    *milestones.Generator
	milestones *milestones.Repository
	scorer     *ScoreAggregator
	cache      *SummaryCache
	log        zerolog.Logger
}

// NewService creates a new optimizer service
func NewService(
	goalsRepo *goals.Repository,
	valuation *portfolio.ValuationService,
	calculator *gap.Calculator,
	expander *gap.Expander,
	analyses *gap.Repository,
	strategyGen *strategies.Generator,
	strategyRepo *strategies.Repository,
	planner *plans.Planner,
	planRepo *plans.Repository,
	milestoneGen *milestones.Generator,
	milestoneRepo *milestones.Repository,
	scorer *ScoreAggregator,
	cache *SummaryCache,
	log zerolog.Logger,
) *Service {
	return &Service{
		goals:      goalsRepo,
		valuation:  valuation,
		calculator: calculator,
		expander:   expander,
		analyses:   analyses,
		strategen:  strategyGen,
		strategies: strategyRepo,
		planner:    planner,
		plans:      planRepo,
		milegen:    milestoneGen,
		milestones: milestoneRepo,
		scorer:     scorer,
		cache:      cache,
		log:        log.With().Str("service", "optimizer").Logger(),
	}
}

// PerformGapAnalysis runs a fresh analysis for a goal and stores it. The
// current capital comes from the portfolio valuation, never from the caller.
func (s *Service) PerformGapAnalysis(goalID string) (gap.Analysis, error) {
	goal, err := s.goals.GetByID(goalID)
	if err != nil {
		return gap.Analysis{}, err
	}

	now := time.Now()
	capital := s.valuation.CurrentCapital()

	analysis := s.calculator.Calculate(goal, capital, now)

	history, err := s.analyses.DeviationHistory(goalID)
	if err != nil {
		return gap.Analysis{}, err
	}
	analysis.Details = s.expander.Expand(goal, analysis, history, now)

	stored, err := s.analyses.Append(analysis)
	if err != nil {
		return gap.Analysis{}, err
	}

	s.cache.Invalidate(goalID)
	s.log.Info().Str("goal_id", goalID).
		Float64("gap_amount", stored.GapAmount).
		Str("risk_level", string(stored.RiskLevel)).
		Msg("Gap analysis performed")
	return stored, nil
}

// LatestAnalysis returns the most recent stored analysis for a goal.
func (s *Service) LatestAnalysis(goalID string) (gap.Analysis, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return gap.Analysis{}, err
	}
	return s.analyses.LatestByGoal(goalID)
}

// AnalysisHistory returns all stored analyses for a goal, newest first.
func (s *Service) AnalysisHistory(goalID string) ([]gap.Analysis, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return nil, err
	}
	return s.analyses.AllByGoal(goalID)
}

// GenerateStrategies derives optimization strategies from the latest stored
// analysis and persists them tagged with that analysis id.
func (s *Service) GenerateStrategies(goalID string) ([]strategies.Strategy, error) {
	goal, err := s.goals.GetByID(goalID)
	if err != nil {
		return nil, err
	}
	analysis, err := s.analyses.LatestByGoal(goalID)
	if err != nil {
		return nil, err
	}

	generated := s.strategen.Generate(goal, analysis)
	result := make([]strategies.Strategy, 0, len(generated))
	for _, st := range generated {
		st.AnalysisID = analysis.ID
		stored, err := s.strategies.Append(st)
		if err != nil {
			return nil, err
		}
		result = append(result, stored)
	}

	s.cache.Invalidate(goalID)
	s.log.Info().Str("goal_id", goalID).Int("count", len(result)).
		Msg("Strategies generated")
	return result, nil
}

// ListStrategies returns a goal's strategies ordered by priority.
func (s *Service) ListStrategies(goalID string) ([]strategies.Strategy, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return nil, err
	}
	return s.strategies.ListByGoal(goalID)
}

// ApplyStrategy marks a strategy as applied by the user.
func (s *Service) ApplyStrategy(goalID, strategyID string) error {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return err
	}
	if err := s.strategies.MarkApplied(strategyID); err != nil {
		return err
	}
	s.cache.Invalidate(goalID)
	return nil
}

// GeneratePlans builds contribution plans from the latest stored analysis and
// persists them tagged with that analysis id.
func (s *Service) GeneratePlans(goalID string) ([]plans.Plan, error) {
	goal, err := s.goals.GetByID(goalID)
	if err != nil {
		return nil, err
	}
	analysis, err := s.analyses.LatestByGoal(goalID)
	if err != nil {
		return nil, err
	}

	built := s.planner.Build(goal, analysis)
	result := make([]plans.Plan, 0, len(built))
	for _, p := range built {
		p.AnalysisID = analysis.ID
		stored, err := s.plans.Append(p)
		if err != nil {
			return nil, err
		}
		result = append(result, stored)
	}

	s.cache.Invalidate(goalID)
	s.log.Info().Str("goal_id", goalID).Int("count", len(result)).
		Msg("Contribution plans generated")
	return result, nil
}

// ListPlans returns a goal's plans, active plan first.
func (s *Service) ListPlans(goalID string) ([]plans.Plan, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return nil, err
	}
	return s.plans.ListByGoal(goalID)
}

// ActivatePlan makes the given plan the single active one for its goal.
func (s *Service) ActivatePlan(goalID, planID string) error {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return err
	}
	if err := s.plans.ActivateExclusive(goalID, planID); err != nil {
		return err
	}
	s.cache.Invalidate(goalID)
	s.log.Info().Str("goal_id", goalID).Str("plan_id", planID).Msg("Plan activated")
	return nil
}

// GenerateMilestones builds and stores the milestone set for a goal.
func (s *Service) GenerateMilestones(goalID string) ([]milestones.Milestone, error) {
	goal, err := s.goals.GetByID(goalID)
	if err != nil {
		return nil, err
	}

	generated, err := s.milegen.Generate(goal, time.Now())
	if err != nil {
		return nil, err
	}
	stored, err := s.milestones.AppendBatch(generated)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(goalID)
	return stored, nil
}

// ListMilestones returns a goal's milestones in position order.
func (s *Service) ListMilestones(goalID string) ([]milestones.Milestone, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return nil, err
	}
	return s.milestones.ListByGoal(goalID)
}

// UpdateMilestoneProgress re-evaluates milestone achievement against the
// current portfolio value and returns the newly achieved milestones.
func (s *Service) UpdateMilestoneProgress(goalID string) ([]milestones.Milestone, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return nil, err
	}

	capital := s.valuation.CurrentCapital()
	achieved, err := s.milestones.UpdateProgress(goalID, capital, time.Now())
	if err != nil {
		return nil, err
	}
	if len(achieved) > 0 {
		s.cache.Invalidate(goalID)
	}
	return achieved, nil
}

// Summary composes the aggregated read-model for a goal, serving from the
// cache when a fresh entry exists.
func (s *Service) Summary(goalID string) (Summary, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return Summary{}, err
	}

	now := time.Now()
	if cached, ok := s.cache.Get(goalID, now); ok {
		return cached, nil
	}

	analysis, err := s.analyses.LatestByGoal(goalID)
	if err != nil {
		return Summary{}, err
	}
	strats, err := s.strategies.ListByGoal(goalID)
	if err != nil {
		return Summary{}, err
	}
	planList, err := s.plans.ListByGoal(goalID)
	if err != nil {
		return Summary{}, err
	}
	ms, err := s.milestones.ListByGoal(goalID)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		GoalID:         goalID,
		GeneratedAt:    now,
		LatestAnalysis: analysis,
		Strategies:     strats,
		Plans:          planList,
		Milestones:     ms,
	}
	activeCount := 0
	for i := range planList {
		if planList[i].IsActive {
			summary.ActivePlan = &planList[i]
			activeCount++
		}
	}
	for _, m := range ms {
		if m.IsAchieved {
			summary.AchievedMilestones++
		}
	}
	summary.OverallScore = s.scorer.Score(analysis, len(strats), activeCount, ms)
	summary.NextActions = s.scorer.NextActions(analysis, strats)

	if err := s.cache.Put(summary, now); err != nil {
		s.log.Warn().Err(err).Str("goal_id", goalID).Msg("Summary cache write failed")
	}
	return summary, nil
}

// Recommendations bundles the latest analysis recommendations with the
// derived next actions.
func (s *Service) Recommendations(goalID string) (Recommendations, error) {
	if _, err := s.goals.GetByID(goalID); err != nil {
		return Recommendations{}, err
	}

	analysis, err := s.analyses.LatestByGoal(goalID)
	if err != nil {
		return Recommendations{}, err
	}
	strats, err := s.strategies.ListByGoal(goalID)
	if err != nil {
		return Recommendations{}, err
	}

	return Recommendations{
		GoalID:          goalID,
		AnalysisID:      analysis.ID,
		Recommendations: analysis.Details.Recommendations,
		NextActions:     s.scorer.NextActions(analysis, strats),
	}, nil
}

// RefreshAll re-runs the gap analysis and milestone progress for every goal.
// Used by the scheduler; individual goal failures are logged and skipped.
func (s *Service) RefreshAll() error {
	goalList, err := s.goals.GetAll()
	if err != nil {
		return fmt.Errorf("failed to list goals for refresh: %w", err)
	}

	var failed int
	for _, goal := range goalList {
		if _, err := s.PerformGapAnalysis(goal.ID); err != nil {
			s.log.Error().Err(err).Str("goal_id", goal.ID).Msg("Scheduled gap analysis failed")
			failed++
			continue
		}
		if _, err := s.UpdateMilestoneProgress(goal.ID); err != nil {
			s.log.Error().Err(err).Str("goal_id", goal.ID).Msg("Scheduled milestone update failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("refresh completed with %d failed goal(s)", failed)
	}
	s.log.Info().Int("goals", len(goalList)).Msg("Optimization refresh completed")
	return nil
}
