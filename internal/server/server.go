// Package server provides the HTTP server and routing for the goal
// optimization engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/database"
	goalshandlers "github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/goals/handlers"
	optimizerhandlers "github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/optimizer/handlers"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/scheduler"
)

// Config holds server configuration
type Config struct {
	Log               zerolog.Logger
	Config            *config.Config
	GoalsDB           *database.DB
	OptimizerDB       *database.DB
	CacheDB           *database.DB
	GoalsHandlers     *goalshandlers.Handler
	OptimizerHandlers *optimizerhandlers.Handler
	RefreshJob        scheduler.Job
	Scheduler         *scheduler.Scheduler
}

// Server represents the HTTP server
type Server struct {
	router            *chi.Mux
	server            *http.Server
	log               zerolog.Logger
	goalsHandlers     *goalshandlers.Handler
	optimizerHandlers *optimizerhandlers.Handler
	systemHandlers    *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:            chi.NewRouter(),
		log:               cfg.Log.With().Str("component", "server").Logger(),
		goalsHandlers:     cfg.GoalsHandlers,
		optimizerHandlers: cfg.OptimizerHandlers,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.Config.DataDir,
			cfg.GoalsDB,
			cfg.OptimizerDB,
			cfg.CacheDB,
			cfg.RefreshJob,
			cfg.Scheduler,
		),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	// Liveness probe, no dependencies
	s.router.Get("/health", s.systemHandlers.HandleLiveness)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/system/health", s.systemHandlers.HandleSystemHealth)
		r.Post("/system/refresh", s.systemHandlers.HandleTriggerRefresh)

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", s.goalsHandlers.HandleCreateGoal)
			r.Get("/", s.goalsHandlers.HandleListGoals)

			r.Route("/{goalID}", func(r chi.Router) {
				r.Get("/", s.goalsHandlers.HandleGetGoal)

				r.Post("/gap-analysis", s.optimizerHandlers.HandlePerformAnalysis)
				r.Get("/gap-analysis", s.optimizerHandlers.HandleLatestAnalysis)
				r.Get("/gap-analysis/history", s.optimizerHandlers.HandleAnalysisHistory)

				r.Post("/strategies", s.optimizerHandlers.HandleGenerateStrategies)
				r.Get("/strategies", s.optimizerHandlers.HandleListStrategies)
				r.Post("/strategies/{strategyID}/apply", s.optimizerHandlers.HandleApplyStrategy)

				r.Post("/plans", s.optimizerHandlers.HandleGeneratePlans)
				r.Get("/plans", s.optimizerHandlers.HandleListPlans)
				r.Post("/plans/{planID}/activate", s.optimizerHandlers.HandleActivatePlan)

				r.Post("/milestones", s.optimizerHandlers.HandleGenerateMilestones)
				r.Get("/milestones", s.optimizerHandlers.HandleListMilestones)
				r.Post("/milestones/progress", s.optimizerHandlers.HandleMilestoneProgress)

				r.Get("/summary", s.optimizerHandlers.HandleSummary)
				r.Get("/recommendations", s.optimizerHandlers.HandleRecommendations)
			})
		})
	})
}

// loggingMiddleware logs requests with zerolog
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Msg("Request handled")
	})
}

// Start starts the HTTP server, blocking until shutdown
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("HTTP server shutting down")
	return s.server.Shutdown(ctx)
}

// Router exposes the router for tests
func (s *Server) Router() http.Handler {
	return s.router
}
