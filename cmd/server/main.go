// Package main is the entry point for the goal gap and optimization engine.
// The application analyzes how far financial goals are from their targets,
// generates ranked optimization strategies and contribution plans, tracks
// intermediate milestones and exposes everything over an HTTP API.
//
// Data lives in a 3-database architecture:
// - goals.db: financial goals and portfolio positions used for valuation
// - optimizer.db: append-only computed artifacts (analyses, strategies, plans, milestones)
// - cache.db: ephemeral serialized summaries
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/config"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/database"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/gap"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/goals"
	goalshandlers "github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/goals/handlers"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/milestones"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/optimizer"
	optimizerhandlers "github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/optimizer/handlers"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/plans"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/portfolio"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/modules/strategies"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/scheduler"
	"github.com/DiegoMartinotti/cedears-manager-sub004/internal/server"
	"github.com/DiegoMartinotti/cedears-manager-sub004/pkg/logger"
)

const summaryCacheTTL = 15 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Str("data_dir", cfg.DataDir).Msg("Starting goal optimization engine")

	goalsDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "goals.db"),
		Profile: database.ProfileStandard,
		Name:    "goals",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open goals database")
	}
	defer goalsDB.Close()

	optimizerDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "optimizer.db"),
		Profile: database.ProfileStandard,
		Name:    "optimizer",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open optimizer database")
	}
	defer optimizerDB.Close()

	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "cache.db"),
		Profile: database.ProfileCache,
		Name:    "cache",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open cache database")
	}
	defer cacheDB.Close()

	for _, db := range []*database.DB{goalsDB, optimizerDB, cacheDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to run migrations")
		}
	}

	// Repositories and domain services
	goalsRepo := goals.NewRepository(goalsDB.Conn(), log)
	positionsRepo := portfolio.NewPositionRepository(goalsDB.Conn(), log)
	valuation := portfolio.NewValuationService(positionsRepo, cfg.Optimizer.ValuationFallback, log)

	svc := optimizer.NewService(
		goalsRepo,
		valuation,
		gap.NewCalculator(cfg.Optimizer),
		gap.NewExpander(cfg.Optimizer),
		gap.NewRepository(optimizerDB.Conn(), log),
		strategies.NewGenerator(),
		strategies.NewRepository(optimizerDB.Conn(), log),
		plans.NewPlanner(),
		plans.NewRepository(optimizerDB.Conn(), log),
		milestones.NewGenerator(cfg.Optimizer),
		milestones.NewRepository(optimizerDB.Conn(), log),
		optimizer.NewScoreAggregator(cfg.Optimizer.Score),
		optimizer.NewSummaryCache(cacheDB.Conn(), summaryCacheTTL, log),
		log,
	)

	// Background refresh
	sched := scheduler.New(log)
	refreshJob := scheduler.NewRefreshJob(svc)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).
			Msg("Failed to register refresh job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:               log,
		Config:            cfg,
		GoalsDB:           goalsDB,
		OptimizerDB:       optimizerDB,
		CacheDB:           cacheDB,
		GoalsHandlers:     goalshandlers.NewHandler(goalsRepo, log),
		OptimizerHandlers: optimizerhandlers.NewHandler(svc, log),
		RefreshJob:        refreshJob,
		Scheduler:         sched,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			log.Fatal().Err(err).Msg("Server failed")
		}
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Graceful shutdown failed")
	}

	log.Info().Msg("Goal optimization engine stopped")
}
