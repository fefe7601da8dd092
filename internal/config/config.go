// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir         string // Base directory for all databases, always absolute
	LogLevel        string
	Port            int
	DevMode         bool
	RefreshSchedule string // cron spec for the nightly optimizer refresh
	Optimizer       OptimizerConfig
}

// OptimizerConfig exposes every tunable constant of the gap engine as a named
// field so thresholds can be adjusted and tested independently of the
// algorithm shape.
type OptimizerConfig struct {
	// ValuationFallback is the capital assumed when the portfolio valuation
	// source is unavailable.
	ValuationFallback float64

	// ProjectionHorizonMonths caps the month-by-month completion simulation
	// (600 months = 50 years).
	ProjectionHorizonMonths int

	// DaysPerMonth is the divisor used when converting a date distance to a
	// month count.
	DaysPerMonth float64

	// HistoricalVolatility is the assumed annualized volatility (percent)
	// reported in gap details until a real market data source is wired in.
	HistoricalVolatility float64

	Risk  RiskThresholds
	Score ScoreWeights
}

// RiskThresholds holds the gap-percentage bucket boundaries per horizon.
// A goal with no deadline is treated as a long-horizon goal.
type RiskThresholds struct {
	LongHorizonMonths   int // horizons above this use the Long buckets
	MediumHorizonMonths int // horizons above this (up to long) use Medium

	LongLow    float64 // gap% below this is LOW risk on long horizons
	LongMedium float64 // gap% below this is MEDIUM risk on long horizons

	MediumLow    float64
	MediumMedium float64

	ShortLow    float64
	ShortMedium float64
}

// ScoreWeights holds the health score composition constants.
type ScoreWeights struct {
	Base             float64
	SmallGapBonus    float64 // applied when gap% is below SmallGapLimit
	SmallGapLimit    float64
	LargeGapPenalty  float64 // applied when gap% is above LargeGapLimit
	LargeGapLimit    float64
	LowRiskBonus     float64
	HighRiskPenalty  float64
	StrategyPoints   float64 // per generated strategy
	StrategyCap      float64
	ActivePlanPoints float64 // per active plan
	ActivePlanCap    float64
	MilestoneWeight  float64 // scaled by achieved/total milestones
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("OPTIMIZER_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:         absDataDir,
		Port:            getEnvAsInt("GO_PORT", 8001),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@daily"),
		Optimizer:       DefaultOptimizerConfig(),
	}

	if fallback := getEnvAsFloat("VALUATION_FALLBACK", 0); fallback > 0 {
		cfg.Optimizer.ValuationFallback = fallback
	}

	return cfg, nil
}

// DefaultOptimizerConfig returns the engine constants used in production.
func DefaultOptimizerConfig() OptimizerConfig {
	return OptimizerConfig{
		ValuationFallback:       10000,
		ProjectionHorizonMonths: 600,
		DaysPerMonth:            30,
		HistoricalVolatility:    15,
		Risk: RiskThresholds{
			LongHorizonMonths:   120,
			MediumHorizonMonths: 60,
			LongLow:             20,
			LongMedium:          50,
			MediumLow:           15,
			MediumMedium:        40,
			ShortLow:            10,
			ShortMedium:         30,
		},
		Score: ScoreWeights{
			Base:             50,
			SmallGapBonus:    15,
			SmallGapLimit:    20,
			LargeGapPenalty:  15,
			LargeGapLimit:    60,
			LowRiskBonus:     10,
			HighRiskPenalty:  10,
			StrategyPoints:   5,
			StrategyCap:      20,
			ActivePlanPoints: 5,
			ActivePlanCap:    10,
			MilestoneWeight:  20,
		},
	}
}

// getEnv retrieves an environment variable value, returning a fallback if the
// variable is not set or is empty.
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt retrieves an environment variable as an integer
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsFloat retrieves an environment variable as a float
func getEnvAsFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return fallback
}

// getEnvAsBool retrieves an environment variable as a boolean
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return fallback
}
