package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Strategy defaults
	InitialCapital float64
	TxCostRate     float64
	EntryZ         float64
	ExitZ          float64
	StopLossZ      float64
	ZScoreWindow   int

	// Optimizer
	OptimizerWorkers int
	ResultCacheTTL   time.Duration

	// Persistence (optional)
	DatabaseURL string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		// Strategy defaults
		InitialCapital: getEnvFloat("INITIAL_CAPITAL", 100000.0),
		TxCostRate:     getEnvFloat("TRANSACTION_COST", 0.001),
		EntryZ:         getEnvFloat("ENTRY_ZSCORE", 2.0),
		ExitZ:          getEnvFloat("EXIT_ZSCORE", 0.5),
		StopLossZ:      getEnvFloat("STOP_LOSS_ZSCORE", 4.0),
		ZScoreWindow:   getEnvInt("ZSCORE_WINDOW", 20),

		// Optimizer
		OptimizerWorkers: getEnvInt("OPTIMIZER_WORKERS", 0), // 0 = NumCPU
		ResultCacheTTL:   getEnvDuration("RESULT_CACHE_TTL_MS", 300000) * time.Millisecond,

		// Persistence
		DatabaseURL: getEnv("DATABASE_URL", ""),
	}

	// Validate required fields
	if cfg.InitialCapital <= 0 {
		return nil, fmt.Errorf("INITIAL_CAPITAL must be positive")
	}
	if cfg.TxCostRate < 0 {
		return nil, fmt.Errorf("TRANSACTION_COST must be non-negative")
	}
	if cfg.ZScoreWindow <= 0 {
		return nil, fmt.Errorf("ZSCORE_WINDOW must be positive")
	}

	return cfg, nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue int64) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseInt(value, 10, 64); err == nil {
			return time.Duration(parsed)
		}
	}
	return time.Duration(defaultValue)
}
