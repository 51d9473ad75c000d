package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Set test environment variables
	testEnv := map[string]string{
		"INITIAL_CAPITAL":     "50000",
		"TRANSACTION_COST":    "0.002",
		"ENTRY_ZSCORE":        "2.5",
		"EXIT_ZSCORE":         "0.3",
		"STOP_LOSS_ZSCORE":    "5.0",
		"ZSCORE_WINDOW":       "30",
		"OPTIMIZER_WORKERS":   "8",
		"RESULT_CACHE_TTL_MS": "200",
		"DATABASE_URL":        "postgres://localhost/pairsim_test",
	}

	// Set env vars
	for key, value := range testEnv {
		os.Setenv(key, value)
	}

	// Clean up after test
	defer func() {
		for key := range testEnv {
			os.Unsetenv(key)
		}
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.InitialCapital != 50000 {
		t.Errorf("Expected InitialCapital=50000, got %f", cfg.InitialCapital)
	}

	if cfg.TxCostRate != 0.002 {
		t.Errorf("Expected TxCostRate=0.002, got %f", cfg.TxCostRate)
	}

	if cfg.EntryZ != 2.5 || cfg.ExitZ != 0.3 || cfg.StopLossZ != 5.0 {
		t.Errorf("Expected thresholds 2.5/0.3/5.0, got %f/%f/%f", cfg.EntryZ, cfg.ExitZ, cfg.StopLossZ)
	}

	if cfg.ZScoreWindow != 30 {
		t.Errorf("Expected ZScoreWindow=30, got %d", cfg.ZScoreWindow)
	}

	if cfg.OptimizerWorkers != 8 {
		t.Errorf("Expected OptimizerWorkers=8, got %d", cfg.OptimizerWorkers)
	}

	// Test parsed duration
	expectedTTL := 200 * time.Millisecond
	if cfg.ResultCacheTTL != expectedTTL {
		t.Errorf("Expected ResultCacheTTL=%v, got %v", expectedTTL, cfg.ResultCacheTTL)
	}

	if cfg.DatabaseURL != "postgres://localhost/pairsim_test" {
		t.Errorf("Expected DatabaseURL to round-trip, got '%s'", cfg.DatabaseURL)
	}
}

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"INITIAL_CAPITAL", "TRANSACTION_COST", "ENTRY_ZSCORE", "EXIT_ZSCORE",
		"STOP_LOSS_ZSCORE", "ZSCORE_WINDOW", "OPTIMIZER_WORKERS",
		"RESULT_CACHE_TTL_MS", "DATABASE_URL",
	} {
		os.Unsetenv(key)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.InitialCapital != 100000 {
		t.Errorf("Expected default InitialCapital=100000, got %f", cfg.InitialCapital)
	}
	if cfg.EntryZ != 2.0 || cfg.ExitZ != 0.5 || cfg.StopLossZ != 4.0 {
		t.Errorf("Expected default thresholds 2.0/0.5/4.0, got %f/%f/%f", cfg.EntryZ, cfg.ExitZ, cfg.StopLossZ)
	}
	if cfg.ZScoreWindow != 20 {
		t.Errorf("Expected default ZScoreWindow=20, got %d", cfg.ZScoreWindow)
	}
	if cfg.OptimizerWorkers != 0 {
		t.Errorf("Expected default OptimizerWorkers=0, got %d", cfg.OptimizerWorkers)
	}
	if cfg.ResultCacheTTL != 5*time.Minute {
		t.Errorf("Expected default ResultCacheTTL=5m, got %v", cfg.ResultCacheTTL)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("Expected empty DatabaseURL by default, got '%s'", cfg.DatabaseURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-positive capital", "INITIAL_CAPITAL", "0"},
		{"negative capital", "INITIAL_CAPITAL", "-100"},
		{"negative cost", "TRANSACTION_COST", "-0.001"},
		{"non-positive window", "ZSCORE_WINDOW", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.key, tt.value)
			defer os.Unsetenv(tt.key)

			_, err := Load()
			if err == nil {
				t.Errorf("Expected error for %s=%s, got nil", tt.key, tt.value)
			}
		})
	}
}
