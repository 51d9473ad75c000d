package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pairsim/pairsim/internal/cache"
	"github.com/pairsim/pairsim/internal/config"
)

var (
	// Global instances
	cfg         *config.Config
	resultCache *cache.ResultCache
	logger      *zap.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pairsim",
	Short: "Backtest simulator for pairs-trading strategies",
	Long: `pairsim simulates z-score mean-reversion trading rules over pairs of
price series: position state machine, trade ledger with mark-to-market
accounting, performance metrics, parameter validation and grid-search
optimization.`,
	PersistentPreRunE: initializeApp,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initLogger)
}

// initLogger configures the logger: default INFO, DEBUG if DEBUG env is truthy
func initLogger() {
	verbose := false
	if v := os.Getenv("DEBUG"); v == "true" || v == "1" || v == "yes" {
		verbose = true
	}

	zcfg := zap.NewProductionConfig()
	zcfg.EncoderConfig.TimeKey = "time"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if verbose {
		zcfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zcfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	var err error
	logger, err = zcfg.Build()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
}

// initializeApp sets up all dependencies
func initializeApp(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	resultCache = cache.NewResultCache(cfg.ResultCacheTTL)
	return nil
}

// loadParamsFile reads a parameter file seeded with the env defaults.
func loadParamsFile(path string) (*config.ParamsFile, error) {
	return config.LoadParamsFile(path, cfg)
}
