package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pairsim/pairsim/internal/backtest"
	"github.com/pairsim/pairsim/internal/dataset"
	"github.com/pairsim/pairsim/internal/export"
	"github.com/pairsim/pairsim/internal/models"
	"github.com/pairsim/pairsim/internal/signal"
	"github.com/pairsim/pairsim/internal/store"
	"github.com/pairsim/pairsim/pkg/formatters"
)

var (
	backtestCSV        string
	backtestParamsFile string
	backtestHedge      float64
	backtestExportCSV  string
	backtestExportJSON string
	backtestShowTrades bool
	backtestSave       bool
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a single backtest over a pair CSV",
	Long: `Runs the mean-reversion simulation over a two-column CSV of log
prices and prints the performance summary. The hedge ratio is fitted by
OLS regression when not supplied.`,
	RunE: runBacktest,
}

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestCSV, "csv", "", "CSV file with date and two log-price columns (required)")
	backtestCmd.Flags().StringVar(&backtestParamsFile, "params", "", "optional YAML/JSON parameter file")
	backtestCmd.Flags().Float64Var(&backtestHedge, "hedge-ratio", math.NaN(), "hedge ratio (default: fit by OLS)")
	backtestCmd.Flags().StringVar(&backtestExportCSV, "export-csv", "", "write the closed-trade ledger to a CSV file")
	backtestCmd.Flags().StringVar(&backtestExportJSON, "export-json", "", "write the closed-trade ledger to a JSON file")
	backtestCmd.Flags().BoolVar(&backtestShowTrades, "trades", false, "print the trade ledger")
	backtestCmd.Flags().BoolVar(&backtestSave, "save", false, "persist the run to Postgres (requires DATABASE_URL)")
	backtestCmd.MarkFlagRequired("csv")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	series, err := dataset.LoadCSV(backtestCSV)
	if err != nil {
		return err
	}

	params, err := resolveParams(series)
	if err != nil {
		return err
	}

	result, err := backtest.Simulate(series, params, logger)
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}

	fmt.Println(formatters.FormatBacktestSummary(result))
	if backtestShowTrades {
		fmt.Println(formatters.FormatTradesTable(result.Trades))
	}

	if backtestExportCSV != "" {
		if err := export.SaveTradesCSV(backtestExportCSV, result.Trades); err != nil {
			return err
		}
		logger.Info("trade ledger exported", zap.String("path", backtestExportCSV))
	}
	if backtestExportJSON != "" {
		if err := export.SaveTradesJSON(backtestExportJSON, result.Trades); err != nil {
			return err
		}
		logger.Info("trade ledger exported", zap.String("path", backtestExportJSON))
	}

	if backtestSave {
		if err := saveRun(cmd.Context(), result); err != nil {
			return err
		}
	}

	return nil
}

// resolveParams merges the env defaults, the optional parameter file and
// the hedge-ratio flag into the simulation parameters.
func resolveParams(series models.PairSeries) (models.StrategyParams, error) {
	params := models.StrategyParams{
		EntryZ:         cfg.EntryZ,
		ExitZ:          cfg.ExitZ,
		StopLossZ:      cfg.StopLossZ,
		TxCostRate:     cfg.TxCostRate,
		InitialCapital: decimal.NewFromFloat(cfg.InitialCapital),
		ZScoreWindow:   cfg.ZScoreWindow,
	}

	hedge := backtestHedge
	if backtestParamsFile != "" {
		file, err := loadParamsFile(backtestParamsFile)
		if err != nil {
			return params, err
		}
		params.EntryZ = file.EntryZ
		params.ExitZ = file.ExitZ
		params.StopLossZ = file.StopLossZ
		params.TxCostRate = file.TxCostRate
		params.InitialCapital = decimal.NewFromFloat(file.InitialCapital)
		params.ZScoreWindow = file.ZScoreWindow
		if file.HedgeRatio != 0 && math.IsNaN(hedge) {
			hedge = file.HedgeRatio
		}
	}

	if math.IsNaN(hedge) {
		fitted, err := signal.HedgeRatio(series.LogA, series.LogB)
		if err != nil {
			return params, fmt.Errorf("failed to fit hedge ratio: %w", err)
		}
		logger.Info("hedge ratio fitted by OLS",
			zap.String("pair", series.Name()),
			zap.Float64("beta", fitted))
		hedge = fitted
	}
	params.HedgeRatio = hedge

	return params, nil
}

// saveRun persists the result when a database is configured.
func saveRun(ctx context.Context, result *models.BacktestResult) error {
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("--save requires DATABASE_URL to be set")
	}

	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Init(ctx); err != nil {
		return err
	}
	runID, err := db.SaveRun(ctx, result)
	if err != nil {
		return err
	}
	if err := db.SaveTrades(ctx, runID, result.Trades); err != nil {
		return err
	}

	logger.Info("run persisted", zap.Int64("run_id", runID), zap.Int("trades", len(result.Trades)))
	return nil
}
