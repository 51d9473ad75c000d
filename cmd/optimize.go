package cmd

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pairsim/pairsim/internal/backtest"
	"github.com/pairsim/pairsim/internal/dataset"
	"github.com/pairsim/pairsim/internal/models"
	"github.com/pairsim/pairsim/internal/signal"
	"github.com/pairsim/pairsim/pkg/formatters"
)

var (
	optimizeCSV        string
	optimizeParamsFile string
	optimizeHedge      float64
	optimizeEntry      []float64
	optimizeExit       []float64
	optimizeStop       []float64
	optimizeTop        int
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Grid-search entry/exit/stop thresholds",
	Long: `Sweeps every threshold combination satisfying exit < entry < stop
through an independent simulation and ranks the results by Sharpe ratio.`,
	RunE: runOptimize,
}

func init() {
	rootCmd.AddCommand(optimizeCmd)

	optimizeCmd.Flags().StringVar(&optimizeCSV, "csv", "", "CSV file with date and two log-price columns (required)")
	optimizeCmd.Flags().StringVar(&optimizeParamsFile, "params", "", "optional YAML/JSON parameter file with candidate lists")
	optimizeCmd.Flags().Float64Var(&optimizeHedge, "hedge-ratio", math.NaN(), "hedge ratio (default: fit by OLS)")
	optimizeCmd.Flags().Float64SliceVar(&optimizeEntry, "entry", nil, "entry threshold candidates")
	optimizeCmd.Flags().Float64SliceVar(&optimizeExit, "exit", nil, "exit threshold candidates")
	optimizeCmd.Flags().Float64SliceVar(&optimizeStop, "stop", nil, "stop-loss threshold candidates")
	optimizeCmd.Flags().IntVar(&optimizeTop, "top", 0, "only print the top N rows (0 = all)")
	optimizeCmd.MarkFlagRequired("csv")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	series, err := dataset.LoadCSV(optimizeCSV)
	if err != nil {
		return err
	}

	base := models.StrategyParams{
		TxCostRate:     cfg.TxCostRate,
		InitialCapital: decimal.NewFromFloat(cfg.InitialCapital),
		ZScoreWindow:   cfg.ZScoreWindow,
	}

	cands := backtest.DefaultCandidates()
	hedge := optimizeHedge

	if optimizeParamsFile != "" {
		file, err := loadParamsFile(optimizeParamsFile)
		if err != nil {
			return err
		}
		base.TxCostRate = file.TxCostRate
		base.InitialCapital = decimal.NewFromFloat(file.InitialCapital)
		base.ZScoreWindow = file.ZScoreWindow
		if len(file.EntryCandidates) > 0 {
			cands.Entry = file.EntryCandidates
		}
		if len(file.ExitCandidates) > 0 {
			cands.Exit = file.ExitCandidates
		}
		if len(file.StopLossCandidates) > 0 {
			cands.StopLoss = file.StopLossCandidates
		}
		if file.HedgeRatio != 0 && math.IsNaN(hedge) {
			hedge = file.HedgeRatio
		}
	}

	if len(optimizeEntry) > 0 {
		cands.Entry = optimizeEntry
	}
	if len(optimizeExit) > 0 {
		cands.Exit = optimizeExit
	}
	if len(optimizeStop) > 0 {
		cands.StopLoss = optimizeStop
	}

	if math.IsNaN(hedge) {
		fitted, err := signal.HedgeRatio(series.LogA, series.LogB)
		if err != nil {
			return fmt.Errorf("failed to fit hedge ratio: %w", err)
		}
		logger.Info("hedge ratio fitted by OLS",
			zap.String("pair", series.Name()),
			zap.Float64("beta", fitted))
		hedge = fitted
	}
	base.HedgeRatio = hedge

	rows, err := backtest.Optimize(cmd.Context(), series, base, cands, backtest.OptimizeOptions{
		Workers: cfg.OptimizerWorkers,
		Cache:   resultCache,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("grid search failed: %w", err)
	}

	if optimizeTop > 0 && optimizeTop < len(rows) {
		rows = rows[:optimizeTop]
	}
	fmt.Println(formatters.FormatOptimizationTable(rows))

	return nil
}
