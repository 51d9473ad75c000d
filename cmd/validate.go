package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pairsim/pairsim/internal/models"
	"github.com/pairsim/pairsim/internal/validate"
	"github.com/pairsim/pairsim/pkg/formatters"
)

var (
	validatePeriod      string
	validateDataLength  int
	validateWindow      int
	validateStep        int
	validateMethod      string
	validateTrainWindow int
	validateTestWindow  int
	validateZWindow     int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a backtest configuration against the available data",
	RunE:  runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringVar(&validatePeriod, "period", "1y", "nominal period label (1mo, 3mo, 6mo, 1y, 2y, 5y, 10y)")
	validateCmd.Flags().IntVar(&validateDataLength, "data-length", 0, "actual number of trading days of data (required)")
	validateCmd.Flags().IntVar(&validateWindow, "window", 252, "rolling analysis window in days")
	validateCmd.Flags().IntVar(&validateStep, "step", 21, "step size in days")
	validateCmd.Flags().StringVar(&validateMethod, "method", "walk_forward", "methodology: simple, train_test_split, walk_forward")
	validateCmd.Flags().IntVar(&validateTrainWindow, "train-window", 0, "walk-forward training window (0 = adaptive)")
	validateCmd.Flags().IntVar(&validateTestWindow, "test-window", 0, "walk-forward testing window (0 = adaptive)")
	validateCmd.Flags().IntVar(&validateZWindow, "zscore-window", 20, "z-score window in days")
	validateCmd.MarkFlagRequired("data-length")
}

func runValidate(cmd *cobra.Command, args []string) error {
	result := validate.Parameters(validate.Request{
		Period:       validatePeriod,
		DataLength:   validateDataLength,
		Window:       validateWindow,
		StepSize:     validateStep,
		Method:       models.Method(validateMethod),
		TrainWindow:  validateTrainWindow,
		TestWindow:   validateTestWindow,
		ZScoreWindow: validateZWindow,
	})

	fmt.Println(formatters.FormatValidation(result))

	if !result.Valid {
		// Suggest something workable alongside the failure.
		fmt.Println(formatters.FormatSuggestion(validate.Suggest(validateDataLength, models.Method(validateMethod))))
	}
	return nil
}
