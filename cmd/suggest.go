package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pairsim/pairsim/internal/models"
	"github.com/pairsim/pairsim/internal/validate"
	"github.com/pairsim/pairsim/pkg/formatters"
)

var (
	suggestDataLength int
	suggestMethod     string
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Suggest backtest parameters for a given data length",
	RunE:  runSuggest,
}

func init() {
	rootCmd.AddCommand(suggestCmd)

	suggestCmd.Flags().IntVar(&suggestDataLength, "data-length", 0, "number of trading days of data available (required)")
	suggestCmd.Flags().StringVar(&suggestMethod, "method", "walk_forward", "methodology: simple, train_test_split, walk_forward")
	suggestCmd.MarkFlagRequired("data-length")
}

func runSuggest(cmd *cobra.Command, args []string) error {
	suggestion := validate.Suggest(suggestDataLength, models.Method(suggestMethod))
	fmt.Println(formatters.FormatSuggestion(suggestion))
	return nil
}
