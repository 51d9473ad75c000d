// Package export writes the closed-trade ledger to tabular formats for
// downstream analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	"github.com/pairsim/pairsim/internal/models"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const dateLayout = "2006-01-02"

var csvHeader = []string{
	"pair", "direction", "entry_date", "exit_date",
	"entry_zscore", "exit_zscore",
	"shares_a", "shares_b",
	"entry_price_a", "entry_price_b", "exit_price_a", "exit_price_b",
	"capital_allocated", "gross_pnl", "costs", "net_pnl",
	"return_pct", "holding_days", "exit_reason",
}

// WriteTradesCSV writes the closed-trade ledger as CSV.
func WriteTradesCSV(w io.Writer, trades []models.Trade) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, t := range trades {
		row := []string{
			t.Pair,
			string(t.Direction),
			t.EntryDate.Format(dateLayout),
			t.ExitDate.Format(dateLayout),
			strconv.FormatFloat(t.EntryZScore, 'f', 4, 64),
			strconv.FormatFloat(t.ExitZScore, 'f', 4, 64),
			t.SharesA.StringFixed(6),
			t.SharesB.StringFixed(6),
			t.EntryPriceA.StringFixed(4),
			t.EntryPriceB.StringFixed(4),
			t.ExitPriceA.StringFixed(4),
			t.ExitPriceB.StringFixed(4),
			t.CapitalAllocated.StringFixed(2),
			t.GrossPnL.StringFixed(2),
			t.Costs.StringFixed(2),
			t.NetPnL.StringFixed(2),
			strconv.FormatFloat(t.ReturnPct, 'f', 4, 64),
			strconv.Itoa(t.HoldingDays),
			string(t.ExitReason),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write trade row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteTradesJSON writes the closed-trade ledger as indented JSON.
func WriteTradesJSON(w io.Writer, trades []models.Trade) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(trades)
}

// WriteResultJSON writes a full backtest result (trades, equity curve,
// metrics, parameters) as indented JSON.
func WriteResultJSON(w io.Writer, result *models.BacktestResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// SaveTradesCSV writes the ledger to a file path.
func SaveTradesCSV(path string, trades []models.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTradesCSV(f, trades)
}

// SaveTradesJSON writes the ledger to a file path.
func SaveTradesJSON(path string, trades []models.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTradesJSON(f, trades)
}
