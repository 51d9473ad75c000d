package formatters

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/shopspring/decimal"

	"github.com/pairsim/pairsim/internal/models"
)

// Colors for different values
var (
	ColorGreen  = text.FgGreen
	ColorRed    = text.FgRed
	ColorYellow = text.FgYellow
	ColorWhite  = text.FgWhite
)

// FormatPercent formats a percentage with color
func FormatPercent(percent float64) string {
	sign := ""
	if percent > 0 {
		sign = "+"
	}

	percentStr := fmt.Sprintf("%s%.2f%%", sign, percent)

	if percent > 0 {
		return ColorGreen.Sprint(percentStr)
	} else if percent < 0 {
		return ColorRed.Sprint(percentStr)
	}
	return percentStr
}

// FormatDollarAmount formats a dollar amount with appropriate color
func FormatDollarAmount(amount decimal.Decimal) string {
	amountStr := fmt.Sprintf("$%.2f", amount.Abs().InexactFloat64())

	if amount.IsNegative() {
		return ColorRed.Sprint("-" + amountStr)
	}
	return ColorGreen.Sprint(amountStr)
}

// FormatBacktestSummary renders the strategy parameters, performance
// metrics and trading statistics of one run.
func FormatBacktestSummary(result *models.BacktestResult) string {
	p := result.Params
	m := result.Metrics

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Backtest Summary - %s", result.Pair)

	t.AppendRow(table.Row{"Entry Z-score Threshold", fmt.Sprintf("±%.1f", p.EntryZ)})
	t.AppendRow(table.Row{"Exit Z-score Threshold", fmt.Sprintf("±%.1f", p.ExitZ)})
	t.AppendRow(table.Row{"Stop Loss Z-score", fmt.Sprintf("±%.1f", p.StopLossZ)})
	t.AppendRow(table.Row{"Hedge Ratio", fmt.Sprintf("%.4f", p.HedgeRatio)})
	t.AppendRow(table.Row{"Transaction Cost", fmt.Sprintf("%.2f%%", p.TxCostRate*100)})
	t.AppendRow(table.Row{"Initial Capital", fmt.Sprintf("$%s", p.InitialCapital.StringFixed(0))})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Total Return", fmt.Sprintf("%s (%s)", FormatDollarAmount(m.TotalReturn), FormatPercent(m.TotalReturnPct))})
	t.AppendRow(table.Row{"Annualized Return", FormatPercent(m.AnnualReturnPct)})
	t.AppendRow(table.Row{"Sharpe Ratio", fmt.Sprintf("%.2f", m.SharpeRatio)})
	t.AppendRow(table.Row{"Calmar Ratio", fmt.Sprintf("%.2f", m.CalmarRatio)})
	t.AppendRow(table.Row{"Max Drawdown", fmt.Sprintf("%.2f%%", m.MaxDrawdownPct)})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Total Trades", m.TotalTrades})
	t.AppendRow(table.Row{"Winning Trades", m.WinningTrades})
	t.AppendRow(table.Row{"Losing Trades", m.LosingTrades})
	t.AppendRow(table.Row{"Win Rate", fmt.Sprintf("%.1f%%", m.WinRate)})
	t.AppendRow(table.Row{"Average Win", FormatDollarAmount(m.AvgWin)})
	t.AppendRow(table.Row{"Average Loss", FormatDollarAmount(m.AvgLoss.Neg())})
	t.AppendRow(table.Row{"Win/Loss Ratio", m.AvgWinLossRatio.String()})
	t.AppendRow(table.Row{"Profit Factor", m.ProfitFactor.String()})
	t.AppendRow(table.Row{"Avg Return per Trade", fmt.Sprintf("%.2f%%", m.AvgReturnPerTrade)})
	t.AppendRow(table.Row{"Avg Holding Period", fmt.Sprintf("%.1f days", m.AvgHoldingDays)})

	return t.Render()
}

// FormatTradesTable renders the closed-trade ledger.
func FormatTradesTable(trades []models.Trade) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{
		"Entry", "Exit", "Direction", "Entry Z", "Exit Z", "Net P&L", "Return", "Days", "Reason"})

	for _, trade := range trades {
		t.AppendRow(table.Row{
			trade.EntryDate.Format("2006-01-02"),
			trade.ExitDate.Format("2006-01-02"),
			trade.Direction,
			fmt.Sprintf("%.2f", trade.EntryZScore),
			fmt.Sprintf("%.2f", trade.ExitZScore),
			FormatDollarAmount(trade.NetPnL),
			FormatPercent(trade.ReturnPct),
			trade.HoldingDays,
			trade.ExitReason,
		})
	}

	if len(trades) == 0 {
		t.AppendRow(table.Row{"No trades", "", "", "", "", "", "", "", ""})
	}

	return t.Render()
}

// FormatOptimizationTable renders grid-search results ranked by Sharpe.
func FormatOptimizationTable(rows []models.OptimizationRow) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)

	t.AppendHeader(table.Row{
		"Entry Z", "Exit Z", "Stop Z", "Return", "Sharpe", "Max DD", "Win Rate", "Trades", "PF"})

	for _, row := range rows {
		t.AppendRow(table.Row{
			fmt.Sprintf("%.1f", row.EntryZ),
			fmt.Sprintf("%.1f", row.ExitZ),
			fmt.Sprintf("%.1f", row.StopLossZ),
			FormatPercent(row.TotalReturnPct),
			fmt.Sprintf("%.2f", row.SharpeRatio),
			fmt.Sprintf("%.2f%%", row.MaxDrawdownPct),
			fmt.Sprintf("%.1f%%", row.WinRate),
			row.TotalTrades,
			row.ProfitFactor.String(),
		})
	}

	if len(rows) == 0 {
		t.AppendRow(table.Row{"No valid combinations", "", "", "", "", "", "", "", ""})
	}

	return t.Render()
}

// FormatValidation renders a validation result with its errors, warnings
// and recommendations.
func FormatValidation(result models.ValidationResult) string {
	var parts []string

	if result.Valid {
		parts = append(parts, ColorGreen.Sprint("[VALID] Configuration is valid"))
	} else {
		parts = append(parts, ColorRed.Sprint("[INVALID] Configuration is invalid - cannot proceed"))
	}

	if len(result.Errors) > 0 {
		parts = append(parts, "\nErrors (must fix):")
		for i, e := range result.Errors {
			parts = append(parts, fmt.Sprintf("  %d. %s", i+1, ColorRed.Sprint(e)))
		}
	}
	if len(result.Warnings) > 0 {
		parts = append(parts, "\nWarnings (review recommended):")
		for i, w := range result.Warnings {
			parts = append(parts, fmt.Sprintf("  %d. %s", i+1, ColorYellow.Sprint(w)))
		}
	}
	if len(result.Recommendations) > 0 {
		parts = append(parts, "\nRecommendations:")
		for i, r := range result.Recommendations {
			parts = append(parts, fmt.Sprintf("  %d. %s", i+1, r))
		}
	}

	if result.Valid && len(result.Warnings) == 0 {
		parts = append(parts, ColorGreen.Sprint("\nNo issues detected - configuration looks good"))
	}

	return strings.Join(parts, "\n")
}

// FormatSuggestion renders a recommended configuration.
func FormatSuggestion(s models.Suggestion) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.SetTitle("Suggested Parameters")

	t.AppendRow(table.Row{"Method", string(s.Method)})
	t.AppendRow(table.Row{"Z-score Window", s.ZScoreWindow})
	if s.TrainWindow > 0 {
		t.AppendRow(table.Row{"Train Window", s.TrainWindow})
	}
	if s.TestWindow > 0 {
		t.AppendRow(table.Row{"Test Window", s.TestWindow})
	}
	if s.StepSize > 0 {
		t.AppendRow(table.Row{"Step Size", s.StepSize})
	}
	if s.TrainPct > 0 {
		t.AppendRow(table.Row{"Train Fraction", fmt.Sprintf("%.0f%%", s.TrainPct*100)})
	}
	t.AppendRow(table.Row{"Rolling Window", s.RollingWindow})
	t.AppendRow(table.Row{"Rolling Step", s.RollingStep})
	t.AppendSeparator()
	t.AppendRow(table.Row{"Note", s.Note})

	return t.Render()
}
