package backtest

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/pairsim/pairsim/internal/models"
)

// tradingDaysPerYear is the annualization base for Sharpe and the
// annualized return.
const tradingDaysPerYear = 252

// CalculateMetrics aggregates closed trades and the equity curve into
// scalar performance statistics. A run with zero trades is not an error:
// every metric comes back at its neutral value.
func CalculateMetrics(trades []models.Trade, equity []models.EquityPoint, initialCapital decimal.Decimal, totalBars int) models.Metrics {
	if len(trades) == 0 || len(equity) == 0 {
		return models.Metrics{
			TotalReturn:     decimal.Zero,
			AvgWin:          decimal.Zero,
			AvgLoss:         decimal.Zero,
			ProfitFactor:    models.FiniteRatio(0),
			AvgWinLossRatio: models.FiniteRatio(0),
		}
	}

	finalCapital := equity[len(equity)-1].Equity
	totalReturn := finalCapital.Sub(initialCapital)
	totalReturnPct := 0.0
	if !initialCapital.IsZero() {
		totalReturnPct = totalReturn.Div(initialCapital).InexactFloat64() * 100
	}

	sharpe := sharpeRatio(equity)
	maxDrawdownPct := maxDrawdown(equity) * 100

	// Trade statistics over closed trades.
	var (
		wins, losses       int
		sumWins, sumLosses decimal.Decimal
		sumReturnPct       float64
		sumHoldingDays     int
	)
	for _, t := range trades {
		if t.NetPnL.IsPositive() {
			wins++
			sumWins = sumWins.Add(t.NetPnL)
		} else {
			losses++
			sumLosses = sumLosses.Add(t.NetPnL.Abs())
		}
		sumReturnPct += t.ReturnPct
		sumHoldingDays += t.HoldingDays
	}

	avgWin := decimal.Zero
	if wins > 0 {
		avgWin = sumWins.Div(decimal.NewFromInt(int64(wins)))
	}
	avgLoss := decimal.Zero
	if losses > 0 {
		avgLoss = sumLosses.Div(decimal.NewFromInt(int64(losses)))
	}

	profitFactor := ratioOf(sumWins, sumLosses)
	winLossRatio := ratioOf(avgWin, avgLoss)

	annualReturnPct := 0.0
	if totalBars > 0 {
		annualReturnPct = totalReturnPct / float64(totalBars) * tradingDaysPerYear
	}
	calmar := 0.0
	if maxDrawdownPct != 0 {
		calmar = annualReturnPct / math.Abs(maxDrawdownPct)
	}

	return models.Metrics{
		TotalTrades:       len(trades),
		WinningTrades:     wins,
		LosingTrades:      losses,
		TotalReturn:       totalReturn,
		TotalReturnPct:    totalReturnPct,
		AnnualReturnPct:   annualReturnPct,
		SharpeRatio:       sharpe,
		CalmarRatio:       calmar,
		MaxDrawdownPct:    maxDrawdownPct,
		WinRate:           float64(wins) / float64(len(trades)) * 100,
		AvgWin:            avgWin,
		AvgLoss:           avgLoss,
		AvgReturnPerTrade: sumReturnPct / float64(len(trades)),
		AvgHoldingDays:    float64(sumHoldingDays) / float64(len(trades)),
		ProfitFactor:      profitFactor,
		AvgWinLossRatio:   winLossRatio,
	}
}

// ratioOf divides numerator by denominator, tagging the result infinite
// when the denominator is zero but something was won.
func ratioOf(numerator, denominator decimal.Decimal) models.Ratio {
	if denominator.IsPositive() {
		return models.FiniteRatio(numerator.Div(denominator).InexactFloat64())
	}
	if numerator.IsPositive() {
		return models.InfiniteRatio()
	}
	return models.FiniteRatio(0)
}

// sharpeRatio computes the annualized Sharpe over per-bar simple returns,
// defined as 0 when the returns have no variance.
func sharpeRatio(equity []models.EquityPoint) float64 {
	if len(equity) < 2 {
		return 0
	}

	returns := make([]float64, 0, len(equity)-1)
	for i := 1; i < len(equity); i++ {
		prev := equity[i-1].Equity.InexactFloat64()
		if prev == 0 {
			returns = append(returns, 0)
			continue
		}
		returns = append(returns, (equity[i].Equity.InexactFloat64()-prev)/prev)
	}

	n := float64(len(returns))
	var sum float64
	for _, r := range returns {
		sum += r
	}
	mean := sum / n

	var sq float64
	for _, r := range returns {
		d := r - mean
		sq += d * d
	}
	if len(returns) < 2 {
		return 0
	}
	std := math.Sqrt(sq / (n - 1))
	if std == 0 {
		return 0
	}
	return mean / std * math.Sqrt(tradingDaysPerYear)
}

// maxDrawdown returns the deepest peak-to-trough decline of the equity
// curve as a fraction of the running peak (<= 0).
func maxDrawdown(equity []models.EquityPoint) float64 {
	runningMax := equity[0].Equity.InexactFloat64()
	minDrawdown := 0.0

	for _, p := range equity {
		v := p.Equity.InexactFloat64()
		if v > runningMax {
			runningMax = v
		}
		if runningMax > 0 {
			dd := (v - runningMax) / runningMax
			if dd < minDrawdown {
				minDrawdown = dd
			}
		}
	}
	return minDrawdown
}
