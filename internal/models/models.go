package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Direction represents which side of the spread a position is on
type Direction string

const (
	LongSpread  Direction = "LONG_SPREAD"  // long A, short B
	ShortSpread Direction = "SHORT_SPREAD" // short A, long B
)

// ExitReason represents why a trade was closed
type ExitReason string

const (
	TakeProfit  ExitReason = "TAKE_PROFIT"
	StopLoss    ExitReason = "STOP_LOSS"
	EndOfPeriod ExitReason = "END_OF_PERIOD"
)

// Method represents a backtest evaluation methodology
type Method string

const (
	MethodSimple         Method = "simple"
	MethodTrainTestSplit Method = "train_test_split"
	MethodWalkForward    Method = "walk_forward"
)

// PairSeries holds two aligned log-price series for a pair, one value per
// trading day. LogA and LogB must have the same length as Dates.
type PairSeries struct {
	SymbolA string      `json:"symbol_a"`
	SymbolB string      `json:"symbol_b"`
	Dates   []time.Time `json:"dates"`
	LogA    []float64   `json:"log_a"`
	LogB    []float64   `json:"log_b"`
}

// Len returns the number of bars in the series.
func (s PairSeries) Len() int {
	return len(s.Dates)
}

// Name returns a display name for the pair.
func (s PairSeries) Name() string {
	return fmt.Sprintf("%s/%s", s.SymbolA, s.SymbolB)
}

// Validate checks the two-column alignment contract.
func (s PairSeries) Validate() error {
	if len(s.LogA) != len(s.LogB) {
		return fmt.Errorf("%w: series %s has %d bars, %s has %d",
			ErrShapeMismatch, s.SymbolA, len(s.LogA), s.SymbolB, len(s.LogB))
	}
	if len(s.Dates) != len(s.LogA) {
		return fmt.Errorf("%w: %d timestamps for %d prices",
			ErrShapeMismatch, len(s.Dates), len(s.LogA))
	}
	if len(s.LogA) == 0 {
		return fmt.Errorf("%w: empty price series", ErrShapeMismatch)
	}
	return nil
}

// StrategyParams holds the inputs to a single simulation run.
type StrategyParams struct {
	HedgeRatio     float64         `json:"hedge_ratio"`
	EntryZ         float64         `json:"entry_zscore"`
	ExitZ          float64         `json:"exit_zscore"`
	StopLossZ      float64         `json:"stop_loss_zscore"`
	TxCostRate     float64         `json:"transaction_cost"`
	InitialCapital decimal.Decimal `json:"initial_capital"`
	ZScoreWindow   int             `json:"zscore_window"`
}

// Trade is an immutable record of a closed position: the entry and exit
// snapshots plus the realized accounting.
type Trade struct {
	Pair             string          `json:"pair"`
	Direction        Direction       `json:"direction"`
	EntryDate        time.Time       `json:"entry_date"`
	ExitDate         time.Time       `json:"exit_date"`
	EntryZScore      float64         `json:"entry_zscore"`
	ExitZScore       float64         `json:"exit_zscore"`
	SharesA          decimal.Decimal `json:"shares_a"`
	SharesB          decimal.Decimal `json:"shares_b"`
	EntryPriceA      decimal.Decimal `json:"entry_price_a"`
	EntryPriceB      decimal.Decimal `json:"entry_price_b"`
	ExitPriceA       decimal.Decimal `json:"exit_price_a"`
	ExitPriceB       decimal.Decimal `json:"exit_price_b"`
	CapitalAllocated decimal.Decimal `json:"capital_allocated"`
	GrossPnL         decimal.Decimal `json:"gross_pnl"`
	Costs            decimal.Decimal `json:"costs"`
	NetPnL           decimal.Decimal `json:"net_pnl"`
	ReturnPct        float64         `json:"return_pct"`
	HoldingDays      int             `json:"holding_days"`
	ExitReason       ExitReason      `json:"exit_reason"`
}

// EquityPoint is one bar of the mark-to-market equity curve.
type EquityPoint struct {
	Date   time.Time       `json:"date"`
	Equity decimal.Decimal `json:"equity"`
}

// Ratio is a non-negative ratio that may be infinite, e.g. the profit factor
// of a backtest with no losing trades. Keeping the infinity explicit avoids
// floating-point Inf leaking into downstream aggregation.
type Ratio struct {
	Value    float64 `json:"value"`
	Infinite bool    `json:"infinite"`
}

// FiniteRatio returns a finite ratio value.
func FiniteRatio(v float64) Ratio {
	return Ratio{Value: v}
}

// InfiniteRatio returns the infinite sentinel.
func InfiniteRatio() Ratio {
	return Ratio{Infinite: true}
}

func (r Ratio) String() string {
	if r.Infinite {
		return "inf"
	}
	return fmt.Sprintf("%.2f", r.Value)
}

// Metrics holds the aggregate statistics of one backtest run.
type Metrics struct {
	TotalTrades       int             `json:"total_trades"`
	WinningTrades     int             `json:"winning_trades"`
	LosingTrades      int             `json:"losing_trades"`
	TotalReturn       decimal.Decimal `json:"total_return"`
	TotalReturnPct    float64         `json:"total_return_pct"`
	AnnualReturnPct   float64         `json:"annual_return_pct"`
	SharpeRatio       float64         `json:"sharpe_ratio"`
	CalmarRatio       float64         `json:"calmar_ratio"`
	MaxDrawdownPct    float64         `json:"max_drawdown_pct"`
	WinRate           float64         `json:"win_rate"`
	AvgWin            decimal.Decimal `json:"avg_win"`
	AvgLoss           decimal.Decimal `json:"avg_loss"`
	AvgReturnPerTrade float64         `json:"avg_return_per_trade"`
	AvgHoldingDays    float64         `json:"avg_holding_days"`
	ProfitFactor      Ratio           `json:"profit_factor"`
	AvgWinLossRatio   Ratio           `json:"avg_win_loss_ratio"`
}

// BacktestResult bundles everything a single simulation produced.
type BacktestResult struct {
	Pair        string         `json:"pair"`
	Trades      []Trade        `json:"trades"`
	EquityCurve []EquityPoint  `json:"equity_curve"`
	Metrics     Metrics        `json:"metrics"`
	Params      StrategyParams `json:"parameters"`
}

// ValidationResult reports configuration feasibility. Errors make the
// configuration unusable; warnings and recommendations are advisory.
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	Recommendations []string `json:"recommendations"`
}

// Suggestion is a deterministic recommended configuration for a data length.
type Suggestion struct {
	Method        Method  `json:"method"`
	ZScoreWindow  int     `json:"zscore_window"`
	TrainWindow   int     `json:"train_window,omitempty"`
	TestWindow    int     `json:"test_window,omitempty"`
	StepSize      int     `json:"step_size,omitempty"`
	TrainPct      float64 `json:"train_pct,omitempty"`
	RollingWindow int     `json:"rolling_window"`
	RollingStep   int     `json:"rolling_step"`
	Note          string  `json:"note"`
}

// OptimizationRow is one ranked entry of a grid-search result.
type OptimizationRow struct {
	EntryZ         float64 `json:"entry_zscore"`
	ExitZ          float64 `json:"exit_zscore"`
	StopLossZ      float64 `json:"stop_loss_zscore"`
	TotalReturnPct float64 `json:"total_return_pct"`
	SharpeRatio    float64 `json:"sharpe_ratio"`
	MaxDrawdownPct float64 `json:"max_drawdown_pct"`
	WinRate        float64 `json:"win_rate"`
	TotalTrades    int     `json:"total_trades"`
	ProfitFactor   Ratio   `json:"profit_factor"`
}
