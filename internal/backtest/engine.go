// Package backtest simulates a z-score mean-reversion trading rule over a
// pair of price series: the position state machine, the trade ledger with
// mark-to-market accounting, the performance metrics, and the parameter
// grid search.
package backtest

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/pairsim/pairsim/internal/models"
	"github.com/pairsim/pairsim/internal/signal"
)

// transactionLegs is the number of cost-bearing transactions per round
// trip: two legs opened plus two legs closed.
var transactionLegs = decimal.NewFromInt(4)

var two = decimal.NewFromInt(2)

// openPosition carries the entry snapshot of the one position the engine
// may hold. It exists only between an entry transition and the close that
// converts it into a models.Trade.
type openPosition struct {
	direction        models.Direction
	entryDate        time.Time
	entryZ           float64
	sharesA          decimal.Decimal
	sharesB          decimal.Decimal
	entryPriceA      decimal.Decimal
	entryPriceB      decimal.Decimal
	capitalAllocated decimal.Decimal
}

// engine is the per-run simulation state. A fresh engine is built for every
// Simulate call, so runs never share mutable state.
type engine struct {
	series  models.PairSeries
	params  models.StrategyParams
	logger  *zap.Logger
	priceA  []decimal.Decimal
	priceB  []decimal.Decimal
	zscore  []float64
	capital decimal.Decimal
	pos     *openPosition
	trades  []models.Trade
	equity  []models.EquityPoint
}

// Simulate runs the mean-reversion rule over the pair and returns the closed
// trades, the per-bar equity curve and the aggregate metrics. It fails fast
// on shape or parameter violations before any state transition; two calls
// with identical inputs produce identical results.
func Simulate(series models.PairSeries, params models.StrategyParams, logger *zap.Logger) (*models.BacktestResult, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	spread, err := signal.Spread(series.LogA, series.LogB, params.HedgeRatio)
	if err != nil {
		return nil, err
	}
	zscore, err := signal.RollingZScore(spread, params.ZScoreWindow)
	if err != nil {
		return nil, err
	}

	e := &engine{
		series:  series,
		params:  params,
		logger:  logger,
		zscore:  zscore,
		capital: params.InitialCapital,
	}
	e.resolvePrices()
	e.run()

	metrics := CalculateMetrics(e.trades, e.equity, params.InitialCapital, series.Len())

	logger.Debug("simulation complete",
		zap.String("pair", series.Name()),
		zap.Int("bars", series.Len()),
		zap.Int("trades", len(e.trades)),
		zap.String("final_capital", e.capital.StringFixed(2)),
	)

	return &models.BacktestResult{
		Pair:        series.Name(),
		Trades:      e.trades,
		EquityCurve: e.equity,
		Metrics:     metrics,
		Params:      params,
	}, nil
}

// validateParams rejects parameter sets the state machine cannot trade
// sensibly: without exit < entry < stop a position could open and close on
// the same signal or never hit its stop.
func validateParams(p models.StrategyParams) error {
	if !(p.ExitZ < p.EntryZ && p.EntryZ < p.StopLossZ) {
		return fmt.Errorf("%w: thresholds must satisfy exit < entry < stop (got exit=%.2f entry=%.2f stop=%.2f)",
			models.ErrInvalidParameter, p.ExitZ, p.EntryZ, p.StopLossZ)
	}
	if p.ZScoreWindow <= 0 {
		return fmt.Errorf("%w: z-score window must be positive (got %d)", models.ErrInvalidParameter, p.ZScoreWindow)
	}
	if p.TxCostRate < 0 {
		return fmt.Errorf("%w: transaction cost rate must be non-negative (got %f)", models.ErrInvalidParameter, p.TxCostRate)
	}
	if !p.InitialCapital.IsPositive() {
		return fmt.Errorf("%w: initial capital must be positive (got %s)", models.ErrInvalidParameter, p.InitialCapital)
	}
	if math.IsNaN(p.HedgeRatio) || math.IsInf(p.HedgeRatio, 0) {
		return fmt.Errorf("%w: hedge ratio must be finite", models.ErrInvalidParameter)
	}
	return nil
}

// resolvePrices converts the stored log prices back to tradeable price
// levels for position sizing and P&L.
func (e *engine) resolvePrices() {
	n := e.series.Len()
	e.priceA = make([]decimal.Decimal, n)
	e.priceB = make([]decimal.Decimal, n)
	for i := 0; i < n; i++ {
		e.priceA[i] = decimal.NewFromFloat(math.Exp(e.series.LogA[i]))
		e.priceB[i] = decimal.NewFromFloat(math.Exp(e.series.LogB[i]))
	}
}

// run is the single sequential scan over the bars. The decision at bar i
// depends only on bars <= i. Within a bar the exit check runs before the
// entry check, so one bar never both closes and opens a position.
func (e *engine) run() {
	n := e.series.Len()
	e.equity = make([]models.EquityPoint, 0, n)
	e.equity = append(e.equity, models.EquityPoint{Date: e.series.Dates[0], Equity: e.capital})

	for i := 1; i < n; i++ {
		z := e.zscore[i]

		// Bars without a defined z-score carry no signal: hold whatever
		// state we are in and just mark to market.
		if !math.IsNaN(z) {
			if e.pos != nil {
				e.checkExit(i, z)
			} else {
				e.checkEntry(i, z)
			}
		}

		e.markToMarket(i)
	}

	// Forced closure at the final bar if still open.
	if e.pos != nil {
		e.closePosition(n-1, e.zscore[n-1], models.EndOfPeriod)
	}
}

func (e *engine) checkEntry(i int, z float64) {
	switch {
	case z < -e.params.EntryZ:
		e.openAt(i, z, models.LongSpread)
	case z > e.params.EntryZ:
		e.openAt(i, z, models.ShortSpread)
	}
}

func (e *engine) checkExit(i int, z float64) {
	long := e.pos.direction == models.LongSpread

	switch {
	case long && z > -e.params.ExitZ:
		e.closePosition(i, z, models.TakeProfit)
	case !long && z < e.params.ExitZ:
		e.closePosition(i, z, models.TakeProfit)
	case long && z < -e.params.StopLossZ:
		e.closePosition(i, z, models.StopLoss)
	case !long && z > e.params.StopLossZ:
		e.closePosition(i, z, models.StopLoss)
	}
}

// openAt enters a new position sized dollar-neutral at this bar's prices.
// Shares are fixed here and never resized while the position is open; the
// dollar balance between the legs drifts until exit.
func (e *engine) openAt(i int, z float64, direction models.Direction) {
	capitalPerLeg := e.capital.Div(two)

	e.pos = &openPosition{
		direction:        direction,
		entryDate:        e.series.Dates[i],
		entryZ:           z,
		sharesA:          capitalPerLeg.Div(e.priceA[i]),
		sharesB:          capitalPerLeg.Div(e.priceB[i]).Mul(decimal.NewFromFloat(e.params.HedgeRatio)),
		entryPriceA:      e.priceA[i],
		entryPriceB:      e.priceB[i],
		capitalAllocated: e.capital,
	}

	e.logger.Debug("position opened",
		zap.String("pair", e.series.Name()),
		zap.String("direction", string(direction)),
		zap.Time("date", e.series.Dates[i]),
		zap.Float64("zscore", z),
	)
}

// closePosition realizes the open position into an immutable Trade,
// charges transaction costs on all four legs, and compounds the net P&L
// into working capital.
func (e *engine) closePosition(i int, z float64, reason models.ExitReason) {
	pos := e.pos

	gross := e.grossPnL(pos, i)
	costs := pos.capitalAllocated.Mul(decimal.NewFromFloat(e.params.TxCostRate)).Mul(transactionLegs)
	net := gross.Sub(costs)
	e.capital = e.capital.Add(net)

	returnPct := 0.0
	if !pos.capitalAllocated.IsZero() {
		returnPct = net.Div(pos.capitalAllocated).InexactFloat64() * 100
	}

	trade := models.Trade{
		Pair:             e.series.Name(),
		Direction:        pos.direction,
		EntryDate:        pos.entryDate,
		ExitDate:         e.series.Dates[i],
		EntryZScore:      pos.entryZ,
		ExitZScore:       z,
		SharesA:          pos.sharesA,
		SharesB:          pos.sharesB,
		EntryPriceA:      pos.entryPriceA,
		EntryPriceB:      pos.entryPriceB,
		ExitPriceA:       e.priceA[i],
		ExitPriceB:       e.priceB[i],
		CapitalAllocated: pos.capitalAllocated,
		GrossPnL:         gross,
		Costs:            costs,
		NetPnL:           net,
		ReturnPct:        returnPct,
		HoldingDays:      int(e.series.Dates[i].Sub(pos.entryDate).Hours() / 24),
		ExitReason:       reason,
	}
	e.trades = append(e.trades, trade)
	e.pos = nil

	e.logger.Debug("position closed",
		zap.String("pair", e.series.Name()),
		zap.String("reason", string(reason)),
		zap.Time("date", e.series.Dates[i]),
		zap.String("net_pnl", net.StringFixed(2)),
	)
}

// grossPnL values the position's two legs against bar i prices.
func (e *engine) grossPnL(pos *openPosition, i int) decimal.Decimal {
	pnlA := pos.sharesA.Mul(e.priceA[i].Sub(pos.entryPriceA))
	pnlB := pos.sharesB.Mul(e.priceB[i].Sub(pos.entryPriceB))

	if pos.direction == models.LongSpread {
		return pnlA.Sub(pnlB)
	}
	return pnlB.Sub(pnlA)
}

// markToMarket appends this bar's portfolio value: realized capital plus
// the unrealized P&L of any open position. Realized P&L already lives in
// capital, so it is never counted twice against the mark.
func (e *engine) markToMarket(i int) {
	value := e.capital
	if e.pos != nil {
		value = value.Add(e.grossPnL(e.pos, i))
	}
	e.equity = append(e.equity, models.EquityPoint{Date: e.series.Dates[i], Equity: value})
}
