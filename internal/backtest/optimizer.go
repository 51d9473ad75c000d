package backtest

import (
	"context"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/pairsim/pairsim/internal/cache"
	"github.com/pairsim/pairsim/internal/models"
)

// Candidates holds the threshold lists the grid search sweeps. Combinations
// violating exit < entry < stop are filtered out before any simulation runs.
type Candidates struct {
	Entry    []float64
	Exit     []float64
	StopLoss []float64
}

// DefaultCandidates mirrors the conventional sweep for daily-bar pairs.
func DefaultCandidates() Candidates {
	return Candidates{
		Entry:    []float64{1.5, 2.0, 2.5},
		Exit:     []float64{0.3, 0.5, 0.7},
		StopLoss: []float64{3.0, 4.0, 5.0},
	}
}

// OptimizeOptions configures the grid search.
type OptimizeOptions struct {
	// Workers bounds the worker pool; 0 means runtime.NumCPU().
	Workers int
	// Cache, when set, is consulted before each simulation and filled after.
	Cache  *cache.ResultCache
	Logger *zap.Logger
}

// Optimize sweeps every valid threshold combination through an independent
// simulation on a bounded worker pool and returns the results ranked by
// descending Sharpe ratio. Each run sees only its own inputs, so a canceled
// context simply discards unfinished combinations.
func Optimize(ctx context.Context, series models.PairSeries, base models.StrategyParams, cands Candidates, opts OptimizeOptions) ([]models.OptimizationRow, error) {
	if err := series.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	// Enumerate the valid corner of the grid up front.
	var combos []models.StrategyParams
	for _, entry := range cands.Entry {
		for _, exit := range cands.Exit {
			for _, stop := range cands.StopLoss {
				if exit < entry && entry < stop {
					p := base
					p.EntryZ = entry
					p.ExitZ = exit
					p.StopLossZ = stop
					combos = append(combos, p)
				}
			}
		}
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(combos) {
		workers = len(combos)
	}

	logger.Info("running parameter grid search",
		zap.String("pair", series.Name()),
		zap.Int("combinations", len(combos)),
		zap.Int("workers", workers),
	)

	jobs := make(chan models.StrategyParams)
	results := make(chan models.OptimizationRow, len(combos))
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for p := range jobs {
				row, err := runCombo(series, p, opts.Cache, logger)
				if err != nil {
					logger.Warn("grid point failed",
						zap.Float64("entry", p.EntryZ),
						zap.Float64("exit", p.ExitZ),
						zap.Float64("stop", p.StopLossZ),
						zap.Error(err))
					continue
				}
				results <- row
			}
		}()
	}

	// Feed jobs until done or canceled; cancellation drops the remainder.
feed:
	for _, p := range combos {
		select {
		case jobs <- p:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	rows := make([]models.OptimizationRow, 0, len(combos))
	for row := range results {
		rows = append(rows, row)
	}

	// Rank by Sharpe, with a deterministic tie-break on the thresholds so
	// identical sweeps always order identically.
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SharpeRatio != rows[j].SharpeRatio {
			return rows[i].SharpeRatio > rows[j].SharpeRatio
		}
		if rows[i].EntryZ != rows[j].EntryZ {
			return rows[i].EntryZ < rows[j].EntryZ
		}
		if rows[i].ExitZ != rows[j].ExitZ {
			return rows[i].ExitZ < rows[j].ExitZ
		}
		return rows[i].StopLossZ < rows[j].StopLossZ
	})

	if err := ctx.Err(); err != nil {
		return rows, err
	}
	return rows, nil
}

// runCombo executes one grid point, going through the result cache when
// one is configured.
func runCombo(series models.PairSeries, p models.StrategyParams, rc *cache.ResultCache, logger *zap.Logger) (models.OptimizationRow, error) {
	var result *models.BacktestResult

	key := ""
	if rc != nil {
		key = cache.Key(series.Name(), series.Len(), p)
		if cached, found := rc.Get(key); found {
			result = cached
		}
	}

	if result == nil {
		var err error
		result, err = Simulate(series, p, logger)
		if err != nil {
			return models.OptimizationRow{}, err
		}
		if rc != nil {
			rc.Set(key, result)
		}
	}

	m := result.Metrics
	return models.OptimizationRow{
		EntryZ:         p.EntryZ,
		ExitZ:          p.ExitZ,
		StopLossZ:      p.StopLossZ,
		TotalReturnPct: m.TotalReturnPct,
		SharpeRatio:    m.SharpeRatio,
		MaxDrawdownPct: m.MaxDrawdownPct,
		WinRate:        m.WinRate,
		TotalTrades:    m.TotalTrades,
		ProfitFactor:   m.ProfitFactor,
	}, nil
}
