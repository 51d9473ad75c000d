// Package cache provides in-memory caching of simulation results so that
// repeated runs over the same inputs, e.g. from the optimizer or an
// interactive session, skip the full bar-by-bar scan.
package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/pairsim/pairsim/internal/models"
)

// ResultCache caches completed backtest results keyed by their inputs.
type ResultCache struct {
	results *gocache.Cache
	ttl     time.Duration
}

// NewResultCache creates a result cache with the given TTL.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		results: gocache.New(ttl, ttl*2),
		ttl:     ttl,
	}
}

// Key builds the cache key for one simulation: the pair plus every
// parameter that changes its outcome.
func Key(pair string, bars int, p models.StrategyParams) string {
	return fmt.Sprintf("%s|%d|%.6f|%.4f|%.4f|%.4f|%.6f|%s|%d",
		pair, bars, p.HedgeRatio, p.EntryZ, p.ExitZ, p.StopLossZ,
		p.TxCostRate, p.InitialCapital, p.ZScoreWindow)
}

// Get retrieves a cached result.
func (c *ResultCache) Get(key string) (*models.BacktestResult, bool) {
	if val, found := c.results.Get(key); found {
		if result, ok := val.(*models.BacktestResult); ok {
			return result, true
		}
	}
	return nil, false
}

// Set caches a result.
func (c *ResultCache) Set(key string, result *models.BacktestResult) {
	c.results.Set(key, result, c.ttl)
}

// Clear removes all cached results.
func (c *ResultCache) Clear() {
	c.results.Flush()
}

// Len returns the number of cached results.
func (c *ResultCache) Len() int {
	return c.results.ItemCount()
}
