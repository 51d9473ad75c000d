package cache

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pairsim/pairsim/internal/models"
)

func testParams() models.StrategyParams {
	return models.StrategyParams{
		HedgeRatio:     1.0,
		EntryZ:         2.0,
		ExitZ:          0.5,
		StopLossZ:      4.0,
		TxCostRate:     0.001,
		InitialCapital: decimal.NewFromInt(100000),
		ZScoreWindow:   20,
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	c := NewResultCache(time.Minute)
	key := Key("AAA/BBB", 100, testParams())

	if _, found := c.Get(key); found {
		t.Error("Expected a miss on an empty cache")
	}

	result := &models.BacktestResult{Pair: "AAA/BBB"}
	c.Set(key, result)

	got, found := c.Get(key)
	if !found {
		t.Fatal("Expected a hit after Set")
	}
	if got != result {
		t.Error("Expected the same result pointer back")
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 cached entry, got %d", c.Len())
	}
}

func TestResultCacheKeyDistinguishesParams(t *testing.T) {
	base := testParams()

	keys := map[string]string{"base": Key("AAA/BBB", 100, base)}

	variants := map[string]models.StrategyParams{}
	p := base
	p.EntryZ = 2.5
	variants["entry"] = p
	p = base
	p.ExitZ = 0.3
	variants["exit"] = p
	p = base
	p.StopLossZ = 5.0
	variants["stop"] = p
	p = base
	p.HedgeRatio = 1.2
	variants["hedge"] = p
	p = base
	p.TxCostRate = 0.002
	variants["cost"] = p
	p = base
	p.ZScoreWindow = 30
	variants["window"] = p
	p = base
	p.InitialCapital = decimal.NewFromInt(50000)
	variants["capital"] = p

	for name, v := range variants {
		keys[name] = Key("AAA/BBB", 100, v)
	}
	keys["pair"] = Key("CCC/DDD", 100, base)
	keys["bars"] = Key("AAA/BBB", 200, base)

	seen := map[string]string{}
	for name, k := range keys {
		if prev, dup := seen[k]; dup {
			t.Errorf("Key collision between %q and %q: %s", prev, name, k)
		}
		seen[k] = name
	}
}

func TestResultCacheExpiry(t *testing.T) {
	c := NewResultCache(10 * time.Millisecond)
	key := Key("AAA/BBB", 100, testParams())
	c.Set(key, &models.BacktestResult{Pair: "AAA/BBB"})

	time.Sleep(30 * time.Millisecond)

	if _, found := c.Get(key); found {
		t.Error("Expected the entry to expire")
	}
}

func TestResultCacheClear(t *testing.T) {
	c := NewResultCache(time.Minute)
	c.Set(Key("AAA/BBB", 100, testParams()), &models.BacktestResult{})
	c.Set(Key("CCC/DDD", 100, testParams()), &models.BacktestResult{})

	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Expected empty cache after Clear, got %d entries", c.Len())
	}
}
