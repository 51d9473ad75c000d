// Package signal derives the spread and rolling z-score series that drive
// the mean-reversion state machine.
package signal

import (
	"fmt"
	"math"

	"github.com/pairsim/pairsim/internal/models"
)

// Spread computes priceA - hedgeRatio*priceB per bar over log prices.
func Spread(logA, logB []float64, hedgeRatio float64) ([]float64, error) {
	if len(logA) != len(logB) {
		return nil, fmt.Errorf("%w: %d vs %d bars", models.ErrShapeMismatch, len(logA), len(logB))
	}

	spread := make([]float64, len(logA))
	for i := range logA {
		spread[i] = logA[i] - hedgeRatio*logB[i]
	}
	return spread, nil
}

// RollingZScore standardizes the spread against a rolling mean and sample
// standard deviation over the trailing window. The first window-1 bars have
// no defined z-score and are returned as NaN; callers must treat NaN as
// "no signal", never as zero. A zero-variance window also yields NaN.
func RollingZScore(spread []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, fmt.Errorf("%w: z-score window must be positive (got %d)", models.ErrInvalidParameter, window)
	}

	zscore := make([]float64, len(spread))
	for i := range zscore {
		zscore[i] = math.NaN()
	}
	if window < 2 || len(spread) < window {
		return zscore, nil
	}

	for i := window - 1; i < len(spread); i++ {
		mean, std := meanStd(spread[i-window+1 : i+1])
		if std > 0 {
			zscore[i] = (spread[i] - mean) / std
		}
	}
	return zscore, nil
}

// HedgeRatio fits the slope of an ordinary least-squares regression of
// series A on series B, the beta sizing the offsetting leg.
func HedgeRatio(logA, logB []float64) (float64, error) {
	if len(logA) != len(logB) {
		return 0, fmt.Errorf("%w: %d vs %d bars", models.ErrShapeMismatch, len(logA), len(logB))
	}
	if len(logA) < 2 {
		return 0, fmt.Errorf("%w: need at least 2 bars to fit a hedge ratio", models.ErrInvalidParameter)
	}

	n := float64(len(logA))
	var sumA, sumB float64
	for i := range logA {
		sumA += logA[i]
		sumB += logB[i]
	}
	meanA := sumA / n
	meanB := sumB / n

	var cov, varB float64
	for i := range logA {
		db := logB[i] - meanB
		cov += db * (logA[i] - meanA)
		varB += db * db
	}
	if varB == 0 {
		return 0, fmt.Errorf("%w: regressor series has zero variance", models.ErrInvalidParameter)
	}
	return cov / varB, nil
}

// meanStd returns the mean and sample standard deviation (ddof=1) of values.
func meanStd(values []float64) (float64, float64) {
	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return mean, math.Sqrt(sq / (n - 1))
}
