// Package validate checks backtest configurations for feasibility against
// the amount of historical data actually available, and proposes sensible
// defaults when data is limited.
package validate

import (
	"fmt"

	"github.com/pairsim/pairsim/internal/models"
)

// periodToDays maps nominal period labels to expected trading-day counts.
var periodToDays = map[string]int{
	"1mo": 21, "2mo": 42, "3mo": 63, "6mo": 126,
	"1y": 252, "2y": 504, "5y": 1260, "10y": 2520,
}

// Request describes the configuration to validate. TrainWindow and
// TestWindow of 0 mean "unset" and get the adaptive defaults.
type Request struct {
	Period       string
	DataLength   int
	Window       int
	StepSize     int
	Method       models.Method
	TrainWindow  int
	TestWindow   int
	ZScoreWindow int
}

// Parameters validates a backtest configuration against the data that is
// actually available. It is a pure function: it never errors out and never
// mutates shared state, so any number of callers may use it concurrently.
// Hard failures set Valid to false; warnings and recommendations are
// advisory only.
func Parameters(req Request) models.ValidationResult {
	result := models.ValidationResult{
		Valid:           true,
		Errors:          []string{},
		Warnings:        []string{},
		Recommendations: []string{},
	}

	expectedDays, known := periodToDays[req.Period]
	if !known {
		expectedDays = req.DataLength
	}

	// Basic data requirement. Negative lengths land here too.
	if req.DataLength < 40 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"insufficient data: %d days, need at least 40 days for backtesting", req.DataLength))
	}

	// Z-score window.
	switch {
	case req.ZScoreWindow >= req.DataLength:
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"z-score window (%d) >= data length (%d)", req.ZScoreWindow, req.DataLength))
	case req.ZScoreWindow < 10:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"z-score window (%d) is small, consider 20+ days for stability", req.ZScoreWindow))
	case req.ZScoreWindow > 60:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"z-score window (%d) is large, may be slow to react to changes", req.ZScoreWindow))
	}

	// Rolling analysis window.
	switch {
	case req.Window >= req.DataLength:
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"rolling window (%d) >= data length (%d)", req.Window, req.DataLength))
	case req.Window < 30:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"rolling window (%d) is small, estimates may be unreliable with <30 days", req.Window))
	case req.Window < 60:
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"rolling window (%d) is below recommended 60+ days, results may be noisy", req.Window))
	}

	// Step size.
	if req.StepSize <= 0 {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"step size must be positive (got %d)", req.StepSize))
	} else {
		if req.StepSize >= req.Window {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"step size (%d) >= window (%d), windows won't overlap", req.StepSize, req.Window))
		}

		numWindows := floorDiv(req.DataLength-req.Window, req.StepSize) + 1
		if numWindows < 3 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"only %d rolling windows, need 5+ for reliable stability analysis", numWindows))
			result.Recommendations = append(result.Recommendations,
				"increase data period or decrease step size for more windows")
		}
	}

	switch req.Method {
	case models.MethodWalkForward:
		validateWalkForward(req, &result)
	case models.MethodTrainTestSplit:
		validateTrainTestSplit(req, &result)
	case models.MethodSimple:
		if req.ZScoreWindow > 0 && req.DataLength < req.ZScoreWindow*5 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"data length (%d) is only %.1fx the z-score window, need 10x+ for meaningful results",
				req.DataLength, float64(req.DataLength)/float64(req.ZScoreWindow)))
		}
	}

	// Data quality against the nominal period.
	if float64(req.DataLength) < float64(expectedDays)*0.7 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"only %d days retrieved for period %q (expected ~%d), may have missing data or non-trading days",
			req.DataLength, req.Period, expectedDays))
	}

	if req.DataLength < 100 {
		result.Recommendations = append(result.Recommendations,
			"consider using a longer time period (6mo+) for more reliable backtesting")
	} else if req.DataLength < 200 {
		result.Recommendations = append(result.Recommendations,
			"data is adequate but consider 1y+ for walk-forward testing")
	}

	return result
}

func validateWalkForward(req Request, result *models.ValidationResult) {
	trainWindow := req.TrainWindow
	if trainWindow <= 0 {
		trainWindow = min(252, req.DataLength/3)
	}
	testWindow := req.TestWindow
	if testWindow <= 0 {
		testWindow = min(63, req.DataLength/10)
	}

	minTrain := max(60, req.ZScoreWindow*3)
	minTest := max(20, req.ZScoreWindow)

	if trainWindow < minTrain {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"train window (%d) is small, recommend %d+ days", trainWindow, minTrain))
	}
	if testWindow < minTest {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"test window (%d) is small, recommend %d+ days", testWindow, minTest))
	}

	if trainWindow+testWindow > req.DataLength {
		result.Valid = false
		result.Errors = append(result.Errors, fmt.Sprintf(
			"train window (%d) + test window (%d) = %d exceeds data length (%d)",
			trainWindow, testWindow, trainWindow+testWindow, req.DataLength))
	}

	if req.StepSize > 0 {
		numPeriods := floorDiv(req.DataLength-trainWindow, req.StepSize)
		if numPeriods < 1 {
			result.Valid = false
			result.Errors = append(result.Errors,
				"cannot create any walk-forward periods, need more data or smaller windows")
		} else if numPeriods < 3 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"only %d walk-forward periods, need 5+ for robust testing", numPeriods))
			result.Recommendations = append(result.Recommendations,
				"options: increase data period, decrease train window, or decrease step size")
		}
	}

	if trainWindow < testWindow*2 {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"train window (%d) should be 2-4x test window (%d) for stability", trainWindow, testWindow))
	}
}

func validateTrainTestSplit(req Request, result *models.ValidationResult) {
	trainSize := int(float64(req.DataLength) * 0.6)
	testSize := req.DataLength - trainSize

	if trainSize < max(60, req.ZScoreWindow*3) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"training period (%d days) may be too short for reliable parameter estimation", trainSize))
	}
	if testSize < max(30, req.ZScoreWindow*2) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"testing period (%d days) may be too short for reliable performance evaluation", testSize))
	}
}

// floorDiv divides rounding toward negative infinity, matching window
// counts over short data where the numerator goes negative.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
