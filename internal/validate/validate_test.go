package validate

import (
	"strings"
	"testing"

	"github.com/pairsim/pairsim/internal/models"
)

func goodRequest() Request {
	return Request{
		Period:       "2y",
		DataLength:   504,
		Window:       90,
		StepSize:     21,
		Method:       models.MethodSimple,
		ZScoreWindow: 20,
	}
}

func hasSubstring(messages []string, substr string) bool {
	for _, m := range messages {
		if strings.Contains(m, substr) {
			return true
		}
	}
	return false
}

func TestParametersValidConfiguration(t *testing.T) {
	result := Parameters(goodRequest())

	if !result.Valid {
		t.Fatalf("Expected a valid configuration, got errors: %v", result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
}

func TestParametersInsufficientData(t *testing.T) {
	for _, length := range []int{0, 10, 39, -5} {
		req := goodRequest()
		req.DataLength = length
		req.Window = 0
		req.ZScoreWindow = 0

		result := Parameters(req)
		if result.Valid {
			t.Errorf("Data length %d: expected invalid", length)
		}
		if !hasSubstring(result.Errors, "insufficient data") {
			t.Errorf("Data length %d: expected an insufficient-data error, got %v", length, result.Errors)
		}
	}
}

func TestParametersZScoreWindowTooLarge(t *testing.T) {
	req := goodRequest()
	req.ZScoreWindow = req.DataLength

	result := Parameters(req)
	if result.Valid {
		t.Fatal("Expected invalid when z-score window >= data length")
	}
	if !hasSubstring(result.Errors, "z-score window") {
		t.Errorf("Expected a z-score window error, got %v", result.Errors)
	}
}

func TestParametersZScoreWindowWarnings(t *testing.T) {
	small := goodRequest()
	small.ZScoreWindow = 5
	if result := Parameters(small); !hasSubstring(result.Warnings, "is small") {
		t.Errorf("Expected a small-window warning, got %v", result.Warnings)
	}

	large := goodRequest()
	large.ZScoreWindow = 90
	if result := Parameters(large); !hasSubstring(result.Warnings, "is large") {
		t.Errorf("Expected a large-window warning, got %v", result.Warnings)
	}
}

func TestParametersRollingWindowTooLarge(t *testing.T) {
	req := goodRequest()
	req.Window = req.DataLength + 10

	result := Parameters(req)
	if result.Valid {
		t.Fatal("Expected invalid when rolling window >= data length")
	}
	if !hasSubstring(result.Errors, "rolling window") {
		t.Errorf("Expected a rolling window error, got %v", result.Errors)
	}
}

func TestParametersStepSize(t *testing.T) {
	for _, step := range []int{0, -3} {
		req := goodRequest()
		req.StepSize = step

		result := Parameters(req)
		if result.Valid {
			t.Errorf("Step %d: expected invalid", step)
		}
		if !hasSubstring(result.Errors, "step size must be positive") {
			t.Errorf("Step %d: expected a step size error, got %v", step, result.Errors)
		}
	}

	// Step >= window is legal but warned about.
	req := goodRequest()
	req.StepSize = req.Window
	result := Parameters(req)
	if !result.Valid {
		t.Fatalf("Expected valid, got errors: %v", result.Errors)
	}
	if !hasSubstring(result.Warnings, "windows won't overlap") {
		t.Errorf("Expected a non-overlap warning, got %v", result.Warnings)
	}
}

func TestParametersFewRollingWindows(t *testing.T) {
	req := goodRequest()
	req.DataLength = 120
	req.Period = "6mo"
	req.Window = 90
	req.StepSize = 30 // (120-90)/30+1 = 2 windows

	result := Parameters(req)
	if !hasSubstring(result.Warnings, "rolling windows") {
		t.Errorf("Expected a few-windows warning, got %v", result.Warnings)
	}
	if !hasSubstring(result.Recommendations, "decrease step size") {
		t.Errorf("Expected a recommendation, got %v", result.Recommendations)
	}
}

func TestParametersWalkForwardTooLittleData(t *testing.T) {
	req := goodRequest()
	req.Method = models.MethodWalkForward
	req.DataLength = 100
	req.Period = "6mo"
	req.Window = 60
	req.StepSize = 21
	req.TrainWindow = 90
	req.TestWindow = 30

	result := Parameters(req)
	if result.Valid {
		t.Fatal("Expected invalid when train+test exceeds the data")
	}
	if !hasSubstring(result.Errors, "exceeds data length") {
		t.Errorf("Expected a train+test error, got %v", result.Errors)
	}
}

func TestParametersWalkForwardAdaptiveDefaults(t *testing.T) {
	// Unset train/test windows fall back to min(252, len/3) and
	// min(63, len/10), which fit comfortably in 2 years of data.
	req := goodRequest()
	req.Method = models.MethodWalkForward

	result := Parameters(req)
	if !result.Valid {
		t.Fatalf("Expected valid with adaptive defaults, got errors: %v", result.Errors)
	}
}

func TestParametersWalkForwardNoPeriods(t *testing.T) {
	req := goodRequest()
	req.Method = models.MethodWalkForward
	req.DataLength = 200
	req.Period = "1y"
	req.Window = 60
	req.StepSize = 150
	req.TrainWindow = 120
	req.TestWindow = 40

	// floor((200-120)/150) = 0 periods.
	result := Parameters(req)
	if result.Valid {
		t.Fatal("Expected invalid when no walk-forward periods fit")
	}
	if !hasSubstring(result.Errors, "cannot create any walk-forward periods") {
		t.Errorf("Expected a no-periods error, got %v", result.Errors)
	}
}

func TestParametersWalkForwardTrainTestBalance(t *testing.T) {
	req := goodRequest()
	req.Method = models.MethodWalkForward
	req.TrainWindow = 80
	req.TestWindow = 60

	result := Parameters(req)
	if !hasSubstring(result.Warnings, "2-4x test window") {
		t.Errorf("Expected a train/test balance warning, got %v", result.Warnings)
	}
}

func TestParametersTrainTestSplitWarnings(t *testing.T) {
	req := goodRequest()
	req.Method = models.MethodTrainTestSplit
	req.DataLength = 80
	req.Period = "3mo"
	req.Window = 40
	req.StepSize = 10
	req.ZScoreWindow = 20

	// Train 48 < max(60, 60), test 32 < max(30, 40).
	result := Parameters(req)
	if !hasSubstring(result.Warnings, "training period") {
		t.Errorf("Expected a training period warning, got %v", result.Warnings)
	}
	if !hasSubstring(result.Warnings, "testing period") {
		t.Errorf("Expected a testing period warning, got %v", result.Warnings)
	}
}

func TestParametersDataQualityWarning(t *testing.T) {
	req := goodRequest()
	req.Period = "1y"
	req.DataLength = 150 // well under 252*0.7
	req.Window = 60
	req.ZScoreWindow = 20

	result := Parameters(req)
	if !hasSubstring(result.Warnings, "may have missing data") {
		t.Errorf("Expected a data quality warning, got %v", result.Warnings)
	}
}

func TestParametersIsPure(t *testing.T) {
	req := goodRequest()

	first := Parameters(req)
	second := Parameters(req)

	if first.Valid != second.Valid ||
		len(first.Errors) != len(second.Errors) ||
		len(first.Warnings) != len(second.Warnings) ||
		len(first.Recommendations) != len(second.Recommendations) {
		t.Error("Two identical validations disagreed")
	}
}

func TestSuggestWalkForwardTiers(t *testing.T) {
	tests := []struct {
		dataLength  int
		trainWindow int
		testWindow  int
		stepSize    int
	}{
		{600, 252, 63, 21},
		{500, 252, 63, 21},
		{400, 180, 45, 15},
		{300, 180, 45, 15},
		{200, 90, 30, 10},
		{150, 90, 30, 10},
	}

	for _, tt := range tests {
		s := Suggest(tt.dataLength, models.MethodWalkForward)
		if s.Method != models.MethodWalkForward {
			t.Errorf("Length %d: expected walk_forward, got %s", tt.dataLength, s.Method)
		}
		if s.TrainWindow != tt.trainWindow || s.TestWindow != tt.testWindow || s.StepSize != tt.stepSize {
			t.Errorf("Length %d: expected %d/%d/%d, got %d/%d/%d", tt.dataLength,
				tt.trainWindow, tt.testWindow, tt.stepSize,
				s.TrainWindow, s.TestWindow, s.StepSize)
		}
		if s.ZScoreWindow != 20 {
			t.Errorf("Length %d: expected z-score window 20, got %d", tt.dataLength, s.ZScoreWindow)
		}
	}
}

func TestSuggestWalkForwardDowngrade(t *testing.T) {
	s := Suggest(80, models.MethodWalkForward)

	if s.Method != models.MethodTrainTestSplit {
		t.Fatalf("Expected downgrade to train_test_split, got %s", s.Method)
	}
	if s.TrainPct != 0.6 {
		t.Errorf("Expected train pct 0.6, got %f", s.TrainPct)
	}
	if s.RollingWindow != 30 { // max(30, 80/5)
		t.Errorf("Expected rolling window 30, got %d", s.RollingWindow)
	}
	if s.RollingStep != 5 { // max(5, 80/20)
		t.Errorf("Expected rolling step 5, got %d", s.RollingStep)
	}
	if !strings.Contains(s.Note, "train/test split recommended") {
		t.Errorf("Expected a downgrade note, got %q", s.Note)
	}
}

func TestSuggestTrainTestSplit(t *testing.T) {
	s := Suggest(400, models.MethodTrainTestSplit)

	if s.Method != models.MethodTrainTestSplit {
		t.Fatalf("Expected train_test_split, got %s", s.Method)
	}
	if s.TrainPct != 0.6 {
		t.Errorf("Expected train pct 0.6, got %f", s.TrainPct)
	}
	if s.RollingWindow != 100 { // min(252, max(63, 400/4))
		t.Errorf("Expected rolling window 100, got %d", s.RollingWindow)
	}
	if s.RollingStep != 20 { // max(10, 400/20)
		t.Errorf("Expected rolling step 20, got %d", s.RollingStep)
	}
}

func TestSuggestSimple(t *testing.T) {
	s := Suggest(900, models.MethodSimple)

	if s.Method != models.MethodSimple {
		t.Fatalf("Expected simple, got %s", s.Method)
	}
	if s.RollingWindow != 252 { // min(252, max(63, 900/3))
		t.Errorf("Expected rolling window 252, got %d", s.RollingWindow)
	}
	if s.RollingStep != 60 { // max(10, 900/15)
		t.Errorf("Expected rolling step 60, got %d", s.RollingStep)
	}
}

func TestSuggestDeterministic(t *testing.T) {
	first := Suggest(350, models.MethodWalkForward)
	second := Suggest(350, models.MethodWalkForward)

	if first != second {
		t.Errorf("Two identical suggestions disagreed: %+v vs %+v", first, second)
	}
}
