package validate

import (
	"fmt"

	"github.com/pairsim/pairsim/internal/models"
)

// Suggest returns a deterministic recommended configuration for the given
// data length. Data lengths map into fixed tiers; below the walk-forward
// viable tier the methodology is downgraded to a train/test split.
func Suggest(dataLength int, method models.Method) models.Suggestion {
	s := models.Suggestion{
		Method:       method,
		ZScoreWindow: 20,
	}

	switch method {
	case models.MethodWalkForward:
		switch {
		case dataLength >= 500:
			s.TrainWindow = 252
			s.TestWindow = 63
			s.StepSize = 21
			s.RollingWindow = 252
			s.RollingStep = 21
			s.Note = "standard configuration for 2+ years of data"

		case dataLength >= 300:
			s.TrainWindow = 180
			s.TestWindow = 45
			s.StepSize = 15
			s.RollingWindow = 126
			s.RollingStep = 21
			s.Note = "adjusted for 1-2 years of data"

		case dataLength >= 150:
			s.TrainWindow = 90
			s.TestWindow = 30
			s.StepSize = 10
			s.RollingWindow = 63
			s.RollingStep = 10
			s.Note = "minimum viable for walk-forward (6mo-1yr data)"

		default:
			s.Method = models.MethodTrainTestSplit
			s.TrainPct = 0.6
			s.RollingWindow = max(30, dataLength/5)
			s.RollingStep = max(5, dataLength/20)
			s.Note = fmt.Sprintf("only %d days - train/test split recommended instead of walk-forward", dataLength)
		}

	case models.MethodTrainTestSplit:
		s.TrainPct = 0.6
		s.RollingWindow = min(252, max(63, dataLength/4))
		s.RollingStep = max(10, dataLength/20)
		s.Note = "train/test split - simpler than walk-forward"

	default:
		s.RollingWindow = min(252, max(63, dataLength/3))
		s.RollingStep = max(10, dataLength/15)
		s.Note = "simple backtest - ensure you understand the limitations"
	}

	return s
}
