package plans

import "github.com/claude/reptrack/internal/models"

// Per-goal rate of change applied to body measurements at full progress.
const (
	muscleGainRate   = 0.05
	weightLossRate   = -0.03
	strengthGainRate = 0.02
)

// ProjectMeasurements estimates body measurements after completing the given
// share of a plan. progress is a percentage in [0, 100]; the change scales
// linearly with it. Goals not listed leave measurements untouched, and no
// value ever drops below zero.
func ProjectMeasurements(original map[string]float64, goal models.Goal, progress float64) map[string]float64 {
	factor := progress / 100

	var rate float64
	switch goal {
	case models.GoalBuildMuscle:
		rate = muscleGainRate
	case models.GoalWeightLoss:
		rate = weightLossRate
	case models.GoalIncreaseStrength:
		rate = strengthGainRate
	}

	projected := make(map[string]float64, len(original))
	for key, value := range original {
		v := value + value*rate*factor
		if v < 0 {
			v = 0
		}
		projected[key] = v
	}
	return projected
}
