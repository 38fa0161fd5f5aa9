package scoring

import "math"

const hintPenaltyPerHint = 0.1

type PointsInput struct {
	BasePoints           int
	TimeTakenSeconds     *int
	TimeLimitSeconds     *int
	HintsUsed            int
	DifficultyMultiplier float64
}

// CalculatePoints returns floor(base * (1+timeBonus) * (1-hintPenalty) * multiplier).
// The hint penalty is clamped to [0,1] so the result is never negative.
func CalculatePoints(in PointsInput) int {
	if in.BasePoints <= 0 {
		return 0
	}

	timeBonus := 0.0
	if in.TimeTakenSeconds != nil && in.TimeLimitSeconds != nil && *in.TimeLimitSeconds > 0 {
		timeBonus = math.Max(0, 1-float64(*in.TimeTakenSeconds)/float64(*in.TimeLimitSeconds))
	}

	hintPenalty := math.Max(0, math.Min(1, float64(in.HintsUsed)*hintPenaltyPerHint))

	multiplier := in.DifficultyMultiplier
	if multiplier <= 0 {
		multiplier = 1
	}

	// 1e-9 absorbs representation error such as 10*(1-0.3) = 6.999...
	points := math.Floor(float64(in.BasePoints)*(1+timeBonus)*(1-hintPenalty)*multiplier + 1e-9)
	return max(0, int(points))
}
