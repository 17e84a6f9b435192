package scoring

import "math"

const (
	MinMaturity = 0
	MaxMaturity = 5
)

// ClampMaturity forces a maturity level into 0..5.
func ClampMaturity(level int) int {
	if level < MinMaturity {
		return MinMaturity
	}
	if level > MaxMaturity {
		return MaxMaturity
	}
	return level
}

// MaturityGap is target minus current. Negative means the control
// is already above its target.
func MaturityGap(current, target int) int {
	return ClampMaturity(target) - ClampMaturity(current)
}

// RiskScore weights the maturity gap by the control's criticality.
// Levels are clamped; the result is not floored, so over-achieving
// controls score below zero.
func RiskScore(current, target int, weight float64) (float64, error) {
	if math.IsNaN(weight) || math.IsInf(weight, 0) {
		return 0, ErrNonFiniteInput
	}
	if weight < 0 {
		return 0, ErrNegativeWeight
	}
	return float64(MaturityGap(current, target)) * weight, nil
}
