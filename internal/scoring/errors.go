package scoring

import "errors"

var (
	ErrNonFiniteInput   = errors.New("scoring: non-finite numeric input")
	ErrNegativeWeight   = errors.New("scoring: weight must not be negative")
	ErrUnknownCriterion = errors.New("scoring: unknown sort criterion")
	ErrInvalidOptions   = errors.New("scoring: malformed multiple choice options")
	ErrInvalidRiskBand  = errors.New("scoring: unknown risk band")
)
