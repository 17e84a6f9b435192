package scoring

import (
	"strings"
	"time"
)

type RiskBand string

const (
	BandLow      RiskBand = "low"
	BandMedium   RiskBand = "medium"
	BandHigh     RiskBand = "high"
	BandCritical RiskBand = "critical"
)

const (
	MinLikelihood = 1
	MaxLikelihood = 5
)

// Band thresholds on probability x impact. Reporting and filtering
// elsewhere depend on these exact values.
const (
	criticalFrom = 20
	highFrom     = 12
	mediumFrom   = 6
)

// ParseRiskBand accepts the lowercase band names used in queries.
func ParseRiskBand(s string) (RiskBand, error) {
	switch b := RiskBand(strings.ToLower(strings.TrimSpace(s))); b {
	case BandLow, BandMedium, BandHigh, BandCritical:
		return b, nil
	default:
		return "", ErrInvalidRiskBand
	}
}

// ClampLikelihood forces a probability or impact value into 1..5.
func ClampLikelihood(v int) int {
	if v < MinLikelihood {
		return MinLikelihood
	}
	if v > MaxLikelihood {
		return MaxLikelihood
	}
	return v
}

// RiskLevel is the derived level of a risk: Score is probability*impact (1..25).
type RiskLevel struct {
	Score int      `json:"score"`
	Band  RiskBand `json:"band"`
}

// Classify derives the risk level of a probability/impact pair.
func Classify(probability, impact int) RiskLevel {
	score := ClampLikelihood(probability) * ClampLikelihood(impact)
	return RiskLevel{Score: score, Band: BandForScore(score)}
}

// BandForScore buckets a probability*impact level.
func BandForScore(score int) RiskBand {
	switch {
	case score >= criticalFrom:
		return BandCritical
	case score >= highFrom:
		return BandHigh
	case score >= mediumFrom:
		return BandMedium
	default:
		return BandLow
	}
}

// Risk carries the inputs of the register. Residual values are only
// meaningful once treatment has been evaluated.
type Risk struct {
	ID                  uint
	InherentProbability int
	InherentImpact      int
	ResidualProbability *int
	ResidualImpact      *int
}

func (r Risk) InherentLevel() RiskLevel {
	return Classify(r.InherentProbability, r.InherentImpact)
}

// ResidualLevel reports false until both residual values are present.
func (r Risk) ResidualLevel() (RiskLevel, bool) {
	if r.ResidualProbability == nil || r.ResidualImpact == nil {
		return RiskLevel{}, false
	}
	return Classify(*r.ResidualProbability, *r.ResidualImpact), true
}

// EffectiveLevel is the residual level when treatment was evaluated,
// the inherent one otherwise.
func (r Risk) EffectiveLevel() RiskLevel {
	if lvl, ok := r.ResidualLevel(); ok {
		return lvl
	}
	return r.InherentLevel()
}

type ChangeType string

const (
	ChangeCreated   ChangeType = "created"
	ChangeUpdated   ChangeType = "updated"
	ChangeLevel     ChangeType = "level_change"
	ChangeTreatment ChangeType = "treatment_change"
)

type RiskHistoryEntry struct {
	ChangeType ChangeType
	OldLevel   *int
	NewLevel   *int
	CreatedAt  time.Time
}

type Trend string

const (
	TrendImproving Trend = "improving"
	TrendWorsening Trend = "worsening"
	TrendStable    Trend = "stable"
)

// RiskTrend compares the newest level change with the oldest one.
//
// history MUST be ordered newest first, which is how the store returns
// it. The function does not sort: feeding it oldest-first input inverts
// the verdict. Entries other than level changes, or lacking either
// level, are ignored. Fewer than two usable entries yields false.
func RiskTrend(history []RiskHistoryEntry) (Trend, bool) {
	var changes []RiskHistoryEntry
	for _, h := range history {
		if h.ChangeType != ChangeLevel || h.OldLevel == nil || h.NewLevel == nil {
			continue
		}
		changes = append(changes, h)
	}
	if len(changes) < 2 {
		return "", false
	}

	newest := *changes[0].NewLevel
	oldest := *changes[len(changes)-1].NewLevel
	switch {
	case newest < oldest:
		return TrendImproving, true
	case newest > oldest:
		return TrendWorsening, true
	default:
		return TrendStable, true
	}
}
