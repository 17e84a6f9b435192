package scoring

import (
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type AssessmentStatus string

const (
	StatusConforming    AssessmentStatus = "conforming"
	StatusPartial       AssessmentStatus = "partial"
	StatusNonConforming AssessmentStatus = "non_conforming"
)

type Control struct {
	ID       uint
	Code     string
	Name     string
	Category string
	Weight   float64
}

// EffectiveWeight treats an unset or unusable weight as 1.
func (c Control) EffectiveWeight() float64 {
	if c.Weight <= 0 || math.IsNaN(c.Weight) || math.IsInf(c.Weight, 0) {
		return 1
	}
	return c.Weight
}

type Assessment struct {
	ControlID      uint
	MaturityLevel  int
	TargetMaturity int
	Status         AssessmentStatus
	AssessedAt     *time.Time
	UpdatedAt      time.Time
}

// ControlRiskScore is the maturity-gap score of c under a, 0 when the
// control has not been assessed.
func ControlRiskScore(c Control, a *Assessment) float64 {
	if a == nil {
		return 0
	}
	score, err := RiskScore(a.MaturityLevel, a.TargetMaturity, c.EffectiveWeight())
	if err != nil {
		return 0
	}
	return score
}

type SortCriterion string

const (
	SortRiskScoreAsc    SortCriterion = "risk_score_asc"
	SortRiskScoreDesc   SortCriterion = "risk_score_desc"
	SortMaturityGapAsc  SortCriterion = "maturity_gap_asc"
	SortMaturityGapDesc SortCriterion = "maturity_gap_desc"
	SortWeightAsc       SortCriterion = "weight_asc"
	SortWeightDesc      SortCriterion = "weight_desc"
	SortRecency         SortCriterion = "recency"
	SortCodeAsc         SortCriterion = "code_asc"
	SortCodeDesc        SortCriterion = "code_desc"
	SortNameAsc         SortCriterion = "name_asc"
)

var criteria = map[SortCriterion]struct{}{
	SortRiskScoreAsc: {}, SortRiskScoreDesc: {},
	SortMaturityGapAsc: {}, SortMaturityGapDesc: {},
	SortWeightAsc: {}, SortWeightDesc: {},
	SortRecency: {},
	SortCodeAsc: {}, SortCodeDesc: {},
	SortNameAsc: {},
}

func ParseSortCriterion(s string) (SortCriterion, error) {
	c := SortCriterion(s)
	if _, ok := criteria[c]; !ok {
		return "", ErrUnknownCriterion
	}
	return c, nil
}

// catalogueLanguage drives the collation of codes and names.
var catalogueLanguage = language.BrazilianPortuguese

// SortControls returns the controls ordered by the criterion. The input
// slice is never modified. Controls without an assessment score 0 on the
// risk and gap criteria and come first on recency. An unknown criterion
// returns a copy in input order. Ties keep no particular order.
func SortControls(controls []Control, assessments []Assessment, by SortCriterion) []Control {
	out := make([]Control, len(controls))
	copy(out, controls)

	byControl := make(map[uint]*Assessment, len(assessments))
	for i := range assessments {
		byControl[assessments[i].ControlID] = &assessments[i]
	}

	var less func(a, b Control) bool
	switch by {
	case SortRiskScoreAsc, SortRiskScoreDesc:
		less = func(a, b Control) bool {
			return ControlRiskScore(a, byControl[a.ID]) < ControlRiskScore(b, byControl[b.ID])
		}
	case SortMaturityGapAsc, SortMaturityGapDesc:
		less = func(a, b Control) bool {
			return gapOf(byControl[a.ID]) < gapOf(byControl[b.ID])
		}
	case SortWeightAsc, SortWeightDesc:
		less = func(a, b Control) bool {
			return a.EffectiveWeight() < b.EffectiveWeight()
		}
	case SortRecency:
		less = func(a, b Control) bool {
			return assessedBefore(byControl[a.ID], byControl[b.ID])
		}
	case SortCodeAsc, SortCodeDesc:
		col := collate.New(catalogueLanguage, collate.Numeric)
		less = func(a, b Control) bool {
			return col.CompareString(a.Code, b.Code) < 0
		}
	case SortNameAsc:
		col := collate.New(catalogueLanguage, collate.IgnoreCase)
		less = func(a, b Control) bool {
			return col.CompareString(a.Name, b.Name) < 0
		}
	default:
		return out
	}

	switch by {
	case SortRiskScoreDesc, SortMaturityGapDesc, SortWeightDesc, SortCodeDesc:
		asc := less
		less = func(a, b Control) bool { return asc(b, a) }
	}

	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func gapOf(a *Assessment) int {
	if a == nil {
		return 0
	}
	return MaturityGap(a.MaturityLevel, a.TargetMaturity)
}

// assessedBefore surfaces controls needing attention: unassessed
// first, then the oldest assessments.
func assessedBefore(a, b *Assessment) bool {
	switch {
	case a == nil && b == nil:
		return false
	case a == nil:
		return true
	case b == nil:
		return false
	}
	return assessedAt(a).Before(assessedAt(b))
}

func assessedAt(a *Assessment) time.Time {
	if a.AssessedAt != nil {
		return *a.AssessedAt
	}
	return a.UpdatedAt
}
