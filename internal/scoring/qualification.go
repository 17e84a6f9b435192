package scoring

import (
	"math"
	"strings"
)

type Classification string

const (
	ClassLowRisk    Classification = "baixo"
	ClassMediumRisk Classification = "medio"
	ClassHighRisk   Classification = "alto"
)

const (
	lowRiskFrom    = 81
	mediumRiskFrom = 51
)

// ClassifyScore maps a 0..100 qualification score onto a risk class.
// Anything below the medium band, including no score at all, is "alto".
func ClassifyScore(score int) Classification {
	switch {
	case score >= lowRiskFrom:
		return ClassLowRisk
	case score >= mediumRiskFrom:
		return ClassMediumRisk
	default:
		return ClassHighRisk
	}
}

// ItemScore is the derived outcome for a single response.
type ItemScore struct {
	QuestionID   uint
	ResponseID   uint
	ScoreAwarded float64
	KOMatched    bool
}

// CampaignReport is everything one scoring pass derives. Applying it is
// the caller's job.
type CampaignReport struct {
	Score          int
	Classification Classification
	KOTriggered    bool
	TotalWeight    float64
	TotalScore     float64
	Items          []ItemScore
}

// ScoreCampaign aggregates weighted responses into a 0..100 score.
//
// Every item adds its weight to the denominator, answered or not. A
// knockout match zeroes the final score but scoring carries on so every
// item still gets its own score. Multiple choice answers earn partial
// credit relative to the best option; any other answered item earns its
// full weight. The result only depends on items, so repeated passes over
// the same responses produce the same report.
func ScoreCampaign(items []ScoredResponse) CampaignReport {
	var (
		totalWeight float64
		totalScore  float64
		ko          bool
	)

	report := CampaignReport{Items: make([]ItemScore, 0, len(items))}
	for _, it := range items {
		q := it.Question
		totalWeight += q.Weight

		matched := knockedOut(q, it.Answer)
		if matched {
			ko = true
		}

		earned := earnedScore(q, it.Answer)
		report.Items = append(report.Items, ItemScore{
			QuestionID:   q.ID,
			ResponseID:   it.Answer.ResponseID,
			ScoreAwarded: earned,
			KOMatched:    matched,
		})
		totalScore += earned
	}

	report.TotalWeight = totalWeight
	report.TotalScore = totalScore
	report.KOTriggered = ko
	report.Score = finalScore(totalScore, totalWeight, ko)
	report.Classification = ClassifyScore(report.Score)
	return report
}

func knockedOut(q Question, a Answer) bool {
	if !q.IsKO || q.KOValue == "" {
		return false
	}
	return strings.EqualFold(a.answeredValue(), q.KOValue)
}

func earnedScore(q Question, a Answer) float64 {
	if q.Type == QuestionMultipleChoice && len(q.Options) > 0 && a.Option != nil {
		return optionCredit(q, a.Option.Value)
	}
	if a.Text != "" || a.FileURL != "" {
		return q.Weight
	}
	return 0
}

// optionCredit is the selected option's share of the best option score.
func optionCredit(q Question, selected string) float64 {
	var (
		chosen   *float64
		maxScore float64
		hasMax   bool
	)
	for _, o := range q.Options {
		if o.Score == nil {
			continue
		}
		if !hasMax || *o.Score > maxScore {
			maxScore = *o.Score
			hasMax = true
		}
	}
	for _, o := range q.Options {
		if o.Value == selected {
			chosen = o.Score
			break
		}
	}
	if chosen == nil || maxScore <= 0 {
		return 0
	}
	return *chosen / maxScore * q.Weight
}

func finalScore(totalScore, totalWeight float64, ko bool) int {
	if ko || totalWeight <= 0 {
		return 0
	}
	pct := math.Floor(totalScore/totalWeight*100 + 0.5)
	switch {
	case math.IsNaN(pct) || pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return int(pct)
}
