package models

import (
	"fmt"

	"grc-platform/internal/scoring"
)

// Conversions from stored records into the scoring engine's types. Blob
// columns are parsed here, once, so the engine only sees typed values.

func (c Control) ToScoring() scoring.Control {
	return scoring.Control{
		ID:       c.ID,
		Code:     c.Code,
		Name:     c.Name,
		Category: c.Category,
		Weight:   c.Weight,
	}
}

func (a Assessment) ToScoring() scoring.Assessment {
	return scoring.Assessment{
		ControlID:      a.ControlID,
		MaturityLevel:  a.MaturityLevel,
		TargetMaturity: a.TargetMaturity,
		Status:         scoring.AssessmentStatus(a.Status),
		AssessedAt:     a.AssessedAt,
		UpdatedAt:      a.UpdatedAt,
	}
}

func (r Risk) ToScoring() scoring.Risk {
	return scoring.Risk{
		ID:                  r.ID,
		InherentProbability: r.InherentProbability,
		InherentImpact:      r.InherentImpact,
		ResidualProbability: r.ResidualProbability,
		ResidualImpact:      r.ResidualImpact,
	}
}

func (h RiskHistory) ToScoring() scoring.RiskHistoryEntry {
	return scoring.RiskHistoryEntry{
		ChangeType: scoring.ChangeType(h.ChangeType),
		OldLevel:   h.OldLevel,
		NewLevel:   h.NewLevel,
		CreatedAt:  h.CreatedAt,
	}
}

func (q QualificationQuestion) ToScoring() (scoring.Question, error) {
	out := scoring.Question{
		ID:               q.ID,
		OrderIndex:       q.OrderIndex,
		Type:             scoring.QuestionType(q.Type),
		Weight:           q.Weight,
		IsKO:             q.IsKO,
		KOValue:          q.KOValue,
		ConditionalOn:    q.ConditionalOn,
		ConditionalValue: q.ConditionalValue,
	}
	if out.Type == scoring.QuestionMultipleChoice {
		opts, err := scoring.ParseOptions(q.Options)
		if err != nil {
			return scoring.Question{}, fmt.Errorf("question %d: %w", q.ID, err)
		}
		out.Options = opts
	}
	return out, nil
}

func (r QualificationResponse) ToScoring() (scoring.Answer, error) {
	sel, err := scoring.ParseAnswerOption(r.AnswerOption)
	if err != nil {
		return scoring.Answer{}, fmt.Errorf("response %d: %w", r.ID, err)
	}
	return scoring.Answer{
		ResponseID: r.ID,
		Text:       r.AnswerText,
		Option:     sel,
		FileURL:    r.AnswerFileURL,
	}, nil
}
