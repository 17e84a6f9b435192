package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionMultipleChoice QuestionType = "multiple_choice"
	QuestionFileUpload     QuestionType = "file_upload"
	QuestionDate           QuestionType = "date"
	QuestionCurrency       QuestionType = "currency"
	QuestionNumber         QuestionType = "number"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionText, QuestionMultipleChoice, QuestionFileUpload,
		QuestionDate, QuestionCurrency, QuestionNumber:
		return true
	}
	return false
}

// Option is one choice of a multiple choice question. Score is nil
// when the configured score is not a number.
type Option struct {
	Value string   `json:"value"`
	Score *float64 `json:"score,omitempty"`
}

// Question is the scoring view of a questionnaire item. Options is only
// populated for multiple choice questions.
type Question struct {
	ID               uint
	OrderIndex       int
	Type             QuestionType
	Options          []Option
	Weight           float64
	IsKO             bool
	KOValue          string
	ConditionalOn    *uint
	ConditionalValue string
}

// SelectedOption is the chosen option of a multiple choice answer. The
// rest of the stored blob is kept as metadata and never scored.
type SelectedOption struct {
	Value    string
	Metadata map[string]any
}

// Answer holds what the vendor submitted. At most one field is set.
type Answer struct {
	ResponseID uint
	Text       string
	Option     *SelectedOption
	FileURL    string
}

// answeredValue is the value compared against a knockout answer.
func (a Answer) answeredValue() string {
	if a.Text != "" {
		return a.Text
	}
	if a.Option != nil {
		return a.Option.Value
	}
	return ""
}

// ScoredResponse pairs a question with the response given to it.
type ScoredResponse struct {
	Question Question
	Answer   Answer
}

// ParseOptions converts the stored options blob into typed options.
// An empty or null blob yields no options.
func ParseOptions(raw []byte) ([]Option, error) {
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var items []map[string]any
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}

	opts := make([]Option, 0, len(items))
	for i, item := range items {
		v, ok := item["value"]
		if !ok {
			return nil, fmt.Errorf("%w: option %d has no value", ErrInvalidOptions, i)
		}
		opt := Option{Value: stringify(v)}
		if s, ok := item["score"].(float64); ok {
			score := s
			opt.Score = &score
		}
		opts = append(opts, opt)
	}
	return opts, nil
}

// ParseAnswerOption converts a stored answer_option blob. A blob
// without a value yields nil.
func ParseAnswerOption(raw []byte) (*SelectedOption, error) {
	if len(strings.TrimSpace(string(raw))) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var blob map[string]any
	if err := json.Unmarshal(raw, &blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	v, ok := blob["value"]
	if !ok || v == nil {
		return nil, nil
	}
	delete(blob, "value")
	return &SelectedOption{Value: stringify(v), Metadata: blob}, nil
}

func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		b, _ := json.Marshal(t)
		return string(b)
	}
}

// PairResponses joins questions with their answers, keyed by question
// id, keeping question order. Questions nobody answered are left out
// and contribute nothing to either score total.
func PairResponses(questions []Question, answers map[uint]Answer) []ScoredResponse {
	out := make([]ScoredResponse, 0, len(answers))
	for _, q := range questions {
		a, ok := answers[q.ID]
		if !ok {
			continue
		}
		out = append(out, ScoredResponse{Question: q, Answer: a})
	}
	return out
}

// InScope drops conditional questions whose condition is not met: the
// governing question must have been answered with ConditionalValue
// (case-insensitive). Dropped items count toward neither total.
// ScoreCampaign does not evaluate conditions itself, callers filter
// with InScope first.
func InScope(items []ScoredResponse) []ScoredResponse {
	given := make(map[uint]string, len(items))
	for _, it := range items {
		given[it.Question.ID] = it.Answer.answeredValue()
	}

	out := make([]ScoredResponse, 0, len(items))
	for _, it := range items {
		q := it.Question
		if q.ConditionalOn != nil {
			v, ok := given[*q.ConditionalOn]
			if !ok || !strings.EqualFold(v, q.ConditionalValue) {
				continue
			}
		}
		out = append(out, it)
	}
	return out
}
