package services

import (
	"grc-platform/internal/database"
	"grc-platform/internal/models"
	"grc-platform/internal/scoring"

	"gorm.io/gorm"
)

// ControlRow is a control with its assessment in a cycle and the derived
// risk score and gap.
type ControlRow struct {
	Control     models.Control     `json:"control"`
	Assessment  *models.Assessment `json:"assessment,omitempty"`
	RiskScore   float64            `json:"risk_score"`
	MaturityGap int                `json:"maturity_gap"`
}

// RankControls loads the catalogue with the cycle's assessments and
// orders it by the criterion.
func RankControls(db *gorm.DB, cycleID uint, by scoring.SortCriterion) ([]ControlRow, error) {
	controls, err := database.ListControls(db)
	if err != nil {
		return nil, err
	}
	assessments, err := database.CycleAssessments(db, cycleID)
	if err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Control, len(controls))
	sc := make([]scoring.Control, 0, len(controls))
	for _, c := range controls {
		byID[c.ID] = c
		sc = append(sc, c.ToScoring())
	}
	byControl := make(map[uint]*models.Assessment, len(assessments))
	sa := make([]scoring.Assessment, 0, len(assessments))
	for i := range assessments {
		byControl[assessments[i].ControlID] = &assessments[i]
		sa = append(sa, assessments[i].ToScoring())
	}

	rows := make([]ControlRow, 0, len(controls))
	for _, c := range scoring.SortControls(sc, sa, by) {
		row := ControlRow{Control: byID[c.ID], Assessment: byControl[c.ID]}
		if a := row.Assessment; a != nil {
			s := a.ToScoring()
			row.RiskScore = scoring.ControlRiskScore(c, &s)
			row.MaturityGap = scoring.MaturityGap(a.MaturityLevel, a.TargetMaturity)
		}
		rows = append(rows, row)
	}
	return rows, nil
}
