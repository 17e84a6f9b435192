package database

import (
	"fmt"

	"grc-platform/internal/models"
	"grc-platform/internal/scoring"

	"gorm.io/gorm"
)

// RiskInput is what callers may change on a risk. Residual values travel
// together: both set or both nil.
type RiskInput struct {
	Title               string
	Category            string
	Description         string
	Owner               string
	Treatment           string
	InherentProbability int
	InherentImpact      int
	ResidualProbability *int
	ResidualImpact      *int
}

// refreshLevels rewrites the cached level columns from probability x impact.
func refreshLevels(r *models.Risk) {
	sr := r.ToScoring()
	inherent := sr.InherentLevel()
	r.InherentLevel = inherent.Score
	r.InherentBand = string(inherent.Band)

	if residual, ok := sr.ResidualLevel(); ok {
		score := residual.Score
		r.ResidualLevel = &score
		r.ResidualBand = string(residual.Band)
	} else {
		r.ResidualLevel = nil
		r.ResidualBand = ""
	}
}

func effectiveLevel(r models.Risk) int {
	return r.ToScoring().EffectiveLevel().Score
}

func appendHistory(tx *gorm.DB, riskID, userID uint, change scoring.ChangeType, oldLevel, newLevel *int, details string) error {
	entry := models.RiskHistory{
		RiskID:     riskID,
		ChangeType: string(change),
		OldLevel:   oldLevel,
		NewLevel:   newLevel,
		UserID:     userID,
		Details:    details,
	}
	return tx.Create(&entry).Error
}

func applyRiskInput(r *models.Risk, in RiskInput) {
	r.Title = in.Title
	r.Category = in.Category
	r.Description = in.Description
	r.Owner = in.Owner
	r.Treatment = in.Treatment
	r.InherentProbability = scoring.ClampLikelihood(in.InherentProbability)
	r.InherentImpact = scoring.ClampLikelihood(in.InherentImpact)
	r.ResidualProbability = nil
	r.ResidualImpact = nil
	if in.ResidualProbability != nil && in.ResidualImpact != nil {
		p := scoring.ClampLikelihood(*in.ResidualProbability)
		i := scoring.ClampLikelihood(*in.ResidualImpact)
		r.ResidualProbability = &p
		r.ResidualImpact = &i
	}
	refreshLevels(r)
}

func CreateRisk(db *gorm.DB, in RiskInput, userID uint) (models.Risk, error) {
	var risk models.Risk
	applyRiskInput(&risk, in)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&risk).Error; err != nil {
			return err
		}
		level := effectiveLevel(risk)
		if err := appendHistory(tx, risk.ID, userID, scoring.ChangeCreated, nil, &level, ""); err != nil {
			return err
		}
		return CreateAuditLog(tx, userID, "risk", risk.ID, "create", "Created risk: "+risk.Title)
	})
	return risk, err
}

// RiskUpdate reports what an update changed.
type RiskUpdate struct {
	Risk         models.Risk
	LevelChanged bool
	OldLevel     int
	NewLevel     int
}

// UpdateRisk rewrites a risk and appends its history: always an
// "updated" entry, a "treatment_change" entry when treatment or residual
// values moved, and a "level_change" entry when the effective level moved.
func UpdateRisk(db *gorm.DB, riskID uint, in RiskInput, userID uint) (RiskUpdate, error) {
	var out RiskUpdate

	err := db.Transaction(func(tx *gorm.DB) error {
		var risk models.Risk
		if err := tx.First(&risk, riskID).Error; err != nil {
			return notFound(err)
		}

		before := risk
		oldLevel := effectiveLevel(before)
		applyRiskInput(&risk, in)
		newLevel := effectiveLevel(risk)

		if err := tx.Save(&risk).Error; err != nil {
			return err
		}

		if err := appendHistory(tx, risk.ID, userID, scoring.ChangeUpdated, &oldLevel, &newLevel, ""); err != nil {
			return err
		}
		if treatmentChanged(before, risk) {
			if err := appendHistory(tx, risk.ID, userID, scoring.ChangeTreatment, nil, nil, risk.Treatment); err != nil {
				return err
			}
		}
		if oldLevel != newLevel {
			details := fmt.Sprintf("%d -> %d", oldLevel, newLevel)
			if err := appendHistory(tx, risk.ID, userID, scoring.ChangeLevel, &oldLevel, &newLevel, details); err != nil {
				return err
			}
			if err := CreateAuditLog(tx, userID, "risk", risk.ID, "level_change", details); err != nil {
				return err
			}
		}

		out = RiskUpdate{
			Risk:         risk,
			LevelChanged: oldLevel != newLevel,
			OldLevel:     oldLevel,
			NewLevel:     newLevel,
		}
		return nil
	})
	return out, err
}

func treatmentChanged(before, after models.Risk) bool {
	return before.Treatment != after.Treatment ||
		!sameInt(before.ResidualProbability, after.ResidualProbability) ||
		!sameInt(before.ResidualImpact, after.ResidualImpact)
}

func sameInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func GetRisk(db *gorm.DB, riskID uint) (models.Risk, error) {
	var risk models.Risk
	if err := db.First(&risk, riskID).Error; err != nil {
		return risk, notFound(err)
	}
	return risk, nil
}

// RiskHistory returns the history of a risk newest first, the order
// scoring.RiskTrend expects.
func RiskHistory(db *gorm.DB, riskID uint) ([]models.RiskHistory, error) {
	var history []models.RiskHistory
	err := db.Where("risk_id = ?", riskID).
		Order("created_at desc, id desc").
		Find(&history).Error
	return history, err
}

// ListRisks filters on the cached inherent band when band is non-empty.
func ListRisks(db *gorm.DB, band scoring.RiskBand) ([]models.Risk, error) {
	q := db.Order("inherent_level desc, id asc")
	if band != "" {
		q = q.Where("inherent_band = ?", string(band))
	}
	var risks []models.Risk
	err := q.Find(&risks).Error
	return risks, err
}
