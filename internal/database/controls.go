package database

import (
	"errors"
	"fmt"
	"time"

	"grc-platform/internal/models"

	"gorm.io/gorm"
)

func ListControls(db *gorm.DB) ([]models.Control, error) {
	var controls []models.Control
	err := db.Order("code asc").Find(&controls).Error
	return controls, err
}

// CycleAssessments returns the assessments of one cycle, at most one per control.
func CycleAssessments(db *gorm.DB, cycleID uint) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := db.Where("cycle_id = ?", cycleID).
		Order("control_id asc").
		Find(&assessments).Error
	return assessments, err
}

func CreateControl(db *gorm.DB, control *models.Control) error {
	if control.Weight <= 0 {
		control.Weight = 1
	}
	return db.Create(control).Error
}

// UpsertAssessment: первая оценка (контроль, цикл) создаёт запись, повторная — обновляет
func UpsertAssessment(db *gorm.DB, in models.Assessment, now time.Time) (models.Assessment, error) {
	var out models.Assessment

	err := db.Transaction(func(tx *gorm.DB) error {
		var control models.Control
		if err := tx.First(&control, in.ControlID).Error; err != nil {
			return fmt.Errorf("control %d: %w", in.ControlID, notFound(err))
		}
		var cycle models.AssessmentCycle
		if err := tx.First(&cycle, in.CycleID).Error; err != nil {
			return fmt.Errorf("cycle %d: %w", in.CycleID, notFound(err))
		}

		err := tx.Where("control_id = ? AND cycle_id = ?", in.ControlID, in.CycleID).First(&out).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			out = models.Assessment{ControlID: in.ControlID, CycleID: in.CycleID}
		case err != nil:
			return err
		}

		action := "update"
		if out.ID == 0 {
			action = "create"
		}

		out.MaturityLevel = in.MaturityLevel
		out.TargetMaturity = in.TargetMaturity
		out.Status = in.Status
		out.Notes = in.Notes
		out.AssessedByID = in.AssessedByID
		out.AssessedAt = &now
		if err := tx.Save(&out).Error; err != nil {
			return err
		}

		return CreateAuditLog(tx, in.AssessedByID, "assessment", out.ID, action,
			fmt.Sprintf("%s: maturity %d/%d (%s)", control.Code, out.MaturityLevel, out.TargetMaturity, out.Status))
	})
	return out, err
}

func CreateCycle(db *gorm.DB, cycle *models.AssessmentCycle) error {
	if cycle.Status == "" {
		cycle.Status = models.CyclePlanned
	}
	return db.Create(cycle).Error
}
