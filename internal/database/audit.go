package database

import (
	"fmt"

	"grc-platform/internal/logging"
	"grc-platform/internal/models"

	"gorm.io/gorm"
)

// helper для записи в журнал аудита. userID == 0 — системное действие
// (scorectl, портал поставщика).
// Внутри транзакции ошибку нужно вернуть наверх: на postgres упавший
// insert ломает всю транзакцию.
func CreateAuditLog(tx *gorm.DB, userID uint, entity string, entityID uint, action, details string) error {
	if tx == nil {
		return nil
	}
	record := models.AuditLog{
		UserID:   actor(userID),
		Entity:   entity,
		EntityID: entityID,
		Action:   action,
		Details:  details,
	}
	if err := tx.Create(&record).Error; err != nil {
		logging.Logger.Errorw("failed to write audit log",
			"entity", entity,
			"entity_id", entityID,
			"action", action,
			"error", err,
		)
		return fmt.Errorf("audit %s %d: %w", entity, entityID, err)
	}
	return nil
}

func ListAuditLogs(db *gorm.DB, limit int) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Preload("User").
		Order("created_at desc").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}

func actor(userID uint) *uint {
	if userID == 0 {
		return nil
	}
	return &userID
}
