package models

import "time"

type AuditLog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	UserID *uint `json:"user_id"` // nil for system actions (scorectl)
	User   *User `json:"user,omitempty"`

	Entity   string `gorm:"size:50;not null" json:"entity"` // "campaign", "risk", "assessment"
	EntityID uint   `json:"entity_id"`
	Action   string `gorm:"size:50;not null" json:"action"` // "score", "create", "level_change"
	Details  string `gorm:"type:text" json:"details"`
}
