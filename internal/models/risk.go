package models

import (
	"time"

	"gorm.io/gorm"
)

// Risk is an entry of the risk register. The level columns are a cache
// recomputed from probability x impact on every write.
type Risk struct {
	gorm.Model
	Title       string `gorm:"size:255;not null" json:"title"`
	Category    string `gorm:"size:64" json:"category"`
	Description string `gorm:"type:text" json:"description"`
	Owner       string `gorm:"size:255" json:"owner"`
	Treatment   string `gorm:"type:text" json:"treatment"` // mitigar, aceitar, transferir, evitar

	InherentProbability int  `gorm:"not null" json:"inherent_probability"`
	InherentImpact      int  `gorm:"not null" json:"inherent_impact"`
	ResidualProbability *int `json:"residual_probability"`
	ResidualImpact      *int `json:"residual_impact"`

	InherentLevel int    `json:"inherent_level"`
	InherentBand  string `gorm:"size:16;index" json:"inherent_band"`
	ResidualLevel *int   `json:"residual_level"`
	ResidualBand  string `gorm:"size:16" json:"residual_band"`

	History []RiskHistory `json:"history,omitempty"`
}

// RiskHistory is append-only. Never updated.
type RiskHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`

	RiskID     uint   `gorm:"not null;index" json:"risk_id"`
	ChangeType string `gorm:"size:32;not null" json:"change_type"`
	OldLevel   *int   `json:"old_level"`
	NewLevel   *int   `json:"new_level"`
	UserID     uint   `json:"user_id"`
	Details    string `gorm:"type:text" json:"details"`
}

func (RiskHistory) TableName() string { return "risk_history" }
