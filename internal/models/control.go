package models

import (
	"time"

	"gorm.io/gorm"
)

// Control is an entry of the framework catalogue (ISO 27001, LGPD, ...).
type Control struct {
	gorm.Model
	Code        string  `gorm:"size:32;uniqueIndex" json:"code"` // A.5.1, LGPD-46, C-10
	Name        string  `gorm:"size:255;not null" json:"name"`
	Category    string  `gorm:"size:128" json:"category"` // Organizacional, Técnico, Físico
	Framework   string  `gorm:"size:128" json:"framework"`
	Weight      float64 `gorm:"not null;default:1" json:"weight"` // criticality multiplier
	Description string  `gorm:"type:text" json:"description"`
}

type AssessmentStatus string

const (
	AssessmentConforming    AssessmentStatus = "conforming"
	AssessmentPartial       AssessmentStatus = "partial"
	AssessmentNonConforming AssessmentStatus = "non_conforming"
)

type CycleStatus string

const (
	CyclePlanned    CycleStatus = "planned"
	CycleInProgress CycleStatus = "in_progress"
	CycleClosed     CycleStatus = "closed"
)

// AssessmentCycle groups the assessments of one evaluation round.
type AssessmentCycle struct {
	gorm.Model
	Name      string      `gorm:"size:255;not null" json:"name"`
	Framework string      `gorm:"size:128" json:"framework"`
	Status    CycleStatus `gorm:"type:varchar(20);not null" json:"status"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

// Assessment is one control evaluated within a cycle.
type Assessment struct {
	gorm.Model
	ControlID uint    `gorm:"not null;uniqueIndex:idx_assessment_cycle,priority:1" json:"control_id"`
	Control   Control `json:"-"`
	CycleID   uint    `gorm:"not null;uniqueIndex:idx_assessment_cycle,priority:2" json:"cycle_id"`

	MaturityLevel  int              `gorm:"not null;default:0" json:"maturity_level"`
	TargetMaturity int              `gorm:"not null;default:0" json:"target_maturity"`
	Status         AssessmentStatus `gorm:"type:varchar(20);not null" json:"status"`
	Notes          string           `gorm:"type:text" json:"notes"`
	AssessedAt     *time.Time       `json:"assessed_at"`
	AssessedByID   uint             `json:"assessed_by_id"`
}
