package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vendor — third party going through qualification.
type Vendor struct {
	gorm.Model
	Name         string `gorm:"size:255;not null" json:"name"`
	TaxID        string `gorm:"size:18" json:"tax_id"` // CNPJ
	Industry     string `gorm:"size:100" json:"industry"`
	ContactName  string `gorm:"size:255" json:"contact_name"`
	ContactEmail string `gorm:"size:255" json:"contact_email"`
	ContactPhone string `gorm:"size:50" json:"contact_phone"`
	Notes        string `gorm:"type:text" json:"notes"`

	Campaigns []QualificationCampaign `json:"campaigns,omitempty"`
}

type QualificationTemplate struct {
	gorm.Model
	Name        string `gorm:"size:255;not null" json:"name"`
	Version     int    `gorm:"not null;default:1" json:"version"`
	Description string `gorm:"type:text" json:"description"`

	Questions []QualificationQuestion `gorm:"foreignKey:TemplateID" json:"questions,omitempty"`
}

type QualificationQuestion struct {
	gorm.Model
	TemplateID uint   `gorm:"not null;index" json:"template_id"`
	OrderIndex int    `gorm:"not null" json:"order_index"`
	Label      string `gorm:"type:text;not null" json:"label"`
	Type       string `gorm:"type:varchar(20);not null" json:"type"`

	// [{"value": "...", "score": 10}, ...] for multiple_choice
	Options datatypes.JSON `gorm:"type:jsonb" json:"options,omitempty"`

	Weight     float64 `gorm:"not null;default:0" json:"weight"`
	IsRequired bool    `json:"is_required"`
	IsKO       bool    `json:"is_ko"`
	KOValue    string  `gorm:"size:255" json:"ko_value"`

	ConditionalOn    *uint  `json:"conditional_on"`
	ConditionalValue string `gorm:"size:255" json:"conditional_value"`
}

type CampaignStatus string

const (
	CampaignPending    CampaignStatus = "pending"
	CampaignSubmitted  CampaignStatus = "submitted"
	CampaignScored     CampaignStatus = "scored"
	CampaignKnockedOut CampaignStatus = "knocked_out"
)

type QualificationCampaign struct {
	gorm.Model
	TemplateID      uint                  `gorm:"not null;index" json:"template_id"`
	Template        QualificationTemplate `json:"-"`
	TemplateVersion int                   `json:"template_version"`
	VendorID        uint                  `gorm:"not null;index" json:"vendor_id"`
	Vendor          Vendor                `json:"vendor"`

	// vendor portal link
	AccessToken string `gorm:"size:36;uniqueIndex" json:"access_token"`

	Score              *int           `json:"score"`
	RiskClassification string         `gorm:"size:16" json:"risk_classification"`
	KOTriggered        bool           `gorm:"column:ko_triggered" json:"ko_triggered"`
	Status             CampaignStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	ScoredAt           *time.Time     `json:"scored_at"`

	Responses []QualificationResponse `gorm:"foreignKey:CampaignID" json:"responses,omitempty"`
}

func (c *QualificationCampaign) BeforeCreate(tx *gorm.DB) error {
	if c.AccessToken == "" {
		c.AccessToken = uuid.NewString()
	}
	if c.Status == "" {
		c.Status = CampaignPending
	}
	return nil
}

type QualificationResponse struct {
	gorm.Model
	CampaignID uint                  `gorm:"not null;uniqueIndex:idx_response_question,priority:1" json:"campaign_id"`
	QuestionID uint                  `gorm:"not null;uniqueIndex:idx_response_question,priority:2" json:"question_id"`
	Question   QualificationQuestion `json:"-"`

	AnswerText    string         `gorm:"type:text" json:"answer_text,omitempty"`
	AnswerOption  datatypes.JSON `gorm:"type:jsonb" json:"answer_option,omitempty"`
	AnswerFileURL string         `gorm:"size:1024" json:"answer_file_url,omitempty"`

	ScoreAwarded *float64 `json:"score_awarded"`
}
