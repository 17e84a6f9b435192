package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"grc-platform/internal/database"
	"grc-platform/internal/middleware"
	"grc-platform/internal/models"
	"grc-platform/internal/scoring"
	"grc-platform/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ====== ПОСТАВЩИКИ ======

type vendorRequest struct {
	Name         string `json:"name" binding:"required,min=3,max=255"`
	TaxID        string `json:"tax_id" binding:"max=18"`
	Industry     string `json:"industry"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone"`
	Notes        string `json:"notes"`
}

func CreateVendor(c *gin.Context) {
	var req vendorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid vendor: "+err.Error())
		return
	}

	vendor := models.Vendor{
		Name:         strings.TrimSpace(req.Name),
		TaxID:        strings.TrimSpace(req.TaxID),
		Industry:     strings.TrimSpace(req.Industry),
		ContactName:  strings.TrimSpace(req.ContactName),
		ContactEmail: strings.TrimSpace(req.ContactEmail),
		ContactPhone: strings.TrimSpace(req.ContactPhone),
		Notes:        strings.TrimSpace(req.Notes),
	}
	if err := database.DB.Create(&vendor).Error; err != nil {
		failErr(c, err, "vendor")
		return
	}
	database.CreateAuditLog(database.DB, middleware.CurrentUserID(c), "vendor", vendor.ID, "create", "Created vendor: "+vendor.Name)
	respond(c, http.StatusCreated, gin.H{"vendor": vendor})
}

// ====== ШАБЛОНЫ АНКЕТ ======

type questionRequest struct {
	Key              string          `json:"key"`
	Label            string          `json:"label" binding:"required"`
	Type             string          `json:"type" binding:"required"`
	Options          json.RawMessage `json:"options"`
	Weight           float64         `json:"weight" binding:"min=0"`
	IsRequired       bool            `json:"is_required"`
	IsKO             bool            `json:"is_ko"`
	KOValue          string          `json:"ko_value"`
	ConditionalOn    string          `json:"conditional_on"` // key одного из предыдущих вопросов
	ConditionalValue string          `json:"conditional_value"`
}

type templateRequest struct {
	Name        string            `json:"name" binding:"required,min=3"`
	Version     int               `json:"version" binding:"omitempty,min=1"`
	Description string            `json:"description"`
	Questions   []questionRequest `json:"questions" binding:"required,min=1,dive"`
}

var errBadTemplate = errors.New("invalid template")

// CreateTemplate сохраняет анкету вместе с вопросами.
// Опции проверяем здесь, чтобы кривой JSON не попал в базу.
func CreateTemplate(c *gin.Context) {
	var req templateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid template: "+err.Error())
		return
	}

	for i, q := range req.Questions {
		qt := scoring.QuestionType(q.Type)
		if !qt.Valid() {
			fail(c, http.StatusBadRequest, "question "+q.Label+": unknown type "+q.Type)
			return
		}
		if qt == scoring.QuestionMultipleChoice {
			opts, err := scoring.ParseOptions(q.Options)
			if err != nil || len(opts) == 0 {
				fail(c, http.StatusBadRequest, "question "+q.Label+": multiple choice needs options")
				return
			}
		} else {
			req.Questions[i].Options = nil
		}
	}

	tpl := models.QualificationTemplate{
		Name:        strings.TrimSpace(req.Name),
		Version:     req.Version,
		Description: req.Description,
	}
	if tpl.Version == 0 {
		tpl.Version = 1
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tpl).Error; err != nil {
			return err
		}

		byKey := map[string]uint{}
		for i, q := range req.Questions {
			question := models.QualificationQuestion{
				TemplateID:       tpl.ID,
				OrderIndex:       i,
				Label:            strings.TrimSpace(q.Label),
				Type:             q.Type,
				Options:          []byte(q.Options),
				Weight:           q.Weight,
				IsRequired:       q.IsRequired,
				IsKO:             q.IsKO,
				KOValue:          strings.TrimSpace(q.KOValue),
				ConditionalValue: q.ConditionalValue,
			}
			if q.ConditionalOn != "" {
				gov, ok := byKey[q.ConditionalOn]
				if !ok {
					return errBadTemplate
				}
				question.ConditionalOn = &gov
			}
			if err := tx.Create(&question).Error; err != nil {
				return err
			}
			if q.Key != "" {
				byKey[q.Key] = question.ID
			}
			tpl.Questions = append(tpl.Questions, question)
		}
		return nil
	})
	if errors.Is(err, errBadTemplate) {
		fail(c, http.StatusBadRequest, "conditional_on must reference an earlier question key")
		return
	}
	if err != nil {
		failErr(c, err, "template")
		return
	}

	respond(c, http.StatusCreated, gin.H{"template": tpl})
}

// ====== КАМПАНИИ ======

type campaignRequest struct {
	TemplateID uint `json:"template_id" binding:"required"`
	VendorID   uint `json:"vendor_id" binding:"required"`
}

func CreateCampaign(c *gin.Context) {
	var req campaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid campaign: "+err.Error())
		return
	}

	campaign := models.QualificationCampaign{TemplateID: req.TemplateID, VendorID: req.VendorID}
	if err := database.CreateCampaign(database.DB, &campaign); err != nil {
		failErr(c, err, "campaign")
		return
	}
	database.CreateAuditLog(database.DB, middleware.CurrentUserID(c), "campaign", campaign.ID, "create", "")
	respond(c, http.StatusCreated, gin.H{"campaign": campaign})
}

func GetCampaign(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	campaign, err := database.GetCampaign(database.DB, id)
	if err != nil {
		failErr(c, err, "campaign")
		return
	}
	respond(c, http.StatusOK, gin.H{"campaign": campaign})
}

// ScoreCampaign: POST /campaigns/:id/score — ручной пересчёт
func ScoreCampaign(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}

	report, err := services.RescoreCampaign(database.DB, id, middleware.CurrentUserID(c))
	if err != nil {
		failErr(c, err, "campaign")
		return
	}
	respond(c, http.StatusOK, gin.H{"report": reportJSON(report)})
}

func reportJSON(r scoring.CampaignReport) gin.H {
	items := make([]gin.H, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, gin.H{
			"question_id":   it.QuestionID,
			"response_id":   it.ResponseID,
			"score_awarded": it.ScoreAwarded,
			"ko_matched":    it.KOMatched,
		})
	}
	return gin.H{
		"score":               r.Score,
		"risk_classification": r.Classification,
		"ko_triggered":        r.KOTriggered,
		"items":               items,
	}
}

// ====== ПОРТАЛ ПОСТАВЩИКА ======

type answerRequest struct {
	QuestionID    uint            `json:"question_id" binding:"required"`
	AnswerText    string          `json:"answer_text"`
	AnswerOption  json.RawMessage `json:"answer_option"`
	AnswerFileURL string          `json:"answer_file_url"`
}

type submissionRequest struct {
	Answers []answerRequest `json:"answers" binding:"required,min=1,dive"`
}

// SubmitResponses: POST /portal/:token/responses
// скоринг пересчитывается на каждую отправку, поставщик видит только статус
func SubmitResponses(c *gin.Context) {
	token := c.Param("token")

	var req submissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid answers: "+err.Error())
		return
	}

	subs := make([]database.Submission, 0, len(req.Answers))
	for _, a := range req.Answers {
		opt := a.AnswerOption
		if string(opt) == "null" {
			opt = nil
		}
		given := 0
		for _, set := range []bool{a.AnswerText != "", len(opt) > 0, a.AnswerFileURL != ""} {
			if set {
				given++
			}
		}
		if given > 1 {
			fail(c, http.StatusBadRequest, "an answer holds one of answer_text, answer_option or answer_file_url")
			return
		}
		if len(opt) > 0 {
			if _, err := scoring.ParseAnswerOption(opt); err != nil {
				fail(c, http.StatusBadRequest, "invalid answer_option")
				return
			}
		}
		subs = append(subs, database.Submission{
			QuestionID:    a.QuestionID,
			AnswerText:    strings.TrimSpace(a.AnswerText),
			AnswerOption:  opt,
			AnswerFileURL: strings.TrimSpace(a.AnswerFileURL),
		})
	}

	campaign, _, err := services.SubmitResponses(database.DB, token, subs)
	if err != nil {
		failErr(c, err, "campaign or question")
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "received", "campaign_id": campaign.ID})
}
