package database

import (
	"errors"
	"fmt"
	"time"

	"grc-platform/internal/models"
	"grc-platform/internal/scoring"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LockCampaign: SELECT ... FOR UPDATE на postgres, лок держится до конца tx.
// два пересчёта одной кампании не пересекаются
func LockCampaign(tx *gorm.DB, campaignID uint) (models.QualificationCampaign, error) {
	var campaign models.QualificationCampaign
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&campaign, campaignID).Error; err != nil {
		return campaign, notFound(err)
	}
	return campaign, nil
}

func CampaignByToken(db *gorm.DB, token string) (models.QualificationCampaign, error) {
	var campaign models.QualificationCampaign
	if err := db.Where("access_token = ?", token).First(&campaign).Error; err != nil {
		return campaign, notFound(err)
	}
	return campaign, nil
}

func GetCampaign(db *gorm.DB, campaignID uint) (models.QualificationCampaign, error) {
	var campaign models.QualificationCampaign
	err := db.Preload("Vendor").
		Preload("Responses", func(db *gorm.DB) *gorm.DB { return db.Order("question_id asc") }).
		First(&campaign, campaignID).Error
	if err != nil {
		return campaign, notFound(err)
	}
	return campaign, nil
}

func CreateCampaign(db *gorm.DB, campaign *models.QualificationCampaign) error {
	var tpl models.QualificationTemplate
	if err := db.First(&tpl, campaign.TemplateID).Error; err != nil {
		return fmt.Errorf("template %d: %w", campaign.TemplateID, notFound(err))
	}
	var vendor models.Vendor
	if err := db.First(&vendor, campaign.VendorID).Error; err != nil {
		return fmt.Errorf("vendor %d: %w", campaign.VendorID, notFound(err))
	}
	campaign.TemplateVersion = tpl.Version
	return db.Create(campaign).Error
}

// PendingCampaignIDs lists campaigns that have answers but no score yet.
// Campaigns still pending were never answered and keep their null score.
func PendingCampaignIDs(db *gorm.DB) ([]uint, error) {
	var ids []uint
	err := db.Model(&models.QualificationCampaign{}).
		Where("status = ?", models.CampaignSubmitted).
		Order("id asc").
		Pluck("id", &ids).Error
	return ids, err
}

// CampaignItems loads the template's questions and the campaign's
// responses, converted for the scoring engine. Questions without a
// response are left out.
func CampaignItems(tx *gorm.DB, campaign models.QualificationCampaign) ([]scoring.ScoredResponse, error) {
	var questions []models.QualificationQuestion
	if err := tx.Where("template_id = ?", campaign.TemplateID).
		Order("order_index asc").
		Find(&questions).Error; err != nil {
		return nil, fmt.Errorf("load questions: %w", err)
	}

	var responses []models.QualificationResponse
	if err := tx.Where("campaign_id = ?", campaign.ID).Find(&responses).Error; err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}

	qs := make([]scoring.Question, 0, len(questions))
	for _, q := range questions {
		sq, err := q.ToScoring()
		if err != nil {
			return nil, err
		}
		qs = append(qs, sq)
	}

	answers := make(map[uint]scoring.Answer, len(responses))
	for _, r := range responses {
		a, err := r.ToScoring()
		if err != nil {
			return nil, err
		}
		answers[r.QuestionID] = a
	}

	return scoring.PairResponses(qs, answers), nil
}

// ApplyCampaignReport writes the derived fields of a scoring pass. Every
// response in the report has its score_awarded overwritten; responses
// left out of the pass (conditions unmet) are reset to null.
func ApplyCampaignReport(tx *gorm.DB, campaign *models.QualificationCampaign, report scoring.CampaignReport, now time.Time) error {
	if err := tx.Model(&models.QualificationResponse{}).
		Where("campaign_id = ?", campaign.ID).
		Update("score_awarded", nil).Error; err != nil {
		return fmt.Errorf("reset response scores: %w", err)
	}

	for _, item := range report.Items {
		if item.ResponseID == 0 {
			continue
		}
		if err := tx.Model(&models.QualificationResponse{}).
			Where("id = ? AND campaign_id = ?", item.ResponseID, campaign.ID).
			Update("score_awarded", item.ScoreAwarded).Error; err != nil {
			return fmt.Errorf("update response %d: %w", item.ResponseID, err)
		}
	}

	score := report.Score
	status := models.CampaignScored
	if report.KOTriggered {
		status = models.CampaignKnockedOut
	}

	campaign.Score = &score
	campaign.RiskClassification = string(report.Classification)
	campaign.KOTriggered = report.KOTriggered
	campaign.Status = status
	campaign.ScoredAt = &now

	return tx.Model(campaign).Updates(map[string]any{
		"score":               score,
		"risk_classification": campaign.RiskClassification,
		"ko_triggered":        report.KOTriggered,
		"status":              status,
		"scored_at":           now,
	}).Error
}

// один ответ с портала поставщика
type Submission struct {
	QuestionID    uint
	AnswerText    string
	AnswerOption  []byte
	AnswerFileURL string
}

// SaveResponses: upsert ответов, одна строка на вопрос
func SaveResponses(tx *gorm.DB, campaign models.QualificationCampaign, subs []Submission) error {
	var known []uint
	if err := tx.Model(&models.QualificationQuestion{}).
		Where("template_id = ?", campaign.TemplateID).
		Pluck("id", &known).Error; err != nil {
		return fmt.Errorf("load questions: %w", err)
	}
	inTemplate := make(map[uint]bool, len(known))
	for _, id := range known {
		inTemplate[id] = true
	}

	for _, s := range subs {
		if !inTemplate[s.QuestionID] {
			return fmt.Errorf("question %d: %w", s.QuestionID, ErrNotFound)
		}

		var resp models.QualificationResponse
		err := tx.Where("campaign_id = ? AND question_id = ?", campaign.ID, s.QuestionID).
			First(&resp).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		resp.CampaignID = campaign.ID
		resp.QuestionID = s.QuestionID
		resp.AnswerText = s.AnswerText
		resp.AnswerOption = s.AnswerOption
		resp.AnswerFileURL = s.AnswerFileURL
		if err := tx.Save(&resp).Error; err != nil {
			return fmt.Errorf("save response for question %d: %w", s.QuestionID, err)
		}
	}

	if campaign.Status == models.CampaignPending {
		return tx.Model(&campaign).Update("status", models.CampaignSubmitted).Error
	}
	return nil
}
