package services

import (
	"fmt"
	"time"

	"grc-platform/internal/database"
	"grc-platform/internal/logging"
	"grc-platform/internal/metrics"
	"grc-platform/internal/models"
	"grc-platform/internal/scoring"

	"gorm.io/gorm"
)

// в тестах подменяется
var Now = time.Now

// RescoreCampaign runs one scoring pass for a campaign: load, filter out
// conditional questions whose condition is unmet, score, apply. The
// whole pass is a single transaction holding the campaign row.
func RescoreCampaign(db *gorm.DB, campaignID, userID uint) (scoring.CampaignReport, error) {
	var report scoring.CampaignReport

	err := db.Transaction(func(tx *gorm.DB) error {
		campaign, err := database.LockCampaign(tx, campaignID)
		if err != nil {
			return err
		}
		return scoreLocked(tx, &campaign, userID, &report)
	})
	if err != nil {
		return report, fmt.Errorf("rescore campaign %d: %w", campaignID, err)
	}

	observe(campaignID, report)
	return report, nil
}

// SubmitResponses stores vendor answers and scores the campaign in the
// same transaction.
func SubmitResponses(db *gorm.DB, token string, subs []database.Submission) (models.QualificationCampaign, scoring.CampaignReport, error) {
	var (
		campaign models.QualificationCampaign
		report   scoring.CampaignReport
	)

	err := db.Transaction(func(tx *gorm.DB) error {
		found, err := database.CampaignByToken(tx, token)
		if err != nil {
			return err
		}
		campaign, err = database.LockCampaign(tx, found.ID)
		if err != nil {
			return err
		}
		if err := database.SaveResponses(tx, campaign, subs); err != nil {
			return err
		}
		return scoreLocked(tx, &campaign, 0, &report)
	})
	if err != nil {
		return campaign, report, fmt.Errorf("submit responses: %w", err)
	}

	observe(campaign.ID, report)
	return campaign, report, nil
}

func scoreLocked(tx *gorm.DB, campaign *models.QualificationCampaign, userID uint, report *scoring.CampaignReport) error {
	items, err := database.CampaignItems(tx, *campaign)
	if err != nil {
		return err
	}

	*report = scoring.ScoreCampaign(scoring.InScope(items))
	if err := database.ApplyCampaignReport(tx, campaign, *report, Now()); err != nil {
		return err
	}

	return database.CreateAuditLog(tx, userID, "campaign", campaign.ID, "score",
		fmt.Sprintf("score=%d classification=%s ko=%t", report.Score, report.Classification, report.KOTriggered))
}

func observe(campaignID uint, report scoring.CampaignReport) {
	metrics.ObserveCampaign(report.Score, string(report.Classification), report.KOTriggered)
	logging.Logger.Infow("campaign scored",
		"campaign_id", campaignID,
		"score", report.Score,
		"classification", report.Classification,
		"ko_triggered", report.KOTriggered,
		"items", len(report.Items),
	)
}
