package database_test

import (
	"testing"
	"time"

	"grc-platform/internal/database"
	"grc-platform/internal/models"
	"grc-platform/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcQuestion(weight float64) models.QualificationQuestion {
	return models.QualificationQuestion{
		Type:    string(scoring.QuestionMultipleChoice),
		Options: []byte(securityOptions),
		Weight:  weight,
	}
}

func textQuestion(weight float64) models.QualificationQuestion {
	return models.QualificationQuestion{Type: string(scoring.QuestionText), Weight: weight}
}

func TestCreateCampaign_CopiesTemplateVersionAndToken(t *testing.T) {
	db := newTestDB(t)
	campaign, _ := seedCampaign(t, db, textQuestion(1))

	assert.Equal(t, 2, campaign.TemplateVersion)
	assert.Equal(t, models.CampaignPending, campaign.Status)
	assert.Len(t, campaign.AccessToken, 36)

	found, err := database.CampaignByToken(db, campaign.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, campaign.ID, found.ID)

	_, err = database.CampaignByToken(db, "nope")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreateCampaign_UnknownVendor(t *testing.T) {
	db := newTestDB(t)
	campaign, _ := seedCampaign(t, db, textQuestion(1))

	other := models.QualificationCampaign{TemplateID: campaign.TemplateID, VendorID: 999}
	err := database.CreateCampaign(db, &other)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCampaignItems_SkipsUnansweredQuestions(t *testing.T) {
	db := newTestDB(t)
	campaign, qs := seedCampaign(t, db, mcQuestion(10), textQuestion(5), textQuestion(5))
	answer(t, db, campaign, qs[0], "", "parcial")
	answer(t, db, campaign, qs[2], "ok", "")

	items, err := database.CampaignItems(db, campaign)
	require.NoError(t, err)
	require.Len(t, items, 2)

	assert.Equal(t, qs[0].ID, items[0].Question.ID)
	require.NotNil(t, items[0].Answer.Option)
	assert.Equal(t, "parcial", items[0].Answer.Option.Value)
	assert.Len(t, items[0].Question.Options, 3)
	assert.Equal(t, qs[2].ID, items[1].Question.ID)
}

func TestApplyCampaignReport_IsIdempotent(t *testing.T) {
	db := newTestDB(t)
	campaign, qs := seedCampaign(t, db, mcQuestion(10), textQuestion(10))
	r1 := answer(t, db, campaign, qs[0], "", "parcial")
	r2 := answer(t, db, campaign, qs[1], "temos SOC 24x7", "")

	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for pass := 0; pass < 2; pass++ {
		items, err := database.CampaignItems(db, campaign)
		require.NoError(t, err)
		report := scoring.ScoreCampaign(items)
		require.NoError(t, database.ApplyCampaignReport(db, &campaign, report, now))
	}

	got, err := database.GetCampaign(db, campaign.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Score)
	assert.Equal(t, 75, *got.Score)
	assert.Equal(t, string(scoring.ClassMediumRisk), got.RiskClassification)
	assert.False(t, got.KOTriggered)
	assert.Equal(t, models.CampaignScored, got.Status)
	require.NotNil(t, got.ScoredAt)

	awarded := map[uint]float64{}
	for _, r := range got.Responses {
		require.NotNil(t, r.ScoreAwarded)
		awarded[r.ID] = *r.ScoreAwarded
	}
	assert.Equal(t, map[uint]float64{r1.ID: 5, r2.ID: 10}, awarded)
}

func TestApplyCampaignReport_KnockoutStatus(t *testing.T) {
	db := newTestDB(t)
	campaign, _ := seedCampaign(t, db, textQuestion(1))

	report := scoring.CampaignReport{Score: 0, Classification: scoring.ClassHighRisk, KOTriggered: true}
	require.NoError(t, database.ApplyCampaignReport(db, &campaign, report, time.Now()))

	got, err := database.GetCampaign(db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignKnockedOut, got.Status)
	assert.True(t, got.KOTriggered)
	assert.Equal(t, 0, *got.Score)
}

func TestApplyCampaignReport_ResetsResponsesLeftOut(t *testing.T) {
	db := newTestDB(t)
	campaign, qs := seedCampaign(t, db, textQuestion(10), textQuestion(10))
	kept := answer(t, db, campaign, qs[0], "sim", "")
	dropped := answer(t, db, campaign, qs[1], "sim", "")

	stale := 10.0
	require.NoError(t, db.Model(&dropped).Update("score_awarded", stale).Error)

	report := scoring.CampaignReport{
		Score:          100,
		Classification: scoring.ClassLowRisk,
		Items:          []scoring.ItemScore{{QuestionID: qs[0].ID, ResponseID: kept.ID, ScoreAwarded: 10}},
	}
	require.NoError(t, database.ApplyCampaignReport(db, &campaign, report, time.Now()))

	var reset models.QualificationResponse
	require.NoError(t, db.First(&reset, dropped.ID).Error)
	assert.Nil(t, reset.ScoreAwarded)

	var scored models.QualificationResponse
	require.NoError(t, db.First(&scored, kept.ID).Error)
	require.NotNil(t, scored.ScoreAwarded)
	assert.Equal(t, 10.0, *scored.ScoreAwarded)
}

func TestSaveResponses_UpsertsAndMarksSubmitted(t *testing.T) {
	db := newTestDB(t)
	campaign, qs := seedCampaign(t, db, textQuestion(1), mcQuestion(1))

	require.NoError(t, database.SaveResponses(db, campaign, []database.Submission{
		{QuestionID: qs[0].ID, AnswerText: "primeira"},
	}))
	require.NoError(t, database.SaveResponses(db, campaign, []database.Submission{
		{QuestionID: qs[0].ID, AnswerText: "segunda"},
		{QuestionID: qs[1].ID, AnswerOption: []byte(`{"value":"sim"}`)},
	}))

	var responses []models.QualificationResponse
	require.NoError(t, db.Where("campaign_id = ?", campaign.ID).Order("question_id").Find(&responses).Error)
	require.Len(t, responses, 2)
	assert.Equal(t, "segunda", responses[0].AnswerText)
	assert.JSONEq(t, `{"value":"sim"}`, string(responses[1].AnswerOption))

	got, err := database.GetCampaign(db, campaign.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CampaignSubmitted, got.Status)
}

func TestSaveResponses_RejectsForeignQuestion(t *testing.T) {
	db := newTestDB(t)
	campaign, _ := seedCampaign(t, db, textQuestion(1))

	err := database.SaveResponses(db, campaign, []database.Submission{{QuestionID: 4242, AnswerText: "x"}})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestPendingCampaignIDs(t *testing.T) {
	db := newTestDB(t)
	scored, qs1 := seedCampaign(t, db, textQuestion(1))
	submitted, qs2 := seedCampaign(t, db, textQuestion(1))
	seedCampaign(t, db, textQuestion(1)) // nobody opened the portal

	require.NoError(t, database.SaveResponses(db, scored, []database.Submission{{QuestionID: qs1[0].ID, AnswerText: "sim"}}))
	require.NoError(t, database.SaveResponses(db, submitted, []database.Submission{{QuestionID: qs2[0].ID, AnswerText: "sim"}}))

	report := scoring.CampaignReport{Score: 100, Classification: scoring.ClassLowRisk}
	require.NoError(t, database.ApplyCampaignReport(db, &scored, report, time.Now()))

	ids, err := database.PendingCampaignIDs(db)
	require.NoError(t, err)
	assert.Equal(t, []uint{submitted.ID}, ids)
}
