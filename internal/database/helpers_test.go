package database_test

import (
	"testing"

	"grc-platform/internal/database"
	"grc-platform/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// one connection, otherwise every new one gets its own empty database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

const securityOptions = `[{"value":"sim","score":10},{"value":"parcial","score":5},{"value":"nao","score":0}]`

// seedCampaign creates a vendor, a template with the given questions and
// a pending campaign for them.
func seedCampaign(t *testing.T, db *gorm.DB, questions ...models.QualificationQuestion) (models.QualificationCampaign, []models.QualificationQuestion) {
	t.Helper()

	vendor := models.Vendor{Name: "Fornecedor Alfa"}
	require.NoError(t, db.Create(&vendor).Error)

	tpl := models.QualificationTemplate{Name: "Due diligence", Version: 2}
	require.NoError(t, db.Create(&tpl).Error)

	for i := range questions {
		questions[i].TemplateID = tpl.ID
		questions[i].OrderIndex = i
		if questions[i].Label == "" {
			questions[i].Label = "question"
		}
		require.NoError(t, db.Create(&questions[i]).Error)
	}

	campaign := models.QualificationCampaign{TemplateID: tpl.ID, VendorID: vendor.ID}
	require.NoError(t, database.CreateCampaign(db, &campaign))
	return campaign, questions
}

func answer(t *testing.T, db *gorm.DB, campaign models.QualificationCampaign, q models.QualificationQuestion, text, option string) models.QualificationResponse {
	t.Helper()

	resp := models.QualificationResponse{
		CampaignID: campaign.ID,
		QuestionID: q.ID,
		AnswerText: text,
	}
	if option != "" {
		resp.AnswerOption = []byte(`{"value":"` + option + `"}`)
	}
	require.NoError(t, db.Create(&resp).Error)
	return resp
}
