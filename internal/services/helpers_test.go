package services_test

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
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

// questionnaire builds the due diligence template used across tests:
//
//	0: "Possui SOC?"           multiple choice, weight 10
//	1: "Detalhe o SOC"         multiple choice, weight 10, only when 0 == "sim"
//	2: "Vazamento nos últimos 12 meses?" text, weight 5, knockout on "sim"
func questionnaire(t *testing.T, db *gorm.DB) (models.QualificationCampaign, []models.QualificationQuestion) {
	t.Helper()

	vendor := models.Vendor{Name: "Fornecedor Beta"}
	require.NoError(t, db.Create(&vendor).Error)
	tpl := models.QualificationTemplate{Name: "Due diligence", Version: 1}
	require.NoError(t, db.Create(&tpl).Error)

	qs := []models.QualificationQuestion{
		{Label: "Possui SOC?", Type: "multiple_choice", Weight: 10,
			Options: []byte(`[{"value":"sim","score":10},{"value":"nao","score":0}]`)},
		{Label: "Detalhe o SOC", Type: "multiple_choice", Weight: 10,
			Options:          []byte(`[{"value":"interno","score":10},{"value":"terceirizado","score":0}]`),
			ConditionalValue: "sim"},
		{Label: "Vazamento nos últimos 12 meses?", Type: "text", Weight: 5, IsKO: true, KOValue: "sim"},
	}
	for i := range qs {
		qs[i].TemplateID = tpl.ID
		qs[i].OrderIndex = i
		if i == 1 {
			qs[i].ConditionalOn = &qs[0].ID
		}
		require.NoError(t, db.Create(&qs[i]).Error)
	}

	campaign := models.QualificationCampaign{TemplateID: tpl.ID, VendorID: vendor.ID}
	require.NoError(t, database.CreateCampaign(db, &campaign))
	return campaign, qs
}

func opt(v string) []byte { return []byte(`{"value":"` + v + `"}`) }
