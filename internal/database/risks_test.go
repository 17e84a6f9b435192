package database_test

import (
	"testing"

	"grc-platform/internal/database"
	"grc-platform/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int { return &v }

func TestCreateRisk_CachesLevelsAndRecordsCreation(t *testing.T) {
	db := newTestDB(t)

	risk, err := database.CreateRisk(db, database.RiskInput{
		Title:               "Vazamento de dados de clientes",
		InherentProbability: 4,
		InherentImpact:      5,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 20, risk.InherentLevel)
	assert.Equal(t, string(scoring.BandCritical), risk.InherentBand)
	assert.Nil(t, risk.ResidualLevel)

	history, err := database.RiskHistory(db, risk.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, string(scoring.ChangeCreated), history[0].ChangeType)
	assert.Nil(t, history[0].OldLevel)
	assert.Equal(t, 20, *history[0].NewLevel)
}

func TestCreateRisk_ClampsLikelihood(t *testing.T) {
	db := newTestDB(t)

	risk, err := database.CreateRisk(db, database.RiskInput{
		Title:               "Fora da escala",
		InherentProbability: 9,
		InherentImpact:      0,
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, risk.InherentProbability)
	assert.Equal(t, 1, risk.InherentImpact)
	assert.Equal(t, 5, risk.InherentLevel)
}

func TestUpdateRisk_AppendsHistory(t *testing.T) {
	db := newTestDB(t)

	in := database.RiskInput{Title: "Ransomware", InherentProbability: 4, InherentImpact: 4}
	risk, err := database.CreateRisk(db, in, 0)
	require.NoError(t, err)

	in.Treatment = "mitigar"
	in.ResidualProbability = intp(2)
	in.ResidualImpact = intp(2)
	upd, err := database.UpdateRisk(db, risk.ID, in, 0)
	require.NoError(t, err)
	assert.True(t, upd.LevelChanged)
	assert.Equal(t, 16, upd.OldLevel)
	assert.Equal(t, 4, upd.NewLevel)
	assert.Equal(t, 4, *upd.Risk.ResidualLevel)
	assert.Equal(t, string(scoring.BandLow), upd.Risk.ResidualBand)

	// unchanged input only records the edit itself
	upd, err = database.UpdateRisk(db, risk.ID, in, 0)
	require.NoError(t, err)
	assert.False(t, upd.LevelChanged)

	history, err := database.RiskHistory(db, risk.ID)
	require.NoError(t, err)

	var kinds []string
	for _, h := range history {
		kinds = append(kinds, h.ChangeType)
	}
	assert.ElementsMatch(t, []string{"created", "updated", "treatment_change", "level_change", "updated"}, kinds)
	assert.Equal(t, "updated", kinds[0])
	assert.Equal(t, "created", kinds[len(kinds)-1])
}

func TestUpdateRisk_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := database.UpdateRisk(db, 77, database.RiskInput{Title: "x", InherentProbability: 1, InherentImpact: 1}, 0)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestListRisks_FiltersByBand(t *testing.T) {
	db := newTestDB(t)

	for _, in := range []database.RiskInput{
		{Title: "baixo", InherentProbability: 1, InherentImpact: 2},
		{Title: "alto", InherentProbability: 3, InherentImpact: 4},
		{Title: "critico", InherentProbability: 5, InherentImpact: 5},
	} {
		_, err := database.CreateRisk(db, in, 0)
		require.NoError(t, err)
	}

	all, err := database.ListRisks(db, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "critico", all[0].Title)

	high, err := database.ListRisks(db, scoring.BandHigh)
	require.NoError(t, err)
	require.Len(t, high, 1)
	assert.Equal(t, "alto", high[0].Title)
}
