package services

import (
	"grc-platform/internal/database"
	"grc-platform/internal/logging"
	"grc-platform/internal/metrics"
	"grc-platform/internal/models"
	"grc-platform/internal/scoring"

	"gorm.io/gorm"
)

// RiskView is a risk with its derived levels and trend.
type RiskView struct {
	Risk     models.Risk        `json:"risk"`
	Inherent scoring.RiskLevel  `json:"inherent"`
	Residual *scoring.RiskLevel `json:"residual,omitempty"`
	Trend    *scoring.Trend     `json:"trend"`
}

// DescribeRisk recomputes the levels from probability x impact rather
// than reading the cached columns.
func DescribeRisk(db *gorm.DB, riskID uint) (RiskView, error) {
	risk, err := database.GetRisk(db, riskID)
	if err != nil {
		return RiskView{}, err
	}
	history, err := database.RiskHistory(db, riskID)
	if err != nil {
		return RiskView{}, err
	}

	sr := risk.ToScoring()
	view := RiskView{Risk: risk, Inherent: sr.InherentLevel()}
	if lvl, ok := sr.ResidualLevel(); ok {
		view.Residual = &lvl
	}

	entries := make([]scoring.RiskHistoryEntry, 0, len(history))
	for _, h := range history {
		entries = append(entries, h.ToScoring())
	}
	if trend, ok := scoring.RiskTrend(entries); ok {
		view.Trend = &trend
	}
	return view, nil
}

func UpdateRisk(db *gorm.DB, riskID uint, in database.RiskInput, userID uint) (database.RiskUpdate, error) {
	upd, err := database.UpdateRisk(db, riskID, in, userID)
	if err != nil {
		return upd, err
	}
	if upd.LevelChanged {
		band := scoring.BandForScore(upd.NewLevel)
		metrics.RiskLevelChanges.WithLabelValues(string(band)).Inc()
		logging.Logger.Infow("risk level changed",
			"risk_id", riskID,
			"old_level", upd.OldLevel,
			"new_level", upd.NewLevel,
			"band", band,
		)
	}
	return upd, nil
}
