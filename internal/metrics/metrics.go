package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ScoringPasses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grc",
		Name:      "qualification_scoring_passes_total",
		Help:      "Qualification scoring passes by resulting classification.",
	}, []string{"classification"})

	Knockouts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "grc",
		Name:      "qualification_knockouts_total",
		Help:      "Scoring passes where a knockout answer zeroed the campaign.",
	})

	CampaignScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "grc",
		Name:      "qualification_campaign_score",
		Help:      "Final 0-100 qualification scores.",
		Buckets:   []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
	})

	RiskLevelChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "grc",
		Name:      "risk_level_changes_total",
		Help:      "Risk register level changes by new band.",
	}, []string{"band"})
)

// ObserveCampaign records the outcome of one scoring pass.
func ObserveCampaign(score int, classification string, ko bool) {
	ScoringPasses.WithLabelValues(classification).Inc()
	CampaignScores.Observe(float64(score))
	if ko {
		Knockouts.Inc()
	}
}
