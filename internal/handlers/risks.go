package handlers

import (
	"net/http"
	"strings"

	"grc-platform/internal/database"
	"grc-platform/internal/middleware"
	"grc-platform/internal/scoring"
	"grc-platform/internal/services"

	"github.com/gin-gonic/gin"
)

// ====== РЕЕСТР РИСКОВ ======

type riskRequest struct {
	Title               string `json:"title" binding:"required,min=3,max=255"`
	Category            string `json:"category"`
	Description         string `json:"description"`
	Owner               string `json:"owner"`
	Treatment           string `json:"treatment"`
	InherentProbability int    `json:"inherent_probability" binding:"required,min=1,max=5"`
	InherentImpact      int    `json:"inherent_impact" binding:"required,min=1,max=5"`
	ResidualProbability *int   `json:"residual_probability" binding:"omitempty,min=1,max=5"`
	ResidualImpact      *int   `json:"residual_impact" binding:"omitempty,min=1,max=5"`
}

func bindRisk(c *gin.Context) (database.RiskInput, bool) {
	var req riskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid risk: "+err.Error())
		return database.RiskInput{}, false
	}
	if (req.ResidualProbability == nil) != (req.ResidualImpact == nil) {
		fail(c, http.StatusBadRequest, "residual probability and impact must be set together")
		return database.RiskInput{}, false
	}

	return database.RiskInput{
		Title:               strings.TrimSpace(req.Title),
		Category:            strings.TrimSpace(req.Category),
		Description:         strings.TrimSpace(req.Description),
		Owner:               strings.TrimSpace(req.Owner),
		Treatment:           strings.TrimSpace(req.Treatment),
		InherentProbability: req.InherentProbability,
		InherentImpact:      req.InherentImpact,
		ResidualProbability: req.ResidualProbability,
		ResidualImpact:      req.ResidualImpact,
	}, true
}

func CreateRisk(c *gin.Context) {
	in, ok := bindRisk(c)
	if !ok {
		return
	}

	risk, err := database.CreateRisk(database.DB, in, middleware.CurrentUserID(c))
	if err != nil {
		failErr(c, err, "risk")
		return
	}
	respond(c, http.StatusCreated, gin.H{"risk": risk})
}

func UpdateRisk(c *gin.Context) {
	riskID, ok := paramID(c, "id")
	if !ok {
		return
	}
	in, ok := bindRisk(c)
	if !ok {
		return
	}

	upd, err := services.UpdateRisk(database.DB, riskID, in, middleware.CurrentUserID(c))
	if err != nil {
		failErr(c, err, "risk")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"risk":          upd.Risk,
		"level_changed": upd.LevelChanged,
	})
}

func GetRisk(c *gin.Context) {
	riskID, ok := paramID(c, "id")
	if !ok {
		return
	}

	view, err := services.DescribeRisk(database.DB, riskID)
	if err != nil {
		failErr(c, err, "risk")
		return
	}
	respond(c, http.StatusOK, gin.H{
		"risk":     view.Risk,
		"inherent": view.Inherent,
		"residual": view.Residual,
		"trend":    view.Trend,
	})
}

// ListRisks: GET /risks?band=high
func ListRisks(c *gin.Context) {
	var band scoring.RiskBand
	if s := c.Query("band"); s != "" {
		parsed, err := scoring.ParseRiskBand(s)
		if err != nil {
			fail(c, http.StatusBadRequest, "unknown risk band")
			return
		}
		band = parsed
	}

	risks, err := database.ListRisks(database.DB, band)
	if err != nil {
		failErr(c, err, "risks")
		return
	}
	respond(c, http.StatusOK, gin.H{"risks": risks})
}
