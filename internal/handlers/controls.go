package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"grc-platform/internal/database"
	"grc-platform/internal/middleware"
	"grc-platform/internal/models"
	"grc-platform/internal/scoring"
	"grc-platform/internal/services"

	"github.com/gin-gonic/gin"
)

// ====== КАТАЛОГ КОНТРОЛЕЙ ======

// выставляется роутером из конфига
var DefaultControlSort = scoring.SortRiskScoreDesc

// ListControls: GET /controls?cycle=<id>&sort=<criterion>
func ListControls(c *gin.Context) {
	sortBy := DefaultControlSort
	if s := c.Query("sort"); s != "" {
		parsed, err := scoring.ParseSortCriterion(s)
		if err != nil {
			fail(c, http.StatusBadRequest, "unknown sort criterion")
			return
		}
		sortBy = parsed
	}

	var cycleID uint
	if s := c.Query("cycle"); s != "" {
		id, err := strconv.Atoi(s)
		if err != nil || id <= 0 {
			fail(c, http.StatusBadRequest, "invalid cycle")
			return
		}
		cycleID = uint(id)
	}

	rows, err := services.RankControls(database.DB, cycleID, sortBy)
	if err != nil {
		failErr(c, err, "controls")
		return
	}

	respond(c, http.StatusOK, gin.H{
		"sort":     sortBy,
		"cycle_id": cycleID,
		"controls": rows,
	})
}

type controlRequest struct {
	Code        string  `json:"code" binding:"required,max=32"`
	Name        string  `json:"name" binding:"required,min=3,max=255"`
	Category    string  `json:"category"`
	Framework   string  `json:"framework"`
	Weight      float64 `json:"weight" binding:"min=0"`
	Description string  `json:"description"`
}

func CreateControl(c *gin.Context) {
	var req controlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid control: "+err.Error())
		return
	}

	control := models.Control{
		Code:        strings.TrimSpace(req.Code),
		Name:        strings.TrimSpace(req.Name),
		Category:    strings.TrimSpace(req.Category),
		Framework:   strings.TrimSpace(req.Framework),
		Weight:      req.Weight,
		Description: strings.TrimSpace(req.Description),
	}
	if err := database.CreateControl(database.DB, &control); err != nil {
		fail(c, http.StatusBadRequest, "failed to save control")
		return
	}

	database.CreateAuditLog(database.DB, middleware.CurrentUserID(c), "control", control.ID, "create", "Created control "+control.Code)
	respond(c, http.StatusCreated, gin.H{"control": control})
}

// ====== ЦИКЛЫ ОЦЕНКИ ======

type cycleRequest struct {
	Name      string `json:"name" binding:"required,min=3"`
	Framework string `json:"framework"`
}

func CreateCycle(c *gin.Context) {
	var req cycleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid cycle: "+err.Error())
		return
	}

	cycle := models.AssessmentCycle{Name: strings.TrimSpace(req.Name), Framework: req.Framework}
	if err := database.CreateCycle(database.DB, &cycle); err != nil {
		failErr(c, err, "cycle")
		return
	}
	respond(c, http.StatusCreated, gin.H{"cycle": cycle})
}

type assessmentRequest struct {
	MaturityLevel  *int   `json:"maturity_level" binding:"required,min=0,max=5"`
	TargetMaturity *int   `json:"target_maturity" binding:"required,min=0,max=5"`
	Status         string `json:"status" binding:"required,oneof=conforming partial non_conforming"`
	Notes          string `json:"notes"`
}

// UpsertAssessment: PUT /controls/:id/assessments/:cycle
func UpsertAssessment(c *gin.Context) {
	controlID, ok := paramID(c, "id")
	if !ok {
		return
	}
	cycleID, ok := paramID(c, "cycle")
	if !ok {
		return
	}

	var req assessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid assessment: "+err.Error())
		return
	}

	in := models.Assessment{
		ControlID:      controlID,
		CycleID:        cycleID,
		MaturityLevel:  *req.MaturityLevel,
		TargetMaturity: *req.TargetMaturity,
		Status:         models.AssessmentStatus(req.Status),
		Notes:          strings.TrimSpace(req.Notes),
		AssessedByID:   middleware.CurrentUserID(c),
	}
	out, err := database.UpsertAssessment(database.DB, in, services.Now())
	if err != nil {
		failErr(c, err, "assessment")
		return
	}

	var control models.Control
	database.DB.First(&control, controlID)
	s := out.ToScoring()

	respond(c, http.StatusOK, gin.H{
		"assessment":   out,
		"risk_score":   scoring.ControlRiskScore(control.ToScoring(), &s),
		"maturity_gap": scoring.MaturityGap(out.MaturityLevel, out.TargetMaturity),
	})
}
