package server

import (
	"net/http"

	"grc-platform/internal/config"
	"grc-platform/internal/handlers"
	"grc-platform/internal/middleware"
	"grc-platform/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func NewRouter(cfg *config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger())

	handlers.DefaultControlSort = cfg.DefaultControlSort

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("grc_session", store))

	r.Use(middleware.InjectUser())

	// AUTH
	r.POST("/login", handlers.Login)
	r.POST("/logout", handlers.Logout)

	// портал поставщика — токен кампании и есть доступ, без сессии
	r.POST("/portal/:token/responses", handlers.SubmitResponses)

	auth := r.Group("/")
	auth.Use(middleware.RequireAuth())

	readers := middleware.RequireRole(models.RoleAdmin, models.RoleAnalyst, models.RoleViewer)
	editors := middleware.RequireRole(models.RoleAdmin, models.RoleAnalyst)

	auth.POST("/register", middleware.RequireRole(models.RoleAdmin), handlers.Register)

	// КОНТРОЛИ И ЦИКЛЫ ОЦЕНКИ
	auth.GET("/controls", readers, handlers.ListControls)
	auth.POST("/controls", editors, handlers.CreateControl)
	auth.POST("/cycles", editors, handlers.CreateCycle)
	auth.PUT("/controls/:id/assessments/:cycle", editors, handlers.UpsertAssessment)

	// РЕЕСТР РИСКОВ
	auth.GET("/risks", readers, handlers.ListRisks)
	auth.GET("/risks/:id", readers, handlers.GetRisk)
	auth.POST("/risks", editors, handlers.CreateRisk)
	auth.PUT("/risks/:id", editors, handlers.UpdateRisk)

	// КВАЛИФИКАЦИЯ ПОСТАВЩИКОВ
	auth.POST("/vendors", editors, handlers.CreateVendor)
	auth.POST("/templates", editors, handlers.CreateTemplate)
	auth.POST("/campaigns", editors, handlers.CreateCampaign)
	auth.GET("/campaigns/:id", readers, handlers.GetCampaign)
	auth.POST("/campaigns/:id/score", editors, handlers.ScoreCampaign)

	// АУДИТ
	auth.GET("/audit",
		middleware.RequireRole(models.RoleAdmin, models.RoleViewer),
		handlers.ListAuditLogs,
	)

	// метрики для prometheus
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
