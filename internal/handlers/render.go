package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"grc-platform/internal/database"
	"grc-platform/internal/logging"
	"grc-platform/internal/middleware"
	"grc-platform/internal/models"

	"github.com/gin-gonic/gin"
)

// helper: JSON-ответ + текущий пользователь
func respond(c *gin.Context, status int, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if uVal, ok := c.Get(middleware.CurrentUserKey); ok {
		if u, ok := uVal.(models.User); ok {
			data["current_user"] = gin.H{"username": u.Username, "role": u.Role}
		}
	}

	c.JSON(status, data)
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

// ErrNotFound -> 404, остальное -> 500 с записью в лог
func failErr(c *gin.Context, err error, what string) {
	if errors.Is(err, database.ErrNotFound) {
		fail(c, http.StatusNotFound, what+" not found")
		return
	}
	logging.Logger.Errorw("request failed", "path", c.FullPath(), "error", err)
	fail(c, http.StatusInternalServerError, "failed to process "+what)
}

// helper для числовых id из пути
func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		fail(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}
