package handlers

import (
	"net/http"

	"grc-platform/internal/database"

	"github.com/gin-gonic/gin"
)

func ListAuditLogs(c *gin.Context) {
	logs, err := database.ListAuditLogs(database.DB, 200)
	if err != nil {
		failErr(c, err, "audit log")
		return
	}
	respond(c, http.StatusOK, gin.H{"logs": logs})
}
