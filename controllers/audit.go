package controllers

import (
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/audit-logs?entity=&user_id=&limit=
func GetAuditLogs(c *gin.Context) {
	userID, ok := queryInt64(c, "user_id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	logs, err := services.ListAuditLogs(db, services.AuditFilter{
		Entity: c.Query("entity"),
		UserID: userID,
		Limit:  queryInt(c, "limit", 0),
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"audit_logs": logs})
}
