package controllers

import (
	"clinica/apperror"
	dbpkg "clinica/db"

	"github.com/gin-gonic/gin"
)

// GET /health
func Health(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	if err := dbpkg.Health(c.Request.Context(), db.DB()); err != nil {
		RespondError(c, apperror.Unavailable("banco de dados indisponível", err))
		return
	}
	RespondSuccess(c, gin.H{"status": "ok"})
}
