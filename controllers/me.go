package controllers

import (
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/me
func Me(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	RespondSuccess(c, gin.H{
		"user":        access.User,
		"permissions": access.PermissionList(),
	})
}

// PUT /api/me/password
func ChangePassword(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}

	var req services.ChangePasswordInput
	if !bindJSON(c, &req) {
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.ChangePassword(db, getTokenSettings(), access.UserID(), req); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "senha alterada"})
}
