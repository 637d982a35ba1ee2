package controllers

import (
	"clinica/apperror"
	"clinica/metrics"
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// POST /api/login
func Login(c *gin.Context) {
	var req services.LoginInput
	if !bindJSON(c, &req) {
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}

	session, err := services.Login(db, getTokenSettings(), req)
	if err != nil {
		switch {
		case services.IsInvalidCredentials(err):
			metrics.LoginFailure("invalid_credentials")
		case apperror.Is(err, apperror.CodeForbidden):
			metrics.LoginFailure("inactive")
		}
		RespondError(c, err)
		return
	}

	RespondSuccess(c, session)
}

// POST /api/refresh
func Refresh(c *gin.Context) {
	var req services.RefreshInput
	if !bindJSON(c, &req) {
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}

	session, err := services.Refresh(db, getTokenSettings(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, session)
}

// POST /api/logout
func Logout(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.Logout(db, access.UserID()); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "sessão encerrada"})
}
