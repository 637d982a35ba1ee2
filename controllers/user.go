package controllers

import (
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/users
func GetUsers(c *gin.Context) {
	active, ok := queryBool(c, "active")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	users, err := services.ListUsers(db, services.UserFilter{Q: c.Query("q"), Active: active})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"users": users})
}

// GET /api/users/:id
func GetUserByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	user, err := services.GetUser(db, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"user": user})
}

// POST /api/users
func CreateUser(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	var req services.CreateUserInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	user, err := services.CreateUser(db, getTokenSettings(), access, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"user": user})
}

// PUT /api/users/:id
func UpdateUser(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.UpdateUserInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	user, err := services.UpdateUser(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"user": user})
}

// POST /api/users/:id/reset-password
func ResetUserPassword(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.ResetPasswordInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.ResetUserPassword(db, getTokenSettings(), access, id, req); err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"message": "senha redefinida"})
}
