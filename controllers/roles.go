package controllers

import (
	"net/http"

	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/permissions
func GetPermissions(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	perms, err := services.ListPermissions(db)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"permissions": perms})
}

// GET /api/roles
func GetRoles(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	roles, err := services.ListRoles(db)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"roles": roles})
}

// GET /api/roles/:id
func GetRoleByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	role, err := services.GetRole(db, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"role": role})
}

// POST /api/roles
func CreateRole(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	var req services.RoleInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	role, err := services.CreateRole(db, access, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"role": role})
}

// PUT /api/roles/:id
func UpdateRole(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.RoleInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	role, err := services.UpdateRole(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"role": role})
}

// DELETE /api/roles/:id
func DeleteRole(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	if err := services.DeleteRole(db, access, id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
