package controllers

import (
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/terapeutas
func GetTerapeutas(c *gin.Context) {
	ativo, ok := queryBool(c, "ativo")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	terapeutas, err := services.ListTerapeutas(db, services.TerapeutaFilter{Q: c.Query("q"), Ativo: ativo})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"terapeutas": terapeutas})
}

// GET /api/terapeutas/:id
func GetTerapeutaByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	terapeuta, err := services.GetTerapeuta(db, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"terapeuta": terapeuta})
}

// POST /api/terapeutas
func CreateTerapeuta(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	var req services.TerapeutaInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	terapeuta, err := services.CreateTerapeuta(db, access, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"terapeuta": terapeuta})
}

// PUT /api/terapeutas/:id
func UpdateTerapeuta(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.TerapeutaInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	terapeuta, err := services.UpdateTerapeuta(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"terapeuta": terapeuta})
}

// DELETE /api/terapeutas/:id (inativa)
func DeleteTerapeuta(c *gin.Context) {
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
	terapeuta, err := services.DeactivateTerapeuta(db, access, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"terapeuta": terapeuta})
}

// GET /api/terapeutas/:id/agenda?from=&to=
func GetTerapeutaAgenda(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	from, to, err := services.ParseAgendaRange(c.Query("from"), c.Query("to"), 7)
	if err != nil {
		RespondError(c, err)
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	agenda, err := services.TerapeutaAgenda(db, id, from, to)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"agendamentos": agenda})
}
