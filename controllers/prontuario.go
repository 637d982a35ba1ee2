package controllers

import (
	"net/http"

	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/prontuario/:pacienteId
func GetProntuario(c *gin.Context) {
	pacienteID, ok := ParamID(c, "pacienteId")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	prontuario, err := services.GetProntuario(db, pacienteID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, prontuario)
}

// POST /api/prontuario/:pacienteId/evolucoes
func CreateEvolucao(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	pacienteID, ok := ParamID(c, "pacienteId")
	if !ok {
		return
	}
	var req services.EvolucaoInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	evolucao, err := services.CreateEvolucao(db, access, pacienteID, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"evolucao": evolucao})
}

// PUT /api/evolucoes/:id
func UpdateEvolucao(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.EvolucaoUpdateInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	evolucao, err := services.UpdateEvolucao(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"evolucao": evolucao})
}

// DELETE /api/evolucoes/:id
func DeleteEvolucao(c *gin.Context) {
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

	if err := services.DeleteEvolucao(db, access, id); err != nil {
		RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
