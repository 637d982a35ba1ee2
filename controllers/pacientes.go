package controllers

import (
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/pacientes
func GetPacientes(c *gin.Context) {
	ativo, ok := queryBool(c, "ativo")
	if !ok {
		return
	}
	terapeutaID, ok := queryInt64(c, "terapeuta_id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	page, err := services.ListPacientes(db, services.PacienteFilter{
		Q:           c.Query("q"),
		Ativo:       ativo,
		TerapeutaID: terapeutaID,
		Pagination: services.Pagination{
			Page:     queryInt(c, "page", 1),
			PageSize: queryInt(c, "page_size", 0),
		},
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, page)
}

// GET /api/pacientes/:id
func GetPacienteByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	paciente, err := services.GetPaciente(db, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"paciente": paciente})
}

// POST /api/pacientes
func CreatePaciente(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	var req services.PacienteInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	paciente, err := services.CreatePaciente(db, access, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"paciente": paciente})
}

// PUT /api/pacientes/:id
func UpdatePaciente(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.PacienteInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	paciente, err := services.UpdatePaciente(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"paciente": paciente})
}

// DELETE /api/pacientes/:id (inativa)
func DeletePaciente(c *gin.Context) {
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

	paciente, err := services.DeactivatePaciente(db, access, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"paciente": paciente})
}

// GET /api/pacientes/:id/anamnese
func GetAnamnese(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	anamnese, err := services.GetAnamnese(db, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"anamnese": anamnese})
}

// PUT /api/pacientes/:id/anamnese
func SaveAnamnese(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.AnamneseInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	anamnese, created, err := services.SaveAnamnese(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	if created {
		RespondCreated(c, gin.H{"anamnese": anamnese})
		return
	}
	RespondSuccess(c, gin.H{"anamnese": anamnese})
}
