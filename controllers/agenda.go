package controllers

import (
	"clinica/apperror"
	"clinica/models"
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/agendamentos?from=&to=&terapeuta_id=&paciente_id=&status=
func GetAgendamentos(c *gin.Context) {
	from, to, err := services.ParseAgendaRange(c.Query("from"), c.Query("to"), 0)
	if err != nil {
		RespondError(c, err)
		return
	}
	terapeutaID, ok := queryInt64(c, "terapeuta_id")
	if !ok {
		return
	}
	pacienteID, ok := queryInt64(c, "paciente_id")
	if !ok {
		return
	}
	status := c.Query("status")
	switch status {
	case "", models.AGENDAMENTO_STATUS_AGENDADO, models.AGENDAMENTO_STATUS_REALIZADO,
		models.AGENDAMENTO_STATUS_FALTA, models.AGENDAMENTO_STATUS_CANCELADO:
	default:
		RespondError(c, apperror.Field("status", "valor deve ser um de: agendado, realizado, falta, cancelado"))
		return
	}

	db, ok := database(c)
	if !ok {
		return
	}
	agendamentos, err := services.ListAgendamentos(db, services.AgendaFilter{
		From:        from,
		To:          to,
		TerapeutaID: terapeutaID,
		PacienteID:  pacienteID,
		Status:      status,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"agendamentos": agendamentos})
}

// GET /api/agendamentos/:id
func GetAgendamentoByID(c *gin.Context) {
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}
	agendamento, err := services.GetAgendamento(db, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"agendamento": agendamento})
}

// POST /api/agendamentos
func CreateAgendamento(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	var req services.AgendamentoInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	agendamento, err := services.CreateAgendamento(db, access, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondCreated(c, gin.H{"agendamento": agendamento})
}

// PUT /api/agendamentos/:id (remarcação)
func RescheduleAgendamento(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.RescheduleInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	agendamento, err := services.RescheduleAgendamento(db, access, id, req)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"agendamento": agendamento})
}

// PATCH /api/agendamentos/:id/status
func SetAgendamentoStatus(c *gin.Context) {
	access, ok := currentAccess(c)
	if !ok {
		return
	}
	id, ok := ParamID(c, "id")
	if !ok {
		return
	}
	var req services.StatusInput
	if !bindJSON(c, &req) {
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	agendamento, err := services.SetAgendamentoStatus(db, access, id, req.Status)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"agendamento": agendamento})
}

// DELETE /api/agendamentos/:id (cancela)
func CancelAgendamento(c *gin.Context) {
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

	agendamento, err := services.CancelAgendamento(db, access, id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, gin.H{"agendamento": agendamento})
}
