package controllers

import (
	"clinica/services"

	"github.com/gin-gonic/gin"
)

// GET /api/relatorios/frequencia?from=&to=&terapeuta_id=&paciente_id=
func GetRelatorioFrequencia(c *gin.Context) {
	periodo, err := services.ParsePeriodo(c.Query("from"), c.Query("to"))
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
	db, ok := database(c)
	if !ok {
		return
	}

	rel, err := services.Frequencia(db, services.FrequenciaFiltro{
		Periodo:     periodo,
		TerapeutaID: terapeutaID,
		PacienteID:  pacienteID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, rel)
}

// GET /api/relatorios/atendimentos?from=&to=
func GetRelatorioAtendimentos(c *gin.Context) {
	periodo, err := services.ParsePeriodo(c.Query("from"), c.Query("to"))
	if err != nil {
		RespondError(c, err)
		return
	}
	db, ok := database(c)
	if !ok {
		return
	}

	rel, err := services.Atendimentos(db, periodo)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondSuccess(c, rel)
}
