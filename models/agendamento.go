package models

import "time"

/************************************************
/**** MARK: AGENDAMENTO STATUS ****/
/************************************************/
const AGENDAMENTO_STATUS_AGENDADO = "agendado"
const AGENDAMENTO_STATUS_REALIZADO = "realizado"
const AGENDAMENTO_STATUS_FALTA = "falta"
const AGENDAMENTO_STATUS_CANCELADO = "cancelado"

// Agendamento é uma sessão marcada entre paciente e terapeuta.
// Entra como "agendado" e termina em realizado, falta ou cancelado.
type Agendamento struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	PacienteID        int64      `gorm:"not null;index" json:"paciente_id"`
	TerapeutaID       int64      `gorm:"not null;index" json:"terapeuta_id"`
	Inicio            time.Time  `gorm:"not null;index" json:"inicio"`
	Fim               time.Time  `gorm:"not null" json:"fim"`
	Status            string     `gorm:"not null;default:'agendado';index" json:"status"`
	Observacoes       string     `gorm:"type:text" json:"observacoes"`
	LembreteEnviadoEm *time.Time `json:"lembrete_enviado_em"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

// IsFinal indica que o status não aceita mais transições.
func (a Agendamento) IsFinal() bool {
	return a.Status != AGENDAMENTO_STATUS_AGENDADO
}
