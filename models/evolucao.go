package models

import "time"

// Evolucao é uma anotação de evolução clínica no prontuário do paciente.
type Evolucao struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	PacienteID    int64      `gorm:"not null;index" json:"paciente_id"`
	TerapeutaID   int64      `gorm:"not null;index" json:"terapeuta_id"`
	AgendamentoID *int64     `gorm:"index" json:"agendamento_id"`
	DataSessao    time.Time  `gorm:"not null" json:"data_sessao"`
	Descricao     string     `gorm:"type:text;not null" json:"descricao"`
	Conduta       string     `gorm:"type:text" json:"conduta"`
	AutorID       int64      `gorm:"not null" json:"autor_id"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (Evolucao) TableName() string {
	return "evolucoes"
}
