package models

import "time"

// Anamnese é a ficha de entrada do paciente (no máximo uma por paciente).
type Anamnese struct {
	ID                int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	PacienteID        int64      `gorm:"not null;unique_index" json:"paciente_id"`
	TerapeutaID       *int64     `json:"terapeuta_id"`
	QueixaPrincipal   string     `gorm:"type:text;not null" json:"queixa_principal"`
	HistoricoDoenca   string     `gorm:"type:text" json:"historico_doenca"`
	HistoricoFamiliar string     `gorm:"type:text" json:"historico_familiar"`
	Medicamentos      string     `gorm:"type:text" json:"medicamentos"`
	Alergias          string     `gorm:"type:text" json:"alergias"`
	Observacoes       string     `gorm:"type:text" json:"observacoes"`
	AutorID           int64      `gorm:"not null" json:"autor_id"`
	CreatedAt         *time.Time `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at"`
}

func (Anamnese) TableName() string {
	return "anamneses"
}
