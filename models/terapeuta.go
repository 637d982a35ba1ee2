package models

import "time"

// Terapeuta representa um profissional que atende pacientes.
type Terapeuta struct {
	ID            int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome          string     `gorm:"not null;index" json:"nome"`
	Especialidade string     `gorm:"default:''" json:"especialidade"`
	Registro      string     `gorm:"default:''" json:"registro"` // CRP, CREFITO, CRFa...
	Telefone      string     `gorm:"default:''" json:"telefone"`
	Email         string     `gorm:"default:''" json:"email"`
	Ativo         bool       `gorm:"not null;default:true" json:"ativo"`
	CreatedAt     *time.Time `json:"created_at"`
	UpdatedAt     *time.Time `json:"updated_at"`
}

func (Terapeuta) TableName() string {
	return "terapeutas"
}
