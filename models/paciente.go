package models

import "time"

const SEXO_FEMININO = "F"
const SEXO_MASCULINO = "M"
const SEXO_OUTRO = "O"

// Paciente representa um paciente da clínica. Pacientes nunca são removidos, apenas inativados.
type Paciente struct {
	ID             int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Nome           string     `gorm:"not null;index" json:"nome"`
	CPF            *string    `gorm:"column:cpf;unique_index" json:"cpf"`
	DataNascimento *time.Time `json:"data_nascimento"`
	Sexo           string     `gorm:"default:''" json:"sexo"`
	Telefone       string     `gorm:"default:''" json:"telefone"`
	Email          string     `gorm:"default:''" json:"email"`
	Responsavel    string     `gorm:"default:''" json:"responsavel"`
	Endereco       string     `gorm:"default:''" json:"endereco"`
	Convenio       string     `gorm:"default:''" json:"convenio"`
	Observacoes    string     `gorm:"type:text" json:"observacoes"`
	TerapeutaID    *int64     `gorm:"index" json:"terapeuta_id"`
	Ativo          bool       `gorm:"not null;default:true" json:"ativo"`
	CreatedAt      *time.Time `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at"`
}
