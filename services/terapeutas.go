package services

import (
	"strings"

	"clinica/apperror"
	"clinica/models"
	"clinica/tools"

	"github.com/jinzhu/gorm"
)

type TerapeutaInput struct {
	Nome          string `json:"nome" binding:"required,min=2,max=160"`
	Especialidade string `json:"especialidade" binding:"max=120"`
	Registro      string `json:"registro" binding:"max=40"`
	Telefone      string `json:"telefone" binding:"max=30"`
	Email         string `json:"email" binding:"omitempty,email,max=160"`
	Ativo         *bool  `json:"ativo"`
}

type TerapeutaFilter struct {
	Q     string
	Ativo *bool
}

func ListTerapeutas(db *gorm.DB, f TerapeutaFilter) ([]models.Terapeuta, error) {
	q := db.Model(&models.Terapeuta{})
	if strings.TrimSpace(f.Q) != "" {
		like := likePattern(f.Q)
		q = q.Where("LOWER(nome) LIKE ? OR LOWER(especialidade) LIKE ?", like, like)
	}
	if f.Ativo != nil {
		q = q.Where("ativo = ?", *f.Ativo)
	}

	terapeutas := []models.Terapeuta{}
	if err := q.Order("nome asc").Find(&terapeutas).Error; err != nil {
		return nil, err
	}
	return terapeutas, nil
}

func GetTerapeuta(db *gorm.DB, id int64) (models.Terapeuta, error) {
	var terapeuta models.Terapeuta
	if err := first(db, &terapeuta, id, "terapeuta não encontrado"); err != nil {
		return models.Terapeuta{}, err
	}
	return terapeuta, nil
}

func CreateTerapeuta(db *gorm.DB, actor UserAccess, in TerapeutaInput) (models.Terapeuta, error) {
	terapeuta, err := normalizeTerapeuta(in)
	if err != nil {
		return models.Terapeuta{}, err
	}
	terapeuta.Ativo = true

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&terapeuta).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "terapeutas", terapeuta.ID, terapeuta.Nome)
	})
	if err != nil {
		return models.Terapeuta{}, err
	}
	return GetTerapeuta(db, terapeuta.ID)
}

func UpdateTerapeuta(db *gorm.DB, actor UserAccess, id int64, in TerapeutaInput) (models.Terapeuta, error) {
	current, err := GetTerapeuta(db, id)
	if err != nil {
		return models.Terapeuta{}, err
	}
	t, err := normalizeTerapeuta(in)
	if err != nil {
		return models.Terapeuta{}, err
	}

	changes := map[string]interface{}{
		"nome":          t.Nome,
		"especialidade": t.Especialidade,
		"registro":      t.Registro,
		"telefone":      t.Telefone,
		"email":         t.Email,
	}
	if in.Ativo != nil {
		changes["ativo"] = *in.Ativo
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Terapeuta{}).Where("id = ?", current.ID).Updates(changes).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "terapeutas", current.ID, t.Nome)
	})
	if err != nil {
		return models.Terapeuta{}, err
	}
	return GetTerapeuta(db, current.ID)
}

// DeactivateTerapeuta inativa o terapeuta. Agendamentos futuros continuam e
// precisam ser remarcados pela recepção.
func DeactivateTerapeuta(db *gorm.DB, actor UserAccess, id int64) (models.Terapeuta, error) {
	terapeuta, err := GetTerapeuta(db, id)
	if err != nil {
		return models.Terapeuta{}, err
	}
	if !terapeuta.Ativo {
		return terapeuta, nil
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Terapeuta{}).Where("id = ?", terapeuta.ID).Update("ativo", false).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_DELETE, "terapeutas", terapeuta.ID, "inativado")
	})
	if err != nil {
		return models.Terapeuta{}, err
	}
	return GetTerapeuta(db, terapeuta.ID)
}

func normalizeTerapeuta(in TerapeutaInput) (models.Terapeuta, error) {
	telefone := strings.TrimSpace(in.Telefone)
	if telefone != "" {
		normalized, err := tools.NormalizePhone(telefone)
		if err != nil {
			return models.Terapeuta{}, apperror.Field("telefone", "telefone inválido")
		}
		telefone = normalized
	}
	return models.Terapeuta{
		Nome:          strings.TrimSpace(in.Nome),
		Especialidade: strings.TrimSpace(in.Especialidade),
		Registro:      strings.ToUpper(strings.TrimSpace(in.Registro)),
		Telefone:      telefone,
		Email:         strings.ToLower(strings.TrimSpace(in.Email)),
	}, nil
}
