package services

import (
	"strings"

	"clinica/apperror"
	"clinica/models"

	"github.com/jinzhu/gorm"
)

type AnamneseInput struct {
	TerapeutaID       *int64 `json:"terapeuta_id" binding:"omitempty,gt=0"`
	QueixaPrincipal   string `json:"queixa_principal" binding:"required,max=5000"`
	HistoricoDoenca   string `json:"historico_doenca" binding:"max=10000"`
	HistoricoFamiliar string `json:"historico_familiar" binding:"max=10000"`
	Medicamentos      string `json:"medicamentos" binding:"max=5000"`
	Alergias          string `json:"alergias" binding:"max=5000"`
	Observacoes       string `json:"observacoes" binding:"max=10000"`
}

// GetAnamnese devolve a anamnese do paciente; 404 quando ainda não existe.
func GetAnamnese(db *gorm.DB, pacienteID int64) (models.Anamnese, error) {
	if _, err := GetPaciente(db, pacienteID); err != nil {
		return models.Anamnese{}, err
	}
	a, found, err := findAnamnese(db, pacienteID)
	if err != nil {
		return models.Anamnese{}, err
	}
	if !found {
		return models.Anamnese{}, apperror.NotFound("anamnese não registrada para este paciente")
	}
	return a, nil
}

// SaveAnamnese cria ou substitui a anamnese do paciente. created indica se foi criação.
func SaveAnamnese(db *gorm.DB, actor UserAccess, pacienteID int64, in AnamneseInput) (anamnese models.Anamnese, created bool, err error) {
	if _, err := GetPaciente(db, pacienteID); err != nil {
		return models.Anamnese{}, false, err
	}
	if strings.TrimSpace(in.QueixaPrincipal) == "" {
		return models.Anamnese{}, false, apperror.Field("queixa_principal", "campo obrigatório")
	}
	if in.TerapeutaID != nil {
		if err := checkTerapeutaExists(db, *in.TerapeutaID); err != nil {
			return models.Anamnese{}, false, err
		}
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		current, found, err := findAnamnese(tx, pacienteID)
		if err != nil {
			return err
		}

		if !found {
			anamnese = models.Anamnese{
				PacienteID:        pacienteID,
				TerapeutaID:       in.TerapeutaID,
				QueixaPrincipal:   strings.TrimSpace(in.QueixaPrincipal),
				HistoricoDoenca:   strings.TrimSpace(in.HistoricoDoenca),
				HistoricoFamiliar: strings.TrimSpace(in.HistoricoFamiliar),
				Medicamentos:      strings.TrimSpace(in.Medicamentos),
				Alergias:          strings.TrimSpace(in.Alergias),
				Observacoes:       strings.TrimSpace(in.Observacoes),
				AutorID:           actor.UserID(),
			}
			if err := tx.Create(&anamnese).Error; err != nil {
				return onConflict(err, "o paciente já possui anamnese, tente novamente")
			}
			created = true
			return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "anamnese", anamnese.ID, map[string]int64{"paciente_id": pacienteID})
		}

		changes := map[string]interface{}{
			"terapeuta_id":       in.TerapeutaID,
			"queixa_principal":   strings.TrimSpace(in.QueixaPrincipal),
			"historico_doenca":   strings.TrimSpace(in.HistoricoDoenca),
			"historico_familiar": strings.TrimSpace(in.HistoricoFamiliar),
			"medicamentos":       strings.TrimSpace(in.Medicamentos),
			"alergias":           strings.TrimSpace(in.Alergias),
			"observacoes":        strings.TrimSpace(in.Observacoes),
			"autor_id":           actor.UserID(),
		}
		if err := tx.Model(&models.Anamnese{}).Where("id = ?", current.ID).Updates(changes).Error; err != nil {
			return err
		}
		if err := tx.First(&anamnese, current.ID).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "anamnese", current.ID, map[string]int64{"paciente_id": pacienteID})
	})
	if err != nil {
		return models.Anamnese{}, false, err
	}
	return anamnese, created, nil
}

func findAnamnese(db *gorm.DB, pacienteID int64) (models.Anamnese, bool, error) {
	var a models.Anamnese
	err := db.Where("paciente_id = ?", pacienteID).First(&a).Error
	if gorm.IsRecordNotFoundError(err) {
		return models.Anamnese{}, false, nil
	}
	if err != nil {
		return models.Anamnese{}, false, err
	}
	return a, true, nil
}
