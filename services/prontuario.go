package services

import (
	"strings"
	"time"

	"clinica/apperror"
	"clinica/models"

	"github.com/jinzhu/gorm"
)

const prontuarioAgendamentos = 50

// Prontuario é a linha do tempo clínica do paciente.
type Prontuario struct {
	Paciente     models.Paciente      `json:"paciente"`
	Anamnese     *models.Anamnese     `json:"anamnese"`
	Evolucoes    []EvolucaoDetalhe    `json:"evolucoes"`
	Agendamentos []AgendamentoDetalhe `json:"agendamentos"`
}

type EvolucaoDetalhe struct {
	models.Evolucao
	TerapeutaNome string `json:"terapeuta_nome"`
}

type EvolucaoInput struct {
	TerapeutaID   int64  `json:"terapeuta_id" binding:"required,gt=0"`
	DataSessao    string `json:"data_sessao" binding:"required,datetime=2006-01-02"`
	Descricao     string `json:"descricao" binding:"required,max=20000"`
	Conduta       string `json:"conduta" binding:"max=10000"`
	AgendamentoID *int64 `json:"agendamento_id" binding:"omitempty,gt=0"`
}

type EvolucaoUpdateInput struct {
	DataSessao string `json:"data_sessao" binding:"required,datetime=2006-01-02"`
	Descricao  string `json:"descricao" binding:"required,max=20000"`
	Conduta    string `json:"conduta" binding:"max=10000"`
}

// GetProntuario monta paciente, anamnese (ou null), evoluções da mais recente
// para a mais antiga e os últimos agendamentos.
func GetProntuario(db *gorm.DB, pacienteID int64) (Prontuario, error) {
	paciente, err := GetPaciente(db, pacienteID)
	if err != nil {
		return Prontuario{}, err
	}

	out := Prontuario{Paciente: paciente}

	anamnese, found, err := findAnamnese(db, pacienteID)
	if err != nil {
		return Prontuario{}, err
	}
	if found {
		out.Anamnese = &anamnese
	}

	var evolucoes []models.Evolucao
	if err := db.Where("paciente_id = ?", pacienteID).
		Order("data_sessao desc").Order("id desc").
		Find(&evolucoes).Error; err != nil {
		return Prontuario{}, err
	}
	out.Evolucoes, err = evolucoesWithNames(db, evolucoes)
	if err != nil {
		return Prontuario{}, err
	}

	var agendamentos []models.Agendamento
	if err := db.Where("paciente_id = ?", pacienteID).
		Order("inicio desc").Order("id desc").
		Limit(prontuarioAgendamentos).
		Find(&agendamentos).Error; err != nil {
		return Prontuario{}, err
	}
	out.Agendamentos, err = withNames(db, agendamentos)
	if err != nil {
		return Prontuario{}, err
	}

	return out, nil
}

// CreateEvolucao registra a evolução. Com agendamento_id, o agendamento precisa
// ser do paciente e do mesmo terapeuta e passa a "realizado" na mesma transação.
func CreateEvolucao(db *gorm.DB, actor UserAccess, pacienteID int64, in EvolucaoInput) (EvolucaoDetalhe, error) {
	paciente, err := GetPaciente(db, pacienteID)
	if err != nil {
		return EvolucaoDetalhe{}, err
	}
	if !paciente.Ativo {
		return EvolucaoDetalhe{}, apperror.Conflict("paciente inativo")
	}
	if err := checkTerapeutaExists(db, in.TerapeutaID); err != nil {
		return EvolucaoDetalhe{}, err
	}
	dataSessao, err := sessionDate(in.DataSessao)
	if err != nil {
		return EvolucaoDetalhe{}, err
	}
	descricao := strings.TrimSpace(in.Descricao)
	if descricao == "" {
		return EvolucaoDetalhe{}, apperror.Field("descricao", "campo obrigatório")
	}

	e := models.Evolucao{
		PacienteID:    pacienteID,
		TerapeutaID:   in.TerapeutaID,
		AgendamentoID: in.AgendamentoID,
		DataSessao:    dataSessao,
		Descricao:     descricao,
		Conduta:       strings.TrimSpace(in.Conduta),
		AutorID:       actor.UserID(),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if in.AgendamentoID != nil {
			var a models.Agendamento
			err := tx.First(&a, *in.AgendamentoID).Error
			if gorm.IsRecordNotFoundError(err) || (err == nil && a.PacienteID != pacienteID) {
				return apperror.Field("agendamento_id", "agendamento não encontrado para este paciente")
			}
			if err != nil {
				return err
			}
			if a.TerapeutaID != e.TerapeutaID {
				return apperror.Field("terapeuta_id", "deve ser o terapeuta do agendamento")
			}
			switch a.Status {
			case models.AGENDAMENTO_STATUS_AGENDADO:
				if err := setStatus(tx, actor, a.ID, models.AGENDAMENTO_STATUS_REALIZADO); err != nil {
					return err
				}
			case models.AGENDAMENTO_STATUS_REALIZADO:
			default:
				return apperror.Conflict("agendamento com status " + a.Status + " não aceita evolução")
			}
		}

		if err := tx.Create(&e).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "evolucoes", e.ID, map[string]interface{}{
			"paciente_id":    e.PacienteID,
			"agendamento_id": e.AgendamentoID,
		})
	})
	if err != nil {
		return EvolucaoDetalhe{}, err
	}
	return GetEvolucao(db, e.ID)
}

func GetEvolucao(db *gorm.DB, id int64) (EvolucaoDetalhe, error) {
	var e models.Evolucao
	if err := first(db, &e, id, "evolução não encontrada"); err != nil {
		return EvolucaoDetalhe{}, err
	}
	out, err := evolucoesWithNames(db, []models.Evolucao{e})
	if err != nil {
		return EvolucaoDetalhe{}, err
	}
	return out[0], nil
}

// UpdateEvolucao só é permitido ao autor ou a quem administra usuários.
func UpdateEvolucao(db *gorm.DB, actor UserAccess, id int64, in EvolucaoUpdateInput) (EvolucaoDetalhe, error) {
	var e models.Evolucao
	if err := first(db, &e, id, "evolução não encontrada"); err != nil {
		return EvolucaoDetalhe{}, err
	}
	if err := checkEvolucaoOwner(actor, e); err != nil {
		return EvolucaoDetalhe{}, err
	}
	dataSessao, err := sessionDate(in.DataSessao)
	if err != nil {
		return EvolucaoDetalhe{}, err
	}
	descricao := strings.TrimSpace(in.Descricao)
	if descricao == "" {
		return EvolucaoDetalhe{}, apperror.Field("descricao", "campo obrigatório")
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		changes := map[string]interface{}{
			"data_sessao": dataSessao,
			"descricao":   descricao,
			"conduta":     strings.TrimSpace(in.Conduta),
		}
		if err := tx.Model(&models.Evolucao{}).Where("id = ?", e.ID).Updates(changes).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "evolucoes", e.ID, map[string]int64{"paciente_id": e.PacienteID})
	})
	if err != nil {
		return EvolucaoDetalhe{}, err
	}
	return GetEvolucao(db, e.ID)
}

func DeleteEvolucao(db *gorm.DB, actor UserAccess, id int64) error {
	var e models.Evolucao
	if err := first(db, &e, id, "evolução não encontrada"); err != nil {
		return err
	}
	if err := checkEvolucaoOwner(actor, e); err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Evolucao{}, "id = ?", e.ID).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_DELETE, "evolucoes", e.ID, map[string]int64{"paciente_id": e.PacienteID})
	})
}

func checkEvolucaoOwner(actor UserAccess, e models.Evolucao) error {
	if e.AutorID == actor.UserID() || actor.Can(models.PERM_USERS_WRITE) {
		return nil
	}
	return apperror.Forbidden("apenas o autor pode alterar esta evolução")
}

func sessionDate(raw string) (time.Time, error) {
	d, err := parseDate(raw)
	if err != nil || d == nil {
		return time.Time{}, apperror.Field("data_sessao", "data inválida, use o formato 2006-01-02")
	}
	if d.After(nowUTC()) {
		return time.Time{}, apperror.Field("data_sessao", "não pode estar no futuro")
	}
	return *d, nil
}

func evolucoesWithNames(db *gorm.DB, rows []models.Evolucao) ([]EvolucaoDetalhe, error) {
	out := make([]EvolucaoDetalhe, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}
	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.TerapeutaID)
	}
	terapeutas, err := terapeutaNames(db, ids)
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out = append(out, EvolucaoDetalhe{Evolucao: r, TerapeutaNome: terapeutas[r.TerapeutaID]})
	}
	return out, nil
}
