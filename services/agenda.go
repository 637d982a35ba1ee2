package services

import (
	"strings"
	"time"

	"clinica/apperror"
	"clinica/models"

	"github.com/jinzhu/gorm"
)

// AgendamentoInput usa horários RFC3339; são gravados em UTC, sem fração de segundo.
type AgendamentoInput struct {
	PacienteID  int64     `json:"paciente_id" binding:"required,gt=0"`
	TerapeutaID int64     `json:"terapeuta_id" binding:"required,gt=0"`
	Inicio      time.Time `json:"inicio" binding:"required"`
	Fim         time.Time `json:"fim" binding:"required,gtfield=Inicio"`
	Observacoes string    `json:"observacoes" binding:"max=2000"`
}

type RescheduleInput struct {
	TerapeutaID *int64    `json:"terapeuta_id" binding:"omitempty,gt=0"`
	Inicio      time.Time `json:"inicio" binding:"required"`
	Fim         time.Time `json:"fim" binding:"required,gtfield=Inicio"`
	Observacoes *string   `json:"observacoes" binding:"omitempty,max=2000"`
}

type StatusInput struct {
	Status string `json:"status" binding:"required,oneof=realizado falta cancelado"`
}

type AgendaFilter struct {
	From        *time.Time
	To          *time.Time // exclusivo
	TerapeutaID *int64
	PacienteID  *int64
	Status      string
}

// AgendamentoDetalhe acrescenta os nomes de paciente e terapeuta para a tela de agenda.
type AgendamentoDetalhe struct {
	models.Agendamento
	PacienteNome  string `json:"paciente_nome"`
	TerapeutaNome string `json:"terapeuta_nome"`
}

func ListAgendamentos(db *gorm.DB, f AgendaFilter) ([]AgendamentoDetalhe, error) {
	q := db.Model(&models.Agendamento{})
	if f.From != nil {
		q = q.Where("inicio >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("inicio < ?", *f.To)
	}
	if f.TerapeutaID != nil {
		q = q.Where("terapeuta_id = ?", *f.TerapeutaID)
	}
	if f.PacienteID != nil {
		q = q.Where("paciente_id = ?", *f.PacienteID)
	}
	if s := strings.TrimSpace(f.Status); s != "" {
		q = q.Where("status = ?", s)
	}

	var rows []models.Agendamento
	if err := q.Order("inicio asc").Order("id asc").Limit(1000).Find(&rows).Error; err != nil {
		return nil, err
	}
	return withNames(db, rows)
}

// ParseAgendaRange converte from/to (YYYY-MM-DD, to inclusivo) em um intervalo
// [from, to+1d). Sem valores, usa hoje até daqui a defaultDays dias.
func ParseAgendaRange(fromRaw, toRaw string, defaultDays int) (*time.Time, *time.Time, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return nil, nil, apperror.Field("from", "data inválida, use o formato 2006-01-02")
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return nil, nil, apperror.Field("to", "data inválida, use o formato 2006-01-02")
	}

	if from == nil && to == nil && defaultDays > 0 {
		today := nowUTC().Truncate(24 * time.Hour)
		end := today.AddDate(0, 0, defaultDays)
		return &today, &end, nil
	}
	if from != nil && to != nil && from.After(*to) {
		return nil, nil, apperror.Field("from", "deve ser anterior ou igual a to")
	}
	if to != nil {
		end := to.AddDate(0, 0, 1)
		to = &end
	}
	return from, to, nil
}

// TerapeutaAgenda lista os agendamentos do terapeuta no intervalo.
func TerapeutaAgenda(db *gorm.DB, terapeutaID int64, from, to *time.Time) ([]AgendamentoDetalhe, error) {
	if _, err := GetTerapeuta(db, terapeutaID); err != nil {
		return nil, err
	}
	return ListAgendamentos(db, AgendaFilter{From: from, To: to, TerapeutaID: &terapeutaID})
}

func GetAgendamento(db *gorm.DB, id int64) (AgendamentoDetalhe, error) {
	var a models.Agendamento
	if err := first(db, &a, id, "agendamento não encontrado"); err != nil {
		return AgendamentoDetalhe{}, err
	}
	out, err := withNames(db, []models.Agendamento{a})
	if err != nil {
		return AgendamentoDetalhe{}, err
	}
	return out[0], nil
}

func CreateAgendamento(db *gorm.DB, actor UserAccess, in AgendamentoInput) (AgendamentoDetalhe, error) {
	inicio, fim, err := normalizeInterval(in.Inicio, in.Fim)
	if err != nil {
		return AgendamentoDetalhe{}, err
	}
	if err := checkActivePaciente(db, in.PacienteID, "paciente_id"); err != nil {
		return AgendamentoDetalhe{}, err
	}
	if err := checkActiveTerapeuta(db, in.TerapeutaID); err != nil {
		return AgendamentoDetalhe{}, err
	}

	a := models.Agendamento{
		PacienteID:  in.PacienteID,
		TerapeutaID: in.TerapeutaID,
		Inicio:      inicio,
		Fim:         fim,
		Status:      models.AGENDAMENTO_STATUS_AGENDADO,
		Observacoes: strings.TrimSpace(in.Observacoes),
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkOverlap(tx, a, 0); err != nil {
			return err
		}
		if err := tx.Create(&a).Error; err != nil {
			return err
		}
		return Audit(tx, actor.UserID(), models.AUDIT_CREATE, "agendamentos", a.ID, map[string]interface{}{
			"paciente_id":  a.PacienteID,
			"terapeuta_id": a.TerapeutaID,
			"inicio":       a.Inicio,
		})
	})
	if err != nil {
		return AgendamentoDetalhe{}, err
	}
	return GetAgendamento(db, a.ID)
}

// RescheduleAgendamento move um agendamento ainda "agendado". O lembrete volta a ser pendente.
func RescheduleAgendamento(db *gorm.DB, actor UserAccess, id int64, in RescheduleInput) (AgendamentoDetalhe, error) {
	var a models.Agendamento
	if err := first(db, &a, id, "agendamento não encontrado"); err != nil {
		return AgendamentoDetalhe{}, err
	}
	if a.IsFinal() {
		return AgendamentoDetalhe{}, apperror.Conflict("apenas agendamentos com status agendado podem ser remarcados")
	}

	inicio, fim, err := normalizeInterval(in.Inicio, in.Fim)
	if err != nil {
		return AgendamentoDetalhe{}, err
	}
	if err := checkActivePaciente(db, a.PacienteID, "paciente_id"); err != nil {
		return AgendamentoDetalhe{}, err
	}
	if in.TerapeutaID != nil {
		a.TerapeutaID = *in.TerapeutaID
	}
	if err := checkActiveTerapeuta(db, a.TerapeutaID); err != nil {
		return AgendamentoDetalhe{}, err
	}
	a.Inicio, a.Fim = inicio, fim

	changes := map[string]interface{}{
		"terapeuta_id":        a.TerapeutaID,
		"inicio":              a.Inicio,
		"fim":                 a.Fim,
		"lembrete_enviado_em": nil,
	}
	if in.Observacoes != nil {
		changes["observacoes"] = strings.TrimSpace(*in.Observacoes)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := checkOverlap(tx, a, a.ID); err != nil {
			return err
		}
		res := tx.Model(&models.Agendamento{}).
			Where("id = ? AND status = ?", a.ID, models.AGENDAMENTO_STATUS_AGENDADO).
			Updates(changes)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperror.Conflict("o agendamento foi alterado por outro usuário")
		}
		return Audit(tx, actor.UserID(), models.AUDIT_UPDATE, "agendamentos", a.ID, map[string]interface{}{
			"terapeuta_id": a.TerapeutaID,
			"inicio":       a.Inicio,
			"fim":          a.Fim,
		})
	})
	if err != nil {
		return AgendamentoDetalhe{}, err
	}
	return GetAgendamento(db, a.ID)
}

// SetAgendamentoStatus aplica a transição agendado -> realizado|falta|cancelado.
// Status finais não mudam mais.
func SetAgendamentoStatus(db *gorm.DB, actor UserAccess, id int64, status string) (AgendamentoDetalhe, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		return setStatus(tx, actor, id, status)
	})
	if err != nil {
		return AgendamentoDetalhe{}, err
	}
	return GetAgendamento(db, id)
}

// CancelAgendamento é o DELETE da agenda.
func CancelAgendamento(db *gorm.DB, actor UserAccess, id int64) (AgendamentoDetalhe, error) {
	return SetAgendamentoStatus(db, actor, id, models.AGENDAMENTO_STATUS_CANCELADO)
}

func setStatus(tx *gorm.DB, actor UserAccess, id int64, status string) error {
	switch status {
	case models.AGENDAMENTO_STATUS_REALIZADO, models.AGENDAMENTO_STATUS_FALTA, models.AGENDAMENTO_STATUS_CANCELADO:
	default:
		return apperror.Field("status", "valor deve ser um de: realizado, falta, cancelado")
	}

	var a models.Agendamento
	if err := first(tx, &a, id, "agendamento não encontrado"); err != nil {
		return err
	}
	if a.IsFinal() {
		return apperror.Conflict("agendamento já está com status " + a.Status)
	}

	// update condicional: duas transições concorrentes não passam juntas
	res := tx.Model(&models.Agendamento{}).
		Where("id = ? AND status = ?", a.ID, models.AGENDAMENTO_STATUS_AGENDADO).
		Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.Conflict("o agendamento foi alterado por outro usuário")
	}
	return Audit(tx, actor.UserID(), models.AUDIT_STATUS, "agendamentos", a.ID, map[string]string{
		"de":   a.Status,
		"para": status,
	})
}

func normalizeInterval(inicio, fim time.Time) (time.Time, time.Time, error) {
	if inicio.IsZero() {
		return time.Time{}, time.Time{}, apperror.Field("inicio", "campo obrigatório")
	}
	if fim.IsZero() {
		return time.Time{}, time.Time{}, apperror.Field("fim", "campo obrigatório")
	}
	inicio, fim = utcSecond(inicio), utcSecond(fim)
	if !fim.After(inicio) {
		return time.Time{}, time.Time{}, apperror.Field("fim", "deve ser posterior a inicio")
	}
	return inicio, fim, nil
}

// checkOverlap procura outro agendamento não cancelado do mesmo terapeuta ou do
// mesmo paciente que intercepte [Inicio, Fim).
func checkOverlap(tx *gorm.DB, a models.Agendamento, exceptID int64) error {
	var clash models.Agendamento
	err := tx.Where("id <> ? AND status <> ?", exceptID, models.AGENDAMENTO_STATUS_CANCELADO).
		Where("inicio < ? AND fim > ?", a.Fim, a.Inicio).
		Where("terapeuta_id = ? OR paciente_id = ?", a.TerapeutaID, a.PacienteID).
		Order("inicio asc").
		First(&clash).Error
	if gorm.IsRecordNotFoundError(err) {
		return nil
	}
	if err != nil {
		return err
	}
	if clash.TerapeutaID == a.TerapeutaID {
		return apperror.Conflict("o terapeuta já possui agendamento neste horário")
	}
	return apperror.Conflict("o paciente já possui agendamento neste horário")
}

func checkActivePaciente(db *gorm.DB, id int64, field string) error {
	var p models.Paciente
	err := db.Select("id, ativo").First(&p, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperror.Field(field, "paciente não encontrado")
	}
	if err != nil {
		return err
	}
	if !p.Ativo {
		return apperror.Conflict("paciente inativo")
	}
	return nil
}

func checkActiveTerapeuta(db *gorm.DB, id int64) error {
	var t models.Terapeuta
	err := db.Select("id, ativo").First(&t, id).Error
	if gorm.IsRecordNotFoundError(err) {
		return apperror.Field("terapeuta_id", "terapeuta não encontrado")
	}
	if err != nil {
		return err
	}
	if !t.Ativo {
		return apperror.Conflict("terapeuta inativo")
	}
	return nil
}

// withNames preenche os nomes com duas consultas IN, sem N+1.
func withNames(db *gorm.DB, rows []models.Agendamento) ([]AgendamentoDetalhe, error) {
	out := make([]AgendamentoDetalhe, 0, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	pacienteIDs := make([]int64, 0, len(rows))
	terapeutaIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		pacienteIDs = append(pacienteIDs, r.PacienteID)
		terapeutaIDs = append(terapeutaIDs, r.TerapeutaID)
	}

	pacientes, err := pacienteNames(db, pacienteIDs)
	if err != nil {
		return nil, err
	}
	terapeutas, err := terapeutaNames(db, terapeutaIDs)
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		out = append(out, AgendamentoDetalhe{
			Agendamento:   r,
			PacienteNome:  pacientes[r.PacienteID],
			TerapeutaNome: terapeutas[r.TerapeutaID],
		})
	}
	return out, nil
}

type idName struct {
	ID   int64
	Nome string
}

func pacienteNames(db *gorm.DB, ids []int64) (map[int64]string, error) {
	return names(db, &models.Paciente{}, ids)
}

func terapeutaNames(db *gorm.DB, ids []int64) (map[int64]string, error) {
	return names(db, &models.Terapeuta{}, ids)
}

// names lê id e nome da tabela do modelo, sem carregar o registro inteiro.
func names(db *gorm.DB, model interface{}, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []idName
	if err := db.Model(model).Select("id, nome").Where("id IN (?)", ids).Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ID] = r.Nome
	}
	return out, nil
}
