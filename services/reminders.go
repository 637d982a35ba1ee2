package services

import (
	"fmt"
	"time"

	"clinica/models"

	"github.com/jinzhu/gorm"
)

// Lembrete é um agendamento próximo cujo paciente ainda não foi avisado.
type Lembrete struct {
	AgendamentoID int64
	Inicio        time.Time
	PacienteNome  string
	Telefone      string
	TerapeutaNome string
}

// Mensagem é o texto enviado ao paciente.
func (l Lembrete) Mensagem(loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	inicio := l.Inicio.In(loc)
	return fmt.Sprintf("Olá, %s! Lembrete da sua sessão com %s em %s às %s. Em caso de imprevisto, avise a recepção.",
		l.PacienteNome, l.TerapeutaNome, inicio.Format("02/01/2006"), inicio.Format("15:04"))
}

// DueReminders lista agendamentos "agendado" que começam entre t e t+window,
// sem lembrete enviado e de pacientes ativos com telefone.
func DueReminders(db *gorm.DB, t time.Time, window time.Duration, limit int) ([]Lembrete, error) {
	if limit <= 0 {
		limit = 50
	}

	var rows []models.Agendamento
	if err := db.Table("agendamentos").
		Select("agendamentos.*").
		Joins("JOIN pacientes ON pacientes.id = agendamentos.paciente_id").
		Where("agendamentos.status = ?", models.AGENDAMENTO_STATUS_AGENDADO).
		Where("agendamentos.lembrete_enviado_em IS NULL").
		Where("agendamentos.inicio > ? AND agendamentos.inicio <= ?", t, t.Add(window)).
		Where("pacientes.ativo = ? AND pacientes.telefone <> ''", true).
		Order("agendamentos.inicio asc").Order("agendamentos.id asc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return []Lembrete{}, nil
	}

	pacienteIDs := make([]int64, 0, len(rows))
	terapeutaIDs := make([]int64, 0, len(rows))
	for _, r := range rows {
		pacienteIDs = append(pacienteIDs, r.PacienteID)
		terapeutaIDs = append(terapeutaIDs, r.TerapeutaID)
	}

	var pacientes []models.Paciente
	if err := db.Where("id IN (?)", pacienteIDs).Find(&pacientes).Error; err != nil {
		return nil, err
	}
	byID := make(map[int64]models.Paciente, len(pacientes))
	for _, p := range pacientes {
		byID[p.ID] = p
	}
	terapeutas, err := terapeutaNames(db, terapeutaIDs)
	if err != nil {
		return nil, err
	}

	out := make([]Lembrete, 0, len(rows))
	for _, r := range rows {
		p := byID[r.PacienteID]
		out = append(out, Lembrete{
			AgendamentoID: r.ID,
			Inicio:        r.Inicio,
			PacienteNome:  p.Nome,
			Telefone:      p.Telefone,
			TerapeutaNome: terapeutas[r.TerapeutaID],
		})
	}
	return out, nil
}

// ClaimReminder marca o lembrete como enviado antes do envio (lock otimista).
// Devolve false quando outro processo já pegou o agendamento.
func ClaimReminder(db *gorm.DB, agendamentoID int64, t time.Time) (bool, error) {
	res := db.Model(&models.Agendamento{}).
		Where("id = ? AND status = ? AND lembrete_enviado_em IS NULL", agendamentoID, models.AGENDAMENTO_STATUS_AGENDADO).
		UpdateColumn("lembrete_enviado_em", &t)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ReleaseReminder desfaz o claim quando o envio falha, para nova tentativa no próximo ciclo.
func ReleaseReminder(db *gorm.DB, agendamentoID int64) error {
	return db.Model(&models.Agendamento{}).
		Where("id = ?", agendamentoID).
		UpdateColumn("lembrete_enviado_em", nil).Error
}
