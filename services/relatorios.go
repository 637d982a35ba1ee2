package services

import (
	"math"
	"sort"
	"time"

	"clinica/apperror"
	"clinica/models"

	"github.com/jinzhu/gorm"
)

const defaultPeriodoDias = 30

// Periodo é um intervalo de datas com From e To inclusivos.
type Periodo struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (p Periodo) end() time.Time {
	return p.To.AddDate(0, 0, 1)
}

// ParsePeriodo lê from/to (YYYY-MM-DD). Sem valores, usa os últimos 30 dias até hoje.
func ParsePeriodo(fromRaw, toRaw string) (Periodo, error) {
	from, err := parseDate(fromRaw)
	if err != nil {
		return Periodo{}, apperror.Field("from", "data inválida, use o formato 2006-01-02")
	}
	to, err := parseDate(toRaw)
	if err != nil {
		return Periodo{}, apperror.Field("to", "data inválida, use o formato 2006-01-02")
	}

	today := nowUTC().Truncate(24 * time.Hour)
	if to == nil {
		to = &today
	}
	if from == nil {
		f := to.AddDate(0, 0, -defaultPeriodoDias)
		from = &f
	}
	if from.After(*to) {
		return Periodo{}, apperror.Field("from", "deve ser anterior ou igual a to")
	}
	return Periodo{From: *from, To: *to}, nil
}

type FrequenciaFiltro struct {
	Periodo
	TerapeutaID *int64
	PacienteID  *int64
}

type FrequenciaLinha struct {
	PacienteID   int64   `json:"paciente_id,omitempty"`
	PacienteNome string  `json:"paciente_nome,omitempty"`
	Agendado     int     `json:"agendado"`
	Realizado    int     `json:"realizado"`
	Falta        int     `json:"falta"`
	Cancelado    int     `json:"cancelado"`
	Total        int     `json:"total"`
	TaxaPresenca float64 `json:"taxa_presenca"`
}

func (l *FrequenciaLinha) add(status string, n int) {
	switch status {
	case models.AGENDAMENTO_STATUS_AGENDADO:
		l.Agendado += n
	case models.AGENDAMENTO_STATUS_REALIZADO:
		l.Realizado += n
	case models.AGENDAMENTO_STATUS_FALTA:
		l.Falta += n
	case models.AGENDAMENTO_STATUS_CANCELADO:
		l.Cancelado += n
	}
	l.Total += n
}

func (l *FrequenciaLinha) fecharTaxa() {
	l.TaxaPresenca = taxa(l.Realizado, l.Realizado+l.Falta)
}

type FrequenciaRelatorio struct {
	Periodo Periodo           `json:"periodo"`
	Linhas  []FrequenciaLinha `json:"linhas"`
	Totais  FrequenciaLinha   `json:"totais"`
}

type statusCount struct {
	RefID  int64
	Status string
	Total  int
}

// Frequencia conta os agendamentos do período por paciente e status.
// taxa_presenca = realizado / (realizado + falta), 0 quando não há base.
func Frequencia(db *gorm.DB, f FrequenciaFiltro) (FrequenciaRelatorio, error) {
	q := db.Model(&models.Agendamento{}).
		Select("paciente_id AS ref_id, status, COUNT(*) AS total").
		Where("inicio >= ? AND inicio < ?", f.From, f.end())
	if f.TerapeutaID != nil {
		q = q.Where("terapeuta_id = ?", *f.TerapeutaID)
	}
	if f.PacienteID != nil {
		q = q.Where("paciente_id = ?", *f.PacienteID)
	}

	var counts []statusCount
	if err := q.Group("paciente_id, status").Scan(&counts).Error; err != nil {
		return FrequenciaRelatorio{}, err
	}

	byPaciente := map[int64]*FrequenciaLinha{}
	ids := []int64{}
	totais := FrequenciaLinha{}
	for _, c := range counts {
		l, ok := byPaciente[c.RefID]
		if !ok {
			l = &FrequenciaLinha{PacienteID: c.RefID}
			byPaciente[c.RefID] = l
			ids = append(ids, c.RefID)
		}
		l.add(c.Status, c.Total)
		totais.add(c.Status, c.Total)
	}

	nomes, err := pacienteNames(db, ids)
	if err != nil {
		return FrequenciaRelatorio{}, err
	}

	linhas := make([]FrequenciaLinha, 0, len(byPaciente))
	for id, l := range byPaciente {
		l.PacienteNome = nomes[id]
		l.fecharTaxa()
		linhas = append(linhas, *l)
	}
	sort.Slice(linhas, func(i, j int) bool {
		if linhas[i].PacienteNome != linhas[j].PacienteNome {
			return linhas[i].PacienteNome < linhas[j].PacienteNome
		}
		return linhas[i].PacienteID < linhas[j].PacienteID
	})
	totais.fecharTaxa()

	return FrequenciaRelatorio{Periodo: f.Periodo, Linhas: linhas, Totais: totais}, nil
}

type AtendimentoLinha struct {
	TerapeutaID   int64  `json:"terapeuta_id"`
	TerapeutaNome string `json:"terapeuta_nome"`
	Realizados    int    `json:"realizados"`
	Faltas        int    `json:"faltas"`
	Cancelados    int    `json:"cancelados"`
	Evolucoes     int    `json:"evolucoes"`
}

type AtendimentosRelatorio struct {
	Periodo Periodo            `json:"periodo"`
	Linhas  []AtendimentoLinha `json:"linhas"`
}

// Atendimentos resume a produção de cada terapeuta no período.
func Atendimentos(db *gorm.DB, p Periodo) (AtendimentosRelatorio, error) {
	var counts []statusCount
	if err := db.Model(&models.Agendamento{}).
		Select("terapeuta_id AS ref_id, status, COUNT(*) AS total").
		Where("inicio >= ? AND inicio < ?", p.From, p.end()).
		Group("terapeuta_id, status").
		Scan(&counts).Error; err != nil {
		return AtendimentosRelatorio{}, err
	}

	var evolucoes []statusCount
	if err := db.Model(&models.Evolucao{}).
		Select("terapeuta_id AS ref_id, COUNT(*) AS total").
		Where("data_sessao >= ? AND data_sessao < ?", p.From, p.end()).
		Group("terapeuta_id").
		Scan(&evolucoes).Error; err != nil {
		return AtendimentosRelatorio{}, err
	}

	byTerapeuta := map[int64]*AtendimentoLinha{}
	ids := []int64{}
	linha := func(id int64) *AtendimentoLinha {
		l, ok := byTerapeuta[id]
		if !ok {
			l = &AtendimentoLinha{TerapeutaID: id}
			byTerapeuta[id] = l
			ids = append(ids, id)
		}
		return l
	}

	for _, c := range counts {
		l := linha(c.RefID)
		switch c.Status {
		case models.AGENDAMENTO_STATUS_REALIZADO:
			l.Realizados += c.Total
		case models.AGENDAMENTO_STATUS_FALTA:
			l.Faltas += c.Total
		case models.AGENDAMENTO_STATUS_CANCELADO:
			l.Cancelados += c.Total
		}
	}
	for _, e := range evolucoes {
		linha(e.RefID).Evolucoes += e.Total
	}

	nomes, err := terapeutaNames(db, ids)
	if err != nil {
		return AtendimentosRelatorio{}, err
	}

	linhas := make([]AtendimentoLinha, 0, len(byTerapeuta))
	for id, l := range byTerapeuta {
		l.TerapeutaNome = nomes[id]
		linhas = append(linhas, *l)
	}
	sort.Slice(linhas, func(i, j int) bool {
		if linhas[i].TerapeutaNome != linhas[j].TerapeutaNome {
			return linhas[i].TerapeutaNome < linhas[j].TerapeutaNome
		}
		return linhas[i].TerapeutaID < linhas[j].TerapeutaID
	})

	return AtendimentosRelatorio{Periodo: p, Linhas: linhas}, nil
}

func taxa(parte, base int) float64 {
	if base == 0 {
		return 0
	}
	return math.Round(float64(parte)/float64(base)*10000) / 10000
}
