package services

import (
	"testing"
	"time"

	"clinica/apperror"
	"clinica/models"
	"clinica/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaxa(t *testing.T) {
	assert.Equal(t, 0.0, taxa(0, 0))
	assert.Equal(t, 1.0, taxa(3, 3))
	assert.Equal(t, 0.6667, taxa(2, 3))
	assert.Equal(t, 0.3333, taxa(1, 3))
}

func TestParsePeriodo(t *testing.T) {
	p, err := ParsePeriodo("", "")
	require.NoError(t, err)
	assert.Equal(t, defaultPeriodoDias*24*time.Hour, p.To.Sub(p.From))

	p, err = ParsePeriodo("2031-03-01", "2031-03-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2031, 4, 1, 0, 0, 0, 0, time.UTC), p.end())

	_, err = ParsePeriodo("2031-04-01", "2031-03-01")
	assert.Equal(t, []string{"from"}, apperror.From(err).FieldNames())

	_, err = ParsePeriodo("", "31/03/2031")
	assert.Equal(t, []string{"to"}, apperror.From(err).FieldNames())
}

func TestFrequencia(t *testing.T) {
	conn := testutil.NewDB(t)
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	bruno := testutil.CreatePaciente(t, conn, "Bruno", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")
	davi := testutil.CreateTerapeuta(t, conn, "Dr. Davi")

	day := func(d int) time.Time { return time.Date(2031, 3, d, 14, 0, 0, 0, time.UTC) }
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, day(3), models.AGENDAMENTO_STATUS_REALIZADO)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, day(10), models.AGENDAMENTO_STATUS_REALIZADO)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, day(17), models.AGENDAMENTO_STATUS_FALTA)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, day(24), models.AGENDAMENTO_STATUS_AGENDADO)
	testutil.CreateAgendamento(t, conn, bruno.ID, davi.ID, day(4), models.AGENDAMENTO_STATUS_CANCELADO)
	// fora do período
	testutil.CreateAgendamento(t, conn, bruno.ID, davi.ID, time.Date(2031, 4, 1, 0, 0, 0, 0, time.UTC), models.AGENDAMENTO_STATUS_FALTA)

	periodo, err := ParsePeriodo("2031-03-01", "2031-03-31")
	require.NoError(t, err)

	rel, err := Frequencia(conn, FrequenciaFiltro{Periodo: periodo})
	require.NoError(t, err)
	require.Len(t, rel.Linhas, 2)

	assert.Equal(t, "Ana", rel.Linhas[0].PacienteNome)
	assert.Equal(t, 2, rel.Linhas[0].Realizado)
	assert.Equal(t, 1, rel.Linhas[0].Falta)
	assert.Equal(t, 1, rel.Linhas[0].Agendado)
	assert.Equal(t, 4, rel.Linhas[0].Total)
	assert.Equal(t, 0.6667, rel.Linhas[0].TaxaPresenca)

	assert.Equal(t, "Bruno", rel.Linhas[1].PacienteNome)
	assert.Equal(t, 1, rel.Linhas[1].Cancelado)
	assert.Equal(t, 0.0, rel.Linhas[1].TaxaPresenca)

	assert.Equal(t, 5, rel.Totais.Total)
	assert.Equal(t, 0.6667, rel.Totais.TaxaPresenca)

	rel, err = Frequencia(conn, FrequenciaFiltro{Periodo: periodo, TerapeutaID: &davi.ID})
	require.NoError(t, err)
	require.Len(t, rel.Linhas, 1)
	assert.Equal(t, bruno.ID, rel.Linhas[0].PacienteID)
}

func TestAtendimentos(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")
	davi := testutil.CreateTerapeuta(t, conn, "Dr. Davi")

	now := time.Now().UTC().Truncate(time.Hour)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, now.Add(-72*time.Hour), models.AGENDAMENTO_STATUS_REALIZADO)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, now.Add(-48*time.Hour), models.AGENDAMENTO_STATUS_FALTA)
	testutil.CreateAgendamento(t, conn, ana.ID, davi.ID, now.Add(-24*time.Hour), models.AGENDAMENTO_STATUS_CANCELADO)

	_, err := CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{
		TerapeutaID: carla.ID, DataSessao: now.Add(-72 * time.Hour).Format(dateLayout), Descricao: "sessão",
	})
	require.NoError(t, err)

	periodo, err := ParsePeriodo("", "")
	require.NoError(t, err)
	rel, err := Atendimentos(conn, periodo)
	require.NoError(t, err)
	require.Len(t, rel.Linhas, 2)

	// ordenado por nome: "Dr. Davi" < "Dra. Carla"
	assert.Equal(t, "Dr. Davi", rel.Linhas[0].TerapeutaNome)
	assert.Equal(t, 1, rel.Linhas[0].Cancelados)

	assert.Equal(t, "Dra. Carla", rel.Linhas[1].TerapeutaNome)
	assert.Equal(t, 1, rel.Linhas[1].Realizados)
	assert.Equal(t, 1, rel.Linhas[1].Faltas)
	assert.Equal(t, 1, rel.Linhas[1].Evolucoes)
}
