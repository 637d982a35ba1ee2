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

func TestCreateEvolucao_MarksAgendamentoRealizado(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")
	sessao := time.Now().UTC().Add(-2 * time.Hour)
	a := testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, sessao, models.AGENDAMENTO_STATUS_AGENDADO)

	e, err := CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{
		TerapeutaID:   carla.ID,
		DataSessao:    sessao.Format(dateLayout),
		Descricao:     "Paciente relatou melhora no sono.",
		AgendamentoID: &a.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Dra. Carla", e.TerapeutaNome)
	assert.Equal(t, admin.UserID(), e.AutorID)

	got, err := GetAgendamento(conn, a.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AGENDAMENTO_STATUS_REALIZADO, got.Status)

	// agendamento já realizado aceita outra evolução
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{
		TerapeutaID: carla.ID, DataSessao: sessao.Format(dateLayout), Descricao: "Complemento", AgendamentoID: &a.ID,
	})
	assert.NoError(t, err)
}

func TestCreateEvolucao_Rejects(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	bruno := testutil.CreatePaciente(t, conn, "Bruno", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")
	today := time.Now().UTC().Format(dateLayout)

	doBruno := testutil.CreateAgendamento(t, conn, bruno.ID, carla.ID, baseSlot, models.AGENDAMENTO_STATUS_AGENDADO)
	_, err := CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{
		TerapeutaID: carla.ID, DataSessao: today, Descricao: "x", AgendamentoID: &doBruno.ID,
	})
	require.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, []string{"agendamento_id"}, apperror.From(err).FieldNames())

	// a sessão conta para o terapeuta do agendamento, não para outro
	davi := testutil.CreateTerapeuta(t, conn, "Dr. Davi")
	daCarla := testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, baseSlot.Add(-48*time.Hour), models.AGENDAMENTO_STATUS_AGENDADO)
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{
		TerapeutaID: davi.ID, DataSessao: today, Descricao: "x", AgendamentoID: &daCarla.ID,
	})
	require.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, []string{"terapeuta_id"}, apperror.From(err).FieldNames())
	got, err := GetAgendamento(conn, daCarla.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AGENDAMENTO_STATUS_AGENDADO, got.Status)

	cancelado := testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, baseSlot, models.AGENDAMENTO_STATUS_CANCELADO)
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{
		TerapeutaID: carla.ID, DataSessao: today, Descricao: "x", AgendamentoID: &cancelado.ID,
	})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	amanha := time.Now().UTC().AddDate(0, 0, 2).Format(dateLayout)
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{TerapeutaID: carla.ID, DataSessao: amanha, Descricao: "x"})
	assert.Equal(t, []string{"data_sessao"}, apperror.From(err).FieldNames())

	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{TerapeutaID: carla.ID, DataSessao: today, Descricao: "  "})
	assert.Equal(t, []string{"descricao"}, apperror.From(err).FieldNames())

	_, err = DeactivatePaciente(conn, admin, ana.ID)
	require.NoError(t, err)
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{TerapeutaID: carla.ID, DataSessao: today, Descricao: "x"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	var n int
	require.NoError(t, conn.Model(&models.Evolucao{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEvolucao_OnlyAuthorOrAdminChanges(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	autor := accessFor(t, conn, models.ROLE_TERAPEUTA, "autor@clinica.test")
	colega := accessFor(t, conn, models.ROLE_TERAPEUTA, "colega@clinica.test")
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")
	today := time.Now().UTC().Format(dateLayout)

	e, err := CreateEvolucao(conn, autor, ana.ID, EvolucaoInput{TerapeutaID: carla.ID, DataSessao: today, Descricao: "Primeira sessão"})
	require.NoError(t, err)

	_, err = UpdateEvolucao(conn, colega, e.ID, EvolucaoUpdateInput{DataSessao: today, Descricao: "alterado"})
	assert.True(t, apperror.Is(err, apperror.CodeForbidden))
	assert.True(t, apperror.Is(DeleteEvolucao(conn, colega, e.ID), apperror.CodeForbidden))

	updated, err := UpdateEvolucao(conn, autor, e.ID, EvolucaoUpdateInput{DataSessao: today, Descricao: "Primeira sessão, revisada", Conduta: "TCC"})
	require.NoError(t, err)
	assert.Equal(t, "Primeira sessão, revisada", updated.Descricao)
	assert.Equal(t, "TCC", updated.Conduta)

	require.NoError(t, DeleteEvolucao(conn, admin, e.ID))
	_, err = GetEvolucao(conn, e.ID)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestGetProntuario(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")

	pr, err := GetProntuario(conn, ana.ID)
	require.NoError(t, err)
	assert.Nil(t, pr.Anamnese)
	assert.Empty(t, pr.Evolucoes)
	assert.Empty(t, pr.Agendamentos)

	_, _, err = SaveAnamnese(conn, admin, ana.ID, AnamneseInput{QueixaPrincipal: "Ansiedade"})
	require.NoError(t, err)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, baseSlot, models.AGENDAMENTO_STATUS_AGENDADO)

	older := time.Now().UTC().AddDate(0, 0, -7).Format(dateLayout)
	newer := time.Now().UTC().AddDate(0, 0, -1).Format(dateLayout)
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{TerapeutaID: carla.ID, DataSessao: older, Descricao: "antiga"})
	require.NoError(t, err)
	_, err = CreateEvolucao(conn, admin, ana.ID, EvolucaoInput{TerapeutaID: carla.ID, DataSessao: newer, Descricao: "recente"})
	require.NoError(t, err)

	pr, err = GetProntuario(conn, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, pr.Anamnese)
	assert.Equal(t, "Ansiedade", pr.Anamnese.QueixaPrincipal)
	require.Len(t, pr.Evolucoes, 2)
	assert.Equal(t, "recente", pr.Evolucoes[0].Descricao)
	require.Len(t, pr.Agendamentos, 1)
	assert.Equal(t, "Dra. Carla", pr.Agendamentos[0].TerapeutaNome)

	_, err = GetProntuario(conn, 999)
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}
