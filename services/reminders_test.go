package services

import (
	"testing"
	"time"

	"clinica/models"
	"clinica/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDueReminders(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ana := testutil.CreatePaciente(t, conn, "Ana", "5511987654321")
	semTelefone := testutil.CreatePaciente(t, conn, "Bruno", "")
	inativa := testutil.CreatePaciente(t, conn, "Clara", "5511911112222")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")
	_, err := DeactivatePaciente(conn, admin, inativa.ID)
	require.NoError(t, err)

	now := time.Date(2031, 3, 10, 9, 0, 0, 0, time.UTC)
	due := testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, now.Add(3*time.Hour), models.AGENDAMENTO_STATUS_AGENDADO)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, now.Add(30*time.Hour), models.AGENDAMENTO_STATUS_AGENDADO)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, now.Add(-time.Hour), models.AGENDAMENTO_STATUS_AGENDADO)
	testutil.CreateAgendamento(t, conn, ana.ID, carla.ID, now.Add(5*time.Hour), models.AGENDAMENTO_STATUS_CANCELADO)
	testutil.CreateAgendamento(t, conn, semTelefone.ID, carla.ID, now.Add(4*time.Hour), models.AGENDAMENTO_STATUS_AGENDADO)
	testutil.CreateAgendamento(t, conn, inativa.ID, carla.ID, now.Add(6*time.Hour), models.AGENDAMENTO_STATUS_AGENDADO)

	list, err := DueReminders(conn, now, 24*time.Hour, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, due.ID, list[0].AgendamentoID)
	assert.Equal(t, "5511987654321", list[0].Telefone)
	assert.Equal(t, "Dra. Carla", list[0].TerapeutaNome)

	msg := list[0].Mensagem(time.FixedZone("BRT", -3*3600))
	assert.Contains(t, msg, "Ana")
	assert.Contains(t, msg, "10/03/2031")
	assert.Contains(t, msg, "09:00")

	claimed, err := ClaimReminder(conn, due.ID, now)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = ClaimReminder(conn, due.ID, now)
	require.NoError(t, err)
	assert.False(t, claimed)

	list, err = DueReminders(conn, now, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	require.NoError(t, ReleaseReminder(conn, due.ID))
	list, err = DueReminders(conn, now, 24*time.Hour, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
