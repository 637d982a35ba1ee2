package services

import (
	"errors"
	"testing"

	"clinica/apperror"
	"clinica/models"
	"clinica/testutil"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNames_UseMigratedTables(t *testing.T) {
	conn := testutil.NewDB(t)
	ana := testutil.CreatePaciente(t, conn, "Ana", "")
	carla := testutil.CreateTerapeuta(t, conn, "Dra. Carla")

	pacientes, err := pacienteNames(conn, []int64{ana.ID, 999})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{ana.ID: "Ana"}, pacientes)

	terapeutas, err := terapeutaNames(conn, []int64{carla.ID})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{carla.ID: "Dra. Carla"}, terapeutas)

	empty, err := terapeutaNames(conn, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestOnConflict_MapsUniqueIndex(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := testutil.Admin(t, conn)

	// simula a corrida: a checagem prévia passou, mas o índice único barra a gravação
	dup := models.User{Name: "Outra", Email: admin.Email, Password: "x", RoleID: admin.RoleID, Active: true}
	err := conn.Create(&dup).Error
	require.Error(t, err)
	assert.True(t, uniqueViolation(err))

	mapped := onConflict(err, msgEmailTaken)
	require.True(t, apperror.Is(mapped, apperror.CodeConflict))
	assert.Equal(t, msgEmailTaken, apperror.From(mapped).Message)

	assert.True(t, uniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, uniqueViolation(&pq.Error{Code: "23503"}))

	boom := errors.New("boom")
	assert.False(t, uniqueViolation(boom))
	assert.Equal(t, boom, onConflict(boom, msgEmailTaken))
}
