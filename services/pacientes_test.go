package services

import (
	"testing"
	"time"

	"clinica/apperror"
	"clinica/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePaciente_Normalizes(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)

	p, err := CreatePaciente(conn, admin, PacienteInput{
		Nome:           "  João da Silva ",
		CPF:            "529.982.247-25",
		DataNascimento: "1990-05-17",
		Sexo:           "m",
		Telefone:       "(11) 98765-4321",
		Email:          "JOAO@Mail.com",
	})
	require.NoError(t, err)

	assert.Equal(t, "João da Silva", p.Nome)
	require.NotNil(t, p.CPF)
	assert.Equal(t, "52998224725", *p.CPF)
	assert.Equal(t, "5511987654321", p.Telefone)
	assert.Equal(t, "M", p.Sexo)
	assert.Equal(t, "joao@mail.com", p.Email)
	assert.True(t, p.Ativo)
	require.NotNil(t, p.DataNascimento)
	assert.Equal(t, "1990-05-17", p.DataNascimento.UTC().Format(dateLayout))
	assert.Equal(t, 1, auditCount(t, conn, "pacientes", p.ID))
}

func TestCreatePaciente_Rejects(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)

	_, err := CreatePaciente(conn, admin, PacienteInput{Nome: "Ana", CPF: "52998224725"})
	require.NoError(t, err)

	_, err = CreatePaciente(conn, admin, PacienteInput{Nome: "Outra Ana", CPF: "529.982.247-25"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	future := time.Now().AddDate(1, 0, 0).Format(dateLayout)
	_, err = CreatePaciente(conn, admin, PacienteInput{Nome: "Bebê", DataNascimento: future, CPF: "111.111.111-11", Telefone: "123"})
	require.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, []string{"cpf", "data_nascimento", "telefone"}, apperror.From(err).FieldNames())

	missing := int64(404)
	_, err = CreatePaciente(conn, admin, PacienteInput{Nome: "Carlos", TerapeutaID: &missing})
	require.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, []string{"terapeuta_id"}, apperror.From(err).FieldNames())
}

func TestUpdatePaciente_ReplacesFields(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)

	p, err := CreatePaciente(conn, admin, PacienteInput{Nome: "Ana", CPF: "52998224725", Convenio: "Unimed"})
	require.NoError(t, err)

	// mesmo CPF do próprio registro não conflita
	updated, err := UpdatePaciente(conn, admin, p.ID, PacienteInput{Nome: "Ana Maria", CPF: "52998224725"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Nome)
	assert.Empty(t, updated.Convenio)

	updated, err = UpdatePaciente(conn, admin, p.ID, PacienteInput{Nome: "Ana Maria"})
	require.NoError(t, err)
	assert.Nil(t, updated.CPF)

	_, err = UpdatePaciente(conn, admin, 999, PacienteInput{Nome: "X"})
	assert.True(t, apperror.Is(err, apperror.CodeNotFound))
}

func TestDeactivatePaciente_IsIdempotent(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	p := testutil.CreatePaciente(t, conn, "Ana", "")

	out, err := DeactivatePaciente(conn, admin, p.ID)
	require.NoError(t, err)
	assert.False(t, out.Ativo)

	out, err = DeactivatePaciente(conn, admin, p.ID)
	require.NoError(t, err)
	assert.False(t, out.Ativo)
	assert.Equal(t, 1, auditCount(t, conn, "pacientes", p.ID))
}

func TestListPacientes(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)

	for _, nome := range []string{"Carla", "Ana", "Bruno"} {
		testutil.CreatePaciente(t, conn, nome, "")
	}
	_, err := CreatePaciente(conn, admin, PacienteInput{Nome: "Daniel", CPF: "11144477735"})
	require.NoError(t, err)

	page, err := ListPacientes(conn, PacienteFilter{Pagination: Pagination{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Ana", page.Items[0].Nome)
	assert.Equal(t, "Bruno", page.Items[1].Nome)

	page, err = ListPacientes(conn, PacienteFilter{Pagination: Pagination{Page: 2, PageSize: 2}})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "Carla", page.Items[0].Nome)

	page, err = ListPacientes(conn, PacienteFilter{Q: "111.444"})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Daniel", page.Items[0].Nome)
	assert.Equal(t, defaultPageSize, page.PageSize)

	page, err = ListPacientes(conn, PacienteFilter{Q: "AN"})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = ListPacientes(conn, PacienteFilter{Pagination: Pagination{PageSize: 1000}})
	require.NoError(t, err)
	assert.Equal(t, maxPageSize, page.PageSize)
}
