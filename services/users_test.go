package services

import (
	"testing"

	"clinica/apperror"
	"clinica/models"
	"clinica/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateUser(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	role := testutil.Role(t, conn, models.ROLE_RECEPCAO)

	user, err := CreateUser(conn, testTokens(), admin, CreateUserInput{
		Name:     " Maria ",
		Email:    "Maria@Clinica.test",
		Password: "senha12345",
		RoleID:   role.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "maria@clinica.test", user.Email)
	assert.Equal(t, "Maria", user.Name)
	assert.True(t, user.Active)
	assert.Equal(t, models.ROLE_RECEPCAO, user.Role.Name)
	assert.Equal(t, 1, auditCount(t, conn, "users", user.ID))

	_, err = CreateUser(conn, testTokens(), admin, CreateUserInput{
		Name: "Outra", Email: "maria@clinica.test", Password: "senha12345", RoleID: role.ID,
	})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	_, err = CreateUser(conn, testTokens(), admin, CreateUserInput{
		Name: "Sem papel", Email: "x@clinica.test", Password: "senha12345", RoleID: 999,
	})
	require.True(t, apperror.Is(err, apperror.CodeValidation))
	assert.Equal(t, []string{"role_id"}, apperror.From(err).FieldNames())
}

func TestUpdateUser_SelfProtection(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)

	inactive := false
	_, err := UpdateUser(conn, admin, admin.UserID(), UpdateUserInput{Active: &inactive})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	recepcao := testutil.Role(t, conn, models.ROLE_RECEPCAO).ID
	_, err = UpdateUser(conn, admin, admin.UserID(), UpdateUserInput{RoleID: &recepcao})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))
}

func TestUpdateUser_DeactivateRevokesSessions(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ts := testTokens()
	other := testutil.CreateUser(t, conn, models.ROLE_TERAPEUTA, "t@clinica.test", "senha12345")

	session, err := Login(conn, ts, LoginInput{Email: "t@clinica.test", Password: "senha12345"})
	require.NoError(t, err)

	inactive := false
	updated, err := UpdateUser(conn, admin, other.ID, UpdateUserInput{Active: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.Active)

	_, err = Refresh(conn, ts, RefreshInput{RefreshToken: session.RefreshToken})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}

func TestUpdateUser_LinksAndUnlinksTerapeuta(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	terapeuta := testutil.CreateTerapeuta(t, conn, "Dra. Ana")
	user := testutil.CreateUser(t, conn, models.ROLE_TERAPEUTA, "ana@clinica.test", "senha12345")

	updated, err := UpdateUser(conn, admin, user.ID, UpdateUserInput{TerapeutaID: &terapeuta.ID})
	require.NoError(t, err)
	require.NotNil(t, updated.TerapeutaID)
	assert.Equal(t, terapeuta.ID, *updated.TerapeutaID)

	zero := int64(0)
	updated, err = UpdateUser(conn, admin, user.ID, UpdateUserInput{TerapeutaID: &zero})
	require.NoError(t, err)
	assert.Nil(t, updated.TerapeutaID)
}

func TestResetUserPassword(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ts := testTokens()
	user := testutil.CreateUser(t, conn, models.ROLE_RECEPCAO, "r@clinica.test", "senha12345")

	err := ResetUserPassword(conn, ts, admin, admin.UserID(), ResetPasswordInput{NewPassword: "outraSenha1"})
	assert.True(t, apperror.Is(err, apperror.CodeConflict))

	session, err := Login(conn, ts, LoginInput{Email: "r@clinica.test", Password: "senha12345"})
	require.NoError(t, err)

	require.NoError(t, ResetUserPassword(conn, ts, admin, user.ID, ResetPasswordInput{NewPassword: "outraSenha1"}))
	_, err = Refresh(conn, ts, RefreshInput{RefreshToken: session.RefreshToken})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
	_, err = Login(conn, ts, LoginInput{Email: "r@clinica.test", Password: "outraSenha1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, auditCount(t, conn, "users", user.ID))
}

func TestResetUserPassword_RollsBackWithoutAudit(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := adminAccess(t, conn)
	ts := testTokens()
	user := testutil.CreateUser(t, conn, models.ROLE_RECEPCAO, "r@clinica.test", "senha12345")
	session, err := Login(conn, ts, LoginInput{Email: "r@clinica.test", Password: "senha12345"})
	require.NoError(t, err)

	// sem a tabela de auditoria o reset inteiro precisa falhar
	require.NoError(t, conn.DropTable(&models.AuditLog{}).Error)

	err = ResetUserPassword(conn, ts, admin, user.ID, ResetPasswordInput{NewPassword: "outraSenha1"})
	require.Error(t, err)

	_, err = Refresh(conn, ts, RefreshInput{RefreshToken: session.RefreshToken})
	assert.NoError(t, err)
	_, err = Login(conn, ts, LoginInput{Email: "r@clinica.test", Password: "senha12345"})
	assert.NoError(t, err)
}

func TestListUsers_Filters(t *testing.T) {
	conn := testutil.NewDB(t)
	testutil.CreateUser(t, conn, models.ROLE_RECEPCAO, "joana@clinica.test", "senha12345")

	users, err := ListUsers(conn, UserFilter{Q: "JOANA"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, models.ROLE_RECEPCAO, users[0].Role.Name)

	active := true
	users, err = ListUsers(conn, UserFilter{Active: &active})
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
