package services

import (
	"net/http"
	"testing"
	"time"

	"clinica/apperror"
	"clinica/models"
	"clinica/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTokens() TokenSettings {
	return TokenSettingsFrom(testutil.Config())
}

func TestLogin_Success(t *testing.T) {
	conn := testutil.NewDB(t)

	session, err := Login(conn, testTokens(), LoginInput{Email: "  ADMIN@clinica.test ", Password: testutil.AdminPassword})
	require.NoError(t, err)

	assert.NotEmpty(t, session.AccessToken)
	assert.Len(t, session.RefreshToken, 32)
	assert.Equal(t, testutil.AdminEmail, session.User.Email)
	assert.Contains(t, session.Permissions, models.PERM_USERS_WRITE)

	userID, err := ParseAccessToken(testTokens(), session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, session.User.ID, userID)

	var user models.User
	require.NoError(t, conn.First(&user, userID).Error)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLogin_InvalidCredentialsLookTheSame(t *testing.T) {
	conn := testutil.NewDB(t)

	_, errWrongPassword := Login(conn, testTokens(), LoginInput{Email: testutil.AdminEmail, Password: "errada123"})
	_, errUnknownEmail := Login(conn, testTokens(), LoginInput{Email: "ninguem@clinica.test", Password: "errada123"})

	require.Error(t, errWrongPassword)
	require.Error(t, errUnknownEmail)
	assert.True(t, IsInvalidCredentials(errWrongPassword))
	assert.True(t, IsInvalidCredentials(errUnknownEmail))
	assert.Equal(t, apperror.From(errWrongPassword).Message, apperror.From(errUnknownEmail).Message)
	assert.Equal(t, http.StatusUnauthorized, apperror.From(errWrongPassword).Status)
}

func TestLogin_InactiveUserIsForbidden(t *testing.T) {
	conn := testutil.NewDB(t)
	user := testutil.CreateUser(t, conn, models.ROLE_RECEPCAO, "r@clinica.test", "senha12345")
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error)

	_, err := Login(conn, testTokens(), LoginInput{Email: "r@clinica.test", Password: "senha12345"})
	assert.Equal(t, http.StatusForbidden, apperror.From(err).Status)
}

func TestRefresh_RotatesTokens(t *testing.T) {
	conn := testutil.NewDB(t)
	ts := testTokens()

	first, err := Login(conn, ts, LoginInput{Email: testutil.AdminEmail, Password: testutil.AdminPassword})
	require.NoError(t, err)

	second, err := Refresh(conn, ts, RefreshInput{RefreshToken: first.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	// o token antigo foi revogado na rotação
	_, err = Refresh(conn, ts, RefreshInput{RefreshToken: first.RefreshToken})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))

	_, err = Refresh(conn, ts, RefreshInput{RefreshToken: "nao-existe"})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}

func TestLogout_RevokesRefreshTokens(t *testing.T) {
	conn := testutil.NewDB(t)
	ts := testTokens()

	session, err := Login(conn, ts, LoginInput{Email: testutil.AdminEmail, Password: testutil.AdminPassword})
	require.NoError(t, err)
	require.NoError(t, Logout(conn, session.User.ID))

	_, err = Refresh(conn, ts, RefreshInput{RefreshToken: session.RefreshToken})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))
}

func TestChangePassword(t *testing.T) {
	conn := testutil.NewDB(t)
	ts := testTokens()
	admin := testutil.Admin(t, conn)

	err := ChangePassword(conn, ts, admin.ID, ChangePasswordInput{CurrentPassword: "errada", NewPassword: "novaSenha123"})
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))

	require.NoError(t, ChangePassword(conn, ts, admin.ID, ChangePasswordInput{CurrentPassword: testutil.AdminPassword, NewPassword: "novaSenha123"}))

	_, err = Login(conn, ts, LoginInput{Email: testutil.AdminEmail, Password: testutil.AdminPassword})
	assert.Error(t, err)
	_, err = Login(conn, ts, LoginInput{Email: testutil.AdminEmail, Password: "novaSenha123"})
	assert.NoError(t, err)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	ts := testTokens()
	user := models.User{ID: 7, Email: "x@clinica.test"}

	expired, _, err := IssueAccessToken(ts, user, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = ParseAccessToken(ts, expired)
	assert.Equal(t, "token expirado", apperror.From(err).Message)

	other := ts
	other.Secret = []byte("outro-segredo")
	forged, _, err := IssueAccessToken(other, user, time.Now())
	require.NoError(t, err)
	_, err = ParseAccessToken(ts, forged)
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))

	// alg none não é aceito
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "7",
		Issuer:    tokenIssuer,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseAccessToken(ts, unsigned)
	assert.True(t, apperror.Is(err, apperror.CodeUnauthorized))

	valid, _, err := IssueAccessToken(ts, user, time.Now())
	require.NoError(t, err)
	id, err := ParseAccessToken(ts, valid)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}

func TestPurgeRefreshTokens(t *testing.T) {
	conn := testutil.NewDB(t)
	admin := testutil.Admin(t, conn)
	now := nowUTC()

	old := now.Add(-30 * 24 * time.Hour)
	recent := now.Add(time.Hour)
	require.NoError(t, conn.Create(&models.RefreshToken{UserID: admin.ID, TokenHash: "a", ExpiresAt: &old}).Error)
	require.NoError(t, conn.Create(&models.RefreshToken{UserID: admin.ID, TokenHash: "b", ExpiresAt: &recent}).Error)

	purged, err := PurgeRefreshTokens(conn, now, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}
