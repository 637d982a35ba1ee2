package services

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"clinica/apperror"
	"clinica/config"
	"clinica/models"
	"clinica/tools"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jinzhu/gorm"
)

const tokenIssuer = "clinica"

// TokenSettings reúne o que é preciso para emitir e validar sessões.
type TokenSettings struct {
	Secret     []byte
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	RefreshLen int
	BcryptCost int
}

func TokenSettingsFrom(conf config.Configuration) TokenSettings {
	return TokenSettings{
		Secret:     []byte(conf.Security.JwtSecret),
		AccessTTL:  time.Duration(conf.Security.AccessTokenTTLMinutes) * time.Minute,
		RefreshTTL: time.Duration(conf.Security.RefreshTokenTTLDays) * 24 * time.Hour,
		RefreshLen: conf.Security.RefreshTokenLen,
		BcryptCost: conf.Security.BcryptCost,
	}
}

// AccessClaims é o payload do access token; sub carrega o id do usuário.
type AccessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshInput struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

// Session é a resposta de login e refresh.
type Session struct {
	AccessToken        string      `json:"access_token"`
	AccessExpiresAt    int64       `json:"access_expires_at"`     // unix seconds
	AccessExpiresAtISO string      `json:"access_expires_at_iso"` // RFC3339
	RefreshToken       string      `json:"refresh_token"`
	User               models.User `json:"user"`
	Permissions        []string    `json:"permissions"`
}

var errInvalidCredentials = apperror.Unauthorized("usuário ou senha inválidos")

// IsInvalidCredentials permite contar falhas de login sem olhar a mensagem.
func IsInvalidCredentials(err error) bool {
	return errors.Is(err, errInvalidCredentials)
}

// Login valida e-mail/senha e abre uma sessão (access + refresh).
func Login(db *gorm.DB, ts TokenSettings, in LoginInput) (Session, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if gorm.IsRecordNotFoundError(err) {
		return Session{}, errInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if !tools.CheckPasswordHash(user.Password, in.Password) {
		return Session{}, errInvalidCredentials
	}
	if !user.Active {
		return Session{}, apperror.Forbidden("usuário inativo")
	}

	t := nowUTC()
	if err := db.Model(&user).UpdateColumn("last_login_at", &t).Error; err != nil {
		return Session{}, err
	}

	return openSession(db, ts, user.ID, t)
}

// Refresh troca um refresh token válido por um novo par.
// Rotação: todos os refresh tokens ativos do usuário são revogados, inclusive o atual.
func Refresh(db *gorm.DB, ts TokenSettings, in RefreshInput) (Session, error) {
	t := nowUTC()
	hash := tools.EncryptTextSHA512(in.RefreshToken)

	var stored models.RefreshToken
	err := db.Where("token_hash = ?", hash).First(&stored).Error
	if gorm.IsRecordNotFoundError(err) {
		return Session{}, apperror.Unauthorized("refresh token inválido")
	}
	if err != nil {
		return Session{}, err
	}
	if !stored.Usable(t) {
		return Session{}, apperror.Unauthorized("refresh token expirado")
	}

	return openSession(db, ts, stored.UserID, t)
}

// Logout revoga todas as sessões do usuário.
func Logout(db *gorm.DB, userID int64) error {
	return revokeAllUserRefreshTokens(db, userID, nowUTC())
}

// ChangePassword troca a senha do próprio usuário e derruba as outras sessões.
func ChangePassword(db *gorm.DB, ts TokenSettings, userID int64, in ChangePasswordInput) error {
	var user models.User
	if err := first(db, &user, userID, "usuário não encontrado"); err != nil {
		return err
	}
	if !tools.CheckPasswordHash(user.Password, in.CurrentPassword) {
		return apperror.Unauthorized("a senha atual está incorreta")
	}
	hash, err := tools.HashPassword(in.NewPassword, ts.BcryptCost)
	if err != nil {
		return err
	}
	return db.Transaction(func(tx *gorm.DB) error {
		return setPassword(tx, user.ID, hash)
	})
}

// setPassword grava o hash e revoga as sessões do usuário. Roda dentro da transação do chamador.
func setPassword(tx *gorm.DB, userID int64, hash string) error {
	if err := tx.Model(&models.User{}).Where("id = ?", userID).Update("password", hash).Error; err != nil {
		return err
	}
	return revokeAllUserRefreshTokens(tx, userID, nowUTC())
}

// ParseAccessToken valida assinatura, emissor e expiração e devolve o id do usuário.
func ParseAccessToken(ts TokenSettings, token string) (int64, error) {
	claims := &AccessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return ts.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, apperror.Unauthorized("token expirado")
		}
		return 0, apperror.Unauthorized("token inválido")
	}

	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.Unauthorized("token inválido")
	}
	return id, nil
}

// IssueAccessToken assina um JWT HS256 para o usuário.
func IssueAccessToken(ts TokenSettings, user models.User, issuedAt time.Time) (string, time.Time, error) {
	exp := issuedAt.Add(ts.AccessTTL)
	claims := AccessClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func openSession(db *gorm.DB, ts TokenSettings, userID int64, t time.Time) (Session, error) {
	access, err := LoadUserAccess(db, userID)
	if err != nil {
		return Session{}, err
	}

	var refresh string
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := revokeAllUserRefreshTokens(tx, userID, t); err != nil {
			return err
		}
		var err error
		refresh, err = issueRefreshToken(tx, ts, userID, t)
		return err
	})
	if err != nil {
		return Session{}, err
	}

	token, exp, err := IssueAccessToken(ts, access.User, t)
	if err != nil {
		return Session{}, err
	}

	return Session{
		AccessToken:        token,
		AccessExpiresAt:    exp.Unix(),
		AccessExpiresAtISO: exp.UTC().Format(time.RFC3339),
		RefreshToken:       refresh,
		User:               access.User,
		Permissions:        access.PermissionList(),
	}, nil
}

func issueRefreshToken(tx *gorm.DB, ts TokenSettings, userID int64, t time.Time) (string, error) {
	plain := tools.RandomString(ts.RefreshLen)
	exp := t.Add(ts.RefreshTTL)
	rt := models.RefreshToken{
		UserID:    userID,
		TokenHash: tools.EncryptTextSHA512(plain),
		ExpiresAt: &exp,
	}
	if err := tx.Create(&rt).Error; err != nil {
		return "", err
	}
	return plain, nil
}

func revokeAllUserRefreshTokens(tx *gorm.DB, userID int64, t time.Time) error {
	return tx.Model(&models.RefreshToken{}).
		Where("user_id = ? AND revoked_at IS NULL", userID).
		UpdateColumn("revoked_at", &t).Error
}

// PurgeRefreshTokens remove tokens expirados ou revogados há mais de retention.
func PurgeRefreshTokens(db *gorm.DB, t time.Time, retention time.Duration) (int64, error) {
	cutoff := t.Add(-retention)
	res := db.Where("expires_at < ? OR revoked_at < ?", cutoff, cutoff).Delete(&models.RefreshToken{})
	return res.RowsAffected, res.Error
}
