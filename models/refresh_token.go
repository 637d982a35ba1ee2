package models

import "time"

// RefreshToken é a sessão longa de um usuário. Só o hash do token é persistido;
// cada uso revoga os tokens ativos do usuário e emite um novo (rotação).
type RefreshToken struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	TokenHash string     `gorm:"not null;unique_index" json:"-"`
	RevokedAt *time.Time `json:"revoked_at"`
	ExpiresAt *time.Time `json:"expires_at"`
	CreatedAt *time.Time `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

func (rt RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt RefreshToken) IsExpired(now time.Time) bool {
	if rt.ExpiresAt == nil {
		return false
	}
	return now.After(*rt.ExpiresAt)
}

// Usable combina as duas checagens acima.
func (rt RefreshToken) Usable(now time.Time) bool {
	return !rt.IsRevoked() && !rt.IsExpired(now)
}
