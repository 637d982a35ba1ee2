package models

import "time"

// User representa um usuário do sistema (recepção, terapeuta, administrador).
type User struct {
	ID          int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string     `gorm:"not null" json:"name"`
	Email       string     `gorm:"not null;unique_index" json:"email"`
	Password    string     `gorm:"not null" json:"-"`
	RoleID      int64      `gorm:"not null;index" json:"role_id"`
	Role        Role       `gorm:"association_autoupdate:false;association_autocreate:false;association_save_reference:false" json:"role"`
	TerapeutaID *int64     `gorm:"index" json:"terapeuta_id"`
	Active      bool       `gorm:"not null;default:true" json:"active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}
