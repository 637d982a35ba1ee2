package models

import "time"

/************************************************
/**** MARK: ROLES ****/
/************************************************/
const ROLE_ADMIN = "admin"
const ROLE_TERAPEUTA = "terapeuta"
const ROLE_RECEPCAO = "recepcao"

// Role agrupa permissões; cada usuário tem exatamente um papel.
type Role struct {
	ID          int64        `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	Name        string       `gorm:"not null;unique_index" json:"name"`
	Description string       `gorm:"type:text" json:"description"`
	Permissions []Permission `gorm:"many2many:role_permissions;association_autoupdate:false;association_autocreate:false;association_save_reference:false" json:"permissions"`
	CreatedAt   *time.Time   `json:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at"`
}

// PermissionNames devolve os nomes das permissões do papel.
func (r Role) PermissionNames() []string {
	out := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		out = append(out, p.Name)
	}
	return out
}
