package models

import "time"

const AUDIT_CREATE = "create"
const AUDIT_UPDATE = "update"
const AUDIT_DELETE = "delete"
const AUDIT_STATUS = "status"

// AuditLog registra quem alterou o quê. É gravado na mesma transação da alteração.
type AuditLog struct {
	ID        int64      `gorm:"primary_key;AUTO_INCREMENT" json:"id"`
	UserID    int64      `gorm:"not null;index" json:"user_id"`
	Action    string     `gorm:"not null" json:"action"`
	Entity    string     `gorm:"not null;index" json:"entity"`
	EntityID  int64      `gorm:"not null" json:"entity_id"`
	Details   string     `gorm:"type:text" json:"details"`
	CreatedAt *time.Time `json:"created_at"`
}
