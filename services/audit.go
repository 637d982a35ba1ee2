package services

import (
	"encoding/json"
	"fmt"
	"strings"

	"clinica/models"

	"github.com/jinzhu/gorm"
)

// Audit grava um registro de auditoria. Deve receber a mesma transação da alteração.
func Audit(tx *gorm.DB, actorID int64, action, entity string, entityID int64, details interface{}) error {
	var text string
	switch d := details.(type) {
	case nil:
	case string:
		text = d
	default:
		b, err := json.Marshal(d)
		if err != nil {
			return fmt.Errorf("audit details: %w", err)
		}
		text = string(b)
	}

	entry := models.AuditLog{
		UserID:   actorID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  text,
	}
	if err := tx.Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

type AuditFilter struct {
	Entity string
	UserID *int64
	Limit  int
}

// ListAuditLogs devolve os registros mais recentes primeiro (limite 1..500, padrão 100).
func ListAuditLogs(db *gorm.DB, f AuditFilter) ([]models.AuditLog, error) {
	if f.Limit <= 0 {
		f.Limit = 100
	}
	if f.Limit > 500 {
		f.Limit = 500
	}

	q := db.Model(&models.AuditLog{})
	if e := strings.TrimSpace(f.Entity); e != "" {
		q = q.Where("entity = ?", e)
	}
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}

	var logs []models.AuditLog
	if err := q.Order("id desc").Limit(f.Limit).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
