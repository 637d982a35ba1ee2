package services

import (
	"testing"

	"clinica/models"
	"clinica/testutil"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

func adminAccess(t *testing.T, conn *gorm.DB) UserAccess {
	t.Helper()
	access, err := LoadUserAccess(conn, testutil.Admin(t, conn).ID)
	require.NoError(t, err)
	return access
}

func accessFor(t *testing.T, conn *gorm.DB, role, email string) UserAccess {
	t.Helper()
	user := testutil.CreateUser(t, conn, role, email, "senha12345")
	access, err := LoadUserAccess(conn, user.ID)
	require.NoError(t, err)
	return access
}

func auditCount(t *testing.T, conn *gorm.DB, entity string, entityID int64) int {
	t.Helper()
	var n int
	require.NoError(t, conn.Model(&models.AuditLog{}).Where("entity = ? AND entity_id = ?", entity, entityID).Count(&n).Error)
	return n
}
