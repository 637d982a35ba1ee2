package services

import (
	"testing"

	"clinica/models"
	"clinica/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditAndList(t *testing.T) {
	conn := testutil.NewDB(t)

	require.NoError(t, Audit(conn, 1, models.AUDIT_CREATE, "pacientes", 10, "Ana"))
	require.NoError(t, Audit(conn, 2, models.AUDIT_UPDATE, "pacientes", 10, map[string]int{"x": 1}))
	require.NoError(t, Audit(conn, 2, models.AUDIT_DELETE, "roles", 3, nil))

	logs, err := ListAuditLogs(conn, AuditFilter{Entity: "pacientes"})
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, models.AUDIT_UPDATE, logs[0].Action)
	assert.Equal(t, `{"x":1}`, logs[0].Details)
	assert.Equal(t, "Ana", logs[1].Details)

	user := int64(2)
	logs, err = ListAuditLogs(conn, AuditFilter{UserID: &user, Limit: 1})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "roles", logs[0].Entity)
	assert.Empty(t, logs[0].Details)
}
