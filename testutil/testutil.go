// Package testutil monta banco sqlite em memória com migração e seed, para os testes.
package testutil

import (
	"testing"
	"time"

	"clinica/config"
	"clinica/db"
	"clinica/models"
	"clinica/tools"

	"github.com/jinzhu/gorm"
	"github.com/stretchr/testify/require"
)

const AdminEmail = "admin@clinica.test"
const AdminPassword = "admin12345"

// Config devolve uma configuração de teste (bcrypt barato, limites altos).
func Config() config.Configuration {
	var c config.Configuration
	c.ApiPort = "0"
	c.LogLevel = "error"
	c.Database = "sqlite3"
	c.SqlitePath = ":memory:"
	c.Security.JwtSecret = "test-secret"
	c.Security.AccessTokenTTLMinutes = 15
	c.Security.RefreshTokenTTLDays = 1
	c.Security.RefreshTokenLen = 32
	c.Security.BcryptCost = 4
	c.Security.LoginPerMinute = 1000
	c.Security.LoginBurst = 1000
	c.CORSOrigins = []string{"*"}
	c.Seed.AdminName = "Admin"
	c.Seed.AdminEmail = AdminEmail
	c.Seed.AdminPassword = AdminPassword
	return c
}

// NewDB abre um sqlite em memória exclusivo do teste, já migrado e semeado.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// uma conexão só: cada conexão nova em :memory: seria outro banco
	conn.DB().SetMaxOpenConns(1)
	conn.LogMode(false)

	require.NoError(t, db.Migrate(conn))
	require.NoError(t, db.Seed(conn, Config()))

	t.Cleanup(func() { conn.Close() })
	return conn
}

// Role busca um papel semeado pelo nome.
func Role(t *testing.T, conn *gorm.DB, name string) models.Role {
	t.Helper()
	var role models.Role
	require.NoError(t, conn.Where("name = ?", name).First(&role).Error)
	return role
}

// Admin devolve o usuário admin criado pelo seed.
func Admin(t *testing.T, conn *gorm.DB) models.User {
	t.Helper()
	var user models.User
	require.NoError(t, conn.Where("email = ?", AdminEmail).First(&user).Error)
	return user
}

// CreateUser grava um usuário ativo com o papel informado.
func CreateUser(t *testing.T, conn *gorm.DB, roleName, email, password string) models.User {
	t.Helper()
	hash, err := tools.HashPassword(password, 4)
	require.NoError(t, err)

	user := models.User{
		Name:     email,
		Email:    email,
		Password: hash,
		RoleID:   Role(t, conn, roleName).ID,
		Active:   true,
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func CreateTerapeuta(t *testing.T, conn *gorm.DB, nome string) models.Terapeuta {
	t.Helper()
	terapeuta := models.Terapeuta{Nome: nome, Especialidade: "Psicologia", Ativo: true}
	require.NoError(t, conn.Create(&terapeuta).Error)
	return terapeuta
}

func CreatePaciente(t *testing.T, conn *gorm.DB, nome, telefone string) models.Paciente {
	t.Helper()
	paciente := models.Paciente{Nome: nome, Telefone: telefone, Ativo: true}
	require.NoError(t, conn.Create(&paciente).Error)
	return paciente
}

// CreateAgendamento grava direto no banco, sem checar conflitos.
func CreateAgendamento(t *testing.T, conn *gorm.DB, pacienteID, terapeutaID int64, inicio time.Time, status string) models.Agendamento {
	t.Helper()
	inicio = inicio.UTC().Truncate(time.Second)
	a := models.Agendamento{
		PacienteID:  pacienteID,
		TerapeutaID: terapeutaID,
		Inicio:      inicio,
		Fim:         inicio.Add(50 * time.Minute),
		Status:      status,
	}
	require.NoError(t, conn.Create(&a).Error)
	return a
}
