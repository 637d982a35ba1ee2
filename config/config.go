package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Configuration struct {
	ApiPort  string `json:"api_port"`
	LogPath  string `json:"log_path"`
	LogLevel string `json:"log_level"`

	Database    string `json:"database"` // "sqlite3" ou "postgres"
	DatabaseURL string `json:"database_url"`
	DbHost      string `json:"db_host"`
	DbPort      string `json:"db_port"`
	DbUser      string `json:"db_user"`
	DbName      string `json:"db_name"`
	DbPass      string `json:"db_pass"`
	DbSSLMode   string `json:"db_sslmode"`
	SqlitePath  string `json:"sqlite_path"`
	SkipMigrate bool   `json:"skip_migrate"` // schema gerenciado fora da aplicação

	Security struct {
		JwtSecret             string `json:"jwt_secret"`
		AccessTokenTTLMinutes int    `json:"access_token_ttl_minutes"`
		RefreshTokenTTLDays   int    `json:"refresh_token_ttl_days"`
		RefreshTokenLen       int    `json:"refresh_token_len"`
		BcryptCost            int    `json:"bcrypt_cost"`
		LoginPerMinute        int    `json:"login_per_minute"`
		LoginBurst            int    `json:"login_burst"`
	} `json:"security"`

	CORSOrigins []string `json:"cors_origins"`

	Seed struct {
		AdminName     string `json:"admin_name"`
		AdminEmail    string `json:"admin_email"`
		AdminPassword string `json:"admin_password"`
	} `json:"seed"`

	Reminders struct {
		Enabled         bool   `json:"enabled"`
		WindowHours     int    `json:"window_hours"`
		IntervalSeconds int    `json:"interval_seconds"`
		AccessToken     string `json:"whatsapp_access_token"`
		PhoneNumberID   string `json:"whatsapp_phone_number_id"`
		ApiVersion      string `json:"whatsapp_api_version"`
		Timezone        string `json:"timezone"`
	} `json:"reminders"`
}

// Load lê o arquivo de configuração (opcional), aplica o .env e as variáveis de ambiente
// e completa os valores padrão.
func Load(path string) (Configuration, error) {
	var c Configuration

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return c, fmt.Errorf("load .env: %w", err)
	}

	if path != "" {
		b, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(b, &c); err != nil {
				return c, fmt.Errorf("parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
			// sem arquivo: só env + defaults
		default:
			return c, fmt.Errorf("read %s: %w", path, err)
		}
	}

	applyEnv(&c)
	applyDefaults(&c)
	return c, nil
}

func applyEnv(c *Configuration) {
	setString(&c.ApiPort, "PORT")
	setString(&c.LogPath, "LOG_PATH")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Database, "DATABASE")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.DbHost, "DB_HOST")
	setString(&c.DbPort, "DB_PORT")
	setString(&c.DbUser, "DB_USER")
	setString(&c.DbName, "DB_NAME")
	setString(&c.DbPass, "DB_PASS")
	setString(&c.SqlitePath, "SQLITE_PATH")
	setString(&c.Security.JwtSecret, "JWT_SECRET")
	setString(&c.Seed.AdminEmail, "SEED_ADMIN_EMAIL")
	setString(&c.Seed.AdminPassword, "SEED_ADMIN_PASSWORD")
	setString(&c.Reminders.AccessToken, "WHATSAPP_ACCESS_TOKEN")
	setString(&c.Reminders.PhoneNumberID, "WHATSAPP_PHONE_NUMBER_ID")

	if v := strings.TrimSpace(os.Getenv("REMINDERS_ENABLED")); v != "" {
		c.Reminders.Enabled = v == "1" || strings.EqualFold(v, "true")
	}

	if v := strings.TrimSpace(os.Getenv("SKIP_MIGRATE")); v != "" {
		c.SkipMigrate = v == "1" || strings.EqualFold(v, "true")
	}
	if v := strings.TrimSpace(os.Getenv("ACCESS_TOKEN_TTL_MINUTES")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Security.AccessTokenTTLMinutes = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGINS")); v != "" {
		c.CORSOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.CORSOrigins = append(c.CORSOrigins, o)
			}
		}
	}
}

func applyDefaults(c *Configuration) {
	if c.ApiPort == "" {
		c.ApiPort = "8080"
	}
	if c.LogPath == "" {
		c.LogPath = "logs/server.log"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Database == "" {
		c.Database = "sqlite3"
	}
	if c.DbPort == "" {
		c.DbPort = "5432"
	}
	if c.DbSSLMode == "" {
		c.DbSSLMode = "disable"
	}
	if c.SqlitePath == "" {
		c.SqlitePath = "db/database.db"
	}
	if c.Security.JwtSecret == "" {
		c.Security.JwtSecret = "CHANGE_ME"
	}
	if c.Security.AccessTokenTTLMinutes <= 0 {
		c.Security.AccessTokenTTLMinutes = 60
	}
	if c.Security.RefreshTokenTTLDays <= 0 {
		c.Security.RefreshTokenTTLDays = 30
	}
	if c.Security.RefreshTokenLen <= 0 {
		c.Security.RefreshTokenLen = 48
	}
	if c.Security.BcryptCost <= 0 {
		c.Security.BcryptCost = 10
	}
	if c.Security.LoginPerMinute <= 0 {
		c.Security.LoginPerMinute = 10
	}
	if c.Security.LoginBurst <= 0 {
		c.Security.LoginBurst = 5
	}
	if len(c.CORSOrigins) == 0 {
		c.CORSOrigins = []string{"http://localhost:3000"}
	}
	if c.Seed.AdminName == "" {
		c.Seed.AdminName = "Administrador"
	}
	if c.Reminders.WindowHours <= 0 {
		c.Reminders.WindowHours = 24
	}
	if c.Reminders.IntervalSeconds <= 0 {
		c.Reminders.IntervalSeconds = 300
	}
	if c.Reminders.Timezone == "" {
		c.Reminders.Timezone = "America/Sao_Paulo"
	}
}

// PostgresDSN monta a string de conexão no formato aceito pelo lib/pq.
func (c Configuration) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	path := "host=" + c.DbHost + " port=" + c.DbPort
	path += " user=" + c.DbUser + " dbname=" + c.DbName
	path += " password=" + c.DbPass + " sslmode=" + c.DbSSLMode
	return path
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}
