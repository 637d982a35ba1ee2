package db

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"clinica/config"
	"clinica/logger"
	"clinica/models"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/postgres"
	_ "github.com/jinzhu/gorm/dialects/sqlite"
	"github.com/sirupsen/logrus"
)

func init() {
	// timestamps sempre em UTC e sem fração de segundo: o sqlite compara datas como texto
	gorm.NowFunc = func() time.Time {
		return time.Now().UTC().Truncate(time.Second)
	}
}

// Models lista tudo que participa do AutoMigrate.
var Models = []interface{}{
	&models.Permission{},
	&models.Role{},
	&models.User{},
	&models.RefreshToken{},
	&models.Terapeuta{},
	&models.Paciente{},
	&models.Anamnese{},
	&models.Evolucao{},
	&models.Agendamento{},
	&models.AuditLog{},
}

// Connect abre conexão com o banco (sqlite3 por padrão ou postgres).
func Connect(conf config.Configuration) (*gorm.DB, error) {
	database := strings.ToLower(conf.Database)

	var (
		db  *gorm.DB
		err error
	)

	if database == "postgres" || database == "postgresql" {
		logger.Log.Info("utilizando conexão com o postgresql")
		db, err = gorm.Open("postgres", conf.PostgresDSN())
	} else {
		logger.Log.WithField("path", conf.SqlitePath).Info("utilizando conexão com o sqlite3")
		if dir := filepath.Dir(conf.SqlitePath); dir != "" {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, err
			}
		}
		db, err = gorm.Open("sqlite3", conf.SqlitePath)
		if err == nil {
			db.DB().SetMaxOpenConns(1)
			db.Exec("PRAGMA foreign_keys = ON")
		}
	}

	if err != nil {
		logger.Log.WithError(err).Error("falha ao conectar no banco")
		return nil, err
	}

	db.SetLogger(gormLogger{})
	db.LogMode(logger.Log.IsLevelEnabled(logrus.DebugLevel))

	return db, nil
}

// Migrate cria/atualiza as tabelas.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...).Error
}

// Pinger é satisfeito por *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Health verifica se o banco responde dentro do prazo.
func Health(ctx context.Context, p Pinger) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.PingContext(ctx)
}

// gormLogger envia o log SQL do gorm para o logrus em nível debug.
type gormLogger struct{}

func (gormLogger) Print(values ...interface{}) {
	if len(values) > 3 && values[0] == "sql" {
		logger.Log.WithFields(logrus.Fields{
			"source":   values[1],
			"duration": values[2],
			"sql":      values[3],
		}).Debug("gorm")
		return
	}
	logger.Log.Debug(values...)
}
