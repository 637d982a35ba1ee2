package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"clinica/config"
	"clinica/db"
	"clinica/logger"
	"clinica/router"
	"clinica/tools"
	"clinica/workers"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

func main() {
	defaultConfig := os.Getenv("CLINICA_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "config.json"
	}
	configPath := flag.String("config", defaultConfig, "caminho do arquivo de configuração")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("falha ao carregar configuração")
	}

	closer, err := logger.Setup(conf.LogLevel, conf.LogPath)
	if err != nil {
		logger.Log.WithError(err).Fatal("falha ao configurar log")
	}
	if closer != nil {
		defer closer.Close()
	}

	if conf.Security.JwtSecret == "CHANGE_ME" {
		logger.Log.Warn("jwt_secret padrão em uso, defina JWT_SECRET")
	}

	database, err := db.Connect(conf)
	if err != nil {
		logger.Log.WithError(err).Fatal("falha ao conectar no banco")
	}
	defer database.Close()

	if !conf.SkipMigrate {
		if err := db.Migrate(database); err != nil {
			logger.Log.WithError(err).Fatal("falha na migração")
		}
	}
	if err := db.Seed(database, conf); err != nil {
		logger.Log.WithError(err).Fatal("falha ao semear dados iniciais")
	}

	if !logger.Log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.NewEngine()
	limiter := router.Initialize(engine, conf, database)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	workers.StartMaintenance(ctx, database, limiter, time.Hour)
	startReminders(ctx, conf, database)

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.WithField("port", conf.ApiPort).Info("clinica api ouvindo")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.WithError(err).Fatal("falha no servidor http")
		}
	}()

	<-ctx.Done()
	logger.Log.Info("encerrando...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("shutdown forçado")
	}
}

func startReminders(ctx context.Context, conf config.Configuration, database *gorm.DB) {
	wa := tools.WhatsAppClient{
		AccessToken:   conf.Reminders.AccessToken,
		ApiVersion:    conf.Reminders.ApiVersion,
		PhoneNumberID: conf.Reminders.PhoneNumberID,
	}
	if !conf.Reminders.Enabled || !wa.Configured() {
		logger.Log.Info("lembretes de consulta desativados")
		return
	}

	loc, err := time.LoadLocation(conf.Reminders.Timezone)
	if err != nil {
		logger.Log.WithError(err).WithField("timezone", conf.Reminders.Timezone).Warn("fuso inválido, usando UTC")
		loc = time.UTC
	}

	workers.ReminderWorker{
		DB:       database,
		Sender:   wa,
		Window:   time.Duration(conf.Reminders.WindowHours) * time.Hour,
		Interval: time.Duration(conf.Reminders.IntervalSeconds) * time.Second,
		Location: loc,
	}.Start(ctx)
}
