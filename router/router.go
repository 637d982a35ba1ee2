package router

import (
	"clinica/apperror"
	"clinica/config"
	"clinica/controllers"
	dbpkg "clinica/db"
	"clinica/logger"
	"clinica/metrics"
	"clinica/middleware"
	"clinica/models"
	"clinica/services"

	"github.com/gin-gonic/gin"
	"github.com/jinzhu/gorm"
)

// Initialize registra middlewares e rotas. Devolve o limitador do login para que
// o chamador possa fazer a limpeza periódica.
func Initialize(r *gin.Engine, cfg config.Configuration, db *gorm.DB) *middleware.RateLimiter {
	controllers.RegisterValidators()
	controllers.SetTokenSettings(services.TokenSettingsFrom(cfg))

	r.Use(gin.Recovery())
	r.Use(middleware.Trace())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORSOrigins))
	r.Use(dbpkg.SetDBtoContext(db))
	r.Use(Logger())

	r.NoRoute(func(c *gin.Context) {
		controllers.RespondError(c, apperror.NotFound("rota não encontrada"))
	})

	r.GET("/health", controllers.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	limiter := middleware.NewRateLimiter(cfg.Security.LoginPerMinute, cfg.Security.LoginBurst)

	api := r.Group("/api")

	// Public (no auth)
	api.POST("/login", limiter.Handler(), controllers.Login)
	api.POST("/refresh", limiter.Handler(), controllers.Refresh)

	// Authenticated routes (token required)
	auth := api.Group("")
	auth.Use(controllers.AuthRequired())

	auth.POST("/logout", controllers.Logout)
	auth.GET("/me", controllers.Me)
	auth.PUT("/me/password", controllers.ChangePassword)

	// Users
	auth.GET("/users", RequirePermission(models.PERM_USERS_READ), controllers.GetUsers)
	auth.GET("/users/:id", RequirePermission(models.PERM_USERS_READ), controllers.GetUserByID)
	auth.POST("/users", RequirePermission(models.PERM_USERS_WRITE), controllers.CreateUser)
	auth.PUT("/users/:id", RequirePermission(models.PERM_USERS_WRITE), controllers.UpdateUser)
	auth.POST("/users/:id/reset-password", RequirePermission(models.PERM_USERS_WRITE), controllers.ResetUserPassword)

	// Roles / permissions
	auth.GET("/permissions", RequirePermission(models.PERM_ROLES_READ), controllers.GetPermissions)
	auth.GET("/roles", RequirePermission(models.PERM_ROLES_READ), controllers.GetRoles)
	auth.GET("/roles/:id", RequirePermission(models.PERM_ROLES_READ), controllers.GetRoleByID)
	auth.POST("/roles", RequirePermission(models.PERM_ROLES_WRITE), controllers.CreateRole)
	auth.PUT("/roles/:id", RequirePermission(models.PERM_ROLES_WRITE), controllers.UpdateRole)
	auth.DELETE("/roles/:id", RequirePermission(models.PERM_ROLES_WRITE), controllers.DeleteRole)

	// Pacientes + anamnese
	auth.GET("/pacientes", RequirePermission(models.PERM_PACIENTES_READ), controllers.GetPacientes)
	auth.GET("/pacientes/:id", RequirePermission(models.PERM_PACIENTES_READ), controllers.GetPacienteByID)
	auth.POST("/pacientes", RequirePermission(models.PERM_PACIENTES_WRITE), controllers.CreatePaciente)
	auth.PUT("/pacientes/:id", RequirePermission(models.PERM_PACIENTES_WRITE), controllers.UpdatePaciente)
	auth.DELETE("/pacientes/:id", RequirePermission(models.PERM_PACIENTES_WRITE), controllers.DeletePaciente)
	auth.GET("/pacientes/:id/anamnese", RequirePermission(models.PERM_ANAMNESE_READ), controllers.GetAnamnese)
	auth.PUT("/pacientes/:id/anamnese", RequirePermission(models.PERM_ANAMNESE_WRITE), controllers.SaveAnamnese)

	// Terapeutas
	auth.GET("/terapeutas", RequirePermission(models.PERM_TERAPEUTAS_READ), controllers.GetTerapeutas)
	auth.GET("/terapeutas/:id", RequirePermission(models.PERM_TERAPEUTAS_READ), controllers.GetTerapeutaByID)
	auth.POST("/terapeutas", RequirePermission(models.PERM_TERAPEUTAS_WRITE), controllers.CreateTerapeuta)
	auth.PUT("/terapeutas/:id", RequirePermission(models.PERM_TERAPEUTAS_WRITE), controllers.UpdateTerapeuta)
	auth.DELETE("/terapeutas/:id", RequirePermission(models.PERM_TERAPEUTAS_WRITE), controllers.DeleteTerapeuta)
	auth.GET("/terapeutas/:id/agenda", RequirePermission(models.PERM_AGENDA_READ), controllers.GetTerapeutaAgenda)

	// Prontuário / evoluções
	auth.GET("/prontuario/:pacienteId", RequirePermission(models.PERM_PRONTUARIO_READ), controllers.GetProntuario)
	auth.POST("/prontuario/:pacienteId/evolucoes", RequirePermission(models.PERM_EVOLUCOES_WRITE), controllers.CreateEvolucao)
	auth.PUT("/evolucoes/:id", RequirePermission(models.PERM_EVOLUCOES_WRITE), controllers.UpdateEvolucao)
	auth.DELETE("/evolucoes/:id", RequirePermission(models.PERM_EVOLUCOES_WRITE), controllers.DeleteEvolucao)

	// Agenda
	auth.GET("/agendamentos", RequirePermission(models.PERM_AGENDA_READ), controllers.GetAgendamentos)
	auth.GET("/agendamentos/:id", RequirePermission(models.PERM_AGENDA_READ), controllers.GetAgendamentoByID)
	auth.POST("/agendamentos", RequirePermission(models.PERM_AGENDA_WRITE), controllers.CreateAgendamento)
	auth.PUT("/agendamentos/:id", RequirePermission(models.PERM_AGENDA_WRITE), controllers.RescheduleAgendamento)
	auth.PATCH("/agendamentos/:id/status", RequirePermission(models.PERM_AGENDA_WRITE), controllers.SetAgendamentoStatus)
	auth.DELETE("/agendamentos/:id", RequirePermission(models.PERM_AGENDA_WRITE), controllers.CancelAgendamento)

	// Relatórios
	auth.GET("/relatorios/frequencia", RequirePermission(models.PERM_RELATORIOS_READ), controllers.GetRelatorioFrequencia)
	auth.GET("/relatorios/atendimentos", RequirePermission(models.PERM_RELATORIOS_READ), controllers.GetRelatorioAtendimentos)

	// Auditoria
	auth.GET("/audit-logs", RequirePermission(models.PERM_AUDIT_READ), controllers.GetAuditLogs)

	logger.Log.WithField("routes", len(r.Routes())).Info("routes initialized")
	return limiter
}

// NewEngine cria o gin.Engine sem os middlewares padrão (o logging é o nosso).
func NewEngine() *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = false
	r.RedirectTrailingSlash = true
	return r
}
