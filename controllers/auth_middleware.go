package controllers

import (
	"strings"
	"sync"

	"clinica/apperror"
	"clinica/services"

	"github.com/gin-gonic/gin"
)

const ctxUserKey = "auth_user"
const ctxUserIDKey = "user_id"

var (
	settingsMu    sync.RWMutex
	tokenSettings services.TokenSettings
)

// SetTokenSettings define segredo e prazos usados por login, refresh e AuthRequired.
func SetTokenSettings(ts services.TokenSettings) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	tokenSettings = ts
}

func getTokenSettings() services.TokenSettings {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return tokenSettings
}

// AuthRequired valida o Bearer token e carrega o usuário com as permissões do papel.
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if len(h) < len("Bearer ") || !strings.EqualFold(h[:len("Bearer ")], "bearer ") {
			RespondError(c, apperror.Unauthorized("token de autorização não encontrado"))
			return
		}
		token := strings.TrimSpace(h[len("Bearer "):])

		userID, err := services.ParseAccessToken(getTokenSettings(), token)
		if err != nil {
			RespondError(c, err)
			return
		}

		db, ok := database(c)
		if !ok {
			return
		}
		access, err := services.LoadUserAccess(db, userID)
		if err != nil {
			RespondError(c, err)
			return
		}

		c.Set(ctxUserKey, access)
		c.Set(ctxUserIDKey, access.UserID())
		c.Next()
	}
}

// GetUserAccess devolve o acesso carregado por AuthRequired.
func GetUserAccess(c *gin.Context) (services.UserAccess, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return services.UserAccess{}, false
	}
	access, ok := v.(services.UserAccess)
	return access, ok
}

// currentAccess é o GetUserAccess dos handlers: sem acesso responde 401.
func currentAccess(c *gin.Context) (services.UserAccess, bool) {
	access, ok := GetUserAccess(c)
	if !ok {
		RespondError(c, apperror.Unauthorized(""))
		return services.UserAccess{}, false
	}
	return access, true
}
