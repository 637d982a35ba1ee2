package router

import (
	"clinica/apperror"
	"clinica/controllers"

	"github.com/gin-gonic/gin"
)

// RequirePermission bloqueia a rota quando o papel do usuário não tem todas as permissões.
func RequirePermission(perms ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		access, ok := controllers.GetUserAccess(c)
		if !ok {
			controllers.RespondError(c, apperror.Unauthorized(""))
			return
		}
		if !access.Can(perms...) {
			controllers.RespondError(c, apperror.Forbidden(""))
			return
		}
		c.Next()
	}
}
