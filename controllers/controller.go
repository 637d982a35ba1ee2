package controllers

import (
	"net/http"

	"clinica/apperror"
	"clinica/logger"
	"clinica/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RespondError converte err em *apperror.AppError e responde
// {status, code, message, fieldErrors?}. Erros internos são logados e nunca vazam.
func RespondError(c *gin.Context, err error) {
	appErr := apperror.From(err)

	entry := logger.Log.WithFields(logrus.Fields{
		"trace_id": middleware.TraceID(c),
		"method":   c.Request.Method,
		"route":    c.FullPath(),
		"status":   appErr.Status,
		"code":     appErr.Code,
	})
	if appErr.Status >= http.StatusInternalServerError {
		entry.WithError(appErr.Err).Error(appErr.Message)
	} else {
		entry.Debug(appErr.Message)
	}

	c.AbortWithStatusJSON(appErr.Status, appErr)
}

func RespondSuccess(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// bindJSON valida o corpo contra as tags binding; em erro já responde 400.
func bindJSON(c *gin.Context, out any) bool {
	if err := c.ShouldBindJSON(out); err != nil {
		RespondError(c, apperror.FromBinding(err))
		return false
	}
	return true
}
