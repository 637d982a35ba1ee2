package router

import (
	"time"

	"clinica/logger"
	"clinica/middleware"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Logger registra método, rota, status, latência, trace id e usuário de cada requisição.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"latency":  time.Since(start).String(),
			"ip":       c.ClientIP(),
			"trace_id": middleware.TraceID(c),
		}
		if userID, ok := c.Get("user_id"); ok {
			fields["user_id"] = userID
		}

		entry := logger.Log.WithFields(fields)
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("request")
		case c.Writer.Status() >= 400:
			entry.Warn("request")
		default:
			entry.Info("request")
		}
	}
}
