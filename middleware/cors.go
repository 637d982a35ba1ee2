package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS libera as origens configuradas (front React). "*" na lista libera todas.
func CORS(origins []string) gin.HandlerFunc {
	conf := cors.DefaultConfig()
	conf.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	conf.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Trace-ID"}
	conf.ExposeHeaders = []string{"X-Trace-ID"}
	conf.MaxAge = 12 * time.Hour

	for _, o := range origins {
		if o == "*" {
			conf.AllowAllOrigins = true
			return cors.New(conf)
		}
	}
	conf.AllowOrigins = origins
	conf.AllowCredentials = true
	return cors.New(conf)
}
