package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const TraceHeader = "X-Trace-ID"

const traceKey = "trace_id"

// Trace reaproveita o X-Trace-ID recebido ou gera um novo, devolvendo-o na resposta.
func Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceHeader)
		if traceID == "" || len(traceID) > 128 {
			traceID = uuid.NewString()
		}
		c.Set(traceKey, traceID)
		c.Header(TraceHeader, traceID)
		c.Next()
	}
}

// TraceID devolve o id da requisição atual ("" fora do middleware).
func TraceID(c *gin.Context) string {
	return c.GetString(traceKey)
}
