package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	r.GET("/api/pacientes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", gin.WrapH(Handler()))

	for _, path := range []string{"/api/pacientes/1", "/api/pacientes/2", "/nada"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}
	LoginFailure("invalid_credentials")
	ReminderResult("sent")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, `clinica_http_requests_total{method="GET",route="/api/pacientes/:id",status="200"} 2`)
	assert.Contains(t, body, `route="unmatched",status="404"`)
	assert.Contains(t, body, `clinica_auth_login_failures_total{reason="invalid_credentials"} 1`)
	assert.Contains(t, body, `clinica_reminders_sent_total{result="sent"} 1`)
	assert.NotContains(t, body, `route="/metrics"`)
	assert.Contains(t, body, "go_goroutines")
}
