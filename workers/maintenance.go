package workers

import (
	"context"
	"time"

	"clinica/logger"
	"clinica/middleware"
	"clinica/services"

	"github.com/jinzhu/gorm"
)

const refreshTokenRetention = 7 * 24 * time.Hour

// StartMaintenance faz a limpeza periódica: refresh tokens vencidos/revogados
// e IPs parados no limitador do login.
func StartMaintenance(ctx context.Context, db *gorm.DB, limiter *middleware.RateLimiter, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				runMaintenance(db, limiter, time.Now().UTC())
			}
		}
	}()
}

func runMaintenance(db *gorm.DB, limiter *middleware.RateLimiter, now time.Time) {
	purged, err := services.PurgeRefreshTokens(db, now, refreshTokenRetention)
	if err != nil {
		logger.Log.WithError(err).Error("maintenance: falha ao limpar refresh tokens")
	} else if purged > 0 {
		logger.Log.WithField("purged", purged).Info("maintenance: refresh tokens removidos")
	}

	if limiter != nil {
		limiter.Cleanup(30 * time.Minute)
	}
}
