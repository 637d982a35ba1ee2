package workers

import (
	"context"
	"time"

	"clinica/logger"
	"clinica/metrics"
	"clinica/services"

	"github.com/jinzhu/gorm"
	"github.com/sirupsen/logrus"
)

// Sender envia uma mensagem de texto para um telefone já normalizado.
// tools.WhatsAppClient satisfaz esta interface.
type Sender interface {
	SendText(ctx context.Context, to string, text string) error
}

// ReminderWorker avisa pacientes sobre sessões que começam dentro de Window.
type ReminderWorker struct {
	DB       *gorm.DB
	Sender   Sender
	Window   time.Duration
	Interval time.Duration
	Location *time.Location
	Batch    int
	Now      func() time.Time
}

// Start roda RunOnce a cada Interval até ctx ser cancelado.
func (w ReminderWorker) Start(ctx context.Context) {
	interval := w.Interval
	if interval <= 0 {
		interval = 5 * time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		logger.Log.WithField("interval", interval.String()).Info("reminders worker: iniciado")
		for {
			select {
			case <-ctx.Done():
				logger.Log.Info("reminders worker: encerrado")
				return
			case <-ticker.C:
				if _, err := w.RunOnce(ctx); err != nil {
					logger.Log.WithError(err).Error("reminders worker: falha no ciclo")
				}
			}
		}
	}()
}

// RunOnce processa um lote de lembretes pendentes e devolve quantos foram enviados.
func (w ReminderWorker) RunOnce(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	if w.Now != nil {
		now = w.Now()
	}

	due, err := services.DueReminders(w.DB, now, w.Window, w.Batch)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, l := range due {
		if ctx.Err() != nil {
			return sent, ctx.Err()
		}

		// lock otimista: só envia quem conseguir marcar o lembrete
		claimed, err := services.ClaimReminder(w.DB, l.AgendamentoID, now)
		if err != nil {
			return sent, err
		}
		if !claimed {
			metrics.ReminderResult("skipped")
			continue
		}

		entry := logger.Log.WithFields(logrus.Fields{
			"agendamento_id": l.AgendamentoID,
			"inicio":         l.Inicio.Format(time.RFC3339),
		})

		sendCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		err = w.Sender.SendText(sendCtx, l.Telefone, l.Mensagem(w.Location))
		cancel()
		if err != nil {
			entry.WithError(err).Warn("reminders worker: envio falhou")
			metrics.ReminderResult("failed")
			if err := services.ReleaseReminder(w.DB, l.AgendamentoID); err != nil {
				entry.WithError(err).Error("reminders worker: falha ao liberar lembrete")
			}
			continue
		}

		entry.Info("reminders worker: lembrete enviado")
		metrics.ReminderResult("sent")
		sent++
	}
	return sent, nil
}
