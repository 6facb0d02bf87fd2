package worker

// notificacion_worker.go
// Processes financial alert notifications from QueueNotificaciones.
// Delivers low-cash and negative-profit alerts to the admin inbox via SMTP.

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/AndresLP020/Punto-de-Venta-NutriAla/internal/infra"

	"github.com/rs/zerolog/log"
)

// NotificacionPayload is the job envelope sent to QueueNotificaciones.
type NotificacionPayload struct {
	ToEmail string `json:"to_email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// NotificacionWorker delivers alert emails dequeued from Redis.
type NotificacionWorker struct {
	mailer *infra.Mailer
}

func NewNotificacionWorker(mailer *infra.Mailer) *NotificacionWorker {
	return &NotificacionWorker{mailer: mailer}
}

// Process sends one alert email. A failure is returned to the pool so the
// job lands in the DLQ instead of being silently dropped.
func (w *NotificacionWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload NotificacionPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return err
	}
	if payload.ToEmail == "" {
		log.Warn().Msg("notificacion_worker: empty to_email — skipping")
		return nil
	}
	if w.mailer == nil {
		return errors.New("notificacion_worker: SMTP no configurado")
	}

	if err := w.mailer.SendAlerta(payload.ToEmail, payload.Subject, payload.Body); err != nil {
		log.Error().Err(err).Str("to", payload.ToEmail).Msg("notificacion_worker: failed to send email")
		return err
	}
	log.Info().Str("to", payload.ToEmail).Msg("notificacion_worker: alerta enviada")
	return nil
}
