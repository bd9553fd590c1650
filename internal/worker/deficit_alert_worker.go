package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/armencho53/JMSK-Backend/internal/infra"

	"github.com/rs/zerolog/log"
)

// DeficitAlertWorker mails the configured recipient when a safe entry goes
// negative. Alerts are informational: failures are logged, never retried.
type DeficitAlertWorker struct {
	mailer *infra.Mailer
	to     string
}

func NewDeficitAlertWorker(mailer *infra.Mailer, to string) *DeficitAlertWorker {
	return &DeficitAlertWorker{mailer: mailer, to: to}
}

func (w *DeficitAlertWorker) Process(ctx context.Context, raw json.RawMessage) {
	var payload DeficitAlertPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("deficit alert: bad payload")
		return
	}

	if w.to == "" {
		log.Warn().
			Str("metal", payload.Metal).
			Float64("quantity_grams", payload.QuantityGrams).
			Msg("safe deficit detected, alert email not configured")
		return
	}

	subject := fmt.Sprintf("Safe deficit: %s at %.2fg", payload.Metal, payload.QuantityGrams)
	body := fmt.Sprintf(
		"The safe supply for %s (%s) is in deficit.\n\nCurrent quantity: %.4f grams\nTenant: %s\n\nReplenish stock or record an adjustment.",
		payload.Metal, payload.SupplyType, payload.QuantityGrams, payload.TenantID,
	)
	if err := w.mailer.Send(w.to, subject, body); err != nil {
		log.Error().Err(err).Str("metal", payload.Metal).Msg("deficit alert email failed")
		return
	}
	log.Info().Str("metal", payload.Metal).Float64("quantity_grams", payload.QuantityGrams).Msg("deficit alert sent")
}
