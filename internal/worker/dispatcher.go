package worker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const QueueDeficitAlerts = "jobs:deficit-alerts"

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// DeficitAlertPayload describes a safe entry that went negative.
type DeficitAlertPayload struct {
	TenantID      string  `json:"tenant_id"`
	Metal         string  `json:"metal"` // metal code, or "alloy"
	SupplyType    string  `json:"supply_type"`
	QuantityGrams float64 `json:"quantity_grams"`
}

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// EnqueueDeficitAlert pushes a deficit alert job to Redis. Best-effort:
// callers fire and forget, a lost alert never fails the ledger operation.
func (d *Dispatcher) EnqueueDeficitAlert(ctx context.Context, payload DeficitAlertPayload) error {
	return d.enqueue(ctx, QueueDeficitAlerts, "deficit-alert", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}
