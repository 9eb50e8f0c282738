// Package service defines the interfaces the engine needs from its
// collaborators. Implementations live in their own packages; the engine
// only sees these contracts.
package service

import (
	"context"
	"time"

	"github.com/frsuministros/orderflow/internal/model"
)

// MailSource is the external mail integration the ingestion loop pulls
// from. Both operations may fail transiently and must be retryable without
// side effects on retry.
type MailSource interface {
	// FetchWorkItems returns zero or more pending work items, bounded by
	// pageSize.
	FetchWorkItems(ctx context.Context, pageSize int) ([]model.WorkItem, error)

	// MarkProcessed acknowledges a work item so it is not re-ingested.
	// Idempotent: acknowledging an already-processed id is a no-op.
	MarkProcessed(ctx context.Context, sourceID string) error
}

// AudioSource optionally exposes voice attachments from the mail inbox.
type AudioSource interface {
	// FetchAudio returns the newest pending audio attachment, or ok=false
	// when there is none.
	FetchAudio(ctx context.Context) (name string, data []byte, ok bool, err error)
}

// ConfirmedStore is the durable description-to-code override layer.
type ConfirmedStore interface {
	// Lookup returns the confirmed code for an exact normalized description.
	Lookup(normalizedDescription string) (string, bool)

	// Confirm normalizes the raw description, records the override, and
	// synchronously persists every serialized form before returning.
	Confirm(ctx context.Context, rawDescription, code string) (normalized string, err error)

	// All returns a copy of the current override map.
	All() map[string]string
}

// PredictionSink receives published batches for durable history.
type PredictionSink interface {
	SaveBatch(ctx context.Context, batch []model.Prediction) error
}

// RetryOptions configures retry behavior for collaborator calls.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
