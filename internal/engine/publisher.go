// Package engine drives the prediction lifecycle: the poller ingests work
// items from mail on an interval, the publisher holds the batch the HTTP
// surface serves, and the updater applies human confirmations back into the
// store and catalog.
package engine

import (
	"sync"

	"github.com/frsuministros/orderflow/internal/model"
)

// Publisher holds the current prediction batch. Each publish replaces the
// batch wholesale; readers get defensive copies so a later publish cannot
// mutate what a handler already returned.
type Publisher struct {
	mu    sync.Mutex
	batch []model.Prediction
}

// NewPublisher returns a publisher with an empty batch.
func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish replaces the current batch.
func (p *Publisher) Publish(batch []model.Prediction) {
	copied := make([]model.Prediction, len(batch))
	copy(copied, batch)

	p.mu.Lock()
	p.batch = copied
	p.mu.Unlock()
}

// Snapshot returns a copy of the current batch. Never nil.
func (p *Publisher) Snapshot() []model.Prediction {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]model.Prediction, len(p.batch))
	copy(out, p.batch)
	return out
}
