package engine

import (
	"context"
	"encoding/base64"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/frsuministros/orderflow/internal/common"
	"github.com/frsuministros/orderflow/internal/match"
	"github.com/frsuministros/orderflow/internal/model"
	"github.com/frsuministros/orderflow/internal/service"
)

// DefaultPollInterval is how often the poller checks the inbox when the
// configuration does not say otherwise.
const DefaultPollInterval = 30 * time.Second

// Poller runs the ingestion loop: fetch pending work items, match each one,
// publish the batch, and append it to history. Cycles are single-flight; a
// tick or manual trigger that lands while a cycle is running is skipped.
type Poller struct {
	mail      service.MailSource
	matcher   *match.Matcher
	publisher *Publisher
	sink      service.PredictionSink

	interval time.Duration
	pageSize int
	retry    service.RetryOptions

	running sync.Mutex
	trigger chan struct{}
}

// NewPoller wires the ingestion loop. interval <= 0 selects
// DefaultPollInterval, pageSize <= 0 selects 10.
func NewPoller(mail service.MailSource, matcher *match.Matcher, publisher *Publisher, sink service.PredictionSink, interval time.Duration, pageSize int, retry service.RetryOptions) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Poller{
		mail:      mail,
		matcher:   matcher,
		publisher: publisher,
		sink:      sink,
		interval:  interval,
		pageSize:  pageSize,
		retry:     retry,
		trigger:   make(chan struct{}, 1),
	}
}

// Run blocks until ctx is cancelled, executing one cycle per interval tick
// or manual trigger. The first cycle runs immediately.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.runCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Poller stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			p.runCycle(ctx)
		case <-p.trigger:
			p.runCycle(ctx)
		}
	}
}

// TriggerNow requests an immediate cycle. Non-blocking; if a trigger is
// already pending or a cycle is running, the request coalesces into it.
func (p *Poller) TriggerNow() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// runCycle performs one fetch-match-publish pass. A cycle that cannot fetch
// anything leaves the previous published batch in place.
func (p *Poller) runCycle(ctx context.Context) {
	if !p.running.TryLock() {
		slog.Debug("Skipping poll cycle, previous cycle still running")
		return
	}
	defer p.running.Unlock()

	var items []model.WorkItem
	err := common.WithRetry(ctx, func() error {
		var fetchErr error
		items, fetchErr = p.mail.FetchWorkItems(ctx, p.pageSize)
		return fetchErr
	}, p.retry)
	if err != nil {
		slog.Error("Failed to fetch work items", "error", err)
		return
	}

	// An emptied inbox is a real result: the batch must clear so the
	// frontend stops showing already-processed orders. Only a failed fetch
	// leaves the previous batch standing.
	if len(items) == 0 {
		slog.Debug("No pending work items, clearing batch")
		p.publisher.Publish(nil)
		return
	}

	batch := make([]model.Prediction, 0, len(items))
	for _, item := range items {
		prediction, ok := p.process(item)
		if !ok {
			continue
		}
		batch = append(batch, prediction)
	}

	p.publisher.Publish(batch)
	slog.Info("Published prediction batch", "items", len(items), "predictions", len(batch))

	// History is advisory; a failed append must not block publishing.
	if p.sink != nil {
		if err := p.sink.SaveBatch(ctx, batch); err != nil {
			slog.Warn("Failed to append batch to history", "error", err)
		}
	}
}

// process turns one work item into a prediction. Malformed items (no usable
// description) are dropped with a log line; they never poison the batch.
func (p *Poller) process(item model.WorkItem) (model.Prediction, bool) {
	description := strings.TrimSpace(item.Description)
	if description == "" {
		slog.Warn("Dropping work item without description", "source_id", item.SourceID)
		return model.Prediction{}, false
	}

	result := p.matcher.Match(description)

	prediction := model.Prediction{
		Description: strings.ToUpper(description),
		Quantity:    item.Quantity,
		SourceID:    item.SourceID,
		WorkOrderID: item.WorkOrderID,
		EmployeeID:  item.EmployeeID,
		FileName:    item.FileName,
	}
	if len(item.Audio) > 0 {
		prediction.AudioBase64 = base64.StdEncoding.EncodeToString(item.Audio)
	}

	if result.Matched {
		prediction.PredictedCode = result.Code
		prediction.CatalogDescription = result.Article.Description
		prediction.ArticleID = result.Article.ArticleID
		prediction.Confidence = result.Confidence
		if len(result.Article.Image) > 0 {
			prediction.ImageBase64 = base64.StdEncoding.EncodeToString(result.Article.Image)
		}
	}

	return prediction, true
}
