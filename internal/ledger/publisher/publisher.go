// Package publisher drains the ledger outbox to a Kafka topic.
package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"organmatch/internal/ledger/metrics"
	"organmatch/internal/ledger/outbox"
)

const (
	defaultInterval  = 2 * time.Second
	defaultBatchSize = 100
)

// Producer is the subset of *kgo.Client the publisher uses.
type Producer interface {
	ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults
}

// Outbox is the durable queue being drained.
type Outbox interface {
	Pending(limit int) ([]outbox.Entry, error)
	MarkSent(e outbox.Entry, now time.Time) error
	MarkFailed(e outbox.Entry, now time.Time) error
	Ack(e outbox.Entry) error
}

type Publisher struct {
	producer  Producer
	outbox    Outbox
	topic     string
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

type Option func(*Publisher)

func WithInterval(d time.Duration) Option {
	return func(p *Publisher) {
		if d > 0 {
			p.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(p *Publisher) {
		if n > 0 {
			p.batchSize = n
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

func New(producer Producer, ob Outbox, topic string, opts ...Option) *Publisher {
	p := &Publisher{
		producer:  producer,
		outbox:    ob,
		topic:     topic,
		interval:  defaultInterval,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Run drains the outbox every interval until ctx is cancelled.
func (p *Publisher) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		if _, err := p.Drain(ctx); err != nil && p.logger != nil {
			p.logger.WarnContext(ctx, "outbox drain failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// Drain publishes one batch of pending entries and returns how many the
// broker acknowledged. Failed entries stay queued for the next drain.
func (p *Publisher) Drain(ctx context.Context) (int, error) {
	entries, err := p.outbox.Pending(p.batchSize)
	if err != nil {
		return 0, err
	}
	p.metrics.SetPending(len(entries))
	if len(entries) == 0 {
		return 0, nil
	}

	now := p.now()
	records := make([]*kgo.Record, 0, len(entries))
	sent := make([]outbox.Entry, 0, len(entries))
	for _, e := range entries {
		value, err := json.Marshal(&e.Record)
		if err != nil {
			return 0, err
		}
		if err := p.outbox.MarkSent(e, now); err != nil {
			return 0, err
		}
		records = append(records, &kgo.Record{
			Topic: p.topic,
			Key:   []byte(e.Record.ID.String()),
			Value: value,
			Headers: []kgo.RecordHeader{
				{Key: "tenant_id", Value: []byte(e.Record.TenantID.String())},
			},
		})
		sent = append(sent, e)
	}

	results := p.producer.ProduceSync(ctx, records...)
	acked := 0
	for i, res := range results {
		e := sent[i]
		if res.Err != nil {
			p.metrics.IncrementPublishFailure()
			if p.logger != nil {
				p.logger.WarnContext(ctx, "failed to publish transplant record",
					"record_id", e.Record.ID, "retries", e.Retries, "error", res.Err)
			}
			if err := p.outbox.MarkFailed(e, now); err != nil {
				return acked, err
			}
			continue
		}
		if err := p.outbox.Ack(e); err != nil {
			return acked, err
		}
		p.metrics.IncrementPublished()
		acked++
	}
	return acked, nil
}
