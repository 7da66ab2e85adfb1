// Package events publishes lookup events to a sink in batches without
// blocking the views that record them.
package events

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/couchcryptid/weather-view-service/internal/domain"
	"github.com/couchcryptid/weather-view-service/internal/observability"
	"github.com/jonboulle/clockwork"
)

// BatchLoader writes multiple lookup events to the destination.
type BatchLoader interface {
	LoadBatch(ctx context.Context, events []domain.LookupEvent) error
}

// bufferBatches is how many full batches may queue before Record drops.
const bufferBatches = 16

// drainTimeout bounds the final flush after Run is cancelled.
const drainTimeout = 5 * time.Second

// Options configure a Publisher.
type Options struct {
	BatchSize     int
	FlushInterval time.Duration
	BufferSize    int // defaults to BatchSize * 16
	Clock         clockwork.Clock
	Logger        *slog.Logger
	Metrics       *observability.Metrics
}

// Publisher buffers recorded events and flushes them to a BatchLoader when a
// batch fills up or the flush interval passes. Failed writes are dropped.
type Publisher struct {
	loader  BatchLoader
	buf     chan domain.LookupEvent
	opts    Options
	running atomic.Bool
}

// NewPublisher creates a Publisher. Call Run to start flushing.
func NewPublisher(loader BatchLoader, opts Options) *Publisher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 50
	}
	if opts.FlushInterval <= 0 {
		opts.FlushInterval = 500 * time.Millisecond
	}
	if opts.BufferSize <= 0 {
		opts.BufferSize = opts.BatchSize * bufferBatches
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewMetricsForTesting()
	}
	return &Publisher{
		loader: loader,
		buf:    make(chan domain.LookupEvent, opts.BufferSize),
		opts:   opts,
	}
}

// Record enqueues ev. It never blocks; a full buffer drops the event.
func (p *Publisher) Record(ev domain.LookupEvent) {
	select {
	case p.buf <- ev:
	default:
		p.opts.Metrics.EventsDropped.WithLabelValues("buffer_full").Inc()
		p.opts.Logger.Warn("lookup event buffer full, dropping event", "event_id", ev.ID, "session", ev.Session)
	}
}

// CheckReadiness returns nil while Run is active.
func (p *Publisher) CheckReadiness(_ context.Context) error {
	if !p.running.Load() {
		return errors.New("lookup event publisher is not running")
	}
	return nil
}

// Run flushes batches until ctx is cancelled, then drains what is buffered.
func (p *Publisher) Run(ctx context.Context) error {
	p.opts.Logger.Info("lookup event publisher started",
		"batch_size", p.opts.BatchSize, "flush_interval", p.opts.FlushInterval)
	p.running.Store(true)
	p.opts.Metrics.PublisherRunning.Set(1)
	defer func() {
		p.running.Store(false)
		p.opts.Metrics.PublisherRunning.Set(0)
	}()

	ticker := p.opts.Clock.NewTicker(p.opts.FlushInterval)
	defer ticker.Stop()

	batch := make([]domain.LookupEvent, 0, p.opts.BatchSize)
	for {
		select {
		case <-ctx.Done():
			p.opts.Logger.Info("lookup event publisher stopping", "reason", ctx.Err())
			p.drain(batch)
			return nil
		case ev := <-p.buf:
			batch = append(batch, ev)
			if len(batch) >= p.opts.BatchSize {
				p.flush(ctx, batch)
				batch = make([]domain.LookupEvent, 0, p.opts.BatchSize)
			}
		case <-ticker.Chan():
			if len(batch) > 0 {
				p.flush(ctx, batch)
				batch = make([]domain.LookupEvent, 0, p.opts.BatchSize)
			}
		}
	}
}

// drain flushes the pending batch and everything still buffered.
func (p *Publisher) drain(batch []domain.LookupEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), drainTimeout)
	defer cancel()
	for {
		select {
		case ev := <-p.buf:
			batch = append(batch, ev)
			if len(batch) >= p.opts.BatchSize {
				p.flush(ctx, batch)
				batch = make([]domain.LookupEvent, 0, p.opts.BatchSize)
			}
		default:
			if len(batch) > 0 {
				p.flush(ctx, batch)
			}
			return
		}
	}
}

func (p *Publisher) flush(ctx context.Context, batch []domain.LookupEvent) {
	if err := p.loader.LoadBatch(ctx, batch); err != nil {
		p.opts.Logger.Error("publish lookup events failed, dropping batch", "error", err, "batch_size", len(batch))
		p.opts.Metrics.EventsDropped.WithLabelValues("write_failed").Add(float64(len(batch)))
		return
	}
	p.opts.Metrics.EventsPublished.Add(float64(len(batch)))
}
