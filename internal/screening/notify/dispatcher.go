package notify

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"lexscreen/internal/screening/metrics"
	"lexscreen/internal/screening/models"
)

const (
	DefaultQueueSize    = 1024
	DefaultSendTimeout  = 10 * time.Second
	defaultBatchSize    = 32
	defaultDrainTimeout = 5 * time.Second
)

// ErrQueueFull is returned by Notify when the backlog is at capacity.
var ErrQueueFull = errors.New("notification queue full")

// Dispatcher queues records and delivers them through a Sender on a
// background worker. Notify never blocks.
type Dispatcher struct {
	sender      Sender
	queue       *queue
	wake        chan struct{}
	sendTimeout time.Duration
	logger      *slog.Logger
	metrics     *metrics.Metrics
}

type DispatcherOption func(*Dispatcher)

func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		d.queue = newQueue(n)
	}
}

func WithSendTimeout(timeout time.Duration) DispatcherOption {
	return func(d *Dispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		d.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) DispatcherOption {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

func NewDispatcher(sender Sender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		sender:      sender,
		queue:       newQueue(DefaultQueueSize),
		wake:        make(chan struct{}, 1),
		sendTimeout: DefaultSendTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Notify queues the record for delivery.
func (d *Dispatcher) Notify(_ context.Context, record *models.Record) error {
	if record == nil {
		return nil
	}
	if !d.queue.tryEnqueue(record) {
		if d.metrics != nil {
			d.metrics.IncrementQueueRejection()
		}
		return ErrQueueFull
	}
	select {
	case d.wake <- struct{}{}:
	default:
	}
	return nil
}

// Pending reports queued, undelivered records.
func (d *Dispatcher) Pending() int { return d.queue.len() }

// Run delivers queued records until ctx is cancelled, then drains what is
// left within a short deadline. It returns nil on shutdown so it can sit in an
// errgroup next to the HTTP server.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			drainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), defaultDrainTimeout)
			d.flush(drainCtx, drainCtx.Done())
			cancel()
			if n := d.queue.len(); n > 0 {
				d.logger.Warn("notifications left undelivered at shutdown", "pending", n)
			}
			return nil
		case <-d.wake:
			d.flush(context.WithoutCancel(ctx), ctx.Done())
		}
	}
}

// flush delivers batches until the queue is empty or stop closes. A batch
// already taken is sent in full under sendCtx.
func (d *Dispatcher) flush(sendCtx context.Context, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
		}
		batch := d.queue.dequeueBatch(defaultBatchSize)
		if len(batch) == 0 {
			return
		}
		for _, record := range batch {
			d.send(sendCtx, record)
		}
	}
}

func (d *Dispatcher) send(ctx context.Context, record *models.Record) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()
	if err := d.sender.Send(sendCtx, record); err != nil {
		d.fail(record, err)
	}
}

func (d *Dispatcher) fail(record *models.Record, err error) {
	d.logger.Error("screening notification failed",
		"record_id", record.ID.String(),
		"screening_id", record.ScreeningID.String(),
		"error", err,
	)
	if d.metrics != nil {
		d.metrics.IncrementNotificationFailure()
	}
}
