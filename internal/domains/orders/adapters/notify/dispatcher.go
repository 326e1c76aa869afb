package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Apurer/shop-order-service/internal/domains/orders/domain"
	"github.com/Apurer/shop-order-service/internal/domains/orders/ports"
)

const (
	DefaultQueueSize   = 256
	DefaultWorkers     = 2
	DefaultSendTimeout = 10 * time.Second
)

var _ ports.NotificationDispatcher = (*AsyncDispatcher)(nil)

type job struct {
	ctx          context.Context
	notification domain.Notification
}

// AsyncDispatcher hands notifications to a bounded queue drained by a fixed
// set of workers. Dispatch never blocks: a full or closed queue drops the
// notification with a warning, and delivery errors are logged only.
type AsyncDispatcher struct {
	sender      ports.NotificationSender
	logger      *slog.Logger
	queueSize   int
	workers     int
	sendTimeout time.Duration
	metrics     dispatchMetrics

	mu     sync.RWMutex
	closed bool
	queue  chan job
	wg     sync.WaitGroup
}

type Option func(*AsyncDispatcher)

func WithLogger(logger *slog.Logger) Option {
	return func(d *AsyncDispatcher) {
		d.logger = logger
	}
}

func WithQueueSize(size int) Option {
	return func(d *AsyncDispatcher) {
		if size > 0 {
			d.queueSize = size
		}
	}
}

func WithWorkers(workers int) Option {
	return func(d *AsyncDispatcher) {
		if workers > 0 {
			d.workers = workers
		}
	}
}

func WithSendTimeout(timeout time.Duration) Option {
	return func(d *AsyncDispatcher) {
		if timeout > 0 {
			d.sendTimeout = timeout
		}
	}
}

func WithMeter(m metric.Meter) Option {
	return func(d *AsyncDispatcher) {
		d.metrics = newDispatchMetrics(m)
	}
}

// NewAsyncDispatcher starts the worker pool. Call Close to drain it.
func NewAsyncDispatcher(sender ports.NotificationSender, opts ...Option) *AsyncDispatcher {
	d := &AsyncDispatcher{
		sender:      sender,
		queueSize:   DefaultQueueSize,
		workers:     DefaultWorkers,
		sendTimeout: DefaultSendTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(d)
		}
	}
	d.queue = make(chan job, d.queueSize)
	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.run()
	}
	return d
}

// Dispatch enqueues n. The caller's cancellation does not reach the delivery,
// but its values (trace context) do.
func (d *AsyncDispatcher) Dispatch(ctx context.Context, n domain.Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.drop(ctx, n, "dispatcher closed")
		return
	}
	select {
	case d.queue <- job{ctx: context.WithoutCancel(ctx), notification: n}:
	default:
		d.drop(ctx, n, "queue full")
	}
}

// Close stops accepting notifications and waits for queued ones to be sent
// or for ctx to expire.
func (d *AsyncDispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return errors.Join(errors.New("notification queue not drained"), ctx.Err())
	}
}

func (d *AsyncDispatcher) run() {
	defer d.wg.Done()
	for j := range d.queue {
		d.deliver(j)
	}
}

func (d *AsyncDispatcher) deliver(j job) {
	if d.sender == nil {
		return
	}
	ctx, cancel := context.WithTimeout(j.ctx, d.sendTimeout)
	defer cancel()
	if err := d.sender.Send(ctx, j.notification); err != nil {
		d.metrics.recordFailed(ctx, j.notification.Type)
		if d.logger != nil {
			d.logger.LogAttrs(ctx, slog.LevelError, "failed to send notification",
				slog.Int64("user.id", j.notification.UserID),
				slog.String("notification.type", string(j.notification.Type)),
				slog.String("error", err.Error()))
		}
		return
	}
	d.metrics.recordSent(ctx, j.notification.Type)
}

func (d *AsyncDispatcher) drop(ctx context.Context, n domain.Notification, reason string) {
	d.metrics.recordDropped(ctx, n.Type)
	if d.logger != nil {
		d.logger.LogAttrs(ctx, slog.LevelWarn, "dropping notification",
			slog.String("reason", reason),
			slog.Int64("user.id", n.UserID),
			slog.String("notification.type", string(n.Type)))
	}
}

type dispatchMetrics struct {
	sent    metric.Int64Counter
	failed  metric.Int64Counter
	dropped metric.Int64Counter
}

func newDispatchMetrics(m metric.Meter) dispatchMetrics {
	if m == nil {
		return dispatchMetrics{}
	}
	sent, _ := m.Int64Counter("orders.notifications.sent", metric.WithDescription("Notifications handed to the sender successfully"))
	failed, _ := m.Int64Counter("orders.notifications.failed", metric.WithDescription("Notifications the sender rejected"))
	dropped, _ := m.Int64Counter("orders.notifications.dropped", metric.WithDescription("Notifications dropped before delivery"))
	return dispatchMetrics{sent: sent, failed: failed, dropped: dropped}
}

func (m dispatchMetrics) recordSent(ctx context.Context, t domain.NotificationType) {
	if m.sent != nil {
		m.sent.Add(ctx, 1, metric.WithAttributes(attribute.String("notification.type", string(t))))
	}
}

func (m dispatchMetrics) recordFailed(ctx context.Context, t domain.NotificationType) {
	if m.failed != nil {
		m.failed.Add(ctx, 1, metric.WithAttributes(attribute.String("notification.type", string(t))))
	}
}

func (m dispatchMetrics) recordDropped(ctx context.Context, t domain.NotificationType) {
	if m.dropped != nil {
		m.dropped.Add(ctx, 1, metric.WithAttributes(attribute.String("notification.type", string(t))))
	}
}
