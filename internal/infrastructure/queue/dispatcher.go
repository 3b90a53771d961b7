package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/sethvargo/go-retry"

	"github.com/tlc-app/tlc-backend/internal/api/metrics"
	"github.com/tlc-app/tlc-backend/internal/core/domain"
	"github.com/tlc-app/tlc-backend/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Options tunes delivery. Zero values fall back to defaults.
type Options struct {
	Workers int
	// Timeout bounds a single delivery attempt.
	Timeout time.Duration
	// Retries is the number of attempts after the first one.
	Retries uint64
	// Backoff is the base of the exponential delay between attempts.
	Backoff time.Duration
}

// Dispatcher implements ports.Notifier. Notifications are routed to a fixed
// set of workers by hashing the recipient, so messages to one address are
// delivered in order, and each worker sends through a ports.MessageSender.
type Dispatcher struct {
	workers []chan domain.Notification
	sender  ports.MessageSender
	opts    Options
	log     zerolog.Logger
	wg      sync.WaitGroup

	// mu guards closed and the sends into workers against Shutdown closing them.
	mu     sync.RWMutex
	closed bool

	// ctx bounds deliveries; it is cancelled only when draining runs out of time.
	ctx    context.Context
	cancel context.CancelFunc
}

// NewDispatcher creates a Dispatcher. Call Start before the first Notify is
// expected to be delivered.
func NewDispatcher(sender ports.MessageSender, opts Options, log zerolog.Logger) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Backoff <= 0 {
		opts.Backoff = time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		workers: make([]chan domain.Notification, opts.Workers),
		sender:  sender,
		opts:    opts,
		log:     log,
		ctx:     ctx,
		cancel:  cancel,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. They run until Shutdown.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Shutdown stops accepting notifications and waits for the queued ones to be
// delivered. If ctx ends first, deliveries in flight are cancelled, whatever
// is still queued is counted as dropped, and ctx.Err() is returned.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return nil
	}
	d.closed = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	var err error
	select {
	case <-done:
	case <-ctx.Done():
		err = ctx.Err()
		d.cancel()
		<-done
	}

	// Left over when Start was never called.
	for i, ch := range d.workers {
		for n := range ch {
			d.drop(i, n)
		}
	}
	d.cancel()
	return err
}

// Notify queues n without waiting for delivery. It fails with
// domain.ErrNotifierUnavailable when the recipient's worker is saturated or
// the dispatcher is shutting down.
func (d *Dispatcher) Notify(ctx context.Context, n domain.Notification) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		return domain.ErrNotifierUnavailable
	}

	idx := d.shardIndex(n.To)
	select {
	case d.workers[idx] <- n:
		metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
		d.log.Warn().Str("to", n.To).Int("worker_id", idx).Msg("notification queue full")
		return domain.ErrNotifierUnavailable
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *Dispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	label := strconv.Itoa(id)
	for n := range ch {
		metrics.NotificationQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
		if d.ctx.Err() != nil {
			d.drop(id, n)
			continue
		}
		d.deliver(d.ctx, id, n)
	}
}

func (d *Dispatcher) drop(id int, n domain.Notification) {
	metrics.NotificationsTotal.WithLabelValues("dropped").Inc()
	d.log.Error().
		Str("to", n.To).
		Str("subject", n.Subject).
		Int("worker_id", id).
		Msg("notification dropped at shutdown")
}

func (d *Dispatcher) deliver(ctx context.Context, id int, n domain.Notification) {
	start := time.Now()
	attempts := 0

	backoff := retry.WithMaxRetries(d.opts.Retries, retry.NewExponential(d.opts.Backoff))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempts++
		attemptCtx, cancel := context.WithTimeout(ctx, d.opts.Timeout)
		defer cancel()
		if err := d.sender.Send(attemptCtx, n); err != nil {
			d.log.Debug().Err(err).Str("to", n.To).Int("attempt", attempts).Msg("notification attempt failed")
			return retry.RetryableError(err)
		}
		return nil
	})

	result := "sent"
	if err != nil && ctx.Err() != nil {
		d.drop(id, n)
		return
	}
	if err != nil {
		result = "failed"
		d.log.Error().Err(err).
			Str("to", n.To).
			Str("subject", n.Subject).
			Int("attempts", attempts).
			Int("worker_id", id).
			Msg("notification delivery failed")
	} else {
		d.log.Info().Str("to", n.To).Int("attempts", attempts).Msg("notification sent")
	}
	metrics.NotificationsTotal.WithLabelValues(result).Inc()
	metrics.NotificationSendDuration.WithLabelValues(result).Observe(time.Since(start).Seconds())
}
