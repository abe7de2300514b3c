package infrastructure

import (
	"context"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/draftea/order-saga/shared/events"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var _ EventHandler = (*AsyncEventHandler)(nil)

// ErrHandlerQueueFull is returned by AsyncEventHandler.Handle when no more
// events can be buffered
var ErrHandlerQueueFull = errors.New("event handler queue is full")

// AsyncEventHandler queues events for a pool of workers so a publisher never
// runs the handler on its own call path. A delivery waits for the redelivery
// delay first, then retries with exponential backoff until it succeeds or
// runs out of attempts, the way a queue consumer sees redeliveries.
type AsyncEventHandler struct {
	mux     sync.Mutex
	wg      sync.WaitGroup
	cancel  context.CancelFunc
	queue   chan *events.Event
	handler EventHandler
	options *asyncHandlerOptions
	logger  zerolog.Logger
}

type asyncHandlerOptions struct {
	workers       int
	queueSize     int
	delay         time.Duration
	maxDeliveries uint
}

type AsyncHandlerOption func(*asyncHandlerOptions)

func WithHandlerWorkers(workers int) AsyncHandlerOption {
	return func(o *asyncHandlerOptions) {
		o.workers = workers
	}
}

func WithQueueSize(size int) AsyncHandlerOption {
	return func(o *asyncHandlerOptions) {
		o.queueSize = size
	}
}

// WithRedeliveryDelay sets the wait before the first delivery and the
// initial backoff between redeliveries
func WithRedeliveryDelay(d time.Duration) AsyncHandlerOption {
	return func(o *asyncHandlerOptions) {
		o.delay = d
	}
}

func WithMaxDeliveries(n int) AsyncHandlerOption {
	return func(o *asyncHandlerOptions) {
		if n > 0 {
			o.maxDeliveries = uint(n)
		}
	}
}

// NewAsyncEventHandler wraps handler. Call Start before publishing to it.
func NewAsyncEventHandler(handler EventHandler, logger zerolog.Logger, opts ...AsyncHandlerOption) *AsyncEventHandler {
	options := &asyncHandlerOptions{
		workers:       2,
		queueSize:     256,
		delay:         5 * time.Second,
		maxDeliveries: 5,
	}

	for _, opt := range opts {
		opt(options)
	}
	if options.workers <= 0 {
		options.workers = 1
	}

	return &AsyncEventHandler{
		queue:   make(chan *events.Event, options.queueSize),
		handler: handler,
		options: options,
		logger:  logger.With().Str("handler", handler.HandlerID()).Logger(),
	}
}

func (h *AsyncEventHandler) HandlerID() string {
	return h.handler.HandlerID()
}

// Handle queues the event and returns at once
func (h *AsyncEventHandler) Handle(_ context.Context, event *events.Event) error {
	select {
	case h.queue <- event.Clone():
		return nil
	default:
		return errors.Wrapf(ErrHandlerQueueFull, "event %s", event.ID)
	}
}

// Start launches the workers
func (h *AsyncEventHandler) Start(ctx context.Context) error {
	h.mux.Lock()
	defer h.mux.Unlock()

	if h.cancel != nil {
		return nil
	}

	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	for i := 0; i < h.options.workers; i++ {
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			h.startWorker(ctx)
		}()
	}

	h.logger.Info().Int("workers", h.options.workers).Msg("async event handler started")
	return nil
}

// Close stops the workers and waits for the delivery in progress. Queued
// events are dropped.
func (h *AsyncEventHandler) Close() error {
	h.mux.Lock()
	cancel := h.cancel
	h.cancel = nil
	h.mux.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	h.wg.Wait()

	if dropped := len(h.queue); dropped > 0 {
		h.logger.Warn().Int("dropped", dropped).Msg("async event handler stopped with queued events")
	}
	return nil
}

func (h *AsyncEventHandler) startWorker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-h.queue:
			h.deliver(ctx, event)
		}
	}
}

func (h *AsyncEventHandler) deliver(ctx context.Context, event *events.Event) {
	logger := h.logger.With().
		Str("event_id", event.ID.String()).
		Str("event_type", event.EventType).
		Logger()

	sleep(ctx, h.options.delay)
	if ctx.Err() != nil {
		return
	}

	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = h.options.delay

	deliveries := 0
	_, err := backoff.Retry(ctx,
		func() (struct{}, error) {
			deliveries++
			return struct{}{}, h.handler.Handle(ctx, event)
		},
		backoff.WithBackOff(policy),
		backoff.WithMaxTries(h.options.maxDeliveries),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			logger.Warn().
				Err(err).
				Int("delivery", deliveries).
				Dur("retry_in", next).
				Msg("event handler failed, redelivering")
		}),
	)
	if err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Int("deliveries", deliveries).Msg("event handler gave up")
	}
}
