package email

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
)

// DefaultQueueSize bounds the dispatch queue. Producers never block on a
// full queue; they drop and log instead.
const DefaultQueueSize = 100

// Request is one render-and-send job, consumed exactly once by the worker.
type Request struct {
	Params SendEmailParams
}

// Dispatcher is the single background task that owns the outbound mail
// transport. All email leaves the process through its queue, serializing
// delivery; only the Run goroutine ever touches the sender.
type Dispatcher struct {
	queue   chan Request
	sender  EmailSender
	log     *slog.Logger
	stopped atomic.Bool
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithQueueSize overrides the queue capacity.
func WithQueueSize(n int) DispatcherOption {
	return func(d *Dispatcher) {
		if n > 0 {
			d.queue = make(chan Request, n)
		}
	}
}

// WithDispatcherLogger sets the structured logger.
func WithDispatcherLogger(log *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDispatcher creates a dispatcher over the given sender. Call Run in its
// own goroutine to start delivery.
func NewDispatcher(sender EmailSender, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		queue:  make(chan Request, DefaultQueueSize),
		sender: sender,
		log:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Enqueue submits a message for delivery. Fire-and-forget: when the queue is
// full or the worker has stopped, the request is dropped with a warning and
// the caller proceeds as if it were queued. Callers that need confirmation
// must observe a side effect instead.
func (d *Dispatcher) Enqueue(params SendEmailParams) {
	if d.stopped.Load() {
		d.log.Warn("email dropped: dispatcher stopped",
			slog.String("to", params.SendTo), slog.String("subject", params.Subject))
		return
	}
	select {
	case d.queue <- Request{Params: params}:
	default:
		d.log.Warn("email dropped: dispatch queue full",
			slog.String("to", params.SendTo), slog.String("subject", params.Subject))
	}
}

// Run delivers queued messages until ctx is cancelled, then drains whatever
// is already buffered before returning. Delivery failures are logged and
// never retried or surfaced to the producer.
func (d *Dispatcher) Run(ctx context.Context) error {
	defer d.stopped.Store(true)

	for {
		select {
		case <-ctx.Done():
			d.stopped.Store(true)
			d.drain()
			d.log.Info("email dispatcher stopped")
			return ctx.Err()
		case req := <-d.queue:
			d.send(req)
		}
	}
}

// drain delivers already-buffered requests rather than discarding them.
func (d *Dispatcher) drain() {
	for {
		select {
		case req := <-d.queue:
			d.send(req)
		default:
			return
		}
	}
}

func (d *Dispatcher) send(req Request) {
	d.log.Debug("sending email",
		slog.String("to", req.Params.SendTo), slog.String("subject", req.Params.Subject))

	// Delivery runs outside any request context; the producer has long
	// since moved on.
	if err := d.sender.SendEmail(context.Background(), req.Params); err != nil {
		d.log.Error("email delivery failed",
			slog.String("to", req.Params.SendTo),
			slog.String("subject", req.Params.Subject),
			slog.Any("error", err))
	}
}
