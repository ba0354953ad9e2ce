package notify

import (
	"context"
	"sync"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
	"github.com/oshokin/alarm-clock/internal/logger"
)

// Publisher delivers an event to one sink.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// DefaultQueueSize bounds the number of undelivered events.
const DefaultQueueSize = 64

// Dispatcher queues events and delivers them to every publisher from a single worker,
// so sinks observe events in emission order.
type Dispatcher struct {
	// ctx scopes logging and publishing of the worker.
	ctx context.Context
	// clock stamps events.
	clock clock.Clock
	// publishers receive every event in registration order.
	publishers []Publisher

	// mu guards closed against concurrent Close and enqueue.
	mu     sync.RWMutex
	closed bool
	queue  chan Event
	done   chan struct{}
}

// NewDispatcher starts the delivery worker. Close must be called to drain and stop it.
func NewDispatcher(ctx context.Context, clk clock.Clock, queueSize int, publishers ...Publisher) *Dispatcher {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	if clk == nil {
		clk = clock.NewSystem()
	}

	d := &Dispatcher{
		ctx:        logger.WithName(ctx, "notify"),
		clock:      clk,
		publishers: publishers,
		queue:      make(chan Event, queueSize),
		done:       make(chan struct{}),
	}

	go d.run()

	return d
}

// Handler returns a scheduler callback that enqueues events of the kind.
func (d *Dispatcher) Handler(kind Kind) func(domain.Alarm) {
	return func(a domain.Alarm) {
		d.Enqueue(NewEvent(kind, d.clock.Now(), a))
	}
}

// Enqueue queues the event without blocking. It reports false when the queue is full or closed.
func (d *Dispatcher) Enqueue(event Event) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return false
	}

	select {
	case d.queue <- event:
		return true
	default:
		logger.WarnKV(d.ctx, "Event queue is full, dropping event", "kind", event.Kind, "alarm_id", event.Alarm.ID)

		return false
	}
}

// Close stops accepting events, delivers the queued ones and waits for the worker.
func (d *Dispatcher) Close() {
	d.mu.Lock()

	if !d.closed {
		d.closed = true
		close(d.queue)
	}

	d.mu.Unlock()

	<-d.done
}

func (d *Dispatcher) run() {
	defer close(d.done)

	for event := range d.queue {
		for _, p := range d.publishers {
			if err := p.Publish(d.ctx, event); err != nil {
				logger.ErrorKV(d.ctx, "Failed to publish alarm event",
					"kind", event.Kind,
					"alarm_id", event.Alarm.ID,
					"error", err)
			}
		}
	}
}
