package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/alarm-clock/internal/clock"
	domain "github.com/oshokin/alarm-clock/internal/domain/alarm"
)

// memoryPublisher records events and optionally fails.
type memoryPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *memoryPublisher) Publish(_ context.Context, event Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.events = append(p.events, event)

	return p.err
}

func (p *memoryPublisher) kinds() []Kind {
	p.mu.Lock()
	defer p.mu.Unlock()

	kinds := make([]Kind, 0, len(p.events))
	for _, e := range p.events {
		kinds = append(kinds, e.Kind)
	}

	return kinds
}

// TestDispatcher_DeliversInOrder sends every event to every publisher in emission order,
// even when another publisher fails.
func TestDispatcher_DeliversInOrder(t *testing.T) {
	t.Parallel()

	at := time.Date(2026, time.October, 12, 7, 30, 0, 0, time.UTC)
	failing := &memoryPublisher{err: errors.New("broker down")}
	recording := new(memoryPublisher)

	d := NewDispatcher(context.Background(), clock.NewManual(at, 1), 8, failing, recording)

	a := domain.New(3, domain.Spec{Hour: 7, Minute: 30, Repeat: domain.Daily, Label: "wake"}, 5, 3)

	d.Handler(KindTriggered)(a)
	d.Handler(KindSnoozed)(a)
	d.Handler(KindStopped)(a)
	d.Close()

	require.Equal(t, []Kind{KindTriggered, KindSnoozed, KindStopped}, recording.kinds())
	require.Len(t, failing.kinds(), 3)

	first := recording.events[0]
	require.Equal(t, at, first.At)
	require.Equal(t, 3, first.Alarm.ID)
	require.Equal(t, "07:30", first.Alarm.Time)
	require.Equal(t, "daily", first.Alarm.Repeat)
	require.Equal(t, "wake", first.Alarm.Label)
	require.NotEqual(t, first.ID, recording.events[1].ID)

	// Closed dispatchers drop events.
	require.False(t, d.Enqueue(first))
	d.Close()
}

// blockingPublisher holds the worker until released.
type blockingPublisher struct {
	release chan struct{}
}

func (p blockingPublisher) Publish(context.Context, Event) error {
	<-p.release

	return nil
}

// TestDispatcher_DropsWhenFull never blocks the caller.
func TestDispatcher_DropsWhenFull(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	d := NewDispatcher(context.Background(), nil, 1, blockingPublisher{release: release})

	event := NewEvent(KindTriggered, time.Now(), domain.Alarm{ID: 1})

	// One event may be in the worker, one in the queue; the rest must be dropped.
	accepted := 0

	for range 5 {
		if d.Enqueue(event) {
			accepted++
		}
	}

	require.LessOrEqual(t, accepted, 2)
	require.GreaterOrEqual(t, accepted, 1)

	close(release)
	d.Close()
}

// TestLogSink never fails.
func TestLogSink(t *testing.T) {
	t.Parallel()

	event := NewEvent(KindStopped, time.Now(), domain.Alarm{ID: 2, Label: "tea"})
	require.NoError(t, LogSink{}.Publish(context.Background(), event))
}
