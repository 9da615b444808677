package extensibility

import (
	"context"
	"sync"
	"time"

	"github.com/comalice/hsmx/internal/primitives"
)

// EventSource supplies events to a Pump. The channel is closed when the source is
// exhausted.
type EventSource interface {
	Events() <-chan primitives.Event
}

// ChannelEventSource is an EventSource backed by a Go channel owned by the caller.
type ChannelEventSource struct {
	ch chan primitives.Event
}

// NewChannelEventSource creates a ChannelEventSource over ch. The channel should be
// buffered if the producer must not block on a busy machine.
func NewChannelEventSource(ch chan primitives.Event) *ChannelEventSource {
	return &ChannelEventSource{ch: ch}
}

// Events returns the receive-only channel for events.
func (s *ChannelEventSource) Events() <-chan primitives.Event {
	return s.ch
}

// Send queues ev, blocking while the channel is full.
func (s *ChannelEventSource) Send(ev primitives.Event) {
	s.ch <- ev
}

// SendContext queues ev, giving up when ctx is done.
func (s *ChannelEventSource) SendContext(ctx context.Context, ev primitives.Event) error {
	select {
	case s.ch <- ev:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close closes the channel. The caller must not Send afterwards.
func (s *ChannelEventSource) Close() {
	close(s.ch)
}

// TimerEventSource emits the same event periodically. Ticks are dropped while the
// buffer is full.
type TimerEventSource struct {
	ch     chan primitives.Event
	event  primitives.Event
	ticker *time.Ticker
	stop   chan struct{}
	once   sync.Once
}

// NewTimerEventSource creates a TimerEventSource that emits ev every d.
func NewTimerEventSource(ev primitives.Event, d time.Duration) *TimerEventSource {
	t := &TimerEventSource{
		ch:     make(chan primitives.Event, 10),
		event:  ev,
		ticker: time.NewTicker(d),
		stop:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *TimerEventSource) run() {
	for {
		select {
		case <-t.ticker.C:
			select {
			case t.ch <- t.event:
			default:
			}
		case <-t.stop:
			t.ticker.Stop()
			close(t.ch)
			return
		}
	}
}

// Events returns the event channel.
func (t *TimerEventSource) Events() <-chan primitives.Event {
	return t.ch
}

// Stop stops the ticker and closes the channel. It is safe to call more than once.
func (t *TimerEventSource) Stop() {
	t.once.Do(func() { close(t.stop) })
}
