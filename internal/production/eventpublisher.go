package production

import (
	"context"
	"sync/atomic"

	"github.com/comalice/hsmx/internal/core"
)

// ChannelPublisher is an Observer that forwards evaluation records to a Go channel.
// Publishing never blocks the machine: records are dropped while the channel is
// full.
type ChannelPublisher struct {
	ch      chan<- core.EvaluationRecord
	dropped atomic.Uint64
}

// NewChannelPublisher creates a ChannelPublisher with the given output channel.
func NewChannelPublisher(ch chan<- core.EvaluationRecord) *ChannelPublisher {
	return &ChannelPublisher{ch: ch}
}

// OnTransition is a no-op; transitions arrive inside the evaluation record.
func (p *ChannelPublisher) OnTransition(context.Context, core.TransitionRecord) {}

// OnEvaluated publishes rec.
func (p *ChannelPublisher) OnEvaluated(ctx context.Context, rec core.EvaluationRecord) {
	select {
	case p.ch <- rec:
	case <-ctx.Done():
		p.dropped.Add(1)
	default:
		p.dropped.Add(1)
	}
}

// Dropped returns how many records were discarded.
func (p *ChannelPublisher) Dropped() uint64 {
	return p.dropped.Load()
}

// Close closes the output channel.
func (p *ChannelPublisher) Close() error {
	close(p.ch)
	return nil
}
