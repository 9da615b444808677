package extensibility

import (
	"context"

	"github.com/comalice/hsmx/internal/primitives"
)

// Evaluator is the part of a machine a Pump drives.
type Evaluator interface {
	Evaluate(ctx context.Context, ev primitives.Event) (primitives.Results, error)
}

// Outcome is the result of delivering one event.
type Outcome struct {
	Event   primitives.Event
	Results primitives.Results
	Err     error
}

// Pump delivers events from src to target one at a time on the calling goroutine,
// which makes it the single writer a machine requires. Each outcome is passed to
// sink when sink is non-nil; handler errors do not stop the pump.
//
// Pump returns nil when the source channel closes and ctx.Err() when ctx is done.
func Pump(ctx context.Context, src EventSource, target Evaluator, sink func(Outcome)) error {
	events := src.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			results, err := target.Evaluate(ctx, ev)
			if sink != nil {
				sink(Outcome{Event: ev, Results: results, Err: err})
			}
		}
	}
}
