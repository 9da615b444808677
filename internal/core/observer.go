package core

import (
	"context"
	"time"

	"github.com/comalice/hsmx/internal/primitives"
)

// TransitionRecord describes one fired transition. Owner is the state whose active
// pointer moved from From to To.
type TransitionRecord struct {
	Owner      string `json:"owner" yaml:"owner"`
	From       string `json:"from" yaml:"from"`
	To         string `json:"to" yaml:"to"`
	Event      string `json:"event" yaml:"event"`
	Transition string `json:"transition" yaml:"transition"`
}

// EvaluationRecord summarises one Machine.Evaluate call.
type EvaluationRecord struct {
	MachineID   string             `json:"machineID" yaml:"machineID"`
	Event       string             `json:"event" yaml:"event"`
	Before      []string           `json:"before" yaml:"before"`
	After       []string           `json:"after" yaml:"after"`
	Transitions []TransitionRecord `json:"transitions,omitempty" yaml:"transitions,omitempty"`
	Results     primitives.Results `json:"results,omitempty" yaml:"results,omitempty"`
	Err         string             `json:"error,omitempty" yaml:"error,omitempty"`
	Version     string             `json:"version,omitempty" yaml:"version,omitempty"`
	Timestamp   time.Time          `json:"timestamp" yaml:"timestamp"`
	Duration    time.Duration      `json:"duration" yaml:"duration"`
}

// Failed reports whether the evaluation ended with a handler failure.
func (r EvaluationRecord) Failed() bool {
	return r.Err != ""
}

// Observer is notified of fired transitions and completed evaluations. Observers
// run synchronously on the evaluating goroutine and must not call back into the
// machine.
type Observer interface {
	OnTransition(ctx context.Context, rec TransitionRecord)
	OnEvaluated(ctx context.Context, rec EvaluationRecord)
}

// chainObserver fans notifications out in registration order.
type chainObserver []Observer

// Observers combines several observers into one. Nil entries are dropped.
func Observers(observers ...Observer) Observer {
	var chain chainObserver
	for _, o := range observers {
		if o != nil {
			chain = append(chain, o)
		}
	}
	return chain
}

func (c chainObserver) OnTransition(ctx context.Context, rec TransitionRecord) {
	for _, o := range c {
		o.OnTransition(ctx, rec)
	}
}

func (c chainObserver) OnEvaluated(ctx context.Context, rec EvaluationRecord) {
	for _, o := range c {
		o.OnEvaluated(ctx, rec)
	}
}
