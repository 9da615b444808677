// Package testutil provides recording handlers for asserting call order across
// states and transitions.
package testutil

import (
	"context"
	"sync"

	"github.com/comalice/hsmx/internal/primitives"
)

// Recorder collects handler invocations in the order they happen.
type Recorder struct {
	mu     sync.Mutex
	calls  []string
	events []primitives.Event
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Handler returns a handler that records label and returns result.
func (r *Recorder) Handler(label string, result any) primitives.Handler {
	return primitives.HandlerFunc(func(_ context.Context, ev primitives.Event) (any, error) {
		r.record(label, ev)
		return result, nil
	})
}

// Echo returns a handler that records label and returns it as the result.
func (r *Recorder) Echo(label string) primitives.Handler {
	return r.Handler(label, label)
}

// Failing returns a handler that records label and fails with err.
func (r *Recorder) Failing(label string, err error) primitives.Handler {
	return primitives.HandlerFunc(func(_ context.Context, ev primitives.Event) (any, error) {
		r.record(label, ev)
		return nil, err
	})
}

// Calls returns the recorded labels.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// Events returns the events seen, aligned with Calls.
func (r *Recorder) Events() []primitives.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]primitives.Event, len(r.events))
	copy(out, r.events)
	return out
}

// Count returns how many times label was recorded.
func (r *Recorder) Count(label string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, c := range r.calls {
		if c == label {
			n++
		}
	}
	return n
}

// Reset forgets all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = nil
	r.events = nil
}

func (r *Recorder) record(label string, ev primitives.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, label)
	r.events = append(r.events, ev)
}
