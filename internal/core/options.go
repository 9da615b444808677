package core

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures a Machine via the functional options pattern.
type Option func(*Machine)

// WithID sets a custom machine ID instead of a generated UUID.
func WithID(id string) Option {
	return func(m *Machine) {
		m.id = id
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithObserver adds an observer. Several calls accumulate.
func WithObserver(o Observer) Option {
	return func(m *Machine) {
		if m.observer == nil {
			m.observer = o
			return
		}
		m.observer = Observers(m.observer, o)
	}
}

// WithTracerProvider sets the OpenTelemetry provider used for Evaluate spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(m *Machine) {
		if tp != nil {
			m.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithStagedCommit buffers active-state reassignments until Evaluate succeeds.
func WithStagedCommit(enabled bool) Option {
	return func(m *Machine) {
		m.stagedCommit = enabled
	}
}

// WithCascadeResults appends the results of cascaded evaluation (the newly
// entered state reacting to the same event) to the caller's results.
func WithCascadeResults(enabled bool) Option {
	return func(m *Machine) {
		m.cascadeResults = enabled
	}
}
