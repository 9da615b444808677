package core

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/comalice/hsmx/internal/primitives"
)

const tracerName = "github.com/comalice/hsmx"

// Machine is the host-facing driver: it owns the root state and exposes Evaluate.
// It is not safe for concurrent use; serialise calls per instance.
type Machine struct {
	id       string
	root     *State
	logger   *slog.Logger
	tracer   trace.Tracer
	observer Observer

	stagedCommit   bool
	cascadeResults bool
	version        string
}

// NewMachine validates the graph below root and returns a driver for it.
func NewMachine(root *State, opts ...Option) (*Machine, error) {
	m := &Machine{
		id:     uuid.NewString(),
		root:   root,
		logger: slog.Default(),
		tracer: otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(m)
	}
	if err := Validate(root); err != nil {
		return nil, err
	}
	m.version = Describe(root).Fingerprint()
	return m, nil
}

// ID returns the machine instance ID.
func (m *Machine) ID() string {
	return m.id
}

// Root returns the root state.
func (m *Machine) Root() *State {
	return m.root
}

// Current returns the root's active sub-state.
func (m *Machine) Current() *State {
	return m.root.active
}

// ActivePath returns the names along the active chain, outermost first.
func (m *Machine) ActivePath() []string {
	return ActivePath(m.root)
}

// Describe returns the current topology.
func (m *Machine) Describe() Topology {
	return Describe(m.root)
}

// Version returns the topology fingerprint computed at construction.
func (m *Machine) Version() string {
	return m.version
}

// Validate re-checks the graph, e.g. after the host rewired it.
func (m *Machine) Validate() error {
	return Validate(m.root)
}

// Evaluate delivers ev to the machine and returns the collected results.
//
// Handler errors are returned unchanged together with the results gathered before
// the failure. Without staged commit, a failure after the outgoing state exited
// leaves the machine pointing at the old child (it exited but was not replaced);
// with staged commit no active pointer changes unless the whole call succeeds.
func (m *Machine) Evaluate(ctx context.Context, ev primitives.Event) (primitives.Results, error) {
	ctx, span := m.tracer.Start(ctx, "hsmx.Evaluate", trace.WithAttributes(
		attribute.String("hsmx.machine_id", m.id),
		attribute.String("hsmx.event", ev.Label()),
	))
	defer span.End()

	start := time.Now()
	rec := EvaluationRecord{
		MachineID: m.id,
		Event:     ev.Label(),
		Before:    m.ActivePath(),
		Version:   m.version,
		Timestamp: start,
	}

	r := &run{
		cascade:  m.cascadeResults,
		logger:   m.logger,
		observer: m.observer,
	}
	if m.stagedCommit {
		r.staged = map[*State]*State{}
	}

	results, err := r.evaluate(ctx, m.root, ev)
	if err == nil && r.staged != nil {
		r.commit()
		if m.observer != nil {
			for _, t := range r.fired {
				m.observer.OnTransition(ctx, t)
			}
		}
	}

	rec.After = m.ActivePath()
	rec.Results = results
	rec.Duration = time.Since(start)
	if err == nil || r.staged == nil {
		rec.Transitions = r.fired
	}
	span.SetAttributes(attribute.Int("hsmx.transitions", len(rec.Transitions)))

	if err != nil {
		rec.Err = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		m.logger.Error("evaluate failed",
			"machine", m.id,
			"event", ev.Label(),
			"before", rec.Before,
			"after", rec.After,
			"error", err,
		)
	}
	if m.observer != nil {
		m.observer.OnEvaluated(ctx, rec)
	}
	return results, err
}
