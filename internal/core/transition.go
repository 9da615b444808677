package core

import (
	"context"

	"github.com/comalice/hsmx/internal/primitives"
)

// Transition is a directed, event-triggered edge. Source is a non-owning back
// reference set when the transition is attached to a state.
type Transition struct {
	Source   *State
	Target   *State
	Trigger  *primitives.Event
	Handlers primitives.HandlerChain
}

// NewTransition creates a transition from source to target triggered by ev. It is
// not attached; call source.AddTransition to attach it.
func NewTransition(source, target *State, ev primitives.Event, handlers ...primitives.Handler) *Transition {
	t := &Transition{
		Source:  source,
		Target:  target,
		Trigger: &ev,
	}
	t.Handlers.Append(handlers...)
	return t
}

// SourceState returns the owning state.
func (t *Transition) SourceState() *State {
	return t.Source
}

// TargetState returns the state entered when t fires.
func (t *Transition) TargetState() *State {
	return t.Target
}

// Event returns the triggering event template, or nil.
func (t *Transition) Event() *primitives.Event {
	return t.Trigger
}

// Name returns "source-(event)-target".
func (t *Transition) Name() string {
	event := ""
	if t.Trigger != nil {
		event = t.Trigger.Label()
	}
	return t.Source.String() + "-(" + event + ")-" + t.Target.String()
}

// InTransit runs the handler chain, collecting results under Name.
func (t *Transition) InTransit(ctx context.Context, ev primitives.Event) (primitives.Results, error) {
	return t.Handlers.Run(ctx, t.Name(), ev)
}
