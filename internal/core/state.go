package core

import (
	"context"

	"github.com/comalice/hsmx/internal/primitives"
)

// State is a node of the machine graph.
//
// Entry, Exit and During are the on-enter, on-exit and in-state chains. A nil
// Selector means the state never yields a transition. The active sub-state is the
// only field the engine mutates, and only from Evaluate.
type State struct {
	Name     string
	ID       string
	Attrs    primitives.Attributes
	Entry    primitives.HandlerChain
	Exit     primitives.HandlerChain
	During   primitives.HandlerChain
	Selector Selector

	transitions []*Transition
	active      *State
}

// NewState creates a state named name with a LinearSelector installed.
func NewState(name string) *State {
	return &State{
		Name:     name,
		ID:       name,
		Selector: LinearSelector{},
	}
}

// AddEntry appends on-enter handlers and returns s for chaining.
func (s *State) AddEntry(handlers ...primitives.Handler) *State {
	s.Entry.Append(handlers...)
	return s
}

// AddExit appends on-exit handlers and returns s for chaining.
func (s *State) AddExit(handlers ...primitives.Handler) *State {
	s.Exit.Append(handlers...)
	return s
}

// AddDuring appends in-state handlers and returns s for chaining.
func (s *State) AddDuring(handlers ...primitives.Handler) *State {
	s.During.Append(handlers...)
	return s
}

// Active returns the nested active sub-state, or nil.
func (s *State) Active() *State {
	return s.active
}

// SetActive assigns the nested active sub-state during graph assembly.
// Passing nil clears it. Cycles are rejected later by Validate.
func (s *State) SetActive(child *State) {
	s.active = child
}

// Transitions returns a copy of the outgoing transitions in declaration order.
func (s *State) Transitions() []*Transition {
	out := make([]*Transition, len(s.transitions))
	copy(out, s.transitions)
	return out
}

// AddTransition attaches t to s. It returns false without mutating anything when t
// is nil, has no trigger, has an unnamed trigger, has no target, or already belongs
// to another state. A transition with no source is re-parented to s.
func (s *State) AddTransition(t *Transition) bool {
	if t == nil || t.Trigger == nil || t.Trigger.Name == "" || t.Target == nil {
		return false
	}
	if t.Source != nil && t.Source != s {
		return false
	}
	t.Source = s
	s.transitions = append(s.transitions, t)
	return true
}

// RemoveTransitionAt removes and returns the transition at index i, or nil when i
// is out of range.
func (s *State) RemoveTransitionAt(i int) *Transition {
	if i < 0 || i >= len(s.transitions) {
		return nil
	}
	t := s.transitions[i]
	s.transitions = append(s.transitions[:i:i], s.transitions[i+1:]...)
	return t
}

// RemoveTransition removes t itself if it is attached to s.
func (s *State) RemoveTransition(t *Transition) *Transition {
	for i, candidate := range s.transitions {
		if candidate == t {
			return s.RemoveTransitionAt(i)
		}
	}
	return nil
}

// RemoveTransitionFor removes the first transition whose trigger matches ev.
func (s *State) RemoveTransitionFor(ev primitives.Event) *Transition {
	for i, candidate := range s.transitions {
		if candidate.Trigger.Matches(ev) {
			return s.RemoveTransitionAt(i)
		}
	}
	return nil
}

// GetTransition asks the selector for a transition. When s yields none, the search
// continues down the active chain, so shallower transitions take precedence.
func (s *State) GetTransition(ev primitives.Event) *Transition {
	return immediate().selectTransition(s, ev)
}

// OnEnter runs the on-enter chain. Nested sub-states are not entered.
func (s *State) OnEnter(ctx context.Context, ev primitives.Event) (primitives.Results, error) {
	return s.Entry.Run(ctx, s.Name, ev)
}

// OnExit exits the active chain innermost-first, then runs s's own on-exit chain.
func (s *State) OnExit(ctx context.Context, ev primitives.Event) (primitives.Results, error) {
	return immediate().exit(ctx, s, ev)
}

// InState runs the in-state chain. Nested sub-states are not visited.
func (s *State) InState(ctx context.Context, ev primitives.Event) (primitives.Results, error) {
	return s.During.Run(ctx, s.Name, ev)
}

// Evaluate drives the active chain below s with ev. See Machine.Evaluate for the
// driver that adds logging, tracing, observers and staged commits.
func (s *State) Evaluate(ctx context.Context, ev primitives.Event) (primitives.Results, error) {
	return immediate().evaluate(ctx, s, ev)
}

// String returns the state name.
func (s *State) String() string {
	if s == nil {
		return "<nil>"
	}
	return s.Name
}
