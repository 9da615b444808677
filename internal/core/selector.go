package core

import "github.com/comalice/hsmx/internal/primitives"

// Selector picks the transition a state takes for an event, or nil.
type Selector interface {
	Select(s *State, ev primitives.Event) *Transition
}

// SelectorFunc adapts a function to Selector.
type SelectorFunc func(s *State, ev primitives.Event) *Transition

// Select calls f.
func (f SelectorFunc) Select(s *State, ev primitives.Event) *Transition {
	return f(s, ev)
}

// LinearSelector returns the first transition, in declaration order, whose trigger
// matches the event.
type LinearSelector struct{}

// Select scans s's transitions.
func (LinearSelector) Select(s *State, ev primitives.Event) *Transition {
	for _, t := range s.transitions {
		if t.Trigger != nil && t.Trigger.Matches(ev) {
			return t
		}
	}
	return nil
}
