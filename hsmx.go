// Package hsmx is a hierarchical state machine engine.
//
// Every State holds at most one active sub-state. An event delivered to a state
// selects a transition for its active child (the child's own transitions first,
// then deeper ones along the active chain), exits the outgoing branch innermost
// first, runs the transition handlers, enters the target and replaces the active
// child. The new child then reacts to the same event.
//
// Handlers may return a value; non-empty values are collected into Results,
// tagged with the state or transition that produced them.
//
//	b := hsmx.NewMachineBuilder("door", "closed")
//	b.State("closed").On("open", "opened")
//	b.State("opened").On("close", "closed")
//	m, _ := b.Build()
//	m.Evaluate(ctx, hsmx.NewEvent("open", nil))
//
// A Machine is not safe for concurrent use. Drive it from one goroutine, for
// example through Pump.
package hsmx

import (
	"context"
	"log/slog"
	"time"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/extensibility"
	"github.com/comalice/hsmx/internal/primitives"
	"github.com/comalice/hsmx/internal/production"
)

type (
	Event       = primitives.Event
	MatchKind   = primitives.MatchKind
	Attributes  = primitives.Attributes
	Handler     = primitives.Handler
	HandlerFunc = primitives.HandlerFunc
	Result      = primitives.Result
	Results     = primitives.Results

	State          = core.State
	Transition     = core.Transition
	Selector       = core.Selector
	SelectorFunc   = core.SelectorFunc
	LinearSelector = core.LinearSelector

	Machine          = core.Machine
	Option           = core.Option
	Observer         = core.Observer
	TransitionRecord = core.TransitionRecord
	EvaluationRecord = core.EvaluationRecord
	Topology         = core.Topology
	ValidationError  = core.ValidationError

	Rule               = extensibility.Rule
	RuleSelector       = extensibility.RuleSelector
	EventSource        = extensibility.EventSource
	ChannelEventSource = extensibility.ChannelEventSource
	TimerEventSource   = extensibility.TimerEventSource
	Outcome            = extensibility.Outcome

	ChannelPublisher = production.ChannelPublisher
)

const (
	MatchIdentity     = primitives.MatchIdentity
	MatchToken        = primitives.MatchToken
	MatchTokenVacuous = primitives.MatchTokenVacuous
)

var (
	ErrNilRoot     = core.ErrNilRoot
	ErrActiveCycle = core.ErrActiveCycle
	ErrRootTarget  = core.ErrRootTarget

	ErrAncestorTarget = core.ErrAncestorTarget
)

// Machine options.
var (
	WithID             = core.WithID
	WithLogger         = core.WithLogger
	WithObserver       = core.WithObserver
	WithTracerProvider = core.WithTracerProvider
	WithStagedCommit   = core.WithStagedCommit
	WithCascadeResults = core.WithCascadeResults
)

// NewEvent creates an identity-matched event.
func NewEvent(name string, attrs map[string]any) Event {
	return primitives.NewEvent(name, attrs)
}

// NewTokenEvent creates a token-matched event comparing the given keys.
func NewTokenEvent(name string, keys []string, attrs map[string]any) Event {
	return primitives.NewTokenEvent(name, keys, attrs)
}

// NewState creates a state with the default LinearSelector.
func NewState(name string) *State {
	return core.NewState(name)
}

// NewTransition creates an unattached transition from source to target.
func NewTransition(source, target *State, ev Event, handlers ...Handler) *Transition {
	return core.NewTransition(source, target, ev, handlers...)
}

// NewMachine validates the graph below root and returns a driver for it.
func NewMachine(root *State, opts ...Option) (*Machine, error) {
	return core.NewMachine(root, opts...)
}

// Action adapts a side-effect-only function to Handler.
func Action(fn func(ctx context.Context, ev Event)) Handler {
	return primitives.Action(fn)
}

// Returning adapts a function that always produces a result.
func Returning(fn func(ctx context.Context, ev Event) any) Handler {
	return primitives.Returning(fn)
}

// Observers fans notifications out to several observers.
func Observers(observers ...Observer) Observer {
	return core.Observers(observers...)
}

// NewRuleSelector creates a selector driven by an ordered rule table.
func NewRuleSelector(rules ...Rule) *RuleSelector {
	return extensibility.NewRuleSelector(rules...)
}

// Pump delivers events from src to m one at a time until src closes or ctx is
// done.
func Pump(ctx context.Context, src EventSource, m *Machine, sink func(Outcome)) error {
	return extensibility.Pump(ctx, src, m, sink)
}

// NewChannelEventSource wraps ch as an EventSource.
func NewChannelEventSource(ch chan Event) *ChannelEventSource {
	return extensibility.NewChannelEventSource(ch)
}

// NewTimerEventSource emits ev every d until Stop is called.
func NewTimerEventSource(ev Event, d time.Duration) *TimerEventSource {
	return extensibility.NewTimerEventSource(ev, d)
}

// Logged wraps h so each call is logged under label.
func Logged(h Handler, logger *slog.Logger, label string) Handler {
	return extensibility.Logged(h, logger, label)
}

// NewChannelPublisher returns an Observer forwarding evaluation records to ch
// without blocking the machine.
func NewChannelPublisher(ch chan<- EvaluationRecord) *ChannelPublisher {
	return production.NewChannelPublisher(ch)
}
