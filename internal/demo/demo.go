// Package demo assembles the three-state demonstration graph used by the hsmx
// command and the end-to-end tests.
//
// The root S starts in S1. S1-(E12)->S2 is attached; S2-(E21)->S1 is built but
// deliberately left detached, so E21 never moves the machine back.
package demo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/extensibility"
	"github.com/comalice/hsmx/internal/primitives"
)

// Event names, read as "from state X to state Y".
const (
	E12 = "E12"
	E21 = "E21"
	E13 = "E13"
	E31 = "E31"
	E23 = "E23"
	E32 = "E32"
)

// Events lists every demo event name.
func Events() []string {
	return []string{E12, E21, E13, E31, E23, E32}
}

// Event returns the identity-matched event called name.
func Event(name string) primitives.Event {
	return primitives.NewEvent(name, nil)
}

// Graph is the assembled demo graph.
type Graph struct {
	Root *core.State
	S1   *core.State
	S2   *core.State
	S3   *core.State

	// Detached is S2-(E21)->S1. It is never added to S2.
	Detached *core.Transition
}

// New builds a fresh demo graph with S active.
func New() *Graph {
	g := &Graph{
		Root: core.NewState("S"),
		S1:   newState("S1"),
		S2:   newState("S2"),
		S3:   newState("S3"),
	}
	g.Root.SetActive(g.S1)

	g.S1.AddTransition(core.NewTransition(g.S1, g.S2, Event(E12), transit("S1", "S2")))
	g.Detached = core.NewTransition(g.S2, g.S1, Event(E21), transit("S2", "S1"))
	return g
}

// Instrument wraps every handler of the graph with extensibility.Logged, labelled
// "<state>.entry[i]", "<state>.exit[i]", "<state>.during[i]" or "<transition>[i]".
// Call it once, before the graph is driven.
func (g *Graph) Instrument(logger *slog.Logger) {
	for _, s := range []*core.State{g.S1, g.S2, g.S3} {
		s.Entry = logged(s.Entry, logger, s.Name+".entry")
		s.Exit = logged(s.Exit, logger, s.Name+".exit")
		s.During = logged(s.During, logger, s.Name+".during")
		for _, t := range s.Transitions() {
			t.Handlers = logged(t.Handlers, logger, t.Name())
		}
	}
	g.Detached.Handlers = logged(g.Detached.Handlers, logger, g.Detached.Name())
}

func logged(chain primitives.HandlerChain, logger *slog.Logger, label string) primitives.HandlerChain {
	out := make(primitives.HandlerChain, len(chain))
	for i, h := range chain {
		out[i] = extensibility.Logged(h, logger, fmt.Sprintf("%s[%d]", label, i))
	}
	return out
}

func newState(name string) *core.State {
	return core.NewState(name).
		AddEntry(say(name + " entered")).
		AddDuring(say(name + " active")).
		AddExit(say(name + " exited"))
}

func say(msg string) primitives.Handler {
	return primitives.Returning(func(_ context.Context, ev primitives.Event) any {
		return fmt.Sprintf("%s on %s", msg, ev.Label())
	})
}

func transit(from, to string) primitives.Handler {
	return primitives.Returning(func(_ context.Context, ev primitives.Event) any {
		return fmt.Sprintf("%s -> %s via %s", from, to, ev.Label())
	})
}
