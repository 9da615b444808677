package hsmx

import (
	"fmt"
	"strings"

	"github.com/comalice/hsmx/internal/core"
)

// MachineBuilder provides a fluent API for assembling a state graph by name
// instead of wiring State and Transition values by hand.
type MachineBuilder struct {
	root    *State
	states  map[string]*State
	initial map[*State]string
	parents []*State // keys of initial in declaration order
	pending []pendingTransition
}

type pendingTransition struct {
	source   *State
	event    Event
	target   string
	handlers []Handler
}

// StateBuilder provides fluent methods for configuring individual states.
type StateBuilder struct {
	b     *MachineBuilder
	state *State
}

// NewMachineBuilder creates a builder whose root is rootName and whose root
// starts in initialStateName.
func NewMachineBuilder(rootName, initialStateName string) *MachineBuilder {
	b := &MachineBuilder{
		root:    core.NewState(rootName),
		states:  make(map[string]*State),
		initial: make(map[*State]string),
	}
	b.states[rootName] = b.root
	b.setInitial(b.root, initialStateName)
	return b
}

// Root returns the root state.
func (b *MachineBuilder) Root() *State {
	return b.root
}

// State creates or retrieves a state by name. Dot notation ("parent.child")
// auto-creates the parent; the first child declared under a parent becomes its
// initial active state unless Initial says otherwise.
func (b *MachineBuilder) State(name string) *StateBuilder {
	if s, ok := b.states[name]; ok {
		return &StateBuilder{b: b, state: s}
	}
	s := core.NewState(name)
	b.states[name] = s

	if parentPath, _ := splitPath(name); parentPath != "" {
		parent := b.State(parentPath).state
		if _, ok := b.initial[parent]; !ok {
			b.setInitial(parent, name)
		}
	}
	return &StateBuilder{b: b, state: s}
}

// Lookup returns the state registered under name, or nil.
func (b *MachineBuilder) Lookup(name string) *State {
	return b.states[name]
}

// Build resolves initial states and transition targets, then constructs the
// Machine. It returns an error naming the first unknown state.
func (b *MachineBuilder) Build(opts ...Option) (*Machine, error) {
	if err := b.resolve(); err != nil {
		return nil, err
	}
	return core.NewMachine(b.root, opts...)
}

func (b *MachineBuilder) setInitial(parent *State, name string) {
	if _, ok := b.initial[parent]; !ok {
		b.parents = append(b.parents, parent)
	}
	b.initial[parent] = name
}

func (b *MachineBuilder) resolve() error {
	for _, parent := range b.parents {
		name := b.initial[parent]
		child, ok := b.states[name]
		if !ok {
			return fmt.Errorf("state %s has unknown initial state %s", parent.Name, name)
		}
		parent.SetActive(child)
	}
	for _, p := range b.pending {
		target, ok := b.states[p.target]
		if !ok {
			return fmt.Errorf("state %s has transition on %s to unknown state %s", p.source.Name, p.event.Label(), p.target)
		}
		if !p.source.AddTransition(core.NewTransition(p.source, target, p.event, p.handlers...)) {
			return fmt.Errorf("state %s rejected transition on %q", p.source.Name, p.event.Label())
		}
	}
	b.pending = nil
	return nil
}

// splitPath splits a hierarchical path into parent and name components.
// For example, "parent.child" returns ("parent", "child").
func splitPath(path string) (parent, name string) {
	idx := strings.LastIndex(path, ".")
	if idx == -1 {
		return "", path
	}
	return path[:idx], path[idx+1:]
}

// Initial sets the state's initial active child.
func (sb *StateBuilder) Initial(childName string) *StateBuilder {
	sb.b.setInitial(sb.state, childName)
	return sb
}

// On adds a transition to targetName triggered by an event called eventName.
func (sb *StateBuilder) On(eventName, targetName string, handlers ...Handler) *StateBuilder {
	return sb.OnEvent(NewEvent(eventName, nil), targetName, handlers...)
}

// OnEvent adds a transition to targetName triggered by ev, which may be a token
// event.
func (sb *StateBuilder) OnEvent(ev Event, targetName string, handlers ...Handler) *StateBuilder {
	sb.b.pending = append(sb.b.pending, pendingTransition{
		source:   sb.state,
		event:    ev,
		target:   targetName,
		handlers: handlers,
	})
	return sb
}

// Entry appends on-enter handlers.
func (sb *StateBuilder) Entry(handlers ...Handler) *StateBuilder {
	sb.state.AddEntry(handlers...)
	return sb
}

// Exit appends on-exit handlers.
func (sb *StateBuilder) Exit(handlers ...Handler) *StateBuilder {
	sb.state.AddExit(handlers...)
	return sb
}

// During appends in-state handlers.
func (sb *StateBuilder) During(handlers ...Handler) *StateBuilder {
	sb.state.AddDuring(handlers...)
	return sb
}

// Selector replaces the transition selector. Nil makes the state inert.
func (sb *StateBuilder) Selector(sel Selector) *StateBuilder {
	sb.state.Selector = sel
	return sb
}

// Attr stores an attribute on the state.
func (sb *StateBuilder) Attr(key string, value any) *StateBuilder {
	sb.state.Attrs.Set(key, value)
	return sb
}

// State returns the underlying state.
func (sb *StateBuilder) State() *State {
	return sb.state
}
