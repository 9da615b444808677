package core

import (
	"errors"
	"fmt"
)

var (
	ErrNilRoot     = errors.New("machine root state is nil")
	ErrActiveCycle = errors.New("active-state chain contains a cycle")
	ErrRootTarget  = errors.New("transition targets the machine root")

	// ErrAncestorTarget reports a transition whose target currently nests its
	// source. Firing it would leave the target nested under itself.
	ErrAncestorTarget = errors.New("transition targets an ancestor of its source")
)

// ValidationError reports a graph that cannot be driven safely.
type ValidationError struct {
	State string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.State == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("state %q: %v", e.State, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
