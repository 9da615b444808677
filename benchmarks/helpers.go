// Package benchmarks provides shared graph generators for benchmark tests.
package benchmarks

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

// Tick advances flat graphs; Flip toggles every level of deep graphs.
var (
	Tick = primitives.NewEvent("tick", nil)
	Flip = primitives.NewEvent("flip", nil)
)

// QuietLogger discards all log output.
func QuietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// GenFlat creates a root with n sibling states cycling s0 -> s1 -> ... -> s0 on
// Tick.
func GenFlat(n int) *core.State {
	if n < 1 {
		n = 1
	}
	root := core.NewState(fmt.Sprintf("flat_%d", n))
	states := make([]*core.State, n)
	for i := range states {
		states[i] = core.NewState(fmt.Sprintf("s%d", i))
	}
	for i, s := range states {
		s.AddTransition(core.NewTransition(s, states[(i+1)%n], Tick))
	}
	root.SetActive(states[0])
	return root
}

// GenDeep creates a ladder of depth levels. Level i holds x_i and y_i, which flip
// to each other on Flip and both nest level i+1, so one Flip fires a transition
// at every level through the cascade.
func GenDeep(depth int) *core.State {
	if depth < 1 {
		depth = 1
	}
	root := core.NewState(fmt.Sprintf("deep_%d", depth))
	var prevX, prevY *core.State
	for i := 0; i < depth; i++ {
		x := core.NewState(fmt.Sprintf("x%d", i))
		y := core.NewState(fmt.Sprintf("y%d", i))
		x.AddTransition(core.NewTransition(x, y, Flip))
		y.AddTransition(core.NewTransition(y, x, Flip))
		if i == 0 {
			root.SetActive(x)
		} else {
			prevX.SetActive(x)
			prevY.SetActive(x)
		}
		prevX, prevY = x, y
	}
	return root
}

// MustMachine wraps root in a quiet Machine.
func MustMachine(root *core.State, opts ...core.Option) *core.Machine {
	opts = append([]core.Option{core.WithLogger(QuietLogger())}, opts...)
	m, err := core.NewMachine(root, opts...)
	if err != nil {
		panic(err)
	}
	return m
}
