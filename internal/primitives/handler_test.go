package primitives

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerChainCollectsNonEmptyResultsInOrder(t *testing.T) {
	var chain HandlerChain
	chain.Append(
		Returning(func(context.Context, Event) any { return "first" }),
		Action(func(context.Context, Event) {}),
		Returning(func(context.Context, Event) any { return "" }),
		Returning(func(context.Context, Event) any { return 3 }),
	)
	require.Equal(t, 4, chain.Len())

	results, err := chain.Run(context.Background(), "S1", NewEvent("E", nil))
	require.NoError(t, err)
	assert.Equal(t, Results{
		{Source: "S1", Index: 0, Value: "first"},
		{Source: "S1", Index: 3, Value: 3},
	}, results)
}

func TestHandlerChainStopsAtFirstError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	var chain HandlerChain
	chain.Append(
		Returning(func(context.Context, Event) any { calls++; return "ok" }),
		HandlerFunc(func(context.Context, Event) (any, error) { calls++; return nil, boom }),
		Action(func(context.Context, Event) { calls++ }),
	)

	results, err := chain.Run(context.Background(), "S1", NewEvent("E", nil))
	assert.Same(t, boom, err, "handler error must surface unchanged")
	assert.Equal(t, 2, calls)
	assert.Len(t, results, 1)
}

func TestHandlerChainAppendSkipsNil(t *testing.T) {
	var chain HandlerChain
	chain.Append(nil, Action(func(context.Context, Event) {}), nil)
	assert.Equal(t, 1, chain.Len())
}

func TestHandlerReceivesEvent(t *testing.T) {
	var seen Event
	chain := HandlerChain{Action(func(_ context.Context, ev Event) { seen = ev })}
	_, err := chain.Run(context.Background(), "S", NewEvent("E21", map[string]any{"k": "v"}))
	require.NoError(t, err)
	assert.Equal(t, "E21", seen.Name)
}
