package extensibility

import (
	"context"
	"errors"
	"testing"

	"github.com/comalice/hsmx/internal/primitives"
)

type scriptedEvaluator struct {
	seen []string
	fail string
}

func (e *scriptedEvaluator) Evaluate(_ context.Context, ev primitives.Event) (primitives.Results, error) {
	e.seen = append(e.seen, ev.Name)
	if ev.Name == e.fail {
		return nil, errors.New("rejected " + ev.Name)
	}
	return primitives.Results{{Source: ev.Name, Value: "ok"}}, nil
}

func TestPumpDrainsSource(t *testing.T) {
	ch := make(chan primitives.Event, 3)
	ch <- primitives.NewEvent("a", nil)
	ch <- primitives.NewEvent("b", nil)
	ch <- primitives.NewEvent("c", nil)
	close(ch)

	target := &scriptedEvaluator{fail: "b"}
	var outcomes []Outcome
	err := Pump(context.Background(), NewChannelEventSource(ch), target, func(o Outcome) {
		outcomes = append(outcomes, o)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(outcomes) != 3 {
		t.Fatalf("got %d outcomes", len(outcomes))
	}
	if outcomes[1].Err == nil || outcomes[0].Err != nil || outcomes[2].Err != nil {
		t.Errorf("errors not reported per event: %+v", outcomes)
	}
	if got := outcomes[2].Results.Keys(); len(got) != 1 || got[0] != "c0" {
		t.Errorf("results = %v", got)
	}
}

func TestPumpStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	ch := make(chan primitives.Event)
	err := Pump(ctx, NewChannelEventSource(ch), &scriptedEvaluator{}, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}
