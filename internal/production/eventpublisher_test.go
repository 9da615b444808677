// Tests for ChannelPublisher delivery and Machine integration.
package production

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

func TestChannelPublisher_Delivery(t *testing.T) {
	ch := make(chan core.EvaluationRecord, 10)
	p := NewChannelPublisher(ch)

	rec := core.EvaluationRecord{MachineID: "test-machine", Event: "E12", Timestamp: time.Now()}
	p.OnEvaluated(context.Background(), rec)

	select {
	case got := <-ch:
		if got.MachineID != rec.MachineID || got.Event != rec.Event {
			t.Errorf("record mismatch: got %+v", got)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("no record delivered")
	}
	if p.Dropped() != 0 {
		t.Errorf("dropped = %d", p.Dropped())
	}
}

func TestChannelPublisher_BackpressureDrop(t *testing.T) {
	ch := make(chan core.EvaluationRecord, 1)
	p := NewChannelPublisher(ch)
	ch <- core.EvaluationRecord{}

	p.OnEvaluated(context.Background(), core.EvaluationRecord{Event: "drop"})
	if p.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1", p.Dropped())
	}
}

func TestChannelPublisher_Close(t *testing.T) {
	ch := make(chan core.EvaluationRecord, 1)
	p := NewChannelPublisher(ch)
	if err := p.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("channel still open")
	}
}

func TestChannelPublisher_Integration(t *testing.T) {
	ch := make(chan core.EvaluationRecord, 10)
	m, err := core.NewMachine(nestedGraph(),
		core.WithID("integration-test"),
		core.WithObserver(NewChannelPublisher(ch)),
		core.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := m.Evaluate(context.Background(), primitives.NewEvent("E12", nil)); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-ch:
		if len(got.Transitions) != 1 || got.Transitions[0].Transition != "S1-(E12)-S2" {
			t.Errorf("transitions = %+v", got.Transitions)
		}
		if got.MachineID != "integration-test" {
			t.Errorf("machine = %q", got.MachineID)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("no record published")
	}
}
