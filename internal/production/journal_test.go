package production

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

func openTestJournal(t *testing.T) (*Journal, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := OpenJournal(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j, path
}

func TestOpenJournal_CreatesDatabase(t *testing.T) {
	_, path := openTestJournal(t)
	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestOpenJournal_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	for i := 0; i < 3; i++ {
		j, err := OpenJournal(path, nil)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, j.Close())
	}
}

func TestJournal_AppendAndRecent(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	now := time.Now()

	first := core.EvaluationRecord{
		MachineID: "m1",
		Event:     "E12",
		Before:    []string{"S1"},
		After:     []string{"S2"},
		Transitions: []core.TransitionRecord{
			{Owner: "S", From: "S1", To: "S2", Event: "E12", Transition: "S1-(E12)-S2"},
		},
		Results:   primitives.Results{{Source: "S2", Index: 0, Value: "entered"}},
		Version:   "abc",
		Timestamp: now,
		Duration:  3 * time.Millisecond,
	}
	second := core.EvaluationRecord{MachineID: "m1", Event: "E21", Before: []string{"S2"}, After: []string{"S2"}, Err: "boom", Timestamp: now.Add(time.Second)}
	other := core.EvaluationRecord{MachineID: "m2", Event: "E13", Timestamp: now}

	id, err := j.Append(ctx, first)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	_, err = j.Append(ctx, second)
	require.NoError(t, err)
	_, err = j.Append(ctx, other)
	require.NoError(t, err)

	entries, err := j.Recent(ctx, "m1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "E21", entries[0].Event, "newest first")
	assert.True(t, entries[0].Failed())

	got := entries[1]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, first.Before, got.Before)
	assert.Equal(t, first.After, got.After)
	assert.Equal(t, first.Transitions, got.Transitions)
	assert.Equal(t, []string{"S20"}, got.Results.Keys())
	assert.Equal(t, "entered", got.Results[0].Value)
	assert.Equal(t, first.Timestamp.UnixNano(), got.Timestamp.UnixNano())
	assert.Equal(t, first.Duration, got.Duration)
	assert.Equal(t, "abc", got.Version)

	all, err := j.Recent(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	limited, err := j.Recent(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "m2", limited[0].MachineID)
}

func TestJournal_KeepsUnencodableResults(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()

	type node struct{ Next *node }
	loop := &node{}
	loop.Next = loop

	rec := core.EvaluationRecord{
		MachineID: "m1",
		Event:     "E12",
		Results: primitives.Results{
			{Source: "S1", Index: 0, Value: "exited"},
			{Source: "S2", Index: 0, Value: func() {}},
			{Source: "S2", Index: 1, Value: make(chan int)},
			{Source: "S2", Index: 2, Value: loop},
		},
		Timestamp: time.Now(),
	}
	_, err := j.Append(ctx, rec)
	require.NoError(t, err)

	entries, err := j.Recent(ctx, "m1", 1)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	got := entries[0].Results
	require.Len(t, got, 4)
	assert.Equal(t, "exited", got[0].Value)
	for _, r := range got[1:] {
		assert.IsType(t, "", r.Value, r.Key())
		assert.NotEmpty(t, r.Value, r.Key())
	}
}

func TestJournal_AsObserver(t *testing.T) {
	j, _ := openTestJournal(t)
	m, err := core.NewMachine(nestedGraph(), core.WithID("observed"), core.WithObserver(j))
	require.NoError(t, err)

	_, err = m.Evaluate(context.Background(), primitives.NewEvent("E12", nil))
	require.NoError(t, err)

	entries, err := j.Recent(context.Background(), "observed", 5)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, []string{"S1", "SS1"}, entries[0].Before)
	assert.Equal(t, []string{"S2"}, entries[0].After)
	assert.Equal(t, m.Version(), entries[0].Version)
}
