package primitives

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultsViews(t *testing.T) {
	rs := Results{
		{Source: "S1", Index: 0, Value: "exit"},
		{Source: "S1-(E12)-S2", Index: 0, Value: "transit"},
		{Source: "S2", Index: 1, Value: "enter"},
	}

	assert.Equal(t, []string{"S10", "S1-(E12)-S20", "S21"}, rs.Keys())
	assert.Equal(t, "transit", rs.Map()["S1-(E12)-S20"])
	assert.Equal(t, []string{"S1", "S1-(E12)-S2", "S2"}, rs.Sources())
	assert.Len(t, rs.From("S2"), 1)

	v, ok := rs.Value("S2", 1)
	assert.True(t, ok)
	assert.Equal(t, "enter", v)
	_, ok = rs.Value("S2", 0)
	assert.False(t, ok)
}

func TestResultsLegacyKeyCollision(t *testing.T) {
	// "S1"+"10" and "S11"+"0" collide in the legacy keyed view; the list keeps both.
	rs := Results{
		{Source: "S1", Index: 10, Value: "a"},
		{Source: "S11", Index: 0, Value: "b"},
	}
	assert.Len(t, rs.Map(), 1)
	assert.Equal(t, "b", rs.Map()["S110"])
	assert.Len(t, rs, 2)
}
