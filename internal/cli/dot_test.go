package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDotCommand(t *testing.T) {
	out, err := execute(t, "dot")
	require.NoError(t, err)
	assert.Contains(t, out, `digraph "S" {`)
	assert.Contains(t, out, `"S1" -> "S2" [label="E12"];`)
	assert.Contains(t, out, `"S" -> "S1" [style=dashed, arrowhead=odiamond];`)
}

func TestDotAfterEvents(t *testing.T) {
	out, err := execute(t, "dot", "E12")
	require.NoError(t, err)
	assert.Contains(t, out, `"S" -> "S2" [style=dashed, arrowhead=odiamond];`)
}

func TestDotYAML(t *testing.T) {
	out, err := execute(t, "dot", "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "root: S\n")
	assert.Contains(t, out, "target: S2")
}
