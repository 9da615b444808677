// Package production provides production integrations: visualization, publishing,
// metrics and the evaluation journal. Each integration plugs into a machine as a
// core.Observer or reads its topology.
package production

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/comalice/hsmx/internal/core"
)

// DefaultVisualizer renders machine graphs.
type DefaultVisualizer struct{}

// ExportDOT generates Graphviz DOT source for the graph reachable from root.
// Transition edges are labelled with their event; active-state edges are dashed
// and the states on the active path are filled.
func (v *DefaultVisualizer) ExportDOT(root *core.State) string {
	topo := core.Describe(root)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %q {\n", topo.Root)
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, fontsize=10, style=rounded];\n")
	buf.WriteString("  edge [fontsize=9];\n")

	active := make(map[string]bool, len(topo.ActivePath))
	for _, name := range topo.ActivePath {
		active[name] = true
	}

	for _, s := range topo.States {
		switch {
		case s.Name == topo.Root:
			fmt.Fprintf(&buf, "  %q [label=%q, shape=ellipse];\n", s.Name, s.Name)
		case active[s.Name]:
			fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,filled\", fillcolor=lightgreen];\n", s.Name, s.Name)
		default:
			fmt.Fprintf(&buf, "  %q [label=%q];\n", s.Name, s.Name)
		}
	}

	for _, s := range topo.States {
		if s.Active != "" {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, arrowhead=odiamond];\n", s.Name, s.Active)
		}
		for _, t := range s.Transitions {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", s.Name, t.Target, t.Event)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// ExportYAML serializes the topology reachable from root.
func (v *DefaultVisualizer) ExportYAML(root *core.State) ([]byte, error) {
	data, err := yaml.Marshal(core.Describe(root))
	if err != nil {
		return nil, fmt.Errorf("yaml marshal: %w", err)
	}
	return data, nil
}
