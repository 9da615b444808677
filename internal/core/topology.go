package core

import (
	"crypto/sha256"
	"encoding/json"
	"fmt"
)

// TransitionInfo describes one attached transition.
type TransitionInfo struct {
	Name   string `json:"name" yaml:"name"`
	Event  string `json:"event" yaml:"event"`
	Target string `json:"target" yaml:"target"`
}

// StateInfo describes one state of the graph.
type StateInfo struct {
	Name        string           `json:"name" yaml:"name"`
	ID          string           `json:"id,omitempty" yaml:"id,omitempty"`
	Active      string           `json:"active,omitempty" yaml:"active,omitempty"`
	Selector    bool             `json:"selector" yaml:"selector"`
	Transitions []TransitionInfo `json:"transitions,omitempty" yaml:"transitions,omitempty"`
}

// Topology is a serialisable description of the graph reachable from a root.
type Topology struct {
	Root       string      `json:"root" yaml:"root"`
	ActivePath []string    `json:"activePath" yaml:"activePath"`
	States     []StateInfo `json:"states" yaml:"states"`
}

// Describe walks the states reachable from root through active pointers and
// transition targets.
func Describe(root *State) Topology {
	if root == nil {
		return Topology{}
	}
	topo := Topology{
		Root:       root.Name,
		ActivePath: ActivePath(root),
	}
	for _, s := range reachable(root) {
		info := StateInfo{
			Name:     s.Name,
			ID:       s.ID,
			Selector: s.Selector != nil,
		}
		if s.active != nil {
			info.Active = s.active.Name
		}
		for _, t := range s.transitions {
			info.Transitions = append(info.Transitions, TransitionInfo{
				Name:   t.Name(),
				Event:  t.Trigger.Label(),
				Target: t.Target.Name,
			})
		}
		topo.States = append(topo.States, info)
	}
	return topo
}

// Fingerprint returns a short digest of the graph structure. The active path and
// active pointers are excluded, so the value is stable while the machine runs.
func (t Topology) Fingerprint() string {
	structure := make([]StateInfo, len(t.States))
	for i, s := range t.States {
		s.Active = ""
		structure[i] = s
	}
	data, err := json.Marshal(struct {
		Root   string      `json:"root"`
		States []StateInfo `json:"states"`
	}{t.Root, structure})
	if err != nil {
		return "invalid"
	}
	hash := sha256.Sum256(data)
	return fmt.Sprintf("%x", hash[:8])
}

// ActivePath returns the names along the active chain below root, outermost first.
func ActivePath(root *State) []string {
	path := []string{}
	if root == nil {
		return path
	}
	seen := map[*State]bool{root: true}
	for s := root.active; s != nil && !seen[s]; s = s.active {
		seen[s] = true
		path = append(path, s.Name)
	}
	return path
}
