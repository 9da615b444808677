package core

// Validate checks a graph before it is driven. Evaluation recurses along the
// active chain, so a state nested under itself would never terminate. A transition
// targeting the root, or a state whose active chain already holds the source,
// would nest that state under one of its own descendants.
func Validate(root *State) error {
	if root == nil {
		return &ValidationError{Err: ErrNilRoot}
	}

	states := reachable(root)
	for _, start := range states {
		seen := map[*State]bool{}
		for s := start; s != nil; s = s.active {
			if seen[s] {
				return &ValidationError{State: s.Name, Err: ErrActiveCycle}
			}
			seen[s] = true
		}
	}

	for _, s := range states {
		for _, t := range s.transitions {
			if t.Target == root {
				return &ValidationError{State: s.Name, Err: ErrRootTarget}
			}
			if t.Target != s && holds(t.Target, s) {
				return &ValidationError{State: s.Name, Err: ErrAncestorTarget}
			}
		}
	}
	return nil
}

// reachable lists the states reachable from root through active pointers and
// transition targets, breadth-first in declaration order.
func reachable(root *State) []*State {
	visited := map[*State]bool{root: true}
	queue := []*State{root}
	for i := 0; i < len(queue); i++ {
		s := queue[i]
		next := make([]*State, 0, len(s.transitions)+1)
		if s.active != nil {
			next = append(next, s.active)
		}
		for _, t := range s.transitions {
			next = append(next, t.Target)
		}
		for _, n := range next {
			if n != nil && !visited[n] {
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return queue
}

// holds reports whether s appears strictly below ancestor on its active chain.
// The chain must be acyclic.
func holds(ancestor, s *State) bool {
	for n := ancestor.active; n != nil; n = n.active {
		if n == s {
			return true
		}
	}
	return false
}
