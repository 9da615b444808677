// Package core provides the runtime tier of the engine: states, transitions,
// transition selectors, the recursive evaluation traversal and the Machine driver.
//
// A machine is a graph of States. Each State owns its outgoing Transitions and
// points at no more than one nested active sub-state; the chain of active pointers
// from the root down to a leaf is the machine's current configuration. Evaluate
// walks that chain, fires at most one transition per level and lets the newly
// entered state react to the same event (cascading evaluation).
//
// Execution is synchronous and single-threaded. A Machine must not be driven by
// two goroutines at once; hosts serialise per instance (see extensibility.Pump).
package core
