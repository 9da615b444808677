// Package primitives provides the value types shared by every tier of the engine:
// events and their matching variants, handler chains, collected results and the
// opaque attribute bag carried by states.
//
// Core invariants:
// - Events are values; the engine never mutates one it was handed
// - Event matching is always evaluated on the candidate (transition trigger) side
// - Handler chains run strictly in declaration order and stop at the first failure
package primitives
