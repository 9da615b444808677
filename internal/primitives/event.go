// Event provides the event primitive used to trigger and select transitions.
//
// An Event is a value type. Once handed to the engine it is treated as read-only;
// use With to derive a copy carrying an extra attribute.
//
// # Matching
//
// Transition selection compares a transition's trigger (the candidate) against the
// incoming event by calling candidate.Matches(incoming). The comparison is intended to
// be symmetric but only the candidate's Kind decides how it is performed:
//
//	trigger := NewEvent("E12", nil)
//	trigger.Matches(NewEvent("E12", map[string]any{"user": "ann"})) // true
package primitives

import (
	"fmt"
	"strings"
)

// MatchKind selects how an Event compares itself against another.
type MatchKind int

const (
	// MatchIdentity matches when either the names or the identifiers are equal.
	MatchIdentity MatchKind = iota

	// MatchToken compares composite-key values when Keys is non-empty, otherwise it
	// compares by name, falling back to identifier.
	MatchToken

	// MatchTokenVacuous behaves like MatchToken without keys, but treats any
	// non-empty key list as a match without reading attribute values.
	MatchTokenVacuous
)

// String returns the variant name.
func (k MatchKind) String() string {
	switch k {
	case MatchIdentity:
		return "identity"
	case MatchToken:
		return "token"
	case MatchTokenVacuous:
		return "token-vacuous"
	default:
		return fmt.Sprintf("MatchKind(%d)", int(k))
	}
}

// Event carries a trigger name, an identifier, composite keys and arbitrary attributes.
// An empty Name or ID means the field is absent.
type Event struct {
	Name  string
	ID    string
	Keys  []string
	Attrs map[string]any
	Kind  MatchKind
}

// NewEvent creates an identity-matched event.
func NewEvent(name string, attrs map[string]any) Event {
	return Event{
		Name:  name,
		Attrs: attrs,
	}
}

// NewTokenEvent creates a token-matched event comparing the given composite keys.
func NewTokenEvent(name string, keys []string, attrs map[string]any) Event {
	return Event{
		Name:  name,
		Keys:  keys,
		Attrs: attrs,
		Kind:  MatchToken,
	}
}

// Label returns the name, or the identifier for unnamed events.
func (e Event) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Attr returns the attribute stored under key.
func (e Event) Attr(key string) (any, bool) {
	v, ok := e.Attrs[key]
	return v, ok
}

// With returns a copy of e with key set to val. The receiver's map is not modified.
func (e Event) With(key string, val any) Event {
	attrs := make(map[string]any, len(e.Attrs)+1)
	for k, v := range e.Attrs {
		attrs[k] = v
	}
	attrs[key] = val
	e.Attrs = attrs
	return e
}

// Matches reports whether other selects this event. The receiver is the candidate.
func (e Event) Matches(other Event) bool {
	switch e.Kind {
	case MatchToken, MatchTokenVacuous:
		return e.matchToken(other)
	default:
		return e.matchIdentity(other)
	}
}

func (e Event) matchIdentity(other Event) bool {
	matched := false
	if other.Name != "" && other.Name == e.Name {
		matched = true
	}
	if other.ID != "" && other.ID == e.ID {
		matched = true
	}
	return matched
}

func (e Event) matchToken(other Event) bool {
	if len(e.Keys) == 0 {
		switch {
		case e.Name != "" && other.Name != "":
			return e.Name == other.Name
		case e.ID != "" && other.ID != "":
			return e.ID == other.ID
		}
		return false
	}
	if e.Kind == MatchTokenVacuous {
		return true
	}
	// Per-key comparison is the concatenation compare without boundary collisions.
	for _, key := range e.Keys {
		if e.token(key) != other.token(key) {
			return false
		}
	}
	return true
}

func (e Event) token(key string) string {
	v, ok := e.Attrs[key]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

// String returns a short human-readable form.
func (e Event) String() string {
	var b strings.Builder
	b.WriteString(e.Label())
	if e.Name != "" && e.ID != "" {
		b.WriteString("#")
		b.WriteString(e.ID)
	}
	if len(e.Keys) > 0 {
		b.WriteString("[")
		b.WriteString(strings.Join(e.Keys, ","))
		b.WriteString("]")
	}
	return b.String()
}
