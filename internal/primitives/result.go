package primitives

import "strconv"

// Result is one collected handler output: which state or transition produced it,
// the handler's position in its chain, and the value.
type Result struct {
	Source string `json:"source" yaml:"source"`
	Index  int    `json:"index" yaml:"index"`
	Value  any    `json:"value" yaml:"value"`
}

// Key returns the legacy "source+index" key.
func (r Result) Key() string {
	return r.Source + strconv.Itoa(r.Index)
}

// Results is the ordered list of results collected by one call.
type Results []Result

// Keys returns the legacy keys in collection order.
func (rs Results) Keys() []string {
	keys := make([]string, len(rs))
	for i, r := range rs {
		keys[i] = r.Key()
	}
	return keys
}

// Map returns the legacy keyed view. Later entries win on key collisions.
func (rs Results) Map() map[string]any {
	m := make(map[string]any, len(rs))
	for _, r := range rs {
		m[r.Key()] = r.Value
	}
	return m
}

// From returns the results produced by source, in order.
func (rs Results) From(source string) Results {
	var out Results
	for _, r := range rs {
		if r.Source == source {
			out = append(out, r)
		}
	}
	return out
}

// Value looks up the result of handler index in source.
func (rs Results) Value(source string, index int) (any, bool) {
	for _, r := range rs {
		if r.Source == source && r.Index == index {
			return r.Value, true
		}
	}
	return nil, false
}

// Sources returns the distinct sources in first-seen order.
func (rs Results) Sources() []string {
	seen := make(map[string]bool)
	var out []string
	for _, r := range rs {
		if !seen[r.Source] {
			seen[r.Source] = true
			out = append(out, r.Source)
		}
	}
	return out
}
