package extensibility

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/comalice/hsmx/internal/core"
	"github.com/comalice/hsmx/internal/primitives"
)

// Rule routes an event to one of a state's transitions. Empty State matches any
// state; Guard is an optional "key op value" expression.
type Rule struct {
	State  string `yaml:"state,omitempty"`
	Event  string `yaml:"event"`
	Guard  string `yaml:"guard,omitempty"`
	Target string `yaml:"target"`
}

// RuleSelector selects transitions from an ordered rule table instead of scanning
// the state's transitions directly. The first rule that applies wins.
type RuleSelector struct {
	Rules []Rule
}

// NewRuleSelector creates a RuleSelector over rules.
func NewRuleSelector(rules ...Rule) *RuleSelector {
	return &RuleSelector{Rules: rules}
}

// Select implements core.Selector.
func (r *RuleSelector) Select(s *core.State, ev primitives.Event) *core.Transition {
	for _, rule := range r.Rules {
		if rule.State != "" && rule.State != s.Name {
			continue
		}
		if rule.Event != ev.Label() {
			continue
		}
		if rule.Guard != "" && !EvalGuard(rule.Guard, s, ev) {
			continue
		}
		for _, t := range s.Transitions() {
			if t.TargetState().Name == rule.Target && t.Event().Matches(ev) {
				return t
			}
		}
	}
	return nil
}

// EvalGuard evaluates simple expressions like "temp > 30" or "loggedIn == true".
// The key is looked up in the event attributes first, then in the state
// attributes. Malformed expressions and missing keys evaluate to false.
func EvalGuard(expr string, s *core.State, ev primitives.Event) bool {
	parts := strings.Fields(expr)
	if len(parts) != 3 {
		return false
	}
	key, op, want := parts[0], parts[1], parts[2]

	v, ok := ev.Attr(key)
	if !ok && s != nil {
		v, ok = s.Attrs.Get(key)
	}
	if !ok {
		return false
	}

	switch op {
	case "==":
		return equals(v, want)
	case "!=":
		return !equals(v, want)
	case ">", "<", ">=", "<=":
		f, ok := toFloat(v)
		if !ok {
			return false
		}
		w, err := strconv.ParseFloat(want, 64)
		if err != nil {
			return false
		}
		switch op {
		case ">":
			return f > w
		case "<":
			return f < w
		case ">=":
			return f >= w
		default:
			return f <= w
		}
	default:
		return false
	}
}

func equals(v any, want string) bool {
	switch want {
	case "true":
		return v == true
	case "false":
		return v == false
	case "nil":
		return v == nil
	}
	if w, err := strconv.ParseFloat(want, 64); err == nil {
		if f, ok := toFloat(v); ok {
			return f == w
		}
	}
	if v == nil {
		return false
	}
	return fmt.Sprint(v) == want
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case uint32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
