package core

import (
	"context"
	"log/slog"

	"github.com/comalice/hsmx/internal/primitives"
)

// run carries the per-call settings of one traversal. With staged set, active
// pointer writes go to an overlay that the caller commits on success.
type run struct {
	staged   map[*State]*State
	cascade  bool
	logger   *slog.Logger
	observer Observer
	fired    []TransitionRecord
}

func immediate() *run {
	return &run{}
}

func (r *run) activeOf(s *State) *State {
	if r.staged != nil {
		if next, ok := r.staged[s]; ok {
			return next
		}
	}
	return s.active
}

func (r *run) setActive(s, next *State) {
	if r.staged != nil {
		r.staged[s] = next
		return
	}
	s.active = next
}

// nests reports whether moving s's active pointer to next would put s on its own
// active chain.
func (r *run) nests(s, next *State) bool {
	seen := map[*State]bool{}
	for n := next; n != nil && !seen[n]; n = r.activeOf(n) {
		if n == s {
			return true
		}
		seen[n] = true
	}
	return false
}

func (r *run) commit() {
	for s, next := range r.staged {
		s.active = next
	}
	r.staged = nil
}

func (r *run) selectTransition(s *State, ev primitives.Event) *Transition {
	if s.Selector == nil {
		return nil
	}
	if t := s.Selector.Select(s, ev); t != nil {
		return t
	}
	if cur := r.activeOf(s); cur != nil {
		return r.selectTransition(cur, ev)
	}
	return nil
}

func (r *run) exit(ctx context.Context, s *State, ev primitives.Event) (primitives.Results, error) {
	var out primitives.Results
	if cur := r.activeOf(s); cur != nil {
		nested, err := r.exit(ctx, cur, ev)
		out = append(out, nested...)
		if err != nil {
			return out, err
		}
	}
	own, err := s.Exit.Run(ctx, s.Name, ev)
	out = append(out, own...)
	return out, err
}

// evaluate is the traversal: find a transition for the active child of s (own
// transitions first, then deeper ones), fire it, advance s, and let the new child
// react to the same event.
func (r *run) evaluate(ctx context.Context, s *State, ev primitives.Event) (primitives.Results, error) {
	cur := r.activeOf(s)
	if cur == nil {
		return nil, nil
	}

	t := r.selectTransition(cur, ev)
	if t == nil {
		if r.logger != nil {
			r.logger.Debug("no transition", "state", cur.Name, "event", ev.Label())
		}
		if _, err := cur.InState(ctx, ev); err != nil {
			return nil, err
		}
		return r.evaluate(ctx, cur, ev)
	}

	next := t.Target
	if r.nests(s, next) {
		return nil, &ValidationError{State: s.Name, Err: ErrActiveCycle}
	}
	var out primitives.Results

	exited, err := r.exit(ctx, cur, ev)
	out = append(out, exited...)
	if err != nil {
		return out, err
	}
	transit, err := t.InTransit(ctx, ev)
	out = append(out, transit...)
	if err != nil {
		return out, err
	}
	entered, err := next.OnEnter(ctx, ev)
	out = append(out, entered...)
	if err != nil {
		return out, err
	}
	during, err := next.InState(ctx, ev)
	out = append(out, during...)
	if err != nil {
		return out, err
	}

	r.setActive(s, next)
	rec := TransitionRecord{
		Owner:      s.Name,
		From:       cur.Name,
		To:         next.Name,
		Event:      ev.Label(),
		Transition: t.Name(),
	}
	r.fired = append(r.fired, rec)
	if r.logger != nil {
		r.logger.Debug("transition fired", "owner", rec.Owner, "from", rec.From, "to", rec.To, "event", rec.Event)
	}
	if r.observer != nil && r.staged == nil {
		r.observer.OnTransition(ctx, rec)
	}

	cascaded, err := r.evaluate(ctx, next, ev)
	if err != nil {
		return out, err
	}
	if r.cascade {
		out = append(out, cascaded...)
	}
	return out, nil
}
