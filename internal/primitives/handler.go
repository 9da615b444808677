package primitives

import "context"

// Handler is a lifecycle or in-transit callback. A nil result (or an empty string)
// is not collected. Errors are returned to the caller of Evaluate unchanged.
type Handler interface {
	Handle(ctx context.Context, ev Event) (any, error)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(ctx context.Context, ev Event) (any, error)

// Handle calls f.
func (f HandlerFunc) Handle(ctx context.Context, ev Event) (any, error) {
	return f(ctx, ev)
}

// Action adapts a side-effect-only function. It never produces a result.
func Action(fn func(ctx context.Context, ev Event)) Handler {
	return HandlerFunc(func(ctx context.Context, ev Event) (any, error) {
		fn(ctx, ev)
		return nil, nil
	})
}

// Returning adapts a function that always succeeds with a result.
func Returning(fn func(ctx context.Context, ev Event) any) Handler {
	return HandlerFunc(func(ctx context.Context, ev Event) (any, error) {
		return fn(ctx, ev), nil
	})
}

// HandlerChain is an ordered sequence of handlers.
type HandlerChain []Handler

// Append adds handlers to the end of the chain. Nil handlers are skipped.
func (c *HandlerChain) Append(handlers ...Handler) {
	for _, h := range handlers {
		if h != nil {
			*c = append(*c, h)
		}
	}
}

// Len returns the number of handlers.
func (c HandlerChain) Len() int {
	return len(c)
}

// Run invokes every handler in order and collects non-empty results under source,
// indexed by the handler's position. The first failure aborts the chain; results
// collected before it are returned alongside the error.
func (c HandlerChain) Run(ctx context.Context, source string, ev Event) (Results, error) {
	var out Results
	for i, h := range c {
		if h == nil {
			continue
		}
		v, err := h.Handle(ctx, ev)
		if err != nil {
			return out, err
		}
		if isEmpty(v) {
			continue
		}
		out = append(out, Result{Source: source, Index: i, Value: v})
	}
	return out, nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok && s == "" {
		return true
	}
	return false
}
