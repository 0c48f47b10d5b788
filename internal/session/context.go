package session

import "context"

type contextKey string

const historyKey contextKey = "history"

// ContextWithHistory returns a context carrying the session's history. The
// serving layer sets it per request after resolving the session cookie.
func ContextWithHistory(ctx context.Context, h *History) context.Context {
	return context.WithValue(ctx, historyKey, h)
}

// FromContext returns the session history carried by the context, or nil.
func FromContext(ctx context.Context) *History {
	h, _ := ctx.Value(historyKey).(*History)
	return h
}
