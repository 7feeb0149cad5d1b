package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

const (
	traceIDHeader = "X-Request-ID"
	maxTraceIDLen = 128
)

type traceIDKey struct{}

// Tracing propagates the caller's X-Request-ID, or assigns a new one when it
// is missing or implausibly long.
func Tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if traceID == "" || len(traceID) > maxTraceIDLen {
			traceID = uuid.New().String()
		}

		w.Header().Set(traceIDHeader, traceID)
		ctx := context.WithValue(r.Context(), traceIDKey{}, traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// Chain applies middlewares so the first one listed is outermost.
func Chain(h http.Handler, mws ...func(http.Handler) http.Handler) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
