// Package middleware provides the HTTP middleware stack: request IDs,
// panic recovery, request logging and per-request timeouts.
package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"hdfhr-backend/pkg/api"
)

type contextKey string

const requestIDKey contextKey = "requestID"

// RequestID accepts the client's X-Request-ID or generates one, and stamps
// it on both the context and the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(api.HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		w.Header().Set(api.HeaderRequestID, requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts the request ID from a context, empty when absent.
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
