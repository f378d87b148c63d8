package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"result-service/internal/telemetry"
)

// RequestIDHeader carries the request identifier in both directions.
const RequestIDHeader = "X-Request-ID"

type contextKey struct {
	name string
}

var requestIDKey = contextKey{name: "request_id"}

// RequestID propagates the X-Request-ID header, generating one when absent.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))
		})
	}
}

// RequestIDFromContext returns the request ID stored by RequestID, or "".
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// Tracing starts a server span for each request. The span is renamed to
// the matched route pattern once the mux has routed the request. A panic
// passing through ends the span as a 500 and is re-raised.
func Tracing() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := telemetry.StartRequestSpan(r)
			rw := newStatusRecorder(w)
			req := r.WithContext(ctx)

			defer func() {
				if fault := recover(); fault != nil {
					telemetry.RecordFault(ctx, FaultMessage(fault))
					telemetry.EndRequestSpan(span, req.Pattern, http.StatusInternalServerError)
					panic(fault)
				}
				telemetry.EndRequestSpan(span, req.Pattern, rw.statusCode)
			}()

			next.ServeHTTP(rw, req)
		})
	}
}
