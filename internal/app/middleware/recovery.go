package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"result-service/internal/metrics"
)

// FaultMessageFunc turns a recovered panic value into the message exposed
// in the Failure Result.
type FaultMessageFunc func(fault any) string

// FaultMessage is the default FaultMessageFunc. It keeps only the top-level
// message of the fault: the text of an error, a string as-is, anything
// else formatted with %v.
func FaultMessage(fault any) string {
	switch f := fault.(type) {
	case error:
		return f.Error()
	case string:
		return f
	case fmt.Stringer:
		return f.String()
	default:
		return fmt.Sprint(f)
	}
}

type recoveryConfig struct {
	faultMessage FaultMessageFunc
}

// RecoveryOption configures Recovery.
type RecoveryOption func(*recoveryConfig)

// WithFaultMessage replaces the function deriving the client-facing message
// from a recovered fault.
func WithFaultMessage(fn FaultMessageFunc) RecoveryOption {
	return func(c *recoveryConfig) {
		if fn != nil {
			c.faultMessage = fn
		}
	}
}

// Recovery is a middleware that recovers from any panic in the next handler
// and answers 500 Internal Server Error with a JSON Failure Result.
//
// The 500 is fixed: it is not taken from the Result status table, where
// Failure maps to 400. The fault is considered handled and is not re-raised.
func Recovery(logger *zap.Logger, opts ...RecoveryOption) func(http.Handler) http.Handler {
	cfg := recoveryConfig{faultMessage: FaultMessage}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := newStatusRecorder(w)

			defer func() {
				fault := recover()
				if fault == nil {
					return
				}

				message := cfg.faultMessage(fault)
				logger.Error("Panic recovered",
					zap.String("method", r.Method),
					zap.String("path", r.URL.Path),
					zap.String("request_id", RequestIDFromContext(r.Context())),
					zap.Any("panic", fault),
					zap.String("stack", string(debug.Stack())),
				)
				metrics.RecordFault(metrics.SourcePanic)

				if rw.wroteHeader {
					logger.Warn("Response already started, fault response dropped",
						zap.Int("status", rw.statusCode),
						zap.String("path", r.URL.Path),
					)
					return
				}
				writeFault(w, r, message, logger)
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
