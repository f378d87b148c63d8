package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"result-service/internal/httpresult"
	"result-service/internal/metrics"
	"result-service/internal/result"
	"result-service/internal/telemetry"
)

// WriteResult maps res to its HTTP response and writes it.
func WriteResult(w http.ResponseWriter, r *http.Request, res result.Result, logger *zap.Logger) {
	writeResponse(w, r, res, httpresult.ToResponse(res), logger)
}

// WriteResultOf maps res to its HTTP response and writes it. A successful
// res is written as 200 with its value as JSON body.
func WriteResultOf[T any](w http.ResponseWriter, r *http.Request, res result.Of[T], logger *zap.Logger) {
	writeResponse(w, r, res.Result, httpresult.ToResponseOf(res), logger)
}

func writeResponse(w http.ResponseWriter, r *http.Request, res result.Result, resp httpresult.Response, logger *zap.Logger) {
	status := res.Status().String()
	telemetry.RecordResultStatus(r.Context(), status)

	if md := res.Metadata(); md != nil {
		logger.Debug("Result metadata",
			zap.String("status", status),
			zap.Any("metadata", md),
		)
	}

	err := httpresult.Write(w, resp)
	if errors.Is(err, httpresult.ErrEncodeBody) {
		WriteFault(w, r, err, logger)
		return
	}
	metrics.RecordResult(status, resp.StatusCode)
	if err != nil {
		logger.Error("failed to write result response",
			zap.String("status", status),
			zap.Error(err),
		)
	}
}

// WriteFault answers 500 with a JSON Failure Result carrying err's message.
// It is the error-return counterpart of Recovery, for infrastructure errors
// that reach a handler.
func WriteFault(w http.ResponseWriter, r *http.Request, err error, logger *zap.Logger) {
	logger.Error("Internal server error",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", RequestIDFromContext(r.Context())),
		zap.Error(err),
	)
	metrics.RecordFault(metrics.SourceError)
	writeFault(w, r, err.Error(), logger)
}

func writeFault(w http.ResponseWriter, r *http.Request, message string, logger *zap.Logger) {
	telemetry.RecordFault(r.Context(), message)

	body, err := json.Marshal(result.FailureResult(message))
	if err != nil {
		logger.Error("failed to encode fault response", zap.Error(err))
		body = []byte(`{"status":"Failure"}`)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write(body); err != nil {
		logger.Error("failed to write fault response", zap.Error(err))
	}
}
