package handler

import (
	"net/http"
	"slices"

	"go.uber.org/zap"

	"result-service/internal/app/middleware"
	"result-service/internal/result"
	"result-service/internal/validation"
)

// DocsHandler serves the JSON schemas of request bodies
type DocsHandler struct {
	validator *validation.SchemaValidator
	logger    *zap.Logger
}

// NewDocsHandler creates a docs handler
func NewDocsHandler(validator *validation.SchemaValidator, logger *zap.Logger) *DocsHandler {
	return &DocsHandler{validator: validator, logger: logger}
}

// ListSchemas handles GET /schemas
func (h *DocsHandler) ListSchemas(w http.ResponseWriter, r *http.Request) {
	names := h.validator.Names()
	slices.Sort(names)
	middleware.WriteResultOf(w, r, result.Value(names), h.logger)
}

// ServeSchema handles GET /schemas/{name}
func (h *DocsHandler) ServeSchema(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	source, ok := h.validator.Schema(name)
	if !ok {
		middleware.WriteResult(w, r, result.NotFoundResult("schema "+name+" not found"), h.logger)
		return
	}

	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(source); err != nil {
		h.logger.Error("failed to write schema", zap.String("schema", name), zap.Error(err))
	}
}
