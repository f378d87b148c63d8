package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"result-service/internal/app/middleware"
	"result-service/internal/domain"
	"result-service/internal/result"
	"result-service/internal/service/note"
	"result-service/internal/validation"
)

// UserIDHeader identifies the caller. Authentication happens upstream.
const UserIDHeader = "X-User-ID"

const maxBodyBytes = 1 << 20

// Schema names registered by RegisterSchemas
const (
	SchemaCreateNote = "create-note"
	SchemaUpdateNote = "update-note"
	SchemaShareNote  = "share-note"
)

type noteService interface {
	Create(ctx context.Context, ownerID string, in note.CreateInput) (result.Of[domain.Note], error)
	Get(ctx context.Context, ownerID, noteID string) (result.Of[domain.Note], error)
	List(ctx context.Context, ownerID string) (result.Of[[]domain.Note], error)
	Update(ctx context.Context, ownerID, noteID string, in note.UpdateInput) (result.Of[domain.Note], error)
	Archive(ctx context.Context, ownerID, noteID string) (result.Of[domain.Note], error)
	Delete(ctx context.Context, ownerID, noteID string) (result.Result, error)
	Share(ctx context.Context, ownerID, noteID, userID string) (result.Result, error)
}

// NoteHandler handles note-related HTTP requests
type NoteHandler struct {
	service         noteService
	validator       *validation.SchemaValidator
	includeMetadata bool
	logger          *zap.Logger
}

// NewNoteHandler creates a new note handler. includeMetadata controls
// whether validation failures carry per-field metadata.
func NewNoteHandler(service noteService, validator *validation.SchemaValidator, includeMetadata bool, logger *zap.Logger) *NoteHandler {
	return &NoteHandler{
		service:         service,
		validator:       validator,
		includeMetadata: includeMetadata,
		logger:          logger,
	}
}

// Note DTOs with snake_case

type CreateNoteRequest struct {
	Title string   `json:"title" jsonschema:"minLength=1,maxLength=200"`
	Body  string   `json:"body,omitempty" jsonschema:"maxLength=10000"`
	Tags  []string `json:"tags,omitempty" jsonschema:"maxItems=10"`
}

type UpdateNoteRequest struct {
	Title   string   `json:"title" jsonschema:"minLength=1,maxLength=200"`
	Body    string   `json:"body,omitempty" jsonschema:"maxLength=10000"`
	Tags    []string `json:"tags,omitempty" jsonschema:"maxItems=10"`
	Version int      `json:"version" jsonschema:"minimum=1"`
}

type ShareNoteRequest struct {
	UserID string `json:"user_id" jsonschema:"minLength=1"`
}

type NoteDTO struct {
	NoteID    string   `json:"note_id"`
	OwnerID   string   `json:"owner_id"`
	Title     string   `json:"title"`
	Body      string   `json:"body"`
	Tags      []string `json:"tags"`
	Archived  bool     `json:"archived"`
	Version   int      `json:"version"`
	CreatedAt string   `json:"created_at"`
	UpdatedAt string   `json:"updated_at"`
}

// RegisterSchemas registers the request schemas used by NoteHandler
func RegisterSchemas(v *validation.SchemaValidator) error {
	schemas := map[string]any{
		SchemaCreateNote: &CreateNoteRequest{},
		SchemaUpdateNote: &UpdateNoteRequest{},
		SchemaShareNote:  &ShareNoteRequest{},
	}
	for name, dto := range schemas {
		if err := v.Register(name, dto); err != nil {
			return fmt.Errorf("failed to register schema: %w", err)
		}
	}
	return nil
}

// CreateNote handles POST /notes
func (h *NoteHandler) CreateNote(w http.ResponseWriter, r *http.Request) {
	var req CreateNoteRequest
	if !h.decode(w, r, SchemaCreateNote, &req) {
		return
	}

	res, err := h.service.Create(r.Context(), userID(r), note.CreateInput{
		Title: req.Title,
		Body:  req.Body,
		Tags:  req.Tags,
	})
	h.writeNote(w, r, res, err)
}

// ListNotes handles GET /notes
func (h *NoteHandler) ListNotes(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.List(r.Context(), userID(r))
	if err != nil {
		middleware.WriteFault(w, r, err, h.logger)
		return
	}
	middleware.WriteResultOf(w, r, result.Map(res, mapNotesToDTO), h.logger)
}

// GetNote handles GET /notes/{id}
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Get(r.Context(), userID(r), r.PathValue("id"))
	h.writeNote(w, r, res, err)
}

// UpdateNote handles PUT /notes/{id}
func (h *NoteHandler) UpdateNote(w http.ResponseWriter, r *http.Request) {
	var req UpdateNoteRequest
	if !h.decode(w, r, SchemaUpdateNote, &req) {
		return
	}

	res, err := h.service.Update(r.Context(), userID(r), r.PathValue("id"), note.UpdateInput{
		Title:   req.Title,
		Body:    req.Body,
		Tags:    req.Tags,
		Version: req.Version,
	})
	h.writeNote(w, r, res, err)
}

// ArchiveNote handles POST /notes/{id}/archive
func (h *NoteHandler) ArchiveNote(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Archive(r.Context(), userID(r), r.PathValue("id"))
	h.writeNote(w, r, res, err)
}

// DeleteNote handles DELETE /notes/{id}
func (h *NoteHandler) DeleteNote(w http.ResponseWriter, r *http.Request) {
	res, err := h.service.Delete(r.Context(), userID(r), r.PathValue("id"))
	if err != nil {
		middleware.WriteFault(w, r, err, h.logger)
		return
	}
	middleware.WriteResult(w, r, res, h.logger)
}

// ShareNote handles POST /notes/{id}/share
func (h *NoteHandler) ShareNote(w http.ResponseWriter, r *http.Request) {
	var req ShareNoteRequest
	if !h.decode(w, r, SchemaShareNote, &req) {
		return
	}

	res, err := h.service.Share(r.Context(), userID(r), r.PathValue("id"), req.UserID)
	if err != nil {
		middleware.WriteFault(w, r, err, h.logger)
		return
	}
	middleware.WriteResult(w, r, res, h.logger)
}

// decode validates the request body against schema and decodes it into
// dst. It writes the response and returns false when the body is rejected.
func (h *NoteHandler) decode(w http.ResponseWriter, r *http.Request, schema string, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		errs := validation.NewErrorSet()
		errs.Add(validation.BodyField, "request body is too large or unreadable")
		middleware.WriteResult(w, r, validation.ToResult(errs, h.includeMetadata), h.logger)
		return false
	}

	errs, err := h.validator.Validate(schema, body)
	if err != nil {
		middleware.WriteFault(w, r, err, h.logger)
		return false
	}
	if !errs.Empty() {
		middleware.WriteResult(w, r, validation.ToResult(errs, h.includeMetadata), h.logger)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		middleware.WriteResult(w, r, validation.ToResult(decodeErrors(err), h.includeMetadata), h.logger)
		return false
	}
	return true
}

// decodeErrors reports a body that passed schema validation but does not
// fit the request type, such as a number out of range for an int field.
func decodeErrors(err error) *validation.ErrorSet {
	errs := validation.NewErrorSet()
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		errs.Add(typeErr.Field, fmt.Sprintf("%s cannot be stored as %s", typeErr.Value, typeErr.Type))
		return errs
	}
	errs.Add(validation.BodyField, "request body does not match the expected shape")
	return errs
}

func (h *NoteHandler) writeNote(w http.ResponseWriter, r *http.Request, res result.Of[domain.Note], err error) {
	if err != nil {
		middleware.WriteFault(w, r, err, h.logger)
		return
	}
	middleware.WriteResultOf(w, r, result.Map(res, mapNoteToDTO), h.logger)
}

func userID(r *http.Request) string {
	return r.Header.Get(UserIDHeader)
}

func mapNoteToDTO(n domain.Note) NoteDTO {
	tags := n.Tags
	if tags == nil {
		tags = []string{}
	}
	return NoteDTO{
		NoteID:    n.NoteID,
		OwnerID:   n.OwnerID,
		Title:     n.Title,
		Body:      n.Body,
		Tags:      tags,
		Archived:  n.Archived,
		Version:   n.Version,
		CreatedAt: n.CreatedAt.Format(time.RFC3339),
		UpdatedAt: n.UpdatedAt.Format(time.RFC3339),
	}
}

func mapNotesToDTO(notes []domain.Note) []NoteDTO {
	out := make([]NoteDTO, len(notes))
	for i, n := range notes {
		out[i] = mapNoteToDTO(n)
	}
	return out
}
