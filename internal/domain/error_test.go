package domain

import (
	"errors"
	"fmt"
	"testing"

	"result-service/internal/result"
)

func TestResultFromError(t *testing.T) {
	tests := []struct {
		err     error
		want    result.Status
		message string
	}{
		{nil, result.Success, ""},
		{ErrNotFound, result.NotFound, "note not found"},
		{fmt.Errorf("get note: %w", ErrNotFound), result.NotFound, "get note: note not found"},
		{ErrUnauthorized, result.Unauthorized, "missing user identity"},
		{ErrForbidden, result.Forbidden, ""},
		{ErrTitleExists, result.Conflict, "note with this title already exists"},
		{ErrVersionConflict, result.Conflict, "note was modified by another request"},
		{ErrArchived, result.Failure, "note is archived"},
		{ErrInvalidArgument, result.Invalid, "invalid argument"},
		{ErrUnsupported, result.Unsupported, ""},
	}

	for _, tt := range tests {
		res, ok := ResultFromError(tt.err)
		if !ok {
			t.Fatalf("ResultFromError(%v) not handled", tt.err)
		}
		if res.Status() != tt.want {
			t.Errorf("ResultFromError(%v) status = %s, want %s", tt.err, res.Status(), tt.want)
		}
		if res.Message() != tt.message {
			t.Errorf("ResultFromError(%v) message = %q, want %q", tt.err, res.Message(), tt.message)
		}
	}
}

func TestResultFromError_Unknown(t *testing.T) {
	if _, ok := ResultFromError(errors.New("connection refused")); ok {
		t.Fatal("infrastructure error must not map to a Result")
	}
}

func TestNote_UpdateAndArchive(t *testing.T) {
	n := NewNote("u1", "todo", "milk", nil)
	if n.Version != 1 || n.Tags == nil {
		t.Fatalf("unexpected new note: %+v", n)
	}

	if err := n.Update("todo", "milk, eggs", []string{"home"}, 2); !errors.Is(err, ErrVersionConflict) {
		t.Fatalf("expected version conflict, got %v", err)
	}
	if err := n.Update("todo", "milk, eggs", []string{"home"}, 1); err != nil {
		t.Fatalf("update: %v", err)
	}
	if n.Version != 2 {
		t.Errorf("version = %d, want 2", n.Version)
	}

	if err := n.Archive(); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if err := n.Archive(); !errors.Is(err, ErrArchived) {
		t.Errorf("expected ErrArchived, got %v", err)
	}
	if err := n.Update("x", "y", nil, n.Version); !errors.Is(err, ErrArchived) {
		t.Errorf("expected ErrArchived on update, got %v", err)
	}
}
