package domain

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Note is a short text owned by a single user
type Note struct {
	NoteID    string
	OwnerID   string
	Title     string
	Body      string
	Tags      []string
	Archived  bool
	Version   int
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewNote creates a new note with a generated ID
func NewNote(ownerID, title, body string, tags []string) Note {
	now := time.Now().UTC()
	if tags == nil {
		tags = []string{}
	}
	return Note{
		NoteID:    uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Body:      body,
		Tags:      slices.Clone(tags),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsOwnedBy checks if the user owns the note
func (n *Note) IsOwnedBy(userID string) bool {
	return n.OwnerID == userID
}

// Update replaces the editable fields. expectedVersion must match the
// current version.
func (n *Note) Update(title, body string, tags []string, expectedVersion int) error {
	if n.Archived {
		return ErrArchived
	}
	if n.Version != expectedVersion {
		return ErrVersionConflict
	}
	if tags == nil {
		tags = []string{}
	}
	n.Title = title
	n.Body = body
	n.Tags = slices.Clone(tags)
	n.touch()
	return nil
}

// Archive marks the note read-only
func (n *Note) Archive() error {
	if n.Archived {
		return ErrArchived
	}
	n.Archived = true
	n.touch()
	return nil
}

func (n *Note) touch() {
	n.Version++
	n.UpdatedAt = time.Now().UTC()
}
