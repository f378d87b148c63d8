package repository

import (
	"context"
	"slices"
	"sort"
	"sync"

	"result-service/internal/domain"
)

// memoryNoteRepository keeps notes in process memory. It backs the "memory"
// storage driver and tests.
type memoryNoteRepository struct {
	mu    sync.RWMutex
	notes map[string]domain.Note
}

func NewMemoryNoteRepository() NoteRepository {
	return &memoryNoteRepository{notes: make(map[string]domain.Note)}
}

func (r *memoryNoteRepository) CreateNote(ctx context.Context, note domain.Note) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.titleExists(note.OwnerID, note.Title, "") {
		return domain.ErrTitleExists
	}
	r.notes[note.NoteID] = cloneNote(note)
	return nil
}

func (r *memoryNoteRepository) GetNote(ctx context.Context, noteID string) (domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	note, ok := r.notes[noteID]
	if !ok {
		return domain.Note{}, domain.ErrNotFound
	}
	return cloneNote(note), nil
}

func (r *memoryNoteRepository) UpdateNote(ctx context.Context, note domain.Note, expectedVersion int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.notes[note.NoteID]
	if !ok || stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	if r.titleExists(note.OwnerID, note.Title, note.NoteID) {
		return domain.ErrTitleExists
	}
	r.notes[note.NoteID] = cloneNote(note)
	return nil
}

func (r *memoryNoteRepository) DeleteNote(ctx context.Context, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.notes[noteID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.notes, noteID)
	return nil
}

func (r *memoryNoteRepository) ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]domain.Note, 0)
	for _, note := range r.notes {
		if note.OwnerID == ownerID {
			result = append(result, cloneNote(note))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].NoteID < result[j].NoteID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (r *memoryNoteRepository) TitleExists(ctx context.Context, ownerID, title string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.titleExists(ownerID, title, ""), nil
}

func (r *memoryNoteRepository) titleExists(ownerID, title, exceptID string) bool {
	for id, note := range r.notes {
		if id != exceptID && note.OwnerID == ownerID && note.Title == title {
			return true
		}
	}
	return false
}

func cloneNote(note domain.Note) domain.Note {
	note.Tags = slices.Clone(note.Tags)
	return note
}
