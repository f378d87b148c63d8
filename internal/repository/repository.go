package repository

import (
	"context"

	"result-service/internal/db"
	"result-service/internal/domain"
)

// NoteRepository defines methods for note data access
type NoteRepository interface {
	CreateNote(ctx context.Context, note domain.Note) error
	GetNote(ctx context.Context, noteID string) (domain.Note, error)
	UpdateNote(ctx context.Context, note domain.Note, expectedVersion int) error
	DeleteNote(ctx context.Context, noteID string) error
	ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error)
	TitleExists(ctx context.Context, ownerID, title string) (bool, error)
}

type BaseRepository struct {
	cm db.EngineFactory
}

func NewBaseRepository(cm db.EngineFactory) BaseRepository {
	return BaseRepository{cm: cm}
}

func (r *BaseRepository) Engine(ctx context.Context) db.Engine {
	return r.cm.Get(ctx)
}
