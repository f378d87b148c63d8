package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5/pgconn"

	"result-service/internal/db"
	"result-service/internal/domain"
)

const uniqueViolation = "23505"

const schema = `
	CREATE TABLE IF NOT EXISTS notes (
		note_id    TEXT PRIMARY KEY,
		owner_id   TEXT NOT NULL,
		title      TEXT NOT NULL,
		body       TEXT NOT NULL DEFAULT '',
		tags       TEXT[] NOT NULL DEFAULT '{}',
		archived   BOOLEAN NOT NULL DEFAULT FALSE,
		version    INTEGER NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (owner_id, title)
	)
`

type noteRepository struct {
	BaseRepository
}

func NewNoteRepository(cm db.EngineFactory) NoteRepository {
	return &noteRepository{
		BaseRepository: NewBaseRepository(cm),
	}
}

// EnsureSchema creates the notes table when missing
func EnsureSchema(ctx context.Context, cm db.EngineFactory) error {
	if _, err := cm.Get(ctx).Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create notes schema: %w", err)
	}
	return nil
}

func (r *noteRepository) CreateNote(ctx context.Context, note domain.Note) error {
	query := `
		INSERT INTO notes (note_id, owner_id, title, body, tags, archived, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.Engine(ctx).Exec(ctx, query,
		note.NoteID, note.OwnerID, note.Title, note.Body, note.Tags,
		note.Archived, note.Version, note.CreatedAt, note.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrTitleExists
		}
		return fmt.Errorf("failed to create note: %w", err)
	}
	return nil
}

func (r *noteRepository) GetNote(ctx context.Context, noteID string) (domain.Note, error) {
	query := `
		SELECT note_id, owner_id, title, body, tags, archived, version, created_at, updated_at
		FROM notes
		WHERE note_id = $1
	`
	var note domain.Note
	err := pgxscan.Get(ctx, r.Engine(ctx), &note, query, noteID)
	if err != nil {
		if pgxscan.NotFound(err) {
			return domain.Note{}, domain.ErrNotFound
		}
		return domain.Note{}, fmt.Errorf("failed to get note: %w", err)
	}
	return note, nil
}

// UpdateNote stores note if the stored version still equals expectedVersion
func (r *noteRepository) UpdateNote(ctx context.Context, note domain.Note, expectedVersion int) error {
	query := `
		UPDATE notes
		SET title = $2, body = $3, tags = $4, archived = $5, version = $6, updated_at = $7
		WHERE note_id = $1 AND version = $8
	`
	tag, err := r.Engine(ctx).Exec(ctx, query,
		note.NoteID, note.Title, note.Body, note.Tags, note.Archived,
		note.Version, note.UpdatedAt, expectedVersion)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrTitleExists
		}
		return fmt.Errorf("failed to update note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrVersionConflict
	}
	return nil
}

func (r *noteRepository) DeleteNote(ctx context.Context, noteID string) error {
	tag, err := r.Engine(ctx).Exec(ctx, `DELETE FROM notes WHERE note_id = $1`, noteID)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *noteRepository) ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error) {
	query := `
		SELECT note_id, owner_id, title, body, tags, archived, version, created_at, updated_at
		FROM notes
		WHERE owner_id = $1
		ORDER BY created_at, note_id
	`
	notes := make([]domain.Note, 0)
	if err := pgxscan.Select(ctx, r.Engine(ctx), &notes, query, ownerID); err != nil {
		return nil, fmt.Errorf("failed to list notes: %w", err)
	}
	return notes, nil
}

func (r *noteRepository) TitleExists(ctx context.Context, ownerID, title string) (bool, error) {
	var exists bool
	err := r.Engine(ctx).QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM notes WHERE owner_id = $1 AND title = $2)`,
		ownerID, title,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check note title: %w", err)
	}
	return exists, nil
}
