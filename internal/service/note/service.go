package note

import (
	"context"
	"strings"

	"result-service/internal/db"
	"result-service/internal/domain"
	"result-service/internal/result"
)

type noteRepository interface {
	CreateNote(ctx context.Context, note domain.Note) error
	GetNote(ctx context.Context, noteID string) (domain.Note, error)
	UpdateNote(ctx context.Context, note domain.Note, expectedVersion int) error
	DeleteNote(ctx context.Context, noteID string) error
	ListNotes(ctx context.Context, ownerID string) ([]domain.Note, error)
	TitleExists(ctx context.Context, ownerID, title string) (bool, error)
}

// Service handles note business logic.
//
// Business outcomes are returned as Results. The error return is reserved
// for infrastructure failures that the caller must treat as faults.
type Service struct {
	repo       noteRepository
	transactor db.Transactioner
}

// NewService creates a new note service
func NewService(repo noteRepository, transactor db.Transactioner) *Service {
	return &Service{
		repo:       repo,
		transactor: transactor,
	}
}

// CreateInput holds the fields of a new note
type CreateInput struct {
	Title string
	Body  string
	Tags  []string
}

// UpdateInput holds the replacement fields and the version they were based on
type UpdateInput struct {
	Title   string
	Body    string
	Tags    []string
	Version int
}

// Create stores a new note for ownerID
func (s *Service) Create(ctx context.Context, ownerID string, in CreateInput) (result.Of[domain.Note], error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return outcome[domain.Note](domain.ErrUnauthorized)
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return outcome[domain.Note](domain.ErrInvalidArgument)
	}

	note := domain.NewNote(ownerID, title, in.Body, in.Tags)

	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		exists, err := s.repo.TitleExists(txCtx, ownerID, title)
		if err != nil {
			return err
		}
		if exists {
			return domain.ErrTitleExists
		}
		return s.repo.CreateNote(txCtx, note)
	})
	if err != nil {
		return outcome[domain.Note](err)
	}
	return result.Value(note), nil
}

// Get returns a note owned by ownerID
func (s *Service) Get(ctx context.Context, ownerID, noteID string) (result.Of[domain.Note], error) {
	note, err := s.owned(ctx, ownerID, noteID)
	if err != nil {
		return outcome[domain.Note](err)
	}
	return result.Value(note), nil
}

// List returns every note owned by ownerID
func (s *Service) List(ctx context.Context, ownerID string) (result.Of[[]domain.Note], error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return outcome[[]domain.Note](domain.ErrUnauthorized)
	}
	notes, err := s.repo.ListNotes(ctx, ownerID)
	if err != nil {
		return outcome[[]domain.Note](err)
	}
	return result.Value(notes), nil
}

// Update replaces the content of a note when in.Version is current
func (s *Service) Update(ctx context.Context, ownerID, noteID string, in UpdateInput) (result.Of[domain.Note], error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return outcome[domain.Note](domain.ErrInvalidArgument)
	}

	var updated domain.Note
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		note, err := s.owned(txCtx, ownerID, noteID)
		if err != nil {
			return err
		}
		if err := note.Update(title, in.Body, in.Tags, in.Version); err != nil {
			return err
		}
		if err := s.repo.UpdateNote(txCtx, note, in.Version); err != nil {
			return err
		}
		updated = note
		return nil
	})
	if err != nil {
		return outcome[domain.Note](err)
	}
	return result.Value(updated), nil
}

// Archive makes a note read-only
func (s *Service) Archive(ctx context.Context, ownerID, noteID string) (result.Of[domain.Note], error) {
	var archived domain.Note
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		note, err := s.owned(txCtx, ownerID, noteID)
		if err != nil {
			return err
		}
		version := note.Version
		if err := note.Archive(); err != nil {
			return err
		}
		if err := s.repo.UpdateNote(txCtx, note, version); err != nil {
			return err
		}
		archived = note
		return nil
	})
	if err != nil {
		return outcome[domain.Note](err)
	}
	return result.Value(archived), nil
}

// Delete removes a note
func (s *Service) Delete(ctx context.Context, ownerID, noteID string) (result.Result, error) {
	err := s.transactor.Do(ctx, func(txCtx context.Context) error {
		if _, err := s.owned(txCtx, ownerID, noteID); err != nil {
			return err
		}
		return s.repo.DeleteNote(txCtx, noteID)
	})
	res, err := outcome[struct{}](err)
	return res.Result, err
}

// Share would grant another user access to a note. Sharing is not
// implemented; the note is still checked so callers get NotFound and
// Forbidden before Unsupported.
func (s *Service) Share(ctx context.Context, ownerID, noteID, userID string) (result.Result, error) {
	_, err := s.owned(ctx, ownerID, noteID)
	if err == nil {
		err = domain.ErrUnsupported
	}
	res, err := outcome[struct{}](err)
	return res.Result, err
}

func (s *Service) owned(ctx context.Context, ownerID, noteID string) (domain.Note, error) {
	if strings.TrimSpace(ownerID) == "" {
		return domain.Note{}, domain.ErrUnauthorized
	}
	note, err := s.repo.GetNote(ctx, noteID)
	if err != nil {
		return domain.Note{}, err
	}
	if !note.IsOwnedBy(ownerID) {
		return domain.Note{}, domain.ErrForbidden
	}
	return note, nil
}

// outcome converts err into a Result when it is a business outcome and
// passes it through otherwise.
func outcome[T any](err error) (result.Of[T], error) {
	res, ok := domain.ResultFromError(err)
	if !ok {
		return result.Of[T]{}, err
	}
	return result.Lift[T](res), nil
}
