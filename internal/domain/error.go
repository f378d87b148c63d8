package domain

import (
	"errors"

	"result-service/internal/result"
)

// Domain errors. Each one is an expected business outcome and maps to a
// Result status in ResultFromError.
var (
	// ErrNotFound - resource does not exist (NotFound)
	ErrNotFound = errors.New("note not found")

	// ErrUnauthorized - caller identity missing (Unauthorized)
	ErrUnauthorized = errors.New("missing user identity")

	// ErrForbidden - caller may not touch the resource (Forbidden)
	ErrForbidden = errors.New("access to note denied")

	// ErrTitleExists - owner already has a note with this title (Conflict)
	ErrTitleExists = errors.New("note with this title already exists")

	// ErrVersionConflict - stale version on update (Conflict)
	ErrVersionConflict = errors.New("note was modified by another request")

	// ErrArchived - archived notes are read-only (Failure)
	ErrArchived = errors.New("note is archived")

	// ErrInvalidArgument - request data rejected (Invalid)
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupported - operation not implemented (Unsupported)
	ErrUnsupported = errors.New("operation not supported")
)

// ResultFromError converts a domain error into its Result. It reports false
// for errors that are not business outcomes; those must be handled as
// faults.
func ResultFromError(err error) (result.Result, bool) {
	switch {
	case err == nil:
		return result.SuccessResult(), true
	case errors.Is(err, ErrNotFound):
		return result.FromError(result.NotFound, err), true
	case errors.Is(err, ErrUnauthorized):
		return result.FromError(result.Unauthorized, err), true
	case errors.Is(err, ErrForbidden):
		return result.ForbiddenResult(), true
	case errors.Is(err, ErrTitleExists), errors.Is(err, ErrVersionConflict):
		return result.FromError(result.Conflict, err), true
	case errors.Is(err, ErrArchived):
		return result.FromError(result.Failure, err), true
	case errors.Is(err, ErrInvalidArgument):
		return result.FromError(result.Invalid, err), true
	case errors.Is(err, ErrUnsupported):
		return result.UnsupportedResult(), true
	default:
		return result.Result{}, false
	}
}
