package service

import (
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"errors"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Clock is the time source services evaluate expiry and timestamps against.
type Clock func() time.Time

// SystemClock is the default Clock: wall time in UTC.
func SystemClock() time.Time { return time.Now().UTC() }

func newID() string { return uuid.NewString() }

// repoError maps repository sentinels onto AppErrors. Anything unexpected is
// logged and surfaced as INTERNAL.
func repoError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperrors.NotFound(resource)
	case errors.Is(err, repository.ErrConflict):
		return apperrors.Conflict(resource + " already exists")
	case apperrors.IsAppError(err):
		return err
	default:
		log.Error().Err(err).Str("resource", resource).Msg("repository error")
		return apperrors.Storage(err)
	}
}

// validationError turns ozzo-validation output into a VALIDATION_ERROR with
// per-field details.
func validationError(err error) error {
	if err == nil {
		return nil
	}
	var fields validation.Errors
	if errors.As(err, &fields) {
		return apperrors.Validation("invalid input").WithDetails(fields)
	}
	var internal validation.InternalError
	if errors.As(err, &internal) {
		return apperrors.Wrap(apperrors.ErrCodeInternal, "validation failed", err)
	}
	return apperrors.Validation(err.Error())
}

// validScope is an ozzo rule rejecting tokens outside the scope vocabulary.
var validScope = validation.By(func(value interface{}) error {
	s, _ := value.(domain.Scope)
	if !s.Valid() {
		return errors.New("unknown scope " + string(s))
	}
	return nil
})

// requireSelf checks that a client acts on their own data.
func requireSelf(identity *domain.Identity, clientID string) error {
	if identity == nil {
		return apperrors.Unauthenticated("authentication required")
	}
	if identity.Role != domain.RoleUser || identity.UserID != clientID {
		return apperrors.Forbidden("cannot act on another member's data")
	}
	return nil
}
