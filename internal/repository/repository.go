package repository

import (
	"alcyxob/fitcoach/internal/domain"
	"context"
)

// Error constants for repository layer
var (
	ErrNotFound = RepositoryError("not found")
	// ErrConflict is returned when a write would break a uniqueness rule,
	// e.g. a second ACTIVE consent for the same client/trainer pair.
	ErrConflict = RepositoryError("conflict")
	// ErrConcurrentUpdate is returned when an optimistic update lost every retry.
	ErrConcurrentUpdate = RepositoryError("concurrent update")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error)
}

// ConsentRepository stores consent grants. Implementations must make Create
// and Update atomic with respect to concurrent readers of the same record.
type ConsentRepository interface {
	// Create inserts c, failing with ErrConflict when an ACTIVE consent already
	// exists for (c.ClientID, c.TrainerID).
	Create(ctx context.Context, c *domain.Consent) error
	GetByID(ctx context.Context, id string) (*domain.Consent, error)
	// FindActive returns the ACTIVE-status consent for the pair, expired or not.
	FindActive(ctx context.Context, trainerID, clientID string) (*domain.Consent, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.Consent, error)
	ListActiveByTrainer(ctx context.Context, trainerID string) ([]domain.Consent, error)
	// Update applies fn to the current record and stores the result as one
	// atomic write. If fn returns an error nothing is stored.
	Update(ctx context.Context, id string, fn func(*domain.Consent) error) (*domain.Consent, error)
}

// PlannedSessionRepository stores trainer-authored planned sessions.
type PlannedSessionRepository interface {
	Create(ctx context.Context, p *domain.PlannedSession) error
	GetByID(ctx context.Context, id string) (*domain.PlannedSession, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.PlannedSession, error)
	Update(ctx context.Context, id string, fn func(*domain.PlannedSession) error) (*domain.PlannedSession, error)
	Delete(ctx context.Context, id string) error
}

// WorkoutSessionRepository stores sessions logged by clients.
type WorkoutSessionRepository interface {
	Create(ctx context.Context, s *domain.WorkoutSession) error
	GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error)
	// ListByClient returns sessions newest first.
	ListByClient(ctx context.Context, clientID string) ([]domain.WorkoutSession, error)
}

// CommentRepository stores comments on logged sessions.
type CommentRepository interface {
	Create(ctx context.Context, c *domain.SessionComment) error
	ListBySession(ctx context.Context, sessionID string) ([]domain.SessionComment, error)
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) error
	GetByID(ctx context.Context, id string) (*domain.Exercise, error)
	// ListVisibleTo returns the shared catalog plus ownerID's custom exercises.
	ListVisibleTo(ctx context.Context, ownerID string) ([]domain.Exercise, error)
}

// ProposalRepository stores routine proposals.
type ProposalRepository interface {
	Create(ctx context.Context, p *domain.RoutineProposal) error
	GetByID(ctx context.Context, id string) (*domain.RoutineProposal, error)
	ListByClient(ctx context.Context, clientID string) ([]domain.RoutineProposal, error)
	Update(ctx context.Context, id string, fn func(*domain.RoutineProposal) error) (*domain.RoutineProposal, error)
}

// RoutineRepository stores routines adopted by clients.
type RoutineRepository interface {
	Create(ctx context.Context, r *domain.Routine) error
	ListByClient(ctx context.Context, clientID string) ([]domain.Routine, error)
}

// MembershipRepository stores billing records keyed by client.
type MembershipRepository interface {
	Get(ctx context.Context, clientID string) (*domain.Membership, error)
	Upsert(ctx context.Context, m *domain.Membership) error
	List(ctx context.Context) ([]domain.Membership, error)
}

// MediaRepository interacts with session media metadata.
type MediaRepository interface {
	Create(ctx context.Context, m *domain.SessionMedia) error
	GetByID(ctx context.Context, id string) (*domain.SessionMedia, error)
	ListBySession(ctx context.Context, sessionID string) ([]domain.SessionMedia, error)
}

// Store bundles every repository the services need, so one constructor can
// swap the whole backing store.
type Store struct {
	Users           UserRepository
	Consents        ConsentRepository
	PlannedSessions PlannedSessionRepository
	Sessions        WorkoutSessionRepository
	Comments        CommentRepository
	Exercises       ExerciseRepository
	Proposals       ProposalRepository
	Routines        RoutineRepository
	Memberships     MembershipRepository
	Media           MediaRepository
}
