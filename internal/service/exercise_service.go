package service

import (
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ExerciseInput describes a catalog entry.
type ExerciseInput struct {
	Name             string
	Description      string
	MuscleGroup      string
	ExecutionTechnic string
	Applicability    string // "Home", "Gym", "Home/Gym"
	Difficulty       string // "Novice", "Medium", "Advanced"
	VideoURL         string
}

func (in ExerciseInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Name, validation.Required, validation.Length(1, maxTitleLength)),
		validation.Field(&in.Applicability, validation.In("Home", "Gym", "Home/Gym")),
		validation.Field(&in.Difficulty, validation.In("Novice", "Medium", "Advanced")),
		validation.Field(&in.VideoURL, is.URL),
	)
}

type ExerciseService interface {
	// Create adds to the shared catalog for trainers and admins, and to the
	// caller's own custom list for members.
	Create(ctx context.Context, identity *domain.Identity, in ExerciseInput) (*domain.Exercise, error)
	// List returns the shared catalog plus the caller's custom exercises.
	List(ctx context.Context, identity *domain.Identity) ([]domain.Exercise, error)
	GetByID(ctx context.Context, identity *domain.Identity, id string) (*domain.Exercise, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	now          Clock
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, now Clock) ExerciseService {
	if now == nil {
		now = SystemClock
	}
	return &exerciseService{exerciseRepo: exerciseRepo, now: now}
}

func (s *exerciseService) Create(ctx context.Context, identity *domain.Identity, in ExerciseInput) (*domain.Exercise, error) {
	if identity == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	owner := ""
	if identity.Role == domain.RoleUser {
		owner = identity.UserID
	}
	now := s.now()
	exercise := &domain.Exercise{
		ID:               newID(),
		OwnerID:          owner,
		Name:             strings.TrimSpace(in.Name),
		Description:      in.Description,
		MuscleGroup:      in.MuscleGroup,
		ExecutionTechnic: in.ExecutionTechnic,
		Applicability:    in.Applicability,
		Difficulty:       in.Difficulty,
		VideoURL:         in.VideoURL,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.exerciseRepo.Create(ctx, exercise); err != nil {
		return nil, repoError(err, "exercise")
	}
	return exercise, nil
}

func (s *exerciseService) List(ctx context.Context, identity *domain.Identity) ([]domain.Exercise, error) {
	if identity == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	owner := ""
	if identity.Role == domain.RoleUser {
		owner = identity.UserID
	}
	exercises, err := s.exerciseRepo.ListVisibleTo(ctx, owner)
	return exercises, repoError(err, "exercise")
}

// GetByID hides other members' custom exercises behind NotFound.
func (s *exerciseService) GetByID(ctx context.Context, identity *domain.Identity, id string) (*domain.Exercise, error) {
	if identity == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "exercise")
	}
	if exercise.OwnerID != "" && exercise.OwnerID != identity.UserID {
		return nil, apperrors.NotFound("exercise")
	}
	return exercise, nil
}
