package service

import (
	"alcyxob/fitcoach/internal/authz"
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// SessionDetail is a logged session with its comment thread and attachments.
type SessionDetail struct {
	*domain.WorkoutSession
	Comments []domain.SessionComment `json:"comments"`
	Media    []domain.SessionMedia   `json:"media"`
}

// MediaURL is a short-lived download link for a session attachment.
type MediaURL struct {
	Media     *domain.SessionMedia `json:"media"`
	URL       string               `json:"url"`
	ExpiresAt time.Time            `json:"expiresAt"`
}

// CoachService holds every trainer-facing operation on a client's data.
// Each call is authorized against the client's consent before any read.
type CoachService interface {
	ListSessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.WorkoutSession, error)
	GetSession(ctx context.Context, identity *domain.Identity, clientID, sessionID string) (*SessionDetail, error)
	ListComments(ctx context.Context, identity *domain.Identity, clientID, sessionID string) ([]domain.SessionComment, error)
	CommentOnSession(ctx context.Context, identity *domain.Identity, clientID, sessionID, body string) (*domain.SessionComment, error)
	SessionMediaURL(ctx context.Context, identity *domain.Identity, clientID, sessionID, mediaID string) (*MediaURL, error)

	ListPlannedSessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.PlannedSession, error)
	CreatePlannedSession(ctx context.Context, identity *domain.Identity, clientID string, in PlannedSessionInput) (*domain.PlannedSession, error)
	UpdatePlannedSession(ctx context.Context, identity *domain.Identity, clientID, planID string, patch PlannedSessionPatch) (*domain.PlannedSession, error)
	DeletePlannedSession(ctx context.Context, identity *domain.Identity, clientID, planID string) error

	Progress(ctx context.Context, identity *domain.Identity, clientID string) (*domain.ProgressSummary, error)
	PersonalRecords(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.PersonalRecord, error)

	ListRoutines(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.Routine, error)
	ListProposals(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.RoutineProposal, error)
	ProposeRoutine(ctx context.Context, identity *domain.Identity, clientID string, in ProposalInput) (*domain.RoutineProposal, error)

	ExerciseCatalog(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.Exercise, error)
	Membership(ctx context.Context, identity *domain.Identity, clientID string) (*domain.Membership, error)
}

type coachService struct {
	guard       *authz.ConsentGuard
	store       *repository.Store
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
	now         Clock
}

func NewCoachService(guard *authz.ConsentGuard, store *repository.Store, fileStorage storage.FileStorage, now Clock) CoachService {
	if now == nil {
		now = SystemClock
	}
	return &coachService{
		guard:       guard,
		store:       store,
		fileStorage: fileStorage,
		urlExpiry:   fileStorage.URLExpiry(),
		now:         now,
	}
}

// === Sessions ===

func (s *coachService) ListSessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.WorkoutSession, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpListSessions); err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListByClient(ctx, clientID)
	return sessions, repoError(err, "session")
}

// clientSession loads sessionID and hides sessions of other clients behind NotFound.
func (s *coachService) clientSession(ctx context.Context, clientID, sessionID string) (*domain.WorkoutSession, error) {
	session, err := s.store.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "session")
	}
	if session.ClientID != clientID {
		return nil, apperrors.NotFound("session")
	}
	return session, nil
}

func (s *coachService) GetSession(ctx context.Context, identity *domain.Identity, clientID, sessionID string) (*SessionDetail, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpGetSession); err != nil {
		return nil, err
	}
	session, err := s.clientSession(ctx, clientID, sessionID)
	if err != nil {
		return nil, err
	}
	comments, err := s.store.Comments.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "comment")
	}
	media, err := s.store.Media.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "media")
	}
	return &SessionDetail{WorkoutSession: session, Comments: comments, Media: media}, nil
}

func (s *coachService) ListComments(ctx context.Context, identity *domain.Identity, clientID, sessionID string) ([]domain.SessionComment, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpListComments); err != nil {
		return nil, err
	}
	if _, err := s.clientSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	comments, err := s.store.Comments.ListBySession(ctx, sessionID)
	return comments, repoError(err, "comment")
}

func (s *coachService) CommentOnSession(ctx context.Context, identity *domain.Identity, clientID, sessionID, body string) (*domain.SessionComment, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpCommentOnSession); err != nil {
		return nil, err
	}
	if _, err := s.clientSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	return addComment(ctx, s.store.Comments, identity, clientID, sessionID, body, s.now())
}

// addComment is shared by trainer and client comment paths.
func addComment(ctx context.Context, repo repository.CommentRepository, author *domain.Identity, clientID, sessionID, body string, now time.Time) (*domain.SessionComment, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, apperrors.InvalidInput("body", "cannot be blank")
	}
	if len(body) > maxCommentLength {
		return nil, apperrors.InvalidInput("body", "too long")
	}
	comment := &domain.SessionComment{
		ID:         newID(),
		SessionID:  sessionID,
		ClientID:   clientID,
		AuthorID:   author.UserID,
		AuthorRole: author.Role,
		Body:       body,
		CreatedAt:  now,
	}
	if err := repo.Create(ctx, comment); err != nil {
		return nil, repoError(err, "comment")
	}
	return comment, nil
}

func (s *coachService) SessionMediaURL(ctx context.Context, identity *domain.Identity, clientID, sessionID, mediaID string) (*MediaURL, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpSessionMediaURL); err != nil {
		return nil, err
	}
	if _, err := s.clientSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	return mediaDownloadURL(ctx, s.store.Media, s.fileStorage, sessionID, mediaID, s.urlExpiry, s.now())
}

func mediaDownloadURL(ctx context.Context, repo repository.MediaRepository, fs storage.FileStorage, sessionID, mediaID string, expiry time.Duration, now time.Time) (*MediaURL, error) {
	media, err := repo.GetByID(ctx, mediaID)
	if err != nil {
		return nil, repoError(err, "media")
	}
	if media.SessionID != sessionID {
		return nil, apperrors.NotFound("media")
	}
	url, err := fs.GeneratePresignedDownloadURL(ctx, media.ObjectKey, expiry)
	if err != nil {
		return nil, storageError(err)
	}
	return &MediaURL{Media: media, URL: url, ExpiresAt: now.Add(expiry)}, nil
}

func storageError(err error) error {
	if !errors.Is(err, storage.ErrDisabled) {
		log.Error().Err(err).Msg("object storage call failed")
	}
	return apperrors.External("object storage", err)
}

// === Planned sessions ===

func (s *coachService) ListPlannedSessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.PlannedSession, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpListPlannedSessions); err != nil {
		return nil, err
	}
	plans, err := s.store.PlannedSessions.ListByClient(ctx, clientID)
	return plans, repoError(err, "planned session")
}

func (s *coachService) CreatePlannedSession(ctx context.Context, identity *domain.Identity, clientID string, in PlannedSessionInput) (*domain.PlannedSession, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpCreatePlannedSession); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}

	status := in.Status
	if status == "" {
		status = domain.PlannedDraft
	}
	note := in.Note
	if note == "" {
		note = "created"
	}

	now := s.now()
	plan := &domain.PlannedSession{
		ID:          newID(),
		ClientID:    clientID,
		TrainerID:   identity.UserID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		ScheduledAt: utcPtr(in.ScheduledAt),
		Items:       slices.Clone(in.Items),
		Status:      status,
		CreatedAt:   now,
	}
	plan.Bump(note, identity.UserID, now)

	if err := s.store.PlannedSessions.Create(ctx, plan); err != nil {
		return nil, repoError(err, "planned session")
	}
	log.Info().Str("planId", plan.ID).Str("clientId", clientID).Str("trainerId", identity.UserID).Msg("planned session created")
	return plan, nil
}

// UpdatePlannedSession applies patch and bumps version and changelog in the
// same write. Only DRAFT and PROPOSED sessions can change.
func (s *coachService) UpdatePlannedSession(ctx context.Context, identity *domain.Identity, clientID, planID string, patch PlannedSessionPatch) (*domain.PlannedSession, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpUpdatePlannedSession); err != nil {
		return nil, err
	}
	if err := patch.Validate(); err != nil {
		return nil, validationError(err)
	}

	note := patch.Note
	if note == "" {
		note = describePatch(patch)
	}

	plan, err := s.store.PlannedSessions.Update(ctx, planID, func(p *domain.PlannedSession) error {
		if p.ClientID != clientID {
			return apperrors.NotFound("planned session")
		}
		if !p.Status.Editable() {
			return apperrors.State("planned session is " + string(p.Status) + " and can no longer be edited")
		}
		if patch.Title != nil {
			p.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Description != nil {
			p.Description = *patch.Description
		}
		if patch.ScheduledAt.Present {
			p.ScheduledAt = utcPtr(patch.ScheduledAt.Value)
		}
		if patch.Items != nil {
			p.Items = slices.Clone(*patch.Items)
		}
		if patch.Status != nil {
			p.Status = *patch.Status
		}
		p.Bump(note, identity.UserID, s.now())
		return nil
	})
	if err != nil {
		return nil, repoError(err, "planned session")
	}
	return plan, nil
}

func describePatch(p PlannedSessionPatch) string {
	var changed []string
	if p.Title != nil {
		changed = append(changed, "title")
	}
	if p.Description != nil {
		changed = append(changed, "description")
	}
	if p.ScheduledAt.Present {
		changed = append(changed, "schedule")
	}
	if p.Items != nil {
		changed = append(changed, "items")
	}
	if p.Status != nil {
		changed = append(changed, "status "+string(*p.Status))
	}
	if len(changed) == 0 {
		return "updated"
	}
	return "updated " + strings.Join(changed, ", ")
}

func (s *coachService) DeletePlannedSession(ctx context.Context, identity *domain.Identity, clientID, planID string) error {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpDeletePlannedSession); err != nil {
		return err
	}
	plan, err := s.store.PlannedSessions.GetByID(ctx, planID)
	if err != nil {
		return repoError(err, "planned session")
	}
	if plan.ClientID != clientID {
		return apperrors.NotFound("planned session")
	}
	if !plan.Status.Editable() {
		return apperrors.State("planned session is " + string(plan.Status) + " and can no longer be deleted")
	}
	return repoError(s.store.PlannedSessions.Delete(ctx, planID), "planned session")
}

// === Progress ===

func (s *coachService) Progress(ctx context.Context, identity *domain.Identity, clientID string) (*domain.ProgressSummary, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpProgress); err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListByClient(ctx, clientID)
	if err != nil {
		return nil, repoError(err, "session")
	}
	summary := domain.SummarizeProgress(clientID, sessions, s.now())
	return &summary, nil
}

func (s *coachService) PersonalRecords(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.PersonalRecord, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpPersonalRecords); err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListByClient(ctx, clientID)
	if err != nil {
		return nil, repoError(err, "session")
	}
	return domain.PersonalRecords(sessions), nil
}

// === Routines ===

func (s *coachService) ListRoutines(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.Routine, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpListRoutines); err != nil {
		return nil, err
	}
	routines, err := s.store.Routines.ListByClient(ctx, clientID)
	return routines, repoError(err, "routine")
}

func (s *coachService) ListProposals(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.RoutineProposal, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpListProposals); err != nil {
		return nil, err
	}
	proposals, err := s.store.Proposals.ListByClient(ctx, clientID)
	return proposals, repoError(err, "proposal")
}

func (s *coachService) ProposeRoutine(ctx context.Context, identity *domain.Identity, clientID string, in ProposalInput) (*domain.RoutineProposal, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpProposeRoutine); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}
	proposal := &domain.RoutineProposal{
		ID:        newID(),
		ClientID:  clientID,
		TrainerID: identity.UserID,
		Name:      strings.TrimSpace(in.Name),
		Notes:     in.Notes,
		Days:      in.Days,
		Status:    domain.ProposalPending,
		CreatedAt: s.now(),
	}
	proposal = proposal.Clone()
	if err := s.store.Proposals.Create(ctx, proposal); err != nil {
		return nil, repoError(err, "proposal")
	}
	return proposal, nil
}

// === Catalog & billing ===

// ExerciseCatalog returns the exercises the client can pick from: the shared
// catalog plus the client's own custom exercises.
func (s *coachService) ExerciseCatalog(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.Exercise, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpExerciseCatalog); err != nil {
		return nil, err
	}
	exercises, err := s.store.Exercises.ListVisibleTo(ctx, clientID)
	return exercises, repoError(err, "exercise")
}

func (s *coachService) Membership(ctx context.Context, identity *domain.Identity, clientID string) (*domain.Membership, error) {
	if _, err := s.guard.Authorize(ctx, identity, clientID, authz.OpMembership); err != nil {
		return nil, err
	}
	membership, err := s.store.Memberships.Get(ctx, clientID)
	return membership, repoError(err, "membership")
}
