package service

import (
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"alcyxob/fitcoach/internal/storage"
	"context"
	"path"
	"slices"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

const maxMediaSize = 500 << 20

// UploadURLResponse structure for returning URL and object key
type UploadURLResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"` // The key client needs to report back on confirm
	ExpiresAt time.Time `json:"expiresAt"`
}

// ConfirmUploadInput describes a finished direct-to-bucket upload.
type ConfirmUploadInput struct {
	ObjectKey   string
	FileName    string
	ContentType string
	Size        int64
}

// ClientService is a member acting on their own data. No consent is involved;
// the caller must be the client named in the request.
type ClientService interface {
	LogSession(ctx context.Context, identity *domain.Identity, clientID string, in LogSessionInput) (*domain.WorkoutSession, error)
	ListMySessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.WorkoutSession, error)
	GetMySession(ctx context.Context, identity *domain.Identity, clientID, sessionID string) (*SessionDetail, error)
	CommentOnMySession(ctx context.Context, identity *domain.Identity, clientID, sessionID, body string) (*domain.SessionComment, error)

	ListMyPlannedSessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.PlannedSession, error)
	RespondToPlannedSession(ctx context.Context, identity *domain.Identity, clientID, planID string, accept bool) (*domain.PlannedSession, error)

	ListMyProposals(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.RoutineProposal, error)
	AcceptProposal(ctx context.Context, identity *domain.Identity, clientID, proposalID string) (*domain.Routine, error)
	RejectProposal(ctx context.Context, identity *domain.Identity, clientID, proposalID string) (*domain.RoutineProposal, error)
	ListMyRoutines(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.Routine, error)

	RequestMediaUpload(ctx context.Context, identity *domain.Identity, clientID, sessionID, fileName, contentType string) (*UploadURLResponse, error)
	ConfirmMediaUpload(ctx context.Context, identity *domain.Identity, clientID, sessionID string, in ConfirmUploadInput) (*domain.SessionMedia, error)
	MyMediaURL(ctx context.Context, identity *domain.Identity, clientID, sessionID, mediaID string) (*MediaURL, error)

	// ListTrainers is the directory a member picks from when granting consent.
	ListTrainers(ctx context.Context, identity *domain.Identity) ([]domain.Identity, error)
}

// clientService implements the ClientService interface.
type clientService struct {
	store       *repository.Store
	fileStorage storage.FileStorage
	urlExpiry   time.Duration
	now         Clock
}

// NewClientService creates a new instance of clientService.
func NewClientService(store *repository.Store, fileStorage storage.FileStorage, now Clock) ClientService {
	if now == nil {
		now = SystemClock
	}
	return &clientService{
		store:       store,
		fileStorage: fileStorage,
		urlExpiry:   fileStorage.URLExpiry(),
		now:         now,
	}
}

// === Sessions ===

func (s *clientService) LogSession(ctx context.Context, identity *domain.Identity, clientID string, in LogSessionInput) (*domain.WorkoutSession, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, validationError(err)
	}
	session := (&domain.WorkoutSession{
		ID:              newID(),
		ClientID:        clientID,
		Title:           strings.TrimSpace(in.Title),
		PerformedAt:     in.PerformedAt.UTC(),
		DurationMinutes: in.DurationMinutes,
		Entries:         in.Entries,
		Notes:           in.Notes,
		CreatedAt:       s.now(),
	}).Clone()
	if err := s.store.Sessions.Create(ctx, session); err != nil {
		return nil, repoError(err, "session")
	}
	return session, nil
}

func (s *clientService) ListMySessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.WorkoutSession, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	sessions, err := s.store.Sessions.ListByClient(ctx, clientID)
	return sessions, repoError(err, "session")
}

func (s *clientService) ownSession(ctx context.Context, clientID, sessionID string) (*domain.WorkoutSession, error) {
	session, err := s.store.Sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, repoError(err, "session")
	}
	if session.ClientID != clientID {
		return nil, apperrors.NotFound("session")
	}
	return session, nil
}

func (s *clientService) GetMySession(ctx context.Context, identity *domain.Identity, clientID, sessionID string) (*SessionDetail, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	session, err := s.ownSession(ctx, clientID, sessionID)
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

func (s *clientService) CommentOnMySession(ctx context.Context, identity *domain.Identity, clientID, sessionID, body string) (*domain.SessionComment, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	if _, err := s.ownSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	return addComment(ctx, s.store.Comments, identity, clientID, sessionID, body, s.now())
}

// === Planned sessions ===

func (s *clientService) ListMyPlannedSessions(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.PlannedSession, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	plans, err := s.store.PlannedSessions.ListByClient(ctx, clientID)
	if err != nil {
		return nil, repoError(err, "planned session")
	}
	// Drafts are the trainer's work in progress.
	visible := plans[:0]
	for _, p := range plans {
		if p.Status != domain.PlannedDraft {
			visible = append(visible, p)
		}
	}
	return visible, nil
}

// RespondToPlannedSession accepts or rejects a PROPOSED session. The decision
// is a versioned change like any trainer edit.
func (s *clientService) RespondToPlannedSession(ctx context.Context, identity *domain.Identity, clientID, planID string, accept bool) (*domain.PlannedSession, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	status, note := domain.PlannedRejected, "rejected by client"
	if accept {
		status, note = domain.PlannedAccepted, "accepted by client"
	}
	now := s.now()
	plan, err := s.store.PlannedSessions.Update(ctx, planID, func(p *domain.PlannedSession) error {
		if p.ClientID != clientID || p.Status == domain.PlannedDraft {
			return apperrors.NotFound("planned session")
		}
		if p.Status != domain.PlannedProposed {
			return apperrors.State("planned session is not awaiting a response")
		}
		p.Status = status
		p.Bump(note, identity.UserID, now)
		return nil
	})
	if err != nil {
		return nil, repoError(err, "planned session")
	}
	return plan, nil
}

// === Routines ===

func (s *clientService) ListMyProposals(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.RoutineProposal, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	proposals, err := s.store.Proposals.ListByClient(ctx, clientID)
	return proposals, repoError(err, "proposal")
}

func (s *clientService) decide(ctx context.Context, identity *domain.Identity, clientID, proposalID string, status domain.ProposalStatus) (*domain.RoutineProposal, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	now := s.now()
	proposal, err := s.store.Proposals.Update(ctx, proposalID, func(p *domain.RoutineProposal) error {
		if p.ClientID != clientID {
			return apperrors.NotFound("proposal")
		}
		if p.Status != domain.ProposalPending {
			return apperrors.State("proposal is not pending")
		}
		p.Status = status
		p.DecidedAt = &now
		return nil
	})
	if err != nil {
		return nil, repoError(err, "proposal")
	}
	return proposal, nil
}

// AcceptProposal marks the proposal accepted and adopts it as a routine.
func (s *clientService) AcceptProposal(ctx context.Context, identity *domain.Identity, clientID, proposalID string) (*domain.Routine, error) {
	proposal, err := s.decide(ctx, identity, clientID, proposalID, domain.ProposalAccepted)
	if err != nil {
		return nil, err
	}
	routine := (&domain.Routine{
		ID:               newID(),
		ClientID:         clientID,
		Name:             proposal.Name,
		Days:             proposal.Days,
		SourceProposalID: proposal.ID,
		CreatedAt:        s.now(),
	}).Clone()
	if err := s.store.Routines.Create(ctx, routine); err != nil {
		s.reopenProposal(ctx, proposal.ID)
		return nil, repoError(err, "routine")
	}
	return routine, nil
}

// reopenProposal puts an accepted proposal back to pending after its routine
// could not be stored, so the client can accept it again.
func (s *clientService) reopenProposal(ctx context.Context, proposalID string) {
	_, err := s.store.Proposals.Update(ctx, proposalID, func(p *domain.RoutineProposal) error {
		if p.Status != domain.ProposalAccepted {
			return apperrors.State("proposal is not accepted")
		}
		p.Status = domain.ProposalPending
		p.DecidedAt = nil
		return nil
	})
	if err != nil {
		log.Error().Err(err).Str("proposalId", proposalID).Msg("failed to reopen proposal after routine write failed")
	}
}

func (s *clientService) RejectProposal(ctx context.Context, identity *domain.Identity, clientID, proposalID string) (*domain.RoutineProposal, error) {
	return s.decide(ctx, identity, clientID, proposalID, domain.ProposalRejected)
}

func (s *clientService) ListMyRoutines(ctx context.Context, identity *domain.Identity, clientID string) ([]domain.Routine, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	routines, err := s.store.Routines.ListByClient(ctx, clientID)
	return routines, repoError(err, "routine")
}

// === Upload Process ===

func allowedMediaType(contentType string) bool {
	ct := strings.ToLower(contentType)
	return strings.HasPrefix(ct, "video/") || strings.HasPrefix(ct, "image/")
}

// RequestMediaUpload generates a pre-signed URL for attaching a file to one of
// the client's sessions.
func (s *clientService) RequestMediaUpload(ctx context.Context, identity *domain.Identity, clientID, sessionID, fileName, contentType string) (*UploadURLResponse, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	if fileName == "" {
		return nil, apperrors.InvalidInput("fileName", "is required")
	}
	if !allowedMediaType(contentType) {
		return nil, apperrors.InvalidInput("contentType", "must be a video or image type")
	}
	if _, err := s.ownSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}

	objectKey := storage.SessionMediaKey(clientID, sessionID, fileName)
	uploadURL, err := s.fileStorage.GeneratePresignedUploadURL(ctx, objectKey, contentType, s.urlExpiry)
	if err != nil {
		return nil, storageError(err)
	}
	return &UploadURLResponse{
		UploadURL: uploadURL,
		ObjectKey: objectKey,
		ExpiresAt: s.now().Add(s.urlExpiry),
	}, nil
}

// ConfirmMediaUpload records metadata for an object uploaded with a URL from
// RequestMediaUpload. The key must sit under the session's prefix.
func (s *clientService) ConfirmMediaUpload(ctx context.Context, identity *domain.Identity, clientID, sessionID string, in ConfirmUploadInput) (*domain.SessionMedia, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	prefix := path.Join("sessions", clientID, sessionID) + "/"
	err := validation.ValidateStruct(&in,
		validation.Field(&in.ObjectKey, validation.Required, validation.By(func(v interface{}) error {
			key, _ := v.(string)
			if !strings.HasPrefix(key, prefix) || strings.Contains(key, "..") {
				return validation.NewError("validation_object_key", "does not belong to this session")
			}
			return nil
		})),
		validation.Field(&in.FileName, validation.Required, validation.Length(1, 255)),
		validation.Field(&in.ContentType, validation.Required),
		validation.Field(&in.Size, validation.Required, validation.Min(int64(1)), validation.Max(int64(maxMediaSize))),
	)
	if err != nil {
		return nil, validationError(err)
	}
	if !allowedMediaType(in.ContentType) {
		return nil, apperrors.InvalidInput("contentType", "must be a video or image type")
	}
	if _, err := s.ownSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}

	media := &domain.SessionMedia{
		ID:          newID(),
		SessionID:   sessionID,
		ClientID:    clientID,
		ObjectKey:   in.ObjectKey,
		FileName:    in.FileName,
		ContentType: in.ContentType,
		Size:        in.Size,
		UploadedAt:  s.now(),
	}
	if err := s.store.Media.Create(ctx, media); err != nil {
		return nil, repoError(err, "media")
	}
	return media, nil
}

func (s *clientService) MyMediaURL(ctx context.Context, identity *domain.Identity, clientID, sessionID, mediaID string) (*MediaURL, error) {
	if err := requireSelf(identity, clientID); err != nil {
		return nil, err
	}
	if _, err := s.ownSession(ctx, clientID, sessionID); err != nil {
		return nil, err
	}
	return mediaDownloadURL(ctx, s.store.Media, s.fileStorage, sessionID, mediaID, s.urlExpiry, s.now())
}

// === Directory ===

func (s *clientService) ListTrainers(ctx context.Context, identity *domain.Identity) ([]domain.Identity, error) {
	if identity == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	trainers, err := s.store.Users.ListByRole(ctx, domain.RoleTrainer)
	if err != nil {
		return nil, repoError(err, "trainer")
	}
	out := make([]domain.Identity, 0, len(trainers))
	for i := range trainers {
		out = append(out, *domain.IdentityOf(&trainers[i]))
	}
	slices.SortFunc(out, func(a, b domain.Identity) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}
