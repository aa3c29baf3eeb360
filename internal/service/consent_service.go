package service

import (
	"alcyxob/fitcoach/internal/audit"
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"slices"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog/log"
)

// OptionalTime carries PATCH semantics for a nullable timestamp:
// Present=false leaves the field alone, Value=nil clears it.
type OptionalTime struct {
	Present bool
	Value   *time.Time
}

// CreateConsentInput is what a client submits to grant a trainer access.
type CreateConsentInput struct {
	TrainerID string
	Scopes    []domain.Scope
	ExpiresAt *time.Time
}

// UpdateConsentInput is a partial update. A nil Scopes leaves scopes unchanged.
type UpdateConsentInput struct {
	Scopes    *[]domain.Scope
	ExpiresAt OptionalTime
}

// ConsentView is a consent as shown to its owner.
type ConsentView struct {
	*domain.Consent
	DisplayStatus domain.ConsentStatus `json:"displayStatus"`
	Effective     bool                 `json:"effective"`
	Trainer       *domain.Identity     `json:"trainer,omitempty"`
}

type ConsentService interface {
	Create(ctx context.Context, actor *domain.Identity, in CreateConsentInput) (*domain.Consent, error)
	Update(ctx context.Context, actor *domain.Identity, id string, in UpdateConsentInput) (*domain.Consent, error)
	Revoke(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error)
	Hide(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error)
	Restore(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error)

	// GetActive returns the effective consent for the pair, or nil.
	GetActive(ctx context.Context, trainerID, clientID string) (*domain.Consent, error)
	ListForClient(ctx context.Context, actor *domain.Identity, includeHidden bool) ([]ConsentView, error)
	// ListActiveForTrainer returns the trainer's currently effective grants.
	ListActiveForTrainer(ctx context.Context, actor *domain.Identity) ([]domain.Consent, error)
}

type consentService struct {
	consents repository.ConsentRepository
	users    repository.UserRepository
	now      Clock
}

func NewConsentService(consents repository.ConsentRepository, users repository.UserRepository, now Clock) ConsentService {
	if now == nil {
		now = SystemClock
	}
	return &consentService{consents: consents, users: users, now: now}
}

func (s *consentService) validateScopes(scopes []domain.Scope) error {
	return validation.Validate(scopes,
		validation.Required.Error("at least one scope is required"),
		validation.Each(validScope),
	)
}

func (s *consentService) validateExpiry(expiresAt *time.Time, now time.Time) error {
	if expiresAt != nil && !expiresAt.After(now) {
		return apperrors.InvalidInput("expiresAt", "must be in the future")
	}
	return nil
}

func (s *consentService) Create(ctx context.Context, actor *domain.Identity, in CreateConsentInput) (*domain.Consent, error) {
	if err := requireClient(actor); err != nil {
		return nil, err
	}
	now := s.now()

	err := validation.Errors{
		"trainerId": validation.Validate(in.TrainerID, validation.Required),
		"scopes":    s.validateScopes(in.Scopes),
	}.Filter()
	if err != nil {
		return nil, validationError(err)
	}
	if err := s.validateExpiry(in.ExpiresAt, now); err != nil {
		return nil, err
	}

	trainer, err := s.users.GetByID(ctx, in.TrainerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.InvalidInput("trainerId", "unknown trainer")
		}
		return nil, repoError(err, "trainer")
	}
	if !trainer.IsTrainer() {
		return nil, apperrors.InvalidInput("trainerId", "user is not a trainer")
	}

	consent := &domain.Consent{
		ID:        newID(),
		ClientID:  actor.UserID,
		TrainerID: trainer.ID,
		Scopes:    domain.NormalizeScopes(in.Scopes),
		Status:    domain.ConsentActive,
		ExpiresAt: utcPtr(in.ExpiresAt),
		CreatedAt: now,
	}
	consent.Record(domain.ConsentActionCreated, actor, now, "")

	if err := s.consents.Create(ctx, consent); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, apperrors.State("an active consent for this trainer already exists; revoke or update it instead")
		}
		return nil, repoError(err, "consent")
	}

	s.emit(audit.EventConsentCreated, actor, consent)
	return consent, nil
}

// mutate loads the actor's consent and applies fn atomically. A consent owned
// by someone else is reported as not found.
func (s *consentService) mutate(ctx context.Context, actor *domain.Identity, id string, fn func(c *domain.Consent, now time.Time) error) (*domain.Consent, error) {
	if err := requireClient(actor); err != nil {
		return nil, err
	}
	now := s.now()
	updated, err := s.consents.Update(ctx, id, func(c *domain.Consent) error {
		if c.ClientID != actor.UserID {
			return apperrors.NotFound("consent")
		}
		return fn(c, now)
	})
	if err != nil {
		return nil, repoError(err, "consent")
	}
	return updated, nil
}

func (s *consentService) Update(ctx context.Context, actor *domain.Identity, id string, in UpdateConsentInput) (*domain.Consent, error) {
	var scopes []domain.Scope
	if in.Scopes != nil {
		scopes = domain.NormalizeScopes(*in.Scopes)
	}

	consent, err := s.mutate(ctx, actor, id, func(c *domain.Consent, now time.Time) error {
		if c.Status != domain.ConsentActive {
			return apperrors.State("consent is not active")
		}
		if in.Scopes != nil {
			if err := s.validateScopes(*in.Scopes); err != nil {
				return validationError(validation.Errors{"scopes": err})
			}
		}
		if in.ExpiresAt.Present {
			if err := s.validateExpiry(in.ExpiresAt.Value, now); err != nil {
				return err
			}
			c.ExpiresAt = utcPtr(in.ExpiresAt.Value)
		}
		if scopes != nil {
			c.Scopes = slices.Clone(scopes)
		}
		c.Record(domain.ConsentActionUpdated, actor, now, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(audit.EventConsentUpdated, actor, consent)
	return consent, nil
}

// Revoke is terminal. Revoking twice is a state error.
func (s *consentService) Revoke(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error) {
	consent, err := s.mutate(ctx, actor, id, func(c *domain.Consent, now time.Time) error {
		if c.Status == domain.ConsentRevoked {
			return apperrors.State("consent is already revoked")
		}
		c.Status = domain.ConsentRevoked
		c.RevokedAt = &now
		c.Record(domain.ConsentActionRevoked, actor, now, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.emit(audit.EventConsentRevoked, actor, consent)
	return consent, nil
}

func (s *consentService) Hide(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error) {
	return s.setHidden(ctx, actor, id, true)
}

func (s *consentService) Restore(ctx context.Context, actor *domain.Identity, id string) (*domain.Consent, error) {
	return s.setHidden(ctx, actor, id, false)
}

// setHidden only flips visibility. Status, scopes and expiry are untouched.
func (s *consentService) setHidden(ctx context.Context, actor *domain.Identity, id string, hidden bool) (*domain.Consent, error) {
	action, event := domain.ConsentActionRestored, audit.EventConsentRestored
	if hidden {
		action, event = domain.ConsentActionHidden, audit.EventConsentHidden
	}

	changed := false
	consent, err := s.mutate(ctx, actor, id, func(c *domain.Consent, now time.Time) error {
		if c.Hidden == hidden {
			changed = false
			return nil
		}
		changed = true
		c.Hidden = hidden
		c.Record(action, actor, now, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.emit(event, actor, consent)
	}
	return consent, nil
}

func (s *consentService) GetActive(ctx context.Context, trainerID, clientID string) (*domain.Consent, error) {
	consent, err := s.consents.FindActive(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return nil, repoError(err, "consent")
	}
	if !consent.IsEffective(s.now()) {
		return nil, nil
	}
	return consent, nil
}

func (s *consentService) ListForClient(ctx context.Context, actor *domain.Identity, includeHidden bool) ([]ConsentView, error) {
	if err := requireClient(actor); err != nil {
		return nil, err
	}
	consents, err := s.consents.ListByClient(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "consent")
	}

	now := s.now()
	trainers := map[string]*domain.Identity{}
	views := make([]ConsentView, 0, len(consents))
	for i := range consents {
		c := &consents[i]
		if c.Hidden && !includeHidden {
			continue
		}
		trainer, ok := trainers[c.TrainerID]
		if !ok {
			if u, err := s.users.GetByID(ctx, c.TrainerID); err == nil {
				trainer = domain.IdentityOf(u)
			} else if !errors.Is(err, repository.ErrNotFound) {
				return nil, repoError(err, "trainer")
			}
			trainers[c.TrainerID] = trainer
		}
		views = append(views, ConsentView{
			Consent:       c,
			DisplayStatus: c.DisplayStatus(),
			Effective:     c.IsEffective(now),
			Trainer:       trainer,
		})
	}
	return views, nil
}

func (s *consentService) ListActiveForTrainer(ctx context.Context, actor *domain.Identity) ([]domain.Consent, error) {
	if actor == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	if actor.Role != domain.RoleTrainer && actor.Role != domain.RoleAdmin {
		return nil, apperrors.Forbidden("insufficient role")
	}
	consents, err := s.consents.ListActiveByTrainer(ctx, actor.UserID)
	if err != nil {
		return nil, repoError(err, "consent")
	}
	now := s.now()
	effective := consents[:0]
	for _, c := range consents {
		if c.IsEffective(now) {
			effective = append(effective, c)
		}
	}
	return effective, nil
}

func (s *consentService) emit(event audit.EventType, actor *domain.Identity, c *domain.Consent) {
	audit.Log(audit.Event{
		Type:      event,
		ActorID:   actor.UserID,
		ActorRole: string(actor.Role),
		ClientID:  c.ClientID,
		TrainerID: c.TrainerID,
		ConsentID: c.ID,
		Details: map[string]interface{}{
			"scopes":   scopeStrings(c.Scopes),
			"status":   string(c.Status),
			"revision": c.Revision,
		},
	})
	log.Debug().Str("consentId", c.ID).Str("event", string(event)).Msg("consent changed")
}

func requireClient(actor *domain.Identity) error {
	if actor == nil {
		return apperrors.Unauthenticated("authentication required")
	}
	if actor.Role != domain.RoleUser {
		return apperrors.Forbidden("only members manage consents")
	}
	return nil
}

func scopeStrings(scopes []domain.Scope) []string {
	out := make([]string, len(scopes))
	for i, s := range scopes {
		out[i] = string(s)
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
