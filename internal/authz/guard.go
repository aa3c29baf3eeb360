// Package authz decides whether a resolved identity may act on a client's data.
// Every check returns (value, error); the error is always an *errors.AppError
// with code UNAUTHENTICATED or FORBIDDEN and the value must not be used when
// it is non-nil.
package authz

import (
	"alcyxob/fitcoach/internal/audit"
	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"errors"
	"slices"
	"time"

	"github.com/rs/zerolog/log"
)

// AccessDeniedMessage is the single message for every consent-related denial.
const AccessDeniedMessage = "access denied"

// Denial reasons. They go to the audit log only, never to the caller.
const (
	reasonNoConsent    = "no_consent"
	reasonExpired      = "expired"
	reasonMissingScope = "missing_scope"
	reasonUnknownOp    = "unknown_operation"
)

// RequireRole passes identity through when its role is one of allowed.
func RequireRole(identity *domain.Identity, allowed ...domain.Role) (*domain.Identity, error) {
	if identity == nil {
		return nil, apperrors.Unauthenticated("authentication required")
	}
	if !slices.Contains(allowed, identity.Role) {
		return nil, apperrors.Forbidden("insufficient role")
	}
	return identity, nil
}

// ConsentLookup is the read side of the consent store the guard needs.
type ConsentLookup interface {
	FindActive(ctx context.Context, trainerID, clientID string) (*domain.Consent, error)
}

// ConsentGuard gates trainer access to client data on an effective consent.
type ConsentGuard struct {
	consents ConsentLookup
	now      func() time.Time
}

func utcNow() time.Time { return time.Now().UTC() }

// NewConsentGuard evaluates expiry against UTC wall time unless WithClock
// swaps in the clock the services share.
func NewConsentGuard(consents ConsentLookup) *ConsentGuard {
	return &ConsentGuard{consents: consents, now: utcNow}
}

// WithClock replaces the guard's time source.
func (g *ConsentGuard) WithClock(now func() time.Time) *ConsentGuard {
	if now == nil {
		now = utcNow
	}
	g.now = now
	return g
}

func deny(trainerID, clientID, reason string, details map[string]interface{}) error {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["reason"] = reason
	audit.Log(audit.Event{
		Type:      audit.EventAccessDenied,
		ActorID:   trainerID,
		ClientID:  clientID,
		TrainerID: trainerID,
		Details:   details,
	})
	return apperrors.Forbidden(AccessDeniedMessage)
}

// RequireActiveConsent returns the effective consent from clientID to
// trainerID. Never granted, revoked and expired all fail the same way.
func (g *ConsentGuard) RequireActiveConsent(ctx context.Context, trainerID, clientID string) (*domain.Consent, error) {
	consent, err := g.consents.FindActive(ctx, trainerID, clientID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, deny(trainerID, clientID, reasonNoConsent, nil)
		}
		log.Error().Err(err).Str("trainerId", trainerID).Str("clientId", clientID).Msg("consent lookup failed")
		return nil, apperrors.Storage(err)
	}
	if !consent.IsEffective(g.now()) {
		return nil, deny(trainerID, clientID, reasonExpired, map[string]interface{}{"consent_id": consent.ID})
	}
	return consent, nil
}

// RequireConsentScope checks that consent grants scope.
func RequireConsentScope(consent *domain.Consent, scope domain.Scope) error {
	if consent == nil || !consent.HasScope(scope) {
		return apperrors.Forbidden(AccessDeniedMessage)
	}
	return nil
}

// Authorize runs the full chain for op: role, effective consent, scope.
func (g *ConsentGuard) Authorize(ctx context.Context, identity *domain.Identity, clientID string, op Operation) (*domain.Consent, error) {
	identity, err := RequireRole(identity, domain.RoleTrainer, domain.RoleAdmin)
	if err != nil {
		return nil, err
	}

	scope, ok := RequiredScope(op)
	if !ok {
		return nil, deny(identity.UserID, clientID, reasonUnknownOp, map[string]interface{}{"operation": string(op)})
	}

	consent, err := g.RequireActiveConsent(ctx, identity.UserID, clientID)
	if err != nil {
		return nil, err
	}
	if err := RequireConsentScope(consent, scope); err != nil {
		return nil, deny(identity.UserID, clientID, reasonMissingScope, map[string]interface{}{
			"consent_id": consent.ID,
			"scope":      string(scope),
		})
	}
	return consent, nil
}
