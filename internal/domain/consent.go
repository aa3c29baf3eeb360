package domain

import (
	"slices"
	"time"
)

// Scope is a capability token a client can grant to a trainer.
type Scope string

const (
	ScopeSessionsRead    Scope = "sessions:read"
	ScopeSessionsWrite   Scope = "sessions:write"
	ScopeSessionsComment Scope = "sessions:comment"
	ScopeProgressRead    Scope = "progress:read"
	ScopePRsRead         Scope = "prs:read"
	ScopeRoutinesRead    Scope = "routines:read"
	ScopeRoutinesWrite   Scope = "routines:write"
	ScopeExercisesRead   Scope = "exercises:read"
	ScopeBillingManage   Scope = "billing:manage"
)

// AllScopes is the closed scope vocabulary. Tokens outside it are rejected.
var AllScopes = []Scope{
	ScopeSessionsRead,
	ScopeSessionsWrite,
	ScopeSessionsComment,
	ScopeProgressRead,
	ScopePRsRead,
	ScopeRoutinesRead,
	ScopeRoutinesWrite,
	ScopeExercisesRead,
	ScopeBillingManage,
}

// Valid reports whether s belongs to the scope vocabulary.
func (s Scope) Valid() bool {
	return slices.Contains(AllScopes, s)
}

// NormalizeScopes returns a sorted copy of scopes with duplicates removed.
func NormalizeScopes(scopes []Scope) []Scope {
	out := slices.Clone(scopes)
	slices.Sort(out)
	return slices.Compact(out)
}

// ConsentStatus is the authorization state of a grant.
type ConsentStatus string

const (
	ConsentActive  ConsentStatus = "ACTIVE"
	ConsentRevoked ConsentStatus = "REVOKED"

	// ConsentHidden is only ever reported as a display status; it is never stored
	// in Status. See Consent.Hidden.
	ConsentHidden ConsentStatus = "HIDDEN"
)

// ConsentAction names a mutation recorded in a consent's audit trail.
type ConsentAction string

const (
	ConsentActionCreated  ConsentAction = "created"
	ConsentActionUpdated  ConsentAction = "updated"
	ConsentActionRevoked  ConsentAction = "revoked"
	ConsentActionHidden   ConsentAction = "hidden"
	ConsentActionRestored ConsentAction = "restored"
)

// ConsentAuditEntry records who performed a mutation on a consent.
type ConsentAuditEntry struct {
	Action    ConsentAction `bson:"action" json:"action"`
	ActorID   string        `bson:"actorId" json:"actorId"`
	ActorRole Role          `bson:"actorRole" json:"actorRole"`
	At        time.Time     `bson:"at" json:"at"`
	Note      string        `bson:"note,omitempty" json:"note,omitempty"`
}

// Consent is a client's grant of scoped access to one trainer.
type Consent struct {
	ID        string        `bson:"_id" json:"id"`
	ClientID  string        `bson:"clientId" json:"clientId"`
	TrainerID string        `bson:"trainerId" json:"trainerId"`
	Scopes    []Scope       `bson:"scopes" json:"scopes"`
	Status    ConsentStatus `bson:"status" json:"status"`
	// Hidden only filters the client's own list view. Guards ignore it.
	Hidden    bool                `bson:"hidden" json:"hidden"`
	ExpiresAt *time.Time          `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
	RevokedAt *time.Time          `bson:"revokedAt,omitempty" json:"revokedAt,omitempty"`
	Revision  int64               `bson:"revision" json:"-"`
	Audit     []ConsentAuditEntry `bson:"audit" json:"audit"`
}

// IsEffective reports whether the consent authorizes access at now.
// A grant stops being effective at exactly ExpiresAt.
func (c *Consent) IsEffective(now time.Time) bool {
	if c.Status != ConsentActive {
		return false
	}
	return c.ExpiresAt == nil || c.ExpiresAt.After(now)
}

// HasScope reports whether scope was granted.
func (c *Consent) HasScope(scope Scope) bool {
	return slices.Contains(c.Scopes, scope)
}

// DisplayStatus is the status shown in the client's list view.
func (c *Consent) DisplayStatus() ConsentStatus {
	if c.Hidden {
		return ConsentHidden
	}
	return c.Status
}

// Record appends an audit entry and bumps the bookkeeping fields.
func (c *Consent) Record(action ConsentAction, actor *Identity, at time.Time, note string) {
	c.Audit = append(c.Audit, ConsentAuditEntry{
		Action:    action,
		ActorID:   actor.UserID,
		ActorRole: actor.Role,
		At:        at,
		Note:      note,
	})
	c.UpdatedAt = at
	c.Revision++
}

// Clone returns a deep copy so callers never share slices with a store.
func (c *Consent) Clone() *Consent {
	if c == nil {
		return nil
	}
	out := *c
	out.Scopes = slices.Clone(c.Scopes)
	out.Audit = slices.Clone(c.Audit)
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		out.ExpiresAt = &t
	}
	if c.RevokedAt != nil {
		t := *c.RevokedAt
		out.RevokedAt = &t
	}
	return &out
}
