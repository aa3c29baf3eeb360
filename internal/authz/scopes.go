package authz

import "alcyxob/fitcoach/internal/domain"

// Operation names a trainer-side action on a client's data.
type Operation string

const (
	OpListSessions         Operation = "list_sessions"
	OpGetSession           Operation = "get_session"
	OpListComments         Operation = "list_comments"
	OpSessionMediaURL      Operation = "session_media_url"
	OpListPlannedSessions  Operation = "list_planned_sessions"
	OpCreatePlannedSession Operation = "create_planned_session"
	OpUpdatePlannedSession Operation = "update_planned_session"
	OpDeletePlannedSession Operation = "delete_planned_session"
	OpCommentOnSession     Operation = "comment_on_session"
	OpProgress             Operation = "progress"
	OpPersonalRecords      Operation = "personal_records"
	OpListRoutines         Operation = "list_routines"
	OpListProposals        Operation = "list_proposals"
	OpProposeRoutine       Operation = "propose_routine"
	OpExerciseCatalog      Operation = "exercise_catalog"
	OpMembership           Operation = "membership"
)

// requiredScopes is fixed at compile time; there is no runtime registration.
var requiredScopes = map[Operation]domain.Scope{
	OpListSessions:         domain.ScopeSessionsRead,
	OpGetSession:           domain.ScopeSessionsRead,
	OpListComments:         domain.ScopeSessionsRead,
	OpSessionMediaURL:      domain.ScopeSessionsRead,
	OpListPlannedSessions:  domain.ScopeSessionsRead,
	OpCreatePlannedSession: domain.ScopeSessionsWrite,
	OpUpdatePlannedSession: domain.ScopeSessionsWrite,
	OpDeletePlannedSession: domain.ScopeSessionsWrite,
	OpCommentOnSession:     domain.ScopeSessionsComment,
	OpProgress:             domain.ScopeProgressRead,
	OpPersonalRecords:      domain.ScopePRsRead,
	OpListRoutines:         domain.ScopeRoutinesRead,
	OpListProposals:        domain.ScopeRoutinesRead,
	OpProposeRoutine:       domain.ScopeRoutinesWrite,
	OpExerciseCatalog:      domain.ScopeExercisesRead,
	OpMembership:           domain.ScopeBillingManage,
}

// RequiredScope returns the scope op needs. ok is false for unknown operations,
// which the guard treats as forbidden.
func RequiredScope(op Operation) (scope domain.Scope, ok bool) {
	scope, ok = requiredScopes[op]
	return scope, ok
}
