package service

import (
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"
	"alcyxob/fitcoach/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func squatPlan(title string) PlannedSessionInput {
	return PlannedSessionInput{
		Title: title,
		Items: []domain.PlannedItem{{ExerciseName: "Back Squat", Sets: 5, Reps: "5", RestSeconds: 180}},
	}
}

func TestCoachService_ScopeEnforcement(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeSessionsRead)
	e.logSession("Leg day", epoch.Add(-time.Hour), 100, 5)

	sessions, err := e.coach.ListSessions(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	assert.Len(t, sessions, 1)

	_, err = e.coach.CreatePlannedSession(e.ctx, e.trainer, e.member.UserID, squatPlan("Week 1"))
	assertCode(t, err, apperrors.ErrCodeForbidden)

	_, err = e.coach.Progress(e.ctx, e.trainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
}

func TestCoachService_ExpiredConsentDeniesEverything(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, ptr(epoch.Add(time.Hour)), domain.AllScopes...)
	e.now = epoch.Add(25 * time.Hour)

	_, err := e.coach.ListSessions(e.ctx, e.trainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
	_, err = e.coach.PersonalRecords(e.ctx, e.trainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
	_, err = e.coach.Membership(e.ctx, e.trainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
}

func TestCoachService_HidingDoesNotChangeAccess(t *testing.T) {
	e := newEnv(t)
	c := e.grant(e.trainer, nil, domain.ScopeSessionsRead)

	_, before := e.coach.ListSessions(e.ctx, e.trainer, e.member.UserID)
	_, err := e.consents.Hide(e.ctx, e.member, c.ID)
	require.NoError(t, err)
	_, after := e.coach.ListSessions(e.ctx, e.trainer, e.member.UserID)

	assert.Equal(t, before, after)
	assert.NoError(t, after)
}

func TestCoachService_RevokeCutsAccess(t *testing.T) {
	e := newEnv(t)
	c := e.grant(e.trainer, nil, domain.ScopeSessionsRead)
	_, err := e.coach.ListSessions(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)

	_, err = e.consents.Revoke(e.ctx, e.member, c.ID)
	require.NoError(t, err)

	_, err = e.coach.ListSessions(e.ctx, e.trainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
}

func TestCoachService_ConsentIsPerTrainer(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.AllScopes...)

	_, err := e.coach.ListSessions(e.ctx, e.otherTrainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
	_, err = e.coach.ListSessions(e.ctx, e.trainer, e.otherMember.UserID)
	assertCode(t, err, apperrors.ErrCodeForbidden)
}

func TestCoachService_PlannedSessionVersioning(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeSessionsRead, domain.ScopeSessionsWrite)

	plan, err := e.coach.CreatePlannedSession(e.ctx, e.trainer, e.member.UserID, squatPlan("Week 1"))
	require.NoError(t, err)
	assert.Equal(t, 1, plan.Version)
	assert.Len(t, plan.Changelog, 1)
	assert.Equal(t, domain.PlannedDraft, plan.Status)

	const updates = 4
	for i := 0; i < updates; i++ {
		plan, err = e.coach.UpdatePlannedSession(e.ctx, e.trainer, e.member.UserID, plan.ID, PlannedSessionPatch{
			Title: ptr("Week 1 rev"),
		})
		require.NoError(t, err)
	}
	assert.Equal(t, updates+1, plan.Version)
	assert.Len(t, plan.Changelog, updates+1)
	for i, entry := range plan.Changelog {
		assert.Equal(t, i+1, entry.Version)
		assert.Equal(t, e.trainer.UserID, entry.ActorID)
	}
	assert.Equal(t, "updated title", plan.Changelog[updates].Note)

	_, err = e.coach.UpdatePlannedSession(e.ctx, e.trainer, e.member.UserID, plan.ID, PlannedSessionPatch{
		Items: &[]domain.PlannedItem{{ExerciseName: "", Sets: 0}},
	})
	assertCode(t, err, apperrors.ErrCodeValidation)

	stored, err := e.store.PlannedSessions.GetByID(e.ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, updates+1, stored.Version)
	assert.Len(t, stored.Changelog, updates+1)
}

func TestCoachService_PlannedSessionLifecycle(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeSessionsRead, domain.ScopeSessionsWrite)

	in := squatPlan("Deload")
	in.Status = domain.PlannedProposed
	plan, err := e.coach.CreatePlannedSession(e.ctx, e.trainer, e.member.UserID, in)
	require.NoError(t, err)

	mine, err := e.client.ListMyPlannedSessions(e.ctx, e.member, e.member.UserID)
	require.NoError(t, err)
	require.Len(t, mine, 1)

	accepted, err := e.client.RespondToPlannedSession(e.ctx, e.member, e.member.UserID, plan.ID, true)
	require.NoError(t, err)
	assert.Equal(t, domain.PlannedAccepted, accepted.Status)
	assert.Equal(t, 2, accepted.Version)
	assert.Len(t, accepted.Changelog, 2)

	_, err = e.coach.UpdatePlannedSession(e.ctx, e.trainer, e.member.UserID, plan.ID, PlannedSessionPatch{Title: ptr("changed")})
	assertCode(t, err, apperrors.ErrCodeState)
	err = e.coach.DeletePlannedSession(e.ctx, e.trainer, e.member.UserID, plan.ID)
	assertCode(t, err, apperrors.ErrCodeState)

	_, err = e.client.RespondToPlannedSession(e.ctx, e.member, e.member.UserID, plan.ID, false)
	assertCode(t, err, apperrors.ErrCodeState)
}

func TestCoachService_DeletePlannedSession(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeSessionsRead, domain.ScopeSessionsWrite)
	plan, err := e.coach.CreatePlannedSession(e.ctx, e.trainer, e.member.UserID, squatPlan("Draft"))
	require.NoError(t, err)

	require.NoError(t, e.coach.DeletePlannedSession(e.ctx, e.trainer, e.member.UserID, plan.ID))
	plans, err := e.coach.ListPlannedSessions(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	assert.Empty(t, plans)
}

func TestCoachService_ResourceOwnership(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.AllScopes...)
	_, err := e.consents.Create(e.ctx, e.otherMember, CreateConsentInput{TrainerID: e.trainer.UserID, Scopes: domain.AllScopes})
	require.NoError(t, err)

	session := e.logSession("Mine", epoch.Add(-time.Hour), 80, 8)
	plan, err := e.coach.CreatePlannedSession(e.ctx, e.trainer, e.member.UserID, squatPlan("For member-1"))
	require.NoError(t, err)

	_, err = e.coach.GetSession(e.ctx, e.trainer, e.otherMember.UserID, session.ID)
	assertCode(t, err, apperrors.ErrCodeNotFound)
	_, err = e.coach.UpdatePlannedSession(e.ctx, e.trainer, e.otherMember.UserID, plan.ID, PlannedSessionPatch{Title: ptr("x")})
	assertCode(t, err, apperrors.ErrCodeNotFound)
	err = e.coach.DeletePlannedSession(e.ctx, e.trainer, e.otherMember.UserID, plan.ID)
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestCoachService_CommentsAndDetail(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeSessionsRead, domain.ScopeSessionsComment)
	session := e.logSession("Leg day", epoch.Add(-time.Hour), 100, 5)

	comment, err := e.coach.CommentOnSession(e.ctx, e.trainer, e.member.UserID, session.ID, "  Nice depth  ")
	require.NoError(t, err)
	assert.Equal(t, "Nice depth", comment.Body)
	assert.Equal(t, domain.RoleTrainer, comment.AuthorRole)

	_, err = e.client.CommentOnMySession(e.ctx, e.member, e.member.UserID, session.ID, "Thanks!")
	require.NoError(t, err)

	_, err = e.coach.CommentOnSession(e.ctx, e.trainer, e.member.UserID, session.ID, "   ")
	assertCode(t, err, apperrors.ErrCodeValidation)

	detail, err := e.coach.GetSession(e.ctx, e.trainer, e.member.UserID, session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, detail.ID)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "Thanks!", detail.Comments[1].Body)
}

func TestCoachService_ProgressAndRecords(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeProgressRead, domain.ScopePRsRead)
	e.logSession("A", epoch.Add(-48*time.Hour), 100, 5)
	heaviest := e.logSession("B", epoch.Add(-24*time.Hour), 120, 3)

	summary, err := e.coach.Progress(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SessionCount)
	assert.Equal(t, 2, summary.TotalSets)
	assert.InDelta(t, 100*5+120*3, summary.TotalVolumeKg, 0.001)

	records, err := e.coach.PersonalRecords(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 120.0, records[0].MaxWeightKg)
	assert.Equal(t, heaviest.ID, records[0].SessionID)
}

func TestCoachService_Routines(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeRoutinesRead, domain.ScopeRoutinesWrite)

	proposal, err := e.coach.ProposeRoutine(e.ctx, e.trainer, e.member.UserID, ProposalInput{
		Name: "Push/Pull",
		Days: []domain.RoutineDay{{Name: "Push", Items: []domain.PlannedItem{{ExerciseName: "Bench", Sets: 4, Reps: "6-8"}}}},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ProposalPending, proposal.Status)

	_, err = e.coach.ProposeRoutine(e.ctx, e.trainer, e.member.UserID, ProposalInput{Name: "Empty"})
	assertCode(t, err, apperrors.ErrCodeValidation)

	routine, err := e.client.AcceptProposal(e.ctx, e.member, e.member.UserID, proposal.ID)
	require.NoError(t, err)
	assert.Equal(t, proposal.ID, routine.SourceProposalID)

	routines, err := e.coach.ListRoutines(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	assert.Len(t, routines, 1)

	proposals, err := e.coach.ListProposals(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	require.Len(t, proposals, 1)
	assert.Equal(t, domain.ProposalAccepted, proposals[0].Status)
}

func TestCoachService_CatalogAndMembership(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeExercisesRead, domain.ScopeBillingManage)

	_, err := e.exercise.Create(e.ctx, e.trainer, ExerciseInput{Name: "Deadlift"})
	require.NoError(t, err)
	_, err = e.exercise.Create(e.ctx, e.member, ExerciseInput{Name: "Band pull-apart"})
	require.NoError(t, err)
	_, err = e.exercise.Create(e.ctx, e.otherMember, ExerciseInput{Name: "Secret move"})
	require.NoError(t, err)

	catalog, err := e.coach.ExerciseCatalog(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	var names []string
	for _, ex := range catalog {
		names = append(names, ex.Name)
	}
	assert.Equal(t, []string{"Band pull-apart", "Deadlift"}, names)

	_, err = e.coach.Membership(e.ctx, e.trainer, e.member.UserID)
	assertCode(t, err, apperrors.ErrCodeNotFound)

	_, err = e.admin.SetMembership(e.ctx, e.adminUser, e.member.UserID, MembershipInput{Plan: "Gold", Status: domain.MembershipActive, MonthlyFeeCents: 4900})
	require.NoError(t, err)
	m, err := e.coach.Membership(e.ctx, e.trainer, e.member.UserID)
	require.NoError(t, err)
	assert.Equal(t, "Gold", m.Plan)
}

func TestCoachService_SessionMediaURL(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, nil, domain.ScopeSessionsRead)
	session := e.logSession("Leg day", epoch.Add(-time.Hour), 100, 5)

	key := "sessions/member-1/" + session.ID + "/clip.mp4"
	media, err := e.client.ConfirmMediaUpload(e.ctx, e.member, e.member.UserID, session.ID, ConfirmUploadInput{
		ObjectKey: key, FileName: "clip.mp4", ContentType: "video/mp4", Size: 1024,
	})
	require.NoError(t, err)

	e.files.On("GeneratePresignedDownloadURL", mock.Anything, key, storage.DefaultPresignedURLExpiry).
		Return("https://bucket.example.com/signed", nil).Once()

	url, err := e.coach.SessionMediaURL(e.ctx, e.trainer, e.member.UserID, session.ID, media.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://bucket.example.com/signed", url.URL)
	assert.Equal(t, epoch.Add(storage.DefaultPresignedURLExpiry), url.ExpiresAt)
	e.files.AssertExpectations(t)

	_, err = e.coach.SessionMediaURL(e.ctx, e.trainer, e.member.UserID, "other-session", media.ID)
	assertCode(t, err, apperrors.ErrCodeNotFound)
}
