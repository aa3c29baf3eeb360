package service

import (
	"testing"

	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdminService_Membership(t *testing.T) {
	e := newEnv(t)

	_, err := e.admin.ListMembers(e.ctx, e.trainer)
	assertCode(t, err, apperrors.ErrCodeForbidden)
	_, err = e.admin.SetMembership(e.ctx, e.member, e.member.UserID, MembershipInput{Plan: "Gold", Status: domain.MembershipActive})
	assertCode(t, err, apperrors.ErrCodeForbidden)

	_, err = e.admin.SetMembership(e.ctx, e.adminUser, e.member.UserID, MembershipInput{Plan: "Gold", Status: "LAPSED"})
	assertCode(t, err, apperrors.ErrCodeValidation)
	_, err = e.admin.SetMembership(e.ctx, e.adminUser, e.trainer.UserID, MembershipInput{Plan: "Gold", Status: domain.MembershipActive})
	assertCode(t, err, apperrors.ErrCodeNotFound)

	m, err := e.admin.SetMembership(e.ctx, e.adminUser, e.member.UserID, MembershipInput{
		Plan: " Gold ", Status: domain.MembershipActive, MonthlyFeeCents: 4900,
	})
	require.NoError(t, err)
	assert.Equal(t, "Gold", m.Plan)
	assert.Equal(t, epoch, m.UpdatedAt)

	members, err := e.admin.ListMembers(e.ctx, e.adminUser)
	require.NoError(t, err)
	require.Len(t, members, 2)
	byID := map[string]Member{}
	for _, member := range members {
		byID[member.UserID] = member
	}
	require.NotNil(t, byID[e.member.UserID].Membership)
	assert.Equal(t, int64(4900), byID[e.member.UserID].Membership.MonthlyFeeCents)
	assert.Nil(t, byID[e.otherMember.UserID].Membership)
}

func TestExerciseService_Visibility(t *testing.T) {
	e := newEnv(t)

	shared, err := e.exercise.Create(e.ctx, e.trainer, ExerciseInput{Name: "Deadlift", Difficulty: "Advanced", Applicability: "Gym"})
	require.NoError(t, err)
	assert.Empty(t, shared.OwnerID)

	custom, err := e.exercise.Create(e.ctx, e.member, ExerciseInput{Name: "Broomstick press"})
	require.NoError(t, err)
	assert.Equal(t, e.member.UserID, custom.OwnerID)

	_, err = e.exercise.Create(e.ctx, e.member, ExerciseInput{Name: "Bad", Difficulty: "Impossible"})
	assertCode(t, err, apperrors.ErrCodeValidation)
	_, err = e.exercise.Create(e.ctx, e.member, ExerciseInput{Name: "Bad", VideoURL: "not a url"})
	assertCode(t, err, apperrors.ErrCodeValidation)

	mine, err := e.exercise.List(e.ctx, e.member)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := e.exercise.List(e.ctx, e.otherMember)
	require.NoError(t, err)
	require.Len(t, theirs, 1)
	assert.Equal(t, shared.ID, theirs[0].ID)

	_, err = e.exercise.GetByID(e.ctx, e.otherMember, custom.ID)
	assertCode(t, err, apperrors.ErrCodeNotFound)
	got, err := e.exercise.GetByID(e.ctx, e.member, custom.ID)
	require.NoError(t, err)
	assert.Equal(t, "Broomstick press", got.Name)

	_, err = e.exercise.List(e.ctx, nil)
	assertCode(t, err, apperrors.ErrCodeUnauthenticated)
}
