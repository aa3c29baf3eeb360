package service

import (
	"sync"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
	apperrors "alcyxob/fitcoach/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsentService_Create(t *testing.T) {
	t.Run("normalizes scopes and records the actor", func(t *testing.T) {
		e := newEnv(t)
		c, err := e.consents.Create(e.ctx, e.member, CreateConsentInput{
			TrainerID: e.trainer.UserID,
			Scopes:    []domain.Scope{domain.ScopeSessionsWrite, domain.ScopeSessionsRead, domain.ScopeSessionsRead},
		})
		require.NoError(t, err)

		assert.Equal(t, []domain.Scope{domain.ScopeSessionsRead, domain.ScopeSessionsWrite}, c.Scopes)
		assert.Equal(t, domain.ConsentActive, c.Status)
		assert.Equal(t, e.member.UserID, c.ClientID)
		require.Len(t, c.Audit, 1)
		assert.Equal(t, domain.ConsentActionCreated, c.Audit[0].Action)
		assert.Equal(t, e.member.UserID, c.Audit[0].ActorID)
		assert.Equal(t, domain.RoleUser, c.Audit[0].ActorRole)
	})

	cases := map[string]CreateConsentInput{
		"empty scopes":       {TrainerID: "trainer-1"},
		"unknown scope":      {TrainerID: "trainer-1", Scopes: []domain.Scope{"sessions:delete"}},
		"missing trainer":    {Scopes: []domain.Scope{domain.ScopeSessionsRead}},
		"unknown trainer":    {TrainerID: "nobody", Scopes: []domain.Scope{domain.ScopeSessionsRead}},
		"not a trainer":      {TrainerID: "member-2", Scopes: []domain.Scope{domain.ScopeSessionsRead}},
		"expiry in the past": {TrainerID: "trainer-1", Scopes: []domain.Scope{domain.ScopeSessionsRead}, ExpiresAt: ptr(epoch)},
	}
	for name, in := range cases {
		t.Run("rejects "+name, func(t *testing.T) {
			e := newEnv(t)
			_, err := e.consents.Create(e.ctx, e.member, in)
			assertCode(t, err, apperrors.ErrCodeValidation)
		})
	}

	t.Run("only members grant consent", func(t *testing.T) {
		e := newEnv(t)
		_, err := e.consents.Create(e.ctx, e.trainer, CreateConsentInput{TrainerID: e.otherTrainer.UserID, Scopes: domain.AllScopes})
		assertCode(t, err, apperrors.ErrCodeForbidden)

		_, err = e.consents.Create(e.ctx, nil, CreateConsentInput{})
		assertCode(t, err, apperrors.ErrCodeUnauthenticated)
	})

	t.Run("rejects a second active grant even when expired or hidden", func(t *testing.T) {
		e := newEnv(t)
		c := e.grant(e.trainer, ptr(epoch.Add(time.Hour)), domain.ScopeSessionsRead)
		_, err := e.consents.Hide(e.ctx, e.member, c.ID)
		require.NoError(t, err)
		e.now = epoch.Add(2 * time.Hour)

		_, err = e.consents.Create(e.ctx, e.member, CreateConsentInput{TrainerID: e.trainer.UserID, Scopes: []domain.Scope{domain.ScopeProgressRead}})
		assertCode(t, err, apperrors.ErrCodeState)
	})

	t.Run("allows a new grant after revoking", func(t *testing.T) {
		e := newEnv(t)
		c := e.grant(e.trainer, nil, domain.ScopeSessionsRead)
		_, err := e.consents.Revoke(e.ctx, e.member, c.ID)
		require.NoError(t, err)

		_, err = e.consents.Create(e.ctx, e.member, CreateConsentInput{TrainerID: e.trainer.UserID, Scopes: []domain.Scope{domain.ScopeProgressRead}})
		assert.NoError(t, err)
	})

	t.Run("concurrent creates leave one active grant", func(t *testing.T) {
		e := newEnv(t)
		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := e.consents.Create(e.ctx, e.member, CreateConsentInput{TrainerID: e.trainer.UserID, Scopes: []domain.Scope{domain.ScopeSessionsRead}})
				if err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, 1, succeeded)
	})
}

func TestConsentService_GetActiveAtEveryTick(t *testing.T) {
	e := newEnv(t)
	exp := epoch.Add(10 * time.Minute)
	e.grant(e.trainer, &exp, domain.ScopeSessionsRead)

	for _, tc := range []struct {
		at        time.Time
		effective bool
	}{
		{epoch, true},
		{exp.Add(-time.Nanosecond), true},
		{exp, false},
		{exp.Add(time.Nanosecond), false},
		{exp.Add(24 * time.Hour), false},
	} {
		e.now = tc.at
		got, err := e.consents.GetActive(e.ctx, e.trainer.UserID, e.member.UserID)
		require.NoError(t, err)
		assert.Equal(t, tc.effective, got != nil, "at %s", tc.at)
	}
}

func TestConsentService_Update(t *testing.T) {
	t.Run("partial update keeps omitted fields", func(t *testing.T) {
		e := newEnv(t)
		exp := epoch.Add(48 * time.Hour)
		c := e.grant(e.trainer, &exp, domain.ScopeSessionsRead)

		updated, err := e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{
			Scopes: &[]domain.Scope{domain.ScopePRsRead, domain.ScopeSessionsRead},
		})
		require.NoError(t, err)
		assert.Equal(t, []domain.Scope{domain.ScopePRsRead, domain.ScopeSessionsRead}, updated.Scopes)
		require.NotNil(t, updated.ExpiresAt)
		assert.True(t, exp.Equal(*updated.ExpiresAt))
		assert.Greater(t, updated.Revision, c.Revision)
		assert.Len(t, updated.Audit, 2)
	})

	t.Run("null expiry clears it", func(t *testing.T) {
		e := newEnv(t)
		c := e.grant(e.trainer, ptr(epoch.Add(time.Hour)), domain.ScopeSessionsRead)

		updated, err := e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{ExpiresAt: OptionalTime{Present: true}})
		require.NoError(t, err)
		assert.Nil(t, updated.ExpiresAt)
		assert.Equal(t, []domain.Scope{domain.ScopeSessionsRead}, updated.Scopes)
	})

	t.Run("extending an expired grant makes it effective again", func(t *testing.T) {
		e := newEnv(t)
		c := e.grant(e.trainer, ptr(epoch.Add(time.Hour)), domain.ScopeSessionsRead)
		e.now = epoch.Add(2 * time.Hour)

		_, err := e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{ExpiresAt: OptionalTime{Present: true, Value: ptr(epoch.Add(3 * time.Hour))}})
		require.NoError(t, err)
		active, err := e.consents.GetActive(e.ctx, e.trainer.UserID, e.member.UserID)
		require.NoError(t, err)
		assert.NotNil(t, active)
	})

	t.Run("failed update leaves the record untouched", func(t *testing.T) {
		e := newEnv(t)
		c := e.grant(e.trainer, nil, domain.ScopeSessionsRead)

		_, err := e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{Scopes: &[]domain.Scope{"bogus"}})
		assertCode(t, err, apperrors.ErrCodeValidation)
		_, err = e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{Scopes: &[]domain.Scope{}})
		assertCode(t, err, apperrors.ErrCodeValidation)
		_, err = e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{
			Scopes:    &[]domain.Scope{domain.ScopeBillingManage},
			ExpiresAt: OptionalTime{Present: true, Value: ptr(epoch.Add(-time.Minute))},
		})
		assertCode(t, err, apperrors.ErrCodeValidation)

		stored, err := e.store.Consents.GetByID(e.ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, c.Scopes, stored.Scopes)
		assert.Equal(t, c.Revision, stored.Revision)
		assert.Len(t, stored.Audit, 1)
	})

	t.Run("owner only", func(t *testing.T) {
		e := newEnv(t)
		c := e.grant(e.trainer, nil, domain.ScopeSessionsRead)

		_, err := e.consents.Update(e.ctx, e.otherMember, c.ID, UpdateConsentInput{Scopes: &[]domain.Scope{domain.ScopeBillingManage}})
		assertCode(t, err, apperrors.ErrCodeNotFound)
		_, err = e.consents.Update(e.ctx, e.member, "missing", UpdateConsentInput{})
		assertCode(t, err, apperrors.ErrCodeNotFound)
	})
}

func TestConsentService_RevokeIsTerminal(t *testing.T) {
	e := newEnv(t)
	c := e.grant(e.trainer, nil, domain.ScopeSessionsRead)

	revoked, err := e.consents.Revoke(e.ctx, e.member, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConsentRevoked, revoked.Status)
	require.NotNil(t, revoked.RevokedAt)

	_, err = e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{Scopes: &[]domain.Scope{domain.ScopePRsRead}})
	assertCode(t, err, apperrors.ErrCodeState)

	_, err = e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{Scopes: &[]domain.Scope{}})
	assertCode(t, err, apperrors.ErrCodeState)

	_, err = e.consents.Update(e.ctx, e.member, c.ID, UpdateConsentInput{Scopes: &[]domain.Scope{"bogus:scope"}})
	assertCode(t, err, apperrors.ErrCodeState)

	_, err = e.consents.Revoke(e.ctx, e.member, c.ID)
	assertCode(t, err, apperrors.ErrCodeState)

	active, err := e.consents.GetActive(e.ctx, e.trainer.UserID, e.member.UserID)
	require.NoError(t, err)
	assert.Nil(t, active)

	restored, err := e.consents.Restore(e.ctx, e.member, c.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ConsentRevoked, restored.Status)
}

func TestConsentService_UpdateUnknownID(t *testing.T) {
	e := newEnv(t)

	_, err := e.consents.Update(e.ctx, e.member, "nope", UpdateConsentInput{Scopes: &[]domain.Scope{"bogus:scope"}})
	assertCode(t, err, apperrors.ErrCodeNotFound)
}

func TestConsentService_HideRestore(t *testing.T) {
	e := newEnv(t)
	exp := epoch.Add(time.Hour)
	c := e.grant(e.trainer, &exp, domain.ScopeSessionsRead, domain.ScopePRsRead)

	hidden, err := e.consents.Hide(e.ctx, e.member, c.ID)
	require.NoError(t, err)
	assert.True(t, hidden.Hidden)
	assert.Equal(t, domain.ConsentActive, hidden.Status)
	assert.Equal(t, domain.ConsentHidden, hidden.DisplayStatus())
	assert.Equal(t, c.Scopes, hidden.Scopes)
	assert.True(t, exp.Equal(*hidden.ExpiresAt))

	again, err := e.consents.Hide(e.ctx, e.member, c.ID)
	require.NoError(t, err)
	assert.Equal(t, hidden.Revision, again.Revision, "hiding twice is a no-op")

	views, err := e.consents.ListForClient(e.ctx, e.member, false)
	require.NoError(t, err)
	assert.Empty(t, views)

	views, err = e.consents.ListForClient(e.ctx, e.member, true)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, domain.ConsentHidden, views[0].DisplayStatus)
	assert.True(t, views[0].Effective)
	assert.Equal(t, "Tess Trainer", views[0].Trainer.Name)

	restored, err := e.consents.Restore(e.ctx, e.member, c.ID)
	require.NoError(t, err)
	assert.False(t, restored.Hidden)
	assert.Equal(t, domain.ConsentActive, restored.DisplayStatus())
}

func TestConsentService_ListActiveForTrainer(t *testing.T) {
	e := newEnv(t)
	e.grant(e.trainer, ptr(epoch.Add(time.Hour)), domain.ScopeSessionsRead)
	_, err := e.consents.Create(e.ctx, e.otherMember, CreateConsentInput{TrainerID: e.trainer.UserID, Scopes: []domain.Scope{domain.ScopeProgressRead}})
	require.NoError(t, err)

	list, err := e.consents.ListActiveForTrainer(e.ctx, e.trainer)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	e.now = epoch.Add(time.Hour)
	list, err = e.consents.ListActiveForTrainer(e.ctx, e.trainer)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, e.otherMember.UserID, list[0].ClientID)

	_, err = e.consents.ListActiveForTrainer(e.ctx, e.member)
	assertCode(t, err, apperrors.ErrCodeForbidden)
}
