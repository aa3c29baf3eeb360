package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newConsent(id, clientID, trainerID string, scopes ...domain.Scope) *domain.Consent {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return &domain.Consent{
		ID:        id,
		ClientID:  clientID,
		TrainerID: trainerID,
		Scopes:    scopes,
		Status:    domain.ConsentActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestConsentRepository_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects a second active consent for the same pair", func(t *testing.T) {
		repo := NewConsentRepository()
		require.NoError(t, repo.Create(ctx, newConsent("c1", "client", "trainer", domain.ScopeSessionsRead)))

		err := repo.Create(ctx, newConsent("c2", "client", "trainer", domain.ScopeProgressRead))
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("allows a new active consent once the old one is revoked", func(t *testing.T) {
		repo := NewConsentRepository()
		require.NoError(t, repo.Create(ctx, newConsent("c1", "client", "trainer", domain.ScopeSessionsRead)))
		_, err := repo.Update(ctx, "c1", func(c *domain.Consent) error {
			c.Status = domain.ConsentRevoked
			return nil
		})
		require.NoError(t, err)

		assert.NoError(t, repo.Create(ctx, newConsent("c2", "client", "trainer", domain.ScopeSessionsRead)))
	})

	t.Run("different trainers do not conflict", func(t *testing.T) {
		repo := NewConsentRepository()
		require.NoError(t, repo.Create(ctx, newConsent("c1", "client", "t1", domain.ScopeSessionsRead)))
		assert.NoError(t, repo.Create(ctx, newConsent("c2", "client", "t2", domain.ScopeSessionsRead)))
	})

	t.Run("concurrent creates for one pair leave exactly one active", func(t *testing.T) {
		repo := NewConsentRepository()
		var wg sync.WaitGroup
		var mu sync.Mutex
		created := 0
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				id := string(rune('a' + i))
				if err := repo.Create(ctx, newConsent(id, "client", "trainer", domain.ScopeSessionsRead)); err == nil {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}(i)
		}
		wg.Wait()
		assert.Equal(t, 1, created)
	})
}

func TestConsentRepository_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("failed update leaves the record untouched", func(t *testing.T) {
		repo := NewConsentRepository()
		require.NoError(t, repo.Create(ctx, newConsent("c1", "client", "trainer", domain.ScopeSessionsRead)))

		_, err := repo.Update(ctx, "c1", func(c *domain.Consent) error {
			c.Scopes = append(c.Scopes, domain.ScopeSessionsWrite)
			return errors.New("validation failed")
		})
		require.Error(t, err)

		got, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, []domain.Scope{domain.ScopeSessionsRead}, got.Scopes)
	})

	t.Run("missing record returns ErrNotFound", func(t *testing.T) {
		repo := NewConsentRepository()
		_, err := repo.Update(ctx, "nope", func(c *domain.Consent) error { return nil })
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("returned records do not alias stored state", func(t *testing.T) {
		repo := NewConsentRepository()
		require.NoError(t, repo.Create(ctx, newConsent("c1", "client", "trainer", domain.ScopeSessionsRead)))

		got, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		got.Scopes[0] = domain.ScopeBillingManage

		again, err := repo.GetByID(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeSessionsRead, again.Scopes[0])
	})
}

func TestConsentRepository_NoTornReads(t *testing.T) {
	ctx := context.Background()
	repo := NewConsentRepository()
	require.NoError(t, repo.Create(ctx, newConsent("c1", "client", "trainer", domain.ScopeSessionsRead)))

	// Each write sets scopes and expiry together; a reader must always see a
	// matching pair.
	base := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	pairs := []struct {
		scopes []domain.Scope
		expiry time.Time
	}{
		{[]domain.Scope{domain.ScopeSessionsRead}, base},
		{[]domain.Scope{domain.ScopeSessionsRead, domain.ScopeSessionsWrite}, base.AddDate(1, 0, 0)},
	}

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 500; i++ {
			p := pairs[i%2]
			_, err := repo.Update(ctx, "c1", func(c *domain.Consent) error {
				c.Scopes = p.scopes
				exp := p.expiry
				c.ExpiresAt = &exp
				return nil
			})
			assert.NoError(t, err)
		}
		close(done)
	}()

	for reader := 0; reader < 4; reader++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-done:
					return
				default:
				}
				c, err := repo.FindActive(ctx, "trainer", "client")
				if !assert.NoError(t, err) || c.ExpiresAt == nil {
					continue
				}
				if len(c.Scopes) == 1 {
					assert.True(t, c.ExpiresAt.Equal(base))
				} else {
					assert.True(t, c.ExpiresAt.Equal(base.AddDate(1, 0, 0)))
				}
			}
		}()
	}
	wg.Wait()
}
