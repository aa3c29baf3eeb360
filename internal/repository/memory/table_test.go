package memory

import (
	"context"
	"testing"
	"time"

	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository()

	require.NoError(t, repo.Create(ctx, &domain.User{ID: "u1", Email: "ana@example.com", Role: domain.RoleUser}))
	require.NoError(t, repo.Create(ctx, &domain.User{ID: "t1", Email: "tom@example.com", Role: domain.RoleTrainer}))

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := repo.Create(ctx, &domain.User{ID: "u2", Email: "ana@example.com", Role: domain.RoleUser})
		assert.ErrorIs(t, err, repository.ErrConflict)
	})

	t.Run("lookup by email and role", func(t *testing.T) {
		u, err := repo.GetByEmail(ctx, "tom@example.com")
		require.NoError(t, err)
		assert.Equal(t, "t1", u.ID)

		trainers, err := repo.ListByRole(ctx, domain.RoleTrainer)
		require.NoError(t, err)
		require.Len(t, trainers, 1)
		assert.Equal(t, "t1", trainers[0].ID)

		_, err = repo.GetByEmail(ctx, "nobody@example.com")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestWorkoutSessionRepository_ListNewestFirst(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkoutSessionRepository()
	day := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &domain.WorkoutSession{ID: "s1", ClientID: "c", PerformedAt: day}))
	require.NoError(t, repo.Create(ctx, &domain.WorkoutSession{ID: "s2", ClientID: "c", PerformedAt: day.AddDate(0, 0, 2)}))
	require.NoError(t, repo.Create(ctx, &domain.WorkoutSession{ID: "s3", ClientID: "other", PerformedAt: day}))

	sessions, err := repo.ListByClient(ctx, "c")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "s2", sessions[0].ID)
	assert.Equal(t, "s1", sessions[1].ID)
}

func TestPlannedSessionRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewPlannedSessionRepository()
	require.NoError(t, repo.Create(ctx, &domain.PlannedSession{ID: "p1", ClientID: "c"}))

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err := repo.GetByID(ctx, "p1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "p1"), repository.ErrNotFound)

	list, err := repo.ListByClient(ctx, "c")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestExerciseRepository_ListVisibleTo(t *testing.T) {
	ctx := context.Background()
	repo := NewExerciseRepository()
	require.NoError(t, repo.Create(ctx, &domain.Exercise{ID: "e1", Name: "Squat"}))
	require.NoError(t, repo.Create(ctx, &domain.Exercise{ID: "e2", Name: "Bench Press"}))
	require.NoError(t, repo.Create(ctx, &domain.Exercise{ID: "e3", Name: "Band Pull-Apart", OwnerID: "client-a"}))
	require.NoError(t, repo.Create(ctx, &domain.Exercise{ID: "e4", Name: "Sled Push", OwnerID: "client-b"}))

	visible, err := repo.ListVisibleTo(ctx, "client-a")
	require.NoError(t, err)
	names := make([]string, len(visible))
	for i, e := range visible {
		names[i] = e.Name
	}
	assert.Equal(t, []string{"Band Pull-Apart", "Bench Press", "Squat"}, names)

	shared, err := repo.ListVisibleTo(ctx, "")
	require.NoError(t, err)
	assert.Len(t, shared, 2)
}
