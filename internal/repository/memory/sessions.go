package memory

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"sort"
)

type plannedSessionRepository struct {
	t *table[domain.PlannedSession]
}

func NewPlannedSessionRepository() repository.PlannedSessionRepository {
	return &plannedSessionRepository{t: newTable((*domain.PlannedSession).Clone)}
}

func (r *plannedSessionRepository) Create(ctx context.Context, p *domain.PlannedSession) error {
	r.t.insert(p.ID, p)
	return nil
}

func (r *plannedSessionRepository) GetByID(ctx context.Context, id string) (*domain.PlannedSession, error) {
	return r.t.get(id)
}

func (r *plannedSessionRepository) ListByClient(ctx context.Context, clientID string) ([]domain.PlannedSession, error) {
	return r.t.filter(func(p *domain.PlannedSession) bool { return p.ClientID == clientID }), nil
}

func (r *plannedSessionRepository) Update(ctx context.Context, id string, fn func(*domain.PlannedSession) error) (*domain.PlannedSession, error) {
	return r.t.update(id, fn)
}

func (r *plannedSessionRepository) Delete(ctx context.Context, id string) error {
	return r.t.delete(id)
}

type workoutSessionRepository struct {
	t *table[domain.WorkoutSession]
}

func NewWorkoutSessionRepository() repository.WorkoutSessionRepository {
	return &workoutSessionRepository{t: newTable((*domain.WorkoutSession).Clone)}
}

func (r *workoutSessionRepository) Create(ctx context.Context, s *domain.WorkoutSession) error {
	r.t.insert(s.ID, s)
	return nil
}

func (r *workoutSessionRepository) GetByID(ctx context.Context, id string) (*domain.WorkoutSession, error) {
	return r.t.get(id)
}

func (r *workoutSessionRepository) ListByClient(ctx context.Context, clientID string) ([]domain.WorkoutSession, error) {
	sessions := r.t.filter(func(s *domain.WorkoutSession) bool { return s.ClientID == clientID })
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].PerformedAt.After(sessions[j].PerformedAt)
	})
	return sessions, nil
}

type commentRepository struct {
	t *table[domain.SessionComment]
}

func NewCommentRepository() repository.CommentRepository {
	return &commentRepository{t: newTable(shallow[domain.SessionComment])}
}

func (r *commentRepository) Create(ctx context.Context, c *domain.SessionComment) error {
	r.t.insert(c.ID, c)
	return nil
}

func (r *commentRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SessionComment, error) {
	return r.t.filter(func(c *domain.SessionComment) bool { return c.SessionID == sessionID }), nil
}

type mediaRepository struct {
	t *table[domain.SessionMedia]
}

func NewMediaRepository() repository.MediaRepository {
	return &mediaRepository{t: newTable(shallow[domain.SessionMedia])}
}

func (r *mediaRepository) Create(ctx context.Context, m *domain.SessionMedia) error {
	r.t.insert(m.ID, m)
	return nil
}

func (r *mediaRepository) GetByID(ctx context.Context, id string) (*domain.SessionMedia, error) {
	return r.t.get(id)
}

func (r *mediaRepository) ListBySession(ctx context.Context, sessionID string) ([]domain.SessionMedia, error) {
	return r.t.filter(func(m *domain.SessionMedia) bool { return m.SessionID == sessionID }), nil
}
