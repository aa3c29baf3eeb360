package memory

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
	"sort"
)

type exerciseRepository struct {
	t *table[domain.Exercise]
}

func NewExerciseRepository() repository.ExerciseRepository {
	return &exerciseRepository{t: newTable(shallow[domain.Exercise])}
}

func (r *exerciseRepository) Create(ctx context.Context, exercise *domain.Exercise) error {
	r.t.insert(exercise.ID, exercise)
	return nil
}

func (r *exerciseRepository) GetByID(ctx context.Context, id string) (*domain.Exercise, error) {
	return r.t.get(id)
}

func (r *exerciseRepository) ListVisibleTo(ctx context.Context, ownerID string) ([]domain.Exercise, error) {
	exercises := r.t.filter(func(e *domain.Exercise) bool {
		return e.OwnerID == "" || (ownerID != "" && e.OwnerID == ownerID)
	})
	sort.SliceStable(exercises, func(i, j int) bool { return exercises[i].Name < exercises[j].Name })
	return exercises, nil
}

type proposalRepository struct {
	t *table[domain.RoutineProposal]
}

func NewProposalRepository() repository.ProposalRepository {
	return &proposalRepository{t: newTable((*domain.RoutineProposal).Clone)}
}

func (r *proposalRepository) Create(ctx context.Context, p *domain.RoutineProposal) error {
	r.t.insert(p.ID, p)
	return nil
}

func (r *proposalRepository) GetByID(ctx context.Context, id string) (*domain.RoutineProposal, error) {
	return r.t.get(id)
}

func (r *proposalRepository) ListByClient(ctx context.Context, clientID string) ([]domain.RoutineProposal, error) {
	return r.t.filter(func(p *domain.RoutineProposal) bool { return p.ClientID == clientID }), nil
}

func (r *proposalRepository) Update(ctx context.Context, id string, fn func(*domain.RoutineProposal) error) (*domain.RoutineProposal, error) {
	return r.t.update(id, fn)
}

type routineRepository struct {
	t *table[domain.Routine]
}

func NewRoutineRepository() repository.RoutineRepository {
	return &routineRepository{t: newTable((*domain.Routine).Clone)}
}

func (r *routineRepository) Create(ctx context.Context, routine *domain.Routine) error {
	r.t.insert(routine.ID, routine)
	return nil
}

func (r *routineRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Routine, error) {
	return r.t.filter(func(rt *domain.Routine) bool { return rt.ClientID == clientID }), nil
}

type membershipRepository struct {
	t *table[domain.Membership]
}

func NewMembershipRepository() repository.MembershipRepository {
	return &membershipRepository{t: newTable((*domain.Membership).Clone)}
}

func (r *membershipRepository) Get(ctx context.Context, clientID string) (*domain.Membership, error) {
	return r.t.get(clientID)
}

func (r *membershipRepository) Upsert(ctx context.Context, m *domain.Membership) error {
	r.t.insert(m.ClientID, m)
	return nil
}

func (r *membershipRepository) List(ctx context.Context) ([]domain.Membership, error) {
	return r.t.filter(nil), nil
}
