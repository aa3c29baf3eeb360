package memory

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
)

type consentRepository struct {
	t *table[domain.Consent]
}

// NewConsentRepository creates the in-memory consent table. It is the single
// writer for authorization state: every mutation holds the table's write lock.
func NewConsentRepository() repository.ConsentRepository {
	return &consentRepository{t: newTable((*domain.Consent).Clone)}
}

func activeFor(trainerID, clientID string) func(*domain.Consent) bool {
	return func(c *domain.Consent) bool {
		return c.TrainerID == trainerID && c.ClientID == clientID && c.Status == domain.ConsentActive
	}
}

func (r *consentRepository) Create(ctx context.Context, c *domain.Consent) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if c.Status == domain.ConsentActive && r.t.findLocked(activeFor(c.TrainerID, c.ClientID)) != nil {
		return repository.ErrConflict
	}
	r.t.insertLocked(c.ID, c)
	return nil
}

func (r *consentRepository) GetByID(ctx context.Context, id string) (*domain.Consent, error) {
	return r.t.get(id)
}

func (r *consentRepository) FindActive(ctx context.Context, trainerID, clientID string) (*domain.Consent, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	c := r.t.findLocked(activeFor(trainerID, clientID))
	if c == nil {
		return nil, repository.ErrNotFound
	}
	return c.Clone(), nil
}

func (r *consentRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Consent, error) {
	return r.t.filter(func(c *domain.Consent) bool { return c.ClientID == clientID }), nil
}

func (r *consentRepository) ListActiveByTrainer(ctx context.Context, trainerID string) ([]domain.Consent, error) {
	return r.t.filter(func(c *domain.Consent) bool {
		return c.TrainerID == trainerID && c.Status == domain.ConsentActive
	}), nil
}

func (r *consentRepository) Update(ctx context.Context, id string, fn func(*domain.Consent) error) (*domain.Consent, error) {
	return r.t.update(id, fn)
}
