package memory

import (
	"alcyxob/fitcoach/internal/domain"
	"alcyxob/fitcoach/internal/repository"
	"context"
)

type userRepository struct {
	t *table[domain.User]
}

// NewUserRepository creates an in-memory user directory.
func NewUserRepository() repository.UserRepository {
	return &userRepository{t: newTable(shallow[domain.User])}
}

// Create inserts user, rejecting a duplicate email with repository.ErrConflict.
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	r.t.mu.Lock()
	defer r.t.mu.Unlock()
	if r.t.findLocked(func(u *domain.User) bool { return u.Email == user.Email }) != nil {
		return repository.ErrConflict
	}
	r.t.insertLocked(user.ID, user)
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.t.mu.RLock()
	defer r.t.mu.RUnlock()
	u := r.t.findLocked(func(u *domain.User) bool { return u.Email == email })
	if u == nil {
		return nil, repository.ErrNotFound
	}
	return r.t.clone(u), nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.t.get(id)
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.Role) ([]domain.User, error) {
	return r.t.filter(func(u *domain.User) bool { return u.Role == role }), nil
}
