package memory

import (
	"context"
	"sort"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// userRepository — in-memory реализация UserRepository.
type userRepository struct {
	s    *Store
	inTx bool
}

func (r *userRepository) Create(_ context.Context, user domain.User) error {
	defer r.s.lockFor(r.inTx, false)()

	if _, exists := r.s.users[user.ID]; exists {
		return domain.ErrAlreadyExists
	}
	for _, existing := range r.s.users {
		if existing.Email == user.Email {
			return domain.ErrAlreadyExists
		}
	}
	r.s.users[user.ID] = user
	return nil
}

func (r *userRepository) Get(_ context.Context, id string) (domain.User, error) {
	defer r.s.lockFor(r.inTx, true)()

	user, ok := r.s.users[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepository) GetByEmail(_ context.Context, email string) (domain.User, error) {
	defer r.s.lockFor(r.inTx, true)()

	for _, user := range r.s.users {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *userRepository) ListManagers(_ context.Context) ([]domain.User, error) {
	defer r.s.lockFor(r.inTx, true)()

	result := make([]domain.User, 0)
	for _, user := range r.s.users {
		if user.IsManager {
			result = append(result, user)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}

var _ domain.UserRepository = (*userRepository)(nil)
