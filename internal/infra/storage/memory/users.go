package memory

import (
	"context"
	"sort"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
	userRepo "github.com/m04kA/SMC-ParkingService/internal/infra/storage/user"
)

// UserRepository репозиторий пользователей поверх Store
type UserRepository struct {
	store *Store
}

// NewUserRepository создает репозиторий пользователей
func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

// Create регистрирует пользователя с уникальными UID и email
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	s := r.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.UID == user.UID {
			return nil, userRepo.ErrUIDTaken
		}
		if existing.Email == user.Email {
			return nil, userRepo.ErrEmailTaken
		}
	}

	s.nextUser++
	stored := copyUser(user)
	stored.ID = s.nextUser
	stored.CreatedAt = s.now()
	s.users[stored.ID] = stored

	return copyUser(stored), nil
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, userRepo.ErrUserNotFound
	}
	return copyUser(u), nil
}

// GetByUID получает пользователя по метке
func (r *UserRepository) GetByUID(ctx context.Context, uid string) (*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.UID == uid {
			return copyUser(u), nil
		}
	}
	return nil, userRepo.ErrUserNotFound
}

// List возвращает всех пользователей по порядку регистрации
func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	s := r.store
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*domain.User, 0, len(s.users))
	for _, u := range s.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })

	return users, nil
}
