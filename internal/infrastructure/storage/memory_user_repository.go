package storage

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"

	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/domain/port"
)

// MemoryUserRepository in-memory хранилище состояний диалога.
// Наружу отдаются копии: состояние меняется только через UpdateState.
type MemoryUserRepository struct {
	mu    sync.Mutex
	users map[int64]entity.User
}

// NewMemoryUserRepository создаёт новое in-memory хранилище
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users: make(map[int64]entity.User),
	}
}

// Get возвращает пользователя по ID, создаёт нового если не найден.
// Если пользователь пишет из другого чата, привязка к чату обновляется.
func (r *MemoryUserRepository) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok || user.ChatID != chatID {
		user = *entity.NewUser(userID, chatID)
	}
	r.users[userID] = user

	return &user, nil
}

// UpdateState обновляет состояние пользователя
func (r *MemoryUserRepository) UpdateState(ctx context.Context, userID int64, state entity.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[userID]
	if !ok {
		return eris.Wrapf(entity.ErrUserNotFound, "user %d", userID)
	}
	user.SetState(state)
	r.users[userID] = user

	return nil
}

// Проверка реализации интерфейса
var _ port.UserRepository = (*MemoryUserRepository)(nil)
