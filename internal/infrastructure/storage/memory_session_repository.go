package storage

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"

	"damage-dashboard/internal/domain/entity"
	"damage-dashboard/internal/domain/port"
)

// MemorySessionRepository in-memory хранилище сессий анализа.
// Живёт только пока работает процесс: история не сохраняется.
type MemorySessionRepository struct {
	mu       sync.RWMutex
	sessions map[string]*entity.Session
	now      func() time.Time
}

// NewMemorySessionRepository создаёт новое in-memory хранилище
func NewMemorySessionRepository() *MemorySessionRepository {
	return &MemorySessionRepository{
		sessions: make(map[string]*entity.Session),
		now:      time.Now,
	}
}

// Get возвращает сессию по ID
func (r *MemorySessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, eris.Wrapf(entity.ErrSessionNotFound, "session %q", id)
	}
	return session, nil
}

// GetOrCreate возвращает сессию, создаёт пустую если не найдена
func (r *MemorySessionRepository) GetOrCreate(ctx context.Context, id string) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if session, ok := r.sessions[id]; ok {
		return session, nil
	}
	session := entity.NewSession(id, r.now())
	r.sessions[id] = session
	return session, nil
}

// Save сохраняет сессию
func (r *MemorySessionRepository) Save(ctx context.Context, session *entity.Session) error {
	if session == nil || session.ID == "" {
		return eris.New("session id is required")
	}
	r.mu.Lock()
	r.sessions[session.ID] = session
	r.mu.Unlock()

	return nil
}

// Delete удаляет сессию, отсутствие сессии не считается ошибкой
func (r *MemorySessionRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()

	return nil
}

// Проверка реализации интерфейса
var _ port.SessionRepository = (*MemorySessionRepository)(nil)
