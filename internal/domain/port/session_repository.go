package port

import (
	"context"

	"damage-dashboard/internal/domain/entity"
)

// SessionRepository интерфейс хранилища сессий анализа
type SessionRepository interface {
	// Get возвращает сессию по ID или ErrSessionNotFound
	Get(ctx context.Context, id string) (*entity.Session, error)

	// GetOrCreate возвращает сессию, создаёт новую если не найдена
	GetOrCreate(ctx context.Context, id string) (*entity.Session, error)

	// Save сохраняет сессию
	Save(ctx context.Context, session *entity.Session) error

	// Delete удаляет сессию
	Delete(ctx context.Context, id string) error
}
