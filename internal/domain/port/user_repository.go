package port

import (
	"context"

	"damage-dashboard/internal/domain/entity"
)

// UserRepository хранит состояние диалога с пользователем Telegram.
// Реализации возвращают копию: изменения видны только после UpdateState.
type UserRepository interface {
	// Get возвращает пользователя, создаёт нового для неизвестного ID или нового чата
	Get(ctx context.Context, userID, chatID int64) (*entity.User, error)

	// UpdateState возвращает entity.ErrUserNotFound, если пользователь ещё не создан
	UpdateState(ctx context.Context, userID int64, state entity.UserState) error
}
