package port

import (
	"context"

	"damage-dashboard/internal/domain/entity"
)

// ClaimAssistant интерфейс ассистента, объясняющего решение по заявке
type ClaimAssistant interface {
	// Ask отвечает на вопрос пользователя по результату анализа
	Ask(ctx context.Context, result *entity.AnalysisResult, question string) (*entity.AgentAnswer, error)
}
