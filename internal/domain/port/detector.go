package port

import (
	"context"

	"damage-dashboard/internal/domain/entity"
)

// DamageDetector интерфейс внешнего сервиса детекции повреждений
type DamageDetector interface {
	// Detect отправляет фото и возвращает детекции вместе с решением по заявке
	Detect(ctx context.Context, filename string, imageData []byte) (*entity.AnalysisResult, error)
}

// ImageQualityGate проверяет пригодность фото до отправки в сервис
type ImageQualityGate interface {
	// Check возвращает ошибку, если снимок слишком мал, размыт или засвечен
	Check(ctx context.Context, imageData []byte) error
}
