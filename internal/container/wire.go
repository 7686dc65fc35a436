package container

import (
	"net/http"

	"damage-dashboard/config"
	"damage-dashboard/internal/domain/port"
	"damage-dashboard/internal/infrastructure/detection"
	"damage-dashboard/internal/infrastructure/storage"
	"damage-dashboard/internal/infrastructure/vision"
)

// Build собирает контейнер по конфигурации: in-memory хранилища,
// HTTP-клиент сервиса детекции и, если включена, проверку качества фото.
func Build(cfg *config.Config) *Container {
	client := detection.NewClient(cfg.Detection.BaseURL,
		detection.WithHTTPClient(&http.Client{Timeout: cfg.Detection.Timeout()}),
		detection.WithRateLimit(cfg.Detection.RatePerSec, cfg.Detection.Burst),
	)

	var gate port.ImageQualityGate
	if cfg.Quality.Enabled {
		gate = vision.NewQualityGate(cfg.Quality.MinImageSide)
	}

	return New(
		storage.NewMemoryUserRepository(),
		storage.NewMemorySessionRepository(),
		client,
		client,
		gate,
	)
}
