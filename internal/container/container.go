package container

import (
	app "damage-dashboard/internal/application"
	"damage-dashboard/internal/domain/port"
)

type Container struct {
	UserService     *app.UserService
	AnalysisService *app.AnalysisService
}

// New собирает сервисы приложения. assistant и gate могут быть nil.
func New(
	userRepo port.UserRepository,
	sessionRepo port.SessionRepository,
	detector port.DamageDetector,
	assistant port.ClaimAssistant,
	gate port.ImageQualityGate,
) *Container {
	return &Container{
		UserService:     app.NewUserService(userRepo),
		AnalysisService: app.NewAnalysisService(sessionRepo, detector, assistant, gate),
	}
}
