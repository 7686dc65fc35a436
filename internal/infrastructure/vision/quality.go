// Package vision проверяет качество фото до отправки в сервис детекции.
package vision

import (
	"damage-dashboard/internal/domain/port"
)

// QualityGate пороги проверки снимка. Без тега сборки gocv проверяется только размер.
type QualityGate struct {
	MinImageSide          int
	MinSharpnessEdgeRatio float64
	MaxOverexposedRatio   float64
	MaxUnderexposedRatio  float64
	MaxGlareRatio         float64
}

// NewQualityGate создаёт проверку с минимальной стороной снимка minSide.
func NewQualityGate(minSide int) *QualityGate {
	if minSide <= 0 {
		minSide = 400
	}
	return &QualityGate{
		MinImageSide:          minSide,
		MinSharpnessEdgeRatio: 0.008,
		MaxOverexposedRatio:   0.35,
		MaxUnderexposedRatio:  0.45,
		MaxGlareRatio:         0.08,
	}
}

var _ port.ImageQualityGate = (*QualityGate)(nil)
