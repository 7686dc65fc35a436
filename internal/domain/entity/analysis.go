package entity

import (
	"github.com/rotisserie/eris"
)

// Decision итог страхового решения от сервиса детекции.
type Decision struct {
	ClaimApproved      bool    `json:"claim_approved"`
	FinalDamage        string  `json:"final_damage"`
	EstimatedCostRange string  `json:"estimated_cost_range,omitempty"` // пустая строка = диапазон не пришёл
	SeverityLevel      int     `json:"severity_level,omitempty"`
	Confidence         float64 `json:"confidence,omitempty"`
	DamageCount        int     `json:"damage_count,omitempty"`
}

// ClaimStatus статус заявки для отображения.
func (d Decision) ClaimStatus() string {
	if d.ClaimApproved {
		return "Approved"
	}
	return "Rejected"
}

// AnalysisResult снимок результата одного анализа. Не изменяется после создания:
// новая загрузка или сброс заменяют его целиком.
type AnalysisResult struct {
	Detections []Detection `json:"detections"`
	Decision   Decision    `json:"decision"`
}

// Validate отклоняет результат целиком при первой же некорректной детекции.
func (r *AnalysisResult) Validate() error {
	if r == nil {
		return eris.New("analysis result is nil")
	}
	for i, d := range r.Detections {
		if err := d.Validate(); err != nil {
			return eris.Wrapf(err, "detection %d", i)
		}
	}
	return nil
}

// WithDecision возвращает копию результата с заполненным решением,
// если сервис его не прислал.
func (r *AnalysisResult) WithDecision() *AnalysisResult {
	out := &AnalysisResult{
		Detections: append([]Detection(nil), r.Detections...),
		Decision:   r.Decision,
	}
	if out.Decision.FinalDamage == "" {
		out.Decision = AssessClaim(out.Detections)
	}
	return out
}

// FirstHit возвращает индекс первой детекции, чей прямоугольник содержит точку,
// или -1. При перекрытии побеждает порядок во входном списке.
func FirstHit(detections []Detection, x, y float64) int {
	for i, d := range detections {
		if d.Box.Contains(x, y) {
			return i
		}
	}
	return -1
}
