package entity

import "math"

const approvalRank = 2

// AssessClaim строит решение по заявке, когда сервис прислал только детекции.
// Итоговое повреждение: самое серьёзное по рангу, при равенстве первое.
// EstimatedCostRange остаётся пустым, стоимость считает Estimate.
func AssessClaim(detections []Detection) Decision {
	if len(detections) == 0 {
		return Decision{FinalDamage: "none"}
	}

	var (
		highest    = -1
		finalClass string
		sum        float64
	)
	for _, d := range detections {
		sum += d.Confidence
		if rank := classify(d.Class).rank; rank > highest {
			highest = rank
			finalClass = d.Class
		}
	}
	avg := sum / float64(len(detections))

	return Decision{
		ClaimApproved: highest >= approvalRank,
		FinalDamage:   finalClass,
		SeverityLevel: highest,
		Confidence:    math.Round(avg*100) / 100,
		DamageCount:   len(detections),
	}
}
