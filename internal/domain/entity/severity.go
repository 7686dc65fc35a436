package entity

import "image/color"

// SeverityBand уровень серьёзности, вычисляется по уверенности.
type SeverityBand int

const (
	BandLow    SeverityBand = iota // уверенность < 0.70
	BandMedium                     // 0.70 <= уверенность < 0.90
	BandHigh                       // уверенность >= 0.90
)

const (
	mediumThreshold = 0.70
	highThreshold   = 0.90
)

func (b SeverityBand) String() string {
	switch b {
	case BandHigh:
		return "high"
	case BandMedium:
		return "medium"
	default:
		return "low"
	}
}

// BandOf сопоставляет уверенность уровню. Нижняя граница каждого уровня включается.
func BandOf(confidence float64) SeverityBand {
	switch {
	case confidence >= highThreshold:
		return BandHigh
	case confidence >= mediumThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

var (
	red    = color.NRGBA{R: 239, G: 68, B: 68}
	orange = color.NRGBA{R: 251, G: 146, B: 60}
	green  = color.NRGBA{R: 34, G: 197, B: 94}
)

const (
	fillAlpha   = 102 // 0.4
	strokeAlpha = 204 // 0.8
)

// ColorOf возвращает полупрозрачную заливку и обводку того же оттенка.
func ColorOf(band SeverityBand) (fill, stroke color.NRGBA) {
	var base color.NRGBA
	switch band {
	case BandHigh:
		base = red
	case BandMedium:
		base = orange
	default:
		base = green
	}
	fill, stroke = base, base
	fill.A = fillAlpha
	stroke.A = strokeAlpha
	return fill, stroke
}
