package entity

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// CostRange диапазон стоимости ремонта. Границы не округляются до вывода.
type CostRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Rounded округляет границы до ближайшего целого.
func (c CostRange) Rounded() (lo, hi int64) {
	return int64(math.Round(c.Min)), int64(math.Round(c.Max))
}

// damageRule базовый диапазон для класса повреждения.
type damageRule struct {
	keywords []string
	rank     int // ранг серьёзности для решения по заявке
	min, max float64
}

// Порядок важен: срабатывает первое совпадение.
var damageRules = []damageRule{
	{keywords: []string{"scratch"}, rank: 1, min: 500, max: 5000},
	{keywords: []string{"dent"}, rank: 2, min: 1500, max: 8000},
	{keywords: []string{"broken", "crack"}, rank: 3, min: 3000, max: 15000},
	{keywords: []string{"severe", "major"}, rank: 4, min: 25000, max: 100000},
}

var defaultRule = damageRule{rank: 0, min: 2000, max: 10000}

// classify подбирает правило по подстроке без учёта регистра.
func classify(class string) damageRule {
	lower := strings.ToLower(class)
	for _, rule := range damageRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule
			}
		}
	}
	return defaultRule
}

// BaseRange возвращает базовый диапазон для класса повреждения.
func BaseRange(class string) CostRange {
	rule := classify(class)
	return CostRange{Min: rule.min, Max: rule.max}
}

// Contribution вклад одной детекции в оценку.
func Contribution(d Detection) CostRange {
	base := BaseRange(d.Class)
	span := base.Max - base.Min
	return CostRange{
		Min: base.Min + span*d.Confidence*0.2,
		Max: base.Min + span*(0.5+d.Confidence*0.5),
	}
}

// Estimate суммирует вклады всех детекций. Пустой список даёт нулевой диапазон.
func Estimate(detections []Detection) CostRange {
	var total CostRange
	for _, d := range detections {
		c := Contribution(d)
		total.Min += c.Min
		total.Max += c.Max
	}
	return total
}

const rupee = "₹"

var costPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatCostRange форматирует диапазон как "₹2,735 - ₹7,838".
func FormatCostRange(c CostRange) string {
	lo, hi := c.Rounded()
	return costPrinter.Sprintf("%s%d - %s%d", rupee, lo, rupee, hi)
}

// CostText возвращает диапазон от сервиса, а при его отсутствии локальную оценку.
func CostText(r *AnalysisResult) string {
	if r == nil {
		return FormatCostRange(CostRange{})
	}
	if r.Decision.EstimatedCostRange != "" {
		return r.Decision.EstimatedCostRange
	}
	return FormatCostRange(Estimate(r.Detections))
}
