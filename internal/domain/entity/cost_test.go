package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_Empty(t *testing.T) {
	require.Equal(t, CostRange{}, Estimate(nil))
	require.Equal(t, "₹0 - ₹0", FormatCostRange(Estimate([]Detection{})))
}

func TestEstimate_DentScenario(t *testing.T) {
	dets := []Detection{{Class: "Dent", Confidence: 0.95, Box: BoundingBox{0, 0, 10, 10}}}

	got := Estimate(dets)
	assert.InDelta(t, 2735, got.Min, 1e-9)
	assert.InDelta(t, 7837.5, got.Max, 1e-9)
	assert.Equal(t, "₹2,735 - ₹7,838", FormatCostRange(got))
}

func TestBaseRange_RulePriority(t *testing.T) {
	cases := map[string]CostRange{
		"Scratch":          {500, 5000},
		"dented door":      {1500, 8000},
		"scratch and dent": {500, 5000},
		"Broken lamp":      {3000, 15000},
		"windshield crack": {3000, 15000},
		"SEVERE":           {25000, 100000},
		"major collision":  {25000, 100000},
		"hail damage":      {2000, 10000},
		"":                 {2000, 10000},
	}
	for class, want := range cases {
		assert.Equal(t, want, BaseRange(class), class)
	}
}

func TestEstimate_UnknownClassUsesDefault(t *testing.T) {
	d := Detection{Class: "hail damage", Confidence: 0.6, Box: BoundingBox{0, 0, 1, 1}}
	require.Equal(t, BandLow, d.Band())

	got := Estimate([]Detection{d})
	assert.InDelta(t, 2960, got.Min, 1e-9)
	assert.InDelta(t, 8400, got.Max, 1e-9)
}

func TestContribution_MinNeverExceedsMax(t *testing.T) {
	for _, class := range []string{"scratch", "dent", "broken", "severe", "other"} {
		for i := 0; i <= 100; i++ {
			c := Contribution(Detection{Class: class, Confidence: float64(i) / 100})
			require.LessOrEqual(t, c.Min, c.Max, "%s at %d%%", class, i)
			require.GreaterOrEqual(t, c.Min, 0.0)
		}
	}
}

func TestEstimate_SumsContributions(t *testing.T) {
	dets := []Detection{
		{Class: "scratch", Confidence: 0.5},
		{Class: "dent", Confidence: 0.8},
	}
	a, b := Contribution(dets[0]), Contribution(dets[1])
	got := Estimate(dets)
	assert.InDelta(t, a.Min+b.Min, got.Min, 1e-9)
	assert.InDelta(t, a.Max+b.Max, got.Max, 1e-9)
	assert.LessOrEqual(t, got.Min, got.Max)
}

func TestCostText_UpstreamWins(t *testing.T) {
	r := &AnalysisResult{
		Detections: []Detection{{Class: "Dent", Confidence: 0.95}},
		Decision:   Decision{EstimatedCostRange: "₹1,000 – ₹2,000"},
	}
	require.Equal(t, "₹1,000 – ₹2,000", CostText(r))

	r.Decision.EstimatedCostRange = ""
	require.Equal(t, "₹2,735 - ₹7,838", CostText(r))
	require.Equal(t, "₹0 - ₹0", CostText(nil))
}
