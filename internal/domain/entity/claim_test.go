package entity

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAssessClaim_Empty(t *testing.T) {
	d := AssessClaim(nil)
	require.Equal(t, "none", d.FinalDamage)
	require.False(t, d.ClaimApproved)
	require.Empty(t, d.EstimatedCostRange)
}

func TestAssessClaim_SingleDentHighConfidence(t *testing.T) {
	d := AssessClaim([]Detection{{Class: "dent", Confidence: 0.95}})
	require.True(t, d.ClaimApproved)
	require.Equal(t, "dent", d.FinalDamage)
	require.Equal(t, 2, d.SeverityLevel)
	require.Equal(t, 0.95, d.Confidence)
	require.Equal(t, 1, d.DamageCount)
	require.Empty(t, d.EstimatedCostRange)
}

func TestAssessClaim_TwoScratchesNotApproved(t *testing.T) {
	d := AssessClaim([]Detection{
		{Class: "scratch", Confidence: 0.6},
		{Class: "scratch", Confidence: 0.4},
	})
	require.False(t, d.ClaimApproved)
	require.Equal(t, "scratch", d.FinalDamage)
	require.Equal(t, 0.5, d.Confidence)
}

func TestAssessClaim_HighestRankWins(t *testing.T) {
	d := AssessClaim([]Detection{
		{Class: "scratch", Confidence: 0.7},
		{Class: "Broken", Confidence: 0.7},
		{Class: "dent", Confidence: 0.7},
	})
	require.Equal(t, "Broken", d.FinalDamage)
	require.Equal(t, 3, d.SeverityLevel)
	require.True(t, d.ClaimApproved)
}

func TestAssessClaim_UnknownClassNotApproved(t *testing.T) {
	d := AssessClaim([]Detection{{Class: "hail damage", Confidence: 0.6}})
	require.False(t, d.ClaimApproved)
	require.Equal(t, "hail damage", d.FinalDamage)
	require.Equal(t, 0, d.SeverityLevel)
}

func TestWithDecision_CostFallsBackToEstimate(t *testing.T) {
	r := &AnalysisResult{Detections: []Detection{
		{Class: "Dent", Confidence: 0.95, Box: BoundingBox{X1: 0, Y1: 0, X2: 10, Y2: 10}},
	}}

	filled := r.WithDecision()
	require.Equal(t, "Dent", filled.Decision.FinalDamage)
	require.True(t, filled.Decision.ClaimApproved)
	require.Empty(t, filled.Decision.EstimatedCostRange)
	require.Equal(t, "₹2,735 - ₹7,838", CostText(filled))
}
