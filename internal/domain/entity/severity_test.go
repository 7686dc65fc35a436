package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBandOf_Boundaries(t *testing.T) {
	cases := []struct {
		confidence float64
		want       SeverityBand
	}{
		{0, BandLow},
		{0.6, BandLow},
		{0.6999, BandLow},
		{0.70, BandMedium},
		{0.85, BandMedium},
		{0.8999, BandMedium},
		{0.90, BandHigh},
		{0.95, BandHigh},
		{1, BandHigh},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, BandOf(tc.confidence), "confidence %v", tc.confidence)
	}
}

func TestBandOf_PartitionIsMonotonic(t *testing.T) {
	prev := BandOf(0)
	for i := 0; i <= 1000; i++ {
		band := BandOf(float64(i) / 1000)
		require.GreaterOrEqual(t, int(band), int(prev))
		require.Contains(t, []SeverityBand{BandLow, BandMedium, BandHigh}, band)
		prev = band
	}
}

func TestColorOf(t *testing.T) {
	fill, stroke := ColorOf(BandHigh)
	require.Equal(t, uint8(239), fill.R)
	require.Equal(t, uint8(102), fill.A)
	require.Equal(t, uint8(204), stroke.A)
	require.Equal(t, fill.R, stroke.R)
	require.Equal(t, fill.G, stroke.G)
	require.Equal(t, fill.B, stroke.B)

	fill, _ = ColorOf(BandMedium)
	require.Equal(t, uint8(251), fill.R)
	require.Equal(t, uint8(146), fill.G)

	fill, _ = ColorOf(BandLow)
	require.Equal(t, uint8(197), fill.G)
}
