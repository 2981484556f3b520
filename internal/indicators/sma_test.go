package indicators

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSMASeries_WarmupUndefined tests that bars without a full window stay undefined
func TestSMASeries_WarmupUndefined(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 12, 11, 10, 9, 10, 11}
	sma := SMASeries(closes, 3)

	require.Len(t, sma, len(closes))
	assert.False(t, sma[0].Defined)
	assert.False(t, sma[1].Defined)
	assert.True(t, sma[2].Defined)
}

// TestSMASeries_KnownValues tests SMA values against a hand-computed series
func TestSMASeries_KnownValues(t *testing.T) {
	closes := []float64{10, 11, 12, 13, 12, 11, 10, 9, 10, 11}
	sma := SMASeries(closes, 3)

	assert.InDelta(t, 11.0, sma[2].Float64, 1e-9)
	assert.InDelta(t, 12.0, sma[3].Float64, 1e-9)
	assert.InDelta(t, 10.0, sma[9].Float64, 1e-9)
}

// TestSMASeries_PeriodLongerThanData tests that a too-long window leaves everything undefined
func TestSMASeries_PeriodLongerThanData(t *testing.T) {
	sma := SMASeries([]float64{10, 11, 12}, 5)

	require.Len(t, sma, 3)
	for i, v := range sma {
		assert.False(t, v.Defined, "index %d should be undefined", i)
	}
}

// TestSMASeries_PeriodOne tests the degenerate single-bar window
func TestSMASeries_PeriodOne(t *testing.T) {
	closes := []float64{10, 11, 12}
	sma := SMASeries(closes, 1)

	for i, v := range sma {
		require.True(t, v.Defined)
		assert.Equal(t, closes[i], v.Float64)
	}
}

// TestSMASeries_InvalidPeriod tests that non-positive periods produce only undefined values
func TestSMASeries_InvalidPeriod(t *testing.T) {
	sma := SMASeries([]float64{10, 11, 12}, 0)

	require.Len(t, sma, 3)
	for _, v := range sma {
		assert.False(t, v.Defined)
	}
}
