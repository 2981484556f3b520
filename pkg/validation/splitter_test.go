package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// generateTrendingBars produces daily bars with a rising, oscillating close
// so crossover strategies trade on them.
func generateTrendingBars(n int) []types.OHLCV {
	bars := make([]types.OHLCV, n)
	start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		c := 100 + 0.05*float64(i) + 10*math.Sin(float64(i)/8)
		bars[i] = types.OHLCV{
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
			Timestamp: start.AddDate(0, 0, i),
		}
	}
	return bars
}

// TestCreateWindows_Count tests the number of windows for an exact fit
func TestCreateWindows_Count(t *testing.T) {
	windows := CreateWindows(generateTrendingBars(120), 60, 20)
	assert.Len(t, windows, 3)
}

// TestCreateWindows_TrailingPartialExcluded tests that leftover bars never form a window
func TestCreateWindows_TrailingPartialExcluded(t *testing.T) {
	windows := CreateWindows(generateTrendingBars(130), 60, 20)
	assert.Len(t, windows, 3)
}

// TestCreateWindows_InsufficientData tests that a short series yields no windows
func TestCreateWindows_InsufficientData(t *testing.T) {
	assert.Empty(t, CreateWindows(generateTrendingBars(79), 60, 20))
	assert.Empty(t, CreateWindows(nil, 60, 20))
}

// TestCreateWindows_InvalidLengths tests that non-positive window sizes yield nothing
func TestCreateWindows_InvalidLengths(t *testing.T) {
	data := generateTrendingBars(120)
	assert.Empty(t, CreateWindows(data, 0, 20))
	assert.Empty(t, CreateWindows(data, 60, 0))
}

// TestCreateWindows_SegmentsContiguous tests segment lengths, order and adjacency
func TestCreateWindows_SegmentsContiguous(t *testing.T) {
	data := generateTrendingBars(120)
	windows := CreateWindows(data, 60, 20)
	require.Len(t, windows, 3)

	for i, w := range windows {
		assert.Equal(t, i, w.Index)
		assert.Len(t, w.Train, 60)
		assert.Len(t, w.Test, 20)

		// The test segment starts right after the train segment.
		assert.True(t, w.TestStart.After(w.TrainEnd))
		assert.Equal(t, w.Train[len(w.Train)-1].Timestamp, w.TrainEnd)
		assert.Equal(t, w.Test[0].Timestamp, w.TestStart)
	}

	// Consecutive test segments tile the evaluation period.
	assert.Equal(t, data[60].Timestamp, windows[0].TestStart)
	assert.Equal(t, data[80].Timestamp, windows[1].TestStart)
	assert.Equal(t, data[100].Timestamp, windows[2].TestStart)
}

// TestCreateWindows_TrainSlidesByTestLength tests the step size between windows
func TestCreateWindows_TrainSlidesByTestLength(t *testing.T) {
	data := generateTrendingBars(120)
	windows := CreateWindows(data, 60, 20)
	require.Len(t, windows, 3)

	assert.Equal(t, data[0].Timestamp, windows[0].TrainStart)
	assert.Equal(t, data[20].Timestamp, windows[1].TrainStart)
	assert.Equal(t, data[40].Timestamp, windows[2].TrainStart)
}
