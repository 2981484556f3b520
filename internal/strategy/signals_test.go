package strategy

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/walkforward-backtest/internal/indicators"
	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

func frameFromCloses(t *testing.T, closes []float64, p Params) *indicators.Frame {
	t.Helper()

	bars := make([]types.OHLCV, len(closes))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range closes {
		bars[i] = types.OHLCV{
			Open:      c,
			High:      c * 1.01,
			Low:       c * 0.99,
			Close:     c,
			Volume:    1000,
			Timestamp: start.AddDate(0, 0, i),
		}
	}

	frame, err := indicators.ComputeFrame(bars, p.FramePeriods())
	require.NoError(t, err)
	return frame
}

// TestGenerateSignals_BuyOnCrossUp tests that the short SMA crossing above the long SMA buys
func TestGenerateSignals_BuyOnCrossUp(t *testing.T) {
	p := Params{SMAShort: 2, SMALong: 3, RSIPeriod: 3}
	closes := []float64{10, 9, 8, 7, 8, 10, 12, 13}
	signals := GenerateSignals(frameFromCloses(t, closes, p), p)

	require.Len(t, signals, len(closes))
	assert.Equal(t, SignalBuy, signals[5])
	for i, s := range signals {
		if i != 5 {
			assert.Equal(t, SignalHold, s, "index %d", i)
		}
	}
}

// TestGenerateSignals_SellOnCrossDown tests the full round trip through the state machine
func TestGenerateSignals_SellOnCrossDown(t *testing.T) {
	p := Params{SMAShort: 2, SMALong: 3, RSIPeriod: 3}
	closes := []float64{10, 9, 8, 7, 8, 10, 12, 13, 11, 8, 6}
	signals := GenerateSignals(frameFromCloses(t, closes, p), p)

	assert.Equal(t, SignalBuy, signals[5])
	assert.Equal(t, SignalSell, signals[9])
	for i, s := range signals {
		if i != 5 && i != 9 {
			assert.Equal(t, SignalHold, s, "index %d", i)
		}
	}
}

// TestGenerateSignals_NoBuyWhileLong tests that a held position never doubles up
func TestGenerateSignals_NoBuyWhileLong(t *testing.T) {
	p := Params{SMAShort: 2, SMALong: 3, RSIPeriod: 3}
	closes := []float64{10, 9, 8, 7, 8, 10, 12, 14, 16, 18, 20}
	signals := GenerateSignals(frameFromCloses(t, closes, p), p)

	buys := 0
	for _, s := range signals {
		if s == SignalBuy {
			buys++
		}
	}
	assert.Equal(t, 1, buys)
}

// TestGenerateSignals_WarmupHolds tests that undefined indicator bars always hold
func TestGenerateSignals_WarmupHolds(t *testing.T) {
	p := Params{SMAShort: 3, SMALong: 5, RSIPeriod: 3}
	closes := []float64{10, 9, 8, 7, 8, 10, 12, 13}
	signals := GenerateSignals(frameFromCloses(t, closes, p), p)

	// The long SMA first defines at index 4, so nothing can fire before 5.
	for i := 0; i < 5; i++ {
		assert.Equal(t, SignalHold, signals[i], "index %d", i)
	}
}

// TestGenerateSignals_RSIFilterBlocksEntry tests that an out-of-band RSI suppresses the buy
func TestGenerateSignals_RSIFilterBlocksEntry(t *testing.T) {
	p := Params{SMAShort: 2, SMALong: 3, RSIPeriod: 2, RSILower: 1, RSIUpper: 50, RSIFilter: true}
	closes := []float64{10, 9, 8, 7, 8, 10, 12, 13}
	signals := GenerateSignals(frameFromCloses(t, closes, p), p)

	// RSI(2) reads 100 on the cross-up bar, above the 50 ceiling.
	for i, s := range signals {
		assert.Equal(t, SignalHold, s, "index %d", i)
	}
}

// TestGenerateSignals_OverboughtExit tests the RSI-driven exit without a cross-down
func TestGenerateSignals_OverboughtExit(t *testing.T) {
	p := Params{SMAShort: 2, SMALong: 3, RSIPeriod: 3, RSILower: 1, RSIUpper: 80, RSIFilter: true}
	closes := []float64{10, 9, 8, 7, 8, 10, 12, 13}
	signals := GenerateSignals(frameFromCloses(t, closes, p), p)

	// RSI(3) reads 75 on the cross-up bar (inside the band) and 100 on the
	// next bar, which triggers the overbought exit.
	assert.Equal(t, SignalBuy, signals[5])
	assert.Equal(t, SignalSell, signals[6])
}

// TestSignal_String tests the display names
func TestSignal_String(t *testing.T) {
	assert.Equal(t, "BUY", SignalBuy.String())
	assert.Equal(t, "SELL", SignalSell.String())
	assert.Equal(t, "HOLD", SignalHold.String())
}
