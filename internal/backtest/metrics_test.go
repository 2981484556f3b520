package backtest

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func curveFromEquities(equities []float64) []EquityPoint {
	curve := make([]EquityPoint, len(equities))
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, e := range equities {
		curve[i] = EquityPoint{Timestamp: start.AddDate(0, 0, i), Equity: e}
	}
	return curve
}

func tradesFromReturns(returns []float64) []Trade {
	trades := make([]Trade, len(returns))
	for i, r := range returns {
		trades[i] = Trade{ReturnPct: r}
	}
	return trades
}

// TestComputeMetrics_EmptyInputs tests that degenerate inputs still populate every field
func TestComputeMetrics_EmptyInputs(t *testing.T) {
	m := ComputeMetrics(nil, nil, 1000, 0.05)

	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.AnnualizedReturn)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.SortinoRatio)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.True(t, math.IsNaN(m.CalmarRatio))
	assert.Equal(t, 0.0, m.WinRate)
	assert.Equal(t, 0.0, m.ProfitFactor)
	assert.Equal(t, 0, m.MaxConsecutiveLosses)
	assert.Equal(t, 0, m.TotalTrades)
}

// TestComputeMetrics_ConstantEquity tests the zero-volatility conventions
func TestComputeMetrics_ConstantEquity(t *testing.T) {
	equities := make([]float64, 30)
	for i := range equities {
		equities[i] = 1000
	}

	m := ComputeMetrics(curveFromEquities(equities), nil, 1000, 0.05)

	assert.Equal(t, 0.0, m.TotalReturn)
	assert.Equal(t, 0.0, m.Volatility)
	assert.Equal(t, 0.0, m.SharpeRatio)
	assert.Equal(t, 0.0, m.DownsideVolatility)
	assert.Equal(t, 0.0, m.SortinoRatio)
	assert.Equal(t, 0.0, m.MaxDrawdown)
	assert.True(t, math.IsNaN(m.CalmarRatio))
}

// TestComputeMetrics_TotalReturn tests the end-to-end return against capital
func TestComputeMetrics_TotalReturn(t *testing.T) {
	m := ComputeMetrics(curveFromEquities([]float64{1000, 1100, 1210}), nil, 1000, 0.05)
	assert.InDelta(t, 0.21, m.TotalReturn, 1e-9)
}

// TestComputeMetrics_Annualization tests the geometric annualization exponent
func TestComputeMetrics_Annualization(t *testing.T) {
	// Two periodic returns, 10% total.
	m := ComputeMetrics(curveFromEquities([]float64{1000, 1050, 1100}), nil, 1000, 0.05)

	expected := math.Pow(1.10, 252.0/2.0) - 1
	assert.InDelta(t, expected, m.AnnualizedReturn, 1e-9)
}

// TestMaxDrawdown_PeakToTrough tests the deepest decline from a running peak
func TestMaxDrawdown_PeakToTrough(t *testing.T) {
	dd := maxDrawdown(curveFromEquities([]float64{100, 120, 90, 110, 80}))
	assert.InDelta(t, (80.0-120.0)/120.0, dd, 1e-9)
}

// TestMaxDrawdown_MonotonicRise tests that a rising curve has zero drawdown
func TestMaxDrawdown_MonotonicRise(t *testing.T) {
	dd := maxDrawdown(curveFromEquities([]float64{100, 110, 120, 130}))
	assert.Equal(t, 0.0, dd)
}

// TestTradeStats_WinRateAndProfitFactor tests the per-trade statistics
func TestTradeStats_WinRateAndProfitFactor(t *testing.T) {
	winRate, profitFactor := tradeStats(tradesFromReturns([]float64{10, -5, 20, -5}))

	assert.InDelta(t, 0.5, winRate, 1e-9)
	assert.InDelta(t, 3.0, profitFactor, 1e-9) // mean win 15 vs mean loss 5
}

// TestTradeStats_NoLosses tests the profit factor convention without losses
func TestTradeStats_NoLosses(t *testing.T) {
	winRate, profitFactor := tradeStats(tradesFromReturns([]float64{10, 5}))

	assert.Equal(t, 1.0, winRate)
	assert.Equal(t, 0.0, profitFactor)
}

// TestMaxConsecutiveLosses_Runs tests the longest losing streak
func TestMaxConsecutiveLosses_Runs(t *testing.T) {
	streak := maxConsecutiveLosses(tradesFromReturns([]float64{-1, -1, 2, -1, -1, -1, 3}))
	assert.Equal(t, 3, streak)

	assert.Equal(t, 0, maxConsecutiveLosses(nil))
	assert.Equal(t, 0, maxConsecutiveLosses(tradesFromReturns([]float64{1, 2, 3})))
}

// TestPercentile_LinearInterpolation tests the interpolated rank convention
func TestPercentile_LinearInterpolation(t *testing.T) {
	values := []float64{-0.05, -0.02, 0.01, 0.02, 0.04}

	assert.InDelta(t, -0.044, percentile(values, 0.05), 1e-9)
	assert.InDelta(t, -0.05, percentile(values, 0.0), 1e-9)
	assert.InDelta(t, 0.04, percentile(values, 1.0), 1e-9)
	assert.InDelta(t, 0.01, percentile(values, 0.5), 1e-9)
}

// TestTailMean_AtOrBelowThreshold tests the expected shortfall helper
func TestTailMean_AtOrBelowThreshold(t *testing.T) {
	values := []float64{-0.05, -0.02, 0.01, 0.02, 0.04}
	assert.InDelta(t, -0.035, tailMean(values, -0.02), 1e-9)
}

// TestComputeMetrics_VaRPopulated tests that tail risk fields come out of the curve
func TestComputeMetrics_VaRPopulated(t *testing.T) {
	m := ComputeMetrics(curveFromEquities([]float64{100, 95, 99, 104, 100, 106}), nil, 100, 0.05)

	assert.Less(t, m.ValueAtRisk, 0.0)
	assert.LessOrEqual(t, m.ConditionalVaR, m.ValueAtRisk)
}

// TestSampleStdDev tests the n-1 denominator and the short-input convention
func TestSampleStdDev(t *testing.T) {
	assert.InDelta(t, 1.0, sampleStdDev([]float64{1, 2, 3}), 1e-9)
	assert.Equal(t, 0.0, sampleStdDev([]float64{5}))
	assert.Equal(t, 0.0, sampleStdDev(nil))
}

// TestObjectiveValue_Lookup tests the metric name mapping
func TestObjectiveValue_Lookup(t *testing.T) {
	m := PerformanceMetrics{SharpeRatio: 1.5, TotalReturn: 0.3, SortinoRatio: 2.0}

	v, ok := m.ObjectiveValue("sharpe_ratio")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = m.ObjectiveValue("")
	require.True(t, ok)
	assert.Equal(t, 1.5, v)

	v, ok = m.ObjectiveValue("total_return")
	require.True(t, ok)
	assert.Equal(t, 0.3, v)

	_, ok = m.ObjectiveValue("nonsense")
	assert.False(t, ok)
}
