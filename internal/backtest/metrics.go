package backtest

import (
	"math"
	"sort"
)

// TradingPeriodsPerYear is the annualization factor for daily bars.
const TradingPeriodsPerYear = 252

// DefaultVaRConfidence is the percentile used for Value-at-Risk when the
// caller does not configure one.
const DefaultVaRConfidence = 0.05

// PerformanceMetrics is the fixed set of named statistics derived from a
// simulation. Every field is always populated: counts and rates default to
// 0.0, ratios that are mathematically undefined read NaN. Returns and
// drawdowns are fractions, win rate is a fraction of trades.
type PerformanceMetrics struct {
	TotalReturn          float64
	AnnualizedReturn     float64
	Volatility           float64
	SharpeRatio          float64
	DownsideVolatility   float64
	SortinoRatio         float64
	MaxDrawdown          float64
	CalmarRatio          float64
	WinRate              float64
	ProfitFactor         float64
	ValueAtRisk          float64
	ConditionalVaR       float64
	MaxConsecutiveLosses int
	TotalTrades          int
}

// ComputeMetrics derives the full metric set from an equity curve and trade
// log. Degenerate inputs (no bars, no trades, constant equity) produce the
// documented defaults rather than an error.
func ComputeMetrics(curve []EquityPoint, trades []Trade, initialCapital, varConfidence float64) PerformanceMetrics {
	if varConfidence <= 0 || varConfidence >= 1 {
		varConfidence = DefaultVaRConfidence
	}

	m := PerformanceMetrics{
		CalmarRatio: math.NaN(),
		TotalTrades: len(trades),
	}

	returns := periodicReturns(curve)

	if len(curve) > 0 && initialCapital > 0 {
		m.TotalReturn = curve[len(curve)-1].Equity/initialCapital - 1
	}
	if len(returns) > 0 && 1+m.TotalReturn > 0 {
		m.AnnualizedReturn = math.Pow(1+m.TotalReturn, TradingPeriodsPerYear/float64(len(returns))) - 1
	}

	m.Volatility = sampleStdDev(returns) * math.Sqrt(TradingPeriodsPerYear)
	if m.Volatility > 0 {
		m.SharpeRatio = m.AnnualizedReturn / m.Volatility
	}

	var negatives []float64
	for _, r := range returns {
		if r < 0 {
			negatives = append(negatives, r)
		}
	}
	m.DownsideVolatility = sampleStdDev(negatives) * math.Sqrt(TradingPeriodsPerYear)
	if m.DownsideVolatility > 0 {
		m.SortinoRatio = m.AnnualizedReturn / m.DownsideVolatility
	}

	m.MaxDrawdown = maxDrawdown(curve)
	if m.MaxDrawdown != 0 {
		m.CalmarRatio = m.AnnualizedReturn / math.Abs(m.MaxDrawdown)
	}

	m.WinRate, m.ProfitFactor = tradeStats(trades)
	m.MaxConsecutiveLosses = maxConsecutiveLosses(trades)

	if len(returns) > 0 {
		m.ValueAtRisk = percentile(returns, varConfidence)
		m.ConditionalVaR = tailMean(returns, m.ValueAtRisk)
	}

	return m
}

// ObjectiveValue looks up a metric by its configuration name. The second
// return reports whether the name is recognized.
func (m PerformanceMetrics) ObjectiveValue(name string) (float64, bool) {
	switch name {
	case "sharpe_ratio", "sharpe", "":
		return m.SharpeRatio, true
	case "total_return":
		return m.TotalReturn, true
	case "annualized_return":
		return m.AnnualizedReturn, true
	case "sortino_ratio", "sortino":
		return m.SortinoRatio, true
	case "calmar_ratio", "calmar":
		return m.CalmarRatio, true
	case "profit_factor":
		return m.ProfitFactor, true
	case "win_rate":
		return m.WinRate, true
	default:
		return 0, false
	}
}

// periodicReturns converts an equity curve into per-bar fractional returns.
func periodicReturns(curve []EquityPoint) []float64 {
	if len(curve) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(curve)-1)
	for i := 1; i < len(curve); i++ {
		if curve[i-1].Equity > 0 {
			returns = append(returns, curve[i].Equity/curve[i-1].Equity-1)
		}
	}
	return returns
}

// maxDrawdown is the deepest decline from a running equity peak, as a
// non-positive fraction.
func maxDrawdown(curve []EquityPoint) float64 {
	maxDD := 0.0
	peak := math.Inf(-1)
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if peak > 0 {
			dd := (p.Equity - peak) / peak
			if dd < maxDD {
				maxDD = dd
			}
		}
	}
	return maxDD
}

func tradeStats(trades []Trade) (winRate, profitFactor float64) {
	if len(trades) == 0 {
		return 0, 0
	}

	var wins, losses int
	var winSum, lossSum float64
	for _, t := range trades {
		if t.ReturnPct > 0 {
			wins++
			winSum += t.ReturnPct
		} else if t.ReturnPct < 0 {
			losses++
			lossSum += t.ReturnPct
		}
	}

	winRate = float64(wins) / float64(len(trades))
	if losses > 0 && lossSum != 0 {
		meanWin := 0.0
		if wins > 0 {
			meanWin = winSum / float64(wins)
		}
		meanLoss := lossSum / float64(losses)
		profitFactor = math.Abs(meanWin / meanLoss)
	}
	return winRate, profitFactor
}

func maxConsecutiveLosses(trades []Trade) int {
	maxRun, run := 0, 0
	for _, t := range trades {
		if t.ReturnPct < 0 {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 0
		}
	}
	return maxRun
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev returns the sample (n-1) standard deviation, 0 when fewer
// than two observations exist.
func sampleStdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	avg := mean(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - avg
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}

// percentile is the linearly interpolated q-th percentile, q in (0,1).
func percentile(values []float64, q float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	rank := q * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// tailMean averages the observations at or below the threshold.
func tailMean(values []float64, threshold float64) float64 {
	var tail []float64
	for _, v := range values {
		if v <= threshold {
			tail = append(tail, v)
		}
	}
	return mean(tail)
}
