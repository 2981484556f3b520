package indicators

import "math"

// Standard Bollinger settings.
const (
	BollingerPeriod     = 20
	BollingerMultiplier = 2.0
)

// BollingerSeries computes the middle band (SMA of the period) and the
// upper/lower bands at middle ± multiplier*stddev for every bar with enough
// history.
func BollingerSeries(values []float64, period int, multiplier float64) (middle, upper, lower []Value) {
	middle = SMASeries(values, period)
	upper = undefinedSeries(len(values))
	lower = undefinedSeries(len(values))

	for i := range values {
		if !middle[i].Defined {
			continue
		}
		sd := standardDeviation(values[i-period+1:i+1], middle[i].Float64)
		upper[i] = Def(middle[i].Float64 + multiplier*sd)
		lower[i] = Def(middle[i].Float64 - multiplier*sd)
	}
	return middle, upper, lower
}

// standardDeviation is the population standard deviation around the given mean.
func standardDeviation(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}
	return math.Sqrt(variance / float64(len(values)))
}
