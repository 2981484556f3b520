package indicators

// SMASeries computes the Simple Moving Average over the given period for
// every bar. The value at index t is the arithmetic mean of
// values[t-period+1..t]; indices with fewer than period bars of history
// stay undefined.
func SMASeries(values []float64, period int) []Value {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = Def(sum / float64(period))
		}
	}
	return out
}
