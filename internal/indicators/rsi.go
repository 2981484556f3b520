package indicators

// RSISeries computes the Relative Strength Index over the given period.
// The value at index t averages the gains and losses of the trailing
// period close-to-close deltas, so the first defined index is t = period.
// A bar with positive average gain and zero average loss reads 100; a bar
// where both averages are zero (flat prices) stays undefined.
func RSISeries(values []float64, period int) []Value {
	out := undefinedSeries(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		change := values[i] - values[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)
		switch {
		case avgLoss == 0 && avgGain == 0:
			// Flat window, RSI has no meaning here.
		case avgLoss == 0:
			out[i] = Def(100)
		default:
			rs := avgGain / avgLoss
			out[i] = Def(100 - 100/(1+rs))
		}
	}
	return out
}
