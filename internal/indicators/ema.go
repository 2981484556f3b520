package indicators

// EMA is a recursively weighted Exponential Moving Average, seeded with the
// first value it sees.
type EMA struct {
	alpha       float64
	lastValue   float64
	initialized bool
}

// NewEMA creates an EMA with the standard alpha = 2/(period+1) weighting.
func NewEMA(period int) *EMA {
	return &EMA{
		alpha: 2.0 / float64(period+1),
	}
}

// Update feeds the next value and returns the current EMA.
func (e *EMA) Update(value float64) float64 {
	if !e.initialized {
		e.lastValue = value
		e.initialized = true
	} else {
		e.lastValue = (value * e.alpha) + (e.lastValue * (1 - e.alpha))
	}
	return e.lastValue
}

// EMASeries computes the EMA for every bar. Because the average is seeded
// with the first value, every index is defined.
func EMASeries(values []float64, period int) []Value {
	out := undefinedSeries(len(values))
	ema := NewEMA(period)
	for i, v := range values {
		out[i] = Def(ema.Update(v))
	}
	return out
}
