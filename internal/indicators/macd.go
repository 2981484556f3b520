package indicators

// Standard MACD periods.
const (
	MACDFastPeriod   = 12
	MACDSlowPeriod   = 26
	MACDSignalPeriod = 9
)

// MACDSeries computes the MACD line (EMA12 - EMA26), its EMA9 signal line,
// and the line-minus-signal histogram for every bar. All EMAs are seeded by
// the first value, so the whole series is defined.
func MACDSeries(values []float64) (line, signal, hist []Value) {
	line = undefinedSeries(len(values))
	signal = undefinedSeries(len(values))
	hist = undefinedSeries(len(values))

	fast := NewEMA(MACDFastPeriod)
	slow := NewEMA(MACDSlowPeriod)
	sig := NewEMA(MACDSignalPeriod)

	for i, v := range values {
		l := fast.Update(v) - slow.Update(v)
		s := sig.Update(l)
		line[i] = Def(l)
		signal[i] = Def(s)
		hist[i] = Def(l - s)
	}
	return line, signal, hist
}
