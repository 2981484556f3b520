package indicators

import (
	"errors"

	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// FramePeriods selects the window lengths for the parameterized columns of a
// Frame. MACD and Bollinger settings are fixed at their standard values.
type FramePeriods struct {
	SMAShort  int
	SMALong   int
	RSIPeriod int
}

// Frame is a bar series extended with derived indicator columns. All columns
// are aligned to Bars; warm-up entries are undefined. A Frame is read-only
// once built.
type Frame struct {
	Bars []types.OHLCV

	SMAShort    []Value
	SMALong     []Value
	RSI         []Value
	MACDLine    []Value
	MACDSignal  []Value
	MACDHist    []Value
	BBMiddle    []Value
	BBUpper     []Value
	BBLower     []Value
	DailyReturn []Value
}

// ComputeFrame derives every indicator column from the bar series. It never
// fails on short history; columns simply stay undefined where the relevant
// window does not fit yet.
func ComputeFrame(data []types.OHLCV, periods FramePeriods) (*Frame, error) {
	if len(data) == 0 {
		return nil, errors.New("indicators: empty price series")
	}
	if periods.SMAShort <= 0 || periods.SMALong <= 0 || periods.RSIPeriod <= 0 {
		return nil, errors.New("indicators: periods must be positive")
	}

	closes := types.Closes(data)

	f := &Frame{
		Bars:     data,
		SMAShort: SMASeries(closes, periods.SMAShort),
		SMALong:  SMASeries(closes, periods.SMALong),
		RSI:      RSISeries(closes, periods.RSIPeriod),
	}
	f.MACDLine, f.MACDSignal, f.MACDHist = MACDSeries(closes)
	f.BBMiddle, f.BBUpper, f.BBLower = BollingerSeries(closes, BollingerPeriod, BollingerMultiplier)

	f.DailyReturn = undefinedSeries(len(closes))
	for i := 1; i < len(closes); i++ {
		if closes[i-1] != 0 {
			f.DailyReturn[i] = Def(closes[i]/closes[i-1] - 1)
		}
	}
	return f, nil
}

// Len returns the number of bars in the frame.
func (f *Frame) Len() int {
	return len(f.Bars)
}
