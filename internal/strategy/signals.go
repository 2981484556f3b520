package strategy

import (
	"github.com/ducminhle1904/walkforward-backtest/internal/indicators"
)

// Signal is the per-bar trading decision.
type Signal int

const (
	SignalHold Signal = iota
	SignalBuy
	SignalSell
)

func (s Signal) String() string {
	switch s {
	case SignalBuy:
		return "BUY"
	case SignalSell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// position is the long/flat state the generator carries across bars.
type position int

const (
	flat position = iota
	long
)

// GenerateSignals walks the frame with a Flat/Long state machine and emits
// exactly one signal per bar:
//
//   - Buy, only while flat: the short SMA crosses above the long SMA between
//     the previous and current bar, and, when the RSI filter is enabled, the
//     current RSI sits inside [RSILower, RSIUpper].
//   - Sell, only while long: the short SMA crosses below the long SMA, or the
//     RSI filter is enabled and RSI exceeds RSIUpper (overbought exit).
//   - Hold everywhere else. Bars with undefined inputs always hold.
func GenerateSignals(frame *indicators.Frame, p Params) []Signal {
	signals := make([]Signal, frame.Len())
	state := flat

	for i := 1; i < frame.Len(); i++ {
		prevShort, prevLong := frame.SMAShort[i-1], frame.SMALong[i-1]
		curShort, curLong := frame.SMAShort[i], frame.SMALong[i]
		if !prevShort.Defined || !prevLong.Defined || !curShort.Defined || !curLong.Defined {
			continue
		}

		rsi := frame.RSI[i]

		switch state {
		case flat:
			crossedUp := prevShort.Float64 <= prevLong.Float64 && curShort.Float64 > curLong.Float64
			if !crossedUp {
				continue
			}
			if p.RSIFilter && (!rsi.Defined || rsi.Float64 < p.RSILower || rsi.Float64 > p.RSIUpper) {
				continue
			}
			signals[i] = SignalBuy
			state = long

		case long:
			crossedDown := prevShort.Float64 >= prevLong.Float64 && curShort.Float64 < curLong.Float64
			overbought := p.RSIFilter && rsi.Defined && rsi.Float64 > p.RSIUpper
			if crossedDown || overbought {
				signals[i] = SignalSell
				state = flat
			}
		}
	}
	return signals
}
