package strategy

import (
	"fmt"

	"github.com/ducminhle1904/walkforward-backtest/internal/indicators"
)

// Params is one immutable set of strategy parameters: the SMA crossover
// periods plus an optional RSI filter. When RSIFilter is false the RSI
// bounds are ignored on both entry and exit.
type Params struct {
	SMAShort  int
	SMALong   int
	RSIPeriod int
	RSILower  float64
	RSIUpper  float64
	RSIFilter bool
}

// DefaultParams is the designated fallback when optimization cannot produce
// a winner (empty grid, degenerate data).
func DefaultParams() Params {
	return Params{
		SMAShort:  20,
		SMALong:   50,
		RSIPeriod: 14,
		RSILower:  30,
		RSIUpper:  70,
	}
}

// Validate rejects parameter sets that can never produce a crossover.
func (p Params) Validate() error {
	if p.SMAShort <= 0 || p.SMALong <= 0 || p.RSIPeriod <= 0 {
		return fmt.Errorf("strategy: periods must be positive, got %s", p)
	}
	if p.SMAShort >= p.SMALong {
		return fmt.Errorf("strategy: short SMA period %d must be below long %d", p.SMAShort, p.SMALong)
	}
	if p.RSIFilter && p.RSILower >= p.RSIUpper {
		return fmt.Errorf("strategy: RSI lower bound %.1f must be below upper %.1f", p.RSILower, p.RSIUpper)
	}
	return nil
}

// FramePeriods maps the parameter set onto the indicator windows it needs.
func (p Params) FramePeriods() indicators.FramePeriods {
	return indicators.FramePeriods{
		SMAShort:  p.SMAShort,
		SMALong:   p.SMALong,
		RSIPeriod: p.RSIPeriod,
	}
}

func (p Params) String() string {
	if p.RSIFilter {
		return fmt.Sprintf("SMA(%d,%d) RSI(%d)[%.0f,%.0f]", p.SMAShort, p.SMALong, p.RSIPeriod, p.RSILower, p.RSIUpper)
	}
	return fmt.Sprintf("SMA(%d,%d)", p.SMAShort, p.SMALong)
}
