package backtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/ducminhle1904/walkforward-backtest/internal/strategy"
	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// SimulationConfig controls a single simulation run.
type SimulationConfig struct {
	InitialCapital   float64
	SlippagePips     float64 // combined spread+slippage, in price basis points per fill
	PositionFraction float64 // fraction of current equity committed on entry
}

// Trade is one completed round trip. Created when a position closes,
// immutable afterwards.
type Trade struct {
	EntryTime      time.Time
	ExitTime       time.Time
	EntryPrice     float64
	ExitPrice      float64
	ReturnPct      float64
	PortfolioAfter float64
}

// EquityPoint is the portfolio value marked to market at one bar's close.
type EquityPoint struct {
	Timestamp time.Time
	Equity    float64
}

// Result is the output of one simulation: an equity point per input bar and
// the completed trade log.
type Result struct {
	EquityCurve []EquityPoint
	Trades      []Trade
	FinalEquity float64
}

// Engine replays a signal sequence against a bar series. A signal generated
// on bar t's close executes at bar t+1's open; a signal on the last bar has
// no next open and is dropped. This one-bar lag is what keeps the simulation
// free of lookahead.
type Engine struct {
	cfg SimulationConfig
}

// NewEngine creates a simulation engine. A non-positive position fraction
// defaults to fully invested.
func NewEngine(cfg SimulationConfig) *Engine {
	if cfg.PositionFraction <= 0 || cfg.PositionFraction > 1 {
		cfg.PositionFraction = 1.0
	}
	return &Engine{cfg: cfg}
}

// Run simulates the signals over the bars. The signal slice must align
// one-to-one with the bar slice.
func (e *Engine) Run(data []types.OHLCV, signals []strategy.Signal) (*Result, error) {
	if len(data) == 0 {
		return nil, errors.New("backtest: empty price series")
	}
	if len(signals) != len(data) {
		return nil, fmt.Errorf("backtest: %d signals for %d bars", len(signals), len(data))
	}

	slip := e.cfg.SlippagePips / 10000.0
	cash := e.cfg.InitialCapital

	var (
		quantity  float64
		entryFill float64
		entryTime time.Time
		inMarket  bool
		pending   = strategy.SignalHold
	)

	result := &Result{
		EquityCurve: make([]EquityPoint, 0, len(data)),
	}

	for i, bar := range data {
		// Fill the signal carried over from the previous bar at this open.
		switch {
		case pending == strategy.SignalBuy && !inMarket:
			fill := bar.Open * (1 + slip)
			invest := e.cfg.PositionFraction * cash
			if fill > 0 && invest > 0 {
				quantity = invest / fill
				cash -= invest
				entryFill = fill
				entryTime = bar.Timestamp
				inMarket = true
			}

		case pending == strategy.SignalSell && inMarket:
			fill := bar.Open * (1 - slip)
			cash += quantity * fill
			result.Trades = append(result.Trades, Trade{
				EntryTime:      entryTime,
				ExitTime:       bar.Timestamp,
				EntryPrice:     entryFill,
				ExitPrice:      fill,
				ReturnPct:      (fill - entryFill) / entryFill * 100,
				PortfolioAfter: cash,
			})
			quantity = 0
			inMarket = false
		}

		pending = signals[i]

		result.EquityCurve = append(result.EquityCurve, EquityPoint{
			Timestamp: bar.Timestamp,
			Equity:    cash + quantity*bar.Close,
		})
	}

	result.FinalEquity = result.EquityCurve[len(result.EquityCurve)-1].Equity
	return result, nil
}
