package validation

import (
	"errors"
	"fmt"
	"log"
	"math"
	"runtime"
	"sync"
	"time"

	"github.com/ducminhle1904/walkforward-backtest/internal/backtest"
	"github.com/ducminhle1904/walkforward-backtest/internal/monitoring"
	"github.com/ducminhle1904/walkforward-backtest/internal/strategy"
	"github.com/ducminhle1904/walkforward-backtest/pkg/config"
	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// WindowResult is the outcome of one walk-forward window. Failed windows
// carry a reason and are skipped when compounding; Degraded windows ran on
// the fallback parameter set. Returns are in percent.
type WindowResult struct {
	Index  int
	Params strategy.Params

	Failed     bool
	FailReason string
	Degraded   bool

	TrainMetrics backtest.PerformanceMetrics
	TestMetrics  backtest.PerformanceMetrics
	TestTrades   []backtest.Trade
	TestEquity   []backtest.EquityPoint

	TestReturn      float64
	BenchmarkReturn float64
	ExcessReturn    float64

	TrainStart time.Time
	TrainEnd   time.Time
	TestStart  time.Time
	TestEnd    time.Time
}

// Summary aggregates an entire walk-forward run. CumulativeReturn compounds
// the successful out-of-sample returns in window order, in percent.
// EquityCurve and Trades concatenate the test segments into one
// out-of-sample track record.
type Summary struct {
	Results          []WindowResult
	CumulativeReturn float64

	SuccessfulWindows int
	FailedWindows     int
	DegradedWindows   int

	AvgTestReturn      float64
	StdTestReturn      float64
	AvgBenchmarkReturn float64
	AvgExcessReturn    float64
	BestWindow         int // index of the best window by excess return, -1 when none

	EquityCurve []backtest.EquityPoint
	Trades      []backtest.Trade
}

// Runner orchestrates a walk-forward run: split, optimize per window, test
// out-of-sample, benchmark, and compound. Windows are computed concurrently
// but collected by index, so compounding always follows temporal order.
type Runner struct {
	cfg *config.Config
}

// NewRunner creates a runner for the given configuration.
func NewRunner(cfg *config.Config) *Runner {
	return &Runner{cfg: cfg}
}

// Run executes the full walk-forward protocol over the bar series. An empty
// or unsorted series is the only hard error; individual window failures are
// recorded in the summary and never abort the run. A history too short for
// even one train+test window yields an empty summary.
func (r *Runner) Run(data []types.OHLCV) (*Summary, error) {
	started := time.Now()

	if len(data) == 0 {
		return nil, errors.New("validation: empty price series")
	}
	if err := types.ValidateSeries(data); err != nil {
		return nil, fmt.Errorf("validation: %w", err)
	}

	windows := CreateWindows(data, r.cfg.TrainWindowBars, r.cfg.TestWindowBars)
	log.Printf("🔄 Walk-forward: %d bars → %d windows (train=%d test=%d)",
		len(data), len(windows), r.cfg.TrainWindowBars, r.cfg.TestWindowBars)

	sim := backtest.SimulationConfig{
		InitialCapital:   r.cfg.InitialCapital,
		SlippagePips:     r.cfg.SpreadPips + r.cfg.SlippagePips,
		PositionFraction: r.cfg.PositionFraction,
	}
	optimizer := backtest.NewOptimizer(sim, r.cfg.Objective, r.cfg.VaRConfidence, r.cfg.Workers)
	grid := r.buildGrid()

	results := make([]WindowResult, len(windows))

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for _, w := range windows {
		wg.Add(1)
		go func(w Window) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()
			results[w.Index] = r.processWindow(w, optimizer, sim, grid)
		}(w)
	}
	wg.Wait()

	summary := r.finalize(results)
	monitoring.ObserveRunDuration(time.Since(started))

	log.Printf("✅ Walk-forward complete: %d ok, %d failed, %d degraded, cumulative %.2f%%",
		summary.SuccessfulWindows, summary.FailedWindows, summary.DegradedWindows, summary.CumulativeReturn)
	return summary, nil
}

// buildGrid maps the configured grid onto the optimizer's search space,
// falling back to the configured filter bounds when the RSI dimensions are
// not listed.
func (r *Runner) buildGrid() backtest.Grid {
	grid := backtest.Grid{
		SMAShort:  r.cfg.Grid.SMAShort,
		SMALong:   r.cfg.Grid.SMALong,
		RSIPeriod: r.cfg.Grid.RSIPeriod,
		RSILower:  r.cfg.Grid.RSILower,
		RSIUpper:  r.cfg.Grid.RSIUpper,
	}
	if r.cfg.RSIFilter.Enabled {
		if len(grid.RSILower) == 0 {
			grid.RSILower = []float64{r.cfg.RSIFilter.Lower}
		}
		if len(grid.RSIUpper) == 0 {
			grid.RSIUpper = []float64{r.cfg.RSIFilter.Upper}
		}
	}
	return grid
}

// processWindow optimizes on the train slice and replays the winner
// out-of-sample. Any panic or error is contained in the result; one bad
// window never aborts the run.
func (r *Runner) processWindow(w Window, optimizer *backtest.Optimizer, sim backtest.SimulationConfig, grid backtest.Grid) (res WindowResult) {
	res = WindowResult{
		Index:      w.Index,
		TrainStart: w.TrainStart,
		TrainEnd:   w.TrainEnd,
		TestStart:  w.TestStart,
		TestEnd:    w.TestEnd,
	}

	defer func() {
		if p := recover(); p != nil {
			res.Failed = true
			res.FailReason = fmt.Sprintf("panic: %v", p)
		}
		monitoring.RecordWindow(res.Failed, res.Degraded)
	}()

	outcome := optimizer.Optimize(w.Train, grid, r.cfg.RSIFilter.Enabled)
	monitoring.RecordCandidateEvaluations(outcome.Evaluated)

	res.Params = outcome.Params
	res.Degraded = outcome.Degraded
	res.TrainMetrics = outcome.Metrics

	testResult, testMetrics, err := backtest.Simulate(w.Test, outcome.Params, sim, r.cfg.VaRConfidence)
	if err != nil {
		res.Failed = true
		res.FailReason = err.Error()
		return res
	}

	res.TestMetrics = testMetrics
	res.TestTrades = testResult.Trades
	res.TestEquity = testResult.EquityCurve
	res.TestReturn = testMetrics.TotalReturn * 100
	res.BenchmarkReturn = buyAndHoldReturn(w.Test)
	res.ExcessReturn = res.TestReturn - res.BenchmarkReturn

	log.Printf("📊 Window %d: %s → train %s, test %.2f%% vs benchmark %.2f%% (%d trades)",
		w.Index+1, outcome.Params, w.TrainStart.Format("2006-01-02"),
		res.TestReturn, res.BenchmarkReturn, len(res.TestTrades))
	return res
}

// finalize compounds the successful windows in index order and derives the
// aggregate statistics and the concatenated out-of-sample track record.
func (r *Runner) finalize(results []WindowResult) *Summary {
	s := &Summary{
		Results:    results,
		BestWindow: -1,
	}

	compound := 1.0
	capital := r.cfg.InitialCapital
	var testReturns, benchReturns, excessReturns []float64
	bestExcess := math.Inf(-1)

	for _, res := range results {
		if res.Failed {
			s.FailedWindows++
			continue
		}
		s.SuccessfulWindows++
		if res.Degraded {
			s.DegradedWindows++
		}

		// Scale this segment's curve so the concatenated track record
		// carries the compounded capital forward.
		scale := capital / r.cfg.InitialCapital
		for _, p := range res.TestEquity {
			s.EquityCurve = append(s.EquityCurve, backtest.EquityPoint{
				Timestamp: p.Timestamp,
				Equity:    p.Equity * scale,
			})
		}
		s.Trades = append(s.Trades, res.TestTrades...)

		compound *= 1 + res.TestReturn/100
		capital = r.cfg.InitialCapital * compound

		testReturns = append(testReturns, res.TestReturn)
		benchReturns = append(benchReturns, res.BenchmarkReturn)
		excessReturns = append(excessReturns, res.ExcessReturn)
		if res.ExcessReturn > bestExcess {
			bestExcess = res.ExcessReturn
			s.BestWindow = res.Index
		}
	}

	if s.SuccessfulWindows > 0 {
		s.CumulativeReturn = (compound - 1) * 100
		s.AvgTestReturn = avg(testReturns)
		s.StdTestReturn = stdDev(testReturns)
		s.AvgBenchmarkReturn = avg(benchReturns)
		s.AvgExcessReturn = avg(excessReturns)
	}
	return s
}

// buyAndHoldReturn is the benchmark return over a slice, in percent.
func buyAndHoldReturn(data []types.OHLCV) float64 {
	if len(data) == 0 || data[0].Close == 0 {
		return 0
	}
	return (data[len(data)-1].Close/data[0].Close - 1) * 100
}

func avg(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func stdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	a := avg(values)
	sumSquares := 0.0
	for _, v := range values {
		diff := v - a
		sumSquares += diff * diff
	}
	return math.Sqrt(sumSquares / float64(len(values)-1))
}
