package backtest

import (
	"fmt"
	"math"
	"sort"

	"github.com/ducminhle1904/walkforward-backtest/internal/indicators"
	"github.com/ducminhle1904/walkforward-backtest/internal/strategy"
	"github.com/ducminhle1904/walkforward-backtest/pkg/types"
)

// Grid is the finite cartesian product of candidate parameter values.
type Grid struct {
	SMAShort  []int
	SMALong   []int
	RSIPeriod []int
	RSILower  []float64
	RSIUpper  []float64
}

// Candidates expands the grid in a fixed order, keeping only combinations
// with short < long (and lower < upper when the RSI filter is on). With the
// filter off the RSI dimensions collapse to the default period, since they
// cannot influence signals.
func (g Grid) Candidates(rsiFilter bool) []strategy.Params {
	rsiPeriods := g.RSIPeriod
	rsiLowers := g.RSILower
	rsiUppers := g.RSIUpper
	if !rsiFilter || len(rsiPeriods) == 0 {
		rsiPeriods = []int{strategy.DefaultParams().RSIPeriod}
	}
	if !rsiFilter || len(rsiLowers) == 0 {
		rsiLowers = []float64{strategy.DefaultParams().RSILower}
	}
	if !rsiFilter || len(rsiUppers) == 0 {
		rsiUppers = []float64{strategy.DefaultParams().RSIUpper}
	}

	var candidates []strategy.Params
	for _, short := range g.SMAShort {
		for _, long := range g.SMALong {
			if short >= long {
				continue
			}
			for _, period := range rsiPeriods {
				for _, lower := range rsiLowers {
					for _, upper := range rsiUppers {
						if rsiFilter && lower >= upper {
							continue
						}
						candidates = append(candidates, strategy.Params{
							SMAShort:  short,
							SMALong:   long,
							RSIPeriod: period,
							RSILower:  lower,
							RSIUpper:  upper,
							RSIFilter: rsiFilter,
						})
					}
				}
			}
		}
	}
	return candidates
}

// OptimizationOutcome is the result of one grid search. Degraded marks a
// search that could not rank any candidate and fell back to the default
// parameter set.
type OptimizationOutcome struct {
	Params    strategy.Params
	Metrics   PerformanceMetrics
	Degraded  bool
	Evaluated int
	Failed    int
}

// Optimizer grid-searches strategy parameters on a training slice,
// evaluating candidates in parallel and ranking them deterministically.
type Optimizer struct {
	sim           SimulationConfig
	objective     string
	varConfidence float64
	workers       int
}

// NewOptimizer creates an optimizer. An empty objective means Sharpe ratio;
// workers <= 0 uses one worker per CPU.
func NewOptimizer(sim SimulationConfig, objective string, varConfidence float64, workers int) *Optimizer {
	return &Optimizer{
		sim:           sim,
		objective:     objective,
		varConfidence: varConfidence,
		workers:       workers,
	}
}

// Optimize evaluates every grid candidate on the training slice and returns
// the top-ranked parameter set. Candidates are ranked by the objective
// metric descending, ties broken by total return descending, then by fewer
// trades, then by grid order. Failed candidates are excluded; when nothing
// survives (or the grid is empty) the default parameters are returned with
// the Degraded flag set.
func (o *Optimizer) Optimize(data []types.OHLCV, grid Grid, rsiFilter bool) OptimizationOutcome {
	candidates := grid.Candidates(rsiFilter)
	if len(candidates) == 0 || len(data) == 0 {
		return OptimizationOutcome{Params: strategy.DefaultParams(), Degraded: true}
	}

	pool := NewWorkerPool(o.workers, len(candidates), func(p strategy.Params) (PerformanceMetrics, error) {
		return o.Evaluate(data, p)
	})
	pool.Start()

	go func() {
		for i, p := range candidates {
			if err := pool.Submit(CandidateJob{Index: i, Params: p}); err != nil {
				return
			}
		}
	}()

	results := make([]CandidateResult, 0, len(candidates))
	for i := 0; i < len(candidates); i++ {
		results = append(results, <-pool.Results())
	}
	pool.Stop()

	return o.rank(results)
}

// Evaluate runs the full indicator/signal/simulation/metrics pipeline for
// one candidate on the given slice. Panics in the numeric pipeline are
// contained and reported as a candidate failure.
func (o *Optimizer) Evaluate(data []types.OHLCV, p strategy.Params) (m PerformanceMetrics, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("candidate %s panicked: %v", p, r)
		}
	}()

	_, m, err = Simulate(data, p, o.sim, o.varConfidence)
	return m, err
}

// Simulate runs the indicator→signal→simulation→metrics pipeline for one
// parameter set on a bar slice.
func Simulate(data []types.OHLCV, p strategy.Params, sim SimulationConfig, varConfidence float64) (*Result, PerformanceMetrics, error) {
	if err := p.Validate(); err != nil {
		return nil, PerformanceMetrics{}, err
	}

	frame, err := indicators.ComputeFrame(data, p.FramePeriods())
	if err != nil {
		return nil, PerformanceMetrics{}, err
	}

	signals := strategy.GenerateSignals(frame, p)

	result, err := NewEngine(sim).Run(data, signals)
	if err != nil {
		return nil, PerformanceMetrics{}, err
	}

	metrics := ComputeMetrics(result.EquityCurve, result.Trades, sim.InitialCapital, varConfidence)
	return result, metrics, nil
}

func (o *Optimizer) rank(results []CandidateResult) OptimizationOutcome {
	survivors := make([]CandidateResult, 0, len(results))
	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
			continue
		}
		survivors = append(survivors, r)
	}

	if len(survivors) == 0 {
		return OptimizationOutcome{
			Params:    strategy.DefaultParams(),
			Degraded:  true,
			Evaluated: len(results),
			Failed:    failed,
		}
	}

	sort.Slice(survivors, func(i, j int) bool {
		a, b := survivors[i], survivors[j]
		objA, objB := o.objectiveOf(a.Metrics), o.objectiveOf(b.Metrics)
		if objA != objB {
			return objA > objB
		}
		if a.Metrics.TotalReturn != b.Metrics.TotalReturn {
			return a.Metrics.TotalReturn > b.Metrics.TotalReturn
		}
		if a.Metrics.TotalTrades != b.Metrics.TotalTrades {
			return a.Metrics.TotalTrades < b.Metrics.TotalTrades
		}
		return a.Index < b.Index
	})

	best := survivors[0]
	return OptimizationOutcome{
		Params:    best.Params,
		Metrics:   best.Metrics,
		Evaluated: len(results),
		Failed:    failed,
	}
}

// objectiveOf reads the configured objective, falling back to total return
// when the metric is undefined for the candidate (e.g. Sharpe with zero
// volatility history).
func (o *Optimizer) objectiveOf(m PerformanceMetrics) float64 {
	v, ok := m.ObjectiveValue(o.objective)
	if !ok || math.IsNaN(v) {
		return m.TotalReturn
	}
	return v
}
