package backtest

import (
	"context"
	"runtime"
	"sync"

	"github.com/ducminhle1904/walkforward-backtest/internal/strategy"
)

// CandidateJob is one parameter set queued for evaluation. Index preserves
// the candidate's position in the grid so ranking stays deterministic no
// matter which worker finishes first.
type CandidateJob struct {
	Index  int
	Params strategy.Params
}

// CandidateResult is the outcome of evaluating one candidate. A non-nil
// Error excludes the candidate from ranking.
type CandidateResult struct {
	Index   int
	Params  strategy.Params
	Metrics PerformanceMetrics
	Error   error
}

// EvalFunc evaluates a single candidate against the training slice.
type EvalFunc func(strategy.Params) (PerformanceMetrics, error)

// WorkerPool fans candidate evaluations out over a fixed set of goroutines.
// Each evaluation only reads the shared training slice and returns an
// immutable result, so no locking is needed beyond the channels.
type WorkerPool struct {
	workerCount int
	jobQueue    chan CandidateJob
	resultQueue chan CandidateResult
	eval        EvalFunc
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewWorkerPool creates a pool; workerCount <= 0 uses one worker per CPU.
func NewWorkerPool(workerCount, jobBufferSize int, eval EvalFunc) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan CandidateJob, jobBufferSize),
		resultQueue: make(chan CandidateResult, jobBufferSize),
		eval:        eval,
		ctx:         ctx,
		cancel:      cancel,
	}
}

// Start launches the workers.
func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop drains the pool gracefully.
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// Submit queues a candidate for evaluation.
func (wp *WorkerPool) Submit(job CandidateJob) error {
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

// Results exposes the completed-evaluation channel.
func (wp *WorkerPool) Results() <-chan CandidateResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobQueue:
			if !ok {
				return
			}

			result := CandidateResult{Index: job.Index, Params: job.Params}
			result.Metrics, result.Error = wp.eval(job.Params)

			select {
			case wp.resultQueue <- result:
			case <-wp.ctx.Done():
				return
			}

		case <-wp.ctx.Done():
			return
		}
	}
}
