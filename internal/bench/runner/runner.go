package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/analysis"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/collector"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/engine"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// ExecutorFactory creates an independent executor for one worker. Every
// worker owns its executor (and thus its sandbox instance) exclusively, so
// trials within an operation stay serialized while operations run in
// parallel.
type ExecutorFactory func() (engine.Executor, error)

type Config struct {
	Trial       spec.TrialConfig
	Collector   collector.Config
	Analysis    analysis.Config
	Concurrency int
}

// Runner drives the full pipeline for a set of operations: sweep, collect,
// analyze. It holds no state across runs; several runners may coexist in
// one process.
type Runner struct {
	cfg         Config
	newExecutor ExecutorFactory
}

func New(cfg Config, factory ExecutorFactory) *Runner {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &Runner{cfg: cfg, newExecutor: factory}
}

// OperationOutcome is the per-operation terminal state: either a fitted
// result or the error that failed the operation. A failed operation never
// aborts its siblings.
type OperationOutcome struct {
	Spec    spec.OperationSpec
	Set     *collector.SampleSet
	Result  *analysis.OperationResult
	Elapsed time.Duration
	Err     error
}

// Result aggregates outcomes in the input operation order.
type Result struct {
	Outcomes []OperationOutcome
}

func (r *Result) Succeeded() []OperationOutcome {
	return r.filter(func(o OperationOutcome) bool { return o.Err == nil })
}

func (r *Result) Failed() []OperationOutcome {
	return r.filter(func(o OperationOutcome) bool { return o.Err != nil })
}

func (r *Result) filter(keep func(OperationOutcome) bool) []OperationOutcome {
	var out []OperationOutcome
	for _, o := range r.Outcomes {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// RunAll benchmarks all operations using a bounded worker pool. Outcomes
// keep the input order regardless of scheduling. Cancellation stops
// dispatching new operations promptly; operations never dispatched carry
// the context error, and already-collected outcomes remain valid.
func (r *Runner) RunAll(ctx context.Context, ops []spec.OperationSpec) (*Result, error) {
	result := &Result{Outcomes: make([]OperationOutcome, len(ops))}
	if len(ops) == 0 {
		return result, nil
	}

	workers := r.cfg.Concurrency
	if workers > len(ops) {
		workers = len(ops)
	}

	executors := make([]engine.Executor, 0, workers)
	defer func() {
		for _, exec := range executors {
			_ = exec.Close()
		}
	}()
	for i := 0; i < workers; i++ {
		exec, err := r.newExecutor()
		if err != nil {
			return nil, fmt.Errorf("create executor: %w", err)
		}
		executors = append(executors, exec)
	}

	tasks := make(chan int)
	var wg sync.WaitGroup
	for _, exec := range executors {
		wg.Add(1)
		go func(exec engine.Executor) {
			defer wg.Done()
			col := collector.New(exec, r.cfg.Collector)
			for idx := range tasks {
				result.Outcomes[idx] = r.runOperation(ctx, col, ops[idx])
			}
		}(exec)
	}

	next := 0
dispatch:
	for ; next < len(ops); next++ {
		if ctx.Err() != nil {
			break dispatch
		}
		select {
		case tasks <- next:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(tasks)
	wg.Wait()

	for i := next; i < len(ops); i++ {
		result.Outcomes[i] = OperationOutcome{Spec: ops[i], Err: ctx.Err()}
	}

	return result, nil
}

func (r *Runner) runOperation(ctx context.Context, col *collector.Collector, op spec.OperationSpec) OperationOutcome {
	start := time.Now()
	outcome := OperationOutcome{Spec: op}

	set, err := col.Collect(ctx, op, r.cfg.Trial)
	if err != nil {
		outcome.Err = err
		outcome.Elapsed = time.Since(start)
		slog.Error("operation collection failed", "operation", op.ID(), "error", err)
		return outcome
	}
	outcome.Set = set

	res, err := analysis.AnalyzeAll(op, set.Samples, set.Discarded, r.cfg.Analysis)
	if err != nil {
		outcome.Err = err
		outcome.Elapsed = time.Since(start)
		slog.Error("operation analysis failed", "operation", op.ID(), "error", err)
		return outcome
	}
	outcome.Result = res
	outcome.Elapsed = time.Since(start)

	slog.Info("operation benchmarked",
		"operation", op.ID(),
		"samples", res.SampleCount,
		"discarded", res.DiscardedCount,
		"elapsed", outcome.Elapsed,
	)
	return outcome
}
