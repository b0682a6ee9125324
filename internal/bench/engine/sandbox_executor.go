package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/sandbox"
)

// SandboxExecutor adapts a sandbox runtime to the Executor contract. Each
// trial runs against an isolated state snapshot inside the runtime; the
// executor only measures and converts outcomes to samples. A per-trial
// timeout turns a hung trial into a failed sample instead of blocking the
// collector; the abandoned trial keeps its context cancelled so a
// cooperative runtime can bail out.
type SandboxExecutor struct {
	name    string
	rt      sandbox.Runtime
	timeout time.Duration
}

func NewSandboxExecutor(name string, rt sandbox.Runtime, timeout time.Duration) *SandboxExecutor {
	return &SandboxExecutor{name: name, rt: rt, timeout: timeout}
}

func (e *SandboxExecutor) Execute(ctx context.Context, op spec.OperationSpec, a spec.Assignment) Sample {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	type runResult struct {
		outcome *sandbox.Outcome
		err     error
	}
	done := make(chan runResult, 1)

	go func() {
		outcome, err := e.rt.Run(ctx, sandbox.Call{
			Module:     op.Module,
			Operation:  op.Name,
			Assignment: a.Clone(),
		})
		done <- runResult{outcome, err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			return failedSample(a, res.err)
		}
		return Sample{
			Assignment: a.Clone(),
			Elapsed:    res.outcome.Elapsed,
			Reads:      res.outcome.Counters.Reads,
			Writes:     res.outcome.Counters.Writes,
			ProofSize:  res.outcome.Counters.ProofSize,
			Succeeded:  true,
		}
	case <-ctx.Done():
		return failedSample(a, fmt.Errorf("trial timed out after %v: %w", e.timeout, ctx.Err()))
	}
}

func (e *SandboxExecutor) Name() string { return e.name }
func (e *SandboxExecutor) Close() error { return nil }

func failedSample(a spec.Assignment, err error) Sample {
	return Sample{
		Assignment: a.Clone(),
		Succeeded:  false,
		Err:        err.Error(),
	}
}
