package sandbox

import (
	"context"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/state"
)

// Call identifies one operation invocation at a fixed component assignment.
type Call struct {
	Module     string
	Operation  string
	Assignment spec.Assignment
}

// Outcome is the raw result of one sandboxed invocation: wall-clock time of
// the operation body and the store counters for that single invocation.
type Outcome struct {
	Elapsed  time.Duration
	Counters state.Counters
}

// Runtime executes operations with side-effect isolation per invocation.
// A Runtime instance is owned by exactly one worker at a time; it must not
// be shared across concurrent trials.
type Runtime interface {
	Run(ctx context.Context, call Call) (*Outcome, error)
}

// Factory creates an independent Runtime instance. Each collection worker
// obtains its own instance so trials never share sandbox state.
type Factory func() (Runtime, error)

// InProcRuntime runs registered operations in-process against snapshots of
// a genesis store. Every call gets a fresh snapshot: setup runs untimed,
// counters reset, then the body runs under the clock.
type InProcRuntime struct {
	registry *Registry
	genesis  interface {
		state.Store
		state.Snapshotter
	}
}

func NewInProcRuntime(registry *Registry, genesis interface {
	state.Store
	state.Snapshotter
}) *InProcRuntime {
	return &InProcRuntime{registry: registry, genesis: genesis}
}

func (rt *InProcRuntime) Run(ctx context.Context, call Call) (*Outcome, error) {
	op, ok := rt.registry.Lookup(call.Module, call.Operation)
	if !ok {
		return nil, fmt.Errorf("unknown operation %s.%s", call.Module, call.Operation)
	}

	store := rt.genesis.Snapshot()

	if op.Setup != nil {
		if err := op.Setup(store, call.Assignment); err != nil {
			return nil, fmt.Errorf("setup %s.%s: %w", call.Module, call.Operation, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	store.ResetCounters()

	start := time.Now()
	err := op.Body(store, call.Assignment)
	elapsed := time.Since(start)

	if err != nil {
		return nil, fmt.Errorf("execute %s.%s: %w", call.Module, call.Operation, err)
	}

	return &Outcome{
		Elapsed:  elapsed,
		Counters: store.Counters(),
	}, nil
}
