package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/sandbox"
	"github.com/DjordjeVuckovic/weight-forge/internal/state"
	"github.com/DjordjeVuckovic/weight-forge/internal/state/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ledgerExecutor(t *testing.T, timeout time.Duration) *SandboxExecutor {
	t.Helper()
	reg := sandbox.NewRegistry()
	sandbox.RegisterLedger(reg)
	rt := sandbox.NewInProcRuntime(reg, in_mem.NewStore())
	return NewSandboxExecutor("sandbox", rt, timeout)
}

func TestExecuteSuccess(t *testing.T) {
	exec := ledgerExecutor(t, time.Second)

	op := spec.OperationSpec{Module: "ledger", Name: "deposit",
		Components: []spec.Component{{Name: "n", Min: 1, Max: 1000}}}

	s := exec.Execute(context.Background(), op, spec.Assignment{"n": 25})
	require.True(t, s.Succeeded)
	assert.Equal(t, int64(25), s.Writes)
	assert.Empty(t, s.Err)
	assert.Equal(t, int64(25), s.Assignment["n"])
}

func TestExecuteFailureIsNotFatal(t *testing.T) {
	exec := ledgerExecutor(t, time.Second)

	op := spec.OperationSpec{Module: "ledger", Name: "does_not_exist"}
	s := exec.Execute(context.Background(), op, spec.Assignment{})

	assert.False(t, s.Succeeded)
	assert.Contains(t, s.Err, "unknown operation")
	assert.Zero(t, s.Reads)
	assert.Zero(t, s.Elapsed)
}

type hangingRuntime struct{}

func (hangingRuntime) Run(ctx context.Context, call sandbox.Call) (*sandbox.Outcome, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestExecuteTimeout(t *testing.T) {
	exec := NewSandboxExecutor("sandbox", hangingRuntime{}, 20*time.Millisecond)

	op := spec.OperationSpec{Module: "ledger", Name: "deposit"}
	s := exec.Execute(context.Background(), op, spec.Assignment{"n": 1})

	assert.False(t, s.Succeeded)
	assert.Contains(t, s.Err, "timed out")
}

type countersRuntime struct {
	counters state.Counters
	elapsed  time.Duration
	err      error
}

func (r countersRuntime) Run(ctx context.Context, call sandbox.Call) (*sandbox.Outcome, error) {
	if r.err != nil {
		return nil, r.err
	}
	return &sandbox.Outcome{Elapsed: r.elapsed, Counters: r.counters}, nil
}

func TestSampleMetricValues(t *testing.T) {
	exec := NewSandboxExecutor("sandbox", countersRuntime{
		counters: state.Counters{Reads: 3, Writes: 2, ProofSize: 128},
		elapsed:  1500 * time.Nanosecond,
	}, 0)

	s := exec.Execute(context.Background(), spec.OperationSpec{Module: "m", Name: "o"}, spec.Assignment{})

	assert.Equal(t, float64(1500), s.MetricValue(spec.MetricTime))
	assert.Equal(t, float64(3), s.MetricValue(spec.MetricReads))
	assert.Equal(t, float64(2), s.MetricValue(spec.MetricWrites))
	assert.Equal(t, float64(128), s.MetricValue(spec.MetricProofSize))
}

func TestFailedSampleZeroesMetrics(t *testing.T) {
	exec := NewSandboxExecutor("sandbox", countersRuntime{err: errors.New("resource limit exceeded")}, 0)

	s := exec.Execute(context.Background(), spec.OperationSpec{Module: "m", Name: "o"}, spec.Assignment{"v": 9})
	assert.False(t, s.Succeeded)
	for _, m := range spec.Metrics {
		assert.Zero(t, s.MetricValue(m))
	}
}
