package sandbox

import (
	"context"
	"testing"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/state/in_mem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerRuntime(t *testing.T) *InProcRuntime {
	t.Helper()
	reg := NewRegistry()
	RegisterLedger(reg)
	return NewInProcRuntime(reg, in_mem.NewStore())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	RegisterLedger(reg)

	assert.Equal(t, []string{"ledger"}, reg.Modules())

	specs := reg.Specs()
	require.Len(t, specs, 3)
	assert.Equal(t, "deposit", specs[0].Name)
	assert.Equal(t, "rotate_epoch", specs[1].Name)
	assert.Equal(t, "transfer", specs[2].Name)

	_, ok := reg.Lookup("ledger", "transfer")
	assert.True(t, ok)
	_, ok = reg.Lookup("ledger", "burn")
	assert.False(t, ok)
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	reg := NewRegistry()
	RegisterLedger(reg)

	dup, _ := reg.Lookup("ledger", "deposit")
	assert.Error(t, reg.Register(dup))
}

func TestRunMeasuresBodyOnly(t *testing.T) {
	rt := newLedgerRuntime(t)

	out, err := rt.Run(context.Background(), Call{
		Module:     "ledger",
		Operation:  "transfer",
		Assignment: spec.Assignment{"s": 10, "r": 5},
	})
	require.NoError(t, err)

	// setup wrote s+r accounts but counters were reset before the body:
	// the body reads s accounts and writes r accounts.
	assert.Equal(t, int64(10), out.Counters.Reads)
	assert.Equal(t, int64(5), out.Counters.Writes)
	assert.Greater(t, out.Counters.ProofSize, int64(0))
	assert.GreaterOrEqual(t, out.Elapsed.Nanoseconds(), int64(0))
}

func TestRunIsolatesTrials(t *testing.T) {
	rt := newLedgerRuntime(t)
	ctx := context.Background()

	call := Call{Module: "ledger", Operation: "deposit", Assignment: spec.Assignment{"n": 50}}

	first, err := rt.Run(ctx, call)
	require.NoError(t, err)
	second, err := rt.Run(ctx, call)
	require.NoError(t, err)

	// a prior trial's writes must not be observable: identical counters.
	assert.Equal(t, first.Counters, second.Counters)
	assert.Equal(t, 0, rt.genesis.(*in_mem.Store).Len())
}

func TestRunUnknownOperation(t *testing.T) {
	rt := newLedgerRuntime(t)

	_, err := rt.Run(context.Background(), Call{Module: "ledger", Operation: "burn"})
	assert.ErrorContains(t, err, "unknown operation")
}

func TestRunZeroComponentOperation(t *testing.T) {
	rt := newLedgerRuntime(t)

	out, err := rt.Run(context.Background(), Call{
		Module:     "ledger",
		Operation:  "rotate_epoch",
		Assignment: spec.Assignment{},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), out.Counters.Reads)
	assert.Equal(t, int64(1), out.Counters.Writes)
}
