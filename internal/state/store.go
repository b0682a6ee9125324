package state

// Counters are the per-invocation storage counters reported by a store.
// They are reset at snapshot boundaries and read immediately after a trial.
type Counters struct {
	Reads     int64
	Writes    int64
	ProofSize int64
}

// Store is a key-value state store instrumented with read/write/proof-size
// counters. Implementations are not safe for concurrent use by multiple
// trials; each sandbox instance owns its store exclusively.
type Store interface {
	Get(key string) ([]byte, bool)
	Put(key string, value []byte)
	Delete(key string)

	// Counters returns the counters accumulated since the last reset.
	Counters() Counters
	// ResetCounters zeroes the counters without touching the data.
	ResetCounters()
}

// Snapshotter produces isolated copies of a store. A trial runs against a
// snapshot so its writes can never leak into a sibling trial.
type Snapshotter interface {
	Snapshot() Store
}
