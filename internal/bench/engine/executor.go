package engine

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// Sample is the measured outcome of one trial. It is immutable after
// creation. A failed trial keeps its assignment and error for diagnostics
// but carries zeroed metrics and is excluded from regression input.
type Sample struct {
	Assignment spec.Assignment `json:"assignment"`
	Elapsed    time.Duration   `json:"elapsed"`
	Reads      int64           `json:"reads"`
	Writes     int64           `json:"writes"`
	ProofSize  int64           `json:"proof_size"`
	Succeeded  bool            `json:"succeeded"`
	Err        string          `json:"error,omitempty"`
}

// MetricValue returns the sample's value for the given metric as a float,
// the form the regression consumes.
func (s Sample) MetricValue(m spec.Metric) float64 {
	switch m {
	case spec.MetricTime:
		return float64(s.Elapsed.Nanoseconds())
	case spec.MetricReads:
		return float64(s.Reads)
	case spec.MetricWrites:
		return float64(s.Writes)
	case spec.MetricProofSize:
		return float64(s.ProofSize)
	}
	return 0
}

// Executor runs one trial of an operation at a fixed assignment. Execution
// failures are reported through the sample, never as an error: a single bad
// trial must not abort collection.
type Executor interface {
	Execute(ctx context.Context, op spec.OperationSpec, a spec.Assignment) Sample
	Name() string
	Close() error
}
