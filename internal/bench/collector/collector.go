package collector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/DjordjeVuckovic/weight-forge/internal/apperr"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/engine"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/plan"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// SampleSet is the ordered trial record for one operation. It grows only
// during collection and is frozen before analysis consumes it.
type SampleSet struct {
	Op        spec.OperationSpec
	Samples   []engine.Sample
	Discarded int
}

// Config carries the collection knobs.
type Config struct {
	// DiscardThreshold is the maximum tolerated fraction of failed trials
	// before the whole operation is failed.
	DiscardThreshold float64
}

// Collector drives the sweep planner to exhaustion for one operation,
// executing one trial per assignment. Trials run strictly sequentially: the
// executor's isolation guarantee depends on its sandbox instance not being
// shared.
type Collector struct {
	exec engine.Executor
	cfg  Config
}

func New(exec engine.Executor, cfg Config) *Collector {
	return &Collector{exec: exec, cfg: cfg}
}

// Collect runs the full sweep for op and returns its frozen sample set.
// A too-high discard rate or an empty set fails the operation; sibling
// operations are unaffected.
func (c *Collector) Collect(ctx context.Context, op spec.OperationSpec, tc spec.TrialConfig) (*SampleSet, error) {
	sweep, err := plan.NewSweep(op, tc)
	if err != nil {
		return nil, fmt.Errorf("collect %s: %w", op.ID(), err)
	}

	set := &SampleSet{
		Op:      op,
		Samples: make([]engine.Sample, 0, sweep.Count()),
	}

	trial := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("collect %s: %w", op.ID(), err)
		}
		a, ok := sweep.Next()
		if !ok {
			break
		}

		sample := c.exec.Execute(ctx, op, a)
		set.Samples = append(set.Samples, sample)
		if !sample.Succeeded {
			set.Discarded++
			slog.Warn("trial discarded",
				"operation", op.ID(),
				"assignment", a.Key(),
				"trial", trial,
				"error", sample.Err,
			)
		}
		trial++
	}

	if len(set.Samples) == 0 || set.Discarded == len(set.Samples) {
		return nil, apperr.NewEmptySampleSet(op.Module, op.Name)
	}

	rate := float64(set.Discarded) / float64(len(set.Samples))
	if rate > c.cfg.DiscardThreshold {
		return nil, apperr.NewExcessiveDiscard(op.Module, op.Name, set.Discarded, len(set.Samples), c.cfg.DiscardThreshold)
	}

	return set, nil
}
