package plan

import (
	"fmt"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// Sweep is a lazy, finite, restartable sequence of component assignments
// for one operation. For each component in declared order it steps that
// component from min to max in cfg.Steps increments while pinning every
// other component, and repeats each distinct assignment cfg.Repeats times
// consecutively. The order is fully deterministic.
type Sweep struct {
	op  spec.OperationSpec
	cfg spec.TrialConfig

	comp   int // index of the component being swept
	step   int
	repeat int
}

func NewSweep(op spec.OperationSpec, cfg spec.TrialConfig) (*Sweep, error) {
	if err := op.Validate(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("sweep %s: %w", op.ID(), err)
	}
	return &Sweep{op: op, cfg: cfg}, nil
}

// Count returns the total number of assignments the sweep will emit.
func (s *Sweep) Count() int {
	if len(s.op.Components) == 0 {
		return s.cfg.Repeats
	}
	return len(s.op.Components) * s.cfg.Steps * s.cfg.Repeats
}

// Reset rewinds the sweep to its first assignment.
func (s *Sweep) Reset() {
	s.comp, s.step, s.repeat = 0, 0, 0
}

// Next returns the next assignment, or false when the sweep is exhausted.
// Returned assignments are fresh copies; callers may retain them.
func (s *Sweep) Next() (spec.Assignment, bool) {
	if len(s.op.Components) == 0 {
		if s.repeat >= s.cfg.Repeats {
			return nil, false
		}
		s.repeat++
		return spec.Assignment{}, true
	}

	if s.comp >= len(s.op.Components) {
		return nil, false
	}

	a := s.assignmentAt(s.comp, s.step)

	s.repeat++
	if s.repeat >= s.cfg.Repeats {
		s.repeat = 0
		s.step++
		if s.step >= s.cfg.Steps {
			s.step = 0
			s.comp++
		}
	}
	return a, true
}

func (s *Sweep) assignmentAt(comp, step int) spec.Assignment {
	a := make(spec.Assignment, len(s.op.Components))
	for i, c := range s.op.Components {
		if i == comp {
			a[c.Name] = stepValue(c, step, s.cfg.Steps)
			continue
		}
		if s.cfg.HighestRangeOnly {
			a[c.Name] = c.Max
		} else {
			a[c.Name] = c.Min
		}
	}
	return a
}

// stepValue interpolates the step-th sample point in [min, max], inclusive
// of both endpoints. A single step samples only min.
func stepValue(c spec.Component, step, steps int) int64 {
	if steps == 1 {
		return c.Min
	}
	span := c.Max - c.Min
	return c.Min + span*int64(step)/int64(steps-1)
}
