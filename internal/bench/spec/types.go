package spec

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Component is one cost-relevant input dimension of an operation,
// swept over the inclusive range [Min, Max].
type Component struct {
	Name string `yaml:"name" json:"name"`
	Min  int64  `yaml:"min" json:"min"`
	Max  int64  `yaml:"max" json:"max"`
}

func (c Component) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("component has no name")
	}
	if c.Min > c.Max {
		return fmt.Errorf("component %q: min %d > max %d", c.Name, c.Min, c.Max)
	}
	return nil
}

// OperationSpec declares a benchmarkable operation. It is supplied by the
// runtime module registry and is immutable for the duration of a run.
type OperationSpec struct {
	Module     string      `json:"module"`
	Name       string      `json:"name"`
	Components []Component `json:"components,omitempty"`
}

// ID returns the canonical "module.name" identifier used in diagnostics.
func (op OperationSpec) ID() string {
	return op.Module + "." + op.Name
}

func (op OperationSpec) Validate() error {
	if op.Module == "" || op.Name == "" {
		return fmt.Errorf("operation %q: module and name are required", op.ID())
	}
	seen := make(map[string]bool, len(op.Components))
	for _, c := range op.Components {
		if err := c.Validate(); err != nil {
			return fmt.Errorf("operation %q: %w", op.ID(), err)
		}
		if seen[c.Name] {
			return fmt.Errorf("operation %q: duplicate component %q", op.ID(), c.Name)
		}
		seen[c.Name] = true
	}
	return nil
}

// Assignment maps component names to concrete values for one trial.
type Assignment map[string]int64

func (a Assignment) Clone() Assignment {
	out := make(Assignment, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Key returns a canonical string form of the assignment, used to group
// repeated trials of the same configuration. Component names are sorted
// so the key is independent of map iteration order.
func (a Assignment) Key() string {
	if len(a) == 0 {
		return "-"
	}
	names := make([]string, 0, len(a))
	for name := range a {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		fmt.Fprintf(&b, "%s=%d", name, a[name])
	}
	return b.String()
}

// TrialConfig controls how finely component ranges are sampled and how many
// repeated trials are taken per sampled point.
type TrialConfig struct {
	Steps            int  `yaml:"steps" json:"steps"`
	Repeats          int  `yaml:"repeats" json:"repeats"`
	LowestRangeOnly  bool `yaml:"lowest_range_only" json:"lowest_range_only,omitempty"`
	HighestRangeOnly bool `yaml:"highest_range_only" json:"highest_range_only,omitempty"`
}

func (tc TrialConfig) Validate() error {
	if tc.Steps < 1 {
		return fmt.Errorf("trial config: steps must be >= 1, got %d", tc.Steps)
	}
	if tc.Repeats < 1 {
		return fmt.Errorf("trial config: repeats must be >= 1, got %d", tc.Repeats)
	}
	if tc.LowestRangeOnly && tc.HighestRangeOnly {
		return fmt.Errorf("trial config: lowest_range_only and highest_range_only are mutually exclusive")
	}
	return nil
}

// Metric identifies one of the measured cost dimensions.
type Metric string

const (
	MetricTime      Metric = "time"
	MetricReads     Metric = "reads"
	MetricWrites    Metric = "writes"
	MetricProofSize Metric = "proof_size"
)

// Metrics lists all measured metrics in rendering order.
var Metrics = []Metric{MetricTime, MetricReads, MetricWrites, MetricProofSize}

func (m Metric) Valid() bool {
	switch m {
	case MetricTime, MetricReads, MetricWrites, MetricProofSize:
		return true
	}
	return false
}

// Plan is the top-level benchmark plan loaded from YAML. It selects which
// modules and operations to benchmark and carries the run-wide knobs.
type Plan struct {
	Modules    []string    `yaml:"modules"`
	Operations []string    `yaml:"operations"`
	Trial      TrialConfig `yaml:"trial"`

	DiscardThreshold float64       `yaml:"discard_threshold"`
	TrimFraction     float64       `yaml:"trim_fraction"`
	ClampNegative    bool          `yaml:"clamp_negative"`
	Concurrency      int           `yaml:"concurrency"`
	TrialTimeout     time.Duration `yaml:"trial_timeout"`

	Output  OutputConfig   `yaml:"output"`
	Archive *ArchiveConfig `yaml:"archive,omitempty"`
}

// OutputConfig names the generated artifacts of a run.
type OutputConfig struct {
	WeightsDir  string `yaml:"weights_dir"`
	ResultsPath string `yaml:"results_path"`
}

// ArchiveConfig selects the optional result archive sink.
type ArchiveConfig struct {
	Type       string `yaml:"type"`
	Connection string `yaml:"connection"`
	Index      string `yaml:"index,omitempty"`
	Dir        string `yaml:"dir,omitempty"`
}

// WantsOperation reports whether the plan selects the given operation.
// Empty selectors select everything.
func (p *Plan) WantsOperation(op OperationSpec) bool {
	if len(p.Modules) > 0 && !contains(p.Modules, op.Module) {
		return false
	}
	if len(p.Operations) > 0 && !contains(p.Operations, op.Name) && !contains(p.Operations, op.ID()) {
		return false
	}
	return true
}

func contains(xs []string, s string) bool {
	for _, x := range xs {
		if x == s {
			return true
		}
	}
	return false
}
