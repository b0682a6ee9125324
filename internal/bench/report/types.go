package report

import (
	"runtime"
	"sort"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/analysis"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/engine"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/runner"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/google/uuid"
)

// Report is the machine-readable record of one benchmarking run: fitted
// results, raw samples and per-operation failures, plus run metadata for
// cross-run comparison.
type Report struct {
	Meta       Meta              `json:"meta"`
	Operations []OperationReport `json:"operations"`
	Failures   []Failure         `json:"failures,omitempty"`
}

type Meta struct {
	RunID       uuid.UUID        `json:"run_id"`
	Timestamp   time.Time        `json:"timestamp"`
	Trial       spec.TrialConfig `json:"trial"`
	Environment EnvironmentInfo  `json:"environment"`
}

type EnvironmentInfo struct {
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	NumCPU    int    `json:"num_cpu"`
}

func NewEnvironmentInfo() EnvironmentInfo {
	return EnvironmentInfo{
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
		NumCPU:    runtime.NumCPU(),
	}
}

type OperationReport struct {
	Spec           spec.OperationSpec   `json:"spec"`
	Models         []analysis.CostModel `json:"models"`
	SampleCount    int                  `json:"sample_count"`
	DiscardedCount int                  `json:"discarded_count"`
	Samples        []engine.Sample      `json:"samples,omitempty"`
}

// Result converts the report entry back to the analyzer's artifact form.
func (or OperationReport) Result() analysis.OperationResult {
	return analysis.OperationResult{
		Spec:           or.Spec,
		Models:         or.Models,
		SampleCount:    or.SampleCount,
		DiscardedCount: or.DiscardedCount,
	}
}

type Failure struct {
	Module    string `json:"module"`
	Operation string `json:"operation"`
	Error     string `json:"error"`
}

// NewMeta stamps a fresh run identity.
func NewMeta(trial spec.TrialConfig) Meta {
	return Meta{
		RunID:       uuid.New(),
		Timestamp:   time.Now().UTC(),
		Trial:       trial,
		Environment: NewEnvironmentInfo(),
	}
}

// Generate assembles the report from a finished run. Operations and
// failures are sorted by module then name so generation is deterministic
// for identical outcomes. Raw samples are embedded when includeSamples is
// set.
func Generate(result *runner.Result, meta Meta, includeSamples bool) *Report {
	r := &Report{Meta: meta, Operations: []OperationReport{}}

	for _, outcome := range result.Outcomes {
		if outcome.Err != nil {
			r.Failures = append(r.Failures, Failure{
				Module:    outcome.Spec.Module,
				Operation: outcome.Spec.Name,
				Error:     outcome.Err.Error(),
			})
			continue
		}
		or := OperationReport{
			Spec:           outcome.Spec,
			Models:         outcome.Result.Models,
			SampleCount:    outcome.Result.SampleCount,
			DiscardedCount: outcome.Result.DiscardedCount,
		}
		if includeSamples && outcome.Set != nil {
			or.Samples = outcome.Set.Samples
		}
		r.Operations = append(r.Operations, or)
	}

	sort.Slice(r.Operations, func(i, j int) bool {
		return r.Operations[i].Spec.ID() < r.Operations[j].Spec.ID()
	})
	sort.Slice(r.Failures, func(i, j int) bool {
		return r.Failures[i].Module+"."+r.Failures[i].Operation < r.Failures[j].Module+"."+r.Failures[j].Operation
	})
	return r
}

// ModulesOf returns the distinct module names present in the report,
// sorted.
func (r *Report) ModulesOf() []string {
	seen := make(map[string]bool)
	var modules []string
	for _, op := range r.Operations {
		if !seen[op.Spec.Module] {
			seen[op.Spec.Module] = true
			modules = append(modules, op.Spec.Module)
		}
	}
	sort.Strings(modules)
	return modules
}

// ModuleResults returns the fitted results for one module in report order.
func (r *Report) ModuleResults(module string) []analysis.OperationResult {
	var out []analysis.OperationResult
	for _, op := range r.Operations {
		if op.Spec.Module == module {
			out = append(out, op.Result())
		}
	}
	return out
}
