package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/apperr"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/analysis"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/pkg/utils"
)

// Config controls the rendered artifact. GeneratedAt is caller-supplied so
// rendering stays a pure function of its inputs.
type Config struct {
	Package     string
	Trial       spec.TrialConfig
	GeneratedAt time.Time
}

func (c Config) packageName() string {
	if c.Package == "" {
		return "weights"
	}
	return c.Package
}

// metricSuffixes maps each metric to its weight-function suffix, in
// rendering order.
var metricSuffixes = []struct {
	metric spec.Metric
	suffix string
}{
	{spec.MetricTime, "Time"},
	{spec.MetricReads, "Reads"},
	{spec.MetricWrites, "Writes"},
	{spec.MetricProofSize, "ProofSize"},
}

// Module renders the generated weights source unit for one runtime module.
// Output is byte-for-byte deterministic for identical inputs: operations
// are sorted by name, components keep declared order, and all coefficients
// are formatted as integers. Time coefficients are converted from fitted
// nanoseconds to picosecond ticks; every coefficient is rounded up so the
// generated model never under-estimates measured cost.
func Module(module string, results []analysis.OperationResult, cfg Config) ([]byte, error) {
	view, err := buildFileView(module, results, cfg)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := fileTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render module %s: %w", module, err)
	}
	return buf.Bytes(), nil
}

type fileView struct {
	Module      string
	Package     string
	Steps       int
	Repeats     int
	GeneratedAt string
	Funcs       []funcView
}

type funcView struct {
	Comments  []string
	Name      string
	ParamList string
	Base      int64
	Terms     []termView
}

type termView struct {
	Coeff int64
	Param string
}

func buildFileView(module string, results []analysis.OperationResult, cfg Config) (*fileView, error) {
	sorted := make([]analysis.OperationResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Spec.Name < sorted[j].Spec.Name })

	view := &fileView{
		Module:      module,
		Package:     cfg.packageName(),
		Steps:       cfg.Trial.Steps,
		Repeats:     cfg.Trial.Repeats,
		GeneratedAt: cfg.GeneratedAt.UTC().Format(time.RFC3339),
	}

	for _, res := range sorted {
		if res.Spec.Module != module {
			return nil, apperr.NewRendering(res.Spec.Module, res.Spec.Name,
				fmt.Sprintf("operation does not belong to module %q", module))
		}
		for _, ms := range metricSuffixes {
			fn, err := buildFuncView(res, ms.metric, ms.suffix)
			if err != nil {
				return nil, err
			}
			view.Funcs = append(view.Funcs, *fn)
		}
	}
	return view, nil
}

func buildFuncView(res analysis.OperationResult, metric spec.Metric, suffix string) (*funcView, error) {
	model, ok := res.Model(metric)
	if !ok {
		return nil, apperr.NewRendering(res.Spec.Module, res.Spec.Name,
			fmt.Sprintf("missing model for metric %s", metric))
	}

	fn := &funcView{
		Name: utils.ExportName(res.Spec.Name) + suffix,
		Base: convertCoefficient(metric, model.Base),
	}

	params := make([]string, 0, len(res.Spec.Components))
	for _, c := range res.Spec.Components {
		slope, ok := model.Slopes[c.Name]
		if !ok {
			return nil, apperr.NewRendering(res.Spec.Module, res.Spec.Name,
				fmt.Sprintf("metric %s: missing slope for component %q", metric, c.Name))
		}
		param := paramName(c.Name)
		params = append(params, param+" int64")

		coeff := convertCoefficient(metric, slope)
		if coeff != 0 {
			fn.Terms = append(fn.Terms, termView{Coeff: coeff, Param: param})
		}
	}
	fn.ParamList = strings.Join(params, ", ")

	fn.Comments = append(fn.Comments, fmt.Sprintf("%s is the fitted %s cost of %s.",
		fn.Name, metric, res.Spec.ID()))
	for _, flag := range model.Flags {
		fn.Comments = append(fn.Comments, "Fit diagnostic: "+flag+".")
	}
	return fn, nil
}

// convertCoefficient maps a fitted coefficient to its accounting unit,
// always rounding up. Time fits are in nanoseconds and render as
// picosecond ticks; the other metrics render as raw counts/bytes.
func convertCoefficient(metric spec.Metric, v float64) int64 {
	if metric == spec.MetricTime {
		return utils.CeilInt64(v * 1000)
	}
	return utils.CeilInt64(v)
}

var goKeywords = map[string]bool{
	"break": true, "case": true, "chan": true, "const": true, "continue": true,
	"default": true, "defer": true, "else": true, "fallthrough": true, "for": true,
	"func": true, "go": true, "goto": true, "if": true, "import": true,
	"interface": true, "map": true, "package": true, "range": true, "return": true,
	"select": true, "struct": true, "switch": true, "type": true, "var": true,
}

func paramName(component string) string {
	if goKeywords[component] {
		return component + "_"
	}
	return component
}
