package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/DjordjeVuckovic/weight-forge/internal/apperr"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/engine"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// Config carries the analyzer knobs. The zero value disables trimming and
// keeps negative slopes (flagged, never silently altered).
type Config struct {
	// TrimFraction in [0, 0.5): fraction of per-group medians trimmed from
	// each end before fitting. 0 disables trimming.
	TrimFraction float64

	// ClampNegative clamps negative slopes to zero. The clamp is recorded
	// in the model's flags so callers can see the raw fit was altered.
	ClampNegative bool
}

// Analyze fits a linear model of the metric against component values using
// outlier-trimmed least squares over per-assignment medians.
func Analyze(op spec.OperationSpec, samples []engine.Sample, metric spec.Metric, cfg Config) (*CostModel, error) {
	if !metric.Valid() {
		return nil, fmt.Errorf("analyze %s: unknown metric %q", op.ID(), metric)
	}

	points := groupMedians(op, samples, metric)
	points = trimOutliers(points, cfg.TrimFraction)

	params := len(op.Components) + 1
	if len(points) < params {
		return nil, apperr.NewUnderdeterminedModel(op.Module, op.Name, string(metric), len(points), params)
	}

	coeffs, err := fitLeastSquares(points, params)
	if err != nil {
		return nil, apperr.NewUnderdeterminedModel(op.Module, op.Name, string(metric), len(points), params)
	}

	model := &CostModel{Metric: metric, Base: coeffs[0]}
	if len(op.Components) > 0 {
		model.Slopes = make(map[string]float64, len(op.Components))
	}
	for i, c := range op.Components {
		slope := coeffs[i+1]
		if slope < 0 {
			if cfg.ClampNegative {
				model.Flags = append(model.Flags, fmt.Sprintf("slope for %q clamped from %g to 0", c.Name, slope))
				slope = 0
			} else {
				model.Flags = append(model.Flags, fmt.Sprintf("negative slope %g retained for %q", slope, c.Name))
			}
		}
		model.Slopes[c.Name] = slope
	}
	return model, nil
}

// AnalyzeAll fits one model per metric and assembles the operation result.
func AnalyzeAll(op spec.OperationSpec, samples []engine.Sample, discarded int, cfg Config) (*OperationResult, error) {
	result := &OperationResult{
		Spec:           op,
		SampleCount:    len(samples),
		DiscardedCount: discarded,
	}
	for _, metric := range spec.Metrics {
		model, err := Analyze(op, samples, metric, cfg)
		if err != nil {
			return nil, fmt.Errorf("analyze %s: %w", op.ID(), err)
		}
		result.Models = append(result.Models, *model)
	}
	return result, nil
}

// dataPoint is one regression observation: the component values of a
// distinct assignment and the median metric value across its repeats.
type dataPoint struct {
	values []float64
	y      float64
}

// groupMedians groups succeeded samples by assignment and reduces each
// group to its median. The median is preferred over the mean so one-off
// execution spikes (cold caches, scheduler hiccups) cannot drag the fit.
func groupMedians(op spec.OperationSpec, samples []engine.Sample, metric spec.Metric) []dataPoint {
	type group struct {
		values []float64
		ys     []float64
	}
	groups := make(map[string]*group)
	var order []string

	for _, s := range samples {
		if !s.Succeeded {
			continue
		}
		key := s.Assignment.Key()
		g, ok := groups[key]
		if !ok {
			values := make([]float64, len(op.Components))
			for i, c := range op.Components {
				values[i] = float64(s.Assignment[c.Name])
			}
			g = &group{values: values}
			groups[key] = g
			order = append(order, key)
		}
		g.ys = append(g.ys, s.MetricValue(metric))
	}

	points := make([]dataPoint, 0, len(order))
	for _, key := range order {
		g := groups[key]
		points = append(points, dataPoint{values: g.values, y: median(g.ys)})
	}
	return points
}

// trimOutliers drops the given fraction of points from each end of the
// metric-value ordering. Group identity of the surviving points is kept.
func trimOutliers(points []dataPoint, fraction float64) []dataPoint {
	if fraction <= 0 || len(points) == 0 {
		return points
	}
	cut := int(math.Floor(float64(len(points)) * fraction))
	if cut == 0 {
		return points
	}

	sorted := make([]dataPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].y < sorted[j].y })
	return sorted[cut : len(sorted)-cut]
}

// fitLeastSquares solves ordinary least squares via the normal equations
// (X'X)b = X'y, with an intercept column prepended.
func fitLeastSquares(points []dataPoint, params int) ([]float64, error) {
	xtx := make([][]float64, params)
	for i := range xtx {
		xtx[i] = make([]float64, params)
	}
	xty := make([]float64, params)

	row := make([]float64, params)
	for _, p := range points {
		row[0] = 1
		copy(row[1:], p.values)
		for i := 0; i < params; i++ {
			for j := 0; j < params; j++ {
				xtx[i][j] += row[i] * row[j]
			}
			xty[i] += row[i] * p.y
		}
	}

	return solveLinearSystem(xtx, xty)
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
