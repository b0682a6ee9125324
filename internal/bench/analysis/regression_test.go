package analysis

import (
	"testing"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/apperr"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/engine"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func linearTimeSample(a spec.Assignment, base float64, slopes map[string]float64) engine.Sample {
	y := base
	for name, s := range slopes {
		y += s * float64(a[name])
	}
	return engine.Sample{
		Assignment: a.Clone(),
		Elapsed:    time.Duration(y) * time.Nanosecond,
		Succeeded:  true,
	}
}

func TestAnalyzeRecoversExactCoefficients(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}

	var samples []engine.Sample
	for _, n := range []int64{0, 25, 50, 75, 100} {
		for r := 0; r < 3; r++ {
			samples = append(samples, linearTimeSample(spec.Assignment{"n": n}, 10, map[string]float64{"n": 2}))
		}
	}

	model, err := Analyze(op, samples, spec.MetricTime, Config{})
	require.NoError(t, err)
	assert.InDelta(t, 10, model.Base, 1e-6)
	assert.InDelta(t, 2, model.Slopes["n"], 1e-9)
	assert.Empty(t, model.Flags)
}

func TestAnalyzeTwoComponents(t *testing.T) {
	op := spec.OperationSpec{
		Module: "ledger",
		Name:   "transfer",
		Components: []spec.Component{
			{Name: "s", Min: 0, Max: 50},
			{Name: "r", Min: 0, Max: 50},
		},
	}

	slopes := map[string]float64{"s": 3, "r": 7}
	var samples []engine.Sample
	for _, sv := range []int64{0, 10, 20, 30, 40, 50} {
		samples = append(samples, linearTimeSample(spec.Assignment{"s": sv, "r": 0}, 100, slopes))
	}
	for _, rv := range []int64{0, 10, 20, 30, 40, 50} {
		samples = append(samples, linearTimeSample(spec.Assignment{"s": 0, "r": rv}, 100, slopes))
	}

	model, err := Analyze(op, samples, spec.MetricTime, Config{})
	require.NoError(t, err)
	assert.InDelta(t, 100, model.Base, 1e-6)
	assert.InDelta(t, 3, model.Slopes["s"], 1e-9)
	assert.InDelta(t, 7, model.Slopes["r"], 1e-9)
}

func TestAnalyzeMedianAbsorbsRepeatSpike(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}

	var samples []engine.Sample
	for _, n := range []int64{0, 50, 100} {
		for r := 0; r < 5; r++ {
			samples = append(samples, linearTimeSample(spec.Assignment{"n": n}, 10, map[string]float64{"n": 2}))
		}
	}
	// one cold-path spike inside a repeat group
	spike := linearTimeSample(spec.Assignment{"n": 50}, 10, map[string]float64{"n": 2})
	spike.Elapsed = time.Hour
	samples = append(samples, spike)

	model, err := Analyze(op, samples, spec.MetricTime, Config{})
	require.NoError(t, err)
	assert.InDelta(t, 2, model.Slopes["n"], 1e-9)
}

func TestAnalyzeTrimmingBoundsOutlierDamage(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}

	build := func() []engine.Sample {
		var samples []engine.Sample
		for n := int64(0); n <= 100; n += 10 {
			samples = append(samples, linearTimeSample(spec.Assignment{"n": n}, 10, map[string]float64{"n": 2}))
		}
		// a whole group gone wrong: the group median itself is extreme
		bad := linearTimeSample(spec.Assignment{"n": 55}, 10, map[string]float64{"n": 2})
		bad.Elapsed = 10 * time.Hour
		return append(samples, bad)
	}

	trimmed, err := Analyze(op, build(), spec.MetricTime, Config{TrimFraction: 0.1})
	require.NoError(t, err)
	untrimmed, err := Analyze(op, build(), spec.MetricTime, Config{})
	require.NoError(t, err)

	assert.InDelta(t, 2, trimmed.Slopes["n"], 0.5)
	assert.Greater(t, untrimmed.Slopes["n"], 100.0)
}

func TestAnalyzeNegativeSlopePolicy(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "shrink",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 10}},
	}

	var samples []engine.Sample
	for n := int64(0); n <= 10; n++ {
		samples = append(samples, linearTimeSample(spec.Assignment{"n": n}, 1000, map[string]float64{"n": -5}))
	}

	t.Run("retained and flagged by default", func(t *testing.T) {
		model, err := Analyze(op, samples, spec.MetricTime, Config{})
		require.NoError(t, err)
		assert.InDelta(t, -5, model.Slopes["n"], 1e-9)
		require.Len(t, model.Flags, 1)
		assert.Contains(t, model.Flags[0], "negative slope")
	})

	t.Run("clamped on request", func(t *testing.T) {
		model, err := Analyze(op, samples, spec.MetricTime, Config{ClampNegative: true})
		require.NoError(t, err)
		assert.Zero(t, model.Slopes["n"])
		require.Len(t, model.Flags, 1)
		assert.Contains(t, model.Flags[0], "clamped")
	})
}

func TestAnalyzeUnderdetermined(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}

	// two free parameters but only one distinct assignment
	samples := []engine.Sample{
		linearTimeSample(spec.Assignment{"n": 5}, 10, map[string]float64{"n": 2}),
		linearTimeSample(spec.Assignment{"n": 5}, 10, map[string]float64{"n": 2}),
	}

	_, err := Analyze(op, samples, spec.MetricTime, Config{})
	var ume *apperr.UnderdeterminedModelError
	require.ErrorAs(t, err, &ume)
	assert.Equal(t, "ledger", ume.Module)
	assert.Equal(t, 1, ume.DataPoints)
	assert.Equal(t, 2, ume.Parameters)
}

func TestAnalyzeIgnoresFailedSamples(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}

	var samples []engine.Sample
	for _, n := range []int64{0, 50, 100} {
		samples = append(samples, linearTimeSample(spec.Assignment{"n": n}, 10, map[string]float64{"n": 2}))
	}
	samples = append(samples, engine.Sample{Assignment: spec.Assignment{"n": 50}, Succeeded: false, Err: "boom"})

	model, err := Analyze(op, samples, spec.MetricTime, Config{})
	require.NoError(t, err)
	assert.InDelta(t, 2, model.Slopes["n"], 1e-9)
}

func TestAnalyzeZeroComponentOperation(t *testing.T) {
	op := spec.OperationSpec{Module: "ledger", Name: "rotate_epoch"}

	samples := []engine.Sample{
		{Assignment: spec.Assignment{}, Elapsed: 90 * time.Nanosecond, Succeeded: true},
		{Assignment: spec.Assignment{}, Elapsed: 100 * time.Nanosecond, Succeeded: true},
		{Assignment: spec.Assignment{}, Elapsed: 110 * time.Nanosecond, Succeeded: true},
	}

	model, err := Analyze(op, samples, spec.MetricTime, Config{})
	require.NoError(t, err)
	assert.InDelta(t, 100, model.Base, 1e-9)
	assert.Empty(t, model.Slopes)
}

func TestAnalyzeAll(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}

	var samples []engine.Sample
	for _, n := range []int64{0, 50, 100} {
		samples = append(samples, engine.Sample{
			Assignment: spec.Assignment{"n": n},
			Elapsed:    time.Duration(10+2*n) * time.Nanosecond,
			Reads:      n,
			Writes:     2 * n,
			ProofSize:  16 * n,
			Succeeded:  true,
		})
	}

	result, err := AnalyzeAll(op, samples, 0, Config{})
	require.NoError(t, err)
	require.Len(t, result.Models, len(spec.Metrics))
	assert.Equal(t, 3, result.SampleCount)

	reads, ok := result.Model(spec.MetricReads)
	require.True(t, ok)
	assert.InDelta(t, 1, reads.Slopes["n"], 1e-9)

	proof, ok := result.Model(spec.MetricProofSize)
	require.True(t, ok)
	assert.InDelta(t, 16, proof.Slopes["n"], 1e-9)
}

func TestEstimate(t *testing.T) {
	m := &CostModel{Metric: spec.MetricTime, Base: 10, Slopes: map[string]float64{"n": 2}}
	assert.InDelta(t, 210, m.Estimate(spec.Assignment{"n": 100}), 1e-9)
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, median(nil))
	assert.Equal(t, 5.0, median([]float64{5}))
	assert.Equal(t, 2.5, median([]float64{1, 4, 2, 3}))
	assert.Equal(t, 3.0, median([]float64{5, 1, 3}))
}

func TestSolveLinearSystem(t *testing.T) {
	// 2x + y = 5, x + 3y = 10 -> x = 1, y = 3
	a := [][]float64{{2, 1}, {1, 3}}
	y := []float64{5, 10}
	b, err := solveLinearSystem(a, y)
	require.NoError(t, err)
	assert.InDelta(t, 1, b[0], 1e-9)
	assert.InDelta(t, 3, b[1], 1e-9)

	singular := [][]float64{{1, 2}, {2, 4}}
	_, err = solveLinearSystem(singular, []float64{1, 2})
	assert.Error(t, err)
}
