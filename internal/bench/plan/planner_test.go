package plan

import (
	"testing"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func drain(t *testing.T, s *Sweep) []spec.Assignment {
	t.Helper()
	var out []spec.Assignment
	for {
		a, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, a)
	}
}

func TestSweepCounts(t *testing.T) {
	op := spec.OperationSpec{
		Module: "ledger",
		Name:   "transfer",
		Components: []spec.Component{
			{Name: "s", Min: 0, Max: 100},
			{Name: "r", Min: 0, Max: 100},
		},
	}

	tests := []struct {
		name    string
		steps   int
		repeats int
	}{
		{"single step", 1, 1},
		{"typical", 5, 3},
		{"many repeats", 2, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSweep(op, spec.TrialConfig{Steps: tt.steps, Repeats: tt.repeats})
			require.NoError(t, err)

			got := drain(t, s)
			want := len(op.Components) * tt.steps * tt.repeats
			assert.Len(t, got, want)
			assert.Equal(t, want, s.Count())

			// each distinct assignment appears exactly `repeats` times
			counts := make(map[string]int)
			for _, a := range got {
				counts[a.Key()]++
			}
			for key, n := range counts {
				assert.Equal(t, tt.repeats, n, "assignment %s", key)
			}
		})
	}
}

func TestSweepDistinctPerComponent(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}
	s, err := NewSweep(op, spec.TrialConfig{Steps: 5, Repeats: 1})
	require.NoError(t, err)

	got := drain(t, s)
	require.Len(t, got, 5)
	assert.Equal(t, int64(0), got[0]["n"])
	assert.Equal(t, int64(25), got[1]["n"])
	assert.Equal(t, int64(50), got[2]["n"])
	assert.Equal(t, int64(75), got[3]["n"])
	assert.Equal(t, int64(100), got[4]["n"])
}

func TestSweepEndpointsInclusive(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 7, Max: 91}},
	}
	s, err := NewSweep(op, spec.TrialConfig{Steps: 2, Repeats: 1})
	require.NoError(t, err)

	got := drain(t, s)
	require.Len(t, got, 2)
	assert.Equal(t, int64(7), got[0]["n"])
	assert.Equal(t, int64(91), got[1]["n"])
}

func TestSweepSingleStepUsesMin(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 3, Max: 50}},
	}
	s, err := NewSweep(op, spec.TrialConfig{Steps: 1, Repeats: 4})
	require.NoError(t, err)

	got := drain(t, s)
	require.Len(t, got, 4)
	for _, a := range got {
		assert.Equal(t, int64(3), a["n"])
	}
}

func TestSweepZeroComponents(t *testing.T) {
	op := spec.OperationSpec{Module: "ledger", Name: "rotate_epoch"}
	s, err := NewSweep(op, spec.TrialConfig{Steps: 10, Repeats: 3})
	require.NoError(t, err)

	got := drain(t, s)
	require.Len(t, got, 3)
	for _, a := range got {
		assert.Empty(t, a)
	}
}

func TestSweepPinsOtherComponents(t *testing.T) {
	op := spec.OperationSpec{
		Module: "ledger",
		Name:   "transfer",
		Components: []spec.Component{
			{Name: "s", Min: 1, Max: 10},
			{Name: "r", Min: 2, Max: 20},
		},
	}

	t.Run("default pins at min", func(t *testing.T) {
		s, err := NewSweep(op, spec.TrialConfig{Steps: 3, Repeats: 1})
		require.NoError(t, err)
		got := drain(t, s)
		// while sweeping s, r stays at its min
		assert.Equal(t, int64(2), got[0]["r"])
		assert.Equal(t, int64(2), got[1]["r"])
		assert.Equal(t, int64(2), got[2]["r"])
		// while sweeping r, s stays at its min
		assert.Equal(t, int64(1), got[3]["s"])
		assert.Equal(t, int64(1), got[5]["s"])
	})

	t.Run("highest range pins at max", func(t *testing.T) {
		s, err := NewSweep(op, spec.TrialConfig{Steps: 3, Repeats: 1, HighestRangeOnly: true})
		require.NoError(t, err)
		got := drain(t, s)
		assert.Equal(t, int64(20), got[0]["r"])
		assert.Equal(t, int64(10), got[3]["s"])
	})
}

func TestSweepRestartable(t *testing.T) {
	op := spec.OperationSpec{
		Module:     "ledger",
		Name:       "deposit",
		Components: []spec.Component{{Name: "n", Min: 0, Max: 100}},
	}
	s, err := NewSweep(op, spec.TrialConfig{Steps: 4, Repeats: 2})
	require.NoError(t, err)

	first := drain(t, s)
	s.Reset()
	second := drain(t, s)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Key(), second[i].Key(), "position %d", i)
	}
}

func TestSweepRejectsInvalidConfig(t *testing.T) {
	op := spec.OperationSpec{Module: "m", Name: "o"}

	_, err := NewSweep(op, spec.TrialConfig{Steps: 0, Repeats: 1})
	assert.Error(t, err)
	_, err = NewSweep(op, spec.TrialConfig{Steps: 1, Repeats: 0})
	assert.Error(t, err)

	bad := spec.OperationSpec{
		Module:     "m",
		Name:       "o",
		Components: []spec.Component{{Name: "v", Min: 10, Max: 1}},
	}
	_, err = NewSweep(bad, spec.TrialConfig{Steps: 1, Repeats: 1})
	assert.Error(t, err)
}
