package analysis

import (
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// CostModel is a fitted linear cost formula for one metric:
// base + sum(slope_c * value_c) over the operation's components.
// Coefficients are raw fit output; integer rounding for accounting is the
// renderer's concern.
type CostModel struct {
	Metric spec.Metric        `json:"metric"`
	Base   float64            `json:"base"`
	Slopes map[string]float64 `json:"slopes,omitempty"`

	// Flags carries fit diagnostics, e.g. retained negative slopes.
	Flags []string `json:"flags,omitempty"`
}

// Estimate evaluates the model at the given assignment.
func (m *CostModel) Estimate(a spec.Assignment) float64 {
	out := m.Base
	for name, slope := range m.Slopes {
		out += slope * float64(a[name])
	}
	return out
}

// OperationResult is the terminal artifact of one operation's run: the
// fitted model per metric plus collection counts. Immutable once produced.
type OperationResult struct {
	Spec           spec.OperationSpec `json:"spec"`
	Models         []CostModel        `json:"models"`
	SampleCount    int                `json:"sample_count"`
	DiscardedCount int                `json:"discarded_count"`
}

// Model returns the fitted model for the given metric, if present.
func (r *OperationResult) Model(m spec.Metric) (*CostModel, bool) {
	for i := range r.Models {
		if r.Models[i].Metric == m {
			return &r.Models[i], true
		}
	}
	return nil, false
}
