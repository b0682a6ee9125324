package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/analysis"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
)

// WriteTable prints a human-readable run summary.
func WriteTable(r *Report, w io.Writer) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "\n=== Weight Benchmark ===\n")
	fmt.Fprintf(tw, "run: %s\tsteps: %d\trepeats: %d\n\n",
		r.Meta.RunID, r.Meta.Trial.Steps, r.Meta.Trial.Repeats)

	fmt.Fprintln(tw, "Operation\tMetric\tBase\tSlopes\tSamples\tDiscarded")
	fmt.Fprintln(tw, "---\t---\t---\t---\t---\t---")

	for _, op := range r.Operations {
		for _, m := range op.Models {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%d\n",
				op.Spec.ID(),
				m.Metric,
				formatCoefficient(m.Metric, m.Base),
				formatSlopes(&m),
				op.SampleCount,
				op.DiscardedCount,
			)
		}
	}

	if len(r.Failures) > 0 {
		fmt.Fprintf(tw, "\nFailed operations\n")
		for _, f := range r.Failures {
			fmt.Fprintf(tw, "%s.%s\t%s\n", f.Module, f.Operation, f.Error)
		}
	}

	tw.Flush()
}

func formatSlopes(m *analysis.CostModel) string {
	if len(m.Slopes) == 0 {
		return "-"
	}
	names := make([]string, 0, len(m.Slopes))
	for name := range m.Slopes {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%s", name, formatCoefficient(m.Metric, m.Slopes[name])))
	}
	return strings.Join(parts, " ")
}

func formatCoefficient(metric spec.Metric, v float64) string {
	if metric == spec.MetricTime {
		return time.Duration(v).Round(time.Nanosecond).String()
	}
	return fmt.Sprintf("%.2f", v)
}
