package main

import (
	"flag"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/pkg/utils"
)

type cliConfig struct {
	PlanPath       string
	Modules        string
	Operations     string
	Steps          int
	Repeats        int
	Concurrency    int
	TrialTimeout   time.Duration
	LowestOnly     bool
	HighestOnly    bool
	Output         string
	WeightsDir     string
	IncludeSamples bool
}

func parseFlags() cliConfig {
	cfg := cliConfig{}

	flag.StringVar(&cfg.PlanPath, "plan", "configs/bench/default.yaml", "Path to benchmark plan YAML")
	flag.StringVar(&cfg.Modules, "modules", "", "Module selector override, comma-separated")
	flag.StringVar(&cfg.Operations, "operations", "", "Operation selector override, comma-separated")
	flag.IntVar(&cfg.Steps, "steps", 0, "Sweep steps per component (overrides plan)")
	flag.IntVar(&cfg.Repeats, "repeats", 0, "Repeats per assignment (overrides plan)")
	flag.IntVar(&cfg.Concurrency, "concurrency", 0, "Parallel operation workers (overrides plan)")
	flag.DurationVar(&cfg.TrialTimeout, "timeout", 0, "Per-trial timeout (overrides plan)")
	flag.BoolVar(&cfg.LowestOnly, "lowest", false, "Pin every component to its range minimum")
	flag.BoolVar(&cfg.HighestOnly, "highest", false, "Pin every component to its range maximum")
	flag.StringVar(&cfg.Output, "output", "", "Results JSON path (overrides plan)")
	flag.StringVar(&cfg.WeightsDir, "weights-dir", "", "Generated weights directory (overrides plan)")
	flag.BoolVar(&cfg.IncludeSamples, "include-samples", false, "Embed raw samples in the results JSON")

	flag.Parse()
	return cfg
}

// apply folds CLI overrides into the loaded plan. Flags win over the plan
// so a rerun can narrow scope without editing the YAML.
func (c cliConfig) apply(p *spec.Plan) error {
	if c.Modules != "" {
		p.Modules = splitSelector(c.Modules)
	}
	if c.Operations != "" {
		p.Operations = splitSelector(c.Operations)
	}
	if c.Steps > 0 {
		p.Trial.Steps = c.Steps
	}
	if c.Repeats > 0 {
		p.Trial.Repeats = c.Repeats
	}
	if c.Concurrency > 0 {
		p.Concurrency = c.Concurrency
	}
	if c.TrialTimeout > 0 {
		p.TrialTimeout = c.TrialTimeout
	}
	if c.LowestOnly {
		p.Trial.LowestRangeOnly = true
	}
	if c.HighestOnly {
		p.Trial.HighestRangeOnly = true
	}
	if c.Output != "" {
		p.Output.ResultsPath = c.Output
	}
	if c.WeightsDir != "" {
		p.Output.WeightsDir = c.WeightsDir
	}
	return p.Trial.Validate()
}

func splitSelector(s string) []string {
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return utils.RemoveEmptyStrings(parts)
}
