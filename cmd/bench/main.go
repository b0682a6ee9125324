package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"

	"github.com/DjordjeVuckovic/weight-forge/internal/bench/analysis"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/collector"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/engine"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/render"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/report"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/runner"
	"github.com/DjordjeVuckovic/weight-forge/internal/bench/spec"
	"github.com/DjordjeVuckovic/weight-forge/internal/sandbox"
	"github.com/DjordjeVuckovic/weight-forge/internal/state/in_mem"
	storagefactory "github.com/DjordjeVuckovic/weight-forge/internal/storage/factory"
)

func main() {
	cfg := parseFlags()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	plan, err := spec.LoadFromFile(cfg.PlanPath)
	if err != nil {
		slog.Error("Failed to load plan", "path", cfg.PlanPath, "error", err)
		os.Exit(1)
	}
	if err := cfg.apply(plan); err != nil {
		slog.Error("Invalid overrides", "error", err)
		os.Exit(1)
	}

	registry := sandbox.NewRegistry()
	sandbox.RegisterLedger(registry)

	var ops []spec.OperationSpec
	for _, op := range registry.Specs() {
		if plan.WantsOperation(op) {
			ops = append(ops, op)
		}
	}
	if len(ops) == 0 {
		slog.Error("No operations selected", "modules", plan.Modules, "operations", plan.Operations)
		os.Exit(1)
	}

	rpt := runBench(ctx, plan, registry, ops, cfg.IncludeSamples)
	report.WriteTable(rpt, os.Stdout)

	if err := writeArtifacts(plan, rpt); err != nil {
		slog.Error("Failed to write artifacts", "error", err)
		os.Exit(1)
	}
	if plan.Archive != nil {
		if err := archiveRun(ctx, plan, rpt); err != nil {
			slog.Error("Failed to archive run", "error", err)
			os.Exit(1)
		}
	}

	if len(rpt.Failures) > 0 {
		slog.Error("Run finished with failed operations", "failed", len(rpt.Failures))
		os.Exit(1)
	}
}

func runBench(ctx context.Context, plan *spec.Plan, registry *sandbox.Registry, ops []spec.OperationSpec, includeSamples bool) *report.Report {
	var workerSeq atomic.Int64
	newExecutor := func() (engine.Executor, error) {
		rt := sandbox.NewInProcRuntime(registry, in_mem.NewStore())
		name := fmt.Sprintf("sandbox-%d", workerSeq.Add(1))
		return engine.NewSandboxExecutor(name, rt, plan.TrialTimeout), nil
	}

	runCfg := runner.Config{
		Trial:       plan.Trial,
		Collector:   collector.Config{DiscardThreshold: plan.DiscardThreshold},
		Analysis:    analysis.Config{TrimFraction: plan.TrimFraction, ClampNegative: plan.ClampNegative},
		Concurrency: plan.Concurrency,
	}

	r := runner.New(runCfg, newExecutor)
	result, err := r.RunAll(ctx, ops)
	if err != nil {
		slog.Error("Benchmark run failed", "error", err)
		os.Exit(1)
	}

	return report.Generate(result, report.NewMeta(plan.Trial), includeSamples)
}

func writeArtifacts(plan *spec.Plan, rpt *report.Report) error {
	if plan.Output.WeightsDir != "" {
		if err := writeWeights(plan, rpt); err != nil {
			return err
		}
	}

	if plan.Output.ResultsPath != "" {
		if err := report.WriteJSON(rpt, plan.Output.ResultsPath); err != nil {
			return err
		}
		slog.Info("Results written", "path", plan.Output.ResultsPath)
	}
	return nil
}

func writeWeights(plan *spec.Plan, rpt *report.Report) error {
	if err := os.MkdirAll(plan.Output.WeightsDir, 0o755); err != nil {
		return fmt.Errorf("create weights dir: %w", err)
	}

	renderCfg := render.Config{
		Trial:       plan.Trial,
		GeneratedAt: rpt.Meta.Timestamp,
	}
	for _, module := range rpt.ModulesOf() {
		src, err := render.Module(module, rpt.ModuleResults(module), renderCfg)
		if err != nil {
			return err
		}
		path := filepath.Join(plan.Output.WeightsDir, module+".go")
		if err := os.WriteFile(path, src, 0o644); err != nil {
			return fmt.Errorf("write weights for %s: %w", module, err)
		}
		slog.Info("Weights written", "module", module, "path", path)
	}
	return nil
}

func archiveRun(ctx context.Context, plan *spec.Plan, rpt *report.Report) error {
	storeCfg, err := storagefactory.FromPlan(plan.Archive)
	if err != nil {
		return err
	}
	storer, err := storagefactory.NewRunStorer(ctx, storeCfg)
	if err != nil {
		return err
	}
	defer storer.Close()

	return storer.SaveRun(ctx, rpt)
}
