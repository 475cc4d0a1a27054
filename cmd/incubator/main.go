package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ducminhle1904/incubator/cmd/common"
	errs "github.com/ducminhle1904/incubator/internal/errors"
	"github.com/ducminhle1904/incubator/internal/logger"
	"github.com/ducminhle1904/incubator/internal/monitoring"
	"github.com/ducminhle1904/incubator/internal/runner"
	"github.com/ducminhle1904/incubator/pkg/config"
	"github.com/ducminhle1904/incubator/pkg/incubator"
	"github.com/ducminhle1904/incubator/pkg/reporting"
)

const (
	AppName = "Incubator"

	shutdownTimeout = 5 * time.Second
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		common.Error("%v", err)
		stop()
		os.Exit(1)
	}
}

func usage() *common.UsageFormatter {
	return common.NewUsageFormatter(AppName, "Evolves a population of phrases towards a target").
		AddExample("incubator -target \"hello world\" -generations 500", "Evolve the default alphabet towards a phrase").
		AddExample("incubator -trials 8 -workers 4 -formats console,csv,xlsx", "Run eight seeded trials and write reports").
		AddExample("incubator -crossover two_point -mutation generative -metrics-addr :9090", "Serve metrics while evolving")
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("incubator", flag.ContinueOnError)
	fs.SetOutput(out)
	commonFlags := common.RegisterCommonFlags(fs)
	runFlags := NewRunFlags(fs)
	if err := fs.Parse(args); err != nil {
		return err
	}

	if common.CheckHelpAndVersion(out, AppName, commonFlags, usage(), fs) {
		return nil
	}

	cli := common.NewLogger()
	cli.Out = out
	common.SetupLogger(cli, commonFlags)

	// Configuration: defaults, JSON file, env file, process env, then flags
	v := common.NewFlagValidator().ValidateFile("config", *commonFlags.ConfigFile, false)
	if v.HasErrors() {
		return v.GetError()
	}

	manager := config.NewManager()
	cfg, err := manager.LoadConfig(*commonFlags.ConfigFile, *commonFlags.EnvFile)
	if err != nil {
		return err
	}

	ApplyFlags(cfg, runFlags, common.SetFlags(fs), v)
	if *commonFlags.Verbose {
		cfg.Output.Verbose = true
	}
	if v.HasErrors() {
		return v.GetError()
	}
	if err := manager.ValidateConfig(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	cli.Header(AppName)
	reports := reporting.NewReportingManager(cfg, out)
	reports.ReportConfig()

	// Run log, mirrored to the console in verbose mode
	var mirror io.Writer
	if cfg.Output.Verbose && !*commonFlags.Silent {
		mirror = out
	}
	fileLog, err := logger.NewLogger(cfg.Output.LogDir, "incubator", mirror)
	if err != nil {
		return err
	}
	defer fileLog.Close()

	fileLog.Info("Configuration: target=%q gen_size=%d rate=%.4f crossover=%s mutation=%s trials=%d workers=%d seed=%d",
		cfg.Problem.Target, cfg.Engine.GenSize, cfg.Engine.MutationRate, cfg.Engine.CrossoverType,
		cfg.Engine.MutationType, cfg.Run.Trials, cfg.Run.Workers, cfg.Run.Seed)

	health := monitoring.NewHealthChecker()
	if cfg.Monitoring.MetricsAddr != "" {
		srv := startMonitoringServer(cfg.Monitoring.MetricsAddr, health, cli)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				cli.Warn("Monitoring server shutdown: %v", err)
			}
		}()
		cli.Info("Serving /metrics and /health on %s", cfg.Monitoring.MetricsAddr)
	}

	trials := runner.TrialConfigs(cfg)
	progress := runner.NewProgressTracker(len(trials))
	onTrialDone := func(result runner.TrialResult) {
		completed, total, _, _ := progress.GetProgress()
		cli.Debug("Trial %s finished (%d/%d), about %s remaining",
			result.ID, completed, total, common.FormatDuration(progress.EstimateTimeRemaining()))
	}
	opts := runner.Options{
		NewObserver: func(id string) incubator.Observer {
			return monitoring.NewRecorder(id, health)
		},
		OnBest:      monitoring.UpdateBestScore,
		OnTrialDone: onTrialDone,
		Logger:      fileLog,
	}

	cli.Progress("Running %d trial(s) on %d worker(s)", len(trials), min(cfg.Run.Workers, len(trials)))
	health.SetRunning(true)
	results, err := runner.RunTrials(ctx, trials, cfg.Run.Workers, opts, progress)
	health.SetRunning(false)
	if err != nil {
		fileLog.LogError("run", err)
		return fmt.Errorf("run interrupted: %w", err)
	}

	completed, total, _, elapsed := progress.GetProgress()
	fileLog.Status("Completed %d/%d trials in %s", completed, total, elapsed)
	cli.Info("Completed %d/%d trials in %s", completed, total, common.FormatDuration(elapsed))

	written, err := reports.ReportResults(results)
	if err != nil {
		return fmt.Errorf("failed to write reports: %w", errs.WrapError(err, errs.ErrorCategoryIO, "reporting", "ReportResults"))
	}
	if *runFlags.SaveConfig {
		path := filepath.Join(reports.OutputDir(), config.EffectiveConfigFile)
		if err := manager.SaveConfig(cfg, path); err != nil {
			return fmt.Errorf("failed to save configuration: %w", errs.WrapError(err, errs.ErrorCategoryIO, "config", "SaveConfig"))
		}
		written = append(written, path)
	}
	for _, path := range written {
		cli.Success("Saved %s", path)
	}
	cli.Info("Log written to %s", fileLog.GetLogPath())

	return trialFailures(results)
}

// startMonitoringServer serves the metrics and health endpoints in the background
func startMonitoringServer(addr string, health *monitoring.HealthChecker, cli *common.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", monitoring.NewMetricsHandler())
	mux.Handle("/health", health)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			cli.Warn("Monitoring server stopped: %v", err)
		}
	}()
	return srv
}

// trialFailures joins the errors of failed trials, nil when every trial succeeded.
// Contract violations are counted apart from collaborator and other failures.
func trialFailures(results []runner.TrialResult) error {
	var failures []error
	violations := 0
	for _, res := range results {
		if res.Error == nil {
			continue
		}
		failures = append(failures, fmt.Errorf("%s: %w", res.ID, res.Error))

		var ie *errs.IncubatorError
		if errors.As(res.Error, &ie) && ie.IsContractViolation() {
			violations++
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d trials failed (%d contract violations, %d other): %w",
		len(failures), len(results), violations, len(failures)-violations, errors.Join(failures...))
}
