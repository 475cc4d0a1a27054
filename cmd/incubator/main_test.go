package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ducminhle1904/incubator/cmd/common"
	errs "github.com/ducminhle1904/incubator/internal/errors"
	"github.com/ducminhle1904/incubator/internal/runner"
	"github.com/ducminhle1904/incubator/pkg/config"
	"github.com/ducminhle1904/incubator/pkg/incubator"
	"github.com/ducminhle1904/incubator/pkg/reporting"
)

func parseRunFlags(t *testing.T, args ...string) (*RunFlags, map[string]bool) {
	t.Helper()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	f := NewRunFlags(fs)
	require.NoError(t, fs.Parse(args))
	return f, common.SetFlags(fs)
}

func TestApplyFlags_OnlyExplicitFlags(t *testing.T) {
	cfg := config.DefaultRunConfig()
	cfg.Run.Trials = 7

	f, set := parseRunFlags(t, "-gen-size", "20", "-crossover", "two-point", "-mutation", "insert", "-formats", "console, Excel", "-no-stop")
	v := common.NewFlagValidator()
	ApplyFlags(cfg, f, set, v)

	require.False(t, v.HasErrors(), v.GetErrors())
	assert.Equal(t, 20, cfg.Engine.GenSize)
	assert.Equal(t, incubator.TwoPoint, cfg.Engine.CrossoverType)
	assert.Equal(t, incubator.Generative, cfg.Engine.MutationType)
	assert.Equal(t, []string{config.FormatConsole, config.FormatExcel}, cfg.Output.Formats)
	assert.False(t, cfg.Run.StopWhenSolved)
	// unset flags keep the loaded value
	assert.Equal(t, 7, cfg.Run.Trials)
}

func TestApplyFlags_CollectsErrors(t *testing.T) {
	cfg := config.DefaultRunConfig()

	f, set := parseRunFlags(t, "-mutation-rate", "1.5", "-crossover", "uniform", "-formats", "pdf", "-workers", "0")
	v := common.NewFlagValidator()
	ApplyFlags(cfg, f, set, v)

	assert.Len(t, v.GetErrors(), 4)
	assert.Equal(t, incubator.SinglePoint, cfg.Engine.CrossoverType)
}

func TestRun_WritesReports(t *testing.T) {
	dir := t.TempDir()
	var out bytes.Buffer

	err := run(context.Background(), []string{
		"-env", filepath.Join(dir, "missing.env"),
		"-target", "abba",
		"-alphabet", "ab",
		"-gen-size", "12",
		"-generations", "10",
		"-trials", "3",
		"-workers", "2",
		"-formats", "console,csv,json,xlsx",
		"-output", dir,
		"-log-dir", filepath.Join(dir, "logs"),
		"-save-config",
		"-no-emojis",
	}, &out)
	require.NoError(t, err)

	reportDir := reporting.DefaultOutputDir(dir, "abba", string(incubator.SinglePoint), string(incubator.AlleleSwap))
	assert.FileExists(t, filepath.Join(reportDir, reporting.HistoryCSVFile))
	assert.FileExists(t, filepath.Join(reportDir, reporting.SummaryJSONFile))
	assert.FileExists(t, filepath.Join(reportDir, reporting.WorkbookFile))
	assert.FileExists(t, filepath.Join(reportDir, config.EffectiveConfigFile))

	saved, err := config.NewManager().LoadConfig(filepath.Join(reportDir, config.EffectiveConfigFile), filepath.Join(dir, "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, 12, saved.Engine.GenSize)
	assert.Equal(t, 3, saved.Run.Trials)

	assert.Contains(t, out.String(), "TRIAL RESULTS")
	assert.Contains(t, out.String(), "Completed 3/3 trials")
}

func smallRunArgs(dir string, extra ...string) []string {
	args := []string{
		"-env", filepath.Join(dir, "missing.env"),
		"-target", "abba",
		"-alphabet", "ab",
		"-gen-size", "10",
		"-generations", "5",
		"-trials", "2",
		"-workers", "1",
		"-log-dir", filepath.Join(dir, "logs"),
		"-no-emojis",
	}
	return append(args, extra...)
}

// lockedBuffer serializes writes from the console logger and the log mirror
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestRun_VerboseShowsTimeRemaining(t *testing.T) {
	dir := t.TempDir()
	var out lockedBuffer

	require.NoError(t, run(context.Background(), smallRunArgs(dir, "-formats", "console", "-output", dir, "-verbose"), &out))
	assert.Contains(t, out.String(), "[DEBUG] Trial trial-001 finished")
	assert.Contains(t, out.String(), "(2/2), about 0ms remaining")
}

func TestRun_ReportFailureIsIO(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := run(context.Background(), smallRunArgs(dir, "-formats", "console,csv", "-output", blocker), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to write reports")
	assert.Equal(t, errs.ErrorCategoryIO, errs.CategoryOf(err))
	assert.ErrorIs(t, err, &errs.IncubatorError{Category: errs.ErrorCategoryIO})
}

func TestRun_SaveConfigFailureIsIO(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "not-a-dir")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))

	err := run(context.Background(), smallRunArgs(dir, "-formats", "console", "-output", blocker, "-save-config"), io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to save configuration")
	assert.Equal(t, errs.ErrorCategoryIO, errs.CategoryOf(err))
}

func TestRun_FlagRepairsEnvFileValue(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("INCUBATOR_GEN_SIZE=1\n"), 0644))

	args := smallRunArgs(dir, "-formats", "console", "-output", dir)
	args[1] = envFile
	require.NoError(t, run(context.Background(), args, io.Discard))

	// without the flag the env file value is rejected after loading
	args = smallRunArgs(dir, "-formats", "console", "-output", dir)
	args[1] = envFile
	args = append(args[:6], args[8:]...)
	err := run(context.Background(), args, io.Discard)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration validation failed")
}

func TestRun_InvalidFlags(t *testing.T) {
	var out bytes.Buffer
	err := run(context.Background(), []string{"-crossover", "uniform", "-log-dir", t.TempDir()}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown crossover type")

	err = run(context.Background(), []string{"-config", filepath.Join(t.TempDir(), "nope.json")}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file does not exist")

	err = run(context.Background(), []string{"-target", "xyz", "-alphabet", "ab", "-log-dir", t.TempDir()}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not in the alphabet")
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), []string{"-version"}, &out))
	assert.Contains(t, out.String(), AppName+" v"+common.ProjectVersion)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dir := t.TempDir()
	err := run(ctx, []string{"-env", filepath.Join(dir, "missing.env"), "-log-dir", dir, "-output", dir}, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTrialFailures(t *testing.T) {
	assert.NoError(t, trialFailures([]runner.TrialResult{{ID: "a"}}))

	boom := errors.New("boom")
	err := trialFailures([]runner.TrialResult{{ID: "a"}, {ID: "b", Error: boom}})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "1 of 2 trials failed (0 contract violations, 1 other)")
}

func TestTrialFailures_SeparatesContractViolations(t *testing.T) {
	empty := fmt.Errorf("generation 4: %w", errs.NewEmptySpecimenError("mutation", "destructive"))
	oracle := errs.NewOracleError("oracle", "Imprint", errors.New("scoring failed"))

	err := trialFailures([]runner.TrialResult{
		{ID: "a", Error: empty},
		{ID: "b", Error: oracle},
		{ID: "c", Error: errs.NewConfigurationError("engine", "NewIncubator", "gen size must be at least 2, got 1")},
		{ID: "d"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 of 4 trials failed (2 contract violations, 1 other)")
	assert.ErrorIs(t, err, errs.ErrEmptySpecimen)
	assert.ErrorIs(t, err, errs.ErrInvalidConfiguration)
}
