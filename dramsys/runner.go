package dramsys

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/dramtune/dramtune/metrics"
	"github.com/dramtune/dramtune/search"
)

// DefaultRunID prefixes the simulation identifiers of search evaluations.
const DefaultRunID = "genetic-algorithm"

// timePattern matches the execution time the simulator prints, e.g. "Total Time: 1234567 ps".
var timePattern = regexp.MustCompile(`(\d+)\s*ps`)

// RunResult is the outcome of running one configuration against a trace set.
type RunResult struct {
	Mean       float64            // mean time of successful traces; search.Failed if none succeeded
	Successful int                // traces that produced a time
	Results    map[string]float64 // instance ID -> time, or search.Failed
}

// Runner invokes the simulator executable once per trace.
type Runner struct {
	Executable  string        // simulator binary
	ConfigsRoot string        // directory configuration artifacts are written to
	Timeout     time.Duration // per invocation; zero means unbounded
	Executor    Executor
	Metrics     *metrics.Recorder
}

// NewRunner returns a Runner that starts real processes.
func NewRunner(executable, configsRoot string, timeout time.Duration) *Runner {
	return &Runner{
		Executable:  executable,
		ConfigsRoot: configsRoot,
		Timeout:     timeout,
		Executor:    ProcessExecutor{},
	}
}

// Run simulates cfg once per trace. Failures of individual traces are logged and recorded as
// search.Failed; Run itself never fails. With cleanup set, every artifact written is removed
// before Run returns.
func (r *Runner) Run(ctx context.Context, cfg *Configuration, traces []string, cleanup bool) RunResult {
	res := RunResult{Results: make(map[string]float64, len(traces))}
	total := 0.0
	for _, trace := range traces {
		instanceID := fmt.Sprintf("%s-%s", cfg.SimulationID, filepath.Base(trace))
		ps, ok := r.runTrace(ctx, cfg, instanceID, trace, cleanup)
		if !ok {
			res.Results[instanceID] = search.Failed
			continue
		}
		res.Results[instanceID] = float64(ps)
		total += float64(ps)
		res.Successful++
	}
	res.Mean = search.Failed
	if res.Successful > 0 {
		res.Mean = total / float64(res.Successful)
	}
	return res
}

// RunTrace simulates cfg against a single trace.
func (r *Runner) RunTrace(ctx context.Context, cfg *Configuration, trace string, cleanup bool) RunResult {
	return r.Run(ctx, cfg, []string{trace}, cleanup)
}

// ArtifactPath is where the configuration for instanceID is written.
func (r *Runner) ArtifactPath(instanceID string) string {
	return filepath.Join(r.ConfigsRoot, instanceID+".json")
}

func (r *Runner) runTrace(ctx context.Context, cfg *Configuration, instanceID, trace string, cleanup bool) (int64, bool) {
	path := r.ArtifactPath(instanceID)
	if cleanup {
		defer removeArtifact(path)
	}

	if err := WriteDocument(path, cfg.ForTrace(instanceID, trace)); err != nil {
		logrus.Errorf("Failed to execute '%s' with '%s': %v", r.Executable, path, err)
		r.Metrics.Invocation(metrics.OutcomeFailed, 0)
		return 0, false
	}
	logrus.Debugf("Running '%s' with '%s'", r.Executable, path)

	runCtx := ctx
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	start := time.Now()
	stdout, stderr, err := r.Executor.Execute(runCtx, r.Executable, path)
	elapsed := time.Since(start)

	switch {
	case errors.Is(runCtx.Err(), context.DeadlineExceeded):
		logrus.Errorf("Timed out after %v executing '%s' with '%s'", r.Timeout, r.Executable, path)
		r.Metrics.Invocation(metrics.OutcomeTimeout, elapsed)
		return 0, false
	case err != nil:
		logrus.Errorf("Failed to execute '%s' with '%s': %v %s", r.Executable, path, err, stderr)
		r.Metrics.Invocation(metrics.OutcomeFailed, elapsed)
		return 0, false
	case stderr != "":
		logrus.Errorf("Error executing '%s' with '%s': %s", r.Executable, path, stderr)
		r.Metrics.Invocation(metrics.OutcomeFailed, elapsed)
		return 0, false
	}

	ps, ok := parseTime(stdout)
	if !ok {
		logrus.Errorf("Failed to extract the execution time from '%s' with '%s'.", r.Executable, path)
		r.Metrics.Invocation(metrics.OutcomeParseError, elapsed)
		return 0, false
	}
	r.Metrics.Invocation(metrics.OutcomeOK, elapsed)
	return ps, true
}

// parseTime returns the first "<integer> ps" value in out.
func parseTime(out string) (int64, bool) {
	m := timePattern.FindStringSubmatch(out)
	if m == nil {
		return 0, false
	}
	ps, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, false
	}
	return ps, true
}

func removeArtifact(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.Warnf("Failed to remove configuration '%s': %v", path, err)
	}
}

// Evaluator returns a search.Evaluator that builds a configuration for each genotype and runs
// it against traces, cleaning up after itself. Each evaluation gets a unique simulation ID
// under runID so concurrent evaluations never share an artifact.
func (r *Runner) Evaluator(runID string, traces []string) search.Evaluator {
	return search.FitnessFunc(func(ctx context.Context, g search.Genotype) float64 {
		id := fmt.Sprintf("%s-%s", runID, uuid.NewString()[:8])
		cfg := Build(g, id, traces)
		res := r.Run(ctx, cfg, traces, true)
		logrus.Debugf("Evaluated %s: mean=%v successful=%d/%d", cfg.Identifier(), res.Mean, res.Successful, len(traces))
		return res.Mean
	})
}
