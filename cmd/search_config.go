package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/dramtune/dramtune/dramsys"
	"github.com/dramtune/dramtune/search"
	"github.com/dramtune/dramtune/search/store"
)

// SearchConfig is everything a search run needs, loadable from YAML and overridable by flags.
// All keys must be listed here to satisfy KnownFields(true) strict parsing.
type SearchConfig struct {
	PopulationSize int           `yaml:"population_size"`
	Elites         int           `yaml:"elites"`
	MutationRate   float64       `yaml:"mutation_rate"`
	Generations    int           `yaml:"generations"`
	Seed           int64         `yaml:"seed"`
	Workers        int           `yaml:"workers"`
	Selection      string        `yaml:"selection"`
	ClockSpeeds    []int         `yaml:"clock_speeds"`
	ConfigsRoot    string        `yaml:"configs_root"`
	Simulator      string        `yaml:"simulator"`
	Traces         []string      `yaml:"traces"` // trace files or directories of trace files
	Timeout        time.Duration `yaml:"timeout"`
	RunID          string        `yaml:"run_id"`
	Cache          string        `yaml:"cache"`
	CachePath      string        `yaml:"cache_path"`
	Result         string        `yaml:"result"`
	TraceOut       string        `yaml:"trace_out"`
	MetricsAddr    string        `yaml:"metrics_addr"`
}

// defaultSearchConfig mirrors the DRAMSys checkout layout under the user's home directory.
func defaultSearchConfig() SearchConfig {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	configs := filepath.Join(home, "DRAMSys", "configs")
	defaults := search.DefaultConfig()
	return SearchConfig{
		PopulationSize: defaults.PopulationSize,
		Elites:         defaults.Elites,
		MutationRate:   defaults.MutationRate,
		Generations:    defaults.Generations,
		Seed:           defaults.Seed,
		Workers:        defaults.Workers,
		Selection:      string(defaults.Selection),
		ClockSpeeds:    append([]int(nil), search.DefaultClockSpeeds...),
		ConfigsRoot:    configs,
		Simulator:      filepath.Join(home, "DRAMSys", "build", "bin", "DRAMSys"),
		Traces:         []string{filepath.Join(configs, "traces", "synthetic")},
		RunID:          dramsys.DefaultRunID,
		Cache:          store.BackendMemory,
		CachePath:      filepath.Join(home, ".dramtune", "fitness.db"),
		Result:         filepath.Join(home, "genetic_algorithm.txt"),
	}
}

// loadSearchConfig decodes path over the defaults. Unknown keys are errors.
func loadSearchConfig(path string) (SearchConfig, error) {
	cfg := defaultSearchConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading search config: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing search config: %w", err)
	}
	return cfg, nil
}

// Validate checks the search parameters and names; filesystem checks happen at startup.
func (c SearchConfig) Validate() error {
	if err := c.searchConfig().Validate(); err != nil {
		return err
	}
	if len(c.ClockSpeeds) == 0 {
		return fmt.Errorf("at least one clock speed is required")
	}
	for _, clk := range c.ClockSpeeds {
		if clk <= 0 {
			return fmt.Errorf("clock speeds must be positive, got %d", clk)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("timeout must be non-negative, got %v", c.Timeout)
	}
	if !store.ValidBackends[c.Cache] {
		return fmt.Errorf("unknown cache backend %q", c.Cache)
	}
	if c.Cache == store.BackendSQLite && c.CachePath == "" {
		return fmt.Errorf("cache_path is required for the sqlite cache")
	}
	if c.Simulator == "" {
		return fmt.Errorf("simulator path is required")
	}
	return nil
}

func (c SearchConfig) searchConfig() search.Config {
	return search.Config{
		PopulationSize: c.PopulationSize,
		Elites:         c.Elites,
		MutationRate:   c.MutationRate,
		Generations:    c.Generations,
		Seed:           c.Seed,
		Workers:        c.Workers,
		Selection:      search.SelectionWeighting(c.Selection),
	}
}

// addSimulatorFlags registers the flags shared by every command that runs the simulator.
func addSimulatorFlags(cmd *cobra.Command, cfg *SearchConfig) {
	cmd.Flags().StringVar(&cfg.ConfigsRoot, "configs-root", cfg.ConfigsRoot, "Directory with addressmapping/mcconfig/memspec/simconfig option folders; artifacts are written here")
	cmd.Flags().StringVar(&cfg.Simulator, "simulator", cfg.Simulator, "Path to the DRAMSys executable")
	cmd.Flags().StringSliceVar(&cfg.Traces, "traces", cfg.Traces, "Comma-separated trace files or directories")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Per-invocation simulator timeout (0 = unbounded)")
	cmd.Flags().StringVar(&cfg.RunID, "run-id", cfg.RunID, "Prefix for simulation identifiers")
}

// addSearchFlags registers the genetic search flags.
func addSearchFlags(cmd *cobra.Command, cfg *SearchConfig) {
	cmd.Flags().IntVar(&cfg.PopulationSize, "population", cfg.PopulationSize, "Individuals per generation")
	cmd.Flags().IntVar(&cfg.Elites, "elites", cfg.Elites, "Best individuals carried over unchanged")
	cmd.Flags().Float64Var(&cfg.MutationRate, "mutation-rate", cfg.MutationRate, "Per-gene mutation probability")
	cmd.Flags().IntVar(&cfg.Generations, "generations", cfg.Generations, "Number of generations")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for all search randomness")
	cmd.Flags().IntVar(&cfg.Workers, "workers", cfg.Workers, "Concurrent fitness evaluations")
	cmd.Flags().StringVar(&cfg.Selection, "selection", cfg.Selection, "Parent selection weighting (inverse, raw)")
	cmd.Flags().IntSliceVar(&cfg.ClockSpeeds, "clock-speeds", cfg.ClockSpeeds, "Comma-separated clock speeds in MHz")
	cmd.Flags().StringVar(&cfg.Cache, "cache", cfg.Cache, "Fitness cache backend (memory, sqlite)")
	cmd.Flags().StringVar(&cfg.CachePath, "cache-path", cfg.CachePath, "Database file for the sqlite cache")
	cmd.Flags().StringVar(&cfg.Result, "result", cfg.Result, "File the best configuration is written to")
	cmd.Flags().StringVar(&cfg.TraceOut, "trace-out", cfg.TraceOut, "Optional YAML file for per-generation statistics")
	cmd.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Serve Prometheus metrics on this address while searching")
}

// resolveConfig returns flags unchanged when no config file is given. Otherwise the file is
// loaded and only flags the user set explicitly override it.
func resolveConfig(cmd *cobra.Command, flags SearchConfig, path string) (SearchConfig, error) {
	if path == "" {
		return flags, nil
	}
	cfg, err := loadSearchConfig(path)
	if err != nil {
		return cfg, err
	}
	overrides := map[string]func(){
		"population":    func() { cfg.PopulationSize = flags.PopulationSize },
		"elites":        func() { cfg.Elites = flags.Elites },
		"mutation-rate": func() { cfg.MutationRate = flags.MutationRate },
		"generations":   func() { cfg.Generations = flags.Generations },
		"seed":          func() { cfg.Seed = flags.Seed },
		"workers":       func() { cfg.Workers = flags.Workers },
		"selection":     func() { cfg.Selection = flags.Selection },
		"clock-speeds":  func() { cfg.ClockSpeeds = flags.ClockSpeeds },
		"configs-root":  func() { cfg.ConfigsRoot = flags.ConfigsRoot },
		"simulator":     func() { cfg.Simulator = flags.Simulator },
		"traces":        func() { cfg.Traces = flags.Traces },
		"timeout":       func() { cfg.Timeout = flags.Timeout },
		"run-id":        func() { cfg.RunID = flags.RunID },
		"cache":         func() { cfg.Cache = flags.Cache },
		"cache-path":    func() { cfg.CachePath = flags.CachePath },
		"result":        func() { cfg.Result = flags.Result },
		"trace-out":     func() { cfg.TraceOut = flags.TraceOut },
		"metrics-addr":  func() { cfg.MetricsAddr = flags.MetricsAddr },
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if override, ok := overrides[f.Name]; ok {
			override()
		}
	})
	return cfg, nil
}

// resolveTraces expands directories into the regular files they contain.
func resolveTraces(entries []string) ([]string, error) {
	var traces []string
	for _, entry := range entries {
		info, err := os.Stat(entry)
		if err != nil {
			return nil, fmt.Errorf("trace %s: %w", entry, err)
		}
		if !info.IsDir() {
			traces = append(traces, entry)
			continue
		}
		files, err := dramsys.ListFiles(entry)
		if err != nil {
			return nil, err
		}
		traces = append(traces, files...)
	}
	if len(traces) == 0 {
		return nil, fmt.Errorf("no trace files found in %v", entries)
	}
	return traces, nil
}
