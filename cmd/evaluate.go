package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dramtune/dramtune/dramsys"
	"github.com/dramtune/dramtune/search"
)

var (
	evaluateFlags      = defaultSearchConfig()
	evaluateConfigPath string
	evaluateGenotype   search.Genotype
	evaluateFromResult string // result file whose genotype is re-run
	keepArtifacts      bool
)

// evaluateCmd runs a single configuration against the trace set and reports per-trace times
var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Simulate one configuration against the trace set",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd, evaluateFlags, evaluateConfigPath)
		if err != nil {
			logrus.Fatalf("Invalid search config: %v", err)
		}
		g := evaluateGenotype
		if evaluateFromResult != "" {
			best, err := search.ReadResult(evaluateFromResult)
			if err != nil {
				logrus.Fatalf("Cannot load genotype: %v", err)
			}
			g = best.Genotype
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		res, err := runEvaluate(ctx, cfg, g, !keepArtifacts)
		if err != nil {
			logrus.Fatalf("Evaluation failed: %v", err)
		}
		printRunResult(os.Stdout, g, res)
	},
}

// runEvaluate simulates g against the configured traces.
func runEvaluate(ctx context.Context, cfg SearchConfig, g search.Genotype, cleanup bool) (dramsys.RunResult, error) {
	if g.AddressMapping == "" || g.MCConfig == "" || g.MemSpec == "" || g.SimConfig == "" || g.ClkMHz <= 0 {
		return dramsys.RunResult{}, fmt.Errorf("incomplete configuration %s: all five genes are required", g)
	}
	traces, err := resolveTraces(cfg.Traces)
	if err != nil {
		return dramsys.RunResult{}, err
	}
	runner := dramsys.NewRunner(cfg.Simulator, cfg.ConfigsRoot, cfg.Timeout)
	return runner.Run(ctx, dramsys.Build(g, cfg.RunID, traces), traces, cleanup), nil
}

// printRunResult writes the per-trace results in instance order followed by the aggregate.
func printRunResult(w io.Writer, g search.Genotype, res dramsys.RunResult) {
	ids := make([]string, 0, len(res.Results))
	for id := range res.Results {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Fprintln(w, "=== Evaluation ===")
	fmt.Fprintf(w, "Configuration : %s\n", g)
	for _, id := range ids {
		fmt.Fprintf(w, "  %-40s : %v ps\n", id, res.Results[id])
	}
	fmt.Fprintf(w, "Successful    : %d/%d\n", res.Successful, len(res.Results))
	fmt.Fprintf(w, "Mean          : %v ps\n", res.Mean)
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateConfigPath, "config", "", "YAML search config; explicitly set flags take precedence")
	evaluateCmd.Flags().StringVar(&evaluateGenotype.AddressMapping, "address-mapping", "", "Address mapping file")
	evaluateCmd.Flags().StringVar(&evaluateGenotype.MCConfig, "mc-config", "", "Memory controller config file")
	evaluateCmd.Flags().StringVar(&evaluateGenotype.MemSpec, "mem-spec", "", "Memory specification file")
	evaluateCmd.Flags().StringVar(&evaluateGenotype.SimConfig, "sim-config", "", "Simulator config file")
	evaluateCmd.Flags().IntVar(&evaluateGenotype.ClkMHz, "clk", search.DefaultClockSpeeds[0], "Clock speed in MHz")
	evaluateCmd.Flags().StringVar(&evaluateFromResult, "from-result", "", "Re-run the configuration stored in a result file")
	evaluateCmd.Flags().BoolVar(&keepArtifacts, "keep-artifacts", false, "Keep the generated configuration files")
	addSimulatorFlags(evaluateCmd, &evaluateFlags)
}
