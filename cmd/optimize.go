package cmd

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dramtune/dramtune/dramsys"
	"github.com/dramtune/dramtune/metrics"
	"github.com/dramtune/dramtune/search"
	"github.com/dramtune/dramtune/search/store"
	"github.com/dramtune/dramtune/search/trace"
)

var (
	optimizeFlags      = defaultSearchConfig()
	optimizeConfigPath string // optional YAML search config
)

// optimizeCmd runs the genetic search and writes the best configuration found
var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Search for the configuration with the lowest simulated execution time",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := resolveConfig(cmd, optimizeFlags, optimizeConfigPath)
		if err != nil {
			logrus.Fatalf("Invalid search config: %v", err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		start := time.Now()
		best, err := runOptimize(ctx, cfg)
		if err != nil {
			logrus.Fatalf("Search failed: %v", err)
		}
		logrus.Infof("Search finished in %v | Fitness = %v | %s", time.Since(start).Round(time.Second), best.Fitness, best.Genotype)
	},
}

// runOptimize sets up the domain, cache, runner and metrics for cfg, runs the search and
// persists the winner. Setup errors are returned before the first generation.
func runOptimize(ctx context.Context, cfg SearchConfig) (search.Individual, error) {
	if err := cfg.Validate(); err != nil {
		return search.Individual{}, err
	}
	domain, err := dramsys.DiscoverDomain(cfg.ConfigsRoot, cfg.ClockSpeeds)
	if err != nil {
		return search.Individual{}, err
	}
	traces, err := resolveTraces(cfg.Traces)
	if err != nil {
		return search.Individual{}, err
	}
	logrus.Infof("Searching %d configurations (%d address mappings, %d MC configs, %d memspecs, %d sim configs, %d clocks) over %d traces",
		domain.Size(), len(domain.AddressMappings), len(domain.MCConfigs), len(domain.MemSpecs), len(domain.SimConfigs), len(domain.ClockSpeeds), len(traces))

	if cfg.Cache == store.BackendSQLite {
		if err := os.MkdirAll(filepath.Dir(cfg.CachePath), 0o755); err != nil {
			return search.Individual{}, fmt.Errorf("creating cache directory: %w", err)
		}
	}
	cache, err := store.NewCache(ctx, cfg.Cache, cfg.CachePath, cacheScope(cfg.Simulator, traces))
	if err != nil {
		return search.Individual{}, err
	}
	defer func() {
		if err := store.CloseIfSupported(cache); err != nil {
			logrus.Warnf("Closing fitness cache: %v", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.New(reg)

	runner := dramsys.NewRunner(cfg.Simulator, cfg.ConfigsRoot, cfg.Timeout)
	runner.Metrics = rec
	evaluator := search.NewCachedEvaluator(runner.Evaluator(cfg.RunID, traces), cache, rec)

	opt, err := search.NewOptimizer(cfg.searchConfig(), domain, evaluator)
	if err != nil {
		return search.Individual{}, err
	}
	st := trace.NewSearchTrace(cfg.Seed)
	opt.WithMetrics(rec).WithObserver(func(gen int, ranked search.Population) {
		st.RecordGeneration(generationRecord(gen, ranked))
	})

	var best search.Individual
	g, gctx := errgroup.WithContext(ctx)
	searchDone := make(chan struct{})
	g.Go(func() error {
		defer close(searchDone)
		var err error
		best, err = opt.Run(gctx)
		return err
	})
	if cfg.MetricsAddr != "" {
		g.Go(func() error {
			return serveMetrics(gctx, searchDone, cfg.MetricsAddr, reg)
		})
	}
	if err := g.Wait(); err != nil {
		return search.Individual{}, err
	}

	if err := search.WriteResult(cfg.Result, best); err != nil {
		return best, err
	}
	logrus.Infof("Best results saved to '%s'.", cfg.Result)
	if cfg.TraceOut != "" {
		if err := st.Write(cfg.TraceOut); err != nil {
			return best, err
		}
		logrus.Infof("Search trace saved to '%s'.", cfg.TraceOut)
	}
	return best, nil
}

// serveMetrics exposes reg until the search finishes or ctx is cancelled.
func serveMetrics(ctx context.Context, done <-chan struct{}, addr string, reg *prometheus.Registry) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Serving metrics on %s/metrics", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("metrics server: %w", err)
	case <-done:
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server shutdown: %w", err)
	}
	return nil
}

// generationRecord condenses a ranked population for the search trace.
func generationRecord(gen int, ranked search.Population) trace.GenerationRecord {
	rec := trace.GenerationRecord{
		Generation:  gen,
		BestFitness: ranked[0].Fitness,
		BestID:      ranked[0].Genotype.String(),
		Size:        len(ranked),
	}
	distinct := make(map[search.Genotype]struct{}, len(ranked))
	finite, total := 0, 0.0
	for _, ind := range ranked {
		distinct[ind.Genotype] = struct{}{}
		if ind.Fitness == search.Failed {
			rec.Failed++
			continue
		}
		finite++
		total += ind.Fitness
	}
	rec.Distinct = len(distinct)
	if finite > 0 {
		rec.MeanFitness = total / float64(finite)
	}
	return rec
}

// cacheScope fingerprints the simulator and trace set so a persistent cache never serves
// results measured against different workloads.
func cacheScope(simulator string, traces []string) string {
	h := sha256.New()
	h.Write([]byte(simulator))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(traces, "\x00")))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func init() {
	optimizeCmd.Flags().StringVar(&optimizeConfigPath, "config", "", "YAML search config; explicitly set flags take precedence")
	addSearchFlags(optimizeCmd, &optimizeFlags)
	addSimulatorFlags(optimizeCmd, &optimizeFlags)
}
