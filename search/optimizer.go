package search

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/dramtune/dramtune/metrics"
)

// Config holds the tunable parameters of the genetic search.
type Config struct {
	PopulationSize int                // individuals per generation
	Elites         int                // best individuals carried over unchanged
	MutationRate   float64            // per-gene probability of a fresh draw
	Generations    int                // generations to run; there is no early stop
	Seed           int64              // master seed for all search randomness
	Workers        int                // concurrent fitness evaluations
	Selection      SelectionWeighting // how fitness maps to parent weight
}

// DefaultConfig returns the default search parameters.
func DefaultConfig() Config {
	return Config{
		PopulationSize: 100,
		Elites:         5,
		MutationRate:   0.05,
		Generations:    100,
		Seed:           42,
		Workers:        1,
		Selection:      WeightInverse,
	}
}

// Validate checks parameter ranges.
func (c Config) Validate() error {
	if c.PopulationSize < 1 {
		return fmt.Errorf("population size must be at least 1, got %d", c.PopulationSize)
	}
	if c.Elites < 0 || c.Elites > c.PopulationSize {
		return fmt.Errorf("elites must be in [0, %d], got %d", c.PopulationSize, c.Elites)
	}
	if c.MutationRate < 0 || c.MutationRate > 1 {
		return fmt.Errorf("mutation rate must be in [0, 1], got %f", c.MutationRate)
	}
	if c.Generations < 1 {
		return fmt.Errorf("generations must be at least 1, got %d", c.Generations)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if !ValidSelectionWeightings[c.Selection] {
		return fmt.Errorf("unknown selection weighting %q", c.Selection)
	}
	return nil
}

// GenerationObserver is called once per generation with its 1-based index and the ranked
// population. The population must not be modified.
type GenerationObserver func(generation int, ranked Population)

// Optimizer evolves a population of genotypes toward the lowest fitness.
type Optimizer struct {
	cfg       Config
	domain    Domain
	evaluator Evaluator
	rng       *PartitionedRNG
	metrics   *metrics.Recorder
	observer  GenerationObserver

	current atomic.Pointer[Population]
}

// NewOptimizer validates cfg and domain and returns an optimizer ready to Run.
func NewOptimizer(cfg Config, domain Domain, evaluator Evaluator) (*Optimizer, error) {
	if cfg.Selection == "" {
		cfg.Selection = WeightInverse
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := domain.Validate(); err != nil {
		return nil, err
	}
	return &Optimizer{
		cfg:       cfg,
		domain:    domain,
		evaluator: evaluator,
		rng:       NewPartitionedRNG(NewSearchKey(cfg.Seed)),
	}, nil
}

// WithMetrics attaches a metrics recorder.
func (o *Optimizer) WithMetrics(rec *metrics.Recorder) *Optimizer {
	o.metrics = rec
	return o
}

// WithObserver registers a per-generation callback.
func (o *Optimizer) WithObserver(fn GenerationObserver) *Optimizer {
	o.observer = fn
	return o
}

// Population returns the most recently published population, or nil before Run starts.
// The returned slice is shared and must not be modified.
func (o *Optimizer) Population() Population {
	p := o.current.Load()
	if p == nil {
		return nil
	}
	return *p
}

func (o *Optimizer) publish(p Population) {
	o.current.Store(&p)
}

// InitialPopulation samples PopulationSize unevaluated individuals uniformly from the domain.
func (o *Optimizer) InitialPopulation() Population {
	rng := o.rng.ForSubsystem(SubsystemPopulation)
	pop := make(Population, o.cfg.PopulationSize)
	for i := range pop {
		pop[i] = NewIndividual(o.domain.Random(rng))
	}
	return pop
}

// Evaluate returns a copy of pop in which every unevaluated individual has its fitness set.
// Up to Workers evaluations run at once; each result lands in its own slot, so ordering is
// independent of scheduling.
func (o *Optimizer) Evaluate(ctx context.Context, pop Population) Population {
	out := pop.Clone()
	p := pool.New().WithMaxGoroutines(o.cfg.Workers)
	for i := range out {
		if out[i].Evaluated {
			continue
		}
		p.Go(func() {
			out[i].Fitness = o.evaluator.Fitness(ctx, out[i].Genotype)
			out[i].Evaluated = true
		})
	}
	p.Wait()
	return out
}

// NextGeneration builds the successor of a ranked population: the first Elites individuals
// unchanged, then children of selected parents until PopulationSize is reached.
func (o *Optimizer) NextGeneration(ranked Population) Population {
	next := make(Population, 0, o.cfg.PopulationSize)
	next = append(next, ranked[:min(o.cfg.Elites, len(ranked))]...)

	selRNG := o.rng.ForSubsystem(SubsystemSelection)
	crossRNG := o.rng.ForSubsystem(SubsystemCrossover)
	mutRNG := o.rng.ForSubsystem(SubsystemMutation)
	for len(next) < o.cfg.PopulationSize {
		a, b := SelectParents(ranked, o.cfg.Selection, selRNG)
		child := Crossover(a.Genotype, b.Genotype, crossRNG)
		child = Mutate(child, o.domain, o.cfg.MutationRate, mutRNG)
		next = append(next, NewIndividual(child))
	}
	return next
}

// Run executes the configured number of generations and returns the best individual of the
// final ranked population. Cancelling ctx stops the search between generations with an error.
func (o *Optimizer) Run(ctx context.Context) (Individual, error) {
	pop := o.InitialPopulation()
	o.publish(pop)

	for gen := 1; gen <= o.cfg.Generations; gen++ {
		if err := ctx.Err(); err != nil {
			return Individual{}, fmt.Errorf("search stopped before generation %d: %w", gen, err)
		}
		pop = o.Evaluate(ctx, pop)
		if err := ctx.Err(); err != nil {
			return Individual{}, fmt.Errorf("search stopped during generation %d: %w", gen, err)
		}
		pop.Rank()
		o.publish(pop)

		logrus.Infof("Generation %d of %d | Fitness = %v", gen, o.cfg.Generations, pop[0].Fitness)
		o.metrics.Generation(gen, pop[0].Fitness)
		if o.observer != nil {
			o.observer(gen, pop)
		}

		if gen < o.cfg.Generations {
			pop = o.NextGeneration(pop)
			o.publish(pop)
		}
	}
	return pop[0], nil
}
