package search

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/dramtune/dramtune/metrics"
)

// Evaluator computes the fitness of a genotype. Implementations must be safe for concurrent use.
type Evaluator interface {
	Fitness(ctx context.Context, g Genotype) float64
}

// FitnessFunc adapts a plain function to Evaluator.
type FitnessFunc func(ctx context.Context, g Genotype) float64

// Fitness calls f.
func (f FitnessFunc) Fitness(ctx context.Context, g Genotype) float64 {
	return f(ctx, g)
}

// CachedEvaluator serves fitness from a Cache and falls back to an inner Evaluator on a miss.
// Concurrent misses for the same genotype share one inner evaluation.
type CachedEvaluator struct {
	inner   Evaluator
	cache   Cache
	metrics *metrics.Recorder

	flights singleflight.Group
}

// NewCachedEvaluator wraps inner with cache. rec may be nil.
func NewCachedEvaluator(inner Evaluator, cache Cache, rec *metrics.Recorder) *CachedEvaluator {
	return &CachedEvaluator{inner: inner, cache: cache, metrics: rec}
}

// Fitness returns the cached fitness of g, evaluating and storing it first if needed.
// Cache errors are logged and treated as misses. Results computed after ctx was cancelled are
// returned but not stored.
func (e *CachedEvaluator) Fitness(ctx context.Context, g Genotype) float64 {
	if fitness, ok := e.lookup(ctx, g); ok {
		e.metrics.Lookup("hit")
		return fitness
	}
	e.metrics.Lookup("miss")

	v, _, shared := e.flights.Do(flightKey(g), func() (any, error) {
		// Another flight may have stored g between our lookup and acquiring this key.
		if fitness, ok := e.lookup(ctx, g); ok {
			return fitness, nil
		}
		fitness := e.inner.Fitness(ctx, g)
		if ctx.Err() != nil {
			return fitness, nil
		}
		if err := e.cache.Store(ctx, g, fitness); err != nil {
			logrus.Warnf("Failed to cache fitness for '%s': %v", g, err)
		}
		return fitness, nil
	})
	if shared {
		e.metrics.Lookup("coalesced")
	}
	return v.(float64)
}

func (e *CachedEvaluator) lookup(ctx context.Context, g Genotype) (float64, bool) {
	fitness, ok, err := e.cache.Lookup(ctx, g)
	if err != nil {
		logrus.Warnf("Fitness cache lookup for '%s' failed: %v", g, err)
		return 0, false
	}
	return fitness, ok
}

// flightKey uses a separator that cannot occur in file paths, unlike Genotype.String.
func flightKey(g Genotype) string {
	return strings.Join([]string{g.AddressMapping, g.MCConfig, g.MemSpec, g.SimConfig, strconv.Itoa(g.ClkMHz)}, "\x00")
}
