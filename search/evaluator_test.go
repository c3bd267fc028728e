package search

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedEvaluator_SecondLookupSkipsSimulation(t *testing.T) {
	// GIVEN an evaluator over a counting stub
	inner := &countingEvaluator{fn: func(Genotype) float64 { return 1000 }}
	eval := NewCachedEvaluator(inner, NewMemoryCache(), nil)
	g := Genotype{"am", "mc", "mem", "sim", 400}

	// WHEN the same genotype is evaluated twice
	first := eval.Fitness(context.Background(), g)
	second := eval.Fitness(context.Background(), g)

	// THEN the stub ran once and both results agree
	assert.Equal(t, 1, inner.count())
	assert.Equal(t, 1000.0, first)
	assert.Equal(t, first, second)
}

func TestCachedEvaluator_FailedResultIsCached(t *testing.T) {
	inner := &countingEvaluator{fn: func(Genotype) float64 { return Failed }}
	eval := NewCachedEvaluator(inner, NewMemoryCache(), nil)
	g := Genotype{"am", "mc", "mem", "sim", 400}

	assert.Equal(t, Failed, eval.Fitness(context.Background(), g))
	assert.Equal(t, Failed, eval.Fitness(context.Background(), g))
	assert.Equal(t, 1, inner.count())
}

func TestCachedEvaluator_ConcurrentRequestsCoalesce(t *testing.T) {
	// GIVEN a stub that blocks until released
	release := make(chan struct{})
	inner := &countingEvaluator{fn: func(Genotype) float64 {
		<-release
		return 42
	}}
	eval := NewCachedEvaluator(inner, NewMemoryCache(), nil)
	g := Genotype{"am", "mc", "mem", "sim", 800}

	// WHEN many goroutines ask for the same uncached genotype
	const callers = 8
	results := make([]float64, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = eval.Fitness(context.Background(), g)
		}()
	}
	close(release)
	wg.Wait()

	// THEN the simulator ran once and everyone saw its result
	assert.Equal(t, 1, inner.count())
	for _, r := range results {
		assert.Equal(t, 42.0, r)
	}
}

func TestCachedEvaluator_CancelledResultNotCached(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	inner := &countingEvaluator{fn: func(Genotype) float64 {
		cancel()
		return Failed
	}}
	cache := NewMemoryCache()
	eval := NewCachedEvaluator(inner, cache, nil)

	eval.Fitness(ctx, Genotype{"am", "mc", "mem", "sim", 200})
	assert.Equal(t, 0, cache.Len())
}

type brokenCache struct{}

func (brokenCache) Lookup(context.Context, Genotype) (float64, bool, error) {
	return 0, false, errors.New("disk on fire")
}

func (brokenCache) Store(context.Context, Genotype, float64) error {
	return errors.New("disk on fire")
}

func TestCachedEvaluator_CacheErrorsFallBackToSimulation(t *testing.T) {
	inner := &countingEvaluator{fn: func(Genotype) float64 { return 7 }}
	eval := NewCachedEvaluator(inner, brokenCache{}, nil)

	got := eval.Fitness(context.Background(), Genotype{"am", "mc", "mem", "sim", 200})
	require.Equal(t, 7.0, got)
	assert.Equal(t, 1, inner.count())
}

func TestFlightKey_DistinguishesSeparatorCollisions(t *testing.T) {
	a := Genotype{"x-y", "z", "m", "s", 200}
	b := Genotype{"x", "y-z", "m", "s", 200}
	assert.Equal(t, a.String(), b.String())
	assert.NotEqual(t, flightKey(a), flightKey(b))
}
