package search

import (
	"context"
	"sync"
)

// Cache memoizes fitness per genotype. Entries are never evicted within a run; storing a
// genotype again overwrites its value.
type Cache interface {
	Lookup(ctx context.Context, g Genotype) (float64, bool, error)
	Store(ctx context.Context, g Genotype, fitness float64) error
}

type clockLevel map[int]float64
type simConfigLevel map[string]clockLevel
type memSpecLevel map[string]simConfigLevel
type mcConfigLevel map[string]memSpecLevel

// MemoryCache is a five-level nested map keyed gene by gene in genotype order
// (address mapping, MC config, memory spec, sim config, clock). It is safe for concurrent use.
type MemoryCache struct {
	mu   sync.RWMutex
	root map[string]mcConfigLevel
}

// NewMemoryCache returns an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{root: make(map[string]mcConfigLevel)}
}

// Lookup reports the stored fitness for g. A missing key at any level is a miss.
func (c *MemoryCache) Lookup(_ context.Context, g Genotype) (float64, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	fitness, ok := c.root[g.AddressMapping][g.MCConfig][g.MemSpec][g.SimConfig][g.ClkMHz]
	return fitness, ok, nil
}

// Store records fitness for g, creating intermediate levels as needed.
func (c *MemoryCache) Store(_ context.Context, g Genotype, fitness float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	mc, ok := c.root[g.AddressMapping]
	if !ok {
		mc = make(mcConfigLevel)
		c.root[g.AddressMapping] = mc
	}
	mem, ok := mc[g.MCConfig]
	if !ok {
		mem = make(memSpecLevel)
		mc[g.MCConfig] = mem
	}
	sim, ok := mem[g.MemSpec]
	if !ok {
		sim = make(simConfigLevel)
		mem[g.MemSpec] = sim
	}
	clk, ok := sim[g.SimConfig]
	if !ok {
		clk = make(clockLevel)
		sim[g.SimConfig] = clk
	}
	clk[g.ClkMHz] = fitness
	return nil
}

// Len returns the number of cached genotypes.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	n := 0
	for _, mc := range c.root {
		for _, mem := range mc {
			for _, sim := range mem {
				for _, clk := range sim {
					n += len(clk)
				}
			}
		}
	}
	return n
}
