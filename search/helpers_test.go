package search

import (
	"context"
	"sync"
)

func testDomain() Domain {
	return Domain{
		AddressMappings: []string{"am/a.json", "am/bb.json", "am/ccc.json", "am/dddd.json"},
		MCConfigs:       []string{"mc/fifo.json", "mc/frfcfs.json"},
		MemSpecs:        []string{"mem/ddr4.json", "mem/ddr5.json", "mem/lpddr4.json"},
		SimConfigs:      []string{"sim/example.json"},
		ClockSpeeds:     []int{200, 400, 800},
	}
}

// countingEvaluator records every genotype it is asked to evaluate.
type countingEvaluator struct {
	mu    sync.Mutex
	calls []Genotype
	fn    func(Genotype) float64
}

func (c *countingEvaluator) Fitness(_ context.Context, g Genotype) float64 {
	c.mu.Lock()
	c.calls = append(c.calls, g)
	c.mu.Unlock()
	return c.fn(g)
}

func (c *countingEvaluator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func addressLength(g Genotype) float64 {
	return float64(len(g.AddressMapping))
}
