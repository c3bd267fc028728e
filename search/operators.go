package search

import "math/rand"

// Crossover builds a child by taking each gene from a or b with equal odds (uniform crossover).
func Crossover(a, b Genotype, rng *rand.Rand) Genotype {
	pick := func() bool { return rng.Intn(2) == 0 }
	child := b
	if pick() {
		child.AddressMapping = a.AddressMapping
	}
	if pick() {
		child.MCConfig = a.MCConfig
	}
	if pick() {
		child.MemSpec = a.MemSpec
	}
	if pick() {
		child.SimConfig = a.SimConfig
	}
	if pick() {
		child.ClkMHz = a.ClkMHz
	}
	return child
}

// Mutate returns a copy of g in which every gene, independently with probability rate, is
// replaced by a fresh uniform draw from its domain. A redraw may land on the same value.
func Mutate(g Genotype, d Domain, rate float64, rng *rand.Rand) Genotype {
	hit := func() bool { return rng.Float64() < rate }
	if hit() {
		g.AddressMapping = d.AddressMappings[rng.Intn(len(d.AddressMappings))]
	}
	if hit() {
		g.MCConfig = d.MCConfigs[rng.Intn(len(d.MCConfigs))]
	}
	if hit() {
		g.MemSpec = d.MemSpecs[rng.Intn(len(d.MemSpecs))]
	}
	if hit() {
		g.SimConfig = d.SimConfigs[rng.Intn(len(d.SimConfigs))]
	}
	if hit() {
		g.ClkMHz = d.ClockSpeeds[rng.Intn(len(d.ClockSpeeds))]
	}
	return g
}
