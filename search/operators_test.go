package search

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCrossover_ChildGenesComeFromParents(t *testing.T) {
	a := Genotype{"am/a", "mc/a", "mem/a", "sim/a", 200}
	b := Genotype{"am/b", "mc/b", "mem/b", "sim/b", 800}
	rng := rand.New(rand.NewSource(3))

	seenA, seenB := false, false
	for i := 0; i < 500; i++ {
		c := Crossover(a, b, rng)
		assert.Contains(t, []string{a.AddressMapping, b.AddressMapping}, c.AddressMapping)
		assert.Contains(t, []string{a.MCConfig, b.MCConfig}, c.MCConfig)
		assert.Contains(t, []string{a.MemSpec, b.MemSpec}, c.MemSpec)
		assert.Contains(t, []string{a.SimConfig, b.SimConfig}, c.SimConfig)
		assert.Contains(t, []int{a.ClkMHz, b.ClkMHz}, c.ClkMHz)
		seenA = seenA || c.MemSpec == a.MemSpec
		seenB = seenB || c.MemSpec == b.MemSpec
	}
	// Uniform crossover draws per gene, so both parents contribute over many children.
	assert.True(t, seenA && seenB, "expected both parents to contribute")
}

func TestCrossover_DoesNotModifyParents(t *testing.T) {
	a := Genotype{"am/a", "mc/a", "mem/a", "sim/a", 200}
	b := Genotype{"am/b", "mc/b", "mem/b", "sim/b", 800}
	aCopy, bCopy := a, b
	Crossover(a, b, rand.New(rand.NewSource(1)))
	assert.Equal(t, aCopy, a)
	assert.Equal(t, bCopy, b)
}

func TestMutate_RateZero_NeverChanges(t *testing.T) {
	d := testDomain()
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 200; i++ {
		g := d.Random(rng)
		assert.Equal(t, g, Mutate(g, d, 0, rng))
	}
}

func TestMutate_RateOne_RedrawsEveryGene(t *testing.T) {
	// GIVEN a genotype none of whose genes belong to the domain
	d := testDomain()
	outside := Genotype{"x", "x", "x", "x", 1}
	rng := rand.New(rand.NewSource(5))

	for i := 0; i < 50; i++ {
		// WHEN mutated with rate 1
		m := Mutate(outside, d, 1, rng)
		// THEN every gene was replaced by a domain draw
		assert.True(t, d.Contains(m), "gene survived mutation: %s", m)
	}
}
