package search

import (
	"math"
	"sort"
)

// Failed is the fitness of a configuration that could not be simulated. It is worse than any
// finite fitness.
var Failed = math.Inf(1)

// Individual is a genotype plus its fitness. The genotype is never changed after creation;
// evolution always builds new individuals.
type Individual struct {
	Genotype  Genotype
	Fitness   float64 // mean execution time; Failed until evaluated
	Evaluated bool
}

// NewIndividual returns an unevaluated individual. Its fitness ranks as worst-possible.
func NewIndividual(g Genotype) Individual {
	return Individual{Genotype: g, Fitness: Failed}
}

// Population is an ordered sequence of individuals.
type Population []Individual

// Rank sorts the population ascending by fitness in place. The sort is stable so that equal
// fitness keeps insertion order, which keeps seeded runs reproducible.
func (p Population) Rank() {
	sort.SliceStable(p, func(i, j int) bool {
		return p[i].Fitness < p[j].Fitness
	})
}

// Best returns the lowest-fitness individual. The population must be non-empty.
func (p Population) Best() Individual {
	best := p[0]
	for _, ind := range p[1:] {
		if ind.Fitness < best.Fitness {
			best = ind
		}
	}
	return best
}

// Clone returns a copy that shares no backing array with p.
func (p Population) Clone() Population {
	out := make(Population, len(p))
	copy(out, p)
	return out
}
