package search

import (
	"fmt"
	"math"
	"math/rand"
)

// SelectionWeighting decides how fitness maps to a parent's selection weight.
type SelectionWeighting string

const (
	// WeightInverse weights by 1/(1+fitness) so that faster configurations are preferred.
	WeightInverse SelectionWeighting = "inverse"
	// WeightRaw weights by the fitness value itself, favouring slower configurations.
	WeightRaw SelectionWeighting = "raw"
)

// ValidSelectionWeightings is the set of recognized weighting names. Empty means WeightInverse.
var ValidSelectionWeightings = map[SelectionWeighting]bool{"": true, WeightInverse: true, WeightRaw: true}

// ParseSelectionWeighting validates name and maps "" to WeightInverse.
func ParseSelectionWeighting(name string) (SelectionWeighting, error) {
	w := SelectionWeighting(name)
	if !ValidSelectionWeightings[w] {
		return "", fmt.Errorf("unknown selection weighting %q", name)
	}
	if w == "" {
		return WeightInverse, nil
	}
	return w, nil
}

// Weight returns the selection weight for a fitness value. Failed and other non-finite or
// negative values weigh zero.
func (w SelectionWeighting) Weight(fitness float64) float64 {
	if math.IsInf(fitness, 0) || math.IsNaN(fitness) || fitness < 0 {
		return 0
	}
	if w == WeightRaw {
		return fitness
	}
	return 1 / (1 + fitness)
}

// SelectParents picks two parents by fitness-proportional sampling with replacement.
// When every weight is zero it falls back to two distinct individuals chosen uniformly.
// A population of one yields that individual twice.
func SelectParents(pop Population, w SelectionWeighting, rng *rand.Rand) (Individual, Individual) {
	weights := make([]float64, len(pop))
	total := 0.0
	for i, ind := range pop {
		weights[i] = w.Weight(ind.Fitness)
		total += weights[i]
	}
	if total == 0 {
		if len(pop) == 1 {
			return pop[0], pop[0]
		}
		i := rng.Intn(len(pop))
		j := rng.Intn(len(pop) - 1)
		if j >= i {
			j++
		}
		return pop[i], pop[j]
	}
	return pop[roulette(weights, total, rng)], pop[roulette(weights, total, rng)]
}

// roulette returns the index whose cumulative weight first exceeds a uniform draw in [0, total).
func roulette(weights []float64, total float64, rng *rand.Rand) int {
	r := rng.Float64() * total
	last := 0
	for i, wt := range weights {
		if wt == 0 {
			continue
		}
		last = i
		if r < wt {
			return i
		}
		r -= wt
	}
	// Floating-point residue can leave r just above the final weight.
	return last
}
