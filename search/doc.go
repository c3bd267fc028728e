// Package search implements the genetic search over memory-simulator configurations.
//
// # Reading Guide
//
//   - genotype.go: the five-gene Genotype and the Domain each gene is drawn from
//   - individual.go: Individual, Population and ranking
//   - operators.go / selection.go: crossover, mutation and parent selection
//   - evaluator.go: cache-then-simulate fitness evaluation with in-flight coalescing
//   - optimizer.go: the generation loop (evaluate, rank, elites, reproduce)
//
// Fitness is a mean simulated execution time; lower is better. A failed evaluation is
// represented by Failed (positive infinity) and always ranks last.
//
// The package has no knowledge of how a genotype is simulated. Callers supply a FitnessFunc
// (see package dramsys for the external simulator) and a Cache (see package store).
package search
