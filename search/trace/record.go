// Package trace records per-generation statistics of a search for later analysis.
// This package has no dependencies on search/; it stores pure data types.
package trace

// GenerationRecord captures the ranked population of one generation.
type GenerationRecord struct {
	Generation  int     `yaml:"generation"`
	BestFitness float64 `yaml:"best_fitness"`
	BestID      string  `yaml:"best_id"`
	MeanFitness float64 `yaml:"mean_fitness"` // over individuals with a finite fitness; 0 if none
	Failed      int     `yaml:"failed"`       // individuals with the failed sentinel
	Distinct    int     `yaml:"distinct"`     // distinct genotypes in the population
	Size        int     `yaml:"size"`
}
