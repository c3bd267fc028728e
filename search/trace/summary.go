package trace

import "math"

// TraceSummary aggregates statistics from a SearchTrace.
type TraceSummary struct {
	Generations     int     `yaml:"generations"`
	BestFitness     float64 `yaml:"best_fitness"`
	BestID          string  `yaml:"best_id"`
	FoundAt         int     `yaml:"found_at"`     // first generation reaching BestFitness
	Improvements    int     `yaml:"improvements"` // generations whose best beat all earlier ones
	InitialFitness  float64 `yaml:"initial_fitness"`
	TotalFailed     int     `yaml:"total_failed"`
	FinalDiversity  float64 `yaml:"final_diversity"` // distinct/size of the last generation
	FailedFraction  float64 `yaml:"failed_fraction"`
	MeanImprovement float64 `yaml:"mean_improvement"` // (initial - best) / improvements; 0 if none
}

// Summarize computes aggregate statistics from a SearchTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SearchTrace) *TraceSummary {
	summary := &TraceSummary{}
	if st == nil || len(st.Generations) == 0 {
		return summary
	}

	summary.Generations = len(st.Generations)
	summary.InitialFitness = st.Generations[0].BestFitness
	summary.BestFitness = math.Inf(1)

	individuals := 0
	for _, g := range st.Generations {
		summary.TotalFailed += g.Failed
		individuals += g.Size
		if g.BestFitness < summary.BestFitness {
			if summary.FoundAt > 0 {
				summary.Improvements++
			}
			summary.BestFitness = g.BestFitness
			summary.BestID = g.BestID
			summary.FoundAt = g.Generation
		}
	}
	if summary.FoundAt == 0 {
		// every generation failed
		summary.BestID = st.Generations[0].BestID
		summary.FoundAt = st.Generations[0].Generation
	}

	last := st.Generations[len(st.Generations)-1]
	if last.Size > 0 {
		summary.FinalDiversity = float64(last.Distinct) / float64(last.Size)
	}
	if individuals > 0 {
		summary.FailedFraction = float64(summary.TotalFailed) / float64(individuals)
	}
	if summary.Improvements > 0 && !math.IsInf(summary.InitialFitness, 0) {
		summary.MeanImprovement = (summary.InitialFitness - summary.BestFitness) / float64(summary.Improvements)
	}
	return summary
}
