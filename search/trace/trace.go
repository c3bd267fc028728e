package trace

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// SearchTrace collects generation records during a search.
type SearchTrace struct {
	Seed        int64              `yaml:"seed"`
	Generations []GenerationRecord `yaml:"generations"`
}

// NewSearchTrace creates a SearchTrace ready for recording.
func NewSearchTrace(seed int64) *SearchTrace {
	return &SearchTrace{
		Seed:        seed,
		Generations: make([]GenerationRecord, 0),
	}
}

// RecordGeneration appends a generation record.
func (st *SearchTrace) RecordGeneration(record GenerationRecord) {
	st.Generations = append(st.Generations, record)
}

// traceFile is the on-disk layout: the raw records followed by their summary.
type traceFile struct {
	Trace   *SearchTrace  `yaml:"trace"`
	Summary *TraceSummary `yaml:"summary"`
}

// Write saves the trace and its summary as YAML.
func (st *SearchTrace) Write(path string) error {
	data, err := yaml.Marshal(traceFile{Trace: st, Summary: Summarize(st)})
	if err != nil {
		return fmt.Errorf("encoding search trace: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing search trace: %w", err)
	}
	return nil
}
