package trace

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSearchTrace_RecordGeneration_AppendsInOrder(t *testing.T) {
	st := NewSearchTrace(7)
	st.RecordGeneration(GenerationRecord{Generation: 1})
	st.RecordGeneration(GenerationRecord{Generation: 2})

	require.Len(t, st.Generations, 2)
	assert.Equal(t, 1, st.Generations[0].Generation)
	assert.Equal(t, 2, st.Generations[1].Generation)
}

func TestSearchTrace_Write_IncludesSummary(t *testing.T) {
	st := NewSearchTrace(7)
	st.RecordGeneration(GenerationRecord{Generation: 1, BestFitness: 10, BestID: "g", Size: 1, Distinct: 1})
	path := filepath.Join(t.TempDir(), "trace.yaml")

	require.NoError(t, st.Write(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var out struct {
		Trace   SearchTrace  `yaml:"trace"`
		Summary TraceSummary `yaml:"summary"`
	}
	require.NoError(t, yaml.Unmarshal(data, &out))
	assert.Equal(t, int64(7), out.Trace.Seed)
	assert.Equal(t, "g", out.Summary.BestID)
	assert.Equal(t, 10.0, out.Summary.BestFitness)
}
