package search

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteResult_SixLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	best := Individual{
		Genotype: Genotype{"/cfg/am.json", "/cfg/mc.json", "/cfg/mem.json", "/cfg/sim.json", 800},
		Fitness:  1234.5,
	}
	require.NoError(t, WriteResult(path, best))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "1234.5\n/cfg/am.json\n/cfg/mc.json\n/cfg/mem.json\n/cfg/sim.json\n800\n", string(data))

	back, err := ReadResult(path)
	require.NoError(t, err)
	assert.Equal(t, best.Genotype, back.Genotype)
	assert.Equal(t, best.Fitness, back.Fitness)
}

func TestWriteResult_FailedFitness(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	require.NoError(t, WriteResult(path, NewIndividual(Genotype{"a", "b", "c", "d", 200})))

	back, err := ReadResult(path)
	require.NoError(t, err)
	assert.Equal(t, Failed, back.Fitness)
}

func TestReadResult_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.txt")
	require.NoError(t, os.WriteFile(path, []byte("12\na\nb\n"), 0o644))
	_, err := ReadResult(path)
	assert.Error(t, err)
}
