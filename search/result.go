package search

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// WriteResult saves the individual to path as six lines: fitness, address mapping,
// MC config, memory spec, sim config and clock speed.
func WriteResult(path string, best Individual) error {
	g := best.Genotype
	content := strings.Join([]string{
		formatFitness(best.Fitness),
		g.AddressMapping,
		g.MCConfig,
		g.MemSpec,
		g.SimConfig,
		strconv.Itoa(g.ClkMHz),
	}, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("writing result: %w", err)
	}
	return nil
}

// ReadResult parses a file written by WriteResult.
func ReadResult(path string) (Individual, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Individual{}, fmt.Errorf("reading result: %w", err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 6 {
		return Individual{}, fmt.Errorf("result %s: expected 6 lines, got %d", path, len(lines))
	}
	fitness, err := strconv.ParseFloat(strings.TrimSpace(lines[0]), 64)
	if err != nil {
		return Individual{}, fmt.Errorf("result %s: fitness: %w", path, err)
	}
	clk, err := strconv.Atoi(strings.TrimSpace(lines[5]))
	if err != nil {
		return Individual{}, fmt.Errorf("result %s: clock speed: %w", path, err)
	}
	return Individual{
		Genotype: Genotype{
			AddressMapping: lines[1],
			MCConfig:       lines[2],
			MemSpec:        lines[3],
			SimConfig:      lines[4],
			ClkMHz:         clk,
		},
		Fitness:   fitness,
		Evaluated: true,
	}, nil
}

func formatFitness(f float64) string {
	if math.IsInf(f, 1) {
		return "inf"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
