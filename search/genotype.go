package search

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strconv"
	"strings"
)

// IdentifierSeparator joins gene values in Genotype.String.
const IdentifierSeparator = "-"

// DefaultClockSpeeds are the clock speeds (MHz) searched when none are configured.
var DefaultClockSpeeds = []int{200, 400, 800}

// Genotype is one candidate simulator configuration. The four string genes reference option
// files; ClkMHz is the clock speed. Genotype is a comparable value type.
type Genotype struct {
	AddressMapping string
	MCConfig       string
	MemSpec        string
	SimConfig      string
	ClkMHz         int
}

// String joins the gene values with IdentifierSeparator. Equal genotypes always yield equal strings.
func (g Genotype) String() string {
	return strings.Join([]string{
		g.AddressMapping,
		g.MCConfig,
		g.MemSpec,
		g.SimConfig,
		strconv.Itoa(g.ClkMHz),
	}, IdentifierSeparator)
}

// Domain holds the finite set of values every gene may take. It is populated once at startup
// and must not be modified while a search is running.
type Domain struct {
	AddressMappings []string
	MCConfigs       []string
	MemSpecs        []string
	SimConfigs      []string
	ClockSpeeds     []int
}

// ErrEmptyDomain is returned by Validate when any gene has no values.
var ErrEmptyDomain = errors.New("empty gene domain")

// Validate reports an error naming the first gene with an empty domain.
func (d Domain) Validate() error {
	switch {
	case len(d.AddressMappings) == 0:
		return fmt.Errorf("%w: no address mappings", ErrEmptyDomain)
	case len(d.MCConfigs) == 0:
		return fmt.Errorf("%w: no MC configs", ErrEmptyDomain)
	case len(d.MemSpecs) == 0:
		return fmt.Errorf("%w: no memory specs", ErrEmptyDomain)
	case len(d.SimConfigs) == 0:
		return fmt.Errorf("%w: no sim configs", ErrEmptyDomain)
	case len(d.ClockSpeeds) == 0:
		return fmt.Errorf("%w: no clock speeds", ErrEmptyDomain)
	}
	return nil
}

// Size returns the number of distinct genotypes the domain spans.
func (d Domain) Size() int {
	return len(d.AddressMappings) * len(d.MCConfigs) * len(d.MemSpecs) * len(d.SimConfigs) * len(d.ClockSpeeds)
}

// Contains reports whether every gene of g belongs to the domain.
func (d Domain) Contains(g Genotype) bool {
	return slices.Contains(d.AddressMappings, g.AddressMapping) &&
		slices.Contains(d.MCConfigs, g.MCConfig) &&
		slices.Contains(d.MemSpecs, g.MemSpec) &&
		slices.Contains(d.SimConfigs, g.SimConfig) &&
		slices.Contains(d.ClockSpeeds, g.ClkMHz)
}

// Random draws every gene uniformly from the domain.
func (d Domain) Random(rng *rand.Rand) Genotype {
	return Genotype{
		AddressMapping: d.AddressMappings[rng.Intn(len(d.AddressMappings))],
		MCConfig:       d.MCConfigs[rng.Intn(len(d.MCConfigs))],
		MemSpec:        d.MemSpecs[rng.Intn(len(d.MemSpecs))],
		SimConfig:      d.SimConfigs[rng.Intn(len(d.SimConfigs))],
		ClkMHz:         d.ClockSpeeds[rng.Intn(len(d.ClockSpeeds))],
	}
}
