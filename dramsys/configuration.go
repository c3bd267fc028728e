// Package dramsys drives the external DRAMSys memory simulator: it builds configuration
// documents from genotypes, runs the simulator once per trace and parses its execution time.
package dramsys

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dramtune/dramtune/search"
)

// PlayerTraceType is the trace-setup type for replaying a trace file.
const PlayerTraceType = "player"

// TraceSetup is one entry of the simulator's trace-setup list.
type TraceSetup struct {
	Type   string `json:"type"`
	ClkMHz int    `json:"clkMhz"`
	Name   string `json:"name"`
}

// Simulation is the "simulation" section of a configuration document.
type Simulation struct {
	AddressMapping string       `json:"addressmapping"`
	MCConfig       string       `json:"mcconfig"`
	MemSpec        string       `json:"memspec"`
	SimConfig      string       `json:"simconfig"`
	SimulationID   string       `json:"simulationid"`
	TraceSetup     []TraceSetup `json:"tracesetup"`
}

// Document is the top-level configuration file the simulator reads.
type Document struct {
	Simulation Simulation `json:"simulation"`
}

// Configuration is a genotype bound to a run identifier and a trace set. It is pure data;
// nothing touches the filesystem until Runner.Run.
type Configuration struct {
	SimulationID   string
	AddressMapping string
	MCConfig       string
	MemSpec        string
	SimConfig      string
	ClkMHz         int
	TraceSetup     []TraceSetup
}

// Build assembles a configuration for g with one trace-setup entry per trace.
func Build(g search.Genotype, runID string, traces []string) *Configuration {
	setup := make([]TraceSetup, len(traces))
	for i, trace := range traces {
		setup[i] = TraceSetup{Type: PlayerTraceType, ClkMHz: g.ClkMHz, Name: trace}
	}
	return &Configuration{
		SimulationID:   runID,
		AddressMapping: g.AddressMapping,
		MCConfig:       g.MCConfig,
		MemSpec:        g.MemSpec,
		SimConfig:      g.SimConfig,
		ClkMHz:         g.ClkMHz,
		TraceSetup:     setup,
	}
}

// Genotype returns the gene values the configuration was built from.
func (c *Configuration) Genotype() search.Genotype {
	return search.Genotype{
		AddressMapping: c.AddressMapping,
		MCConfig:       c.MCConfig,
		MemSpec:        c.MemSpec,
		SimConfig:      c.SimConfig,
		ClkMHz:         c.ClkMHz,
	}
}

// Identifier joins the five gene values. It depends only on those values, never on the run
// identifier or trace set.
func (c *Configuration) Identifier() string {
	return c.Genotype().String()
}

// Document returns the full document with every trace-setup entry.
func (c *Configuration) Document() Document {
	setup := make([]TraceSetup, len(c.TraceSetup))
	copy(setup, c.TraceSetup)
	return c.document(c.SimulationID, setup)
}

// ForTrace returns the document for a single simulator invocation: the given simulation ID and
// a trace-setup list holding only trace.
func (c *Configuration) ForTrace(instanceID, trace string) Document {
	return c.document(instanceID, []TraceSetup{{Type: PlayerTraceType, ClkMHz: c.ClkMHz, Name: trace}})
}

func (c *Configuration) document(id string, setup []TraceSetup) Document {
	return Document{Simulation: Simulation{
		AddressMapping: c.AddressMapping,
		MCConfig:       c.MCConfig,
		MemSpec:        c.MemSpec,
		SimConfig:      c.SimConfig,
		SimulationID:   id,
		TraceSetup:     setup,
	}}
}

// WriteDocument serializes doc as indented JSON to path.
func WriteDocument(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding configuration: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing configuration: %w", err)
	}
	return nil
}
