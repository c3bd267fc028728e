package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCmd_RegistersSubcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["optimize"], "optimize must be registered")
	assert.True(t, names["evaluate"], "evaluate must be registered")
}

func TestOptimizeCmd_FlagDefaultsMatchSearchDefaults(t *testing.T) {
	// GIVEN the registered optimize flags
	flags := optimizeCmd.Flags()

	// THEN their defaults are the documented search defaults
	for name, want := range map[string]string{
		"population":    "100",
		"elites":        "5",
		"mutation-rate": "0.05",
		"generations":   "100",
		"selection":     "inverse",
		"cache":         "memory",
		"timeout":       "0s",
		"run-id":        "genetic-algorithm",
	} {
		f := flags.Lookup(name)
		require.NotNil(t, f, "flag %s missing", name)
		assert.Equal(t, want, f.DefValue, "flag %s", name)
	}
	assert.Equal(t, "info", rootCmd.PersistentFlags().Lookup("log").DefValue)
}
