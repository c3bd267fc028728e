package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_NilIsNoOp(t *testing.T) {
	var r *Recorder
	assert.NotPanics(t, func() {
		r.Lookup("hit")
		r.Invocation(OutcomeOK, time.Second)
		r.Generation(1, 10)
	})
}

func TestRecorder_CountsByLabel(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.Lookup("hit")
	r.Lookup("hit")
	r.Lookup("miss")
	r.Invocation(OutcomeParseError, 10*time.Millisecond)
	r.Generation(3, 1234)

	assert.Equal(t, 2.0, testutil.ToFloat64(r.lookups.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.lookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.invocations.WithLabelValues(OutcomeParseError)))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.generation))
	assert.Equal(t, 1234.0, testutil.ToFloat64(r.bestFitness))

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
