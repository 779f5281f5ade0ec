package metrics

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-go/neat"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)

	r.Observe(neat.MutationResult{Operator: neat.OpAddNode, Accepted: true, Attempts: 1})
	r.Observe(neat.MutationResult{Operator: neat.OpAddNode, Accepted: true, Attempts: 2})
	r.Observe(neat.MutationResult{Operator: neat.OpAddConnection, Accepted: false, Attempts: 5})

	assert.Equal(t, 2.0, testutil.ToFloat64(r.MutationsTotal.WithLabelValues("add_node", OutcomeAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.MutationsTotal.WithLabelValues("add_connection", OutcomeRejected)))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.MutationsTotal.WithLabelValues("toggle_connection", OutcomeAccepted)))

	g, err := neat.NewGenotype(3, 2, neat.WithSeed(1), neat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	ok, err := g.AddNode()
	require.NoError(t, err)
	require.True(t, ok)
	r.SetSize(g)

	assert.Equal(t, 6.0, testutil.ToFloat64(r.GenotypeNodes))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.GenotypeConnections.WithLabelValues("enabled")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.GenotypeConnections.WithLabelValues("disabled")))
}

func TestWriteText(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRecorder(reg)
	r.Observe(neat.MutationResult{Operator: neat.OpToggleConnection, Accepted: true, Attempts: 1})

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, "# TYPE neat_mutations_total counter")
	assert.Contains(t, out, `neat_mutations_total{operator="toggle_connection",outcome="accepted"} 1`)
	assert.Contains(t, out, "neat_genotype_nodes 0")
}

func TestDoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewRecorder(reg)
	assert.Panics(t, func() { NewRecorder(reg) })
}
