package trace

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-go/neat"
)

func TestWriterHeaderOnce(t *testing.T) {
	g, err := neat.NewGenotype(2, 1, neat.WithSeed(2), neat.WithID("g1"),
		neat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	var buf bytes.Buffer
	w := NewWriter(&buf)
	cfg := &neat.MutationConfig{AddNodeProb: 1, AddConnectionProb: 1, ToggleConnectionProb: 1, Attempts: 3}
	for step := 1; step <= 3; step++ {
		results, err := g.Mutate(cfg)
		require.NoError(t, err)
		for _, res := range results {
			require.NoError(t, w.Write(NewRecord(step, g, res)))
		}
	}
	require.Equal(t, 9, w.Rows())

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "step,genotype,operator"))
	assert.True(t, strings.HasPrefix(out, "step,genotype,operator,accepted,attempts,nodes,connections,enabled_connections,components\n"))

	records, err := Read(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, records, 9)
	assert.Equal(t, "add_node", records[0].Operator)
	assert.True(t, records[0].Accepted)
	assert.Equal(t, "g1", records[8].Genotype)
	assert.Equal(t, 3, records[8].Step)
	assert.Equal(t, g.NodeCount(), records[8].Nodes)
	assert.Equal(t, g.EnabledCount(), records[8].EnabledConnections)
}

func TestRecordsSizePerOperator(t *testing.T) {
	g, err := neat.NewGenotype(2, 1, neat.WithSeed(8),
		neat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	nodes, conns, enabled := g.NodeCount(), g.ConnectionCount(), g.EnabledCount()

	cfg := &neat.MutationConfig{AddNodeProb: 1, AddConnectionProb: 1, ToggleConnectionProb: 1, Attempts: 10}
	results, err := g.Mutate(cfg)
	require.NoError(t, err)
	require.Len(t, results, 3)

	var records []Record
	for _, res := range results {
		records = append(records, NewRecord(1, g, res))
	}

	split := records[0]
	require.Equal(t, "add_node", split.Operator)
	require.True(t, split.Accepted)
	assert.Equal(t, nodes+1, split.Nodes)
	assert.Equal(t, conns+2, split.Connections)
	assert.Equal(t, enabled+1, split.EnabledConnections)
	assert.Equal(t, 1, split.Components)

	// Toggling always succeeds here: no disabled gene can close a cycle.
	toggle := records[2]
	require.Equal(t, "toggle_connection", toggle.Operator)
	require.True(t, toggle.Accepted)
	diff := toggle.EnabledConnections - records[1].EnabledConnections
	assert.True(t, diff == 1 || diff == -1, "toggle changed enabled count by %d", diff)
	assert.Equal(t, g.EnabledCount(), toggle.EnabledConnections)
	assert.Equal(t, g.ConnectionCount(), toggle.Connections)
}

func TestNilWriter(t *testing.T) {
	var w *Writer
	require.NoError(t, w.Write(Record{Step: 1}))
	assert.Zero(t, w.Rows())
}
