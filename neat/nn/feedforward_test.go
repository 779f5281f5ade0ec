package nn

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/baldhumanity/neat-go/neat"
)

func quiet() neat.Option {
	return neat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestActivateInitialGenotype(t *testing.T) {
	g, err := neat.NewGenotype(2, 1, quiet())
	require.NoError(t, err)

	net, err := CreateFeedForwardNetwork(g, "identity", "sum")
	require.NoError(t, err)
	assert.Equal(t, []uint64{3}, net.EvalOrder)

	out, err := net.Activate(DataPkt{1: 0.25, 2: 0.5})
	require.NoError(t, err)
	assert.Equal(t, DataPkt{3: 0.75}, out)
}

func TestActivateHiddenLayer(t *testing.T) {
	// 1 -> 4 (w 2) -> 3 (w -1), 2 -> 3 (w 0.5), and a disabled 1 -> 3.
	g, err := neat.FromGenes([]neat.NodeGene{
		{ID: 1, Type: neat.SensorNode},
		{ID: 2, Type: neat.SensorNode},
		{ID: 3, Type: neat.OutputNode},
		{ID: 4, Type: neat.HiddenNode},
	}, []neat.ConnectionGene{
		{Source: 1, Target: 3, Weight: 10, Enabled: false, Lineage: 1},
		{Source: 1, Target: 4, Weight: 2, Enabled: true, Lineage: 1},
		{Source: 4, Target: 3, Weight: -1, Enabled: true, Lineage: 1},
		{Source: 2, Target: 3, Weight: 0.5, Enabled: true, Lineage: 1},
	}, quiet())
	require.NoError(t, err)

	net, err := CreateFeedForwardNetwork(g, "identity", "sum")
	require.NoError(t, err)
	assert.Equal(t, []uint64{4, 3}, net.EvalOrder)

	out, err := net.Activate(DataPkt{1: 1, 2: 4, 99: 7})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, out[3], 1e-12)

	relu, err := CreateFeedForwardNetwork(g, "relu", "max")
	require.NoError(t, err)
	out, err = relu.Activate(DataPkt{1: 1, 2: 4})
	require.NoError(t, err)
	assert.Equal(t, 2.0, out[3])
}

func TestActivateErrors(t *testing.T) {
	g, err := neat.NewGenotype(2, 1, quiet())
	require.NoError(t, err)

	_, err = CreateFeedForwardNetwork(g, "softplus", "sum")
	require.Error(t, err)
	_, err = CreateFeedForwardNetwork(g, "sigmoid", "mode")
	require.Error(t, err)

	net, err := CreateFeedForwardNetwork(g, "sigmoid", "sum")
	require.NoError(t, err)
	_, err = net.Activate(DataPkt{1: 1})
	require.ErrorContains(t, err, "sensor node 2")
}

func TestOutputWithoutInputs(t *testing.T) {
	g, err := neat.FromGenes([]neat.NodeGene{
		{ID: 1, Type: neat.SensorNode},
		{ID: 2, Type: neat.OutputNode},
	}, []neat.ConnectionGene{
		{Source: 1, Target: 2, Weight: 1, Enabled: false, Lineage: 1},
	}, quiet())
	require.NoError(t, err)

	net, err := CreateFeedForwardNetwork(g, "sigmoid", "sum")
	require.NoError(t, err)
	out, err := net.Activate(DataPkt{1: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, out[2], 1e-12)
}
