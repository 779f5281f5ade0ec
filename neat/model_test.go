package neat

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteModelFormat(t *testing.T) {
	g := newTestGenotype(t, 2, 1)

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, g))
	assert.Equal(t, "3\n1 2 3 \nS S O \n2\n1 3 1 E 1\n2 3 1 E 1\n", buf.String())
}

func TestModelRoundTrip(t *testing.T) {
	g := newTestGenotype(t, 3, 2, WithSeed(17))
	cfg := &MutationConfig{AddNodeProb: 0.5, AddConnectionProb: 0.8, ToggleConnectionProb: 0.3, Attempts: 5}
	for i := 0; i < 30; i++ {
		_, err := g.Mutate(cfg)
		require.NoError(t, err)
	}

	path := ModelPath(t.TempDir(), g.ID)
	assert.Equal(t, ".model", filepath.Ext(path))
	require.NoError(t, DumpModel(g, path))

	loaded, err := LoadModel(path, quietLogger())
	require.NoError(t, err)
	assert.Equal(t, g.Nodes(), loaded.Nodes())
	assert.Equal(t, g.Connections(), loaded.Connections())
	assert.Equal(t, g.EnabledCount(), loaded.EnabledCount())
	requireConsistent(t, loaded)

	// New nodes continue after the highest loaded id.
	ok, err := loaded.AddNode()
	require.NoError(t, err)
	if ok {
		nodes := loaded.Nodes()
		assert.Equal(t, g.nextNodeID, nodes[len(nodes)-1].ID)
	}
}

func TestModelKeepsExactWeights(t *testing.T) {
	weights := []float64{0.1 + 0.2, -1e-300, 123456.789, math.SmallestNonzeroFloat64, math.Copysign(0, -1)}
	nodes := []NodeGene{{ID: 1, Type: SensorNode}}
	var conns []ConnectionGene
	for i, w := range weights {
		id := uint64(i + 2)
		nodes = append(nodes, NodeGene{ID: id, Type: OutputNode})
		conns = append(conns, ConnectionGene{Source: 1, Target: id, Weight: w, Enabled: i%2 == 0, Lineage: uint64(i + 1)})
	}
	g, err := FromGenes(nodes, conns, quietLogger())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, g))
	loaded, err := ReadModel(&buf, quietLogger())
	require.NoError(t, err)

	for i, c := range loaded.Connections() {
		assert.Equal(t, math.Float64bits(weights[i]), math.Float64bits(c.Weight), "weight %d", i)
		assert.Equal(t, i%2 == 0, c.Enabled)
		assert.Equal(t, uint64(i+1), c.Lineage)
	}
}

func TestReadModelMalformed(t *testing.T) {
	cases := map[string]string{
		"empty":              "",
		"bad node count":     "x\n",
		"missing ids":        "3\n1 2\n",
		"bad role":           "2\n1 2\nS X\n0\n",
		"long role":          "2\n1 2\nS OO\n0\n",
		"missing conn count": "2\n1 2\nS O\n",
		"bad weight":         "2\n1 2\nS O\n1\n1 2 abc E 1\n",
		"bad flag":           "2\n1 2\nS O\n1\n1 2 1 X 1\n",
		"truncated conn":     "2\n1 2\nS O\n1\n1 2 1\n",
		"negative id":        "2\n-1 2\nS O\n0\n",
		"trailing data":      "2\n1 2\nS O\n0\n7\n",
		"unknown endpoint":   "2\n1 2\nS O\n1\n1 5 1 E 1\n",
		"duplicate node":     "2\n1 1\nS O\n0\n",
		"cycle":              "3\n1 2 3\nS H H\n3\n1 2 1 E 1\n2 3 1 E 1\n3 2 1 E 1\n",
		"huge count":         "99999999999\n",
		"max uint64 id":      "2\n1 18446744073709551615\nS O\n1\n1 18446744073709551615 1 E 1\n",
		"id 1<<62":           "2\n1 4611686018427387904\nS O\n1\n1 4611686018427387904 1 E 1\n",
		"id past limit":      "2\n1 1048577\nS O\n0\n",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadModel(strings.NewReader(src), quietLogger())
			require.ErrorIs(t, err, ErrMalformedModel)
		})
	}
}

func TestReadModelHighestValidID(t *testing.T) {
	src := "2\n1 1048576\nS O\n1\n1 1048576 1 E 1\n"
	g, err := ReadModel(strings.NewReader(src), quietLogger())
	require.NoError(t, err)
	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 1048576}, order)

	// The id space is used up, so no further node can be split in.
	ok, err := g.AddNode()
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 2, g.NodeCount())
	requireConsistent(t, g)
}

func TestNaNWeightIsConsistent(t *testing.T) {
	src := "3\n1 2 3\nS O O\n2\n1 2 NaN E 1\n1 3 +Inf D 1\n"
	g, err := ReadModel(strings.NewReader(src), quietLogger())
	require.NoError(t, err)
	require.NoError(t, g.Validate())
	requireConsistent(t, g)

	var buf bytes.Buffer
	require.NoError(t, WriteModel(&buf, g))
	again, err := ReadModel(&buf, quietLogger())
	require.NoError(t, err)
	c, ok := again.Connection(1, 2)
	require.True(t, ok)
	assert.True(t, math.IsNaN(c.Weight))
	require.NoError(t, again.Validate())
}

func TestReadModelAcceptsDisabledCycle(t *testing.T) {
	src := "3\n1 2 3\nS H H\n3\n1 2 1 E 1\n2 3 1 E 1\n3 2 0.5 D 1\n"
	g, err := ReadModel(strings.NewReader(src), quietLogger())
	require.NoError(t, err)
	assert.Equal(t, 2, g.EnabledCount())
	requireConsistent(t, g)
}

func TestLoadModelFileErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadModel(filepath.Join(dir, "missing.model"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)

	empty := filepath.Join(dir, "empty.model")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	_, err = LoadModel(empty)
	require.ErrorIs(t, err, ErrMalformedModel)

	require.Error(t, DumpModel(newTestGenotype(t, 1, 1), filepath.Join(dir, "no", "such", "dir.model")))
}
