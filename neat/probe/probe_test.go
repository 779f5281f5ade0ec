package probe

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/baldhumanity/neat-go/neat"
)

func sample(t *testing.T) *neat.Genotype {
	t.Helper()
	g, err := neat.FromGenes([]neat.NodeGene{
		{ID: 1, Type: neat.SensorNode},
		{ID: 2, Type: neat.OutputNode},
		{ID: 3, Type: neat.HiddenNode},
	}, []neat.ConnectionGene{
		{Source: 1, Target: 2, Weight: 0.5, Enabled: false, Lineage: 1},
		{Source: 1, Target: 3, Weight: 1, Enabled: true, Lineage: 1},
		{Source: 3, Target: 2, Weight: 0.5, Enabled: true, Lineage: 1},
	}, neat.WithID("sample"), neat.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)
	return g
}

func TestPrintSectionsMatchModel(t *testing.T) {
	g := sample(t)

	var printed bytes.Buffer
	require.NoError(t, PrintNodes(&printed, g))
	require.NoError(t, PrintConnections(&printed, g))

	var model bytes.Buffer
	require.NoError(t, neat.WriteModel(&model, g))
	assert.Equal(t, model.String(), printed.String())
	assert.Equal(t, "3\n1 2 3 \nS O H \n", strings.Join(strings.SplitAfter(printed.String(), "\n")[:3], ""))
}

func TestWriteSnapshot(t *testing.T) {
	g := sample(t)
	g.Fitness = 2

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshot(&buf, g))

	var got Snapshot
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "sample", got.ID)
	assert.Equal(t, 2.0, got.Fitness)
	assert.Equal(t, []SnapshotNode{{1, "sensor"}, {2, "output"}, {3, "hidden"}}, got.Nodes)
	require.Len(t, got.Connections, 3)
	assert.False(t, got.Connections[0].Enabled)
	assert.Equal(t, SnapshotSummary{EnabledConnections: 2, Components: 1, Order: []uint64{1, 3, 2}}, got.Summary)
	assert.Contains(t, buf.String(), "order: [1, 3, 2]")
}

func TestMarshalDOT(t *testing.T) {
	b, err := MarshalDOT(sample(t))
	require.NoError(t, err)
	out := string(b)

	assert.True(t, strings.HasPrefix(out, "digraph genotype {"))
	for _, want := range []string{"green2", "grey", "pink", "rankdir=LR", "shape=circle", "Weight: 0.5", "blue", "red", "1 -> 2", "3 -> 2"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, 1, strings.Count(out, "red"), "one disabled connection")
}

func TestRenderImage(t *testing.T) {
	dir := t.TempDir()
	g := sample(t)

	_, err := RenderImage(context.Background(), g, dir, "neatgraph-no-such-dot-binary")
	require.Error(t, err)
	_, statErr := os.Stat(filepath.Join(dir, "sample.dot"))
	require.NoError(t, statErr, "dot file is written before the external tool runs")

	if _, err := exec.LookPath("true"); err != nil {
		t.Skip("no 'true' binary to stand in for dot")
	}
	png, err := RenderImage(context.Background(), g, dir, "true")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "sample.png"), png)
}
